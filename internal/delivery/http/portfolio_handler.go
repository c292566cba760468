package http

import (
	"context"
	"time"

	"github.com/labstack/echo/v4"

	"stocksim/internal/delivery/http/dto"
	"stocksim/internal/domain"
	"stocksim/internal/middleware"
)

// PortfolioHandler handles the derived portfolio and history views
type PortfolioHandler struct {
	ledger domain.LedgerService
}

// NewPortfolioHandler creates a new PortfolioHandler
func NewPortfolioHandler(ledger domain.LedgerService) *PortfolioHandler {
	return &PortfolioHandler{ledger: ledger}
}

// GetPortfolio returns the authenticated user's current holdings,
// cash, and grand total
// GET /api/portfolio
func (h *PortfolioHandler) GetPortfolio(c echo.Context) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return UnauthorizedResponse(c, "User not authenticated")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 15*time.Second)
	defer cancel()

	portfolio, err := h.ledger.Portfolio(ctx, userID)
	if err != nil {
		return DomainErrorResponse(c, err)
	}

	out := dto.PortfolioOutput{
		Holdings: make([]dto.HoldingOutput, 0, len(portfolio.Holdings)),
		Cash:     portfolio.Cash.StringFixed(2),
		Total:    portfolio.Total.StringFixed(2),
	}
	for _, holding := range portfolio.Holdings {
		out.Holdings = append(out.Holdings, dto.HoldingOutput{
			Symbol: holding.Symbol,
			Shares: holding.Shares,
			Price:  holding.Price.String(),
			Value:  holding.Value.StringFixed(2),
		})
	}

	return SuccessResponse(c, out)
}

// GetHistory returns the authenticated user's transactions, oldest first
// GET /api/history
func (h *PortfolioHandler) GetHistory(c echo.Context) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return UnauthorizedResponse(c, "User not authenticated")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	trades, err := h.ledger.History(ctx, userID)
	if err != nil {
		return DomainErrorResponse(c, err)
	}

	out := make([]dto.TransactionOutput, 0, len(trades))
	for _, trade := range trades {
		out = append(out, dto.TransactionOutput{
			ID:        trade.ID.String(),
			Symbol:    trade.Symbol,
			Shares:    trade.Shares,
			Price:     trade.PriceOfShare.String(),
			Cost:      trade.Cost.StringFixed(2),
			CreatedAt: trade.CreatedAt.Format(time.RFC3339),
		})
	}

	return SuccessResponse(c, out)
}
