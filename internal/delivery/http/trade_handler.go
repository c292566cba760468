package http

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"stocksim/internal/delivery/http/dto"
	"stocksim/internal/domain"
	"stocksim/internal/middleware"
)

// TradeHandler handles buy and sell orders
type TradeHandler struct {
	ledger domain.LedgerService
}

// NewTradeHandler creates a new TradeHandler
func NewTradeHandler(ledger domain.LedgerService) *TradeHandler {
	return &TradeHandler{ledger: ledger}
}

// Buy executes a buy order for the authenticated user
// POST /api/trades/buy
func (h *TradeHandler) Buy(c echo.Context) error {
	return h.execute(c, h.ledger.Buy)
}

// Sell executes a sell order for the authenticated user
// POST /api/trades/sell
func (h *TradeHandler) Sell(c echo.Context) error {
	return h.execute(c, h.ledger.Sell)
}

type orderFunc func(ctx context.Context, userID uuid.UUID, symbol string, shares int64) (*domain.Transaction, error)

func (h *TradeHandler) execute(c echo.Context, order orderFunc) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return UnauthorizedResponse(c, "User not authenticated")
	}

	var req dto.TradeRequest
	if err := c.Bind(&req); err != nil {
		return BadRequestResponse(c, "Invalid request payload")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 15*time.Second)
	defer cancel()

	trade, err := order(ctx, userID, req.Symbol, req.Shares)
	if err != nil {
		return DomainErrorResponse(c, err)
	}

	return SuccessResponse(c, dto.TradeResponse{
		TransactionID: trade.ID.String(),
		Symbol:        trade.Symbol,
		Shares:        trade.Shares,
		Price:         trade.PriceOfShare.String(),
		Cost:          trade.Cost.StringFixed(2),
	})
}
