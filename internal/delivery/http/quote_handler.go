package http

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"stocksim/internal/delivery/http/dto"
	"stocksim/internal/domain"
)

// QuoteHandler handles quote lookups
type QuoteHandler struct {
	ledger domain.LedgerService
}

// NewQuoteHandler creates a new QuoteHandler
func NewQuoteHandler(ledger domain.LedgerService) *QuoteHandler {
	return &QuoteHandler{ledger: ledger}
}

// GetQuote returns the current quote for a symbol
// GET /api/quote/:symbol
func (h *QuoteHandler) GetQuote(c echo.Context) error {
	symbol := c.Param("symbol")

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	quote, err := h.ledger.GetQuote(ctx, symbol)
	if err != nil {
		return DomainErrorResponse(c, err)
	}

	return SuccessResponse(c, dto.QuoteOutput{
		Symbol: quote.Symbol,
		Name:   quote.Name,
		Price:  quote.Price.String(),
	})
}

// Check is a reserved username-availability endpoint. The lookup was
// never implemented; clients get a fixed placeholder body.
// GET /check
func (h *QuoteHandler) Check(c echo.Context) error {
	return c.JSON(http.StatusOK, "TODO")
}
