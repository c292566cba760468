package domain

import (
	"context"

	"github.com/shopspring/decimal"
)

// Quote is a snapshot price for a ticker symbol at a point in time.
type Quote struct {
	Symbol string          `json:"symbol"`
	Name   string          `json:"name"`
	Price  decimal.Decimal `json:"price"`
}

// QuoteService defines the interface for the external quote collaborator
type QuoteService interface {
	// Lookup resolves the current quote for a symbol. It returns
	// ErrNotFound for symbols the collaborator does not know.
	Lookup(ctx context.Context, symbol string) (*Quote, error)
}
