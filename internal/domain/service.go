package domain

import (
	"context"

	"github.com/google/uuid"
)

// LedgerService defines the interface for the trading engine
type LedgerService interface {
	// Buy purchases shares of symbol at the current quoted price.
	Buy(ctx context.Context, userID uuid.UUID, symbol string, shares int64) (*Transaction, error)

	// Sell disposes of shares of symbol at the current quoted price.
	Sell(ctx context.Context, userID uuid.UUID, symbol string, shares int64) (*Transaction, error)

	// Portfolio derives the user's current holdings from the ledger and
	// decorates them with live quote prices.
	Portfolio(ctx context.Context, userID uuid.UUID) (*Portfolio, error)

	// History returns the user's transactions in chronological order.
	History(ctx context.Context, userID uuid.UUID) ([]*Transaction, error)

	// GetQuote resolves the current quote for a symbol.
	GetQuote(ctx context.Context, symbol string) (*Quote, error)
}
