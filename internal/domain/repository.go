package domain

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	// Create creates a new user. It returns ErrConflict if the
	// username is already taken.
	Create(ctx context.Context, user *User) error

	// GetByID retrieves a user by ID
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)

	// GetByUsername retrieves a user by username (exact match)
	GetByUsername(ctx context.Context, username string) (*User, error)
}

// LedgerRepository defines the interface for trade ledger operations.
// ExecuteBuy and ExecuteSell run the cash mutation and the ledger
// append in one database transaction with the user row locked, so the
// funds and holdings checks cannot race with concurrent requests.
type LedgerRepository interface {
	// ExecuteBuy debits the user's cash by price*shares and appends a
	// positive ledger row. Returns ErrInsufficientFunds if the cost
	// exceeds the cash balance at commit time.
	ExecuteBuy(ctx context.Context, userID uuid.UUID, symbol string, shares int64, price decimal.Decimal) (*Transaction, error)

	// ExecuteSell credits the user's cash by price*shares and appends a
	// negative ledger row. Returns ErrInsufficientShares if the user
	// does not hold that many net shares at commit time.
	ExecuteSell(ctx context.Context, userID uuid.UUID, symbol string, shares int64, price decimal.Decimal) (*Transaction, error)

	// GetHoldings returns the user's net positions, one per symbol with
	// SUM(shares) > 0, ordered by symbol. Price and Value are left for
	// the caller to decorate.
	GetHoldings(ctx context.Context, userID uuid.UUID) ([]*Holding, error)

	// GetHistory returns all ledger rows for the user, chronological.
	GetHistory(ctx context.Context, userID uuid.UUID) ([]*Transaction, error)
}

// SessionRepository defines the interface for session data operations
type SessionRepository interface {
	// Create persists a new session
	Create(ctx context.Context, session *Session) error

	// GetByID retrieves a session by ID, ErrNotFound if absent
	GetByID(ctx context.Context, id uuid.UUID) (*Session, error)

	// Delete removes a session (logout / revocation)
	Delete(ctx context.Context, id uuid.UUID) error

	// DeleteExpired removes all sessions past their expiry and reports
	// how many rows were purged
	DeleteExpired(ctx context.Context) (int64, error)
}
