package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"stocksim/internal/domain"
)

// LedgerRepositoryImpl implements the LedgerRepository interface.
//
// Buys and sells lock the user row with SELECT ... FOR UPDATE and
// re-run the funds/holdings check inside the same transaction, so two
// concurrent orders for one user serialize on the row lock and can
// neither overdraw cash nor oversell a position.
type LedgerRepositoryImpl struct {
	db *pgxpool.Pool
}

// NewLedgerRepository creates a new LedgerRepository
func NewLedgerRepository(db *pgxpool.Pool) domain.LedgerRepository {
	return &LedgerRepositoryImpl{db: db}
}

// ExecuteBuy debits cash and appends a positive ledger row atomically
func (r *LedgerRepositoryImpl) ExecuteBuy(ctx context.Context, userID uuid.UUID, symbol string, shares int64, price decimal.Decimal) (*domain.Transaction, error) {
	cost := price.Mul(decimal.NewFromInt(shares))

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin buy transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	cash, err := lockUserCash(ctx, tx, userID)
	if err != nil {
		return nil, err
	}

	if cash.LessThan(cost) {
		return nil, fmt.Errorf("cost %s exceeds cash %s: %w", cost, cash, domain.ErrInsufficientFunds)
	}

	trade, err := applyTrade(ctx, tx, userID, symbol, shares, price, cost)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit buy: %w", err)
	}

	return trade, nil
}

// ExecuteSell credits cash and appends a negative ledger row atomically
func (r *LedgerRepositoryImpl) ExecuteSell(ctx context.Context, userID uuid.UUID, symbol string, shares int64, price decimal.Decimal) (*domain.Transaction, error) {
	proceeds := price.Mul(decimal.NewFromInt(shares))

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin sell transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	// Take the row lock before aggregating so a concurrent sell for the
	// same user cannot read the same holding
	if _, err := lockUserCash(ctx, tx, userID); err != nil {
		return nil, err
	}

	var held int64
	err = tx.QueryRow(ctx, `
		SELECT COALESCE(SUM(shares), 0)::bigint
		FROM portfolio
		WHERE user_id = $1 AND symbol = $2
	`, userID, symbol).Scan(&held)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate holding for %s: %w", symbol, err)
	}

	if held < shares {
		return nil, fmt.Errorf("selling %d of %d held: %w", shares, held, domain.ErrInsufficientShares)
	}

	trade, err := applyTrade(ctx, tx, userID, symbol, -shares, price, proceeds)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit sell: %w", err)
	}

	return trade, nil
}

// lockUserCash reads the user's cash balance under a row lock held for
// the remainder of the transaction.
func lockUserCash(ctx context.Context, tx pgx.Tx, userID uuid.UUID) (decimal.Decimal, error) {
	var cash decimal.Decimal
	err := tx.QueryRow(ctx, `
		SELECT cash FROM users WHERE id = $1 FOR UPDATE
	`, userID).Scan(&cash)

	if errors.Is(err, pgx.ErrNoRows) {
		return decimal.Decimal{}, fmt.Errorf("user %s: %w", userID, domain.ErrNotFound)
	}
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("failed to lock user row: %w", err)
	}

	return cash, nil
}

// applyTrade moves cash and appends the ledger row. Shares carries the
// sign of the trade; cost is the positive cash amount moved either way.
func applyTrade(ctx context.Context, tx pgx.Tx, userID uuid.UUID, symbol string, shares int64, price, cost decimal.Decimal) (*domain.Transaction, error) {
	delta := cost
	if shares > 0 {
		delta = cost.Neg()
	}

	_, err := tx.Exec(ctx, `
		UPDATE users
		SET cash = cash + $1, updated_at = NOW()
		WHERE id = $2
	`, delta, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to update cash: %w", err)
	}

	trade := &domain.Transaction{
		ID:           uuid.New(),
		UserID:       userID,
		Symbol:       symbol,
		PriceOfShare: price,
		Shares:       shares,
		Cost:         cost,
		CreatedAt:    time.Now(),
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO portfolio (
			id, user_id, symbol, price_of_share, cost, shares, created_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7
		)
	`,
		trade.ID,
		trade.UserID,
		trade.Symbol,
		trade.PriceOfShare,
		trade.Cost,
		trade.Shares,
		trade.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to append ledger row: %w", err)
	}

	return trade, nil
}

// GetHoldings returns net positions per symbol with more than zero shares
func (r *LedgerRepositoryImpl) GetHoldings(ctx context.Context, userID uuid.UUID) ([]*domain.Holding, error) {
	query := `
		SELECT symbol, SUM(shares)::bigint AS net_shares
		FROM portfolio
		WHERE user_id = $1
		GROUP BY symbol
		HAVING SUM(shares) > 0
		ORDER BY symbol ASC
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query holdings: %w", err)
	}
	defer rows.Close()

	var holdings []*domain.Holding
	for rows.Next() {
		holding := &domain.Holding{}
		if err := rows.Scan(&holding.Symbol, &holding.Shares); err != nil {
			return nil, fmt.Errorf("failed to scan holding: %w", err)
		}
		holdings = append(holdings, holding)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating holdings: %w", err)
	}

	return holdings, nil
}

// GetHistory returns all ledger rows for the user, oldest first
func (r *LedgerRepositoryImpl) GetHistory(ctx context.Context, userID uuid.UUID) ([]*domain.Transaction, error) {
	query := `
		SELECT id, user_id, symbol, price_of_share, shares, cost, created_at
		FROM portfolio
		WHERE user_id = $1
		ORDER BY created_at ASC, id ASC
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var trades []*domain.Transaction
	for rows.Next() {
		trade := &domain.Transaction{}
		err := rows.Scan(
			&trade.ID,
			&trade.UserID,
			&trade.Symbol,
			&trade.PriceOfShare,
			&trade.Shares,
			&trade.Cost,
			&trade.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		trades = append(trades, trade)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transactions: %w", err)
	}

	return trades, nil
}
