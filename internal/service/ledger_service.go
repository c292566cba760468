package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"stocksim/internal/domain"
)

// LedgerServiceImpl is the trading engine. It validates orders,
// resolves a price snapshot from the quote collaborator, and hands the
// cash/ledger mutation to the repository as one atomic unit.
type LedgerServiceImpl struct {
	ledgerRepo domain.LedgerRepository
	userRepo   domain.UserRepository
	quotes     domain.QuoteService
	logger     *zap.Logger
}

// NewLedgerService creates a new LedgerService
func NewLedgerService(
	ledgerRepo domain.LedgerRepository,
	userRepo domain.UserRepository,
	quotes domain.QuoteService,
	logger *zap.Logger,
) domain.LedgerService {
	return &LedgerServiceImpl{
		ledgerRepo: ledgerRepo,
		userRepo:   userRepo,
		quotes:     quotes,
		logger:     logger,
	}
}

// Buy purchases shares of symbol at the current quoted price
func (s *LedgerServiceImpl) Buy(ctx context.Context, userID uuid.UUID, symbol string, shares int64) (*domain.Transaction, error) {
	symbol, err := validateOrder(symbol, shares)
	if err != nil {
		return nil, err
	}

	quote, err := s.quotes.Lookup(ctx, symbol)
	if err != nil {
		return nil, err
	}

	trade, err := s.ledgerRepo.ExecuteBuy(ctx, userID, quote.Symbol, shares, quote.Price)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Buy executed",
		zap.String("user_id", userID.String()),
		zap.String("symbol", trade.Symbol),
		zap.Int64("shares", shares),
		zap.String("price", trade.PriceOfShare.String()),
		zap.String("cost", trade.Cost.String()),
	)

	return trade, nil
}

// Sell disposes of shares of symbol at the current quoted price
func (s *LedgerServiceImpl) Sell(ctx context.Context, userID uuid.UUID, symbol string, shares int64) (*domain.Transaction, error) {
	symbol, err := validateOrder(symbol, shares)
	if err != nil {
		return nil, err
	}

	quote, err := s.quotes.Lookup(ctx, symbol)
	if err != nil {
		return nil, err
	}

	trade, err := s.ledgerRepo.ExecuteSell(ctx, userID, quote.Symbol, shares, quote.Price)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Sell executed",
		zap.String("user_id", userID.String()),
		zap.String("symbol", trade.Symbol),
		zap.Int64("shares", shares),
		zap.String("price", trade.PriceOfShare.String()),
		zap.String("proceeds", trade.Cost.String()),
	)

	return trade, nil
}

// Portfolio derives current holdings from the ledger and decorates
// them with live prices. Nothing here is cached; two calls with no
// intervening trades return the same positions.
func (s *LedgerServiceImpl) Portfolio(ctx context.Context, userID uuid.UUID) (*domain.Portfolio, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	holdings, err := s.ledgerRepo.GetHoldings(ctx, userID)
	if err != nil {
		return nil, err
	}

	total := user.Cash
	for _, holding := range holdings {
		quote, err := s.quotes.Lookup(ctx, holding.Symbol)
		if err != nil {
			return nil, fmt.Errorf("failed to price holding %s: %w", holding.Symbol, err)
		}
		holding.Price = quote.Price
		holding.Value = quote.Price.Mul(decimal.NewFromInt(holding.Shares))
		total = total.Add(holding.Value)
	}

	return &domain.Portfolio{
		Holdings: holdings,
		Cash:     user.Cash,
		Total:    total,
	}, nil
}

// History returns the user's transactions in chronological order
func (s *LedgerServiceImpl) History(ctx context.Context, userID uuid.UUID) ([]*domain.Transaction, error) {
	return s.ledgerRepo.GetHistory(ctx, userID)
}

// GetQuote resolves the current quote for a symbol
func (s *LedgerServiceImpl) GetQuote(ctx context.Context, symbol string) (*domain.Quote, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return nil, fmt.Errorf("symbol is required: %w", domain.ErrValidation)
	}
	return s.quotes.Lookup(ctx, symbol)
}

// validateOrder normalizes the symbol and rejects non-positive share
// counts before any collaborator or storage work happens.
func validateOrder(symbol string, shares int64) (string, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return "", fmt.Errorf("symbol is required: %w", domain.ErrValidation)
	}
	if shares <= 0 {
		return "", fmt.Errorf("shares must be a positive integer: %w", domain.ErrValidation)
	}
	return symbol, nil
}
