package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Transaction is one row of the append-only trade ledger. Shares is
// signed: positive for a buy, negative for a sell. Cost is always the
// positive cash amount that moved (PriceOfShare * |Shares|).
type Transaction struct {
	ID           uuid.UUID       `json:"id"`
	UserID       uuid.UUID       `json:"user_id"`
	Symbol       string          `json:"symbol"`
	PriceOfShare decimal.Decimal `json:"price_of_share"`
	Shares       int64           `json:"shares"`
	Cost         decimal.Decimal `json:"cost"`
	CreatedAt    time.Time       `json:"created_at"`
}

// Holding is one line of the derived portfolio: the net position for a
// symbol plus its current market decoration. Shares is always > 0 here;
// flat and short positions never appear.
type Holding struct {
	Symbol string          `json:"symbol"`
	Shares int64           `json:"shares"`
	Price  decimal.Decimal `json:"price"`
	Value  decimal.Decimal `json:"value"`
}

// Portfolio is the full derived view for a user: open holdings, cash,
// and the grand total (cash + sum of holding values). It is recomputed
// from the ledger on every read.
type Portfolio struct {
	Holdings []*Holding      `json:"holdings"`
	Cash     decimal.Decimal `json:"cash"`
	Total    decimal.Decimal `json:"total"`
}
