package dto

// TradeRequest represents a buy or sell order payload
type TradeRequest struct {
	Symbol string `json:"symbol" validate:"required"`
	Shares int64  `json:"shares" validate:"required,gt=0"`
}

// TradeResponse represents the outcome of an executed order
type TradeResponse struct {
	TransactionID string `json:"transaction_id"`
	Symbol        string `json:"symbol"`
	Shares        int64  `json:"shares"`
	Price         string `json:"price"`
	Cost          string `json:"cost"`
}

// QuoteOutput represents a quote in API responses
type QuoteOutput struct {
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
	Price  string `json:"price"`
}

// HoldingOutput represents one derived portfolio line
type HoldingOutput struct {
	Symbol string `json:"symbol"`
	Shares int64  `json:"shares"`
	Price  string `json:"price"`
	Value  string `json:"value"`
}

// PortfolioOutput represents the derived portfolio view
type PortfolioOutput struct {
	Holdings []HoldingOutput `json:"holdings"`
	Cash     string          `json:"cash"`
	Total    string          `json:"total"`
}

// TransactionOutput represents one ledger row in the history view
type TransactionOutput struct {
	ID        string `json:"id"`
	Symbol    string `json:"symbol"`
	Shares    int64  `json:"shares"`
	Price     string `json:"price"`
	Cost      string `json:"cost"`
	CreatedAt string `json:"created_at"`
}
