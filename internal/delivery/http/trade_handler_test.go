package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"stocksim/internal/domain"
)

// MockLedgerService is a mock implementation of domain.LedgerService.
type MockLedgerService struct {
	mock.Mock
}

func (m *MockLedgerService) Buy(ctx context.Context, userID uuid.UUID, symbol string, shares int64) (*domain.Transaction, error) {
	args := m.Called(ctx, userID, symbol, shares)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockLedgerService) Sell(ctx context.Context, userID uuid.UUID, symbol string, shares int64) (*domain.Transaction, error) {
	args := m.Called(ctx, userID, symbol, shares)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockLedgerService) Portfolio(ctx context.Context, userID uuid.UUID) (*domain.Portfolio, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Portfolio), args.Error(1)
}

func (m *MockLedgerService) History(ctx context.Context, userID uuid.UUID) ([]*domain.Transaction, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Transaction), args.Error(1)
}

func (m *MockLedgerService) GetQuote(ctx context.Context, symbol string) (*domain.Quote, error) {
	args := m.Called(ctx, symbol)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Quote), args.Error(1)
}

// authedContext builds a context the way AuthMiddleware leaves it.
func authedContext(method, path, body string, userID uuid.UUID) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", userID)
	return c, rec
}

func TestBuyHandler_Success(t *testing.T) {
	ledger := new(MockLedgerService)
	handler := NewTradeHandler(ledger)
	userID := uuid.New()

	ledger.On("Buy", mock.Anything, userID, "AAPL", int64(10)).Return(&domain.Transaction{
		ID:           uuid.New(),
		UserID:       userID,
		Symbol:       "AAPL",
		Shares:       10,
		PriceOfShare: decimal.RequireFromString("50.00"),
		Cost:         decimal.RequireFromString("500.00"),
	}, nil)

	c, rec := authedContext(http.MethodPost, "/api/trades/buy", `{"symbol":"AAPL","shares":10}`, userID)
	err := handler.Buy(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp Response
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, "AAPL", data["symbol"])
	assert.Equal(t, float64(10), data["shares"])
	assert.Equal(t, "500.00", data["cost"])
	ledger.AssertExpectations(t)
}

func TestBuyHandler_InsufficientFunds(t *testing.T) {
	ledger := new(MockLedgerService)
	handler := NewTradeHandler(ledger)
	userID := uuid.New()

	ledger.On("Buy", mock.Anything, userID, "AAPL", int64(1000)).
		Return(nil, domain.ErrInsufficientFunds)

	c, rec := authedContext(http.MethodPost, "/api/trades/buy", `{"symbol":"AAPL","shares":1000}`, userID)
	err := handler.Buy(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSellHandler_InsufficientShares(t *testing.T) {
	ledger := new(MockLedgerService)
	handler := NewTradeHandler(ledger)
	userID := uuid.New()

	ledger.On("Sell", mock.Anything, userID, "FOO", int64(999)).
		Return(nil, domain.ErrInsufficientShares)

	c, rec := authedContext(http.MethodPost, "/api/trades/sell", `{"symbol":"FOO","shares":999}`, userID)
	err := handler.Sell(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSellHandler_UnknownSymbol(t *testing.T) {
	ledger := new(MockLedgerService)
	handler := NewTradeHandler(ledger)
	userID := uuid.New()

	ledger.On("Sell", mock.Anything, userID, "ZZZZ", int64(1)).
		Return(nil, domain.ErrNotFound)

	c, rec := authedContext(http.MethodPost, "/api/trades/sell", `{"symbol":"ZZZZ","shares":1}`, userID)
	err := handler.Sell(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTradeHandler_Unauthenticated(t *testing.T) {
	ledger := new(MockLedgerService)
	handler := NewTradeHandler(ledger)

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/trades/buy", strings.NewReader(`{"symbol":"AAPL","shares":1}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := handler.Buy(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	ledger.AssertNotCalled(t, "Buy", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestPortfolioHandler_Success(t *testing.T) {
	ledger := new(MockLedgerService)
	handler := NewPortfolioHandler(ledger)
	userID := uuid.New()

	ledger.On("Portfolio", mock.Anything, userID).Return(&domain.Portfolio{
		Holdings: []*domain.Holding{{
			Symbol: "FOO",
			Shares: 6,
			Price:  decimal.RequireFromString("60.00"),
			Value:  decimal.RequireFromString("360.00"),
		}},
		Cash:  decimal.RequireFromString("9740.00"),
		Total: decimal.RequireFromString("10100.00"),
	}, nil)

	c, rec := authedContext(http.MethodGet, "/api/portfolio", "", userID)
	err := handler.GetPortfolio(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp Response
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, "9740.00", data["cash"])
	assert.Equal(t, "10100.00", data["total"])
	holdings := data["holdings"].([]interface{})
	assert.Len(t, holdings, 1)
}

func TestHistoryHandler_Empty(t *testing.T) {
	ledger := new(MockLedgerService)
	handler := NewPortfolioHandler(ledger)
	userID := uuid.New()

	ledger.On("History", mock.Anything, userID).Return([]*domain.Transaction{}, nil)

	c, rec := authedContext(http.MethodGet, "/api/history", "", userID)
	err := handler.GetHistory(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp Response
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, []interface{}{}, resp.Data)
}

func TestQuoteHandler_NotFound(t *testing.T) {
	ledger := new(MockLedgerService)
	handler := NewQuoteHandler(ledger)

	ledger.On("GetQuote", mock.Anything, "ZZZZ").Return(nil, domain.ErrNotFound)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/quote/ZZZZ", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("symbol")
	c.SetParamValues("ZZZZ")

	err := handler.GetQuote(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
