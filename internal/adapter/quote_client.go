package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"stocksim/configs"
	"stocksim/internal/domain"
)

// QuoteClient is an HTTP client for the external quote collaborator.
// It implements domain.QuoteService.
type QuoteClient struct {
	client  *resty.Client
	apiKey  string
	logger  *zap.Logger
	limiter *rate.Limiter
}

// ensure QuoteClient implements the interface
var _ domain.QuoteService = (*QuoteClient)(nil)

// NewQuoteClient creates a new quote collaborator client.
func NewQuoteClient(cfg *configs.QuoteConfig, logger *zap.Logger) *QuoteClient {
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(10 * time.Second)

	// rate.Limit is requests per second
	limiter := rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateLimitBurst)

	return &QuoteClient{
		client:  client,
		apiKey:  cfg.APIKey,
		logger:  logger,
		limiter: limiter,
	}
}

// quoteResponse is the collaborator's wire format. Price arrives as a
// JSON number; json.Number keeps the exact decimal text.
type quoteResponse struct {
	Symbol string      `json:"symbol"`
	Name   string      `json:"companyName"`
	Price  json.Number `json:"latestPrice"`
}

// Lookup resolves the current quote for a symbol. Unknown symbols map
// to domain.ErrNotFound; transient collaborator failures are retried.
func (c *QuoteClient) Lookup(ctx context.Context, symbol string) (*domain.Quote, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return nil, fmt.Errorf("symbol is required: %w", domain.ErrValidation)
	}

	req := c.client.R().
		SetContext(ctx).
		SetPathParam("symbol", symbol).
		SetQueryParam("token", c.apiKey).
		SetResult(&quoteResponse{})

	resp, err := c.doRequest(ctx, req, "/stable/stock/{symbol}/quote")
	if err != nil {
		return nil, fmt.Errorf("quote lookup for %s failed: %w", symbol, err)
	}

	if resp.StatusCode() == http.StatusNotFound {
		return nil, fmt.Errorf("symbol %s: %w", symbol, domain.ErrNotFound)
	}

	result := resp.Result().(*quoteResponse)
	if result.Symbol == "" || result.Price == "" {
		return nil, fmt.Errorf("symbol %s: %w", symbol, domain.ErrNotFound)
	}

	price, err := decimal.NewFromString(result.Price.String())
	if err != nil {
		return nil, fmt.Errorf("unparseable price %q for %s: %w", result.Price, symbol, err)
	}

	return &domain.Quote{
		Symbol: result.Symbol,
		Name:   result.Name,
		Price:  price,
	}, nil
}

// doRequest executes the request with rate limiting and retry on
// throttling or server errors.
func (c *QuoteClient) doRequest(ctx context.Context, req *resty.Request, url string) (*resty.Response, error) {
	var resp *resty.Response
	var err error
	const maxRetries = 3

	for i := 0; i < maxRetries; i++ {
		// Wait for the rate limiter
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter wait failed: %w", err)
		}

		c.logger.Debug("Executing quote request", zap.String("url", url))
		resp, err = req.Execute(http.MethodGet, url)

		if err == nil && !resp.IsError() {
			return resp, nil // Success
		}

		// A 404 is an answer, not a fault; hand it back to the caller
		if err == nil && resp.StatusCode() == http.StatusNotFound {
			return resp, nil
		}

		// Analyze error and decide whether to retry
		shouldRetry := false
		var retryAfter time.Duration

		if resp != nil && err == nil {
			statusCode := resp.StatusCode()
			if statusCode == http.StatusTooManyRequests {
				shouldRetry = true
				retryAfterHeader := resp.Header().Get("Retry-After")
				if seconds, err := strconv.Atoi(retryAfterHeader); err == nil {
					retryAfter = time.Duration(seconds) * time.Second
				}
			} else if statusCode >= 500 {
				shouldRetry = true
			}
		} else { // Network or other client-side errors
			shouldRetry = true
		}

		if !shouldRetry {
			return nil, fmt.Errorf("quote request failed with status %s: %s", resp.Status(), resp.String())
		}
		if i == maxRetries-1 {
			break
		}

		if retryAfter == 0 {
			retryAfter = time.Duration(i+1) * 500 * time.Millisecond
		}

		c.logger.Warn("Retrying quote request",
			zap.String("url", url),
			zap.Int("attempt", i+1),
			zap.Duration("backoff", retryAfter),
		)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(retryAfter):
		}
	}

	if err != nil {
		return nil, fmt.Errorf("quote request failed after %d attempts: %w", maxRetries, err)
	}
	return nil, fmt.Errorf("quote request failed after %d attempts with status %s", maxRetries, resp.Status())
}
