// Package quotes fetches current market prices for the tracked tickers
// from a Yahoo-style chart endpoint.
package quotes

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"trading-experiment/internal/model"
)

// DefaultBaseURL is the public chart endpoint.
const DefaultBaseURL = "https://query1.finance.yahoo.com"

const pricePath = "$.chart.result[0].meta.regularMarketPrice"

// DefaultTickers are fetched on every call.
var DefaultTickers = []model.Ticker{"AMD", "GOOGL", "AMZN", "PLTR", "BOTZ", "AIAI"}

// DefaultManualPrices are tickers the endpoint does not serve; their price
// is fixed and never fetched.
func DefaultManualPrices() model.PriceTable {
	return model.PriceTable{"IWDA": decimal.RequireFromString("112.80")}
}

// QuoteError is a non-200 answer from the quote endpoint.
type QuoteError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *QuoteError) Error() string {
	return e.Message
}

// Result is one batch of prices.
type Result struct {
	Prices    model.PriceTable `json:"prices"`
	Timestamp time.Time        `json:"timestamp"`
}

// Client fetches quotes. The zero value is not usable; use NewClient.
type Client struct {
	BaseURL string
	Tickers []model.Ticker
	Manual  model.PriceTable
	HTTP    *http.Client
	Logger  *slog.Logger

	cache *priceCache
	now   func() time.Time
}

// Options configures NewClient. Zero fields take the defaults.
type Options struct {
	BaseURL  string
	Tickers  []model.Ticker
	Manual   model.PriceTable
	Timeout  time.Duration
	CacheTTL time.Duration
	Logger   *slog.Logger
}

// NewClient creates a quote client.
func NewClient(opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Tickers == nil {
		opts.Tickers = DefaultTickers
	}
	if opts.Manual == nil {
		opts.Manual = DefaultManualPrices()
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Client{
		BaseURL: opts.BaseURL,
		Tickers: opts.Tickers,
		Manual:  opts.Manual,
		HTTP:    &http.Client{Timeout: opts.Timeout},
		Logger:  opts.Logger.With("component", "quotes"),
		cache:   newPriceCache(opts.CacheTTL),
		now:     time.Now,
	}
}

// FetchPrices fetches every ticker in parallel and adds the manual prices.
// A ticker that fails (transport, status, body, non-positive price) is
// logged and left out of the result. An error is returned only when ctx
// is done.
func (c *Client) FetchPrices(ctx context.Context) (*Result, error) {
	var (
		mu     sync.Mutex
		prices = make(model.PriceTable, len(c.Tickers)+len(c.Manual))
	)

	g, gctx := errgroup.WithContext(ctx)
	for _, ticker := range c.Tickers {
		g.Go(func() error {
			price, err := c.Quote(gctx, ticker)
			if err != nil {
				c.Logger.Warn("quote failed", "ticker", ticker, "error", err)
				return nil
			}
			mu.Lock()
			prices[ticker] = price
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	for t, p := range c.Manual {
		prices[t] = p
	}

	c.Logger.Info("prices fetched", "count", len(prices), "requested", len(c.Tickers)+len(c.Manual))
	return &Result{Prices: prices, Timestamp: c.now().UTC()}, nil
}

// Quote fetches the current price of one ticker.
func (c *Client) Quote(ctx context.Context, ticker model.Ticker) (decimal.Decimal, error) {
	if p, ok := c.cache.Get(ticker, c.now()); ok {
		return p, nil
	}

	u, err := url.Parse(c.BaseURL + "/v8/finance/chart/" + url.PathEscape(ticker.String()))
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid base URL: %w", err)
	}
	q := u.Query()
	q.Set("interval", "1d")
	q.Set("range", "1d")
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "Mozilla/5.0")

	start := time.Now()
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	c.Logger.Debug("quote response", "ticker", ticker, "status", resp.StatusCode, "duration", time.Since(start))

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return decimal.Zero, &QuoteError{
			StatusCode: resp.StatusCode,
			Code:       statusCode(resp.StatusCode),
			Message:    fmt.Sprintf("quote endpoint returned status %d for %s", resp.StatusCode, ticker),
		}
	}

	price, err := parsePrice(body)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s: %w", ticker, err)
	}

	c.cache.Set(ticker, price, c.now())
	return price, nil
}

// parsePrice extracts regularMarketPrice from a chart response.
func parsePrice(body []byte) (decimal.Decimal, error) {
	var doc any
	if err := json.Unmarshal(body, &doc); err != nil {
		return decimal.Zero, fmt.Errorf("failed to parse response: %w", err)
	}
	v, err := jsonpath.Get(pricePath, doc)
	if err != nil {
		return decimal.Zero, fmt.Errorf("no price at %s: %w", pricePath, err)
	}
	if list, ok := v.([]any); ok && len(list) > 0 {
		v = list[0]
	}
	f, ok := v.(float64)
	if !ok {
		return decimal.Zero, fmt.Errorf("price is not a number: %v", v)
	}
	price := decimal.NewFromFloat(f)
	if !price.IsPositive() {
		return decimal.Zero, fmt.Errorf("non-positive price %s", price)
	}
	return price, nil
}

func statusCode(status int) string {
	switch {
	case status == http.StatusNotFound:
		return "NOT_FOUND"
	case status == http.StatusTooManyRequests:
		return "RATE_LIMIT_EXCEEDED"
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return "FORBIDDEN"
	case status >= 500:
		return "UPSTREAM_ERROR"
	default:
		return "BAD_RESPONSE"
	}
}
