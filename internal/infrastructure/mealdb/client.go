package mealdb

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/recipefinder/backend/internal/domain"
	"github.com/recipefinder/backend/internal/logging"
	"github.com/recipefinder/backend/internal/metrics"
)

const (
	endpointFilter = "filter"
	endpointLookup = "lookup"

	// maxBodyBytes bounds how much of a catalog response we read
	maxBodyBytes = 2 << 20
)

// Config holds the client settings
type Config struct {
	BaseURL           string
	FilterPath        string
	LookupPath        string
	FilterTimeout     time.Duration
	LookupTimeout     time.Duration
	MaxAttempts       int
	RequestsPerSecond int
}

// statusError reports a non-200 catalog response
type statusError struct {
	code int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("unexpected status %d", e.code)
}

func (e *statusError) retryable() bool {
	return e.code == http.StatusTooManyRequests || e.code >= http.StatusInternalServerError
}

// Client handles communication with TheMealDB API
type Client struct {
	httpClient    *http.Client
	baseURL       string
	filterPath    string
	lookupPath    string
	filterTimeout time.Duration
	lookupTimeout time.Duration
	maxAttempts   int
	backoffBase   time.Duration
	rateLimiter   *rate.Limiter
	breaker       *gobreaker.CircuitBreaker[[]byte]
	debug         bool
}

// Compile-time interface check.
var _ domain.CatalogClient = (*Client)(nil)

// NewClient creates a new TheMealDB client
func NewClient(cfg Config) *Client {
	if cfg.FilterPath == "" {
		cfg.FilterPath = "/filter.php"
	}
	if cfg.LookupPath == "" {
		cfg.LookupPath = "/lookup.php"
	}
	if cfg.FilterTimeout <= 0 {
		cfg.FilterTimeout = 10 * time.Second
	}
	if cfg.LookupTimeout <= 0 {
		cfg.LookupTimeout = 8 * time.Second
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 1
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = 25
	}

	// Burst covers one full fan-out of detail lookups
	limiter := rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.RequestsPerSecond)

	return &Client{
		// Per-request deadlines come from the context; this is only a backstop
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseURL:       strings.TrimRight(cfg.BaseURL, "/"),
		filterPath:    cfg.FilterPath,
		lookupPath:    cfg.LookupPath,
		filterTimeout: cfg.FilterTimeout,
		lookupTimeout: cfg.LookupTimeout,
		maxAttempts:   cfg.MaxAttempts,
		backoffBase:   500 * time.Millisecond,
		rateLimiter:   limiter,
		breaker:       newBreaker("mealdb-api"),
	}
}

// SetDebug enables verbose request logging
func (c *Client) SetDebug(debug bool) {
	c.debug = debug
}

func (c *Client) debugLog(format string, args ...any) {
	if c.debug {
		logging.Debug().Msgf("[MEALDB] "+format, args...)
	}
}

// FilterByIngredient returns candidate meal ids for an ingredient, in catalog order.
// A null "meals" yields an empty slice and a nil error.
func (c *Client) FilterByIngredient(ctx context.Context, ingredient string) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.filterTimeout)
	defer cancel()

	params := url.Values{}
	params.Add("i", ingredient)
	reqURL := fmt.Sprintf("%s%s?%s", c.baseURL, c.filterPath, params.Encode())

	c.debugLog("FilterByIngredient called with ingredient: %q", ingredient)

	var lastErr error
	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		body, err := c.fetch(ctx, endpointFilter, reqURL)
		if err != nil {
			lastErr = err
			var se *statusError
			if !errors.As(err, &se) || !se.retryable() || attempt == c.maxAttempts {
				break
			}
			logging.Warn().Int("attempt", attempt).Int("status", se.code).Str("ingredient", ingredient).
				Msg("[MEALDB] Filter request failed, retrying")
			if !sleepContext(ctx, exponentialBackoff(c.backoffBase, attempt)) {
				lastErr = ctx.Err()
				break
			}
			continue
		}

		var resp filterResponse
		if err := json.Unmarshal(body, &resp); err != nil {
			return nil, fmt.Errorf("%w: failed to decode response: %v", domain.ErrNetwork, err)
		}

		ids := make([]string, 0, len(resp.Meals))
		for _, m := range resp.Meals {
			if id := strings.TrimSpace(m.IDMeal); id != "" {
				ids = append(ids, id)
			}
		}
		c.debugLog("Found %d candidates for ingredient: %q", len(ids), ingredient)
		return ids, nil
	}

	return nil, classifyError(ctx, lastErr)
}

// LookupMeal retrieves the full record for a meal id
func (c *Client) LookupMeal(ctx context.Context, id string) (*domain.Recipe, error) {
	ctx, cancel := context.WithTimeout(ctx, c.lookupTimeout)
	defer cancel()

	params := url.Values{}
	params.Add("i", id)
	reqURL := fmt.Sprintf("%s%s?%s", c.baseURL, c.lookupPath, params.Encode())

	body, err := c.fetch(ctx, endpointLookup, reqURL)
	if err != nil {
		return nil, classifyError(ctx, err)
	}

	var resp lookupResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", domain.ErrNetwork, err)
	}

	if len(resp.Meals) == 0 {
		metrics.CatalogRequests.WithLabelValues(endpointLookup, "not_found").Inc()
		return nil, fmt.Errorf("%w: id %s", domain.ErrRecipeNotFound, id)
	}

	return MapToRecipe(&resp.Meals[0]), nil
}

// fetch runs one rate-limited GET through the circuit breaker and returns the body
func (c *Client) fetch(ctx context.Context, endpoint, reqURL string) ([]byte, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		metrics.CatalogRequests.WithLabelValues(endpoint, "timeout").Inc()
		return nil, fmt.Errorf("%w: rate limiter: %v", domain.ErrTimeout, err)
	}

	start := time.Now()
	body, err := c.breaker.Execute(func() ([]byte, error) {
		return c.doRequest(ctx, reqURL)
	})
	metrics.CatalogRequestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.CatalogRequests.WithLabelValues(endpoint, outcomeLabel(ctx, err)).Inc()
		c.debugLog("%s request error: %v", endpoint, err)
		return nil, err
	}

	metrics.CatalogRequests.WithLabelValues(endpoint, "success").Inc()
	return body, nil
}

// doRequest executes an HTTP GET request with proper headers and error handling
func (c *Client) doRequest(ctx context.Context, reqURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "RecipeFinder/1.0")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := readLimitedBody(resp.Body, maxBodyBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		c.debugLog("API error - Status: %d, Body: %s", resp.StatusCode, string(body))
		return nil, &statusError{code: resp.StatusCode}
	}

	return body, nil
}

// classifyError maps transport failures onto the domain taxonomy
func classifyError(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrTimeout) || errors.Is(err, domain.ErrNetwork) {
		return err
	}
	var se *statusError
	if errors.As(err, &se) {
		return fmt.Errorf("%w: %w: %v", domain.ErrNetwork, domain.ErrUpstreamStatus, err)
	}
	if isTimeout(ctx, err) {
		return fmt.Errorf("%w: %v", domain.ErrTimeout, err)
	}
	return fmt.Errorf("%w: %v", domain.ErrNetwork, err)
}

func isTimeout(ctx context.Context, err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func outcomeLabel(ctx context.Context, err error) string {
	switch {
	case isTimeout(ctx, err):
		return "timeout"
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return "rejected"
	default:
		return "error"
	}
}

// exponentialBackoff returns base, 2*base, 4*base ... for attempts 1, 2, 3 ...
func exponentialBackoff(base time.Duration, attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	return base * time.Duration(1<<(attempt-1))
}

// sleepContext waits for d or until ctx is done; it reports whether the full wait elapsed
func sleepContext(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

// readLimitedBody reads at most limit bytes from r
func readLimitedBody(r io.Reader, limit int64) ([]byte, error) {
	return io.ReadAll(io.LimitReader(r, limit))
}
