package scryfall

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/ramonehamilton/card-binder/internal/card"
	"github.com/ramonehamilton/card-binder/internal/config"
	"github.com/ramonehamilton/card-binder/internal/logging"
)

const (
	DefaultBaseURL   = "https://api.scryfall.com"
	DefaultUserAgent = "CardBinder/1.0"

	defaultRateLimit  = 100 * time.Millisecond // 10 req/sec
	defaultTimeout    = 30 * time.Second
	defaultMaxRetries = 3
	initialBackoff    = 1 * time.Second
	maxBackoff        = 16 * time.Second
)

// Options configures a Client. Zero values fall back to the defaults above.
type Options struct {
	BaseURL    string
	UserAgent  string
	Timeout    time.Duration
	RateLimit  time.Duration
	MaxRetries int
	HTTPClient *http.Client
}

// Client represents a Scryfall API client with rate limiting.
type Client struct {
	baseURL     string
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	userAgent   string
	maxRetries  int
	backoff     time.Duration
	log         *logrus.Entry
}

// NewClient creates a new Scryfall API client.
func NewClient(opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = defaultRateLimit
	}
	if opts.MaxRetries < 0 {
		opts.MaxRetries = defaultMaxRetries
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: opts.Timeout}
	}

	return &Client{
		baseURL:     strings.TrimRight(opts.BaseURL, "/"),
		httpClient:  httpClient,
		rateLimiter: rate.NewLimiter(rate.Every(opts.RateLimit), 1),
		userAgent:   opts.UserAgent,
		maxRetries:  opts.MaxRetries,
		backoff:     initialBackoff,
		log:         logging.Component("Scryfall"),
	}
}

// NewClientFromConfig creates a client from the [scryfall] config section.
func NewClientFromConfig(cfg *config.Config) (*Client, error) {
	timeout, err := cfg.GetScryfallTimeout()
	if err != nil {
		return nil, err
	}
	limit, err := cfg.GetScryfallRateLimit()
	if err != nil {
		return nil, err
	}
	return NewClient(Options{
		BaseURL:    cfg.Scryfall.BaseURL,
		UserAgent:  cfg.Scryfall.UserAgent,
		Timeout:    timeout,
		RateLimit:  limit,
		MaxRetries: cfg.Scryfall.MaxRetries,
	}), nil
}

// GetCard retrieves a card by its Scryfall ID.
func (c *Client) GetCard(ctx context.Context, id string) (*card.Card, error) {
	u := fmt.Sprintf("%s/cards/%s", c.baseURL, url.PathEscape(id))

	var cd card.Card
	if err := c.doRequest(ctx, u, &cd); err != nil {
		return nil, fmt.Errorf("failed to get card %s: %w", id, err)
	}

	return &cd, nil
}

// SearchCards performs a full-text search for cards.
func (c *Client) SearchCards(ctx context.Context, query string) (*List, error) {
	u := fmt.Sprintf("%s/cards/search?q=%s", c.baseURL, url.QueryEscape(query))

	var result List
	if err := c.doRequest(ctx, u, &result); err != nil {
		return nil, fmt.Errorf("failed to search cards with query '%s': %w", query, err)
	}

	return &result, nil
}

// GetList fetches a list object from an absolute API URI, such as a card's
// prints_search_uri.
func (c *Client) GetList(ctx context.Context, uri string) (*List, error) {
	var result List
	if err := c.doRequest(ctx, uri, &result); err != nil {
		return nil, fmt.Errorf("failed to get list %s: %w", uri, err)
	}

	return &result, nil
}

// doRequest performs an HTTP request with rate limiting and retry logic.
func (c *Client) doRequest(ctx context.Context, u string, result any) error {
	var lastErr error
	backoff := c.backoff

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter error: %w", err)
		}

		retry, err := c.attempt(ctx, u, result)
		if err == nil {
			return nil
		}
		if retry == 0 {
			return err
		}
		lastErr = err
		if attempt == c.maxRetries {
			break
		}

		wait := backoff
		if retry > 0 {
			wait = retry
		}
		c.log.WithError(err).Debugf("Retrying %s in %v (attempt %d/%d)", u, wait, attempt+1, c.maxRetries)
		if err := sleep(ctx, wait); err != nil {
			return err
		}
		backoff = min(backoff*2, maxBackoff)
	}

	return fmt.Errorf("max retries exceeded: %w", lastErr)
}

// attempt performs one request. A non-zero retry asks the caller to try again;
// a positive value is the server-requested wait, a negative one means use backoff.
func (c *Client) attempt(ctx context.Context, u string, result any) (retry time.Duration, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return 0, &TransportError{Err: err}
		}
		return -1, &TransportError{Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusOK:
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return 0, &TransportError{Err: fmt.Errorf("failed to read response body: %w", err)}
		}
		if err := json.Unmarshal(body, result); err != nil {
			return 0, fmt.Errorf("failed to parse JSON response: %w", err)
		}
		return 0, nil

	case http.StatusTooManyRequests:
		if after := resp.Header.Get("Retry-After"); after != "" {
			if secs, err := strconv.Atoi(after); err == nil && secs > 0 {
				return time.Duration(secs) * time.Second, errRateLimited
			}
		}
		return -1, errRateLimited

	case http.StatusNotFound:
		return 0, &NotFoundError{URL: u}

	default:
		body, _ := io.ReadAll(resp.Body)

		// Server errors are transient; client errors are not.
		if resp.StatusCode >= http.StatusInternalServerError {
			retry = -1
		}

		var apiErr APIError
		if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Details != "" {
			if apiErr.Status == 0 {
				apiErr.Status = resp.StatusCode
			}
			return retry, &apiErr
		}

		return retry, fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(body))
	}
}

var errRateLimited = errors.New("rate limited (HTTP 429)")

// TransportError wraps failures to reach the API or read its response.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string { return "HTTP request failed: " + e.Err.Error() }

func (e *TransportError) Unwrap() error { return e.Err }

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
