// Package apiclient is the HTTP façade over the CivicLens API. Every
// operation attempts the network with a bounded timeout and, on any
// failure (connection error, non-2xx status, timeout, undecodable body),
// substitutes a deterministic fallback computed from the seed dataset
// with the same filters and ordering the server would have applied. A
// network failure therefore never produces a degraded or empty result.
package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/civiclens-lk/civiclens/internal/civic"
	"github.com/civiclens-lk/civiclens/internal/session"
	"go.uber.org/zap"
)

// DefaultTimeout bounds each outbound request. The fallback is the retry;
// no second network attempt is made.
const DefaultTimeout = 5 * time.Second

var (
	errMissingBaseURL = errors.New("apiclient: base url is required")
	// ErrMissingIssueID indicates an operation was called with an empty issue id.
	ErrMissingIssueID = errors.New("apiclient: issue id is required")
)

// SessionSource supplies the persistent per-client session identifier.
// *localstore.Store satisfies it.
type SessionSource interface {
	SessionID() string
}

// FetchError describes a failed network attempt. It is logged and absorbed
// by the fallback path, never returned from exported operations.
type FetchError struct {
	Operation  string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: http %d", e.Operation, e.StatusCode)
	}
	return fmt.Sprintf("%s: %v", e.Operation, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Config describes the dependencies of a Client.
type Config struct {
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
	Sessions   SessionSource
	IDProvider civic.ReportIDProvider
	Clock      func() time.Time
	Logger     *zap.Logger
}

// Client issues CivicLens API calls with offline-first fallback.
type Client struct {
	baseURL    string
	timeout    time.Duration
	httpClient *http.Client
	sessions   SessionSource
	idProvider civic.ReportIDProvider
	clock      func() time.Time
	logger     *zap.Logger
}

// New constructs a Client.
func New(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, errMissingBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	idProvider := cfg.IDProvider
	if idProvider == nil {
		idProvider = civic.NewReportIDProvider(clock, nil)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		timeout:    timeout,
		httpClient: httpClient,
		sessions:   cfg.Sessions,
		idProvider: idProvider,
		clock:      clock,
		logger:     logger,
	}, nil
}

func (c *Client) sessionID() string {
	if c.sessions == nil {
		return session.AnonymousSession
	}
	return c.sessions.SessionID()
}

// fetchJSON performs one bounded request and decodes a JSON body. Any
// failure is folded into a FetchError for the fallback combinator.
func fetchJSON[T any](ctx context.Context, c *Client, operation, method, path, contentType string, body io.Reader) (T, *FetchError) {
	var decoded T

	requestCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	request, err := http.NewRequestWithContext(requestCtx, method, c.baseURL+path, body)
	if err != nil {
		return decoded, &FetchError{Operation: operation, Err: err}
	}
	request.Header.Set(session.HeaderName, c.sessionID())
	request.Header.Set("Cache-Control", "no-store")
	if contentType != "" {
		request.Header.Set("Content-Type", contentType)
	}

	response, err := c.httpClient.Do(request)
	if err != nil {
		return decoded, &FetchError{Operation: operation, Err: err}
	}
	defer response.Body.Close()

	if response.StatusCode < 200 || response.StatusCode > 299 {
		return decoded, &FetchError{Operation: operation, StatusCode: response.StatusCode, Err: fmt.Errorf("unexpected status %d", response.StatusCode)}
	}
	if err := json.NewDecoder(response.Body).Decode(&decoded); err != nil {
		return decoded, &FetchError{Operation: operation, Err: err}
	}
	return decoded, nil
}

// withFallback returns the authoritative value when the fetch succeeded
// and the locally computed substitute otherwise.
func withFallback[T any](c *Client, fetched T, fetchErr *FetchError, fallback func() T) T {
	if fetchErr == nil {
		return fetched
	}
	c.logger.Warn("falling back to local data",
		zap.String("operation", fetchErr.Operation),
		zap.Int("status", fetchErr.StatusCode),
		zap.Error(fetchErr.Err))
	return fallback()
}
