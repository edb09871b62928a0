// Package httptransport provides the default ports.Transport implementation
// over net/http. The auth API speaks a JSON envelope with success/message/
// data fields; HTTP-level failures are classified into the error taxonomy.
package httptransport

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/stardyn/authkit/internal/errors"
	"github.com/stardyn/authkit/internal/ports"
)

const defaultTimeout = 30 * time.Second

// Client is a JSON-over-HTTP transport. It carries the bearer token applied
// to subsequent requests; token mutation is safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger

	mu    sync.RWMutex
	token string
}

var _ ports.Transport = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLogger sets the logger used for request logging.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// New creates a Client posting to baseURL+endpoint.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: defaultTimeout},
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetToken attaches a bearer token to subsequent requests.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// ClearToken removes any attached bearer token.
func (c *Client) ClearToken() {
	c.SetToken("")
}

// Post issues a JSON POST and decodes the response envelope. A non-2xx
// status yields a Transport error carrying the status; connection failures
// yield a Network error. The decoded envelope is returned alongside the
// error so callers can still read the provider message.
func (c *Client) Post(ctx context.Context, endpoint string, body any) (ports.Response, error) {
	if body == nil {
		body = struct{}{}
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return ports.Response{}, apperrors.Wrap(err, apperrors.ErrCodeInternal, "encode request body")
	}

	reqID := uuid.NewString()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint, bytes.NewReader(payload))
	if err != nil {
		return ports.Response{}, apperrors.Wrap(err, apperrors.ErrCodeInternal, "build request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-Id", reqID)

	c.mu.RLock()
	token := c.token
	c.mu.RUnlock()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("auth request failed",
			slog.String("endpoint", endpoint),
			slog.String("request_id", reqID),
			slog.Any("error", err))
		return ports.Response{}, apperrors.Network(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return ports.Response{}, apperrors.Network(err)
	}

	var envelope ports.Response
	if len(raw) > 0 {
		if unmarshalErr := json.Unmarshal(raw, &envelope); unmarshalErr != nil {
			return ports.Response{}, apperrors.Wrap(unmarshalErr, apperrors.ErrCodeTransport, "decode response body")
		}
	}

	c.logger.Debug("auth request",
		slog.String("endpoint", endpoint),
		slog.String("request_id", reqID),
		slog.Int("status", resp.StatusCode),
		slog.Duration("duration", time.Since(start)))

	if resp.StatusCode >= http.StatusBadRequest {
		message := envelope.Message
		if message == "" {
			message = http.StatusText(resp.StatusCode)
		}
		return envelope, apperrors.Transport(resp.StatusCode, message)
	}

	return envelope, nil
}
