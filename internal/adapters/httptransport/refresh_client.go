package httptransport

import (
	"sync"

	"github.com/stardyn/authkit/internal/ports"
)

// RefreshClient is the refresh-capable transport variant. It carries the
// refresh token credential alongside the bearer token so the session
// service can exchange it at the refresh endpoint. Exactly one transport
// variant is constructed at wiring time depending on configuration.
type RefreshClient struct {
	*Client

	mu           sync.RWMutex
	refreshToken string
}

var _ ports.RefreshTransport = (*RefreshClient)(nil)

// NewWithRefresh creates a refresh-capable transport.
func NewWithRefresh(baseURL string, opts ...Option) *RefreshClient {
	return &RefreshClient{Client: New(baseURL, opts...)}
}

// SetRefreshToken stores the refresh token used by refresh requests.
func (c *RefreshClient) SetRefreshToken(token string) {
	c.mu.Lock()
	c.refreshToken = token
	c.mu.Unlock()
}

// RefreshToken returns the stored refresh token, if any.
func (c *RefreshClient) RefreshToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.refreshToken
}

// ClearToken removes the bearer token and the refresh token credential.
func (c *RefreshClient) ClearToken() {
	c.Client.ClearToken()
	c.SetRefreshToken("")
}
