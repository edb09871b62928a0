// Package ports defines interfaces (hexagonal ports) for the session
// manager's external collaborators. Implementations live in
// internal/adapters; orchestration in internal/service.
package ports

import "context"

// Response is the canonical shape every transport returns. Non-success is
// signaled via Success=false plus an optional message, not necessarily via
// an error.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// Transport performs requests against the auth API and carries the bearer
// token applied to subsequent requests.
type Transport interface {
	// Post issues a request to the given endpoint with a JSON body.
	Post(ctx context.Context, endpoint string, body any) (Response, error)

	// SetToken attaches a bearer token to subsequent requests.
	SetToken(token string)

	// ClearToken removes any attached bearer token.
	ClearToken()
}

// RefreshTransport is a Transport that can also supply the refresh token
// credential for refresh requests. Exactly one transport variant is
// constructed at wiring time depending on configuration.
type RefreshTransport interface {
	Transport

	// SetRefreshToken stores the refresh token used by refresh requests.
	SetRefreshToken(token string)

	// RefreshToken returns the stored refresh token, if any.
	RefreshToken() string
}

// Storage is a synchronous key-value persistence backend surviving process
// restarts.
type Storage interface {
	// Get returns the value for key, and whether it was present.
	Get(key string) (string, bool)

	// Set stores the value for key.
	Set(key, value string) error

	// Delete removes the value for key. Deleting an absent key is not an error.
	Delete(key string) error

	// Clear removes all values owned by this store.
	Clear() error
}

// NavigateOptions mirrors router navigation options.
type NavigateOptions struct {
	// QueryParams are appended to the target URL.
	QueryParams map[string]string

	// ReplaceURL replaces the current history entry instead of pushing.
	ReplaceURL bool
}

// Navigator performs URL changes and can be queried for the current
// location. Navigate resolves false when the router rejects the change.
type Navigator interface {
	Navigate(ctx context.Context, path string, opts NavigateOptions) (bool, error)

	// CurrentURL returns the browser's current URL.
	CurrentURL() string
}
