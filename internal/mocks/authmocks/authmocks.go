// Package authmocks contains simple hand-written test doubles for the
// session manager ports. These are lightweight and suitable for unit tests
// without codegen.
package authmocks

import (
	"context"
	"sync"

	"github.com/stardyn/authkit/internal/ports"
)

// Ensure compile-time conformance to ports.
var (
	_ ports.RefreshTransport = (*MockTransport)(nil)
	_ ports.Storage          = (*MemoryStorage)(nil)
	_ ports.Navigator        = (*MockNavigator)(nil)
)

// MockTransport simulates the auth API transport with per-endpoint
// responses and records every post for assertions.
type MockTransport struct {
	PostFunc func(ctx context.Context, endpoint string, body any) (ports.Response, error)

	// Responses maps endpoint to the canned response returned when PostFunc
	// is unset.
	Responses map[string]ports.Response
	// Errors maps endpoint to an error returned when PostFunc is unset.
	Errors map[string]error

	mu           sync.Mutex
	calls        []PostCall
	token        string
	refreshToken string
}

// PostCall records one invocation of Post.
type PostCall struct {
	Endpoint string
	Body     any
}

// NewMockTransport creates a MockTransport with empty canned responses.
func NewMockTransport() *MockTransport {
	return &MockTransport{
		Responses: map[string]ports.Response{},
		Errors:    map[string]error{},
	}
}

func (m *MockTransport) Post(ctx context.Context, endpoint string, body any) (ports.Response, error) {
	m.mu.Lock()
	m.calls = append(m.calls, PostCall{Endpoint: endpoint, Body: body})
	m.mu.Unlock()

	if m.PostFunc != nil {
		return m.PostFunc(ctx, endpoint, body)
	}
	if err, ok := m.Errors[endpoint]; ok {
		return ports.Response{}, err
	}
	if resp, ok := m.Responses[endpoint]; ok {
		return resp, nil
	}
	return ports.Response{Success: true}, nil
}

func (m *MockTransport) SetToken(token string) {
	m.mu.Lock()
	m.token = token
	m.mu.Unlock()
}

func (m *MockTransport) ClearToken() {
	m.mu.Lock()
	m.token = ""
	m.refreshToken = ""
	m.mu.Unlock()
}

func (m *MockTransport) SetRefreshToken(token string) {
	m.mu.Lock()
	m.refreshToken = token
	m.mu.Unlock()
}

func (m *MockTransport) RefreshToken() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.refreshToken
}

// Token returns the currently attached bearer token.
func (m *MockTransport) Token() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token
}

// Calls returns a copy of the recorded posts.
func (m *MockTransport) Calls() []PostCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]PostCall, len(m.calls))
	copy(out, m.calls)
	return out
}

// CallsTo returns the recorded posts against one endpoint.
func (m *MockTransport) CallsTo(endpoint string) []PostCall {
	var out []PostCall
	for _, c := range m.Calls() {
		if c.Endpoint == endpoint {
			out = append(out, c)
		}
	}
	return out
}

// MemoryStorage is an in-memory ports.Storage for tests and for the memory
// backend.
type MemoryStorage struct {
	mu     sync.RWMutex
	values map[string]string

	// SetErr, when set, is returned by Set to simulate storage failures.
	SetErr error
}

// NewMemoryStorage creates an empty MemoryStorage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{values: map[string]string{}}
}

func (m *MemoryStorage) Get(key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok
}

func (m *MemoryStorage) Set(key, value string) error {
	if m.SetErr != nil {
		return m.SetErr
	}
	m.mu.Lock()
	m.values[key] = value
	m.mu.Unlock()
	return nil
}

func (m *MemoryStorage) Delete(key string) error {
	m.mu.Lock()
	delete(m.values, key)
	m.mu.Unlock()
	return nil
}

func (m *MemoryStorage) Clear() error {
	m.mu.Lock()
	m.values = map[string]string{}
	m.mu.Unlock()
	return nil
}

// Len returns the number of stored keys.
func (m *MemoryStorage) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.values)
}

// MockNavigator records navigations and exposes a settable current URL.
type MockNavigator struct {
	mu      sync.Mutex
	current string
	navs    []Navigation

	// Result is returned by Navigate (defaults true via NewMockNavigator).
	Result bool
	// Err, when set, is returned by Navigate.
	Err error
	// FollowNavigations updates CurrentURL on every successful Navigate.
	FollowNavigations bool
}

// Navigation records one Navigate call.
type Navigation struct {
	Path string
	Opts ports.NavigateOptions
}

// NewMockNavigator creates a navigator currently at the given URL.
func NewMockNavigator(current string) *MockNavigator {
	return &MockNavigator{current: current, Result: true}
}

func (m *MockNavigator) Navigate(ctx context.Context, path string, opts ports.NavigateOptions) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.navs = append(m.navs, Navigation{Path: path, Opts: opts})
	if m.Err != nil {
		return false, m.Err
	}
	if m.Result && m.FollowNavigations {
		m.current = path
	}
	return m.Result, nil
}

func (m *MockNavigator) CurrentURL() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// SetCurrentURL moves the navigator without recording a navigation.
func (m *MockNavigator) SetCurrentURL(url string) {
	m.mu.Lock()
	m.current = url
	m.mu.Unlock()
}

// Navigations returns a copy of the recorded navigations.
func (m *MockNavigator) Navigations() []Navigation {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Navigation, len(m.navs))
	copy(out, m.navs)
	return out
}
