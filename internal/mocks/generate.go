// Package mocks provides generated mock implementations for testing the
// session manager ports.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks.
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	mockTransport := mocks.NewMockTransport(ctrl)
//	mockTransport.EXPECT().Post(gomock.Any(), "/auth/login-by-email", gomock.Any()).Return(resp, nil)
package mocks

// Generate mock for Transport interface from internal/ports.
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=transport_mock.go github.com/stardyn/authkit/internal/ports Transport
