package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stardyn/authkit/config"
	domainauth "github.com/stardyn/authkit/internal/domain/auth"
	apperrors "github.com/stardyn/authkit/internal/errors"
)

func defaultParser() *PayloadParser {
	cfg := config.Default()
	return NewPayloadParser(cfg.Payload)
}

func TestParseLoginFullPayload(t *testing.T) {
	p := defaultParser()

	payload, err := p.ParseLogin(map[string]any{
		"token":         "tok-abc",
		"refresh_token": "ref-def",
		"expires_in":    float64(7200),
		"token_type":    "Bearer",
		"user": map[string]any{
			"user_id":   "u-1",
			"email":     "ada@example.com",
			"authority": "ADMIN",
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "tok-abc", payload.Token)
	assert.Equal(t, "ref-def", payload.RefreshToken)
	assert.Equal(t, int64(7200), payload.ExpiresIn)
	assert.Equal(t, "Bearer", payload.TokenType)
	require.NotNil(t, payload.User)
	assert.Equal(t, "u-1", payload.User.UserID)
	assert.Equal(t, domainauth.AuthorityAdmin, payload.User.Authority)
}

func TestParseLoginMissingToken(t *testing.T) {
	p := defaultParser()

	tests := []struct {
		name string
		data any
	}{
		{"nil body", nil},
		{"empty object", map[string]any{}},
		{"empty token", map[string]any{"token": ""}},
		{"token wrong type", map[string]any{"token": 42}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := p.ParseLogin(tt.data)
			assert.True(t, apperrors.IsValidation(err))
		})
	}
}

func TestParseLoginDefaults(t *testing.T) {
	p := defaultParser()

	payload, err := p.ParseLogin(map[string]any{"token": "tok"})
	require.NoError(t, err)

	assert.Equal(t, int64(3600), payload.ExpiresIn)
	assert.Equal(t, "Bearer", payload.TokenType)
	assert.Empty(t, payload.RefreshToken)
	assert.Nil(t, payload.User)
}

func TestParseLoginCustomPaths(t *testing.T) {
	cfg := config.Default()
	cfg.Payload.Token = "session.access_token"
	cfg.Payload.User = "session.account"
	p := NewPayloadParser(cfg.Payload)

	payload, err := p.ParseLogin(map[string]any{
		"session": map[string]any{
			"access_token": "nested-tok",
			"account":      map[string]any{"email": "x@example.com"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "nested-tok", payload.Token)
	require.NotNil(t, payload.User)
	assert.Equal(t, "x@example.com", payload.User.Email)
}

func TestParseRefreshReusesCurrentUser(t *testing.T) {
	p := defaultParser()
	current := &domainauth.User{UserID: "u-1", Email: "ada@example.com"}

	payload, err := p.ParseRefresh(map[string]any{"token": "new-tok"}, current)
	require.NoError(t, err)
	assert.Same(t, current, payload.User)

	// A user object in the refresh response is never trusted; only the
	// tokens rotate.
	payload, err = p.ParseRefresh(map[string]any{
		"token": "new-tok",
		"user":  map[string]any{"user_id": "u-2"},
	}, current)
	require.NoError(t, err)
	assert.Same(t, current, payload.User)
}

func TestParseLoginMalformedUser(t *testing.T) {
	p := defaultParser()

	_, err := p.ParseLogin(map[string]any{
		"token": "tok",
		"user":  "not an object",
	})
	assert.True(t, apperrors.IsValidation(err))
}
