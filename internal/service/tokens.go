package service

import (
	"encoding/json"
	"log/slog"
	"strconv"

	"github.com/stardyn/authkit/internal/clock"
	domainauth "github.com/stardyn/authkit/internal/domain/auth"
	"github.com/stardyn/authkit/internal/ports"
)

// Persisted key names. The storage backend namespaces them with its own
// prefix.
const (
	keyToken     = "auth_token"
	keyUser      = "user_data"
	keyExpiresAt = "token_expires_in"
	keyTokenType = "token_type"
)

// TokenManager persists and retrieves the bearer token, its absolute
// expiration instant, and the cached user identity. The expiration is
// always stored as absolute unix seconds computed at storage time, never
// as a relative duration.
type TokenManager struct {
	storage ports.Storage
	clock   clock.Clock
	logger  *slog.Logger
}

// NewTokenManager constructs a TokenManager.
func NewTokenManager(storage ports.Storage, clk clock.Clock, logger *slog.Logger) *TokenManager {
	return &TokenManager{
		storage: storage,
		clock:   clk,
		logger:  logger,
	}
}

// StoreTokens persists the token fields of a session payload.
func (m *TokenManager) StoreTokens(p *domainauth.SessionPayload) error {
	expiresAt := m.clock.Now().Unix() + p.ExpiresIn

	if err := m.storage.Set(keyToken, p.Token); err != nil {
		return err
	}
	if err := m.storage.Set(keyExpiresAt, strconv.FormatInt(expiresAt, 10)); err != nil {
		return err
	}
	if err := m.storage.Set(keyTokenType, p.TokenType); err != nil {
		return err
	}
	m.logger.Debug("tokens stored", slog.Int64("expires_at", expiresAt))
	return nil
}

// StoreUser persists the user identity alongside the token.
func (m *TokenManager) StoreUser(u *domainauth.User) error {
	data, err := json.Marshal(u)
	if err != nil {
		return err
	}
	return m.storage.Set(keyUser, string(data))
}

// Token returns the persisted bearer token, if any.
func (m *TokenManager) Token() (string, bool) {
	v, ok := m.storage.Get(keyToken)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

// TokenType returns the persisted token type, defaulting to "Bearer".
func (m *TokenManager) TokenType() string {
	v, ok := m.storage.Get(keyTokenType)
	if !ok || v == "" {
		return "Bearer"
	}
	return v
}

// Expiration returns the absolute expiry as unix seconds, if present.
func (m *TokenManager) Expiration() (int64, bool) {
	v, ok := m.storage.Get(keyExpiresAt)
	if !ok {
		return 0, false
	}
	exp, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		m.logger.Warn("ignoring malformed stored expiry", slog.String("value", v))
		return 0, false
	}
	return exp, true
}

// StoredUser returns the persisted user identity, if present and decodable.
func (m *TokenManager) StoredUser() (*domainauth.User, bool) {
	v, ok := m.storage.Get(keyUser)
	if !ok || v == "" {
		return nil, false
	}
	var u domainauth.User
	if err := json.Unmarshal([]byte(v), &u); err != nil {
		m.logger.Warn("ignoring malformed stored user data", slog.Any("error", err))
		return nil, false
	}
	return &u, true
}

// TokenRecord returns the persisted token state as a record, if complete.
func (m *TokenManager) TokenRecord() (domainauth.TokenRecord, bool) {
	token, ok := m.Token()
	if !ok {
		return domainauth.TokenRecord{}, false
	}
	exp, ok := m.Expiration()
	if !ok {
		return domainauth.TokenRecord{}, false
	}
	return domainauth.TokenRecord{
		Token:     token,
		TokenType: m.TokenType(),
		ExpiresAt: exp,
	}, true
}

// ClearAll wipes every persisted auth value. Storage failures are logged
// but never abort the teardown path.
func (m *TokenManager) ClearAll() {
	for _, key := range []string{keyToken, keyExpiresAt, keyTokenType, keyUser} {
		if err := m.storage.Delete(key); err != nil {
			m.logger.Error("clear stored auth value failed",
				slog.String("key", key), slog.Any("error", err))
		}
	}
	if err := m.storage.Clear(); err != nil {
		m.logger.Error("clear storage failed", slog.Any("error", err))
	}
	m.logger.Debug("stored auth data cleared")
}
