package service

import (
	"encoding/json"

	"github.com/jmespath-community/go-jmespath"

	"github.com/stardyn/authkit/config"
	domainauth "github.com/stardyn/authkit/internal/domain/auth"
	apperrors "github.com/stardyn/authkit/internal/errors"
)

const (
	defaultExpiresIn = 3600
	defaultTokenType = "Bearer"
)

// PayloadParser extracts session fields from a transport response body
// using the configured extraction paths, so deployments whose auth server
// nests the token differently only need a config change.
type PayloadParser struct {
	paths config.PayloadPaths
}

// NewPayloadParser constructs a parser for the given extraction paths.
func NewPayloadParser(paths config.PayloadPaths) *PayloadParser {
	return &PayloadParser{paths: paths}
}

// ParseLogin extracts a full session payload from a login response body.
// A missing or empty token is a validation failure; every other field
// falls back to a default.
func (p *PayloadParser) ParseLogin(data any) (*domainauth.SessionPayload, error) {
	token := p.stringAt(p.paths.Token, data)
	if token == "" {
		return nil, apperrors.Validation("authentication response did not contain a token")
	}

	payload := &domainauth.SessionPayload{
		Token:        token,
		RefreshToken: p.stringAt(p.paths.RefreshToken, data),
		ExpiresIn:    p.intAt(p.paths.ExpiresIn, data, defaultExpiresIn),
		TokenType:    p.stringAtDefault(p.paths.TokenType, data, defaultTokenType),
	}

	user, err := p.userAt(data)
	if err != nil {
		return nil, err
	}
	payload.User = user
	return payload, nil
}

// ParseRefresh extracts a session payload from a token refresh response.
// The refresh response only rotates tokens; it is never trusted to carry
// a user record, so the caller's current user is carried over unchanged.
func (p *PayloadParser) ParseRefresh(data any, current *domainauth.User) (*domainauth.SessionPayload, error) {
	payload, err := p.ParseLogin(data)
	if err != nil {
		return nil, err
	}
	payload.User = current
	return payload, nil
}

func (p *PayloadParser) userAt(data any) (*domainauth.User, error) {
	raw, err := jmespath.Search(p.paths.User, data)
	if err != nil || raw == nil {
		return nil, nil
	}
	// Round-trip through JSON to map the loosely typed search result
	// onto the user struct.
	encoded, err := json.Marshal(raw)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "encode user payload")
	}
	var u domainauth.User
	if err := json.Unmarshal(encoded, &u); err != nil {
		return nil, apperrors.Validation("authentication response contained a malformed user object")
	}
	return &u, nil
}

func (p *PayloadParser) stringAt(path string, data any) string {
	raw, err := jmespath.Search(path, data)
	if err != nil || raw == nil {
		return ""
	}
	s, _ := raw.(string)
	return s
}

func (p *PayloadParser) stringAtDefault(path string, data any, fallback string) string {
	if s := p.stringAt(path, data); s != "" {
		return s
	}
	return fallback
}

func (p *PayloadParser) intAt(path string, data any, fallback int64) int64 {
	raw, err := jmespath.Search(path, data)
	if err != nil || raw == nil {
		return fallback
	}
	switch v := raw.(type) {
	case float64:
		return int64(v)
	case int:
		return int64(v)
	case int64:
		return v
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return fallback
		}
		return n
	default:
		return fallback
	}
}
