package service

import (
	"time"

	"golang.org/x/oauth2"

	apperrors "github.com/stardyn/authkit/internal/errors"
)

// TokenSource adapts the session to the oauth2.TokenSource interface so
// the managed bearer token can feed any client built on the oauth2
// ecosystem.
func (s *SessionService) TokenSource() oauth2.TokenSource {
	return &sessionTokenSource{svc: s}
}

type sessionTokenSource struct {
	svc *SessionService
}

func (ts *sessionTokenSource) Token() (*oauth2.Token, error) {
	if !ts.svc.IsAuthenticated() {
		return nil, apperrors.Unauthorized("no active session")
	}
	record, ok := ts.svc.TokenRecord()
	if !ok {
		return nil, apperrors.Unauthorized("no stored token")
	}
	return &oauth2.Token{
		AccessToken: record.Token,
		TokenType:   record.TokenType,
		Expiry:      time.Unix(record.ExpiresAt, 0),
	}, nil
}
