package service

import (
	"context"
	"log/slog"

	"github.com/stardyn/authkit/config"
	"github.com/stardyn/authkit/internal/credentials"
	domainauth "github.com/stardyn/authkit/internal/domain/auth"
	apperrors "github.com/stardyn/authkit/internal/errors"
	"github.com/stardyn/authkit/internal/ports"
)

// LoginHandler issues the authentication requests against the transport
// and turns their responses into session payloads.
type LoginHandler struct {
	cfg       config.Config
	transport ports.Transport
	parser    *PayloadParser
	logger    *slog.Logger
}

// NewLoginHandler constructs a LoginHandler.
func NewLoginHandler(cfg config.Config, transport ports.Transport, parser *PayloadParser, logger *slog.Logger) *LoginHandler {
	return &LoginHandler{
		cfg:       cfg,
		transport: transport,
		parser:    parser,
		logger:    logger,
	}
}

// PerformLogin authenticates with email and password. The password is
// hashed according to the configured mode before it goes on the wire.
func (h *LoginHandler) PerformLogin(ctx context.Context, creds domainauth.Credentials) (*domainauth.SessionPayload, error) {
	if creds.Email == "" || creds.Password == "" {
		return nil, apperrors.Validation("email and password are required")
	}

	hashed := credentials.Hash(h.logger, h.cfg.PasswordHashType, creds.Password, h.cfg.SiteKey, h.cfg.SiteName)

	body := map[string]string{
		"email":    creds.Email,
		"password": hashed,
	}
	return h.post(ctx, h.cfg.LoginEndpoint(), body)
}

// PerformGoogleLogin completes a Google sign-in exchange. The transport
// already carries the provider state, so the request body is empty.
func (h *LoginHandler) PerformGoogleLogin(ctx context.Context) (*domainauth.SessionPayload, error) {
	return h.post(ctx, h.cfg.GoogleEndpoint(), nil)
}

// PerformMicrosoftLogin completes a Microsoft sign-in exchange.
func (h *LoginHandler) PerformMicrosoftLogin(ctx context.Context, creds domainauth.MicrosoftCredentials) (*domainauth.SessionPayload, error) {
	return h.post(ctx, h.cfg.MicrosoftEndpoint(), creds)
}

// PerformRefresh exchanges the refresh token for a new session payload.
// The refresh response may omit the user object, so the current user is
// threaded through for reuse.
func (h *LoginHandler) PerformRefresh(ctx context.Context, rt ports.RefreshTransport, current *domainauth.User) (*domainauth.SessionPayload, error) {
	refreshToken := rt.RefreshToken()
	if refreshToken == "" {
		return nil, apperrors.Unauthorized("no refresh token available")
	}

	body := map[string]string{"refresh_token": refreshToken}
	resp, err := h.transport.Post(ctx, h.cfg.RefreshEndpoint(), body)
	if err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, apperrors.Unauthorized(messageOr(resp, "Token refresh failed"))
	}
	return h.parser.ParseRefresh(resp.Data, current)
}

// PerformLogout notifies the server that the session ends. Failures are
// reported but the caller tears local state down regardless.
func (h *LoginHandler) PerformLogout(ctx context.Context) error {
	resp, err := h.transport.Post(ctx, h.cfg.LogoutEndpoint(), nil)
	if err != nil {
		return err
	}
	if !resp.Success {
		return apperrors.Transport(0, messageOr(resp, "Logout failed"))
	}
	return nil
}

func (h *LoginHandler) post(ctx context.Context, endpoint string, body any) (*domainauth.SessionPayload, error) {
	resp, err := h.transport.Post(ctx, endpoint, body)
	if err != nil {
		return nil, err
	}
	if !resp.Success {
		h.logger.Warn("authentication rejected",
			slog.String("endpoint", endpoint), slog.String("message", resp.Message))
		return nil, apperrors.Unauthorized(messageOr(resp, "Login failed"))
	}
	return h.parser.ParseLogin(resp.Data)
}

func messageOr(resp ports.Response, fallback string) string {
	if resp.Message != "" {
		return resp.Message
	}
	return fallback
}
