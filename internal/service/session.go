package service

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/stardyn/authkit/config"
	"github.com/stardyn/authkit/internal/clock"
	domainauth "github.com/stardyn/authkit/internal/domain/auth"
	apperrors "github.com/stardyn/authkit/internal/errors"
	"github.com/stardyn/authkit/internal/ports"
)

// UserListener observes user identity changes. A nil user means the
// session ended.
type UserListener func(user *domainauth.User)

// AuthListener observes authenticated-state transitions.
type AuthListener func(authenticated bool)

// Options carries the collaborators a SessionService needs.
type Options struct {
	Config    config.Config
	Transport ports.Transport
	Storage   ports.Storage
	Navigator ports.Navigator
	Logger    *slog.Logger
	Clock     clock.Clock
}

// SessionService is the authentication session manager. It owns the
// current user, the authenticated flag, the persisted token state and
// the background refresh timer, and coordinates all of them so callers
// only ever see a consistent session.
type SessionService struct {
	cfg       config.Config
	transport ports.Transport
	refresh   ports.RefreshTransport
	tokens    *TokenManager
	login     *LoginHandler
	scheduler *RefreshScheduler
	navigator ports.Navigator
	logger    *slog.Logger
	clock     clock.Clock

	mu            sync.RWMutex
	user          *domainauth.User
	authenticated bool
	// generation increments whenever auth data is cleared, so an
	// in-flight refresh that started before a logout can detect it is
	// stale and discard its result.
	generation uint64

	userListeners []UserListener
	authListeners []AuthListener

	refreshGroup singleflight.Group
}

// NewSessionService wires a session manager from its collaborators.
// When the refresh token flow is enabled the transport must support
// refresh tokens, otherwise construction fails.
func NewSessionService(opts Options) (*SessionService, error) {
	if opts.Transport == nil {
		return nil, apperrors.Config("transport is required")
	}
	if opts.Storage == nil {
		return nil, apperrors.Config("storage is required")
	}
	if opts.Navigator == nil {
		return nil, apperrors.Config("navigator is required")
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Clock == nil {
		opts.Clock = clock.Real{}
	}

	var refresh ports.RefreshTransport
	if opts.Config.UseRefreshToken {
		rt, ok := opts.Transport.(ports.RefreshTransport)
		if !ok {
			return nil, apperrors.Config("refresh token flow requires a refresh-capable transport")
		}
		refresh = rt
	}

	logger := opts.Logger.With(slog.String("component", "session"))
	parser := NewPayloadParser(opts.Config.Payload)

	return &SessionService{
		cfg:       opts.Config,
		transport: opts.Transport,
		refresh:   refresh,
		tokens:    NewTokenManager(opts.Storage, opts.Clock, logger),
		login:     NewLoginHandler(opts.Config, opts.Transport, parser, logger),
		scheduler: NewRefreshScheduler(opts.Clock, logger, opts.Config.UseRefreshToken),
		navigator: opts.Navigator,
		logger:    logger,
		clock:     opts.Clock,
	}, nil
}

// Restore rebuilds the session from persisted state, typically at
// startup. It reports whether a live session was recovered. An expired
// or incomplete stored session leaves the service unauthenticated.
func (s *SessionService) Restore(ctx context.Context) (bool, error) {
	record, ok := s.tokens.TokenRecord()
	if !ok {
		return false, nil
	}
	if record.ExpiresAt <= s.clock.Now().Unix() {
		s.logger.Info("stored session expired, discarding")
		s.clearAuthData()
		return false, nil
	}

	user, ok := s.tokens.StoredUser()
	if !ok {
		s.logger.Warn("stored session has no usable user data, discarding")
		s.clearAuthData()
		return false, nil
	}

	s.transport.SetToken(record.Token)
	s.setSession(user, true)
	s.armRefresh(record.ExpiresAt)
	s.logger.Info("session restored", slog.Int64("expires_at", record.ExpiresAt))
	return true, nil
}

// Login authenticates with email and password credentials.
func (s *SessionService) Login(ctx context.Context, creds domainauth.Credentials) (*domainauth.User, error) {
	payload, err := s.login.PerformLogin(ctx, creds)
	if err != nil {
		return nil, s.failAuth(err)
	}
	return s.applyLogin(payload)
}

// LoginWithGoogle completes a Google sign-in exchange.
func (s *SessionService) LoginWithGoogle(ctx context.Context) (*domainauth.User, error) {
	payload, err := s.login.PerformGoogleLogin(ctx)
	if err != nil {
		return nil, s.failAuth(err)
	}
	return s.applyLogin(payload)
}

// LoginWithMicrosoft completes a Microsoft sign-in exchange.
func (s *SessionService) LoginWithMicrosoft(ctx context.Context, creds domainauth.MicrosoftCredentials) (*domainauth.User, error) {
	payload, err := s.login.PerformMicrosoftLogin(ctx, creds)
	if err != nil {
		return nil, s.failAuth(err)
	}
	return s.applyLogin(payload)
}

// Refresh exchanges the refresh token for fresh session credentials.
// Concurrent calls collapse into a single upstream request. A refresh
// that raced with a logout is discarded without touching session state.
func (s *SessionService) Refresh(ctx context.Context) error {
	if s.refresh == nil {
		s.logger.Warn("refresh requested but the refresh token flow is disabled")
		return apperrors.Validation("Refresh token not supported")
	}

	started := s.currentGeneration()

	_, err, _ := s.refreshGroup.Do("refresh", func() (any, error) {
		payload, err := s.login.PerformRefresh(ctx, s.refresh, s.CurrentUser())
		if err != nil {
			return nil, err
		}
		if s.currentGeneration() != started {
			s.logger.Info("discarding stale token refresh")
			return nil, nil
		}
		return nil, s.applyRefresh(payload)
	})
	return err
}

// Logout ends the session. The server is notified on a best-effort
// basis; local state is torn down and the user is redirected regardless
// of whether that notification succeeds.
func (s *SessionService) Logout(ctx context.Context) error {
	if err := s.login.PerformLogout(ctx); err != nil {
		s.logger.Warn("server logout failed, clearing local session anyway",
			slog.Any("error", err))
	}
	return s.LogoutLocal(ctx)
}

// LogoutLocal tears the session down and redirects, without contacting
// the server.
func (s *SessionService) LogoutLocal(ctx context.Context) error {
	s.clearAuthData()
	s.logger.Info("session ended")
	return s.performLogoutRedirect(ctx)
}

// CurrentUser returns the authenticated user, or nil.
func (s *SessionService) CurrentUser() *domainauth.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// IsAuthenticated reports whether a session is active.
func (s *SessionService) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.authenticated
}

// Snapshot returns the user and authenticated flag as one consistent
// read.
func (s *SessionService) Snapshot() (*domainauth.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user, s.authenticated
}

// TokenRecord exposes the persisted token state, if any.
func (s *SessionService) TokenRecord() (domainauth.TokenRecord, bool) {
	return s.tokens.TokenRecord()
}

// OnUserChange registers a listener for user identity changes.
// Listeners run synchronously on the goroutine that mutated the session.
func (s *SessionService) OnUserChange(fn UserListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.userListeners = append(s.userListeners, fn)
}

// OnAuthChange registers a listener for authenticated-state changes.
func (s *SessionService) OnAuthChange(fn AuthListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.authListeners = append(s.authListeners, fn)
}

func (s *SessionService) applyLogin(p *domainauth.SessionPayload) (*domainauth.User, error) {
	if err := s.persistSession(p); err != nil {
		return nil, s.failAuth(err)
	}

	s.transport.SetToken(p.Token)
	if s.refresh != nil {
		s.refresh.SetRefreshToken(p.RefreshToken)
	}

	s.setSession(p.User, true)
	s.armRefresh(s.clock.Now().Unix() + p.ExpiresIn)
	s.logger.Info("login succeeded", slog.Int64("expires_in", p.ExpiresIn))
	return p.User, nil
}

func (s *SessionService) applyRefresh(p *domainauth.SessionPayload) error {
	if err := s.persistSession(p); err != nil {
		return err
	}

	s.transport.SetToken(p.Token)
	if s.refresh != nil && p.RefreshToken != "" {
		s.refresh.SetRefreshToken(p.RefreshToken)
	}

	s.setSession(p.User, true)
	s.armRefresh(s.clock.Now().Unix() + p.ExpiresIn)
	s.logger.Debug("token refreshed", slog.Int64("expires_in", p.ExpiresIn))
	return nil
}

func (s *SessionService) persistSession(p *domainauth.SessionPayload) error {
	if err := s.tokens.StoreTokens(p); err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeInternal, "persist tokens")
	}
	if p.User != nil {
		if err := s.tokens.StoreUser(p.User); err != nil {
			return apperrors.Wrap(err, apperrors.ErrCodeInternal, "persist user")
		}
	}
	return nil
}

// armRefresh schedules the background refresh for the given expiry. The
// refresh runs detached from any caller context.
func (s *SessionService) armRefresh(expiresAt int64) {
	generation := s.currentGeneration()
	s.scheduler.Arm(expiresAt, func() {
		if s.currentGeneration() != generation {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := s.Refresh(ctx); err != nil {
			s.logger.Warn("background token refresh failed, ending session",
				slog.Any("error", err))
			s.clearAuthData()
		}
	})
}

// setSession updates user and authenticated together. The user change is
// always announced before the authenticated change, so listeners of the
// latter can already read the new identity.
func (s *SessionService) setSession(user *domainauth.User, authenticated bool) {
	s.mu.Lock()
	s.user = user
	s.authenticated = authenticated
	userFns := append([]UserListener(nil), s.userListeners...)
	authFns := append([]AuthListener(nil), s.authListeners...)
	s.mu.Unlock()

	for _, fn := range userFns {
		fn(user)
	}
	for _, fn := range authFns {
		fn(authenticated)
	}
}

// clearAuthData wipes tokens, persisted state, the pending refresh timer
// and the in-memory session, and bumps the generation so stale refreshes
// know to discard themselves.
func (s *SessionService) clearAuthData() {
	s.mu.Lock()
	s.generation++
	s.mu.Unlock()

	s.scheduler.Cancel()
	s.transport.ClearToken()
	s.tokens.ClearAll()
	s.setSession(nil, false)
}

func (s *SessionService) currentGeneration() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.generation
}

// failAuth tears down any partial session state on authentication
// failure and normalizes the error for callers.
func (s *SessionService) failAuth(err error) error {
	s.clearAuthData()
	return normalizeAuthError(err)
}

// normalizeAuthError maps low-level transport failures onto stable,
// user-presentable authentication errors. Errors that already carry a
// server-supplied message (rejected credentials, validation) pass
// through untouched.
func normalizeAuthError(err error) error {
	if err == nil {
		return nil
	}
	if apperrors.IsNetwork(err) {
		return apperrors.Wrap(err, apperrors.ErrCodeNetwork, "Network connection failed")
	}
	if !apperrors.IsTransport(err) {
		return err
	}
	status := apperrors.GetStatus(err)
	switch {
	case status == http.StatusUnauthorized:
		return apperrors.Unauthorized("Invalid credentials")
	case status == http.StatusForbidden:
		return apperrors.Forbidden("Access forbidden")
	case status == http.StatusUnprocessableEntity:
		return apperrors.Validation("Invalid input data")
	case status >= http.StatusInternalServerError:
		return apperrors.Transport(status, "Server error")
	default:
		return apperrors.Transport(status, "Authentication failed")
	}
}

// performLogoutRedirect sends the user to the configured post-logout
// destination. If that navigation fails, the login page is the hard
// fallback so the user never remains on a protected view.
func (s *SessionService) performLogoutRedirect(ctx context.Context) error {
	target := s.cfg.RedirectLogoutURL()
	ok, err := s.navigator.Navigate(ctx, target, ports.NavigateOptions{ReplaceURL: true})
	if err == nil && ok {
		return nil
	}
	if err != nil {
		s.logger.Warn("logout redirect failed",
			slog.String("target", target), slog.Any("error", err))
	}

	fallback := s.cfg.RedirectLoginURL()
	if fallback == target {
		return err
	}
	if _, ferr := s.navigator.Navigate(ctx, fallback, ports.NavigateOptions{ReplaceURL: true}); ferr != nil {
		return ferr
	}
	return nil
}
