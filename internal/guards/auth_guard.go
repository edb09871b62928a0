package guards

import (
	"context"
	"log/slog"

	"github.com/stardyn/authkit/config"
	"github.com/stardyn/authkit/internal/ports"
)

// AuthGuard allows navigation only for authenticated sessions.
// Unauthenticated navigations are redirected to the login page with the
// attempted URL preserved for post-login return.
type AuthGuard struct {
	base
}

// NewAuthGuard constructs an AuthGuard.
func NewAuthGuard(cfg config.Config, session Session, navigator ports.Navigator, logger *slog.Logger) *AuthGuard {
	return &AuthGuard{base{
		cfg:       cfg,
		session:   session,
		navigator: navigator,
		logger:    logger.With(slog.String("guard", "auth")),
	}}
}

// Check decides one navigation.
func (g *AuthGuard) Check(ctx context.Context, route Route) (Decision, error) {
	if _, authenticated := g.session.Snapshot(); authenticated {
		return allow(), nil
	}

	loginURL := g.cfg.RedirectLoginURL()

	// Already on (or under) the login page: redirecting again would only
	// loop, so deny without navigating.
	if isAlreadyAt(loginURL, route.URL, g.navigator.CurrentURL()) {
		g.logger.Warn("already on login page, suppressing redirect",
			slog.String("url", route.URL))
		return deny(), nil
	}

	g.logger.Info("redirecting unauthenticated navigation",
		slog.String("from", route.URL), slog.String("to", loginURL))
	return g.redirect(ctx, loginURL, ports.NavigateOptions{
		QueryParams: map[string]string{"returnUrl": route.URL},
		ReplaceURL:  true,
	}), nil
}
