package guards

import (
	"context"
	"log/slog"

	"github.com/stardyn/authkit/config"
	"github.com/stardyn/authkit/internal/ports"
)

// LoginGuard protects login-only routes: anonymous visitors pass, while
// already-authenticated users are sent to the post-login destination.
type LoginGuard struct {
	base
}

// NewLoginGuard constructs a LoginGuard.
func NewLoginGuard(cfg config.Config, session Session, navigator ports.Navigator, logger *slog.Logger) *LoginGuard {
	return &LoginGuard{base{
		cfg:       cfg,
		session:   session,
		navigator: navigator,
		logger:    logger.With(slog.String("guard", "login")),
	}}
}

// Check decides one navigation.
func (g *LoginGuard) Check(ctx context.Context, route Route) (Decision, error) {
	if _, authenticated := g.session.Snapshot(); !authenticated {
		return allow(), nil
	}

	target := g.cfg.RedirectLoginURL()

	// Unlike the other guards, a detected loop here allows the
	// navigation: the user is authenticated and denying would leave them
	// with no route at all.
	if isAlreadyAt(target, route.URL, g.navigator.CurrentURL()) {
		g.logger.Warn("already at post-login destination, allowing",
			slog.String("url", route.URL))
		return allow(), nil
	}

	g.logger.Info("redirecting authenticated user off login-only route",
		slog.String("from", route.URL), slog.String("to", target))
	return g.redirect(ctx, target, ports.NavigateOptions{ReplaceURL: true}), nil
}
