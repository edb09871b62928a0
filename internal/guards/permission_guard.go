package guards

import (
	"context"
	"log/slog"
	"strings"

	"github.com/stardyn/authkit/config"
	"github.com/stardyn/authkit/internal/domain/access"
	apperrors "github.com/stardyn/authkit/internal/errors"
	"github.com/stardyn/authkit/internal/ports"
)

// PermissionGuard layers a permission requirement on top of the
// authentication requirement. Routes without a requirement only need an
// authenticated session.
type PermissionGuard struct {
	base
	evaluator access.Evaluator
}

// NewPermissionGuard constructs a PermissionGuard.
func NewPermissionGuard(cfg config.Config, session Session, evaluator access.Evaluator, navigator ports.Navigator, logger *slog.Logger) *PermissionGuard {
	return &PermissionGuard{
		base: base{
			cfg:       cfg,
			session:   session,
			navigator: navigator,
			logger:    logger.With(slog.String("guard", "permission")),
		},
		evaluator: evaluator,
	}
}

// Check decides one navigation. A denial with no configured redirect
// target returns a PermissionDeniedError so the caller can surface it as
// a 403-class failure.
func (g *PermissionGuard) Check(ctx context.Context, route Route) (Decision, error) {
	user, authenticated := g.session.Snapshot()
	if !authenticated || user == nil {
		return g.handleUnauthenticated(ctx, route), nil
	}

	if route.Permissions.IsZero() {
		// No requirement on the route, authenticated is sufficient.
		return allow(), nil
	}

	if g.evaluator.Include(user, route.Permissions) {
		return allow(), nil
	}

	required := route.Permissions.Tokens()
	g.logger.Warn("permission denied",
		slog.String("url", route.URL),
		slog.Any("required", required),
		slog.Any("actual", user.Permissions))

	if route.PermissionRedirectTo == "" {
		return deny(), apperrors.PermissionDenied(required, user.Permissions)
	}

	target := route.PermissionRedirectTo
	if isAlreadyAt(target, route.URL, g.navigator.CurrentURL()) {
		return deny(), nil
	}
	return g.redirect(ctx, target, ports.NavigateOptions{
		QueryParams: map[string]string{
			"reason":   "insufficient_permissions",
			"required": strings.Join(required, ","),
		},
		ReplaceURL: true,
	}), nil
}

// handleUnauthenticated redirects an unauthenticated navigation, using
// the route's own redirect target when it has one and the login page
// otherwise.
func (g *PermissionGuard) handleUnauthenticated(ctx context.Context, route Route) Decision {
	params := map[string]string{"returnUrl": route.URL}

	target := route.PermissionRedirectTo
	if target != "" {
		params["reason"] = "unauthenticated"
	} else {
		target = g.cfg.RedirectLoginURL()
	}

	if isAlreadyAt(target, route.URL, g.navigator.CurrentURL()) {
		g.logger.Warn("already at redirect target, suppressing redirect",
			slog.String("url", route.URL))
		return deny()
	}
	return g.redirect(ctx, target, ports.NavigateOptions{
		QueryParams: params,
		ReplaceURL:  true,
	})
}
