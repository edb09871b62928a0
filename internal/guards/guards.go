// Package guards decides whether navigation to a route may proceed and
// performs the redirects when it may not.
package guards

import (
	"context"
	"log/slog"
	"strings"

	"github.com/stardyn/authkit/config"
	"github.com/stardyn/authkit/internal/domain/access"
	domainauth "github.com/stardyn/authkit/internal/domain/auth"
	"github.com/stardyn/authkit/internal/ports"
)

// Session is the slice of the session manager the guards need.
type Session interface {
	Snapshot() (*domainauth.User, bool)
}

// Route describes the navigation target being guarded.
type Route struct {
	// URL is the destination the navigation is headed to.
	URL string
	// Permissions is the access requirement attached to the route.
	// A zero Expression means the route carries no requirement.
	Permissions access.Expression
	// PermissionRedirectTo overrides the configured redirect when the
	// permission check fails.
	PermissionRedirectTo string
}

// Decision is a guard's verdict on one navigation.
type Decision struct {
	// Allowed reports whether the navigation may proceed.
	Allowed bool
	// RedirectedTo is the path the guard sent the user to instead, when
	// it redirected.
	RedirectedTo string
}

func allow() Decision              { return Decision{Allowed: true} }
func deny() Decision               { return Decision{} }
func denyTo(target string) Decision {
	return Decision{RedirectedTo: target}
}

// isAlreadyAt reports whether a navigation is effectively already at the
// target, so redirecting there again would only loop. Both the
// navigation's destination URL and the browser's current URL count.
func isAlreadyAt(target string, urls ...string) bool {
	for _, url := range urls {
		if url == "" {
			continue
		}
		if url == target ||
			strings.HasPrefix(url, target+"?") ||
			strings.HasPrefix(url, target+"/") {
			return true
		}
	}
	return false
}

type base struct {
	cfg       config.Config
	session   Session
	navigator ports.Navigator
	logger    *slog.Logger
}

func (b *base) redirect(ctx context.Context, target string, opts ports.NavigateOptions) Decision {
	ok, err := b.navigator.Navigate(ctx, target, opts)
	if err != nil {
		b.logger.Error("guard redirect failed",
			slog.String("target", target), slog.Any("error", err))
		return deny()
	}
	if !ok {
		return deny()
	}
	return denyTo(target)
}
