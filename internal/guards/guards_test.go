package guards

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stardyn/authkit/config"
	"github.com/stardyn/authkit/internal/domain/access"
	domainauth "github.com/stardyn/authkit/internal/domain/auth"
	apperrors "github.com/stardyn/authkit/internal/errors"
	"github.com/stardyn/authkit/internal/mocks/authmocks"
)

// staticSession is a fixed Session snapshot for guard tests.
type staticSession struct {
	user          *domainauth.User
	authenticated bool
}

func (s staticSession) Snapshot() (*domainauth.User, bool) {
	return s.user, s.authenticated
}

func anonymous() staticSession {
	return staticSession{}
}

func authenticatedAs(perms ...string) staticSession {
	return staticSession{
		user:          &domainauth.User{UserID: "u-1", Permissions: perms},
		authenticated: true,
	}
}

func TestIsAlreadyAt(t *testing.T) {
	tests := []struct {
		name   string
		target string
		urls   []string
		want   bool
	}{
		{"exact match", "/login", []string{"/login"}, true},
		{"query variant", "/login", []string{"/login?returnUrl=%2Fx"}, true},
		{"sub-path", "/login", []string{"/login/reset"}, true},
		{"different page", "/login", []string{"/dashboard"}, false},
		{"prefix but not sub-path", "/login", []string{"/login-help"}, false},
		{"second url matches", "/login", []string{"/dashboard", "/login"}, true},
		{"empty urls ignored", "/login", []string{"", ""}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isAlreadyAt(tt.target, tt.urls...))
		})
	}
}

func TestAuthGuardAllowsAuthenticated(t *testing.T) {
	nav := authmocks.NewMockNavigator("/dashboard")
	g := NewAuthGuard(config.Default(), authenticatedAs(), nav, slog.Default())

	d, err := g.Check(context.Background(), Route{URL: "/devices"})
	require.NoError(t, err)
	assert.True(t, d.Allowed)
	assert.Empty(t, nav.Navigations())
}

func TestAuthGuardRedirectsAnonymous(t *testing.T) {
	nav := authmocks.NewMockNavigator("/dashboard")
	g := NewAuthGuard(config.Default(), anonymous(), nav, slog.Default())

	d, err := g.Check(context.Background(), Route{URL: "/devices"})
	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.Equal(t, "/login", d.RedirectedTo)

	navs := nav.Navigations()
	require.Len(t, navs, 1)
	assert.Equal(t, "/login", navs[0].Path)
	assert.Equal(t, "/devices", navs[0].Opts.QueryParams["returnUrl"])
	assert.True(t, navs[0].Opts.ReplaceURL)
}

func TestAuthGuardSuppressesRedirectLoop(t *testing.T) {
	tests := []struct {
		name    string
		routeTo string
		browser string
	}{
		{"navigating to login", "/login", "/dashboard"},
		{"navigating to login with query", "/login?returnUrl=%2Fx", "/dashboard"},
		{"browser already on login", "/devices", "/login"},
		{"browser on login sub-path", "/devices", "/login/reset"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nav := authmocks.NewMockNavigator(tt.browser)
			g := NewAuthGuard(config.Default(), anonymous(), nav, slog.Default())

			d, err := g.Check(context.Background(), Route{URL: tt.routeTo})
			require.NoError(t, err)
			assert.False(t, d.Allowed)
			assert.Empty(t, nav.Navigations(), "loop suppression must not navigate")
		})
	}
}

func TestPermissionGuardActiveEngine(t *testing.T) {
	cfg := config.Default()
	cfg.PermissionEngineActive = true
	ev := access.Evaluator{Active: true}

	t.Run("no requirement allows any authenticated user", func(t *testing.T) {
		nav := authmocks.NewMockNavigator("/dashboard")
		g := NewPermissionGuard(cfg, authenticatedAs(), ev, nav, slog.Default())

		d, err := g.Check(context.Background(), Route{URL: "/devices"})
		require.NoError(t, err)
		assert.True(t, d.Allowed)
	})

	t.Run("any-of requirement", func(t *testing.T) {
		nav := authmocks.NewMockNavigator("/dashboard")
		g := NewPermissionGuard(cfg, authenticatedAs("DEVICE_WRITE"), ev, nav, slog.Default())

		d, err := g.Check(context.Background(), Route{
			URL:         "/devices",
			Permissions: access.Expr("DEVICE_READ | DEVICE_WRITE"),
		})
		require.NoError(t, err)
		assert.True(t, d.Allowed)
	})

	t.Run("denied without redirect target", func(t *testing.T) {
		nav := authmocks.NewMockNavigator("/dashboard")
		g := NewPermissionGuard(cfg, authenticatedAs("DEVICE_READ"), ev, nav, slog.Default())

		d, err := g.Check(context.Background(), Route{
			URL:         "/admin",
			Permissions: access.Expr("ADMIN_PANEL"),
		})
		require.Error(t, err)
		assert.False(t, d.Allowed)
		assert.True(t, apperrors.IsPermissionDenied(err))
		assert.Empty(t, nav.Navigations())

		var pd *apperrors.PermissionDeniedError
		require.ErrorAs(t, err, &pd)
		assert.Equal(t, []string{"ADMIN_PANEL"}, pd.Required)
		assert.Equal(t, []string{"DEVICE_READ"}, pd.Actual)
	})

	t.Run("denied with redirect target", func(t *testing.T) {
		nav := authmocks.NewMockNavigator("/dashboard")
		g := NewPermissionGuard(cfg, authenticatedAs("DEVICE_READ"), ev, nav, slog.Default())

		d, err := g.Check(context.Background(), Route{
			URL:                  "/admin",
			Permissions:          access.Expr("ADMIN_PANEL | SYS_CONFIG"),
			PermissionRedirectTo: "/unauthorized",
		})
		require.NoError(t, err)
		assert.False(t, d.Allowed)
		assert.Equal(t, "/unauthorized", d.RedirectedTo)

		navs := nav.Navigations()
		require.Len(t, navs, 1)
		assert.Equal(t, "/unauthorized", navs[0].Path)
		assert.Equal(t, "insufficient_permissions", navs[0].Opts.QueryParams["reason"])
		assert.Equal(t, "ADMIN_PANEL,SYS_CONFIG", navs[0].Opts.QueryParams["required"])
	})

	t.Run("redirect target loop suppressed", func(t *testing.T) {
		nav := authmocks.NewMockNavigator("/unauthorized")
		g := NewPermissionGuard(cfg, authenticatedAs("DEVICE_READ"), ev, nav, slog.Default())

		d, err := g.Check(context.Background(), Route{
			URL:                  "/admin",
			Permissions:          access.Expr("ADMIN_PANEL"),
			PermissionRedirectTo: "/unauthorized",
		})
		require.NoError(t, err)
		assert.False(t, d.Allowed)
		assert.Empty(t, nav.Navigations())
	})

	t.Run("empty requirement denies even privileged users", func(t *testing.T) {
		nav := authmocks.NewMockNavigator("/dashboard")
		session := staticSession{
			user: &domainauth.User{
				UserID:      "u-1",
				Authority:   domainauth.AuthorityAdmin,
				Permissions: []string{"EVERYTHING"},
			},
			authenticated: true,
		}
		g := NewPermissionGuard(cfg, session, ev, nav, slog.Default())

		_, err := g.Check(context.Background(), Route{
			URL:         "/admin",
			Permissions: access.ExprList(),
		})
		assert.True(t, apperrors.IsPermissionDenied(err))
	})
}

func TestPermissionGuardInactiveEngineAllowsAll(t *testing.T) {
	nav := authmocks.NewMockNavigator("/dashboard")
	g := NewPermissionGuard(config.Default(), authenticatedAs(), access.Evaluator{}, nav, slog.Default())

	d, err := g.Check(context.Background(), Route{
		URL:         "/admin",
		Permissions: access.Expr("ADMIN_PANEL"),
	})
	require.NoError(t, err)
	assert.True(t, d.Allowed)
}

func TestPermissionGuardUnauthenticated(t *testing.T) {
	t.Run("defaults to login redirect", func(t *testing.T) {
		nav := authmocks.NewMockNavigator("/dashboard")
		g := NewPermissionGuard(config.Default(), anonymous(), access.Evaluator{Active: true}, nav, slog.Default())

		d, err := g.Check(context.Background(), Route{URL: "/admin"})
		require.NoError(t, err)
		assert.False(t, d.Allowed)
		assert.Equal(t, "/login", d.RedirectedTo)

		navs := nav.Navigations()
		require.Len(t, navs, 1)
		assert.Equal(t, "/admin", navs[0].Opts.QueryParams["returnUrl"])
	})

	t.Run("route redirect target wins", func(t *testing.T) {
		nav := authmocks.NewMockNavigator("/dashboard")
		g := NewPermissionGuard(config.Default(), anonymous(), access.Evaluator{Active: true}, nav, slog.Default())

		d, err := g.Check(context.Background(), Route{
			URL:                  "/admin",
			PermissionRedirectTo: "/unauthorized",
		})
		require.NoError(t, err)
		assert.False(t, d.Allowed)
		assert.Equal(t, "/unauthorized", d.RedirectedTo)

		navs := nav.Navigations()
		require.Len(t, navs, 1)
		assert.Equal(t, "unauthenticated", navs[0].Opts.QueryParams["reason"])
	})
}

func TestLoginGuard(t *testing.T) {
	cfg := config.Default()
	cfg.Redirects.LoginURL = "/dashboard"

	t.Run("anonymous allowed", func(t *testing.T) {
		nav := authmocks.NewMockNavigator("/login")
		g := NewLoginGuard(cfg, anonymous(), nav, slog.Default())

		d, err := g.Check(context.Background(), Route{URL: "/login"})
		require.NoError(t, err)
		assert.True(t, d.Allowed)
		assert.Empty(t, nav.Navigations())
	})

	t.Run("authenticated redirected away", func(t *testing.T) {
		nav := authmocks.NewMockNavigator("/login")
		g := NewLoginGuard(cfg, authenticatedAs(), nav, slog.Default())

		d, err := g.Check(context.Background(), Route{URL: "/login"})
		require.NoError(t, err)
		assert.False(t, d.Allowed)
		assert.Equal(t, "/dashboard", d.RedirectedTo)

		navs := nav.Navigations()
		require.Len(t, navs, 1)
		assert.True(t, navs[0].Opts.ReplaceURL)
	})

	t.Run("loop allows instead of denying", func(t *testing.T) {
		nav := authmocks.NewMockNavigator("/dashboard")
		g := NewLoginGuard(cfg, authenticatedAs(), nav, slog.Default())

		d, err := g.Check(context.Background(), Route{URL: "/dashboard?tab=1"})
		require.NoError(t, err)
		assert.True(t, d.Allowed, "stranding an authenticated user is worse than staying put")
		assert.Empty(t, nav.Navigations())
	})
}

func TestGuardNavigationFailure(t *testing.T) {
	nav := authmocks.NewMockNavigator("/dashboard")
	nav.Err = assert.AnError
	g := NewAuthGuard(config.Default(), anonymous(), nav, slog.Default())

	d, err := g.Check(context.Background(), Route{URL: "/devices"})
	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.Empty(t, d.RedirectedTo)
}
