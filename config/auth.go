package config

import (
	"fmt"
	"strings"
)

// PasswordHashType selects the credential hashing strategy applied to
// passwords before they are sent to the login endpoint.
type PasswordHashType string

const (
	// HashNone sends the password unmodified.
	HashNone PasswordHashType = "none"
	// HashMD5Upper applies MD5 and uppercases the hex digest (the default).
	HashMD5Upper PasswordHashType = "md5_upper"
	// HashSHA256 applies a captcha-style keyed SHA256 hash using the site
	// key and site name.
	HashSHA256 PasswordHashType = "sha256"
)

// UnmarshalText implements encoding.TextUnmarshaler for PasswordHashType.
func (p *PasswordHashType) UnmarshalText(text []byte) error {
	v := strings.ToLower(string(text))
	switch v {
	case "none", "md5_upper", "sha256":
		*p = PasswordHashType(v)
		return nil
	default:
		return fmt.Errorf("invalid PasswordHashType: %q (valid options: none, md5_upper, sha256)", v)
	}
}

func (p PasswordHashType) valid() bool {
	switch p {
	case HashNone, HashMD5Upper, HashSHA256:
		return true
	}
	return false
}

// EndpointConfig holds the auth API endpoint paths.
type EndpointConfig struct {
	Login     string `env:"LOGIN"     envDefault:"/auth/login-by-email"`
	Google    string `env:"GOOGLE"    envDefault:"/auth/google"`
	Microsoft string `env:"MICROSOFT" envDefault:"/auth/microsoft"`
	Logout    string `env:"LOGOUT"    envDefault:"/auth/logout"`
	Refresh   string `env:"REFRESH"   envDefault:"/auth/refresh-token"`
}

func defaultEndpoints() EndpointConfig {
	return EndpointConfig{
		Login:     "/auth/login-by-email",
		Google:    "/auth/google",
		Microsoft: "/auth/microsoft",
		Logout:    "/auth/logout",
		Refresh:   "/auth/refresh-token",
	}
}

func (e *EndpointConfig) merge(overrides EndpointConfig) {
	if overrides.Login != "" {
		e.Login = overrides.Login
	}
	if overrides.Google != "" {
		e.Google = overrides.Google
	}
	if overrides.Microsoft != "" {
		e.Microsoft = overrides.Microsoft
	}
	if overrides.Logout != "" {
		e.Logout = overrides.Logout
	}
	if overrides.Refresh != "" {
		e.Refresh = overrides.Refresh
	}
}

// RedirectConfig holds the guard redirect targets.
type RedirectConfig struct {
	// LoginURL is where an unauthenticated user is sent to log in.
	LoginURL string `env:"LOGIN_URL" envDefault:"/login"`

	// LogoutURL is where the user lands after logout. When unset it falls
	// back to LoginURL.
	LogoutURL string `env:"LOGOUT_URL" envDefault:""`
}

func defaultRedirects() RedirectConfig {
	return RedirectConfig{LoginURL: "/login"}
}

func (r *RedirectConfig) merge(overrides RedirectConfig) {
	if overrides.LoginURL != "" {
		r.LoginURL = overrides.LoginURL
	}
	if overrides.LogoutURL != "" {
		r.LogoutURL = overrides.LogoutURL
	}
}

// Endpoint getters; each falls back to its documented default so an
// endpoint never resolves to an empty path.

// LoginEndpoint returns the email/password login endpoint.
func (c *Config) LoginEndpoint() string {
	return fallback(c.Endpoints.Login, "/auth/login-by-email")
}

// GoogleEndpoint returns the Google social-login endpoint.
func (c *Config) GoogleEndpoint() string {
	return fallback(c.Endpoints.Google, "/auth/google")
}

// MicrosoftEndpoint returns the Microsoft social-login endpoint.
func (c *Config) MicrosoftEndpoint() string {
	return fallback(c.Endpoints.Microsoft, "/auth/microsoft")
}

// LogoutEndpoint returns the logout endpoint.
func (c *Config) LogoutEndpoint() string {
	return fallback(c.Endpoints.Logout, "/auth/logout")
}

// RefreshEndpoint returns the token refresh endpoint.
func (c *Config) RefreshEndpoint() string {
	return fallback(c.Endpoints.Refresh, "/auth/refresh-token")
}

// RedirectLoginURL returns the route an unauthenticated user is sent to.
func (c *Config) RedirectLoginURL() string {
	return fallback(c.Redirects.LoginURL, "/login")
}

// RedirectLogoutURL returns the route the user lands on after logout,
// falling back to RedirectLoginURL when unset.
func (c *Config) RedirectLogoutURL() string {
	return fallback(c.Redirects.LogoutURL, c.RedirectLoginURL())
}

func fallback(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

// PayloadPaths are JMESPath expressions, relative to the response data
// object, used to map a provider payload into the canonical session payload.
type PayloadPaths struct {
	Token        string `env:"TOKEN_PATH"         envDefault:"token"`
	RefreshToken string `env:"REFRESH_TOKEN_PATH" envDefault:"refresh_token"`
	ExpiresIn    string `env:"EXPIRES_IN_PATH"    envDefault:"expires_in"`
	TokenType    string `env:"TOKEN_TYPE_PATH"    envDefault:"token_type"`
	User         string `env:"USER_PATH"          envDefault:"user"`
}

func defaultPayloadPaths() PayloadPaths {
	return PayloadPaths{
		Token:        "token",
		RefreshToken: "refresh_token",
		ExpiresIn:    "expires_in",
		TokenType:    "token_type",
		User:         "user",
	}
}

func (p *PayloadPaths) merge(overrides PayloadPaths) {
	if overrides.Token != "" {
		p.Token = overrides.Token
	}
	if overrides.RefreshToken != "" {
		p.RefreshToken = overrides.RefreshToken
	}
	if overrides.ExpiresIn != "" {
		p.ExpiresIn = overrides.ExpiresIn
	}
	if overrides.TokenType != "" {
		p.TokenType = overrides.TokenType
	}
	if overrides.User != "" {
		p.User = overrides.User
	}
}
