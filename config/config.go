package config

import (
	env "github.com/caarlos0/env/v11"
)

// Config is the merged authentication configuration. It is created once at
// startup, either from environment variables via Load or programmatically
// via New, and is read-only thereafter: re-configuration replaces the whole
// record, never patches it in place.
//
// Configuration is loaded from environment variables using the
// github.com/caarlos0/env library with the AUTH_ prefix. See individual
// domain config files for details:
//   - auth.go: hashing mode, endpoints, redirect targets
//   - storage.go: persistence backend configuration
type Config struct {
	// SiteKey and SiteName feed the keyed SHA256 hashing strategy.
	SiteKey  string `env:"SITE_KEY"  envDefault:""`
	SiteName string `env:"SITE_NAME" envDefault:""`

	// Debug enables verbose logging in the session components.
	Debug bool `env:"DEBUG" envDefault:"false"`

	// UseRefreshToken enables the refresh scheduler and selects the
	// refresh-capable transport variant.
	UseRefreshToken bool `env:"USE_REFRESH_TOKEN" envDefault:"false"`

	// PasswordHashType selects the credential hashing strategy.
	PasswordHashType PasswordHashType `env:"PASSWORD_HASH_TYPE" envDefault:"md5_upper"`

	// PermissionEngineActive toggles the access evaluator. When false every
	// permission check passes.
	PermissionEngineActive bool `env:"PERMISSION_ENGINE_ACTIVE" envDefault:"false"`

	// BaseURL is prepended to endpoint paths by the HTTP transport.
	BaseURL string `env:"BASE_URL" envDefault:""`

	// Endpoints are the auth API endpoint paths.
	Endpoints EndpointConfig `envPrefix:"ENDPOINT_"`

	// Redirects are the guard redirect targets.
	Redirects RedirectConfig `envPrefix:"REDIRECT_"`

	// Payload configures how provider responses are mapped to the canonical
	// session payload.
	Payload PayloadPaths `envPrefix:"PAYLOAD_"`

	// Storage selects and configures the persistence backend.
	Storage StorageConfig `envPrefix:"STORAGE_"`
}

// Default returns the documented default configuration.
func Default() Config {
	return Config{
		PasswordHashType: HashMD5Upper,
		Endpoints:        defaultEndpoints(),
		Redirects:        defaultRedirects(),
		Payload:          defaultPayloadPaths(),
		Storage:          defaultStorage(),
	}
}

// Load reads configuration from AUTH_-prefixed environment variables,
// applying documented defaults for anything unset.
func Load() (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: "AUTH_"}); err != nil {
		return Config{}, err
	}
	cfg.Sanitize()
	return cfg, nil
}

// New merges a programmatically supplied configuration with the defaults:
// zero-valued fields take their documented default. The result is a fresh
// record; overrides is not modified.
func New(overrides Config) Config {
	cfg := Default()

	cfg.SiteKey = overrides.SiteKey
	cfg.SiteName = overrides.SiteName
	cfg.Debug = overrides.Debug
	cfg.UseRefreshToken = overrides.UseRefreshToken
	cfg.PermissionEngineActive = overrides.PermissionEngineActive
	cfg.BaseURL = overrides.BaseURL

	if overrides.PasswordHashType != "" {
		cfg.PasswordHashType = overrides.PasswordHashType
	}
	cfg.Endpoints.merge(overrides.Endpoints)
	cfg.Redirects.merge(overrides.Redirects)
	cfg.Payload.merge(overrides.Payload)
	cfg.Storage.merge(overrides.Storage)

	cfg.Sanitize()
	return cfg
}

// Sanitize applies guardrails to configuration values. It is called by Load
// and New; callers constructing a Config literal should call it themselves.
func (c *Config) Sanitize() {
	if !c.PasswordHashType.valid() {
		c.PasswordHashType = HashMD5Upper
	}
	c.BaseURL = trimTrailingSlash(c.BaseURL)
	c.Storage.sanitize()
}

// Validate reports configuration problems that must abort startup.
func (c *Config) Validate() error {
	return c.Storage.validate()
}

func trimTrailingSlash(s string) string {
	for len(s) > 1 && s[len(s)-1] == '/' {
		s = s[:len(s)-1]
	}
	return s
}
