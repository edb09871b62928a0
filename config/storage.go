package config

import "fmt"

// StorageBackend selects the persistence backend for tokens and user data.
type StorageBackend string

const (
	// StorageMemory keeps session data in process memory (no restart survival).
	StorageMemory StorageBackend = "memory"
	// StorageRedis persists session data in Redis.
	StorageRedis StorageBackend = "redis"
	// StoragePostgres persists session data in a PostgreSQL key-value table.
	StoragePostgres StorageBackend = "postgres"
)

// UnmarshalText implements encoding.TextUnmarshaler for StorageBackend.
func (s *StorageBackend) UnmarshalText(text []byte) error {
	switch v := StorageBackend(text); v {
	case StorageMemory, StorageRedis, StoragePostgres:
		*s = v
		return nil
	default:
		return fmt.Errorf("invalid StorageBackend: %q (valid options: memory, redis, postgres)", text)
	}
}

// StorageConfig selects and configures the persistence backend.
type StorageConfig struct {
	Backend StorageBackend `env:"BACKEND" envDefault:"memory"`

	// KeyPrefix namespaces all persisted keys.
	KeyPrefix string `env:"KEY_PREFIX" envDefault:"authkit:"`

	Redis    RedisConfig `envPrefix:"REDIS_"`
	Postgres DBConfig    `envPrefix:"DB_"`
}

// RedisConfig contains Redis connection settings for the redis backend.
type RedisConfig struct {
	Addr     string `env:"ADDR"     envDefault:"localhost:6379"`
	Password string `env:"PASSWORD" envDefault:""`
	DB       int    `env:"DB"       envDefault:"0"`
}

// DBConfig contains PostgreSQL connection settings for the postgres backend.
type DBConfig struct {
	Host     string `env:"HOST"     envDefault:"localhost"`
	Port     int    `env:"PORT"     envDefault:"5432"`
	User     string `env:"USER"     envDefault:"authkit"`
	Password string `env:"PASSWORD" envDefault:"authkit"`
	Name     string `env:"NAME"     envDefault:"authkit"`
	SSLMode  string `env:"SSL_MODE" envDefault:"disable"` // Use 'disable' for local dev, 'require' for production
}

// DSN returns the PostgreSQL connection string.
func (d DBConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode)
}

func defaultStorage() StorageConfig {
	return StorageConfig{
		Backend:   StorageMemory,
		KeyPrefix: "authkit:",
		Redis:     RedisConfig{Addr: "localhost:6379"},
		Postgres: DBConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "authkit",
			Password: "authkit",
			Name:     "authkit",
			SSLMode:  "disable",
		},
	}
}

func (s *StorageConfig) merge(overrides StorageConfig) {
	if overrides.Backend != "" {
		s.Backend = overrides.Backend
	}
	if overrides.KeyPrefix != "" {
		s.KeyPrefix = overrides.KeyPrefix
	}
	if overrides.Redis.Addr != "" {
		s.Redis.Addr = overrides.Redis.Addr
	}
	if overrides.Redis.Password != "" {
		s.Redis.Password = overrides.Redis.Password
	}
	if overrides.Redis.DB != 0 {
		s.Redis.DB = overrides.Redis.DB
	}
	if overrides.Postgres.Host != "" {
		s.Postgres = overrides.Postgres
	}
}

func (s *StorageConfig) sanitize() {
	if s.Backend == "" {
		s.Backend = StorageMemory
	}
	if s.KeyPrefix == "" {
		s.KeyPrefix = "authkit:"
	}
}

func (s *StorageConfig) validate() error {
	switch s.Backend {
	case StorageMemory, StorageRedis, StoragePostgres:
		return nil
	default:
		return fmt.Errorf("unknown storage backend %q", s.Backend)
	}
}
