// Package config loads runtime settings from .env files, an optional YAML
// file and PROFILER_* environment variables.
package config

import (
	"fmt"
	"net/url"
	"time"
)

// Config is the full application configuration.
type Config struct {
	Environment     string `mapstructure:"environment"`
	AdminPassword   string `mapstructure:"admin_password"`
	ConsultationURL string `mapstructure:"consultation_url"`
	QuestionsFile   string `mapstructure:"questions_file"`

	Store    StoreConfig    `mapstructure:"store"`
	Sessions SessionsConfig `mapstructure:"sessions"`
	Server   ServerConfig   `mapstructure:"server"`
	Log      LogConfig      `mapstructure:"log"`
	LLM      LLMConfig      `mapstructure:"llm"`
}

// Storage backends.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// StoreConfig selects and configures the persistence backend.
type StoreConfig struct {
	Driver   string         `mapstructure:"driver"`
	Path     string         `mapstructure:"path"`
	Postgres PostgresConfig `mapstructure:"postgres"`
}

// PostgresConfig holds connection settings for the remote store.
type PostgresConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// DSN returns the lib/pq keyword/value connection string.
func (p PostgresConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.DBName, p.SSLMode)
}

// Session registry backends.
const (
	SessionsMemory = "memory"
	SessionsRedis  = "redis"
)

// SessionsConfig configures where in-flight HTTP sessions are kept.
type SessionsConfig struct {
	Backend   string        `mapstructure:"backend"`
	TTL       time.Duration `mapstructure:"ttl"`
	KeyPrefix string        `mapstructure:"key_prefix"`
	Redis     RedisConfig   `mapstructure:"redis"`
}

// RedisConfig holds redis connection settings.
type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// ServerConfig configures the HTTP session host.
type ServerConfig struct {
	Addr            string        `mapstructure:"addr"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	// RateLimit caps session creations per client IP per minute. Zero
	// disables the limit.
	RateLimit       int           `mapstructure:"rate_limit"`
	AllowedOrigins  []string      `mapstructure:"allowed_origins"`
}

// LogConfig configures the zap logger and its rotating file sink.
type LogConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

// LLMConfig configures the optional development-plan coach.
type LLMConfig struct {
	Provider  string         `mapstructure:"provider"`
	Timeout   time.Duration  `mapstructure:"timeout"`
	MaxTokens int            `mapstructure:"max_tokens"`
	Anthropic ProviderConfig `mapstructure:"anthropic"`
	OpenAI    ProviderConfig `mapstructure:"openai"`
	Gemini    ProviderConfig `mapstructure:"gemini"`
	Retry     RetryConfig    `mapstructure:"retry"`
}

// ProviderConfig holds credentials and model for one LLM provider.
type ProviderConfig struct {
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
	BaseURL string `mapstructure:"base_url"`
}

// RetryConfig controls LLM retry backoff.
type RetryConfig struct {
	MaxAttempts int           `mapstructure:"max_attempts"`
	InitialWait time.Duration `mapstructure:"initial_wait"`
	MaxWait     time.Duration `mapstructure:"max_wait"`
	Multiplier  float64       `mapstructure:"multiplier"`
}

// IsProduction reports whether the environment is production.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// Validate returns the first configuration problem found.
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case DriverSQLite:
	case DriverPostgres:
		if c.Store.Postgres.Host == "" {
			return fmt.Errorf("store.postgres.host is required for the postgres driver")
		}
		if c.Store.Postgres.DBName == "" {
			return fmt.Errorf("store.postgres.dbname is required for the postgres driver")
		}
	default:
		return fmt.Errorf("unknown store driver %q", c.Store.Driver)
	}

	switch c.Sessions.Backend {
	case SessionsMemory:
	case SessionsRedis:
		if c.Sessions.Redis.Address == "" {
			return fmt.Errorf("sessions.redis.address is required for the redis backend")
		}
	default:
		return fmt.Errorf("unknown sessions backend %q", c.Sessions.Backend)
	}
	if c.Sessions.TTL <= 0 {
		return fmt.Errorf("sessions.ttl must be positive")
	}

	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("unknown log format %q", c.Log.Format)
	}

	if c.Server.RateLimit < 0 {
		return fmt.Errorf("server.rate_limit must not be negative")
	}

	if c.ConsultationURL != "" {
		if u, err := url.Parse(c.ConsultationURL); err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("consultation_url %q is not an absolute URL", c.ConsultationURL)
		}
	}

	if c.IsProduction() && c.AdminPassword == "" {
		return fmt.Errorf("admin_password must be set in production")
	}
	return nil
}
