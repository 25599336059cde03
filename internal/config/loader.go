package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. PROFILER_STORE_DRIVER.
const EnvPrefix = "PROFILER"

// Load reads configuration. An explicit configFile must exist; otherwise
// profiler.yaml is searched for and may be absent.
func Load(configFile string) (*Config, error) {
	if err := loadDotEnv(); err != nil {
		return nil, err
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	if err := bindLegacyEnv(v); err != nil {
		return nil, err
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("profiler")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, "profiler"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// loadDotEnv loads the first .env file found. Variables already set in the
// environment win. A file that exists but does not parse is an error.
func loadDotEnv() error {
	for _, p := range []string{".env", filepath.Join("config", ".env")} {
		if _, err := os.Stat(p); err == nil {
			if err := godotenv.Load(p); err != nil {
				return fmt.Errorf("load %s: %w", p, err)
			}
			return nil
		}
	}
	return nil
}

// bindLegacyEnv accepts the variable names used by earlier deployments in
// addition to the prefixed ones.
func bindLegacyEnv(v *viper.Viper) error {
	legacy := map[string][]string{
		"admin_password":          {"PROFILER_ADMIN_PASSWORD", "ADMIN_PASSWORD"},
		"environment":             {"PROFILER_ENVIRONMENT", "ENVIRONMENT"},
		"store.path":              {"PROFILER_STORE_PATH", "DATABASE_PATH"},
		"llm.anthropic.api_key":   {"PROFILER_LLM_ANTHROPIC_API_KEY", "ANTHROPIC_API_KEY"},
		"llm.openai.api_key":      {"PROFILER_LLM_OPENAI_API_KEY", "OPENAI_API_KEY"},
		"llm.gemini.api_key":      {"PROFILER_LLM_GEMINI_API_KEY", "GEMINI_API_KEY"},
		"sessions.redis.address":  {"PROFILER_SESSIONS_REDIS_ADDRESS", "REDIS_ADDR"},
		"sessions.redis.password": {"PROFILER_SESSIONS_REDIS_PASSWORD", "REDIS_PASSWORD"},
		"store.postgres.password": {"PROFILER_STORE_POSTGRES_PASSWORD", "PGPASSWORD"},
	}
	for key, names := range legacy {
		if err := v.BindEnv(append([]string{key}, names...)...); err != nil {
			return fmt.Errorf("bind env %s: %w", key, err)
		}
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("environment", "development")
	v.SetDefault("admin_password", "")
	v.SetDefault("consultation_url", "https://imdataanalyst.com/contact")
	v.SetDefault("questions_file", "")

	v.SetDefault("store.driver", DriverSQLite)
	v.SetDefault("store.path", "")
	v.SetDefault("store.postgres.host", "localhost")
	v.SetDefault("store.postgres.port", 5432)
	v.SetDefault("store.postgres.user", "postgres")
	v.SetDefault("store.postgres.password", "")
	v.SetDefault("store.postgres.dbname", "profiler")
	v.SetDefault("store.postgres.sslmode", "disable")
	v.SetDefault("store.postgres.max_open_conns", 10)
	v.SetDefault("store.postgres.max_idle_conns", 5)
	v.SetDefault("store.postgres.conn_max_lifetime", 30*time.Minute)

	v.SetDefault("sessions.backend", SessionsMemory)
	v.SetDefault("sessions.ttl", 2*time.Hour)
	v.SetDefault("sessions.key_prefix", "profiler:session:")
	v.SetDefault("sessions.redis.address", "localhost:6379")
	v.SetDefault("sessions.redis.password", "")
	v.SetDefault("sessions.redis.db", 0)

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.read_timeout", 10*time.Second)
	v.SetDefault("server.write_timeout", 15*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("server.rate_limit", 30)
	v.SetDefault("server.allowed_origins", []string{})

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size_mb", 100)
	v.SetDefault("log.max_backups", 5)
	v.SetDefault("log.max_age_days", 30)
	v.SetDefault("log.compress", true)

	v.SetDefault("llm.provider", "")
	v.SetDefault("llm.timeout", 30*time.Second)
	v.SetDefault("llm.max_tokens", 1024)
	v.SetDefault("llm.anthropic.api_key", "")
	v.SetDefault("llm.anthropic.model", "claude-haiku")
	v.SetDefault("llm.anthropic.base_url", "")
	v.SetDefault("llm.openai.api_key", "")
	v.SetDefault("llm.openai.model", "gpt-4o-mini")
	v.SetDefault("llm.openai.base_url", "")
	v.SetDefault("llm.gemini.api_key", "")
	v.SetDefault("llm.gemini.model", "gemini-flash")
	v.SetDefault("llm.gemini.base_url", "")
	v.SetDefault("llm.retry.max_attempts", 3)
	v.SetDefault("llm.retry.initial_wait", time.Second)
	v.SetDefault("llm.retry.max_wait", 10*time.Second)
	v.SetDefault("llm.retry.multiplier", 2.0)
}
