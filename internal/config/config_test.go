package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("ENVIRONMENT", "")
	t.Setenv("PROFILER_ENVIRONMENT", "")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, DriverSQLite, cfg.Store.Driver)
	assert.Equal(t, SessionsMemory, cfg.Sessions.Backend)
	assert.Equal(t, 2*time.Hour, cfg.Sessions.TTL)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 5432, cfg.Store.Postgres.Port)
	assert.Equal(t, "https://imdataanalyst.com/contact", cfg.ConsultationURL)
	assert.Equal(t, 3, cfg.LLM.Retry.MaxAttempts)
	assert.Equal(t, 30, cfg.Server.RateLimit)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	path := filepath.Join(dir, "custom.yaml")
	content := `
environment: staging
store:
  driver: postgres
  postgres:
    host: db.internal
    dbname: assessments
sessions:
  backend: redis
  ttl: 45m
  redis:
    address: cache:6379
log:
  level: debug
  format: console
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "staging", cfg.Environment)
	assert.Equal(t, DriverPostgres, cfg.Store.Driver)
	assert.Equal(t, "db.internal", cfg.Store.Postgres.Host)
	assert.Equal(t, "assessments", cfg.Store.Postgres.DBName)
	assert.Equal(t, SessionsRedis, cfg.Sessions.Backend)
	assert.Equal(t, 45*time.Minute, cfg.Sessions.TTL)
	assert.Equal(t, "cache:6379", cfg.Sessions.Redis.Address)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadSearchesWorkingDirectory(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "profiler.yaml"),
		[]byte("server:\n  addr: \":9999\"\n"), 0o644))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":9999", cfg.Server.Addr)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	t.Chdir(t.TempDir())
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PROFILER_SERVER_ADDR", ":7070")
	t.Setenv("PROFILER_SESSIONS_TTL", "5m")
	t.Setenv("ADMIN_PASSWORD", "s3cret")
	t.Setenv("DATABASE_PATH", "/tmp/legacy.db")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":7070", cfg.Server.Addr)
	assert.Equal(t, 5*time.Minute, cfg.Sessions.TTL)
	assert.Equal(t, "s3cret", cfg.AdminPassword)
	assert.Equal(t, "/tmp/legacy.db", cfg.Store.Path)
}

func TestDotEnvLoaded(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	// Register for cleanup, then clear so godotenv may set it.
	t.Setenv("PROFILER_LOG_LEVEL", "")
	os.Unsetenv("PROFILER_LOG_LEVEL")
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"),
		[]byte("PROFILER_LOG_LEVEL=warn\n"), 0o644))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestMalformedDotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"),
		[]byte("PROFILER_LOG_LEVEL=\"warn\n"), 0o644))

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), ".env")
}

func validConfig() Config {
	return Config{
		Environment:     "development",
		ConsultationURL: "https://example.com/contact",
		Store:           StoreConfig{Driver: DriverSQLite},
		Sessions:        SessionsConfig{Backend: SessionsMemory, TTL: time.Hour},
		Log:             LogConfig{Format: "json"},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(*Config) {}, false},
		{"unknown driver", func(c *Config) { c.Store.Driver = "mysql" }, true},
		{"postgres without host", func(c *Config) {
			c.Store.Driver = DriverPostgres
			c.Store.Postgres.DBName = "x"
		}, true},
		{"postgres complete", func(c *Config) {
			c.Store.Driver = DriverPostgres
			c.Store.Postgres.Host = "db"
			c.Store.Postgres.DBName = "x"
		}, false},
		{"redis without address", func(c *Config) { c.Sessions.Backend = SessionsRedis }, true},
		{"unknown sessions backend", func(c *Config) { c.Sessions.Backend = "disk" }, true},
		{"zero ttl", func(c *Config) { c.Sessions.TTL = 0 }, true},
		{"negative rate limit", func(c *Config) { c.Server.RateLimit = -1 }, true},
		{"bad log format", func(c *Config) { c.Log.Format = "xml" }, true},
		{"relative consultation url", func(c *Config) { c.ConsultationURL = "/contact" }, true},
		{"production without password", func(c *Config) { c.Environment = "production" }, true},
		{"production with password", func(c *Config) {
			c.Environment = "production"
			c.AdminPassword = "pw"
		}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestPostgresDSN(t *testing.T) {
	p := PostgresConfig{Host: "db", Port: 5433, User: "u", Password: "p", DBName: "n", SSLMode: "require"}
	assert.Equal(t, "host=db port=5433 user=u password=p dbname=n sslmode=require", p.DSN())
}
