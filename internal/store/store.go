package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"entgo.io/ent/dialect/sql/schema"

	"github.com/abhisek/profiler/internal/config"

	// PostgreSQL driver for the remote store.
	_ "github.com/lib/pq"
	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

// Store persists respondents and results in SQLite or PostgreSQL. Both
// dialects share one set of queries built with the ent SQL builder.
type Store struct {
	db      *sql.DB
	drv     *entsql.Driver
	dialect string
	now     func() time.Time
}

// Open connects to the backend selected by cfg.Driver and migrates the
// schema.
func Open(ctx context.Context, cfg config.StoreConfig) (*Store, error) {
	var (
		s   *Store
		err error
	)
	switch cfg.Driver {
	case config.DriverPostgres:
		s, err = openPostgres(cfg.Postgres)
	case config.DriverSQLite, "":
		path := cfg.Path
		if path == "" {
			if path, err = DefaultDBPath(); err != nil {
				return nil, err
			}
		} else if err := ensureDir(path); err != nil {
			return nil, fmt.Errorf("create database dir: %w", err)
		}
		s, err = OpenSQLite(path)
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, err
	}

	if err := s.Migrate(ctx); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

// OpenSQLite opens the SQLite database at dsn with the recommended pragmas
// set on every pooled connection. The schema is not migrated.
func OpenSQLite(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", withPragmas(dsn))
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("open database %s: %w", dsn, err)
	}
	return New(db, dialect.SQLite), nil
}

func openPostgres(cfg config.PostgresConfig) (*Store, error) {
	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect postgres %s:%d: %w", cfg.Host, cfg.Port, err)
	}
	return New(db, dialect.Postgres), nil
}

// New wraps an open database handle. name is an ent dialect name
// (dialect.SQLite or dialect.Postgres).
func New(db *sql.DB, name string) *Store {
	return &Store{
		db:      db,
		drv:     entsql.OpenDB(name, db),
		dialect: name,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Migrate creates or updates the users and results tables.
func (s *Store) Migrate(ctx context.Context) error {
	m, err := schema.NewMigrate(s.drv, schema.WithForeignKeys(true))
	if err != nil {
		return fmt.Errorf("prepare migration: %w", err)
	}
	if err := m.Create(ctx, Tables...); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	return nil
}

// DB returns the underlying *sql.DB for raw queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Dialect returns the ent dialect name of the backend.
func (s *Store) Dialect() string {
	return s.dialect
}

// Ping checks the connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.drv.Close()
}

// Respondents returns a RespondentRepo backed by this store.
func (s *Store) Respondents() RespondentRepo {
	return &respondentRepo{s: s}
}

// Results returns a ResultRepo backed by this store.
func (s *Store) Results() ResultRepo {
	return &resultRepo{s: s}
}

// Importer returns an ImportRepo backed by this store.
func (s *Store) Importer() ImportRepo {
	return &importRepo{s: s}
}

func (s *Store) builder() *entsql.DialectBuilder {
	return entsql.Dialect(s.dialect)
}

// sqlitePragmas configure SQLite for single-host use. Connection-scoped
// pragmas such as foreign_keys must be set per connection, so they travel
// in the DSN rather than through one Exec.
var sqlitePragmas = []string{
	"journal_mode(WAL)",
	"busy_timeout(5000)",
	"foreign_keys(1)",
	"synchronous(NORMAL)",
}

func withPragmas(dsn string) string {
	var b strings.Builder
	b.WriteString(dsn)
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	for _, p := range sqlitePragmas {
		b.WriteString(sep)
		b.WriteString("_pragma=")
		b.WriteString(p)
		sep = "&"
	}
	return b.String()
}

// DefaultDBPath resolves the database file path in priority order:
// 1. PROFILER_DB environment variable
// 2. $XDG_DATA_HOME/profiler/profiler.db
// 3. ~/.local/share/profiler/profiler.db
func DefaultDBPath() (string, error) {
	if p := os.Getenv("PROFILER_DB"); p != "" {
		return p, ensureDir(p)
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}

	p := filepath.Join(dataHome, "profiler", "profiler.db")
	return p, ensureDir(p)
}

// ensureDir creates the parent directory of path if it doesn't exist.
func ensureDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0o755)
}
