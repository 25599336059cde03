package store

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"
	"time"

	"entgo.io/ent/dialect"

	"github.com/abhisek/profiler/internal/assessment"
	"github.com/abhisek/profiler/internal/config"
	"github.com/abhisek/profiler/internal/identity"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), config.StoreConfig{
		Driver: config.DriverSQLite,
		Path:   filepath.Join(t.TempDir(), "profiler.db"),
	})
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// stepClock returns a clock that advances one minute per call.
func stepClock(start time.Time) func() time.Time {
	next := start
	return func() time.Time {
		now := next
		next = next.Add(time.Minute)
		return now
	}
}

func register(t *testing.T, s *Store, email, profession string) int64 {
	t.Helper()
	id, err := s.Respondents().UpsertRespondent(context.Background(),
		identity.Registration{Email: email, Profession: profession})
	if err != nil {
		t.Fatalf("upsert %s: %v", email, err)
	}
	return id
}

func TestOpenClose(t *testing.T) {
	s := openTestStore(t)
	if s.Dialect() != dialect.SQLite {
		t.Errorf("dialect = %q, want %q", s.Dialect(), dialect.SQLite)
	}
	if err := s.Ping(context.Background()); err != nil {
		t.Errorf("ping: %v", err)
	}
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		{"journal_mode", "wal"},
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestWithPragmas(t *testing.T) {
	got := withPragmas("file:x.db?mode=ro")
	want := "file:x.db?mode=ro&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)&_pragma=synchronous(NORMAL)"
	if got != want {
		t.Errorf("withPragmas = %q, want %q", got, want)
	}
}

func TestAutoMigrationCreatesTables(t *testing.T) {
	s := openTestStore(t)

	for _, table := range []string{TableUsers, TableResults} {
		var name string
		err := s.DB().QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&name)
		if err != nil {
			t.Fatalf("query sqlite_master for %s: %v", table, err)
		}
		if name != table {
			t.Errorf("table name = %q, want %q", name, table)
		}
	}
}

func TestMigrateIsIdempotent(t *testing.T) {
	s := openTestStore(t)
	if err := s.Migrate(context.Background()); err != nil {
		t.Fatalf("second migrate: %v", err)
	}
}

func TestUpsertRespondentIdempotent(t *testing.T) {
	s := openTestStore(t)

	first := register(t, s, "ana@company.com", "Data Analyst")
	second := register(t, s, "ana@company.com", "Data Scientist")
	other := register(t, s, "bo@company.com", "Business Analyst")

	if first != second {
		t.Errorf("repeated upsert id = %d, want %d", second, first)
	}
	if other == first {
		t.Errorf("distinct emails share id %d", first)
	}

	var count int
	if err := s.DB().QueryRow("SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 2 {
		t.Errorf("users = %d, want 2", count)
	}

	var profession string
	if err := s.DB().QueryRow("SELECT profession FROM users WHERE id = ?", first).Scan(&profession); err != nil {
		t.Fatalf("profession: %v", err)
	}
	if profession != "Data Analyst" {
		t.Errorf("profession = %q, want first registration kept", profession)
	}
}

func TestUpsertRespondentRejectsEmptyEmail(t *testing.T) {
	s := openTestStore(t)
	_, err := s.Respondents().UpsertRespondent(context.Background(), identity.Registration{Profession: "Other"})
	if err == nil {
		t.Fatal("expected error for empty email")
	}
}

func TestRecordAndListResults(t *testing.T) {
	s := openTestStore(t)
	s.now = stepClock(time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC))
	ctx := context.Background()

	ana := register(t, s, "ana@company.com", "Data Analyst")
	bo := register(t, s, "bo@company.com", "Business Analyst")

	results := s.Results()
	rec, err := results.RecordResult(ctx, ana, assessment.ScoreResult{Analytical: 0.9, Communication: 0.26})
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if rec.ID == 0 {
		t.Error("expected generated result id")
	}
	if rec.Profile != assessment.ProfileTechnicalExpert {
		t.Errorf("profile = %v, want %v", rec.Profile, assessment.ProfileTechnicalExpert)
	}

	if _, err := results.RecordResult(ctx, bo, assessment.ScoreResult{Analytical: 0.2, Communication: 0.8}); err != nil {
		t.Fatalf("record: %v", err)
	}
	if _, err := results.RecordResult(ctx, ana, assessment.ScoreResult{Analytical: 0.7, Communication: 0.7}); err != nil {
		t.Fatalf("record: %v", err)
	}

	all, err := results.ListResults(ctx, ListOptions{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("len = %d, want 3", len(all))
	}

	wantOrder := []assessment.Profile{
		assessment.ProfileStrategicCommunicator,
		assessment.ProfileStoryteller,
		assessment.ProfileTechnicalExpert,
	}
	for i, want := range wantOrder {
		if all[i].Profile != want {
			t.Errorf("all[%d].Profile = %v, want %v", i, all[i].Profile, want)
		}
	}
	if all[1].Email != "bo@company.com" || all[1].Profession != "Business Analyst" {
		t.Errorf("all[1] = %+v, want bo's row", all[1])
	}
	if !all[0].CreatedAt.After(all[1].CreatedAt) {
		t.Errorf("results not newest first: %v then %v", all[0].CreatedAt, all[1].CreatedAt)
	}
	if got := all[2].CreatedAt; !got.Equal(time.Date(2025, 3, 1, 9, 2, 0, 0, time.UTC)) {
		t.Errorf("oldest created_at = %v", got)
	}

	limited, err := results.ListResults(ctx, ListOptions{Limit: 1, Offset: 1})
	if err != nil {
		t.Fatalf("list limited: %v", err)
	}
	if len(limited) != 1 || limited[0].Email != "bo@company.com" {
		t.Errorf("limited = %+v, want bo's row only", limited)
	}

	mine, err := results.ListResultsForRespondent(ctx, ana, ListOptions{})
	if err != nil {
		t.Fatalf("list for respondent: %v", err)
	}
	if len(mine) != 2 {
		t.Fatalf("ana results = %d, want 2", len(mine))
	}
	for _, r := range mine {
		if r.RespondentID != ana {
			t.Errorf("foreign row %+v", r)
		}
	}
}

func TestRecordResultUnknownRespondent(t *testing.T) {
	s := openTestStore(t)
	_, err := s.Results().RecordResult(context.Background(), 999, assessment.ScoreResult{Analytical: 0.5})
	if err == nil {
		t.Fatal("expected foreign key violation")
	}
}

func TestListResultsEmpty(t *testing.T) {
	s := openTestStore(t)
	all, err := s.Results().ListResults(context.Background(), ListOptions{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 0 {
		t.Errorf("len = %d, want 0", len(all))
	}
}

func TestParseTimestamp(t *testing.T) {
	want := time.Date(2024, 11, 5, 14, 30, 0, 0, time.UTC)
	tests := []struct {
		name string
		in   any
	}{
		{"legacy text", "2024-11-05 14:30:00"},
		{"legacy bytes", []byte("2024-11-05 14:30:00")},
		{"driver text", "2024-11-05 14:30:00+00:00"},
		{"rfc3339", "2024-11-05T14:30:00Z"},
		{"time", want},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseTimestamp(tt.in)
			if err != nil {
				t.Fatalf("parse: %v", err)
			}
			if !got.Equal(want) {
				t.Errorf("got %v, want %v", got, want)
			}
		})
	}

	if _, err := parseTimestamp("yesterday"); err == nil {
		t.Error("expected error for unparseable timestamp")
	}
}

func TestDefaultDBPath(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("PROFILER_DB", "")
	t.Setenv("XDG_DATA_HOME", dir)

	p, err := DefaultDBPath()
	if err != nil {
		t.Fatalf("default path: %v", err)
	}
	if want := filepath.Join(dir, "profiler", "profiler.db"); p != want {
		t.Errorf("path = %q, want %q", p, want)
	}
	if _, err := os.Stat(filepath.Dir(p)); err != nil {
		t.Errorf("parent dir not created: %v", err)
	}

	explicit := filepath.Join(dir, "custom", "x.db")
	t.Setenv("PROFILER_DB", explicit)
	p, err = DefaultDBPath()
	if err != nil {
		t.Fatalf("env path: %v", err)
	}
	if p != explicit {
		t.Errorf("path = %q, want %q", p, explicit)
	}
}

// writeLegacyDB creates a database the way the original application did.
func writeLegacyDB(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "assessment.db")
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open legacy: %v", err)
	}
	defer db.Close()

	stmts := []string{
		`CREATE TABLE users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			email TEXT UNIQUE NOT NULL,
			profession TEXT NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE results (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id INTEGER,
			analytical_score REAL,
			communication_score REAL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (user_id) REFERENCES users (id)
		)`,
		`INSERT INTO users (id, email, profession, created_at) VALUES
			(3, 'ana@company.com', 'Data Analyst', '2024-01-02 10:00:00'),
			(8, 'bo@company.com', 'Other', '2024-01-03 11:00:00')`,
		`INSERT INTO results (id, user_id, analytical_score, communication_score, created_at) VALUES
			(1, 3, 0.9, 0.26, '2024-01-02 10:05:00'),
			(2, 8, 0.3, 0.7, '2024-01-03 11:05:00'),
			(5, 3, 0.6, 0.6, '2024-02-01 09:00:00'),
			(6, NULL, 0.5, 0.5, '2024-02-02 09:00:00')`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			t.Fatalf("legacy setup: %v", err)
		}
	}
	return path
}

func TestReadLegacy(t *testing.T) {
	data, err := ReadLegacy(context.Background(), writeLegacyDB(t))
	if err != nil {
		t.Fatalf("read legacy: %v", err)
	}
	if len(data.Respondents) != 2 {
		t.Fatalf("respondents = %d, want 2", len(data.Respondents))
	}
	if len(data.Results) != 3 {
		t.Fatalf("results = %d, want 3 (orphan dropped)", len(data.Results))
	}
	if data.Respondents[0].ID != 3 || data.Respondents[0].Email != "ana@company.com" {
		t.Errorf("first respondent = %+v", data.Respondents[0])
	}
	want := time.Date(2024, 1, 2, 10, 5, 0, 0, time.UTC)
	if !data.Results[0].CreatedAt.Equal(want) {
		t.Errorf("created_at = %v, want %v", data.Results[0].CreatedAt, want)
	}
}

func TestReadLegacyMissingFile(t *testing.T) {
	if _, err := ReadLegacy(context.Background(), filepath.Join(t.TempDir(), "none.db")); err == nil {
		t.Fatal("expected error for missing legacy database")
	}
}

func TestImportLegacy(t *testing.T) {
	ctx := context.Background()
	data, err := ReadLegacy(ctx, writeLegacyDB(t))
	if err != nil {
		t.Fatalf("read legacy: %v", err)
	}

	s := openTestStore(t)
	// bo registered in the new store before migration, under another id.
	bo := register(t, s, "bo@company.com", "Other")

	stats, err := Import(ctx, s.Importer(), data)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if stats.RespondentsImported != 1 || stats.RespondentsSkipped != 1 {
		t.Errorf("respondent stats = %+v", stats)
	}
	if stats.ResultsImported != 3 || stats.ResultsSkipped != 0 {
		t.Errorf("result stats = %+v", stats)
	}

	boResults, err := s.Results().ListResultsForRespondent(ctx, bo, ListOptions{})
	if err != nil {
		t.Fatalf("list bo: %v", err)
	}
	if len(boResults) != 1 || boResults[0].Profile != assessment.ProfileStoryteller {
		t.Errorf("bo results = %+v", boResults)
	}

	anaResults, err := s.Results().ListResultsForRespondent(ctx, 3, ListOptions{})
	if err != nil {
		t.Fatalf("list ana: %v", err)
	}
	if len(anaResults) != 2 || anaResults[0].ID != 5 {
		t.Errorf("ana results = %+v, want ids 5 then 1", anaResults)
	}

	again, err := Import(ctx, s.Importer(), data)
	if err != nil {
		t.Fatalf("second import: %v", err)
	}
	if again.RespondentsImported != 0 || again.ResultsImported != 0 {
		t.Errorf("second import wrote rows: %+v", again)
	}

	// New respondents continue after the imported ids.
	next := register(t, s, "cy@company.com", "Data Scientist")
	if next <= 3 {
		t.Errorf("new respondent id = %d, want past imported ids", next)
	}
}
