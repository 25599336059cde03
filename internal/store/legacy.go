package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

// LegacyData is the full content of a database written by the original
// application.
type LegacyData struct {
	Respondents []Respondent
	Results     []LegacyResult
}

// ReadLegacy loads every user and result row from the SQLite database at
// path. The file is opened read-only.
func ReadLegacy(ctx context.Context, path string) (*LegacyData, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("legacy database: %w", err)
	}
	db, err := sql.Open("sqlite", "file:"+path+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("open legacy database: %w", err)
	}
	defer db.Close()
	return readLegacy(ctx, db)
}

func readLegacy(ctx context.Context, db *sql.DB) (*LegacyData, error) {
	b := entsql.Dialect(dialect.SQLite)
	data := &LegacyData{}

	users := b.Table(TableUsers)
	query, args := b.Select(users.C(colID), users.C(colEmail), users.C(colProfession), users.C(colCreatedAt)).
		From(users).
		OrderBy(users.C(colID)).
		Query()
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("read legacy users: %w", err)
	}
	for rows.Next() {
		var (
			r         Respondent
			createdAt any
		)
		if err := rows.Scan(&r.ID, &r.Email, &r.Profession, &createdAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan legacy user: %w", err)
		}
		if r.CreatedAt, err = parseTimestamp(createdAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("legacy user %d: %w", r.ID, err)
		}
		data.Respondents = append(data.Respondents, r)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate legacy users: %w", err)
	}

	results := b.Table(TableResults)
	query, args = b.Select(results.C(colID), results.C(colUserID), results.C(colAnalytical),
		results.C(colCommunication), results.C(colCreatedAt)).
		From(results).
		OrderBy(results.C(colID)).
		Query()
	rows, err = db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("read legacy results: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			r         LegacyResult
			userID    sql.NullInt64
			a, c      sql.NullFloat64
			createdAt any
		)
		if err := rows.Scan(&r.ID, &userID, &a, &c, &createdAt); err != nil {
			return nil, fmt.Errorf("scan legacy result: %w", err)
		}
		// Orphaned or partially written rows cannot be attributed.
		if !userID.Valid || !a.Valid || !c.Valid {
			continue
		}
		r.RespondentID, r.Analytical, r.Communication = userID.Int64, a.Float64, c.Float64
		if r.CreatedAt, err = parseTimestamp(createdAt); err != nil {
			return nil, fmt.Errorf("legacy result %d: %w", r.ID, err)
		}
		data.Results = append(data.Results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate legacy results: %w", err)
	}
	return data, nil
}

// ImportStats counts rows written and skipped by Import.
type ImportStats struct {
	RespondentsImported int
	RespondentsSkipped  int
	ResultsImported     int
	ResultsSkipped      int
}

// Import writes data into dst, keeping original ids. Rows that already exist
// are skipped, so running it twice is harmless. Results follow their
// respondent when the email already exists under another id, and are
// skipped when the respondent could not be placed.
func Import(ctx context.Context, dst ImportRepo, data *LegacyData) (ImportStats, error) {
	var stats ImportStats
	ids := make(map[int64]int64, len(data.Respondents))
	for _, r := range data.Respondents {
		id, inserted, err := dst.ImportRespondent(ctx, r)
		if err != nil {
			return stats, err
		}
		if inserted {
			stats.RespondentsImported++
		} else {
			stats.RespondentsSkipped++
		}
		if id != 0 {
			ids[r.ID] = id
		}
	}
	for _, r := range data.Results {
		id, ok := ids[r.RespondentID]
		if !ok {
			stats.ResultsSkipped++
			continue
		}
		r.RespondentID = id
		inserted, err := dst.ImportResult(ctx, r)
		if err != nil {
			return stats, err
		}
		if inserted {
			stats.ResultsImported++
		} else {
			stats.ResultsSkipped++
		}
	}
	if err := dst.SyncSequences(ctx); err != nil {
		return stats, err
	}
	return stats, nil
}
