package store

import (
	"context"
	"database/sql"
	"fmt"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

type importRepo struct {
	s *Store
}

// ImportRespondent inserts resp with its original id and returns the id the
// email is stored under. inserted is false when the email or id already
// existed, in which case the returned id may differ from resp.ID.
func (r *importRepo) ImportRespondent(ctx context.Context, resp Respondent) (int64, bool, error) {
	createdAt := resp.CreatedAt
	if createdAt.IsZero() {
		createdAt = r.s.now()
	}
	query, args := r.s.builder().
		Insert(TableUsers).
		Columns(colID, colEmail, colProfession, colCreatedAt).
		Values(resp.ID, resp.Email, resp.Profession, createdAt.UTC()).
		OnConflict(entsql.DoNothing()).
		Query()
	res, err := r.s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, false, fmt.Errorf("import respondent %d: %w", resp.ID, err)
	}
	inserted, err := affected(res)
	if err != nil {
		return 0, false, err
	}
	if inserted {
		return resp.ID, true, nil
	}

	id, err := (&respondentRepo{s: r.s}).lookup(ctx, resp.Email)
	if err != nil {
		// The id is taken by a different email.
		return 0, false, nil
	}
	return id, false, nil
}

// ImportResult inserts a result with its original id. It reports false when
// the id already exists.
func (r *importRepo) ImportResult(ctx context.Context, res LegacyResult) (bool, error) {
	createdAt := res.CreatedAt
	if createdAt.IsZero() {
		createdAt = r.s.now()
	}
	query, args := r.s.builder().
		Insert(TableResults).
		Columns(colID, colUserID, colAnalytical, colCommunication, colCreatedAt).
		Values(res.ID, res.RespondentID, res.Analytical, res.Communication, createdAt.UTC()).
		OnConflict(entsql.ConflictColumns(colID), entsql.DoNothing()).
		Query()
	out, err := r.s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("import result %d: %w", res.ID, err)
	}
	return affected(out)
}

// SyncSequences moves the PostgreSQL identity sequences past the highest
// imported id. SQLite tracks AUTOINCREMENT on its own.
func (r *importRepo) SyncSequences(ctx context.Context) error {
	if r.s.dialect != dialect.Postgres {
		return nil
	}
	for _, table := range []string{TableUsers, TableResults} {
		query := fmt.Sprintf(
			`SELECT setval(pg_get_serial_sequence('%[1]s', 'id'), COALESCE((SELECT MAX("id") FROM %[1]q), 0) + 1, false)`,
			table)
		if _, err := r.s.db.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("sync %s sequence: %w", table, err)
		}
	}
	return nil
}

func affected(res sql.Result) (bool, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}
