package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/profiler/internal/identity"
)

type respondentRepo struct {
	s *Store
}

func (r *respondentRepo) UpsertRespondent(ctx context.Context, reg identity.Registration) (int64, error) {
	if reg.Email == "" {
		return 0, fmt.Errorf("upsert respondent: empty email")
	}

	query, args := r.s.builder().
		Insert(TableUsers).
		Columns(colEmail, colProfession, colCreatedAt).
		Values(reg.Email, reg.Profession, r.s.now()).
		OnConflict(entsql.ConflictColumns(colEmail), entsql.DoNothing()).
		Query()
	if _, err := r.s.db.ExecContext(ctx, query, args...); err != nil {
		return 0, fmt.Errorf("insert respondent: %w", err)
	}

	id, err := r.lookup(ctx, reg.Email)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (r *respondentRepo) lookup(ctx context.Context, email string) (int64, error) {
	t := r.s.builder().Table(TableUsers)
	query, args := r.s.builder().
		Select(t.C(colID)).
		From(t).
		Where(entsql.EQ(t.C(colEmail), email)).
		Query()

	var id int64
	if err := r.s.db.QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, fmt.Errorf("respondent %q vanished after upsert", email)
		}
		return 0, fmt.Errorf("query respondent: %w", err)
	}
	return id, nil
}
