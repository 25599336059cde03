package store

import (
	"context"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/profiler/internal/assessment"
)

type resultRepo struct {
	s *Store
}

func (r *resultRepo) RecordResult(ctx context.Context, respondentID int64, score assessment.ScoreResult) (ResultRecord, error) {
	createdAt := r.s.now()
	query, args := r.s.builder().
		Insert(TableResults).
		Columns(colUserID, colAnalytical, colCommunication, colCreatedAt).
		Values(respondentID, score.Analytical, score.Communication, createdAt).
		Returning(colID).
		Query()

	var id int64
	if err := r.s.db.QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
		return ResultRecord{}, fmt.Errorf("insert result: %w", err)
	}

	return ResultRecord{
		ID:            id,
		RespondentID:  respondentID,
		Analytical:    score.Analytical,
		Communication: score.Communication,
		Profile:       assessment.Classify(score),
		CreatedAt:     createdAt,
	}, nil
}

func (r *resultRepo) ListResults(ctx context.Context, opts ListOptions) ([]ResultRecord, error) {
	return r.list(ctx, nil, opts)
}

func (r *resultRepo) ListResultsForRespondent(ctx context.Context, respondentID int64, opts ListOptions) ([]ResultRecord, error) {
	return r.list(ctx, &respondentID, opts)
}

// list joins results with users, newest first. Ties on created_at are
// broken by id so rows written within the same second stay ordered.
func (r *resultRepo) list(ctx context.Context, respondentID *int64, opts ListOptions) ([]ResultRecord, error) {
	b := r.s.builder()
	res := b.Table(TableResults).As("r")
	usr := b.Table(TableUsers).As("u")

	sel := b.Select(
		res.C(colID),
		res.C(colUserID),
		usr.C(colEmail),
		usr.C(colProfession),
		res.C(colAnalytical),
		res.C(colCommunication),
		res.C(colCreatedAt),
	).
		From(res).
		Join(usr).
		On(res.C(colUserID), usr.C(colID)).
		OrderBy(entsql.Desc(res.C(colCreatedAt)), entsql.Desc(res.C(colID)))

	if respondentID != nil {
		sel.Where(entsql.EQ(res.C(colUserID), *respondentID))
	}
	if opts.Limit > 0 {
		sel.Limit(opts.Limit)
	}
	if opts.Offset > 0 {
		// SQLite only accepts OFFSET after a LIMIT.
		if opts.Limit <= 0 && r.s.dialect == dialect.SQLite {
			sel.Limit(-1)
		}
		sel.Offset(opts.Offset)
	}

	query, args := sel.Query()
	rows, err := r.s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query results: %w", err)
	}
	defer rows.Close()

	var out []ResultRecord
	for rows.Next() {
		var (
			rec       ResultRecord
			createdAt any
		)
		if err := rows.Scan(&rec.ID, &rec.RespondentID, &rec.Email, &rec.Profession,
			&rec.Analytical, &rec.Communication, &createdAt); err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		if rec.CreatedAt, err = parseTimestamp(createdAt); err != nil {
			return nil, fmt.Errorf("result %d: %w", rec.ID, err)
		}
		rec.Profile = assessment.Classify(rec.Score())
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate results: %w", err)
	}
	return out, nil
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

// parseTimestamp accepts the time representations SQLite drivers and the
// original application wrote. Zone-less values are taken as UTC.
func parseTimestamp(v any) (time.Time, error) {
	switch t := v.(type) {
	case time.Time:
		return t.UTC(), nil
	case []byte:
		return parseTimestamp(string(t))
	case string:
		for _, layout := range timestampLayouts {
			if ts, err := time.Parse(layout, t); err == nil {
				return ts.UTC(), nil
			}
		}
		return time.Time{}, fmt.Errorf("unrecognized timestamp %q", t)
	case nil:
		return time.Time{}, nil
	default:
		return time.Time{}, fmt.Errorf("unsupported timestamp type %T", v)
	}
}
