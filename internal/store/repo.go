package store

import (
	"context"
	"time"

	"github.com/abhisek/profiler/internal/assessment"
	"github.com/abhisek/profiler/internal/identity"
)

// Respondent is a stored respondent row.
type Respondent struct {
	ID         int64
	Email      string
	Profession string
	CreatedAt  time.Time
}

// ResultRecord is one completed assessment joined with its respondent.
type ResultRecord struct {
	ID            int64
	RespondentID  int64
	Email         string
	Profession    string
	Analytical    float64
	Communication float64
	Profile       assessment.Profile
	CreatedAt     time.Time
}

// Score returns the stored scores as a ScoreResult.
func (r ResultRecord) Score() assessment.ScoreResult {
	return assessment.ScoreResult{Analytical: r.Analytical, Communication: r.Communication}
}

// ListOptions configures result listings. Results are always newest first.
type ListOptions struct {
	Limit  int // max results (0 = unlimited)
	Offset int
}

// RespondentRepo manages respondent identity rows.
type RespondentRepo interface {
	// UpsertRespondent returns the id for reg.Email, creating the row on
	// first sight. Repeated calls with the same email return the same id and
	// leave the stored profession untouched.
	UpsertRespondent(ctx context.Context, reg identity.Registration) (int64, error)
}

// ResultRepo manages the append-only result rows.
type ResultRepo interface {
	// RecordResult appends a result for respondentID.
	RecordResult(ctx context.Context, respondentID int64, score assessment.ScoreResult) (ResultRecord, error)

	// ListResults returns results across all respondents.
	ListResults(ctx context.Context, opts ListOptions) ([]ResultRecord, error)

	// ListResultsForRespondent returns one respondent's results.
	ListResultsForRespondent(ctx context.Context, respondentID int64, opts ListOptions) ([]ResultRecord, error)
}

// LegacyResult is a result row as read from a legacy database.
type LegacyResult struct {
	ID            int64
	RespondentID  int64
	Analytical    float64
	Communication float64
	CreatedAt     time.Time
}

// ImportRepo writes rows with their original ids.
type ImportRepo interface {
	ImportRespondent(ctx context.Context, r Respondent) (id int64, inserted bool, err error)
	ImportResult(ctx context.Context, r LegacyResult) (bool, error)
	// SyncSequences realigns id generators after explicit-id inserts.
	SyncSequences(ctx context.Context) error
}
