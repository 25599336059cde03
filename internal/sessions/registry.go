// Package sessions keeps in-flight assessment sessions for the HTTP host,
// keyed by an opaque token.
package sessions

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/profiler/internal/apperr"
	"github.com/abhisek/profiler/internal/assessment"
	"github.com/abhisek/profiler/internal/config"
)

// State is everything the host keeps between requests for one respondent.
type State struct {
	Session    assessment.Session `json:"session"`
	Email      string             `json:"email,omitempty"`
	Profession string             `json:"profession,omitempty"`
	// ResultID is set once the completed session has been persisted.
	ResultID int64 `json:"result_id,omitempty"`
	// SavingSince marks a result write in progress. While it is recent,
	// other requests must not write the same result.
	SavingSince time.Time `json:"saving_since,omitzero"`
	// Version increases on every successful Put.
	Version   int64     `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Registry stores States with a sliding TTL.
type Registry interface {
	// Create stores st under a new token.
	Create(ctx context.Context, st State) (string, State, error)

	// Get returns the state for token or an apperr.ErrNotFound error.
	Get(ctx context.Context, token string) (State, error)

	// Put replaces the state for token if st.Version still matches the
	// stored version. A mismatch returns an apperr.ErrOutOfSequence error.
	Put(ctx context.Context, token string, st State) (State, error)

	// Delete removes token. Missing tokens are not an error.
	Delete(ctx context.Context, token string) error

	Close() error
}

// New builds the registry selected by cfg.Backend.
func New(ctx context.Context, cfg config.SessionsConfig) (Registry, error) {
	switch cfg.Backend {
	case config.SessionsMemory, "":
		return NewMemory(cfg.TTL), nil
	case config.SessionsRedis:
		return NewRedis(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown sessions backend %q", cfg.Backend)
	}
}

func newToken() string {
	return uuid.NewString()
}

func validToken(token string) bool {
	_, err := uuid.Parse(token)
	return err == nil
}

func notFound(token string) error {
	return apperr.New(apperr.CodeNotFound, "session %s not found or expired", token)
}

func conflict(token string) error {
	return apperr.New(apperr.CodeOutOfSequence, "session %s was changed by another request", token)
}
