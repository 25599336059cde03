// Package host drives assessment sessions for the front ends: it
// normalizes identity, persists respondents and results, and assembles the
// outcome shown once every question is answered.
package host

import (
	"context"
	"crypto/subtle"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/profiler/internal/apperr"
	"github.com/abhisek/profiler/internal/assessment"
	"github.com/abhisek/profiler/internal/coach"
	"github.com/abhisek/profiler/internal/identity"
	"github.com/abhisek/profiler/internal/metrics"
	"github.com/abhisek/profiler/internal/store"
)

// Options carries the host's optional collaborators.
type Options struct {
	Coach           *coach.Coach
	Metrics         *metrics.Metrics
	Logger          *zap.Logger
	ConsultationURL string
	// AdminPassword gates AdminResults. Empty disables the admin view.
	AdminPassword string
}

// Host is safe for concurrent use; per-respondent state lives in the
// Session values passed through it.
type Host struct {
	engine      *assessment.Engine
	respondents store.RespondentRepo
	results     store.ResultRepo
	coach       *coach.Coach
	metrics     *metrics.Metrics
	log         *zap.Logger
	consultURL  string
	adminPass   string
}

// New creates a host.
func New(engine *assessment.Engine, respondents store.RespondentRepo, results store.ResultRepo, opts Options) *Host {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	url := opts.ConsultationURL
	if url == "" {
		url = assessment.DefaultConsultationURL
	}
	return &Host{
		engine:      engine,
		respondents: respondents,
		results:     results,
		coach:       opts.Coach,
		metrics:     opts.Metrics,
		log:         log.Named("host"),
		consultURL:  url,
		adminPass:   opts.AdminPassword,
	}
}

// Engine returns the underlying engine.
func (h *Host) Engine() *assessment.Engine { return h.engine }

// Questions returns the question bank in order.
func (h *Host) Questions() []assessment.Question { return h.engine.Bank().Questions() }

// Register validates the identity, upserts the respondent and starts the
// session. On any failure s is returned unchanged.
func (h *Host) Register(ctx context.Context, s assessment.Session, email, profession string) (assessment.Session, identity.Registration, error) {
	if s.Stage != assessment.StageRegistering {
		return s, identity.Registration{}, apperr.New(apperr.CodeOutOfSequence, "session already %s", s.Stage)
	}
	reg, err := identity.NewRegistration(email, profession)
	if err != nil {
		return s, identity.Registration{}, err
	}

	id, err := h.respondents.UpsertRespondent(ctx, reg)
	if err != nil {
		h.metrics.PersistenceFailed("upsert_respondent")
		h.log.Error("upsert respondent failed", zap.Error(err))
		return s, reg, apperr.Persistence(err, "save respondent")
	}

	next, err := h.engine.Start(s, id)
	if err != nil {
		return s, reg, err
	}
	h.metrics.Started()
	h.log.Info("assessment started",
		zap.Int64("respondent_id", id),
		zap.String("profession", reg.Profession))
	return next, reg, nil
}

// Answer records an answer for the current question.
func (h *Host) Answer(s assessment.Session, questionIndex, optionIndex int) (assessment.Session, error) {
	next, err := h.engine.RecordAnswer(s, questionIndex, optionIndex)
	if err != nil {
		return s, err
	}
	h.metrics.Answered()
	return next, nil
}

// Outcome is everything shown on the results page.
type Outcome struct {
	Result               assessment.ScoreResult `json:"result"`
	Profile              assessment.Profile     `json:"profile"`
	Plot                 assessment.PlotSpec    `json:"plot"`
	Descriptor           assessment.Descriptor  `json:"descriptor"`
	NextSteps            []string               `json:"next_steps"`
	ConsultationBenefits []string               `json:"consultation_benefits"`
	ConsultationURL      string                 `json:"consultation_url"`
	ResultID             int64                  `json:"result_id,omitempty"`
	RecordedAt           time.Time              `json:"recorded_at,omitempty"`
}

// Evaluate computes the outcome of a completed session without persisting
// it.
func (h *Host) Evaluate(s assessment.Session) (Outcome, error) {
	r, err := h.engine.ComputeResult(s)
	if err != nil {
		return Outcome{}, err
	}
	p := assessment.Classify(r)
	return Outcome{
		Result:               r,
		Profile:              p,
		Plot:                 assessment.BuildPlotSpec(r, p),
		Descriptor:           assessment.Describe(p),
		NextSteps:            append([]string(nil), assessment.NextSteps...),
		ConsultationBenefits: append([]string(nil), assessment.ConsultationBenefits...),
		ConsultationURL:      h.consultURL,
	}, nil
}

// Finish evaluates a completed session and appends its result row. A
// persistence failure is retryable: the session is still complete and
// Finish may be called again.
func (h *Host) Finish(ctx context.Context, s assessment.Session) (Outcome, error) {
	out, err := h.Evaluate(s)
	if err != nil {
		return Outcome{}, err
	}

	rec, err := h.results.RecordResult(ctx, s.RespondentID, out.Result)
	if err != nil {
		h.metrics.PersistenceFailed("record_result")
		h.log.Error("record result failed",
			zap.Int64("respondent_id", s.RespondentID),
			zap.Error(err))
		return out, apperr.Persistence(err, "save result")
	}
	out.ResultID = rec.ID
	out.RecordedAt = rec.CreatedAt

	h.metrics.Completed(out.Profile.Slug())
	h.log.Info("assessment completed",
		zap.Int64("respondent_id", s.RespondentID),
		zap.Int64("result_id", rec.ID),
		zap.Stringer("score", out.Result),
		zap.String("profile", out.Profile.Slug()))
	return out, nil
}

// Retake discards the attempt; the respondent registers again.
func (h *Host) Retake(s assessment.Session) assessment.Session {
	return s.Retake()
}

// Plan asks the coach for a development plan. It never fails.
func (h *Host) Plan(ctx context.Context, profession string, out Outcome) coach.Plan {
	in := coach.Input{Profession: profession, Result: out.Result, Profile: out.Profile}
	if h.coach == nil {
		return coach.StaticPlan(out.Profile)
	}
	return h.coach.Plan(ctx, in)
}

// History lists a respondent's earlier results, newest first.
func (h *Host) History(ctx context.Context, respondentID int64, limit int) ([]store.ResultRecord, error) {
	recs, err := h.results.ListResultsForRespondent(ctx, respondentID, store.ListOptions{Limit: limit})
	if err != nil {
		h.metrics.PersistenceFailed("list_results")
		return nil, apperr.Persistence(err, "load history")
	}
	return recs, nil
}

// AdminResults lists every result after checking password.
func (h *Host) AdminResults(ctx context.Context, password string, opts store.ListOptions) ([]store.ResultRecord, error) {
	if err := h.CheckAdmin(password); err != nil {
		return nil, err
	}
	recs, err := h.results.ListResults(ctx, opts)
	if err != nil {
		h.metrics.PersistenceFailed("list_results")
		return nil, apperr.Persistence(err, "load results")
	}
	return recs, nil
}

// CheckAdmin compares password with the configured admin password in
// constant time.
func (h *Host) CheckAdmin(password string) error {
	if h.adminPass == "" {
		return apperr.New(apperr.CodeUnauthorized, "admin view is disabled")
	}
	if subtle.ConstantTimeCompare([]byte(password), []byte(h.adminPass)) != 1 {
		h.log.Warn("admin password rejected")
		return apperr.New(apperr.CodeUnauthorized, "invalid admin password")
	}
	return nil
}
