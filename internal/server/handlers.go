package server

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/abhisek/profiler/internal/apperr"
	"github.com/abhisek/profiler/internal/assessment"
	"github.com/abhisek/profiler/internal/host"
	"github.com/abhisek/profiler/internal/sessions"
	"github.com/abhisek/profiler/internal/store"
)

// questionView hides option weights from respondents.
type questionView struct {
	Index   int      `json:"index"`
	Text    string   `json:"text"`
	Options []string `json:"options"`
}

func viewQuestion(q assessment.Question) *questionView {
	v := &questionView{Index: q.Index, Text: q.Text, Options: make([]string, len(q.Options))}
	for i, o := range q.Options {
		v.Options[i] = o.Text
	}
	return v
}

type sessionView struct {
	Token    string              `json:"token"`
	Stage    assessment.Stage    `json:"stage"`
	Question *questionView       `json:"question,omitempty"`
	Progress assessment.Progress `json:"progress"`
	Outcome  *host.Outcome       `json:"outcome,omitempty"`
}

func (s *Server) view(token string, st sessions.State, out *host.Outcome) sessionView {
	engine := s.host.Engine()
	v := sessionView{Token: token, Stage: st.Session.Stage, Progress: engine.Progress(st.Session), Outcome: out}
	if q, ok := engine.CurrentQuestion(st.Session); ok {
		v.Question = viewQuestion(q)
	}
	return v
}

func (s *Server) listQuestions(c *gin.Context) {
	qs := s.host.Questions()
	out := make([]*questionView, len(qs))
	for i, q := range qs {
		out[i] = viewQuestion(q)
	}
	success(c, http.StatusOK, out)
}

type registerRequest struct {
	Email      string `json:"email"`
	Profession string `json:"profession"`
}

func (s *Server) createSession(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	sess, reg, err := s.host.Register(c.Request.Context(), assessment.NewSession(), req.Email, req.Profession)
	if err != nil {
		s.fail(c, err)
		return
	}
	token, st, err := s.registry.Create(c.Request.Context(), sessions.State{
		Session:    sess,
		Email:      reg.Email,
		Profession: reg.Profession,
	})
	if err != nil {
		s.fail(c, err)
		return
	}
	s.metrics.SessionOpened()
	success(c, http.StatusCreated, s.view(token, st, nil))
}

func (s *Server) getSession(c *gin.Context) {
	token := c.Param("token")
	st, err := s.registry.Get(c.Request.Context(), token)
	if err != nil {
		s.fail(c, err)
		return
	}
	st, out, err := s.settle(c, token, st)
	if err != nil {
		s.fail(c, err)
		return
	}
	success(c, http.StatusOK, s.view(token, st, out))
}

type answerRequest struct {
	Question *int `json:"question"`
	Option   *int `json:"option"`
}

func (s *Server) answer(c *gin.Context) {
	var req answerRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Question == nil || req.Option == nil {
		badRequest(c, "question and option are required")
		return
	}

	ctx := c.Request.Context()
	token := c.Param("token")
	st, err := s.registry.Get(ctx, token)
	if err != nil {
		s.fail(c, err)
		return
	}

	next, err := s.host.Answer(st.Session, *req.Question, *req.Option)
	if err != nil {
		s.fail(c, err)
		return
	}

	if !s.host.Engine().IsComplete(next) {
		st.Session = next
		if st, err = s.registry.Put(ctx, token, st); err != nil {
			s.fail(c, err)
			return
		}
		success(c, http.StatusOK, s.view(token, st, nil))
		return
	}

	// The final answer only sticks once its result is saved. On failure the
	// stored session still waits for this answer, so the request can be
	// repeated as is.
	prev := st.Session
	st.Session = next
	st, out, err := s.save(c, token, st, prev)
	if err != nil {
		s.fail(c, err)
		return
	}
	success(c, http.StatusOK, s.view(token, st, out))
}

// settle returns the outcome of a completed session, saving its result
// first when no earlier request has. Incomplete sessions have no outcome.
func (s *Server) settle(c *gin.Context, token string, st sessions.State) (sessions.State, *host.Outcome, error) {
	if !s.host.Engine().IsComplete(st.Session) {
		return st, nil, nil
	}
	if st.ResultID != 0 || s.saving(st) {
		return s.outcome(st)
	}
	return s.save(c, token, st, st.Session)
}

// save claims the result write through the versioned registry, records the
// result and releases the claim. Only the request holding the claim writes,
// so a completed assessment gets a single row however many requests race
// for it. A request that loses the claim reports the outcome of whatever
// state won. When the write fails the stored session is reset to onFail.
func (s *Server) save(c *gin.Context, token string, st sessions.State, onFail assessment.Session) (sessions.State, *host.Outcome, error) {
	ctx := c.Request.Context()

	st.SavingSince = s.now()
	claimed, err := s.registry.Put(ctx, token, st)
	if errors.Is(err, apperr.ErrOutOfSequence) {
		latest, gerr := s.registry.Get(ctx, token)
		if gerr != nil {
			return st, nil, gerr
		}
		if !s.host.Engine().IsComplete(latest.Session) {
			return latest, nil, err
		}
		return s.outcome(latest)
	}
	if err != nil {
		return st, nil, err
	}

	out, err := s.host.Finish(ctx, claimed.Session)
	if err != nil {
		claimed.Session = onFail
		claimed.SavingSince = time.Time{}
		released, perr := s.registry.Put(ctx, token, claimed)
		if perr != nil {
			s.log.Warn("release result claim", zap.String("token", token), zap.Error(perr))
			return claimed, nil, err
		}
		return released, nil, err
	}

	claimed.ResultID = out.ResultID
	claimed.SavingSince = time.Time{}
	done, err := s.registry.Put(ctx, token, claimed)
	if err != nil {
		// The row exists; only the registry missed the id.
		s.log.Warn("store result id", zap.String("token", token), zap.Int64("result_id", out.ResultID), zap.Error(err))
		return claimed, &out, nil
	}
	return done, &out, nil
}

// saving reports whether another request holds a live claim on the result
// write.
func (s *Server) saving(st sessions.State) bool {
	return !st.SavingSince.IsZero() && s.now().Sub(st.SavingSince) < saveLease
}

// outcome evaluates a completed session without writing. ResultID stays
// zero while the result is not saved yet.
func (s *Server) outcome(st sessions.State) (sessions.State, *host.Outcome, error) {
	out, err := s.host.Evaluate(st.Session)
	if err != nil {
		return st, nil, err
	}
	out.ResultID = st.ResultID
	return st, &out, nil
}

func (s *Server) retake(c *gin.Context) {
	token := c.Param("token")
	st, err := s.registry.Get(c.Request.Context(), token)
	if err != nil {
		s.fail(c, err)
		return
	}

	fresh, _, err := s.host.Register(c.Request.Context(), s.host.Retake(st.Session), st.Email, st.Profession)
	if err != nil {
		s.fail(c, err)
		return
	}
	st.Session = fresh
	st.ResultID = 0
	st.SavingSince = time.Time{}
	if st, err = s.registry.Put(c.Request.Context(), token, st); err != nil {
		s.fail(c, err)
		return
	}
	success(c, http.StatusOK, s.view(token, st, nil))
}

func (s *Server) deleteSession(c *gin.Context) {
	token := c.Param("token")
	if _, err := s.registry.Get(c.Request.Context(), token); err != nil {
		s.fail(c, err)
		return
	}
	if err := s.registry.Delete(c.Request.Context(), token); err != nil {
		s.fail(c, err)
		return
	}
	s.metrics.SessionClosed()
	c.Status(http.StatusNoContent)
}

func (s *Server) plan(c *gin.Context) {
	token := c.Param("token")
	st, err := s.registry.Get(c.Request.Context(), token)
	if err != nil {
		s.fail(c, err)
		return
	}
	out, err := s.host.Evaluate(st.Session)
	if err != nil {
		s.fail(c, apperr.Wrap(apperr.CodeOutOfSequence, err, "assessment is not complete"))
		return
	}
	success(c, http.StatusOK, s.host.Plan(c.Request.Context(), st.Profession, out))
}

type resultView struct {
	ID            int64     `json:"id"`
	Email         string    `json:"email"`
	Profession    string    `json:"profession"`
	Analytical    float64   `json:"analytical"`
	Communication float64   `json:"communication"`
	Profile       string    `json:"profile"`
	ProfileName   string    `json:"profile_name"`
	CreatedAt     time.Time `json:"created_at"`
}

func (s *Server) listResults(c *gin.Context) {
	opts, err := listOptions(c)
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	recs, err := s.host.AdminResults(c.Request.Context(), c.GetHeader(adminHeader), opts)
	if err != nil {
		s.fail(c, err)
		return
	}

	out := make([]resultView, len(recs))
	for i, r := range recs {
		out[i] = resultView{
			ID:            r.ID,
			Email:         r.Email,
			Profession:    r.Profession,
			Analytical:    r.Analytical,
			Communication: r.Communication,
			Profile:       r.Profile.Slug(),
			ProfileName:   r.Profile.String(),
			CreatedAt:     r.CreatedAt,
		}
	}
	s.log.Info("admin results listed", zap.Int("count", len(out)))
	success(c, http.StatusOK, out)
}

const maxPageSize = 500

func listOptions(c *gin.Context) (store.ListOptions, error) {
	opts := store.ListOptions{Limit: 100}
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > maxPageSize {
			return opts, errors.New("limit must be between 1 and 500")
		}
		opts.Limit = n
	}
	if v := c.Query("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return opts, errors.New("offset must be a non-negative integer")
		}
		opts.Offset = n
	}
	return opts, nil
}
