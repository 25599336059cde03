package assessment

import (
	"fmt"

	"github.com/abhisek/profiler/internal/apperr"
)

// Stage is the position of a session in its lifecycle.
type Stage int

const (
	StageRegistering Stage = iota
	StageAnswering
	StageCompleted
)

var stageNames = map[Stage]string{
	StageRegistering: "registering",
	StageAnswering:   "answering",
	StageCompleted:   "completed",
}

func (s Stage) String() string {
	if n, ok := stageNames[s]; ok {
		return n
	}
	return fmt.Sprintf("stage(%d)", int(s))
}

// MarshalText encodes the stage by name.
func (s Stage) MarshalText() ([]byte, error) {
	if _, ok := stageNames[s]; !ok {
		return nil, fmt.Errorf("unknown stage %d", int(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText decodes a stage name.
func (s *Stage) UnmarshalText(b []byte) error {
	for st, name := range stageNames {
		if name == string(b) {
			*s = st
			return nil
		}
	}
	return fmt.Errorf("unknown stage %q", string(b))
}

// WeightPair is the (analytical, communication) contribution of one answer.
type WeightPair struct {
	Analytical    float64 `json:"analytical"`
	Communication float64 `json:"communication"`
}

// Session is one respondent's attempt. It is a value: every transition
// returns a new Session and never mutates the receiver's answers.
type Session struct {
	RespondentID int64        `json:"respondent_id,omitempty"`
	Answers      []WeightPair `json:"answers,omitempty"`
	Stage        Stage        `json:"stage"`
}

// NewSession returns a session waiting for registration.
func NewSession() Session {
	return Session{Stage: StageRegistering}
}

// Answered returns the number of recorded answers.
func (s Session) Answered() int {
	return len(s.Answers)
}

// Retake discards the attempt and returns a fresh session.
func (s Session) Retake() Session {
	return NewSession()
}

func (s Session) withAnswer(w WeightPair) Session {
	answers := make([]WeightPair, len(s.Answers), len(s.Answers)+1)
	copy(answers, s.Answers)
	s.Answers = append(answers, w)
	return s
}

// Engine drives sessions over a fixed question bank. It holds no
// per-respondent state and is safe for concurrent use.
type Engine struct {
	bank QuestionBank
}

// NewEngine creates an engine for bank.
func NewEngine(bank QuestionBank) (*Engine, error) {
	if bank.Len() == 0 {
		return nil, apperr.New(apperr.CodeConfiguration, "question bank is empty")
	}
	return &Engine{bank: bank}, nil
}

// Bank returns the engine's question bank.
func (e *Engine) Bank() QuestionBank {
	return e.bank
}

// Start moves a registering session to answering for the given respondent.
func (e *Engine) Start(s Session, respondentID int64) (Session, error) {
	if s.Stage != StageRegistering {
		return s, apperr.New(apperr.CodeOutOfSequence, "session already %s", s.Stage)
	}
	if respondentID <= 0 {
		return s, apperr.New(apperr.CodeInvalidIdentity, "respondent id is required")
	}
	return Session{RespondentID: respondentID, Stage: StageAnswering}, nil
}

// CurrentQuestion returns the question awaiting an answer.
func (e *Engine) CurrentQuestion(s Session) (Question, bool) {
	if s.Stage != StageAnswering {
		return Question{}, false
	}
	return e.bank.Question(s.Answered())
}

// RecordAnswer appends the weights of the chosen option. The answer must
// be for the current question. Recording the last answer completes the
// session in the same step.
func (e *Engine) RecordAnswer(s Session, questionIndex, optionIndex int) (Session, error) {
	if s.Stage != StageAnswering {
		return s, apperr.New(apperr.CodeOutOfSequence, "session is %s", s.Stage)
	}
	if questionIndex != s.Answered() {
		return s, apperr.New(apperr.CodeOutOfSequence,
			"answer for question %d, expected question %d", questionIndex+1, s.Answered()+1)
	}
	q, ok := e.bank.Question(questionIndex)
	if !ok {
		return s, apperr.New(apperr.CodeOutOfSequence, "question %d does not exist", questionIndex+1)
	}
	if optionIndex < 0 || optionIndex >= len(q.Options) {
		return s, apperr.New(apperr.CodeInvalidAnswer,
			"option %d out of range for question %d", optionIndex+1, questionIndex+1)
	}

	next := s.withAnswer(q.Options[optionIndex].Weights())
	if next.Answered() == e.bank.Len() {
		next.Stage = StageCompleted
	}
	return next, nil
}

// IsComplete reports whether every question has been answered.
func (e *Engine) IsComplete(s Session) bool {
	return s.Stage == StageCompleted && s.Answered() == e.bank.Len()
}

// ComputeResult averages the recorded weights of a completed session.
func (e *Engine) ComputeResult(s Session) (ScoreResult, error) {
	n := e.bank.Len()
	if n == 0 {
		return ScoreResult{}, apperr.New(apperr.CodeConfiguration, "question bank is empty")
	}
	if !e.IsComplete(s) {
		return ScoreResult{}, apperr.New(apperr.CodeConfiguration,
			"result requested after %d of %d answers", s.Answered(), n)
	}
	return Score(s.Answers)
}

// Progress reports how far the session has advanced.
func (e *Engine) Progress(s Session) Progress {
	return NewProgress(s.Answered(), e.bank.Len())
}
