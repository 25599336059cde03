// Package coach turns an assessment result into a short development plan,
// using an LLM when one is configured and the profile's static opportunity
// areas otherwise.
package coach

import "github.com/abhisek/profiler/internal/assessment"

// Source records where a plan came from.
type Source string

const (
	SourceLLM    Source = "llm"
	SourceStatic Source = "static"
)

// FocusArea is one thing to work on and how.
type FocusArea struct {
	Title   string   `json:"title"`
	Axis    string   `json:"axis"`
	Actions []string `json:"actions"`
}

// Plan is a personalized development plan.
type Plan struct {
	Summary    string      `json:"summary"`
	FocusAreas []FocusArea `json:"focus_areas"`
	Source     Source      `json:"source"`
}

// Input is what the coach knows about the respondent.
type Input struct {
	Profession string
	Result     assessment.ScoreResult
	Profile    assessment.Profile
}
