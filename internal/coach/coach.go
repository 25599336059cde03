package coach

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/profiler/internal/assessment"
	"github.com/abhisek/profiler/internal/llm"
)

// Config tunes generation.
type Config struct {
	Timeout     time.Duration
	MaxTokens   int
	Temperature float64
}

// DefaultConfig returns the settings used when none are configured.
func DefaultConfig() Config {
	return Config{Timeout: 30 * time.Second, MaxTokens: 1024, Temperature: 0.4}
}

// Coach produces development plans. A nil provider always yields the
// static plan.
type Coach struct {
	provider llm.Provider
	cfg      Config
	log      *zap.Logger
}

// New creates a coach. provider may be nil.
func New(provider llm.Provider, cfg Config, log *zap.Logger) *Coach {
	def := DefaultConfig()
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = def.MaxTokens
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Coach{provider: provider, cfg: cfg, log: log}
}

// Enabled reports whether an LLM is configured.
func (c *Coach) Enabled() bool {
	return c != nil && c.provider != nil
}

// Plan returns a generated plan, or the static plan when generation is
// unavailable or fails. It never returns an error.
func (c *Coach) Plan(ctx context.Context, in Input) Plan {
	if !c.Enabled() {
		return StaticPlan(in.Profile)
	}
	p, err := c.generate(ctx, in)
	if err != nil {
		c.log.Warn("development plan generation failed, using static plan",
			zap.String("profile", in.Profile.Slug()),
			zap.String("outcome", llm.Outcome(err)),
			zap.Error(err))
		return StaticPlan(in.Profile)
	}
	return p
}

func (c *Coach) generate(ctx context.Context, in Input) (Plan, error) {
	ctx, cancel := context.WithTimeout(llm.WithPurpose(ctx, "development-plan"), c.cfg.Timeout)
	defer cancel()

	resp, err := c.provider.Generate(ctx, llm.Request{
		System:      systemPrompt,
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: buildUserMessage(in)}},
		Schema:      PlanSchema,
		MaxTokens:   c.cfg.MaxTokens,
		Temperature: c.cfg.Temperature,
	})
	if err != nil {
		return Plan{}, fmt.Errorf("generate plan: %w", err)
	}

	var out Plan
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return Plan{}, fmt.Errorf("parse plan: %w", err)
	}
	out.Source = SourceLLM
	return out, nil
}

// StaticPlan builds a plan from the profile's opportunity areas.
func StaticPlan(p assessment.Profile) Plan {
	d := assessment.Describe(p)
	axis := weakerAxis(p)

	plan := Plan{
		Summary: fmt.Sprintf("%s Here is where to focus next.", d.Headline),
		Source:  SourceStatic,
	}
	for i, o := range d.Opportunities {
		if i == FocusAreas {
			break
		}
		plan.FocusAreas = append(plan.FocusAreas, FocusArea{Title: o, Axis: axis, Actions: []string{o}})
	}
	return plan
}

func weakerAxis(p assessment.Profile) string {
	switch p {
	case assessment.ProfileTechnicalExpert:
		return "communication"
	case assessment.ProfileStoryteller:
		return "analytical"
	}
	// Balanced profiles grow on both; lead with analytical.
	return "analytical"
}
