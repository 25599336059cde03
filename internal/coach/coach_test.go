package coach

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/abhisek/profiler/internal/assessment"
	"github.com/abhisek/profiler/internal/llm"
)

const validPlan = `{
  "summary": "Strong analysis, quieter delivery. Build the presentation muscle.",
  "focus_areas": [
    {"title": "Executive summaries", "axis": "communication", "actions": ["Write a one-page summary for every analysis you ship"]},
    {"title": "Visual storytelling", "axis": "communication", "actions": ["Redesign one recurring report around a single chart"]},
    {"title": "Stakeholder check-ins", "axis": "communication", "actions": ["Book a monthly review with your main stakeholder"]}
  ]
}`

func technicalInput() Input {
	return Input{
		Profession: "Data Scientist",
		Result:     assessment.ScoreResult{Analytical: 0.9, Communication: 0.26},
		Profile:    assessment.ProfileTechnicalExpert,
	}
}

func TestPlan_Generated(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(validPlan)})
	c := New(mock, Config{}, nil)

	plan := c.Plan(context.Background(), technicalInput())
	if plan.Source != SourceLLM {
		t.Fatalf("Source = %q, want %q", plan.Source, SourceLLM)
	}
	if len(plan.FocusAreas) != FocusAreas {
		t.Errorf("len(FocusAreas) = %d, want %d", len(plan.FocusAreas), FocusAreas)
	}
	if plan.FocusAreas[0].Title != "Executive summaries" {
		t.Errorf("FocusAreas[0].Title = %q", plan.FocusAreas[0].Title)
	}

	calls := mock.Calls()
	if len(calls) != 1 {
		t.Fatalf("calls = %d, want 1", len(calls))
	}
	req := calls[0]
	if req.Schema != PlanSchema {
		t.Error("request should carry PlanSchema")
	}
	msg := req.Messages[0].Content
	for _, want := range []string{"Data Scientist", "Technical Expert", "Analytical score: 90%", "Communication score: 26%"} {
		if !strings.Contains(msg, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestPlan_FallsBackOnSchemaMismatch(t *testing.T) {
	// Two focus areas instead of three.
	bad := `{"summary":"s","focus_areas":[{"title":"a","axis":"analytical","actions":["x"]},{"title":"b","axis":"analytical","actions":["y"]}]}`
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(bad)})
	c := New(mock, Config{}, nil)

	plan := c.Plan(context.Background(), technicalInput())
	if plan.Source != SourceStatic {
		t.Errorf("Source = %q, want static", plan.Source)
	}
}

func TestPlan_FallsBackOnProviderError(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Err: &llm.ErrProviderUnavailable{}})
	c := New(mock, Config{}, nil)

	plan := c.Plan(context.Background(), technicalInput())
	if plan.Source != SourceStatic {
		t.Errorf("Source = %q, want static", plan.Source)
	}
}

func TestPlan_NoProvider(t *testing.T) {
	c := New(nil, Config{}, nil)
	if c.Enabled() {
		t.Error("Enabled() = true without provider")
	}
	plan := c.Plan(context.Background(), technicalInput())
	if plan.Source != SourceStatic {
		t.Errorf("Source = %q, want static", plan.Source)
	}

	var nilCoach *Coach
	if nilCoach.Enabled() {
		t.Error("nil coach should not be enabled")
	}
}

func TestStaticPlan(t *testing.T) {
	tests := []struct {
		profile assessment.Profile
		axis    string
	}{
		{assessment.ProfileTechnicalExpert, "communication"},
		{assessment.ProfileStoryteller, "analytical"},
		{assessment.ProfileIntuitiveAnalyst, "analytical"},
		{assessment.ProfileStrategicCommunicator, "analytical"},
	}
	for _, tt := range tests {
		plan := StaticPlan(tt.profile)
		if len(plan.FocusAreas) != FocusAreas {
			t.Errorf("%s: len(FocusAreas) = %d, want %d", tt.profile, len(plan.FocusAreas), FocusAreas)
			continue
		}
		want := assessment.Describe(tt.profile).Opportunities[0]
		if plan.FocusAreas[0].Title != want {
			t.Errorf("%s: first focus = %q, want %q", tt.profile, plan.FocusAreas[0].Title, want)
		}
		if plan.FocusAreas[0].Axis != tt.axis {
			t.Errorf("%s: axis = %q, want %q", tt.profile, plan.FocusAreas[0].Axis, tt.axis)
		}
		if !strings.HasPrefix(plan.Summary, assessment.Describe(tt.profile).Headline) {
			t.Errorf("%s: summary = %q", tt.profile, plan.Summary)
		}
	}
}
