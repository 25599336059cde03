package assessment

import (
	"math"
	"testing"
)

func TestBuildPlotSpecCorners(t *testing.T) {
	tests := []struct {
		r       ScoreResult
		want    Point
		profile Profile
	}{
		{ScoreResult{0, 0}, Point{0, 0}, ProfileIntuitiveAnalyst},
		{ScoreResult{1, 1}, Point{10, 10}, ProfileStrategicCommunicator},
		{ScoreResult{0.9, 0.26}, Point{9, 2.6}, ProfileTechnicalExpert},
		{ScoreResult{0.3, 0.7}, Point{3, 7}, ProfileStoryteller},
	}
	for _, tt := range tests {
		p := Classify(tt.r)
		spec := BuildPlotSpec(tt.r, p)

		pos := spec.Marker.Position
		if math.Abs(pos.X-tt.want.X) > epsilon || math.Abs(pos.Y-tt.want.Y) > epsilon {
			t.Errorf("%v: marker = %v, want %v", tt.r, pos, tt.want)
		}
		if got := spec.QuadrantAt(pos); got != tt.profile {
			t.Errorf("%v: QuadrantAt = %v, want %v", tt.r, got, tt.profile)
		}
		if spec.Profile != tt.profile {
			t.Errorf("%v: Profile = %v, want %v", tt.r, spec.Profile, tt.profile)
		}
		if spec.Marker.Style != StyleFor(tt.profile) {
			t.Errorf("%v: marker style = %v", tt.r, spec.Marker.Style)
		}
	}
}

func TestBuildPlotSpecLayout(t *testing.T) {
	spec := BuildPlotSpec(ScoreResult{0.5, 0.5}, ProfileStrategicCommunicator)

	for _, ax := range []Axis{spec.XAxis, spec.YAxis} {
		if ax.Min != 0 || ax.Max != 10 || ax.Tick != 2 {
			t.Errorf("axis %q = [%v, %v] tick %v", ax.Title, ax.Min, ax.Max, ax.Tick)
		}
	}
	if spec.XAxis.Title != "Analytical Approach" || spec.YAxis.Title != "Communication Style" {
		t.Errorf("axis titles = %q, %q", spec.XAxis.Title, spec.YAxis.Title)
	}

	if len(spec.Dividers) != 2 {
		t.Fatalf("dividers = %d, want 2", len(spec.Dividers))
	}
	seen := map[Orientation]bool{}
	for _, d := range spec.Dividers {
		if d.At != 5 {
			t.Errorf("%s divider at %v, want 5", d.Orientation, d.At)
		}
		seen[d.Orientation] = true
	}
	if !seen[Horizontal] || !seen[Vertical] {
		t.Errorf("dividers = %v", spec.Dividers)
	}

	if len(spec.Quadrants) != 4 {
		t.Fatalf("quadrants = %d, want 4", len(spec.Quadrants))
	}
	for _, q := range spec.Quadrants {
		if got := spec.QuadrantAt(q.Anchor); got != q.Profile {
			t.Errorf("label %q anchored in %v quadrant", q.Text, got)
		}
	}
}

func TestMarkerStylesDistinct(t *testing.T) {
	seen := map[MarkerStyle]Profile{}
	for _, p := range AllProfiles() {
		s := StyleFor(p)
		if s.Color == "" || s.Symbol == "" {
			t.Errorf("%v has empty style", p)
		}
		if other, dup := seen[s]; dup {
			t.Errorf("%v shares style with %v", p, other)
		}
		seen[s] = p
	}
}

func TestProgress(t *testing.T) {
	tests := []struct {
		answered, total int
		caption         string
		fraction        float64
	}{
		{0, 5, "Question 1 of 5 (0% complete)", 0},
		{1, 5, "Question 2 of 5 (20% complete)", 0.2},
		{2, 3, "Question 3 of 3 (66% complete)", 2.0 / 3.0},
		{5, 5, "All 5 questions answered", 1},
	}
	for _, tt := range tests {
		p := NewProgress(tt.answered, tt.total)
		if p.Caption != tt.caption {
			t.Errorf("NewProgress(%d, %d).Caption = %q, want %q", tt.answered, tt.total, p.Caption, tt.caption)
		}
		if math.Abs(p.Fraction-tt.fraction) > epsilon {
			t.Errorf("NewProgress(%d, %d).Fraction = %v, want %v", tt.answered, tt.total, p.Fraction, tt.fraction)
		}
	}
}
