package assessment

import (
	"fmt"

	"github.com/abhisek/profiler/internal/apperr"
)

// ScoreResult holds the two axis scores, each in [0, 1].
type ScoreResult struct {
	Analytical    float64 `json:"analytical"`
	Communication float64 `json:"communication"`
}

func (r ScoreResult) String() string {
	return fmt.Sprintf("analytical=%.2f communication=%.2f", r.Analytical, r.Communication)
}

// Score returns the per-axis mean of answers.
func Score(answers []WeightPair) (ScoreResult, error) {
	if len(answers) == 0 {
		return ScoreResult{}, apperr.New(apperr.CodeConfiguration, "cannot score zero answers")
	}
	var a, c float64
	for _, w := range answers {
		a += w.Analytical
		c += w.Communication
	}
	n := float64(len(answers))
	return ScoreResult{Analytical: clamp01(a / n), Communication: clamp01(c / n)}, nil
}

// clamp01 absorbs float rounding at the range edges.
func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
