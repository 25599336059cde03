package assessment

import "fmt"

// Progress describes how many questions have been answered.
type Progress struct {
	Answered int     `json:"answered"`
	Total    int     `json:"total"`
	Fraction float64 `json:"fraction"`
	Caption  string  `json:"caption"`
}

// NewProgress computes progress for answered out of total questions.
func NewProgress(answered, total int) Progress {
	p := Progress{Answered: answered, Total: total}
	if total > 0 {
		p.Fraction = float64(answered) / float64(total)
	}
	if answered >= total {
		p.Caption = fmt.Sprintf("All %d questions answered", total)
		return p
	}
	p.Caption = fmt.Sprintf("Question %d of %d (%d%% complete)",
		answered+1, total, answered*100/total)
	return p
}
