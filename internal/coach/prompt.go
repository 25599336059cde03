package coach

import (
	"fmt"
	"strings"

	"github.com/abhisek/profiler/internal/assessment"
)

const systemPrompt = `You are a career coach for data professionals. You write short, practical development plans grounded in a self-assessment of analytical depth and communication skill.`

func buildUserMessage(in Input) string {
	d := assessment.Describe(in.Profile)
	var b strings.Builder

	fmt.Fprintf(&b, "Profession: %s\n", in.Profession)
	fmt.Fprintf(&b, "Profile: %s\n", d.Name)
	fmt.Fprintf(&b, "Analytical score: %.0f%%\n", in.Result.Analytical*100)
	fmt.Fprintf(&b, "Communication score: %.0f%%\n", in.Result.Communication*100)

	b.WriteString("\nKey strengths:\n")
	for _, s := range d.Strengths {
		fmt.Fprintf(&b, "- %s\n", s)
	}
	b.WriteString("\nKnown opportunity areas:\n")
	for _, o := range d.Opportunities {
		fmt.Fprintf(&b, "- %s\n", o)
	}

	fmt.Fprintf(&b, `
Instructions:
Write a development plan with exactly %d focus areas.
1. Start from the weaker axis. Only pick the stronger axis when both scores are above 70%%.
2. Each focus area gets 1-3 concrete actions the respondent can start this month in their role as %s.
3. Keep the summary to two sentences. No greetings and no sign-off.
4. Plain text only, no markdown.`, FocusAreas, in.Profession)

	return b.String()
}
