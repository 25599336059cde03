// Package results shows the outcome of a completed assessment: the
// quadrant chart, the profile narrative, a development plan and the next
// steps.
package results

import (
	"context"
	"fmt"
	"strings"

	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/profiler/internal/apperr"
	"github.com/abhisek/profiler/internal/assessment"
	"github.com/abhisek/profiler/internal/coach"
	"github.com/abhisek/profiler/internal/host"
	"github.com/abhisek/profiler/internal/identity"
	"github.com/abhisek/profiler/internal/router"
	"github.com/abhisek/profiler/internal/screen"
	"github.com/abhisek/profiler/internal/ui/components"
	"github.com/abhisek/profiler/internal/ui/layout"
	"github.com/abhisek/profiler/internal/ui/theme"
)

// sideBySideWidth is the narrowest content width that fits the chart and
// the narrative next to each other.
const sideBySideWidth = 110

type finishedMsg struct {
	outcome host.Outcome
	err     error
}

type planMsg struct {
	plan coach.Plan
}

// Options wires the screens reachable from the results.
type Options struct {
	// Retake builds the registration form for a new attempt.
	Retake func(prev identity.Registration) screen.Screen
	// History builds the list of the respondent's earlier results.
	History func(respondentID int64) screen.Screen
}

// ResultsScreen records the result on entry, then renders it. A failed
// save keeps the outcome on screen and can be retried.
type ResultsScreen struct {
	host     *host.Host
	session  assessment.Session
	reg      identity.Registration
	opts     Options
	outcome  *host.Outcome
	saved    bool
	errMsg   string
	fatal    bool
	plan     *coach.Plan
	viewport viewport.Model
}

var _ screen.Screen = (*ResultsScreen)(nil)
var _ screen.KeyHintProvider = (*ResultsScreen)(nil)
var _ screen.StatusProvider = (*ResultsScreen)(nil)

// New creates the results screen for a completed session.
func New(h *host.Host, s assessment.Session, reg identity.Registration, opts Options) *ResultsScreen {
	return &ResultsScreen{
		host:     h,
		session:  s,
		reg:      reg,
		opts:     opts,
		viewport: viewport.New(),
	}
}

func (r *ResultsScreen) Init() tea.Cmd {
	return r.finish()
}

func (r *ResultsScreen) finish() tea.Cmd {
	h, s := r.host, r.session
	return func() tea.Msg {
		out, err := h.Finish(context.Background(), s)
		return finishedMsg{outcome: out, err: err}
	}
}

func (r *ResultsScreen) requestPlan() tea.Cmd {
	h, profession, out := r.host, r.reg.Profession, *r.outcome
	return func() tea.Msg {
		return planMsg{plan: h.Plan(context.Background(), profession, out)}
	}
}

func (r *ResultsScreen) Title() string {
	return "Your Profile"
}

func (r *ResultsScreen) Status() string {
	return r.reg.Email
}

func (r *ResultsScreen) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{{Key: "↑↓", Description: "Scroll"}}
	if r.outcome != nil && !r.saved {
		hints = append(hints, layout.KeyHint{Key: "s", Description: "Save again"})
	}
	if r.saved && r.opts.History != nil {
		hints = append(hints, layout.KeyHint{Key: "h", Description: "History"})
	}
	return append(hints,
		layout.KeyHint{Key: "r", Description: "Retake"},
		layout.KeyHint{Key: "q", Description: "Quit"},
	)
}

func (r *ResultsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case finishedMsg:
		return r, r.handleFinished(msg)

	case planMsg:
		r.plan = &msg.plan
		return r, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "r":
			if r.opts.Retake != nil {
				r.session = r.host.Retake(r.session)
				return r, router.Reset(r.opts.Retake(r.reg))
			}
		case "h":
			if r.saved && r.opts.History != nil {
				return r, router.Push(r.opts.History(r.session.RespondentID))
			}
		case "s":
			if r.outcome != nil && !r.saved {
				r.errMsg = ""
				return r, r.finish()
			}
		case "q":
			return r, tea.Quit
		}
	}

	var cmd tea.Cmd
	r.viewport, cmd = r.viewport.Update(msg)
	return r, cmd
}

func (r *ResultsScreen) handleFinished(msg finishedMsg) tea.Cmd {
	if msg.err != nil && apperr.CodeOf(msg.err) != apperr.CodePersistenceFailure {
		r.fatal = true
		r.errMsg = screen.ErrorMessage(msg.err)
		return nil
	}

	first := r.outcome == nil
	out := msg.outcome
	r.outcome = &out
	r.saved = msg.err == nil
	if msg.err != nil {
		r.errMsg = screen.ErrorMessage(msg.err) + " Press s to save again."
	} else {
		r.errMsg = ""
	}

	if first {
		return r.requestPlan()
	}
	return nil
}

func (r *ResultsScreen) View(width, height int) string {
	if r.fatal {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, theme.ErrorText.Render(r.errMsg))
	}
	if r.outcome == nil {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, theme.Hint.Render("Scoring your answers..."))
	}

	r.viewport.SetWidth(width)
	r.viewport.SetHeight(height)
	r.viewport.SetContent(r.content(width))
	return r.viewport.View()
}

func (r *ResultsScreen) content(width int) string {
	out := r.outcome
	chart := components.NewQuadrantChart(out.Plot, 0, 0).View()

	narrativeWidth := width - 4
	if width >= sideBySideWidth {
		narrativeWidth = width - lipgloss.Width(chart) - 8
	}
	narrative := lipgloss.NewStyle().Width(narrativeWidth).Render(r.narrative())

	var top string
	if width >= sideBySideWidth {
		top = lipgloss.JoinHorizontal(lipgloss.Top, chart, "    ", narrative)
	} else {
		top = chart + "\n\n" + narrative
	}

	sections := []string{top}
	if r.errMsg != "" {
		sections = append(sections, theme.ErrorText.Render(r.errMsg))
	}
	sections = append(sections,
		lipgloss.NewStyle().Width(width-4).Render(r.planSection()),
		lipgloss.NewStyle().Width(width-4).Render(r.nextStepsSection()),
	)
	return lipgloss.NewStyle().Padding(0, 2).Render(strings.Join(sections, "\n\n"))
}

func bullets(items []string) string {
	var b strings.Builder
	for _, it := range items {
		b.WriteString("  • " + it + "\n")
	}
	return b.String()
}

func (r *ResultsScreen) narrative() string {
	out := r.outcome
	d := out.Descriptor

	var b strings.Builder
	b.WriteString(theme.Profile(out.Profile, d.Headline))
	b.WriteString("\n\n")
	b.WriteString(theme.Body.Render(fmt.Sprintf("Analytical approach   %3.0f%%", out.Result.Analytical*100)))
	b.WriteString("\n")
	b.WriteString(theme.Body.Render(fmt.Sprintf("Communication style   %3.0f%%", out.Result.Communication*100)))
	b.WriteString("\n\n")
	b.WriteString(theme.Heading.Render("Your strengths"))
	b.WriteString("\n")
	b.WriteString(bullets(d.Strengths))
	b.WriteString("\n")
	b.WriteString(theme.Heading.Render("Growth opportunities"))
	b.WriteString("\n")
	b.WriteString(bullets(d.Opportunities))
	return b.String()
}

func (r *ResultsScreen) planSection() string {
	var b strings.Builder
	b.WriteString(theme.Heading.Render("Your development plan"))
	b.WriteString("\n")
	if r.plan == nil {
		b.WriteString(theme.Hint.Render("Preparing your plan..."))
		return b.String()
	}

	b.WriteString(theme.Body.Render(r.plan.Summary))
	b.WriteString("\n")
	for i, fa := range r.plan.FocusAreas {
		b.WriteString(fmt.Sprintf("\n%d. %s", i+1, lipgloss.NewStyle().Bold(true).Render(fa.Title)))
		if fa.Axis != "" {
			b.WriteString(theme.Hint.Render(" (" + fa.Axis + ")"))
		}
		b.WriteString("\n")
		b.WriteString(bullets(fa.Actions))
	}
	return b.String()
}

func (r *ResultsScreen) nextStepsSection() string {
	out := r.outcome

	var b strings.Builder
	b.WriteString(theme.Heading.Render("Next steps"))
	b.WriteString("\n")
	for i, step := range out.NextSteps {
		b.WriteString(fmt.Sprintf("  %d. %s\n", i+1, step))
	}
	b.WriteString("\n")
	b.WriteString(theme.Heading.Render("Book a consultation"))
	b.WriteString("\n")
	b.WriteString(bullets(out.ConsultationBenefits))
	b.WriteString("\n  ")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Accent).Underline(true).Render(out.ConsultationURL))
	return b.String()
}
