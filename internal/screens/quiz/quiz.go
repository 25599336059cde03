// Package quiz asks the assessment questions one at a time.
package quiz

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/profiler/internal/assessment"
	"github.com/abhisek/profiler/internal/host"
	"github.com/abhisek/profiler/internal/identity"
	"github.com/abhisek/profiler/internal/router"
	"github.com/abhisek/profiler/internal/screen"
	"github.com/abhisek/profiler/internal/ui/components"
	"github.com/abhisek/profiler/internal/ui/layout"
	"github.com/abhisek/profiler/internal/ui/theme"
)

// Next builds the screen shown after the last answer.
type Next func(s assessment.Session, reg identity.Registration) screen.Screen

// QuizScreen shows the current question of a started session. Answers go
// through the host, which owns ordering and validation.
type QuizScreen struct {
	host     *host.Host
	session  assessment.Session
	reg      identity.Registration
	next     Next
	question assessment.Question
	choice   components.MultiChoice
	errMsg   string
}

var _ screen.Screen = (*QuizScreen)(nil)
var _ screen.KeyHintProvider = (*QuizScreen)(nil)
var _ screen.StatusProvider = (*QuizScreen)(nil)

// New creates a quiz for s, which must already be started.
func New(h *host.Host, s assessment.Session, reg identity.Registration, next Next) *QuizScreen {
	q := &QuizScreen{host: h, session: s, reg: reg, next: next}
	q.load()
	return q
}

func (q *QuizScreen) load() {
	question, ok := q.host.Engine().CurrentQuestion(q.session)
	if !ok {
		return
	}
	q.question = question
	opts := make([]string, len(question.Options))
	for i, o := range question.Options {
		opts[i] = o.Text
	}
	q.choice = components.NewMultiChoice(question.Text, opts)
}

func (q *QuizScreen) Init() tea.Cmd {
	return nil
}

func (q *QuizScreen) Title() string {
	return "Quiz"
}

func (q *QuizScreen) Status() string {
	return q.reg.Email
}

func (q *QuizScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: fmt.Sprintf("1-%d", len(q.question.Options)), Description: "Choose"},
		{Key: "Enter", Description: "Answer"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (q *QuizScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if _, ok := msg.(tea.KeyPressMsg); !ok {
		return q, nil
	}

	var cmd tea.Cmd
	q.choice, cmd = q.choice.Update(msg)
	if !q.choice.Submitted {
		return q, cmd
	}

	updated, err := q.host.Answer(q.session, q.question.Index, q.choice.ChosenIndex)
	if err != nil {
		q.errMsg = screen.ErrorMessage(err)
		q.load()
		return q, nil
	}
	q.session = updated
	q.errMsg = ""

	if q.host.Engine().IsComplete(q.session) {
		return q, router.Replace(q.next(q.session, q.reg))
	}
	q.load()
	return q, nil
}

func (q *QuizScreen) View(width, height int) string {
	p := q.host.Engine().Progress(q.session)
	cardWidth := min(76, width-4)

	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).Render(p.Caption))
	b.WriteString("\n")
	b.WriteString(components.NewProgressBar("", p.Fraction, true, cardWidth-6).View())
	b.WriteString("\n\n")
	b.WriteString(lipgloss.NewStyle().Width(cardWidth - 6).Render(q.choice.View()))
	if q.errMsg != "" {
		b.WriteString("\n" + theme.ErrorText.Render(q.errMsg))
	}

	card := theme.Card.Width(cardWidth).Render(b.String())
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, card)
}
