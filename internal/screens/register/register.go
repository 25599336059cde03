// Package register collects the respondent's email and profession before
// the quiz starts.
package register

import (
	"context"
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

type field int

const (
	fieldEmail field = iota
	fieldProfession
)

// Next builds the screen shown once registration succeeds.
type Next func(s assessment.Session, reg identity.Registration) screen.Screen

type registeredMsg struct {
	session assessment.Session
	reg     identity.Registration
	err     error
}

// RegisterScreen is a two-field form. Submitting persists the respondent
// through the host and replaces the form with the quiz.
type RegisterScreen struct {
	host        *host.Host
	next        Next
	email       components.TextInput
	professions components.Menu
	focus       field
	pending     bool
	errMsg      string
}

var _ screen.Screen = (*RegisterScreen)(nil)
var _ screen.KeyHintProvider = (*RegisterScreen)(nil)

// New creates the form, pre-filled from prev when it is non-zero.
func New(h *host.Host, next Next, prev identity.Registration) *RegisterScreen {
	s := &RegisterScreen{
		host:  h,
		next:  next,
		email: components.NewTextInput("you@company.com", identity.MaxEmailLength, 40),
	}

	items := make([]components.MenuItem, len(identity.Professions))
	for i, p := range identity.Professions {
		items[i] = components.MenuItem{Label: p, Action: func() tea.Cmd { return s.submit(p) }}
	}
	s.professions = components.NewMenu(items)

	if prev.Email != "" {
		s.email.SetValue(prev.Email)
	}
	for i, p := range identity.Professions {
		if strings.EqualFold(p, prev.Profession) {
			s.professions.Selected = i
		}
	}
	return s
}

func (s *RegisterScreen) Init() tea.Cmd {
	return s.email.Init()
}

func (s *RegisterScreen) Title() string {
	return "Register"
}

func (s *RegisterScreen) KeyHints() []layout.KeyHint {
	if s.focus == fieldEmail {
		return []layout.KeyHint{
			{Key: "Enter", Description: "Continue"},
			{Key: "Tab", Description: "Profession"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Choose"},
		{Key: "Enter", Description: "Start quiz"},
		{Key: "Esc", Description: "Email"},
	}
}

func (s *RegisterScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case registeredMsg:
		s.pending = false
		if msg.err != nil {
			s.errMsg = screen.ErrorMessage(msg.err)
			if _, err := identity.NormalizeEmail(s.email.Value()); err != nil {
				return s, s.focusEmail()
			}
			return s, nil
		}
		return s, router.Replace(s.next(msg.session, msg.reg))

	case tea.KeyPressMsg:
		if s.pending {
			return s, nil
		}
		return s, s.handleKey(msg)
	}

	if s.focus == fieldEmail {
		var cmd tea.Cmd
		s.email, cmd = s.email.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *RegisterScreen) handleKey(msg tea.KeyPressMsg) tea.Cmd {
	switch msg.String() {
	case "tab", "shift+tab":
		if s.focus == fieldEmail {
			return s.focusProfession()
		}
		return s.focusEmail()
	}

	if s.focus == fieldProfession {
		if msg.String() == "esc" {
			return s.focusEmail()
		}
		var cmd tea.Cmd
		s.professions, cmd = s.professions.Update(msg)
		return cmd
	}

	if msg.String() == "enter" {
		if _, err := identity.NormalizeEmail(s.email.Value()); err != nil {
			s.email.Submit(false)
			s.errMsg = screen.ErrorMessage(err)
			return nil
		}
		s.email.Submit(true)
		return s.focusProfession()
	}

	var cmd tea.Cmd
	s.email, cmd = s.email.Update(msg)
	return cmd
}

func (s *RegisterScreen) focusEmail() tea.Cmd {
	s.focus = fieldEmail
	return s.email.Focus()
}

func (s *RegisterScreen) focusProfession() tea.Cmd {
	s.focus = fieldProfession
	s.errMsg = ""
	s.email.Blur()
	return nil
}

// submit registers in the background; the form is locked until the reply.
func (s *RegisterScreen) submit(profession string) tea.Cmd {
	s.pending = true
	s.errMsg = ""
	h, email := s.host, s.email.Value()
	return func() tea.Msg {
		sess, reg, err := h.Register(context.Background(), assessment.NewSession(), email, profession)
		return registeredMsg{session: sess, reg: reg, err: err}
	}
}

func (s *RegisterScreen) View(width, height int) string {
	label := func(text string, active bool) string {
		if active {
			return theme.Heading.Render(text)
		}
		return lipgloss.NewStyle().Foreground(theme.TextDim).Render(text)
	}

	var b strings.Builder
	b.WriteString(theme.Title.Render("Discover your data analysis style"))
	b.WriteString("\n")
	b.WriteString(theme.Subtitle.Render("Five questions, two axes, one profile."))
	b.WriteString("\n\n")

	b.WriteString(label("Email", s.focus == fieldEmail))
	b.WriteString("\n")
	b.WriteString(s.email.View())
	b.WriteString("\n\n")

	b.WriteString(label("Profession", s.focus == fieldProfession))
	b.WriteString("\n")
	b.WriteString(s.professions.View())

	switch {
	case s.pending:
		b.WriteString("\n" + theme.Hint.Render("Saving..."))
	case s.errMsg != "":
		b.WriteString("\n" + theme.ErrorText.Render(s.errMsg))
	}

	card := theme.Card.Width(min(60, width-4)).Render(b.String())
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, card)
}
