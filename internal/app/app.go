// Package app wires the terminal UI: the screen flow from the splash
// through registration, the quiz and the results, and the frame around it.
package app

import (
	"context"
	"errors"
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"go.uber.org/zap"

	"github.com/abhisek/profiler/internal/assessment"
	"github.com/abhisek/profiler/internal/host"
	"github.com/abhisek/profiler/internal/identity"
	"github.com/abhisek/profiler/internal/router"
	"github.com/abhisek/profiler/internal/screen"
	"github.com/abhisek/profiler/internal/screens/history"
	"github.com/abhisek/profiler/internal/screens/quiz"
	"github.com/abhisek/profiler/internal/screens/register"
	"github.com/abhisek/profiler/internal/screens/results"
	"github.com/abhisek/profiler/internal/screens/welcome"
	"github.com/abhisek/profiler/internal/ui/layout"
)

// flow builds the screens and links them to each other.
type flow struct {
	host *host.Host
}

func (f flow) welcome() screen.Screen {
	return welcome.New(func() screen.Screen { return f.register(identity.Registration{}) })
}

func (f flow) register(prev identity.Registration) screen.Screen {
	return register.New(f.host, f.quiz, prev)
}

func (f flow) quiz(s assessment.Session, reg identity.Registration) screen.Screen {
	return quiz.New(f.host, s, reg, f.results)
}

func (f flow) results(s assessment.Session, reg identity.Registration) screen.Screen {
	return results.New(f.host, s, reg, results.Options{
		Retake:  f.register,
		History: f.history,
	})
}

func (f flow) history(respondentID int64) screen.Screen {
	return history.New(f.host, respondentID)
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	width  int
	height int
}

func newAppModel(h *host.Host) AppModel {
	return AppModel{router: router.New(flow{host: h}.welcome())}
}

func (m AppModel) Init() tea.Cmd {
	return m.router.Active().Init()
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyPressMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.router.Depth() > 1 {
				return m, router.Pop
			}
		}
	}

	return m, m.router.Update(msg)
}

func (m AppModel) View() tea.View {
	v := tea.NewView(m.render())
	v.AltScreen = true
	return v
}

// render draws the frame: the active screen between header and footer, or
// the screen alone when it has no title.
func (m AppModel) render() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	if layout.IsTooSmall(m.width, m.height) {
		return layout.RenderMinSizeMessage(m.width, m.height)
	}

	active := m.router.Active()
	if active.Title() == "" {
		return m.router.View(m.width, m.height)
	}

	var status string
	if sp, ok := active.(screen.StatusProvider); ok {
		status = sp.Status()
	}
	header := layout.RenderHeader(active.Title(), status, m.width)

	hints := layout.DefaultHints
	if kp, ok := active.(screen.KeyHintProvider); ok {
		hints = kp.KeyHints()
	}
	footer := layout.RenderFooter(hints, m.width)

	contentHeight := max(m.height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	content := m.router.View(m.width, contentHeight)
	return layout.RenderFrame(header, content, footer, m.width, m.height)
}

// Run starts the terminal UI and blocks until the user quits or ctx is
// canceled.
func Run(ctx context.Context, h *host.Host, log *zap.Logger) error {
	if log == nil {
		log = zap.NewNop()
	}
	p := tea.NewProgram(newAppModel(h), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		log.Error("terminal ui stopped", zap.Error(err))
		return fmt.Errorf("run terminal ui: %w", err)
	}
	return nil
}
