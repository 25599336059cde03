// Package welcome shows the splash screen: a small quadrant animation, the
// banner and a tagline.
package welcome

import (
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/profiler/internal/assessment"
	"github.com/abhisek/profiler/internal/router"
	"github.com/abhisek/profiler/internal/screen"
	"github.com/abhisek/profiler/internal/ui/theme"
)

const (
	tickInterval = 100 * time.Millisecond
	phase1End    = 500 * time.Millisecond
	phase2End    = 1500 * time.Millisecond
	totalDur     = 3000 * time.Millisecond
)

const tagline = "Discover your data analysis style"

type tickMsg time.Time

// WelcomeScreen animates a marker hopping between the four quadrants and
// then waits for a key. Any key skips ahead.
type WelcomeScreen struct {
	next         func() screen.Screen
	elapsed      time.Duration
	tickCount    int
	transitioned bool
}

var _ screen.Screen = (*WelcomeScreen)(nil)

// New creates a WelcomeScreen that replaces itself with next().
func New(next func() screen.Screen) *WelcomeScreen {
	return &WelcomeScreen{next: next}
}

func (w *WelcomeScreen) Title() string {
	return ""
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (w *WelcomeScreen) Init() tea.Cmd {
	return tick()
}

func (w *WelcomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg.(type) {
	case tickMsg:
		if w.transitioned {
			return w, nil
		}
		if w.elapsed < totalDur {
			w.elapsed += tickInterval
		}
		w.tickCount++
		return w, tick()

	case tea.KeyPressMsg:
		return w, w.transition()
	}
	return w, nil
}

func (w *WelcomeScreen) transition() tea.Cmd {
	if w.transitioned {
		return nil
	}
	w.transitioned = true
	return router.Replace(w.next())
}

// miniQuadrant draws a 2x2 grid with the marker in one cell.
func miniQuadrant(active assessment.Profile) string {
	cells := map[assessment.Profile]string{}
	for _, p := range assessment.AllProfiles() {
		cells[p] = "   "
	}
	cells[active] = " " + theme.Profile(active, "●") + " "

	grid := lipgloss.NewStyle().Foreground(theme.Grid)
	return strings.Join([]string{
		cells[assessment.ProfileStoryteller] + grid.Render("┆") + cells[assessment.ProfileStrategicCommunicator],
		grid.Render("┄┄┄┼┄┄┄"),
		cells[assessment.ProfileIntuitiveAnalyst] + grid.Render("┆") + cells[assessment.ProfileTechnicalExpert],
	}, "\n")
}

func (w *WelcomeScreen) View(width, height int) string {
	profiles := assessment.AllProfiles()
	active := profiles[(w.tickCount/3)%len(profiles)]

	sections := []string{miniQuadrant(active)}

	if w.elapsed >= phase1End {
		sections = append(sections, "", RenderBanner(width))
	}

	if w.elapsed >= phase2End {
		sections = append(sections, "",
			lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(tagline),
			"",
			theme.Hint.Render("press any key to continue"))
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, strings.Join(sections, "\n"))
}
