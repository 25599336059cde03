// Package history lists the respondent's earlier results.
package history

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/profiler/internal/assessment"
	"github.com/abhisek/profiler/internal/host"
	"github.com/abhisek/profiler/internal/router"
	"github.com/abhisek/profiler/internal/screen"
	"github.com/abhisek/profiler/internal/store"
	"github.com/abhisek/profiler/internal/ui/layout"
	"github.com/abhisek/profiler/internal/ui/theme"
)

// Limit caps how many results are loaded.
const Limit = 50

type historyLoadedMsg struct {
	Results []store.ResultRecord
	Err     error
}

// HistoryScreen shows one line per result, newest first. Enter expands a
// line to the profile headline and the exact scores.
type HistoryScreen struct {
	host         *host.Host
	respondentID int64
	results      []store.ResultRecord
	selected     int
	expanded     map[int]bool
	loaded       bool
	errMsg       string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a HistoryScreen for respondentID.
func New(h *host.Host, respondentID int64) *HistoryScreen {
	return &HistoryScreen{
		host:         h,
		respondentID: respondentID,
		expanded:     make(map[int]bool),
	}
}

func (s *HistoryScreen) Init() tea.Cmd {
	h, id := s.host, s.respondentID
	return func() tea.Msg {
		recs, err := h.History(context.Background(), id, Limit)
		return historyLoadedMsg{Results: recs, Err: err}
	}
}

func (s *HistoryScreen) Title() string {
	return "History"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Details"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.Err != nil {
			s.errMsg = screen.ErrorMessage(msg.Err)
		} else {
			s.results = msg.Results
		}
		s.loaded = true
		return s, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "esc", "q":
			return s, router.Pop
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
		case "down", "j":
			if s.selected < len(s.results)-1 {
				s.selected++
			}
		case "enter":
			s.expanded[s.selected] = !s.expanded[s.selected]
		}
	}
	return s, nil
}

func centered(width int, style lipgloss.Style, text string) string {
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(text))
}

func (s *HistoryScreen) View(width, height int) string {
	dim := lipgloss.NewStyle().Foreground(theme.TextDim)
	switch {
	case s.errMsg != "":
		return "\n\n" + centered(width, theme.ErrorText, s.errMsg)
	case !s.loaded:
		return "\n\n" + centered(width, dim, "Loading history...")
	case len(s.results) == 0:
		return "\n\n" + centered(width, dim.Italic(true), "No results yet. Finish the quiz to see your profile here.")
	}

	var b strings.Builder
	b.WriteString("\n")
	for i, rec := range s.results {
		prefix := "  "
		style := lipgloss.NewStyle().Foreground(theme.Text)
		if i == s.selected {
			prefix = "▸ "
			style = theme.Selected
		}

		line := fmt.Sprintf("%s%s  %-24s  analytical %3.0f%%  communication %3.0f%%",
			prefix, rec.CreatedAt.Local().Format("Jan 02, 2006 15:04"), rec.Profile,
			rec.Analytical*100, rec.Communication*100)
		b.WriteString(centered(width, style, line))
		b.WriteString("\n")

		if s.expanded[i] {
			d := assessment.Describe(rec.Profile)
			detail := fmt.Sprintf("    %s  (%.2f, %.2f)", d.Headline, rec.Analytical, rec.Communication)
			b.WriteString(centered(width, lipgloss.NewStyle().Foreground(theme.ProfileColor(rec.Profile)), detail))
			b.WriteString("\n")
		}
	}
	return b.String()
}
