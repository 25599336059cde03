// Package screentest builds the collaborators screen tests share: a host
// over a throwaway SQLite store and synthetic key presses.
package screentest

import (
	"context"
	"path/filepath"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/profiler/internal/assessment"
	"github.com/abhisek/profiler/internal/config"
	"github.com/abhisek/profiler/internal/host"
	"github.com/abhisek/profiler/internal/store"
)

// Host returns a host backed by a fresh SQLite database in t's temp dir.
func Host(t *testing.T) *host.Host {
	t.Helper()
	h, _ := HostWithStore(t)
	return h
}

// HostWithStore is Host that also returns the store, so a test can close
// it to provoke persistence failures.
func HostWithStore(t *testing.T) (*host.Host, *store.Store) {
	t.Helper()
	st, err := store.Open(context.Background(), config.StoreConfig{
		Driver: config.DriverSQLite,
		Path:   filepath.Join(t.TempDir(), "profiler.db"),
	})
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	bank, err := assessment.LoadQuestionBank()
	if err != nil {
		t.Fatalf("load bank: %v", err)
	}
	engine, err := assessment.NewEngine(bank)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return host.New(engine, st.Respondents(), st.Results(), host.Options{}), st
}

// Registered registers email with h and returns the started session.
func Registered(t *testing.T, h *host.Host, email string) assessment.Session {
	t.Helper()
	s, _, err := h.Register(context.Background(), assessment.NewSession(), email, "Data Analyst")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	return s
}

// Answer sets that land in a known quadrant of the built-in bank, one
// option index per question.
var (
	TechnicalExpertAnswers       = []int{0, 0, 0, 0, 0} // 0.90 / 0.26
	StorytellerAnswers           = []int{2, 1, 1, 2, 2} // 0.36 / 0.90
	StrategicCommunicatorAnswers = []int{1, 1, 1, 1, 1} // 0.54 / 0.80
)

// Completed registers email and answers question i with options[i].
func Completed(t *testing.T, h *host.Host, email string, options []int) assessment.Session {
	t.Helper()
	if len(options) != h.Engine().Bank().Len() {
		t.Fatalf("got %d options for %d questions", len(options), h.Engine().Bank().Len())
	}
	s := Registered(t, h, email)
	for i, option := range options {
		var err error
		if s, err = h.Answer(s, i, option); err != nil {
			t.Fatalf("answer %d: %v", i, err)
		}
	}
	return s
}

// Key builds a key press: "enter", "esc", "tab", "up", "down" or a single
// printable character.
func Key(k string) tea.KeyPressMsg {
	switch k {
	case "enter":
		return tea.KeyPressMsg{Code: tea.KeyEnter}
	case "esc":
		return tea.KeyPressMsg{Code: tea.KeyEscape}
	case "tab":
		return tea.KeyPressMsg{Code: tea.KeyTab}
	case "up":
		return tea.KeyPressMsg{Code: tea.KeyUp}
	case "down":
		return tea.KeyPressMsg{Code: tea.KeyDown}
	}
	r := []rune(k)[0]
	return tea.KeyPressMsg{Code: r, Text: k}
}

// Type sends each rune of text as a key press through update.
func Type(text string, update func(tea.Msg)) {
	for _, r := range text {
		update(tea.KeyPressMsg{Code: r, Text: string(r)})
	}
}

// Run executes cmd and returns its message, or nil for a nil command.
func Run(cmd tea.Cmd) tea.Msg {
	if cmd == nil {
		return nil
	}
	return cmd()
}
