package results

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/abhisek/profiler/internal/assessment"
	"github.com/abhisek/profiler/internal/identity"
	"github.com/abhisek/profiler/internal/router"
	"github.com/abhisek/profiler/internal/screen"
	"github.com/abhisek/profiler/internal/screens/screentest"
)

type stubScreen struct{ name string }

func (s *stubScreen) Init() tea.Cmd                           { return nil }
func (s *stubScreen) Update(tea.Msg) (screen.Screen, tea.Cmd) { return s, nil }
func (s *stubScreen) View(int, int) string                    { return s.name }
func (s *stubScreen) Title() string                           { return s.name }

var jane = identity.Registration{Email: "jane@acme.io", Profession: "Data Analyst"}

type calls struct {
	retakeWith identity.Registration
	historyFor int64
}

func testOptions(c *calls) Options {
	return Options{
		Retake: func(prev identity.Registration) screen.Screen {
			c.retakeWith = prev
			return &stubScreen{name: "register"}
		},
		History: func(id int64) screen.Screen {
			c.historyFor = id
			return &stubScreen{name: "history"}
		},
	}
}

// loaded runs Init and the plan request the way the program would.
func loaded(t *testing.T, r *ResultsScreen) {
	t.Helper()
	_, cmd := r.Update(screentest.Run(r.Init()))
	if cmd == nil {
		t.Fatal("no plan request after finishing")
	}
	r.Update(screentest.Run(cmd))
}

func TestFinishAndRender(t *testing.T) {
	h := screentest.Host(t)
	s := screentest.Completed(t, h, "jane@acme.io", screentest.TechnicalExpertAnswers)
	r := New(h, s, jane, testOptions(&calls{}))

	if !strings.Contains(r.View(120, 40), "Scoring") {
		t.Error("loading view missing before Init completes")
	}
	loaded(t, r)

	if !r.saved || r.outcome == nil || r.outcome.ResultID == 0 {
		t.Fatalf("saved = %v outcome = %+v", r.saved, r.outcome)
	}
	if r.outcome.Profile != assessment.ProfileTechnicalExpert {
		t.Errorf("Profile = %v, want technical expert", r.outcome.Profile)
	}
	if r.plan == nil || len(r.plan.FocusAreas) == 0 {
		t.Fatalf("plan = %+v", r.plan)
	}

	for _, width := range []int{90, 140} {
		c := ansi.Strip(r.content(width))
		for _, want := range []string{
			"You are a Technical Expert!",
			"Your strengths",
			"Growth opportunities",
			"Your development plan",
			r.plan.FocusAreas[0].Title,
			"Next steps",
			"Book a consultation",
			assessment.DefaultConsultationURL,
			"Your Position",
		} {
			if !strings.Contains(c, want) {
				t.Errorf("content(%d) missing %q", width, want)
			}
		}
	}
	if r.View(120, 40) == "" {
		t.Error("empty view")
	}
}

func TestPersistenceFailureCanRetry(t *testing.T) {
	h, st := screentest.HostWithStore(t)
	s := screentest.Completed(t, h, "jane@acme.io", screentest.StorytellerAnswers)
	r := New(h, s, jane, testOptions(&calls{}))

	st.Close()
	_, cmd := r.Update(screentest.Run(r.Init()))
	if r.outcome == nil {
		t.Fatal("outcome dropped on save failure")
	}
	if r.saved {
		t.Error("saved after failure")
	}
	if !strings.Contains(r.errMsg, "save result") {
		t.Errorf("errMsg = %q", r.errMsg)
	}
	if cmd == nil {
		t.Error("plan not requested after save failure")
	}
	if r.outcome.Profile != assessment.ProfileStoryteller {
		t.Errorf("Profile = %v, want storyteller", r.outcome.Profile)
	}

	_, retry := r.Update(screentest.Key("s"))
	if retry == nil {
		t.Fatal("s did not retry the save")
	}
	if _, again := r.Update(screentest.Run(retry)); again != nil {
		t.Error("retry requested the plan again")
	}
}

func TestIncompleteSessionIsFatal(t *testing.T) {
	h := screentest.Host(t)
	s := screentest.Registered(t, h, "jane@acme.io")
	r := New(h, s, jane, testOptions(&calls{}))

	r.Update(screentest.Run(r.Init()))
	if !r.fatal || r.outcome != nil {
		t.Errorf("fatal = %v outcome = %v", r.fatal, r.outcome)
	}
	if !strings.Contains(r.View(100, 30), "result requested after 0 of 5 answers") {
		t.Errorf("View = %q", r.View(100, 30))
	}
}

func TestRetakeAndHistoryKeys(t *testing.T) {
	h := screentest.Host(t)
	s := screentest.Completed(t, h, "jane@acme.io", screentest.StrategicCommunicatorAnswers)
	c := &calls{}
	r := New(h, s, jane, testOptions(c))

	if _, cmd := r.Update(screentest.Key("h")); cmd != nil {
		if _, ok := cmd().(router.PushScreenMsg); ok {
			t.Error("history opened before the result was saved")
		}
	}
	loaded(t, r)

	_, cmd := r.Update(screentest.Key("h"))
	if _, ok := screentest.Run(cmd).(router.PushScreenMsg); !ok {
		t.Fatal("h did not push history")
	}
	if c.historyFor != s.RespondentID {
		t.Errorf("history for %d, want %d", c.historyFor, s.RespondentID)
	}

	_, cmd = r.Update(screentest.Key("r"))
	if _, ok := screentest.Run(cmd).(router.ResetScreenMsg); !ok {
		t.Fatal("r did not reset to registration")
	}
	if c.retakeWith != jane {
		t.Errorf("retake with %+v, want %+v", c.retakeWith, jane)
	}
	if r.session.Stage != assessment.StageRegistering {
		t.Errorf("Stage = %v, want registering", r.session.Stage)
	}
}

func TestKeyHints(t *testing.T) {
	h := screentest.Host(t)
	s := screentest.Completed(t, h, "jane@acme.io", screentest.TechnicalExpertAnswers)
	r := New(h, s, jane, testOptions(&calls{}))
	loaded(t, r)

	var keys []string
	for _, k := range r.KeyHints() {
		keys = append(keys, k.Key)
	}
	if got := strings.Join(keys, " "); got != "↑↓ h r q" {
		t.Errorf("hints = %q", got)
	}
	if r.Status() != "jane@acme.io" {
		t.Errorf("Status = %q", r.Status())
	}
}

func TestQuit(t *testing.T) {
	h := screentest.Host(t)
	r := New(h, screentest.Completed(t, h, "jane@acme.io", screentest.TechnicalExpertAnswers), jane, Options{})
	_, cmd := r.Update(screentest.Key("q"))
	if _, ok := screentest.Run(cmd).(tea.QuitMsg); !ok {
		t.Error("q did not quit")
	}
}
