package quiz

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/profiler/internal/assessment"
	"github.com/abhisek/profiler/internal/identity"
	"github.com/abhisek/profiler/internal/router"
	"github.com/abhisek/profiler/internal/screen"
	"github.com/abhisek/profiler/internal/screens/screentest"
)

type doneScreen struct {
	session assessment.Session
}

func (d *doneScreen) Init() tea.Cmd                           { return nil }
func (d *doneScreen) Update(tea.Msg) (screen.Screen, tea.Cmd) { return d, nil }
func (d *doneScreen) View(int, int) string                    { return "results" }
func (d *doneScreen) Title() string                           { return "Results" }

func newTestQuiz(t *testing.T) (*QuizScreen, **doneScreen) {
	t.Helper()
	h := screentest.Host(t)
	s := screentest.Registered(t, h, "jane@acme.io")
	var done *doneScreen
	q := New(h, s, identity.Registration{Email: "jane@acme.io", Profession: "Student"},
		func(s assessment.Session, _ identity.Registration) screen.Screen {
			done = &doneScreen{session: s}
			return done
		})
	return q, &done
}

func TestAnswerAllQuestions(t *testing.T) {
	q, done := newTestQuiz(t)
	total := q.host.Engine().Bank().Len()

	var cmd tea.Cmd
	for i := 0; i < total; i++ {
		if q.question.Index != i {
			t.Fatalf("question %d shown, want %d", q.question.Index, i)
		}
		_, cmd = q.Update(screentest.Key("1"))
		if i < total-1 && cmd != nil {
			t.Fatalf("answer %d returned a command", i)
		}
	}

	msg, ok := screentest.Run(cmd).(router.ReplaceScreenMsg)
	if !ok {
		t.Fatal("last answer did not replace the screen")
	}
	if msg.Screen != *done {
		t.Error("replacement is not the results screen")
	}
	if (*done).session.Stage != assessment.StageCompleted {
		t.Errorf("Stage = %v, want completed", (*done).session.Stage)
	}
	if len((*done).session.Answers) != total {
		t.Errorf("answers = %d, want %d", len((*done).session.Answers), total)
	}
}

func TestNavigateThenEnter(t *testing.T) {
	q, _ := newTestQuiz(t)
	first := q.question.Options[1]

	q.Update(screentest.Key("down"))
	q.Update(screentest.Key("enter"))

	if q.session.Answered() != 1 {
		t.Fatalf("Answered = %d, want 1", q.session.Answered())
	}
	if got := q.session.Answers[0]; got != first.Weights() {
		t.Errorf("answer weights = %+v, want %+v", got, first.Weights())
	}
}

func TestRejectedAnswerShowsError(t *testing.T) {
	q, _ := newTestQuiz(t)
	q.question.Index = 3

	q.Update(screentest.Key("1"))
	if q.errMsg == "" {
		t.Error("no error shown for out-of-order answer")
	}
	if q.session.Answered() != 0 {
		t.Errorf("Answered = %d, want 0", q.session.Answered())
	}
	if q.question.Index != 0 || q.choice.Submitted {
		t.Error("question not reloaded after rejection")
	}
}

func TestViewShowsProgressAndQuestion(t *testing.T) {
	q, _ := newTestQuiz(t)
	v := q.View(100, 30)
	if !strings.Contains(v, "Question 1 of 5") {
		t.Errorf("View missing progress caption:\n%s", v)
	}
	if !strings.Contains(v, q.question.Options[0].Text[:10]) {
		t.Error("View missing first option")
	}
	if q.Status() != "jane@acme.io" {
		t.Errorf("Status = %q", q.Status())
	}
	if hints := q.KeyHints(); hints[1].Key != "1-4" {
		t.Errorf("choose hint = %q, want 1-4", hints[1].Key)
	}
}

func TestNonKeyMessagesIgnored(t *testing.T) {
	q, _ := newTestQuiz(t)
	if _, cmd := q.Update(tea.WindowSizeMsg{Width: 80, Height: 24}); cmd != nil {
		t.Error("window size produced a command")
	}
}
