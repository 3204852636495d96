package results

import (
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/mathapp/internal/router"
	"github.com/abhisek/mathapp/internal/screen"
	"github.com/abhisek/mathapp/internal/session"
)

type stubScreen struct{}

func (s *stubScreen) Init() tea.Cmd                           { return nil }
func (s *stubScreen) Update(tea.Msg) (screen.Screen, tea.Cmd) { return s, nil }
func (s *stubScreen) View(int, int) string                    { return "lesson" }
func (s *stubScreen) Title() string                           { return "Lesson" }

func testSummary(passed bool) *session.LessonSummary {
	return &session.LessonSummary{
		LessonTitle:    "Basic Arithmetic",
		Duration:       95 * time.Second,
		TotalQuestions: 2,
		Passed:         passed,
		Result: session.SubmissionResult{
			Score:        50,
			CorrectCount: 1,
			XPEarned:     150,
			Results: []session.ProblemResult{
				{ProblemID: "p1", IsCorrect: true, CorrectAnswer: "4", SelectedAnswer: "4"},
				{ProblemID: "p2", IsCorrect: false, CorrectAnswer: "7", SelectedAnswer: session.NoAnswer},
			},
		},
	}
}

func TestResultsScreen_Title(t *testing.T) {
	s := New(testSummary(false), nil)
	if s.Title() != "Results" {
		t.Errorf("Title = %q, want %q", s.Title(), "Results")
	}
}

func TestResultsScreen_Display(t *testing.T) {
	view := New(testSummary(false), nil).View(80, 24)
	for _, want := range []string{"Keep practicing!", "Score: 50%", "Time: 1:35", "XP: +150", "correct: 7"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}

	if view := New(testSummary(true), nil).View(80, 24); !strings.Contains(view, "Lesson Complete!") {
		t.Error("passed lesson should show completion headline")
	}
}

func TestResultsScreen_EnterGoesBack(t *testing.T) {
	s := New(testSummary(true), nil)
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected a command on Enter")
	}
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Error("expected PopScreenMsg")
	}
}

func TestResultsScreen_TryAgain(t *testing.T) {
	retries := 0
	s := New(testSummary(true), func() screen.Screen {
		retries++
		return &stubScreen{}
	})
	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected a command on Try Again")
	}
	if _, ok := cmd().(router.ReplaceScreenMsg); !ok {
		t.Error("expected ReplaceScreenMsg")
	}
	if retries != 1 {
		t.Errorf("retry factory called %d times, want 1", retries)
	}
}

func TestResultsScreen_KeyHints(t *testing.T) {
	if hints := New(testSummary(true), nil).KeyHints(); len(hints) != 3 {
		t.Errorf("KeyHints length = %d, want 3", len(hints))
	}
}
