// Package lesson is the screen where a learner works through a lesson.
package lesson

import (
	"context"
	"fmt"
	"image/color"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/mathapp/internal/learner"
	"github.com/abhisek/mathapp/internal/router"
	"github.com/abhisek/mathapp/internal/screen"
	sess "github.com/abhisek/mathapp/internal/session"
	"github.com/abhisek/mathapp/internal/ui/components"
	"github.com/abhisek/mathapp/internal/ui/layout"
	"github.com/abhisek/mathapp/internal/ui/theme"
)

// Runner loads, starts and grades lessons.
type Runner interface {
	Lesson(ctx context.Context, lessonID string) learner.LessonView
	Start(view learner.LessonView) *sess.LessonState
	Submit(ctx context.Context, state *sess.LessonState, offline bool) learner.Outcome
}

type lessonLoadedMsg struct {
	View learner.LessonView
}

type timerTickMsg time.Time

type submittedMsg struct {
	Outcome learner.Outcome
}

// LessonScreen shows one problem at a time and submits all answers at once.
type LessonScreen struct {
	runner     Runner
	lessonID   string
	results    func(*sess.LessonSummary) screen.Screen
	now        func() time.Time
	view       learner.LessonView
	state      *sess.LessonState
	choice     components.MultiChoice
	submitting bool
}

var _ screen.Screen = (*LessonScreen)(nil)
var _ screen.KeyHintProvider = (*LessonScreen)(nil)
var _ screen.FooterNoter = (*LessonScreen)(nil)

// New creates a LessonScreen for lessonID. results builds the screen shown
// after grading.
func New(runner Runner, lessonID string, results func(*sess.LessonSummary) screen.Screen) *LessonScreen {
	return &LessonScreen{
		runner:   runner,
		lessonID: lessonID,
		results:  results,
		now:      time.Now,
	}
}

func (s *LessonScreen) Init() tea.Cmd {
	runner, id := s.runner, s.lessonID
	return func() tea.Msg {
		return lessonLoadedMsg{View: runner.Lesson(context.Background(), id)}
	}
}

func (s *LessonScreen) Title() string {
	if s.state == nil {
		return "Lesson"
	}
	return s.state.Lesson.Title
}

func (s *LessonScreen) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{
		{Key: "A-D", Description: "Answer"},
		{Key: "←→", Description: "Prev/Next"},
	}
	if s.state != nil && s.state.AllAnswered() {
		hints = append(hints, layout.KeyHint{Key: "S", Description: "Submit"})
	}
	return append(hints, layout.KeyHint{Key: "Esc", Description: "Exit"})
}

// FooterNote reports how many problems have an answer.
func (s *LessonScreen) FooterNote() string {
	if s.state == nil {
		return ""
	}
	return fmt.Sprintf("%d/%d answered", s.state.AnsweredCount(), len(s.state.Lesson.Problems))
}

func (s *LessonScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case lessonLoadedMsg:
		s.view = msg.View
		s.state = s.runner.Start(msg.View)
		s.syncChoice()
		return s, tickCmd()

	case timerTickMsg:
		if s.state == nil || s.submitting {
			return s, nil
		}
		s.state.Elapsed = time.Time(msg).Sub(s.state.StartTime)
		return s, tickCmd()

	case submittedMsg:
		summary := sess.BuildSummary(s.state, msg.Outcome.Result, msg.Outcome.Offline)
		next := s.results(summary)
		return s, func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }

	case tea.KeyPressMsg:
		return s.handleKey(msg)
	}
	return s, nil
}

func (s *LessonScreen) handleKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	if s.state == nil || s.submitting {
		return s, nil
	}

	switch msg.String() {
	case "left", "h":
		if s.state.Prev() {
			s.syncChoice()
		}
		return s, nil
	case "right", "l":
		if s.state.Next() {
			s.syncChoice()
		}
		return s, nil
	case "s", "S":
		if s.state.AllAnswered() {
			return s, s.submit()
		}
		return s, nil
	}

	var changed bool
	s.choice, changed = s.choice.Update(msg)
	if changed {
		s.state.Select(s.choice.Chosen)
	}
	return s, nil
}

// syncChoice rebuilds the selector for the problem on screen.
func (s *LessonScreen) syncChoice() {
	p := s.state.CurrentProblem()
	if p == nil {
		s.choice = components.MultiChoice{Chosen: -1}
		return
	}
	opts := make([]string, len(p.Options))
	for i, o := range p.Options {
		opts[i] = o.Text
	}
	s.choice = components.NewMultiChoice(p.Question, opts, s.state.SelectedIndex())
}

func (s *LessonScreen) submit() tea.Cmd {
	s.submitting = true
	s.state.Elapsed = s.now().Sub(s.state.StartTime)
	runner, state, offline := s.runner, s.state, s.view.Offline()
	return func() tea.Msg {
		return submittedMsg{Outcome: runner.Submit(context.Background(), state, offline)}
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return timerTickMsg(t)
	})
}

func (s *LessonScreen) View(width, height int) string {
	if s.state == nil {
		return renderNotice(width, "Loading lesson...", theme.TextDim)
	}
	if len(s.state.Lesson.Problems) == 0 {
		return renderNotice(width, "This lesson has no problems. Press Esc to go back.", theme.Error)
	}

	var b strings.Builder

	left := lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).
		Render(fmt.Sprintf("  Problem %d of %d", s.state.Current+1, len(s.state.Lesson.Problems)))
	right := lipgloss.NewStyle().Foreground(theme.TextDim).
		Render(fmt.Sprintf("Answered %d/%d  %s %s",
			s.state.AnsweredCount(),
			len(s.state.Lesson.Problems),
			lipgloss.NewStyle().Foreground(theme.Accent).Render("T"),
			formatDuration(s.state.Elapsed)))
	info := left
	if pad := width - lipgloss.Width(left) - lipgloss.Width(right) - 4; pad > 0 {
		info += strings.Repeat(" ", pad) + right
	}
	b.WriteString(info)
	b.WriteString("\n")
	if s.view.Offline() {
		b.WriteString(theme.Hint.Render("  Offline practice. Answers are graded on this device."))
		b.WriteString("\n")
	}
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Border).Render("  " + strings.Repeat("─", max(width-6, 0))))
	b.WriteString("\n\n")

	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, s.choice.View()))
	b.WriteString("\n")

	var footer string
	switch {
	case s.submitting:
		footer = "Grading your answers..."
	case s.state.AllAnswered():
		footer = "All problems answered. Press S to submit."
	default:
		footer = "Press A-D to answer, ← → to move between problems."
	}
	b.WriteString(lipgloss.NewStyle().Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Render(footer))

	return b.String()
}

func renderNotice(width int, text string, fg color.Color) string {
	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(fg).
		Render("\n\n\n  " + text)
}

// formatDuration renders d as m:ss.
func formatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	return fmt.Sprintf("%d:%02d", int(d.Minutes()), int(d.Seconds())%60)
}
