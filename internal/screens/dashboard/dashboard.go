// Package dashboard is the lesson list screen shown after sign-in.
package dashboard

import (
	"context"
	"fmt"
	"image/color"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	dash "github.com/abhisek/mathapp/internal/dashboard"
	"github.com/abhisek/mathapp/internal/learner"
	"github.com/abhisek/mathapp/internal/router"
	"github.com/abhisek/mathapp/internal/screen"
	"github.com/abhisek/mathapp/internal/ui/components"
	"github.com/abhisek/mathapp/internal/ui/layout"
	"github.com/abhisek/mathapp/internal/ui/theme"
)

// Source loads dashboard data and manages the signed-in learner.
type Source interface {
	User() *learner.User
	Dashboard(ctx context.Context) learner.DashboardView
	Logout(ctx context.Context) error
}

// Factories builds the screens the dashboard navigates to.
type Factories struct {
	Lesson func(lessonID string) screen.Screen
	Login  func() screen.Screen
}

type loadedMsg struct {
	View learner.DashboardView
}

type loggedOutMsg struct{}

// DashboardScreen lists lessons with the learner's progress.
type DashboardScreen struct {
	src      Source
	open     Factories
	view     *learner.DashboardView
	selected int
}

var _ screen.Screen = (*DashboardScreen)(nil)
var _ screen.KeyHintProvider = (*DashboardScreen)(nil)
var _ screen.Resumer = (*DashboardScreen)(nil)

// New creates a DashboardScreen.
func New(src Source, open Factories) *DashboardScreen {
	return &DashboardScreen{src: src, open: open}
}

func (s *DashboardScreen) Init() tea.Cmd {
	return s.load()
}

// Resume reloads after a lesson so new scores show up.
func (s *DashboardScreen) Resume() tea.Cmd {
	return s.load()
}

func (s *DashboardScreen) Title() string {
	return "Dashboard"
}

func (s *DashboardScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Start lesson"},
		{Key: "R", Description: "Refresh"},
		{Key: "L", Description: "Log out"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (s *DashboardScreen) load() tea.Cmd {
	src := s.src
	return func() tea.Msg {
		return loadedMsg{View: src.Dashboard(context.Background())}
	}
}

func (s *DashboardScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		v := msg.View
		s.view = &v
		if s.selected >= len(v.Lessons) {
			s.selected = max(len(v.Lessons)-1, 0)
		}
		return s, s.status()

	case loggedOutMsg:
		login := s.open.Login()
		return s, tea.Batch(
			func() tea.Msg { return screen.StatusMsg{} },
			func() tea.Msg { return router.ResetScreenMsg{Screen: login} },
		)

	case tea.KeyPressMsg:
		return s.handleKey(msg)
	}
	return s, nil
}

func (s *DashboardScreen) handleKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "r":
		return s, s.load()
	case "l":
		src := s.src
		return s, func() tea.Msg {
			_ = src.Logout(context.Background())
			return loggedOutMsg{}
		}
	}

	if s.view == nil || len(s.view.Lessons) == 0 {
		return s, nil
	}

	switch msg.String() {
	case "up", "k":
		if s.selected > 0 {
			s.selected--
		}
	case "down", "j":
		if s.selected < len(s.view.Lessons)-1 {
			s.selected++
		}
	case "enter":
		lesson := s.open.Lesson(s.view.Lessons[s.selected].ID)
		return s, func() tea.Msg { return router.PushScreenMsg{Screen: lesson} }
	}
	return s, nil
}

// status reports the learner and the XP total shown on the dashboard.
func (s *DashboardScreen) status() tea.Cmd {
	st := screen.StatusMsg{Offline: s.view.Source == learner.SourceMock}
	if u := s.src.User(); u != nil {
		st.Name = u.Name
	}
	for _, l := range s.view.Lessons {
		st.XP += l.ExpEarned
	}
	return func() tea.Msg { return st }
}

func (s *DashboardScreen) View(width, height int) string {
	if s.view == nil {
		return lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.TextDim).
			Render("\n\n\n  Loading lessons...")
	}

	var b strings.Builder
	name := "learner"
	if u := s.src.User(); u != nil && u.Name != "" {
		name = u.Name
	}
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).
		Render(fmt.Sprintf("  Welcome back, %s!", name)))
	b.WriteString("\n")
	if s.view.Source == learner.SourceMock {
		b.WriteString(theme.Hint.Render("  Server unavailable. Showing sample lessons."))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	st := s.view.Stats
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Render(
		fmt.Sprintf("  Lessons: %d    Completed: %d", st.LessonsAvailable, st.LessonsCompleted)))
	b.WriteString("\n  ")
	b.WriteString(components.NewProgressBar("Overall", st.OverallProgress, true, min(width-4, 60)).View())
	b.WriteString("\n\n")

	b.WriteString(lipgloss.NewStyle().Foreground(theme.Border).Render("  " + strings.Repeat("─", max(width-6, 0))))
	b.WriteString("\n")

	if len(s.view.Lessons) == 0 {
		b.WriteString(theme.Hint.Render("  No lessons yet."))
		return b.String()
	}
	for i, l := range s.view.Lessons {
		b.WriteString(renderLesson(l, i == s.selected, width))
		b.WriteString("\n")
	}
	return b.String()
}

func renderLesson(l dash.LessonSummary, selected bool, width int) string {
	prefix := "    "
	titleStyle := theme.Unselected
	if selected {
		prefix = "  ▸ "
		titleStyle = theme.Selected
	}

	title := titleStyle.Render(prefix + l.Title)
	tag := lipgloss.NewStyle().Foreground(difficultyColor(l.Difficulty)).Render(string(l.Difficulty))
	progress := lipgloss.NewStyle().Foreground(progressColor(l.Progress)).
		Render(fmt.Sprintf("%s  %d/%d", l.Progress, l.CompletedExercises, l.TotalExercises))

	line := title + "  " + tag
	gap := width - lipgloss.Width(line) - lipgloss.Width(progress) - 4
	if gap > 0 {
		line += strings.Repeat(" ", gap) + progress
	} else {
		line += "  " + progress
	}

	detail := l.Description
	if l.Score > 0 {
		detail += fmt.Sprintf("  ·  best %d%%  ·  %d XP", l.Score, l.ExpEarned)
	}
	return line + "\n" + theme.Hint.Render("      "+detail)
}

func difficultyColor(d dash.Difficulty) color.Color {
	switch d {
	case dash.Beginner:
		return theme.Success
	case dash.Advanced:
		return theme.Error
	default:
		return theme.Accent
	}
}

func progressColor(p dash.Progress) color.Color {
	switch p {
	case dash.Completed:
		return theme.Success
	case dash.InProgress:
		return theme.Secondary
	default:
		return theme.TextDim
	}
}
