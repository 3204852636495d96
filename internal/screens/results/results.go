// Package results shows a graded lesson.
package results

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/mathapp/internal/router"
	"github.com/abhisek/mathapp/internal/screen"
	"github.com/abhisek/mathapp/internal/session"
	"github.com/abhisek/mathapp/internal/ui/components"
	"github.com/abhisek/mathapp/internal/ui/layout"
	"github.com/abhisek/mathapp/internal/ui/theme"
)

// ResultsScreen displays the score, time and XP for a finished lesson.
type ResultsScreen struct {
	summary *session.LessonSummary
	menu    components.Menu
}

var _ screen.Screen = (*ResultsScreen)(nil)
var _ screen.KeyHintProvider = (*ResultsScreen)(nil)

// New creates a ResultsScreen. retry builds a fresh attempt at the same
// lesson.
func New(summary *session.LessonSummary, retry func() screen.Screen) *ResultsScreen {
	return &ResultsScreen{
		summary: summary,
		menu: components.NewMenu([]components.MenuItem{
			{
				Label: "Back to Dashboard",
				Action: func() tea.Cmd {
					return func() tea.Msg { return router.PopScreenMsg{} }
				},
			},
			{
				Label: "Try Again",
				Action: func() tea.Cmd {
					next := retry()
					return func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }
				},
			},
		}),
	}
}

func (s *ResultsScreen) Init() tea.Cmd {
	return nil
}

func (s *ResultsScreen) Title() string {
	return "Results"
}

func (s *ResultsScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Esc", Description: "Dashboard"},
	}
}

func (s *ResultsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	s.menu, cmd = s.menu.Update(msg)
	return s, cmd
}

func (s *ResultsScreen) View(width, height int) string {
	sum := s.summary
	if sum == nil {
		return ""
	}

	center := func(st lipgloss.Style, text string) string {
		return st.Width(width).Align(lipgloss.Center).Render(text)
	}

	var b strings.Builder

	headline, color := "Keep practicing!", theme.Accent
	if sum.Passed {
		headline, color = "Lesson Complete!", theme.Success
	}
	b.WriteString(center(lipgloss.NewStyle().Foreground(color).Bold(true), headline))
	b.WriteString("\n")
	b.WriteString(center(lipgloss.NewStyle().Foreground(theme.Text), sum.LessonTitle))
	b.WriteString("\n\n")

	mins := int(sum.Duration.Minutes())
	secs := int(sum.Duration.Seconds()) % 60
	stats := fmt.Sprintf("Score: %d%%        Time: %d:%02d        XP: +%d",
		sum.Result.Score, mins, secs, sum.Result.XPEarned)
	b.WriteString(center(lipgloss.NewStyle().Foreground(theme.Text).Bold(true), stats))
	b.WriteString("\n")
	b.WriteString(center(lipgloss.NewStyle().Foreground(theme.TextDim),
		fmt.Sprintf("%d of %d correct (%.0f%%)", sum.Result.CorrectCount, sum.TotalQuestions, sum.Accuracy()*100)))
	b.WriteString("\n")
	if sum.Offline {
		b.WriteString(center(theme.Hint, "Graded offline. Your score will not appear on the server."))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	divider := lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", min(width-8, 60)))
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, divider))
	b.WriteString("\n")

	for i, r := range sum.Result.Results {
		var line string
		if r.IsCorrect {
			line = theme.Correct.Render(fmt.Sprintf("✓ %2d. %s", i+1, r.SelectedAnswer))
		} else {
			line = theme.Incorrect.Render(fmt.Sprintf("✗ %2d. %s", i+1, r.SelectedAnswer)) +
				lipgloss.NewStyle().Foreground(theme.TextDim).Render("  correct: "+r.CorrectAnswer)
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, line))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, s.menu.View()))

	return b.String()
}
