package components

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/mathapp/internal/ui/theme"
)

// optionLabels are the letters shown before each choice.
var optionLabels = []string{"A", "B", "C", "D"}

// MultiChoice renders a question with up to four lettered choices. The
// cursor moves with the arrow keys; a letter or Enter picks a choice.
type MultiChoice struct {
	Question string
	Options  []string
	Cursor   int

	// Chosen is the picked option index, or -1.
	Chosen int
}

// NewMultiChoice creates a multiple-choice selector with chosen pre-picked
// (-1 for none).
func NewMultiChoice(question string, options []string, chosen int) MultiChoice {
	cursor := 0
	if chosen >= 0 && chosen < len(options) {
		cursor = chosen
	} else {
		chosen = -1
	}
	return MultiChoice{
		Question: question,
		Options:  options,
		Cursor:   cursor,
		Chosen:   chosen,
	}
}

// Update handles keyboard navigation and selection. The returned bool is
// true when the pick changed.
func (m MultiChoice) Update(msg tea.Msg) (MultiChoice, bool) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, false
	}

	key := kmsg.String()
	switch key {
	case "up", "k":
		if m.Cursor > 0 {
			m.Cursor--
		}
		return m, false
	case "down", "j":
		if m.Cursor < len(m.Options)-1 {
			m.Cursor++
		}
		return m, false
	case "enter":
		return m.pick(m.Cursor)
	}

	if idx := LetterIndex(key); idx >= 0 {
		return m.pick(idx)
	}
	return m, false
}

func (m MultiChoice) pick(idx int) (MultiChoice, bool) {
	if idx < 0 || idx >= len(m.Options) {
		return m, false
	}
	m.Cursor = idx
	if m.Chosen == idx {
		return m, false
	}
	m.Chosen = idx
	return m, true
}

// LetterIndex maps "a".."d" (either case) to 0..3, or -1.
func LetterIndex(key string) int {
	if len(key) != 1 {
		return -1
	}
	for i, l := range optionLabels {
		if strings.EqualFold(key, l) {
			return i
		}
	}
	return -1
}

// View renders the question and its choices.
func (m MultiChoice) View() string {
	questionStyle := lipgloss.NewStyle().Foreground(theme.Text).Bold(true)
	s := questionStyle.Render(m.Question) + "\n\n"

	for i, opt := range m.Options {
		if i >= len(optionLabels) {
			break
		}
		prefix := "  "
		if i == m.Cursor {
			prefix = "▸ "
		}
		mark := " "
		if i == m.Chosen {
			mark = "●"
		}
		line := fmt.Sprintf("%s%s) %s %s", prefix, optionLabels[i], mark, opt)

		switch {
		case i == m.Chosen:
			s += theme.Selected.Render(line) + "\n"
		case i == m.Cursor:
			s += lipgloss.NewStyle().Foreground(theme.Secondary).Render(line) + "\n"
		default:
			s += theme.Unselected.Render(line) + "\n"
		}
	}

	return s
}
