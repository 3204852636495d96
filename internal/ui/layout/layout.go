package layout

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/mathapp/internal/ui/theme"
)

// Smallest terminal the lesson screens fit in.
const (
	MinWidth  = 80
	MinHeight = 24
)

// KeyHint is one key binding shown in the footer.
type KeyHint struct {
	Key         string
	Description string
}

// Status is the learner state shown on the right of the header.
type Status struct {
	Name    string
	XP      int
	Offline bool
}

// IsTooSmall reports whether the terminal is below MinWidth x MinHeight.
func IsTooSmall(width, height int) bool {
	return width < MinWidth || height < MinHeight
}

// RenderMinSizeMessage asks the learner to enlarge the terminal.
func RenderMinSizeMessage(width, height int) string {
	body := lipgloss.JoinVertical(lipgloss.Center,
		lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render("Mathapp needs a bigger window"),
		"",
		lipgloss.NewStyle().Foreground(theme.Text).Render(fmt.Sprintf("at least %d x %d", MinWidth, MinHeight)),
		lipgloss.NewStyle().Foreground(theme.TextDim).Render(fmt.Sprintf("now %d x %d", width, height)),
	)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, body)
}

// RenderHeader draws the brand, the screen title and the learner status.
func RenderHeader(title string, st Status, width int) string {
	brand := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render("Mathapp")
	center := lipgloss.NewStyle().Foreground(theme.Text).Render(title)
	return bar(spread(brand, center, statusLine(st), width-4), width)
}

// statusLine joins the non-empty status segments; XP is always shown.
func statusLine(st Status) string {
	var segs []string
	if st.Offline {
		segs = append(segs, lipgloss.NewStyle().Foreground(theme.Error).Render("offline"))
	}
	if st.Name != "" {
		segs = append(segs, lipgloss.NewStyle().Foreground(theme.Text).Render(st.Name))
	}
	segs = append(segs, lipgloss.NewStyle().Foreground(theme.Accent).Render(fmt.Sprintf("★ %d XP", st.XP)))
	return strings.Join(segs, separator())
}

// RenderFooter draws key hints on the left and an optional note, such as
// lesson progress, on the right.
func RenderFooter(hints []KeyHint, note string, width int) string {
	parts := make([]string, len(hints))
	for i, h := range hints {
		parts[i] = lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(h.Key) + " " +
			lipgloss.NewStyle().Foreground(theme.TextDim).Render(h.Description)
	}
	right := ""
	if note != "" {
		right = lipgloss.NewStyle().Foreground(theme.Secondary).Render(note)
	}
	return bar(spread(strings.Join(parts, separator()), "", right, width-4), width)
}

// RenderFrame stacks header, content and footer, clipping or padding the
// content to the height left between them.
func RenderFrame(header, content, footer string, width, height int) string {
	bodyHeight := max(height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	body := lipgloss.NewStyle().
		Width(width).
		Height(bodyHeight).
		MaxHeight(bodyHeight).
		Render(content)
	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}

func separator() string {
	return lipgloss.NewStyle().Foreground(theme.Border).Render(" · ")
}

// bar frames one line of content across the full width.
func bar(content string, width int) string {
	return lipgloss.NewStyle().
		Width(width).
		Background(theme.BgCard).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Padding(0, 1).
		Render(content)
}

// spread lays left, center and right across width. center sits in the
// middle when there is room and otherwise follows left; every gap is at
// least one cell.
func spread(left, center, right string, width int) string {
	lw, cw, rw := lipgloss.Width(left), lipgloss.Width(center), lipgloss.Width(right)

	leftGap := max((width-cw)/2-lw, 1)
	if cw == 0 {
		leftGap = 0
	}
	rightGap := max(width-lw-leftGap-cw-rw, 1)

	return left + strings.Repeat(" ", leftGap) + center + strings.Repeat(" ", rightGap) + right
}
