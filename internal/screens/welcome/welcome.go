// Package welcome is the splash screen shown at startup.
package welcome

import (
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/mathapp/internal/router"
	"github.com/abhisek/mathapp/internal/screen"
	"github.com/abhisek/mathapp/internal/ui/theme"
)

const (
	tickInterval = 150 * time.Millisecond
	revealAfter  = 600 * time.Millisecond
	totalDur     = 3 * time.Second
)

// symbols scroll across the top of the splash.
var symbols = []string{"+", "−", "×", "÷"}

type tickMsg time.Time

// WelcomeScreen shows the banner until a key is pressed, then replaces
// itself with the screen produced by next. next is called once.
type WelcomeScreen struct {
	next         func() screen.Screen
	elapsed      time.Duration
	tickCount    int
	transitioned bool
}

var _ screen.Screen = (*WelcomeScreen)(nil)

// New creates a WelcomeScreen.
func New(next func() screen.Screen) *WelcomeScreen {
	return &WelcomeScreen{next: next}
}

func (w *WelcomeScreen) Title() string {
	return ""
}

func (w *WelcomeScreen) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (w *WelcomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg.(type) {
	case tickMsg:
		if w.transitioned {
			return w, nil
		}
		if w.elapsed < totalDur {
			w.elapsed += tickInterval
		}
		w.tickCount++
		return w, tick()

	case tea.KeyPressMsg:
		return w, w.transition()
	}
	return w, nil
}

func (w *WelcomeScreen) transition() tea.Cmd {
	if w.transitioned {
		return nil
	}
	w.transitioned = true
	next := w.next()
	return func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: next}
	}
}

func (w *WelcomeScreen) View(width, height int) string {
	var sections []string

	var row strings.Builder
	for i := range 9 {
		sym := symbols[(i+w.tickCount)%len(symbols)]
		fg := theme.Secondary
		if i%2 == 0 {
			fg = theme.Accent
		}
		row.WriteString(lipgloss.NewStyle().Foreground(fg).Render(sym))
		row.WriteString("   ")
	}
	sections = append(sections, row.String())

	if w.elapsed >= revealAfter {
		sections = append(sections,
			RenderBanner(width),
			"",
			lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render("Practice makes progress!"),
		)
	}

	sections = append(sections, "",
		lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true).Render("press any key to continue"))

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, strings.Join(sections, "\n"))
}
