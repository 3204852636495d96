package app

import (
	"context"
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/mathapp/internal/learner"
	"github.com/abhisek/mathapp/internal/router"
	"github.com/abhisek/mathapp/internal/screen"
	"github.com/abhisek/mathapp/internal/screens/dashboard"
	"github.com/abhisek/mathapp/internal/screens/lesson"
	"github.com/abhisek/mathapp/internal/screens/login"
	"github.com/abhisek/mathapp/internal/screens/results"
	"github.com/abhisek/mathapp/internal/screens/welcome"
	"github.com/abhisek/mathapp/internal/session"
	"github.com/abhisek/mathapp/internal/ui/layout"
)

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	status layout.Status
	width  int
	height int
}

// screens builds every screen from one learner service.
type screens struct {
	svc *learner.Service
}

func (s screens) login() screen.Screen {
	return login.New(s.svc, func(*learner.User) screen.Screen { return s.dashboard() })
}

func (s screens) dashboard() screen.Screen {
	return dashboard.New(s.svc, dashboard.Factories{
		Lesson: s.lesson,
		Login:  s.login,
	})
}

func (s screens) lesson(lessonID string) screen.Screen {
	return lesson.New(s.svc, lessonID, func(sum *session.LessonSummary) screen.Screen {
		return results.New(sum, func() screen.Screen { return s.lesson(lessonID) })
	})
}

// start is the first screen after the splash: the dashboard when a saved
// session was restored, sign-in otherwise.
func (s screens) start() screen.Screen {
	if s.svc.User() != nil {
		return s.dashboard()
	}
	return s.login()
}

// newAppModel creates a new AppModel starting at the welcome screen.
func newAppModel(svc *learner.Service) AppModel {
	sc := screens{svc: svc}
	return AppModel{
		router: router.New(welcome.New(sc.start)),
	}
}

func (m AppModel) Init() tea.Cmd {
	if active := m.router.Active(); active != nil {
		return active.Init()
	}
	return nil
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case screen.StatusMsg:
		m.status = layout.Status{Name: msg.Name, XP: msg.XP, Offline: msg.Offline}
		return m, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
			return m, nil
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true
	v.SetContent(m.render())
	return v
}

// render draws the full frame for the current size.
func (m AppModel) render() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	if layout.IsTooSmall(m.width, m.height) {
		return layout.RenderMinSizeMessage(m.width, m.height)
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	header := layout.RenderHeader(title, m.status, m.width)

	var footerHints []layout.KeyHint
	if hp, ok := active.(screen.KeyHintProvider); ok {
		footerHints = hp.KeyHints()
	} else if m.router.Depth() > 1 {
		footerHints = []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	} else {
		footerHints = []layout.KeyHint{
			{Key: "any key", Description: "Continue"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}

	note := ""
	if fn, ok := active.(screen.FooterNoter); ok {
		note = fn.FooterNote()
	}
	footer := layout.RenderFooter(footerHints, note, m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := max(m.height-headerHeight-footerHeight, 0)

	content := m.router.View(m.width, contentHeight)
	return layout.RenderFrame(header, content, footer, m.width, m.height)
}

// Run restores any saved login and starts the Bubble Tea program.
func Run(ctx context.Context, svc *learner.Service) error {
	if _, err := svc.Restore(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Could not restore session:", err)
	}

	p := tea.NewProgram(newAppModel(svc), tea.WithContext(ctx))
	_, err := p.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
