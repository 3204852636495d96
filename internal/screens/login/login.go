// Package login is the sign-in screen.
package login

import (
	"context"
	"errors"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/mathapp/internal/learner"
	"github.com/abhisek/mathapp/internal/router"
	"github.com/abhisek/mathapp/internal/screen"
	"github.com/abhisek/mathapp/internal/ui/components"
	"github.com/abhisek/mathapp/internal/ui/layout"
	"github.com/abhisek/mathapp/internal/ui/theme"
)

// Authenticator signs the learner in.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (*learner.User, error)
	LoginAsGuest(ctx context.Context) (*learner.User, error)
}

// Focus targets, in Tab order.
const (
	focusEmail = iota
	focusPassword
	focusSignIn
	focusGuest
	focusCount
)

// loginDoneMsg carries the result of a sign-in attempt.
type loginDoneMsg struct {
	User *learner.User
	Err  error
}

// LoginScreen collects credentials. On success it replaces itself with
// the screen built by next.
type LoginScreen struct {
	auth     Authenticator
	next     func(*learner.User) screen.Screen
	email    components.TextInput
	password components.TextInput
	signIn   components.Button
	guest    components.Button
	focus    int
	busy     bool
	errMsg   string
}

var _ screen.Screen = (*LoginScreen)(nil)
var _ screen.KeyHintProvider = (*LoginScreen)(nil)

// New creates a LoginScreen.
func New(auth Authenticator, next func(*learner.User) screen.Screen) *LoginScreen {
	return &LoginScreen{
		auth:     auth,
		next:     next,
		email:    components.NewTextInput("Email", "you@example.com", false, 128),
		password: components.NewTextInput("Password", "password", true, 128),
		signIn:   components.NewButton("Sign in"),
		guest:    components.NewButton("Continue as guest"),
	}
}

func (s *LoginScreen) Init() tea.Cmd {
	return s.setFocus(focusEmail)
}

func (s *LoginScreen) Title() string {
	return "Sign in"
}

func (s *LoginScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Tab", Description: "Next field"},
		{Key: "Enter", Description: "Sign in"},
		{Key: "Ctrl+G", Description: "Guest"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (s *LoginScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case loginDoneMsg:
		s.busy = false
		if msg.Err != nil {
			s.errMsg = errorText(msg.Err)
			s.password.SetValue("")
			return s, s.setFocus(focusPassword)
		}
		next := s.next(msg.User)
		return s, func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }

	case tea.KeyPressMsg:
		if s.busy {
			return s, nil
		}
		switch msg.String() {
		case "tab", "down":
			return s, s.setFocus((s.focus + 1) % focusCount)
		case "shift+tab", "up":
			return s, s.setFocus((s.focus + focusCount - 1) % focusCount)
		case "ctrl+g":
			return s, s.loginAsGuest()
		case "enter":
			switch s.focus {
			case focusEmail:
				return s, s.setFocus(focusPassword)
			case focusGuest:
				return s, s.loginAsGuest()
			default:
				return s, s.submit()
			}
		}
	}

	var cmd tea.Cmd
	switch s.focus {
	case focusEmail:
		s.email, cmd = s.email.Update(msg)
	case focusPassword:
		s.password, cmd = s.password.Update(msg)
	}
	return s, cmd
}

func (s *LoginScreen) setFocus(f int) tea.Cmd {
	s.focus = f
	s.email.Blur()
	s.password.Blur()
	s.signIn.Focused = f == focusSignIn
	s.guest.Focused = f == focusGuest

	switch f {
	case focusEmail:
		return s.email.Focus()
	case focusPassword:
		return s.password.Focus()
	}
	return nil
}

func (s *LoginScreen) submit() tea.Cmd {
	email := strings.TrimSpace(s.email.Value())
	password := s.password.Value()
	if email == "" || password == "" {
		s.errMsg = "Please enter your email and password."
		return nil
	}

	s.busy = true
	s.errMsg = ""
	auth := s.auth
	return func() tea.Msg {
		u, err := auth.Login(context.Background(), email, password)
		return loginDoneMsg{User: u, Err: err}
	}
}

func (s *LoginScreen) loginAsGuest() tea.Cmd {
	s.busy = true
	s.errMsg = ""
	auth := s.auth
	return func() tea.Msg {
		u, err := auth.LoginAsGuest(context.Background())
		return loginDoneMsg{User: u, Err: err}
	}
}

func errorText(err error) string {
	if errors.Is(err, learner.ErrLoginFailed) {
		return "Invalid email or password."
	}
	return "Sign in failed: " + err.Error()
}

func (s *LoginScreen) View(width, height int) string {
	var b strings.Builder

	b.WriteString(theme.Title.Render("Welcome to Mathapp"))
	b.WriteString("\n")
	b.WriteString(theme.Subtitle.Render("Sign in to track your progress"))
	b.WriteString("\n\n")

	b.WriteString(s.email.View())
	b.WriteString("\n\n")
	b.WriteString(s.password.View())
	b.WriteString("\n\n")
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Center, s.signIn.View(), "  ", s.guest.View()))
	b.WriteString("\n\n")

	switch {
	case s.busy:
		b.WriteString(theme.Hint.Render("Signing in..."))
	case s.errMsg != "":
		b.WriteString(theme.Incorrect.Render(s.errMsg))
	default:
		b.WriteString(theme.Hint.Render("Demo: " + learner.OfflineDemoEmail + " / " + learner.OfflineDemoPassword))
	}

	card := theme.Card.Width(min(width-4, 56)).Render(b.String())
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, card)
}
