package login

import (
	"context"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/mathapp/internal/learner"
	"github.com/abhisek/mathapp/internal/router"
	"github.com/abhisek/mathapp/internal/screen"
)

type stubScreen struct{}

func (s *stubScreen) Init() tea.Cmd                           { return nil }
func (s *stubScreen) Update(tea.Msg) (screen.Screen, tea.Cmd) { return s, nil }
func (s *stubScreen) View(int, int) string                    { return "dashboard" }
func (s *stubScreen) Title() string                           { return "Dashboard" }

type fakeAuth struct {
	email, password string
	guests          int
}

func (f *fakeAuth) Login(_ context.Context, email, password string) (*learner.User, error) {
	f.email, f.password = email, password
	if password != "secret" {
		return nil, learner.ErrLoginFailed
	}
	return &learner.User{ID: "u1", Email: email, Name: "Ada"}, nil
}

func (f *fakeAuth) LoginAsGuest(context.Context) (*learner.User, error) {
	f.guests++
	return &learner.User{ID: learner.GuestUserID, Guest: true}, nil
}

func newTestLogin() (*LoginScreen, *fakeAuth, **learner.User) {
	auth := &fakeAuth{}
	var got *learner.User
	s := New(auth, func(u *learner.User) screen.Screen {
		got = u
		return &stubScreen{}
	})
	s.Init()
	return s, auth, &got
}

func typeText(s *LoginScreen, text string) {
	for _, r := range text {
		s.Update(tea.KeyPressMsg{Code: r, Text: string(r)})
	}
}

func press(s *LoginScreen, code rune) tea.Cmd {
	_, cmd := s.Update(tea.KeyPressMsg{Code: code})
	return cmd
}

func TestLoginSuccessReplacesScreen(t *testing.T) {
	s, auth, got := newTestLogin()

	typeText(s, "ada@example.com")
	press(s, tea.KeyTab)
	typeText(s, "secret")
	cmd := press(s, tea.KeyEnter)
	if cmd == nil {
		t.Fatal("expected a login command")
	}
	if !s.busy {
		t.Error("expected busy while signing in")
	}

	_, cmd = s.Update(cmd())
	if auth.email != "ada@example.com" || auth.password != "secret" {
		t.Errorf("credentials = %q/%q", auth.email, auth.password)
	}
	if cmd == nil {
		t.Fatal("expected navigation after login")
	}
	if _, ok := cmd().(router.ReplaceScreenMsg); !ok {
		t.Fatal("expected ReplaceScreenMsg")
	}
	if *got == nil || (*got).ID != "u1" {
		t.Errorf("next screen built for %+v", *got)
	}
}

func TestLoginFailureShowsError(t *testing.T) {
	s, _, got := newTestLogin()

	typeText(s, "ada@example.com")
	press(s, tea.KeyTab)
	typeText(s, "wrong")
	cmd := press(s, tea.KeyEnter)
	s.Update(cmd())

	if s.errMsg != "Invalid email or password." {
		t.Errorf("errMsg = %q", s.errMsg)
	}
	if s.password.Value() != "" {
		t.Error("password should be cleared after a failed login")
	}
	if s.focus != focusPassword {
		t.Errorf("focus = %d, want password", s.focus)
	}
	if *got != nil {
		t.Error("next screen should not be built on failure")
	}
}

func TestLoginRequiresBothFields(t *testing.T) {
	s, _, _ := newTestLogin()

	press(s, tea.KeyTab)
	if cmd := press(s, tea.KeyEnter); cmd != nil {
		t.Error("empty form should not submit")
	}
	if s.errMsg == "" {
		t.Error("expected a validation message")
	}
}

func TestEnterOnEmailMovesToPassword(t *testing.T) {
	s, _, _ := newTestLogin()
	typeText(s, "ada@example.com")
	press(s, tea.KeyEnter)
	if s.focus != focusPassword {
		t.Errorf("focus = %d, want password", s.focus)
	}
}

func TestGuestShortcut(t *testing.T) {
	s, auth, got := newTestLogin()

	_, cmd := s.Update(tea.KeyPressMsg{Code: 'g', Mod: tea.ModCtrl})
	if cmd == nil {
		t.Fatal("expected guest login command")
	}
	s.Update(cmd())
	if auth.guests != 1 {
		t.Errorf("guest logins = %d, want 1", auth.guests)
	}
	if *got == nil || !(*got).Guest {
		t.Error("expected guest user")
	}
}

func TestFocusCycles(t *testing.T) {
	s, _, _ := newTestLogin()
	for range focusCount {
		press(s, tea.KeyTab)
	}
	if s.focus != focusEmail {
		t.Errorf("focus = %d, want wrap to email", s.focus)
	}
	s.Update(tea.KeyPressMsg{Code: tea.KeyTab, Mod: tea.ModShift})
	if s.focus != focusGuest {
		t.Errorf("focus = %d, want guest", s.focus)
	}
}

func TestViewShowsDemoHint(t *testing.T) {
	s, _, _ := newTestLogin()
	if v := s.View(80, 24); !contains(v, learner.OfflineDemoEmail) {
		t.Error("expected demo credentials hint")
	}
}

func contains(s, substr string) bool {
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			return true
		}
	}
	return false
}
