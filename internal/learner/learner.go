// Package learner is the client-side application layer: it decides, call by
// call, whether to use the server or fall back to local data.
package learner

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/mathapp/internal/client"
	"github.com/abhisek/mathapp/internal/dashboard"
	"github.com/abhisek/mathapp/internal/lessons"
	"github.com/abhisek/mathapp/internal/logger"
	"github.com/abhisek/mathapp/internal/session"
	"github.com/abhisek/mathapp/internal/store"
)

// ErrLoginFailed is returned when neither the server nor the offline demo
// pair accepts the credentials.
var ErrLoginFailed = errors.New("invalid email or password")

// Offline demo account, accepted when the server rejects or cannot be reached.
const (
	OfflineDemoEmail    = "demo@example.com"
	OfflineDemoPassword = "password"
	OfflineDemoUserID   = "demo-1"

	GuestUserID = "guest"
	guestEmail  = "guest@mathapp.com"
)

// Remote is the subset of the API client the service depends on.
type Remote interface {
	Login(ctx context.Context, email, password string) client.Result[client.Login]
	Lessons(ctx context.Context, userID string) client.Result[client.Dashboard]
	Dashboard(ctx context.Context) client.Result[client.Dashboard]
	LessonDetail(ctx context.Context, lessonID string) client.Result[client.LessonDetail]
	Submit(ctx context.Context, submissionID string, req client.SubmitRequest) client.Result[session.SubmissionResult]
	UpdateProgress(ctx context.Context, lessonID string, completed int) client.Result[struct{}]
	SetToken(token string)
}

// User is the signed-in learner.
type User struct {
	ID    string
	Name  string
	Email string
	Token string

	// Guest and offline users have no server token.
	Guest bool
}

// Source says where a piece of data came from.
type Source string

const (
	SourceRemote    Source = "remote"
	SourceDashboard Source = "remote-dashboard"
	SourceLocal     Source = "local"
	SourceMock      Source = "mock"
)

// DashboardView is dashboard data plus its provenance.
type DashboardView struct {
	client.Dashboard
	Source Source
}

// LessonView is a lesson ready to take.
type LessonView struct {
	Detail client.LessonDetail
	Source Source
}

// Offline reports whether the lesson was assembled locally.
func (v LessonView) Offline() bool { return v.Source == SourceLocal }

// Outcome is a graded lesson attempt.
type Outcome struct {
	Result session.SubmissionResult

	// Offline is true when the attempt was graded locally.
	Offline bool

	// ProgressErr holds the progress-sync failure, if any. It never fails
	// the submission.
	ProgressErr error
}

// Service applies the fallback policy around the API client.
type Service struct {
	remote    Remote
	assembler *lessons.Assembler
	sessions  store.SessionRepo
	log       *logger.Logger
	now       func() time.Time

	mu   sync.RWMutex
	user *User
}

// NewService creates a learner service. sessions may be nil, in which case
// logins are not persisted.
func NewService(remote Remote, assembler *lessons.Assembler, sessions store.SessionRepo, log *logger.Logger) *Service {
	return &Service{
		remote:    remote,
		assembler: assembler,
		sessions:  sessions,
		log:       log.With("component", "learner"),
		now:       time.Now,
	}
}

// User returns the signed-in learner, or nil.
func (s *Service) User() *User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// Restore signs back in from the saved session. It returns nil when no
// session was saved.
func (s *Service) Restore(ctx context.Context) (*User, error) {
	if s.sessions == nil {
		return nil, nil
	}
	saved, err := s.sessions.Load(ctx)
	if err != nil || saved == nil {
		return nil, err
	}
	u := &User{ID: saved.UserID, Name: saved.Name, Email: saved.Email, Token: saved.Token, Guest: saved.Guest}
	s.setUser(u)
	return u, nil
}

// Login signs in remotely, falling back to the offline demo pair.
func (s *Service) Login(ctx context.Context, email, password string) (*User, error) {
	res := s.remote.Login(ctx, email, password)
	if res.Ok() {
		l := res.Value()
		u := &User{ID: l.User.ID, Name: l.User.Name, Email: l.User.Email, Token: l.Token}
		return u, s.signIn(ctx, u)
	}

	s.log.Warn("remote login failed", "email", email, "error", res.Err())
	if email == OfflineDemoEmail && password == OfflineDemoPassword {
		u := &User{ID: OfflineDemoUserID, Name: "Demo User", Email: email}
		return u, s.signIn(ctx, u)
	}
	return nil, ErrLoginFailed
}

// LoginAsGuest signs in without credentials.
func (s *Service) LoginAsGuest(ctx context.Context) (*User, error) {
	u := &User{ID: GuestUserID, Name: "Guest User", Email: guestEmail, Guest: true}
	return u, s.signIn(ctx, u)
}

// Logout forgets the learner and the saved session.
func (s *Service) Logout(ctx context.Context) error {
	s.setUser(nil)
	if s.sessions == nil {
		return nil
	}
	if err := s.sessions.Clear(ctx); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

func (s *Service) signIn(ctx context.Context, u *User) error {
	s.setUser(u)
	if s.sessions == nil {
		return nil
	}
	err := s.sessions.Save(ctx, store.SavedSession{
		UserID:  u.ID,
		Name:    u.Name,
		Email:   u.Email,
		Token:   u.Token,
		Guest:   u.Guest,
		SavedAt: s.now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (s *Service) setUser(u *User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = u
	if u == nil {
		s.remote.SetToken("")
		return
	}
	s.remote.SetToken(u.Token)
}

func (s *Service) userID() string {
	if u := s.User(); u != nil {
		return u.ID
	}
	return ""
}

// Dashboard tries the lesson list, then the server dashboard, then the
// built-in mock data.
func (s *Service) Dashboard(ctx context.Context) DashboardView {
	res := s.remote.Lessons(ctx, s.userID())
	if res.Ok() {
		return DashboardView{Dashboard: res.Value(), Source: SourceRemote}
	}
	s.log.Warn("lessons unavailable, trying dashboard", "error", res.Err())

	res = s.remote.Dashboard(ctx)
	if res.Ok() {
		return DashboardView{Dashboard: res.Value(), Source: SourceDashboard}
	}
	s.log.Warn("dashboard unavailable, using mock data", "error", res.Err())

	mock := dashboard.MockLessons()
	return DashboardView{
		Dashboard: client.Dashboard{Stats: dashboard.Aggregate(mock), Lessons: mock},
		Source:    SourceMock,
	}
}

// Lesson fetches a lesson, assembling one locally when the server cannot
// provide it. Unknown IDs assemble the default lesson.
func (s *Service) Lesson(ctx context.Context, lessonID string) LessonView {
	res := s.remote.LessonDetail(ctx, lessonID)
	if res.Ok() {
		return LessonView{Detail: res.Value(), Source: SourceRemote}
	}
	s.log.Warn("lesson unavailable, assembling locally", "lesson_id", lessonID, "error", res.Err())

	key := localKey(lessonID)
	lesson := s.assembler.Assemble(key)
	if key != lessonID {
		// Keep the catalog ID so progress still reaches the right lesson.
		lesson.ID = lessonID
	}
	return LessonView{Detail: client.LessonDetail{Lesson: lesson}, Source: SourceLocal}
}

// localKey maps a server catalog ID back to its registry key so the local
// lesson matches the one the learner picked. Other IDs pass through.
func localKey(lessonID string) string {
	for _, def := range lessons.Definitions() {
		if store.LessonID(def.Key) == lessonID {
			return def.Key
		}
	}
	return lessonID
}

// Start begins an attempt with a fresh submission ID.
func (s *Service) Start(view LessonView) *session.LessonState {
	return session.NewLessonState(view.Detail.Lesson, uuid.NewString(), s.now())
}

// Submit grades an attempt, remotely when the lesson came from the server
// and locally otherwise or when the server cannot grade it. Progress is
// then reported to the server on a best-effort basis.
func (s *Service) Submit(ctx context.Context, state *session.LessonState, offline bool) Outcome {
	elapsed := state.Elapsed
	if elapsed <= 0 {
		elapsed = s.now().Sub(state.StartTime)
	}

	var out Outcome
	if !offline {
		res := s.remote.Submit(ctx, state.SubmissionID, client.SubmitRequest{
			UserID:   s.userID(),
			LessonID: state.Lesson.ID,
			Answers:  state.Answers(),
			Elapsed:  elapsed,
		})
		if res.Ok() {
			out.Result = res.Value()
		} else {
			s.log.Warn("remote grading failed, scoring locally", "submission_id", state.SubmissionID, "error", res.Err())
			offline = true
		}
	}
	if offline {
		out.Result = session.Score(state.SubmissionID, state.Lesson, state.Answers(), elapsed)
		out.Offline = true
	}

	out.ProgressErr = s.UpdateProgress(ctx, state.Lesson.ID, CompletedExercises(out.Result.Score))
	return out
}

// UpdateProgress reports progress to the server. It never falls back.
func (s *Service) UpdateProgress(ctx context.Context, lessonID string, completed int) error {
	res := s.remote.UpdateProgress(ctx, lessonID, completed)
	if !res.Ok() {
		s.log.Warn("progress update failed", "lesson_id", lessonID, "error", res.Err())
		return res.Err()
	}
	return nil
}

// CompletedExercises converts a percentage score into completed exercises
// out of a nominal ten.
func CompletedExercises(score int) int {
	return score * 10 / 100
}
