package learner

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/mathapp/internal/client"
	"github.com/abhisek/mathapp/internal/dashboard"
	"github.com/abhisek/mathapp/internal/lessons"
	"github.com/abhisek/mathapp/internal/logger"
	"github.com/abhisek/mathapp/internal/problemgen"
	"github.com/abhisek/mathapp/internal/session"
	"github.com/abhisek/mathapp/internal/store"
)

var errDown = errors.New("connection refused")

// fakeRemote returns canned results; a nil field means the call fails.
type fakeRemote struct {
	login     *client.Login
	lessons   *client.Dashboard
	dashboard *client.Dashboard
	detail    *client.LessonDetail
	submit    *session.SubmissionResult
	progress  bool

	token         string
	submitted     []client.SubmitRequest
	progressCalls []int
}

func (f *fakeRemote) Login(context.Context, string, string) client.Result[client.Login] {
	if f.login == nil {
		return client.Unavailable[client.Login](errDown)
	}
	return client.Ok(*f.login)
}

func (f *fakeRemote) Lessons(context.Context, string) client.Result[client.Dashboard] {
	if f.lessons == nil {
		return client.Unavailable[client.Dashboard](errDown)
	}
	return client.Ok(*f.lessons)
}

func (f *fakeRemote) Dashboard(context.Context) client.Result[client.Dashboard] {
	if f.dashboard == nil {
		return client.Unavailable[client.Dashboard](errDown)
	}
	return client.Ok(*f.dashboard)
}

func (f *fakeRemote) LessonDetail(context.Context, string) client.Result[client.LessonDetail] {
	if f.detail == nil {
		return client.Unavailable[client.LessonDetail](errDown)
	}
	return client.Ok(*f.detail)
}

func (f *fakeRemote) Submit(_ context.Context, _ string, req client.SubmitRequest) client.Result[session.SubmissionResult] {
	f.submitted = append(f.submitted, req)
	if f.submit == nil {
		return client.Unavailable[session.SubmissionResult](errDown)
	}
	return client.Ok(*f.submit)
}

func (f *fakeRemote) UpdateProgress(_ context.Context, _ string, completed int) client.Result[struct{}] {
	f.progressCalls = append(f.progressCalls, completed)
	if !f.progress {
		return client.Unavailable[struct{}](errDown)
	}
	return client.Ok(struct{}{})
}

func (f *fakeRemote) SetToken(token string) { f.token = token }

func newService(t *testing.T, remote *fakeRemote) (*Service, *store.Store) {
	t.Helper()
	name := strings.ReplaceAll(t.Name(), "/", "_")
	st, err := store.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	asm := lessons.NewAssembler(rand.New(rand.NewPCG(3, 4)))
	return NewService(remote, asm, st.SessionRepo(), logger.Nop()), st
}

func TestLoginRemote(t *testing.T) {
	remote := &fakeRemote{login: &client.Login{User: client.User{ID: "u1", Name: "Ada"}, Token: "tok"}}
	svc, st := newService(t, remote)
	ctx := context.Background()

	u, err := svc.Login(ctx, "ada@example.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, "u1", u.ID)
	assert.Equal(t, "tok", remote.token)

	saved, err := st.SessionRepo().Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.Equal(t, "tok", saved.Token)
}

func TestLoginOfflineDemoFallback(t *testing.T) {
	svc, _ := newService(t, &fakeRemote{})
	ctx := context.Background()

	u, err := svc.Login(ctx, OfflineDemoEmail, OfflineDemoPassword)
	require.NoError(t, err)
	assert.Equal(t, OfflineDemoUserID, u.ID)
	assert.Empty(t, u.Token)

	_, err = svc.Login(ctx, OfflineDemoEmail, "wrong")
	assert.ErrorIs(t, err, ErrLoginFailed)
}

func TestGuestRestoreAndLogout(t *testing.T) {
	remote := &fakeRemote{}
	svc, st := newService(t, remote)
	ctx := context.Background()

	_, err := svc.LoginAsGuest(ctx)
	require.NoError(t, err)

	// A fresh service over the same store picks the session back up.
	again := NewService(remote, lessons.NewAssembler(rand.New(rand.NewPCG(1, 1))), st.SessionRepo(), logger.Nop())
	u, err := again.Restore(ctx)
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, GuestUserID, u.ID)
	assert.True(t, u.Guest)

	require.NoError(t, again.Logout(ctx))
	assert.Nil(t, again.User())
	u, err = again.Restore(ctx)
	require.NoError(t, err)
	assert.Nil(t, u)
}

func TestDashboardFallbackChain(t *testing.T) {
	lessonsData := &client.Dashboard{Stats: dashboard.Stats{LessonsAvailable: 1}}
	dashData := &client.Dashboard{Stats: dashboard.Stats{LessonsAvailable: 2}}

	tests := []struct {
		name   string
		remote *fakeRemote
		want   Source
		avail  int
	}{
		{"lessons endpoint", &fakeRemote{lessons: lessonsData, dashboard: dashData}, SourceRemote, 1},
		{"dashboard endpoint", &fakeRemote{dashboard: dashData}, SourceDashboard, 2},
		{"mock", &fakeRemote{}, SourceMock, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newService(t, tt.remote)
			view := svc.Dashboard(context.Background())
			assert.Equal(t, tt.want, view.Source)
			assert.Equal(t, tt.avail, view.Stats.LessonsAvailable)
		})
	}
}

func TestMockDashboardStats(t *testing.T) {
	svc, _ := newService(t, &fakeRemote{})
	view := svc.Dashboard(context.Background())
	assert.Equal(t, dashboard.Stats{LessonsAvailable: 4, LessonsCompleted: 1, OverallProgress: 25}, view.Stats)
}

func TestLessonFallsBackToLocalAssembly(t *testing.T) {
	svc, _ := newService(t, &fakeRemote{})

	view := svc.Lesson(context.Background(), "division-basics")
	assert.True(t, view.Offline())
	assert.Len(t, view.Detail.Lesson.Problems, 8)

	catalogID := store.LessonID("division-basics")
	view = svc.Lesson(context.Background(), catalogID)
	assert.Equal(t, catalogID, view.Detail.Lesson.ID)
	assert.Equal(t, "Division Basics", view.Detail.Lesson.Title)
	assert.Len(t, view.Detail.Lesson.Problems, 8)

	view = svc.Lesson(context.Background(), "some-server-uuid")
	assert.Equal(t, lessons.DefaultKey, view.Detail.Lesson.ID)
	assert.Len(t, view.Detail.Lesson.Problems, 10)
}

// answerAll selects the correct option on every problem.
func answerAll(t *testing.T, state *session.LessonState) {
	t.Helper()
	for {
		p := state.CurrentProblem()
		answer, err := problemgen.ComputeAnswer(p.Question)
		require.NoError(t, err)
		for i, o := range p.Options {
			if problemgen.AnswerMatches(o.Text, answer) {
				state.Select(i)
			}
		}
		if !state.Next() {
			return
		}
	}
}

func TestSubmitOfflineLessonScoresLocally(t *testing.T) {
	remote := &fakeRemote{progress: true}
	svc, _ := newService(t, remote)

	view := svc.Lesson(context.Background(), "basic-arithmetic")
	state := svc.Start(view)
	answerAll(t, state)
	state.Elapsed = 100 * time.Second

	out := svc.Submit(context.Background(), state, view.Offline())
	assert.True(t, out.Offline)
	assert.Empty(t, remote.submitted)
	assert.Equal(t, 100, out.Result.Score)
	assert.Equal(t, 250, out.Result.XPEarned)
	assert.NoError(t, out.ProgressErr)
	assert.Equal(t, []int{10}, remote.progressCalls)
}

func TestSubmitRemoteFailureScoresLocally(t *testing.T) {
	remote := &fakeRemote{}
	svc, _ := newService(t, remote)
	asm := lessons.NewAssembler(rand.New(rand.NewPCG(5, 6)))

	state := svc.Start(LessonView{Detail: client.LessonDetail{Lesson: asm.Assemble("division-basics")}, Source: SourceRemote})
	state.Elapsed = 400 * time.Second

	out := svc.Submit(context.Background(), state, false)
	require.Len(t, remote.submitted, 1)
	assert.Equal(t, 400*time.Second, remote.submitted[0].Elapsed)
	assert.True(t, out.Offline)
	assert.Equal(t, 0, out.Result.Score)
	assert.Equal(t, 0, out.Result.XPEarned)
	assert.ErrorIs(t, out.ProgressErr, errDown)
}

func TestSubmitRemote(t *testing.T) {
	want := session.SubmissionResult{SubmissionID: "x", Score: 70, XPEarned: 190}
	remote := &fakeRemote{submit: &want, progress: true}
	svc, _ := newService(t, remote)
	asm := lessons.NewAssembler(rand.New(rand.NewPCG(5, 6)))

	state := svc.Start(LessonView{Detail: client.LessonDetail{Lesson: asm.Assemble("")}, Source: SourceRemote})
	out := svc.Submit(context.Background(), state, false)

	assert.False(t, out.Offline)
	assert.Equal(t, want, out.Result)
	assert.Equal(t, []int{7}, remote.progressCalls)
}

func TestCompletedExercises(t *testing.T) {
	assert.Equal(t, 0, CompletedExercises(0))
	assert.Equal(t, 6, CompletedExercises(67))
	assert.Equal(t, 10, CompletedExercises(100))
}
