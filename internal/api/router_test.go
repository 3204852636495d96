package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/mathapp/internal/api/handlers"
	"github.com/abhisek/mathapp/internal/api/middleware"
	"github.com/abhisek/mathapp/internal/auth"
	"github.com/abhisek/mathapp/internal/learner"
	"github.com/abhisek/mathapp/internal/lessons"
	"github.com/abhisek/mathapp/internal/logger"
	"github.com/abhisek/mathapp/internal/problemgen"
	"github.com/abhisek/mathapp/internal/store"
)

type testEnv struct {
	router *gin.Engine
	store  *store.Store
	token  string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	name := strings.ReplaceAll(t.Name(), "/", "_")
	st, err := store.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	ctx := context.Background()
	_, err = st.SeedCatalog(ctx, lessons.NewAssembler(rand.New(rand.NewPCG(7, 11))))
	require.NoError(t, err)
	demo, err := auth.DemoUser()
	require.NoError(t, err)
	require.NoError(t, st.SeedUser(ctx, demo))

	log := logger.Nop()
	authSvc := auth.NewService(st.UserRepo(), auth.NewJWTManager("test-secret", "mathapp", time.Hour), false)

	env := &testEnv{
		store: st,
		router: NewRouter(RouterConfig{
			Log:              log,
			AuthHandler:      handlers.NewAuthHandler(log, authSvc),
			AuthMiddleware:   middleware.NewAuthMiddleware(log, authSvc),
			LessonHandler:    handlers.NewLessonHandler(log, st),
			DashboardHandler: handlers.NewDashboardHandler(log, st),
			HealthHandler:    handlers.NewHealthHandler("v1.2.3"),
		}),
	}

	rec := env.do(t, http.MethodPost, "/api/auth/login", map[string]string{
		"email": auth.DemoEmail, "password": auth.DemoPassword,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	var login struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &login))
	env.token = login.Token
	return env
}

// signIn creates a learner and returns a token for them.
func (e *testEnv) signIn(t *testing.T, email, password string) string {
	t.Helper()
	hash, err := auth.HashPassword(password)
	require.NoError(t, err)
	require.NoError(t, e.store.SeedUser(context.Background(), store.User{
		ID: "user-" + email, Name: email, Email: email, PasswordHash: hash,
	}))

	saved := e.token
	e.token = ""
	rec := e.do(t, http.MethodPost, "/api/auth/login", map[string]string{"email": email, "password": password})
	e.token = saved
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return decode[struct {
		Token string `json:"token"`
	}](t, rec).Token
}

func (e *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			require.NoError(t, json.NewEncoder(&buf).Encode(b))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if e.token != "" {
		req.Header.Set("Authorization", "Bearer "+e.token)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

type lessonRow struct {
	LessonID        string  `json:"lesson_id"`
	LessonName      string  `json:"lesson_name"`
	Score           int     `json:"score"`
	LessonExpEarned int     `json:"lesson_exp_earned"`
	CompletionDate  *string `json:"completion_date"`
	Progress        string  `json:"progress"`
}

type submitResult struct {
	SubmissionID string `json:"submission_id"`
	Score        int    `json:"score"`
	CorrectCount int    `json:"correctCount"`
	XPEarned     int    `json:"xpEarned"`
	Results      []struct {
		ProblemID      string `json:"problem_id"`
		IsCorrect      bool   `json:"is_correct"`
		CorrectAnswer  string `json:"correct_answer"`
		SelectedAnswer string `json:"selected_answer"`
	} `json:"results"`
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)
	env.token = ""

	rec := env.do(t, http.MethodGet, "/api/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[map[string]string](t, rec)
	assert.Equal(t, "OK", body["status"])
	assert.Equal(t, "v1.2.3", body["version"])
}

func TestLogin(t *testing.T) {
	env := newTestEnv(t)
	env.token = ""

	tests := []struct {
		name string
		body any
		code int
		msg  string
	}{
		{"flat", map[string]string{"email": auth.DemoEmail, "password": auth.DemoPassword}, http.StatusOK, ""},
		{"nested", map[string]any{"credentials": map[string]string{"email": auth.DemoEmail, "password": auth.DemoPassword}}, http.StatusOK, ""},
		{"missing password", map[string]string{"email": auth.DemoEmail}, http.StatusBadRequest, "Email and password are required"},
		{"empty body", "", http.StatusBadRequest, "Email and password are required"},
		{"wrong password", map[string]string{"email": auth.DemoEmail, "password": "nope"}, http.StatusUnauthorized, "Invalid credentials"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(t, http.MethodPost, "/api/auth/login", tt.body)
			require.Equal(t, tt.code, rec.Code, rec.Body.String())

			if tt.code == http.StatusOK {
				body := decode[struct {
					Success bool `json:"success"`
					User    struct {
						ID    string `json:"id"`
						Name  string `json:"name"`
						Email string `json:"email"`
					} `json:"user"`
					Token string `json:"token"`
				}](t, rec)
				assert.True(t, body.Success)
				assert.Equal(t, auth.DemoName, body.User.Name)
				assert.NotEmpty(t, body.Token)
				return
			}

			body := decode[map[string]any](t, rec)
			assert.Equal(t, false, body["success"])
			assert.Equal(t, tt.msg, body["message"])
		})
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	env := newTestEnv(t)
	env.token = ""

	for _, path := range []string{"/api/lessons", "/api/dashboard", "/api/user/stats"} {
		rec := env.do(t, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
		assert.JSONEq(t, `{"success":false,"message":"Authentication required"}`, rec.Body.String())
	}
}

func TestListLessons(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/lessons", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[struct {
		Data []lessonRow `json:"data"`
	}](t, rec)

	require.Len(t, body.Data, len(lessons.Definitions()))
	assert.Equal(t, "Basic Arithmetic", body.Data[0].LessonName)
	for _, row := range body.Data {
		assert.Equal(t, "Not Started", row.Progress)
		assert.Nil(t, row.CompletionDate)
	}
}

func TestGetLesson(t *testing.T) {
	env := newTestEnv(t)
	id := store.LessonID("multiplication-mastery")

	rec := env.do(t, http.MethodGet, "/api/lessons/"+id, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "correct_answer")

	body := decode[struct {
		Data struct {
			LessonID string `json:"lesson_id"`
			Problems []struct {
				ProblemID string `json:"problem_id"`
				RewardXP  string `json:"reward_xp"`
				Order     int    `json:"order"`
				Options   []struct {
					ProblemOptionID string `json:"problem_option_id"`
					ProblemID       string `json:"problem_id"`
					Option          string `json:"option"`
				} `json:"options"`
			} `json:"problems"`
			IsCompleted     bool    `json:"is_completed"`
			AttemptsCount   int     `json:"attempts_count"`
			LastAttemptedAt *string `json:"last_attempted_at"`
		} `json:"data"`
	}](t, rec)

	assert.Equal(t, id, body.Data.LessonID)
	require.Len(t, body.Data.Problems, 10)
	for i, p := range body.Data.Problems {
		assert.Equal(t, "10", p.RewardXP)
		assert.Equal(t, i+1, p.Order)
		require.Len(t, p.Options, problemgen.OptionCount)
		assert.Equal(t, p.ProblemID, p.Options[0].ProblemID)
	}
	assert.False(t, body.Data.IsCompleted)
	assert.Nil(t, body.Data.LastAttemptedAt)

	rec = env.do(t, http.MethodGet, "/api/lessons/does-not-exist", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// correctAnswers selects the right option for every problem of a lesson.
func correctAnswers(t *testing.T, st *store.Store, lessonID string) []map[string]any {
	t.Helper()
	l, err := st.LessonRepo().Get(context.Background(), lessonID)
	require.NoError(t, err)

	out := make([]map[string]any, len(l.Problems))
	for i, p := range l.Problems {
		opt, ok := problemgen.CorrectOption(p.Options, *p.CorrectAnswer)
		require.True(t, ok)
		out[i] = map[string]any{"problem_id": p.ID, "selected_option_id": opt.ID}
	}
	return out
}

func TestSubmitIsGradedAndIdempotent(t *testing.T) {
	env := newTestEnv(t)
	lessonID := store.LessonID("basic-arithmetic")
	answers := correctAnswers(t, env.store, lessonID)

	// Skip the last problem.
	answers[len(answers)-1]["selected_option_id"] = nil

	req := map[string]any{"lesson_id": lessonID, "answers": answers, "time_spent": 60}
	rec := env.do(t, http.MethodPost, "/api/lessons/sub-123/submit", req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	first := decode[submitResult](t, rec)
	assert.Equal(t, "sub-123", first.SubmissionID)
	assert.Equal(t, 9, first.CorrectCount)
	assert.Equal(t, 90, first.Score)
	assert.Equal(t, 90*2+50, first.XPEarned)
	require.Len(t, first.Results, 10)
	assert.Equal(t, "No answer", first.Results[9].SelectedAnswer)

	// A retry with different answers returns the stored grade.
	req["answers"] = []any{}
	rec = env.do(t, http.MethodPost, "/api/lessons/sub-123/submit", req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, first, decode[submitResult](t, rec))

	p, err := env.store.ProgressRepo().Get(context.Background(), userID(t, env), lessonID)
	require.NoError(t, err)
	assert.Equal(t, 1, p.AttemptsCount)
	assert.Equal(t, 90, p.BestScore)

	rec = env.do(t, http.MethodGet, "/api/lessons", nil)
	rows := decode[struct {
		Data []lessonRow `json:"data"`
	}](t, rec).Data
	assert.Equal(t, "Completed", rows[0].Progress)
	assert.NotNil(t, rows[0].CompletionDate)
	assert.Equal(t, 230, rows[0].LessonExpEarned)
}

func TestSubmitRejectsIDReusedByAnotherLearner(t *testing.T) {
	env := newTestEnv(t)
	first := store.LessonID("basic-arithmetic")

	rec := env.do(t, http.MethodPost, "/api/lessons/shared-id/submit", map[string]any{
		"lesson_id": first,
		"answers":   correctAnswers(t, env.store, first),
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// Same learner, other lesson.
	other := store.LessonID("division-basics")
	rec = env.do(t, http.MethodPost, "/api/lessons/shared-id/submit", map[string]any{
		"lesson_id": other,
		"answers":   correctAnswers(t, env.store, other),
	})
	assert.Equal(t, http.StatusConflict, rec.Code)

	// Another learner, same lesson.
	env.token = env.signIn(t, "bob@example.com", "bob-secret")
	rec = env.do(t, http.MethodPost, "/api/lessons/shared-id/submit", map[string]any{
		"lesson_id": first,
		"answers":   correctAnswers(t, env.store, first),
	})
	require.Equal(t, http.StatusConflict, rec.Code)
	body := decode[map[string]any](t, rec)
	assert.Equal(t, false, body["success"])
	assert.NotEmpty(t, body["message"])

	bob, err := env.store.UserRepo().ByEmail(context.Background(), "bob@example.com")
	require.NoError(t, err)
	p, err := env.store.ProgressRepo().Get(context.Background(), bob.ID, first)
	require.NoError(t, err)
	assert.Equal(t, 0, p.AttemptsCount)

	// A fresh ID is graded normally.
	rec = env.do(t, http.MethodPost, "/api/lessons/bob-1/submit", map[string]any{
		"lesson_id": other,
		"answers":   correctAnswers(t, env.store, other),
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "bob-1", decode[submitResult](t, rec).SubmissionID)
}

func TestZeroScoreSubmitThenProgressSyncKeepsLessonStarted(t *testing.T) {
	env := newTestEnv(t)
	lessonID := store.LessonID("basic-arithmetic")

	rec := env.do(t, http.MethodPost, "/api/lessons/empty-1/submit", map[string]any{
		"lesson_id": lessonID,
		"answers":   []any{},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	res := decode[submitResult](t, rec)
	require.Equal(t, 0, res.Score)

	rec = env.do(t, http.MethodPut, "/api/lessons/"+lessonID+"/progress",
		map[string]int{"completedExercises": learner.CompletedExercises(res.Score)})
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/lessons", nil)
	rows := decode[struct {
		Data []lessonRow `json:"data"`
	}](t, rec).Data
	for _, r := range rows {
		if r.LessonID == lessonID {
			assert.Equal(t, "In Progress", r.Progress)
		}
	}

	p, err := env.store.ProgressRepo().Get(context.Background(), userID(t, env), lessonID)
	require.NoError(t, err)
	assert.Equal(t, 1, p.AttemptsCount)
}

func TestSubmitWithoutTimeEarnsNoBonus(t *testing.T) {
	env := newTestEnv(t)
	lessonID := store.LessonID("division-basics")

	rec := env.do(t, http.MethodPost, "/api/lessons/sub-untimed/submit", map[string]any{
		"lesson_id": lessonID,
		"answers":   correctAnswers(t, env.store, lessonID),
	})
	require.Equal(t, http.StatusOK, rec.Code)
	res := decode[submitResult](t, rec)
	assert.Equal(t, 100, res.Score)
	assert.Equal(t, 200, res.XPEarned)
}

func TestSubmitErrors(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/lessons/s1/submit", "{not json")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/lessons/s2/submit", map[string]any{"answers": []any{}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/lessons/s3/submit", map[string]any{"lesson_id": "nope"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateProgress(t *testing.T) {
	env := newTestEnv(t)
	lessonID := store.LessonID("mixed-practice")

	rec := env.do(t, http.MethodPut, "/api/lessons/"+lessonID+"/progress", map[string]int{"completedExercises": 4})
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = env.do(t, http.MethodPut, "/api/lessons/nope/progress", map[string]int{"completedExercises": 1})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(t, http.MethodPut, "/api/lessons/"+lessonID+"/progress", map[string]int{"completedExercises": -1})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodPut, "/api/lessons/"+lessonID+"/progress", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/dashboard", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[struct {
		Lessons []struct {
			ID                 string `json:"id"`
			TotalExercises     int    `json:"totalExercises"`
			CompletedExercises int    `json:"completedExercises"`
			Progress           string `json:"progress"`
		} `json:"lessons"`
	}](t, rec)

	for _, l := range body.Lessons {
		if l.ID != lessonID {
			continue
		}
		assert.Equal(t, "In Progress", l.Progress)
		assert.Equal(t, 4, l.CompletedExercises)
		assert.Equal(t, 10, l.TotalExercises)
	}
}

func TestDashboardAndStats(t *testing.T) {
	env := newTestEnv(t)
	lessonID := store.LessonID("basic-arithmetic")

	rec := env.do(t, http.MethodPost, "/api/lessons/sub-dash/submit", map[string]any{
		"lesson_id": lessonID,
		"answers":   correctAnswers(t, env.store, lessonID),
	})
	require.Equal(t, http.StatusOK, rec.Code)

	type stats struct {
		LessonsAvailable int `json:"lessonsAvailable"`
		LessonsCompleted int `json:"lessonsCompleted"`
		OverallProgress  int `json:"overallProgress"`
	}
	want := stats{LessonsAvailable: 4, LessonsCompleted: 1, OverallProgress: 25}

	rec = env.do(t, http.MethodGet, "/api/user/stats", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, want, decode[stats](t, rec))

	rec = env.do(t, http.MethodGet, "/api/dashboard", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[struct {
		Stats   stats `json:"stats"`
		Lessons []struct {
			Title      string `json:"title"`
			Difficulty string `json:"difficulty"`
			IsUnlocked bool   `json:"isUnlocked"`
		} `json:"lessons"`
	}](t, rec)
	assert.Equal(t, want, body.Stats)
	require.Len(t, body.Lessons, 4)
	assert.Equal(t, "Beginner", body.Lessons[0].Difficulty)
	assert.True(t, body.Lessons[0].IsUnlocked)
}

func userID(t *testing.T, env *testEnv) string {
	t.Helper()
	u, err := env.store.UserRepo().ByEmail(context.Background(), auth.DemoEmail)
	require.NoError(t, err)
	return u.ID
}
