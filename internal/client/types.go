package client

import (
	"time"

	"github.com/abhisek/mathapp/internal/dashboard"
	"github.com/abhisek/mathapp/internal/lessons"
	"github.com/abhisek/mathapp/internal/session"
)

// Health is the server's health report.
type Health struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Version string `json:"version"`
}

// User is the authenticated learner.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Login is a successful remote login.
type Login struct {
	User  User
	Token string
}

// LessonDetail is a remote lesson with the learner's standing on it.
type LessonDetail struct {
	Lesson          lessons.Lesson
	IsCompleted     bool
	BestScore       int
	AttemptsCount   int
	LastAttemptedAt *time.Time
	CompletedAt     *time.Time
}

// Dashboard is the stats header plus lesson list.
type Dashboard struct {
	Stats   dashboard.Stats
	Lessons []dashboard.LessonSummary
}

// SubmitRequest is the payload of a lesson submission.
type SubmitRequest struct {
	UserID   string
	LessonID string
	Answers  []session.AnswerRecord

	// Elapsed is sent as whole seconds; session.Untimed omits it.
	Elapsed time.Duration
}

// Wire shapes. Field names follow the server's JSON.

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Success bool   `json:"success"`
	User    User   `json:"user"`
	Token   string `json:"token"`
}

type lessonRow struct {
	LessonID        string  `json:"lesson_id"`
	LessonName      string  `json:"lesson_name"`
	LessonCategory  string  `json:"lesson_category"`
	Score           int     `json:"score"`
	LessonExpEarned int     `json:"lesson_exp_earned"`
	CompletionDate  *string `json:"completion_date"`
	Progress        string  `json:"progress"`
}

type lessonsResponse struct {
	Data []lessonRow `json:"data"`
}

type optionWire struct {
	ProblemOptionID string `json:"problem_option_id"`
	ProblemID       string `json:"problem_id"`
	Option          string `json:"option"`
}

type problemWire struct {
	ProblemID string       `json:"problem_id"`
	Question  string       `json:"question"`
	RewardXP  string       `json:"reward_xp"`
	Order     int          `json:"order"`
	Options   []optionWire `json:"options"`
}

type lessonDetailWire struct {
	LessonID        string        `json:"lesson_id"`
	LessonName      string        `json:"lesson_name"`
	Problems        []problemWire `json:"problems"`
	IsCompleted     bool          `json:"is_completed"`
	BestScore       int           `json:"best_score"`
	AttemptsCount   int           `json:"attempts_count"`
	LastAttemptedAt *string       `json:"last_attempted_at"`
	CompletedAt     *string       `json:"completed_at"`
}

type lessonDetailResponse struct {
	Data lessonDetailWire `json:"data"`
}

type statsWire struct {
	LessonsAvailable int `json:"lessonsAvailable"`
	LessonsCompleted int `json:"lessonsCompleted"`
	OverallProgress  int `json:"overallProgress"`
}

type uiLessonWire struct {
	ID                 string  `json:"id"`
	Title              string  `json:"title"`
	Description        string  `json:"description"`
	Difficulty         string  `json:"difficulty"`
	TotalExercises     int     `json:"totalExercises"`
	CompletedExercises int     `json:"completedExercises"`
	Category           string  `json:"category"`
	Score              int     `json:"score"`
	ExpEarned          int     `json:"expEarned"`
	CompletionDate     *string `json:"completionDate"`
	Progress           string  `json:"progress"`
}

type dashboardWire struct {
	Stats   statsWire      `json:"stats"`
	Lessons []uiLessonWire `json:"lessons"`
}

type answerWire struct {
	ProblemID        string  `json:"problem_id"`
	SelectedOptionID *string `json:"selected_option_id"`
}

type submitWire struct {
	UserID    string       `json:"user_id"`
	LessonID  string       `json:"lesson_id"`
	Answers   []answerWire `json:"answers"`
	TimeSpent *int         `json:"time_spent,omitempty"`
}

type resultWire struct {
	ProblemID      string `json:"problem_id"`
	IsCorrect      bool   `json:"is_correct"`
	CorrectAnswer  string `json:"correct_answer"`
	SelectedAnswer string `json:"selected_answer"`
}

type submitResponse struct {
	SubmissionID string       `json:"submission_id"`
	Score        int          `json:"score"`
	CorrectCount int          `json:"correctCount"`
	XPEarned     int          `json:"xpEarned"`
	Results      []resultWire `json:"results"`
}

type progressWire struct {
	CompletedExercises int `json:"completedExercises"`
}
