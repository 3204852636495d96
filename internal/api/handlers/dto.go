package handlers

import (
	"strconv"

	"github.com/abhisek/mathapp/internal/dashboard"
	"github.com/abhisek/mathapp/internal/lessons"
	"github.com/abhisek/mathapp/internal/session"
	"github.com/abhisek/mathapp/internal/store"
)

// lessonRowDTO is one entry of GET /lessons.
type lessonRowDTO struct {
	LessonID        string  `json:"lesson_id"`
	LessonName      string  `json:"lesson_name"`
	LessonCategory  string  `json:"lesson_category"`
	Score           int     `json:"score"`
	LessonExpEarned int     `json:"lesson_exp_earned"`
	CompletionDate  *string `json:"completion_date"`
	Progress        string  `json:"progress"`
}

func toLessonRow(e catalogEntry) lessonRowDTO {
	return lessonRowDTO{
		LessonID:        e.Lesson.ID,
		LessonName:      e.Lesson.Title,
		LessonCategory:  e.Lesson.Category,
		Score:           e.Progress.BestScore,
		LessonExpEarned: e.Progress.ExpEarned,
		CompletionDate:  nullableString(formatDate(e.Progress.CompletedAt)),
		Progress:        string(e.Progress.Status),
	}
}

type optionDTO struct {
	ProblemOptionID string `json:"problem_option_id"`
	ProblemID       string `json:"problem_id"`
	Option          string `json:"option"`
}

// problemDTO never carries the answer. reward_xp is sent as a numeric string.
type problemDTO struct {
	ProblemID string      `json:"problem_id"`
	Question  string      `json:"question"`
	RewardXP  string      `json:"reward_xp"`
	Order     int         `json:"order"`
	Options   []optionDTO `json:"options"`
}

type lessonDetailDTO struct {
	LessonID        string       `json:"lesson_id"`
	LessonName      string       `json:"lesson_name"`
	Problems        []problemDTO `json:"problems"`
	IsCompleted     bool         `json:"is_completed"`
	BestScore       int          `json:"best_score"`
	AttemptsCount   int          `json:"attempts_count"`
	LastAttemptedAt *string      `json:"last_attempted_at"`
	CompletedAt     *string      `json:"completed_at"`
}

func toLessonDetail(l *store.Lesson, p store.Progress) lessonDetailDTO {
	problems := make([]problemDTO, len(l.Problems))
	for i, pr := range l.Problems {
		problems[i] = toProblem(pr)
	}
	return lessonDetailDTO{
		LessonID:        l.ID,
		LessonName:      l.Title,
		Problems:        problems,
		IsCompleted:     p.Status == dashboard.Completed,
		BestScore:       p.BestScore,
		AttemptsCount:   p.AttemptsCount,
		LastAttemptedAt: formatTime(p.LastAttemptedAt),
		CompletedAt:     formatTime(p.CompletedAt),
	}
}

func toProblem(p lessons.Problem) problemDTO {
	opts := make([]optionDTO, len(p.Options))
	for i, o := range p.Options {
		opts[i] = optionDTO{ProblemOptionID: o.ID, ProblemID: p.ID, Option: o.Text}
	}
	return problemDTO{
		ProblemID: p.ID,
		Question:  p.Question,
		RewardXP:  strconv.Itoa(p.RewardXP),
		Order:     p.Order,
		Options:   opts,
	}
}

type answerDTO struct {
	ProblemID        string  `json:"problem_id"`
	SelectedOptionID *string `json:"selected_option_id"`
}

type submitRequest struct {
	UserID   string      `json:"user_id"`
	LessonID string      `json:"lesson_id" binding:"required"`
	Answers  []answerDTO `json:"answers"`

	// TimeSpent is the elapsed lesson time in seconds.
	TimeSpent *int `json:"time_spent"`
}

type resultDTO struct {
	ProblemID      string `json:"problem_id"`
	IsCorrect      bool   `json:"is_correct"`
	CorrectAnswer  string `json:"correct_answer"`
	SelectedAnswer string `json:"selected_answer"`
}

type submitResponse struct {
	SubmissionID string      `json:"submission_id"`
	Score        int         `json:"score"`
	CorrectCount int         `json:"correctCount"`
	XPEarned     int         `json:"xpEarned"`
	Results      []resultDTO `json:"results"`
}

func toSubmitResponse(r session.SubmissionResult) submitResponse {
	results := make([]resultDTO, len(r.Results))
	for i, pr := range r.Results {
		results[i] = resultDTO(pr)
	}
	return submitResponse{
		SubmissionID: r.SubmissionID,
		Score:        r.Score,
		CorrectCount: r.CorrectCount,
		XPEarned:     r.XPEarned,
		Results:      results,
	}
}

type progressRequest struct {
	CompletedExercises *int `json:"completedExercises" binding:"required"`
}

type statsDTO struct {
	LessonsAvailable int `json:"lessonsAvailable"`
	LessonsCompleted int `json:"lessonsCompleted"`
	OverallProgress  int `json:"overallProgress"`
}

func toStats(s dashboard.Stats) statsDTO {
	return statsDTO(s)
}

// uiLessonDTO is the camelCase lesson shape of the dashboard endpoint.
type uiLessonDTO struct {
	ID                 string  `json:"id"`
	Title              string  `json:"title"`
	Description        string  `json:"description"`
	Difficulty         string  `json:"difficulty"`
	TotalExercises     int     `json:"totalExercises"`
	CompletedExercises int     `json:"completedExercises"`
	IsUnlocked         bool    `json:"isUnlocked"`
	Category           string  `json:"category"`
	Score              int     `json:"score"`
	ExpEarned          int     `json:"expEarned"`
	CompletionDate     *string `json:"completionDate"`
	Progress           string  `json:"progress"`
}

func toUILesson(s dashboard.LessonSummary) uiLessonDTO {
	return uiLessonDTO{
		ID:                 s.ID,
		Title:              s.Title,
		Description:        s.Description,
		Difficulty:         string(s.Difficulty),
		TotalExercises:     s.TotalExercises,
		CompletedExercises: s.CompletedExercises,
		IsUnlocked:         true,
		Category:           s.Category,
		Score:              s.Score,
		ExpEarned:          s.ExpEarned,
		CompletionDate:     nullableString(s.CompletionDate),
		Progress:           string(s.Progress),
	}
}

type dashboardDTO struct {
	Stats   statsDTO      `json:"stats"`
	Lessons []uiLessonDTO `json:"lessons"`
}
