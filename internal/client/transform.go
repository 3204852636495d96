package client

import (
	"fmt"
	"strconv"
	"time"

	"github.com/abhisek/mathapp/internal/dashboard"
	"github.com/abhisek/mathapp/internal/lessons"
	"github.com/abhisek/mathapp/internal/problemgen"
	"github.com/abhisek/mathapp/internal/session"
)

// dashboardFromRows maps lesson-progress rows to dashboard rows and derives
// the stats locally.
func dashboardFromRows(rows []lessonRow) Dashboard {
	out := make([]dashboard.LessonSummary, len(rows))
	for i, r := range rows {
		out[i] = dashboard.LessonSummary{
			ID:             r.LessonID,
			Title:          r.LessonName,
			Category:       r.LessonCategory,
			Progress:       dashboard.ParseProgress(r.Progress),
			Score:          r.Score,
			ExpEarned:      r.LessonExpEarned,
			CompletionDate: deref(r.CompletionDate),
		}.WithDisplayCounts()
	}
	return Dashboard{Stats: dashboard.Aggregate(out), Lessons: out}
}

func dashboardFromWire(w dashboardWire) Dashboard {
	out := make([]dashboard.LessonSummary, len(w.Lessons))
	for i, l := range w.Lessons {
		out[i] = dashboard.LessonSummary{
			ID:                 l.ID,
			Title:              l.Title,
			Description:        l.Description,
			Category:           l.Category,
			Difficulty:         dashboard.Difficulty(l.Difficulty),
			Progress:           dashboard.ParseProgress(l.Progress),
			Score:              l.Score,
			ExpEarned:          l.ExpEarned,
			CompletionDate:     deref(l.CompletionDate),
			TotalExercises:     l.TotalExercises,
			CompletedExercises: l.CompletedExercises,
		}
	}
	return Dashboard{Stats: statsFromWire(w.Stats), Lessons: out}
}

func statsFromWire(s statsWire) dashboard.Stats {
	return dashboard.Stats(s)
}

// lessonFromWire renames fields and parses the string-typed reward_xp.
// Problems keep the sequence the server sent.
func lessonFromWire(w lessonDetailWire) (LessonDetail, error) {
	problems := make([]lessons.Problem, len(w.Problems))
	for i, p := range w.Problems {
		xp, err := strconv.Atoi(p.RewardXP)
		if err != nil {
			return LessonDetail{}, fmt.Errorf("problem %s: reward_xp %q: %w", p.ProblemID, p.RewardXP, err)
		}
		opts := make([]problemgen.Option, len(p.Options))
		for j, o := range p.Options {
			opts[j] = problemgen.Option{ID: o.ProblemOptionID, Text: o.Option}
		}
		problems[i] = lessons.Problem{
			ID:       p.ProblemID,
			Question: p.Question,
			RewardXP: xp,
			Order:    p.Order,
			Options:  opts,
		}
	}

	return LessonDetail{
		Lesson: lessons.Lesson{
			ID:            w.LessonID,
			Title:         w.LessonName,
			Problems:      problems,
			TotalProblems: len(problems),
			PassingScore:  lessons.PassingScore,
			IsCompleted:   w.IsCompleted,
			BestScore:     w.BestScore,
		},
		IsCompleted:     w.IsCompleted,
		BestScore:       w.BestScore,
		AttemptsCount:   w.AttemptsCount,
		LastAttemptedAt: parseTime(w.LastAttemptedAt),
		CompletedAt:     parseTime(w.CompletedAt),
	}, nil
}

func submitToWire(req SubmitRequest) submitWire {
	answers := make([]answerWire, len(req.Answers))
	for i, a := range req.Answers {
		answers[i] = answerWire{ProblemID: a.ProblemID, SelectedOptionID: a.SelectedOptionID}
	}
	w := submitWire{UserID: req.UserID, LessonID: req.LessonID, Answers: answers}
	if req.Elapsed >= 0 {
		secs := int(req.Elapsed / time.Second)
		w.TimeSpent = &secs
	}
	return w
}

func resultFromWire(w submitResponse) session.SubmissionResult {
	results := make([]session.ProblemResult, len(w.Results))
	for i, r := range w.Results {
		results[i] = session.ProblemResult(r)
	}
	return session.SubmissionResult{
		SubmissionID: w.SubmissionID,
		Score:        w.Score,
		CorrectCount: w.CorrectCount,
		XPEarned:     w.XPEarned,
		Results:      results,
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// parseTime accepts RFC 3339 timestamps; anything else is treated as absent.
func parseTime(s *string) *time.Time {
	if s == nil {
		return nil
	}
	t, err := time.Parse(time.RFC3339, *s)
	if err != nil {
		return nil
	}
	return &t
}
