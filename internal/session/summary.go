package session

import "time"

// LessonSummary holds the data displayed on the results screen.
type LessonSummary struct {
	LessonTitle    string
	Duration       time.Duration
	TotalQuestions int
	Result         SubmissionResult
	Passed         bool

	// Offline is true when the result was graded locally because the
	// server could not be reached.
	Offline bool
}

// Accuracy is the fraction of questions answered correctly.
func (s LessonSummary) Accuracy() float64 {
	if s.TotalQuestions == 0 {
		return 0
	}
	return float64(s.Result.CorrectCount) / float64(s.TotalQuestions)
}

// BuildSummary creates a LessonSummary from a finished attempt.
func BuildSummary(state *LessonState, result SubmissionResult, offline bool) *LessonSummary {
	return &LessonSummary{
		LessonTitle:    state.Lesson.Title,
		Duration:       state.Elapsed,
		TotalQuestions: len(state.Lesson.Problems),
		Result:         result,
		Passed:         Passed(result.Score),
		Offline:        offline,
	}
}
