package session

import (
	"strconv"
	"time"

	"github.com/abhisek/mathapp/internal/lessons"
	"github.com/abhisek/mathapp/internal/problemgen"
)

const (
	// NoAnswer is reported as the selected answer when a problem was skipped
	// or its selection could not be resolved.
	NoAnswer = "No answer"

	// UnknownAnswer is reported as the correct answer when it cannot be
	// derived from the question or a precomputed value.
	UnknownAnswer = "Unknown"

	// SpeedBonusLimit is the elapsed time under which the speed bonus applies.
	SpeedBonusLimit = 300 * time.Second

	// SpeedBonusXP is awarded for finishing under SpeedBonusLimit.
	SpeedBonusXP = 50

	// Untimed marks a submission with no elapsed time; it earns no speed bonus.
	Untimed time.Duration = -1
)

// AnswerRecord is the learner's selection for one problem. A nil
// SelectedOptionID means the problem was skipped.
type AnswerRecord struct {
	ProblemID        string
	SelectedOptionID *string
}

// ProblemResult is the graded outcome for one problem.
type ProblemResult struct {
	ProblemID      string
	IsCorrect      bool
	CorrectAnswer  string
	SelectedAnswer string
}

// SubmissionResult is the graded outcome for a whole lesson.
type SubmissionResult struct {
	SubmissionID string
	Score        int
	CorrectCount int
	XPEarned     int
	Results      []ProblemResult
}

// Score grades answers against lesson. Results follow the lesson's problem
// order. Missing answers and option IDs that do not resolve to an option
// count as incorrect.
//
// The correct answer is re-derived from the question text; the lesson's
// precomputed answer is only used when the text is not computable.
func Score(submissionID string, lesson lessons.Lesson, answers []AnswerRecord, elapsed time.Duration) SubmissionResult {
	selected := make(map[string]*string, len(answers))
	for _, a := range answers {
		selected[a.ProblemID] = a.SelectedOptionID
	}

	results := make([]ProblemResult, 0, len(lesson.Problems))
	correct := 0
	for _, p := range lesson.Problems {
		r := gradeProblem(p, selected[p.ID])
		if r.IsCorrect {
			correct++
		}
		results = append(results, r)
	}

	score := Percent(correct, len(lesson.Problems))
	return SubmissionResult{
		SubmissionID: submissionID,
		Score:        score,
		CorrectCount: correct,
		XPEarned:     XP(score, elapsed),
		Results:      results,
	}
}

func gradeProblem(p lessons.Problem, optionID *string) ProblemResult {
	r := ProblemResult{
		ProblemID:      p.ID,
		CorrectAnswer:  UnknownAnswer,
		SelectedAnswer: NoAnswer,
	}

	answer, known := correctAnswer(p)
	if known {
		r.CorrectAnswer = strconv.Itoa(answer)
	}

	if optionID == nil {
		return r
	}
	opt, ok := p.Option(*optionID)
	if !ok {
		return r
	}
	r.SelectedAnswer = opt.Text
	r.IsCorrect = known && problemgen.AnswerMatches(opt.Text, answer)
	return r
}

func correctAnswer(p lessons.Problem) (int, bool) {
	if n, err := problemgen.ComputeAnswer(p.Question); err == nil {
		return n, true
	}
	if p.CorrectAnswer != nil {
		return *p.CorrectAnswer, true
	}
	return 0, false
}

// Percent returns round(correct/total*100) with halves rounded up, or 0 when
// total is 0.
func Percent(correct, total int) int {
	if total <= 0 {
		return 0
	}
	return (200*correct + total) / (2 * total)
}

// XP is twice the score plus the speed bonus when elapsed is known and under
// SpeedBonusLimit.
func XP(score int, elapsed time.Duration) int {
	xp := score * 2
	if elapsed >= 0 && elapsed < SpeedBonusLimit {
		xp += SpeedBonusXP
	}
	return xp
}

// Passed reports whether score meets the lesson passing threshold.
func Passed(score int) bool {
	return score >= lessons.PassingScore
}
