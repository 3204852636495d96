package lessons

import "github.com/abhisek/mathapp/internal/problemgen"

const (
	// DefaultRewardXP is the XP attached to every assembled problem.
	DefaultRewardXP = 10

	// PassingScore is the minimum percentage score that passes a lesson.
	PassingScore = 70
)

// Lesson is an ordered set of multiple-choice problems.
type Lesson struct {
	ID            string
	Title         string
	Description   string
	Problems      []Problem
	TotalProblems int
	PassingScore  int
	IsCompleted   bool
	BestScore     int
}

// Problem is a lesson problem with its answer choices.
type Problem struct {
	ID       string
	Question string
	RewardXP int

	// Order is the 1-based position within the lesson.
	Order   int
	Options []problemgen.Option

	// CorrectAnswer is set only for locally assembled lessons. Remote
	// payloads never carry it.
	CorrectAnswer *int
}

// Option returns the option with the given ID.
func (p Problem) Option(id string) (problemgen.Option, bool) {
	for _, o := range p.Options {
		if o.ID == id {
			return o, true
		}
	}
	return problemgen.Option{}, false
}
