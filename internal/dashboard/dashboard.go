// Package dashboard derives learner-facing statistics from a lesson list.
package dashboard

import (
	"strings"

	"github.com/abhisek/mathapp/internal/session"
)

// Progress is a learner's state for one lesson.
type Progress string

const (
	NotStarted Progress = "Not Started"
	InProgress Progress = "In Progress"
	Completed  Progress = "Completed"
)

// ParseProgress maps a stored label to a Progress. Unknown labels are
// treated as NotStarted.
func ParseProgress(s string) Progress {
	switch Progress(s) {
	case InProgress:
		return InProgress
	case Completed:
		return Completed
	}
	return NotStarted
}

// rank orders states: NotStarted < InProgress < Completed.
func (p Progress) rank() int {
	switch p {
	case InProgress:
		return 1
	case Completed:
		return 2
	}
	return 0
}

// Advance returns the further along of p and next. Stored progress only
// ever moves forward.
func (p Progress) Advance(next Progress) Progress {
	if next.rank() > p.rank() {
		return next
	}
	return p
}

// ProgressFor derives the progress label from completed exercise counts.
func ProgressFor(completed, total int) Progress {
	switch {
	case completed <= 0:
		return NotStarted
	case total > 0 && completed >= total:
		return Completed
	default:
		return InProgress
	}
}

// Difficulty is the display difficulty of a lesson.
type Difficulty string

const (
	Beginner     Difficulty = "Beginner"
	Intermediate Difficulty = "Intermediate"
	Advanced     Difficulty = "Advanced"
)

// DifficultyFor infers a difficulty from a lesson name.
func DifficultyFor(name string) Difficulty {
	n := strings.ToLower(name)
	switch {
	case strings.Contains(n, "basic"), strings.Contains(n, "arithmetic"):
		return Beginner
	case strings.Contains(n, "advanced"), strings.Contains(n, "fraction"):
		return Advanced
	}
	return Intermediate
}

// displayExercises is the nominal exercise count used when only a progress
// label is known.
const displayExercises = 10

// LessonSummary is one row of the dashboard lesson list.
type LessonSummary struct {
	ID                 string
	Title              string
	Description        string
	Category           string
	Difficulty         Difficulty
	Progress           Progress
	Score              int
	ExpEarned          int
	CompletionDate     string
	TotalExercises     int
	CompletedExercises int
}

// WithDisplayCounts fills in exercise counts and descriptive fields from the
// progress label and name, for lessons that arrived without them.
func (l LessonSummary) WithDisplayCounts() LessonSummary {
	l.TotalExercises = displayExercises
	switch l.Progress {
	case Completed:
		l.CompletedExercises = displayExercises
	case InProgress:
		l.CompletedExercises = displayExercises / 2
	default:
		l.CompletedExercises = 0
	}
	if l.Difficulty == "" {
		l.Difficulty = DifficultyFor(l.Title)
	}
	if l.Description == "" {
		l.Description = "Learn " + strings.ToLower(l.Title)
	}
	return l
}

// Stats is the dashboard header. It is always derived, never stored.
type Stats struct {
	LessonsAvailable int
	LessonsCompleted int
	OverallProgress  int
}

// Aggregate computes Stats from lessons. An empty list yields all zeros.
func Aggregate(lessons []LessonSummary) Stats {
	completed := 0
	for _, l := range lessons {
		if l.Progress == Completed {
			completed++
		}
	}
	return Stats{
		LessonsAvailable: len(lessons),
		LessonsCompleted: completed,
		OverallProgress:  session.Percent(completed, len(lessons)),
	}
}
