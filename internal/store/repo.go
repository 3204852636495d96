package store

import (
	"context"
	"errors"
	"time"

	"github.com/abhisek/mathapp/internal/dashboard"
	"github.com/abhisek/mathapp/internal/lessons"
	"github.com/abhisek/mathapp/internal/session"
)

var (
	// ErrNotFound is returned when a requested row does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicate is returned when inserting a row whose key already exists.
	ErrDuplicate = errors.New("already exists")
)

// User is a registered learner.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// UserRepo manages learner accounts.
type UserRepo interface {
	// ByEmail returns the user with email, or ErrNotFound.
	ByEmail(ctx context.Context, email string) (*User, error)

	// ByID returns the user with id, or ErrNotFound.
	ByID(ctx context.Context, id string) (*User, error)

	// Create inserts u. Returns ErrDuplicate if the email is taken.
	Create(ctx context.Context, u *User) error
}

// Lesson is a persisted catalog lesson.
type Lesson struct {
	ID          string
	Key         string
	Title       string
	Description string
	Category    string
	Position    int
	CreatedAt   time.Time

	// Problems is only populated by LessonRepo.Get.
	Problems []lessons.Problem
}

// Domain converts the stored lesson into a lessons.Lesson ready to score.
func (l *Lesson) Domain() lessons.Lesson {
	return lessons.Lesson{
		ID:            l.ID,
		Title:         l.Title,
		Description:   l.Description,
		Problems:      l.Problems,
		TotalProblems: len(l.Problems),
		PassingScore:  lessons.PassingScore,
	}
}

// LessonRepo manages the lesson catalog.
type LessonRepo interface {
	// List returns all lessons in catalog order, without problems.
	List(ctx context.Context) ([]Lesson, error)

	// Get returns a lesson with its problems and options, or ErrNotFound.
	Get(ctx context.Context, id string) (*Lesson, error)

	// Save inserts or replaces a lesson together with its problems.
	Save(ctx context.Context, l *Lesson) error

	// Count returns the number of lessons in the catalog.
	Count(ctx context.Context) (int, error)
}

// Progress is one learner's standing on one lesson.
type Progress struct {
	UserID             string
	LessonID           string
	Status             dashboard.Progress
	CompletedExercises int
	TotalExercises     int
	BestScore          int
	ExpEarned          int
	AttemptsCount      int
	LastAttemptedAt    *time.Time
	CompletedAt        *time.Time
}

// Attempt is a graded lesson attempt to fold into Progress.
type Attempt struct {
	UserID   string
	LessonID string
	Score    int
	XP       int
	Total    int
	Passed   bool
	At       time.Time
}

// ProgressRepo tracks lesson progress per learner.
type ProgressRepo interface {
	// Get returns progress for one lesson; a never-touched lesson yields a
	// NotStarted record rather than an error.
	Get(ctx context.Context, userID, lessonID string) (Progress, error)

	// ListForUser returns progress keyed by lesson ID.
	ListForUser(ctx context.Context, userID string) (map[string]Progress, error)

	// SetCompleted stores the completed exercise count and derives status.
	SetCompleted(ctx context.Context, userID, lessonID string, completed, total int, now time.Time) (Progress, error)

	// RecordAttempt folds a graded attempt into the learner's progress.
	RecordAttempt(ctx context.Context, a Attempt) (Progress, error)
}

// Submission is a stored graded submission.
type Submission struct {
	ID        string
	Sequence  int64
	UserID    string
	LessonID  string
	Result    session.SubmissionResult
	CreatedAt time.Time
}

// SubmissionRepo stores graded submissions.
type SubmissionRepo interface {
	// Get returns the submission with id, or ErrNotFound.
	Get(ctx context.Context, id string) (*Submission, error)

	// Append stores sub and assigns its Sequence. Returns ErrDuplicate if
	// the ID was already used.
	Append(ctx context.Context, sub *Submission) error

	// Recent returns the newest submissions for a user, newest first.
	Recent(ctx context.Context, userID string, limit int) ([]Submission, error)
}

// SavedSession is the learner client's persisted login.
type SavedSession struct {
	UserID  string
	Name    string
	Email   string
	Token   string
	Guest   bool
	SavedAt time.Time
}

// SessionRepo persists the client login between runs.
type SessionRepo interface {
	// Save replaces the saved session.
	Save(ctx context.Context, s SavedSession) error

	// Load returns the saved session, or nil if none exists.
	Load(ctx context.Context) (*SavedSession, error)

	// Clear removes the saved session.
	Clear(ctx context.Context) error
}
