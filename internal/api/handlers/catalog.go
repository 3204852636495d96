package handlers

import (
	"context"
	"fmt"
	"time"

	"github.com/abhisek/mathapp/internal/dashboard"
	"github.com/abhisek/mathapp/internal/store"
)

// dateLayout is the completion date format sent to clients.
const dateLayout = "2006-01-02"

// catalogEntry is a catalog lesson joined with one learner's progress.
type catalogEntry struct {
	Lesson   store.Lesson
	Progress store.Progress
}

// Summary converts the entry into a dashboard row. Real exercise counts are
// used once progress has been reported; otherwise counts follow the label.
func (e catalogEntry) Summary() dashboard.LessonSummary {
	s := dashboard.LessonSummary{
		ID:             e.Lesson.ID,
		Title:          e.Lesson.Title,
		Description:    e.Lesson.Description,
		Category:       e.Lesson.Category,
		Progress:       e.Progress.Status,
		Score:          e.Progress.BestScore,
		ExpEarned:      e.Progress.ExpEarned,
		CompletionDate: formatDate(e.Progress.CompletedAt),
	}.WithDisplayCounts()

	if e.Progress.TotalExercises > 0 {
		s.TotalExercises = e.Progress.TotalExercises
		s.CompletedExercises = e.Progress.CompletedExercises
	}
	return s
}

// catalog reads lessons and progress from the store for one learner.
type catalog struct {
	lessons  store.LessonRepo
	progress store.ProgressRepo
}

func (c catalog) forUser(ctx context.Context, userID string) ([]catalogEntry, error) {
	lessons, err := c.lessons.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list lessons: %w", err)
	}
	progress, err := c.progress.ListForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list progress: %w", err)
	}

	out := make([]catalogEntry, len(lessons))
	for i, l := range lessons {
		p, ok := progress[l.ID]
		if !ok {
			p = store.Progress{UserID: userID, LessonID: l.ID, Status: dashboard.NotStarted}
		}
		out[i] = catalogEntry{Lesson: l, Progress: p}
	}
	return out, nil
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(dateLayout)
}

func formatTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.UTC().Format(time.RFC3339)
	return &s
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
