package session

import (
	"time"

	"github.com/abhisek/mathapp/internal/lessons"
)

// LessonState tracks a learner working through one lesson.
type LessonState struct {
	// Lesson is the lesson being taken.
	Lesson lessons.Lesson

	// SubmissionID identifies this attempt; it is generated once when the
	// lesson starts so a retried submit is idempotent.
	SubmissionID string

	// Current is the index of the problem on screen.
	Current int

	// selected maps problem ID to chosen option ID.
	selected map[string]string

	// StartTime is when the learner opened the lesson.
	StartTime time.Time

	// Elapsed is refreshed by the timer tick.
	Elapsed time.Duration
}

// NewLessonState starts a lesson attempt at now.
func NewLessonState(lesson lessons.Lesson, submissionID string, now time.Time) *LessonState {
	return &LessonState{
		Lesson:       lesson,
		SubmissionID: submissionID,
		selected:     make(map[string]string),
		StartTime:    now,
	}
}

// CurrentProblem returns the problem on screen, or nil for an empty lesson.
func (s *LessonState) CurrentProblem() *lessons.Problem {
	if s.Current < 0 || s.Current >= len(s.Lesson.Problems) {
		return nil
	}
	return &s.Lesson.Problems[s.Current]
}

// Select records the option at index for the current problem. Out of range
// indexes are ignored.
func (s *LessonState) Select(index int) bool {
	p := s.CurrentProblem()
	if p == nil || index < 0 || index >= len(p.Options) {
		return false
	}
	s.selected[p.ID] = p.Options[index].ID
	return true
}

// SelectedIndex returns the option index chosen for the current problem,
// or -1.
func (s *LessonState) SelectedIndex() int {
	p := s.CurrentProblem()
	if p == nil {
		return -1
	}
	id, ok := s.selected[p.ID]
	if !ok {
		return -1
	}
	for i, o := range p.Options {
		if o.ID == id {
			return i
		}
	}
	return -1
}

// Next moves forward one problem. Returns false at the last problem.
func (s *LessonState) Next() bool {
	if s.Current >= len(s.Lesson.Problems)-1 {
		return false
	}
	s.Current++
	return true
}

// Prev moves back one problem. Returns false at the first problem.
func (s *LessonState) Prev() bool {
	if s.Current <= 0 {
		return false
	}
	s.Current--
	return true
}

// AnsweredCount is the number of problems with a selection.
func (s *LessonState) AnsweredCount() int {
	return len(s.selected)
}

// AllAnswered reports whether every problem has a selection.
func (s *LessonState) AllAnswered() bool {
	return len(s.selected) == len(s.Lesson.Problems)
}

// Answers returns one record per problem in lesson order; skipped problems
// carry a nil selection.
func (s *LessonState) Answers() []AnswerRecord {
	out := make([]AnswerRecord, 0, len(s.Lesson.Problems))
	for _, p := range s.Lesson.Problems {
		rec := AnswerRecord{ProblemID: p.ID}
		if id, ok := s.selected[p.ID]; ok {
			rec.SelectedOptionID = &id
		}
		out = append(out, rec)
	}
	return out
}
