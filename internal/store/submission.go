package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/mathapp/internal/session"
)

// submissionRepo implements SubmissionRepo.
type submissionRepo struct {
	db  *sql.DB
	seq *sequenceCounter
}

var submissionColumns = []string{
	"id", "sequence", "user_id", "lesson_id", "score", "correct_count", "xp_earned", "results", "created_at",
}

// resultRow is the JSON shape of one per-problem result.
type resultRow struct {
	ProblemID      string `json:"problem_id"`
	IsCorrect      bool   `json:"is_correct"`
	CorrectAnswer  string `json:"correct_answer"`
	SelectedAnswer string `json:"selected_answer"`
}

func scanSubmission(sc interface{ Scan(...any) error }) (*Submission, error) {
	var (
		s       Submission
		results string
	)
	err := sc.Scan(&s.ID, &s.Sequence, &s.UserID, &s.LessonID,
		&s.Result.Score, &s.Result.CorrectCount, &s.Result.XPEarned, &results, &s.CreatedAt)
	if err != nil {
		return nil, err
	}
	var rows []resultRow
	if err := json.Unmarshal([]byte(results), &rows); err != nil {
		return nil, fmt.Errorf("decode results: %w", err)
	}
	s.Result.SubmissionID = s.ID
	s.Result.Results = make([]session.ProblemResult, len(rows))
	for i, r := range rows {
		s.Result.Results[i] = session.ProblemResult(r)
	}
	return &s, nil
}

func (r *submissionRepo) Get(ctx context.Context, id string) (*Submission, error) {
	stmt := builder.Select(submissionColumns...).
		From(entsql.Table(tableSubmissions)).
		Where(entsql.EQ("id", id)).
		Limit(1)

	s, err := scanSubmission(queryRowStmt(ctx, r.db, stmt))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("query submission: %w", err)
	}
	return s, nil
}

func (r *submissionRepo) Append(ctx context.Context, sub *Submission) error {
	rows := make([]resultRow, len(sub.Result.Results))
	for i, res := range sub.Result.Results {
		rows[i] = resultRow(res)
	}
	encoded, err := json.Marshal(rows)
	if err != nil {
		return fmt.Errorf("encode results: %w", err)
	}

	seq, err := r.seq.Next(ctx)
	if err != nil {
		return err
	}
	if sub.CreatedAt.IsZero() {
		sub.CreatedAt = time.Now().UTC()
	}

	stmt := builder.Insert(tableSubmissions).
		Columns(submissionColumns...).
		Values(sub.ID, seq, sub.UserID, sub.LessonID,
			sub.Result.Score, sub.Result.CorrectCount, sub.Result.XPEarned, string(encoded), sub.CreatedAt)
	if _, err := execStmt(ctx, r.db, stmt); err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("insert submission: %w", err)
	}
	sub.Sequence = seq
	return nil
}

func (r *submissionRepo) Recent(ctx context.Context, userID string, limit int) ([]Submission, error) {
	stmt := builder.Select(submissionColumns...).
		From(entsql.Table(tableSubmissions)).
		Where(entsql.EQ("user_id", userID)).
		OrderBy(entsql.Desc("sequence"))
	if limit > 0 {
		stmt.Limit(limit)
	}

	rows, err := queryStmt(ctx, r.db, stmt)
	if err != nil {
		return nil, fmt.Errorf("query submissions: %w", err)
	}
	defer rows.Close()

	var out []Submission
	for rows.Next() {
		s, err := scanSubmission(rows)
		if err != nil {
			return nil, fmt.Errorf("scan submission: %w", err)
		}
		out = append(out, *s)
	}
	return out, rows.Err()
}
