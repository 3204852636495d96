package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/mathapp/internal/dashboard"
)

// progressRepo implements ProgressRepo.
type progressRepo struct {
	db *sql.DB
}

var progressColumnNames = []string{
	"user_id", "lesson_id", "status", "completed_exercises", "total_exercises",
	"best_score", "exp_earned", "attempts_count", "last_attempted_at", "completed_at",
}

func scanProgress(sc interface{ Scan(...any) error }) (Progress, error) {
	var (
		p         Progress
		status    string
		attempted sql.NullTime
		completed sql.NullTime
	)
	err := sc.Scan(&p.UserID, &p.LessonID, &status, &p.CompletedExercises, &p.TotalExercises,
		&p.BestScore, &p.ExpEarned, &p.AttemptsCount, &attempted, &completed)
	if err != nil {
		return Progress{}, err
	}
	p.Status = dashboard.ParseProgress(status)
	p.LastAttemptedAt = timePtr(attempted)
	p.CompletedAt = timePtr(completed)
	return p, nil
}

func (r *progressRepo) Get(ctx context.Context, userID, lessonID string) (Progress, error) {
	return r.get(ctx, r.db, userID, lessonID)
}

func (r *progressRepo) get(ctx context.Context, q querier, userID, lessonID string) (Progress, error) {
	stmt := builder.Select(progressColumnNames...).
		From(entsql.Table(tableProgress)).
		Where(entsql.And(entsql.EQ("user_id", userID), entsql.EQ("lesson_id", lessonID)))

	p, err := scanProgress(queryRowStmt(ctx, q, stmt))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Progress{UserID: userID, LessonID: lessonID, Status: dashboard.NotStarted}, nil
		}
		return Progress{}, fmt.Errorf("query progress: %w", err)
	}
	return p, nil
}

func (r *progressRepo) ListForUser(ctx context.Context, userID string) (map[string]Progress, error) {
	stmt := builder.Select(progressColumnNames...).
		From(entsql.Table(tableProgress)).
		Where(entsql.EQ("user_id", userID))

	rows, err := queryStmt(ctx, r.db, stmt)
	if err != nil {
		return nil, fmt.Errorf("query progress: %w", err)
	}
	defer rows.Close()

	out := make(map[string]Progress)
	for rows.Next() {
		p, err := scanProgress(rows)
		if err != nil {
			return nil, fmt.Errorf("scan progress: %w", err)
		}
		out[p.LessonID] = p
	}
	return out, rows.Err()
}

func (r *progressRepo) SetCompleted(ctx context.Context, userID, lessonID string, completed, total int, now time.Time) (Progress, error) {
	var out Progress
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		p, err := r.get(ctx, tx, userID, lessonID)
		if err != nil {
			return err
		}

		// Reports derived from a low score must not undo what an attempt
		// already recorded: status and the exercise count only grow.
		p.CompletedExercises = max(p.CompletedExercises, completed)
		p.TotalExercises = total
		p.Status = p.Status.Advance(dashboard.ProgressFor(completed, total))
		if p.Status == dashboard.Completed && p.CompletedAt == nil {
			p.CompletedAt = &now
		}

		if err := r.upsert(ctx, tx, p, now); err != nil {
			return err
		}
		out = p
		return nil
	})
	return out, err
}

func (r *progressRepo) RecordAttempt(ctx context.Context, a Attempt) (Progress, error) {
	var out Progress
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		p, err := r.get(ctx, tx, a.UserID, a.LessonID)
		if err != nil {
			return err
		}

		p.AttemptsCount++
		p.ExpEarned += a.XP
		p.BestScore = max(p.BestScore, a.Score)
		p.TotalExercises = a.Total
		at := a.At
		p.LastAttemptedAt = &at

		switch {
		case a.Passed:
			p.Status = dashboard.Completed
			p.CompletedExercises = a.Total
			if p.CompletedAt == nil {
				p.CompletedAt = &at
			}
		case p.Status != dashboard.Completed:
			p.Status = dashboard.InProgress
		}

		if err := r.upsert(ctx, tx, p, a.At); err != nil {
			return err
		}
		out = p
		return nil
	})
	return out, err
}

func (r *progressRepo) upsert(ctx context.Context, q querier, p Progress, now time.Time) error {
	stmt := builder.Insert(tableProgress).
		Columns(append(progressColumnNames, "updated_at")...).
		Values(p.UserID, p.LessonID, string(p.Status), p.CompletedExercises, p.TotalExercises,
			p.BestScore, p.ExpEarned, p.AttemptsCount,
			nullTime(p.LastAttemptedAt), nullTime(p.CompletedAt), now).
		OnConflict(
			entsql.ConflictColumns("user_id", "lesson_id"),
			entsql.ResolveWithNewValues(),
		)
	if _, err := execStmt(ctx, q, stmt); err != nil {
		return fmt.Errorf("upsert progress: %w", err)
	}
	return nil
}
