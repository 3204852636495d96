package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/mathapp/internal/lessons"
	"github.com/abhisek/mathapp/internal/problemgen"
)

// lessonRepo implements LessonRepo.
type lessonRepo struct {
	db *sql.DB
}

var lessonColumns = []string{"id", "lesson_key", "title", "description", "category", "position", "created_at"}

func (r *lessonRepo) List(ctx context.Context) ([]Lesson, error) {
	stmt := builder.Select(lessonColumns...).
		From(entsql.Table(tableLessons)).
		OrderBy("position", "title")

	rows, err := queryStmt(ctx, r.db, stmt)
	if err != nil {
		return nil, fmt.Errorf("query lessons: %w", err)
	}
	defer rows.Close()

	var out []Lesson
	for rows.Next() {
		var l Lesson
		if err := rows.Scan(&l.ID, &l.Key, &l.Title, &l.Description, &l.Category, &l.Position, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan lesson: %w", err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (r *lessonRepo) Get(ctx context.Context, id string) (*Lesson, error) {
	stmt := builder.Select(lessonColumns...).
		From(entsql.Table(tableLessons)).
		Where(entsql.EQ("id", id)).
		Limit(1)

	var l Lesson
	err := queryRowStmt(ctx, r.db, stmt).
		Scan(&l.ID, &l.Key, &l.Title, &l.Description, &l.Category, &l.Position, &l.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("query lesson: %w", err)
	}

	problems, err := r.problems(ctx, id)
	if err != nil {
		return nil, err
	}
	l.Problems = problems
	return &l, nil
}

// problems loads a lesson's problems and options in display order. Rows are
// fully drained before the next query since the store uses one connection.
func (r *lessonRepo) problems(ctx context.Context, lessonID string) ([]lessons.Problem, error) {
	stmt := builder.Select("id", "question", "correct_answer", "reward_xp", "position").
		From(entsql.Table(tableProblems)).
		Where(entsql.EQ("lesson_id", lessonID)).
		OrderBy("position")

	rows, err := queryStmt(ctx, r.db, stmt)
	if err != nil {
		return nil, fmt.Errorf("query problems: %w", err)
	}

	var problems []lessons.Problem
	index := map[string]int{}
	for rows.Next() {
		var (
			p      lessons.Problem
			answer sql.NullInt64
		)
		if err := rows.Scan(&p.ID, &p.Question, &answer, &p.RewardXP, &p.Order); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan problem: %w", err)
		}
		if answer.Valid {
			n := int(answer.Int64)
			p.CorrectAnswer = &n
		}
		index[p.ID] = len(problems)
		problems = append(problems, p)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate problems: %w", err)
	}
	if len(problems) == 0 {
		return problems, nil
	}

	ids := make([]any, 0, len(problems))
	for _, p := range problems {
		ids = append(ids, p.ID)
	}
	optStmt := builder.Select("id", "problem_id", "option_text").
		From(entsql.Table(tableOptions)).
		Where(entsql.In("problem_id", ids...)).
		OrderBy("problem_id", "position")

	optRows, err := queryStmt(ctx, r.db, optStmt)
	if err != nil {
		return nil, fmt.Errorf("query options: %w", err)
	}
	defer optRows.Close()

	for optRows.Next() {
		var o problemgen.Option
		var problemID string
		if err := optRows.Scan(&o.ID, &problemID, &o.Text); err != nil {
			return nil, fmt.Errorf("scan option: %w", err)
		}
		if i, ok := index[problemID]; ok {
			problems[i].Options = append(problems[i].Options, o)
		}
	}
	return problems, optRows.Err()
}

func (r *lessonRepo) Save(ctx context.Context, l *Lesson) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		return saveLesson(ctx, tx, l)
	})
}

// saveLesson upserts l and replaces its problem set within tx.
func saveLesson(ctx context.Context, tx *sql.Tx, l *Lesson) error {
	if l.CreatedAt.IsZero() {
		l.CreatedAt = time.Now().UTC()
	}

	// Replace any previous problem set for this lesson.
	existing := builder.Select("id").From(entsql.Table(tableProblems)).Where(entsql.EQ("lesson_id", l.ID))
	if _, err := execStmt(ctx, tx, builder.Delete(tableOptions).Where(entsql.In("problem_id", existing))); err != nil {
		return fmt.Errorf("delete options: %w", err)
	}
	if _, err := execStmt(ctx, tx, builder.Delete(tableProblems).Where(entsql.EQ("lesson_id", l.ID))); err != nil {
		return fmt.Errorf("delete problems: %w", err)
	}

	lessonStmt := builder.Insert(tableLessons).
		Columns(lessonColumns...).
		Values(l.ID, l.Key, l.Title, l.Description, l.Category, l.Position, l.CreatedAt).
		OnConflict(
			entsql.ConflictColumns("id"),
			entsql.ResolveWithNewValues(),
		)
	if _, err := execStmt(ctx, tx, lessonStmt); err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("upsert lesson: %w", err)
	}

	for _, p := range l.Problems {
		var answer any
		if p.CorrectAnswer != nil {
			answer = *p.CorrectAnswer
		}
		ps := builder.Insert(tableProblems).
			Columns("id", "lesson_id", "question", "correct_answer", "reward_xp", "position").
			Values(p.ID, l.ID, p.Question, answer, p.RewardXP, p.Order)
		if _, err := execStmt(ctx, tx, ps); err != nil {
			return fmt.Errorf("insert problem %s: %w", p.ID, err)
		}

		if len(p.Options) == 0 {
			continue
		}
		ins := builder.Insert(tableOptions).Columns("id", "problem_id", "option_text", "position")
		for i, o := range p.Options {
			ins.Values(o.ID, p.ID, o.Text, i)
		}
		if _, err := execStmt(ctx, tx, ins); err != nil {
			return fmt.Errorf("insert options for %s: %w", p.ID, err)
		}
	}
	return nil
}

func (r *lessonRepo) Count(ctx context.Context) (int, error) {
	stmt := builder.Select(entsql.Count("*")).From(entsql.Table(tableLessons))

	var n int
	if err := queryRowStmt(ctx, r.db, stmt).Scan(&n); err != nil {
		return 0, fmt.Errorf("count lessons: %w", err)
	}
	return n, nil
}
