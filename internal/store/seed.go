package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/abhisek/mathapp/internal/lessons"
	"github.com/abhisek/mathapp/internal/problemgen"
)

// lessonNamespace derives stable lesson IDs from registry keys.
var lessonNamespace = uuid.MustParse("6f0c2a1e-5d3b-4f7a-9c61-2b8e4d1a7c35")

// LessonID returns the stable catalog ID for a registry key.
func LessonID(key string) string {
	return uuid.NewSHA1(lessonNamespace, []byte(key)).String()
}

var categories = map[string]string{
	"basic-arithmetic":       "Arithmetic",
	"multiplication-mastery": "Multiplication",
	"division-basics":        "Division",
	"mixed-practice":         "Mixed",
}

// SeedCatalog assembles and stores every registry lesson when the catalog is
// empty. Problems are generated once so every learner sees the same set.
// Returns the number of lessons written.
func (s *Store) SeedCatalog(ctx context.Context, asm *lessons.Assembler) (int, error) {
	repo := s.LessonRepo()
	n, err := repo.Count(ctx)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		return 0, nil
	}

	defs := lessons.Definitions()
	catalog := make([]*Lesson, 0, len(defs))
	for i, def := range defs {
		assembled := asm.Assemble(def.Key)

		problems := rekeyProblems(def.Key, assembled.Problems)
		for _, p := range problems {
			if err := validateProblem(p); err != nil {
				return 0, fmt.Errorf("lesson %s: %w", def.Key, err)
			}
		}

		catalog = append(catalog, &Lesson{
			ID:          LessonID(def.Key),
			Key:         def.Key,
			Title:       def.Title,
			Description: def.Description,
			Category:    categories[def.Key],
			Position:    i + 1,
			Problems:    problems,
		})
	}

	// All or nothing: a partial catalog would be skipped on the next start.
	err = withTx(ctx, s.db, func(tx *sql.Tx) error {
		for _, l := range catalog {
			if err := saveLesson(ctx, tx, l); err != nil {
				return fmt.Errorf("save lesson %s: %w", l.Key, err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(catalog), nil
}

// SeedUser creates u unless a user with the same email already exists.
func (s *Store) SeedUser(ctx context.Context, u User) error {
	err := s.UserRepo().Create(ctx, &u)
	if errors.Is(err, ErrDuplicate) {
		return nil
	}
	return err
}

// rekeyProblems gives problems catalog-wide IDs of the form
// "<lesson key>-p<order>" and rebuilds option IDs to match.
func rekeyProblems(key string, problems []lessons.Problem) []lessons.Problem {
	out := make([]lessons.Problem, len(problems))
	for i, p := range problems {
		p.ID = fmt.Sprintf("%s-p%d", key, p.Order)
		opts := make([]problemgen.Option, len(p.Options))
		for j, o := range p.Options {
			opts[j] = problemgen.Option{ID: fmt.Sprintf("%s-option-%d", p.ID, j), Text: o.Text}
		}
		p.Options = opts
		out[i] = p
	}
	return out
}

// validateProblem checks a lesson problem before it enters the catalog.
func validateProblem(p lessons.Problem) error {
	if p.CorrectAnswer == nil {
		return fmt.Errorf("problem %s has no answer", p.ID)
	}
	if len(p.Options) != problemgen.OptionCount {
		return fmt.Errorf("problem %s has %d options", p.ID, len(p.Options))
	}
	if _, ok := problemgen.CorrectOption(p.Options, *p.CorrectAnswer); !ok {
		return fmt.Errorf("problem %s: no option carries the answer", p.ID)
	}
	return problemgen.Validate(&problemgen.Problem{
		ID:            p.ID,
		Question:      p.Question,
		CorrectAnswer: *p.CorrectAnswer,
		Operation:     operationOf(p.Question),
		Difficulty:    problemgen.MinDifficulty,
		Explanation:   p.Question,
	}, &problemgen.MathCheckValidator{}, &problemgen.OperandValidator{})
}

func operationOf(question string) problemgen.Operation {
	for _, op := range problemgen.Operations {
		if strings.Contains(question, " "+op.Symbol()+" ") {
			return op
		}
	}
	return problemgen.Addition
}
