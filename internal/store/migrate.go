package store

import (
	"context"
	"fmt"

	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

// Table and column names shared by the repositories.
const (
	tableUsers       = "users"
	tableLessons     = "lessons"
	tableProblems    = "problems"
	tableOptions     = "problem_options"
	tableProgress    = "lesson_progress"
	tableSubmissions = "submissions"
	tableSessions    = "client_sessions"
)

var (
	usersColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString},
		{Name: "name", Type: field.TypeString},
		{Name: "email", Type: field.TypeString, Unique: true},
		{Name: "password_hash", Type: field.TypeString},
		{Name: "created_at", Type: field.TypeTime},
	}
	usersTable = &schema.Table{
		Name:       tableUsers,
		Columns:    usersColumns,
		PrimaryKey: []*schema.Column{usersColumns[0]},
	}

	lessonsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString},
		{Name: "lesson_key", Type: field.TypeString, Unique: true},
		{Name: "title", Type: field.TypeString},
		{Name: "description", Type: field.TypeString},
		{Name: "category", Type: field.TypeString},
		{Name: "position", Type: field.TypeInt},
		{Name: "created_at", Type: field.TypeTime},
	}
	lessonsTable = &schema.Table{
		Name:       tableLessons,
		Columns:    lessonsColumns,
		PrimaryKey: []*schema.Column{lessonsColumns[0]},
	}

	problemsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString},
		{Name: "lesson_id", Type: field.TypeString},
		{Name: "question", Type: field.TypeString},
		{Name: "correct_answer", Type: field.TypeInt, Nullable: true},
		{Name: "reward_xp", Type: field.TypeInt},
		{Name: "position", Type: field.TypeInt},
	}
	problemsTable = &schema.Table{
		Name:       tableProblems,
		Columns:    problemsColumns,
		PrimaryKey: []*schema.Column{problemsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "problem_lesson_position", Columns: []*schema.Column{problemsColumns[1], problemsColumns[5]}},
		},
	}

	optionsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString},
		{Name: "problem_id", Type: field.TypeString},
		{Name: "option_text", Type: field.TypeString},
		{Name: "position", Type: field.TypeInt},
	}
	optionsTable = &schema.Table{
		Name:       tableOptions,
		Columns:    optionsColumns,
		PrimaryKey: []*schema.Column{optionsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "option_problem_position", Columns: []*schema.Column{optionsColumns[1], optionsColumns[3]}},
		},
	}

	progressColumns = []*schema.Column{
		{Name: "user_id", Type: field.TypeString},
		{Name: "lesson_id", Type: field.TypeString},
		{Name: "status", Type: field.TypeString},
		{Name: "completed_exercises", Type: field.TypeInt, Default: 0},
		{Name: "total_exercises", Type: field.TypeInt, Default: 0},
		{Name: "best_score", Type: field.TypeInt, Default: 0},
		{Name: "exp_earned", Type: field.TypeInt, Default: 0},
		{Name: "attempts_count", Type: field.TypeInt, Default: 0},
		{Name: "last_attempted_at", Type: field.TypeTime, Nullable: true},
		{Name: "completed_at", Type: field.TypeTime, Nullable: true},
		{Name: "updated_at", Type: field.TypeTime},
	}
	progressTable = &schema.Table{
		Name:       tableProgress,
		Columns:    progressColumns,
		PrimaryKey: []*schema.Column{progressColumns[0], progressColumns[1]},
	}

	submissionsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "user_id", Type: field.TypeString},
		{Name: "lesson_id", Type: field.TypeString},
		{Name: "score", Type: field.TypeInt},
		{Name: "correct_count", Type: field.TypeInt},
		{Name: "xp_earned", Type: field.TypeInt},
		{Name: "results", Type: field.TypeString, Size: 1 << 20},
		{Name: "created_at", Type: field.TypeTime},
	}
	submissionsTable = &schema.Table{
		Name:       tableSubmissions,
		Columns:    submissionsColumns,
		PrimaryKey: []*schema.Column{submissionsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "submission_user_created", Columns: []*schema.Column{submissionsColumns[2], submissionsColumns[8]}},
		},
	}

	sessionsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt},
		{Name: "user_id", Type: field.TypeString},
		{Name: "name", Type: field.TypeString},
		{Name: "email", Type: field.TypeString},
		{Name: "token", Type: field.TypeString},
		{Name: "guest", Type: field.TypeBool, Default: false},
		{Name: "saved_at", Type: field.TypeTime},
	}
	sessionsTable = &schema.Table{
		Name:       tableSessions,
		Columns:    sessionsColumns,
		PrimaryKey: []*schema.Column{sessionsColumns[0]},
	}

	// Tables holds every table managed by the store.
	Tables = []*schema.Table{
		usersTable,
		lessonsTable,
		problemsTable,
		optionsTable,
		progressTable,
		submissionsTable,
		sessionsTable,
	}
)

// migrate creates or upgrades all tables through ent's migration engine.
func migrate(ctx context.Context, s *Store) error {
	m, err := schema.NewMigrate(s.drv)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}
	if err := m.Create(ctx, Tables...); err != nil {
		return fmt.Errorf("create tables: %w", err)
	}
	return nil
}
