package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

// userRepo implements UserRepo.
type userRepo struct {
	db *sql.DB
}

var userColumns = []string{"id", "name", "email", "password_hash", "created_at"}

func (r *userRepo) ByEmail(ctx context.Context, email string) (*User, error) {
	return r.one(ctx, entsql.EQ("email", normalizeEmail(email)))
}

func (r *userRepo) ByID(ctx context.Context, id string) (*User, error) {
	return r.one(ctx, entsql.EQ("id", id))
}

func (r *userRepo) one(ctx context.Context, p *entsql.Predicate) (*User, error) {
	stmt := builder.Select(userColumns...).
		From(entsql.Table(tableUsers)).
		Where(p).
		Limit(1)

	var u User
	err := queryRowStmt(ctx, r.db, stmt).Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("query user: %w", err)
	}
	return &u, nil
}

func (r *userRepo) Create(ctx context.Context, u *User) error {
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	u.Email = normalizeEmail(u.Email)

	stmt := builder.Insert(tableUsers).
		Columns(userColumns...).
		Values(u.ID, u.Name, u.Email, u.PasswordHash, u.CreatedAt)
	if _, err := execStmt(ctx, r.db, stmt); err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
