package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

// savedSessionID is the primary key of the single saved-session row.
const savedSessionID = 1

// sessionRepo implements SessionRepo.
type sessionRepo struct {
	db *sql.DB
}

func (r *sessionRepo) Save(ctx context.Context, s SavedSession) error {
	if s.SavedAt.IsZero() {
		s.SavedAt = time.Now().UTC()
	}
	stmt := builder.Insert(tableSessions).
		Columns("id", "user_id", "name", "email", "token", "guest", "saved_at").
		Values(savedSessionID, s.UserID, s.Name, s.Email, s.Token, s.Guest, s.SavedAt).
		OnConflict(
			entsql.ConflictColumns("id"),
			entsql.ResolveWithNewValues(),
		)
	if _, err := execStmt(ctx, r.db, stmt); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (r *sessionRepo) Load(ctx context.Context) (*SavedSession, error) {
	stmt := builder.Select("user_id", "name", "email", "token", "guest", "saved_at").
		From(entsql.Table(tableSessions)).
		Where(entsql.EQ("id", savedSessionID))

	var s SavedSession
	err := queryRowStmt(ctx, r.db, stmt).Scan(&s.UserID, &s.Name, &s.Email, &s.Token, &s.Guest, &s.SavedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("load session: %w", err)
	}
	return &s, nil
}

func (r *sessionRepo) Clear(ctx context.Context) error {
	if _, err := execStmt(ctx, r.db, builder.Delete(tableSessions)); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}
