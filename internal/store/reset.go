package store

import (
	"context"
	"database/sql"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"
)

// ResetCounts reports how many rows a Reset removed.
type ResetCounts struct {
	Progress    int64
	Submissions int64
}

// Reset deletes progress and submissions for userID, or for every learner
// when userID is empty. The catalog and accounts are kept.
func (s *Store) Reset(ctx context.Context, userID string) (ResetCounts, error) {
	var counts ResetCounts
	err := withTx(ctx, s.db, func(tx *sql.Tx) error {
		progress := builder.Delete(tableProgress)
		submissions := builder.Delete(tableSubmissions)
		if userID != "" {
			progress.Where(entsql.EQ("user_id", userID))
			submissions.Where(entsql.EQ("user_id", userID))
		}

		res, err := execStmt(ctx, tx, progress)
		if err != nil {
			return fmt.Errorf("delete progress: %w", err)
		}
		counts.Progress, _ = res.RowsAffected()

		res, err = execStmt(ctx, tx, submissions)
		if err != nil {
			return fmt.Errorf("delete submissions: %w", err)
		}
		counts.Submissions, _ = res.RowsAffected()
		return nil
	})
	if err != nil {
		return ResetCounts{}, err
	}

	if userID == "" {
		if err := s.seq.reset(ctx); err != nil {
			return counts, err
		}
	}
	return counts, nil
}
