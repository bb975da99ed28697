package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

type FollowStore struct {
	db *sql.DB
}

func NewFollowStore(db *sql.DB) *FollowStore {
	return &FollowStore{db: db}
}

// Follow creates the (user, author) edge if it does not exist yet. The
// unique index makes this a get-or-create, so repeated and concurrent calls
// never produce a duplicate edge.
func (s *FollowStore) Follow(ctx context.Context, userID, authorID int64) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO follows(user_id,author_id,created_at) VALUES(?,?,?)`,
		userID, authorID, time.Now())
	if err != nil {
		return fmt.Errorf("follow: %w", err)
	}
	return nil
}

// Unfollow deletes the exact edge. ErrNotFound when it was never there,
// or a concurrent request already removed it.
func (s *FollowStore) Unfollow(ctx context.Context, userID, authorID int64) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM follows WHERE user_id = ? AND author_id = ?`, userID, authorID)
	if err != nil {
		return fmt.Errorf("unfollow: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("unfollow: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *FollowStore) IsFollowing(ctx context.Context, userID, authorID int64) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM follows WHERE user_id = ? AND author_id = ?`,
		userID, authorID).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("is following: %w", err)
	}
	return n > 0, nil
}

func (s *FollowStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM follows`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count follows: %w", err)
	}
	return n, nil
}
