package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"microblog/internal/models"
)

type CommentStore struct {
	db *sql.DB
}

func NewCommentStore(db *sql.DB) *CommentStore {
	return &CommentStore{db: db}
}

func (s *CommentStore) Create(ctx context.Context, postID, authorID int64, text string) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO comments(post_id,author_id,text,created_at) VALUES(?,?,?,?)`,
		postID, authorID, text, time.Now())
	if err != nil {
		return 0, fmt.Errorf("create comment: %w", err)
	}
	return res.LastInsertId()
}

// ByPost lists a post's comments in insertion order.
func (s *CommentStore) ByPost(ctx context.Context, postID int64) ([]models.Comment, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT c.id, c.post_id, c.author_id, u.username, c.text, c.created_at
		FROM comments c JOIN users u ON u.id = c.author_id
		WHERE c.post_id = ? ORDER BY c.created_at, c.id`, postID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	defer rows.Close()

	var comments []models.Comment
	for rows.Next() {
		var c models.Comment
		if err := rows.Scan(&c.ID, &c.PostID, &c.AuthorID, &c.Author, &c.Text, &c.Created); err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}
