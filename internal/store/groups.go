package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"microblog/internal/models"
)

type GroupStore struct {
	db *sql.DB
}

func NewGroupStore(db *sql.DB) *GroupStore {
	return &GroupStore{db: db}
}

func (s *GroupStore) BySlug(ctx context.Context, slug string) (*models.Group, error) {
	var g models.Group
	err := s.db.QueryRowContext(ctx,
		`SELECT id,title,slug,description FROM groups WHERE slug = ?`, slug).
		Scan(&g.ID, &g.Title, &g.Slug, &g.Description)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get group: %w", err)
	}
	return &g, nil
}

// All lists groups for the new-post form's group selector.
func (s *GroupStore) All(ctx context.Context) ([]models.Group, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id,title,slug,description FROM groups ORDER BY title`)
	if err != nil {
		return nil, fmt.Errorf("list groups: %w", err)
	}
	defer rows.Close()

	var groups []models.Group
	for rows.Next() {
		var g models.Group
		if err := rows.Scan(&g.ID, &g.Title, &g.Slug, &g.Description); err != nil {
			return nil, fmt.Errorf("scan group: %w", err)
		}
		groups = append(groups, g)
	}
	return groups, rows.Err()
}
