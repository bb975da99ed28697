package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"microblog/internal/models"
)

type PostStore struct {
	db *sql.DB
}

func NewPostStore(db *sql.DB) *PostStore {
	return &PostStore{db: db}
}

const postCols = `p.id, p.author_id, u.username, p.group_id,
	IFNULL(g.title,''), IFNULL(g.slug,''), p.text, p.image, p.pub_date
	FROM posts p
	JOIN users u ON u.id = p.author_id
	LEFT JOIN groups g ON g.id = p.group_id`

// Create persists a new post. PubDate is set here and never updated.
func (s *PostStore) Create(ctx context.Context, authorID int64, groupID *int64, text, image string) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO posts(author_id,group_id,text,image,pub_date) VALUES(?,?,?,?,?)`,
		authorID, nullableID(groupID), text, image, time.Now())
	if err != nil {
		return 0, fmt.Errorf("create post: %w", err)
	}
	return res.LastInsertId()
}

// Update rewrites the mutable fields: text, group and image. Author and
// pub_date stay as created.
func (s *PostStore) Update(ctx context.Context, id int64, groupID *int64, text, image string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE posts SET text = ?, group_id = ?, image = ? WHERE id = ?`,
		text, nullableID(groupID), image, id)
	if err != nil {
		return fmt.Errorf("update post: %w", err)
	}
	return nil
}

// ByID looks a post up by its author's username plus the post id, the pair
// every post URL carries.
func (s *PostStore) ByID(ctx context.Context, username string, id int64) (*models.Post, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+postCols+` WHERE p.id = ? AND u.username = ?`, id, username)
	p, err := scanPost(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get post: %w", err)
	}
	return p, nil
}

func (s *PostStore) Latest(ctx context.Context, limit, offset int) ([]models.Post, error) {
	return s.list(ctx, `SELECT `+postCols+` ORDER BY p.pub_date DESC, p.id DESC LIMIT ? OFFSET ?`,
		limit, offset)
}

func (s *PostStore) CountAll(ctx context.Context) (int, error) {
	return s.count(ctx, `SELECT COUNT(*) FROM posts`)
}

func (s *PostStore) ByGroup(ctx context.Context, groupID int64, limit, offset int) ([]models.Post, error) {
	return s.list(ctx, `SELECT `+postCols+` WHERE p.group_id = ?
		ORDER BY p.pub_date DESC, p.id DESC LIMIT ? OFFSET ?`,
		groupID, limit, offset)
}

func (s *PostStore) CountByGroup(ctx context.Context, groupID int64) (int, error) {
	return s.count(ctx, `SELECT COUNT(*) FROM posts WHERE group_id = ?`, groupID)
}

func (s *PostStore) ByAuthor(ctx context.Context, authorID int64, limit, offset int) ([]models.Post, error) {
	return s.list(ctx, `SELECT `+postCols+` WHERE p.author_id = ?
		ORDER BY p.pub_date DESC, p.id DESC LIMIT ? OFFSET ?`,
		authorID, limit, offset)
}

func (s *PostStore) CountByAuthor(ctx context.Context, authorID int64) (int, error) {
	return s.count(ctx, `SELECT COUNT(*) FROM posts WHERE author_id = ?`, authorID)
}

// Feed returns posts whose author the given user follows.
func (s *PostStore) Feed(ctx context.Context, userID int64, limit, offset int) ([]models.Post, error) {
	return s.list(ctx, `SELECT `+postCols+`
		WHERE p.author_id IN (SELECT author_id FROM follows WHERE user_id = ?)
		ORDER BY p.pub_date DESC, p.id DESC LIMIT ? OFFSET ?`,
		userID, limit, offset)
}

func (s *PostStore) CountFeed(ctx context.Context, userID int64) (int, error) {
	return s.count(ctx, `SELECT COUNT(*) FROM posts
		WHERE author_id IN (SELECT author_id FROM follows WHERE user_id = ?)`, userID)
}

func (s *PostStore) list(ctx context.Context, q string, args ...any) ([]models.Post, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	var posts []models.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		posts = append(posts, *p)
	}
	return posts, rows.Err()
}

func (s *PostStore) count(ctx context.Context, q string, args ...any) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, q, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count posts: %w", err)
	}
	return n, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPost(row scanner) (*models.Post, error) {
	var p models.Post
	var gid sql.NullInt64
	err := row.Scan(&p.ID, &p.AuthorID, &p.Author, &gid, &p.Group, &p.Slug,
		&p.Text, &p.Image, &p.PubDate)
	if err != nil {
		return nil, err
	}
	if gid.Valid {
		p.GroupID = &gid.Int64
	}
	return &p, nil
}

func nullableID(id *int64) any {
	if id == nil {
		return nil
	}
	return *id
}
