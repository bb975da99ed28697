package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"microblog/internal/models"
)

type UserStore struct {
	db *sql.DB
}

func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{db: db}
}

func (s *UserStore) Create(ctx context.Context, email, username, passwordHash string) (*models.User, error) {
	now := time.Now()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO users(email,username,password_hash,created_at) VALUES(?,?,?,?)`,
		email, username, passwordHash, now)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	id, _ := res.LastInsertId()
	return &models.User{ID: id, Email: email, Username: username, PasswordHash: passwordHash, CreatedAt: now}, nil
}

func (s *UserStore) ByID(ctx context.Context, id int64) (*models.User, error) {
	return s.one(ctx, `SELECT id,email,username,password_hash,created_at FROM users WHERE id = ?`, id)
}

func (s *UserStore) ByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.one(ctx, `SELECT id,email,username,password_hash,created_at FROM users WHERE username = ?`, username)
}

func (s *UserStore) ByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.one(ctx, `SELECT id,email,username,password_hash,created_at FROM users WHERE email = ?`, email)
}

func (s *UserStore) one(ctx context.Context, q string, arg any) (*models.User, error) {
	var u models.User
	err := s.db.QueryRowContext(ctx, q, arg).
		Scan(&u.ID, &u.Email, &u.Username, &u.PasswordHash, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &u, nil
}
