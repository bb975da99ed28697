package models

import "time"

type User struct {
	ID           int64
	Email        string
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}

// Group is a named category posts can optionally belong to. Groups are
// created by migrations/operators; there is no group CRUD surface.
type Group struct {
	ID          int64
	Title       string
	Slug        string
	Description string
}

type Post struct {
	ID       int64
	AuthorID int64
	Author   string // username, joined in by the store
	GroupID  *int64
	Group    string // group title, empty when ungrouped
	Slug     string // group slug, empty when ungrouped
	Text     string
	Image    string // media filename, empty when no image
	PubDate  time.Time
}

type Comment struct {
	ID       int64
	PostID   int64
	AuthorID int64
	Author   string
	Text     string
	Created  time.Time
}

// Follow is a directed subscription edge: UserID follows AuthorID.
// At most one edge per pair.
type Follow struct {
	ID        int64
	UserID    int64
	AuthorID  int64
	CreatedAt time.Time
}
