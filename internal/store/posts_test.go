package store

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostStore_CreateAndByID(t *testing.T) {
	dbc := openTestDB(t)
	posts := NewPostStore(dbc)
	ctx := context.Background()
	alice := createTestUser(t, dbc, "alice")

	groupID := int64(1) // seeded "General"
	id, err := posts.Create(ctx, alice.ID, &groupID, "hello from the store tests", "")
	require.NoError(t, err)

	p, err := posts.ByID(ctx, "alice", id)
	require.NoError(t, err)
	assert.Equal(t, "hello from the store tests", p.Text)
	assert.Equal(t, "alice", p.Author)
	assert.Equal(t, alice.ID, p.AuthorID)
	require.NotNil(t, p.GroupID)
	assert.Equal(t, groupID, *p.GroupID)
	assert.Equal(t, "General", p.Group)
	assert.Equal(t, "general", p.Slug)
	assert.False(t, p.PubDate.IsZero())

	t.Run("wrong username is not found", func(t *testing.T) {
		_, err := posts.ByID(ctx, "bob", id)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("unknown id is not found", func(t *testing.T) {
		_, err := posts.ByID(ctx, "alice", id+1000)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestPostStore_Update(t *testing.T) {
	dbc := openTestDB(t)
	posts := NewPostStore(dbc)
	ctx := context.Background()
	alice := createTestUser(t, dbc, "alice")

	id, err := posts.Create(ctx, alice.ID, nil, "original text, long enough", "")
	require.NoError(t, err)
	before, err := posts.ByID(ctx, "alice", id)
	require.NoError(t, err)

	groupID := int64(2)
	require.NoError(t, posts.Update(ctx, id, &groupID, "edited text, still long enough", "pic.png"))

	after, err := posts.ByID(ctx, "alice", id)
	require.NoError(t, err)
	assert.Equal(t, "edited text, still long enough", after.Text)
	require.NotNil(t, after.GroupID)
	assert.Equal(t, groupID, *after.GroupID)
	assert.Equal(t, "pic.png", after.Image)
	// immutable fields
	assert.Equal(t, before.AuthorID, after.AuthorID)
	assert.Equal(t, before.PubDate.Unix(), after.PubDate.Unix())
}

func TestPostStore_LatestPagination(t *testing.T) {
	dbc := openTestDB(t)
	posts := NewPostStore(dbc)
	ctx := context.Background()
	alice := createTestUser(t, dbc, "alice")

	for i := 0; i < 15; i++ {
		_, err := posts.Create(ctx, alice.ID, nil, fmt.Sprintf("post number %02d padded out", i), "")
		require.NoError(t, err)
	}

	count, err := posts.CountAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 15, count)

	first, err := posts.Latest(ctx, 10, 0)
	require.NoError(t, err)
	require.Len(t, first, 10)
	// newest first
	assert.Equal(t, "post number 14 padded out", first[0].Text)

	second, err := posts.Latest(ctx, 10, 10)
	require.NoError(t, err)
	require.Len(t, second, 5)
	assert.Equal(t, "post number 04 padded out", second[0].Text)
	assert.Equal(t, "post number 00 padded out", second[4].Text)
}

func TestPostStore_ByGroupAndByAuthor(t *testing.T) {
	dbc := openTestDB(t)
	posts := NewPostStore(dbc)
	ctx := context.Background()
	alice := createTestUser(t, dbc, "alice")
	bob := createTestUser(t, dbc, "bob")

	groupID := int64(3)
	_, err := posts.Create(ctx, alice.ID, &groupID, "a grouped post from alice", "")
	require.NoError(t, err)
	_, err = posts.Create(ctx, bob.ID, nil, "an ungrouped post from bob", "")
	require.NoError(t, err)

	grouped, err := posts.ByGroup(ctx, groupID, 10, 0)
	require.NoError(t, err)
	require.Len(t, grouped, 1)
	assert.Equal(t, "alice", grouped[0].Author)

	n, err := posts.CountByGroup(ctx, groupID)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	byBob, err := posts.ByAuthor(ctx, bob.ID, 10, 0)
	require.NoError(t, err)
	require.Len(t, byBob, 1)
	assert.Equal(t, "an ungrouped post from bob", byBob[0].Text)

	n, err = posts.CountByAuthor(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestPostStore_Feed(t *testing.T) {
	dbc := openTestDB(t)
	posts := NewPostStore(dbc)
	follows := NewFollowStore(dbc)
	ctx := context.Background()
	alice := createTestUser(t, dbc, "alice")
	bob := createTestUser(t, dbc, "bob")
	carol := createTestUser(t, dbc, "carol")

	_, err := posts.Create(ctx, bob.ID, nil, "bob writes about something", "")
	require.NoError(t, err)
	_, err = posts.Create(ctx, carol.ID, nil, "carol writes about something", "")
	require.NoError(t, err)

	require.NoError(t, follows.Follow(ctx, alice.ID, bob.ID))

	feed, err := posts.Feed(ctx, alice.ID, 10, 0)
	require.NoError(t, err)
	require.Len(t, feed, 1)
	assert.Equal(t, "bob", feed[0].Author)

	n, err := posts.CountFeed(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	t.Run("non-follower sees an empty feed", func(t *testing.T) {
		feed, err := posts.Feed(ctx, carol.ID, 10, 0)
		require.NoError(t, err)
		assert.Empty(t, feed)
	})

	t.Run("unfollow removes the author's posts", func(t *testing.T) {
		require.NoError(t, follows.Unfollow(ctx, alice.ID, bob.ID))
		feed, err := posts.Feed(ctx, alice.ID, 10, 0)
		require.NoError(t, err)
		assert.Empty(t, feed)
	})
}
