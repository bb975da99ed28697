package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommentStore_ByPostInsertionOrder(t *testing.T) {
	dbc := openTestDB(t)
	posts := NewPostStore(dbc)
	comments := NewCommentStore(dbc)
	ctx := context.Background()
	alice := createTestUser(t, dbc, "alice")
	bob := createTestUser(t, dbc, "bob")

	postID, err := posts.Create(ctx, alice.ID, nil, "a post that collects comments", "")
	require.NoError(t, err)

	_, err = comments.Create(ctx, postID, bob.ID, "first")
	require.NoError(t, err)
	_, err = comments.Create(ctx, postID, alice.ID, "second")
	require.NoError(t, err)

	got, err := comments.ByPost(ctx, postID)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "first", got[0].Text)
	assert.Equal(t, "bob", got[0].Author)
	assert.Equal(t, "second", got[1].Text)
	assert.Equal(t, "alice", got[1].Author)

	t.Run("other posts stay empty", func(t *testing.T) {
		otherID, err := posts.Create(ctx, bob.ID, nil, "a post with no comments", "")
		require.NoError(t, err)
		got, err := comments.ByPost(ctx, otherID)
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}
