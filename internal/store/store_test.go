package store

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"

	"microblog/internal/db"
	"microblog/internal/models"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	dbc, err := db.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { dbc.Close() })
	require.NoError(t, db.Migrate(dbc))
	return dbc
}

func createTestUser(t *testing.T, dbc *sql.DB, username string) *models.User {
	t.Helper()
	u, err := NewUserStore(dbc).Create(context.Background(), username+"@example.com", username, "x")
	require.NoError(t, err)
	return u
}
