package userstore

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	apimodels "github.com/oleamind/cropplanner/internal/api/models"
)

// setupUserStoreTestDB connects to a real Postgres instance and migrates
// the account tables, skipping the test entirely when no test database is
// configured.
func setupUserStoreTestDB(t *testing.T) *Store {
	host := os.Getenv("TEST_DB_HOST")
	if host == "" {
		t.Skip("Skipping test: TEST_DB_HOST not set")
	}
	dsn := fmt.Sprintf("host=%s user=postgres password=postgres dbname=cropplanner_test port=5432 sslmode=disable", host)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	store := New(db)
	require.NoError(t, store.Migrate())
	db.Exec("DELETE FROM sessions")
	db.Exec("DELETE FROM users")
	return store
}

func TestStore_CreateAndFindByEmail(t *testing.T) {
	store := setupUserStoreTestDB(t)
	ctx := context.Background()

	u := apimodels.User{Email: "operator@example.com", Password: "hashed", Active: true}
	require.NoError(t, store.Create(ctx, &u))
	require.NotZero(t, u.ID)

	found, err := store.FindByEmail(ctx, "operator@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, found.ID)
}

func TestStore_FindByEmail_NotFoundReturnsSentinel(t *testing.T) {
	store := setupUserStoreTestDB(t)
	_, err := store.FindByEmail(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_FindByID_NotFoundReturnsSentinel(t *testing.T) {
	store := setupUserStoreTestDB(t)
	_, err := store.FindByID(context.Background(), 999999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_RecordLoginSetsLastLogin(t *testing.T) {
	store := setupUserStoreTestDB(t)
	ctx := context.Background()

	u := apimodels.User{Email: "login@example.com", Password: "hashed", Active: true}
	require.NoError(t, store.Create(ctx, &u))
	require.NoError(t, store.RecordLogin(ctx, &u))
	assert.NotNil(t, u.LastLogin)
}
