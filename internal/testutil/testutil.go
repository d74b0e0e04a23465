package testutil

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"votely/internal/db"
	"votely/internal/model"
	"votely/internal/repository"
)

// TestJWTSecret signs session tokens in tests.
const TestJWTSecret = "test-secret"

// NewDB returns an isolated, migrated SQLite database seeded with the default
// candidates. The file lives in the test's temp dir and is removed afterwards.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	gormDB, err := db.Open(db.DriverSQLite, filepath.Join(t.TempDir(), "votely.db"))
	require.NoError(t, err, "open test database")
	require.NoError(t, db.Migrate(gormDB), "migrate test database")

	_, err = db.SeedCandidates(gormDB, db.DefaultCandidates)
	require.NoError(t, err, "seed candidates")

	t.Cleanup(func() {
		if sqlDB, err := gormDB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return gormDB
}

// NewRepositories returns a fresh database and its repositories.
func NewRepositories(t *testing.T) (*gorm.DB, *repository.Repositories) {
	t.Helper()
	gormDB := NewDB(t)
	return gormDB, repository.New(gormDB)
}

// CreateUser inserts a local user with a placeholder password hash.
func CreateUser(t *testing.T, repos *repository.Repositories, username string) *model.User {
	t.Helper()

	user := &model.User{
		Username:     username,
		Email:        fmt.Sprintf("%s@example.com", username),
		PasswordHash: "not-a-real-hash",
		Name:         username,
	}
	require.NoError(t, repos.Users.Create(context.Background(), user), "create user %s", username)
	return user
}

// Candidate returns the current state of a candidate.
func Candidate(t *testing.T, repos *repository.Repositories, id uint) *model.Candidate {
	t.Helper()
	candidate, err := repos.Candidates.FindByID(context.Background(), id)
	require.NoError(t, err, "find candidate %d", id)
	return candidate
}
