package repository_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "votely/internal/errors"
	"votely/internal/model"
	"votely/internal/testutil"
)

func TestUserRepository_CreateAndFind(t *testing.T) {
	_, repos := testutil.NewRepositories(t)
	ctx := context.Background()

	user := testutil.CreateUser(t, repos, "alice")
	require.NotZero(t, user.ID)

	byName, err := repos.Users.FindByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byName.ID)
	assert.False(t, byName.HasVoted)

	byEmail, err := repos.Users.FindByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)

	byID, err := repos.Users.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", byID.Username)
}

func TestUserRepository_LookupsAreExactMatch(t *testing.T) {
	_, repos := testutil.NewRepositories(t)
	testutil.CreateUser(t, repos, "alice")

	_, err := repos.Users.FindByUsername(context.Background(), "Alice")
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)

	_, err = repos.Users.FindByID(context.Background(), 999)
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}

func TestUserRepository_CreateDuplicate(t *testing.T) {
	tests := []struct {
		name string
		user model.User
	}{
		{"duplicate username", model.User{Username: "alice", Email: "other@example.com", PasswordHash: "h"}},
		{"duplicate email", model.User{Username: "alice2", Email: "alice@example.com", PasswordHash: "h"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, repos := testutil.NewRepositories(t)
			testutil.CreateUser(t, repos, "alice")

			user := tt.user
			err := repos.Users.Create(context.Background(), &user)
			assert.ErrorIs(t, err, apperrors.ErrDuplicateKey)
		})
	}
}

func TestUserRepository_SocialIDs(t *testing.T) {
	_, repos := testutil.NewRepositories(t)
	ctx := context.Background()

	alice := testutil.CreateUser(t, repos, "alice")
	bob := testutil.CreateUser(t, repos, "bob")

	require.NoError(t, repos.Users.LinkSocialID(ctx, alice.ID, model.ProviderGoogle, "g-123"))
	require.NoError(t, repos.Users.LinkSocialID(ctx, alice.ID, model.ProviderLinkedIn, "li-9"))

	found, err := repos.Users.FindByGoogleID(ctx, "g-123")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, found.ID)

	found, err = repos.Users.FindByLinkedInID(ctx, "li-9")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, found.ID)

	// The same subject id must not be linked to a second user.
	err = repos.Users.LinkSocialID(ctx, bob.ID, model.ProviderGoogle, "g-123")
	assert.ErrorIs(t, err, apperrors.ErrDuplicateKey)

	// Users without social ids do not collide on NULL.
	_, err = repos.Users.FindByGoogleID(ctx, "missing")
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)

	// Relinking the same subject is a no-op.
	require.NoError(t, repos.Users.LinkSocialID(ctx, alice.ID, model.ProviderGoogle, "g-123"))

	// A different subject never replaces an existing link.
	err = repos.Users.LinkSocialID(ctx, alice.ID, model.ProviderGoogle, "g-456")
	assert.ErrorIs(t, err, apperrors.ErrIdentityLinked)
	stored, err := repos.Users.FindByID(ctx, alice.ID)
	require.NoError(t, err)
	linked, ok := stored.SocialID(model.ProviderGoogle)
	require.True(t, ok)
	assert.Equal(t, "g-123", linked)

	err = repos.Users.LinkSocialID(ctx, 999, model.ProviderGoogle, "g-999")
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)

	err = repos.Users.LinkSocialID(ctx, alice.ID, model.Provider("github"), "x")
	assert.ErrorIs(t, err, apperrors.ErrUnknownProvider)
}

func TestUserRepository_SetVotedAndCounts(t *testing.T) {
	_, repos := testutil.NewRepositories(t)
	ctx := context.Background()

	alice := testutil.CreateUser(t, repos, "alice")
	testutil.CreateUser(t, repos, "bob")

	require.NoError(t, repos.Users.SetVoted(ctx, alice.ID))

	total, err := repos.Users.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)

	voted, err := repos.Users.CountVoted(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), voted)

	assert.ErrorIs(t, repos.Users.SetVoted(ctx, 999), apperrors.ErrUserNotFound)
}
