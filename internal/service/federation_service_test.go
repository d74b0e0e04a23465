package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "votely/internal/errors"
	"votely/internal/model"
	"votely/internal/testutil"
)

func googleProfile(sub, email, name string) *model.SocialProfile {
	return &model.SocialProfile{Provider: model.ProviderGoogle, SubjectID: sub, Email: email, DisplayName: name}
}

func TestFederationService_CreatesNewUser(t *testing.T) {
	_, repos := testutil.NewRepositories(t)
	svc := &federationService{userRepo: repos.Users, suffix: func() int { return 7 }}

	user, err := svc.Resolve(context.Background(), googleProfile("g-1", "", "Alice  Smith"))
	require.NoError(t, err)

	assert.Equal(t, "alicesmith7", user.Username)
	assert.Equal(t, "g-1@google.oauth", user.Email)
	assert.Equal(t, "Alice  Smith", user.Name)
	assert.NotEmpty(t, user.PasswordHash)
	id, ok := user.SocialID(model.ProviderGoogle)
	require.True(t, ok)
	assert.Equal(t, "g-1", id)
}

func TestFederationService_IdempotentPerSubject(t *testing.T) {
	_, repos := testutil.NewRepositories(t)
	svc := NewFederationService(repos.Users)
	ctx := context.Background()

	first, err := svc.Resolve(ctx, googleProfile("g-1", "alice@x.com", "Alice"))
	require.NoError(t, err)

	// A changed profile still resolves to the same user.
	second, err := svc.Resolve(ctx, googleProfile("g-1", "new@x.com", "Alice B"))
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	count, err := repos.Users.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestFederationService_LinksByEmail(t *testing.T) {
	_, repos := testutil.NewRepositories(t)
	ctx := context.Background()
	alice := testutil.CreateUser(t, repos, "alice")
	svc := NewFederationService(repos.Users)

	user, err := svc.Resolve(ctx, &model.SocialProfile{
		Provider: model.ProviderLinkedIn, SubjectID: "li-5", Email: "alice@example.com", DisplayName: "Alice",
	})
	require.NoError(t, err)
	assert.Equal(t, alice.ID, user.ID)

	stored, err := repos.Users.FindByID(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "not-a-real-hash", stored.PasswordHash, "local password survives linking")
	id, ok := stored.SocialID(model.ProviderLinkedIn)
	require.True(t, ok)
	assert.Equal(t, "li-5", id)

	count, err := repos.Users.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	// Google and LinkedIn subjects can be linked onto the same user.
	again, err := svc.Resolve(ctx, googleProfile("g-9", "alice@example.com", "Alice"))
	require.NoError(t, err)
	assert.Equal(t, alice.ID, again.ID)
}

func TestFederationService_KeepsExistingLink(t *testing.T) {
	_, repos := testutil.NewRepositories(t)
	ctx := context.Background()
	alice := testutil.CreateUser(t, repos, "alice")
	require.NoError(t, repos.Users.LinkSocialID(ctx, alice.ID, model.ProviderGoogle, "g-1"))
	svc := NewFederationService(repos.Users)

	_, err := svc.Resolve(ctx, googleProfile("g-2", "alice@example.com", "Alice"))
	assert.ErrorIs(t, err, apperrors.ErrFederation)

	stored, err := repos.Users.FindByID(ctx, alice.ID)
	require.NoError(t, err)
	id, ok := stored.SocialID(model.ProviderGoogle)
	require.True(t, ok)
	assert.Equal(t, "g-1", id)

	count, err := repos.Users.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestFederationService_RetriesUsernameCollision(t *testing.T) {
	_, repos := testutil.NewRepositories(t)
	testutil.CreateUser(t, repos, "bob1")

	suffixes := []int{1, 1, 2}
	svc := &federationService{userRepo: repos.Users, suffix: func() int {
		s := suffixes[0]
		suffixes = suffixes[1:]
		return s
	}}

	user, err := svc.Resolve(context.Background(), googleProfile("g-2", "", "Bob"))
	require.NoError(t, err)
	assert.Equal(t, "bob2", user.Username)
}

func TestFederationService_GivesUpAfterBoundedAttempts(t *testing.T) {
	_, repos := testutil.NewRepositories(t)
	testutil.CreateUser(t, repos, "bob1")
	svc := &federationService{userRepo: repos.Users, suffix: func() int { return 1 }}

	_, err := svc.Resolve(context.Background(), googleProfile("g-2", "", "Bob"))
	assert.ErrorIs(t, err, apperrors.ErrFederation)
}

func TestFederationService_LinkRaceResolvesToWinner(t *testing.T) {
	winner := &model.User{ID: 9, Username: "alice"}
	mockRepo := new(MockUserRepository)
	mockRepo.On("FindBySocialID", mock.Anything, model.ProviderGoogle, "g-1").Return(nil, apperrors.ErrUserNotFound).Once()
	mockRepo.On("FindByEmail", mock.Anything, "alice@x.com").Return(&model.User{ID: 9}, nil).Once()
	mockRepo.On("LinkSocialID", mock.Anything, uint(9), model.ProviderGoogle, "g-1").Return(apperrors.ErrDuplicateKey).Once()
	mockRepo.On("FindBySocialID", mock.Anything, model.ProviderGoogle, "g-1").Return(winner, nil).Once()

	svc := &federationService{userRepo: mockRepo, suffix: func() int { return 0 }}
	user, err := svc.Resolve(context.Background(), googleProfile("g-1", "alice@x.com", "Alice"))
	require.NoError(t, err)
	assert.Same(t, winner, user)
	mockRepo.AssertExpectations(t)
}

func TestFederationService_StoreFailureIsFederationError(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockRepo.On("FindBySocialID", mock.Anything, model.ProviderGoogle, "g-1").Return(nil, assert.AnError)

	svc := NewFederationService(mockRepo)
	_, err := svc.Resolve(context.Background(), googleProfile("g-1", "alice@x.com", "Alice"))
	assert.ErrorIs(t, err, apperrors.ErrFederation)

	_, err = svc.Resolve(context.Background(), &model.SocialProfile{Provider: model.ProviderGoogle})
	assert.ErrorIs(t, err, apperrors.ErrFederation)
}

func TestUsernameBase(t *testing.T) {
	tests := map[string]string{
		"Alice Smith":   "alicesmith",
		" Jean\tLuc ":   "jeanluc",
		"":              "user",
		"   ":           "user",
		"ÉMILE Zola":    "émilezola",
	}
	for in, want := range tests {
		assert.Equal(t, want, usernameBase(in), in)
	}
}
