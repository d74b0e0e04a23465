package service

import (
	"context"

	"github.com/stretchr/testify/mock"

	"votely/internal/model"
)

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) user(args mock.Arguments) (*model.User, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uint) (*model.User, error) {
	return m.user(m.Called(ctx, id))
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	return m.user(m.Called(ctx, username))
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return m.user(m.Called(ctx, email))
}

func (m *MockUserRepository) FindByGoogleID(ctx context.Context, googleID string) (*model.User, error) {
	return m.user(m.Called(ctx, googleID))
}

func (m *MockUserRepository) FindByLinkedInID(ctx context.Context, linkedInID string) (*model.User, error) {
	return m.user(m.Called(ctx, linkedInID))
}

func (m *MockUserRepository) FindBySocialID(ctx context.Context, provider model.Provider, socialID string) (*model.User, error) {
	return m.user(m.Called(ctx, provider, socialID))
}

func (m *MockUserRepository) LinkSocialID(ctx context.Context, userID uint, provider model.Provider, socialID string) error {
	args := m.Called(ctx, userID, provider, socialID)
	return args.Error(0)
}

func (m *MockUserRepository) SetVoted(ctx context.Context, userID uint) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockUserRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserRepository) CountVoted(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}
