package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"votely/internal/auth"
	apperrors "votely/internal/errors"
	"votely/internal/model"
)

const testSecret = "test-secret"

func TestAuthService_Register(t *testing.T) {
	valid := RegisterInput{Username: "alice", Email: "alice@x.com", Password: "secret1", ConfirmPassword: "secret1"}

	tests := []struct {
		name          string
		input         RegisterInput
		setupMock     func(*MockUserRepository)
		expectedError error
		expectedMsg   string
	}{
		{
			name:  "successful registration",
			input: valid,
			setupMock: func(m *MockUserRepository) {
				m.On("FindByUsername", mock.Anything, "alice").Return(nil, apperrors.ErrUserNotFound)
				m.On("FindByEmail", mock.Anything, "alice@x.com").Return(nil, apperrors.ErrUserNotFound)
				m.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).
					Run(func(args mock.Arguments) { args.Get(1).(*model.User).ID = 42 }).
					Return(nil)
			},
		},
		{
			name:        "missing field",
			input:       RegisterInput{Username: "alice", Email: "alice@x.com", Password: "secret1"},
			setupMock:   func(m *MockUserRepository) {},
			expectedMsg: "All fields are required",
		},
		{
			name:        "blank username",
			input:       RegisterInput{Username: "   ", Email: "alice@x.com", Password: "secret1", ConfirmPassword: "secret1"},
			setupMock:   func(m *MockUserRepository) {},
			expectedMsg: "All fields are required",
		},
		{
			name:        "passwords do not match",
			input:       RegisterInput{Username: "alice", Email: "alice@x.com", Password: "secret1", ConfirmPassword: "secret2"},
			setupMock:   func(m *MockUserRepository) {},
			expectedMsg: "Passwords do not match",
		},
		{
			name:        "password too short",
			input:       RegisterInput{Username: "alice", Email: "alice@x.com", Password: "abc", ConfirmPassword: "abc"},
			setupMock:   func(m *MockUserRepository) {},
			expectedMsg: "Password must be at least 6 characters",
		},
		{
			name:        "password too long",
			input:       RegisterInput{Username: "alice", Email: "alice@x.com", Password: strings.Repeat("a", 80), ConfirmPassword: strings.Repeat("a", 80)},
			setupMock:   func(m *MockUserRepository) {},
			expectedMsg: "Password must be at most 72 bytes",
		},
		{
			name:  "username taken",
			input: valid,
			setupMock: func(m *MockUserRepository) {
				m.On("FindByUsername", mock.Anything, "alice").Return(&model.User{ID: 1}, nil)
			},
			expectedError: apperrors.ErrUsernameTaken,
		},
		{
			name:  "email taken",
			input: valid,
			setupMock: func(m *MockUserRepository) {
				m.On("FindByUsername", mock.Anything, "alice").Return(nil, apperrors.ErrUserNotFound)
				m.On("FindByEmail", mock.Anything, "alice@x.com").Return(&model.User{ID: 1}, nil)
			},
			expectedError: apperrors.ErrEmailTaken,
		},
		{
			name:  "lost race on insert",
			input: valid,
			setupMock: func(m *MockUserRepository) {
				m.On("FindByUsername", mock.Anything, "alice").Return(nil, apperrors.ErrUserNotFound)
				m.On("FindByEmail", mock.Anything, "alice@x.com").Return(nil, apperrors.ErrUserNotFound)
				m.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(apperrors.ErrDuplicateKey)
			},
			expectedError: apperrors.ErrConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			tt.setupMock(mockRepo)
			jwtService := auth.NewJWTService(testSecret)
			svc := NewAuthService(mockRepo, jwtService)

			result, err := svc.Register(context.Background(), tt.input)

			switch {
			case tt.expectedMsg != "":
				var validationErr *apperrors.ValidationError
				require.ErrorAs(t, err, &validationErr)
				assert.Equal(t, tt.expectedMsg, validationErr.Message)
				assert.Nil(t, result)
			case tt.expectedError != nil:
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, result)
			default:
				require.NoError(t, err)
				require.NotNil(t, result)
				assert.Equal(t, "alice", result.User.Username)
				assert.False(t, result.User.HasVoted)

				claims, ok := jwtService.VerifyToken(result.Token)
				require.True(t, ok)
				assert.Equal(t, uint(42), claims.UserID)
				assert.Equal(t, "alice", claims.Username)
				assert.False(t, claims.HasVoted)
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestAuthService_RegisterHashesPassword(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockRepo.On("FindByUsername", mock.Anything, "alice").Return(nil, apperrors.ErrUserNotFound)
	mockRepo.On("FindByEmail", mock.Anything, "alice@x.com").Return(nil, apperrors.ErrUserNotFound)

	var stored *model.User
	mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).
		Run(func(args mock.Arguments) { stored = args.Get(1).(*model.User) }).
		Return(nil)

	svc := NewAuthService(mockRepo, auth.NewJWTService(testSecret))
	_, err := svc.Register(context.Background(), RegisterInput{
		Username: "alice", Email: "alice@x.com", Password: "secret1", ConfirmPassword: "secret1",
	})
	require.NoError(t, err)

	require.NotNil(t, stored)
	assert.NotEqual(t, "secret1", stored.PasswordHash)
	cost, err := bcrypt.Cost([]byte(stored.PasswordHash))
	require.NoError(t, err)
	assert.GreaterOrEqual(t, cost, 10)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("secret1")))
}

func TestAuthService_Login(t *testing.T) {
	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("secret1"), bcrypt.MinCost)
	alice := &model.User{ID: 3, Username: "alice", Email: "alice@x.com", PasswordHash: string(hashedPassword), HasVoted: true}

	tests := []struct {
		name          string
		username      string
		password      string
		setupMock     func(*MockUserRepository)
		expectedError error
	}{
		{
			name:     "successful login",
			username: "alice",
			password: "secret1",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByUsername", mock.Anything, "alice").Return(alice, nil)
			},
		},
		{
			name:     "wrong password",
			username: "alice",
			password: "wrong",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByUsername", mock.Anything, "alice").Return(alice, nil)
			},
			expectedError: apperrors.ErrInvalidCredentials,
		},
		{
			name:     "unknown user",
			username: "mallory",
			password: "secret1",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByUsername", mock.Anything, "mallory").Return(nil, apperrors.ErrUserNotFound)
			},
			expectedError: apperrors.ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			tt.setupMock(mockRepo)
			jwtService := auth.NewJWTService(testSecret)
			svc := NewAuthService(mockRepo, jwtService)

			result, err := svc.Login(context.Background(), tt.username, tt.password)

			if tt.expectedError != nil {
				assert.Equal(t, tt.expectedError, err)
				assert.Nil(t, result)
			} else {
				require.NoError(t, err)
				claims, ok := jwtService.VerifyToken(result.Token)
				require.True(t, ok)
				assert.Equal(t, uint(3), claims.UserID)
				assert.True(t, claims.HasVoted)
				assert.True(t, result.User.HasVoted)
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestAuthService_Profile(t *testing.T) {
	jwtService := auth.NewJWTService(testSecret)
	alice := &model.User{ID: 3, Username: "alice", Email: "alice@x.com", HasVoted: true}
	token, err := jwtService.GenerateToken(&model.User{ID: 3, Username: "alice"})
	require.NoError(t, err)

	t.Run("reads current state", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockRepo.On("FindByID", mock.Anything, uint(3)).Return(alice, nil)
		svc := NewAuthService(mockRepo, jwtService)

		view, err := svc.Profile(context.Background(), token)
		require.NoError(t, err)
		assert.True(t, view.HasVoted, "has_voted comes from the store, not the token")
		assert.Equal(t, "alice", view.Name)
		mockRepo.AssertExpectations(t)
	})

	t.Run("invalid token", func(t *testing.T) {
		svc := NewAuthService(new(MockUserRepository), jwtService)
		_, err := svc.Profile(context.Background(), "garbage")
		assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
	})

	t.Run("deleted user", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockRepo.On("FindByID", mock.Anything, uint(3)).Return(nil, apperrors.ErrUserNotFound)
		svc := NewAuthService(mockRepo, jwtService)

		_, err := svc.Profile(context.Background(), token)
		assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
	})
}
