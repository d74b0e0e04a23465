package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapErrorToHTTP(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"validation", NewValidationError("Passwords do not match"), http.StatusBadRequest, "VALIDATION_ERROR"},
		{"wrapped validation", fmt.Errorf("register: %w", NewValidationError("x")), http.StatusBadRequest, "VALIDATION_ERROR"},
		{"username taken", ErrUsernameTaken, http.StatusBadRequest, "USERNAME_TAKEN"},
		{"email taken", ErrEmailTaken, http.StatusBadRequest, "EMAIL_TAKEN"},
		{"duplicate key", fmt.Errorf("create user: %w", ErrDuplicateKey), http.StatusBadRequest, "CONFLICT"},
		{"identity linked", ErrIdentityLinked, http.StatusBadRequest, "IDENTITY_LINKED"},
		{"bad credentials", ErrInvalidCredentials, http.StatusUnauthorized, "INVALID_CREDENTIALS"},
		{"bad token", ErrInvalidToken, http.StatusUnauthorized, "INVALID_TOKEN"},
		{"already voted", fmt.Errorf("cast vote: %w", ErrAlreadyVoted), http.StatusBadRequest, "ALREADY_VOTED"},
		{"no candidate", ErrCandidateNotFound, http.StatusNotFound, "CANDIDATE_NOT_FOUND"},
		{"no user", ErrUserNotFound, http.StatusNotFound, "USER_NOT_FOUND"},
		{"federation", fmt.Errorf("%w: userinfo returned 502", ErrFederation), http.StatusInternalServerError, "FEDERATION_FAILED"},
		{"unknown", errors.New("disk on fire"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			httpErr := MapErrorToHTTP(tt.err)
			assert.Equal(t, tt.wantStatus, httpErr.StatusCode)
			assert.Equal(t, tt.wantCode, httpErr.Code)
		})
	}
}

func TestMapErrorToHTTP_InternalHidesDetails(t *testing.T) {
	httpErr := MapErrorToHTTP(errors.New("dial tcp 10.0.0.3:3306: connection refused"))
	assert.Equal(t, "internal server error", httpErr.ToErrorResponse().Error)
}
