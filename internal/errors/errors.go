package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrDuplicateKey is returned by the store when a unique constraint is violated.
	ErrDuplicateKey = errors.New("duplicate key")
	// ErrUserNotFound is returned when a user does not exist.
	ErrUserNotFound = errors.New("user not found")
	// ErrCandidateNotFound is returned when a candidate does not exist.
	ErrCandidateNotFound = errors.New("candidate not found")
	// ErrAlreadyVoted is returned when a user tries to vote a second time.
	ErrAlreadyVoted = errors.New("you have already voted")
	// ErrInvalidCredentials is returned for any failed password login.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrInvalidToken is returned when a session token is missing, malformed or expired.
	ErrInvalidToken = errors.New("invalid or expired token")
	// ErrUsernameTaken is returned when registering an existing username.
	ErrUsernameTaken = errors.New("username already taken")
	// ErrEmailTaken is returned when registering an existing email.
	ErrEmailTaken = errors.New("email already registered")
	// ErrConflict is returned when a uniqueness violation cannot be attributed to one field.
	ErrConflict = errors.New("account already exists")
	// ErrIdentityLinked is returned when a user is already linked to another subject of the provider.
	ErrIdentityLinked = errors.New("account already linked to another identity")
	// ErrUnknownProvider is returned for provider names outside the supported set.
	ErrUnknownProvider = errors.New("unknown oauth provider")
	// ErrProviderNotConfigured is returned when a provider has no client credentials.
	ErrProviderNotConfigured = errors.New("oauth provider not configured")
	// ErrFederation is returned when an OAuth login cannot be completed.
	ErrFederation = errors.New("federated login failed")
)

// ValidationError is a user-correctable input error.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError creates a new validation error.
func NewValidationError(message string) *ValidationError {
	return &ValidationError{Message: message}
}

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors.
func MapErrorToHTTP(err error) *HTTPError {
	var validationErr *ValidationError
	switch {
	case errors.As(err, &validationErr):
		return NewHTTPError(http.StatusBadRequest, validationErr.Message, "VALIDATION_ERROR")
	case errors.Is(err, ErrUsernameTaken):
		return NewHTTPError(http.StatusBadRequest, ErrUsernameTaken.Error(), "USERNAME_TAKEN")
	case errors.Is(err, ErrEmailTaken):
		return NewHTTPError(http.StatusBadRequest, ErrEmailTaken.Error(), "EMAIL_TAKEN")
	case errors.Is(err, ErrConflict), errors.Is(err, ErrDuplicateKey):
		return NewHTTPError(http.StatusBadRequest, ErrConflict.Error(), "CONFLICT")
	case errors.Is(err, ErrIdentityLinked):
		return NewHTTPError(http.StatusBadRequest, ErrIdentityLinked.Error(), "IDENTITY_LINKED")
	case errors.Is(err, ErrInvalidCredentials):
		return NewHTTPError(http.StatusUnauthorized, ErrInvalidCredentials.Error(), "INVALID_CREDENTIALS")
	case errors.Is(err, ErrInvalidToken):
		return NewHTTPError(http.StatusUnauthorized, ErrInvalidToken.Error(), "INVALID_TOKEN")
	case errors.Is(err, ErrAlreadyVoted):
		return NewHTTPError(http.StatusBadRequest, ErrAlreadyVoted.Error(), "ALREADY_VOTED")
	case errors.Is(err, ErrCandidateNotFound):
		return NewHTTPError(http.StatusNotFound, ErrCandidateNotFound.Error(), "CANDIDATE_NOT_FOUND")
	case errors.Is(err, ErrUserNotFound):
		return NewHTTPError(http.StatusNotFound, ErrUserNotFound.Error(), "USER_NOT_FOUND")
	case errors.Is(err, ErrUnknownProvider):
		return NewHTTPError(http.StatusNotFound, ErrUnknownProvider.Error(), "UNKNOWN_PROVIDER")
	case errors.Is(err, ErrProviderNotConfigured):
		return NewHTTPError(http.StatusInternalServerError, ErrProviderNotConfigured.Error(), "PROVIDER_NOT_CONFIGURED")
	case errors.Is(err, ErrFederation):
		return NewHTTPError(http.StatusInternalServerError, ErrFederation.Error(), "FEDERATION_FAILED")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
