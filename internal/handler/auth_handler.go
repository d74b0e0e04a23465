package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"votely/internal/model"
	"votely/internal/service"
)

// AuthHandler handles local authentication endpoints.
type AuthHandler struct {
	authService service.AuthService
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// RegisterRequest represents a user registration request.
type RegisterRequest struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

// LoginRequest represents a user login request.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// ProfileRequest carries the session token to resolve.
type ProfileRequest struct {
	Token string `json:"token"`
}

// ForgotPasswordRequest represents a password reset request.
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required"`
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	Success bool           `json:"success"`
	Message string         `json:"message"`
	User    model.UserView `json:"user"`
	Token   string         `json:"token"`
}

// ProfileResponse is returned by profile.
type ProfileResponse struct {
	Success bool           `json:"success"`
	User    model.UserView `json:"user"`
}

// MessageResponse is a plain acknowledgement.
type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Register godoc
// @Summary Register a new user
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Registration data"
// @Success 201 {object} AuthResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return invalid(c, "invalid request body")
	}

	result, err := h.authService.Register(c.Request().Context(), service.RegisterInput{
		Username:        req.Username,
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(http.StatusCreated, AuthResponse{
		Success: true,
		Message: "Registration successful!",
		User:    result.User,
		Token:   result.Token,
	})
}

// Login godoc
// @Summary Login with username and password
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login credentials"
// @Success 200 {object} AuthResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return invalid(c, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return invalid(c, "Username and password required")
	}

	result, err := h.authService.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(http.StatusOK, AuthResponse{
		Success: true,
		Message: "Login successful!",
		User:    result.User,
		Token:   result.Token,
	})
}

// Profile godoc
// @Summary Resolve a session token to the current user
// @Tags auth
// @Accept json
// @Produce json
// @Param request body ProfileRequest true "Session token"
// @Success 200 {object} ProfileResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth/profile [post]
func (h *AuthHandler) Profile(c echo.Context) error {
	var req ProfileRequest
	if err := c.Bind(&req); err != nil {
		return invalid(c, "invalid request body")
	}

	user, err := h.authService.Profile(c.Request().Context(), req.Token)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(http.StatusOK, ProfileResponse{Success: true, User: *user})
}

// ForgotPassword godoc
// @Summary Request password reset instructions
// @Description Always answers with the same message so account existence is not disclosed.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body ForgotPasswordRequest true "Account email"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} errors.ErrorResponse
// @Router /auth/forgot-password [post]
func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	var req ForgotPasswordRequest
	if err := c.Bind(&req); err != nil {
		return invalid(c, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return invalid(c, "Email is required")
	}

	return c.JSON(http.StatusOK, MessageResponse{
		Success: true,
		Message: "If an account exists with this email, you will receive password reset instructions.",
	})
}
