package router

import (
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"votely/internal/auth"
	apperrors "votely/internal/errors"
	"votely/internal/handler"
)

// TokenVerifier resolves a bearer token to session claims.
type TokenVerifier interface {
	VerifyToken(token string) (*auth.Claims, bool)
}

// Handlers groups every HTTP handler the router mounts.
type Handlers struct {
	Auth  *handler.AuthHandler
	OAuth *handler.OAuthHandler
	Vote  *handler.VoteHandler
}

// Register wires routes and middleware.
func Register(e *echo.Echo, verifier TokenVerifier, h Handlers) {
	e.Use(middleware.RequestID())
	e.Use(requestLogger())
	e.Use(middleware.Recover())

	// Add validator
	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")
	api.GET("/health", handler.Health)

	// Public auth routes
	authGroup := api.Group("/auth")
	authGroup.POST("/register", h.Auth.Register)
	authGroup.POST("/login", h.Auth.Login)
	authGroup.POST("/profile", h.Auth.Profile)
	authGroup.POST("/forgot-password", h.Auth.ForgotPassword)
	authGroup.GET("/oauth/:provider", h.OAuth.Begin)
	authGroup.GET("/oauth/:provider/callback", h.OAuth.Callback)

	// Public ballot projections
	vote := api.Group("/vote")
	vote.GET("/candidates", h.Vote.Candidates)
	vote.GET("/voters", h.Vote.Voters)
	vote.GET("/results", h.Vote.Results)

	// Secured routes (require a bearer session token)
	bearer := BearerAuth(verifier)
	vote.POST("/vote", h.Vote.CastVote, bearer)
	vote.GET("/check-vote", h.Vote.CheckVote, bearer)
}

// BearerAuth validates the Authorization bearer token and stores *auth.Claims
// under the "user" context key.
func BearerAuth(verifier TokenVerifier) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		TokenLookup: "header:" + echo.HeaderAuthorization + ":Bearer ",
		ParseTokenFunc: func(c echo.Context, token string) (interface{}, error) {
			claims, ok := verifier.VerifyToken(token)
			if !ok {
				return nil, apperrors.ErrInvalidToken
			}
			return claims, nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			resp := apperrors.MapErrorToHTTP(apperrors.ErrInvalidToken).ToErrorResponse()
			return c.JSON(http.StatusUnauthorized, resp)
		},
	})
}

func requestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:    true,
		LogURI:       true,
		LogMethod:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []any{
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency,
				"request_id", v.RequestID,
			}
			if v.Error != nil {
				slog.LogAttrs(c.Request().Context(), slog.LevelError, "request", slog.Group("http", attrs...), slog.String("error", v.Error.Error()))
				return nil
			}
			slog.LogAttrs(c.Request().Context(), slog.LevelInfo, "request", slog.Group("http", attrs...))
			return nil
		},
	})
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
