package handler

import (
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/labstack/echo/v4"

	"votely/internal/auth"
	apperrors "votely/internal/errors"
	"votely/internal/model"
	"votely/internal/service"
)

const (
	stateCookieName = "votely_oauth_state"
	stateCookiePath = "/api/auth/oauth"

	loginPage = "/login.html"
	votePage  = "/vote.html"
)

// OAuthHandler runs the browser side of the OAuth code flow.
type OAuthHandler struct {
	providers     map[model.Provider]auth.OAuthClient
	states        auth.StateStoreInterface
	federation    service.FederationService
	authService   service.AuthService
	secureCookies bool
}

// NewOAuthHandler creates a new OAuth handler. Providers missing from the map
// are treated as not configured.
func NewOAuthHandler(
	providers map[model.Provider]auth.OAuthClient,
	states auth.StateStoreInterface,
	federation service.FederationService,
	authService service.AuthService,
	secureCookies bool,
) *OAuthHandler {
	return &OAuthHandler{
		providers:     providers,
		states:        states,
		federation:    federation,
		authService:   authService,
		secureCookies: secureCookies,
	}
}

func (h *OAuthHandler) client(c echo.Context) (model.Provider, auth.OAuthClient, error) {
	provider, err := model.ParseProvider(c.Param("provider"))
	if err != nil {
		return "", nil, apperrors.ErrUnknownProvider
	}
	client, ok := h.providers[provider]
	if !ok {
		return provider, nil, apperrors.ErrProviderNotConfigured
	}
	return provider, client, nil
}

// Begin godoc
// @Summary Start an OAuth login
// @Description Redirects to the provider's consent page.
// @Tags auth
// @Param provider path string true "Provider" Enums(google, linkedin)
// @Success 302
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth/oauth/{provider} [get]
func (h *OAuthHandler) Begin(c echo.Context) error {
	provider, client, err := h.client(c)
	if err != nil {
		return fail(c, err)
	}

	state, err := h.states.Issue(provider)
	if err != nil {
		return fail(c, err)
	}
	h.setStateCookie(c, state, int(auth.StateExpiry/time.Second))

	return c.Redirect(http.StatusFound, client.AuthCodeURL(state))
}

// Callback godoc
// @Summary Complete an OAuth login
// @Description Redirects to the voting page with a session token, or to the login page on failure.
// @Tags auth
// @Param provider path string true "Provider" Enums(google, linkedin)
// @Param code query string false "Authorization code"
// @Param state query string true "Handshake state"
// @Success 302
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth/oauth/{provider}/callback [get]
func (h *OAuthHandler) Callback(c echo.Context) error {
	provider, client, err := h.client(c)
	if err != nil {
		return fail(c, err)
	}
	ctx := c.Request().Context()

	cookie, cookieErr := c.Cookie(stateCookieName)
	h.setStateCookie(c, "", -1)

	if denied := c.QueryParam("error"); denied != "" {
		slog.InfoContext(ctx, "oauth consent denied", "provider", provider, "error", denied)
		return c.Redirect(http.StatusFound, loginPage)
	}

	state := c.QueryParam("state")
	if cookieErr != nil || cookie.Value == "" || cookie.Value != state {
		slog.WarnContext(ctx, "oauth state does not match browser", "provider", provider)
		return c.Redirect(http.StatusFound, loginPage)
	}
	if err := h.states.Consume(ctx, provider, state); err != nil {
		slog.WarnContext(ctx, "oauth state rejected", "provider", provider, "error", err)
		return c.Redirect(http.StatusFound, loginPage)
	}

	profile, err := client.FetchProfile(ctx, c.QueryParam("code"))
	if err != nil {
		slog.ErrorContext(ctx, "oauth profile fetch failed", "provider", provider, "error", err)
		return c.Redirect(http.StatusFound, loginPage)
	}

	user, err := h.federation.Resolve(ctx, profile)
	if err != nil {
		slog.ErrorContext(ctx, "oauth login failed", "provider", provider, "error", err)
		return c.Redirect(http.StatusFound, loginPage)
	}

	token, err := h.authService.IssueToken(user)
	if err != nil {
		slog.ErrorContext(ctx, "issue session token failed", "user_id", user.ID, "error", err)
		return c.Redirect(http.StatusFound, loginPage)
	}

	return c.Redirect(http.StatusFound, votePage+"?token="+url.QueryEscape(token))
}

func (h *OAuthHandler) setStateCookie(c echo.Context, value string, maxAge int) {
	c.SetCookie(&http.Cookie{
		Name:     stateCookieName,
		Value:    value,
		Path:     stateCookiePath,
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}
