package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/endpoints"

	"votely/internal/config"
	apperrors "votely/internal/errors"
	"votely/internal/model"
)

// providerEndpoint is the static description of an OIDC-capable provider.
type providerEndpoint struct {
	endpoint    oauth2.Endpoint
	userInfoURL string
}

var providerEndpoints = map[model.Provider]providerEndpoint{
	model.ProviderGoogle: {
		endpoint:    endpoints.Google,
		userInfoURL: "https://openidconnect.googleapis.com/v1/userinfo",
	},
	model.ProviderLinkedIn: {
		endpoint:    endpoints.LinkedIn,
		userInfoURL: "https://api.linkedin.com/v2/userinfo",
	},
}

var oidcScopes = []string{"openid", "profile", "email"}

// OAuthClient runs the authorization code flow against one provider.
type OAuthClient interface {
	Provider() model.Provider
	AuthCodeURL(state string) string
	FetchProfile(ctx context.Context, code string) (*model.SocialProfile, error)
}

// OAuthProvider is an OAuthClient backed by golang.org/x/oauth2.
type OAuthProvider struct {
	provider    model.Provider
	config      *oauth2.Config
	userInfoURL string
}

var _ OAuthClient = (*OAuthProvider)(nil)

// NewOAuthProvider builds a provider client from explicit endpoints.
func NewOAuthProvider(provider model.Provider, creds config.OAuthCredentials, redirectURL string, endpoint oauth2.Endpoint, userInfoURL string) *OAuthProvider {
	return &OAuthProvider{
		provider: provider,
		config: &oauth2.Config{
			ClientID:     creds.ClientID,
			ClientSecret: creds.ClientSecret,
			Endpoint:     endpoint,
			RedirectURL:  redirectURL,
			Scopes:       oidcScopes,
		},
		userInfoURL: userInfoURL,
	}
}

// CallbackURL is the redirect URI registered with a provider.
func CallbackURL(publicURL string, provider model.Provider) string {
	return fmt.Sprintf("%s/api/auth/oauth/%s/callback", strings.TrimSuffix(publicURL, "/"), provider)
}

// NewOAuthProviders returns a client for every provider with credentials.
// Providers without credentials are disabled and logged.
func NewOAuthProviders(cfg *config.Config) map[model.Provider]OAuthClient {
	clients := make(map[model.Provider]OAuthClient, len(model.Providers))
	for _, p := range model.Providers {
		creds, ok := cfg.OAuth(p)
		if !ok {
			slog.Warn("oauth provider disabled: credentials not configured", "provider", p)
			continue
		}
		pe := providerEndpoints[p]
		clients[p] = NewOAuthProvider(p, creds, CallbackURL(cfg.PublicURL, p), pe.endpoint, pe.userInfoURL)
	}
	return clients
}

// Provider returns the provider this client talks to.
func (o *OAuthProvider) Provider() model.Provider {
	return o.provider
}

// AuthCodeURL returns the consent page URL carrying the state.
func (o *OAuthProvider) AuthCodeURL(state string) string {
	return o.config.AuthCodeURL(state)
}

type userInfo struct {
	Sub        string `json:"sub"`
	Name       string `json:"name"`
	GivenName  string `json:"given_name"`
	FamilyName string `json:"family_name"`
	Email      string `json:"email"`
}

// FetchProfile exchanges the code and loads the normalized profile from the
// provider's userinfo endpoint. Failures wrap ErrFederation.
func (o *OAuthProvider) FetchProfile(ctx context.Context, code string) (*model.SocialProfile, error) {
	if code == "" {
		return nil, fmt.Errorf("%w: missing authorization code", apperrors.ErrFederation)
	}

	token, err := o.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%w: exchange code with %s: %v", apperrors.ErrFederation, o.provider, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, o.userInfoURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build userinfo request: %v", apperrors.ErrFederation, err)
	}
	resp, err := o.config.Client(ctx, token).Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: userinfo from %s: %v", apperrors.ErrFederation, o.provider, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("%w: userinfo from %s returned %d", apperrors.ErrFederation, o.provider, resp.StatusCode)
	}

	var info userInfo
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&info); err != nil {
		return nil, fmt.Errorf("%w: decode userinfo: %v", apperrors.ErrFederation, err)
	}
	if info.Sub == "" {
		return nil, fmt.Errorf("%w: userinfo from %s has no subject", apperrors.ErrFederation, o.provider)
	}

	name := info.Name
	if name == "" {
		name = strings.TrimSpace(info.GivenName + " " + info.FamilyName)
	}
	return &model.SocialProfile{
		Provider:    o.provider,
		SubjectID:   info.Sub,
		Email:       info.Email,
		DisplayName: name,
	}, nil
}
