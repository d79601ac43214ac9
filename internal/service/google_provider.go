package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/skit-dev/sodeca-api/internal/models"
)

const googleUserInfoURL = "https://openidconnect.googleapis.com/v1/userinfo"

// GoogleProvider implements IdentityProvider against Google's OAuth endpoints.
type GoogleProvider struct {
	config      *oauth2.Config
	userInfoURL string
	client      *http.Client
}

// GoogleProviderConfig defines configuration for the Google OAuth client.
type GoogleProviderConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

// NewGoogleProvider constructs a GoogleProvider instance.
func NewGoogleProvider(cfg GoogleProviderConfig) *GoogleProvider {
	return &GoogleProvider{
		config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		},
		userInfoURL: googleUserInfoURL,
		client:      &http.Client{Timeout: 10 * time.Second},
	}
}

// AuthCodeURL returns the consent page URL carrying the given state.
func (p *GoogleProvider) AuthCodeURL(state string) string {
	return p.config.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

// FetchIdentity exchanges the authorization code and fetches the user's
// identity claims from the userinfo endpoint.
func (p *GoogleProvider) FetchIdentity(ctx context.Context, code string) (*models.GoogleIdentity, error) {
	token, err := p.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange authorization code: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.userInfoURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build userinfo request: %w", err)
	}
	token.SetAuthHeader(req)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch userinfo: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("userinfo request returned status %d", resp.StatusCode)
	}

	var identity models.GoogleIdentity
	if err := json.NewDecoder(resp.Body).Decode(&identity); err != nil {
		return nil, fmt.Errorf("failed to decode userinfo response: %w", err)
	}
	return &identity, nil
}
