// Package discord talks to Discord's OAuth2 and REST endpoints on behalf of
// the account linker.
package discord

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/endpoints"
)

const (
	DefaultAPIBaseURL = "https://discord.com/api"
	DefaultTimeout    = 10 * time.Second

	scopeIdentify = "identify"

	// Profile responses are a few hundred bytes.
	maxProfileBody = 1 << 16
)

var (
	ErrMissingAccessToken = errors.New("discord: token response missing access_token")
	ErrMissingUserID      = errors.New("discord: profile response missing id")
)

// Config holds the application credentials registered with Discord. The URL
// fields default to Discord's production endpoints when empty.
type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string

	AuthURL    string
	TokenURL   string
	APIBaseURL string

	// Timeout bounds every outbound request. Zero means DefaultTimeout.
	Timeout time.Duration
}

// Token is the pair of provider tokens issued for a linked account.
type Token struct {
	AccessToken  string
	RefreshToken string
}

// Profile is the subset of /users/@me the linker stores.
type Profile struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// StatusError is returned when Discord answers with a non-2xx status.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("discord: unexpected status %d: %s", e.StatusCode, e.Body)
}

type Provider struct {
	cfg     *oauth2.Config
	apiBase string
	client  *http.Client
}

func New(c Config) *Provider {
	endpoint := endpoints.Discord
	// Client credentials travel in the form body, not as basic auth.
	endpoint.AuthStyle = oauth2.AuthStyleInParams
	if c.AuthURL != "" {
		endpoint.AuthURL = c.AuthURL
	}
	if c.TokenURL != "" {
		endpoint.TokenURL = c.TokenURL
	}

	apiBase := DefaultAPIBaseURL
	if c.APIBaseURL != "" {
		apiBase = strings.TrimRight(c.APIBaseURL, "/")
	}

	timeout := c.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &Provider{
		cfg: &oauth2.Config{
			ClientID:     c.ClientID,
			ClientSecret: c.ClientSecret,
			RedirectURL:  c.RedirectURI,
			Scopes:       []string{scopeIdentify},
			Endpoint:     endpoint,
		},
		apiBase: apiBase,
		client:  &http.Client{Timeout: timeout},
	}
}

// AuthCodeURL returns the Discord consent page URL for state.
func (p *Provider) AuthCodeURL(state string) string {
	return p.cfg.AuthCodeURL(state)
}

// Exchange trades an authorization code for provider tokens.
func (p *Provider) Exchange(ctx context.Context, code string) (Token, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, p.client)

	tok, err := p.cfg.Exchange(ctx, code)
	if err != nil {
		return Token{}, fmt.Errorf("discord: exchange code: %w", err)
	}
	if tok.AccessToken == "" {
		return Token{}, ErrMissingAccessToken
	}

	return Token{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
	}, nil
}

// FetchProfile loads the profile of the user owning accessToken.
func (p *Provider) FetchProfile(ctx context.Context, accessToken string) (Profile, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, p.client)
	client := oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: accessToken,
		TokenType:   "Bearer",
	}))
	client.Timeout = p.client.Timeout

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.apiBase+"/users/@me", nil)
	if err != nil {
		return Profile{}, fmt.Errorf("discord: build profile request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return Profile{}, fmt.Errorf("discord: fetch profile: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxProfileBody))
	if err != nil {
		return Profile{}, fmt.Errorf("discord: read profile: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Profile{}, &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var profile Profile
	if err := json.Unmarshal(body, &profile); err != nil {
		return Profile{}, fmt.Errorf("discord: decode profile: %w", err)
	}
	if profile.ID == "" {
		return Profile{}, ErrMissingUserID
	}
	return profile, nil
}
