package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2"
)

const (
	githubAuthURL    = "https://github.com/login/oauth/authorize"
	githubTokenURL   = "https://github.com/login/oauth/access_token"
	githubAPIBaseURL = "https://api.github.com"
)

// GitHubConfig holds GitHub OAuth settings. URL fields exist for tests and
// default to the public GitHub endpoints.
type GitHubConfig struct {
	ClientID     string
	ClientSecret string

	AuthURL    string
	TokenURL   string
	APIBaseURL string

	HTTPClient *http.Client
}

// GitHub implements Provider. GitHub does not embed the email in its token
// response, so the profile is assembled from the /user endpoint with a
// fallback to /user/emails for the primary address.
type GitHub struct {
	cfg GitHubConfig
}

// NewGitHub creates the GitHub provider, filling endpoint defaults.
func NewGitHub(cfg GitHubConfig) *GitHub {
	if cfg.AuthURL == "" {
		cfg.AuthURL = githubAuthURL
	}
	if cfg.TokenURL == "" {
		cfg.TokenURL = githubTokenURL
	}
	if cfg.APIBaseURL == "" {
		cfg.APIBaseURL = githubAPIBaseURL
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &GitHub{cfg: cfg}
}

func (g *GitHub) Name() string { return "github" }

func (g *GitHub) oauthConfig(redirectURI string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     g.cfg.ClientID,
		ClientSecret: g.cfg.ClientSecret,
		RedirectURL:  redirectURI,
		Endpoint: oauth2.Endpoint{
			AuthURL:  g.cfg.AuthURL,
			TokenURL: g.cfg.TokenURL,
		},
		Scopes: []string{"user:email"},
	}
}

func (g *GitHub) AuthCodeURL(state, redirectURI string) string {
	return g.oauthConfig(redirectURI).AuthCodeURL(state)
}

func (g *GitHub) Exchange(ctx context.Context, code, redirectURI string) (*Profile, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, g.cfg.HTTPClient)

	token, err := g.oauthConfig(redirectURI).Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("github token exchange: %w", err)
	}

	var user struct {
		Email string `json:"email"`
		Name  string `json:"name"`
		Login string `json:"login"`
	}
	if err := g.getJSON(ctx, token.AccessToken, "/user", &user); err != nil {
		return nil, err
	}

	email := user.Email
	if email == "" {
		email, err = g.primaryEmail(ctx, token.AccessToken)
		if err != nil {
			return nil, err
		}
	}

	name := user.Name
	if name == "" {
		name = user.Login
	}

	return &Profile{Email: email, Name: name}, nil
}

// primaryEmail fetches /user/emails and returns the primary address, or an
// empty string when none is marked primary.
func (g *GitHub) primaryEmail(ctx context.Context, accessToken string) (string, error) {
	var emails []struct {
		Email   string `json:"email"`
		Primary bool   `json:"primary"`
	}
	if err := g.getJSON(ctx, accessToken, "/user/emails", &emails); err != nil {
		return "", err
	}
	for _, e := range emails {
		if e.Primary {
			return e.Email, nil
		}
	}
	return "", nil
}

func (g *GitHub) getJSON(ctx context.Context, accessToken, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.cfg.APIBaseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := g.cfg.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("github api fetch %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("github api fetch %s: status %d", path, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("github api decode %s: %w", path, err)
	}
	return nil
}
