// Package oauth implements the federated-login providers. Each provider
// exchanges an authorization code for provider credentials and returns a
// normalized profile; no auth decisions are made here.
package oauth

import (
	"context"
	"errors"

	"golang.org/x/oauth2"
)

// Profile is the normalized identity tuple extracted from a provider.
type Profile struct {
	Email string
	Name  string
}

// Provider is the contract every federated login provider implements.
type Provider interface {
	// Name returns the provider identifier (e.g. "google", "github").
	Name() string
	// AuthCodeURL returns the provider authorization URL carrying the
	// CSRF state nonce.
	AuthCodeURL(state, redirectURI string) string
	// Exchange trades the authorization code for provider credentials and
	// fetches the normalized profile.
	Exchange(ctx context.Context, code, redirectURI string) (*Profile, error)
}

// ErrorCode extracts the provider error code from a failed exchange, or
// returns an empty string when none is available.
func ErrorCode(err error) string {
	var re *oauth2.RetrieveError
	if errors.As(err, &re) {
		return re.ErrorCode
	}
	return ""
}
