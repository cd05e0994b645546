package ports

import (
	"context"

	"github.com/sniperthink/identity-service/internal/core/domain"
)

// TokenPair is the result of a successful login.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// ClientInfo identifies the request origin for auditing and rate limiting.
type ClientInfo struct {
	IPAddress string
	UserAgent string
}

// AuthService orchestrates the authentication and session flows.
type AuthService interface {
	Signup(ctx context.Context, email, password, fullName string) (domain.PublicUser, error)
	Login(ctx context.Context, email, password string, client ClientInfo) (*TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (string, error)
	VerifyEmail(ctx context.Context, token string) error
	// ForgotPassword always returns the same generic message, whether or not
	// the email resolves to an account.
	ForgotPassword(ctx context.Context, email string) string
	ResetPassword(ctx context.Context, token, newPassword string) error

	// SocialLogin begins the OAuth handshake and returns the provider
	// authorization URL to redirect the browser to.
	SocialLogin(ctx context.Context, provider, sessionID string) (string, error)
	// SocialCallback completes the handshake. It always returns a browser
	// redirect URL: the success destination carrying tokens, or the error
	// destination carrying a machine-readable reason code.
	SocialCallback(ctx context.Context, provider, sessionID, state, code string, client ClientInfo) string
}

// UserService exposes the read side consumed by the /users and /admin routes.
type UserService interface {
	CurrentUser(ctx context.Context, email string) (domain.PublicUser, error)
	AllUsers(ctx context.Context) ([]domain.PublicUser, error)
	LoginHistory(ctx context.Context, skip, limit int64) ([]domain.LoginRecord, error)
}
