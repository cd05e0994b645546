package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/sniperthink/identity-service/internal/api/metrics"
	"github.com/sniperthink/identity-service/internal/core/domain"
	"github.com/sniperthink/identity-service/internal/core/ports"
	"github.com/sniperthink/identity-service/internal/oauth"
)

// ForgotPasswordMessage is returned whether or not the email resolves to an
// account, so the endpoint cannot be used to enumerate accounts.
const ForgotPasswordMessage = "If an account with that email exists, a password reset link has been sent."

const defaultHistoryLimit = 25

// RedirectURLs are the browser destinations used by the auth flows.
type RedirectURLs struct {
	// Success receives token and refresh_token query parameters after a
	// completed social login.
	Success string
	// Error receives an error query parameter with a machine-readable
	// reason code when a social login fails.
	Error string
	// VerifyEmail and ResetPassword are the frontend pages that post the
	// embedded token back to the API.
	VerifyEmail   string
	ResetPassword string
	// OAuthCallbackBase is this service's callback prefix; the provider name
	// is appended as the final path segment.
	OAuthCallbackBase string
}

// AuthServiceConfig bundles the collaborators of the auth service.
type AuthServiceConfig struct {
	Users     ports.UserRepository
	Logins    ports.LoginRecordRepository
	Tokens    ports.TokenService
	Hasher    ports.PasswordHasher
	Limiter   *RateLimiter
	Providers *oauth.Registry
	States    ports.StateStore
	Notifier  ports.Notifier
	URLs      RedirectURLs
	Logger    zerolog.Logger
}

// AuthService orchestrates signup, login, token refresh, the verification and
// reset token lifecycles, and the two-leg OAuth handshake.
type AuthService struct {
	users     ports.UserRepository
	logins    ports.LoginRecordRepository
	tokens    ports.TokenService
	hasher    ports.PasswordHasher
	limiter   *RateLimiter
	providers *oauth.Registry
	states    ports.StateStore
	notifier  ports.Notifier
	urls      RedirectURLs
	log       zerolog.Logger
}

// NewAuthService wires an AuthService from its collaborators.
func NewAuthService(cfg AuthServiceConfig) *AuthService {
	return &AuthService{
		users:     cfg.Users,
		logins:    cfg.Logins,
		tokens:    cfg.Tokens,
		hasher:    cfg.Hasher,
		limiter:   cfg.Limiter,
		providers: cfg.Providers,
		states:    cfg.States,
		notifier:  cfg.Notifier,
		urls:      cfg.URLs,
		log:       cfg.Logger,
	}
}

var (
	_ ports.AuthService = (*AuthService)(nil)
	_ ports.UserService = (*AuthService)(nil)
)

// Signup registers a new account and dispatches the verification mail. The
// account is persisted before the mail is queued; a delivery failure never
// rolls the account back.
func (s *AuthService) Signup(ctx context.Context, email, password, fullName string) (domain.PublicUser, error) {
	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return domain.PublicUser{}, domain.ErrDuplicateEmail
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return domain.PublicUser{}, err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return domain.PublicUser{}, err
	}

	token, err := s.tokens.IssueSingleUse(email)
	if err != nil {
		return domain.PublicUser{}, err
	}

	now := time.Now().UTC()
	created, err := s.users.Insert(ctx, &domain.User{
		Email:             email,
		FullName:          fullName,
		PasswordHash:      hash,
		Role:              domain.RoleUser,
		VerificationToken: token,
		CreatedAt:         now,
		UpdatedAt:         now,
	})
	if err != nil {
		return domain.PublicUser{}, err
	}

	s.notifier.Dispatch(verificationMail(created.Email, s.urls.VerifyEmail, token))

	return created.Public(), nil
}

// Login runs the password grant: rate check, credential check, verified
// check, then token issuance. A throttled origin is rejected before the
// credential check even when the password would have been correct.
func (s *AuthService) Login(ctx context.Context, email, password string, client ports.ClientInfo) (*ports.TokenPair, error) {
	if !s.limiter.Allow(client.IPAddress) {
		metrics.AuthFailuresTotal.WithLabelValues("rate_limited").Inc()
		return nil, domain.ErrRateLimited
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}
	if user == nil || user.PasswordHash == "" || !s.hasher.Verify(password, user.PasswordHash) {
		s.limiter.RecordFailure(client.IPAddress)
		metrics.AuthFailuresTotal.WithLabelValues("invalid_credentials").Inc()
		return nil, domain.ErrInvalidCredentials
	}

	// Not a credential guess: an unverified account must not feed the limiter.
	if !user.IsVerified {
		metrics.AuthFailuresTotal.WithLabelValues("email_not_verified").Inc()
		return nil, domain.ErrEmailNotVerified
	}

	s.limiter.Reset(client.IPAddress)

	return s.issueSession(ctx, user, domain.LoginTypePassword, client)
}

// issueSession records the audit entry, mints the token pair, and rotates
// the stored refresh token. Only the most recent refresh token per account
// stays valid.
func (s *AuthService) issueSession(ctx context.Context, user *domain.User, loginType string, client ports.ClientInfo) (*ports.TokenPair, error) {
	if err := s.logins.Insert(ctx, &domain.LoginRecord{
		UserEmail: user.Email,
		LoginType: loginType,
		Timestamp: time.Now().UTC(),
		IPAddress: client.IPAddress,
		UserAgent: client.UserAgent,
	}); err != nil {
		return nil, err
	}

	access, err := s.tokens.IssueAccess(user.Email)
	if err != nil {
		return nil, err
	}
	refresh, err := s.tokens.IssueRefresh(user.Email)
	if err != nil {
		return nil, err
	}

	user.RefreshToken = refresh
	user.UpdatedAt = time.Now().UTC()
	if err := s.users.Replace(ctx, user); err != nil {
		return nil, err
	}

	metrics.LoginsTotal.WithLabelValues(loginType).Inc()

	return &ports.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// Refresh exchanges a valid refresh token for a new access token. The token
// must decode and equal the value currently stored on the account, which
// rejects stale, rotated, and revoked tokens. Refresh tokens are not rotated
// here.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	subject, err := s.tokens.Decode(refreshToken)
	if err != nil {
		return "", domain.ErrInvalidToken
	}

	user, err := s.users.FindByEmail(ctx, subject)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", domain.ErrInvalidToken
		}
		return "", err
	}
	if user.RefreshToken != refreshToken {
		return "", domain.ErrInvalidToken
	}

	return s.tokens.IssueAccess(user.Email)
}

// VerifyEmail consumes a pending verification token. Single use is enforced
// by clearing the stored token, not by a revocation list.
func (s *AuthService) VerifyEmail(ctx context.Context, token string) error {
	user, err := s.userForPendingToken(ctx, token)
	if err != nil {
		return err
	}

	user.IsVerified = true
	user.VerificationToken = ""
	user.UpdatedAt = time.Now().UTC()
	return s.users.Replace(ctx, user)
}

// ForgotPassword stores a reset token and mails the reset link when the
// email resolves; the response is identical either way.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) string {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, domain.ErrUserNotFound) {
			s.log.Error().Err(err).Msg("forgot-password lookup failed")
		}
		return ForgotPasswordMessage
	}

	token, err := s.tokens.IssueSingleUse(user.Email)
	if err != nil {
		s.log.Error().Err(err).Msg("forgot-password token mint failed")
		return ForgotPasswordMessage
	}

	user.VerificationToken = token
	user.UpdatedAt = time.Now().UTC()
	if err := s.users.Replace(ctx, user); err != nil {
		s.log.Error().Err(err).Msg("forgot-password token store failed")
		return ForgotPasswordMessage
	}

	s.notifier.Dispatch(passwordResetMail(user.Email, s.urls.ResetPassword, token))

	return ForgotPasswordMessage
}

// ResetPassword consumes a pending reset token and replaces the password
// hash. The same token cannot be used twice.
func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	user, err := s.userForPendingToken(ctx, token)
	if err != nil {
		return err
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return err
	}

	user.PasswordHash = hash
	user.VerificationToken = ""
	user.UpdatedAt = time.Now().UTC()
	return s.users.Replace(ctx, user)
}

// userForPendingToken decodes a single-use token and requires it to equal
// the account's stored pending token. A signature-valid but mismatched token
// fails the same way as a malformed one.
func (s *AuthService) userForPendingToken(ctx context.Context, token string) (*domain.User, error) {
	subject, err := s.tokens.Decode(token)
	if err != nil {
		return nil, domain.ErrInvalidToken
	}

	user, err := s.users.FindByEmail(ctx, subject)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidToken
		}
		return nil, err
	}
	if user.VerificationToken == "" || user.VerificationToken != token {
		return nil, domain.ErrInvalidToken
	}
	return user, nil
}

// SocialLogin starts the handshake: a random state nonce is bound to the
// browser session and embedded in the provider authorization URL.
func (s *AuthService) SocialLogin(ctx context.Context, provider, sessionID string) (string, error) {
	p, err := s.providers.Get(provider)
	if err != nil {
		return "", err
	}

	state := randomState()
	if err := s.states.Issue(ctx, sessionID, state); err != nil {
		return "", err
	}

	return p.AuthCodeURL(state, s.callbackURI(provider)), nil
}

// SocialCallback completes the handshake. The session-bound state is
// consumed and compared before any provider call; every failure maps to a
// reason code on the error destination instead of an HTTP error.
func (s *AuthService) SocialCallback(ctx context.Context, provider, sessionID, state, code string, client ports.ClientInfo) string {
	p, err := s.providers.Get(provider)
	if err != nil {
		return s.errorRedirect(provider, "unknown_provider")
	}

	expected, err := s.states.Consume(ctx, sessionID)
	if err != nil {
		s.log.Error().Err(err).Str("provider", provider).Msg("oauth state lookup failed")
		return s.errorRedirect(provider, "csrf_state_mismatch")
	}
	if expected == "" || state == "" || state != expected {
		return s.errorRedirect(provider, "csrf_state_mismatch")
	}

	profile, err := p.Exchange(ctx, code, s.callbackURI(provider))
	if err != nil {
		s.log.Warn().Err(err).Str("provider", provider).Msg("oauth code exchange failed")
		reason := "oauth_error"
		if ec := oauth.ErrorCode(err); ec != "" {
			reason = "oauth_error_" + ec
		}
		return s.errorRedirect(provider, reason)
	}
	if profile.Email == "" {
		return s.errorRedirect(provider, "email_unavailable")
	}

	user, err := s.lookupOrCreateSocialUser(ctx, profile)
	if err != nil {
		s.log.Error().Err(err).Str("provider", provider).Msg("social user upsert failed")
		return s.errorRedirect(provider, "internal_error")
	}

	// Federated identities are trusted as pre-verified.
	user.IsVerified = true

	pair, err := s.issueSession(ctx, user, provider, client)
	if err != nil {
		s.log.Error().Err(err).Str("provider", provider).Msg("social session issuance failed")
		return s.errorRedirect(provider, "internal_error")
	}

	metrics.OAuthCallbacksTotal.WithLabelValues(provider, "success").Inc()

	q := url.Values{}
	q.Set("token", pair.AccessToken)
	q.Set("refresh_token", pair.RefreshToken)
	return s.urls.Success + "?" + q.Encode()
}

// lookupOrCreateSocialUser finds the account by email or creates it. Two
// racing callbacks for the same new email cannot create two accounts: the
// loser of the insert race falls back to re-reading the winner's document.
func (s *AuthService) lookupOrCreateSocialUser(ctx context.Context, profile *oauth.Profile) (*domain.User, error) {
	user, err := s.users.FindByEmail(ctx, profile.Email)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	name := profile.Name
	if name == "" {
		name = profile.Email
		if i := strings.IndexByte(profile.Email, '@'); i > 0 {
			name = profile.Email[:i]
		}
	}

	now := time.Now().UTC()
	created, err := s.users.Insert(ctx, &domain.User{
		Email:      profile.Email,
		FullName:   name,
		Role:       domain.RoleUser,
		IsVerified: true,
		CreatedAt:  now,
		UpdatedAt:  now,
	})
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			return s.users.FindByEmail(ctx, profile.Email)
		}
		return nil, err
	}
	return created, nil
}

// CurrentUser returns the public view of the authenticated account.
func (s *AuthService) CurrentUser(ctx context.Context, email string) (domain.PublicUser, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return domain.PublicUser{}, err
	}
	return user.Public(), nil
}

// AllUsers returns the public view of every account.
func (s *AuthService) AllUsers(ctx context.Context) ([]domain.PublicUser, error) {
	users, err := s.users.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.PublicUser, 0, len(users))
	for i := range users {
		out = append(out, users[i].Public())
	}
	return out, nil
}

// LoginHistory returns a page of audit records, newest first.
func (s *AuthService) LoginHistory(ctx context.Context, skip, limit int64) ([]domain.LoginRecord, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if skip < 0 {
		skip = 0
	}
	return s.logins.List(ctx, skip, limit)
}

func (s *AuthService) callbackURI(provider string) string {
	return s.urls.OAuthCallbackBase + "/" + provider
}

func (s *AuthService) errorRedirect(provider, reason string) string {
	metrics.OAuthCallbacksTotal.WithLabelValues(provider, reason).Inc()
	q := url.Values{}
	q.Set("error", reason)
	return s.urls.Error + "?" + q.Encode()
}

func randomState() string {
	b := make([]byte, 32)
	_, _ = rand.Read(b)
	return base64.RawURLEncoding.EncodeToString(b)
}
