package service

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/sniperthink/identity-service/internal/core/domain"
	"github.com/sniperthink/identity-service/internal/core/ports"
	"github.com/sniperthink/identity-service/internal/oauth"
)

type stubUserRepo struct {
	mu         sync.Mutex
	users      map[string]*domain.User
	nextID     int
	insertHook func(*domain.User) error
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *stubUserRepo) Insert(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.insertHook != nil {
		if err := r.insertHook(user); err != nil {
			return nil, err
		}
	}
	if _, exists := r.users[user.Email]; exists {
		return nil, domain.ErrDuplicateEmail
	}
	r.nextID++
	clone := *user
	clone.ID = fmt.Sprintf("id-%d", r.nextID)
	stored := clone
	r.users[clone.Email] = &stored
	return &clone, nil
}

func (r *stubUserRepo) Replace(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.Email]; !ok {
		return domain.ErrUserNotFound
	}
	clone := *user
	r.users[user.Email] = &clone
	return nil
}

func (r *stubUserRepo) ListAll(_ context.Context) ([]domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, *u)
	}
	return out, nil
}

func (r *stubUserRepo) get(email string) *domain.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[email]
	if !ok {
		return nil
	}
	clone := *u
	return &clone
}

type stubLoginRepo struct {
	mu      sync.Mutex
	records []domain.LoginRecord
}

func (r *stubLoginRepo) Insert(_ context.Context, record *domain.LoginRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, *record)
	return nil
}

func (r *stubLoginRepo) List(_ context.Context, skip, limit int64) ([]domain.LoginRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.LoginRecord, 0, limit)
	for i := len(r.records) - 1 - int(skip); i >= 0 && int64(len(out)) < limit; i-- {
		out = append(out, r.records[i])
	}
	return out, nil
}

type stubNotifier struct {
	mu    sync.Mutex
	mails []ports.Mail
}

func (n *stubNotifier) Dispatch(mail ports.Mail) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.mails = append(n.mails, mail)
}

func (n *stubNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.mails)
}

type stubStateStore struct {
	mu     sync.Mutex
	states map[string]string
}

func newStubStateStore() *stubStateStore {
	return &stubStateStore{states: make(map[string]string)}
}

func (s *stubStateStore) Issue(_ context.Context, sessionID, state string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[sessionID] = state
	return nil
}

func (s *stubStateStore) Consume(_ context.Context, sessionID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	state := s.states[sessionID]
	delete(s.states, sessionID)
	return state, nil
}

type stubProvider struct {
	name        string
	profile     *oauth.Profile
	exchangeErr error
	exchanged   bool
}

func (p *stubProvider) Name() string { return p.name }

func (p *stubProvider) AuthCodeURL(state, redirectURI string) string {
	return "https://provider.test/authorize?state=" + state + "&redirect_uri=" + url.QueryEscape(redirectURI)
}

func (p *stubProvider) Exchange(_ context.Context, code, redirectURI string) (*oauth.Profile, error) {
	p.exchanged = true
	if p.exchangeErr != nil {
		return nil, p.exchangeErr
	}
	return p.profile, nil
}

type authFixture struct {
	svc      *AuthService
	users    *stubUserRepo
	logins   *stubLoginRepo
	notifier *stubNotifier
	states   *stubStateStore
	provider *stubProvider
	tokens   *JWTTokenService
}

func newAuthFixture() *authFixture {
	users := newStubUserRepo()
	logins := &stubLoginRepo{}
	notifier := &stubNotifier{}
	states := newStubStateStore()
	provider := &stubProvider{
		name:    "google",
		profile: &oauth.Profile{Email: "sofia@example.com", Name: "Sofia"},
	}
	tokens := NewTokenService(TokenConfig{Secret: "secret"})

	svc := NewAuthService(AuthServiceConfig{
		Users:     users,
		Logins:    logins,
		Tokens:    tokens,
		Hasher:    NewBcryptHasher(bcrypt.MinCost),
		Limiter:   NewRateLimiter(5, 15*time.Minute),
		Providers: oauth.NewRegistry(provider),
		States:    states,
		Notifier:  notifier,
		URLs: RedirectURLs{
			Success:           "http://front/dashboard",
			Error:             "http://front/login",
			VerifyEmail:       "http://front/verify",
			ResetPassword:     "http://front/reset",
			OAuthCallbackBase: "http://api/auth/callback",
		},
		Logger: zerolog.Nop(),
	})

	return &authFixture{
		svc:      svc,
		users:    users,
		logins:   logins,
		notifier: notifier,
		states:   states,
		provider: provider,
		tokens:   tokens,
	}
}

func testClient(ip string) ports.ClientInfo {
	return ports.ClientInfo{IPAddress: ip, UserAgent: "go-test"}
}

// signupVerified registers and verifies an account in one step.
func signupVerified(t *testing.T, f *authFixture, email, password string) {
	t.Helper()
	if _, err := f.svc.Signup(context.Background(), email, password, "Test User"); err != nil {
		t.Fatalf("signup failed: %v", err)
	}
	token := f.users.get(email).VerificationToken
	if err := f.svc.VerifyEmail(context.Background(), token); err != nil {
		t.Fatalf("verify email failed: %v", err)
	}
}

func TestAuthService_Signup_Success(t *testing.T) {
	f := newAuthFixture()

	user, err := f.svc.Signup(context.Background(), "alice@example.com", "pass12345", "Alice")
	if err != nil {
		t.Fatalf("signup failed: %v", err)
	}
	if user.Email != "alice@example.com" || user.Role != domain.RoleUser {
		t.Fatalf("unexpected public user: %+v", user)
	}

	stored := f.users.get("alice@example.com")
	if stored == nil {
		t.Fatalf("user not persisted")
	}
	if stored.IsVerified {
		t.Fatalf("new accounts must start unverified")
	}
	if stored.PasswordHash == "" || stored.PasswordHash == "pass12345" {
		t.Fatalf("password must be stored hashed")
	}
	if stored.VerificationToken == "" {
		t.Fatalf("pending verification token must be stored")
	}
	if f.notifier.count() != 1 {
		t.Fatalf("expected one verification mail, got %d", f.notifier.count())
	}
}

func TestAuthService_Signup_Duplicate(t *testing.T) {
	f := newAuthFixture()

	if _, err := f.svc.Signup(context.Background(), "alice@example.com", "pass12345", "Alice"); err != nil {
		t.Fatalf("first signup failed: %v", err)
	}
	mails := f.notifier.count()

	if _, err := f.svc.Signup(context.Background(), "alice@example.com", "other9999", "Imposter"); err != domain.ErrDuplicateEmail {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}

	if len(f.users.users) != 1 {
		t.Fatalf("duplicate signup must not mutate the store")
	}
	if f.notifier.count() != mails {
		t.Fatalf("duplicate signup must not dispatch mail")
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	f := newAuthFixture()
	signupVerified(t, f, "alice@example.com", "pass12345")

	pair, err := f.svc.Login(context.Background(), "alice@example.com", "pass12345", testClient("10.0.0.1"))
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	subject, err := f.tokens.Decode(pair.AccessToken)
	if err != nil || subject != "alice@example.com" {
		t.Fatalf("access token invalid: subject=%q err=%v", subject, err)
	}

	stored := f.users.get("alice@example.com")
	if stored.RefreshToken != pair.RefreshToken {
		t.Fatalf("refresh token must be persisted on the account")
	}

	if len(f.logins.records) != 1 {
		t.Fatalf("expected one login record, got %d", len(f.logins.records))
	}
	rec := f.logins.records[0]
	if rec.LoginType != domain.LoginTypePassword || rec.IPAddress != "10.0.0.1" || rec.UserAgent != "go-test" {
		t.Fatalf("unexpected login record: %+v", rec)
	}
}

func TestAuthService_Login_RefreshTokenRotation(t *testing.T) {
	f := newAuthFixture()
	signupVerified(t, f, "alice@example.com", "pass12345")

	first, err := f.svc.Login(context.Background(), "alice@example.com", "pass12345", testClient("10.0.0.1"))
	if err != nil {
		t.Fatalf("first login failed: %v", err)
	}

	// Force distinct exp claims so the rotated token differs.
	time.Sleep(1100 * time.Millisecond)

	second, err := f.svc.Login(context.Background(), "alice@example.com", "pass12345", testClient("10.0.0.1"))
	if err != nil {
		t.Fatalf("second login failed: %v", err)
	}
	if first.RefreshToken == second.RefreshToken {
		t.Fatalf("second login should rotate the refresh token")
	}

	// Only the most recent refresh token stays valid.
	if _, err := f.svc.Refresh(context.Background(), first.RefreshToken); err != domain.ErrInvalidToken {
		t.Fatalf("stale refresh token: expected ErrInvalidToken, got %v", err)
	}
	if _, err := f.svc.Refresh(context.Background(), second.RefreshToken); err != nil {
		t.Fatalf("current refresh token rejected: %v", err)
	}
}

func TestAuthService_Login_InvalidCredentials(t *testing.T) {
	f := newAuthFixture()
	signupVerified(t, f, "alice@example.com", "pass12345")

	if _, err := f.svc.Login(context.Background(), "alice@example.com", "wrong", testClient("10.0.0.1")); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := f.svc.Login(context.Background(), "ghost@example.com", "whatever", testClient("10.0.0.1")); err != domain.ErrInvalidCredentials {
		t.Fatalf("unknown email: expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_SocialOnlyAccount(t *testing.T) {
	f := newAuthFixture()

	// An account without a password hash cannot use the password grant.
	now := time.Now().UTC()
	_, err := f.users.Insert(context.Background(), &domain.User{
		Email: "sofia@example.com", Role: domain.RoleUser, IsVerified: true,
		CreatedAt: now, UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}

	if _, err := f.svc.Login(context.Background(), "sofia@example.com", "anything", testClient("10.0.0.1")); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_Unverified(t *testing.T) {
	f := newAuthFixture()
	if _, err := f.svc.Signup(context.Background(), "alice@example.com", "pass12345", "Alice"); err != nil {
		t.Fatalf("signup failed: %v", err)
	}

	// Correct password on an unverified account fails, but does not feed
	// the rate limiter no matter how often it happens.
	for i := 0; i < 6; i++ {
		if _, err := f.svc.Login(context.Background(), "alice@example.com", "pass12345", testClient("10.0.0.9")); err != domain.ErrEmailNotVerified {
			t.Fatalf("attempt %d: expected ErrEmailNotVerified, got %v", i+1, err)
		}
	}
}

func TestAuthService_Login_RateLimited(t *testing.T) {
	f := newAuthFixture()
	signupVerified(t, f, "alice@example.com", "pass12345")

	for i := 0; i < 5; i++ {
		if _, err := f.svc.Login(context.Background(), "alice@example.com", "wrong", testClient("10.0.0.1")); err != domain.ErrInvalidCredentials {
			t.Fatalf("attempt %d: expected ErrInvalidCredentials, got %v", i+1, err)
		}
	}

	// The sixth attempt is rejected before the credential check: even the
	// correct password is refused from a throttled origin.
	if _, err := f.svc.Login(context.Background(), "alice@example.com", "pass12345", testClient("10.0.0.1")); err != domain.ErrRateLimited {
		t.Fatalf("expected ErrRateLimited, got %v", err)
	}

	// A different origin is unaffected.
	if _, err := f.svc.Login(context.Background(), "alice@example.com", "pass12345", testClient("10.0.0.2")); err != nil {
		t.Fatalf("other origin should log in: %v", err)
	}
}

func TestAuthService_Login_SuccessResetsLimiter(t *testing.T) {
	f := newAuthFixture()
	signupVerified(t, f, "alice@example.com", "pass12345")

	for i := 0; i < 4; i++ {
		_, _ = f.svc.Login(context.Background(), "alice@example.com", "wrong", testClient("10.0.0.1"))
	}
	if _, err := f.svc.Login(context.Background(), "alice@example.com", "pass12345", testClient("10.0.0.1")); err != nil {
		t.Fatalf("login should succeed below the threshold: %v", err)
	}

	// The success cleared the origin: one more failure does not trip it.
	if _, err := f.svc.Login(context.Background(), "alice@example.com", "wrong", testClient("10.0.0.1")); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials after reset, got %v", err)
	}
}

func TestAuthService_Refresh_InvalidToken(t *testing.T) {
	f := newAuthFixture()
	signupVerified(t, f, "alice@example.com", "pass12345")

	if _, err := f.svc.Refresh(context.Background(), "garbage"); err != domain.ErrInvalidToken {
		t.Fatalf("malformed token: expected ErrInvalidToken, got %v", err)
	}

	// Signature-valid token for an unknown account.
	ghost, _ := f.tokens.IssueRefresh("ghost@example.com")
	if _, err := f.svc.Refresh(context.Background(), ghost); err != domain.ErrInvalidToken {
		t.Fatalf("unknown subject: expected ErrInvalidToken, got %v", err)
	}

	// Signature-valid token that was never stored on the account.
	never, _ := f.tokens.IssueRefresh("alice@example.com")
	if _, err := f.svc.Refresh(context.Background(), never); err != domain.ErrInvalidToken {
		t.Fatalf("unstored token: expected ErrInvalidToken, got %v", err)
	}
}

func TestAuthService_VerifyEmail_TokenMismatch(t *testing.T) {
	f := newAuthFixture()
	if _, err := f.svc.Signup(context.Background(), "alice@example.com", "pass12345", "Alice"); err != nil {
		t.Fatalf("signup failed: %v", err)
	}

	// Signature-valid, unexpired, right subject — but not the stored
	// pending token.
	forged := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "alice@example.com",
		"exp": time.Now().Add(20 * time.Minute).Unix(),
	})
	signed, err := forged.SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	if err := f.svc.VerifyEmail(context.Background(), signed); err != domain.ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
	if f.users.get("alice@example.com").IsVerified {
		t.Fatalf("mismatched token must not verify the account")
	}
}

func TestAuthService_VerifyEmail_SingleUse(t *testing.T) {
	f := newAuthFixture()
	if _, err := f.svc.Signup(context.Background(), "alice@example.com", "pass12345", "Alice"); err != nil {
		t.Fatalf("signup failed: %v", err)
	}
	token := f.users.get("alice@example.com").VerificationToken

	if err := f.svc.VerifyEmail(context.Background(), token); err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	stored := f.users.get("alice@example.com")
	if !stored.IsVerified || stored.VerificationToken != "" {
		t.Fatalf("verify must set the flag and clear the pending token")
	}

	if err := f.svc.VerifyEmail(context.Background(), token); err != domain.ErrInvalidToken {
		t.Fatalf("second use: expected ErrInvalidToken, got %v", err)
	}
}

func TestAuthService_ForgotPassword_ConstantMessage(t *testing.T) {
	f := newAuthFixture()
	signupVerified(t, f, "alice@example.com", "pass12345")
	mails := f.notifier.count()

	known := f.svc.ForgotPassword(context.Background(), "alice@example.com")
	unknown := f.svc.ForgotPassword(context.Background(), "ghost@example.com")

	if known != unknown || known != ForgotPasswordMessage {
		t.Fatalf("responses must be identical: %q vs %q", known, unknown)
	}
	if f.notifier.count() != mails+1 {
		t.Fatalf("only the known email should receive mail")
	}
}

func TestAuthService_ResetPassword_SingleUse(t *testing.T) {
	f := newAuthFixture()
	signupVerified(t, f, "alice@example.com", "pass12345")

	_ = f.svc.ForgotPassword(context.Background(), "alice@example.com")
	token := f.users.get("alice@example.com").VerificationToken
	if token == "" {
		t.Fatalf("reset token not stored")
	}

	if err := f.svc.ResetPassword(context.Background(), token, "newpass999"); err != nil {
		t.Fatalf("reset failed: %v", err)
	}

	if _, err := f.svc.Login(context.Background(), "alice@example.com", "newpass999", testClient("10.0.0.3")); err != nil {
		t.Fatalf("login with new password failed: %v", err)
	}

	if err := f.svc.ResetPassword(context.Background(), token, "another999"); err != domain.ErrInvalidToken {
		t.Fatalf("second reset with the same token: expected ErrInvalidToken, got %v", err)
	}
}

func TestAuthService_SocialLogin_BindsState(t *testing.T) {
	f := newAuthFixture()

	authURL, err := f.svc.SocialLogin(context.Background(), "google", "sess-1")
	if err != nil {
		t.Fatalf("social login failed: %v", err)
	}

	bound := f.states.states["sess-1"]
	if bound == "" {
		t.Fatalf("state nonce not bound to the session")
	}

	parsed, err := url.Parse(authURL)
	if err != nil {
		t.Fatalf("invalid auth url: %v", err)
	}
	if parsed.Query().Get("state") != bound {
		t.Fatalf("authorization url must carry the bound state")
	}
}

func TestAuthService_SocialCallback_CsrfMismatch(t *testing.T) {
	f := newAuthFixture()

	if _, err := f.svc.SocialLogin(context.Background(), "google", "sess-1"); err != nil {
		t.Fatalf("social login failed: %v", err)
	}

	dest := f.svc.SocialCallback(context.Background(), "google", "sess-1", "tampered", "code", testClient("10.0.0.1"))
	assertErrorRedirect(t, dest, "csrf_state_mismatch")

	if f.provider.exchanged {
		t.Fatalf("state mismatch must be detected before any provider call")
	}
	if len(f.users.users) != 0 {
		t.Fatalf("no account may be created on a failed handshake")
	}
}

func TestAuthService_SocialCallback_StateIsSingleUse(t *testing.T) {
	f := newAuthFixture()

	if _, err := f.svc.SocialLogin(context.Background(), "google", "sess-1"); err != nil {
		t.Fatalf("social login failed: %v", err)
	}
	state := f.states.states["sess-1"]

	first := f.svc.SocialCallback(context.Background(), "google", "sess-1", state, "code", testClient("10.0.0.1"))
	if !isSuccessRedirect(first) {
		t.Fatalf("first callback should succeed: %s", first)
	}

	second := f.svc.SocialCallback(context.Background(), "google", "sess-1", state, "code", testClient("10.0.0.1"))
	assertErrorRedirect(t, second, "csrf_state_mismatch")
}

func TestAuthService_SocialCallback_Success(t *testing.T) {
	f := newAuthFixture()

	if _, err := f.svc.SocialLogin(context.Background(), "google", "sess-1"); err != nil {
		t.Fatalf("social login failed: %v", err)
	}
	state := f.states.states["sess-1"]

	dest := f.svc.SocialCallback(context.Background(), "google", "sess-1", state, "code", testClient("10.0.0.1"))

	parsed, err := url.Parse(dest)
	if err != nil {
		t.Fatalf("invalid redirect url: %v", err)
	}
	access := parsed.Query().Get("token")
	refresh := parsed.Query().Get("refresh_token")
	if access == "" || refresh == "" {
		t.Fatalf("success redirect must carry both tokens: %s", dest)
	}
	if subject, err := f.tokens.Decode(access); err != nil || subject != "sofia@example.com" {
		t.Fatalf("access token invalid: subject=%q err=%v", subject, err)
	}

	stored := f.users.get("sofia@example.com")
	if stored == nil {
		t.Fatalf("social account not created")
	}
	if !stored.IsVerified {
		t.Fatalf("federated identities are trusted as pre-verified")
	}
	if stored.RefreshToken != refresh {
		t.Fatalf("refresh token must be persisted")
	}

	if len(f.logins.records) != 1 || f.logins.records[0].LoginType != "google" {
		t.Fatalf("expected one google login record, got %+v", f.logins.records)
	}
}

func TestAuthService_SocialCallback_EmailUnavailable(t *testing.T) {
	f := newAuthFixture()
	f.provider.profile = &oauth.Profile{Name: "No Email"}

	if _, err := f.svc.SocialLogin(context.Background(), "google", "sess-1"); err != nil {
		t.Fatalf("social login failed: %v", err)
	}
	state := f.states.states["sess-1"]

	dest := f.svc.SocialCallback(context.Background(), "google", "sess-1", state, "code", testClient("10.0.0.1"))
	assertErrorRedirect(t, dest, "email_unavailable")
}

func TestAuthService_SocialCallback_IdempotentCreate(t *testing.T) {
	f := newAuthFixture()

	// Simulate losing the insert race: another callback wins the unique
	// index between our lookup and our insert.
	f.users.insertHook = func(u *domain.User) error {
		f.users.nextID++
		winner := *u
		winner.ID = fmt.Sprintf("id-%d", f.users.nextID)
		f.users.users[u.Email] = &winner
		return domain.ErrDuplicateEmail
	}

	if _, err := f.svc.SocialLogin(context.Background(), "google", "sess-1"); err != nil {
		t.Fatalf("social login failed: %v", err)
	}
	state := f.states.states["sess-1"]

	dest := f.svc.SocialCallback(context.Background(), "google", "sess-1", state, "code", testClient("10.0.0.1"))
	if !isSuccessRedirect(dest) {
		t.Fatalf("losing the insert race must still complete the login: %s", dest)
	}
	if len(f.users.users) != 1 {
		t.Fatalf("expected exactly one account, got %d", len(f.users.users))
	}
}

func TestAuthService_SocialCallback_UnknownProvider(t *testing.T) {
	f := newAuthFixture()

	dest := f.svc.SocialCallback(context.Background(), "myspace", "sess-1", "state", "code", testClient("10.0.0.1"))
	assertErrorRedirect(t, dest, "unknown_provider")
}

func TestAuthService_LoginHistory_DefaultLimit(t *testing.T) {
	f := newAuthFixture()
	for i := 0; i < 30; i++ {
		_ = f.logins.Insert(context.Background(), &domain.LoginRecord{
			UserEmail: fmt.Sprintf("u%d@example.com", i),
			LoginType: domain.LoginTypePassword,
			Timestamp: time.Now().UTC(),
		})
	}

	records, err := f.svc.LoginHistory(context.Background(), 0, 0)
	if err != nil {
		t.Fatalf("login history failed: %v", err)
	}
	if len(records) != defaultHistoryLimit {
		t.Fatalf("expected default page of %d, got %d", defaultHistoryLimit, len(records))
	}
	if records[0].UserEmail != "u29@example.com" {
		t.Fatalf("records must be newest first, got %s", records[0].UserEmail)
	}
}

func assertErrorRedirect(t *testing.T, dest, reason string) {
	t.Helper()
	parsed, err := url.Parse(dest)
	if err != nil {
		t.Fatalf("invalid redirect url: %v", err)
	}
	if got := parsed.Query().Get("error"); got != reason {
		t.Fatalf("expected error reason %q, got %q (url %s)", reason, got, dest)
	}
}

func isSuccessRedirect(dest string) bool {
	parsed, err := url.Parse(dest)
	if err != nil {
		return false
	}
	return parsed.Query().Get("token") != "" && parsed.Query().Get("error") == ""
}
