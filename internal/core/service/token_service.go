package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/sniperthink/identity-service/internal/api/metrics"
	"github.com/sniperthink/identity-service/internal/core/domain"
	"github.com/sniperthink/identity-service/internal/core/ports"
)

const (
	defaultAccessTTL    = 30 * time.Minute
	defaultRefreshTTL   = 7 * 24 * time.Hour
	defaultSingleUseTTL = 15 * time.Minute
)

// TokenConfig carries the signing secret and per-class expirations. The
// secret is read-only after construction; there is no other shared state.
type TokenConfig struct {
	Secret       string
	AccessTTL    time.Duration
	RefreshTTL   time.Duration
	SingleUseTTL time.Duration
}

// JWTTokenService signs HS256 tokens carrying only a subject and expiration.
// All three classes share the one secret; class-specific invariants are
// re-checked against stored values by the auth service.
type JWTTokenService struct {
	secret       []byte
	accessTTL    time.Duration
	refreshTTL   time.Duration
	singleUseTTL time.Duration
}

// NewTokenService builds a JWTTokenService, applying default expirations for
// any TTL left unset.
func NewTokenService(cfg TokenConfig) *JWTTokenService {
	if cfg.AccessTTL <= 0 {
		cfg.AccessTTL = defaultAccessTTL
	}
	if cfg.RefreshTTL <= 0 {
		cfg.RefreshTTL = defaultRefreshTTL
	}
	if cfg.SingleUseTTL <= 0 {
		cfg.SingleUseTTL = defaultSingleUseTTL
	}
	return &JWTTokenService{
		secret:       []byte(cfg.Secret),
		accessTTL:    cfg.AccessTTL,
		refreshTTL:   cfg.RefreshTTL,
		singleUseTTL: cfg.SingleUseTTL,
	}
}

var _ ports.TokenService = (*JWTTokenService)(nil)

func (s *JWTTokenService) IssueAccess(subject string) (string, error) {
	metrics.TokensIssuedTotal.WithLabelValues("access").Inc()
	return s.issue(subject, s.accessTTL)
}

func (s *JWTTokenService) IssueRefresh(subject string) (string, error) {
	metrics.TokensIssuedTotal.WithLabelValues("refresh").Inc()
	return s.issue(subject, s.refreshTTL)
}

func (s *JWTTokenService) IssueSingleUse(subject string) (string, error) {
	metrics.TokensIssuedTotal.WithLabelValues("single_use").Inc()
	return s.issue(subject, s.singleUseTTL)
}

func (s *JWTTokenService) issue(subject string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub": subject,
		"exp": time.Now().Add(ttl).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(s.secret)
}

// Decode verifies the signature and expiration and returns the subject.
// Malformed, tampered, and expired tokens all yield domain.ErrInvalidToken
// so the error carries no oracle about which check failed.
func (s *JWTTokenService) Decode(token string) (string, error) {
	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return s.secret, nil
	})
	if err != nil || !tkn.Valid {
		return "", domain.ErrInvalidToken
	}

	subject, _ := claims["sub"].(string)
	if subject == "" {
		return "", domain.ErrInvalidToken
	}
	return subject, nil
}
