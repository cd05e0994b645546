package ports

// TokenService signs and verifies the three bearer token classes. All classes
// share one signing secret; the caller re-establishes the class boundary by
// checking the token against the value stored on the user where required.
type TokenService interface {
	// IssueAccess mints a short-lived token authorizing API calls.
	IssueAccess(subject string) (string, error)
	// IssueRefresh mints the long-lived token exchanged for new access tokens.
	IssueRefresh(subject string) (string, error)
	// IssueSingleUse mints the token used for email verification and
	// password reset.
	IssueSingleUse(subject string) (string, error)
	// Decode returns the subject, or domain.ErrInvalidToken for malformed,
	// tampered, and expired tokens alike.
	Decode(token string) (string, error)
}

// PasswordHasher produces and checks one-way salted password hashes.
type PasswordHasher interface {
	Hash(password string) (string, error)
	// Verify reports whether password matches hash. A malformed stored hash
	// is a verification failure, not an error.
	Verify(password, hash string) bool
}
