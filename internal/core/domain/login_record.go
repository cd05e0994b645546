package domain

import "time"

// LoginTypePassword marks a password-grant login. Social logins use the
// provider name ("google", "github") as the login type.
const LoginTypePassword = "password"

// LoginRecord is an immutable audit entry written once per successful
// authentication. Records are never mutated or deleted.
type LoginRecord struct {
	ID        string    `json:"id"`
	UserEmail string    `json:"user_email"`
	LoginType string    `json:"login_type"`
	Timestamp time.Time `json:"timestamp"`
	IPAddress string    `json:"ip_address"`
	UserAgent string    `json:"user_agent"`
}
