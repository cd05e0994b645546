package domain

import "time"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User models an account in the identity service. PasswordHash is empty for
// accounts created through social login only. VerificationToken holds the
// pending single-use token for email verification or password reset; it is
// cleared once consumed. RefreshToken is the single currently valid refresh
// token for the account.
type User struct {
	ID                string    `json:"id"`
	Email             string    `json:"email"`
	FullName          string    `json:"full_name,omitempty"`
	PasswordHash      string    `json:"-"`
	Role              string    `json:"role"`
	IsVerified        bool      `json:"is_verified"`
	VerificationToken string    `json:"-"`
	RefreshToken      string    `json:"-"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// PublicUser is the client-safe projection of a User.
type PublicUser struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"full_name,omitempty"`
	Role     string `json:"role"`
}

// Public returns the client-safe view of the user.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:       u.ID,
		Email:    u.Email,
		FullName: u.FullName,
		Role:     u.Role,
	}
}
