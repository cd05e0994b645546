package ports

import (
	"context"

	"github.com/sniperthink/identity-service/internal/core/domain"
)

// UserRepository defines the persistence interface for user accounts.
type UserRepository interface {
	// FindByEmail returns domain.ErrUserNotFound when no account exists.
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// Insert creates a new account and returns domain.ErrDuplicateEmail when
	// the email is already taken.
	Insert(ctx context.Context, user *domain.User) (*domain.User, error)
	// Replace persists the whole entity, overwriting the stored document.
	Replace(ctx context.Context, user *domain.User) error
	ListAll(ctx context.Context) ([]domain.User, error)
}

// LoginRecordRepository persists the immutable login audit trail.
type LoginRecordRepository interface {
	Insert(ctx context.Context, record *domain.LoginRecord) error
	// List returns records newest first.
	List(ctx context.Context, skip, limit int64) ([]domain.LoginRecord, error)
}
