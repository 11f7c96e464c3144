package ports

import (
	"context"

	"github.com/quizm/users-service/internal/core/domain"
)

// UserRepository defines the persistence operations the auth flow needs.
// Lookups return domain.ErrUserNotFound when nothing matches.
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	// Create inserts the user and returns it with its generated ID.
	// A taken email yields domain.ErrDuplicateEmail.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
}
