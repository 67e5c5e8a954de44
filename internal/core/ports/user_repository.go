package ports

import (
	"context"

	"github.com/teamportal/identity-service/internal/core/domain"
)

// UserRepository defines the interface for user persistence. Email
// uniqueness is enforced by the store itself: Create returns
// domain.ErrUserExists on a duplicate regardless of any prior check,
// which closes the check-then-create race under concurrent registration.
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	// ListAll returns every user in insertion order.
	ListAll(ctx context.Context) ([]*domain.User, error)
}
