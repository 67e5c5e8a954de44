package ports

import (
	"context"

	"github.com/teamportal/identity-service/internal/core/domain"
)

// AuthService implements registration and login.
type AuthService interface {
	Register(ctx context.Context, name, email, password string, role domain.Role) (string, *domain.User, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
}

// TokenService issues and verifies the stateless session token.
type TokenService interface {
	Issue(userID string) (string, error)
	// Verify returns the subject user id, or domain.ErrInvalidToken for
	// anything malformed, mis-signed, or expired.
	Verify(token string) (string, error)
}
