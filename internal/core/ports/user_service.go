package ports

import (
	"context"

	"github.com/teamportal/identity-service/internal/core/domain"
)

// AdminListing is the payload of the role-gated admin endpoint.
type AdminListing struct {
	Users []*domain.User   `json:"users"`
	Stats domain.UserStats `json:"stats"`
}

// UserService serves read-only user views for authenticated endpoints.
type UserService interface {
	// ListWithStats returns all users (password hashes stripped) plus the
	// role distribution.
	ListWithStats(ctx context.Context) (*AdminListing, error)
}
