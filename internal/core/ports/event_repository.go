package ports

import (
	"context"

	"github.com/teamportal/identity-service/internal/core/domain"
)

// AuthEventRepository persists the authentication audit trail.
type AuthEventRepository interface {
	// InsertEvent appends one event to the auth_events audit collection.
	InsertEvent(ctx context.Context, event *domain.AuthEvent) error
	// ListRecent returns up to limit events, newest first.
	ListRecent(ctx context.Context, limit int) ([]*domain.AuthEvent, error)
}
