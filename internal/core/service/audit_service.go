package service

import (
	"context"

	"github.com/teamportal/identity-service/internal/core/domain"
	"github.com/teamportal/identity-service/internal/core/ports"
)

const (
	defaultAuditLimit = 50
	maxAuditLimit     = 200
)

// AuditService serves the admin-facing view of the auth event trail.
type AuditService struct {
	repo ports.AuthEventRepository
}

func NewAuditService(repo ports.AuthEventRepository) *AuditService {
	return &AuditService{repo: repo}
}

// RecentEvents returns up to limit events, newest first. Non-positive
// limits fall back to the default, oversized ones are capped.
func (s *AuditService) RecentEvents(ctx context.Context, limit int) ([]*domain.AuthEvent, error) {
	if limit <= 0 {
		limit = defaultAuditLimit
	}
	if limit > maxAuditLimit {
		limit = maxAuditLimit
	}
	return s.repo.ListRecent(ctx, limit)
}
