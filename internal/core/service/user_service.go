package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/teamportal/identity-service/internal/core/domain"
	"github.com/teamportal/identity-service/internal/core/ports"
)

// StatsCache abstracts the short-lived stats cache (Redis). A cache
// failure is never fatal: stats are recomputed from the store.
type StatsCache interface {
	GetStats(ctx context.Context) (*domain.UserStats, error)
	SetStats(ctx context.Context, stats domain.UserStats) error
}

type userService struct {
	repo  ports.UserRepository
	cache StatsCache
	log   zerolog.Logger
}

// NewUserService returns a UserService implementation. cache may be nil.
func NewUserService(repo ports.UserRepository, cache StatsCache, log zerolog.Logger) ports.UserService {
	return &userService{repo: repo, cache: cache, log: log}
}

// ListWithStats returns every user, password hashes stripped, plus the
// role distribution. The distribution is served from cache when fresh.
func (s *userService) ListWithStats(ctx context.Context) (*ports.AdminListing, error) {
	users, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	sanitized := make([]*domain.User, 0, len(users))
	for _, u := range users {
		sanitized = append(sanitized, u.Sanitized())
	}

	stats, ok := s.cachedStats(ctx, len(users))
	if !ok {
		stats = domain.ComputeStats(users)
		if s.cache != nil {
			if err := s.cache.SetStats(ctx, stats); err != nil {
				s.log.Warn().Err(err).Msg("failed to cache user stats")
			}
		}
	}

	return &ports.AdminListing{Users: sanitized, Stats: stats}, nil
}

// cachedStats returns a cached distribution only when its total still
// matches the fresh listing; a stale entry is discarded so the admin
// view never contradicts the users it ships with.
func (s *userService) cachedStats(ctx context.Context, total int) (domain.UserStats, bool) {
	if s.cache == nil {
		return domain.UserStats{}, false
	}
	stats, err := s.cache.GetStats(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("stats cache lookup failed, recomputing")
		return domain.UserStats{}, false
	}
	if stats == nil || stats.TotalUsers != total {
		return domain.UserStats{}, false
	}
	return *stats, true
}
