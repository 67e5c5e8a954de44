package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/teamportal/identity-service/internal/core/domain"
)

type stubStatsCache struct {
	stats   *domain.UserStats
	getErr  error
	setCnt  int
	lastSet domain.UserStats
}

func (c *stubStatsCache) GetStats(_ context.Context) (*domain.UserStats, error) {
	return c.stats, c.getErr
}

func (c *stubStatsCache) SetStats(_ context.Context, stats domain.UserStats) error {
	c.setCnt++
	c.lastSet = stats
	return nil
}

func seedRepo(t *testing.T) *stubUserRepo {
	t.Helper()
	repo := newStubUserRepo()
	users := []*domain.User{
		{Name: "Ann", Email: "ann@x.com", PasswordHash: "hash1", Role: domain.RoleUser},
		{Name: "Bo", Email: "admin@x.com", PasswordHash: "hash2", Role: domain.RoleAdmin},
	}
	for _, u := range users {
		if _, err := repo.Create(context.Background(), u); err != nil {
			t.Fatalf("seed user: %v", err)
		}
	}
	return repo
}

func TestUserService_ListWithStats(t *testing.T) {
	repo := seedRepo(t)
	cache := &stubStatsCache{}
	svc := NewUserService(repo, cache, zerolog.Nop())

	listing, err := svc.ListWithStats(context.Background())
	if err != nil {
		t.Fatalf("ListWithStats returned error: %v", err)
	}

	if len(listing.Users) != 2 {
		t.Fatalf("expected 2 users, got %d", len(listing.Users))
	}
	for _, u := range listing.Users {
		if u.PasswordHash != "" {
			t.Fatalf("password hash leaked for %s", u.Email)
		}
	}

	stats := listing.Stats
	if stats.TotalUsers != 2 || stats.AdminUsers != 1 || stats.RegularUsers != 1 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
	if stats.AdminUsers+stats.RegularUsers != stats.TotalUsers {
		t.Fatalf("stats do not add up: %+v", stats)
	}
	if cache.setCnt != 1 || cache.lastSet != stats {
		t.Fatalf("expected computed stats to be cached, got %+v", cache.lastSet)
	}
}

func TestUserService_ListWithStats_CacheHit(t *testing.T) {
	repo := seedRepo(t)
	cache := &stubStatsCache{stats: &domain.UserStats{TotalUsers: 2, AdminUsers: 1, RegularUsers: 1}}
	svc := NewUserService(repo, cache, zerolog.Nop())

	listing, err := svc.ListWithStats(context.Background())
	if err != nil {
		t.Fatalf("ListWithStats returned error: %v", err)
	}
	if listing.Stats != *cache.stats {
		t.Fatalf("expected cached stats, got %+v", listing.Stats)
	}
	if cache.setCnt != 0 {
		t.Fatalf("cache hit should not rewrite the entry")
	}
}

func TestUserService_ListWithStats_StaleCacheDiscarded(t *testing.T) {
	repo := seedRepo(t)
	// A cached total that disagrees with the fresh listing must be ignored.
	cache := &stubStatsCache{stats: &domain.UserStats{TotalUsers: 5, AdminUsers: 5}}
	svc := NewUserService(repo, cache, zerolog.Nop())

	listing, err := svc.ListWithStats(context.Background())
	if err != nil {
		t.Fatalf("ListWithStats returned error: %v", err)
	}
	if listing.Stats.TotalUsers != 2 || listing.Stats.AdminUsers != 1 {
		t.Fatalf("stale stats served: %+v", listing.Stats)
	}
}

func TestUserService_ListWithStats_CacheErrorIsNotFatal(t *testing.T) {
	repo := seedRepo(t)
	cache := &stubStatsCache{getErr: errors.New("redis down")}
	svc := NewUserService(repo, cache, zerolog.Nop())

	listing, err := svc.ListWithStats(context.Background())
	if err != nil {
		t.Fatalf("expected stats despite cache failure, got error: %v", err)
	}
	if listing.Stats.TotalUsers != 2 {
		t.Fatalf("unexpected stats: %+v", listing.Stats)
	}
}

func TestUserService_ListWithStats_NilCache(t *testing.T) {
	repo := seedRepo(t)
	svc := NewUserService(repo, nil, zerolog.Nop())

	listing, err := svc.ListWithStats(context.Background())
	if err != nil {
		t.Fatalf("ListWithStats returned error: %v", err)
	}
	if listing.Stats.TotalUsers != 2 {
		t.Fatalf("unexpected stats: %+v", listing.Stats)
	}
}
