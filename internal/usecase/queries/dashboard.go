package queries

import (
	"context"

	"rentyard/internal/infra/db"
	"rentyard/internal/pkg/cache"
	"rentyard/internal/pkg/config"
)

type DashboardQueries interface {
	Stats(ctx context.Context) (*DashboardStats, error)
	Users(ctx context.Context, limit, offset int) ([]*AuthorizedUser, error)
}

type dashboardQueriesImpl struct {
	pool      db.Queryer
	dashboard DashboardReader
	users     UserReader
	cache     *cache.Cache
	ttl       config.CacheConfig
}

func NewDashboardQueries(pool db.Queryer, dashboard DashboardReader, users UserReader, c *cache.Cache, ttl config.CacheConfig) DashboardQueries {
	return &dashboardQueriesImpl{pool: pool, dashboard: dashboard, users: users, cache: c, ttl: ttl}
}

// Stats is the most expensive read in the admin area, so it gets its own
// cache slot; any booking or listing mutation drops it.
func (s *dashboardQueriesImpl) Stats(ctx context.Context) (*DashboardStats, error) {
	return cache.Cached(ctx, s.cache, "dashboard:stats", s.ttl.DashboardTTL, func(ctx context.Context) (*DashboardStats, error) {
		return s.dashboard.Stats(ctx, s.pool)
	})
}

// Users stays uncached: account state flips (deactivation) must show up on
// the next page load.
func (s *dashboardQueriesImpl) Users(ctx context.Context, limit, offset int) ([]*AuthorizedUser, error) {
	return s.users.List(ctx, s.pool, limit, offset)
}
