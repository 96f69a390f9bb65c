package queries

import (
	"context"
	"fmt"

	"rentyard/internal/infra/db"
	"rentyard/internal/pkg/cache"
	"rentyard/internal/pkg/config"

	"github.com/google/uuid"
)

type ListingQueries interface {
	GetByID(ctx context.Context, id uuid.UUID) (*ListingView, error)
	List(ctx context.Context, kind string, categoryID uuid.NullUUID, onlyAvailable bool, limit, offset int) ([]*ListingView, error)
	Categories(ctx context.Context, kind string) ([]*CategoryView, error)
	CategoryByID(ctx context.Context, id uuid.UUID) (*CategoryView, error)
}

type listingQueriesImpl struct {
	pool       db.Queryer
	listings   ListingReader
	categories CategoryReader
	cache      *cache.Cache
	ttl        config.CacheConfig
}

func NewListingQueries(pool db.Queryer, listings ListingReader, categories CategoryReader, c *cache.Cache, ttl config.CacheConfig) ListingQueries {
	return &listingQueriesImpl{pool: pool, listings: listings, categories: categories, cache: c, ttl: ttl}
}

func (s *listingQueriesImpl) GetByID(ctx context.Context, id uuid.UUID) (*ListingView, error) {
	key := fmt.Sprintf("listing:view:%s", id)
	return cache.Cached(ctx, s.cache, key, s.ttl.ListingTTL, func(ctx context.Context) (*ListingView, error) {
		return s.listings.FindByID(ctx, s.pool, id)
	})
}

// List caches each filter combination under its own key; the shared
// "listing:" prefix lets writers drop them all without enumerating filters.
func (s *listingQueriesImpl) List(ctx context.Context, kind string, categoryID uuid.NullUUID, onlyAvailable bool, limit, offset int) ([]*ListingView, error) {
	cat := ""
	if categoryID.Valid {
		cat = categoryID.UUID.String()
	}
	key := fmt.Sprintf("listing:list:%s:%s:%t:%d:%d", kind, cat, onlyAvailable, limit, offset)
	return cache.Cached(ctx, s.cache, key, s.ttl.ListingTTL, func(ctx context.Context) ([]*ListingView, error) {
		return s.listings.List(ctx, s.pool, kind, categoryID, onlyAvailable, limit, offset)
	})
}

func (s *listingQueriesImpl) Categories(ctx context.Context, kind string) ([]*CategoryView, error) {
	key := fmt.Sprintf("listing:categories:%s", kind)
	return cache.Cached(ctx, s.cache, key, s.ttl.ListingTTL, func(ctx context.Context) ([]*CategoryView, error) {
		return s.categories.ListByKind(ctx, s.pool, kind)
	})
}

func (s *listingQueriesImpl) CategoryByID(ctx context.Context, id uuid.UUID) (*CategoryView, error) {
	key := fmt.Sprintf("listing:category:%s", id)
	return cache.Cached(ctx, s.cache, key, s.ttl.ListingTTL, func(ctx context.Context) (*CategoryView, error) {
		return s.categories.FindByID(ctx, s.pool, id)
	})
}
