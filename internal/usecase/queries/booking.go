package queries

import (
	"context"
	"fmt"

	"rentyard/internal/infra/db"
	"rentyard/internal/pkg/cache"
	"rentyard/internal/pkg/config"

	"github.com/google/uuid"
)

// BookingQueries serves booking reads through the result cache. Keys share
// the "booking:" prefix so one pattern invalidation on the write side clears
// every cached list and view at once.
type BookingQueries interface {
	GetByID(ctx context.Context, id uuid.UUID) (*BookingView, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]*BookingListItem, error)
	ListAll(ctx context.Context, status string, limit, offset int) ([]*BookingListItem, error)
}

type bookingQueriesImpl struct {
	pool     db.Queryer
	bookings BookingReader
	cache    *cache.Cache
	ttl      config.CacheConfig
}

func NewBookingQueries(pool db.Queryer, bookings BookingReader, c *cache.Cache, ttl config.CacheConfig) BookingQueries {
	return &bookingQueriesImpl{pool: pool, bookings: bookings, cache: c, ttl: ttl}
}

func (s *bookingQueriesImpl) GetByID(ctx context.Context, id uuid.UUID) (*BookingView, error) {
	key := fmt.Sprintf("booking:view:%s", id)
	return cache.Cached(ctx, s.cache, key, s.ttl.BookingTTL, func(ctx context.Context) (*BookingView, error) {
		return s.bookings.FindByID(ctx, s.pool, id)
	})
}

func (s *bookingQueriesImpl) ListForUser(ctx context.Context, userID uuid.UUID) ([]*BookingListItem, error) {
	key := fmt.Sprintf("booking:list:user:%s", userID)
	return cache.Cached(ctx, s.cache, key, s.ttl.BookingTTL, func(ctx context.Context) ([]*BookingListItem, error) {
		return s.bookings.FindByUserID(ctx, s.pool, userID)
	})
}

func (s *bookingQueriesImpl) ListAll(ctx context.Context, status string, limit, offset int) ([]*BookingListItem, error) {
	key := fmt.Sprintf("booking:list:all:%s:%d:%d", status, limit, offset)
	return cache.Cached(ctx, s.cache, key, s.ttl.BookingTTL, func(ctx context.Context) ([]*BookingListItem, error) {
		return s.bookings.List(ctx, s.pool, status, limit, offset)
	})
}
