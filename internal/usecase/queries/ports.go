package queries

import (
	"context"

	"rentyard/internal/infra/db"

	"github.com/google/uuid"
)

// Read ports. The query services wrap these with the result cache; the
// repositories behind them never see cache keys.

type BookingReader interface {
	FindByID(ctx context.Context, q db.Queryer, id uuid.UUID) (*BookingView, error)
	FindByUserID(ctx context.Context, q db.Queryer, userID uuid.UUID) ([]*BookingListItem, error)
	List(ctx context.Context, q db.Queryer, status string, limit, offset int) ([]*BookingListItem, error)
}

type ListingReader interface {
	FindByID(ctx context.Context, q db.Queryer, id uuid.UUID) (*ListingView, error)
	List(ctx context.Context, q db.Queryer, kind string, categoryID uuid.NullUUID, onlyAvailable bool, limit, offset int) ([]*ListingView, error)
}

type CategoryReader interface {
	FindByID(ctx context.Context, q db.Queryer, id uuid.UUID) (*CategoryView, error)
	ListByKind(ctx context.Context, q db.Queryer, kind string) ([]*CategoryView, error)
}

type UserReader interface {
	List(ctx context.Context, q db.Queryer, limit, offset int) ([]*AuthorizedUser, error)
}

type DashboardReader interface {
	Stats(ctx context.Context, q db.Queryer) (*DashboardStats, error)
}
