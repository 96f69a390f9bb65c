package repository

import (
	"context"

	"rentyard/internal/infra"
	"rentyard/internal/infra/db"
	"rentyard/internal/usecase/queries"
)

type DashboardRepository struct{}

func NewDashboardRepository() *DashboardRepository {
	return &DashboardRepository{}
}

// Stats gathers the admin dashboard aggregates in one round trip. Revenue
// counts confirmed and completed bookings; pending money is not revenue yet.
func (r *DashboardRepository) Stats(ctx context.Context, q db.Queryer) (*queries.DashboardStats, error) {
	query := `
		SELECT
			(SELECT count(*) FROM bookings),
			(SELECT count(*) FROM bookings WHERE status = 'pending'),
			(SELECT count(*) FROM bookings WHERE status = 'confirmed'),
			(SELECT count(*) FROM bookings WHERE status = 'completed'),
			(SELECT coalesce(sum(total_cents), 0) FROM bookings WHERE status IN ('confirmed', 'completed')),
			(SELECT count(*) FROM listings WHERE kind = 'equipment'),
			(SELECT count(*) FROM listings WHERE kind = 'brokerage'),
			(SELECT count(*) FROM users)
	`

	var s queries.DashboardStats
	err := q.QueryRow(ctx, query).Scan(
		&s.TotalBookings, &s.PendingBookings, &s.ConfirmedBookings, &s.CompletedBookings,
		&s.RevenueCents, &s.EquipmentCount, &s.BrokerageCount, &s.UserCount,
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to load dashboard stats", err)
	}
	return &s, nil
}
