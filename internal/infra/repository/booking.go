package repository

import (
	"context"
	"time"

	"rentyard/internal/domain/booking"
	"rentyard/internal/domain/listing"
	"rentyard/internal/infra"
	"rentyard/internal/infra/db"
	"rentyard/internal/usecase/queries"

	"github.com/google/uuid"
)

type BookingRepository struct{}

func NewBookingRepository() *BookingRepository {
	return &BookingRepository{}
}

const bookingViewColumns = `
	b.id, b.resource_kind, b.listing_id, l.name, b.user_id, u.email,
	b.start_date, b.end_date, b.status, b.total_cents, b.note, b.admin_note,
	b.created_at, b.updated_at`

// Insert persists a pending booking. The exclusion constraint on active
// booking ranges turns a lost race into KindConflict here, which is the
// authoritative double-booking guard regardless of any earlier checks.
func (r *BookingRepository) Insert(ctx context.Context, q db.Queryer, b *booking.Booking) error {
	query := `
		INSERT INTO bookings (id, resource_kind, listing_id, user_id, start_date, end_date, status, total_cents, note)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NULLIF($9, ''))
	`

	_, err := q.Exec(ctx, query,
		b.ID(),
		b.Resource().Kind().String(),
		b.Resource().ID(),
		b.UserID(),
		b.Dates().Start(),
		b.Dates().End(),
		b.Status().String(),
		b.Total().Cents(),
		b.Note().String(),
	)
	if err != nil {
		if kind, ok := infra.ClassifyPgError(err); ok {
			return infra.WrapRepoErr("booking range conflicts with an existing booking", err, kind)
		}
		return infra.WrapRepoErr("failed to insert booking", err)
	}
	return nil
}

// FindOverlapping returns active bookings on the listing whose half-open
// [start_date, end_date) range intersects [start, end). The symmetric
// b.start < end AND b.end > start predicate is the SQL form of
// NOT (existing.end <= new.start OR existing.start >= new.end).
func (r *BookingRepository) FindOverlapping(ctx context.Context, q db.Queryer, listingID uuid.UUID, start, end time.Time) ([]queries.OverlapRecord, error) {
	query := `
		SELECT id, start_date, end_date, status
		FROM bookings
		WHERE listing_id = $1
		  AND status IN ('pending', 'confirmed')
		  AND start_date < $3
		  AND end_date > $2
		ORDER BY start_date
	`

	rows, err := q.Query(ctx, query, listingID, start, end)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to query overlapping bookings", err)
	}
	defer rows.Close()

	var records []queries.OverlapRecord
	for rows.Next() {
		var rec queries.OverlapRecord
		if err := rows.Scan(&rec.ID, &rec.StartDate, &rec.EndDate, &rec.Status); err != nil {
			return nil, infra.WrapRepoErr("failed to scan overlapping booking", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read overlapping bookings", err)
	}
	return records, nil
}

// FindDomainByID rebuilds the booking entity for rule checks (cancellation,
// status transitions). Read endpoints use FindByID, which returns the joined
// view instead.
func (r *BookingRepository) FindDomainByID(ctx context.Context, q db.Queryer, id uuid.UUID) (*booking.Booking, error) {
	query := `
		SELECT id, resource_kind, listing_id, user_id, start_date, end_date,
		       status, total_cents, note, admin_note, created_at, updated_at
		FROM bookings
		WHERE id = $1
	`

	var (
		bid, listingID, userID uuid.UUID
		resourceKind, status   string
		startDate, endDate     time.Time
		totalCents             int64
		note, adminNote        *string
		createdAt, updatedAt   time.Time
	)
	err := q.QueryRow(ctx, query, id).Scan(
		&bid, &resourceKind, &listingID, &userID, &startDate, &endDate,
		&status, &totalCents, &note, &adminNote, &createdAt, &updatedAt,
	)
	if err != nil {
		if infra.IsNoRows(err) {
			return nil, infra.WrapRepoErr("booking not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find booking by id", err)
	}

	resource, err := booking.NewResourceRef(listing.Kind(resourceKind), listingID)
	if err != nil {
		return nil, infra.WrapRepoErr("stored booking resource is malformed", err)
	}
	dates, err := booking.NewDateRange(startDate, endDate)
	if err != nil {
		return nil, infra.WrapRepoErr("stored booking range is malformed", err)
	}
	total, err := booking.NewMoney(totalCents)
	if err != nil {
		return nil, infra.WrapRepoErr("stored booking total is malformed", err)
	}

	return booking.Reconstruct(
		bid, resource, userID, dates, booking.Status(status), total,
		booking.NewNote(deref(note)), booking.NewNote(deref(adminNote)),
		createdAt, updatedAt,
	), nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func (r *BookingRepository) FindByID(ctx context.Context, q db.Queryer, id uuid.UUID) (*queries.BookingView, error) {
	query := `
		SELECT ` + bookingViewColumns + `
		FROM bookings b
		JOIN listings l ON l.id = b.listing_id
		JOIN users u ON u.id = b.user_id
		WHERE b.id = $1
	`

	view, err := scanBookingView(q.QueryRow(ctx, query, id))
	if err != nil {
		if infra.IsNoRows(err) {
			return nil, infra.WrapRepoErr("booking not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find booking by id", err)
	}
	return view, nil
}

func (r *BookingRepository) FindByUserID(ctx context.Context, q db.Queryer, userID uuid.UUID) ([]*queries.BookingListItem, error) {
	query := `
		SELECT b.id, b.resource_kind, b.listing_id, l.name, b.start_date, b.end_date, b.status, b.total_cents, b.created_at
		FROM bookings b
		JOIN listings l ON l.id = b.listing_id
		WHERE b.user_id = $1
		ORDER BY b.created_at DESC
	`

	rows, err := q.Query(ctx, query, userID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to query user bookings", err)
	}
	defer rows.Close()

	return scanBookingListItems(rows)
}

func (r *BookingRepository) List(ctx context.Context, q db.Queryer, status string, limit, offset int) ([]*queries.BookingListItem, error) {
	query := `
		SELECT b.id, b.resource_kind, b.listing_id, l.name, b.start_date, b.end_date, b.status, b.total_cents, b.created_at
		FROM bookings b
		JOIN listings l ON l.id = b.listing_id
		WHERE ($1 = '' OR b.status = $1)
		ORDER BY b.created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := q.Query(ctx, query, status, limit, offset)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list bookings", err)
	}
	defer rows.Close()

	return scanBookingListItems(rows)
}

func (r *BookingRepository) UpdateStatus(ctx context.Context, q db.Queryer, id uuid.UUID, status booking.Status) error {
	query := `UPDATE bookings SET status = $2, updated_at = now() WHERE id = $1`

	tag, err := q.Exec(ctx, query, id, status.String())
	if err != nil {
		return infra.WrapRepoErr("failed to update booking status", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("booking not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *BookingRepository) SetAdminNote(ctx context.Context, q db.Queryer, id uuid.UUID, note string) error {
	query := `UPDATE bookings SET admin_note = NULLIF($2, ''), updated_at = now() WHERE id = $1`

	tag, err := q.Exec(ctx, query, id, note)
	if err != nil {
		return infra.WrapRepoErr("failed to set admin note", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("booking not found", nil, infra.KindNotFound)
	}
	return nil
}

// Delete removes the row outright; cancellation retains no tombstone.
func (r *BookingRepository) Delete(ctx context.Context, q db.Queryer, id uuid.UUID) error {
	tag, err := q.Exec(ctx, `DELETE FROM bookings WHERE id = $1`, id)
	if err != nil {
		return infra.WrapRepoErr("failed to delete booking", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("booking not found", nil, infra.KindNotFound)
	}
	return nil
}

func scanBookingView(row interface{ Scan(dest ...any) error }) (*queries.BookingView, error) {
	var v queries.BookingView
	err := row.Scan(
		&v.ID, &v.ResourceKind, &v.ListingID, &v.ListingName, &v.UserID, &v.UserEmail,
		&v.StartDate, &v.EndDate, &v.Status, &v.TotalCents, &v.Note, &v.AdminNote,
		&v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func scanBookingListItems(rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}) ([]*queries.BookingListItem, error) {
	items := make([]*queries.BookingListItem, 0)
	for rows.Next() {
		var item queries.BookingListItem
		if err := rows.Scan(
			&item.ID, &item.ResourceKind, &item.ListingID, &item.ListingName,
			&item.StartDate, &item.EndDate, &item.Status, &item.TotalCents, &item.CreatedAt,
		); err != nil {
			return nil, infra.WrapRepoErr("failed to scan booking row", err)
		}
		items = append(items, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read booking rows", err)
	}
	return items, nil
}
