package commands

import (
	"context"
	"errors"
	"time"

	"rentyard/internal/domain/booking"
	"rentyard/internal/infra"
	"rentyard/internal/infra/db"
	"rentyard/internal/pkg/clock"
	"rentyard/internal/pkg/errs"
	"rentyard/internal/usecase/shared"

	"github.com/google/uuid"
)

// Booking error taxonomy. Handlers switch on these to pick HTTP statuses;
// nothing below this layer leaks pg error codes upward.
var (
	ErrInvalidDateRange         = errs.New("end date must be after start date")
	ErrStartDateInPast          = errs.New("start date cannot be in the past")
	ErrResourceNotFound         = errs.New("listing not found")
	ErrResourceUnavailable      = errs.New("listing is not available for booking")
	ErrBookingConflict          = errs.New("requested dates conflict with an existing booking")
	ErrBookingNotFound          = errs.New("booking not found")
	ErrCancellationNotAllowed   = errs.New("booking cannot be cancelled by this user")
	ErrCancellationWindowClosed = errs.New("bookings can only be cancelled at least 24 hours before the start")
	ErrInvalidStatusTransition  = errs.New("invalid booking status transition")
	ErrBookingNotTerminal       = errs.New("only completed bookings can be deleted")
)

type CreateBookingInput struct {
	ListingID uuid.UUID
	UserID    uuid.UUID
	StartDate time.Time
	EndDate   time.Time
	Note      string
}

type BookingCommands interface {
	Create(ctx context.Context, in CreateBookingInput) (uuid.UUID, error)
	Cancel(ctx context.Context, bookingID, requesterID uuid.UUID) error
	UpdateStatus(ctx context.Context, bookingID uuid.UUID, next booking.Status) error
	SetAdminNote(ctx context.Context, bookingID uuid.UUID, note string) error
	ForceDelete(ctx context.Context, bookingID uuid.UUID) error
}

type bookingUseCaseImpl struct {
	pool     db.Queryer
	tx       shared.TxManager
	bookings BookingRepository
	listings ListingRepository
	factory  *booking.Factory
	cache    CacheInvalidator
	clock    clock.Clock
}

func NewBookingUsecase(
	pool db.Queryer,
	tx shared.TxManager,
	bookings BookingRepository,
	listings ListingRepository,
	cache CacheInvalidator,
	clk clock.Clock,
) BookingCommands {
	return &bookingUseCaseImpl{
		pool:     pool,
		tx:       tx,
		bookings: bookings,
		listings: listings,
		factory:  booking.NewFactory(clk),
		cache:    cache,
		clock:    clk,
	}
}

// Create books the listing for [StartDate, EndDate) or reports why it
// cannot. The overlap pre-check outside the transaction rejects the common
// case cheaply; the authoritative decision is the re-check plus insert inside
// one serializable transaction, where the exclusion constraint catches
// anything two concurrent writers might still slip past. Of two concurrent
// requests for overlapping dates exactly one succeeds.
func (u *bookingUseCaseImpl) Create(ctx context.Context, in CreateBookingInput) (uuid.UUID, error) {
	// Request-shape validation first; the repository is only consulted once
	// the dates alone cannot sink the request.
	dates, err := booking.NewDateRange(in.StartDate, in.EndDate)
	if err != nil {
		return uuid.Nil, errs.Mark(err, ErrInvalidDateRange)
	}
	if err := dates.ValidateStartAt(u.clock.Now()); err != nil {
		return uuid.Nil, errs.Mark(err, ErrStartDateInPast)
	}

	l, err := u.listings.FindDomainByID(ctx, u.pool, in.ListingID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return uuid.Nil, errs.Mark(err, ErrResourceNotFound)
		}
		return uuid.Nil, err
	}

	b, err := u.factory.CreateBooking(l, in.UserID, dates, booking.NewNote(in.Note))
	if err != nil {
		switch {
		case errors.Is(err, booking.ErrStartInPast):
			return uuid.Nil, errs.Mark(err, ErrStartDateInPast)
		case errors.Is(err, booking.ErrResourceUnavailable):
			return uuid.Nil, errs.Mark(err, ErrResourceUnavailable)
		default:
			return uuid.Nil, err
		}
	}

	// Fail fast before paying for a transaction.
	overlaps, err := u.bookings.FindOverlapping(ctx, u.pool, l.ID(), dates.Start(), dates.End())
	if err != nil {
		return uuid.Nil, err
	}
	if len(overlaps) > 0 {
		return uuid.Nil, ErrBookingConflict
	}

	err = u.tx.WithinSerializable(ctx, func(ctx context.Context, q db.Queryer) error {
		// The snapshot read above is stale by now; both availability and
		// overlap are decided again under serializable isolation.
		cur, err := u.listings.FindDomainByID(ctx, q, l.ID())
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.Mark(err, ErrResourceNotFound)
			}
			return err
		}
		if !cur.Available() {
			return ErrResourceUnavailable
		}

		overlaps, err := u.bookings.FindOverlapping(ctx, q, l.ID(), dates.Start(), dates.End())
		if err != nil {
			return err
		}
		if len(overlaps) > 0 {
			return ErrBookingConflict
		}
		return u.bookings.Insert(ctx, q, b)
	})
	if err != nil {
		if infra.IsKind(err, infra.KindConflict) {
			return uuid.Nil, errs.Mark(err, ErrBookingConflict)
		}
		return uuid.Nil, err
	}

	u.invalidateBookingCaches()
	return b.ID(), nil
}

// Cancel removes the requester's own booking. The rules live on the entity:
// ownership, still-active status, and the 24 hour lead time.
func (u *bookingUseCaseImpl) Cancel(ctx context.Context, bookingID, requesterID uuid.UUID) error {
	b, err := u.bookings.FindDomainByID(ctx, u.pool, bookingID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return errs.Mark(err, ErrBookingNotFound)
		}
		return err
	}

	if err := b.ValidateCancellationBy(requesterID, u.clock.Now()); err != nil {
		switch {
		case errors.Is(err, booking.ErrNotOwner):
			// Hide foreign bookings; the caller cannot tell they exist.
			return errs.Mark(err, ErrBookingNotFound)
		case errors.Is(err, booking.ErrCancellationWindow):
			return errs.Mark(err, ErrCancellationWindowClosed)
		default:
			return errs.Mark(err, ErrCancellationNotAllowed)
		}
	}

	if err := u.bookings.Delete(ctx, u.pool, bookingID); err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return errs.Mark(err, ErrBookingNotFound)
		}
		return err
	}

	u.invalidateBookingCaches()
	return nil
}

// UpdateStatus is the admin path driving the pending -> confirmed ->
// completed lifecycle.
func (u *bookingUseCaseImpl) UpdateStatus(ctx context.Context, bookingID uuid.UUID, next booking.Status) error {
	b, err := u.bookings.FindDomainByID(ctx, u.pool, bookingID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return errs.Mark(err, ErrBookingNotFound)
		}
		return err
	}

	if err := b.TransitionTo(next); err != nil {
		return errs.Mark(err, ErrInvalidStatusTransition)
	}

	if err := u.bookings.UpdateStatus(ctx, u.pool, bookingID, next); err != nil {
		return err
	}

	u.invalidateBookingCaches()
	return nil
}

func (u *bookingUseCaseImpl) SetAdminNote(ctx context.Context, bookingID uuid.UUID, note string) error {
	if err := u.bookings.SetAdminNote(ctx, u.pool, bookingID, note); err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return errs.Mark(err, ErrBookingNotFound)
		}
		return err
	}

	u.invalidateBookingCaches()
	return nil
}

// ForceDelete is the admin cleanup path: no lead-time window, but only
// bookings that have already run their course.
func (u *bookingUseCaseImpl) ForceDelete(ctx context.Context, bookingID uuid.UUID) error {
	b, err := u.bookings.FindDomainByID(ctx, u.pool, bookingID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return errs.Mark(err, ErrBookingNotFound)
		}
		return err
	}

	if err := b.ValidateForceDelete(); err != nil {
		return errs.Mark(err, ErrBookingNotTerminal)
	}

	if err := u.bookings.Delete(ctx, u.pool, bookingID); err != nil {
		return err
	}

	u.invalidateBookingCaches()
	return nil
}

// Booking mutations invalidate every cached booking list and the dashboard
// aggregates; listing caches are untouched because listings did not change.
func (u *bookingUseCaseImpl) invalidateBookingCaches() {
	u.cache.InvalidatePattern("booking:")
	u.cache.InvalidatePattern("dashboard:")
}
