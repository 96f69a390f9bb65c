package booking

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// CancellationLeadTime is how far before the start a booking must be for the
// owner to cancel it.
const CancellationLeadTime = 24 * time.Hour

var (
	ErrNotOwner           = errors.New("booking belongs to another user")
	ErrNotCancellable     = errors.New("booking status does not allow cancellation")
	ErrCancellationWindow = errors.New("cancellation window has closed")
	ErrNotTerminal        = errors.New("booking is not in a terminal status")
	ErrBadTransition      = errors.New("invalid status transition")
)

type Booking struct {
	id        uuid.UUID
	resource  ResourceRef
	userID    uuid.UUID
	dates     DateRange
	status    Status
	total     Money
	note      Note
	adminNote Note
	createdAt time.Time
	updatedAt time.Time
}

// NewBooking builds a fresh pending booking. Range ordering and the
// not-in-the-past rule are the caller's to validate first (the factory does);
// this constructor only assembles already-valid parts.
func NewBooking(resource ResourceRef, userID uuid.UUID, dates DateRange, total Money, note Note) *Booking {
	return &Booking{
		id:       uuid.New(),
		resource: resource,
		userID:   userID,
		dates:    dates,
		status:   StatusPending,
		total:    total,
		note:     note,
	}
}

func Reconstruct(
	id uuid.UUID,
	resource ResourceRef,
	userID uuid.UUID,
	dates DateRange,
	status Status,
	total Money,
	note, adminNote Note,
	createdAt, updatedAt time.Time,
) *Booking {
	return &Booking{
		id:        id,
		resource:  resource,
		userID:    userID,
		dates:     dates,
		status:    status,
		total:     total,
		note:      note,
		adminNote: adminNote,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

// ValidateCancellationBy checks the owner-cancellation rules: requester owns
// the booking, status is still active, and the start is at least
// CancellationLeadTime away.
func (b *Booking) ValidateCancellationBy(requesterID uuid.UUID, now time.Time) error {
	if b.userID != requesterID {
		return ErrNotOwner
	}
	if !b.status.IsActive() {
		return ErrNotCancellable
	}
	if b.dates.Start().Sub(now) < CancellationLeadTime {
		return ErrCancellationWindow
	}
	return nil
}

// ValidateForceDelete checks the admin path: no time window, but only
// bookings that have already run their course.
func (b *Booking) ValidateForceDelete() error {
	if !b.status.IsTerminal() {
		return ErrNotTerminal
	}
	return nil
}

func (b *Booking) TransitionTo(next Status) error {
	if !b.status.CanTransitionTo(next) {
		return ErrBadTransition
	}
	b.status = next
	return nil
}

func (b *Booking) ID() uuid.UUID         { return b.id }
func (b *Booking) Resource() ResourceRef { return b.resource }
func (b *Booking) UserID() uuid.UUID     { return b.userID }
func (b *Booking) Dates() DateRange      { return b.dates }
func (b *Booking) Status() Status        { return b.status }
func (b *Booking) Total() Money          { return b.total }
func (b *Booking) Note() Note            { return b.note }
func (b *Booking) AdminNote() Note       { return b.adminNote }
func (b *Booking) CreatedAt() time.Time  { return b.createdAt }
func (b *Booking) UpdatedAt() time.Time  { return b.updatedAt }
