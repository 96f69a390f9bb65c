package booking

import (
	"errors"

	"rentyard/internal/domain/listing"

	"github.com/google/uuid"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCompleted Status = "completed"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCompleted:
		return true
	default:
		return false
	}
}

// IsActive reports whether the status still blocks the resource's calendar.
// Only pending and confirmed bookings participate in overlap checks.
func (s Status) IsActive() bool {
	return s == StatusPending || s == StatusConfirmed
}

// IsTerminal reports whether the booking has run its course. Terminal
// bookings are the only ones admins may force-delete.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted
}

// CanTransitionTo enforces pending -> confirmed -> completed.
func (s Status) CanTransitionTo(next Status) bool {
	switch s {
	case StatusPending:
		return next == StatusConfirmed
	case StatusConfirmed:
		return next == StatusCompleted
	default:
		return false
	}
}

var ErrInvalidResourceRef = errors.New("booking must reference exactly one listing")

// ResourceRef identifies the one listing a booking is for. Construction is
// the only way to get a non-zero ref, which keeps the equipment-XOR-brokerage
// invariant out of reach of callers.
type ResourceRef struct {
	kind listing.Kind
	id   uuid.UUID
}

func NewResourceRef(kind listing.Kind, id uuid.UUID) (ResourceRef, error) {
	if !kind.IsValid() || id == uuid.Nil {
		return ResourceRef{}, ErrInvalidResourceRef
	}
	return ResourceRef{kind: kind, id: id}, nil
}

func (r ResourceRef) Kind() listing.Kind { return r.kind }
func (r ResourceRef) ID() uuid.UUID      { return r.id }
func (r ResourceRef) IsZero() bool       { return r.id == uuid.Nil }
