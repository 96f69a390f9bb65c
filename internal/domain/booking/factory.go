package booking

import (
	"errors"

	"rentyard/internal/domain/listing"
	"rentyard/internal/pkg/clock"

	"github.com/google/uuid"
)

var ErrResourceUnavailable = errors.New("listing is not available for booking")

type Factory struct {
	Clock clock.Clock
}

func NewFactory(c clock.Clock) *Factory {
	return &Factory{Clock: c}
}

// CreateBooking validates the request against the listing snapshot and
// prices it. Validation order matches the resolver contract: range ordering
// was already enforced by NewDateRange, then not-in-the-past, then
// availability. Overlap against existing bookings is not this factory's
// concern; the repository enforces it inside the insert transaction.
func (f *Factory) CreateBooking(l *listing.Listing, userID uuid.UUID, dates DateRange, note Note) (*Booking, error) {
	if err := dates.ValidateStartAt(f.Clock.Now()); err != nil {
		return nil, err
	}
	if !l.Available() {
		return nil, ErrResourceUnavailable
	}

	resource, err := NewResourceRef(l.Kind(), l.ID())
	if err != nil {
		return nil, err
	}

	total, err := ComputeTotal(l.PriceCents(), l.PriceUnit(), dates)
	if err != nil {
		return nil, err
	}

	return NewBooking(resource, userID, dates, total, note), nil
}
