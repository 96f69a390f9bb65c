//go:build unit

package booking_test

import (
	"testing"
	"time"

	"rentyard/internal/domain/booking"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDateRange(t *testing.T) {
	base := time.Date(2030, 6, 1, 0, 0, 0, 0, time.UTC)

	t.Run("accepts end after start", func(t *testing.T) {
		r, err := booking.NewDateRange(base, base.Add(time.Hour))
		require.NoError(t, err)
		assert.Equal(t, time.Hour, r.Duration())
	})

	t.Run("rejects end equal to start", func(t *testing.T) {
		_, err := booking.NewDateRange(base, base)
		assert.ErrorIs(t, err, booking.ErrEndNotAfterStart)
	})

	t.Run("rejects end before start", func(t *testing.T) {
		_, err := booking.NewDateRange(base, base.Add(-time.Hour))
		assert.ErrorIs(t, err, booking.ErrEndNotAfterStart)
	})
}

func TestDateRangeOverlaps(t *testing.T) {
	day := func(d int) time.Time {
		return time.Date(2030, 6, d, 0, 0, 0, 0, time.UTC)
	}
	r := func(startDay, endDay int) booking.DateRange {
		dr, err := booking.NewDateRange(day(startDay), day(endDay))
		require.NoError(t, err)
		return dr
	}

	tests := []struct {
		name string
		a, b booking.DateRange
		want bool
	}{
		{name: "disjoint ranges", a: r(1, 3), b: r(5, 7), want: false},
		{name: "contained range", a: r(1, 10), b: r(3, 5), want: true},
		{name: "partial overlap", a: r(1, 4), b: r(2, 6), want: true},
		{name: "identical ranges", a: r(1, 3), b: r(1, 3), want: true},
		{name: "touching at boundary does not overlap (half-open)", a: r(1, 3), b: r(3, 5), want: false},
		{name: "touching at boundary reversed", a: r(3, 5), b: r(1, 3), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.Overlaps(tt.b))
			assert.Equal(t, tt.want, tt.b.Overlaps(tt.a), "overlap must be symmetric")
		})
	}
}

func TestDateRangeValidateStartAt(t *testing.T) {
	now := time.Date(2030, 6, 15, 14, 30, 0, 0, time.UTC)

	t.Run("yesterday fails regardless of time of day", func(t *testing.T) {
		r, err := booking.NewDateRange(now.Add(-24*time.Hour), now.Add(48*time.Hour))
		require.NoError(t, err)
		assert.ErrorIs(t, r.ValidateStartAt(now), booking.ErrStartInPast)
	})

	t.Run("earlier today passes because comparison is date-only", func(t *testing.T) {
		morning := time.Date(2030, 6, 15, 8, 0, 0, 0, time.UTC)
		r, err := booking.NewDateRange(morning, morning.Add(24*time.Hour))
		require.NoError(t, err)
		assert.NoError(t, r.ValidateStartAt(now))
	})

	t.Run("tomorrow passes", func(t *testing.T) {
		r, err := booking.NewDateRange(now.Add(24*time.Hour), now.Add(48*time.Hour))
		require.NoError(t, err)
		assert.NoError(t, r.ValidateStartAt(now))
	})
}

func TestDateRangeToTstzrange(t *testing.T) {
	start := time.Date(2030, 6, 1, 0, 0, 0, 0, time.UTC)
	r, err := booking.NewDateRange(start, start.Add(48*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, "[2030-06-01T00:00:00Z,2030-06-03T00:00:00Z)", r.ToTstzrange())
}
