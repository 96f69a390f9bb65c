package booking

import (
	"errors"
	"fmt"
	"time"

	"rentyard/internal/pkg/clock"
)

var (
	ErrEndNotAfterStart = errors.New("end date must be after start date")
	ErrStartInPast      = errors.New("start date cannot be in the past")
	ErrNegativeAmount   = errors.New("amount cannot be negative")
)

// DateRange is a half-open interval [start, end). Two ranges overlap when
// NOT (a.end <= b.start OR a.start >= b.end), so a booking ending at instant
// T never conflicts with one starting at T.
type DateRange struct {
	start time.Time
	end   time.Time
}

func NewDateRange(start, end time.Time) (DateRange, error) {
	if !end.After(start) {
		return DateRange{}, ErrEndNotAfterStart
	}
	return DateRange{start: start, end: end}, nil
}

func (r DateRange) Start() time.Time        { return r.start }
func (r DateRange) End() time.Time          { return r.end }
func (r DateRange) Duration() time.Duration { return r.end.Sub(r.start) }

func (r DateRange) Overlaps(other DateRange) bool {
	return r.start.Before(other.end) && other.start.Before(r.end)
}

// ValidateStartAt rejects a range starting before today. Both sides are
// truncated to midnight first, so a booking for later today is accepted
// regardless of the current time of day.
func (r DateRange) ValidateStartAt(now time.Time) error {
	if clock.TruncateToDay(r.start).Before(clock.TruncateToDay(now)) {
		return ErrStartInPast
	}
	return nil
}

// ToTstzrange renders the range in Postgres range-literal form for the
// exclusion constraint column.
func (r DateRange) ToTstzrange() string {
	return fmt.Sprintf("[%s,%s)", r.start.Format(time.RFC3339), r.end.Format(time.RFC3339))
}

type Money struct {
	cents int64
}

func NewMoney(cents int64) (Money, error) {
	if cents < 0 {
		return Money{}, ErrNegativeAmount
	}
	return Money{cents: cents}, nil
}

func (m Money) Cents() int64 {
	return m.cents
}

func (m Money) Dollars() float64 {
	return float64(m.cents) / 100.0
}

type Note struct {
	value string
}

func NewNote(value string) Note {
	return Note{value: value}
}

func (n Note) String() string {
	return n.value
}

func (n Note) IsEmpty() bool {
	return n.value == ""
}
