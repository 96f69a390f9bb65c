//go:build unit

package commands_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"rentyard/internal/domain/booking"
	"rentyard/internal/domain/listing"
	"rentyard/internal/infra/db"
	"rentyard/internal/pkg/clock"
	"rentyard/internal/usecase/commands"
	"rentyard/internal/usecase/queries"
	"rentyard/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// The concurrency property cannot be expressed with gomock expectations, so
// this test runs the real usecase against in-memory fakes: a store guarded by
// the tx manager's lock, standing in for Postgres serializable isolation.

type memoryBookingStore struct {
	mu       sync.Mutex
	bookings []*booking.Booking
	inserts  int
}

func (s *memoryBookingStore) Insert(_ context.Context, _ db.Queryer, b *booking.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bookings = append(s.bookings, b)
	s.inserts++
	return nil
}

func (s *memoryBookingStore) FindOverlapping(_ context.Context, _ db.Queryer, listingID uuid.UUID, start, end time.Time) ([]queries.OverlapRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []queries.OverlapRecord
	for _, b := range s.bookings {
		if b.Resource().ID() != listingID || !b.Status().IsActive() {
			continue
		}
		if b.Dates().Start().Before(end) && b.Dates().End().After(start) {
			out = append(out, queries.OverlapRecord{
				ID:        b.ID(),
				StartDate: b.Dates().Start(),
				EndDate:   b.Dates().End(),
				Status:    string(b.Status()),
			})
		}
	}
	return out, nil
}

func (s *memoryBookingStore) FindDomainByID(_ context.Context, _ db.Queryer, id uuid.UUID) (*booking.Booking, error) {
	return nil, errors.New("not implemented")
}

func (s *memoryBookingStore) UpdateStatus(_ context.Context, _ db.Queryer, _ uuid.UUID, _ booking.Status) error {
	return errors.New("not implemented")
}

func (s *memoryBookingStore) SetAdminNote(_ context.Context, _ db.Queryer, _ uuid.UUID, _ string) error {
	return errors.New("not implemented")
}

func (s *memoryBookingStore) Delete(_ context.Context, _ db.Queryer, _ uuid.UUID) error {
	return errors.New("not implemented")
}

// lockTxManager serializes transaction bodies with a mutex, which is exactly
// the guarantee the resolver relies on from serializable isolation: the
// re-check and the insert of two competing requests never interleave.
type lockTxManager struct {
	mu sync.Mutex
}

func (m *lockTxManager) WithinSerializable(ctx context.Context, fn func(ctx context.Context, q db.Queryer) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return fn(ctx, nil)
}

func (m *lockTxManager) Within(ctx context.Context, fn func(ctx context.Context, q db.Queryer) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return fn(ctx, nil)
}

type noopInvalidator struct{}

func (noopInvalidator) InvalidatePattern(string) int { return 0 }

func TestCreateBookingConcurrentExactlyOneWins(t *testing.T) {
	t.Parallel()

	lb := builder.NewListingBuilder().WithPrice(5000, "daily")
	store := &memoryBookingStore{}
	fakeListings := &staticListingRepo{lb: lb}
	uc := commands.NewBookingUsecase(nil, &lockTxManager{}, store, fakeListings, noopInvalidator{}, clock.NewMockClock(fixedNow))

	start := fixedNow.Add(48 * time.Hour)
	end := start.Add(72 * time.Hour)
	const workers = 16

	var wg sync.WaitGroup
	errCh := make(chan error, workers)
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := uc.Create(context.Background(), commands.CreateBookingInput{
				ListingID: lb.ID,
				UserID:    uuid.New(),
				StartDate: start,
				EndDate:   end,
			})
			errCh <- err
		}()
	}
	wg.Wait()
	close(errCh)

	var wins, conflicts int
	for err := range errCh {
		switch {
		case err == nil:
			wins++
		case errors.Is(err, commands.ErrBookingConflict):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	require.Equal(t, 1, wins, "exactly one request must win the slot")
	require.Equal(t, workers-1, conflicts)
	require.Equal(t, 1, store.inserts, "only the winner may insert")
}

// staticListingRepo serves one listing; the race test never writes listings.
type staticListingRepo struct {
	lb *builder.ListingBuilder
}

func (r *staticListingRepo) FindDomainByID(_ context.Context, _ db.Queryer, id uuid.UUID) (*listing.Listing, error) {
	if id != r.lb.ID {
		return nil, errors.New("unexpected listing id")
	}
	return r.lb.BuildDomain()
}

func (r *staticListingRepo) Insert(_ context.Context, _ db.Queryer, _ *listing.Listing) error {
	return errors.New("not implemented")
}

func (r *staticListingRepo) Update(_ context.Context, _ db.Queryer, _ *listing.Listing) error {
	return errors.New("not implemented")
}

func (r *staticListingRepo) Delete(_ context.Context, _ db.Queryer, _ uuid.UUID) error {
	return errors.New("not implemented")
}

func (r *staticListingRepo) SetAvailability(_ context.Context, _ db.Queryer, _ uuid.UUID, _ bool) error {
	return errors.New("not implemented")
}
