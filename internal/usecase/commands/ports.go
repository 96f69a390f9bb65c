package commands

import (
	"context"
	"time"

	"rentyard/internal/domain/booking"
	"rentyard/internal/domain/listing"
	"rentyard/internal/domain/user"
	"rentyard/internal/infra/db"
	"rentyard/internal/usecase/queries"

	"github.com/google/uuid"
)

// Repository ports. Implementations take the Queryer per call so the same
// method serves pool reads and in-transaction writes.

type BookingRepository interface {
	Insert(ctx context.Context, q db.Queryer, b *booking.Booking) error
	FindOverlapping(ctx context.Context, q db.Queryer, listingID uuid.UUID, start, end time.Time) ([]queries.OverlapRecord, error)
	FindDomainByID(ctx context.Context, q db.Queryer, id uuid.UUID) (*booking.Booking, error)
	UpdateStatus(ctx context.Context, q db.Queryer, id uuid.UUID, status booking.Status) error
	SetAdminNote(ctx context.Context, q db.Queryer, id uuid.UUID, note string) error
	Delete(ctx context.Context, q db.Queryer, id uuid.UUID) error
}

type ListingRepository interface {
	Insert(ctx context.Context, q db.Queryer, l *listing.Listing) error
	Update(ctx context.Context, q db.Queryer, l *listing.Listing) error
	Delete(ctx context.Context, q db.Queryer, id uuid.UUID) error
	FindDomainByID(ctx context.Context, q db.Queryer, id uuid.UUID) (*listing.Listing, error)
	SetAvailability(ctx context.Context, q db.Queryer, id uuid.UUID, available bool) error
}

type CategoryRepository interface {
	Insert(ctx context.Context, q db.Queryer, c *listing.Category) error
	Update(ctx context.Context, q db.Queryer, c *listing.Category) error
	Delete(ctx context.Context, q db.Queryer, id uuid.UUID) error
}

type UserRepository interface {
	Insert(ctx context.Context, q db.Queryer, u *user.User) error
	FindByEmail(ctx context.Context, q db.Queryer, email user.Email) (*user.User, error)
	FindByID(ctx context.Context, q db.Queryer, id uuid.UUID) (*user.User, error)
	UpdatePasswordHash(ctx context.Context, q db.Queryer, id uuid.UUID, hash string) error
	RecordLogin(ctx context.Context, q db.Queryer, id uuid.UUID, at time.Time) error
	SetActive(ctx context.Context, q db.Queryer, id uuid.UUID, active bool) error
}

// AuthTokenRecord backs both login OTPs and password-reset tokens; the
// purpose keeps the two flows from redeeming each other's tokens. Only a
// hash of the secret is ever stored.
type AuthTokenRecord struct {
	ID         uuid.UUID
	UserID     uuid.UUID
	Purpose    string
	TokenHash  string
	ExpiresAt  time.Time
	ConsumedAt *time.Time
	CreatedAt  time.Time
}

const (
	TokenPurposeOTP           = "otp"
	TokenPurposePasswordReset = "password_reset"
)

type AuthTokenRepository interface {
	Insert(ctx context.Context, q db.Queryer, rec AuthTokenRecord) error
	FindActiveByUser(ctx context.Context, q db.Queryer, userID uuid.UUID, purpose string, now time.Time) (*AuthTokenRecord, error)
	FindActiveByHash(ctx context.Context, q db.Queryer, tokenHash, purpose string, now time.Time) (*AuthTokenRecord, error)
	Consume(ctx context.Context, q db.Queryer, id uuid.UUID, at time.Time) error
	DeleteExpired(ctx context.Context, q db.Queryer, now time.Time) (int64, error)
}

// CacheInvalidator is the slice of the query cache the write side touches:
// after a successful mutation, every cached result whose key contains the
// given substring is dropped.
type CacheInvalidator interface {
	InvalidatePattern(pattern string) int
}
