package commands

import (
	"context"

	"rentyard/internal/domain/listing"
	"rentyard/internal/infra"
	"rentyard/internal/infra/db"
	"rentyard/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrListingNotFound  = errs.New("listing not found")
	ErrListingInUse     = errs.New("listing has bookings and cannot be deleted")
	ErrCategoryNotFound = errs.New("category not found")
	ErrSlugTaken        = errs.New("category slug is already in use")
	ErrCategoryInUse    = errs.New("category has listings and cannot be deleted")
)

type ListingInput struct {
	Kind        string
	CategoryID  uuid.UUID
	Name        string
	Description string
	PriceCents  int64
	PriceUnit   string
	Available   bool
	ImageURL    string
}

type ListingCommands interface {
	Create(ctx context.Context, in ListingInput) (uuid.UUID, error)
	Update(ctx context.Context, id uuid.UUID, in ListingInput) error
	Delete(ctx context.Context, id uuid.UUID) error
	SetAvailability(ctx context.Context, id uuid.UUID, available bool) error
}

type listingUseCaseImpl struct {
	pool     db.Queryer
	listings ListingRepository
	cache    CacheInvalidator
}

func NewListingUsecase(pool db.Queryer, listings ListingRepository, cache CacheInvalidator) ListingCommands {
	return &listingUseCaseImpl{pool: pool, listings: listings, cache: cache}
}

func (u *listingUseCaseImpl) Create(ctx context.Context, in ListingInput) (uuid.UUID, error) {
	l, err := listing.NewListing(
		uuid.New(), listing.Kind(in.Kind), in.CategoryID, in.Name, in.Description,
		in.PriceCents, listing.PriceUnit(in.PriceUnit), in.Available, in.ImageURL,
	)
	if err != nil {
		return uuid.Nil, err
	}

	if err := u.listings.Insert(ctx, u.pool, l); err != nil {
		return uuid.Nil, err
	}

	u.invalidateListingCaches()
	return l.ID(), nil
}

func (u *listingUseCaseImpl) Update(ctx context.Context, id uuid.UUID, in ListingInput) error {
	l, err := listing.NewListing(
		id, listing.Kind(in.Kind), in.CategoryID, in.Name, in.Description,
		in.PriceCents, listing.PriceUnit(in.PriceUnit), in.Available, in.ImageURL,
	)
	if err != nil {
		return err
	}

	if err := u.listings.Update(ctx, u.pool, l); err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return errs.Mark(err, ErrListingNotFound)
		}
		return err
	}

	u.invalidateListingCaches()
	return nil
}

func (u *listingUseCaseImpl) Delete(ctx context.Context, id uuid.UUID) error {
	if err := u.listings.Delete(ctx, u.pool, id); err != nil {
		switch {
		case infra.IsKind(err, infra.KindNotFound):
			return errs.Mark(err, ErrListingNotFound)
		case infra.IsKind(err, infra.KindConflict), infra.IsKind(err, infra.KindDuplicateKey):
			return errs.Mark(err, ErrListingInUse)
		}
		return err
	}

	u.invalidateListingCaches()
	return nil
}

func (u *listingUseCaseImpl) SetAvailability(ctx context.Context, id uuid.UUID, available bool) error {
	if err := u.listings.SetAvailability(ctx, u.pool, id, available); err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return errs.Mark(err, ErrListingNotFound)
		}
		return err
	}

	u.invalidateListingCaches()
	return nil
}

// Listing mutations touch storefront pages and the dashboard counts, but not
// cached booking lists.
func (u *listingUseCaseImpl) invalidateListingCaches() {
	u.cache.InvalidatePattern("listing:")
	u.cache.InvalidatePattern("dashboard:")
}
