package repository

import (
	"context"

	"rentyard/internal/domain/listing"
	"rentyard/internal/infra"
	"rentyard/internal/infra/db"
	"rentyard/internal/usecase/queries"

	"github.com/google/uuid"
)

type ListingRepository struct{}

func NewListingRepository() *ListingRepository {
	return &ListingRepository{}
}

const listingViewColumns = `
	l.id, l.kind, l.category_id, c.name, l.name, l.description,
	l.price_cents, l.price_unit, l.available, l.image_url, l.created_at, l.updated_at`

func (r *ListingRepository) Insert(ctx context.Context, q db.Queryer, l *listing.Listing) error {
	query := `
		INSERT INTO listings (id, kind, category_id, name, description, price_cents, price_unit, available, image_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := q.Exec(ctx, query,
		l.ID(), l.Kind().String(), l.CategoryID(), l.Name(), l.Description(),
		l.PriceCents(), l.PriceUnit().String(), l.Available(), l.ImageURL(),
	)
	if err != nil {
		if kind, ok := infra.ClassifyPgError(err); ok {
			return infra.WrapRepoErr("listing violates a constraint", err, kind)
		}
		return infra.WrapRepoErr("failed to insert listing", err)
	}
	return nil
}

func (r *ListingRepository) Update(ctx context.Context, q db.Queryer, l *listing.Listing) error {
	query := `
		UPDATE listings
		SET kind = $2, category_id = $3, name = $4, description = $5,
		    price_cents = $6, price_unit = $7, available = $8, image_url = $9,
		    updated_at = now()
		WHERE id = $1
	`

	tag, err := q.Exec(ctx, query,
		l.ID(), l.Kind().String(), l.CategoryID(), l.Name(), l.Description(),
		l.PriceCents(), l.PriceUnit().String(), l.Available(), l.ImageURL(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to update listing", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("listing not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *ListingRepository) Delete(ctx context.Context, q db.Queryer, id uuid.UUID) error {
	tag, err := q.Exec(ctx, `DELETE FROM listings WHERE id = $1`, id)
	if err != nil {
		if kind, ok := infra.ClassifyPgError(err); ok {
			return infra.WrapRepoErr("listing still referenced by bookings", err, kind)
		}
		return infra.WrapRepoErr("failed to delete listing", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("listing not found", nil, infra.KindNotFound)
	}
	return nil
}

// FindDomainByID loads the listing as a domain entity for pricing and
// availability checks. Reads feeding the storefront go through FindByID
// instead, which returns the flat view.
func (r *ListingRepository) FindDomainByID(ctx context.Context, q db.Queryer, id uuid.UUID) (*listing.Listing, error) {
	query := `
		SELECT id, kind, category_id, name, description, price_cents, price_unit, available, image_url
		FROM listings
		WHERE id = $1
	`

	var (
		lid, categoryID     uuid.UUID
		kind, name, desc    string
		priceUnit, imageURL string
		priceCents          int64
		available           bool
	)
	err := q.QueryRow(ctx, query, id).Scan(
		&lid, &kind, &categoryID, &name, &desc, &priceCents, &priceUnit, &available, &imageURL,
	)
	if err != nil {
		if infra.IsNoRows(err) {
			return nil, infra.WrapRepoErr("listing not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find listing by id", err)
	}

	l, err := listing.NewListing(lid, listing.Kind(kind), categoryID, name, desc, priceCents, listing.PriceUnit(priceUnit), available, imageURL)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to rebuild listing entity", err)
	}
	return l, nil
}

func (r *ListingRepository) FindByID(ctx context.Context, q db.Queryer, id uuid.UUID) (*queries.ListingView, error) {
	query := `
		SELECT ` + listingViewColumns + `
		FROM listings l
		JOIN categories c ON c.id = l.category_id
		WHERE l.id = $1
	`

	view, err := scanListingView(q.QueryRow(ctx, query, id))
	if err != nil {
		if infra.IsNoRows(err) {
			return nil, infra.WrapRepoErr("listing not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find listing by id", err)
	}
	return view, nil
}

// List filters by kind and/or category; empty values match everything.
// onlyAvailable is the storefront default, admins pass false to see all.
func (r *ListingRepository) List(ctx context.Context, q db.Queryer, kind string, categoryID uuid.NullUUID, onlyAvailable bool, limit, offset int) ([]*queries.ListingView, error) {
	query := `
		SELECT ` + listingViewColumns + `
		FROM listings l
		JOIN categories c ON c.id = l.category_id
		WHERE ($1 = '' OR l.kind = $1)
		  AND ($2::uuid IS NULL OR l.category_id = $2)
		  AND (NOT $3::bool OR l.available)
		ORDER BY l.created_at DESC
		LIMIT $4 OFFSET $5
	`

	rows, err := q.Query(ctx, query, kind, categoryID, onlyAvailable, limit, offset)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list listings", err)
	}
	defer rows.Close()

	items := make([]*queries.ListingView, 0)
	for rows.Next() {
		view, err := scanListingView(rows)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan listing row", err)
		}
		items = append(items, view)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read listing rows", err)
	}
	return items, nil
}

func (r *ListingRepository) SetAvailability(ctx context.Context, q db.Queryer, id uuid.UUID, available bool) error {
	tag, err := q.Exec(ctx, `UPDATE listings SET available = $2, updated_at = now() WHERE id = $1`, id, available)
	if err != nil {
		return infra.WrapRepoErr("failed to update listing availability", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("listing not found", nil, infra.KindNotFound)
	}
	return nil
}

func scanListingView(row interface{ Scan(dest ...any) error }) (*queries.ListingView, error) {
	var v queries.ListingView
	err := row.Scan(
		&v.ID, &v.Kind, &v.CategoryID, &v.CategoryName, &v.Name, &v.Description,
		&v.PriceCents, &v.PriceUnit, &v.Available, &v.ImageURL, &v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
