//go:build unit || e2e

package builder

import (
	"time"

	domlisting "rentyard/internal/domain/listing"
	reqdto "rentyard/internal/handler/dto/request"
	"rentyard/internal/usecase/queries"

	"github.com/google/uuid"
)

type ListingBuilder struct {
	ID           uuid.UUID
	Kind         string
	CategoryID   uuid.UUID
	CategoryName string
	Name         string
	Description  string
	PriceCents   int64
	PriceUnit    string
	Available    bool
	ImageURL     string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func NewListingBuilder() *ListingBuilder {
	now := time.Now()
	return &ListingBuilder{
		ID:           uuid.New(),
		Kind:         "equipment",
		CategoryID:   uuid.New(),
		CategoryName: "Excavators",
		Name:         "Compact Excavator",
		Description:  "3.5t compact excavator with operator cab",
		PriceCents:   5000,
		PriceUnit:    "daily",
		Available:    true,
		ImageURL:     "https://img.example.com/excavator.jpg",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func (l *ListingBuilder) With(mutate func(*ListingBuilder)) *ListingBuilder {
	mutate(l)
	return l
}

// Build methods
func (l *ListingBuilder) BuildDomain() (*domlisting.Listing, error) {
	return domlisting.NewListing(
		l.ID, domlisting.Kind(l.Kind), l.CategoryID, l.Name, l.Description,
		l.PriceCents, domlisting.PriceUnit(l.PriceUnit), l.Available, l.ImageURL,
	)
}

func (l *ListingBuilder) BuildView() *queries.ListingView {
	return &queries.ListingView{
		ID:           l.ID,
		Kind:         l.Kind,
		CategoryID:   l.CategoryID,
		CategoryName: l.CategoryName,
		Name:         l.Name,
		Description:  l.Description,
		PriceCents:   l.PriceCents,
		PriceUnit:    l.PriceUnit,
		Available:    l.Available,
		ImageURL:     l.ImageURL,
		CreatedAt:    l.CreatedAt,
		UpdatedAt:    l.UpdatedAt,
	}
}

func (l *ListingBuilder) BuildRequestDTO() reqdto.ListingRequest {
	return reqdto.ListingRequest{
		Kind:        l.Kind,
		CategoryID:  l.CategoryID,
		Name:        l.Name,
		Description: l.Description,
		PriceCents:  l.PriceCents,
		PriceUnit:   l.PriceUnit,
		Available:   l.Available,
		ImageURL:    l.ImageURL,
	}
}

// Fluent builder methods
func (l *ListingBuilder) WithID(id uuid.UUID) *ListingBuilder {
	l.ID = id
	return l
}

func (l *ListingBuilder) WithKind(kind string) *ListingBuilder {
	l.Kind = kind
	return l
}

func (l *ListingBuilder) WithCategoryID(categoryID uuid.UUID) *ListingBuilder {
	l.CategoryID = categoryID
	return l
}

func (l *ListingBuilder) WithName(name string) *ListingBuilder {
	l.Name = name
	return l
}

func (l *ListingBuilder) WithPrice(cents int64, unit string) *ListingBuilder {
	l.PriceCents = cents
	l.PriceUnit = unit
	return l
}

func (l *ListingBuilder) AsUnavailable() *ListingBuilder {
	l.Available = false
	return l
}

func (l *ListingBuilder) AsBrokerage() *ListingBuilder {
	l.Kind = "brokerage"
	l.PriceUnit = "fixed"
	return l
}

type CategoryBuilder struct {
	ID   uuid.UUID
	Kind string
	Name string
	Slug string
}

func NewCategoryBuilder() *CategoryBuilder {
	return &CategoryBuilder{
		ID:   uuid.New(),
		Kind: "equipment",
		Name: "Excavators",
		Slug: "excavators",
	}
}

func (c *CategoryBuilder) BuildDomain() (*domlisting.Category, error) {
	return domlisting.NewCategory(c.ID, domlisting.Kind(c.Kind), c.Name, c.Slug)
}

func (c *CategoryBuilder) BuildView() *queries.CategoryView {
	return &queries.CategoryView{
		ID:   c.ID,
		Kind: c.Kind,
		Name: c.Name,
		Slug: c.Slug,
	}
}

func (c *CategoryBuilder) BuildRequestDTO() reqdto.CategoryRequest {
	return reqdto.CategoryRequest{
		Kind: c.Kind,
		Name: c.Name,
		Slug: c.Slug,
	}
}

func (c *CategoryBuilder) WithKind(kind string) *CategoryBuilder {
	c.Kind = kind
	return c
}

func (c *CategoryBuilder) WithSlug(slug string) *CategoryBuilder {
	c.Slug = slug
	return c
}
