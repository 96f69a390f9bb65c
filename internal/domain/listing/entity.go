package listing

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrEmptyName        = errors.New("listing name cannot be empty")
	ErrNameTooLong      = errors.New("listing name is too long (max 255 characters)")
	ErrInvalidKind      = errors.New("invalid listing kind")
	ErrInvalidPriceUnit = errors.New("invalid price unit")
	ErrNegativePrice    = errors.New("price cannot be negative")
)

const MaxNameLength = 255

type Listing struct {
	id          uuid.UUID
	kind        Kind
	categoryID  uuid.UUID
	name        string
	description string
	priceCents  int64
	priceUnit   PriceUnit
	available   bool
	imageURL    string
	createdAt   time.Time
	updatedAt   time.Time
}

func NewListing(
	id uuid.UUID,
	kind Kind,
	categoryID uuid.UUID,
	name, description string,
	priceCents int64,
	priceUnit PriceUnit,
	available bool,
	imageURL string,
) (*Listing, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}
	if len(name) > MaxNameLength {
		return nil, ErrNameTooLong
	}
	if !kind.IsValid() {
		return nil, ErrInvalidKind
	}
	if !priceUnit.IsValid() {
		return nil, ErrInvalidPriceUnit
	}
	if priceCents < 0 {
		return nil, ErrNegativePrice
	}

	return &Listing{
		id:          id,
		kind:        kind,
		categoryID:  categoryID,
		name:        name,
		description: description,
		priceCents:  priceCents,
		priceUnit:   priceUnit,
		available:   available,
		imageURL:    imageURL,
	}, nil
}

func (l *Listing) ID() uuid.UUID         { return l.id }
func (l *Listing) Kind() Kind            { return l.kind }
func (l *Listing) CategoryID() uuid.UUID { return l.categoryID }
func (l *Listing) Name() string          { return l.name }
func (l *Listing) Description() string   { return l.description }
func (l *Listing) PriceCents() int64     { return l.priceCents }
func (l *Listing) PriceUnit() PriceUnit  { return l.priceUnit }
func (l *Listing) Available() bool       { return l.available }
func (l *Listing) ImageURL() string      { return l.imageURL }
func (l *Listing) CreatedAt() time.Time  { return l.createdAt }
func (l *Listing) UpdatedAt() time.Time  { return l.updatedAt }
