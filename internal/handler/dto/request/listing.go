package request

import (
	"rentyard/internal/usecase/commands"

	"github.com/google/uuid"
)

type ListingRequest struct {
	Kind        string    `json:"kind" binding:"required,oneof=equipment brokerage"`
	CategoryID  uuid.UUID `json:"category_id" binding:"required"`
	Name        string    `json:"name" binding:"required,max=255"`
	Description string    `json:"description"`
	PriceCents  int64     `json:"price_cents" binding:"min=0"`
	PriceUnit   string    `json:"price_unit" binding:"required,oneof=hourly daily weekly monthly fixed"`
	Available   bool      `json:"available"`
	ImageURL    string    `json:"image_url"`
}

func (r ListingRequest) ToInput() commands.ListingInput {
	return commands.ListingInput{
		Kind:        r.Kind,
		CategoryID:  r.CategoryID,
		Name:        r.Name,
		Description: r.Description,
		PriceCents:  r.PriceCents,
		PriceUnit:   r.PriceUnit,
		Available:   r.Available,
		ImageURL:    r.ImageURL,
	}
}

type AvailabilityRequest struct {
	Available *bool `json:"available" binding:"required"`
}

type CategoryRequest struct {
	Kind string `json:"kind" binding:"required,oneof=equipment brokerage"`
	Name string `json:"name" binding:"required"`
	Slug string `json:"slug" binding:"required"`
}

func (r CategoryRequest) ToInput() commands.CategoryInput {
	return commands.CategoryInput{
		Kind: r.Kind,
		Name: r.Name,
		Slug: r.Slug,
	}
}
