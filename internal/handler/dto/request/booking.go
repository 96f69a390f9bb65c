package request

import (
	"strings"
	"time"

	"rentyard/internal/usecase/commands"

	"github.com/google/uuid"
)

type CreateBookingRequest struct {
	ListingID uuid.UUID `json:"listing_id" binding:"required"`
	StartDate time.Time `json:"start_date" binding:"required"`
	EndDate   time.Time `json:"end_date" binding:"required"`
	Note      *string   `json:"note,omitempty"`
}

func (r CreateBookingRequest) ToInput(userID uuid.UUID) commands.CreateBookingInput {
	note := ""
	if r.Note != nil {
		note = strings.TrimSpace(*r.Note)
	}
	return commands.CreateBookingInput{
		ListingID: r.ListingID,
		UserID:    userID,
		StartDate: r.StartDate,
		EndDate:   r.EndDate,
		Note:      note,
	}
}

type UpdateBookingStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=confirmed completed"`
}

type AdminNoteRequest struct {
	Note string `json:"note"`
}
