//go:build unit || e2e

package builder

import (
	"time"

	dombooking "rentyard/internal/domain/booking"
	domlisting "rentyard/internal/domain/listing"
	reqdto "rentyard/internal/handler/dto/request"
	"rentyard/internal/usecase/queries"

	"github.com/google/uuid"
)

type BookingBuilder struct {
	ID           uuid.UUID
	ResourceKind string
	ListingID    uuid.UUID
	ListingName  string
	UserID       uuid.UUID
	UserEmail    string
	StartDate    time.Time
	EndDate      time.Time
	Status       string
	TotalCents   int64
	Note         string
	AdminNote    string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func NewBookingBuilder() *BookingBuilder {
	now := time.Now()
	start := now.Add(72 * time.Hour).Truncate(time.Hour)
	return &BookingBuilder{
		ID:           uuid.New(),
		ResourceKind: "equipment",
		ListingID:    uuid.New(),
		ListingName:  "Compact Excavator",
		UserID:       uuid.New(),
		UserEmail:    "customer@example.com",
		StartDate:    start,
		EndDate:      start.Add(48 * time.Hour),
		Status:       "pending",
		TotalCents:   10000,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func (b *BookingBuilder) With(mutate func(*BookingBuilder)) *BookingBuilder {
	mutate(b)
	return b
}

// Build methods
func (b *BookingBuilder) BuildDomain() (*dombooking.Booking, error) {
	resource, err := dombooking.NewResourceRef(domlisting.Kind(b.ResourceKind), b.ListingID)
	if err != nil {
		return nil, err
	}
	dates, err := dombooking.NewDateRange(b.StartDate, b.EndDate)
	if err != nil {
		return nil, err
	}
	total, err := dombooking.NewMoney(b.TotalCents)
	if err != nil {
		return nil, err
	}
	return dombooking.Reconstruct(
		b.ID, resource, b.UserID, dates, dombooking.Status(b.Status), total,
		dombooking.NewNote(b.Note), dombooking.NewNote(b.AdminNote),
		b.CreatedAt, b.UpdatedAt,
	), nil
}

func (b *BookingBuilder) BuildView() *queries.BookingView {
	view := &queries.BookingView{
		ID:           b.ID,
		ResourceKind: b.ResourceKind,
		ListingID:    b.ListingID,
		ListingName:  b.ListingName,
		UserID:       b.UserID,
		UserEmail:    b.UserEmail,
		StartDate:    b.StartDate,
		EndDate:      b.EndDate,
		Status:       b.Status,
		TotalCents:   b.TotalCents,
		CreatedAt:    b.CreatedAt,
		UpdatedAt:    b.UpdatedAt,
	}
	if b.Note != "" {
		note := b.Note
		view.Note = &note
	}
	if b.AdminNote != "" {
		adminNote := b.AdminNote
		view.AdminNote = &adminNote
	}
	return view
}

func (b *BookingBuilder) BuildListItem() *queries.BookingListItem {
	return &queries.BookingListItem{
		ID:           b.ID,
		ResourceKind: b.ResourceKind,
		ListingID:    b.ListingID,
		ListingName:  b.ListingName,
		StartDate:    b.StartDate,
		EndDate:      b.EndDate,
		Status:       b.Status,
		TotalCents:   b.TotalCents,
		CreatedAt:    b.CreatedAt,
	}
}

func (b *BookingBuilder) BuildOverlap() queries.OverlapRecord {
	return queries.OverlapRecord{
		ID:        b.ID,
		StartDate: b.StartDate,
		EndDate:   b.EndDate,
		Status:    b.Status,
	}
}

func (b *BookingBuilder) BuildCreateRequestDTO() reqdto.CreateBookingRequest {
	req := reqdto.CreateBookingRequest{
		ListingID: b.ListingID,
		StartDate: b.StartDate,
		EndDate:   b.EndDate,
	}
	if b.Note != "" {
		note := b.Note
		req.Note = &note
	}
	return req
}

// Fluent builder methods
func (b *BookingBuilder) WithID(id uuid.UUID) *BookingBuilder {
	b.ID = id
	return b
}

func (b *BookingBuilder) WithListingID(listingID uuid.UUID) *BookingBuilder {
	b.ListingID = listingID
	return b
}

func (b *BookingBuilder) WithUserID(userID uuid.UUID) *BookingBuilder {
	b.UserID = userID
	return b
}

func (b *BookingBuilder) WithDates(start, end time.Time) *BookingBuilder {
	b.StartDate = start
	b.EndDate = end
	return b
}

func (b *BookingBuilder) WithStatus(status string) *BookingBuilder {
	b.Status = status
	return b
}

func (b *BookingBuilder) WithTotalCents(cents int64) *BookingBuilder {
	b.TotalCents = cents
	return b
}

func (b *BookingBuilder) WithNote(note string) *BookingBuilder {
	b.Note = note
	return b
}

func (b *BookingBuilder) AsConfirmed() *BookingBuilder {
	b.Status = "confirmed"
	return b
}

func (b *BookingBuilder) AsCompleted() *BookingBuilder {
	b.Status = "completed"
	return b
}
