package queries

import (
	"time"

	"github.com/google/uuid"
)

// View structs are the read models handed to handlers. Repositories build
// them straight from SQL rows; nothing here carries domain behavior.

// OverlapRecord describes an existing active booking that intersects a
// requested range. It feeds the conflict checks, not API responses, so it
// carries no json tags.
type OverlapRecord struct {
	ID        uuid.UUID
	StartDate time.Time
	EndDate   time.Time
	Status    string
}

type BookingView struct {
	ID           uuid.UUID  `json:"id"`
	ResourceKind string     `json:"resource_kind"`
	ListingID    uuid.UUID  `json:"listing_id"`
	ListingName  string     `json:"listing_name"`
	UserID       uuid.UUID  `json:"user_id"`
	UserEmail    string     `json:"user_email"`
	StartDate    time.Time  `json:"start_date"`
	EndDate      time.Time  `json:"end_date"`
	Status       string     `json:"status"`
	TotalCents   int64      `json:"total_cents"`
	Note         *string    `json:"note,omitempty"`
	AdminNote    *string    `json:"admin_note,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

type BookingListItem struct {
	ID           uuid.UUID `json:"id"`
	ResourceKind string    `json:"resource_kind"`
	ListingID    uuid.UUID `json:"listing_id"`
	ListingName  string    `json:"listing_name"`
	StartDate    time.Time `json:"start_date"`
	EndDate      time.Time `json:"end_date"`
	Status       string    `json:"status"`
	TotalCents   int64     `json:"total_cents"`
	CreatedAt    time.Time `json:"created_at"`
}

type ListingView struct {
	ID           uuid.UUID `json:"id"`
	Kind         string    `json:"kind"`
	CategoryID   uuid.UUID `json:"category_id"`
	CategoryName string    `json:"category_name"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	PriceCents   int64     `json:"price_cents"`
	PriceUnit    string    `json:"price_unit"`
	Available    bool      `json:"available"`
	ImageURL     string    `json:"image_url"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type CategoryView struct {
	ID   uuid.UUID `json:"id"`
	Kind string    `json:"kind"`
	Name string    `json:"name"`
	Slug string    `json:"slug"`
}

type AuthorizedUser struct {
	ID          uuid.UUID  `json:"id"`
	Email       string     `json:"email"`
	Name        string     `json:"name"`
	Role        string     `json:"role"`
	IsActive    bool       `json:"is_active"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
}

type DashboardStats struct {
	TotalBookings     int64 `json:"total_bookings"`
	PendingBookings   int64 `json:"pending_bookings"`
	ConfirmedBookings int64 `json:"confirmed_bookings"`
	CompletedBookings int64 `json:"completed_bookings"`
	RevenueCents      int64 `json:"revenue_cents"`
	EquipmentCount    int64 `json:"equipment_count"`
	BrokerageCount    int64 `json:"brokerage_count"`
	UserCount         int64 `json:"user_count"`
}
