package api

import (
	"errors"
	"net/http"

	"rentyard/internal/domain/booking"
	"rentyard/internal/domain/listing"
	reqdto "rentyard/internal/handler/dto/request"
	resdto "rentyard/internal/handler/dto/response"
	"rentyard/internal/handler/httperr"
	"rentyard/internal/usecase/commands"
	"rentyard/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AdminHandler groups the management surface: listing and category CRUD,
// booking oversight, and the dashboard. Routing guards it with the admin
// role, so handlers here do not re-check.
type AdminHandler struct {
	listings     commands.ListingCommands
	categories   commands.CategoryCommands
	bookings     commands.BookingCommands
	listingReads queries.ListingQueries
	bookingReads queries.BookingQueries
	dashboard    queries.DashboardQueries
}

func NewAdminHandler(
	listings commands.ListingCommands,
	categories commands.CategoryCommands,
	bookings commands.BookingCommands,
	listingReads queries.ListingQueries,
	bookingReads queries.BookingQueries,
	dashboard queries.DashboardQueries,
) *AdminHandler {
	return &AdminHandler{
		listings:     listings,
		categories:   categories,
		bookings:     bookings,
		listingReads: listingReads,
		bookingReads: bookingReads,
		dashboard:    dashboard,
	}
}

// @Summary Create listing
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.ListingRequest true "Listing"
// @Success 201 {object} resdto.CreatedResponse
// @Failure 400 {object} map[string]string
// @Router /admin/listings [post]
func (h *AdminHandler) CreateListing(c *gin.Context) {
	var req reqdto.ListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return
	}

	id, err := h.listings.Create(c.Request.Context(), req.ToInput())
	if err != nil {
		h.writeListingError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resdto.CreatedResponse{ID: id})
}

// @Summary Update listing
// @Tags admin
// @Accept json
// @Security BearerAuth
// @Param id path string true "Listing ID"
// @Param request body reqdto.ListingRequest true "Listing"
// @Success 204 "No Content"
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /admin/listings/{id} [put]
func (h *AdminHandler) UpdateListing(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid listing ID format", nil)
		return
	}

	var req reqdto.ListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return
	}

	if err := h.listings.Update(c.Request.Context(), id, req.ToInput()); err != nil {
		h.writeListingError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// @Summary Delete listing
// @Tags admin
// @Security BearerAuth
// @Param id path string true "Listing ID"
// @Success 204 "No Content"
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /admin/listings/{id} [delete]
func (h *AdminHandler) DeleteListing(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid listing ID format", nil)
		return
	}

	if err := h.listings.Delete(c.Request.Context(), id); err != nil {
		switch {
		case errors.Is(err, commands.ErrListingNotFound):
			httperr.AbortWithError(c, http.StatusNotFound, err, "Listing not found", nil)
		case errors.Is(err, commands.ErrListingInUse):
			httperr.AbortWithError(c, http.StatusConflict, err, "Listing has bookings and cannot be deleted", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}

	c.Status(http.StatusNoContent)
}

// @Summary Set listing availability
// @Tags admin
// @Accept json
// @Security BearerAuth
// @Param id path string true "Listing ID"
// @Param request body reqdto.AvailabilityRequest true "Availability"
// @Success 204 "No Content"
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /admin/listings/{id}/availability [patch]
func (h *AdminHandler) SetListingAvailability(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid listing ID format", nil)
		return
	}

	var req reqdto.AvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return
	}

	if err := h.listings.SetAvailability(c.Request.Context(), id, *req.Available); err != nil {
		if errors.Is(err, commands.ErrListingNotFound) {
			httperr.AbortWithError(c, http.StatusNotFound, err, "Listing not found", nil)
			return
		}
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}

	c.Status(http.StatusNoContent)
}

// @Summary List all listings
// @Description Admin view including unavailable listings
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {array} queries.ListingView
// @Router /admin/listings [get]
func (h *AdminHandler) ListAllListings(c *gin.Context) {
	limit, offset := pagination(c)

	items, err := h.listingReads.List(c.Request.Context(), c.Query("kind"), uuid.NullUUID{}, false, limit, offset)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}

	c.JSON(http.StatusOK, items)
}

// @Summary Create category
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.CategoryRequest true "Category"
// @Success 201 {object} resdto.CreatedResponse
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /admin/categories [post]
func (h *AdminHandler) CreateCategory(c *gin.Context) {
	var req reqdto.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return
	}

	id, err := h.categories.Create(c.Request.Context(), req.ToInput())
	if err != nil {
		h.writeCategoryError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resdto.CreatedResponse{ID: id})
}

// @Summary Update category
// @Tags admin
// @Accept json
// @Security BearerAuth
// @Param id path string true "Category ID"
// @Param request body reqdto.CategoryRequest true "Category"
// @Success 204 "No Content"
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /admin/categories/{id} [put]
func (h *AdminHandler) UpdateCategory(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid category ID format", nil)
		return
	}

	var req reqdto.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return
	}

	if err := h.categories.Update(c.Request.Context(), id, req.ToInput()); err != nil {
		h.writeCategoryError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// @Summary Delete category
// @Tags admin
// @Security BearerAuth
// @Param id path string true "Category ID"
// @Success 204 "No Content"
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /admin/categories/{id} [delete]
func (h *AdminHandler) DeleteCategory(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid category ID format", nil)
		return
	}

	if err := h.categories.Delete(c.Request.Context(), id); err != nil {
		h.writeCategoryError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// @Summary List all bookings
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param status query string false "Filter by status"
// @Success 200 {array} queries.BookingListItem
// @Router /admin/bookings [get]
func (h *AdminHandler) ListBookings(c *gin.Context) {
	limit, offset := pagination(c)

	items, err := h.bookingReads.ListAll(c.Request.Context(), c.Query("status"), limit, offset)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}

	c.JSON(http.StatusOK, items)
}

// @Summary Update booking status
// @Description Drive the pending -> confirmed -> completed lifecycle
// @Tags admin
// @Accept json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Param request body reqdto.UpdateBookingStatusRequest true "Status"
// @Success 204 "No Content"
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /admin/bookings/{id}/status [patch]
func (h *AdminHandler) UpdateBookingStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid booking ID format", nil)
		return
	}

	var req reqdto.UpdateBookingStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return
	}

	if err := h.bookings.UpdateStatus(c.Request.Context(), id, booking.Status(req.Status)); err != nil {
		switch {
		case errors.Is(err, commands.ErrBookingNotFound):
			httperr.AbortWithError(c, http.StatusNotFound, err, "Booking not found", nil)
		case errors.Is(err, commands.ErrInvalidStatusTransition):
			httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, "Invalid booking status transition", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}

	c.Status(http.StatusNoContent)
}

// @Summary Set booking admin note
// @Tags admin
// @Accept json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Param request body reqdto.AdminNoteRequest true "Note"
// @Success 204 "No Content"
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /admin/bookings/{id}/note [patch]
func (h *AdminHandler) SetBookingNote(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid booking ID format", nil)
		return
	}

	var req reqdto.AdminNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return
	}

	if err := h.bookings.SetAdminNote(c.Request.Context(), id, req.Note); err != nil {
		if errors.Is(err, commands.ErrBookingNotFound) {
			httperr.AbortWithError(c, http.StatusNotFound, err, "Booking not found", nil)
			return
		}
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}

	c.Status(http.StatusNoContent)
}

// @Summary Delete booking
// @Description Remove a completed booking; active bookings must be cancelled instead
// @Tags admin
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Success 204 "No Content"
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /admin/bookings/{id} [delete]
func (h *AdminHandler) DeleteBooking(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid booking ID format", nil)
		return
	}

	if err := h.bookings.ForceDelete(c.Request.Context(), id); err != nil {
		switch {
		case errors.Is(err, commands.ErrBookingNotFound):
			httperr.AbortWithError(c, http.StatusNotFound, err, "Booking not found", nil)
		case errors.Is(err, commands.ErrBookingNotTerminal):
			httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, "Only completed bookings can be deleted", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}

	c.Status(http.StatusNoContent)
}

// @Summary Dashboard stats
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} queries.DashboardStats
// @Router /admin/dashboard [get]
func (h *AdminHandler) Dashboard(c *gin.Context) {
	stats, err := h.dashboard.Stats(c.Request.Context())
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// @Summary List users
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {array} queries.AuthorizedUser
// @Router /admin/users [get]
func (h *AdminHandler) ListUsers(c *gin.Context) {
	limit, offset := pagination(c)

	items, err := h.dashboard.Users(c.Request.Context(), limit, offset)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}

	c.JSON(http.StatusOK, items)
}

func (h *AdminHandler) writeListingError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, commands.ErrListingNotFound):
		httperr.AbortWithError(c, http.StatusNotFound, err, "Listing not found", nil)
	case errors.Is(err, listing.ErrEmptyName),
		errors.Is(err, listing.ErrNameTooLong),
		errors.Is(err, listing.ErrInvalidKind),
		errors.Is(err, listing.ErrInvalidPriceUnit),
		errors.Is(err, listing.ErrNegativePrice):
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid listing data", nil)
	default:
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
	}
}

func (h *AdminHandler) writeCategoryError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, commands.ErrCategoryNotFound):
		httperr.AbortWithError(c, http.StatusNotFound, err, "Category not found", nil)
	case errors.Is(err, commands.ErrSlugTaken):
		httperr.AbortWithError(c, http.StatusConflict, err, "Category slug is already in use", nil)
	case errors.Is(err, commands.ErrCategoryInUse):
		httperr.AbortWithError(c, http.StatusConflict, err, "Category has listings and cannot be deleted", nil)
	case errors.Is(err, listing.ErrEmptyCategoryName), errors.Is(err, listing.ErrInvalidSlug), errors.Is(err, listing.ErrInvalidKind):
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid category data", nil)
	default:
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
	}
}
