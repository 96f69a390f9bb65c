package api

import (
	"errors"
	"net/http"

	reqdto "rentyard/internal/handler/dto/request"
	resdto "rentyard/internal/handler/dto/response"
	"rentyard/internal/handler/httperr"
	"rentyard/internal/handler/middleware"
	"rentyard/internal/usecase/commands"
	"rentyard/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type BookingHandler struct {
	bookings commands.BookingCommands
	reads    queries.BookingQueries
}

func NewBookingHandler(bookings commands.BookingCommands, reads queries.BookingQueries) *BookingHandler {
	return &BookingHandler{
		bookings: bookings,
		reads:    reads,
	}
}

// @Summary Create booking
// @Description Book a listing for a half-open date range [start_date, end_date)
// @Tags bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.CreateBookingRequest true "Booking request"
// @Success 201 {object} resdto.CreatedResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /bookings [post]
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError, nil, "Internal server error", nil)
		return
	}

	var req reqdto.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return
	}

	id, err := h.bookings.Create(c.Request.Context(), req.ToInput(userID))
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrInvalidDateRange):
			httperr.AbortWithError(c, http.StatusBadRequest, err, "End date must be after start date", nil)
		case errors.Is(err, commands.ErrStartDateInPast):
			httperr.AbortWithError(c, http.StatusBadRequest, err, "Start date cannot be in the past", nil)
		case errors.Is(err, commands.ErrResourceNotFound):
			httperr.AbortWithError(c, http.StatusNotFound, err, "Listing not found", nil)
		case errors.Is(err, commands.ErrResourceUnavailable):
			httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, "Listing is not available for booking", nil)
		case errors.Is(err, commands.ErrBookingConflict):
			httperr.AbortWithError(c, http.StatusConflict, err, "Requested dates conflict with an existing booking", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}

	c.JSON(http.StatusCreated, resdto.CreatedResponse{ID: id})
}

// @Summary Get booking
// @Description Get booking by ID; customers may only read their own
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Success 200 {object} queries.BookingView
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /bookings/{id} [get]
func (h *BookingHandler) GetBooking(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError, nil, "Internal server error", nil)
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid booking ID format", nil)
		return
	}

	view, err := h.reads.GetByID(c.Request.Context(), id)
	if err != nil {
		h.writeNotFoundOrInternal(c, err)
		return
	}

	// Admins see every booking, customers only their own. A foreign booking
	// reads as absent rather than forbidden so IDs cannot be probed.
	role, _ := middleware.GetUserRole(c)
	if view.UserID != userID && role.String() != "admin" {
		httperr.AbortWithError(c, http.StatusNotFound, nil, "Booking not found", nil)
		return
	}

	c.JSON(http.StatusOK, view)
}

// @Summary Get own bookings
// @Description List all bookings for the current user
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Success 200 {array} queries.BookingListItem
// @Failure 401 {object} map[string]string
// @Router /bookings [get]
func (h *BookingHandler) GetUserBookings(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError, nil, "Internal server error", nil)
		return
	}

	items, err := h.reads.ListForUser(c.Request.Context(), userID)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}

	c.JSON(http.StatusOK, items)
}

// @Summary Cancel booking
// @Description Cancel an own active booking at least 24 hours before its start
// @Tags bookings
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Success 204 "No Content"
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /bookings/{id} [delete]
func (h *BookingHandler) CancelBooking(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError, nil, "Internal server error", nil)
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid booking ID format", nil)
		return
	}

	if err := h.bookings.Cancel(c.Request.Context(), id, userID); err != nil {
		switch {
		case errors.Is(err, commands.ErrBookingNotFound):
			// Foreign bookings read as absent; see GetBooking.
			httperr.AbortWithError(c, http.StatusNotFound, err, "Booking not found", nil)
		case errors.Is(err, commands.ErrCancellationWindowClosed):
			httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, "Bookings can only be cancelled at least 24 hours before the start", nil)
		case errors.Is(err, commands.ErrCancellationNotAllowed):
			httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, "Booking status does not allow cancellation", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *BookingHandler) writeNotFoundOrInternal(c *gin.Context, err error) {
	if isRepoNotFound(err) {
		httperr.AbortWithError(c, http.StatusNotFound, err, "Booking not found", nil)
		return
	}
	httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
}
