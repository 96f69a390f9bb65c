package api

import (
	"net/http"

	"rentyard/internal/handler/httperr"
	"rentyard/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// StorefrontHandler serves the public catalog: listings and categories,
// no authentication required.
type StorefrontHandler struct {
	listings queries.ListingQueries
}

func NewStorefrontHandler(listings queries.ListingQueries) *StorefrontHandler {
	return &StorefrontHandler{
		listings: listings,
	}
}

// @Summary List listings
// @Description Browse available listings, filterable by kind and category
// @Tags storefront
// @Produce json
// @Param kind query string false "Listing kind (equipment or brokerage)"
// @Param category_id query string false "Category ID"
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {array} queries.ListingView
// @Failure 400 {object} map[string]string
// @Router /listings [get]
func (h *StorefrontHandler) ListListings(c *gin.Context) {
	kind := c.Query("kind")

	var categoryID uuid.NullUUID
	if raw := c.Query("category_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid category ID format", nil)
			return
		}
		categoryID = uuid.NullUUID{UUID: id, Valid: true}
	}

	limit, offset := pagination(c)

	items, err := h.listings.List(c.Request.Context(), kind, categoryID, true, limit, offset)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}

	c.JSON(http.StatusOK, items)
}

// @Summary Get listing
// @Description Get a single listing by ID
// @Tags storefront
// @Produce json
// @Param id path string true "Listing ID"
// @Success 200 {object} queries.ListingView
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /listings/{id} [get]
func (h *StorefrontHandler) GetListing(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid listing ID format", nil)
		return
	}

	view, err := h.listings.GetByID(c.Request.Context(), id)
	if err != nil {
		if isRepoNotFound(err) {
			httperr.AbortWithError(c, http.StatusNotFound, err, "Listing not found", nil)
			return
		}
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}

	c.JSON(http.StatusOK, view)
}

// @Summary List categories
// @Description List categories, optionally filtered by kind
// @Tags storefront
// @Produce json
// @Param kind query string false "Listing kind (equipment or brokerage)"
// @Success 200 {array} queries.CategoryView
// @Router /categories [get]
func (h *StorefrontHandler) ListCategories(c *gin.Context) {
	items, err := h.listings.Categories(c.Request.Context(), c.Query("kind"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}

	c.JSON(http.StatusOK, items)
}
