//go:build unit

package api_test

import (
	"net/http"
	"testing"

	"rentyard/internal/handler/api"
	"rentyard/internal/infra"
	"rentyard/internal/usecase/queries"
	"rentyard/tests/common/builder"
	"rentyard/tests/common/httptest"
	queriesmock "rentyard/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type StorefrontHandlerTestSuite struct {
	suite.Suite
	router      *gin.Engine
	mockCtrl    *gomock.Controller
	mockQueries *queriesmock.MockListingQueries
	handler     *api.StorefrontHandler
}

func (s *StorefrontHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockQueries = queriesmock.NewMockListingQueries(s.mockCtrl)
	s.handler = api.NewStorefrontHandler(s.mockQueries)

	s.router.GET("/listings", s.handler.ListListings)
	s.router.GET("/listings/:id", s.handler.GetListing)
	s.router.GET("/categories", s.handler.ListCategories)
}

func (s *StorefrontHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestStorefrontHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(StorefrontHandlerTestSuite))
}

func (s *StorefrontHandlerTestSuite) TestListListings() {
	s.Run("lists available listings only", func() {
		t := s.T()
		views := []*queries.ListingView{builder.NewListingBuilder().BuildView()}

		s.mockQueries.EXPECT().
			List(gomock.Any(), "", uuid.NullUUID{}, true, 20, 0).
			Return(views, nil)

		w := httptest.PerformRequest(t, s.router, http.MethodGet, "/listings", nil, "")

		var items []queries.ListingView
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &items)
		s.Len(items, 1)
		s.True(items[0].Available)
	})

	s.Run("passes the kind and category filters through", func() {
		t := s.T()
		categoryID := uuid.New()

		s.mockQueries.EXPECT().
			List(gomock.Any(), "brokerage", uuid.NullUUID{UUID: categoryID, Valid: true}, true, 20, 0).
			Return([]*queries.ListingView{}, nil)

		w := httptest.PerformRequest(t, s.router, http.MethodGet,
			"/listings?kind=brokerage&category_id="+categoryID.String(), nil, "")
		s.Equal(http.StatusOK, w.Code, w.Body.String())
	})

	s.Run("malformed category filter returns 400", func() {
		t := s.T()

		w := httptest.PerformRequest(t, s.router, http.MethodGet, "/listings?category_id=not-a-uuid", nil, "")
		httptest.AssertErrorResponse(t, w, http.StatusBadRequest, "Invalid category ID format")
	})

	s.Run("caps the page size", func() {
		t := s.T()

		s.mockQueries.EXPECT().
			List(gomock.Any(), "", uuid.NullUUID{}, true, 100, 0).
			Return([]*queries.ListingView{}, nil)

		w := httptest.PerformRequest(t, s.router, http.MethodGet, "/listings?limit=5000", nil, "")
		s.Equal(http.StatusOK, w.Code, w.Body.String())
	})
}

func (s *StorefrontHandlerTestSuite) TestGetListing() {
	listingID := uuid.New()

	s.Run("returns the listing", func() {
		t := s.T()
		view := builder.NewListingBuilder().WithID(listingID).BuildView()

		s.mockQueries.EXPECT().
			GetByID(gomock.Any(), listingID).
			Return(view, nil)

		w := httptest.PerformRequest(t, s.router, http.MethodGet, "/listings/"+listingID.String(), nil, "")

		var got queries.ListingView
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &got)
		s.Equal(listingID, got.ID)
	})

	s.Run("unknown listing returns 404", func() {
		t := s.T()

		s.mockQueries.EXPECT().
			GetByID(gomock.Any(), listingID).
			Return(nil, infra.WrapRepoErr("listing not found", nil, infra.KindNotFound))

		w := httptest.PerformRequest(t, s.router, http.MethodGet, "/listings/"+listingID.String(), nil, "")
		httptest.AssertErrorResponse(t, w, http.StatusNotFound, "Listing not found")
	})

	s.Run("malformed id returns 400", func() {
		t := s.T()

		w := httptest.PerformRequest(t, s.router, http.MethodGet, "/listings/not-a-uuid", nil, "")
		httptest.AssertErrorResponse(t, w, http.StatusBadRequest, "Invalid listing ID format")
	})
}

func (s *StorefrontHandlerTestSuite) TestListCategories() {
	s.Run("lists categories for a kind", func() {
		t := s.T()
		views := []*queries.CategoryView{builder.NewCategoryBuilder().BuildView()}

		s.mockQueries.EXPECT().
			Categories(gomock.Any(), "equipment").
			Return(views, nil)

		w := httptest.PerformRequest(t, s.router, http.MethodGet, "/categories?kind=equipment", nil, "")

		var items []queries.CategoryView
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &items)
		s.Len(items, 1)
		s.Equal("excavators", items[0].Slug)
	})
}
