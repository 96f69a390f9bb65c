//go:build unit

package queries_test

import (
	"errors"
	"testing"
	"time"

	"rentyard/internal/pkg/cache"
	"rentyard/internal/pkg/config"
	"rentyard/internal/usecase/queries"
	"rentyard/tests/common/builder"
	queriesmock "rentyard/tests/mock/queries"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

// These suites pin down the read-through behavior: the first call hits the
// reader, repeats are served from the cache, and a pattern invalidation
// forces the next call back to the reader.

type ListingQueriesTestSuite struct {
	suite.Suite
	ctrl       *gomock.Controller
	listings   *queriesmock.MockListingReader
	categories *queriesmock.MockCategoryReader
	cache      *cache.Cache
	svc        queries.ListingQueries
}

func (s *ListingQueriesTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.listings = queriesmock.NewMockListingReader(s.ctrl)
	s.categories = queriesmock.NewMockCategoryReader(s.ctrl)
	s.cache = cache.New(0, cache.WithCapacity(100))
	s.svc = queries.NewListingQueries(nil, s.listings, s.categories, s.cache, testCacheConfig())
}

func (s *ListingQueriesTestSuite) TearDownTest() {
	s.cache.Close()
	s.ctrl.Finish()
}

func TestListingQueriesTestSuite(t *testing.T) {
	suite.Run(t, new(ListingQueriesTestSuite))
}

var errReadFailed = errors.New("read failed")

func testCacheConfig() config.CacheConfig {
	return config.CacheConfig{
		Capacity:     100,
		ListingTTL:   time.Minute,
		BookingTTL:   time.Minute,
		DashboardTTL: time.Minute,
	}
}

func (s *ListingQueriesTestSuite) TestGetByID() {
	listingID := uuid.New()
	view := builder.NewListingBuilder().WithID(listingID).BuildView()

	s.Run("second read is served from the cache", func() {
		s.listings.EXPECT().
			FindByID(gomock.Any(), gomock.Any(), listingID).
			Return(view, nil).
			Times(1)

		got, err := s.svc.GetByID(s.T().Context(), listingID)
		s.Require().NoError(err)
		s.Equal(view, got)

		got, err = s.svc.GetByID(s.T().Context(), listingID)
		s.Require().NoError(err)
		s.Equal(view, got)
	})

	s.Run("invalidating the listing prefix forces a re-read", func() {
		s.cache.InvalidatePattern("listing:")

		s.listings.EXPECT().
			FindByID(gomock.Any(), gomock.Any(), listingID).
			Return(view, nil).
			Times(1)

		got, err := s.svc.GetByID(s.T().Context(), listingID)
		s.Require().NoError(err)
		s.Equal(view, got)
	})
}

func (s *ListingQueriesTestSuite) TestList() {
	views := []*queries.ListingView{builder.NewListingBuilder().BuildView()}

	s.Run("each filter combination gets its own cache slot", func() {
		s.listings.EXPECT().
			List(gomock.Any(), gomock.Any(), "equipment", uuid.NullUUID{}, true, 20, 0).
			Return(views, nil).
			Times(1)
		s.listings.EXPECT().
			List(gomock.Any(), gomock.Any(), "brokerage", uuid.NullUUID{}, true, 20, 0).
			Return([]*queries.ListingView{}, nil).
			Times(1)

		got, err := s.svc.List(s.T().Context(), "equipment", uuid.NullUUID{}, true, 20, 0)
		s.Require().NoError(err)
		s.Len(got, 1)

		// Cached: the reader is not called again for the same filters.
		got, err = s.svc.List(s.T().Context(), "equipment", uuid.NullUUID{}, true, 20, 0)
		s.Require().NoError(err)
		s.Len(got, 1)

		got, err = s.svc.List(s.T().Context(), "brokerage", uuid.NullUUID{}, true, 20, 0)
		s.Require().NoError(err)
		s.Empty(got)
	})
}

func (s *ListingQueriesTestSuite) TestCategories() {
	views := []*queries.CategoryView{builder.NewCategoryBuilder().BuildView()}

	s.Run("reader errors are returned and never cached", func() {
		s.categories.EXPECT().
			ListByKind(gomock.Any(), gomock.Any(), "equipment").
			Return(nil, errReadFailed).
			Times(1)
		s.categories.EXPECT().
			ListByKind(gomock.Any(), gomock.Any(), "equipment").
			Return(views, nil).
			Times(1)

		_, err := s.svc.Categories(s.T().Context(), "equipment")
		s.Require().Error(err)

		got, err := s.svc.Categories(s.T().Context(), "equipment")
		s.Require().NoError(err)
		s.Len(got, 1)
	})
}

type BookingQueriesTestSuite struct {
	suite.Suite
	ctrl     *gomock.Controller
	bookings *queriesmock.MockBookingReader
	cache    *cache.Cache
	svc      queries.BookingQueries
}

func (s *BookingQueriesTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.bookings = queriesmock.NewMockBookingReader(s.ctrl)
	s.cache = cache.New(0, cache.WithCapacity(100))
	s.svc = queries.NewBookingQueries(nil, s.bookings, s.cache, testCacheConfig())
}

func (s *BookingQueriesTestSuite) TearDownTest() {
	s.cache.Close()
	s.ctrl.Finish()
}

func TestBookingQueriesTestSuite(t *testing.T) {
	suite.Run(t, new(BookingQueriesTestSuite))
}

func (s *BookingQueriesTestSuite) TestListForUser() {
	userID := uuid.New()
	items := []*queries.BookingListItem{builder.NewBookingBuilder().BuildListItem()}

	s.Run("per-user lists are cached under the booking prefix", func() {
		s.bookings.EXPECT().
			FindByUserID(gomock.Any(), gomock.Any(), userID).
			Return(items, nil).
			Times(1)

		got, err := s.svc.ListForUser(s.T().Context(), userID)
		s.Require().NoError(err)
		s.Len(got, 1)

		got, err = s.svc.ListForUser(s.T().Context(), userID)
		s.Require().NoError(err)
		s.Len(got, 1)

		// A write-side invalidation of "booking:" drops the list.
		s.Equal(1, s.cache.InvalidatePattern("booking:"))

		s.bookings.EXPECT().
			FindByUserID(gomock.Any(), gomock.Any(), userID).
			Return(items, nil).
			Times(1)

		_, err = s.svc.ListForUser(s.T().Context(), userID)
		s.Require().NoError(err)
	})
}

type DashboardQueriesTestSuite struct {
	suite.Suite
	ctrl      *gomock.Controller
	dashboard *queriesmock.MockDashboardReader
	users     *queriesmock.MockUserReader
	cache     *cache.Cache
	svc       queries.DashboardQueries
}

func (s *DashboardQueriesTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.dashboard = queriesmock.NewMockDashboardReader(s.ctrl)
	s.users = queriesmock.NewMockUserReader(s.ctrl)
	s.cache = cache.New(0, cache.WithCapacity(100))
	s.svc = queries.NewDashboardQueries(nil, s.dashboard, s.users, s.cache, testCacheConfig())
}

func (s *DashboardQueriesTestSuite) TearDownTest() {
	s.cache.Close()
	s.ctrl.Finish()
}

func TestDashboardQueriesTestSuite(t *testing.T) {
	suite.Run(t, new(DashboardQueriesTestSuite))
}

func (s *DashboardQueriesTestSuite) TestStats() {
	stats := &queries.DashboardStats{TotalBookings: 7, RevenueCents: 120000}

	s.Run("stats are cached until invalidated", func() {
		s.dashboard.EXPECT().
			Stats(gomock.Any(), gomock.Any()).
			Return(stats, nil).
			Times(1)

		got, err := s.svc.Stats(s.T().Context())
		s.Require().NoError(err)
		s.Equal(stats, got)

		got, err = s.svc.Stats(s.T().Context())
		s.Require().NoError(err)
		s.Equal(stats, got)

		s.cache.InvalidatePattern("dashboard:")

		s.dashboard.EXPECT().
			Stats(gomock.Any(), gomock.Any()).
			Return(stats, nil).
			Times(1)

		_, err = s.svc.Stats(s.T().Context())
		s.Require().NoError(err)
	})
}

func (s *DashboardQueriesTestSuite) TestUsers() {
	s.Run("user listing bypasses the cache", func() {
		users := []*queries.AuthorizedUser{builder.NewUserBuilder().BuildReadModel()}

		s.users.EXPECT().
			List(gomock.Any(), gomock.Any(), 20, 0).
			Return(users, nil).
			Times(2)

		got, err := s.svc.Users(s.T().Context(), 20, 0)
		s.Require().NoError(err)
		s.Len(got, 1)

		got, err = s.svc.Users(s.T().Context(), 20, 0)
		s.Require().NoError(err)
		s.Len(got, 1)
	})
}
