package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"rentyard/internal/domain/user"
	"rentyard/internal/handler/api"
	"rentyard/internal/handler/middleware"
	"rentyard/internal/pkg/config"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

func NewRouter(
	engine *gin.Engine,
	cfg config.Config,
	authHandler *api.AuthHandler,
	bookingHandler *api.BookingHandler,
	storefrontHandler *api.StorefrontHandler,
	adminHandler *api.AdminHandler,
	authMiddleware *middleware.AuthMiddleware,
) {
	setupMiddleware(engine, cfg)
	setupRoutes(engine, authHandler, bookingHandler, storefrontHandler, adminHandler, authMiddleware)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(middleware.LoggingMiddleware(cfg.Log))
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(
	engine *gin.Engine,
	authHandler *api.AuthHandler,
	bookingHandler *api.BookingHandler,
	storefrontHandler *api.StorefrontHandler,
	adminHandler *api.AdminHandler,
	authMiddleware *middleware.AuthMiddleware,
) {
	engine.GET("/health", healthCheck)

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	apiGroup := engine.Group("/api")
	{
		auth := apiGroup.Group("/auth")
		{
			addRoutes(auth, []route{
				{Method: http.MethodPost, Path: "/register", Handler: authHandler.Register},
				{Method: http.MethodPost, Path: "/login", Handler: authHandler.Login},
				{Method: http.MethodPost, Path: "/verify", Handler: authHandler.VerifyOTP},
				{Method: http.MethodPost, Path: "/forgot-password", Handler: authHandler.ForgotPassword},
				{Method: http.MethodPost, Path: "/reset-password", Handler: authHandler.ResetPassword},
			})

			authRequired := auth.Group("")
			authRequired.Use(authMiddleware.RequireAuth())
			addRoutes(authRequired, []route{
				{Method: http.MethodPost, Path: "/logout", Handler: authHandler.Logout},
				{Method: http.MethodGet, Path: "/me", Handler: authHandler.Me},
			})
		}

		// Public storefront.
		addRoutes(apiGroup, []route{
			{Method: http.MethodGet, Path: "/listings", Handler: storefrontHandler.ListListings},
			{Method: http.MethodGet, Path: "/listings/:id", Handler: storefrontHandler.GetListing},
			{Method: http.MethodGet, Path: "/categories", Handler: storefrontHandler.ListCategories},
		})

		bookings := apiGroup.Group("/bookings")
		bookings.Use(authMiddleware.RequireAuth())
		{
			addRoutes(bookings, []route{
				{Method: http.MethodPost, Path: "", Handler: bookingHandler.CreateBooking},
				{Method: http.MethodGet, Path: "", Handler: bookingHandler.GetUserBookings},
				{Method: http.MethodGet, Path: "/:id", Handler: bookingHandler.GetBooking},
				{Method: http.MethodDelete, Path: "/:id", Handler: bookingHandler.CancelBooking},
			})
		}

		admin := apiGroup.Group("/admin")
		admin.Use(authMiddleware.RequireAuth(), authMiddleware.RequireRoleAtLeast(user.RoleAdmin))
		{
			addRoutes(admin, []route{
				{Method: http.MethodGet, Path: "/listings", Handler: adminHandler.ListAllListings},
				{Method: http.MethodPost, Path: "/listings", Handler: adminHandler.CreateListing},
				{Method: http.MethodPut, Path: "/listings/:id", Handler: adminHandler.UpdateListing},
				{Method: http.MethodDelete, Path: "/listings/:id", Handler: adminHandler.DeleteListing},
				{Method: http.MethodPatch, Path: "/listings/:id/availability", Handler: adminHandler.SetListingAvailability},

				{Method: http.MethodPost, Path: "/categories", Handler: adminHandler.CreateCategory},
				{Method: http.MethodPut, Path: "/categories/:id", Handler: adminHandler.UpdateCategory},
				{Method: http.MethodDelete, Path: "/categories/:id", Handler: adminHandler.DeleteCategory},

				{Method: http.MethodGet, Path: "/bookings", Handler: adminHandler.ListBookings},
				{Method: http.MethodPatch, Path: "/bookings/:id/status", Handler: adminHandler.UpdateBookingStatus},
				{Method: http.MethodPatch, Path: "/bookings/:id/note", Handler: adminHandler.SetBookingNote},
				{Method: http.MethodDelete, Path: "/bookings/:id", Handler: adminHandler.DeleteBooking},

				{Method: http.MethodGet, Path: "/dashboard", Handler: adminHandler.Dashboard},
				{Method: http.MethodGet, Path: "/users", Handler: adminHandler.ListUsers},
			})
		}
	}
}

// @Summary Health check
// @Description Check if the service is healthy
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Service is healthy",
	})
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		h := r.Handler
		if len(r.Mw) > 0 {
			h = chainHandlers(append(r.Mw, r.Handler)...)
		}
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, h)
		case http.MethodPost:
			g.POST(r.Path, h)
		case http.MethodPut:
			g.PUT(r.Path, h)
		case http.MethodPatch:
			g.PATCH(r.Path, h)
		case http.MethodDelete:
			g.DELETE(r.Path, h)
		default:
			g.Any(r.Path, h)
		}
	}
}

func chainHandlers(hs ...gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, h := range hs {
			h(c)
			if c.IsAborted() {
				return
			}
		}
	}
}
