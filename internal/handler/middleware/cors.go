package middleware

import (
	"log/slog"
	"slices"

	"rentyard/internal/pkg/config"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// NewCORSMiddleware builds the CORS layer for the storefront and dashboard
// frontends. Cookie auth needs AllowCredentials, and browsers refuse
// credentialed responses with a wildcard origin, so that combination is
// downgraded at startup instead of failing on every request.
func NewCORSMiddleware(cfg config.CORSConfig) gin.HandlerFunc {
	allowCredentials := cfg.AllowCredentials
	if allowCredentials && slices.Contains(cfg.AllowOrigins, "*") {
		slog.Warn("CORS: wildcard origin cannot be credentialed, disabling AllowCredentials")
		allowCredentials = false
	}

	slog.Info("CORS middleware initialized", "origins", cfg.AllowOrigins, "credentials", allowCredentials)
	return cors.New(cors.Config{
		AllowOrigins:     cfg.AllowOrigins,
		AllowMethods:     cfg.AllowMethods,
		AllowHeaders:     cfg.AllowHeaders,
		ExposeHeaders:    cfg.ExposeHeaders,
		AllowCredentials: allowCredentials,
		MaxAge:           cfg.MaxAge,
	})
}
