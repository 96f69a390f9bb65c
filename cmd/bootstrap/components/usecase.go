package components

import (
	"context"
	"log/slog"
	"time"

	"rentyard/internal/pkg/clock"
	"rentyard/internal/pkg/config"
	"rentyard/internal/usecase/commands"
	"rentyard/internal/usecase/queries"

	"go.uber.org/fx"
)

const tokenPurgeInterval = time.Hour

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseCommandsModule,
	usecaseQueriesModule,
	fx.Invoke(startTokenPurge),
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
	func(cfg config.Config) config.CacheConfig { return cfg.Cache },
	func(cfg config.Config) config.MailConfig { return cfg.Mail },
	func(cfg config.Config) config.CookieConfig { return cfg.Cookie },
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewBookingUsecase,
		commands.NewAuthUsecase,
		commands.NewListingUsecase,
		commands.NewCategoryUsecase,
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewBookingQueries,
		queries.NewListingQueries,
		queries.NewDashboardQueries,
	),
)

// startTokenPurge clears consumed and expired auth tokens on a fixed cadence
// for the life of the process.
func startTokenPurge(lc fx.Lifecycle, auth commands.AuthCommands) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				defer close(done)
				ticker := time.NewTicker(tokenPurgeInterval)
				defer ticker.Stop()
				for {
					select {
					case <-ctx.Done():
						return
					case <-ticker.C:
						if n, err := auth.PurgeExpiredTokens(ctx); err != nil {
							slog.Warn("auth token purge failed", "error", err.Error())
						} else if n > 0 {
							slog.Info("purged auth tokens", "count", n)
						}
					}
				}
			}()
			return nil
		},
		OnStop: func(context.Context) error {
			cancel()
			<-done
			return nil
		},
	})
}
