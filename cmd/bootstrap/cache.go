package bootstrap

import (
	"context"

	"rentyard/internal/pkg/cache"
	"rentyard/internal/pkg/config"
	"rentyard/internal/usecase/commands"

	"go.uber.org/fx"
)

var CacheModule = fx.Module("cache",
	fx.Provide(
		NewCache,
		func(c *cache.Cache) commands.CacheInvalidator { return c },
	),
)

// NewCache builds the process-wide query result cache and ties its sweeper
// goroutine to the application lifecycle.
func NewCache(lc fx.Lifecycle, cfg config.Config) *cache.Cache {
	c := cache.New(cfg.Cache.SweepInterval, cache.WithCapacity(cfg.Cache.Capacity))

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			c.Close()
			return nil
		},
	})

	return c
}
