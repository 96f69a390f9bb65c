package components

import (
	repo_impl "rentyard/internal/infra/repository"
	"rentyard/internal/usecase/commands"
	"rentyard/internal/usecase/queries"
	"rentyard/internal/usecase/shared"

	"go.uber.org/fx"
)

var RepositoryModule = fx.Module("repository",
	fx.Provide(
		shared.NewPgxTxManager,
		fx.Annotate(
			repo_impl.NewBookingRepository,
			fx.As(new(commands.BookingRepository)),
			fx.As(new(queries.BookingReader)),
		),
		fx.Annotate(
			repo_impl.NewListingRepository,
			fx.As(new(commands.ListingRepository)),
			fx.As(new(queries.ListingReader)),
		),
		fx.Annotate(
			repo_impl.NewCategoryRepository,
			fx.As(new(commands.CategoryRepository)),
			fx.As(new(queries.CategoryReader)),
		),
		fx.Annotate(
			repo_impl.NewUserRepository,
			fx.As(new(commands.UserRepository)),
			fx.As(new(queries.UserReader)),
		),
		fx.Annotate(
			repo_impl.NewAuthTokenRepository,
			fx.As(new(commands.AuthTokenRepository)),
		),
		fx.Annotate(
			repo_impl.NewDashboardRepository,
			fx.As(new(queries.DashboardReader)),
		),
	),
)
