package bootstrap

import (
	"rentyard/internal/infra/mailer"
	"rentyard/internal/pkg/config"

	"go.uber.org/fx"
)

var MailerModule = fx.Module("mailer",
	fx.Provide(
		fx.Annotate(
			NewMailer,
			fx.As(new(mailer.Mailer)),
		),
	),
)

func NewMailer(cfg config.Config) *mailer.LogMailer {
	return mailer.NewLogMailer(cfg.Mail)
}
