package mailer

import (
	"context"
	"log/slog"

	"rentyard/internal/pkg/config"
	"rentyard/internal/pkg/retry"
)

// Mailer delivers transactional mail (login codes, reset links). Delivery is
// best-effort with bounded retries; callers decide whether a failed send
// fails the whole operation.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// LogMailer writes mail to the structured log instead of a wire protocol.
// Deployments front this with a real provider; development and tests read
// codes straight from the log output.
type LogMailer struct {
	cfg config.MailConfig
}

func NewLogMailer(cfg config.MailConfig) *LogMailer {
	return &LogMailer{cfg: cfg}
}

func (m *LogMailer) Send(ctx context.Context, to, subject, body string) error {
	return retry.Do(ctx, m.cfg.MaxAttempts, retry.ExponentialBackoff(m.cfg.BackoffBase), retry.AlwaysRetry, func(ctx context.Context) error {
		sendCtx, cancel := context.WithTimeout(ctx, m.cfg.SendTimeout)
		defer cancel()

		return m.deliver(sendCtx, to, subject, body)
	})
}

func (m *LogMailer) deliver(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	slog.InfoContext(ctx, "mail delivered",
		"from", m.cfg.FromAddress,
		"to", to,
		"subject", subject,
		"body", body)
	return nil
}
