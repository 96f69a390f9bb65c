package repository

import (
	"context"
	"time"

	"rentyard/internal/infra"
	"rentyard/internal/infra/db"
	"rentyard/internal/usecase/commands"

	"github.com/google/uuid"
)

type AuthTokenRepository struct{}

func NewAuthTokenRepository() *AuthTokenRepository {
	return &AuthTokenRepository{}
}

func (r *AuthTokenRepository) Insert(ctx context.Context, q db.Queryer, rec commands.AuthTokenRecord) error {
	query := `
		INSERT INTO auth_tokens (id, user_id, purpose, token_hash, expires_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := q.Exec(ctx, query, rec.ID, rec.UserID, rec.Purpose, rec.TokenHash, rec.ExpiresAt)
	if err != nil {
		return infra.WrapRepoErr("failed to insert auth token", err)
	}
	return nil
}

// FindActiveByUser returns the newest unconsumed, unexpired token for the
// user and purpose. Issuing a fresh OTP supersedes earlier ones by ordering,
// not by deletion; the sweep below clears the leftovers.
func (r *AuthTokenRepository) FindActiveByUser(ctx context.Context, q db.Queryer, userID uuid.UUID, purpose string, now time.Time) (*commands.AuthTokenRecord, error) {
	query := `
		SELECT id, user_id, purpose, token_hash, expires_at, consumed_at, created_at
		FROM auth_tokens
		WHERE user_id = $1 AND purpose = $2 AND consumed_at IS NULL AND expires_at > $3
		ORDER BY created_at DESC
		LIMIT 1
	`
	return r.scanToken(q.QueryRow(ctx, query, userID, purpose, now))
}

func (r *AuthTokenRepository) FindActiveByHash(ctx context.Context, q db.Queryer, tokenHash, purpose string, now time.Time) (*commands.AuthTokenRecord, error) {
	query := `
		SELECT id, user_id, purpose, token_hash, expires_at, consumed_at, created_at
		FROM auth_tokens
		WHERE token_hash = $1 AND purpose = $2 AND consumed_at IS NULL AND expires_at > $3
	`
	return r.scanToken(q.QueryRow(ctx, query, tokenHash, purpose, now))
}

// Consume marks the token redeemed. The consumed_at IS NULL guard makes
// redemption single-use even under concurrent attempts.
func (r *AuthTokenRepository) Consume(ctx context.Context, q db.Queryer, id uuid.UUID, at time.Time) error {
	query := `UPDATE auth_tokens SET consumed_at = $2 WHERE id = $1 AND consumed_at IS NULL`

	tag, err := q.Exec(ctx, query, id, at)
	if err != nil {
		return infra.WrapRepoErr("failed to consume auth token", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("auth token already consumed or missing", nil, infra.KindNotFound)
	}
	return nil
}

func (r *AuthTokenRepository) DeleteExpired(ctx context.Context, q db.Queryer, now time.Time) (int64, error) {
	tag, err := q.Exec(ctx, `DELETE FROM auth_tokens WHERE expires_at <= $1 OR consumed_at IS NOT NULL`, now)
	if err != nil {
		return 0, infra.WrapRepoErr("failed to delete expired auth tokens", err)
	}
	return tag.RowsAffected(), nil
}

func (r *AuthTokenRepository) scanToken(row interface{ Scan(dest ...any) error }) (*commands.AuthTokenRecord, error) {
	var rec commands.AuthTokenRecord
	err := row.Scan(&rec.ID, &rec.UserID, &rec.Purpose, &rec.TokenHash, &rec.ExpiresAt, &rec.ConsumedAt, &rec.CreatedAt)
	if err != nil {
		if infra.IsNoRows(err) {
			return nil, infra.WrapRepoErr("auth token not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find auth token", err)
	}
	return &rec, nil
}
