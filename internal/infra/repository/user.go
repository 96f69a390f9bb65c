package repository

import (
	"context"
	"time"

	"rentyard/internal/domain/user"
	"rentyard/internal/infra"
	"rentyard/internal/infra/db"
	"rentyard/internal/usecase/queries"

	"github.com/google/uuid"
)

type UserRepository struct{}

func NewUserRepository() *UserRepository {
	return &UserRepository{}
}

func (r *UserRepository) Insert(ctx context.Context, q db.Queryer, u *user.User) error {
	query := `
		INSERT INTO users (id, email, name, password_hash, role, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := q.Exec(ctx, query,
		u.ID(), u.Email().String(), u.Name(), u.PasswordHash(), u.Role().String(), u.IsActive(),
	)
	if err != nil {
		if kind, ok := infra.ClassifyPgError(err); ok {
			return infra.WrapRepoErr("email already registered", err, kind)
		}
		return infra.WrapRepoErr("failed to insert user", err)
	}
	return nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, q db.Queryer, email user.Email) (*user.User, error) {
	query := `
		SELECT id, email, name, password_hash, role, is_active, last_login_at, created_at, updated_at
		FROM users
		WHERE email = $1
	`
	return r.scanUser(q.QueryRow(ctx, query, email.String()))
}

func (r *UserRepository) FindByID(ctx context.Context, q db.Queryer, id uuid.UUID) (*user.User, error) {
	query := `
		SELECT id, email, name, password_hash, role, is_active, last_login_at, created_at, updated_at
		FROM users
		WHERE id = $1
	`
	return r.scanUser(q.QueryRow(ctx, query, id))
}

func (r *UserRepository) scanUser(row interface{ Scan(dest ...any) error }) (*user.User, error) {
	var (
		id                   uuid.UUID
		email, name, hash    string
		role                 string
		isActive             bool
		lastLoginAt          *time.Time
		createdAt, updatedAt time.Time
	)
	err := row.Scan(&id, &email, &name, &hash, &role, &isActive, &lastLoginAt, &createdAt, &updatedAt)
	if err != nil {
		if infra.IsNoRows(err) {
			return nil, infra.WrapRepoErr("user not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find user", err)
	}

	addr, err := user.NewEmail(email)
	if err != nil {
		return nil, infra.WrapRepoErr("stored email is malformed", err)
	}
	return user.Reconstruct(id, addr, name, hash, user.Role(role), isActive, lastLoginAt, createdAt, updatedAt), nil
}

func (r *UserRepository) UpdatePasswordHash(ctx context.Context, q db.Queryer, id uuid.UUID, hash string) error {
	tag, err := q.Exec(ctx, `UPDATE users SET password_hash = $2, updated_at = now() WHERE id = $1`, id, hash)
	if err != nil {
		return infra.WrapRepoErr("failed to update password hash", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("user not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *UserRepository) RecordLogin(ctx context.Context, q db.Queryer, id uuid.UUID, at time.Time) error {
	_, err := q.Exec(ctx, `UPDATE users SET last_login_at = $2, updated_at = now() WHERE id = $1`, id, at)
	if err != nil {
		return infra.WrapRepoErr("failed to record login", err)
	}
	return nil
}

func (r *UserRepository) SetActive(ctx context.Context, q db.Queryer, id uuid.UUID, active bool) error {
	tag, err := q.Exec(ctx, `UPDATE users SET is_active = $2, updated_at = now() WHERE id = $1`, id, active)
	if err != nil {
		return infra.WrapRepoErr("failed to update user active flag", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("user not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *UserRepository) List(ctx context.Context, q db.Queryer, limit, offset int) ([]*queries.AuthorizedUser, error) {
	query := `
		SELECT id, email, name, role, is_active, last_login_at
		FROM users
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := q.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list users", err)
	}
	defer rows.Close()

	items := make([]*queries.AuthorizedUser, 0)
	for rows.Next() {
		var v queries.AuthorizedUser
		if err := rows.Scan(&v.ID, &v.Email, &v.Name, &v.Role, &v.IsActive, &v.LastLoginAt); err != nil {
			return nil, infra.WrapRepoErr("failed to scan user row", err)
		}
		items = append(items, &v)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read user rows", err)
	}
	return items, nil
}
