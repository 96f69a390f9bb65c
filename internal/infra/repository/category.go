package repository

import (
	"context"

	"rentyard/internal/domain/listing"
	"rentyard/internal/infra"
	"rentyard/internal/infra/db"
	"rentyard/internal/usecase/queries"

	"github.com/google/uuid"
)

type CategoryRepository struct{}

func NewCategoryRepository() *CategoryRepository {
	return &CategoryRepository{}
}

func (r *CategoryRepository) Insert(ctx context.Context, q db.Queryer, c *listing.Category) error {
	query := `INSERT INTO categories (id, kind, name, slug) VALUES ($1, $2, $3, $4)`

	_, err := q.Exec(ctx, query, c.ID(), c.Kind().String(), c.Name(), c.Slug())
	if err != nil {
		if kind, ok := infra.ClassifyPgError(err); ok {
			return infra.WrapRepoErr("category slug already exists", err, kind)
		}
		return infra.WrapRepoErr("failed to insert category", err)
	}
	return nil
}

func (r *CategoryRepository) Update(ctx context.Context, q db.Queryer, c *listing.Category) error {
	query := `UPDATE categories SET name = $2, slug = $3 WHERE id = $1`

	tag, err := q.Exec(ctx, query, c.ID(), c.Name(), c.Slug())
	if err != nil {
		if kind, ok := infra.ClassifyPgError(err); ok {
			return infra.WrapRepoErr("category slug already exists", err, kind)
		}
		return infra.WrapRepoErr("failed to update category", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("category not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *CategoryRepository) Delete(ctx context.Context, q db.Queryer, id uuid.UUID) error {
	tag, err := q.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		if kind, ok := infra.ClassifyPgError(err); ok {
			return infra.WrapRepoErr("category still referenced by listings", err, kind)
		}
		return infra.WrapRepoErr("failed to delete category", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("category not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *CategoryRepository) FindByID(ctx context.Context, q db.Queryer, id uuid.UUID) (*queries.CategoryView, error) {
	var v queries.CategoryView
	err := q.QueryRow(ctx, `SELECT id, kind, name, slug FROM categories WHERE id = $1`, id).
		Scan(&v.ID, &v.Kind, &v.Name, &v.Slug)
	if err != nil {
		if infra.IsNoRows(err) {
			return nil, infra.WrapRepoErr("category not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find category by id", err)
	}
	return &v, nil
}

func (r *CategoryRepository) ListByKind(ctx context.Context, q db.Queryer, kind string) ([]*queries.CategoryView, error) {
	query := `
		SELECT id, kind, name, slug
		FROM categories
		WHERE ($1 = '' OR kind = $1)
		ORDER BY name
	`

	rows, err := q.Query(ctx, query, kind)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list categories", err)
	}
	defer rows.Close()

	items := make([]*queries.CategoryView, 0)
	for rows.Next() {
		var v queries.CategoryView
		if err := rows.Scan(&v.ID, &v.Kind, &v.Name, &v.Slug); err != nil {
			return nil, infra.WrapRepoErr("failed to scan category row", err)
		}
		items = append(items, &v)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read category rows", err)
	}
	return items, nil
}
