package commands

import (
	"context"

	"rentyard/internal/domain/listing"
	"rentyard/internal/infra"
	"rentyard/internal/infra/db"
	"rentyard/internal/pkg/errs"

	"github.com/google/uuid"
)

type CategoryInput struct {
	Kind string
	Name string
	Slug string
}

type CategoryCommands interface {
	Create(ctx context.Context, in CategoryInput) (uuid.UUID, error)
	Update(ctx context.Context, id uuid.UUID, in CategoryInput) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type categoryUseCaseImpl struct {
	pool       db.Queryer
	categories CategoryRepository
	cache      CacheInvalidator
}

func NewCategoryUsecase(pool db.Queryer, categories CategoryRepository, cache CacheInvalidator) CategoryCommands {
	return &categoryUseCaseImpl{pool: pool, categories: categories, cache: cache}
}

func (u *categoryUseCaseImpl) Create(ctx context.Context, in CategoryInput) (uuid.UUID, error) {
	c, err := listing.NewCategory(uuid.New(), listing.Kind(in.Kind), in.Name, in.Slug)
	if err != nil {
		return uuid.Nil, err
	}

	if err := u.categories.Insert(ctx, u.pool, c); err != nil {
		if infra.IsKind(err, infra.KindDuplicateKey) {
			return uuid.Nil, errs.Mark(err, ErrSlugTaken)
		}
		return uuid.Nil, err
	}

	u.cache.InvalidatePattern("listing:")
	return c.ID(), nil
}

func (u *categoryUseCaseImpl) Update(ctx context.Context, id uuid.UUID, in CategoryInput) error {
	c, err := listing.NewCategory(id, listing.Kind(in.Kind), in.Name, in.Slug)
	if err != nil {
		return err
	}

	if err := u.categories.Update(ctx, u.pool, c); err != nil {
		switch {
		case infra.IsKind(err, infra.KindNotFound):
			return errs.Mark(err, ErrCategoryNotFound)
		case infra.IsKind(err, infra.KindDuplicateKey):
			return errs.Mark(err, ErrSlugTaken)
		}
		return err
	}

	u.cache.InvalidatePattern("listing:")
	return nil
}

func (u *categoryUseCaseImpl) Delete(ctx context.Context, id uuid.UUID) error {
	if err := u.categories.Delete(ctx, u.pool, id); err != nil {
		switch {
		case infra.IsKind(err, infra.KindNotFound):
			return errs.Mark(err, ErrCategoryNotFound)
		case infra.IsKind(err, infra.KindConflict), infra.IsKind(err, infra.KindDuplicateKey):
			return errs.Mark(err, ErrCategoryInUse)
		}
		return err
	}

	u.cache.InvalidatePattern("listing:")
	return nil
}
