package listing

import (
	"errors"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrEmptyCategoryName = errors.New("category name cannot be empty")
	ErrInvalidSlug       = errors.New("category slug must be lowercase letters, digits and hyphens")
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// Category groups listings of one kind for storefront navigation. Equipment
// and brokerage categories live in separate namespaces, so a slug only has
// to be unique within its kind.
type Category struct {
	id   uuid.UUID
	kind Kind
	name string
	slug string
}

func NewCategory(id uuid.UUID, kind Kind, name, slug string) (*Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyCategoryName
	}
	if !kind.IsValid() {
		return nil, ErrInvalidKind
	}
	if !slugPattern.MatchString(slug) {
		return nil, ErrInvalidSlug
	}
	return &Category{id: id, kind: kind, name: name, slug: slug}, nil
}

func (c *Category) ID() uuid.UUID { return c.id }
func (c *Category) Kind() Kind    { return c.kind }
func (c *Category) Name() string  { return c.name }
func (c *Category) Slug() string  { return c.slug }
