package product

import (
	"context"

	"windstruck-api/internal/domain"
)

// ListFilter narrows List. Zero values mean no restriction; Limit <= 0 uses
// the store default.
type ListFilter struct {
	Slug     string
	Tag      string
	Featured *bool
	Limit    int
}

type Repository interface {
	List(ctx context.Context, filter ListFilter) ([]domain.Product, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Product, error)
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	Create(ctx context.Context, product domain.Product) (*domain.Product, error)
	// Any reports whether at least one product exists.
	Any(ctx context.Context) (bool, error)
}
