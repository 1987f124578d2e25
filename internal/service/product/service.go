package product

import (
	"context"

	"windstruck-api/internal/domain"
	productrepo "windstruck-api/internal/repository/product"
)

// ListLimit caps the catalog listing.
const ListLimit = 100

type Service struct {
	repo productrepo.Repository
}

func New(repo productrepo.Repository) *Service {
	return &Service{repo: repo}
}

// List returns products carrying tag (when non-empty) and matching featured
// (when non-nil), in store order.
func (s *Service) List(ctx context.Context, tag string, featured *bool) ([]domain.Product, error) {
	return s.repo.List(ctx, productrepo.ListFilter{Tag: tag, Featured: featured, Limit: ListLimit})
}

func (s *Service) GetBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	return s.repo.GetBySlug(ctx, slug)
}
