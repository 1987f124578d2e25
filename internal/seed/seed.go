package seed

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"windstruck-api/internal/domain"
)

const (
	StatusOK       = "ok"
	MessageSkipped = "Already seeded"
	MessageSeeded  = "Seeded demo products"
)

// ProductStore is what seeding needs from the product repository.
type ProductStore interface {
	Any(ctx context.Context) (bool, error)
	Create(ctx context.Context, product domain.Product) (*domain.Product, error)
}

// Result is the outcome reported to callers.
type Result struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Created int    `json:"-"`
}

type Seeder struct {
	products ProductStore
	logger   logrus.FieldLogger
}

func New(products ProductStore, logger logrus.FieldLogger) *Seeder {
	if logger == nil {
		logger = logrus.New()
	}
	return &Seeder{products: products, logger: logger.WithField("component", "seed")}
}

// Apply inserts the demo catalog unless any product already exists. Inserts
// are not transactional: a failure part way leaves the products written so
// far, and later calls see them and skip. Two concurrent calls can both pass
// the existence check.
func (s *Seeder) Apply(ctx context.Context) (Result, error) {
	exists, err := s.products.Any(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("check existing products: %w", err)
	}
	if exists {
		s.logger.Info("catalog already seeded")
		return Result{Status: StatusOK, Message: MessageSkipped}, nil
	}

	created := 0
	for _, p := range DemoProducts() {
		if _, err := s.products.Create(ctx, p); err != nil {
			return Result{Created: created}, fmt.Errorf("create product %s: %w", p.Slug, err)
		}
		created++
	}
	s.logger.WithField("count", created).Info("seeded demo products")
	return Result{Status: StatusOK, Message: MessageSeeded, Created: created}, nil
}

// DemoProducts returns a fresh copy of the demo catalog.
func DemoProducts() []domain.Product {
	desc := func(s string) *string { return &s }
	return []domain.Product{
		{
			Name:        "Gale Tee",
			Slug:        "gale-tee",
			Price:       32.0,
			Images:      []string{"https://images.unsplash.com/photo-1520975916090-3105956dac38?q=80&w=1600&auto=format&fit=crop"},
			Description: desc("Ultra-soft cotton tee inspired by coastal winds."),
			Sizes:       []string{"S", "M", "L", "XL"},
			Colors:      []string{"White", "Navy"},
			Featured:    true,
			Tags:        []string{"tops", "new"},
		},
		{
			Name:        "Zephyr Hoodie",
			Slug:        "zephyr-hoodie",
			Price:       68.0,
			Images:      []string{"https://images.unsplash.com/photo-1520975916090-3105956dac38?q=80&w=1600&auto=format&fit=crop"},
			Description: desc("Lightweight fleece hoodie for breezy evenings."),
			Sizes:       []string{"S", "M", "L", "XL"},
			Colors:      []string{"Black", "Heather Grey"},
			Featured:    true,
			Tags:        []string{"hoodies", "bestseller"},
		},
		{
			Name:        "Drift Joggers",
			Slug:        "drift-joggers",
			Price:       58.0,
			Images:      []string{"https://images.unsplash.com/photo-1548883354-94bc2cbc1098?q=80&w=1600&auto=format&fit=crop"},
			Description: desc("Tapered fit joggers with breathable stretch fabric."),
			Sizes:       []string{"S", "M", "L", "XL"},
			Colors:      []string{"Charcoal", "Navy"},
			Featured:    false,
			Tags:        []string{"bottoms"},
		},
	}
}
