package product

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"windstruck-api/internal/docstore"
	"windstruck-api/internal/domain"
	"windstruck-api/internal/repository"
)

type docRepo struct {
	store  repository.DocumentStore
	logger logrus.FieldLogger
}

func NewDocStore(store repository.DocumentStore, logger logrus.FieldLogger) Repository {
	if logger == nil {
		logger = logrus.New()
	}
	return &docRepo{store: store, logger: logger.WithField("component", "product repo")}
}

func (r *docRepo) List(ctx context.Context, filter ListFilter) ([]domain.Product, error) {
	docs, err := r.store.List(ctx, docstore.Products, toFilter(filter), filter.Limit)
	if err != nil {
		return nil, repository.Translate(err)
	}

	result := make([]domain.Product, 0, len(docs))
	for _, doc := range docs {
		p, err := fromDocument(doc)
		if err != nil {
			r.logger.WithError(err).WithField("id", doc[docstore.IDField]).Error("decode product")
			return nil, err
		}
		result = append(result, p)
	}
	r.logger.WithFields(logrus.Fields{"tag": filter.Tag, "count": len(result)}).Debug("list")
	return result, nil
}

func (r *docRepo) GetBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	list, err := r.List(ctx, ListFilter{Slug: slug, Limit: 1})
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		r.logger.WithField("slug", slug).Debug("get by slug: not found")
		return nil, domain.ErrNotFound
	}
	return &list[0], nil
}

func (r *docRepo) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	doc, err := r.store.Get(ctx, docstore.Products, id)
	if err != nil {
		return nil, repository.Translate(err)
	}
	p, err := fromDocument(doc)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *docRepo) Create(ctx context.Context, product domain.Product) (*domain.Product, error) {
	doc, err := r.store.Create(ctx, docstore.Products, toDocument(product))
	if err != nil {
		r.logger.WithError(err).WithField("slug", product.Slug).Error("create")
		return nil, repository.Translate(err)
	}
	p, err := fromDocument(doc)
	if err != nil {
		return nil, err
	}
	r.logger.WithFields(logrus.Fields{"slug": p.Slug, "id": p.ID}).Info("created product")
	return &p, nil
}

func (r *docRepo) Any(ctx context.Context) (bool, error) {
	docs, err := r.store.List(ctx, docstore.Products, nil, 1)
	if err != nil {
		return false, repository.Translate(err)
	}
	return len(docs) > 0, nil
}

func toFilter(f ListFilter) docstore.Filter {
	filter := docstore.Filter{}
	if f.Slug != "" {
		filter["slug"] = f.Slug
	}
	if f.Tag != "" {
		filter["tags"] = f.Tag
	}
	if f.Featured != nil {
		filter["featured"] = *f.Featured
	}
	return filter
}

func toDocument(p domain.Product) docstore.Document {
	doc := docstore.Document{
		"name":     p.Name,
		"slug":     p.Slug,
		"price":    p.Price,
		"featured": p.Featured,
	}
	if p.Description != nil {
		doc["description"] = *p.Description
	}
	if p.Images != nil {
		doc["images"] = p.Images
	}
	if p.Sizes != nil {
		doc["sizes"] = p.Sizes
	}
	if p.Colors != nil {
		doc["colors"] = p.Colors
	}
	if p.Tags != nil {
		doc["tags"] = p.Tags
	}
	if !p.CreatedAt.IsZero() {
		doc[docstore.CreatedAtField] = p.CreatedAt
	}
	return doc
}

func fromDocument(doc docstore.Document) (domain.Product, error) {
	var p domain.Product
	if err := docstore.Decode(doc, &p); err != nil {
		return domain.Product{}, fmt.Errorf("product %v: %w", doc[docstore.IDField], err)
	}

	def := domain.NewProduct()
	if p.Images == nil {
		p.Images = def.Images
	}
	if p.Sizes == nil {
		p.Sizes = def.Sizes
	}
	if p.Colors == nil {
		p.Colors = def.Colors
	}
	if p.Tags == nil {
		p.Tags = def.Tags
	}
	return p, nil
}
