package order

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
	return &docRepo{store: store, logger: logger.WithField("component", "order repo")}
}

func (r *docRepo) Create(ctx context.Context, order domain.Order) (*domain.Order, error) {
	doc, err := r.store.Create(ctx, docstore.Orders, toDocument(order))
	if err != nil {
		r.logger.WithError(err).WithField("email", order.Email).Error("create")
		return nil, repository.Translate(err)
	}
	created, err := fromDocument(doc)
	if err != nil {
		return nil, err
	}
	r.logger.WithFields(logrus.Fields{"id": created.ID, "items": len(created.Items), "total": created.Total}).Info("created order")
	return &created, nil
}

func (r *docRepo) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	doc, err := r.store.Get(ctx, docstore.Orders, id)
	if err != nil {
		return nil, repository.Translate(err)
	}
	o, err := fromDocument(doc)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func toDocument(o domain.Order) docstore.Document {
	items := make([]any, 0, len(o.Items))
	for _, it := range o.Items {
		item := map[string]any{
			"product_id": it.ProductID,
			"quantity":   it.Quantity,
			"price":      it.Price,
		}
		if it.Size != nil {
			item["size"] = *it.Size
		}
		if it.Color != nil {
			item["color"] = *it.Color
		}
		items = append(items, item)
	}

	doc := docstore.Document{
		"items": items,
		"total": o.Total,
		"email": o.Email,
	}
	if !o.CreatedAt.IsZero() {
		doc[docstore.CreatedAtField] = o.CreatedAt
	}
	return doc
}

func fromDocument(doc docstore.Document) (domain.Order, error) {
	var o domain.Order
	if err := docstore.Decode(doc, &o); err != nil {
		return domain.Order{}, fmt.Errorf("order %v: %w", doc[docstore.IDField], err)
	}
	if o.Items == nil {
		o.Items = []domain.LineItem{}
	}
	return o, nil
}
