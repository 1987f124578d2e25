package order

import (
	"context"

	"github.com/sirupsen/logrus"

	"windstruck-api/internal/domain"
	orderrepo "windstruck-api/internal/repository/order"
)

// Service accepts orders. Totals are computed from the prices the client
// sends; catalog prices are never consulted.
type Service struct {
	repo   orderrepo.Repository
	logger logrus.FieldLogger
}

func New(repo orderrepo.Repository, logger logrus.FieldLogger) *Service {
	if logger == nil {
		logger = logrus.New()
	}
	return &Service{repo: repo, logger: logger.WithField("component", "order service")}
}

// Create validates req, computes the total and persists the order.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*domain.Order, error) {
	in, err := Validate(req)
	if err != nil {
		s.logger.WithError(err).Debug("rejected order")
		return nil, err
	}
	return s.repo.Create(ctx, domain.Order{
		Items: in.Items,
		Total: in.Total.InexactFloat64(),
		Email: in.Email,
	})
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Order, error) {
	return s.repo.GetByID(ctx, id)
}
