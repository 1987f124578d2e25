package order

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"windstruck-api/internal/docstore"
	"windstruck-api/internal/domain"
	"windstruck-api/internal/logger"
	orderrepo "windstruck-api/internal/repository/order"
)

type countingRepo struct {
	orderrepo.Repository
	creates int
}

func (c *countingRepo) Create(ctx context.Context, o domain.Order) (*domain.Order, error) {
	c.creates++
	return c.Repository.Create(ctx, o)
}

func newService(t *testing.T) (*Service, *countingRepo) {
	t.Helper()
	store := docstore.New(docstore.NewMemory(), logger.Discard())
	repo := &countingRepo{Repository: orderrepo.NewDocStore(store, logger.Discard())}
	return New(repo, logger.Discard()), repo
}

func TestService_CreatePersistsOrderWithTotal(t *testing.T) {
	ctx := context.Background()
	svc, repo := newService(t)

	created, err := svc.Create(ctx, CreateRequest{
		Email: "a@b.com",
		Items: []map[string]any{
			{"product_id": "gale-tee", "quantity": 2.0, "price": 32.0},
			{"product_id": "zephyr-hoodie", "quantity": 1.0, "price": 68.0},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, repo.creates)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, 132.0, created.Total)
	assert.Equal(t, "a@b.com", created.Email)
	assert.Len(t, created.Items, 2)
	assert.False(t, created.CreatedAt.IsZero())
	assert.False(t, created.UpdatedAt.IsZero())

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)
}

func TestService_InvalidInputIsNotPersisted(t *testing.T) {
	svc, repo := newService(t)

	_, err := svc.Create(context.Background(), CreateRequest{
		Email: "a@b.com",
		Items: []map[string]any{{"product_id": "p1", "quantity": "lots"}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Zero(t, repo.creates)
}

func TestService_GetMalformedID(t *testing.T) {
	svc, _ := newService(t)

	_, err := svc.Get(context.Background(), "xyz")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
