package seed

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"windstruck-api/internal/docstore"
	"windstruck-api/internal/domain"
	"windstruck-api/internal/logger"
	productrepo "windstruck-api/internal/repository/product"
)

func newRepo() productrepo.Repository {
	return productrepo.NewDocStore(docstore.New(docstore.NewMemory(), logger.Discard()), logger.Discard())
}

func TestApply_SeedsOnceThenSkips(t *testing.T) {
	ctx := context.Background()
	repo := newRepo()
	s := New(repo, logger.Discard())

	first, err := s.Apply(ctx)
	require.NoError(t, err)
	assert.Equal(t, Result{Status: StatusOK, Message: MessageSeeded, Created: 3}, first)

	products, err := repo.List(ctx, productrepo.ListFilter{})
	require.NoError(t, err)
	require.Len(t, products, 3)
	assert.Equal(t, "gale-tee", products[0].Slug)

	second, err := s.Apply(ctx)
	require.NoError(t, err)
	assert.Equal(t, Result{Status: StatusOK, Message: MessageSkipped}, second)

	again, err := repo.List(ctx, productrepo.ListFilter{})
	require.NoError(t, err)
	assert.Len(t, again, 3, "second seed must not insert")
}

func TestApply_SkipsWhenAnyProductExists(t *testing.T) {
	ctx := context.Background()
	repo := newRepo()
	_, err := repo.Create(ctx, domain.Product{Name: "Existing", Slug: "existing"})
	require.NoError(t, err)

	res, err := New(repo, logger.Discard()).Apply(ctx)
	require.NoError(t, err)
	assert.Equal(t, MessageSkipped, res.Message)
}

type flakyStore struct {
	productrepo.Repository
	failAfter int
	calls     int
}

func (f *flakyStore) Create(ctx context.Context, p domain.Product) (*domain.Product, error) {
	if f.calls >= f.failAfter {
		return nil, domain.ErrStoreUnavailable
	}
	f.calls++
	return f.Repository.Create(ctx, p)
}

func TestApply_PartialSeedIsNotRepaired(t *testing.T) {
	ctx := context.Background()
	repo := newRepo()
	flaky := &flakyStore{Repository: repo, failAfter: 1}

	res, err := New(flaky, logger.Discard()).Apply(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
	assert.Equal(t, 1, res.Created)

	res, err = New(repo, logger.Discard()).Apply(ctx)
	require.NoError(t, err)
	assert.Equal(t, MessageSkipped, res.Message)

	products, err := repo.List(ctx, productrepo.ListFilter{})
	require.NoError(t, err)
	assert.Len(t, products, 1)
}

type brokenStore struct{}

func (brokenStore) Any(context.Context) (bool, error) { return false, errors.New("down") }

func (brokenStore) Create(context.Context, domain.Product) (*domain.Product, error) {
	return nil, errors.New("unexpected call")
}

func TestApply_ExistenceCheckFailure(t *testing.T) {
	_, err := New(brokenStore{}, logger.Discard()).Apply(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "check existing products")
}

func TestDemoProducts_FreshCopies(t *testing.T) {
	a := DemoProducts()
	a[0].Tags[0] = "changed"
	assert.Equal(t, "tops", DemoProducts()[0].Tags[0])
}
