package docstore

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"windstruck-api/internal/logger"
)

var fixedNow = time.Date(2025, 3, 14, 9, 26, 53, 589793238, time.UTC)

func newTestStore(backend Backend) *Store {
	return New(backend, logger.Discard(), WithClock(func() time.Time { return fixedNow }))
}

func TestStore_CreateStampsTimestampsAndStringID(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(NewMemory())

	input := Document{"name": "Gale Tee", IDField: "caller-supplied"}
	created, err := s.Create(ctx, Products, input)
	require.NoError(t, err)

	id, ok := created[IDField].(string)
	require.True(t, ok, "id must be a string")
	assert.NotEqual(t, "caller-supplied", id)
	assert.Equal(t, "Gale Tee", created["name"])

	want := fixedNow.Truncate(time.Millisecond)
	assert.Equal(t, want, created[CreatedAtField])
	assert.Equal(t, want, created[UpdatedAtField])

	_, mutated := input[CreatedAtField]
	assert.False(t, mutated, "caller document must not be modified")
}

func TestStore_CreateKeepsSuppliedCreatedAt(t *testing.T) {
	s := newTestStore(NewMemory())
	earlier := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)

	created, err := s.Create(context.Background(), Orders, Document{CreatedAtField: earlier})
	require.NoError(t, err)

	assert.Equal(t, earlier, created[CreatedAtField])
	assert.Equal(t, fixedNow.Truncate(time.Millisecond), created[UpdatedAtField])
}

func TestStore_ListDefaultsLimit(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(NewMemory())
	for i := 0; i < DefaultLimit+10; i++ {
		_, err := s.Create(ctx, Products, Document{"n": i})
		require.NoError(t, err)
	}

	all, err := s.List(ctx, Products, nil, 0)
	require.NoError(t, err)
	assert.Len(t, all, DefaultLimit)

	some, err := s.List(ctx, Products, Filter{}, 5)
	require.NoError(t, err)
	assert.Len(t, some, 5)
	for _, doc := range some {
		assert.IsType(t, "", doc[IDField])
	}
}

func TestStore_ListMatchesListFieldsByContainment(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(NewMemory())
	_, err := s.Create(ctx, Products, Document{"slug": "a", "tags": []string{"tops", "new"}, "featured": true})
	require.NoError(t, err)
	_, err = s.Create(ctx, Products, Document{"slug": "b", "tags": []string{"bottoms"}, "featured": false})
	require.NoError(t, err)

	docs, err := s.List(ctx, Products, Filter{"tags": "new"}, 10)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "a", docs[0]["slug"])

	docs, err = s.List(ctx, Products, Filter{"featured": false}, 10)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "b", docs[0]["slug"])

	docs, err = s.List(ctx, Products, Filter{"tags": "missing"}, 10)
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestStore_GetTreatsMalformedIDAsNotFound(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(NewMemory())
	created, err := s.Create(ctx, Orders, Document{"email": "a@b.com"})
	require.NoError(t, err)

	got, err := s.Get(ctx, Orders, created[IDField].(string))
	require.NoError(t, err)
	assert.Equal(t, "a@b.com", got["email"])

	_, err = s.Get(ctx, Orders, "not-an-id")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NotErrorIs(t, err, ErrUnavailable)

	_, err = s.Get(ctx, Orders, "00000000-0000-0000-0000-000000000000")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.Get(ctx, Products, created[IDField].(string))
	assert.ErrorIs(t, err, ErrNotFound, "ids are scoped to their collection")
}

type failingBackend struct {
	err error
}

func (f failingBackend) Insert(context.Context, Collection, Document) (string, error) {
	return "", f.err
}

func (f failingBackend) FindByID(context.Context, Collection, string) (Document, error) {
	return nil, f.err
}

func (f failingBackend) Find(context.Context, Collection, Filter, int) ([]Document, error) {
	return nil, f.err
}

func (f failingBackend) Ping(context.Context) error  { return f.err }
func (f failingBackend) Close(context.Context) error { return nil }

func TestStore_BackendFailuresAreUnavailable(t *testing.T) {
	ctx := context.Background()
	cause := errors.New("connection refused")
	s := newTestStore(failingBackend{err: cause})

	_, err := s.Create(ctx, Orders, Document{})
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.ErrorIs(t, err, cause)

	_, err = s.List(ctx, Products, nil, 1)
	assert.ErrorIs(t, err, ErrUnavailable)

	_, err = s.Get(ctx, Products, "abc")
	assert.ErrorIs(t, err, ErrUnavailable)

	err = s.Ping(ctx)
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Equal(t, "docstore: ping: connection refused", err.Error())
}

type lostWriteBackend struct {
	*Memory
}

func (l lostWriteBackend) FindByID(context.Context, Collection, string) (Document, error) {
	return nil, ErrNotFound
}

func TestStore_CreateFailsWhenReadBackMisses(t *testing.T) {
	s := newTestStore(lostWriteBackend{Memory: NewMemory()})

	_, err := s.Create(context.Background(), Orders, Document{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Contains(t, err.Error(), "read back order")
}

func TestDecode_ParsesStringTimestamps(t *testing.T) {
	type record struct {
		ID        string    `doc:"_id"`
		Count     int       `doc:"count"`
		Tags      []string  `doc:"tags"`
		CreatedAt time.Time `doc:"created_at"`
		UpdatedAt time.Time `doc:"updated_at"`
	}
	ts := time.Date(2024, 5, 1, 12, 0, 0, 123000000, time.UTC)

	var r record
	err := Decode(Document{
		IDField:        "id-1",
		"count":        float64(3),
		"tags":         []any{"a", "b"},
		CreatedAtField: ts.Format(time.RFC3339Nano),
		UpdatedAtField: ts,
	}, &r)
	require.NoError(t, err)

	assert.Equal(t, "id-1", r.ID)
	assert.Equal(t, 3, r.Count)
	assert.Equal(t, []string{"a", "b"}, r.Tags)
	assert.True(t, ts.Equal(r.CreatedAt), fmt.Sprintf("created_at %v", r.CreatedAt))
	assert.True(t, ts.Equal(r.UpdatedAt))
}
