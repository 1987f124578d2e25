package docstore

import (
	"context"
	"errors"
	"reflect"
	"sync"

	"github.com/google/uuid"
)

var errClosed = errors.New("memory store closed")

type uuidCodec struct{}

func (uuidCodec) Encode(id uuid.UUID) string { return id.String() }

func (uuidCodec) Decode(s string) (uuid.UUID, error) { return uuid.Parse(s) }

type memoryRecord struct {
	id  uuid.UUID
	doc Document
}

// Memory is an in-process Backend keyed by UUID. Documents come back in
// insertion order.
type Memory struct {
	mu      sync.RWMutex
	codec   uuidCodec
	records map[Collection][]memoryRecord
	index   map[Collection]map[uuid.UUID]int
	closed  bool
}

func NewMemory() *Memory {
	return &Memory{
		records: make(map[Collection][]memoryRecord),
		index:   make(map[Collection]map[uuid.UUID]int),
	}
}

func (m *Memory) Insert(ctx context.Context, coll Collection, doc Document) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return "", errClosed
	}

	id := uuid.New()
	stored := cloneDocument(doc)
	delete(stored, IDField)

	if m.index[coll] == nil {
		m.index[coll] = make(map[uuid.UUID]int)
	}
	m.index[coll][id] = len(m.records[coll])
	m.records[coll] = append(m.records[coll], memoryRecord{id: id, doc: stored})
	return m.codec.Encode(id), nil
}

func (m *Memory) FindByID(ctx context.Context, coll Collection, id string) (Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	native, err := m.codec.Decode(id)
	if err != nil {
		return nil, ErrNotFound
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return nil, errClosed
	}
	pos, ok := m.index[coll][native]
	if !ok {
		return nil, ErrNotFound
	}
	return m.export(m.records[coll][pos]), nil
}

func (m *Memory) Find(ctx context.Context, coll Collection, filter Filter, limit int) ([]Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return nil, errClosed
	}

	out := make([]Document, 0)
	for _, rec := range m.records[coll] {
		if limit > 0 && len(out) >= limit {
			break
		}
		if matches(rec.doc, filter) {
			out = append(out, m.export(rec))
		}
	}
	return out, nil
}

func (m *Memory) Ping(ctx context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return errClosed
	}
	return ctx.Err()
}

func (m *Memory) Close(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

func (m *Memory) export(rec memoryRecord) Document {
	doc := cloneDocument(rec.doc)
	doc[IDField] = m.codec.Encode(rec.id)
	return doc
}

func matches(doc Document, filter Filter) bool {
	for field, want := range filter {
		if !valueMatches(doc[field], want) {
			return false
		}
	}
	return true
}

func valueMatches(got, want any) bool {
	if equalValues(got, want) {
		return true
	}
	rv := reflect.ValueOf(got)
	if rv.Kind() != reflect.Slice {
		return false
	}
	for i := 0; i < rv.Len(); i++ {
		if equalValues(rv.Index(i).Interface(), want) {
			return true
		}
	}
	return false
}

func equalValues(a, b any) bool {
	if fa, ok := asFloat(a); ok {
		if fb, ok := asFloat(b); ok {
			return fa == fb
		}
		return false
	}
	return reflect.DeepEqual(a, b)
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

func cloneDocument(doc Document) Document {
	out := make(Document, len(doc))
	for k, v := range doc {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case Document:
		return cloneDocument(t)
	case map[string]any:
		return map[string]any(cloneDocument(t))
	case []any:
		out := make([]any, len(t))
		for i := range t {
			out[i] = cloneValue(t[i])
		}
		return out
	case []string:
		out := make([]string, len(t))
		copy(out, t)
		return out
	}
	return v
}
