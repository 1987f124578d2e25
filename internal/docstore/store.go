package docstore

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"
)

// DefaultLimit caps List when the caller passes a non-positive limit.
const DefaultLimit = 50

// Store adds timestamping, limit defaults and error classification on top of
// a Backend.
type Store struct {
	backend Backend
	now     func() time.Time
	logger  logrus.FieldLogger
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the wall clock used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func New(backend Backend, logger logrus.FieldLogger, opts ...Option) *Store {
	if logger == nil {
		logger = logrus.New()
	}
	s := &Store{
		backend: backend,
		now:     time.Now,
		logger:  logger.WithField("component", "docstore"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create stamps data, inserts it and returns the stored record as re-read
// from the backend. created_at is kept when the caller supplies it.
func (s *Store) Create(ctx context.Context, coll Collection, data Document) (Document, error) {
	// backends keep millisecond precision
	now := s.now().UTC().Truncate(time.Millisecond)

	doc := make(Document, len(data)+2)
	for k, v := range data {
		if k == IDField {
			continue
		}
		doc[k] = v
	}
	if _, ok := doc[CreatedAtField]; !ok {
		doc[CreatedAtField] = now
	}
	doc[UpdatedAtField] = now

	id, err := s.backend.Insert(ctx, coll, doc)
	if err != nil {
		s.logger.WithError(err).WithField("collection", coll).Error("insert failed")
		return nil, &OpError{Op: "insert", Collection: coll, Err: err}
	}

	created, err := s.backend.FindByID(ctx, coll, id)
	if err != nil {
		s.logger.WithError(err).WithFields(logrus.Fields{"collection": coll, "id": id}).Error("read back failed")
		return nil, &OpError{Op: "read back", Collection: coll, Err: err}
	}
	s.logger.WithFields(logrus.Fields{"collection": coll, "id": id}).Debug("created")
	return created, nil
}

// List returns up to limit documents matching filter, DefaultLimit when
// limit <= 0. Ordering is whatever the backend yields.
func (s *Store) List(ctx context.Context, coll Collection, filter Filter, limit int) ([]Document, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	docs, err := s.backend.Find(ctx, coll, filter, limit)
	if err != nil {
		s.logger.WithError(err).WithField("collection", coll).Error("find failed")
		return nil, &OpError{Op: "find", Collection: coll, Err: err}
	}
	s.logger.WithFields(logrus.Fields{"collection": coll, "count": len(docs)}).Debug("listed")
	return docs, nil
}

// Get returns the document with the given id. Malformed ids yield
// ErrNotFound exactly like missing ones.
func (s *Store) Get(ctx context.Context, coll Collection, id string) (Document, error) {
	doc, err := s.backend.FindByID(ctx, coll, id)
	if errors.Is(err, ErrNotFound) {
		s.logger.WithFields(logrus.Fields{"collection": coll, "id": id}).Debug("not found")
		return nil, ErrNotFound
	}
	if err != nil {
		s.logger.WithError(err).WithFields(logrus.Fields{"collection": coll, "id": id}).Error("find by id failed")
		return nil, &OpError{Op: "find by id", Collection: coll, Err: err}
	}
	return doc, nil
}

// Ping reports whether the backend is reachable.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.backend.Ping(ctx); err != nil {
		return &OpError{Op: "ping", Err: err}
	}
	return nil
}
