// Package docstore is a thin document-access layer over schemaless,
// collection-oriented backends. Records are plain field maps whose identifier
// is always a string; each backend converts its native identifier at its own
// boundary through an IDCodec.
package docstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-viper/mapstructure/v2"
)

// Reserved document fields.
const (
	IDField        = "_id"
	CreatedAtField = "created_at"
	UpdatedAtField = "updated_at"
)

var (
	// ErrNotFound is returned for missing records and for identifiers the
	// backend cannot decode.
	ErrNotFound = errors.New("docstore: document not found")
	// ErrUnavailable is returned when the backend fails to serve an operation.
	ErrUnavailable = errors.New("docstore: store unavailable")
)

// Collection names a group of documents in the backend.
type Collection string

const (
	Products Collection = "product"
	Orders   Collection = "order"
)

// Document is a single record. IDField, when present, holds a string.
type Document map[string]any

// Filter maps a field to the value it must equal. A list field matches when
// it contains the value. An empty filter matches everything.
type Filter map[string]any

// Backend is the native store capability wrapped by Store.
type Backend interface {
	// Insert stores doc (without IDField) and returns the encoded identifier.
	Insert(ctx context.Context, coll Collection, doc Document) (string, error)
	// FindByID returns ErrNotFound for missing or undecodable identifiers.
	FindByID(ctx context.Context, coll Collection, id string) (Document, error)
	// Find returns at most limit matching documents in store-native order.
	Find(ctx context.Context, coll Collection, filter Filter, limit int) ([]Document, error)
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// IDCodec converts between a backend's native identifier and its string form.
type IDCodec[T any] interface {
	Encode(id T) string
	Decode(s string) (T, error)
}

// OpError reports a failed backend operation. It matches both ErrUnavailable
// and the underlying cause.
type OpError struct {
	Op         string
	Collection Collection
	Err        error
}

func (e *OpError) Error() string {
	if e.Collection == "" {
		return fmt.Sprintf("docstore: %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("docstore: %s %s: %v", e.Op, e.Collection, e.Err)
}

func (e *OpError) Unwrap() []error {
	return []error{ErrUnavailable, e.Err}
}

// Decode copies doc into the struct pointed to by out using `doc` field tags.
// Timestamps stored as RFC 3339 strings are parsed.
func Decode(doc Document, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:    "doc",
		Result:     out,
		DecodeHook: mapstructure.StringToTimeHookFunc(time.RFC3339Nano),
	})
	if err != nil {
		return fmt.Errorf("docstore: init decoder: %w", err)
	}
	if err := dec.Decode(map[string]any(doc)); err != nil {
		return fmt.Errorf("docstore: decode document: %w", err)
	}
	return nil
}
