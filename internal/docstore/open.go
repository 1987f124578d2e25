package docstore

import (
	"context"
	"fmt"
	"net/url"

	"github.com/sirupsen/logrus"
)

// Open picks a Backend from the URL scheme: mongodb and mongodb+srv use
// database as the MongoDB database, postgres and postgresql use the JSONB
// table, memory keeps everything in process.
func Open(ctx context.Context, rawURL, database string, logger logrus.FieldLogger) (Backend, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	switch u.Scheme {
	case "mongodb", "mongodb+srv":
		return OpenMongo(ctx, rawURL, database, logger)
	case "postgres", "postgresql":
		return OpenPostgres(ctx, rawURL, logger)
	case "memory":
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unsupported database url scheme %q", u.Scheme)
	}
}
