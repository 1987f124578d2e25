package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
)

// Postgres is a Backend storing every collection in a single JSONB table
// (see internal/migrate). Rows are returned in insertion order.
type Postgres struct {
	pool   *pgxpool.Pool
	codec  uuidCodec
	logger logrus.FieldLogger
}

// OpenPostgres opens a pgx connection pool and verifies connectivity with a ping.
func OpenPostgres(ctx context.Context, dsn string, logger logrus.FieldLogger) (*Postgres, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}
	cfg.MaxConnIdleTime = 5 * time.Minute
	cfg.MaxConnLifetime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open postgres pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return NewPostgres(pool, logger), nil
}

// NewPostgres wraps an existing pool.
func NewPostgres(pool *pgxpool.Pool, logger logrus.FieldLogger) *Postgres {
	if logger == nil {
		logger = logrus.New()
	}
	return &Postgres{pool: pool, logger: logger.WithField("component", "docstore.postgres")}
}

func (p *Postgres) Insert(ctx context.Context, coll Collection, doc Document) (string, error) {
	const q = `INSERT INTO documents (id, collection, body) VALUES ($1::uuid, $2, $3::jsonb)`

	body := make(map[string]any, len(doc))
	for k, v := range doc {
		if k != IDField {
			body[k] = v
		}
	}
	raw, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("encode body: %w", err)
	}

	id := p.codec.Encode(uuid.New())
	if _, err := p.pool.Exec(ctx, q, id, string(coll), string(raw)); err != nil {
		return "", err
	}
	p.logger.WithFields(logrus.Fields{"collection": coll, "id": id}).Debug("inserted")
	return id, nil
}

func (p *Postgres) FindByID(ctx context.Context, coll Collection, id string) (Document, error) {
	const q = `SELECT id::text, body FROM documents WHERE collection = $1 AND id = $2::uuid`

	native, err := p.codec.Decode(id)
	if err != nil {
		return nil, ErrNotFound
	}

	var (
		rowID string
		body  map[string]any
	)
	err = p.pool.QueryRow(ctx, q, string(coll), p.codec.Encode(native)).Scan(&rowID, &body)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return withID(body, rowID), nil
}

func (p *Postgres) Find(ctx context.Context, coll Collection, filter Filter, limit int) ([]Document, error) {
	where, args, err := buildFilter(filter, 2)
	if err != nil {
		return nil, err
	}
	q := `SELECT id::text, body FROM documents WHERE collection = $1` + where +
		fmt.Sprintf(` ORDER BY seq LIMIT $%d`, len(args)+2)

	params := append([]any{string(coll)}, args...)
	params = append(params, limit)

	rows, err := p.pool.Query(ctx, q, params...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Document, 0)
	for rows.Next() {
		var (
			rowID string
			body  map[string]any
		)
		if err := rows.Scan(&rowID, &body); err != nil {
			return nil, err
		}
		out = append(out, withID(body, rowID))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (p *Postgres) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

func (p *Postgres) Close(context.Context) error {
	p.pool.Close()
	return nil
}

// ConnString returns the DSN the pool was opened with.
func (p *Postgres) ConnString() string {
	return p.pool.Config().ConnString()
}

// buildFilter renders filter as SQL conditions on the body column, numbering
// placeholders from start. Fields are emitted in sorted order.
func buildFilter(filter Filter, start int) (string, []any, error) {
	if len(filter) == 0 {
		return "", nil, nil
	}
	fields := make([]string, 0, len(filter))
	for f := range filter {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	var (
		sb   strings.Builder
		args = make([]any, 0, 2*len(fields))
	)
	n := start
	for _, f := range fields {
		val, err := json.Marshal(filter[f])
		if err != nil {
			return "", nil, fmt.Errorf("encode filter %s: %w", f, err)
		}
		fmt.Fprintf(&sb,
			` AND (body -> $%[1]d::text = $%[2]d::jsonb OR (jsonb_typeof(body -> $%[1]d::text) = 'array' AND body -> $%[1]d::text @> jsonb_build_array($%[2]d::jsonb)))`,
			n, n+1)
		args = append(args, f, string(val))
		n += 2
	}
	return sb.String(), args, nil
}

func withID(body map[string]any, id string) Document {
	doc := make(Document, len(body)+1)
	for k, v := range body {
		doc[k] = v
	}
	doc[IDField] = id
	return doc
}
