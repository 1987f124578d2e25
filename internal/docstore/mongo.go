package docstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type objectIDCodec struct{}

func (objectIDCodec) Encode(id bson.ObjectID) string { return id.Hex() }

func (objectIDCodec) Decode(s string) (bson.ObjectID, error) { return bson.ObjectIDFromHex(s) }

// Mongo is a Backend over a MongoDB database. Each Collection maps to the
// MongoDB collection of the same name.
type Mongo struct {
	client *mongo.Client
	db     *mongo.Database
	codec  objectIDCodec
	logger logrus.FieldLogger
}

// OpenMongo connects to uri and verifies connectivity with a ping.
func OpenMongo(ctx context.Context, uri, database string, logger logrus.FieldLogger) (*Mongo, error) {
	if logger == nil {
		logger = logrus.New()
	}
	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	return &Mongo{
		client: client,
		db:     client.Database(database),
		logger: logger.WithFields(logrus.Fields{"component": "docstore.mongo", "database": database}),
	}, nil
}

func (m *Mongo) Insert(ctx context.Context, coll Collection, doc Document) (string, error) {
	oid := bson.NewObjectID()
	body := make(bson.M, len(doc)+1)
	for k, v := range doc {
		body[k] = v
	}
	body[IDField] = oid

	if _, err := m.db.Collection(string(coll)).InsertOne(ctx, body); err != nil {
		return "", err
	}
	m.logger.WithFields(logrus.Fields{"collection": coll, "id": oid.Hex()}).Debug("inserted")
	return m.codec.Encode(oid), nil
}

func (m *Mongo) FindByID(ctx context.Context, coll Collection, id string) (Document, error) {
	oid, err := m.codec.Decode(id)
	if err != nil {
		return nil, ErrNotFound
	}

	var raw bson.M
	err = m.db.Collection(string(coll)).FindOne(ctx, bson.M{IDField: oid}).Decode(&raw)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return m.toDocument(raw), nil
}

func (m *Mongo) Find(ctx context.Context, coll Collection, filter Filter, limit int) ([]Document, error) {
	query := bson.M{}
	for k, v := range filter {
		query[k] = v
	}

	cur, err := m.db.Collection(string(coll)).Find(ctx, query, options.Find().SetLimit(int64(limit)))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := make([]Document, 0)
	for cur.Next(ctx) {
		var raw bson.M
		if err := cur.Decode(&raw); err != nil {
			return nil, err
		}
		out = append(out, m.toDocument(raw))
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (m *Mongo) Ping(ctx context.Context) error {
	return m.client.Ping(ctx, nil)
}

func (m *Mongo) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

func (m *Mongo) toDocument(raw bson.M) Document {
	doc := make(Document, len(raw))
	for k, v := range raw {
		if k == IDField {
			if oid, ok := v.(bson.ObjectID); ok {
				doc[k] = m.codec.Encode(oid)
				continue
			}
		}
		doc[k] = normalizeBSON(v)
	}
	return doc
}

// normalizeBSON turns driver-specific values into plain Go values so callers
// never see bson types.
func normalizeBSON(v any) any {
	switch t := v.(type) {
	case bson.M:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = normalizeBSON(val)
		}
		return out
	case bson.D:
		out := make(map[string]any, len(t))
		for _, e := range t {
			out[e.Key] = normalizeBSON(e.Value)
		}
		return out
	case bson.A:
		out := make([]any, len(t))
		for i := range t {
			out[i] = normalizeBSON(t[i])
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i := range t {
			out[i] = normalizeBSON(t[i])
		}
		return out
	case bson.DateTime:
		return t.Time().UTC()
	case bson.ObjectID:
		return t.Hex()
	}
	return v
}
