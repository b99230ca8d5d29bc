package storage

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("document not found")

// Document is a schemaless record as stored in a collection. Keys are
// field names; values are whatever the backing store returned.
type Document map[string]any

type Collection interface {
	Find(ctx context.Context, filter Document) ([]Document, error)
	FindOne(ctx context.Context, filter Document) (Document, error)
	InsertOne(ctx context.Context, doc Document) (string, error)
	ReplaceOne(ctx context.Context, filter Document, doc Document) (int64, error)
	DeleteOne(ctx context.Context, filter Document) (int64, error)
	CountDocuments(ctx context.Context, filter Document) (int64, error)
	Aggregate(ctx context.Context, pipeline []Document) ([]Document, error)
}

type Store interface {
	Collection(name string) Collection
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

func (d Document) ID() string {
	if id, ok := d["_id"].(string); ok {
		return id
	}
	return ""
}

func (d Document) GetString(key string) string {
	if v, ok := d[key].(string); ok {
		return v
	}
	return ""
}

// GetFloat coerces the numeric types the Mongo driver can hand back.
func (d Document) GetFloat(key string) float64 {
	switch v := d[key].(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int32:
		return float64(v)
	case int64:
		return float64(v)
	default:
		return 0
	}
}
