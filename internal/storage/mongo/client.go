package mongo

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/universererp/backend/internal/storage"
	"github.com/universererp/backend/pkg/logger"
	"github.com/universererp/backend/pkg/retry"
)

type Client struct {
	client *mongo.Client
	db     *mongo.Database
}

func NewClient(ctx context.Context, uri, database string, timeout time.Duration) (*Client, error) {
	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var client *mongo.Client
	err := retry.Do(connectCtx, retry.Config{
		MaxAttempts:  3,
		InitialDelay: 500 * time.Millisecond,
		Logger:       logger.GetLogger(),
	}, func() error {
		var err error
		client, err = mongo.Connect(connectCtx, options.Client().ApplyURI(uri))
		if err != nil {
			return err
		}
		return client.Ping(connectCtx, nil)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	logger.Info("MongoDB client initialized",
		zap.String("uri", uri),
		zap.String("database", database),
	)

	return &Client{
		client: client,
		db:     client.Database(database),
	}, nil
}

func (c *Client) Collection(name string) storage.Collection {
	return &collection{col: c.db.Collection(name)}
}

func (c *Client) Ping(ctx context.Context) error {
	return c.client.Ping(ctx, nil)
}

func (c *Client) Close(ctx context.Context) error {
	return c.client.Disconnect(ctx)
}

type collection struct {
	col *mongo.Collection
}

func (c *collection) Find(ctx context.Context, filter storage.Document) ([]storage.Document, error) {
	cur, err := c.col.Find(ctx, toBson(filter))
	if err != nil {
		return nil, fmt.Errorf("find failed: %w", err)
	}
	defer cur.Close(ctx)

	var docs []storage.Document
	for cur.Next(ctx) {
		var doc bson.M
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode failed: %w", err)
		}
		docs = append(docs, normalize(doc))
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("cursor failed: %w", err)
	}
	return docs, nil
}

func (c *collection) FindOne(ctx context.Context, filter storage.Document) (storage.Document, error) {
	var doc bson.M
	err := c.col.FindOne(ctx, toBson(filter)).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find one failed: %w", err)
	}
	return normalize(doc), nil
}

func (c *collection) InsertOne(ctx context.Context, doc storage.Document) (string, error) {
	id, ok := doc["_id"].(string)
	if !ok || id == "" {
		id = uuid.New().String()
		doc["_id"] = id
	}
	if _, err := c.col.InsertOne(ctx, toBson(doc)); err != nil {
		return "", fmt.Errorf("insert failed: %w", err)
	}
	return id, nil
}

func (c *collection) ReplaceOne(ctx context.Context, filter, doc storage.Document) (int64, error) {
	res, err := c.col.ReplaceOne(ctx, toBson(filter), toBson(doc))
	if err != nil {
		return 0, fmt.Errorf("replace failed: %w", err)
	}
	return res.MatchedCount, nil
}

func (c *collection) DeleteOne(ctx context.Context, filter storage.Document) (int64, error) {
	res, err := c.col.DeleteOne(ctx, toBson(filter))
	if err != nil {
		return 0, fmt.Errorf("delete failed: %w", err)
	}
	return res.DeletedCount, nil
}

func (c *collection) CountDocuments(ctx context.Context, filter storage.Document) (int64, error) {
	count, err := c.col.CountDocuments(ctx, toBson(filter))
	if err != nil {
		return 0, fmt.Errorf("count failed: %w", err)
	}
	return count, nil
}

func (c *collection) Aggregate(ctx context.Context, pipeline []storage.Document) ([]storage.Document, error) {
	stages := make(mongo.Pipeline, 0, len(pipeline))
	for _, stage := range pipeline {
		d := bson.D{}
		for k, v := range stage {
			d = append(d, bson.E{Key: k, Value: v})
		}
		stages = append(stages, d)
	}

	cur, err := c.col.Aggregate(ctx, stages)
	if err != nil {
		return nil, fmt.Errorf("aggregate failed: %w", err)
	}
	defer cur.Close(ctx)

	var docs []storage.Document
	for cur.Next(ctx) {
		var doc bson.M
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode failed: %w", err)
		}
		docs = append(docs, normalize(doc))
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("cursor failed: %w", err)
	}
	return docs, nil
}

func toBson(doc storage.Document) bson.M {
	if doc == nil {
		return bson.M{}
	}
	return bson.M(doc)
}

// normalize flattens driver-specific types so the rest of the system
// only ever sees strings, numbers and time.Time values.
func normalize(doc bson.M) storage.Document {
	out := storage.Document{}
	for k, v := range doc {
		switch typed := v.(type) {
		case primitive.ObjectID:
			out[k] = typed.Hex()
		case primitive.DateTime:
			out[k] = typed.Time()
		default:
			out[k] = v
		}
	}
	return out
}
