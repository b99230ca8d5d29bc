package memory

import (
	"context"
	"sort"
	"strconv"
	"sync"

	"github.com/universererp/backend/internal/storage"
)

// Store is an in-memory stand-in for MongoDB. The server falls back to
// it when no database is reachable, and tests use it as the store fake.
type Store struct {
	mu          sync.RWMutex
	collections map[string]*collection
}

func NewStore() *Store {
	return &Store{collections: make(map[string]*collection)}
}

func (s *Store) Collection(name string) storage.Collection {
	s.mu.Lock()
	defer s.mu.Unlock()
	col, ok := s.collections[name]
	if !ok {
		col = &collection{docs: []storage.Document{}}
		s.collections[name] = col
	}
	return col
}

func (s *Store) Ping(ctx context.Context) error {
	return nil
}

func (s *Store) Close(ctx context.Context) error {
	return nil
}

// Seed loads documents into a collection, minting ids where missing.
func (s *Store) Seed(name string, docs []storage.Document) {
	col := s.Collection(name).(*collection)
	col.mu.Lock()
	defer col.mu.Unlock()
	for _, doc := range docs {
		copied := cloneDoc(doc)
		if copied.ID() == "" {
			col.nextID++
			copied["_id"] = strconv.Itoa(col.nextID)
		}
		col.docs = append(col.docs, copied)
	}
}

type collection struct {
	mu     sync.RWMutex
	docs   []storage.Document
	nextID int
}

func (c *collection) Find(ctx context.Context, filter storage.Document) ([]storage.Document, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var out []storage.Document
	for _, doc := range c.docs {
		if matches(doc, filter) {
			out = append(out, cloneDoc(doc))
		}
	}
	return out, nil
}

func (c *collection) FindOne(ctx context.Context, filter storage.Document) (storage.Document, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, doc := range c.docs {
		if matches(doc, filter) {
			return cloneDoc(doc), nil
		}
	}
	return nil, storage.ErrNotFound
}

func (c *collection) InsertOne(ctx context.Context, doc storage.Document) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	copied := cloneDoc(doc)
	id := copied.ID()
	if id == "" {
		c.nextID++
		id = strconv.Itoa(c.nextID)
		copied["_id"] = id
	}
	c.docs = append(c.docs, copied)
	return id, nil
}

func (c *collection) ReplaceOne(ctx context.Context, filter, doc storage.Document) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, existing := range c.docs {
		if matches(existing, filter) {
			copied := cloneDoc(doc)
			copied["_id"] = existing.ID()
			c.docs[i] = copied
			return 1, nil
		}
	}
	return 0, nil
}

func (c *collection) DeleteOne(ctx context.Context, filter storage.Document) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, existing := range c.docs {
		if matches(existing, filter) {
			c.docs = append(c.docs[:i], c.docs[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

func (c *collection) CountDocuments(ctx context.Context, filter storage.Document) (int64, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var count int64
	for _, doc := range c.docs {
		if matches(doc, filter) {
			count++
		}
	}
	return count, nil
}

// Aggregate supports the subset of pipeline stages the dashboard and
// forecasting code issue: $match, $group with $sum, and $sort.
func (c *collection) Aggregate(ctx context.Context, pipeline []storage.Document) ([]storage.Document, error) {
	c.mu.RLock()
	docs := make([]storage.Document, len(c.docs))
	for i, doc := range c.docs {
		docs[i] = cloneDoc(doc)
	}
	c.mu.RUnlock()

	for _, stage := range pipeline {
		if match, ok := stage["$match"].(storage.Document); ok {
			var filtered []storage.Document
			for _, doc := range docs {
				if matches(doc, match) {
					filtered = append(filtered, doc)
				}
			}
			docs = filtered
			continue
		}
		if group, ok := stage["$group"].(storage.Document); ok {
			docs = applyGroup(docs, group)
			continue
		}
		if sortSpec, ok := stage["$sort"].(storage.Document); ok {
			docs = applySort(docs, sortSpec)
			continue
		}
	}
	return docs, nil
}

func matches(doc, filter storage.Document) bool {
	for key, want := range filter {
		got := doc[key]
		if cond, ok := want.(storage.Document); ok {
			if !matchesOperators(got, cond) {
				return false
			}
			continue
		}
		if !equal(got, want) {
			return false
		}
	}
	return true
}

func matchesOperators(got any, cond storage.Document) bool {
	val := toFloat(got)
	for op, bound := range cond {
		limit := toFloat(bound)
		switch op {
		case "$gt":
			if !(val > limit) {
				return false
			}
		case "$gte":
			if !(val >= limit) {
				return false
			}
		case "$lt":
			if !(val < limit) {
				return false
			}
		case "$lte":
			if !(val <= limit) {
				return false
			}
		default:
			return false
		}
	}
	return true
}

func applyGroup(docs []storage.Document, group storage.Document) []storage.Document {
	keyExpr, _ := group["_id"].(string)

	type bucket struct {
		key  any
		sums map[string]float64
	}
	order := []string{}
	buckets := map[string]*bucket{}

	for _, doc := range docs {
		var key any
		keyStr := ""
		if len(keyExpr) > 1 && keyExpr[0] == '$' {
			key = doc[keyExpr[1:]]
			keyStr, _ = key.(string)
		}
		b, ok := buckets[keyStr]
		if !ok {
			b = &bucket{key: key, sums: map[string]float64{}}
			buckets[keyStr] = b
			order = append(order, keyStr)
		}
		for field, accum := range group {
			if field == "_id" {
				continue
			}
			spec, ok := accum.(storage.Document)
			if !ok {
				continue
			}
			if sumExpr, ok := spec["$sum"]; ok {
				if ref, ok := sumExpr.(string); ok && len(ref) > 1 && ref[0] == '$' {
					b.sums[field] += doc.GetFloat(ref[1:])
				} else {
					b.sums[field] += toFloat(sumExpr)
				}
			}
		}
	}

	sort.Strings(order)
	out := make([]storage.Document, 0, len(order))
	for _, keyStr := range order {
		b := buckets[keyStr]
		doc := storage.Document{"_id": b.key}
		for field, sum := range b.sums {
			doc[field] = sum
		}
		out = append(out, doc)
	}
	return out
}

func applySort(docs []storage.Document, spec storage.Document) []storage.Document {
	for field, dir := range spec {
		descending := toFloat(dir) < 0
		sort.SliceStable(docs, func(i, j int) bool {
			a, b := stringify(docs[i][field]), stringify(docs[j][field])
			if descending {
				return a > b
			}
			return a < b
		})
	}
	return docs
}

func equal(a, b any) bool {
	if a == b {
		return true
	}
	return stringify(a) == stringify(b) && a != nil && b != nil
}

func toFloat(v any) float64 {
	switch typed := v.(type) {
	case float64:
		return typed
	case float32:
		return float64(typed)
	case int:
		return float64(typed)
	case int32:
		return float64(typed)
	case int64:
		return float64(typed)
	default:
		return 0
	}
}

func stringify(v any) string {
	switch typed := v.(type) {
	case string:
		return typed
	case nil:
		return ""
	default:
		return strconv.FormatFloat(toFloat(typed), 'f', -1, 64)
	}
}

func cloneDoc(doc storage.Document) storage.Document {
	out := make(storage.Document, len(doc))
	for k, v := range doc {
		out[k] = v
	}
	return out
}
