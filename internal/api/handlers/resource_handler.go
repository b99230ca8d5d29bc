package handlers

import (
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/universererp/backend/internal/metrics"
	"github.com/universererp/backend/internal/storage"
	"github.com/universererp/backend/pkg/logger"
)

// ResourceHandler serves the CRUD endpoints shared by every collection
// backed resource (drivers, vehicles, invoices and so on).
type ResourceHandler struct {
	store      storage.Store
	collection string
	label      string
}

func NewResourceHandler(store storage.Store, collection, label string) *ResourceHandler {
	return &ResourceHandler{
		store:      store,
		collection: collection,
		label:      label,
	}
}

func (h *ResourceHandler) List(c *fiber.Ctx) error {
	filter := storage.Document{}
	if status := c.Query("status"); status != "" {
		filter["status"] = status
	}

	docs, err := h.store.Collection(h.collection).Find(c.Context(), filter)
	if err != nil {
		metrics.StoreRequestsTotal.WithLabelValues(h.collection, "list", "error").Inc()
		logger.Error("Failed to list resources",
			zap.String("collection", h.collection),
			zap.Error(err),
		)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": fmt.Sprintf("Failed to load %s", h.label),
		})
	}
	metrics.StoreRequestsTotal.WithLabelValues(h.collection, "list", "success").Inc()

	if docs == nil {
		docs = []storage.Document{}
	}
	for _, doc := range docs {
		doc["id"] = doc.ID()
	}
	return c.JSON(docs)
}

func (h *ResourceHandler) Create(c *fiber.Ctx) error {
	var doc storage.Document
	if err := c.BodyParser(&doc); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	now := time.Now().UTC()
	doc["createdAt"] = now
	doc["updatedAt"] = now

	id, err := h.store.Collection(h.collection).InsertOne(c.Context(), doc)
	if err != nil {
		metrics.StoreRequestsTotal.WithLabelValues(h.collection, "create", "error").Inc()
		logger.Error("Failed to create resource",
			zap.String("collection", h.collection),
			zap.Error(err),
		)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": fmt.Sprintf("Failed to create %s", h.label),
		})
	}
	metrics.StoreRequestsTotal.WithLabelValues(h.collection, "create", "success").Inc()

	doc["_id"] = id
	doc["id"] = id
	return c.Status(fiber.StatusCreated).JSON(doc)
}

func (h *ResourceHandler) Get(c *fiber.Ctx) error {
	id := c.Params("id")

	doc, err := h.store.Collection(h.collection).FindOne(c.Context(), storage.Document{"_id": id})
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return h.notFound(c)
		}
		metrics.StoreRequestsTotal.WithLabelValues(h.collection, "get", "error").Inc()
		logger.Error("Failed to load resource",
			zap.String("collection", h.collection),
			zap.String("id", id),
			zap.Error(err),
		)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": fmt.Sprintf("Failed to load %s", h.label),
		})
	}
	metrics.StoreRequestsTotal.WithLabelValues(h.collection, "get", "success").Inc()

	doc["id"] = doc.ID()
	return c.JSON(doc)
}

func (h *ResourceHandler) Update(c *fiber.Ctx) error {
	id := c.Params("id")

	var doc storage.Document
	if err := c.BodyParser(&doc); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	doc["updatedAt"] = time.Now().UTC()

	matched, err := h.store.Collection(h.collection).ReplaceOne(c.Context(), storage.Document{"_id": id}, doc)
	if err != nil {
		metrics.StoreRequestsTotal.WithLabelValues(h.collection, "update", "error").Inc()
		logger.Error("Failed to update resource",
			zap.String("collection", h.collection),
			zap.String("id", id),
			zap.Error(err),
		)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": fmt.Sprintf("Failed to update %s", h.label),
		})
	}
	if matched == 0 {
		return h.notFound(c)
	}
	metrics.StoreRequestsTotal.WithLabelValues(h.collection, "update", "success").Inc()

	doc["_id"] = id
	doc["id"] = id
	return c.JSON(doc)
}

func (h *ResourceHandler) Delete(c *fiber.Ctx) error {
	id := c.Params("id")

	deleted, err := h.store.Collection(h.collection).DeleteOne(c.Context(), storage.Document{"_id": id})
	if err != nil {
		metrics.StoreRequestsTotal.WithLabelValues(h.collection, "delete", "error").Inc()
		logger.Error("Failed to delete resource",
			zap.String("collection", h.collection),
			zap.String("id", id),
			zap.Error(err),
		)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": fmt.Sprintf("Failed to delete %s", h.label),
		})
	}
	if deleted == 0 {
		return h.notFound(c)
	}
	metrics.StoreRequestsTotal.WithLabelValues(h.collection, "delete", "success").Inc()

	return c.JSON(fiber.Map{
		"message": fmt.Sprintf("%s deleted", titleWord(h.label)),
	})
}

func (h *ResourceHandler) notFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
		"error": fmt.Sprintf("%s not found", titleWord(h.label)),
	})
}

func titleWord(s string) string {
	if s == "" || s[0] < 'a' || s[0] > 'z' {
		return s
	}
	return string(s[0]-'a'+'A') + s[1:]
}
