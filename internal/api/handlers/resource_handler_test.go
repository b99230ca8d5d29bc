package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/universererp/backend/internal/storage"
	"github.com/universererp/backend/internal/storage/memory"
)

func newResourceApp(store storage.Store) *fiber.App {
	h := NewResourceHandler(store, "drivers", "driver")
	app := fiber.New()
	app.Get("/api/drivers", h.List)
	app.Post("/api/drivers", h.Create)
	app.Get("/api/drivers/:id", h.Get)
	app.Put("/api/drivers/:id", h.Update)
	app.Delete("/api/drivers/:id", h.Delete)
	return app
}

func decodeBody(t *testing.T, resp io.Reader, out any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(resp).Decode(out))
}

func TestResourceCreateAndGet(t *testing.T) {
	app := newResourceApp(memory.NewStore())

	body := bytes.NewBufferString(`{"name":"Ahmed","status":"Active"}`)
	req := httptest.NewRequest("POST", "/api/drivers", body)
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var created map[string]any
	decodeBody(t, resp.Body, &created)
	id, _ := created["id"].(string)
	require.NotEmpty(t, id)
	assert.NotEmpty(t, created["createdAt"])

	resp, err = app.Test(httptest.NewRequest("GET", "/api/drivers/"+id, nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var got map[string]any
	decodeBody(t, resp.Body, &got)
	assert.Equal(t, "Ahmed", got["name"])
}

func TestResourceListFiltersByStatus(t *testing.T) {
	store := memory.NewStore()
	store.Seed("drivers", []storage.Document{
		{"name": "Ahmed", "status": "Active"},
		{"name": "Ravi", "status": "Inactive"},
	})
	app := newResourceApp(store)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/drivers?status=Active", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var docs []map[string]any
	decodeBody(t, resp.Body, &docs)
	require.Len(t, docs, 1)
	assert.Equal(t, "Ahmed", docs[0]["name"])
}

func TestResourceListEmptyIsArray(t *testing.T) {
	app := newResourceApp(memory.NewStore())

	resp, err := app.Test(httptest.NewRequest("GET", "/api/drivers", nil))
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(bytes.TrimSpace(raw)))
}

func TestResourceUpdate(t *testing.T) {
	store := memory.NewStore()
	store.Seed("drivers", []storage.Document{{"_id": "d1", "name": "Ahmed", "status": "Active"}})
	app := newResourceApp(store)

	body := bytes.NewBufferString(`{"name":"Ahmed","status":"Inactive"}`)
	req := httptest.NewRequest("PUT", "/api/drivers/d1", body)
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	doc, err := store.Collection("drivers").FindOne(context.Background(), storage.Document{"_id": "d1"})
	require.NoError(t, err)
	assert.Equal(t, "Inactive", doc.GetString("status"))
}

func TestResourceNotFound(t *testing.T) {
	app := newResourceApp(memory.NewStore())

	resp, err := app.Test(httptest.NewRequest("GET", "/api/drivers/missing", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	var out map[string]any
	decodeBody(t, resp.Body, &out)
	assert.Equal(t, "Driver not found", out["error"])
}

func TestResourceDelete(t *testing.T) {
	store := memory.NewStore()
	store.Seed("drivers", []storage.Document{{"_id": "d1", "name": "Ahmed"}})
	app := newResourceApp(store)

	resp, err := app.Test(httptest.NewRequest("DELETE", "/api/drivers/d1", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("DELETE", "/api/drivers/d1", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
