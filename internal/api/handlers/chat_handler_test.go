package handlers

import (
	"bytes"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/universererp/backend/internal/assistant"
	"github.com/universererp/backend/internal/storage"
	"github.com/universererp/backend/internal/storage/memory"
)

func newChatApp(store storage.Store) *fiber.App {
	h := NewChatHandler(assistant.New(store), nil, nil)
	app := fiber.New()
	app.Post("/api/chatbot/message", h.HandleMessage)
	app.Get("/api/chatbot/models", h.GetModels)
	return app
}

func postMessage(t *testing.T, app *fiber.App, payload string) map[string]any {
	t.Helper()
	req := httptest.NewRequest("POST", "/api/chatbot/message", bytes.NewBufferString(payload))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var out map[string]any
	decodeBody(t, resp.Body, &out)
	return out
}

func TestHandleMessageDataQuery(t *testing.T) {
	store := memory.NewStore()
	store.Seed("drivers", []storage.Document{
		{"name": "Ahmed", "status": "Active"},
		{"name": "Salim", "status": "Active"},
	})
	app := newChatApp(store)

	out := postMessage(t, app, `{"message":"How many drivers do we have?","conversation_id":"c1"}`)
	assert.Contains(t, out["response"], "Found 2 drivers")
	assert.Equal(t, "c1", out["conversation_id"])
	assert.NotEmpty(t, out["timestamp"])
}

func TestHandleMessageDefaultsConversationID(t *testing.T) {
	app := newChatApp(memory.NewStore())

	out := postMessage(t, app, `{"message":"hello"}`)
	assert.Equal(t, "default", out["conversation_id"])
	assert.NotEmpty(t, out["response"])
}

func TestHandleMessageRequiresMessage(t *testing.T) {
	app := newChatApp(memory.NewStore())

	req := httptest.NewRequest("POST", "/api/chatbot/message", bytes.NewBufferString(`{"conversation_id":"c1"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestGetModelsWithoutLLM(t *testing.T) {
	app := newChatApp(memory.NewStore())

	resp, err := app.Test(httptest.NewRequest("GET", "/api/chatbot/models", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var out map[string]any
	decodeBody(t, resp.Body, &out)
	assert.Equal(t, "disabled", out["llm_status"])
}
