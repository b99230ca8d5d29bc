package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/universererp/backend/internal/assistant"
	"github.com/universererp/backend/internal/cache/redis"
	"github.com/universererp/backend/internal/llm"
	"github.com/universererp/backend/internal/metrics"
	"github.com/universererp/backend/pkg/logger"
	"github.com/universererp/backend/pkg/utils"
)

type ChatHandler struct {
	assistant *assistant.Assistant
	llmClient *llm.Client
	cache     *redis.Client
}

// NewChatHandler wires the chat endpoints. llmClient and cache may be
// nil; the handler degrades to the rule-based assistant alone.
func NewChatHandler(asst *assistant.Assistant, llmClient *llm.Client, cache *redis.Client) *ChatHandler {
	return &ChatHandler{
		assistant: asst,
		llmClient: llmClient,
		cache:     cache,
	}
}

func (h *ChatHandler) HandleMessage(c *fiber.Ctx) error {
	start := time.Now()
	defer func() {
		metrics.ChatDuration.WithLabelValues(c.Path()).Observe(time.Since(start).Seconds())
	}()

	var req struct {
		Message        string `json:"message"`
		ConversationID string `json:"conversation_id"`
	}

	if body, ok := c.Locals("sanitized_body").(map[string]interface{}); ok {
		req.Message, _ = body["message"].(string)
		req.ConversationID, _ = body["conversation_id"].(string)
	} else if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse chat request body", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if req.Message == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Message is required",
		})
	}
	if req.ConversationID == "" {
		req.ConversationID = "default"
	}

	response, source := h.respond(c, req.Message)
	metrics.ChatTotal.WithLabelValues(source).Inc()

	if h.cache != nil {
		err := h.cache.AppendExchange(c.Context(), req.ConversationID, redis.Exchange{
			Message:   req.Message,
			Response:  response,
			Timestamp: time.Now().UTC(),
		})
		if err != nil {
			logger.Warn("Failed to record conversation history", zap.Error(err))
		}
	}

	return c.JSON(fiber.Map{
		"response":        response,
		"conversation_id": req.ConversationID,
		"timestamp":       time.Now().UTC(),
	})
}

// respond tries the language model first and falls back to the
// rule-based assistant when the model is unavailable or errors out.
func (h *ChatHandler) respond(c *fiber.Ctx, message string) (string, string) {
	if h.llmClient == nil {
		return h.assistant.Respond(c.Context(), message), "assistant"
	}

	hash := utils.HashString(message)
	if h.cache != nil {
		if cached, ok, err := h.cache.GetChatResponse(c.Context(), hash); err == nil && ok {
			return cached, "cache"
		}
	}

	response, err := h.llmClient.Complete(c.Context(), message)
	if err != nil {
		logger.Warn("LLM unavailable, using rule-based assistant", zap.Error(err))
		metrics.LLMRequestsTotal.WithLabelValues("error").Inc()
		return h.assistant.Respond(c.Context(), message), "assistant"
	}
	metrics.LLMRequestsTotal.WithLabelValues("success").Inc()

	if h.cache != nil {
		if err := h.cache.SetChatResponse(c.Context(), hash, response); err != nil {
			logger.Warn("Failed to cache chat response", zap.Error(err))
		}
	}
	return response, "llm"
}

func (h *ChatHandler) GetHistory(c *fiber.Ctx) error {
	conversationID := c.Params("conversation_id", "default")

	if h.cache == nil {
		return c.JSON(fiber.Map{
			"conversation_id": conversationID,
			"history":         []redis.Exchange{},
		})
	}

	history, err := h.cache.GetHistory(c.Context(), conversationID)
	if err != nil {
		logger.Error("Failed to load conversation history", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load conversation history",
		})
	}

	return c.JSON(fiber.Map{
		"conversation_id": conversationID,
		"history":         history,
	})
}

func (h *ChatHandler) GetModels(c *fiber.Ctx) error {
	if h.llmClient == nil {
		return c.JSON(fiber.Map{
			"models":     []string{},
			"llm_status": "disabled",
		})
	}

	models, err := h.llmClient.ListModels(c.Context())
	if err != nil {
		return c.JSON(fiber.Map{
			"models":        []string{},
			"default_model": h.llmClient.Model(),
			"llm_status":    "disconnected",
			"error":         "Unable to connect to language model server",
		})
	}

	return c.JSON(fiber.Map{
		"models":        models,
		"default_model": h.llmClient.Model(),
		"llm_status":    "connected",
	})
}

func (h *ChatHandler) TestConnection(c *fiber.Ctx) error {
	if h.llmClient == nil {
		return c.JSON(fiber.Map{
			"status":  "disabled",
			"message": "Language model integration is disabled",
		})
	}

	if err := h.llmClient.Ping(c.Context()); err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status":  "disconnected",
			"message": "Unable to connect to language model server",
		})
	}

	return c.JSON(fiber.Map{
		"status":  "connected",
		"message": "Successfully connected to language model server",
		"model":   h.llmClient.Model(),
	})
}
