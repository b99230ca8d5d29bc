package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/universererp/backend/pkg/logger"
)

// historyLimit bounds how many exchanges are retained per conversation.
const historyLimit = 50

type Client struct {
	client     *redis.Client
	historyTTL time.Duration
	cacheTTL   time.Duration
}

// Exchange is one chat request/response pair kept in the per-
// conversation history list.
type Exchange struct {
	Message   string    `json:"message"`
	Response  string    `json:"response"`
	Timestamp time.Time `json:"timestamp"`
}

func NewClient(host string, port int, password string, db int, historyTTL, cacheTTL time.Duration) (*Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", host, port),
		Password: password,
		DB:       db,
	})

	ctx := context.Background()
	if _, err := client.Ping(ctx).Result(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	logger.Info("Redis client initialized", zap.String("addr", fmt.Sprintf("%s:%d", host, port)))

	return &Client{client: client, historyTTL: historyTTL, cacheTTL: cacheTTL}, nil
}

func (c *Client) Close() error {
	return c.client.Close()
}

func (c *Client) AppendExchange(ctx context.Context, conversationID string, exchange Exchange) error {
	data, err := json.Marshal(exchange)
	if err != nil {
		return fmt.Errorf("failed to marshal exchange: %w", err)
	}

	key := fmt.Sprintf("conversation:%s", conversationID)
	pipe := c.client.TxPipeline()
	pipe.RPush(ctx, key, data)
	pipe.LTrim(ctx, key, -historyLimit, -1)
	pipe.Expire(ctx, key, c.historyTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to append exchange: %w", err)
	}

	logger.Debug("Exchange recorded", zap.String("conversation_id", conversationID))
	return nil
}

func (c *Client) GetHistory(ctx context.Context, conversationID string) ([]Exchange, error) {
	key := fmt.Sprintf("conversation:%s", conversationID)
	raw, err := c.client.LRange(ctx, key, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read conversation history: %w", err)
	}

	exchanges := make([]Exchange, 0, len(raw))
	for _, entry := range raw {
		var exchange Exchange
		if err := json.Unmarshal([]byte(entry), &exchange); err != nil {
			logger.Warn("Skipping malformed history entry", zap.Error(err))
			continue
		}
		exchanges = append(exchanges, exchange)
	}
	return exchanges, nil
}

func (c *Client) SetChatResponse(ctx context.Context, messageHash, response string) error {
	key := fmt.Sprintf("chat:%s", messageHash)
	if err := c.client.Set(ctx, key, response, c.cacheTTL).Err(); err != nil {
		return fmt.Errorf("failed to cache chat response: %w", err)
	}
	logger.Debug("Chat response cached", zap.String("message_hash", messageHash))
	return nil
}

func (c *Client) GetChatResponse(ctx context.Context, messageHash string) (string, bool, error) {
	key := fmt.Sprintf("chat:%s", messageHash)
	response, err := c.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get cached chat response: %w", err)
	}
	logger.Debug("Chat cache hit", zap.String("message_hash", messageHash))
	return response, true, nil
}

func (c *Client) SetDashboard(ctx context.Context, name string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal dashboard payload: %w", err)
	}

	key := fmt.Sprintf("dashboard:%s", name)
	if err := c.client.Set(ctx, key, data, c.cacheTTL).Err(); err != nil {
		return fmt.Errorf("failed to cache dashboard: %w", err)
	}
	return nil
}

func (c *Client) GetDashboard(ctx context.Context, name string, payload interface{}) (bool, error) {
	key := fmt.Sprintf("dashboard:%s", name)
	data, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to get cached dashboard: %w", err)
	}

	if err := json.Unmarshal(data, payload); err != nil {
		return false, fmt.Errorf("failed to unmarshal dashboard payload: %w", err)
	}
	logger.Debug("Dashboard cache hit", zap.String("name", name))
	return true, nil
}
