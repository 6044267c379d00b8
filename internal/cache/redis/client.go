package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/webotyou/backend/internal/storage/models"
	"github.com/webotyou/backend/pkg/logger"
	"github.com/webotyou/backend/pkg/utils"
)

// Client caches analyzed profiles by URL hash so a multi-instance deploy
// shares the one-hour freshness window.
type Client struct {
	client *redis.Client
	ttl    time.Duration
}

func NewClient(host string, port int, password string, db int, ttl time.Duration) (*Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", host, port),
		Password: password,
		DB:       db,
	})

	ctx := context.Background()
	_, err := client.Ping(ctx).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	logger.Info("Redis profile cache initialized", zap.String("addr", fmt.Sprintf("%s:%d", host, port)))

	return &Client{client: client, ttl: ttl}, nil
}

func (c *Client) Close() error {
	return c.client.Close()
}

func profileKey(url string) string {
	return fmt.Sprintf("profile:%s", utils.HashString(url))
}

func (c *Client) SetProfile(ctx context.Context, url string, profile *models.BusinessProfile) error {
	data, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("failed to marshal profile: %w", err)
	}

	err = c.client.Set(ctx, profileKey(url), data, c.ttl).Err()
	if err != nil {
		return fmt.Errorf("failed to set profile cache: %w", err)
	}

	logger.Debug("Profile cached", zap.String("url", url), zap.Duration("ttl", c.ttl))
	return nil
}

// GetProfile returns the cached profile for a URL, or (nil, false, nil) on a
// miss.
func (c *Client) GetProfile(ctx context.Context, url string) (*models.BusinessProfile, bool, error) {
	data, err := c.client.Get(ctx, profileKey(url)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get profile cache: %w", err)
	}

	var profile models.BusinessProfile
	if err := json.Unmarshal(data, &profile); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal profile: %w", err)
	}

	logger.Debug("Profile cache hit", zap.String("url", url))
	return &profile, true, nil
}
