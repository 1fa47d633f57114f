package cache

import (
	"fmt"

	"github.com/redis/rueidis"

	"peerlink_backend/internal/config"
)

// NewRedisClient builds the shared Redis client from configuration.
func NewRedisClient(cfg *config.Config) (rueidis.Client, error) {
	client, err := rueidis.NewClient(rueidis.ClientOption{
		InitAddress:  []string{fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port)},
		Username:     cfg.Redis.Username,
		Password:     cfg.Redis.Password,
		SelectDB:     cfg.Redis.DB,
		ClientName:   "peerlink",
		DisableCache: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Redis client: %w", err)
	}
	return client, nil
}
