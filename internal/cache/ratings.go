package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/rueidis"

	"peerlink_backend/internal/models"
)

const (
	// RatingsKeyPrefix identifies rating aggregate entries in Redis.
	RatingsKeyPrefix = "avg-ratings-"

	// RatingsTTL bounds how long a stale aggregate can survive after a
	// missed write-through.
	RatingsTTL = 24 * time.Hour
)

// RatingsCache stores per-user rating aggregates with a TTL. Implementations
// must distinguish "key absent" from "key present with a zero value": an
// all-zero aggregate is a valid cached result for a user with no reviews.
type RatingsCache interface {
	// Get returns the cached aggregate and whether the key was present.
	Get(ctx context.Context, userID string) (*models.RatingAggregate, bool, error)

	// Set overwrites the aggregate for the user with the given TTL.
	Set(ctx context.Context, userID string, agg *models.RatingAggregate, ttl time.Duration) error
}

// RedisRatingsCache implements RatingsCache on Redis via rueidis.
type RedisRatingsCache struct {
	client rueidis.Client
}

// NewRedisRatingsCache wraps an existing Redis client.
func NewRedisRatingsCache(client rueidis.Client) *RedisRatingsCache {
	return &RedisRatingsCache{client: client}
}

func ratingsKey(userID string) string {
	return RatingsKeyPrefix + userID
}

// Get looks up the aggregate by key presence, not value truthiness.
func (c *RedisRatingsCache) Get(ctx context.Context, userID string) (*models.RatingAggregate, bool, error) {
	raw, err := c.client.Do(ctx, c.client.B().Get().Key(ratingsKey(userID)).Build()).ToString()
	if err != nil {
		if rueidis.IsRedisNil(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to get rating aggregate for user %s: %w", userID, err)
	}

	var agg models.RatingAggregate
	if err := json.Unmarshal([]byte(raw), &agg); err != nil {
		return nil, false, fmt.Errorf("invalid rating aggregate payload for user %s: %w", userID, err)
	}

	return &agg, true, nil
}

// Set serializes and writes the aggregate, overwriting any existing entry.
func (c *RedisRatingsCache) Set(ctx context.Context, userID string, agg *models.RatingAggregate, ttl time.Duration) error {
	payload, err := json.Marshal(agg)
	if err != nil {
		return fmt.Errorf("failed to marshal rating aggregate for user %s: %w", userID, err)
	}

	err = c.client.Do(ctx,
		c.client.B().Set().Key(ratingsKey(userID)).Value(string(payload)).Ex(ttl).Build(),
	).Error()
	if err != nil {
		return fmt.Errorf("failed to cache rating aggregate for user %s: %w", userID, err)
	}

	return nil
}
