package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"ad-moderation/pkg/models"

	"github.com/redis/go-redis/v9"
)

const adsSnapshotKey = "catalog:ads:snapshot"

// AdsSnapshot keeps the last catalog fetch in Redis so every catalog
// request within the TTL works on the same list.
type AdsSnapshot struct {
	client *redis.Client
	ttl    time.Duration
}

func NewAdsSnapshot(client *redis.Client, ttl time.Duration) *AdsSnapshot {
	return &AdsSnapshot{client: client, ttl: ttl}
}

// Get returns ok=false on a cache miss.
func (s *AdsSnapshot) Get(ctx context.Context) ([]models.Ad, bool, error) {
	data, err := s.client.Get(ctx, adsSnapshotKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read ads snapshot: %w", err)
	}

	var ads []models.Ad
	if err := json.Unmarshal(data, &ads); err != nil {
		return nil, false, fmt.Errorf("failed to decode ads snapshot: %w", err)
	}
	return ads, true, nil
}

func (s *AdsSnapshot) Set(ctx context.Context, ads []models.Ad) error {
	data, err := json.Marshal(ads)
	if err != nil {
		return fmt.Errorf("failed to encode ads snapshot: %w", err)
	}
	if err := s.client.Set(ctx, adsSnapshotKey, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write ads snapshot: %w", err)
	}
	return nil
}

func (s *AdsSnapshot) Invalidate(ctx context.Context) error {
	return s.client.Del(ctx, adsSnapshotKey).Err()
}
