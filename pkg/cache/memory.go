package cache

import (
	"context"
	"sync"
	"time"

	"ad-moderation/pkg/models"
)

// MemorySnapshot is the in-process stand-in for AdsSnapshot when Redis is
// not configured. Entries expire after ttl.
type MemorySnapshot struct {
	mu        sync.RWMutex
	ads       []models.Ad
	expiresAt time.Time
	ttl       time.Duration
	now       func() time.Time
}

func NewMemorySnapshot(ttl time.Duration) *MemorySnapshot {
	return &MemorySnapshot{ttl: ttl, now: time.Now}
}

func (s *MemorySnapshot) Get(ctx context.Context) ([]models.Ad, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.ads == nil || !s.now().Before(s.expiresAt) {
		return nil, false, nil
	}
	return append([]models.Ad{}, s.ads...), true, nil
}

func (s *MemorySnapshot) Set(ctx context.Context, ads []models.Ad) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ads = append([]models.Ad{}, ads...)
	s.expiresAt = s.now().Add(s.ttl)
	return nil
}

func (s *MemorySnapshot) Invalidate(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ads = nil
	return nil
}
