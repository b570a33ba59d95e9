package usecase

import (
	"context"
	"fmt"

	"ad-moderation/pkg/logger"
	"ad-moderation/pkg/models"
)

type SnapshotInvalidator interface {
	Invalidate(ctx context.Context) error
}

// DecisionListener drops the cached ad snapshot whenever a moderator decides
// on an ad, so the catalog shows the new status before the TTL runs out.
type DecisionListener struct {
	cache  SnapshotInvalidator
	logger *logger.Logger
}

func NewDecisionListener(cache SnapshotInvalidator, logger *logger.Logger) *DecisionListener {
	return &DecisionListener{cache: cache, logger: logger}
}

func (l *DecisionListener) HandleDecision(ctx context.Context, event models.DecisionEvent) error {
	if err := l.cache.Invalidate(ctx); err != nil {
		return fmt.Errorf("failed to invalidate catalog snapshot: %w", err)
	}
	l.logger.Info("Catalog snapshot invalidated after %s on ad %d", event.Kind, event.AdID)
	return nil
}
