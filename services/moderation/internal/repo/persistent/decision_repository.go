package persistent

import (
	"context"

	"ad-moderation/services/moderation/internal/entity"
	"ad-moderation/services/moderation/internal/model"

	"gorm.io/gorm"
)

type DecisionRepository interface {
	Create(ctx context.Context, decision *entity.Decision) error
	ListBySession(ctx context.Context, sessionID string) ([]*entity.Decision, error)
	ListByModerator(ctx context.Context, moderatorID string, limit, offset int) ([]*entity.Decision, error)
}

type decisionRepository struct {
	db *gorm.DB
}

func NewDecisionRepository(db *gorm.DB) DecisionRepository {
	return &decisionRepository{db: db}
}

func (r *decisionRepository) Create(ctx context.Context, decision *entity.Decision) error {
	decisionModel := ToDecisionModel(decision)
	if err := r.db.WithContext(ctx).Create(decisionModel).Error; err != nil {
		return err
	}
	*decision = *ToDecisionEntity(decisionModel)
	return nil
}

func (r *decisionRepository) ListBySession(ctx context.Context, sessionID string) ([]*entity.Decision, error) {
	var decisionModels []model.DecisionModel
	if err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("decided_at ASC").
		Find(&decisionModels).Error; err != nil {
		return nil, err
	}
	return toDecisionEntities(decisionModels), nil
}

func (r *decisionRepository) ListByModerator(ctx context.Context, moderatorID string, limit, offset int) ([]*entity.Decision, error) {
	var decisionModels []model.DecisionModel
	query := r.db.WithContext(ctx).
		Where("moderator_id = ?", moderatorID).
		Order("decided_at DESC")
	if limit > 0 {
		query = query.Limit(limit).Offset(offset)
	}
	if err := query.Find(&decisionModels).Error; err != nil {
		return nil, err
	}
	return toDecisionEntities(decisionModels), nil
}

func toDecisionEntities(models []model.DecisionModel) []*entity.Decision {
	decisions := make([]*entity.Decision, len(models))
	for i := range models {
		decisions[i] = ToDecisionEntity(&models[i])
	}
	return decisions
}
