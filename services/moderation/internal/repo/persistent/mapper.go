package persistent

import (
	"ad-moderation/services/moderation/internal/entity"
	"ad-moderation/services/moderation/internal/model"
)

func ToDecisionEntity(m *model.DecisionModel) *entity.Decision {
	if m == nil {
		return nil
	}

	return &entity.Decision{
		ID:          m.ID,
		SessionID:   m.SessionID,
		ModeratorID: m.ModeratorID,
		AdID:        m.AdID,
		AdTitle:     m.AdTitle,
		Kind:        entity.DecisionKind(m.Kind),
		Reason:      m.Reason,
		Comment:     m.Comment,
		DecidedAt:   m.DecidedAt,
	}
}

func ToDecisionModel(e *entity.Decision) *model.DecisionModel {
	if e == nil {
		return nil
	}

	return &model.DecisionModel{
		ID:          e.ID,
		SessionID:   e.SessionID,
		ModeratorID: e.ModeratorID,
		AdID:        e.AdID,
		AdTitle:     e.AdTitle,
		Kind:        string(e.Kind),
		Reason:      e.Reason,
		Comment:     e.Comment,
		DecidedAt:   e.DecidedAt,
	}
}
