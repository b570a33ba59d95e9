package persistent

import (
	"testing"
	"time"

	"ad-moderation/services/moderation/internal/entity"

	"github.com/stretchr/testify/assert"
)

func TestDecisionMapper(t *testing.T) {
	decidedAt := time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)
	decision := &entity.Decision{
		ID:          "0b6f1c4e-2a0e-4a3c-9a49-3f1f5b0b8a11",
		SessionID:   "5c3e7a3e-1d3b-4c39-8d1a-44f0b1a3f7a2",
		ModeratorID: "moderator-7",
		AdID:        42,
		AdTitle:     "Bike",
		Kind:        entity.DecisionReject,
		Reason:      "Другое",
		Comment:     "duplicate",
		DecidedAt:   decidedAt,
	}

	m := ToDecisionModel(decision)
	assert.Equal(t, "reject", m.Kind)
	assert.Equal(t, int64(42), m.AdID)
	assert.Equal(t, "moderation_decisions", m.TableName())

	assert.Equal(t, decision, ToDecisionEntity(m))
}

func TestDecisionMapper_Nil(t *testing.T) {
	assert.Nil(t, ToDecisionEntity(nil))
	assert.Nil(t, ToDecisionModel(nil))
}
