package moderation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"ad-moderation/pkg/models"
)

func TestReasons(t *testing.T) {
	assert.Equal(t, []string{"Запрещенный товар", "Неверная категория", "Другое"}, Reasons())
	assert.True(t, IsKnownReason(ReasonOther))
	assert.False(t, IsKnownReason("другое"))
}

func TestDraft_Validate(t *testing.T) {
	cases := []struct {
		name  string
		kind  models.DecisionKind
		draft Draft
		err   error
	}{
		{name: "reject without reason", kind: models.DecisionReject, draft: Draft{}, err: ErrReasonRequired},
		{name: "reject blank reason", kind: models.DecisionReject, draft: Draft{Reason: "  "}, err: ErrReasonRequired},
		{name: "reject unknown reason", kind: models.DecisionReject, draft: Draft{Reason: "spam"}, err: ErrUnknownReason},
		{name: "reject known reason", kind: models.DecisionReject, draft: Draft{Reason: ReasonWrongCategory}},
		{name: "changes without reason", kind: models.DecisionRequestChanges, draft: Draft{Comment: "more photos"}},
		{name: "changes unknown reason", kind: models.DecisionRequestChanges, draft: Draft{Reason: "spam"}, err: ErrUnknownReason},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.draft.validate(tc.kind)
			if tc.err == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tc.err)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}
