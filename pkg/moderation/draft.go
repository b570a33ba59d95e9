package moderation

import (
	"strings"

	"ad-moderation/pkg/models"
)

// Rejection reasons accepted by the ads backend.
const (
	ReasonProhibitedItem = "Запрещенный товар"
	ReasonWrongCategory  = "Неверная категория"
	ReasonOther          = "Другое"
)

func Reasons() []string {
	return []string{ReasonProhibitedItem, ReasonWrongCategory, ReasonOther}
}

func IsKnownReason(reason string) bool {
	for _, r := range Reasons() {
		if r == reason {
			return true
		}
	}
	return false
}

// Draft is the reason and comment being prepared for a reject or
// request-changes decision on the current ad.
type Draft struct {
	Reason  string `json:"reason"`
	Comment string `json:"comment"`
}

func (d Draft) Feedback() models.DecisionFeedback {
	return models.DecisionFeedback{
		Reason:  strings.TrimSpace(d.Reason),
		Comment: strings.TrimSpace(d.Comment),
	}
}

func (d Draft) validate(kind models.DecisionKind) error {
	reason := strings.TrimSpace(d.Reason)
	if reason == "" {
		if kind == models.DecisionReject {
			return validationError(ErrReasonRequired)
		}
		return nil
	}
	if !IsKnownReason(reason) {
		return validationError(ErrUnknownReason)
	}
	return nil
}
