package entity

import "time"

type DecisionKind string

const (
	DecisionApprove        DecisionKind = "approve"
	DecisionReject         DecisionKind = "reject"
	DecisionRequestChanges DecisionKind = "request_changes"
)

// Decision is one moderation decision accepted by the ads API.
type Decision struct {
	ID          string       `json:"id"`
	SessionID   string       `json:"session_id"`
	ModeratorID string       `json:"moderator_id"`
	AdID        int64        `json:"ad_id"`
	AdTitle     string       `json:"ad_title"`
	Kind        DecisionKind `json:"kind"`
	Reason      string       `json:"reason,omitempty"`
	Comment     string       `json:"comment,omitempty"`
	DecidedAt   time.Time    `json:"decided_at"`
}
