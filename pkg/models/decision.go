package models

import "time"

type DecisionKind string

const (
	DecisionApprove        DecisionKind = "approve"
	DecisionReject         DecisionKind = "reject"
	DecisionRequestChanges DecisionKind = "request_changes"
)

// DecisionFeedback is the body of reject and request-changes calls.
type DecisionFeedback struct {
	Reason  string `json:"reason"`
	Comment string `json:"comment"`
}

// DecisionEvent is published after the ads API accepted a decision.
type DecisionEvent struct {
	ID          string       `json:"id"`
	SessionID   string       `json:"session_id"`
	ModeratorID string       `json:"moderator_id"`
	AdID        int64        `json:"ad_id"`
	Kind        DecisionKind `json:"kind"`
	Reason      string       `json:"reason,omitempty"`
	Comment     string       `json:"comment,omitempty"`
	DecidedAt   time.Time    `json:"decided_at"`
}
