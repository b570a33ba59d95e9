package moderation

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation marks a decision rejected locally; no request was sent.
	ErrValidation     = errors.New("validation failed")
	ErrReasonRequired = errors.New("reason is required")
	ErrUnknownReason  = errors.New("unknown reason")
	ErrNoCurrentAd    = errors.New("no ad under review")
	ErrAdMismatch     = errors.New("ad is not the one under review")
	ErrNoDraft        = errors.New("no draft is open")

	// ErrNetwork wraps any failure of the ads API. The queue does not move.
	ErrNetwork = errors.New("ads api request failed")

	ErrDecisionInFlight = errors.New("a decision is already in flight")
	ErrClosed           = errors.New("queue is closed")
	ErrAlreadyLoaded    = errors.New("queue is already loaded")
)

func validationError(err error) error {
	return fmt.Errorf("%w: %w", ErrValidation, err)
}

func networkError(err error) error {
	return fmt.Errorf("%w: %w", ErrNetwork, err)
}
