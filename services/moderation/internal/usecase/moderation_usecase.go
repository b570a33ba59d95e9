package usecase

import (
	"context"
	"errors"
	"time"

	"ad-moderation/pkg/catalog"
	"ad-moderation/pkg/logger"
	"ad-moderation/pkg/models"
	"ad-moderation/pkg/moderation"
	"ad-moderation/services/moderation/internal/entity"
	"ad-moderation/services/moderation/internal/repo/persistent"

	"github.com/google/uuid"
)

// AdsAPI is the part of the ads backend a review session needs.
type AdsAPI interface {
	moderation.Lister
	moderation.Decider
}

type EventPublisher interface {
	PublishDecision(ctx context.Context, event models.DecisionEvent) error
}

type SessionView struct {
	ID          string            `json:"id"`
	ModeratorID string            `json:"moderatorId"`
	State       moderation.State  `json:"state"`
	Cursor      int               `json:"cursor"`
	Position    int               `json:"position"`
	Total       int               `json:"total"`
	Current     *catalog.Details  `json:"current,omitempty"`
	Draft       *moderation.Draft `json:"draft,omitempty"`
	InFlight    bool              `json:"inFlight"`
	Closed      bool              `json:"closed"`
	HasPrevious bool              `json:"hasPrevious"`
	HasNext     bool              `json:"hasNext"`
	StartedAt   time.Time         `json:"startedAt"`
}

type DecisionResult struct {
	DecisionID string              `json:"decisionId"`
	Kind       models.DecisionKind `json:"kind"`
	AdID       int64               `json:"adId"`
	Advanced   bool                `json:"advanced"`
	Session    *SessionView        `json:"session"`
}

type ModerationUseCase interface {
	StartSession(ctx context.Context, moderatorID string) (*SessionView, error)
	GetSession(ctx context.Context, sessionID, moderatorID string) (*SessionView, error)
	CloseSession(ctx context.Context, sessionID, moderatorID string) error
	Approve(ctx context.Context, sessionID, moderatorID string, adID int64) (*DecisionResult, error)
	Reject(ctx context.Context, sessionID, moderatorID string, adID int64, draft moderation.Draft) (*DecisionResult, error)
	RequestChanges(ctx context.Context, sessionID, moderatorID string, adID int64, draft moderation.Draft) (*DecisionResult, error)
	OpenDraft(ctx context.Context, sessionID, moderatorID string) (*SessionView, error)
	UpdateDraft(ctx context.Context, sessionID, moderatorID string, reason, comment *string) (*SessionView, error)
	CloseDraft(ctx context.Context, sessionID, moderatorID string) (*SessionView, error)
	MovePrevious(ctx context.Context, sessionID, moderatorID string) (*SessionView, error)
	MoveNext(ctx context.Context, sessionID, moderatorID string) (*SessionView, error)
	ListSessionDecisions(ctx context.Context, sessionID, moderatorID string) ([]*entity.Decision, error)
	ListModeratorDecisions(ctx context.Context, moderatorID string, limit, offset int) ([]*entity.Decision, error)
	Reasons() []string
}

type moderationUseCase struct {
	adsAPI       AdsAPI
	decisionRepo persistent.DecisionRepository
	publisher    EventPublisher
	fetchLimit   int
	sessions     *sessionRegistry
	logger       *logger.Logger
}

// NewModerationUseCase wires review sessions to the ads API. decisionRepo and
// publisher may be nil; decisions are then neither journaled nor published.
func NewModerationUseCase(
	adsAPI AdsAPI,
	decisionRepo persistent.DecisionRepository,
	publisher EventPublisher,
	fetchLimit int,
	logger *logger.Logger,
) ModerationUseCase {
	return &moderationUseCase{
		adsAPI:       adsAPI,
		decisionRepo: decisionRepo,
		publisher:    publisher,
		fetchLimit:   fetchLimit,
		sessions:     newSessionRegistry(),
		logger:       logger,
	}
}

// StartSession loads the pending ads. If the ads API fails the session is
// still created (in the empty state) and returned along with the error.
// The moderator's previous session is closed and stops accepting decisions.
func (uc *moderationUseCase) StartSession(ctx context.Context, moderatorID string) (*SessionView, error) {
	if closed, pruned := uc.sessions.supersede(moderatorID); closed+pruned > 0 {
		uc.logger.Info("Moderator %s: closed %d previous sessions, pruned %d", moderatorID, closed, pruned)
	}

	queue := moderation.NewQueue(uc.adsAPI)
	loadErr := queue.Load(ctx, uc.adsAPI, uc.fetchLimit)
	s := uc.sessions.create(moderatorID, queue)

	if loadErr != nil {
		uc.logger.Error("Failed to load pending ads for session %s: %v", s.id, loadErr)
		return uc.view(s), loadErr
	}

	uc.logger.Info("Moderator %s started session %s with %d pending ads", moderatorID, s.id, queue.Len())
	return uc.view(s), nil
}

func (uc *moderationUseCase) GetSession(ctx context.Context, sessionID, moderatorID string) (*SessionView, error) {
	s, err := uc.sessions.get(sessionID, moderatorID)
	if err != nil {
		return nil, err
	}
	return uc.view(s), nil
}

func (uc *moderationUseCase) CloseSession(ctx context.Context, sessionID, moderatorID string) error {
	s, err := uc.sessions.get(sessionID, moderatorID)
	if err != nil {
		return err
	}
	s.queue.Close()
	uc.logger.Info("Moderator %s closed session %s", moderatorID, sessionID)
	return nil
}

func (uc *moderationUseCase) Approve(ctx context.Context, sessionID, moderatorID string, adID int64) (*DecisionResult, error) {
	return uc.decide(ctx, sessionID, moderatorID, adID, func(q *moderation.Queue) (moderation.Outcome, error) {
		return q.Approve(ctx, adID)
	})
}

func (uc *moderationUseCase) Reject(ctx context.Context, sessionID, moderatorID string, adID int64, draft moderation.Draft) (*DecisionResult, error) {
	return uc.decide(ctx, sessionID, moderatorID, adID, func(q *moderation.Queue) (moderation.Outcome, error) {
		return q.Reject(ctx, adID, draft)
	})
}

func (uc *moderationUseCase) RequestChanges(ctx context.Context, sessionID, moderatorID string, adID int64, draft moderation.Draft) (*DecisionResult, error) {
	return uc.decide(ctx, sessionID, moderatorID, adID, func(q *moderation.Queue) (moderation.Outcome, error) {
		return q.RequestChanges(ctx, adID, draft)
	})
}

func (uc *moderationUseCase) decide(ctx context.Context, sessionID, moderatorID string, adID int64, submit func(*moderation.Queue) (moderation.Outcome, error)) (*DecisionResult, error) {
	s, err := uc.sessions.get(sessionID, moderatorID)
	if err != nil {
		return nil, err
	}

	var title string
	if ad, ok := s.queue.Current(); ok && ad.ID == adID {
		title = ad.Title
	}

	outcome, err := submit(s.queue)
	if err != nil {
		if errors.Is(err, moderation.ErrNetwork) {
			uc.logger.Error("Decision on ad %d in session %s failed: %v", adID, sessionID, err)
		}
		return nil, err
	}

	decision := &entity.Decision{
		ID:          uuid.New().String(),
		SessionID:   s.id,
		ModeratorID: s.moderatorID,
		AdID:        outcome.AdID,
		AdTitle:     title,
		Kind:        entity.DecisionKind(outcome.Kind),
		Reason:      outcome.Feedback.Reason,
		Comment:     outcome.Feedback.Comment,
		DecidedAt:   time.Now().UTC(),
	}
	uc.journal(ctx, decision)
	uc.publish(ctx, decision)

	if !outcome.Advanced {
		uc.logger.Warn("Decision on ad %d arrived after session %s moved on", adID, sessionID)
	}

	return &DecisionResult{
		DecisionID: decision.ID,
		Kind:       outcome.Kind,
		AdID:       outcome.AdID,
		Advanced:   outcome.Advanced,
		Session:    uc.view(s),
	}, nil
}

// journal and publish are best effort: the ads API has already accepted the decision.
func (uc *moderationUseCase) journal(ctx context.Context, decision *entity.Decision) {
	if uc.decisionRepo == nil {
		return
	}
	if err := uc.decisionRepo.Create(ctx, decision); err != nil {
		uc.logger.Error("Failed to journal decision %s on ad %d: %v", decision.ID, decision.AdID, err)
	}
}

func (uc *moderationUseCase) publish(ctx context.Context, decision *entity.Decision) {
	if uc.publisher == nil {
		return
	}
	event := models.DecisionEvent{
		ID:          decision.ID,
		SessionID:   decision.SessionID,
		ModeratorID: decision.ModeratorID,
		AdID:        decision.AdID,
		Kind:        models.DecisionKind(decision.Kind),
		Reason:      decision.Reason,
		Comment:     decision.Comment,
		DecidedAt:   decision.DecidedAt,
	}
	if err := uc.publisher.PublishDecision(ctx, event); err != nil {
		uc.logger.Error("Failed to publish decision %s: %v", decision.ID, err)
	}
}

func (uc *moderationUseCase) OpenDraft(ctx context.Context, sessionID, moderatorID string) (*SessionView, error) {
	return uc.withSession(sessionID, moderatorID, func(q *moderation.Queue) error {
		_, err := q.OpenDraft()
		return err
	})
}

func (uc *moderationUseCase) UpdateDraft(ctx context.Context, sessionID, moderatorID string, reason, comment *string) (*SessionView, error) {
	return uc.withSession(sessionID, moderatorID, func(q *moderation.Queue) error {
		if reason != nil {
			if _, err := q.SetDraftReason(*reason); err != nil {
				return err
			}
		}
		if comment != nil {
			if _, err := q.SetDraftComment(*comment); err != nil {
				return err
			}
		}
		return nil
	})
}

func (uc *moderationUseCase) CloseDraft(ctx context.Context, sessionID, moderatorID string) (*SessionView, error) {
	return uc.withSession(sessionID, moderatorID, func(q *moderation.Queue) error {
		q.CloseDraft()
		return nil
	})
}

func (uc *moderationUseCase) MovePrevious(ctx context.Context, sessionID, moderatorID string) (*SessionView, error) {
	return uc.withSession(sessionID, moderatorID, func(q *moderation.Queue) error {
		_, err := q.MovePrevious()
		return err
	})
}

func (uc *moderationUseCase) MoveNext(ctx context.Context, sessionID, moderatorID string) (*SessionView, error) {
	return uc.withSession(sessionID, moderatorID, func(q *moderation.Queue) error {
		_, err := q.MoveNext()
		return err
	})
}

func (uc *moderationUseCase) withSession(sessionID, moderatorID string, fn func(*moderation.Queue) error) (*SessionView, error) {
	s, err := uc.sessions.get(sessionID, moderatorID)
	if err != nil {
		return nil, err
	}
	if err := fn(s.queue); err != nil {
		return nil, err
	}
	return uc.view(s), nil
}

func (uc *moderationUseCase) ListSessionDecisions(ctx context.Context, sessionID, moderatorID string) ([]*entity.Decision, error) {
	if _, err := uc.sessions.get(sessionID, moderatorID); err != nil {
		return nil, err
	}
	if uc.decisionRepo == nil {
		return []*entity.Decision{}, nil
	}
	return uc.decisionRepo.ListBySession(ctx, sessionID)
}

func (uc *moderationUseCase) ListModeratorDecisions(ctx context.Context, moderatorID string, limit, offset int) ([]*entity.Decision, error) {
	if uc.decisionRepo == nil {
		return []*entity.Decision{}, nil
	}
	return uc.decisionRepo.ListByModerator(ctx, moderatorID, limit, offset)
}

func (uc *moderationUseCase) Reasons() []string {
	return moderation.Reasons()
}

func (uc *moderationUseCase) view(s *session) *SessionView {
	snap := s.queue.Snapshot()

	v := &SessionView{
		ID:          s.id,
		ModeratorID: s.moderatorID,
		State:       snap.State,
		Cursor:      snap.Cursor,
		Total:       snap.Total,
		Draft:       snap.Draft,
		InFlight:    snap.InFlight,
		Closed:      snap.Closed,
		StartedAt:   s.startedAt,
	}
	if snap.Current != nil {
		details := catalog.NewDetails(*snap.Current)
		v.Current = &details
	}

	switch snap.State {
	case moderation.StateReviewing:
		v.Position = snap.Cursor + 1
		v.HasPrevious = snap.Cursor > 0
		v.HasNext = snap.Cursor < snap.Total-1
	case moderation.StateExhausted:
		v.Position = snap.Total
		v.HasPrevious = snap.Total > 0
	}
	return v
}
