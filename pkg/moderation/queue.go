package moderation

import (
	"context"
	"fmt"
	"sync"

	"ad-moderation/pkg/models"
)

type State string

const (
	StateLoading   State = "loading"
	StateEmpty     State = "empty"
	StateReviewing State = "reviewing"
	StateExhausted State = "exhausted"
)

var transitions = map[State]map[State]struct{}{
	StateLoading:   {StateEmpty: {}, StateReviewing: {}},
	StateReviewing: {StateReviewing: {}, StateExhausted: {}},
	StateExhausted: {StateReviewing: {}},
}

func canTransition(from, to State) bool {
	next, ok := transitions[from]
	if !ok {
		return false
	}
	_, ok = next[to]
	return ok
}

// Lister loads the ads to review.
type Lister interface {
	ListAds(ctx context.Context, filter models.ListFilter) ([]models.Ad, error)
}

// Decider submits decisions to the ads API.
type Decider interface {
	ApproveAd(ctx context.Context, id int64) error
	RejectAd(ctx context.Context, id int64, feedback models.DecisionFeedback) error
	RequestChanges(ctx context.Context, id int64, feedback models.DecisionFeedback) error
}

// Outcome describes a decision the ads API accepted.
// Advanced is false when the reviewer navigated away or closed the queue
// before the response arrived; the cursor is then left where it is.
type Outcome struct {
	Kind     models.DecisionKind     `json:"kind"`
	AdID     int64                   `json:"adId"`
	Feedback models.DecisionFeedback `json:"feedback"`
	Advanced bool                    `json:"advanced"`
	State    State                   `json:"state"`
	Cursor   int                     `json:"cursor"`
}

// Snapshot is a consistent copy of the queue for rendering.
type Snapshot struct {
	State    State      `json:"state"`
	Cursor   int        `json:"cursor"`
	Total    int        `json:"total"`
	Current  *models.Ad `json:"current,omitempty"`
	Draft    *Draft     `json:"draft,omitempty"`
	InFlight bool       `json:"inFlight"`
	Closed   bool       `json:"closed"`
}

// Queue walks a reviewer through the pending ads loaded once at start.
// The ad list is not refreshed after decisions.
//
// The mutex is never held across a call to the ads API. epoch changes on
// every navigation and on Close, so a response that comes back after the
// reviewer moved on is recognised and does not advance the cursor.
type Queue struct {
	mu       sync.Mutex
	decider  Decider
	state    State
	ads      []models.Ad
	cursor   int
	draft    *Draft
	inFlight bool
	loading  bool
	epoch    uint64
	closed   bool
}

func NewQueue(decider Decider) *Queue {
	return &Queue{
		decider: decider,
		state:   StateLoading,
	}
}

// Load fetches pending ads. It can run once; on failure the queue ends up
// Empty and the error is returned.
func (q *Queue) Load(ctx context.Context, lister Lister, limit int) error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return ErrClosed
	}
	if q.state != StateLoading || q.loading {
		q.mu.Unlock()
		return ErrAlreadyLoaded
	}
	q.loading = true
	q.mu.Unlock()

	ads, err := lister.ListAds(ctx, models.ListFilter{
		Status: models.StatusPending,
		Page:   1,
		Limit:  limit,
	})

	q.mu.Lock()
	defer q.mu.Unlock()
	q.loading = false

	if q.closed {
		return ErrClosed
	}
	if err != nil {
		q.state = StateEmpty
		return networkError(err)
	}
	if len(ads) == 0 {
		q.state = StateEmpty
		return nil
	}

	q.ads = ads
	q.cursor = 0
	q.state = StateReviewing
	return nil
}

func (q *Queue) Approve(ctx context.Context, adID int64) (Outcome, error) {
	return q.decide(ctx, models.DecisionApprove, adID, Draft{}, func(ctx context.Context) error {
		return q.decider.ApproveAd(ctx, adID)
	})
}

// Reject needs a reason from Reasons.
func (q *Queue) Reject(ctx context.Context, adID int64, draft Draft) (Outcome, error) {
	return q.decide(ctx, models.DecisionReject, adID, draft, func(ctx context.Context) error {
		return q.decider.RejectAd(ctx, adID, draft.Feedback())
	})
}

// RequestChanges accepts an empty reason, but a non-empty one must be known.
func (q *Queue) RequestChanges(ctx context.Context, adID int64, draft Draft) (Outcome, error) {
	return q.decide(ctx, models.DecisionRequestChanges, adID, draft, func(ctx context.Context) error {
		return q.decider.RequestChanges(ctx, adID, draft.Feedback())
	})
}

func (q *Queue) decide(ctx context.Context, kind models.DecisionKind, adID int64, draft Draft, call func(context.Context) error) (Outcome, error) {
	q.mu.Lock()
	if err := q.checkDecisionLocked(kind, adID, draft); err != nil {
		q.mu.Unlock()
		return Outcome{}, err
	}
	q.inFlight = true
	epoch := q.epoch
	q.mu.Unlock()

	err := call(ctx)

	q.mu.Lock()
	defer q.mu.Unlock()
	q.inFlight = false

	stale := q.closed || epoch != q.epoch
	if err != nil {
		// edits made while the request was out win over the submitted draft
		if kind != models.DecisionApprove && !stale && q.draft == nil {
			kept := draft
			q.draft = &kept
		}
		return Outcome{}, networkError(err)
	}

	outcome := Outcome{Kind: kind, AdID: adID}
	if kind != models.DecisionApprove {
		outcome.Feedback = draft.Feedback()
	}
	if !stale {
		q.draft = nil
		q.advanceLocked()
		outcome.Advanced = true
	}
	outcome.State = q.state
	outcome.Cursor = q.cursor
	return outcome, nil
}

func (q *Queue) checkDecisionLocked(kind models.DecisionKind, adID int64, draft Draft) error {
	if q.closed {
		return ErrClosed
	}
	if q.inFlight {
		return ErrDecisionInFlight
	}
	ad, ok := q.currentLocked()
	if !ok {
		return validationError(ErrNoCurrentAd)
	}
	if ad.ID != adID {
		return validationError(fmt.Errorf("%w: want %d, got %d", ErrAdMismatch, ad.ID, adID))
	}
	if kind == models.DecisionApprove {
		return nil
	}
	return draft.validate(kind)
}

func (q *Queue) advanceLocked() {
	if q.cursor < len(q.ads)-1 {
		q.cursor++
		return
	}
	if canTransition(q.state, StateExhausted) {
		q.cursor = len(q.ads)
		q.state = StateExhausted
	}
}

// MovePrevious steps back one ad. From Exhausted it returns to the last ad.
func (q *Queue) MovePrevious() (bool, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return false, ErrClosed
	}
	switch q.state {
	case StateExhausted:
		q.cursor = len(q.ads) - 1
		q.state = StateReviewing
	case StateReviewing:
		if q.cursor == 0 {
			return false, nil
		}
		q.cursor--
	default:
		return false, nil
	}
	q.movedLocked()
	return true, nil
}

// MoveNext steps forward one ad. At the last ad it does nothing; only a
// decision leads to Exhausted.
func (q *Queue) MoveNext() (bool, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return false, ErrClosed
	}
	if q.state != StateReviewing || q.cursor >= len(q.ads)-1 {
		return false, nil
	}
	q.cursor++
	q.movedLocked()
	return true, nil
}

func (q *Queue) movedLocked() {
	q.epoch++
	q.draft = nil
}

// Close detaches the reviewer. Responses still in flight are ignored.
func (q *Queue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.closed = true
	q.epoch++
	q.draft = nil
}

func (q *Queue) OpenDraft() (Draft, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return Draft{}, ErrClosed
	}
	if _, ok := q.currentLocked(); !ok {
		return Draft{}, validationError(ErrNoCurrentAd)
	}
	if q.draft == nil {
		q.draft = &Draft{}
	}
	return *q.draft, nil
}

func (q *Queue) CloseDraft() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.draft = nil
}

func (q *Queue) SetDraftReason(reason string) (Draft, error) {
	return q.editDraft(func(d *Draft) { d.Reason = reason })
}

func (q *Queue) SetDraftComment(comment string) (Draft, error) {
	return q.editDraft(func(d *Draft) { d.Comment = comment })
}

func (q *Queue) editDraft(edit func(*Draft)) (Draft, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return Draft{}, ErrClosed
	}
	if q.draft == nil {
		return Draft{}, validationError(ErrNoDraft)
	}
	edit(q.draft)
	return *q.draft, nil
}

func (q *Queue) State() State {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.state
}

func (q *Queue) Cursor() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.cursor
}

func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.ads)
}

// Current returns the ad under review, if any.
func (q *Queue) Current() (models.Ad, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.currentLocked()
}

func (q *Queue) currentLocked() (models.Ad, bool) {
	if q.state != StateReviewing || q.cursor < 0 || q.cursor >= len(q.ads) {
		return models.Ad{}, false
	}
	return q.ads[q.cursor], true
}

func (q *Queue) Snapshot() Snapshot {
	q.mu.Lock()
	defer q.mu.Unlock()

	snap := Snapshot{
		State:    q.state,
		Cursor:   q.cursor,
		Total:    len(q.ads),
		InFlight: q.inFlight,
		Closed:   q.closed,
	}
	if ad, ok := q.currentLocked(); ok {
		snap.Current = &ad
	}
	if q.draft != nil {
		d := *q.draft
		snap.Draft = &d
	}
	return snap
}
