package usecase

import (
	"context"
	"errors"
	"testing"

	"ad-moderation/pkg/logger"
	"ad-moderation/pkg/models"
	"ad-moderation/pkg/moderation"
	"ad-moderation/services/moderation/internal/entity"
	"ad-moderation/services/moderation/internal/repo/persistent"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockAdsAPI struct {
	mock.Mock
}

func (m *MockAdsAPI) ListAds(ctx context.Context, filter models.ListFilter) ([]models.Ad, error) {
	args := m.Called(filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Ad), args.Error(1)
}

func (m *MockAdsAPI) ApproveAd(ctx context.Context, id int64) error {
	return m.Called(id).Error(0)
}

func (m *MockAdsAPI) RejectAd(ctx context.Context, id int64, feedback models.DecisionFeedback) error {
	return m.Called(id, feedback).Error(0)
}

func (m *MockAdsAPI) RequestChanges(ctx context.Context, id int64, feedback models.DecisionFeedback) error {
	return m.Called(id, feedback).Error(0)
}

type MockDecisionRepository struct {
	mock.Mock
}

func (m *MockDecisionRepository) Create(ctx context.Context, decision *entity.Decision) error {
	return m.Called(decision).Error(0)
}

func (m *MockDecisionRepository) ListBySession(ctx context.Context, sessionID string) ([]*entity.Decision, error) {
	args := m.Called(sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Decision), args.Error(1)
}

func (m *MockDecisionRepository) ListByModerator(ctx context.Context, moderatorID string, limit, offset int) ([]*entity.Decision, error) {
	args := m.Called(moderatorID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Decision), args.Error(1)
}

type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) PublishDecision(ctx context.Context, event models.DecisionEvent) error {
	return m.Called(event).Error(0)
}

var (
	_ AdsAPI                        = (*MockAdsAPI)(nil)
	_ persistent.DecisionRepository = (*MockDecisionRepository)(nil)
	_ EventPublisher                = (*MockEventPublisher)(nil)
)

const moderatorID = "moderator-1"

var pendingFetch = models.ListFilter{Status: models.StatusPending, Page: 1, Limit: 50}

func pendingAds() []models.Ad {
	return []models.Ad{
		{ID: 10, Title: "Bike", Price: 150, Category: models.CategoryTransport, Status: models.StatusPending, Priority: models.PriorityNormal, CreatedAt: "2024-03-01T10:00:00Z"},
		{ID: 11, Title: "Sofa", Price: 80, Category: models.CategoryServices, Status: models.StatusPending, Priority: models.PriorityUrgent, CreatedAt: "2024-03-02T10:00:00Z"},
	}
}

func newTestUseCase(api *MockAdsAPI, repo persistent.DecisionRepository, publisher EventPublisher) ModerationUseCase {
	return NewModerationUseCase(api, repo, publisher, 50, logger.New())
}

func TestStartSession_Success(t *testing.T) {
	api := new(MockAdsAPI)
	api.On("ListAds", pendingFetch).Return(pendingAds(), nil)
	uc := newTestUseCase(api, nil, nil)

	view, err := uc.StartSession(context.Background(), moderatorID)

	require.NoError(t, err)
	assert.NotEmpty(t, view.ID)
	assert.Equal(t, moderatorID, view.ModeratorID)
	assert.Equal(t, moderation.StateReviewing, view.State)
	assert.Equal(t, 1, view.Position)
	assert.Equal(t, 2, view.Total)
	assert.False(t, view.HasPrevious)
	assert.True(t, view.HasNext)
	require.NotNil(t, view.Current)
	assert.Equal(t, int64(10), view.Current.ID)
	api.AssertExpectations(t)
}

func TestStartSession_LoadFailureKeepsEmptySession(t *testing.T) {
	api := new(MockAdsAPI)
	api.On("ListAds", pendingFetch).Return(nil, errors.New("connection refused"))
	uc := newTestUseCase(api, nil, nil)

	view, err := uc.StartSession(context.Background(), moderatorID)

	assert.ErrorIs(t, err, moderation.ErrNetwork)
	require.NotNil(t, view)
	assert.Equal(t, moderation.StateEmpty, view.State)
	assert.Nil(t, view.Current)

	got, err := uc.GetSession(context.Background(), view.ID, moderatorID)
	require.NoError(t, err)
	assert.Equal(t, moderation.StateEmpty, got.State)
}

func TestGetSession_OtherModeratorGetsNotFound(t *testing.T) {
	api := new(MockAdsAPI)
	api.On("ListAds", pendingFetch).Return(pendingAds(), nil)
	uc := newTestUseCase(api, nil, nil)

	view, err := uc.StartSession(context.Background(), moderatorID)
	require.NoError(t, err)

	_, err = uc.GetSession(context.Background(), view.ID, "someone-else")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	_, err = uc.GetSession(context.Background(), "missing", moderatorID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestApprove_JournalsAndPublishes(t *testing.T) {
	api := new(MockAdsAPI)
	repo := new(MockDecisionRepository)
	publisher := new(MockEventPublisher)
	api.On("ListAds", pendingFetch).Return(pendingAds(), nil)
	api.On("ApproveAd", int64(10)).Return(nil)
	repo.On("Create", mock.MatchedBy(func(d *entity.Decision) bool {
		return d.AdID == 10 && d.Kind == entity.DecisionApprove && d.AdTitle == "Bike" && d.ModeratorID == moderatorID
	})).Return(nil)
	publisher.On("PublishDecision", mock.MatchedBy(func(e models.DecisionEvent) bool {
		return e.AdID == 10 && e.Kind == models.DecisionApprove
	})).Return(nil)
	uc := newTestUseCase(api, repo, publisher)

	view, err := uc.StartSession(context.Background(), moderatorID)
	require.NoError(t, err)

	result, err := uc.Approve(context.Background(), view.ID, moderatorID, 10)

	require.NoError(t, err)
	assert.NotEmpty(t, result.DecisionID)
	assert.Equal(t, models.DecisionApprove, result.Kind)
	assert.True(t, result.Advanced)
	assert.Equal(t, 2, result.Session.Position)
	assert.True(t, result.Session.HasPrevious)
	assert.False(t, result.Session.HasNext)
	require.NotNil(t, result.Session.Current)
	assert.Equal(t, int64(11), result.Session.Current.ID)
	api.AssertExpectations(t)
	repo.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestApprove_JournalFailureDoesNotFailDecision(t *testing.T) {
	api := new(MockAdsAPI)
	repo := new(MockDecisionRepository)
	publisher := new(MockEventPublisher)
	api.On("ListAds", pendingFetch).Return(pendingAds(), nil)
	api.On("ApproveAd", int64(10)).Return(nil)
	repo.On("Create", mock.Anything).Return(errors.New("db down"))
	publisher.On("PublishDecision", mock.Anything).Return(errors.New("broker down"))
	uc := newTestUseCase(api, repo, publisher)

	view, err := uc.StartSession(context.Background(), moderatorID)
	require.NoError(t, err)

	result, err := uc.Approve(context.Background(), view.ID, moderatorID, 10)

	require.NoError(t, err)
	assert.True(t, result.Advanced)
}

func TestApprove_NetworkFailureKeepsPosition(t *testing.T) {
	api := new(MockAdsAPI)
	api.On("ListAds", pendingFetch).Return(pendingAds(), nil)
	api.On("ApproveAd", int64(10)).Return(errors.New("timeout"))
	uc := newTestUseCase(api, nil, nil)

	view, err := uc.StartSession(context.Background(), moderatorID)
	require.NoError(t, err)

	_, err = uc.Approve(context.Background(), view.ID, moderatorID, 10)
	assert.ErrorIs(t, err, moderation.ErrNetwork)

	got, err := uc.GetSession(context.Background(), view.ID, moderatorID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Cursor)
	assert.False(t, got.InFlight)
}

func TestReject_RequiresReason(t *testing.T) {
	api := new(MockAdsAPI)
	api.On("ListAds", pendingFetch).Return(pendingAds(), nil)
	uc := newTestUseCase(api, nil, nil)

	view, err := uc.StartSession(context.Background(), moderatorID)
	require.NoError(t, err)

	_, err = uc.Reject(context.Background(), view.ID, moderatorID, 10, moderation.Draft{Comment: "no"})
	assert.ErrorIs(t, err, moderation.ErrValidation)
	api.AssertNotCalled(t, "RejectAd", mock.Anything, mock.Anything)
}

func TestRequestChanges_SendsFeedback(t *testing.T) {
	api := new(MockAdsAPI)
	feedback := models.DecisionFeedback{Reason: moderation.ReasonWrongCategory, Comment: "move to furniture"}
	api.On("ListAds", pendingFetch).Return(pendingAds(), nil)
	api.On("RequestChanges", int64(10), feedback).Return(nil)
	uc := newTestUseCase(api, nil, nil)

	view, err := uc.StartSession(context.Background(), moderatorID)
	require.NoError(t, err)

	result, err := uc.RequestChanges(context.Background(), view.ID, moderatorID, 10, moderation.Draft{
		Reason:  moderation.ReasonWrongCategory,
		Comment: "  move to furniture ",
	})

	require.NoError(t, err)
	assert.Equal(t, models.DecisionRequestChanges, result.Kind)
	api.AssertExpectations(t)
}

func TestDraftLifecycle(t *testing.T) {
	api := new(MockAdsAPI)
	api.On("ListAds", pendingFetch).Return(pendingAds(), nil)
	uc := newTestUseCase(api, nil, nil)
	ctx := context.Background()

	view, err := uc.StartSession(ctx, moderatorID)
	require.NoError(t, err)

	reason := moderation.ReasonOther
	_, err = uc.UpdateDraft(ctx, view.ID, moderatorID, &reason, nil)
	assert.ErrorIs(t, err, moderation.ErrNoDraft)

	view, err = uc.OpenDraft(ctx, view.ID, moderatorID)
	require.NoError(t, err)
	require.NotNil(t, view.Draft)

	comment := "duplicate listing"
	view, err = uc.UpdateDraft(ctx, view.ID, moderatorID, &reason, &comment)
	require.NoError(t, err)
	assert.Equal(t, moderation.Draft{Reason: reason, Comment: comment}, *view.Draft)

	view, err = uc.CloseDraft(ctx, view.ID, moderatorID)
	require.NoError(t, err)
	assert.Nil(t, view.Draft)
}

func TestNavigation(t *testing.T) {
	api := new(MockAdsAPI)
	api.On("ListAds", pendingFetch).Return(pendingAds(), nil)
	uc := newTestUseCase(api, nil, nil)
	ctx := context.Background()

	view, err := uc.StartSession(ctx, moderatorID)
	require.NoError(t, err)

	view, err = uc.MoveNext(ctx, view.ID, moderatorID)
	require.NoError(t, err)
	assert.Equal(t, 1, view.Cursor)
	assert.False(t, view.HasNext)

	view, err = uc.MovePrevious(ctx, view.ID, moderatorID)
	require.NoError(t, err)
	assert.Equal(t, 0, view.Cursor)
	assert.False(t, view.HasPrevious)
}

func TestCloseSession(t *testing.T) {
	api := new(MockAdsAPI)
	api.On("ListAds", pendingFetch).Return(pendingAds(), nil)
	uc := newTestUseCase(api, nil, nil)
	ctx := context.Background()

	view, err := uc.StartSession(ctx, moderatorID)
	require.NoError(t, err)

	require.NoError(t, uc.CloseSession(ctx, view.ID, moderatorID))

	_, err = uc.Approve(ctx, view.ID, moderatorID, 10)
	assert.ErrorIs(t, err, moderation.ErrClosed)

	got, err := uc.GetSession(ctx, view.ID, moderatorID)
	require.NoError(t, err)
	assert.True(t, got.Closed)

	// starting a new session forgets the closed one
	_, err = uc.StartSession(ctx, moderatorID)
	require.NoError(t, err)
	_, err = uc.GetSession(ctx, view.ID, moderatorID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestStartSession_ClosesPreviousSession(t *testing.T) {
	api := new(MockAdsAPI)
	api.On("ListAds", pendingFetch).Return(pendingAds(), nil)
	uc := newTestUseCase(api, nil, nil)
	ctx := context.Background()

	first, err := uc.StartSession(ctx, moderatorID)
	require.NoError(t, err)
	second, err := uc.StartSession(ctx, moderatorID)
	require.NoError(t, err)

	old, err := uc.GetSession(ctx, first.ID, moderatorID)
	require.NoError(t, err)
	assert.True(t, old.Closed)

	_, err = uc.Approve(ctx, first.ID, moderatorID, 10)
	assert.ErrorIs(t, err, moderation.ErrClosed)
	api.AssertNotCalled(t, "ApproveAd", int64(10))

	current, err := uc.GetSession(ctx, second.ID, moderatorID)
	require.NoError(t, err)
	assert.False(t, current.Closed)

	_, err = uc.StartSession(ctx, moderatorID)
	require.NoError(t, err)
	_, err = uc.GetSession(ctx, first.ID, moderatorID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestStartSession_BoundsSessionsPerModerator(t *testing.T) {
	api := new(MockAdsAPI)
	api.On("ListAds", pendingFetch).Return(pendingAds(), nil)
	uc := newTestUseCase(api, nil, nil).(*moderationUseCase)
	ctx := context.Background()

	for i := 0; i < 1000; i++ {
		_, err := uc.StartSession(ctx, moderatorID)
		require.NoError(t, err)
	}
	_, err := uc.StartSession(ctx, "moderator-2")
	require.NoError(t, err)

	assert.LessOrEqual(t, uc.sessions.count(moderatorID), 2)
	assert.Equal(t, 1, uc.sessions.count("moderator-2"))
}

func TestListSessionDecisions(t *testing.T) {
	api := new(MockAdsAPI)
	repo := new(MockDecisionRepository)
	api.On("ListAds", pendingFetch).Return(pendingAds(), nil)
	uc := newTestUseCase(api, repo, nil)
	ctx := context.Background()

	view, err := uc.StartSession(ctx, moderatorID)
	require.NoError(t, err)

	decisions := []*entity.Decision{{ID: "d1", SessionID: view.ID, AdID: 10, Kind: entity.DecisionApprove}}
	repo.On("ListBySession", view.ID).Return(decisions, nil)

	got, err := uc.ListSessionDecisions(ctx, view.ID, moderatorID)
	require.NoError(t, err)
	assert.Equal(t, decisions, got)

	_, err = uc.ListSessionDecisions(ctx, view.ID, "someone-else")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestListModeratorDecisions_WithoutRepository(t *testing.T) {
	uc := newTestUseCase(new(MockAdsAPI), nil, nil)

	got, err := uc.ListModeratorDecisions(context.Background(), moderatorID, 20, 0)

	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestReasons(t *testing.T) {
	uc := newTestUseCase(new(MockAdsAPI), nil, nil)
	assert.Equal(t, moderation.Reasons(), uc.Reasons())
}
