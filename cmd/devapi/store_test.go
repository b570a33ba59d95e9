package main

import (
	"testing"
	"time"

	"ad-moderation/pkg/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedNow() time.Time {
	return time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
}

func TestNewStore_SeedsMixedAds(t *testing.T) {
	s := newStore(60, 7, fixedNow)

	require.Len(t, s.ads, 60)
	counts := s.counts()
	assert.Greater(t, counts[models.StatusPending], 0)
	assert.Equal(t, 60, counts[models.StatusPending]+counts[models.StatusApproved]+counts[models.StatusRejected])

	last := s.ads[len(s.ads)-1]
	_, ok := last.CreatedTime()
	assert.False(t, ok, "the last ad carries a malformed date")

	for _, ad := range s.ads[:len(s.ads)-1] {
		_, ok := ad.CreatedTime()
		assert.True(t, ok)
	}
}

func TestNewStore_IsDeterministic(t *testing.T) {
	a := newStore(20, 99, fixedNow)
	b := newStore(20, 99, fixedNow)
	assert.Equal(t, a.ads, b.ads)
}

func TestStore_List(t *testing.T) {
	s := newStore(25, 1, fixedNow)

	page, total := s.list("", 3, 10)
	assert.Equal(t, 25, total)
	require.Len(t, page, 5)
	assert.Equal(t, int64(21), page[0].ID)

	page, _ = s.list("", 4, 10)
	assert.NotNil(t, page)
	assert.Empty(t, page)

	pending, pendingTotal := s.list(models.StatusPending, 1, 100)
	assert.Equal(t, s.counts()[models.StatusPending], pendingTotal)
	for _, ad := range pending {
		assert.Equal(t, models.StatusPending, ad.Status)
	}
}

func TestStore_Decide(t *testing.T) {
	s := newStore(5, 1, fixedNow)

	ad, err := s.decide(1, models.DecisionApprove, models.DecisionFeedback{})
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, ad.Status)

	_, err = s.decide(2, models.DecisionReject, models.DecisionFeedback{Comment: "no reason"})
	assert.ErrorIs(t, err, errReasonRequired)

	ad, err = s.decide(2, models.DecisionRequestChanges, models.DecisionFeedback{Comment: "add photos"})
	require.NoError(t, err)
	assert.Equal(t, statusDraft, ad.Status)

	_, err = s.decide(404, models.DecisionApprove, models.DecisionFeedback{})
	assert.ErrorIs(t, err, errAdNotFound)
}

func TestStore_Stats(t *testing.T) {
	s := newStore(0, 1, fixedNow)

	_, err := s.decide(1, models.DecisionApprove, models.DecisionFeedback{})
	assert.ErrorIs(t, err, errAdNotFound)

	s.ads = []models.Ad{
		{ID: 1, Category: models.CategoryKids, Status: models.StatusPending},
		{ID: 2, Category: models.CategoryKids, Status: models.StatusPending},
		{ID: 3, Category: models.CategoryJobs, Status: models.StatusPending},
		{ID: 4, Category: models.CategoryJobs, Status: models.StatusPending},
	}
	_, _ = s.decide(1, models.DecisionApprove, models.DecisionFeedback{})
	_, _ = s.decide(2, models.DecisionApprove, models.DecisionFeedback{})
	_, _ = s.decide(3, models.DecisionReject, models.DecisionFeedback{Reason: "Другое"})
	_, _ = s.decide(4, models.DecisionRequestChanges, models.DecisionFeedback{})
	s.decisions = append(s.decisions, decision{adID: 9, category: models.CategoryJobs, kind: models.DecisionApprove, decidedAt: fixedNow().AddDate(0, 0, -3)})

	summary := s.summary(models.PeriodToday)
	assert.Equal(t, 4, summary.TotalReviewed)
	assert.Equal(t, 50.0, summary.ApprovedPercentage)
	assert.Equal(t, 25.0, summary.RejectedPercentage)
	assert.Greater(t, summary.AverageReviewTime, 0.0)

	assert.Equal(t, models.DecisionBreakdown{Approved: 2, Rejected: 1, RequestChanges: 1}, s.breakdown(models.PeriodToday))
	assert.Equal(t, models.DecisionBreakdown{Approved: 3, Rejected: 1, RequestChanges: 1}, s.breakdown(models.PeriodWeek))
	assert.Equal(t, models.CategoryBreakdown{models.CategoryKids: 2, models.CategoryJobs: 2}, s.categories(models.PeriodToday))

	activity := s.activity(models.PeriodWeek)
	require.Len(t, activity, 7)
	assert.Equal(t, "2024-03-15", activity[6].Date)
	assert.Equal(t, 2, activity[6].Approved)
	assert.Equal(t, "2024-03-12", activity[3].Date)
	assert.Equal(t, 1, activity[3].Approved)
}

func TestStore_EmptySummary(t *testing.T) {
	s := newStore(0, 1, fixedNow)
	assert.Equal(t, models.StatsSummary{}, s.summary(models.PeriodMonth))
	assert.Empty(t, s.categories(models.PeriodMonth))
	assert.Len(t, s.activity(models.PeriodMonth), 30)
}
