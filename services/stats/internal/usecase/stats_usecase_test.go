package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"ad-moderation/pkg/logger"
	"ad-moderation/pkg/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockStatsSource struct {
	mock.Mock
}

func (m *MockStatsSource) Summary(ctx context.Context, period models.Period) (models.StatsSummary, error) {
	args := m.Called(period)
	return args.Get(0).(models.StatsSummary), args.Error(1)
}

func (m *MockStatsSource) Activity(ctx context.Context, period models.Period) ([]models.ActivityPoint, error) {
	args := m.Called(period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ActivityPoint), args.Error(1)
}

func (m *MockStatsSource) Decisions(ctx context.Context, period models.Period) (models.DecisionBreakdown, error) {
	args := m.Called(period)
	return args.Get(0).(models.DecisionBreakdown), args.Error(1)
}

func (m *MockStatsSource) Categories(ctx context.Context, period models.Period) (models.CategoryBreakdown, error) {
	args := m.Called(period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(models.CategoryBreakdown), args.Error(1)
}

type MockReportStorage struct {
	mock.Mock
}

func (m *MockReportStorage) UploadReport(ctx context.Context, key string, body []byte, contentType string) (string, error) {
	args := m.Called(key, body, contentType)
	return args.String(0), args.Error(1)
}

var (
	_ StatsSource   = (*MockStatsSource)(nil)
	_ ReportStorage = (*MockReportStorage)(nil)
)

func stubStats(source *MockStatsSource, period models.Period) {
	source.On("Summary", period).Return(models.StatsSummary{TotalReviewed: 12, ApprovedPercentage: 75, RejectedPercentage: 25, AverageReviewTime: 90}, nil)
	source.On("Activity", period).Return([]models.ActivityPoint{{Date: "2024-03-01", Approved: 9, Rejected: 3}}, nil)
	source.On("Decisions", period).Return(models.DecisionBreakdown{Approved: 9, Rejected: 3}, nil)
	source.On("Categories", period).Return(models.CategoryBreakdown{models.CategoryTransport: 12}, nil)
}

func TestParsePeriod(t *testing.T) {
	period, err := ParsePeriod("")
	require.NoError(t, err)
	assert.Equal(t, models.PeriodToday, period)

	period, err = ParsePeriod(" WEEK ")
	require.NoError(t, err)
	assert.Equal(t, models.PeriodWeek, period)

	_, err = ParsePeriod("year")
	assert.ErrorIs(t, err, ErrInvalidPeriod)
}

func TestGetReport_CombinesAllResources(t *testing.T) {
	source := new(MockStatsSource)
	stubStats(source, models.PeriodMonth)
	uc := NewStatsUseCase(source, nil, logger.New())

	report, err := uc.GetReport(context.Background(), "month")

	require.NoError(t, err)
	assert.Equal(t, models.PeriodMonth, report.Period)
	assert.Equal(t, 12, report.Summary.TotalReviewed)
	assert.Len(t, report.Activity, 1)
	assert.Equal(t, 3, report.Decisions.Rejected)
	assert.Equal(t, 12, report.Categories[models.CategoryTransport])
	source.AssertExpectations(t)
}

func TestGetReport_EmptySeriesAreNotNil(t *testing.T) {
	source := new(MockStatsSource)
	source.On("Summary", models.PeriodToday).Return(models.StatsSummary{}, nil)
	source.On("Activity", models.PeriodToday).Return(nil, nil)
	source.On("Decisions", models.PeriodToday).Return(models.DecisionBreakdown{}, nil)
	source.On("Categories", models.PeriodToday).Return(nil, nil)
	uc := NewStatsUseCase(source, nil, logger.New())

	report, err := uc.GetReport(context.Background(), "")

	require.NoError(t, err)
	assert.NotNil(t, report.Activity)
	assert.NotNil(t, report.Categories)
}

func TestGetReport_InvalidPeriod(t *testing.T) {
	source := new(MockStatsSource)
	uc := NewStatsUseCase(source, nil, logger.New())

	_, err := uc.GetReport(context.Background(), "year")

	assert.ErrorIs(t, err, ErrInvalidPeriod)
	source.AssertNotCalled(t, "Summary", mock.Anything)
}

func TestGetReport_AnyFailureFails(t *testing.T) {
	source := new(MockStatsSource)
	source.On("Summary", models.PeriodWeek).Return(models.StatsSummary{}, nil).Maybe()
	source.On("Activity", models.PeriodWeek).Return([]models.ActivityPoint{}, nil).Maybe()
	source.On("Decisions", models.PeriodWeek).Return(models.DecisionBreakdown{}, errors.New("unavailable"))
	source.On("Categories", models.PeriodWeek).Return(models.CategoryBreakdown{}, nil).Maybe()
	uc := NewStatsUseCase(source, nil, logger.New())

	report, err := uc.GetReport(context.Background(), "week")

	assert.Error(t, err)
	assert.Nil(t, report)
	assert.Contains(t, err.Error(), "decisions")
}

func TestExportReport_UploadsJSON(t *testing.T) {
	source := new(MockStatsSource)
	storage := new(MockReportStorage)
	stubStats(source, models.PeriodWeek)
	uc := NewStatsUseCase(source, storage, logger.New()).(*statsUseCase)
	uc.now = func() time.Time { return time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC) }

	var uploaded []byte
	storage.On("UploadReport", "stats/week/20240315T103000Z.json", mock.Anything, "application/json").
		Run(func(args mock.Arguments) { uploaded = args.Get(1).([]byte) }).
		Return("https://reports.example.com/stats/week/20240315T103000Z.json", nil)

	result, err := uc.ExportReport(context.Background(), "week")

	require.NoError(t, err)
	assert.Equal(t, "stats/week/20240315T103000Z.json", result.Key)
	assert.Equal(t, "https://reports.example.com/stats/week/20240315T103000Z.json", result.URL)

	var decoded models.StatsReport
	require.NoError(t, json.Unmarshal(uploaded, &decoded))
	assert.Equal(t, *result.Report, decoded)
	storage.AssertExpectations(t)
}

func TestExportReport_WithoutStorage(t *testing.T) {
	source := new(MockStatsSource)
	uc := NewStatsUseCase(source, nil, logger.New())

	_, err := uc.ExportReport(context.Background(), "today")

	assert.ErrorIs(t, err, ErrStorageUnavailable)
	source.AssertNotCalled(t, "Summary", mock.Anything)
}

func TestExportReport_UploadFailure(t *testing.T) {
	source := new(MockStatsSource)
	storage := new(MockReportStorage)
	stubStats(source, models.PeriodToday)
	storage.On("UploadReport", mock.Anything, mock.Anything, "application/json").Return("", errors.New("access denied"))
	uc := NewStatsUseCase(source, storage, logger.New())

	_, err := uc.ExportReport(context.Background(), "today")

	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrStorageUnavailable)
}
