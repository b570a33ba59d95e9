package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"ad-moderation/pkg/logger"
	"ad-moderation/pkg/models"

	"golang.org/x/sync/errgroup"
)

var (
	ErrInvalidPeriod      = errors.New("period must be one of today, week, month")
	ErrStorageUnavailable = errors.New("report storage is not configured")
)

const DefaultPeriod = models.PeriodToday

// StatsSource is the stats part of the ads API.
type StatsSource interface {
	Summary(ctx context.Context, period models.Period) (models.StatsSummary, error)
	Activity(ctx context.Context, period models.Period) ([]models.ActivityPoint, error)
	Decisions(ctx context.Context, period models.Period) (models.DecisionBreakdown, error)
	Categories(ctx context.Context, period models.Period) (models.CategoryBreakdown, error)
}

type ReportStorage interface {
	UploadReport(ctx context.Context, key string, body []byte, contentType string) (string, error)
}

type ExportResult struct {
	Key    string              `json:"key"`
	URL    string              `json:"url"`
	Report *models.StatsReport `json:"report"`
}

type StatsUseCase interface {
	GetReport(ctx context.Context, period string) (*models.StatsReport, error)
	ExportReport(ctx context.Context, period string) (*ExportResult, error)
}

type statsUseCase struct {
	source  StatsSource
	storage ReportStorage
	now     func() time.Time
	logger  *logger.Logger
}

// NewStatsUseCase returns a use case over the ads API stats endpoints.
// storage may be nil, in which case ExportReport returns ErrStorageUnavailable.
func NewStatsUseCase(source StatsSource, storage ReportStorage, logger *logger.Logger) StatsUseCase {
	return &statsUseCase{
		source:  source,
		storage: storage,
		now:     time.Now,
		logger:  logger,
	}
}

func ParsePeriod(raw string) (models.Period, error) {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if raw == "" {
		return DefaultPeriod, nil
	}
	period := models.Period(raw)
	if !period.IsValid() {
		return "", ErrInvalidPeriod
	}
	return period, nil
}

// GetReport fetches the four stats resources concurrently. The first failure
// cancels the remaining requests.
func (uc *statsUseCase) GetReport(ctx context.Context, rawPeriod string) (*models.StatsReport, error) {
	period, err := ParsePeriod(rawPeriod)
	if err != nil {
		return nil, err
	}

	report := &models.StatsReport{Period: period}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		summary, err := uc.source.Summary(gctx, period)
		if err != nil {
			return fmt.Errorf("summary: %w", err)
		}
		report.Summary = summary
		return nil
	})
	g.Go(func() error {
		activity, err := uc.source.Activity(gctx, period)
		if err != nil {
			return fmt.Errorf("activity: %w", err)
		}
		if activity == nil {
			activity = []models.ActivityPoint{}
		}
		report.Activity = activity
		return nil
	})
	g.Go(func() error {
		decisions, err := uc.source.Decisions(gctx, period)
		if err != nil {
			return fmt.Errorf("decisions: %w", err)
		}
		report.Decisions = decisions
		return nil
	})
	g.Go(func() error {
		categories, err := uc.source.Categories(gctx, period)
		if err != nil {
			return fmt.Errorf("categories: %w", err)
		}
		if categories == nil {
			categories = models.CategoryBreakdown{}
		}
		report.Categories = categories
		return nil
	})

	if err := g.Wait(); err != nil {
		uc.logger.Error("Failed to load stats for %s: %v", period, err)
		return nil, fmt.Errorf("failed to get stats: %w", err)
	}
	return report, nil
}

func (uc *statsUseCase) ExportReport(ctx context.Context, rawPeriod string) (*ExportResult, error) {
	period, err := ParsePeriod(rawPeriod)
	if err != nil {
		return nil, err
	}
	if uc.storage == nil {
		return nil, ErrStorageUnavailable
	}

	report, err := uc.GetReport(ctx, string(period))
	if err != nil {
		return nil, err
	}

	body, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode report: %w", err)
	}

	key := fmt.Sprintf("stats/%s/%s.json", period, uc.now().UTC().Format("20060102T150405Z"))
	url, err := uc.storage.UploadReport(ctx, key, body, "application/json")
	if err != nil {
		uc.logger.Error("Failed to upload report %s: %v", key, err)
		return nil, fmt.Errorf("failed to upload report: %w", err)
	}

	uc.logger.Info("Exported %s stats report to %s", period, key)
	return &ExportResult{Key: key, URL: url, Report: report}, nil
}
