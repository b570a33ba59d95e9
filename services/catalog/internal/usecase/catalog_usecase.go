package usecase

import (
	"context"
	"errors"
	"time"

	"ad-moderation/pkg/catalog"
	"ad-moderation/pkg/logger"
	"ad-moderation/pkg/models"

	"golang.org/x/sync/singleflight"
)

var (
	ErrAdNotFound         = errors.New("ad not found")
	ErrCatalogUnavailable = errors.New("catalog is unavailable")
)

// AdSource lists ads from the ads API.
type AdSource interface {
	ListAds(ctx context.Context, filter models.ListFilter) ([]models.Ad, error)
}

// SnapshotCache stores the fetched ad list between requests.
type SnapshotCache interface {
	Get(ctx context.Context) ([]models.Ad, bool, error)
	Set(ctx context.Context, ads []models.Ad) error
}

type CatalogPage struct {
	Items      []catalog.Card    `json:"items"`
	TotalCount int               `json:"totalCount"`
	TotalPages int               `json:"totalPages"`
	Page       int               `json:"page"`
	PageSize   int               `json:"pageSize"`
	Available  bool              `json:"available"`
	View       catalog.ViewState `json:"view"`
}

type AdDetails = catalog.Details

type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

type Meta struct {
	Categories      []string         `json:"categories"`
	Statuses        []Option         `json:"statuses"`
	SortFields      []string         `json:"sortFields"`
	SortOrders      []string         `json:"sortOrders"`
	DefaultSort     catalog.SortSpec `json:"defaultSort"`
	DefaultPageSize int              `json:"defaultPageSize"`
}

type CatalogUseCase interface {
	Browse(ctx context.Context, view catalog.ViewState) *CatalogPage
	GetAd(ctx context.Context, id int64) (*AdDetails, error)
	Meta() Meta
}

type catalogUseCase struct {
	source     AdSource
	cache      SnapshotCache
	fetchLimit   int
	pageSize     int
	fetchTimeout time.Duration
	group        singleflight.Group
	logger       *logger.Logger
}

// NewCatalogUseCase builds the catalog. cache may be nil.
// fetchTimeout bounds one shared fetch of the ad list.
func NewCatalogUseCase(source AdSource, cache SnapshotCache, fetchLimit, pageSize int, fetchTimeout time.Duration, logger *logger.Logger) CatalogUseCase {
	return &catalogUseCase{
		source:       source,
		cache:        cache,
		fetchLimit:   fetchLimit,
		pageSize:     pageSize,
		fetchTimeout: fetchTimeout,
		logger:       logger,
	}
}

// Browse never fails: when the ads API is down the page is empty and
// Available is false.
func (uc *catalogUseCase) Browse(ctx context.Context, view catalog.ViewState) *CatalogPage {
	if view.PageSize <= 0 {
		view.PageSize = uc.pageSize
	}

	ads, ok := uc.snapshot(ctx)
	page := catalog.Derive(ads, view)

	view.Page = page.Page
	view.PageSize = page.PageSize
	return &CatalogPage{
		Items:      catalog.NewCards(page.Visible),
		TotalCount: page.TotalCount,
		TotalPages: page.TotalPages,
		Page:       page.Page,
		PageSize:   page.PageSize,
		Available:  ok,
		View:       view,
	}
}

func (uc *catalogUseCase) GetAd(ctx context.Context, id int64) (*AdDetails, error) {
	ads, ok := uc.snapshot(ctx)
	if !ok {
		return nil, ErrCatalogUnavailable
	}

	for _, ad := range ads {
		if ad.ID == id {
			details := catalog.NewDetails(ad)
			return &details, nil
		}
	}
	return nil, ErrAdNotFound
}

func (uc *catalogUseCase) Meta() Meta {
	statuses := make([]Option, 0, len(models.Statuses()))
	for _, s := range models.Statuses() {
		statuses = append(statuses, Option{Value: string(s), Label: s.Label()})
	}

	fields := make([]string, 0, len(catalog.SortFields()))
	for _, f := range catalog.SortFields() {
		fields = append(fields, string(f))
	}

	return Meta{
		Categories:      models.Categories(),
		Statuses:        statuses,
		SortFields:      fields,
		SortOrders:      []string{string(catalog.SortAsc), string(catalog.SortDesc)},
		DefaultSort:     catalog.DefaultSort(),
		DefaultPageSize: uc.pageSize,
	}
}

// snapshot returns the cached ad list or fetches it once for all
// concurrent callers. ok is false when the ads API could not be reached.
// The shared fetch does not inherit the caller's cancellation: one caller
// going away must not fail the others waiting on the same flight.
func (uc *catalogUseCase) snapshot(ctx context.Context) ([]models.Ad, bool) {
	if uc.cache != nil {
		ads, hit, err := uc.cache.Get(ctx)
		if err != nil {
			uc.logger.Warn("Catalog cache read failed: %v", err)
		}
		if hit {
			return ads, true
		}
	}

	v, err, _ := uc.group.Do("ads", func() (interface{}, error) {
		fetchCtx := context.WithoutCancel(ctx)
		if uc.fetchTimeout > 0 {
			var cancel context.CancelFunc
			fetchCtx, cancel = context.WithTimeout(fetchCtx, uc.fetchTimeout)
			defer cancel()
		}

		ads, err := uc.source.ListAds(fetchCtx, models.ListFilter{Page: 1, Limit: uc.fetchLimit})
		if err != nil {
			return nil, err
		}
		if uc.cache != nil {
			if err := uc.cache.Set(fetchCtx, ads); err != nil {
				uc.logger.Warn("Catalog cache write failed: %v", err)
			}
		}
		return ads, nil
	})
	if err != nil {
		uc.logger.Error("Failed to fetch ads for catalog: %v", err)
		return []models.Ad{}, false
	}

	uc.logger.Info("Catalog snapshot loaded: %d ads", len(v.([]models.Ad)))
	return v.([]models.Ad), true
}
