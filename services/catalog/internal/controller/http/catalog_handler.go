package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"ad-moderation/pkg/catalog"
	"ad-moderation/pkg/logger"
	"ad-moderation/services/catalog/internal/usecase"

	"github.com/gin-gonic/gin"
)

type CatalogHandler struct {
	catalogUseCase usecase.CatalogUseCase
	pageSize       int
	logger         *logger.Logger
}

func NewCatalogHandler(catalogUseCase usecase.CatalogUseCase, pageSize int, logger *logger.Logger) *CatalogHandler {
	return &CatalogHandler{
		catalogUseCase: catalogUseCase,
		pageSize:       pageSize,
		logger:         logger,
	}
}

type BrowseRequest struct {
	Status    []string `form:"status"`
	Category  []string `form:"category"`
	PriceMin  string   `form:"price_min"`
	PriceMax  string   `form:"price_max"`
	Search    string   `form:"search"`
	SortBy    string   `form:"sort_by"`
	SortOrder string   `form:"sort_order"`
	Page      int      `form:"page" binding:"omitempty,min=1"`
	PageSize  int      `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// splitValues accepts both repeated parameters and comma separated lists.
func splitValues(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func (r BrowseRequest) view(defaultPageSize int) catalog.ViewState {
	pageSize := defaultPageSize
	if r.PageSize > 0 {
		pageSize = r.PageSize
	}

	view := catalog.NewViewState(pageSize).
		WithFilters(catalog.FilterState{
			Status:   splitValues(r.Status),
			Category: splitValues(r.Category),
			PriceMin: r.PriceMin,
			PriceMax: r.PriceMax,
			Search:   r.Search,
		}).
		WithSort(catalog.ParseSortSpec(r.SortBy, r.SortOrder))

	if r.Page > 0 {
		view.Page = r.Page
	}
	return view
}

// Browse godoc
// @Summary      Browse the catalog
// @Description  Filters, sorts and paginates the ad snapshot. When the ads API is unreachable the page is empty and available is false.
// @Tags         catalog
// @Produce      json
// @Param        status      query  []string  false  "Status filter (pending, approved, rejected)"  collectionFormat(multi)
// @Param        category    query  []string  false  "Category filter"  collectionFormat(multi)
// @Param        price_min   query  string    false  "Minimum price"
// @Param        price_max   query  string    false  "Maximum price"
// @Param        search      query  string    false  "Title search"
// @Param        sort_by     query  string    false  "Sort field"  Enums(createdAt, price, priority)
// @Param        sort_order  query  string    false  "Sort order"  Enums(asc, desc)
// @Param        page        query  int       false  "Page number"  minimum(1)
// @Param        page_size   query  int       false  "Page size"  minimum(1)  maximum(100)
// @Success      200  {object}  usecase.CatalogPage
// @Failure      400  {object}  map[string]string
// @Router       /catalog [get]
func (h *CatalogHandler) Browse(c *gin.Context) {
	var req BrowseRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	page := h.catalogUseCase.Browse(c.Request.Context(), req.view(h.pageSize))
	c.JSON(http.StatusOK, page)
}

// GetAd godoc
// @Summary      Get one ad
// @Description  Returns an ad of the current snapshot with its full description and images
// @Tags         catalog
// @Produce      json
// @Param        id   path      int  true  "Ad ID"
// @Success      200  {object}  usecase.AdDetails
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      503  {object}  map[string]string
// @Router       /catalog/ads/{id} [get]
func (h *CatalogHandler) GetAd(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ad id"})
		return
	}

	ad, err := h.catalogUseCase.GetAd(c.Request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrAdNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Ad not found"})
		case errors.Is(err, usecase.ErrCatalogUnavailable):
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Ads are temporarily unavailable"})
		default:
			h.logger.Error("Failed to get ad %d: %v", id, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get ad"})
		}
		return
	}

	c.JSON(http.StatusOK, ad)
}

// Meta godoc
// @Summary      Catalog options
// @Description  Categories, statuses with their labels and sort options for building the filter panel
// @Tags         catalog
// @Produce      json
// @Success      200  {object}  usecase.Meta
// @Router       /catalog/meta [get]
func (h *CatalogHandler) Meta(c *gin.Context) {
	c.JSON(http.StatusOK, h.catalogUseCase.Meta())
}
