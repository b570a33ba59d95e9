package http

import (
	"errors"
	"net/http"

	"ad-moderation/pkg/logger"
	"ad-moderation/services/stats/internal/usecase"

	"github.com/gin-gonic/gin"
)

type StatsHandler struct {
	statsUseCase usecase.StatsUseCase
	logger       *logger.Logger
}

func NewStatsHandler(statsUseCase usecase.StatsUseCase, logger *logger.Logger) *StatsHandler {
	return &StatsHandler{
		statsUseCase: statsUseCase,
		logger:       logger,
	}
}

// GetStats godoc
// @Summary      Moderation statistics
// @Description  Summary, activity, decision and category breakdowns for the period, fetched in parallel
// @Tags         stats
// @Produce      json
// @Security     BearerAuth
// @Param        period  query     string  false  "Reporting period"  Enums(today, week, month)
// @Success      200  {object}  models.StatsReport
// @Failure      400  {object}  map[string]string
// @Failure      502  {object}  map[string]string
// @Router       /stats [get]
func (h *StatsHandler) GetStats(c *gin.Context) {
	report, err := h.statsUseCase.GetReport(c.Request.Context(), c.Query("period"))
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidPeriod) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to load statistics"})
		return
	}

	c.JSON(http.StatusOK, report)
}

// ExportStats godoc
// @Summary      Export statistics
// @Description  Stores the report for the period as JSON in S3 and returns its URL
// @Tags         stats
// @Produce      json
// @Security     BearerAuth
// @Param        period  query     string  false  "Reporting period"  Enums(today, week, month)
// @Success      201  {object}  usecase.ExportResult
// @Failure      400  {object}  map[string]string
// @Failure      502  {object}  map[string]string
// @Failure      503  {object}  map[string]string
// @Router       /stats/export [post]
func (h *StatsHandler) ExportStats(c *gin.Context) {
	result, err := h.statsUseCase.ExportReport(c.Request.Context(), c.Query("period"))
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrInvalidPeriod):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, usecase.ErrStorageUnavailable):
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Report export is not available"})
		default:
			c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to export statistics"})
		}
		return
	}

	c.JSON(http.StatusCreated, result)
}
