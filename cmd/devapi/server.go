package main

import (
	"errors"
	"net/http"
	"strconv"

	"ad-moderation/pkg/jwt"
	"ad-moderation/pkg/logger"
	"ad-moderation/pkg/models"

	"github.com/gin-gonic/gin"
)

type server struct {
	store      *store
	jwtService *jwt.Service
	logger     *logger.Logger
}

type listQuery struct {
	Status string `form:"status"`
	Page   int    `form:"page" binding:"omitempty,min=1"`
	Limit  int    `form:"limit" binding:"omitempty,min=1"`
}

type pagination struct {
	CurrentPage  int `json:"currentPage"`
	TotalPages   int `json:"totalPages"`
	TotalItems   int `json:"totalItems"`
	ItemsPerPage int `json:"itemsPerPage"`
}

type tokenRequest struct {
	UserID string `json:"user_id" binding:"required"`
	Role   string `json:"role" binding:"required,oneof=moderator admin"`
}

func (s *server) routes(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := r.Group("/api/v1")
	{
		api.GET("/ads", s.listAds)
		api.GET("/ads/:id", s.getAd)
		api.POST("/ads/:id/approve", s.decide(models.DecisionApprove))
		api.POST("/ads/:id/reject", s.decide(models.DecisionReject))
		api.POST("/ads/:id/request-changes", s.decide(models.DecisionRequestChanges))

		api.GET("/stats/summary", s.stats(func(p models.Period) interface{} { return s.store.summary(p) }))
		api.GET("/stats/chart/activity", s.stats(func(p models.Period) interface{} { return s.store.activity(p) }))
		api.GET("/stats/chart/decisions", s.stats(func(p models.Period) interface{} { return s.store.breakdown(p) }))
		api.GET("/stats/chart/categories", s.stats(func(p models.Period) interface{} { return s.store.categories(p) }))

		api.POST("/dev/token", s.issueToken)
	}
}

func (s *server) listAds(c *gin.Context) {
	var q listQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if q.Page == 0 {
		q.Page = 1
	}
	if q.Limit == 0 {
		q.Limit = 10
	}

	ads, total := s.store.list(models.Status(q.Status), q.Page, q.Limit)
	totalPages := (total + q.Limit - 1) / q.Limit
	if totalPages < 1 {
		totalPages = 1
	}

	c.JSON(http.StatusOK, gin.H{
		"ads": ads,
		"pagination": pagination{
			CurrentPage:  q.Page,
			TotalPages:   totalPages,
			TotalItems:   total,
			ItemsPerPage: q.Limit,
		},
	})
}

func (s *server) getAd(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ad id"})
		return
	}

	ad, err := s.store.get(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, ad)
}

func (s *server) decide(kind models.DecisionKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ad id"})
			return
		}

		var feedback models.DecisionFeedback
		if kind != models.DecisionApprove {
			if err := c.ShouldBindJSON(&feedback); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
		}

		ad, err := s.store.decide(id, kind, feedback)
		if err != nil {
			switch {
			case errors.Is(err, errAdNotFound):
				c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			case errors.Is(err, errReasonRequired):
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			default:
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			}
			return
		}

		s.logger.Info("Ad %d: %s", id, kind)
		c.JSON(http.StatusOK, gin.H{"message": "ok", "ad": ad})
	}
}

func (s *server) stats(compute func(models.Period) interface{}) gin.HandlerFunc {
	return func(c *gin.Context) {
		period := models.Period(c.DefaultQuery("period", string(models.PeriodToday)))
		if !period.IsValid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid period"})
			return
		}
		c.JSON(http.StatusOK, compute(period))
	}
}

// issueToken mints a token for the moderation and stats services, which
// only validate tokens.
func (s *server) issueToken(c *gin.Context) {
	var req tokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token, err := s.jwtService.GenerateToken(req.UserID, req.Role)
	if err != nil {
		s.logger.Error("Failed to generate token: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}
