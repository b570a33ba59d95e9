package http

import (
	"errors"
	"net/http"

	"ad-moderation/pkg/logger"
	"ad-moderation/pkg/moderation"
	"ad-moderation/services/moderation/internal/usecase"

	"github.com/gin-gonic/gin"
)

type ModerationHandler struct {
	moderationUseCase usecase.ModerationUseCase
	logger            *logger.Logger
}

func NewModerationHandler(moderationUseCase usecase.ModerationUseCase, logger *logger.Logger) *ModerationHandler {
	return &ModerationHandler{
		moderationUseCase: moderationUseCase,
		logger:            logger,
	}
}

type ApproveRequest struct {
	AdID int64 `json:"ad_id" binding:"required"`
}

type FeedbackRequest struct {
	AdID    int64  `json:"ad_id" binding:"required"`
	Reason  string `json:"reason"`
	Comment string `json:"comment"`
}

func (r FeedbackRequest) draft() moderation.Draft {
	return moderation.Draft{Reason: r.Reason, Comment: r.Comment}
}

// DraftRequest updates only the fields that are present.
type DraftRequest struct {
	Reason  *string `json:"reason"`
	Comment *string `json:"comment"`
}

type DecisionsQuery struct {
	Limit  int `form:"limit" binding:"omitempty,min=1,max=100"`
	Offset int `form:"offset" binding:"omitempty,min=0"`
}

func (h *ModerationHandler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, usecase.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
	case errors.Is(err, moderation.ErrClosed):
		c.JSON(http.StatusGone, gin.H{"error": "Session is closed"})
	case errors.Is(err, moderation.ErrDecisionInFlight):
		c.JSON(http.StatusConflict, gin.H{"error": "A decision is already being submitted"})
	case errors.Is(err, moderation.ErrValidation):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, moderation.ErrNetwork):
		c.JSON(http.StatusBadGateway, gin.H{"error": "Ads API request failed"})
	default:
		h.logger.Error("Moderation request failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

// Reasons godoc
// @Summary      Rejection reasons
// @Description  Reasons a moderator can pick for reject and request-changes
// @Tags         moderation
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string][]string
// @Router       /moderation/reasons [get]
func (h *ModerationHandler) Reasons(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"reasons": h.moderationUseCase.Reasons()})
}

// StartSession godoc
// @Summary      Start a review session
// @Description  Loads the pending ads into a new review session. If the ads API fails the session is still created in the empty state and returned with status 502.
// @Tags         moderation
// @Produce      json
// @Security     BearerAuth
// @Success      201  {object}  usecase.SessionView
// @Failure      401  {object}  map[string]string
// @Failure      502  {object}  map[string]interface{}
// @Router       /moderation/sessions [post]
func (h *ModerationHandler) StartSession(c *gin.Context) {
	moderatorID := c.GetString("user_id")

	view, err := h.moderationUseCase.StartSession(c.Request.Context(), moderatorID)
	if err != nil {
		if view != nil && errors.Is(err, moderation.ErrNetwork) {
			c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to load pending ads", "session": view})
			return
		}
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, view)
}

// GetSession godoc
// @Summary      Get a review session
// @Tags         moderation
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Session ID"
// @Success      200  {object}  usecase.SessionView
// @Failure      404  {object}  map[string]string
// @Router       /moderation/sessions/{id} [get]
func (h *ModerationHandler) GetSession(c *gin.Context) {
	view, err := h.moderationUseCase.GetSession(c.Request.Context(), c.Param("id"), c.GetString("user_id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// CloseSession godoc
// @Summary      Close a review session
// @Description  Responses to decisions still in flight are ignored after close
// @Tags         moderation
// @Security     BearerAuth
// @Param        id   path      string  true  "Session ID"
// @Success      204
// @Failure      404  {object}  map[string]string
// @Router       /moderation/sessions/{id} [delete]
func (h *ModerationHandler) CloseSession(c *gin.Context) {
	if err := h.moderationUseCase.CloseSession(c.Request.Context(), c.Param("id"), c.GetString("user_id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Approve godoc
// @Summary      Approve the current ad
// @Tags         moderation
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string          true  "Session ID"
// @Param        request  body      ApproveRequest  true  "Ad under review"
// @Success      200  {object}  usecase.DecisionResult
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Failure      410  {object}  map[string]string
// @Failure      422  {object}  map[string]string
// @Failure      502  {object}  map[string]string
// @Router       /moderation/sessions/{id}/approve [post]
func (h *ModerationHandler) Approve(c *gin.Context) {
	var req ApproveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.moderationUseCase.Approve(c.Request.Context(), c.Param("id"), c.GetString("user_id"), req.AdID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Reject godoc
// @Summary      Reject the current ad
// @Description  A reason from /moderation/reasons is required. The draft survives a failed request.
// @Tags         moderation
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string           true  "Session ID"
// @Param        request  body      FeedbackRequest  true  "Reason and comment"
// @Success      200  {object}  usecase.DecisionResult
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Failure      410  {object}  map[string]string
// @Failure      422  {object}  map[string]string
// @Failure      502  {object}  map[string]string
// @Router       /moderation/sessions/{id}/reject [post]
func (h *ModerationHandler) Reject(c *gin.Context) {
	var req FeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.moderationUseCase.Reject(c.Request.Context(), c.Param("id"), c.GetString("user_id"), req.AdID, req.draft())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// RequestChanges godoc
// @Summary      Send the current ad back for changes
// @Description  The reason is optional but must be known when given
// @Tags         moderation
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string           true  "Session ID"
// @Param        request  body      FeedbackRequest  true  "Reason and comment"
// @Success      200  {object}  usecase.DecisionResult
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Failure      410  {object}  map[string]string
// @Failure      422  {object}  map[string]string
// @Failure      502  {object}  map[string]string
// @Router       /moderation/sessions/{id}/request-changes [post]
func (h *ModerationHandler) RequestChanges(c *gin.Context) {
	var req FeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.moderationUseCase.RequestChanges(c.Request.Context(), c.Param("id"), c.GetString("user_id"), req.AdID, req.draft())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// OpenDraft godoc
// @Summary      Open the feedback draft
// @Tags         moderation
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Session ID"
// @Success      200  {object}  usecase.SessionView
// @Failure      404  {object}  map[string]string
// @Failure      410  {object}  map[string]string
// @Failure      422  {object}  map[string]string
// @Router       /moderation/sessions/{id}/draft [post]
func (h *ModerationHandler) OpenDraft(c *gin.Context) {
	view, err := h.moderationUseCase.OpenDraft(c.Request.Context(), c.Param("id"), c.GetString("user_id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// UpdateDraft godoc
// @Summary      Edit the feedback draft
// @Tags         moderation
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string        true  "Session ID"
// @Param        request  body      DraftRequest  true  "Fields to change"
// @Success      200  {object}  usecase.SessionView
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      410  {object}  map[string]string
// @Failure      422  {object}  map[string]string
// @Router       /moderation/sessions/{id}/draft [patch]
func (h *ModerationHandler) UpdateDraft(c *gin.Context) {
	var req DraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	view, err := h.moderationUseCase.UpdateDraft(c.Request.Context(), c.Param("id"), c.GetString("user_id"), req.Reason, req.Comment)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// CloseDraft godoc
// @Summary      Discard the feedback draft
// @Tags         moderation
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Session ID"
// @Success      200  {object}  usecase.SessionView
// @Failure      404  {object}  map[string]string
// @Router       /moderation/sessions/{id}/draft [delete]
func (h *ModerationHandler) CloseDraft(c *gin.Context) {
	view, err := h.moderationUseCase.CloseDraft(c.Request.Context(), c.Param("id"), c.GetString("user_id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// MovePrevious godoc
// @Summary      Go to the previous ad
// @Tags         moderation
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Session ID"
// @Success      200  {object}  usecase.SessionView
// @Failure      404  {object}  map[string]string
// @Failure      410  {object}  map[string]string
// @Router       /moderation/sessions/{id}/previous [post]
func (h *ModerationHandler) MovePrevious(c *gin.Context) {
	view, err := h.moderationUseCase.MovePrevious(c.Request.Context(), c.Param("id"), c.GetString("user_id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// MoveNext godoc
// @Summary      Go to the next ad
// @Tags         moderation
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Session ID"
// @Success      200  {object}  usecase.SessionView
// @Failure      404  {object}  map[string]string
// @Failure      410  {object}  map[string]string
// @Router       /moderation/sessions/{id}/next [post]
func (h *ModerationHandler) MoveNext(c *gin.Context) {
	view, err := h.moderationUseCase.MoveNext(c.Request.Context(), c.Param("id"), c.GetString("user_id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// SessionDecisions godoc
// @Summary      Decisions made in a session
// @Tags         moderation
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Session ID"
// @Success      200  {array}   entity.Decision
// @Failure      404  {object}  map[string]string
// @Router       /moderation/sessions/{id}/decisions [get]
func (h *ModerationHandler) SessionDecisions(c *gin.Context) {
	decisions, err := h.moderationUseCase.ListSessionDecisions(c.Request.Context(), c.Param("id"), c.GetString("user_id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, decisions)
}

// MyDecisions godoc
// @Summary      Decision history of the current moderator
// @Tags         moderation
// @Produce      json
// @Security     BearerAuth
// @Param        limit   query     int  false  "Page size"  minimum(1)  maximum(100)
// @Param        offset  query     int  false  "Offset"  minimum(0)
// @Success      200  {array}   entity.Decision
// @Failure      400  {object}  map[string]string
// @Router       /moderation/decisions [get]
func (h *ModerationHandler) MyDecisions(c *gin.Context) {
	var query DecisionsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if query.Limit == 0 {
		query.Limit = 20
	}

	decisions, err := h.moderationUseCase.ListModeratorDecisions(c.Request.Context(), c.GetString("user_id"), query.Limit, query.Offset)
	if err != nil {
		h.logger.Error("Failed to list decisions of %s: %v", c.GetString("user_id"), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list decisions"})
		return
	}
	c.JSON(http.StatusOK, decisions)
}
