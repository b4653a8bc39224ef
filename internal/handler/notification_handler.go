package handler

import (
	"errors"
	"math"
	"net/http"
	"strconv"

	"clamio/internal/middleware"
	"clamio/internal/repository"
	"clamio/internal/triage"
	"clamio/internal/ws"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// NotificationHandler exposes the notification store to the triage
// dashboard: filtered listing, aggregate stats and the resolve/dismiss
// transitions. Status changes notify connected sessions so open dashboards
// refresh.
type NotificationHandler struct {
	repo     *repository.NotificationRepository
	alertHub *ws.AlertHub
}

func NewNotificationHandler(repo *repository.NotificationRepository, alertHub *ws.AlertHub) *NotificationHandler {
	return &NotificationHandler{repo: repo, alertHub: alertHub}
}

// List handles GET /admin/notifications.
func (h *NotificationHandler) List(c *gin.Context) {
	page, limit := parsePagination(c)
	f := repository.NotificationFilter{
		Status:   c.Query("status"),
		Type:     c.Query("type"),
		Severity: c.Query("severity"),
		Search:   c.Query("search"),
		Page:     page,
		Limit:    limit,
	}
	list, total, err := h.repo.List(f)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list notifications"})
		return
	}
	pages := int(math.Ceil(float64(total) / float64(limit)))
	c.JSON(http.StatusOK, gin.H{"data": list, "total": total, "pages": pages, "page": page, "limit": limit})
}

// Get handles GET /admin/notifications/:id.
func (h *NotificationHandler) Get(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("id"), 10, 64)
	n, err := h.repo.GetByID(uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "notification not found"})
		return
	}
	c.JSON(http.StatusOK, n)
}

// Stats handles GET /admin/notifications/stats.
func (h *NotificationHandler) Stats(c *gin.Context) {
	stats, err := h.repo.Stats()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load stats"})
		return
	}
	c.JSON(http.StatusOK, stats)
}

// Acknowledge handles PUT /admin/notifications/:id/acknowledge.
func (h *NotificationHandler) Acknowledge(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("id"), 10, 64)
	if err := h.repo.Acknowledge(uint(id)); err != nil {
		h.transitionError(c, err)
		return
	}
	h.alertHub.NotifyRefresh()
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Resolve handles PUT /admin/notifications/:id/resolve.
func (h *NotificationHandler) Resolve(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("id"), 10, 64)
	var req struct {
		Notes string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.repo.Resolve(uint(id), middleware.GetUserID(c), req.Notes); err != nil {
		h.transitionError(c, err)
		return
	}
	h.alertHub.NotifyRefresh()
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Dismiss handles PUT /admin/notifications/:id/dismiss.
func (h *NotificationHandler) Dismiss(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("id"), 10, 64)
	var req struct {
		Reason string `json:"reason"`
	}
	// Body is optional; a missing reason falls back to the default.
	_ = c.ShouldBindJSON(&req)
	if req.Reason == "" {
		req.Reason = triage.DefaultDismissReason
	}
	if err := h.repo.Dismiss(uint(id), req.Reason); err != nil {
		h.transitionError(c, err)
		return
	}
	h.alertHub.NotifyRefresh()
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *NotificationHandler) transitionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "notification not found"})
	case errors.Is(err, repository.ErrNotesRequired):
		c.JSON(http.StatusBadRequest, gin.H{"error": "resolution notes are required"})
	case errors.Is(err, repository.ErrInvalidTransition):
		c.JSON(http.StatusConflict, gin.H{"error": "status transition not allowed"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
	}
}

func parsePagination(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return page, limit
}
