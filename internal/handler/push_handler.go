package handler

import (
	"errors"
	"net/http"

	"clamio/internal/middleware"
	"clamio/internal/push"

	"github.com/gin-gonic/gin"
)

// PushHandler is the subscription backend for admin alert delivery: VAPID
// key exchange, permission reporting and the subscribe/unsubscribe
// lifecycle.
type PushHandler struct {
	manager  *push.Manager
	fallback *push.Fallback
}

func NewPushHandler(manager *push.Manager, fallback *push.Fallback) *PushHandler {
	return &PushHandler{manager: manager, fallback: fallback}
}

// VapidKey handles GET /admin/push/vapid-key. An absent key means the push
// endpoint channel is unavailable and clients should use the fallback.
func (h *PushHandler) VapidKey(c *gin.Context) {
	key := h.manager.VapidPublicKey()
	if key == "" {
		c.JSON(http.StatusOK, gin.H{"vapid_public_key": nil, "push_available": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"vapid_public_key": key, "push_available": true})
}

// Status handles GET /admin/push/status?permission=granted.
func (h *PushHandler) Status(c *gin.Context) {
	perm := push.Permission(c.DefaultQuery("permission", string(push.PermissionDefault)))
	state, err := h.manager.Status(middleware.GetUserID(c), perm)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load subscription"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"state":         state,
		"is_subscribed": state == push.StateGrantedSubscribed,
	})
}

// ReportPermission handles POST /admin/push/permission. The client reports
// the outcome of a browser permission request.
func (h *PushHandler) ReportPermission(c *gin.Context) {
	var req struct {
		Permission string `json:"permission" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	state, err := h.manager.RecordPermission(middleware.GetUserID(c), push.Permission(req.Permission))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to record permission"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"state": state})
}

// Subscribe handles POST /admin/push/subscribe.
func (h *PushHandler) Subscribe(c *gin.Context) {
	var req struct {
		Permission string            `json:"permission" binding:"required"`
		Keys       *push.WebPushKeys `json:"keys"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	state, err := h.manager.Subscribe(middleware.GetUserID(c), push.Permission(req.Permission), req.Keys)
	if err != nil {
		h.subscriptionError(c, state, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"state": state, "is_subscribed": true})
}

// Unsubscribe handles DELETE /admin/push/subscription.
func (h *PushHandler) Unsubscribe(c *gin.Context) {
	state, err := h.manager.Unsubscribe(middleware.GetUserID(c))
	if err != nil {
		h.subscriptionError(c, state, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"state": state, "is_subscribed": false})
}

// EnableFallback handles POST /admin/push/fallback.
func (h *PushHandler) EnableFallback(c *gin.Context) {
	var req struct {
		Permission string `json:"permission" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	enabled, err := h.fallback.Enable(middleware.GetUserID(c), push.Permission(req.Permission))
	if err != nil {
		h.subscriptionError(c, push.StatePermissionDenied, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"fallback_enabled": enabled})
}

// DisableFallback handles DELETE /admin/push/fallback.
func (h *PushHandler) DisableFallback(c *gin.Context) {
	if err := h.fallback.Disable(middleware.GetUserID(c)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to disable fallback alerts"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"fallback_enabled": false})
}

// subscriptionError maps the failure taxonomy to HTTP status plus humanized
// guidance, so the UI can roll back its toggle and explain why.
func (h *PushHandler) subscriptionError(c *gin.Context, state push.State, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, push.ErrPermissionDenied):
		status = http.StatusForbidden
	case errors.Is(err, push.ErrUnsupported):
		status = http.StatusBadRequest
	case errors.Is(err, push.ErrServerRejected):
		status = http.StatusBadGateway
	}
	c.JSON(status, gin.H{
		"error":    err.Error(),
		"guidance": push.Guidance(err),
		"state":    state,
	})
}
