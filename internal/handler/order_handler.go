package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"clamio/internal/domain"
	"clamio/internal/middleware"
	"clamio/internal/models"
	"clamio/internal/repository"
	"clamio/internal/tracker"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// OrderHandler runs the claim/reverse/mark-ready/label operations. Every
// action is wrapped in a tracked call: a failure is classified into a
// triage notification and the original error still reaches the caller.
type OrderHandler struct {
	repo    *repository.OrderRepository
	tracker *tracker.Tracker
}

func NewOrderHandler(repo *repository.OrderRepository, trk *tracker.Tracker) *OrderHandler {
	return &OrderHandler{repo: repo, tracker: trk}
}

// sessionFrom builds the explicit tracking identity from the authenticated
// request.
func sessionFrom(c *gin.Context) *tracker.Session {
	return &tracker.Session{
		UserID:    middleware.GetUserID(c),
		Email:     middleware.GetEmail(c),
		Role:      middleware.GetRole(c),
		Origin:    c.GetHeader("Origin"),
		UserAgent: c.Request.UserAgent(),
	}
}

// List handles GET /orders.
func (h *OrderHandler) List(c *gin.Context) {
	page, limit := parsePagination(c)
	vendorID, _ := strconv.ParseUint(c.Query("vendor_id"), 10, 64)
	f := repository.OrderFilter{
		Status:   c.Query("status"),
		VendorID: uint(vendorID),
		Search:   c.Query("search"),
		Page:     page,
		Limit:    limit,
	}
	list, total, err := h.repo.List(f)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list orders"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": list, "total": total, "page": page, "limit": limit})
}

// Claim handles POST /orders/:order_id/claim.
func (h *OrderHandler) Claim(c *gin.Context) {
	orderID := c.Param("order_id")
	sess := sessionFrom(c)
	var order *models.Order
	err := h.tracker.TrackedCall(sess, domain.OpClaimOrder, h.orderCtx(c, orderID), func() error {
		var err error
		order, err = h.repo.Claim(orderID, sess.UserID)
		return err
	})
	if err != nil {
		h.orderError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// BulkClaim handles POST /orders/bulk-claim.
func (h *OrderHandler) BulkClaim(c *gin.Context) {
	h.bulkAction(c, domain.OpBulkClaimOrders, func(orderID string, sess *tracker.Session) error {
		_, err := h.repo.Claim(orderID, sess.UserID)
		return err
	})
}

// Reverse handles POST /orders/:order_id/reverse.
func (h *OrderHandler) Reverse(c *gin.Context) {
	orderID := c.Param("order_id")
	var order *models.Order
	err := h.tracker.TrackedCall(sessionFrom(c), domain.OpReverseOrder, h.orderCtx(c, orderID), func() error {
		var err error
		order, err = h.repo.Reverse(orderID)
		return err
	})
	if err != nil {
		h.orderError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// BulkReverse handles POST /orders/bulk-reverse.
func (h *OrderHandler) BulkReverse(c *gin.Context) {
	h.bulkAction(c, domain.OpBulkReverseOrders, func(orderID string, _ *tracker.Session) error {
		_, err := h.repo.Reverse(orderID)
		return err
	})
}

// MarkReady handles POST /orders/:order_id/ready.
func (h *OrderHandler) MarkReady(c *gin.Context) {
	orderID := c.Param("order_id")
	var order *models.Order
	err := h.tracker.TrackedCall(sessionFrom(c), domain.OpMarkReady, h.orderCtx(c, orderID), func() error {
		var err error
		order, err = h.repo.MarkReady(orderID)
		return err
	})
	if err != nil {
		h.orderError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// BulkMarkReady handles POST /orders/bulk-ready.
func (h *OrderHandler) BulkMarkReady(c *gin.Context) {
	h.bulkAction(c, domain.OpBulkMarkReady, func(orderID string, _ *tracker.Session) error {
		_, err := h.repo.MarkReady(orderID)
		return err
	})
}

// Label handles GET /orders/:order_id/label.
func (h *OrderHandler) Label(c *gin.Context) {
	orderID := c.Param("order_id")
	var url string
	err := h.tracker.TrackedCall(sessionFrom(c), domain.OpDownloadLabel, h.orderCtx(c, orderID), func() error {
		var err error
		url, err = h.repo.LabelURL(orderID)
		return err
	})
	if err != nil {
		h.orderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"order_id": orderID, "label_url": url})
}

// BulkLabels handles POST /orders/bulk-labels.
func (h *OrderHandler) BulkLabels(c *gin.Context) {
	var req struct {
		OrderIDs []string `json:"order_ids" binding:"required,min=1"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	sess := sessionFrom(c)
	labels := make(map[string]string, len(req.OrderIDs))
	var failed []string
	for _, orderID := range req.OrderIDs {
		err := h.tracker.TrackedCall(sess, domain.OpBulkDownloadLabels, h.orderCtx(c, orderID), func() error {
			url, err := h.repo.LabelURL(orderID)
			if err != nil {
				return err
			}
			labels[orderID] = url
			return nil
		})
		if err != nil {
			failed = append(failed, orderID)
		}
	}
	c.JSON(http.StatusOK, gin.H{"labels": labels, "failed": failed})
}

// bulkAction applies one repo operation per order id, tracking each failure
// under the bulk operation name.
func (h *OrderHandler) bulkAction(c *gin.Context, operation string, fn func(orderID string, sess *tracker.Session) error) {
	var req struct {
		OrderIDs []string `json:"order_ids" binding:"required,min=1"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	sess := sessionFrom(c)
	var done, failed []string
	for _, orderID := range req.OrderIDs {
		err := h.tracker.TrackedCall(sess, operation, h.orderCtx(c, orderID), func() error {
			return fn(orderID, sess)
		})
		if err != nil {
			failed = append(failed, orderID)
		} else {
			done = append(done, orderID)
		}
	}
	c.JSON(http.StatusOK, gin.H{"succeeded": done, "failed": failed})
}

func (h *OrderHandler) orderCtx(c *gin.Context, orderID string) tracker.ErrorContext {
	return tracker.ErrorContext{
		Component: "orders",
		Action:    c.FullPath(),
		OrderID:   orderID,
		Endpoint:  c.Request.URL.Path,
		Method:    c.Request.Method,
	}
}

func (h *OrderHandler) orderError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
	case errors.Is(err, repository.ErrOrderNotClaimable),
		errors.Is(err, repository.ErrOrderNotClaimed):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, repository.ErrLabelNotAvailable):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("operation failed: %v", err)})
	}
}
