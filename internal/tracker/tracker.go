package tracker

import (
	"encoding/json"
	"log"
	"time"

	"clamio/internal/domain"
	"clamio/internal/models"
)

// Session is the acting identity, passed explicitly per call. Origin and
// UserAgent are captured into the notification's forensic snapshot.
type Session struct {
	UserID    uint
	Email     string
	Role      string
	Origin    string
	UserAgent string
}

// ErrorInfo describes the raw failure being classified.
type ErrorInfo struct {
	Type    string `json:"type,omitempty"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
	Stack   string `json:"stack,omitempty"`
}

// ErrorContext carries optional request correlation for the snapshot.
type ErrorContext struct {
	Component  string `json:"component,omitempty"`
	Action     string `json:"action,omitempty"`
	OrderID    string `json:"order_id,omitempty"`
	VendorID   uint   `json:"vendor_id,omitempty"`
	VendorName string `json:"vendor_name,omitempty"`
	Endpoint   string `json:"endpoint,omitempty"`
	Method     string `json:"method,omitempty"`
	StatusCode int    `json:"status_code,omitempty"`
	RetryCount int    `json:"retry_count,omitempty"`
}

// Store persists classified notifications.
type Store interface {
	Create(n *models.Notification) error
}

// Dispatcher fans a freshly created notification out to subscribed admin
// sessions. Delivery failures never propagate back to tracking.
type Dispatcher interface {
	Deliver(n *models.Notification)
}

// Tracker classifies raw operation failures into severity-ranked
// notifications. Tracking must never break a business flow: Track swallows
// every internal failure, and TrackedCall always returns the original error.
type Tracker struct {
	store      Store
	dispatcher Dispatcher
	enabled    bool
}

func New(store Store, dispatcher Dispatcher, enabled bool) *Tracker {
	return &Tracker{store: store, dispatcher: dispatcher, enabled: enabled}
}

// Track classifies one failure and submits exactly one notification.
// Silent no-op when tracking is disabled or the acting identity is unknown.
func (t *Tracker) Track(sess *Session, operation string, e ErrorInfo, ctx ErrorContext) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[TRACK] recovered: %v", r)
		}
	}()
	if t == nil || !t.enabled || sess == nil || sess.UserID == 0 {
		return
	}

	errType := e.Type
	if errType == "" {
		errType = InferType(e.Code, e.Message)
	}
	severity := AssignSeverity(errType, operation, e.Message)

	notifType, ok := domain.OperationNotifTypes[operation]
	if !ok {
		notifType = domain.NotifTypeSystem
	}

	metadata, _ := json.Marshal(map[string]interface{}{
		"operation":  operation,
		"error_type": errType,
		"error_code": e.Code,
		"component":  ctx.Component,
		"action":     ctx.Action,
		"timestamp":  time.Now().Format(time.RFC3339),
		"origin":     sess.Origin,
		"user_agent": sess.UserAgent,
	})
	details, _ := json.Marshal(map[string]interface{}{
		"message": e.Message,
		"stack":   e.Stack,
		"context": ctx,
	})
	detailsStr := string(details)

	n := &models.Notification{
		Type:         notifType,
		Severity:     severity,
		Title:        ComposeTitle(operation, ctx.OrderID),
		Message:      ComposeMessage(operation, e.Message, ctx.OrderID),
		Status:       domain.StatusPending,
		Metadata:     string(metadata),
		ErrorDetails: &detailsStr,
	}
	if ctx.OrderID != "" {
		n.OrderID = &ctx.OrderID
	}
	if ctx.VendorID != 0 {
		n.VendorID = &ctx.VendorID
	}
	if ctx.VendorName != "" {
		n.VendorName = &ctx.VendorName
	}

	if err := t.store.Create(n); err != nil {
		log.Printf("[TRACK] persist notification: %v", err)
		return
	}
	if t.dispatcher != nil {
		t.dispatcher.Deliver(n)
	}
}

// TrackedCall runs fn and classifies its failure. The original error is
// always returned unchanged to the caller.
func (t *Tracker) TrackedCall(sess *Session, operation string, ctx ErrorContext, fn func() error) error {
	err := fn()
	if err != nil {
		t.Track(sess, operation, ErrorInfo{Message: err.Error()}, ctx)
	}
	return err
}
