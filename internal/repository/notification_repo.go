package repository

import (
	"errors"
	"strings"
	"time"

	"clamio/internal/domain"
	"clamio/internal/models"

	"gorm.io/gorm"
)

var (
	ErrInvalidTransition = errors.New("notification status transition not allowed")
	ErrNotesRequired     = errors.New("resolution notes are required")
)

// NotificationFilter selects a page of notifications. Zero values mean
// "no filter"; Search matches title, message and order id.
type NotificationFilter struct {
	Status   string
	Type     string
	Severity string
	Search   string
	Page     int
	Limit    int
}

type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) Create(n *models.Notification) error {
	if n.Status == "" {
		n.Status = domain.StatusPending
	}
	return r.db.Create(n).Error
}

func (r *NotificationRepository) GetByID(id uint) (*models.Notification, error) {
	var n models.Notification
	err := r.db.First(&n, id).Error
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// List returns notifications with filters and pagination, newest first.
func (r *NotificationRepository) List(f NotificationFilter) ([]models.Notification, int64, error) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 || f.Limit > 100 {
		f.Limit = 20
	}
	q := r.db.Model(&models.Notification{})
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Type != "" {
		q = q.Where("type = ?", f.Type)
	}
	if f.Severity != "" {
		q = q.Where("severity = ?", f.Severity)
	}
	if f.Search != "" {
		like := "%" + f.Search + "%"
		q = q.Where("title LIKE ? OR message LIKE ? OR order_id LIKE ?", like, like, like)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var list []models.Notification
	err := q.Order("created_at DESC").Limit(f.Limit).Offset((f.Page - 1) * f.Limit).Find(&list).Error
	return list, total, err
}

// Acknowledge moves a pending notification to in_progress.
func (r *NotificationRepository) Acknowledge(id uint) error {
	return r.transition(id, domain.StatusInProgress, nil)
}

// Resolve closes a notification with non-empty notes. Severity and type are
// never touched by this update.
func (r *NotificationRepository) Resolve(id, resolvedBy uint, notes string) error {
	notes = strings.TrimSpace(notes)
	if notes == "" {
		return ErrNotesRequired
	}
	now := time.Now()
	return r.transition(id, domain.StatusResolved, map[string]interface{}{
		"resolved_by":      resolvedBy,
		"resolved_at":      &now,
		"resolution_notes": notes,
	})
}

// Dismiss closes a notification without resolution. Reason defaults at the
// caller; the stored value is whatever was supplied.
func (r *NotificationRepository) Dismiss(id uint, reason string) error {
	return r.transition(id, domain.StatusDismissed, map[string]interface{}{
		"dismiss_reason": reason,
	})
}

func (r *NotificationRepository) transition(id uint, to string, extra map[string]interface{}) error {
	var n models.Notification
	if err := r.db.First(&n, id).Error; err != nil {
		return err
	}
	if !domain.CanTransition(n.Status, to) {
		return ErrInvalidTransition
	}
	updates := map[string]interface{}{"status": to}
	for k, v := range extra {
		updates[k] = v
	}
	// Guard on the previous status so a concurrent transition loses cleanly.
	res := r.db.Model(&models.Notification{}).Where("id = ? AND status = ?", id, n.Status).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrInvalidTransition
	}
	return nil
}

// NotificationStats aggregates counts for the triage dashboard.
type NotificationStats struct {
	Total      int64 `json:"total"`
	Pending    int64 `json:"pending"`
	InProgress int64 `json:"in_progress"`
	Resolved   int64 `json:"resolved"`
	Dismissed  int64 `json:"dismissed"`
	Critical   int64 `json:"critical"`
	High       int64 `json:"high"`
	Medium     int64 `json:"medium"`
	Low        int64 `json:"low"`
}

func (r *NotificationRepository) Stats() (*NotificationStats, error) {
	var s NotificationStats
	m := r.db.Model(&models.Notification{})
	if err := m.Count(&s.Total).Error; err != nil {
		return nil, err
	}
	r.db.Model(&models.Notification{}).Where("status = ?", domain.StatusPending).Count(&s.Pending)
	r.db.Model(&models.Notification{}).Where("status = ?", domain.StatusInProgress).Count(&s.InProgress)
	r.db.Model(&models.Notification{}).Where("status = ?", domain.StatusResolved).Count(&s.Resolved)
	r.db.Model(&models.Notification{}).Where("status = ?", domain.StatusDismissed).Count(&s.Dismissed)
	r.db.Model(&models.Notification{}).Where("severity = ?", domain.SeverityCritical).Count(&s.Critical)
	r.db.Model(&models.Notification{}).Where("severity = ?", domain.SeverityHigh).Count(&s.High)
	r.db.Model(&models.Notification{}).Where("severity = ?", domain.SeverityMedium).Count(&s.Medium)
	r.db.Model(&models.Notification{}).Where("severity = ?", domain.SeverityLow).Count(&s.Low)
	return &s, nil
}
