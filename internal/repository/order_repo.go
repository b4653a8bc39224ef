package repository

import (
	"errors"
	"time"

	"clamio/internal/domain"
	"clamio/internal/models"

	"gorm.io/gorm"
)

var (
	ErrOrderNotClaimable = errors.New("order is not in a claimable state")
	ErrOrderNotClaimed   = errors.New("order has not been claimed")
	ErrLabelNotAvailable = errors.New("no shipping label available for order")
)

// OrderFilter selects a page of orders.
type OrderFilter struct {
	Status   string
	VendorID uint
	Search   string
	Page     int
	Limit    int
}

type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

func (r *OrderRepository) Create(o *models.Order) error {
	return r.db.Create(o).Error
}

func (r *OrderRepository) GetByOrderID(orderID string) (*models.Order, error) {
	var o models.Order
	err := r.db.Where("order_id = ?", orderID).First(&o).Error
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *OrderRepository) List(f OrderFilter) ([]models.Order, int64, error) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 || f.Limit > 100 {
		f.Limit = 20
	}
	q := r.db.Model(&models.Order{})
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.VendorID != 0 {
		q = q.Where("vendor_id = ?", f.VendorID)
	}
	if f.Search != "" {
		like := "%" + f.Search + "%"
		q = q.Where("order_id LIKE ? OR vendor_name LIKE ? OR product LIKE ?", like, like, like)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var list []models.Order
	err := q.Order("created_at DESC").Limit(f.Limit).Offset((f.Page - 1) * f.Limit).Find(&list).Error
	return list, total, err
}

// Claim marks an unclaimed order as claimed by the given operator.
func (r *OrderRepository) Claim(orderID string, userID uint) (*models.Order, error) {
	o, err := r.GetByOrderID(orderID)
	if err != nil {
		return nil, err
	}
	if o.Status != domain.OrderUnclaimed {
		return nil, ErrOrderNotClaimable
	}
	now := time.Now()
	res := r.db.Model(&models.Order{}).
		Where("order_id = ? AND status = ?", orderID, domain.OrderUnclaimed).
		Updates(map[string]interface{}{"status": domain.OrderClaimed, "claimed_by": userID, "claimed_at": &now})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrOrderNotClaimable
	}
	return r.GetByOrderID(orderID)
}

// Reverse returns a claimed order to the unclaimed pool.
func (r *OrderRepository) Reverse(orderID string) (*models.Order, error) {
	res := r.db.Model(&models.Order{}).
		Where("order_id = ? AND status = ?", orderID, domain.OrderClaimed).
		Updates(map[string]interface{}{"status": domain.OrderUnclaimed, "claimed_by": nil, "claimed_at": nil})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrOrderNotClaimed
	}
	return r.GetByOrderID(orderID)
}

// MarkReady transitions a claimed order to ready-to-ship.
func (r *OrderRepository) MarkReady(orderID string) (*models.Order, error) {
	res := r.db.Model(&models.Order{}).
		Where("order_id = ? AND status = ?", orderID, domain.OrderClaimed).
		Update("status", domain.OrderReadyToShip)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrOrderNotClaimed
	}
	return r.GetByOrderID(orderID)
}

// LabelURL returns the shipping label location for a claimed order.
func (r *OrderRepository) LabelURL(orderID string) (string, error) {
	o, err := r.GetByOrderID(orderID)
	if err != nil {
		return "", err
	}
	if o.LabelURL == "" {
		return "", ErrLabelNotAvailable
	}
	return o.LabelURL, nil
}
