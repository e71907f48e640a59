package repositories

import (
	"context"
	"errors"

	"github.com/Rakhulsr/go-shop/app/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type OrderFilter struct {
	UserID *uint
}

type OrderRepositoryImpl interface {
	WithTx(tx *gorm.DB) OrderRepositoryImpl
	Create(ctx context.Context, order *models.Order) error
	GetByID(ctx context.Context, id uint) (*models.Order, error)
	GetByPaymentCode(ctx context.Context, code string) (*models.Order, error)
	GetAll(ctx context.Context, filter OrderFilter) ([]models.Order, error)
	Update(ctx context.Context, order *models.Order) error
	SetPayment(ctx context.Context, id uint, code, url string) error
	ClearPayment(ctx context.Context, id uint) error
	MarkPaid(ctx context.Context, id uint) error
	Delete(ctx context.Context, id uint) error
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepositoryImpl {
	return &orderRepository{db: db}
}

func (r *orderRepository) WithTx(tx *gorm.DB) OrderRepositoryImpl {
	return &orderRepository{db: tx}
}

func (r *orderRepository) Create(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(order).Error
}

func (r *orderRepository) preloaded(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("User").
		Preload("Address").
		Preload("OrderItems.Product")
}

func (r *orderRepository) GetByID(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	if err := r.preloaded(ctx).First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) GetByPaymentCode(ctx context.Context, code string) (*models.Order, error) {
	var order models.Order
	if err := r.preloaded(ctx).Where("payment_code = ?", code).First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) GetAll(ctx context.Context, filter OrderFilter) ([]models.Order, error) {
	var orders []models.Order
	query := r.preloaded(ctx).Order("user_id, id")
	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *orderRepository) Update(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(order).Error
}

func (r *orderRepository) SetPayment(ctx context.Context, id uint, code, url string) error {
	return r.db.WithContext(ctx).Model(&models.Order{}).Where("id = ?", id).
		Updates(map[string]interface{}{"payment_code": code, "payment_url": url}).Error
}

// ClearPayment forgets the open transaction of an unpaid order.
func (r *orderRepository) ClearPayment(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Model(&models.Order{}).Where("id = ? AND is_paid = ?", id, false).
		Updates(map[string]interface{}{"payment_code": nil, "payment_url": ""}).Error
}

func (r *orderRepository) MarkPaid(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Model(&models.Order{}).Where("id = ?", id).Update("is_paid", true).Error
}

func (r *orderRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Order{}, id).Error
}
