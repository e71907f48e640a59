package repositories

import (
	"context"
	"errors"

	"github.com/Rakhulsr/go-shop/app/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type OrderItemRepositoryImpl interface {
	WithTx(tx *gorm.DB) OrderItemRepositoryImpl
	Create(ctx context.Context, item *models.OrderItem) error
	GetByID(ctx context.Context, id uint) (*models.OrderItem, error)
	GetAll(ctx context.Context) ([]models.OrderItem, error)
	Update(ctx context.Context, item *models.OrderItem) error
	Delete(ctx context.Context, id uint) error
}

type orderItemRepository struct {
	db *gorm.DB
}

func NewOrderItemRepository(db *gorm.DB) OrderItemRepositoryImpl {
	return &orderItemRepository{db: db}
}

func (r *orderItemRepository) WithTx(tx *gorm.DB) OrderItemRepositoryImpl {
	return &orderItemRepository{db: tx}
}

func (r *orderItemRepository) Create(ctx context.Context, item *models.OrderItem) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(item).Error
}

func (r *orderItemRepository) GetByID(ctx context.Context, id uint) (*models.OrderItem, error) {
	var item models.OrderItem
	err := r.db.WithContext(ctx).
		Preload("Product.Category").
		Preload("Order").
		First(&item, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

func (r *orderItemRepository) GetAll(ctx context.Context) ([]models.OrderItem, error) {
	var items []models.OrderItem
	err := r.db.WithContext(ctx).
		Preload("Product.Category").
		Preload("Order").
		Order("order_id, product_id").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *orderItemRepository) Update(ctx context.Context, item *models.OrderItem) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(item).Error
}

func (r *orderItemRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.OrderItem{}, id).Error
}
