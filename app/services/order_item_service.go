package services

import (
	"context"

	"github.com/Rakhulsr/go-shop/app/models"
	"github.com/Rakhulsr/go-shop/app/repositories"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type OrderItemInput struct {
	Product  uint `json:"product" mapstructure:"product" validate:"required"`
	Order    uint `json:"order" mapstructure:"order" validate:"required"`
	Quantity int  `json:"quantity" mapstructure:"quantity" validate:"required,gte=1,lte=32767"`
}

// OrderItemService manages order lines. Every operation is staff only.
type OrderItemService struct {
	db       *gorm.DB
	items    repositories.OrderItemRepositoryImpl
	products repositories.ProductRepositoryImpl
	orders   repositories.OrderRepositoryImpl
}

func NewOrderItemService(db *gorm.DB, items repositories.OrderItemRepositoryImpl, products repositories.ProductRepositoryImpl, orders repositories.OrderRepositoryImpl) *OrderItemService {
	return &OrderItemService{db: db, items: items, products: products, orders: orders}
}

func (s *OrderItemService) List(ctx context.Context, caller *models.User) ([]models.OrderItem, error) {
	if err := Authorize(caller, 0, StaffOnly); err != nil {
		return nil, err
	}
	return s.items.GetAll(ctx)
}

func (s *OrderItemService) Get(ctx context.Context, caller *models.User, id uint) (*models.OrderItem, error) {
	if err := Authorize(caller, 0, StaffOnly); err != nil {
		return nil, err
	}
	return s.find(ctx, s.items, id)
}

func (s *OrderItemService) find(ctx context.Context, repo repositories.OrderItemRepositoryImpl, id uint) (*models.OrderItem, error) {
	item, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, errors.Wrapf(err, "get order item %d", id)
	}
	if item == nil {
		return nil, ErrNotFound
	}
	return item, nil
}

func (s *OrderItemService) Create(ctx context.Context, caller *models.User, in OrderItemInput) (*models.OrderItem, error) {
	if err := Authorize(caller, 0, StaffOnly); err != nil {
		return nil, err
	}
	if err := validateInput(&in); err != nil {
		return nil, err
	}

	item := &models.OrderItem{ProductID: in.Product, OrderID: in.Order, Quantity: in.Quantity}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.checkRefs(ctx, tx, in); err != nil {
			return err
		}
		if err := s.items.WithTx(tx).Create(ctx, item); err != nil {
			return err
		}
		return s.resetPayment(ctx, tx, in.Order)
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

func (s *OrderItemService) Update(ctx context.Context, caller *models.User, id uint, in OrderItemInput) error {
	if err := Authorize(caller, 0, StaffOnly); err != nil {
		return err
	}
	if err := validateInput(&in); err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.items.WithTx(tx)
		item, err := s.find(ctx, repo, id)
		if err != nil {
			return err
		}
		if err := s.checkRefs(ctx, tx, in); err != nil {
			return err
		}
		previous := item.OrderID
		item.ProductID = in.Product
		item.OrderID = in.Order
		item.Quantity = in.Quantity
		item.Product = models.Product{}
		item.Order = models.Order{}
		if err := repo.Update(ctx, item); err != nil {
			return err
		}
		return s.resetPayment(ctx, tx, previous, in.Order)
	})
}

func (s *OrderItemService) Delete(ctx context.Context, caller *models.User, id uint) error {
	if err := Authorize(caller, 0, StaffOnly); err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.items.WithTx(tx)
		item, err := s.find(ctx, repo, id)
		if err != nil {
			return err
		}
		if err := repo.Delete(ctx, id); err != nil {
			return err
		}
		return s.resetPayment(ctx, tx, item.OrderID)
	})
}

// resetPayment drops the snap transaction of orders whose items changed, so
// the next payment is opened for the new total.
func (s *OrderItemService) resetPayment(ctx context.Context, tx *gorm.DB, orderIDs ...uint) error {
	orders := s.orders.WithTx(tx)
	for _, id := range orderIDs {
		if err := orders.ClearPayment(ctx, id); err != nil {
			return errors.Wrapf(err, "reset payment of order %d", id)
		}
	}
	return nil
}

func (s *OrderItemService) checkRefs(ctx context.Context, tx *gorm.DB, in OrderItemInput) error {
	verr := &ValidationError{}

	products, err := s.products.WithTx(tx).GetByIDs(ctx, []uint{in.Product})
	if err != nil {
		return errors.Wrap(err, "get product")
	}
	if len(products) == 0 {
		verr.Add("product", invalidPKMessage(in.Product))
	}

	order, err := s.orders.WithTx(tx).GetByID(ctx, in.Order)
	if err != nil {
		return errors.Wrap(err, "get order")
	}
	if order == nil {
		verr.Add("order", invalidPKMessage(in.Order))
	}

	if verr.Empty() {
		return nil
	}
	return verr
}
