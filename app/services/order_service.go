package services

import (
	"context"

	"github.com/Rakhulsr/go-shop/app/models"
	"github.com/Rakhulsr/go-shop/app/repositories"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type OrderInput struct {
	Address uint `json:"address" mapstructure:"address" validate:"required"`
}

type OrderService struct {
	db        *gorm.DB
	orders    repositories.OrderRepositoryImpl
	addresses repositories.AddressRepositoryImpl
}

func NewOrderService(db *gorm.DB, orders repositories.OrderRepositoryImpl, addresses repositories.AddressRepositoryImpl) *OrderService {
	return &OrderService{db: db, orders: orders, addresses: addresses}
}

func (s *OrderService) List(ctx context.Context, caller *models.User) ([]models.Order, error) {
	if err := Authorize(caller, 0, Authenticated); err != nil {
		return nil, err
	}
	var filter repositories.OrderFilter
	if !IsStaff(caller) {
		filter.UserID = &caller.ID
	}
	return s.orders.GetAll(ctx, filter)
}

func (s *OrderService) Get(ctx context.Context, caller *models.User, id uint) (*models.Order, error) {
	return s.owned(ctx, s.orders, caller, id)
}

func (s *OrderService) owned(ctx context.Context, repo repositories.OrderRepositoryImpl, caller *models.User, id uint) (*models.Order, error) {
	if err := Authorize(caller, 0, Authenticated); err != nil {
		return nil, err
	}
	order, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, errors.Wrapf(err, "get order %d", id)
	}
	if order == nil {
		return nil, ErrNotFound
	}
	if err := Authorize(caller, order.UserID, OwnerOrAdmin); err != nil {
		return nil, err
	}
	return order, nil
}

func (s *OrderService) Create(ctx context.Context, caller *models.User, in OrderInput) (*models.Order, error) {
	if err := Authorize(caller, 0, Authenticated); err != nil {
		return nil, err
	}
	if err := validateInput(&in); err != nil {
		return nil, err
	}

	order := &models.Order{UserID: caller.ID, AddressID: in.Address}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.requireAddress(ctx, tx, caller, in.Address); err != nil {
			return err
		}
		return s.orders.WithTx(tx).Create(ctx, order)
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// Update moves the order to another address. Paid orders keep theirs.
func (s *OrderService) Update(ctx context.Context, caller *models.User, id uint, in OrderInput) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.orders.WithTx(tx)
		order, err := s.owned(ctx, repo, caller, id)
		if err != nil {
			return err
		}
		if err := validateInput(&in); err != nil {
			return err
		}
		if order.AddressID == in.Address {
			return nil
		}
		if order.IsPaid {
			return NewValidationError("address", "Address of a paid order cannot be changed.")
		}
		if err := s.requireAddress(ctx, tx, caller, in.Address); err != nil {
			return err
		}
		order.AddressID = in.Address
		order.Address = models.Address{}
		order.User = models.User{}
		order.OrderItems = nil
		return repo.Update(ctx, order)
	})
}

func (s *OrderService) Delete(ctx context.Context, caller *models.User, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.orders.WithTx(tx)
		if _, err := s.owned(ctx, repo, caller, id); err != nil {
			return err
		}
		return repo.Delete(ctx, id)
	})
}

// requireAddress accepts only addresses the caller may ship to: their own,
// or any address for staff.
func (s *OrderService) requireAddress(ctx context.Context, tx *gorm.DB, caller *models.User, id uint) error {
	address, err := s.addresses.WithTx(tx).FindByID(ctx, id)
	if err != nil {
		return errors.Wrap(err, "get address")
	}
	if address == nil || !OwnerOrAdmin(caller, address.UserID) {
		return invalidPK("address", id)
	}
	return nil
}
