package services

import (
	"context"

	"github.com/Rakhulsr/go-shop/app/models"
	"github.com/Rakhulsr/go-shop/app/repositories"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type AddressInput struct {
	Country     string `json:"country" mapstructure:"country" validate:"required,max=255"`
	Region      string `json:"region" mapstructure:"region" validate:"required,max=255"`
	City        string `json:"city" mapstructure:"city" validate:"required,max=255"`
	Street      string `json:"street" mapstructure:"street" validate:"required,max=255"`
	HouseNumber string `json:"house_number" mapstructure:"house_number" validate:"required,max=255"`
	FlatNumber  string `json:"flat_number" mapstructure:"flat_number" validate:"required,max=255"`
	PostalCode  uint   `json:"postal_code" mapstructure:"postal_code" validate:"required"`
}

func (in AddressInput) apply(address *models.Address) {
	address.Country = in.Country
	address.Region = in.Region
	address.City = in.City
	address.Street = in.Street
	address.HouseNumber = in.HouseNumber
	address.FlatNumber = in.FlatNumber
	address.PostalCode = in.PostalCode
}

type AddressService struct {
	db        *gorm.DB
	addresses repositories.AddressRepositoryImpl
}

func NewAddressService(db *gorm.DB, addresses repositories.AddressRepositoryImpl) *AddressService {
	return &AddressService{db: db, addresses: addresses}
}

// List returns every address to staff and the caller's own otherwise.
func (s *AddressService) List(ctx context.Context, caller *models.User) ([]models.Address, error) {
	if err := Authorize(caller, 0, Authenticated); err != nil {
		return nil, err
	}
	var filter repositories.AddressFilter
	if !IsStaff(caller) {
		filter.UserID = &caller.ID
	}
	return s.addresses.GetAll(ctx, filter)
}

func (s *AddressService) Get(ctx context.Context, caller *models.User, id uint) (*models.Address, error) {
	return s.owned(ctx, s.addresses, caller, id)
}

func (s *AddressService) owned(ctx context.Context, repo repositories.AddressRepositoryImpl, caller *models.User, id uint) (*models.Address, error) {
	if err := Authorize(caller, 0, Authenticated); err != nil {
		return nil, err
	}
	address, err := repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.Wrapf(err, "get address %d", id)
	}
	if address == nil {
		return nil, ErrNotFound
	}
	if err := Authorize(caller, address.UserID, OwnerOrAdmin); err != nil {
		return nil, err
	}
	return address, nil
}

func (s *AddressService) Create(ctx context.Context, caller *models.User, in AddressInput) (*models.Address, error) {
	if err := Authorize(caller, 0, Authenticated); err != nil {
		return nil, err
	}
	if err := validateInput(&in); err != nil {
		return nil, err
	}
	address := &models.Address{UserID: caller.ID}
	in.apply(address)
	if err := s.addresses.Create(ctx, address); err != nil {
		return nil, errors.Wrap(err, "create address")
	}
	return address, nil
}

func (s *AddressService) Update(ctx context.Context, caller *models.User, id uint, in AddressInput) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.addresses.WithTx(tx)
		address, err := s.owned(ctx, repo, caller, id)
		if err != nil {
			return err
		}
		if err := validateInput(&in); err != nil {
			return err
		}
		in.apply(address)
		return repo.Update(ctx, address)
	})
}

// Delete removes the address and the orders shipped to it.
func (s *AddressService) Delete(ctx context.Context, caller *models.User, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.addresses.WithTx(tx)
		if _, err := s.owned(ctx, repo, caller, id); err != nil {
			return err
		}
		return repo.Delete(ctx, id)
	})
}
