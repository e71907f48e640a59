package repositories

import (
	"context"
	"errors"

	"github.com/Rakhulsr/go-shop/app/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AddressFilter restricts listings to one user when UserID is set.
type AddressFilter struct {
	UserID *uint
}

type AddressRepositoryImpl interface {
	WithTx(tx *gorm.DB) AddressRepositoryImpl
	Create(ctx context.Context, address *models.Address) error
	FindByID(ctx context.Context, id uint) (*models.Address, error)
	GetAll(ctx context.Context, filter AddressFilter) ([]models.Address, error)
	Update(ctx context.Context, address *models.Address) error
	Delete(ctx context.Context, id uint) error
}

type addressRepository struct {
	db *gorm.DB
}

func NewAddressRepository(db *gorm.DB) AddressRepositoryImpl {
	return &addressRepository{db: db}
}

func (r *addressRepository) WithTx(tx *gorm.DB) AddressRepositoryImpl {
	return &addressRepository{db: tx}
}

func (r *addressRepository) Create(ctx context.Context, address *models.Address) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(address).Error
}

func (r *addressRepository) FindByID(ctx context.Context, id uint) (*models.Address, error) {
	var address models.Address
	if err := r.db.WithContext(ctx).First(&address, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &address, nil
}

func (r *addressRepository) GetAll(ctx context.Context, filter AddressFilter) ([]models.Address, error) {
	var addresses []models.Address
	query := r.db.WithContext(ctx).Order("user_id, id")
	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if err := query.Find(&addresses).Error; err != nil {
		return nil, err
	}
	return addresses, nil
}

func (r *addressRepository) Update(ctx context.Context, address *models.Address) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(address).Error
}

func (r *addressRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Address{}, id).Error
}
