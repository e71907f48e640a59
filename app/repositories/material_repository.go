package repositories

import (
	"context"
	"errors"

	"github.com/Rakhulsr/go-shop/app/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type MaterialRepositoryImpl interface {
	WithTx(tx *gorm.DB) MaterialRepositoryImpl
	Create(ctx context.Context, material *models.ProductMaterial) error
	GetByID(ctx context.Context, id uint) (*models.ProductMaterial, error)
	GetByName(ctx context.Context, name string) (*models.ProductMaterial, error)
	GetAll(ctx context.Context) ([]models.ProductMaterial, error)
	Rename(ctx context.Context, id uint, name string) error
	Delete(ctx context.Context, id uint) error
	AppendProducts(ctx context.Context, material *models.ProductMaterial, products []models.Product) error
}

type materialRepository struct {
	db *gorm.DB
}

func NewMaterialRepository(db *gorm.DB) MaterialRepositoryImpl {
	return &materialRepository{db: db}
}

func (r *materialRepository) WithTx(tx *gorm.DB) MaterialRepositoryImpl {
	return &materialRepository{db: tx}
}

func (r *materialRepository) Create(ctx context.Context, material *models.ProductMaterial) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(material).Error
}

func (r *materialRepository) GetByID(ctx context.Context, id uint) (*models.ProductMaterial, error) {
	var material models.ProductMaterial
	err := r.db.WithContext(ctx).Preload("Products").First(&material, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &material, nil
}

func (r *materialRepository) GetByName(ctx context.Context, name string) (*models.ProductMaterial, error) {
	var material models.ProductMaterial
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&material).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &material, nil
}

func (r *materialRepository) GetAll(ctx context.Context) ([]models.ProductMaterial, error) {
	var materials []models.ProductMaterial
	if err := r.db.WithContext(ctx).Preload("Products").Order("name").Find(&materials).Error; err != nil {
		return nil, err
	}
	return materials, nil
}

func (r *materialRepository) Rename(ctx context.Context, id uint, name string) error {
	return r.db.WithContext(ctx).Model(&models.ProductMaterial{ID: id}).Update("name", name).Error
}

func (r *materialRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Select("Products").Delete(&models.ProductMaterial{ID: id}).Error
}

func (r *materialRepository) AppendProducts(ctx context.Context, material *models.ProductMaterial, products []models.Product) error {
	if len(products) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(material).Omit("Products.*").Association("Products").Append(products)
}
