package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Rakhulsr/go-shop/app/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProductFilter carries the visibility predicates applied on product reads.
type ProductFilter struct {
	OnlyAvailable         bool
	OnlyModeratedFeedback bool
	CategoryID            *uint
}

func (f ProductFilter) apply(db *gorm.DB) *gorm.DB {
	if f.OnlyAvailable {
		db = db.Where("products.is_available = ?", true)
	}
	if f.CategoryID != nil {
		db = db.Where("products.category_id = ?", *f.CategoryID)
	}
	feedback := func(db *gorm.DB) *gorm.DB { return db.Order("title") }
	if f.OnlyModeratedFeedback {
		feedback = func(db *gorm.DB) *gorm.DB { return db.Where("is_moderated = ?", true).Order("title") }
	}
	return db.
		Preload("Category").
		Preload("Materials", func(db *gorm.DB) *gorm.DB { return db.Order("name") }).
		Preload("Images").
		Preload("Feedback", feedback).
		Preload("Feedback.Images")
}

type ProductRepositoryImpl interface {
	WithTx(tx *gorm.DB) ProductRepositoryImpl
	Create(ctx context.Context, product *models.Product) error
	GetByID(ctx context.Context, id uint, filter ProductFilter) (*models.Product, error)
	GetByIDs(ctx context.Context, ids []uint) ([]models.Product, error)
	GetAll(ctx context.Context, filter ProductFilter) ([]models.Product, error)
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id uint) error
	AppendMaterials(ctx context.Context, product *models.Product, materials []models.ProductMaterial) error
	RemoveMaterials(ctx context.Context, product *models.Product, materials []models.ProductMaterial) error
}

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepositoryImpl {
	return &productRepository{db}
}

func (p *productRepository) WithTx(tx *gorm.DB) ProductRepositoryImpl {
	return &productRepository{tx}
}

func (p *productRepository) Create(ctx context.Context, product *models.Product) error {
	return p.db.WithContext(ctx).Omit(clause.Associations).Create(product).Error
}

func (p *productRepository) GetByID(ctx context.Context, id uint, filter ProductFilter) (*models.Product, error) {
	var product models.Product
	err := filter.apply(p.db.WithContext(ctx)).
		Where("products.id = ?", id).
		First(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

func (p *productRepository) GetByIDs(ctx context.Context, ids []uint) ([]models.Product, error) {
	var products []models.Product
	if len(ids) == 0 {
		return products, nil
	}
	if err := p.db.WithContext(ctx).Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (p *productRepository) GetAll(ctx context.Context, filter ProductFilter) ([]models.Product, error) {
	var products []models.Product
	err := filter.apply(p.db.WithContext(ctx)).
		Order("products.category_id, products.name").
		Find(&products).Error
	if err != nil {
		zap.S().Errorf("ProductRepository: failed to list products: %v", err)
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

func (p *productRepository) Update(ctx context.Context, product *models.Product) error {
	return p.db.WithContext(ctx).Omit(clause.Associations).Save(product).Error
}

func (p *productRepository) Delete(ctx context.Context, id uint) error {
	return p.db.WithContext(ctx).Select("Materials").Delete(&models.Product{ID: id}).Error
}

func (p *productRepository) AppendMaterials(ctx context.Context, product *models.Product, materials []models.ProductMaterial) error {
	if len(materials) == 0 {
		return nil
	}
	return p.db.WithContext(ctx).Model(product).Omit("Materials.*").Association("Materials").Append(materials)
}

func (p *productRepository) RemoveMaterials(ctx context.Context, product *models.Product, materials []models.ProductMaterial) error {
	if len(materials) == 0 {
		return nil
	}
	return p.db.WithContext(ctx).Model(product).Association("Materials").Delete(materials)
}
