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

type CategoryRepositoryImpl interface {
	WithTx(tx *gorm.DB) CategoryRepositoryImpl
	Create(ctx context.Context, category *models.Category) error
	GetByID(ctx context.Context, id uint) (*models.Category, error)
	GetAll(ctx context.Context) ([]models.Category, error)
	Exists(ctx context.Context, id uint) (bool, error)
	ParentOf(ctx context.Context, id uint) (*uint, error)
	Update(ctx context.Context, category *models.Category) error
	Delete(ctx context.Context, id uint) error
}

type categoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) CategoryRepositoryImpl {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) WithTx(tx *gorm.DB) CategoryRepositoryImpl {
	return &categoryRepository{db: tx}
}

func (r *categoryRepository) Create(ctx context.Context, category *models.Category) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(category).Error
}

func (r *categoryRepository) withTree(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("ParentCategory").
		Preload("ChildCategories", func(db *gorm.DB) *gorm.DB { return db.Order("name") }).
		Preload("Products", func(db *gorm.DB) *gorm.DB { return db.Order("name") }).
		Preload("Products.Materials").
		Preload("Products.Images")
}

func (r *categoryRepository) GetByID(ctx context.Context, id uint) (*models.Category, error) {
	var category models.Category
	err := r.withTree(ctx).First(&category, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepository) GetAll(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	err := r.withTree(ctx).Order("name").Find(&categories).Error
	if err != nil {
		zap.S().Errorf("CategoryRepository: failed to list categories: %v", err)
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

func (r *categoryRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Category{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ParentOf returns the parent id of a category; nil for roots and unknown ids.
func (r *categoryRepository) ParentOf(ctx context.Context, id uint) (*uint, error) {
	var category models.Category
	err := r.db.WithContext(ctx).Select("id", "parent_category_id").First(&category, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return category.ParentCategoryID, nil
}

func (r *categoryRepository) Update(ctx context.Context, category *models.Category) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(category).Error
}

func (r *categoryRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Category{}, id).Error
}
