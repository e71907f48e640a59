package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Rakhulsr/go-shop/app/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ImageRepositoryImpl interface {
	WithTx(tx *gorm.DB) ImageRepositoryImpl
	Create(ctx context.Context, image *models.Image) error
	GetByID(ctx context.Context, id uint) (*models.Image, error)
	GetAll(ctx context.Context) ([]models.Image, error)
	GetByOwner(ctx context.Context, ownerType string, ownerID uint) ([]models.Image, error)
	Update(ctx context.Context, image *models.Image) error
	Delete(ctx context.Context, id uint) error
	DeleteByIDs(ctx context.Context, ids []uint) error
	DeleteByOwner(ctx context.Context, ownerType string, ownerID uint) ([]models.Image, error)
	DeleteOrphans(ctx context.Context) ([]models.Image, error)
}

type imageRepository struct {
	db *gorm.DB
}

func NewImageRepository(db *gorm.DB) ImageRepositoryImpl {
	return &imageRepository{db: db}
}

func (r *imageRepository) WithTx(tx *gorm.DB) ImageRepositoryImpl {
	return &imageRepository{db: tx}
}

func (r *imageRepository) Create(ctx context.Context, image *models.Image) error {
	return r.db.WithContext(ctx).Create(image).Error
}

func (r *imageRepository) GetByID(ctx context.Context, id uint) (*models.Image, error) {
	var image models.Image
	if err := r.db.WithContext(ctx).First(&image, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &image, nil
}

func (r *imageRepository) GetAll(ctx context.Context) ([]models.Image, error) {
	var images []models.Image
	if err := r.db.WithContext(ctx).Order("owner_type, tip").Find(&images).Error; err != nil {
		return nil, err
	}
	return images, nil
}

func (r *imageRepository) GetByOwner(ctx context.Context, ownerType string, ownerID uint) ([]models.Image, error) {
	var images []models.Image
	err := r.db.WithContext(ctx).
		Where("owner_type = ? AND owner_id = ?", ownerType, ownerID).
		Order("id").
		Find(&images).Error
	if err != nil {
		return nil, err
	}
	return images, nil
}

func (r *imageRepository) Update(ctx context.Context, image *models.Image) error {
	return r.db.WithContext(ctx).Save(image).Error
}

func (r *imageRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Image{}, id).Error
}

func (r *imageRepository) DeleteByIDs(ctx context.Context, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Where("id IN ?", ids).Delete(&models.Image{}).Error
}

// DeleteByOwner removes every image of one owner and returns the removed rows.
func (r *imageRepository) DeleteByOwner(ctx context.Context, ownerType string, ownerID uint) ([]models.Image, error) {
	images, err := r.GetByOwner(ctx, ownerType, ownerID)
	if err != nil {
		return nil, err
	}
	if err := r.DeleteByIDs(ctx, imageIDs(images)); err != nil {
		return nil, fmt.Errorf("failed to delete images of %s %d: %w", ownerType, ownerID, err)
	}
	return images, nil
}

// DeleteOrphans removes images whose owner row no longer exists. Owners are
// removed through foreign key cascades, which cannot reach the polymorphic pair.
func (r *imageRepository) DeleteOrphans(ctx context.Context) ([]models.Image, error) {
	var orphans []models.Image
	products := r.db.Session(&gorm.Session{NewDB: true}).Model(&models.Product{}).Select("id")
	feedback := r.db.Session(&gorm.Session{NewDB: true}).Model(&models.Feedback{}).Select("id")

	err := r.db.WithContext(ctx).
		Where("(owner_type = ? AND owner_id NOT IN (?)) OR (owner_type = ? AND owner_id NOT IN (?))",
			models.OwnerProduct, products, models.OwnerFeedback, feedback).
		Find(&orphans).Error
	if err != nil {
		zap.S().Errorf("ImageRepository: failed to collect orphaned images: %v", err)
		return nil, fmt.Errorf("failed to collect orphaned images: %w", err)
	}

	if err := r.DeleteByIDs(ctx, imageIDs(orphans)); err != nil {
		return nil, fmt.Errorf("failed to delete orphaned images: %w", err)
	}
	return orphans, nil
}

func imageIDs(images []models.Image) []uint {
	ids := make([]uint, 0, len(images))
	for _, img := range images {
		ids = append(ids, img.ID)
	}
	return ids
}
