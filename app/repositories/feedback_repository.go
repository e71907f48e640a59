package repositories

import (
	"context"
	"errors"

	"github.com/Rakhulsr/go-shop/app/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FeedbackFilter carries the moderation predicate. With OnlyModerated set,
// rows written by VisibleToAuthor stay visible to that author.
type FeedbackFilter struct {
	OnlyModerated   bool
	VisibleToAuthor uint
	AuthorID        *uint
}

func (f FeedbackFilter) apply(db *gorm.DB) *gorm.DB {
	if f.OnlyModerated {
		if f.VisibleToAuthor != 0 {
			db = db.Where("(feedback.is_moderated = ? OR feedback.author_id = ?)", true, f.VisibleToAuthor)
		} else {
			db = db.Where("feedback.is_moderated = ?", true)
		}
	}
	if f.AuthorID != nil {
		db = db.Where("feedback.author_id = ?", *f.AuthorID)
	}
	return db
}

type FeedbackRepositoryImpl interface {
	WithTx(tx *gorm.DB) FeedbackRepositoryImpl
	Create(ctx context.Context, feedback *models.Feedback) error
	GetByID(ctx context.Context, id uint, filter FeedbackFilter) (*models.Feedback, error)
	GetAll(ctx context.Context, filter FeedbackFilter) ([]models.Feedback, error)
	Update(ctx context.Context, feedback *models.Feedback) error
	Delete(ctx context.Context, id uint) error
}

type feedbackRepository struct {
	db *gorm.DB
}

func NewFeedbackRepository(db *gorm.DB) FeedbackRepositoryImpl {
	return &feedbackRepository{db: db}
}

func (r *feedbackRepository) WithTx(tx *gorm.DB) FeedbackRepositoryImpl {
	return &feedbackRepository{db: tx}
}

func (r *feedbackRepository) Create(ctx context.Context, feedback *models.Feedback) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(feedback).Error
}

func (r *feedbackRepository) preloaded(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Author").
		Preload("Product.Category").
		Preload("Images")
}

func (r *feedbackRepository) GetByID(ctx context.Context, id uint, filter FeedbackFilter) (*models.Feedback, error) {
	var feedback models.Feedback
	err := filter.apply(r.preloaded(ctx)).Where("feedback.id = ?", id).First(&feedback).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &feedback, nil
}

func (r *feedbackRepository) GetAll(ctx context.Context, filter FeedbackFilter) ([]models.Feedback, error) {
	var feedback []models.Feedback
	err := filter.apply(r.preloaded(ctx)).
		Order("feedback.title, feedback.author_id, feedback.product_id").
		Find(&feedback).Error
	if err != nil {
		return nil, err
	}
	return feedback, nil
}

func (r *feedbackRepository) Update(ctx context.Context, feedback *models.Feedback) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(feedback).Error
}

func (r *feedbackRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Feedback{}, id).Error
}
