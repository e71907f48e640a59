package services

import (
	"context"

	"github.com/Rakhulsr/go-shop/app/models"
	"github.com/Rakhulsr/go-shop/app/repositories"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type FeedbackInput struct {
	Product        uint     `json:"product" mapstructure:"product" validate:"required"`
	Title          string   `json:"title" mapstructure:"title" validate:"required,max=255"`
	Content        string   `json:"content" mapstructure:"content" validate:"required"`
	ImagesToDelete []uint   `json:"images_to_delete" mapstructure:"images_to_delete"`
	Images         []Upload `json:"-" mapstructure:"-"`
}

type FeedbackService struct {
	db       *gorm.DB
	feedback repositories.FeedbackRepositoryImpl
	products repositories.ProductRepositoryImpl
	images   repositories.ImageRepositoryImpl
	storage  FileStorage
	notifier Notifier
}

func NewFeedbackService(
	db *gorm.DB,
	feedback repositories.FeedbackRepositoryImpl,
	products repositories.ProductRepositoryImpl,
	images repositories.ImageRepositoryImpl,
	storage FileStorage,
	notifier Notifier,
) *FeedbackService {
	if notifier == nil {
		notifier = LogNotifier{}
	}
	return &FeedbackService{
		db:       db,
		feedback: feedback,
		products: products,
		images:   images,
		storage:  storage,
		notifier: notifier,
	}
}

func (s *FeedbackService) List(ctx context.Context, caller *models.User) ([]models.Feedback, error) {
	return s.feedback.GetAll(ctx, FeedbackVisibility(caller))
}

func (s *FeedbackService) Get(ctx context.Context, caller *models.User, id uint) (*models.Feedback, error) {
	return s.visible(ctx, s.feedback, caller, id)
}

func (s *FeedbackService) visible(ctx context.Context, repo repositories.FeedbackRepositoryImpl, caller *models.User, id uint) (*models.Feedback, error) {
	feedback, err := repo.GetByID(ctx, id, FeedbackVisibility(caller))
	if err != nil {
		return nil, errors.Wrapf(err, "get feedback %d", id)
	}
	if feedback == nil {
		return nil, ErrNotFound
	}
	return feedback, nil
}

func (s *FeedbackService) Create(ctx context.Context, caller *models.User, in FeedbackInput) (*models.Feedback, error) {
	if err := Authorize(caller, 0, Authenticated); err != nil {
		return nil, err
	}
	if err := validateInput(&in); err != nil {
		return nil, err
	}

	files := &imageFiles{storage: s.storage}
	feedback := &models.Feedback{
		AuthorID:    caller.ID,
		ProductID:   in.Product,
		Title:       in.Title,
		Content:     in.Content,
		IsModerated: false,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.requireProduct(ctx, tx, caller, in.Product); err != nil {
			return err
		}
		if err := s.feedback.WithTx(tx).Create(ctx, feedback); err != nil {
			return errors.Wrap(err, "create feedback")
		}
		return files.attach(ctx, s.images.WithTx(tx), FeedbackOwner(feedback), in.Images)
	})
	files.finish(err)
	if err != nil {
		return nil, err
	}

	s.notifier.FeedbackChanged(ctx, feedback, true)
	return feedback, nil
}

// Update replaces title, content and product and sends the feedback back to
// moderation. Image removals are checked against the feedback's own images
// before anything is written.
func (s *FeedbackService) Update(ctx context.Context, caller *models.User, id uint, in FeedbackInput) error {
	files := &imageFiles{storage: s.storage}
	var feedback *models.Feedback

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.feedback.WithTx(tx)
		images := s.images.WithTx(tx)

		var err error
		feedback, err = s.visible(ctx, repo, caller, id)
		if err != nil {
			return err
		}
		if err := Authorize(caller, feedback.AuthorID, OwnerOrAdmin); err != nil {
			return err
		}
		if err := validateInput(&in); err != nil {
			return err
		}
		if err := s.requireProduct(ctx, tx, caller, in.Product); err != nil {
			return err
		}

		doomed, err := CheckImagesToDelete(feedback.Images, in.ImagesToDelete, "feedback")
		if err != nil {
			return err
		}

		feedback.ProductID = in.Product
		feedback.Product = models.Product{}
		feedback.Title = in.Title
		feedback.Content = in.Content
		feedback.IsModerated = false
		if err := repo.Update(ctx, feedback); err != nil {
			return errors.Wrap(err, "update feedback")
		}

		if err := images.DeleteByIDs(ctx, imageIDList(doomed)); err != nil {
			return errors.Wrap(err, "delete feedback images")
		}
		files.drop(doomed)

		return files.attach(ctx, images, FeedbackOwner(feedback), in.Images)
	})
	files.finish(err)
	if err != nil {
		return err
	}

	s.notifier.FeedbackChanged(ctx, feedback, false)
	return nil
}

func (s *FeedbackService) Delete(ctx context.Context, caller *models.User, id uint) error {
	files := &imageFiles{storage: s.storage}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		feedback, err := s.visible(ctx, s.feedback.WithTx(tx), caller, id)
		if err != nil {
			return err
		}
		if err := Authorize(caller, feedback.AuthorID, OwnerOrAdmin); err != nil {
			return err
		}
		if err := s.feedback.WithTx(tx).Delete(ctx, id); err != nil {
			return errors.Wrap(err, "delete feedback")
		}
		orphans, err := s.images.WithTx(tx).DeleteOrphans(ctx)
		if err != nil {
			return err
		}
		files.drop(orphans)
		return nil
	})
	files.finish(err)
	return err
}

func (s *FeedbackService) DeleteImages(ctx context.Context, caller *models.User, id uint) error {
	files := &imageFiles{storage: s.storage}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		feedback, err := s.visible(ctx, s.feedback.WithTx(tx), caller, id)
		if err != nil {
			return err
		}
		if err := Authorize(caller, feedback.AuthorID, OwnerOrAdmin); err != nil {
			return err
		}
		removed, err := s.images.WithTx(tx).DeleteByOwner(ctx, models.OwnerFeedback, feedback.ID)
		if err != nil {
			return err
		}
		files.drop(removed)
		return nil
	})
	files.finish(err)
	return err
}

func (s *FeedbackService) requireProduct(ctx context.Context, tx *gorm.DB, caller *models.User, id uint) error {
	product, err := s.products.WithTx(tx).GetByID(ctx, id, ProductVisibility(caller))
	if err != nil {
		return errors.Wrap(err, "check product")
	}
	if product == nil {
		return invalidPK("product", id)
	}
	return nil
}
