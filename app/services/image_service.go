package services

import (
	"context"

	"github.com/Rakhulsr/go-shop/app/models"
	"github.com/Rakhulsr/go-shop/app/repositories"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type ImageInput struct {
	ImageOwnerInput `mapstructure:",squash"`
	Image           *Upload `json:"-" mapstructure:"-"`
}

func (in ImageInput) owner() (OwnerRef, error) {
	if in.Image == nil {
		return OwnerRef{}, NewValidationError("image", "No file was submitted.")
	}
	return in.Ref()
}

// ImageService manages images directly. Every operation is staff only.
type ImageService struct {
	db       *gorm.DB
	images   repositories.ImageRepositoryImpl
	resolver *AttachmentResolver
	storage  FileStorage
}

func NewImageService(db *gorm.DB, images repositories.ImageRepositoryImpl, resolver *AttachmentResolver, storage FileStorage) *ImageService {
	return &ImageService{db: db, images: images, resolver: resolver, storage: storage}
}

func (s *ImageService) List(ctx context.Context, caller *models.User) ([]models.Image, error) {
	if err := Authorize(caller, 0, StaffOnly); err != nil {
		return nil, err
	}
	return s.images.GetAll(ctx)
}

func (s *ImageService) Get(ctx context.Context, caller *models.User, id uint) (*models.Image, error) {
	if err := Authorize(caller, 0, StaffOnly); err != nil {
		return nil, err
	}
	return s.find(ctx, s.images, id)
}

func (s *ImageService) find(ctx context.Context, repo repositories.ImageRepositoryImpl, id uint) (*models.Image, error) {
	image, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, errors.Wrapf(err, "get image %d", id)
	}
	if image == nil {
		return nil, ErrNotFound
	}
	return image, nil
}

// Create resolves the owner against the allow-list, stores the file and
// records the image.
func (s *ImageService) Create(ctx context.Context, caller *models.User, in ImageInput) (*models.Image, error) {
	if err := Authorize(caller, 0, StaffOnly); err != nil {
		return nil, err
	}
	ref, err := in.owner()
	if err != nil {
		return nil, err
	}

	files := &imageFiles{storage: s.storage}
	var image *models.Image
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		owner, err := s.resolver.WithTx(tx).Resolve(ctx, ref)
		if err != nil {
			return err
		}
		image, err = files.store(ctx, s.images.WithTx(tx), owner, *in.Image)
		return err
	})
	files.finish(err)
	if err != nil {
		return nil, err
	}
	return image, nil
}

// Update replaces the file and the owner of an image.
func (s *ImageService) Update(ctx context.Context, caller *models.User, id uint, in ImageInput) error {
	if err := Authorize(caller, 0, StaffOnly); err != nil {
		return err
	}

	files := &imageFiles{storage: s.storage}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.images.WithTx(tx)
		image, err := s.find(ctx, repo, id)
		if err != nil {
			return err
		}
		ref, err := in.owner()
		if err != nil {
			return err
		}
		owner, err := s.resolver.WithTx(tx).Resolve(ctx, ref)
		if err != nil {
			return err
		}

		name, err := s.storage.Save(owner.Dir(), in.Image.Filename, in.Image.Content)
		if err != nil {
			return err
		}
		files.written = append(files.written, name)
		files.drop([]models.Image{*image})

		image.File = name
		image.Tip = in.Image.Filename
		image.OwnerType = owner.Kind
		image.OwnerID = owner.ID()
		return repo.Update(ctx, image)
	})
	files.finish(err)
	return err
}

func (s *ImageService) Delete(ctx context.Context, caller *models.User, id uint) error {
	if err := Authorize(caller, 0, StaffOnly); err != nil {
		return err
	}

	files := &imageFiles{storage: s.storage}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.images.WithTx(tx)
		image, err := s.find(ctx, repo, id)
		if err != nil {
			return err
		}
		if err := repo.Delete(ctx, id); err != nil {
			return errors.Wrap(err, "delete image")
		}
		files.drop([]models.Image{*image})
		return nil
	})
	files.finish(err)
	return err
}
