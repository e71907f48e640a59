package services

import (
	"context"

	"github.com/Rakhulsr/go-shop/app/models"
	"github.com/Rakhulsr/go-shop/app/repositories"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type CategoryInput struct {
	Name           string `json:"name" mapstructure:"name" validate:"required,max=255"`
	ParentCategory *uint  `json:"parent_category" mapstructure:"parent_category"`
}

// CategoryService manages the category tree. Reads are public, writes are
// staff only.
type CategoryService struct {
	db         *gorm.DB
	categories repositories.CategoryRepositoryImpl
	images     repositories.ImageRepositoryImpl
	storage    FileStorage
}

func NewCategoryService(db *gorm.DB, categories repositories.CategoryRepositoryImpl, images repositories.ImageRepositoryImpl, storage FileStorage) *CategoryService {
	return &CategoryService{db: db, categories: categories, images: images, storage: storage}
}

func (s *CategoryService) List(ctx context.Context) ([]models.Category, error) {
	return s.categories.GetAll(ctx)
}

func (s *CategoryService) Get(ctx context.Context, id uint) (*models.Category, error) {
	category, err := s.categories.GetByID(ctx, id)
	if err != nil {
		return nil, errors.Wrapf(err, "get category %d", id)
	}
	if category == nil {
		return nil, ErrNotFound
	}
	return category, nil
}

func (s *CategoryService) Create(ctx context.Context, caller *models.User, in CategoryInput) (*models.Category, error) {
	if err := Authorize(caller, 0, StaffOnly); err != nil {
		return nil, err
	}
	if err := validateInput(&in); err != nil {
		return nil, err
	}

	category := &models.Category{Name: in.Name, ParentCategoryID: in.ParentCategory}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.categories.WithTx(tx)
		if err := s.checkParent(ctx, repo, 0, in.ParentCategory); err != nil {
			return err
		}
		return repo.Create(ctx, category)
	})
	if err != nil {
		return nil, err
	}
	return category, nil
}

func (s *CategoryService) Update(ctx context.Context, caller *models.User, id uint, in CategoryInput) error {
	if err := Authorize(caller, 0, StaffOnly); err != nil {
		return err
	}
	if err := validateInput(&in); err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.categories.WithTx(tx)
		category, err := repo.GetByID(ctx, id)
		if err != nil {
			return errors.Wrap(err, "get category")
		}
		if category == nil {
			return ErrNotFound
		}
		if err := s.checkParent(ctx, repo, id, in.ParentCategory); err != nil {
			return err
		}
		category.Name = in.Name
		category.ParentCategoryID = in.ParentCategory
		category.ParentCategory = nil
		return repo.Update(ctx, category)
	})
}

// Delete removes the category with its subtree and products. Images of the
// removed products and their feedback are swept afterwards.
func (s *CategoryService) Delete(ctx context.Context, caller *models.User, id uint) error {
	if err := Authorize(caller, 0, StaffOnly); err != nil {
		return err
	}

	files := &imageFiles{storage: s.storage}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.categories.WithTx(tx)
		ok, err := repo.Exists(ctx, id)
		if err != nil {
			return errors.Wrap(err, "check category")
		}
		if !ok {
			return ErrNotFound
		}
		if err := repo.Delete(ctx, id); err != nil {
			return errors.Wrap(err, "delete category")
		}
		orphans, err := s.images.WithTx(tx).DeleteOrphans(ctx)
		if err != nil {
			return errors.Wrap(err, "delete orphaned images")
		}
		files.drop(orphans)
		return nil
	})
	files.finish(err)
	return err
}

// checkParent rejects a missing parent and any parent that would close a
// cycle through id.
func (s *CategoryService) checkParent(ctx context.Context, repo repositories.CategoryRepositoryImpl, id uint, parent *uint) error {
	if parent == nil {
		return nil
	}
	ok, err := repo.Exists(ctx, *parent)
	if err != nil {
		return errors.Wrap(err, "check parent category")
	}
	if !ok {
		return invalidPK("parent_category", *parent)
	}
	if id == 0 {
		return nil
	}

	seen := map[uint]bool{}
	for next := parent; next != nil; {
		if *next == id {
			return NewValidationError("parent_category", "Category cannot be its own ancestor.")
		}
		if seen[*next] {
			break
		}
		seen[*next] = true
		if next, err = repo.ParentOf(ctx, *next); err != nil {
			return errors.Wrap(err, "walk category ancestors")
		}
	}
	return nil
}
