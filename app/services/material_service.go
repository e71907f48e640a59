package services

import (
	"context"
	"strings"

	"github.com/Rakhulsr/go-shop/app/models"
	"github.com/Rakhulsr/go-shop/app/repositories"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

const duplicateMaterial = "Product material with this name already exists."

type MaterialInput struct {
	Name     string `json:"name" mapstructure:"name" validate:"required,max=255"`
	Products []uint `json:"products" mapstructure:"products"`
}

type MaterialService struct {
	db        *gorm.DB
	materials repositories.MaterialRepositoryImpl
	products  repositories.ProductRepositoryImpl
}

func NewMaterialService(db *gorm.DB, materials repositories.MaterialRepositoryImpl, products repositories.ProductRepositoryImpl) *MaterialService {
	return &MaterialService{db: db, materials: materials, products: products}
}

func (s *MaterialService) List(ctx context.Context, caller *models.User) ([]models.ProductMaterial, error) {
	if err := Authorize(caller, 0, StaffOnly); err != nil {
		return nil, err
	}
	return s.materials.GetAll(ctx)
}

func (s *MaterialService) Get(ctx context.Context, caller *models.User, id uint) (*models.ProductMaterial, error) {
	if err := Authorize(caller, 0, StaffOnly); err != nil {
		return nil, err
	}
	return s.find(ctx, s.materials, id)
}

func (s *MaterialService) find(ctx context.Context, repo repositories.MaterialRepositoryImpl, id uint) (*models.ProductMaterial, error) {
	material, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, errors.Wrapf(err, "get material %d", id)
	}
	if material == nil {
		return nil, ErrNotFound
	}
	return material, nil
}

// Create adds a material with a unique name and links the given products.
func (s *MaterialService) Create(ctx context.Context, caller *models.User, in MaterialInput) (*models.ProductMaterial, error) {
	if err := Authorize(caller, 0, StaffOnly); err != nil {
		return nil, err
	}
	if err := validateInput(&in); err != nil {
		return nil, err
	}

	material := &models.ProductMaterial{Name: strings.TrimSpace(in.Name)}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.materials.WithTx(tx)
		if err := s.checkUnique(ctx, repo, material.Name); err != nil {
			return err
		}

		var products []models.Product
		if len(in.Products) > 0 {
			found, err := s.products.WithTx(tx).GetByIDs(ctx, in.Products)
			if err != nil {
				return errors.Wrap(err, "get products")
			}
			known := make(map[uint]bool, len(found))
			for _, p := range found {
				known[p.ID] = true
			}
			for _, id := range in.Products {
				if !known[id] {
					return invalidPK("products", id)
				}
			}
			products = found
		}

		if err := repo.Create(ctx, material); err != nil {
			return errors.Wrap(err, "create material")
		}
		return repo.AppendProducts(ctx, material, products)
	})
	if err != nil {
		return nil, err
	}
	return material, nil
}

// Update renames a material. Sending the current name changes nothing.
func (s *MaterialService) Update(ctx context.Context, caller *models.User, id uint, in MaterialInput) error {
	if err := Authorize(caller, 0, StaffOnly); err != nil {
		return err
	}
	if err := validateInput(&in); err != nil {
		return err
	}

	name := strings.TrimSpace(in.Name)
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.materials.WithTx(tx)
		material, err := s.find(ctx, repo, id)
		if err != nil {
			return err
		}
		if material.Name == name {
			return nil
		}
		if err := s.checkUnique(ctx, repo, name); err != nil {
			return err
		}
		return repo.Rename(ctx, id, name)
	})
}

func (s *MaterialService) Delete(ctx context.Context, caller *models.User, id uint) error {
	if err := Authorize(caller, 0, StaffOnly); err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.materials.WithTx(tx)
		if _, err := s.find(ctx, repo, id); err != nil {
			return err
		}
		return repo.Delete(ctx, id)
	})
}

func (s *MaterialService) checkUnique(ctx context.Context, repo repositories.MaterialRepositoryImpl, name string) error {
	existing, err := repo.GetByName(ctx, name)
	if err != nil {
		return errors.Wrap(err, "check material name")
	}
	if existing != nil {
		return NewValidationError("name", duplicateMaterial)
	}
	return nil
}
