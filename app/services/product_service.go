package services

import (
	"context"
	"strings"

	"github.com/Rakhulsr/go-shop/app/models"
	"github.com/Rakhulsr/go-shop/app/repositories"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var maxPrice = decimal.New(1, 8)

type ProductInput struct {
	Category       uint             `json:"category" mapstructure:"category" validate:"required"`
	Name           string           `json:"name" mapstructure:"name" validate:"required,max=255"`
	Price          *decimal.Decimal `json:"price" mapstructure:"price" validate:"required"`
	Description    string           `json:"description" mapstructure:"description" validate:"required"`
	Size           string           `json:"size" mapstructure:"size" validate:"required,max=255"`
	Weight         *float64         `json:"weight" mapstructure:"weight" validate:"required,gte=0"`
	Stock          *int             `json:"stock" mapstructure:"stock" validate:"required,gte=0,lte=32767"`
	IsAvailable    *bool            `json:"is_available" mapstructure:"is_available"`
	Materials      *[]string        `json:"materials" mapstructure:"materials" validate:"omitempty,dive,max=255"`
	ImagesToDelete []uint           `json:"images_to_delete" mapstructure:"images_to_delete"`
	Images         []Upload         `json:"-" mapstructure:"-"`
}

func (in *ProductInput) check() error {
	verr := &ValidationError{}
	switch {
	case in.Price == nil:
		verr.Add("price", "This field is required.")
	case in.Price.IsNegative():
		verr.Add("price", "Ensure this value is greater than or equal to 0.")
	case !in.Price.Equal(in.Price.Round(2)):
		verr.Add("price", "Ensure that there are no more than 2 decimal places.")
	case in.Price.GreaterThanOrEqual(maxPrice):
		verr.Add("price", "Ensure that there are no more than 10 digits in total.")
	}
	if verr.Empty() {
		return nil
	}
	return verr
}

type ProductService struct {
	db         *gorm.DB
	products   repositories.ProductRepositoryImpl
	categories repositories.CategoryRepositoryImpl
	materials  repositories.MaterialRepositoryImpl
	images     repositories.ImageRepositoryImpl
	storage    FileStorage
}

func NewProductService(
	db *gorm.DB,
	products repositories.ProductRepositoryImpl,
	categories repositories.CategoryRepositoryImpl,
	materials repositories.MaterialRepositoryImpl,
	images repositories.ImageRepositoryImpl,
	storage FileStorage,
) *ProductService {
	return &ProductService{
		db:         db,
		products:   products,
		categories: categories,
		materials:  materials,
		images:     images,
		storage:    storage,
	}
}

// List returns the products visible to caller, optionally of one category.
func (s *ProductService) List(ctx context.Context, caller *models.User, categoryID *uint) ([]models.Product, error) {
	filter := ProductVisibility(caller)
	if categoryID != nil {
		ok, err := s.categories.Exists(ctx, *categoryID)
		if err != nil {
			return nil, errors.Wrap(err, "check category")
		}
		if !ok {
			return nil, ErrNotFound
		}
		filter.CategoryID = categoryID
	}
	return s.products.GetAll(ctx, filter)
}

// Get hides products the caller may not see behind ErrNotFound.
func (s *ProductService) Get(ctx context.Context, caller *models.User, id uint) (*models.Product, error) {
	product, err := s.products.GetByID(ctx, id, ProductVisibility(caller))
	if err != nil {
		return nil, errors.Wrapf(err, "get product %d", id)
	}
	if product == nil {
		return nil, ErrNotFound
	}
	return product, nil
}

func (s *ProductService) Create(ctx context.Context, caller *models.User, in ProductInput) (*models.Product, error) {
	if err := Authorize(caller, 0, StaffOnly); err != nil {
		return nil, err
	}
	if err := validateInput(&in); err != nil {
		return nil, err
	}

	files := &imageFiles{storage: s.storage}
	product := &models.Product{
		CategoryID:  in.Category,
		Name:        in.Name,
		Price:       *in.Price,
		Description: in.Description,
		Size:        in.Size,
		Weight:      *in.Weight,
		Stock:       *in.Stock,
		IsAvailable: in.IsAvailable == nil || *in.IsAvailable,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.requireCategory(ctx, tx, in.Category); err != nil {
			return err
		}
		if err := s.products.WithTx(tx).Create(ctx, product); err != nil {
			return errors.Wrap(err, "create product")
		}
		if in.Materials != nil {
			if err := s.syncMaterials(ctx, tx, product, nil, *in.Materials); err != nil {
				return err
			}
		}
		return files.attach(ctx, s.images.WithTx(tx), ProductOwner(product), in.Images)
	})
	files.finish(err)
	if err != nil {
		return nil, err
	}

	zap.S().Infow("product created", "product_id", product.ID, "by", callerID(caller))
	return product, nil
}

// Update replaces the product fields, reconciles materials when given and
// applies image removals and uploads, all in one transaction.
func (s *ProductService) Update(ctx context.Context, caller *models.User, id uint, in ProductInput) error {
	if err := Authorize(caller, 0, StaffOnly); err != nil {
		return err
	}
	if err := validateInput(&in); err != nil {
		return err
	}

	files := &imageFiles{storage: s.storage}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		products := s.products.WithTx(tx)
		images := s.images.WithTx(tx)

		product, err := products.GetByID(ctx, id, repositories.ProductFilter{})
		if err != nil {
			return errors.Wrapf(err, "load product %d", id)
		}
		if product == nil {
			return ErrNotFound
		}
		if err := s.requireCategory(ctx, tx, in.Category); err != nil {
			return err
		}

		doomed, err := CheckImagesToDelete(product.Images, in.ImagesToDelete, "product")
		if err != nil {
			return err
		}

		product.CategoryID = in.Category
		product.Category = models.Category{}
		product.Name = in.Name
		product.Price = *in.Price
		product.Description = in.Description
		product.Size = in.Size
		product.Weight = *in.Weight
		product.Stock = *in.Stock
		if in.IsAvailable != nil {
			product.IsAvailable = *in.IsAvailable
		}
		if err := products.Update(ctx, product); err != nil {
			return errors.Wrap(err, "update product")
		}

		if in.Materials != nil {
			if err := s.syncMaterials(ctx, tx, product, product.Materials, *in.Materials); err != nil {
				return err
			}
		}

		if err := images.DeleteByIDs(ctx, imageIDList(doomed)); err != nil {
			return errors.Wrap(err, "delete product images")
		}
		files.drop(doomed)

		return files.attach(ctx, images, ProductOwner(product), in.Images)
	})
	files.finish(err)
	return err
}

func (s *ProductService) Delete(ctx context.Context, caller *models.User, id uint) error {
	if err := Authorize(caller, 0, StaffOnly); err != nil {
		return err
	}

	files := &imageFiles{storage: s.storage}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		product, err := s.products.WithTx(tx).GetByID(ctx, id, repositories.ProductFilter{})
		if err != nil {
			return errors.Wrapf(err, "load product %d", id)
		}
		if product == nil {
			return ErrNotFound
		}
		if err := s.products.WithTx(tx).Delete(ctx, id); err != nil {
			return errors.Wrap(err, "delete product")
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

// DeleteImages drops every image attached to the product.
func (s *ProductService) DeleteImages(ctx context.Context, caller *models.User, id uint) error {
	if err := Authorize(caller, 0, StaffOnly); err != nil {
		return err
	}

	files := &imageFiles{storage: s.storage}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		product, err := s.products.WithTx(tx).GetByID(ctx, id, repositories.ProductFilter{})
		if err != nil {
			return errors.Wrapf(err, "load product %d", id)
		}
		if product == nil {
			return ErrNotFound
		}
		removed, err := s.images.WithTx(tx).DeleteByOwner(ctx, models.OwnerProduct, product.ID)
		if err != nil {
			return err
		}
		files.drop(removed)
		return nil
	})
	files.finish(err)
	return err
}

func (s *ProductService) requireCategory(ctx context.Context, tx *gorm.DB, id uint) error {
	ok, err := s.categories.WithTx(tx).Exists(ctx, id)
	if err != nil {
		return errors.Wrap(err, "check category")
	}
	if !ok {
		return invalidPK("category", id)
	}
	return nil
}

// syncMaterials links the requested material names to the product and unlinks
// the rest. Unknown names become new materials; unlinked materials are kept.
func (s *ProductService) syncMaterials(ctx context.Context, tx *gorm.DB, product *models.Product, current []models.ProductMaterial, requested []string) error {
	products := s.products.WithTx(tx)
	materials := s.materials.WithTx(tx)

	byName := make(map[string]models.ProductMaterial, len(current))
	currentNames := make([]string, 0, len(current))
	for _, m := range current {
		byName[m.Name] = m
		currentNames = append(currentNames, m.Name)
	}

	toRemove, toAdd := Diff(currentNames, cleanNames(requested))

	detach := make([]models.ProductMaterial, 0, len(toRemove))
	for _, name := range toRemove {
		detach = append(detach, byName[name])
	}
	if err := products.RemoveMaterials(ctx, product, detach); err != nil {
		return errors.Wrap(err, "unlink materials")
	}

	attach := make([]models.ProductMaterial, 0, len(toAdd))
	for _, name := range toAdd {
		material, err := materials.GetByName(ctx, name)
		if err != nil {
			return errors.Wrapf(err, "find material %q", name)
		}
		if material == nil {
			material = &models.ProductMaterial{Name: name}
			if err := materials.Create(ctx, material); err != nil {
				return errors.Wrapf(err, "create material %q", name)
			}
		}
		attach = append(attach, *material)
	}
	if err := products.AppendMaterials(ctx, product, attach); err != nil {
		return errors.Wrap(err, "link materials")
	}
	return nil
}

func cleanNames(names []string) []string {
	cleaned := make([]string, 0, len(names))
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			cleaned = append(cleaned, n)
		}
	}
	return cleaned
}
