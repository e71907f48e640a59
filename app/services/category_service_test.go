package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/Rakhulsr/go-shop/app/models"
	"github.com/Rakhulsr/go-shop/app/repositories"
	"github.com/Rakhulsr/go-shop/app/services"
)

func TestCategoryParentChecks(t *testing.T) {
	db := memdb(t)
	ctx := context.Background()
	svc := services.NewCategoryService(db, repositories.NewCategoryRepository(db), repositories.NewImageRepository(db), newMemStorage())
	admin := newUser(t, db, "admin", true)

	if _, err := svc.Create(ctx, nil, services.CategoryInput{Name: "Clothes"}); !errors.Is(err, services.ErrForbidden) {
		t.Fatalf("anonymous: want ErrForbidden, got %v", err)
	}

	_, err := svc.Create(ctx, admin, services.CategoryInput{Name: "Orphan", ParentCategory: ptr(uint(50))})
	fieldMessages(t, err, "parent_category")

	root, err := svc.Create(ctx, admin, services.CategoryInput{Name: "Clothes"})
	if err != nil {
		t.Fatal(err)
	}
	child, err := svc.Create(ctx, admin, services.CategoryInput{Name: "Shirts", ParentCategory: &root.ID})
	if err != nil {
		t.Fatal(err)
	}
	grandchild, err := svc.Create(ctx, admin, services.CategoryInput{Name: "Tees", ParentCategory: &child.ID})
	if err != nil {
		t.Fatal(err)
	}

	for _, parent := range []uint{root.ID, grandchild.ID} {
		err := svc.Update(ctx, admin, root.ID, services.CategoryInput{Name: "Clothes", ParentCategory: &parent})
		if msgs := fieldMessages(t, err, "parent_category"); msgs[0] != "Category cannot be its own ancestor." {
			t.Fatalf("parent %d: unexpected message %q", parent, msgs[0])
		}
	}

	if err := svc.Update(ctx, admin, grandchild.ID, services.CategoryInput{Name: "T-Shirts", ParentCategory: &root.ID}); err != nil {
		t.Fatal(err)
	}
	got, err := svc.Get(ctx, root.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.ChildCategories) != 2 {
		t.Fatalf("want 2 children, got %+v", got.ChildCategories)
	}
}

func TestCategoryDeleteCascades(t *testing.T) {
	db := memdb(t)
	ctx := context.Background()
	storage := newMemStorage()
	svc := services.NewCategoryService(db, repositories.NewCategoryRepository(db), repositories.NewImageRepository(db), storage)
	admin := newUser(t, db, "admin", true)

	root := newCategory(t, db, "Clothes", nil)
	child := newCategory(t, db, "Shirts", root)
	product := newProduct(t, db, child, "Tee", true)
	newImage(t, db, storage, models.OwnerProduct, product.ID, "1.jpg")

	if err := svc.Delete(ctx, admin, root.ID); err != nil {
		t.Fatal(err)
	}
	for _, v := range []interface{}{&models.Category{}, &models.Product{}, &models.Image{}} {
		var count int64
		db.Model(v).Count(&count)
		if count != 0 {
			t.Fatalf("%T rows left: %d", v, count)
		}
	}
	if storage.count() != 0 {
		t.Fatalf("files left: %d", storage.count())
	}
	if err := svc.Delete(ctx, admin, root.ID); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}
