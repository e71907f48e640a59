package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/Rakhulsr/go-shop/app/models"
	"github.com/Rakhulsr/go-shop/app/repositories"
	"github.com/Rakhulsr/go-shop/app/services"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func newProductService(db *gorm.DB, storage services.FileStorage) *services.ProductService {
	return services.NewProductService(db,
		repositories.NewProductRepository(db),
		repositories.NewCategoryRepository(db),
		repositories.NewMaterialRepository(db),
		repositories.NewImageRepository(db),
		storage,
	)
}

func productInput(category uint, name string) services.ProductInput {
	return services.ProductInput{
		Category:    category,
		Name:        name,
		Price:       ptr(decimal.RequireFromString("25.00")),
		Description: "cotton shirt",
		Size:        "L",
		Weight:      ptr(0.3),
		Stock:       ptr(5),
	}
}

func TestProductVisibility(t *testing.T) {
	db := memdb(t)
	ctx := context.Background()
	svc := newProductService(db, newMemStorage())

	category := newCategory(t, db, "Shirts", nil)
	shown := newProduct(t, db, category, "Shown", true)
	hidden := newProduct(t, db, category, "Hidden", false)
	author := newUser(t, db, "author", false)
	newFeedback(t, db, author, shown, true)
	newFeedback(t, db, author, shown, false)
	admin := newUser(t, db, "admin", true)

	products, err := svc.List(ctx, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(products) != 1 || products[0].ID != shown.ID {
		t.Fatalf("anonymous list: want only %d, got %+v", shown.ID, products)
	}
	if len(products[0].Feedback) != 1 || !products[0].Feedback[0].IsModerated {
		t.Fatalf("anonymous list leaks unmoderated feedback: %+v", products[0].Feedback)
	}

	if _, err := svc.Get(ctx, author, hidden.ID); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("unavailable product for customer: want ErrNotFound, got %v", err)
	}

	products, err = svc.List(ctx, admin, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(products) != 2 {
		t.Fatalf("staff list: want 2 products, got %d", len(products))
	}
	product, err := svc.Get(ctx, admin, shown.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(product.Feedback) != 2 {
		t.Fatalf("staff sees all feedback, got %d", len(product.Feedback))
	}

	if _, err := svc.List(ctx, nil, ptr(uint(42))); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("unknown category: want ErrNotFound, got %v", err)
	}
}

func TestProductCreateChecksAccessBeforeInput(t *testing.T) {
	db := memdb(t)
	svc := newProductService(db, newMemStorage())
	user := newUser(t, db, "user", false)

	_, err := svc.Create(context.Background(), user, services.ProductInput{})
	if !errors.Is(err, services.ErrForbidden) {
		t.Fatalf("want ErrForbidden, got %v", err)
	}
}

func TestProductCreate(t *testing.T) {
	db := memdb(t)
	ctx := context.Background()
	storage := newMemStorage()
	svc := newProductService(db, storage)
	admin := newUser(t, db, "admin", true)
	category := newCategory(t, db, "Shirts", nil)

	_, err := svc.Create(ctx, admin, productInput(77, "Tee"))
	if msgs := fieldMessages(t, err, "category"); msgs[0] != `Invalid pk "77" - object does not exist.` {
		t.Fatalf("unexpected message %q", msgs[0])
	}

	in := productInput(category.ID, "Tee")
	in.Price = ptr(decimal.RequireFromString("1.234"))
	_, err = svc.Create(ctx, admin, in)
	fieldMessages(t, err, "price")

	in = productInput(category.ID, "Tee")
	in.Materials = &[]string{"cotton", "wool", "cotton"}
	in.Images = []services.Upload{upload("front.jpg", "a"), upload("back.jpg", "b")}
	product, err := svc.Create(ctx, admin, in)
	if err != nil {
		t.Fatal(err)
	}

	got, err := svc.Get(ctx, admin, product.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Materials) != 2 || got.Materials[0].Name != "cotton" || got.Materials[1].Name != "wool" {
		t.Fatalf("unexpected materials %+v", got.Materials)
	}
	if len(got.Images) != 2 || storage.count() != 2 {
		t.Fatalf("want 2 images and files, got %d and %d", len(got.Images), storage.count())
	}
	if !got.IsAvailable {
		t.Fatal("is_available defaults to true")
	}
}

func TestProductRequiredNumbers(t *testing.T) {
	db := memdb(t)
	ctx := context.Background()
	svc := newProductService(db, newMemStorage())
	admin := newUser(t, db, "admin", true)
	category := newCategory(t, db, "Shirts", nil)

	in := services.ProductInput{Category: category.ID, Name: "NoPrice", Description: "d", Size: "L"}
	_, err := svc.Create(ctx, admin, in)
	for _, field := range []string{"price", "weight", "stock"} {
		if msgs := fieldMessages(t, err, field); msgs[0] != "This field is required." {
			t.Fatalf("%s: unexpected message %q", field, msgs[0])
		}
	}
	var count int64
	db.Model(&models.Product{}).Count(&count)
	if count != 0 {
		t.Fatalf("product stored without price, weight and stock: %d rows", count)
	}

	product := newProduct(t, db, category, "Tee", true)
	err = svc.Update(ctx, admin, product.ID, in)
	fieldMessages(t, err, "price")

	// Zero is a value, not a missing field.
	in = productInput(category.ID, "Free sample")
	in.Price, in.Weight, in.Stock = ptr(decimal.Zero), ptr(0.0), ptr(0)
	created, err := svc.Create(ctx, admin, in)
	if err != nil {
		t.Fatal(err)
	}
	if !created.Price.IsZero() || created.Weight != 0 || created.Stock != 0 {
		t.Fatalf("unexpected product %+v", created)
	}
}

func TestProductUpdateMaterials(t *testing.T) {
	db := memdb(t)
	ctx := context.Background()
	svc := newProductService(db, newMemStorage())
	admin := newUser(t, db, "admin", true)
	category := newCategory(t, db, "Shirts", nil)

	in := productInput(category.ID, "Tee")
	in.Materials = &[]string{"cotton", "wool"}
	product, err := svc.Create(ctx, admin, in)
	if err != nil {
		t.Fatal(err)
	}

	in.Materials = &[]string{"wool", "silk"}
	if err := svc.Update(ctx, admin, product.ID, in); err != nil {
		t.Fatal(err)
	}
	got, _ := svc.Get(ctx, admin, product.ID)
	if len(got.Materials) != 2 || got.Materials[0].Name != "silk" || got.Materials[1].Name != "wool" {
		t.Fatalf("unexpected materials %+v", got.Materials)
	}

	// The same set again changes nothing.
	links := materialLinks(t, db, product.ID)
	if err := svc.Update(ctx, admin, product.ID, in); err != nil {
		t.Fatal(err)
	}
	got, _ = svc.Get(ctx, admin, product.ID)
	if len(got.Materials) != 2 || got.Materials[0].Name != "silk" || got.Materials[1].Name != "wool" {
		t.Fatalf("repeated update changed materials %+v", got.Materials)
	}
	if again := materialLinks(t, db, product.ID); again != links || again != 2 {
		t.Fatalf("join rows went from %d to %d", links, again)
	}

	// Without materials the links stay as they are.
	in.Materials = nil
	in.Name = "Renamed"
	if err := svc.Update(ctx, admin, product.ID, in); err != nil {
		t.Fatal(err)
	}
	got, _ = svc.Get(ctx, admin, product.ID)
	if got.Name != "Renamed" || len(got.Materials) != 2 {
		t.Fatalf("unexpected product %+v", got)
	}

	var cotton models.ProductMaterial
	if err := db.Where("name = ?", "cotton").First(&cotton).Error; err != nil {
		t.Fatalf("unlinked material was removed: %v", err)
	}
}

func TestProductUpdateImagesAllOrNothing(t *testing.T) {
	db := memdb(t)
	ctx := context.Background()
	storage := newMemStorage()
	svc := newProductService(db, storage)
	admin := newUser(t, db, "admin", true)
	category := newCategory(t, db, "Shirts", nil)
	product := newProduct(t, db, category, "Tee", true)
	other := newProduct(t, db, category, "Other", true)

	own1 := newImage(t, db, storage, models.OwnerProduct, product.ID, "1.jpg")
	own2 := newImage(t, db, storage, models.OwnerProduct, product.ID, "2.jpg")
	foreign := newImage(t, db, storage, models.OwnerProduct, other.ID, "3.jpg")

	in := productInput(category.ID, "Tee")
	in.ImagesToDelete = []uint{own1.ID, foreign.ID}
	err := svc.Update(ctx, admin, product.ID, in)
	fieldMessages(t, err, "images_to_delete")

	in.ImagesToDelete = []uint{own1.ID, own2.ID, foreign.ID}
	err = svc.Update(ctx, admin, product.ID, in)
	if msgs := fieldMessages(t, err, "images_to_delete"); msgs[0] != "Too many images!" {
		t.Fatalf("unexpected message %q", msgs[0])
	}

	var count int64
	db.Model(&models.Image{}).Count(&count)
	if count != 3 || storage.count() != 3 {
		t.Fatalf("rejected request deleted images: %d rows, %d files", count, storage.count())
	}

	in.ImagesToDelete = []uint{own1.ID}
	in.Images = []services.Upload{upload("new.jpg", "n")}
	if err := svc.Update(ctx, admin, product.ID, in); err != nil {
		t.Fatal(err)
	}
	got, _ := svc.Get(ctx, admin, product.ID)
	if len(got.Images) != 2 {
		t.Fatalf("want 2 images, got %+v", got.Images)
	}
	for _, img := range got.Images {
		if img.ID == own1.ID {
			t.Fatal("deleted image is still attached")
		}
	}
	if _, ok := storage.files[own1.File]; ok {
		t.Fatal("file of deleted image is still stored")
	}
}

func TestProductUpdateRollsBack(t *testing.T) {
	db := memdb(t)
	ctx := context.Background()
	storage := newMemStorage()
	svc := newProductService(db, storage)
	admin := newUser(t, db, "admin", true)
	category := newCategory(t, db, "Shirts", nil)
	product := newProduct(t, db, category, "Tee", true)
	img := newImage(t, db, storage, models.OwnerProduct, product.ID, "1.jpg")

	storage.fail = true
	in := productInput(category.ID, "Changed")
	in.Materials = &[]string{"cotton"}
	in.ImagesToDelete = []uint{img.ID}
	in.Images = []services.Upload{upload("new.jpg", "n")}
	if err := svc.Update(ctx, admin, product.ID, in); err == nil {
		t.Fatal("want storage failure")
	}

	got, _ := svc.Get(ctx, admin, product.ID)
	if got.Name != "Tee" || len(got.Materials) != 0 || len(got.Images) != 1 {
		t.Fatalf("partial update survived: %+v", got)
	}
	if _, ok := storage.files[img.File]; !ok {
		t.Fatal("file of kept image was removed")
	}
}

func TestProductDeleteRemovesImages(t *testing.T) {
	db := memdb(t)
	ctx := context.Background()
	storage := newMemStorage()
	svc := newProductService(db, storage)
	admin := newUser(t, db, "admin", true)
	category := newCategory(t, db, "Shirts", nil)
	product := newProduct(t, db, category, "Tee", true)
	feedback := newFeedback(t, db, admin, product, true)
	newImage(t, db, storage, models.OwnerProduct, product.ID, "1.jpg")
	newImage(t, db, storage, models.OwnerFeedback, feedback.ID, "2.jpg")

	if err := svc.Delete(ctx, admin, product.ID); err != nil {
		t.Fatal(err)
	}
	if err := svc.Delete(ctx, admin, product.ID); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("second delete: want ErrNotFound, got %v", err)
	}

	var count int64
	db.Model(&models.Image{}).Count(&count)
	if count != 0 || storage.count() != 0 {
		t.Fatalf("images left behind: %d rows, %d files", count, storage.count())
	}
}

func materialLinks(t *testing.T, db *gorm.DB, productID uint) int64 {
	t.Helper()
	var n int64
	if err := db.Table("product_material_products").Where("product_id = ?", productID).Count(&n).Error; err != nil {
		t.Fatal(err)
	}
	return n
}
