package services_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/Rakhulsr/go-shop/app/configs"
	"github.com/Rakhulsr/go-shop/app/models"
	"github.com/Rakhulsr/go-shop/app/models/migrations"
	"github.com/Rakhulsr/go-shop/app/services"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func memdb(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := configs.SQLiteDSN(filepath.Join(t.TempDir(), "shop.db"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Discard})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := migrations.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

// memStorage keeps stored files in memory.
type memStorage struct {
	mu    sync.Mutex
	files map[string][]byte
	fail  bool
}

func newMemStorage() *memStorage {
	return &memStorage{files: map[string][]byte{}}
}

func (m *memStorage) Save(dir, filename string, content io.Reader) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return "", fmt.Errorf("disk full")
	}
	data, err := io.ReadAll(content)
	if err != nil {
		return "", err
	}
	name := dir + "/" + filename
	for i := 1; m.files[name] != nil; i++ {
		name = fmt.Sprintf("%s/%d-%s", dir, i, filename)
	}
	m.files[name] = data
	return name, nil
}

func (m *memStorage) Remove(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.files, name)
	return nil
}

func (m *memStorage) URL(name string) string {
	return "/media/" + name
}

func (m *memStorage) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.files)
}

func upload(name, body string) services.Upload {
	return services.Upload{Filename: name, Content: strings.NewReader(body)}
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []bool
}

func (n *recordingNotifier) FeedbackChanged(_ context.Context, _ *models.Feedback, created bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, created)
}

func mustCreate(t *testing.T, db *gorm.DB, v interface{}) {
	t.Helper()
	if err := db.Create(v).Error; err != nil {
		t.Fatalf("create %T: %v", v, err)
	}
}

func newUser(t *testing.T, db *gorm.DB, username string, staff bool) *models.User {
	t.Helper()
	user := &models.User{Username: username, Password: "x", IsStaff: staff, IsActive: true}
	mustCreate(t, db, user)
	return user
}

func newCategory(t *testing.T, db *gorm.DB, name string, parent *models.Category) *models.Category {
	t.Helper()
	category := &models.Category{Name: name}
	if parent != nil {
		category.ParentCategoryID = &parent.ID
	}
	mustCreate(t, db, category)
	return category
}

func newProduct(t *testing.T, db *gorm.DB, category *models.Category, name string, available bool) *models.Product {
	t.Helper()
	product := &models.Product{
		CategoryID:  category.ID,
		Name:        name,
		Price:       decimal.RequireFromString("10.50"),
		Description: "desc",
		Size:        "M",
		Weight:      1,
		Stock:       3,
		IsAvailable: available,
	}
	mustCreate(t, db, product)
	return product
}

func newFeedback(t *testing.T, db *gorm.DB, author *models.User, product *models.Product, moderated bool) *models.Feedback {
	t.Helper()
	feedback := &models.Feedback{
		AuthorID:    author.ID,
		ProductID:   product.ID,
		Title:       "title",
		Content:     "content",
		IsModerated: moderated,
	}
	mustCreate(t, db, feedback)
	return feedback
}

func newImage(t *testing.T, db *gorm.DB, storage *memStorage, ownerType string, ownerID uint, name string) *models.Image {
	t.Helper()
	file, err := storage.Save(fmt.Sprintf("%s_images/%s_%d", ownerType, ownerType, ownerID), name, strings.NewReader("data"))
	if err != nil {
		t.Fatal(err)
	}
	img := &models.Image{File: file, Tip: name, OwnerType: ownerType, OwnerID: ownerID}
	mustCreate(t, db, img)
	return img
}

func fieldMessages(t *testing.T, err error, field string) []string {
	t.Helper()
	var verr *services.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("want *ValidationError, got %T: %v", err, err)
	}
	msgs, ok := verr.Fields[field]
	if !ok {
		t.Fatalf("no messages for %q in %v", field, verr.Fields)
	}
	return msgs
}

func ptr[T any](v T) *T { return &v }
