package services

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/Rakhulsr/go-shop/app/models"
	"github.com/Rakhulsr/go-shop/app/repositories"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"go.uber.org/zap"
)

// Upload is one incoming image file.
type Upload struct {
	Filename string
	Content  io.Reader
}

type FileStorage interface {
	Save(dir, filename string, content io.Reader) (string, error)
	Remove(name string) error
	URL(name string) string
}

// LocalStorage keeps files under root; stored names are slash separated and
// relative to root.
type LocalStorage struct {
	root    string
	baseURL string
}

func NewLocalStorage(root, baseURL string) *LocalStorage {
	return &LocalStorage{root: root, baseURL: baseURL}
}

func (s *LocalStorage) Save(dir, filename string, content io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	base := slug.Make(strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename)))
	if base == "" {
		base = "image"
	}

	target := filepath.Join(s.root, filepath.FromSlash(dir))
	if err := os.MkdirAll(target, 0o755); err != nil {
		return "", fmt.Errorf("failed to create %s: %w", target, err)
	}

	name := base + ext
	f, err := os.OpenFile(filepath.Join(target, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if os.IsExist(err) {
		name = base + "-" + uuid.NewString()[:8] + ext
		f, err = os.OpenFile(filepath.Join(target, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	}
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", name, err)
	}
	defer f.Close()

	if _, err := io.Copy(f, content); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("failed to write %s: %w", name, err)
	}
	return path.Join(dir, name), nil
}

func (s *LocalStorage) Remove(name string) error {
	err := os.Remove(filepath.Join(s.root, filepath.FromSlash(name)))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (s *LocalStorage) URL(name string) string {
	return strings.TrimSuffix(s.baseURL, "/") + "/" + name
}

// imageFiles attaches uploads to owners and tracks the files written in one
// operation so they can be dropped again when the transaction fails.
type imageFiles struct {
	storage FileStorage
	written []string
	removed []string
}

func (f *imageFiles) attach(ctx context.Context, images repositories.ImageRepositoryImpl, owner AttachmentOwner, uploads []Upload) error {
	for _, up := range uploads {
		if _, err := f.store(ctx, images, owner, up); err != nil {
			return err
		}
	}
	return nil
}

// store writes one upload under the owner's directory and records it. The tip
// is the uploaded file name.
func (f *imageFiles) store(ctx context.Context, images repositories.ImageRepositoryImpl, owner AttachmentOwner, up Upload) (*models.Image, error) {
	name, err := f.storage.Save(owner.Dir(), up.Filename, up.Content)
	if err != nil {
		return nil, err
	}
	f.written = append(f.written, name)

	img := &models.Image{
		File:      name,
		Tip:       up.Filename,
		OwnerType: owner.Kind,
		OwnerID:   owner.ID(),
	}
	if err := images.Create(ctx, img); err != nil {
		return nil, fmt.Errorf("failed to record image %s: %w", up.Filename, err)
	}
	return img, nil
}

func (f *imageFiles) drop(images []models.Image) {
	for _, img := range images {
		f.removed = append(f.removed, img.File)
	}
}

// finish removes dropped files after a commit, or the new files after a rollback.
func (f *imageFiles) finish(err error) {
	names := f.removed
	if err != nil {
		names = f.written
	}
	for _, name := range names {
		if rmErr := f.storage.Remove(name); rmErr != nil {
			zap.S().Warnf("failed to remove stored file %s: %v", name, rmErr)
		}
	}
}
