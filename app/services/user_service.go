package services

import (
	"context"
	"strings"

	"github.com/Rakhulsr/go-shop/app/helpers"
	"github.com/Rakhulsr/go-shop/app/models"
	"github.com/Rakhulsr/go-shop/app/repositories"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

const (
	duplicateUsername  = "A user with that username already exists."
	superuserNeedStaff = "Superuser must have is_staff=True."
)

type UserInput struct {
	Username    string `json:"username" mapstructure:"username" validate:"required,max=150,username"`
	Password    string `json:"password" mapstructure:"password" validate:"required,max=128"`
	FirstName   string `json:"first_name" mapstructure:"first_name" validate:"max=150"`
	LastName    string `json:"last_name" mapstructure:"last_name" validate:"max=150"`
	Email       string `json:"email" mapstructure:"email" validate:"omitempty,email,max=254"`
	PhoneNumber string `json:"phone_number" mapstructure:"phone_number" validate:"max=15"`
	IsStaff     bool   `json:"is_staff" mapstructure:"is_staff"`
	IsSuperuser bool   `json:"is_superuser" mapstructure:"is_superuser"`
	IsActive    *bool  `json:"is_active" mapstructure:"is_active"`
}

// SuperuserSettings returns the role flags the caller is allowed to store.
// Staff may set any combination except a superuser without staff; everybody
// else always gets a plain active account.
func SuperuserSettings(caller *models.User, in UserInput) (staff, superuser, active bool, err error) {
	if !IsStaff(caller) {
		return false, false, true, nil
	}
	if in.IsSuperuser && !in.IsStaff {
		return false, false, false, NewValidationError(NonFieldErrors, superuserNeedStaff)
	}
	active = true
	if in.IsActive != nil {
		active = *in.IsActive
	}
	return in.IsStaff, in.IsSuperuser, active, nil
}

type UserService struct {
	db      *gorm.DB
	users   repositories.UserRepositoryImpl
	images  repositories.ImageRepositoryImpl
	storage FileStorage
}

func NewUserService(db *gorm.DB, users repositories.UserRepositoryImpl, images repositories.ImageRepositoryImpl, storage FileStorage) *UserService {
	return &UserService{db: db, users: users, images: images, storage: storage}
}

func (s *UserService) List(ctx context.Context, caller *models.User) ([]models.User, error) {
	if err := Authorize(caller, 0, StaffOnly); err != nil {
		return nil, err
	}
	return s.users.GetAll(ctx)
}

func (s *UserService) Get(ctx context.Context, caller *models.User, id uint) (*models.User, error) {
	return s.owned(ctx, s.users, caller, id, false)
}

func (s *UserService) owned(ctx context.Context, repo repositories.UserRepositoryImpl, caller *models.User, id uint, detailed bool) (*models.User, error) {
	if err := Authorize(caller, 0, Authenticated); err != nil {
		return nil, err
	}
	find := repo.FindByID
	if detailed {
		find = repo.FindDetailedByID
	}
	user, err := find(ctx, id)
	if err != nil {
		return nil, errors.Wrapf(err, "get user %d", id)
	}
	if user == nil {
		return nil, ErrNotFound
	}
	if err := Authorize(caller, user.ID, OwnerOrAdmin); err != nil {
		return nil, err
	}
	return user, nil
}

// Create registers an account. Anonymous callers may register themselves.
func (s *UserService) Create(ctx context.Context, caller *models.User, in UserInput) (*models.User, error) {
	if err := validateInput(&in); err != nil {
		return nil, err
	}
	user := &models.User{}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.users.WithTx(tx)
		if err := s.checkUsername(ctx, repo, in.Username); err != nil {
			return err
		}
		if err := s.fill(user, caller, in); err != nil {
			return err
		}
		return repo.Create(ctx, user)
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// CreateSuperuser is the command line path to the first administrator; it
// bypasses the caller checks.
func (s *UserService) CreateSuperuser(ctx context.Context, in UserInput) (*models.User, error) {
	active := true
	in.IsStaff, in.IsSuperuser, in.IsActive = true, true, &active
	return s.Create(ctx, &models.User{IsStaff: true, IsSuperuser: true, IsActive: true}, in)
}

// Update replaces the account. The username is checked for uniqueness only
// when it changes.
func (s *UserService) Update(ctx context.Context, caller *models.User, id uint, in UserInput) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.users.WithTx(tx)
		user, err := s.owned(ctx, repo, caller, id, false)
		if err != nil {
			return err
		}
		if err := validateInput(&in); err != nil {
			return err
		}
		if user.Username != in.Username {
			if err := s.checkUsername(ctx, repo, in.Username); err != nil {
				return err
			}
		}
		if err := s.fill(user, caller, in); err != nil {
			return err
		}
		return repo.Update(ctx, user)
	})
}

// Delete removes the account with its addresses, feedback and orders.
func (s *UserService) Delete(ctx context.Context, caller *models.User, id uint) error {
	files := &imageFiles{storage: s.storage}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.users.WithTx(tx)
		if _, err := s.owned(ctx, repo, caller, id, false); err != nil {
			return err
		}
		if err := repo.Delete(ctx, id); err != nil {
			return errors.Wrap(err, "delete user")
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

func (s *UserService) Addresses(ctx context.Context, caller *models.User, id uint) ([]models.Address, error) {
	user, err := s.owned(ctx, s.users, caller, id, true)
	if err != nil {
		return nil, err
	}
	return user.Addresses, nil
}

func (s *UserService) Feedback(ctx context.Context, caller *models.User, id uint) ([]models.Feedback, error) {
	user, err := s.owned(ctx, s.users, caller, id, true)
	if err != nil {
		return nil, err
	}
	return user.Feedback, nil
}

func (s *UserService) Orders(ctx context.Context, caller *models.User, id uint) ([]models.Order, error) {
	user, err := s.owned(ctx, s.users, caller, id, true)
	if err != nil {
		return nil, err
	}
	return user.Orders, nil
}

func (s *UserService) checkUsername(ctx context.Context, repo repositories.UserRepositoryImpl, username string) error {
	existing, err := repo.FindByUsername(ctx, username)
	if err != nil {
		return errors.Wrap(err, "check username")
	}
	if existing != nil {
		return NewValidationError("username", duplicateUsername)
	}
	return nil
}

func (s *UserService) fill(user *models.User, caller *models.User, in UserInput) error {
	staff, superuser, active, err := SuperuserSettings(caller, in)
	if err != nil {
		return err
	}
	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		return errors.Wrap(err, "hash password")
	}

	user.Username = in.Username
	user.Password = hash
	user.FirstName = in.FirstName
	user.LastName = in.LastName
	user.Email = strings.ToLower(strings.TrimSpace(in.Email))
	user.PhoneNumber = in.PhoneNumber
	user.IsStaff = staff
	user.IsSuperuser = superuser
	user.IsActive = active
	return nil
}
