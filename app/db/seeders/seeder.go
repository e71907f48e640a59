package seeders

import (
	"fmt"

	"github.com/Rakhulsr/go-shop/app/db/fakers"
	"github.com/Rakhulsr/go-shop/app/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Options struct {
	Users      int
	Categories int
	Products   int
}

func DefaultOptions() Options {
	return Options{Users: 5, Categories: 3, Products: 20}
}

// DBSeed fills an empty database with demo data in one transaction.
func DBSeed(db *gorm.DB, opts Options) error {
	return db.Transaction(func(tx *gorm.DB) error {
		users := make([]*models.User, 0, opts.Users)
		for i := 0; i < opts.Users; i++ {
			user, err := fakers.UserFaker()
			if err != nil {
				return fmt.Errorf("fake user: %w", err)
			}
			if err := tx.Create(user).Error; err != nil {
				return fmt.Errorf("create user: %w", err)
			}
			if err := tx.Create(fakers.AddressFaker(user)).Error; err != nil {
				return fmt.Errorf("create address: %w", err)
			}
			users = append(users, user)
		}

		categories := make([]*models.Category, 0, opts.Categories*2)
		for i := 0; i < opts.Categories; i++ {
			root := fakers.CategoryFaker(nil)
			if err := tx.Create(root).Error; err != nil {
				return fmt.Errorf("create category: %w", err)
			}
			child := fakers.CategoryFaker(root)
			if err := tx.Create(child).Error; err != nil {
				return fmt.Errorf("create category: %w", err)
			}
			categories = append(categories, root, child)
		}
		if len(categories) == 0 {
			return nil
		}

		materials := fakers.MaterialFakers()
		for i := range materials {
			if err := tx.Where(models.ProductMaterial{Name: materials[i].Name}).FirstOrCreate(&materials[i]).Error; err != nil {
				return fmt.Errorf("create material: %w", err)
			}
		}

		for i := 0; i < opts.Products; i++ {
			product := fakers.ProductFaker(categories[i%len(categories)], materials)
			if err := tx.Create(product).Error; err != nil {
				return fmt.Errorf("create product: %w", err)
			}
			if len(users) == 0 {
				continue
			}
			if err := tx.Create(fakers.FeedbackFaker(users[i%len(users)], product)).Error; err != nil {
				return fmt.Errorf("create feedback: %w", err)
			}
		}

		zap.S().Infof("seeded %d users, %d categories, %d products", len(users), len(categories), opts.Products)
		return nil
	})
}
