package fakers

import (
	"math"
	"math/rand"
	"time"

	"github.com/Rakhulsr/go-shop/app/models"
	"github.com/go-faker/faker/v4"
	"github.com/shopspring/decimal"
)

var rng = rand.New(rand.NewSource(time.Now().UnixNano()))

var materialNames = []string{"cotton", "wool", "leather", "linen", "silk", "denim", "polyester"}

func CategoryFaker(parent *models.Category) *models.Category {
	category := &models.Category{Name: faker.Word()}
	if parent != nil {
		category.ParentCategoryID = &parent.ID
	}
	return category
}

func MaterialFakers() []models.ProductMaterial {
	materials := make([]models.ProductMaterial, len(materialNames))
	for i, name := range materialNames {
		materials[i] = models.ProductMaterial{Name: name}
	}
	return materials
}

func ProductFaker(category *models.Category, materials []models.ProductMaterial) *models.Product {
	picked := make([]models.ProductMaterial, 0, 2)
	for _, m := range materials {
		if rng.Intn(3) == 0 {
			picked = append(picked, m)
		}
	}

	return &models.Product{
		CategoryID:  category.ID,
		Name:        faker.Word() + " " + faker.Word(),
		Price:       decimal.NewFromFloat(fakePrice()),
		Description: faker.Paragraph(),
		Size:        []string{"S", "M", "L", "XL"}[rng.Intn(4)],
		Weight:      precision(rng.Float64()*5, 2),
		Stock:       rng.Intn(20) + 1,
		IsAvailable: rng.Intn(5) != 0,
		Materials:   picked,
	}
}

func FeedbackFaker(author *models.User, product *models.Product) *models.Feedback {
	return &models.Feedback{
		AuthorID:    author.ID,
		ProductID:   product.ID,
		Title:       faker.Sentence(),
		Content:     faker.Paragraph(),
		IsModerated: rng.Intn(2) == 0,
	}
}

func fakePrice() float64 {
	return precision(rng.Float64()*math.Pow10(rng.Intn(4)+4), 2)
}

func precision(val float64, pre int) float64 {
	a := math.Pow10(pre)
	return float64(int(val*a)) / a
}
