package fakers

import (
	"fmt"

	"github.com/Rakhulsr/go-shop/app/helpers"
	"github.com/Rakhulsr/go-shop/app/models"
	"github.com/go-faker/faker/v4"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

// DefaultPassword is the password every seeded account gets.
const DefaultPassword = "password123"

func UserFaker() (*models.User, error) {
	first := faker.FirstName()
	last := faker.LastName()

	hashed, err := helpers.HashPassword(DefaultPassword)
	if err != nil {
		return nil, err
	}

	return &models.User{
		Username:    slug.Make(first+" "+last) + "-" + uuid.NewString()[:4],
		Password:    hashed,
		FirstName:   first,
		LastName:    last,
		Email:       faker.Email(),
		PhoneNumber: fmt.Sprintf("08%010d", rng.Int63n(1e10)),
		IsActive:    true,
	}, nil
}

func AddressFaker(user *models.User) *models.Address {
	return &models.Address{
		UserID:      user.ID,
		Country:     "Indonesia",
		Region:      faker.Word(),
		City:        faker.Word(),
		Street:      faker.Word() + " Street",
		HouseNumber: faker.Word()[:1] + "12",
		FlatNumber:  "3",
		PostalCode:  uint(10000 + rng.Intn(89999)),
	}
}
