package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/Rakhulsr/go-shop/app/models"
	"github.com/Rakhulsr/go-shop/app/repositories"
	"github.com/Rakhulsr/go-shop/app/services"
)

func addressInput(city string) services.AddressInput {
	return services.AddressInput{
		Country:     "Indonesia",
		Region:      "DKI Jakarta",
		City:        city,
		Street:      "Jl. Sudirman",
		HouseNumber: "1",
		FlatNumber:  "2A",
		PostalCode:  10220,
	}
}

func TestAddressOwnership(t *testing.T) {
	db := memdb(t)
	ctx := context.Background()
	svc := services.NewAddressService(db, repositories.NewAddressRepository(db))
	alice := newUser(t, db, "alice", false)
	bob := newUser(t, db, "bob", false)
	admin := newUser(t, db, "admin", true)

	if _, err := svc.Create(ctx, nil, addressInput("Jakarta")); !errors.Is(err, services.ErrForbidden) {
		t.Fatalf("anonymous: want ErrForbidden, got %v", err)
	}
	_, err := svc.Create(ctx, alice, services.AddressInput{City: "Jakarta"})
	fieldMessages(t, err, "country")

	address, err := svc.Create(ctx, alice, addressInput("Jakarta"))
	if err != nil {
		t.Fatal(err)
	}
	if address.UserID != alice.ID {
		t.Fatalf("address owned by %d, want %d", address.UserID, alice.ID)
	}
	newAddress(t, db, bob)

	mine, err := svc.List(ctx, alice)
	if err != nil || len(mine) != 1 {
		t.Fatalf("alice lists %d addresses (%v)", len(mine), err)
	}
	if all, _ := svc.List(ctx, admin); len(all) != 2 {
		t.Fatalf("admin lists %d addresses, want 2", len(all))
	}

	if err := svc.Update(ctx, bob, address.ID, addressInput("Depok")); !errors.Is(err, services.ErrForbidden) {
		t.Fatalf("stranger update: want ErrForbidden, got %v", err)
	}
	if err := svc.Update(ctx, admin, address.ID, addressInput("Bogor")); err != nil {
		t.Fatal(err)
	}
	got, err := svc.Get(ctx, alice, address.ID)
	if err != nil || got.City != "Bogor" || got.UserID != alice.ID {
		t.Fatalf("unexpected address %+v (%v)", got, err)
	}

	order := newOrder(t, db, alice, got, nil)
	if err := svc.Delete(ctx, alice, address.ID); err != nil {
		t.Fatal(err)
	}
	var count int64
	db.Model(&models.Order{}).Where("id = ?", order.ID).Count(&count)
	if count != 0 {
		t.Fatal("orders shipped to a deleted address survived")
	}
}

func TestOrderItems(t *testing.T) {
	db := memdb(t)
	ctx := context.Background()
	svc := services.NewOrderItemService(db,
		repositories.NewOrderItemRepository(db),
		repositories.NewProductRepository(db),
		repositories.NewOrderRepository(db))
	alice := newUser(t, db, "alice", false)
	admin := newUser(t, db, "admin", true)
	tee := newProduct(t, db, newCategory(t, db, "Shirts", nil), "Tee", true)
	order := newOrder(t, db, alice, newAddress(t, db, alice), nil)

	in := services.OrderItemInput{Product: tee.ID, Order: order.ID, Quantity: 2}
	if _, err := svc.Create(ctx, alice, in); !errors.Is(err, services.ErrForbidden) {
		t.Fatalf("customer: want ErrForbidden, got %v", err)
	}

	_, err := svc.Create(ctx, admin, services.OrderItemInput{Product: 77, Order: 88, Quantity: 1})
	fieldMessages(t, err, "product")
	fieldMessages(t, err, "order")

	_, err = svc.Create(ctx, admin, services.OrderItemInput{Product: tee.ID, Order: order.ID})
	fieldMessages(t, err, "quantity")

	item, err := svc.Create(ctx, admin, in)
	if err != nil {
		t.Fatal(err)
	}
	in.Quantity = 5
	if err := svc.Update(ctx, admin, item.ID, in); err != nil {
		t.Fatal(err)
	}
	got, err := svc.Get(ctx, admin, item.ID)
	if err != nil || got.Quantity != 5 {
		t.Fatalf("unexpected item %+v (%v)", got, err)
	}
	if err := svc.Delete(ctx, admin, item.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Get(ctx, admin, item.ID); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("deleted item: want ErrNotFound, got %v", err)
	}
}
