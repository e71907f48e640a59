package services_test

import (
	"context"
	"crypto/sha512"
	"encoding/hex"
	"errors"
	"strconv"
	"strings"
	"testing"

	"github.com/Rakhulsr/go-shop/app/models"
	"github.com/Rakhulsr/go-shop/app/repositories"
	"github.com/Rakhulsr/go-shop/app/services"
	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"
	"gorm.io/gorm"
)

const serverKey = "SB-Mid-server-test"

type fakeGateway struct {
	requests []*snap.Request
}

func (g *fakeGateway) CreateTransaction(req *snap.Request) (*snap.Response, *midtrans.Error) {
	g.requests = append(g.requests, req)
	return &snap.Response{Token: "tok", RedirectURL: "https://app.sandbox.midtrans.com/snap/v2/vtweb/tok"}, nil
}

func newPaymentService(db *gorm.DB, gateway services.PaymentGateway) *services.PaymentService {
	return services.NewPaymentService(db, repositories.NewOrderRepository(db), gateway, serverKey, "http://shop.test/")
}

func sign(orderID, statusCode, gross string) string {
	sum := sha512.Sum512([]byte(orderID + statusCode + gross + serverKey))
	return hex.EncodeToString(sum[:])
}

func TestPaymentPay(t *testing.T) {
	db := memdb(t)
	ctx := context.Background()
	alice := newUser(t, db, "alice", false)
	bob := newUser(t, db, "bob", false)
	address := newAddress(t, db, alice)
	tee := newProduct(t, db, newCategory(t, db, "Shirts", nil), "Tee", true)

	gateway := &fakeGateway{}
	svc := newPaymentService(db, gateway)

	empty := newOrder(t, db, alice, address, nil)
	_, err := svc.Pay(ctx, alice, empty.ID)
	if msgs := fieldMessages(t, err, services.NonFieldErrors); msgs[0] != "Order has no items." {
		t.Fatalf("unexpected message %q", msgs[0])
	}

	order := newOrder(t, db, alice, address, map[*models.Product]int{tee: 3})
	if _, err := svc.Pay(ctx, bob, order.ID); !errors.Is(err, services.ErrForbidden) {
		t.Fatalf("stranger: want ErrForbidden, got %v", err)
	}
	if _, err := newPaymentService(db, nil).Pay(ctx, alice, order.ID); !errors.Is(err, services.ErrPaymentUnavailable) {
		t.Fatalf("no gateway: want ErrPaymentUnavailable, got %v", err)
	}

	paid, err := svc.Pay(ctx, alice, order.ID)
	if err != nil {
		t.Fatal(err)
	}
	if paid.PaymentURL == "" || paid.PaymentCode == nil || !strings.HasPrefix(*paid.PaymentCode, "ORDER-") {
		t.Fatalf("payment not stored: %+v", paid)
	}
	if len(gateway.requests) != 1 {
		t.Fatalf("want 1 gateway call, got %d", len(gateway.requests))
	}
	req := gateway.requests[0]
	// 3 x 10.50 rounds up to whole rupiah.
	if req.TransactionDetails.GrossAmt != 32 {
		t.Fatalf("want gross 32, got %d", req.TransactionDetails.GrossAmt)
	}
	if req.Callbacks == nil || req.Callbacks.Finish != "http://shop.test/orders/"+itoa(order.ID)+"/" {
		t.Fatalf("unexpected callbacks %+v", req.Callbacks)
	}

	again, err := svc.Pay(ctx, alice, order.ID)
	if err != nil {
		t.Fatal(err)
	}
	if again.PaymentURL != paid.PaymentURL || len(gateway.requests) != 1 {
		t.Fatal("open transaction was not reused")
	}
}

func TestPaymentNotification(t *testing.T) {
	db := memdb(t)
	ctx := context.Background()
	alice := newUser(t, db, "alice", false)
	tee := newProduct(t, db, newCategory(t, db, "Shirts", nil), "Tee", true)
	order := newOrder(t, db, alice, newAddress(t, db, alice), map[*models.Product]int{tee: 1})
	svc := newPaymentService(db, &fakeGateway{})

	paid, err := svc.Pay(ctx, alice, order.ID)
	if err != nil {
		t.Fatal(err)
	}
	code := *paid.PaymentCode

	payload := services.MidtransNotificationPayload{
		OrderID:           code,
		StatusCode:        "200",
		GrossAmount:       "11.00",
		TransactionStatus: "pending",
	}
	payload.SignatureKey = "deadbeef"
	if err := svc.HandleNotification(ctx, payload); !errors.Is(err, services.ErrForbidden) {
		t.Fatalf("bad signature: want ErrForbidden, got %v", err)
	}

	payload.SignatureKey = sign(payload.OrderID, payload.StatusCode, payload.GrossAmount)
	if err := svc.HandleNotification(ctx, payload); err != nil {
		t.Fatal(err)
	}
	if isPaid(t, db, order.ID) {
		t.Fatal("pending notification marked the order paid")
	}

	payload.TransactionStatus = "settlement"
	if err := svc.HandleNotification(ctx, payload); err != nil {
		t.Fatal(err)
	}
	if !isPaid(t, db, order.ID) {
		t.Fatal("settlement did not mark the order paid")
	}

	unknown := services.MidtransNotificationPayload{OrderID: "ORDER-404-X", StatusCode: "200", GrossAmount: "1.00", TransactionStatus: "settlement"}
	unknown.SignatureKey = sign(unknown.OrderID, unknown.StatusCode, unknown.GrossAmount)
	if err := svc.HandleNotification(ctx, unknown); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("unknown code: want ErrNotFound, got %v", err)
	}
}

func isPaid(t *testing.T, db *gorm.DB, id uint) bool {
	t.Helper()
	var order models.Order
	if err := db.First(&order, id).Error; err != nil {
		t.Fatal(err)
	}
	return order.IsPaid
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func TestPaymentReopensAfterItemsChange(t *testing.T) {
	db := memdb(t)
	ctx := context.Background()
	alice := newUser(t, db, "alice", false)
	admin := newUser(t, db, "admin", true)
	category := newCategory(t, db, "Shirts", nil)
	tee := newProduct(t, db, category, "Tee", true)
	polo := newProduct(t, db, category, "Polo", true)
	order := newOrder(t, db, alice, newAddress(t, db, alice), map[*models.Product]int{tee: 1})

	gateway := &fakeGateway{}
	svc := newPaymentService(db, gateway)
	items := services.NewOrderItemService(db,
		repositories.NewOrderItemRepository(db),
		repositories.NewProductRepository(db),
		repositories.NewOrderRepository(db))

	first, err := svc.Pay(ctx, alice, order.ID)
	if err != nil {
		t.Fatal(err)
	}
	staleCode := *first.PaymentCode

	item, err := items.Create(ctx, admin, services.OrderItemInput{Product: polo.ID, Order: order.ID, Quantity: 2})
	if err != nil {
		t.Fatal(err)
	}
	second, err := svc.Pay(ctx, alice, order.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(gateway.requests) != 2 {
		t.Fatalf("want a new transaction after items changed, got %d gateway calls", len(gateway.requests))
	}
	// 1 x 10.50 + 2 x 10.50 rounds up to 32.
	if got := gateway.requests[1].TransactionDetails.GrossAmt; got != 32 {
		t.Fatalf("want gross 32, got %d", got)
	}
	if *second.PaymentCode == staleCode {
		t.Fatal("payment code was reused for a different total")
	}

	if err := items.Delete(ctx, admin, item.ID); err != nil {
		t.Fatal(err)
	}
	var reloaded models.Order
	if err := db.First(&reloaded, order.ID).Error; err != nil {
		t.Fatal(err)
	}
	if reloaded.PaymentCode != nil || reloaded.PaymentURL != "" {
		t.Fatalf("payment survived item removal: %+v", reloaded)
	}
}
