package services

import (
	"context"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/Rakhulsr/go-shop/app/models"
	"github.com/Rakhulsr/go-shop/app/repositories"
	"github.com/Rakhulsr/go-shop/app/utils/calc"
	"github.com/google/uuid"
	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var ErrPaymentUnavailable = errors.New("payments are not configured")

// PaymentGateway is the part of the midtrans snap client used for checkout.
type PaymentGateway interface {
	CreateTransaction(req *snap.Request) (*snap.Response, *midtrans.Error)
}

type MidtransNotificationPayload struct {
	TransactionStatus string `json:"transaction_status"`
	OrderID           string `json:"order_id"`
	PaymentType       string `json:"payment_type"`
	FraudStatus       string `json:"fraud_status"`
	GrossAmount       string `json:"gross_amount"`
	SignatureKey      string `json:"signature_key"`
	StatusCode        string `json:"status_code"`
}

type PaymentService struct {
	db        *gorm.DB
	orders    repositories.OrderRepositoryImpl
	gateway   PaymentGateway
	serverKey string
	appURL    string
}

// NewPaymentService returns a service that refuses to start payments when
// gateway is nil.
func NewPaymentService(db *gorm.DB, orders repositories.OrderRepositoryImpl, gateway PaymentGateway, serverKey, appURL string) *PaymentService {
	return &PaymentService{db: db, orders: orders, gateway: gateway, serverKey: serverKey, appURL: appURL}
}

// Pay opens a snap transaction for the order total and stores its redirect
// url. An order with an open transaction gets the same url again.
func (s *PaymentService) Pay(ctx context.Context, caller *models.User, id uint) (*models.Order, error) {
	if err := Authorize(caller, 0, Authenticated); err != nil {
		return nil, err
	}
	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, errors.Wrapf(err, "get order %d", id)
	}
	if order == nil {
		return nil, ErrNotFound
	}
	if err := Authorize(caller, order.UserID, OwnerOrAdmin); err != nil {
		return nil, err
	}

	switch {
	case order.IsPaid:
		return nil, NewValidationError(NonFieldErrors, "Order is already paid.")
	case len(order.OrderItems) == 0:
		return nil, NewValidationError(NonFieldErrors, "Order has no items.")
	case order.PaymentURL != "":
		return order, nil
	case s.gateway == nil:
		return nil, ErrPaymentUnavailable
	}

	code := fmt.Sprintf("ORDER-%d-%s", order.ID, strings.ToUpper(uuid.NewString()[:8]))
	req := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  code,
			GrossAmt: calc.GrossAmount(order.Total()),
		},
		CustomerDetail: &midtrans.CustomerDetails{
			FName: order.User.FirstName,
			LName: order.User.LastName,
			Email: order.User.Email,
			Phone: order.User.PhoneNumber,
		},
		Callbacks: &snap.Callbacks{
			Finish: fmt.Sprintf("%s/orders/%d/", strings.TrimRight(s.appURL, "/"), order.ID),
		},
		EnabledPayments: snap.AllSnapPaymentType,
	}

	resp, merr := s.gateway.CreateTransaction(req)
	if merr != nil {
		zap.S().Errorw("midtrans create transaction failed", "order", order.ID, "error", merr.Message)
		return nil, errors.Wrap(merr, "create snap transaction")
	}

	if err := s.orders.SetPayment(ctx, order.ID, code, resp.RedirectURL); err != nil {
		return nil, errors.Wrap(err, "store payment code")
	}
	order.PaymentCode = &code
	order.PaymentURL = resp.RedirectURL
	zap.S().Infow("payment started", "order", order.ID, "code", code)
	return order, nil
}

// HandleNotification applies a midtrans status notification. The signature is
// sha512(order_id + status_code + gross_amount + server key).
func (s *PaymentService) HandleNotification(ctx context.Context, payload MidtransNotificationPayload) error {
	if !s.validSignature(payload) {
		zap.S().Warnw("rejected payment notification", "code", payload.OrderID)
		return ErrForbidden
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.orders.WithTx(tx)
		order, err := repo.GetByPaymentCode(ctx, payload.OrderID)
		if err != nil {
			return errors.Wrap(err, "get order by payment code")
		}
		if order == nil {
			return ErrNotFound
		}

		if !settled(payload) {
			zap.S().Infow("payment notification", "order", order.ID, "status", payload.TransactionStatus, "fraud", payload.FraudStatus)
			return nil
		}
		if order.IsPaid {
			return nil
		}
		if err := repo.MarkPaid(ctx, order.ID); err != nil {
			return errors.Wrap(err, "mark order paid")
		}
		zap.S().Infow("order paid", "order", order.ID, "type", payload.PaymentType)
		return nil
	})
}

func (s *PaymentService) validSignature(p MidtransNotificationPayload) bool {
	if s.serverKey == "" || p.SignatureKey == "" {
		return false
	}
	sum := sha512.Sum512([]byte(p.OrderID + p.StatusCode + p.GrossAmount + s.serverKey))
	expected := hex.EncodeToString(sum[:])
	return subtle.ConstantTimeCompare([]byte(expected), []byte(strings.ToLower(p.SignatureKey))) == 1
}

func settled(p MidtransNotificationPayload) bool {
	switch p.TransactionStatus {
	case "settlement":
		return true
	case "capture":
		return p.FraudStatus == "accept"
	}
	return false
}
