package handlers

import (
	"net/http"

	"github.com/Rakhulsr/go-shop/app/helpers"
	"github.com/Rakhulsr/go-shop/app/services"
	"go.uber.org/zap"
)

type PaymentHandler struct {
	*Base
	payments *services.PaymentService
}

func NewPaymentHandler(base *Base, payments *services.PaymentService) *PaymentHandler {
	return &PaymentHandler{Base: base, payments: payments}
}

// Notification receives midtrans status callbacks.
func (h *PaymentHandler) Notification(w http.ResponseWriter, r *http.Request) {
	var payload services.MidtransNotificationPayload
	if err := helpers.DecodeJSON(r.Body, &payload); err != nil {
		h.fail(w, r, err)
		return
	}
	zap.S().Infow("midtrans notification",
		"order_id", payload.OrderID,
		"transaction_status", payload.TransactionStatus,
		"request_id", requestID(r),
	)
	if err := h.payments.HandleNotification(r.Context(), payload); err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, map[string]string{"status": "ok"})
}
