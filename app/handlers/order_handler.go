package handlers

import (
	"fmt"
	"net/http"

	"github.com/Rakhulsr/go-shop/app/models"
	"github.com/Rakhulsr/go-shop/app/services"
)

type OrderHandler struct {
	*Base
	orders   *services.OrderService
	payments *services.PaymentService
}

func NewOrderHandler(base *Base, orders *services.OrderService, payments *services.PaymentService) *OrderHandler {
	return &OrderHandler{Base: base, orders: orders, payments: payments}
}

func orderResponses(orders []models.Order) []OrderResponse {
	out := make([]OrderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, orderResponse(o))
	}
	return out
}

func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.List(r.Context(), caller(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, orderResponses(orders))
}

func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	order, err := h.orders.Get(r.Context(), caller(r), pathID(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, orderResponse(*order))
}

func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in services.OrderInput
	body, err := h.decode(r, &in)
	defer body.Close()
	if err != nil {
		h.fail(w, r, err)
		return
	}
	order, err := h.orders.Create(r.Context(), caller(r), in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.created(w, fmt.Sprintf("/orders/%d/", order.ID))
}

func (h *OrderHandler) Update(w http.ResponseWriter, r *http.Request) {
	var in services.OrderInput
	body, err := h.decode(r, &in)
	defer body.Close()
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if err := h.orders.Update(r.Context(), caller(r), pathID(r), in); err != nil {
		h.fail(w, r, err)
		return
	}
	h.noContent(w, http.StatusOK)
}

func (h *OrderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.orders.Delete(r.Context(), caller(r), pathID(r)); err != nil {
		h.fail(w, r, err)
		return
	}
	h.noContent(w, http.StatusNoContent)
}

// Pay starts a snap payment; the order comes back with its payment_url.
func (h *OrderHandler) Pay(w http.ResponseWriter, r *http.Request) {
	order, err := h.payments.Pay(r.Context(), caller(r), pathID(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, orderResponse(*order))
}
