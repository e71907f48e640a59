package handlers

import (
	"fmt"
	"net/http"

	"github.com/Rakhulsr/go-shop/app/services"
)

type OrderItemHandler struct {
	*Base
	items *services.OrderItemService
}

func NewOrderItemHandler(base *Base, items *services.OrderItemService) *OrderItemHandler {
	return &OrderItemHandler{Base: base, items: items}
}

func (h *OrderItemHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.items.List(r.Context(), caller(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	out := make([]OrderItemResponse, 0, len(items))
	for _, item := range items {
		out = append(out, h.orderItemResponse(item))
	}
	h.ok(w, out)
}

func (h *OrderItemHandler) Get(w http.ResponseWriter, r *http.Request) {
	item, err := h.items.Get(r.Context(), caller(r), pathID(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, h.orderItemResponse(*item))
}

func (h *OrderItemHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in services.OrderItemInput
	body, err := h.decode(r, &in)
	defer body.Close()
	if err != nil {
		h.fail(w, r, err)
		return
	}
	item, err := h.items.Create(r.Context(), caller(r), in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.created(w, fmt.Sprintf("/order-items/%d/", item.ID))
}

func (h *OrderItemHandler) Update(w http.ResponseWriter, r *http.Request) {
	var in services.OrderItemInput
	body, err := h.decode(r, &in)
	defer body.Close()
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if err := h.items.Update(r.Context(), caller(r), pathID(r), in); err != nil {
		h.fail(w, r, err)
		return
	}
	h.noContent(w, http.StatusOK)
}

func (h *OrderItemHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.items.Delete(r.Context(), caller(r), pathID(r)); err != nil {
		h.fail(w, r, err)
		return
	}
	h.noContent(w, http.StatusNoContent)
}
