package handlers

import (
	"fmt"
	"net/http"

	"github.com/Rakhulsr/go-shop/app/models"
	"github.com/Rakhulsr/go-shop/app/services"
)

type AddressHandler struct {
	*Base
	addresses *services.AddressService
}

func NewAddressHandler(base *Base, addresses *services.AddressService) *AddressHandler {
	return &AddressHandler{Base: base, addresses: addresses}
}

func addressResponses(addresses []models.Address) []AddressResponse {
	out := make([]AddressResponse, 0, len(addresses))
	for _, a := range addresses {
		out = append(out, addressResponse(a))
	}
	return out
}

func (h *AddressHandler) List(w http.ResponseWriter, r *http.Request) {
	addresses, err := h.addresses.List(r.Context(), caller(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, addressResponses(addresses))
}

func (h *AddressHandler) Get(w http.ResponseWriter, r *http.Request) {
	address, err := h.addresses.Get(r.Context(), caller(r), pathID(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, addressResponse(*address))
}

func (h *AddressHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in services.AddressInput
	body, err := h.decode(r, &in)
	defer body.Close()
	if err != nil {
		h.fail(w, r, err)
		return
	}
	address, err := h.addresses.Create(r.Context(), caller(r), in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.created(w, fmt.Sprintf("/addresses/%d/", address.ID))
}

func (h *AddressHandler) Update(w http.ResponseWriter, r *http.Request) {
	var in services.AddressInput
	body, err := h.decode(r, &in)
	defer body.Close()
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if err := h.addresses.Update(r.Context(), caller(r), pathID(r), in); err != nil {
		h.fail(w, r, err)
		return
	}
	h.noContent(w, http.StatusOK)
}

func (h *AddressHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.addresses.Delete(r.Context(), caller(r), pathID(r)); err != nil {
		h.fail(w, r, err)
		return
	}
	h.noContent(w, http.StatusNoContent)
}
