package handlers

import (
	"fmt"
	"net/http"

	"github.com/Rakhulsr/go-shop/app/services"
)

type MaterialHandler struct {
	*Base
	materials *services.MaterialService
}

func NewMaterialHandler(base *Base, materials *services.MaterialService) *MaterialHandler {
	return &MaterialHandler{Base: base, materials: materials}
}

func (h *MaterialHandler) List(w http.ResponseWriter, r *http.Request) {
	materials, err := h.materials.List(r.Context(), caller(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	out := make([]MaterialResponse, 0, len(materials))
	for _, m := range materials {
		out = append(out, materialResponse(m))
	}
	h.ok(w, out)
}

func (h *MaterialHandler) Get(w http.ResponseWriter, r *http.Request) {
	material, err := h.materials.Get(r.Context(), caller(r), pathID(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, materialResponse(*material))
}

func (h *MaterialHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in services.MaterialInput
	body, err := h.decode(r, &in)
	defer body.Close()
	if err != nil {
		h.fail(w, r, err)
		return
	}
	material, err := h.materials.Create(r.Context(), caller(r), in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.created(w, fmt.Sprintf("/product-materials/%d/", material.ID))
}

func (h *MaterialHandler) Update(w http.ResponseWriter, r *http.Request) {
	var in services.MaterialInput
	body, err := h.decode(r, &in)
	defer body.Close()
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if err := h.materials.Update(r.Context(), caller(r), pathID(r), in); err != nil {
		h.fail(w, r, err)
		return
	}
	h.noContent(w, http.StatusOK)
}

func (h *MaterialHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.materials.Delete(r.Context(), caller(r), pathID(r)); err != nil {
		h.fail(w, r, err)
		return
	}
	h.noContent(w, http.StatusNoContent)
}
