package handlers

import (
	"fmt"
	"net/http"

	"github.com/Rakhulsr/go-shop/app/services"
)

type CategoryHandler struct {
	*Base
	categories *services.CategoryService
}

func NewCategoryHandler(base *Base, categories *services.CategoryService) *CategoryHandler {
	return &CategoryHandler{Base: base, categories: categories}
}

func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	categories, err := h.categories.List(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	out := make([]CategoryResponse, 0, len(categories))
	for _, c := range categories {
		out = append(out, h.categoryResponse(c))
	}
	h.ok(w, out)
}

func (h *CategoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	category, err := h.categories.Get(r.Context(), pathID(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, h.categoryResponse(*category))
}

func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in services.CategoryInput
	body, err := h.decode(r, &in)
	defer body.Close()
	if err != nil {
		h.fail(w, r, err)
		return
	}
	category, err := h.categories.Create(r.Context(), caller(r), in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.created(w, fmt.Sprintf("/categories/%d/", category.ID))
}

func (h *CategoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	var in services.CategoryInput
	body, err := h.decode(r, &in)
	defer body.Close()
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if err := h.categories.Update(r.Context(), caller(r), pathID(r), in); err != nil {
		h.fail(w, r, err)
		return
	}
	h.noContent(w, http.StatusOK)
}

func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.categories.Delete(r.Context(), caller(r), pathID(r)); err != nil {
		h.fail(w, r, err)
		return
	}
	h.noContent(w, http.StatusNoContent)
}
