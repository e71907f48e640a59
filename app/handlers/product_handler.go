package handlers

import (
	"fmt"
	"net/http"

	"github.com/Rakhulsr/go-shop/app/helpers"
	"github.com/Rakhulsr/go-shop/app/services"
	"github.com/gorilla/mux"
)

type ProductHandler struct {
	*Base
	products *services.ProductService
}

func NewProductHandler(base *Base, products *services.ProductService) *ProductHandler {
	return &ProductHandler{Base: base, products: products}
}

func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	products, err := h.products.List(r.Context(), caller(r), nil)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, h.productResponses(products))
}

// ListByCategory serves /category/{id}/.
func (h *ProductHandler) ListByCategory(w http.ResponseWriter, r *http.Request) {
	categoryID := helpers.ParseID(mux.Vars(r)["id"])
	products, err := h.products.List(r.Context(), caller(r), &categoryID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, h.productResponses(products))
}

func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	product, err := h.products.Get(r.Context(), caller(r), pathID(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, h.productResponse(*product))
}

func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in services.ProductInput
	body, err := h.decode(r, &in)
	defer body.Close()
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if in.Images, err = body.Uploads("images"); err != nil {
		h.fail(w, r, err)
		return
	}
	defer closeUploads(in.Images)
	// images_to_delete means nothing for a new product.
	in.ImagesToDelete = nil

	product, err := h.products.Create(r.Context(), caller(r), in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.created(w, fmt.Sprintf("/products/%d/", product.ID))
}

func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	var in services.ProductInput
	body, err := h.decode(r, &in)
	defer body.Close()
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if in.Images, err = body.Uploads("images"); err != nil {
		h.fail(w, r, err)
		return
	}
	defer closeUploads(in.Images)

	if err := h.products.Update(r.Context(), caller(r), pathID(r), in); err != nil {
		h.fail(w, r, err)
		return
	}
	h.noContent(w, http.StatusOK)
}

func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.products.Delete(r.Context(), caller(r), pathID(r)); err != nil {
		h.fail(w, r, err)
		return
	}
	h.noContent(w, http.StatusNoContent)
}

// DeleteImages removes every image of the product.
func (h *ProductHandler) DeleteImages(w http.ResponseWriter, r *http.Request) {
	if err := h.products.DeleteImages(r.Context(), caller(r), pathID(r)); err != nil {
		h.fail(w, r, err)
		return
	}
	h.noContent(w, http.StatusOK)
}
