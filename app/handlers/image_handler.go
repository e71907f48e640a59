package handlers

import (
	"fmt"
	"net/http"

	"github.com/Rakhulsr/go-shop/app/services"
)

type ImageHandler struct {
	*Base
	images *services.ImageService
}

func NewImageHandler(base *Base, images *services.ImageService) *ImageHandler {
	return &ImageHandler{Base: base, images: images}
}

func (h *ImageHandler) List(w http.ResponseWriter, r *http.Request) {
	images, err := h.images.List(r.Context(), caller(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, h.imageResponses(images))
}

func (h *ImageHandler) Get(w http.ResponseWriter, r *http.Request) {
	image, err := h.images.Get(r.Context(), caller(r), pathID(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, h.imageResponse(*image))
}

// bind reads the owner fields and the single file sent as "image".
func (h *ImageHandler) bind(r *http.Request) (services.ImageInput, *payload, error) {
	var in services.ImageInput
	body, err := h.decode(r, &in)
	if err != nil {
		return in, body, err
	}
	uploads, err := body.Uploads("image")
	if err != nil {
		return in, body, err
	}
	if len(uploads) > 0 {
		in.Image = &uploads[0]
		closeUploads(uploads[1:])
	}
	return in, body, nil
}

func (h *ImageHandler) Create(w http.ResponseWriter, r *http.Request) {
	in, body, err := h.bind(r)
	defer body.Close()
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if in.Image != nil {
		defer closeUploads([]services.Upload{*in.Image})
	}

	image, err := h.images.Create(r.Context(), caller(r), in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.created(w, fmt.Sprintf("/images/%d/", image.ID))
}

func (h *ImageHandler) Update(w http.ResponseWriter, r *http.Request) {
	in, body, err := h.bind(r)
	defer body.Close()
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if in.Image != nil {
		defer closeUploads([]services.Upload{*in.Image})
	}

	if err := h.images.Update(r.Context(), caller(r), pathID(r), in); err != nil {
		h.fail(w, r, err)
		return
	}
	h.noContent(w, http.StatusOK)
}

func (h *ImageHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.images.Delete(r.Context(), caller(r), pathID(r)); err != nil {
		h.fail(w, r, err)
		return
	}
	h.noContent(w, http.StatusNoContent)
}
