package handlers

import (
	"fmt"
	"net/http"

	"github.com/Rakhulsr/go-shop/app/services"
)

type FeedbackHandler struct {
	*Base
	feedback *services.FeedbackService
}

func NewFeedbackHandler(base *Base, feedback *services.FeedbackService) *FeedbackHandler {
	return &FeedbackHandler{Base: base, feedback: feedback}
}

func (h *FeedbackHandler) List(w http.ResponseWriter, r *http.Request) {
	feedback, err := h.feedback.List(r.Context(), caller(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, h.feedbackResponses(feedback))
}

func (h *FeedbackHandler) Get(w http.ResponseWriter, r *http.Request) {
	feedback, err := h.feedback.Get(r.Context(), caller(r), pathID(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, h.feedbackResponse(*feedback))
}

func (h *FeedbackHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in services.FeedbackInput
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
	in.ImagesToDelete = nil

	feedback, err := h.feedback.Create(r.Context(), caller(r), in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.created(w, fmt.Sprintf("/feedback/%d/", feedback.ID))
}

// Update answers with the feedback as it now stands, back in moderation.
func (h *FeedbackHandler) Update(w http.ResponseWriter, r *http.Request) {
	var in services.FeedbackInput
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

	id := pathID(r)
	if err := h.feedback.Update(r.Context(), caller(r), id, in); err != nil {
		h.fail(w, r, err)
		return
	}
	feedback, err := h.feedback.Get(r.Context(), caller(r), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, h.feedbackResponse(*feedback))
}

func (h *FeedbackHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.feedback.Delete(r.Context(), caller(r), pathID(r)); err != nil {
		h.fail(w, r, err)
		return
	}
	h.noContent(w, http.StatusNoContent)
}

func (h *FeedbackHandler) DeleteImages(w http.ResponseWriter, r *http.Request) {
	if err := h.feedback.DeleteImages(r.Context(), caller(r), pathID(r)); err != nil {
		h.fail(w, r, err)
		return
	}
	h.noContent(w, http.StatusNoContent)
}
