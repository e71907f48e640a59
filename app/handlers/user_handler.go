package handlers

import (
	"fmt"
	"net/http"

	"github.com/Rakhulsr/go-shop/app/services"
)

type UserHandler struct {
	*Base
	users *services.UserService
}

func NewUserHandler(base *Base, users *services.UserService) *UserHandler {
	return &UserHandler{Base: base, users: users}
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List(r.Context(), caller(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	out := make([]UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, userResponse(u))
	}
	h.ok(w, out)
}

func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.Get(r.Context(), caller(r), pathID(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, userResponse(*user))
}

// Create registers a user; anonymous callers may sign themselves up.
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in services.UserInput
	body, err := h.decode(r, &in)
	defer body.Close()
	if err != nil {
		h.fail(w, r, err)
		return
	}
	user, err := h.users.Create(r.Context(), caller(r), in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.created(w, fmt.Sprintf("/users/%d/", user.ID))
}

func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	var in services.UserInput
	body, err := h.decode(r, &in)
	defer body.Close()
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if err := h.users.Update(r.Context(), caller(r), pathID(r), in); err != nil {
		h.fail(w, r, err)
		return
	}
	h.noContent(w, http.StatusOK)
}

func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.users.Delete(r.Context(), caller(r), pathID(r)); err != nil {
		h.fail(w, r, err)
		return
	}
	h.noContent(w, http.StatusNoContent)
}

func (h *UserHandler) Addresses(w http.ResponseWriter, r *http.Request) {
	addresses, err := h.users.Addresses(r.Context(), caller(r), pathID(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, addressResponses(addresses))
}

func (h *UserHandler) Feedback(w http.ResponseWriter, r *http.Request) {
	feedback, err := h.users.Feedback(r.Context(), caller(r), pathID(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, h.feedbackResponses(feedback))
}

func (h *UserHandler) Orders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.users.Orders(r.Context(), caller(r), pathID(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, orderResponses(orders))
}
