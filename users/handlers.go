package users

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/user/eduflow-go/apperror"
	"github.com/user/eduflow-go/auth"
	"github.com/user/eduflow-go/web"
)

// UpdateAccountRequest is the payload for PATCH /users/me.
type UpdateAccountRequest struct {
	Name   *string `json:"name"`
	Avatar *string `json:"avatar"`
}

// Handlers exposes the user account endpoints over HTTP.
type Handlers struct {
	service *UserService
	respond *web.Responder
}

// NewHandlers creates the user Handlers.
func NewHandlers(service *UserService, respond *web.Responder) *Handlers {
	return &Handlers{service: service, respond: respond}
}

// HandleGetUser godoc
// @Summary Public user
// @Description Returns a user's public fields by id.
// @Tags Users
// @Produce json
// @Param id path string true "User id"
// @Success 200 {object} auth.UserResponse
// @Failure 404 {object} apperror.ErrorResponse "User not found"
// @Router /users/{id} [get]
func (h *Handlers) HandleGetUser() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := h.service.PublicUser(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			h.respond.Error(w, r, err)
			return
		}
		h.respond.JSON(w, http.StatusOK, user)
	}
}

// HandleUpdateMe godoc
// @Summary Update account
// @Description Updates the calling user's name and avatar.
// @Tags Users
// @Accept json
// @Produce json
// @Param accountBody body users.UpdateAccountRequest true "Fields to update"
// @Success 200 {object} auth.UserResponse
// @Security BearerAuth
// @Router /users/me [patch]
func (h *Handlers) HandleUpdateMe() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, _ := auth.IdentityFromContext(r.Context())

		var req UpdateAccountRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.respond.Error(w, r, apperror.NewBadRequestError("invalid request body", err))
			return
		}
		defer r.Body.Close()

		user, err := h.service.UpdateAccount(r.Context(), identity, req.Name, req.Avatar)
		if err != nil {
			h.respond.Error(w, r, err)
			return
		}
		h.respond.JSON(w, http.StatusOK, user)
	}
}
