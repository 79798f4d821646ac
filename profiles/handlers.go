package profiles

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/user/eduflow-go/apperror"
	"github.com/user/eduflow-go/auth"
	"github.com/user/eduflow-go/web"
)

// Handlers exposes the profile endpoints over HTTP.
type Handlers struct {
	service *ProfileService
	respond *web.Responder
}

// NewHandlers creates the profile Handlers.
func NewHandlers(service *ProfileService, respond *web.Responder) *Handlers {
	return &Handlers{service: service, respond: respond}
}

// RegisterPublicRoutes mounts the routes that need no session.
func (h *Handlers) RegisterPublicRoutes(r chi.Router) {
	r.Get("/projects", h.handleProjectsByTech)
	r.Get("/{userID}", h.handleFullProfile)
}

// RegisterProtectedRoutes mounts the mutating routes; the caller wraps them
// in the auth middleware.
func (h *Handlers) RegisterProtectedRoutes(r chi.Router) {
	r.Put("/", h.handleUpsertProfile)
	r.Post("/experience", h.handleAddExperience)
	r.Patch("/experience/{id}", h.handleUpdateExperience)
	r.Delete("/experience/{id}", h.handleDeleteExperience)
	r.Post("/project", h.handleAddProject)
	r.Patch("/project/{id}", h.handleUpdateProject)
	r.Delete("/project/{id}", h.handleDeleteProject)
}

// handleUpsertProfile godoc
// @Summary Save profile
// @Description Creates or replaces the calling user's profile.
// @Tags Profile
// @Accept json
// @Produce json
// @Param profileBody body profiles.UpsertProfileRequest true "Profile fields"
// @Success 200 {object} profiles.StatusResponse
// @Security BearerAuth
// @Router /profile [put]
func (h *Handlers) handleUpsertProfile(w http.ResponseWriter, r *http.Request) {
	identity, _ := auth.IdentityFromContext(r.Context())

	var req UpsertProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respond.Error(w, r, apperror.NewBadRequestError("invalid request body", err))
		return
	}
	defer r.Body.Close()

	saved, err := h.service.UpsertOwn(r.Context(), identity, req)
	if err != nil {
		h.respond.Error(w, r, err)
		return
	}
	h.respond.JSON(w, http.StatusOK, StatusResponse{
		Status:  "success",
		Message: "profile saved successfully",
		Data:    saved,
	})
}

// handleFullProfile godoc
// @Summary Public profile
// @Description Returns a user's display fields with their profile, experiences and projects.
// @Tags Profile
// @Produce json
// @Param userID path string true "User id"
// @Success 200 {object} profiles.FullProfile
// @Failure 404 {object} apperror.ErrorResponse "Profile not found"
// @Router /profile/{userID} [get]
func (h *Handlers) handleFullProfile(w http.ResponseWriter, r *http.Request) {
	full, err := h.service.Full(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		h.respond.Error(w, r, err)
		return
	}
	h.respond.JSON(w, http.StatusOK, full)
}

// handleProjectsByTech godoc
// @Summary Projects by technology
// @Description Lists projects that use the given technology.
// @Tags Profile
// @Produce json
// @Param tech query string true "Technology name"
// @Success 200 {object} profiles.StatusResponse
// @Router /profile/projects [get]
func (h *Handlers) handleProjectsByTech(w http.ResponseWriter, r *http.Request) {
	projects, err := h.service.ProjectsByTech(r.Context(), r.URL.Query().Get("tech"))
	if err != nil {
		h.respond.Error(w, r, err)
		return
	}
	h.respond.JSON(w, http.StatusOK, StatusResponse{Status: "success", Data: projects})
}

func (h *Handlers) handleAddExperience(w http.ResponseWriter, r *http.Request) {
	identity, _ := auth.IdentityFromContext(r.Context())

	var req ExperienceInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respond.Error(w, r, apperror.NewBadRequestError("invalid request body", err))
		return
	}
	defer r.Body.Close()

	created, err := h.service.AddExperience(r.Context(), identity, req)
	if err != nil {
		h.respond.Error(w, r, err)
		return
	}
	h.respond.JSON(w, http.StatusCreated, created)
}

func (h *Handlers) handleUpdateExperience(w http.ResponseWriter, r *http.Request) {
	identity, _ := auth.IdentityFromContext(r.Context())

	var req UpdateExperienceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respond.Error(w, r, apperror.NewBadRequestError("invalid request body", err))
		return
	}
	defer r.Body.Close()

	updated, err := h.service.UpdateExperience(r.Context(), identity, chi.URLParam(r, "id"), req)
	if err != nil {
		h.respond.Error(w, r, err)
		return
	}
	h.respond.JSON(w, http.StatusOK, StatusResponse{
		Status:  "success",
		Message: "experience updated successfully",
		Data:    updated,
	})
}

func (h *Handlers) handleDeleteExperience(w http.ResponseWriter, r *http.Request) {
	identity, _ := auth.IdentityFromContext(r.Context())

	if err := h.service.DeleteExperience(r.Context(), identity, chi.URLParam(r, "id")); err != nil {
		h.respond.Error(w, r, err)
		return
	}
	h.respond.JSON(w, http.StatusNoContent, nil)
}

func (h *Handlers) handleAddProject(w http.ResponseWriter, r *http.Request) {
	identity, _ := auth.IdentityFromContext(r.Context())

	var req ProjectInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respond.Error(w, r, apperror.NewBadRequestError("invalid request body", err))
		return
	}
	defer r.Body.Close()

	created, err := h.service.AddProject(r.Context(), identity, req)
	if err != nil {
		h.respond.Error(w, r, err)
		return
	}
	h.respond.JSON(w, http.StatusCreated, created)
}

func (h *Handlers) handleUpdateProject(w http.ResponseWriter, r *http.Request) {
	identity, _ := auth.IdentityFromContext(r.Context())

	var req UpdateProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respond.Error(w, r, apperror.NewBadRequestError("invalid request body", err))
		return
	}
	defer r.Body.Close()

	updated, err := h.service.UpdateProject(r.Context(), identity, chi.URLParam(r, "id"), req)
	if err != nil {
		h.respond.Error(w, r, err)
		return
	}
	h.respond.JSON(w, http.StatusOK, StatusResponse{
		Status:  "success",
		Message: "project updated successfully",
		Data:    updated,
	})
}

func (h *Handlers) handleDeleteProject(w http.ResponseWriter, r *http.Request) {
	identity, _ := auth.IdentityFromContext(r.Context())

	if err := h.service.DeleteProject(r.Context(), identity, chi.URLParam(r, "id")); err != nil {
		h.respond.Error(w, r, err)
		return
	}
	h.respond.JSON(w, http.StatusNoContent, nil)
}
