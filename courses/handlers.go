package courses

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/user/eduflow-go/apperror"
	"github.com/user/eduflow-go/auth"
	"github.com/user/eduflow-go/web"
)

// Handlers exposes the course endpoints over HTTP.
type Handlers struct {
	service *CourseService
	respond *web.Responder
}

// NewHandlers creates the course Handlers.
func NewHandlers(service *CourseService, respond *web.Responder) *Handlers {
	return &Handlers{service: service, respond: respond}
}

// RegisterPublicRoutes mounts the catalog routes that need no session.
func (h *Handlers) RegisterPublicRoutes(r chi.Router) {
	r.Get("/popular", h.handlePopular)
	r.Get("/{id}", h.handleGetCourse)
}

// RegisterProtectedRoutes mounts the mutating routes; the caller wraps them
// in the auth middleware.
func (h *Handlers) RegisterProtectedRoutes(r chi.Router) {
	r.Post("/", h.handleCreateCourse)
	r.Patch("/{id}", h.handleUpdateCourse)
	r.Delete("/{id}", h.handleDeleteCourse)
}

// handlePopular godoc
// @Summary Popular courses
// @Description Lists courses ordered by students count and rating.
// @Tags Courses
// @Produce json
// @Param limit query int false "Maximum number of courses" default(10)
// @Success 200 {object} courses.CourseListResponse
// @Router /courses/popular [get]
func (h *Handlers) handlePopular(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	list, err := h.service.Popular(r.Context(), limit)
	if err != nil {
		h.respond.Error(w, r, err)
		return
	}
	h.respond.JSON(w, http.StatusOK, CourseListResponse{Success: true, Data: list})
}

// handleGetCourse godoc
// @Summary Course by id
// @Description Returns a course with its ordered lessons and public instructor fields.
// @Tags Courses
// @Produce json
// @Param id path string true "Course id"
// @Success 200 {object} courses.CourseResponse
// @Failure 404 {object} apperror.ErrorResponse "Course not found"
// @Router /courses/{id} [get]
func (h *Handlers) handleGetCourse(w http.ResponseWriter, r *http.Request) {
	course, err := h.service.ByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respond.Error(w, r, err)
		return
	}
	h.respond.JSON(w, http.StatusOK, CourseResponse{Success: true, Data: course})
}

// handleCreateCourse godoc
// @Summary Create course
// @Description Creates a course with nested lessons, owned by the caller.
// @Tags Courses
// @Accept json
// @Produce json
// @Param courseBody body courses.CreateCourseRequest true "Course details"
// @Success 201 {object} courses.CourseResponse
// @Failure 400 {object} apperror.ErrorResponse "Invalid payload"
// @Failure 401 {object} apperror.ErrorResponse "Not authenticated"
// @Security BearerAuth
// @Router /courses [post]
func (h *Handlers) handleCreateCourse(w http.ResponseWriter, r *http.Request) {
	identity, _ := auth.IdentityFromContext(r.Context())

	var req CreateCourseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respond.Error(w, r, apperror.NewBadRequestError("invalid request body", err))
		return
	}
	defer r.Body.Close()

	created, err := h.service.Create(r.Context(), identity, req)
	if err != nil {
		h.respond.Error(w, r, err)
		return
	}
	h.respond.JSON(w, http.StatusCreated, CourseResponse{Success: true, Data: created})
}

// handleUpdateCourse godoc
// @Summary Update course
// @Description Partially updates a course. Only the owning instructor or an admin may update.
// @Tags Courses
// @Accept json
// @Produce json
// @Param id path string true "Course id"
// @Param courseBody body courses.UpdateCourseRequest true "Fields to update"
// @Success 200 {object} courses.CourseResponse
// @Failure 403 {object} apperror.ErrorResponse "Not the owner"
// @Failure 404 {object} apperror.ErrorResponse "Course not found"
// @Security BearerAuth
// @Router /courses/{id} [patch]
func (h *Handlers) handleUpdateCourse(w http.ResponseWriter, r *http.Request) {
	identity, _ := auth.IdentityFromContext(r.Context())

	var req UpdateCourseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respond.Error(w, r, apperror.NewBadRequestError("invalid request body", err))
		return
	}
	defer r.Body.Close()

	updated, err := h.service.Update(r.Context(), identity, chi.URLParam(r, "id"), req)
	if err != nil {
		h.respond.Error(w, r, err)
		return
	}
	h.respond.JSON(w, http.StatusOK, CourseResponse{Success: true, Data: updated})
}

// handleDeleteCourse godoc
// @Summary Delete course
// @Description Deletes a course and its lessons. Only the owning instructor or an admin may delete.
// @Tags Courses
// @Produce json
// @Param id path string true "Course id"
// @Success 204 "Deleted"
// @Failure 403 {object} apperror.ErrorResponse "Not the owner"
// @Failure 404 {object} apperror.ErrorResponse "Course not found"
// @Security BearerAuth
// @Router /courses/{id} [delete]
func (h *Handlers) handleDeleteCourse(w http.ResponseWriter, r *http.Request) {
	identity, _ := auth.IdentityFromContext(r.Context())

	if err := h.service.Delete(r.Context(), identity, chi.URLParam(r, "id")); err != nil {
		h.respond.Error(w, r, err)
		return
	}
	h.respond.JSON(w, http.StatusNoContent, nil)
}
