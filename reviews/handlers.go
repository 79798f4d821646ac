package reviews

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/user/eduflow-go/apperror"
	"github.com/user/eduflow-go/auth"
	"github.com/user/eduflow-go/web"
)

// Handlers exposes the review endpoints over HTTP.
type Handlers struct {
	service *ReviewService
	respond *web.Responder
}

// NewHandlers creates the review Handlers.
func NewHandlers(service *ReviewService, respond *web.Responder) *Handlers {
	return &Handlers{service: service, respond: respond}
}

// HandleAddReview godoc
// @Summary Post review
// @Description Posts a review on a course. One review per user per course.
// @Tags Reviews
// @Accept json
// @Produce json
// @Param id path string true "Course id"
// @Param reviewBody body reviews.NewReviewRequest true "Review fields"
// @Success 201 {object} reviews.Review
// @Failure 404 {object} apperror.ErrorResponse "Course not found"
// @Failure 409 {object} apperror.ErrorResponse "Already reviewed"
// @Security BearerAuth
// @Router /courses/{id}/reviews [post]
func (h *Handlers) HandleAddReview() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, _ := auth.IdentityFromContext(r.Context())

		var req NewReviewRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.respond.Error(w, r, apperror.NewBadRequestError("invalid request body", err))
			return
		}
		defer r.Body.Close()

		created, err := h.service.Add(r.Context(), identity, chi.URLParam(r, "id"), req)
		if err != nil {
			h.respond.Error(w, r, err)
			return
		}
		h.respond.JSON(w, http.StatusCreated, created)
	}
}

// HandleListReviews godoc
// @Summary Course reviews
// @Description Lists a course's reviews newest-first.
// @Tags Reviews
// @Produce json
// @Param id path string true "Course id"
// @Success 200 {object} reviews.ReviewListResponse
// @Router /courses/{id}/reviews [get]
func (h *Handlers) HandleListReviews() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reviews, err := h.service.ListByCourse(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			h.respond.Error(w, r, err)
			return
		}
		h.respond.JSON(w, http.StatusOK, ReviewListResponse{Success: true, Data: reviews})
	}
}

// HandleDeleteReview godoc
// @Summary Delete review
// @Description Deletes a review. Allowed for the author or an admin.
// @Tags Reviews
// @Param id path string true "Review id"
// @Success 204 "Deleted"
// @Failure 403 {object} apperror.ErrorResponse "Not the author"
// @Failure 404 {object} apperror.ErrorResponse "Review not found"
// @Security BearerAuth
// @Router /reviews/{id} [delete]
func (h *Handlers) HandleDeleteReview() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, _ := auth.IdentityFromContext(r.Context())

		if err := h.service.Delete(r.Context(), identity, chi.URLParam(r, "id")); err != nil {
			h.respond.Error(w, r, err)
			return
		}
		h.respond.JSON(w, http.StatusNoContent, nil)
	}
}
