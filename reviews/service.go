package reviews

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"

	"github.com/user/eduflow-go/apperror"
	"github.com/user/eduflow-go/auth"
	"github.com/user/eduflow-go/courses"
)

// ReviewService implements the review operations on top of a ReviewStore.
type ReviewService struct {
	store    ReviewStore
	courses  courses.CourseStore
	validate *validator.Validate
}

// NewReviewService creates a ReviewService.
func NewReviewService(store ReviewStore, courseStore courses.CourseStore) *ReviewService {
	return &ReviewService{
		store:    store,
		courses:  courseStore,
		validate: validator.New(),
	}
}

// Add posts a review on a course for the calling user and refreshes the
// course rating aggregate. A second review on the same course is a conflict.
func (s *ReviewService) Add(ctx context.Context, identity *auth.Identity, courseID string, req NewReviewRequest) (*Review, error) {
	if identity == nil {
		return nil, apperror.NewAuthError("authentication required", nil)
	}
	if err := s.validate.Struct(req); err != nil {
		return nil, apperror.NewValidationError("rating must be between 1 and 5", err)
	}

	if _, err := s.courses.ByID(ctx, courseID); err != nil {
		if errors.Is(err, courses.ErrCourseNotFound) {
			return nil, apperror.NewNotFoundError("course not found", err)
		}
		return nil, apperror.NewDatabaseError("failed to get course", err)
	}

	review := &Review{
		CourseID: courseID,
		UserID:   identity.ID,
		Rating:   req.Rating,
		Body:     req.Body,
	}
	created, err := s.store.Create(ctx, review)
	if err != nil {
		if errors.Is(err, ErrAlreadyReviewed) {
			return nil, apperror.NewConflictError("you have already reviewed this course", err)
		}
		return nil, apperror.NewDatabaseError("failed to create review", err)
	}

	if err := s.store.RefreshCourseRating(ctx, courseID); err != nil {
		return nil, apperror.NewDatabaseError("failed to refresh course rating", err)
	}
	return created, nil
}

// ListByCourse lists a course's reviews. An unknown course reads as an
// empty list, matching a course that simply has no reviews yet.
func (s *ReviewService) ListByCourse(ctx context.Context, courseID string) ([]Review, error) {
	reviews, err := s.store.ListByCourse(ctx, courseID)
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to list reviews", err)
	}
	if reviews == nil {
		reviews = []Review{}
	}
	return reviews, nil
}

// Delete removes a review. Only the author or an admin may delete it; the
// course rating is recomputed afterwards.
func (s *ReviewService) Delete(ctx context.Context, identity *auth.Identity, id string) error {
	review, err := s.store.ByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrReviewNotFound) {
			return apperror.NewNotFoundError("review not found", err)
		}
		return apperror.NewDatabaseError("failed to get review", err)
	}

	if err := auth.RequireOwner(identity, review.UserID); err != nil {
		return err
	}

	if err := s.store.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrReviewNotFound) {
			return apperror.NewNotFoundError("review not found", err)
		}
		return apperror.NewDatabaseError("failed to delete review", err)
	}

	if err := s.store.RefreshCourseRating(ctx, review.CourseID); err != nil {
		return apperror.NewDatabaseError("failed to refresh course rating", err)
	}
	return nil
}
