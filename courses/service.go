package courses

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/user/eduflow-go/apperror"
	"github.com/user/eduflow-go/auth"
)

// Notifier receives course lifecycle events. The SSE broadcaster implements
// it; tests use a recording fake.
type Notifier interface {
	CoursePublished(courseID, title string)
}

// CourseService holds the business logic for the course catalog.
type CourseService struct {
	store    CourseStore
	notifier Notifier
	validate *validator.Validate
}

// NewCourseService creates a CourseService. notifier may be nil when no
// event stream is wired.
func NewCourseService(store CourseStore, notifier Notifier) *CourseService {
	return &CourseService{
		store:    store,
		notifier: notifier,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Popular returns up to limit courses ordered by popularity.
func (s *CourseService) Popular(ctx context.Context, limit int) ([]Course, error) {
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	out, err := s.store.Popular(ctx, limit)
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to list popular courses", err)
	}
	return out, nil
}

// ByID returns a course with its lessons.
func (s *CourseService) ByID(ctx context.Context, id string) (*Course, error) {
	c, err := s.store.ByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrCourseNotFound) {
			return nil, apperror.NewNotFoundError("course not found", nil)
		}
		return nil, apperror.NewDatabaseError("failed to load course", err)
	}
	return c, nil
}

// Create publishes a new course with its lessons, owned by the caller.
func (s *CourseService) Create(ctx context.Context, identity *auth.Identity, req CreateCourseRequest) (*Course, error) {
	if identity == nil {
		return nil, apperror.NewAuthError("authentication required", nil)
	}
	if err := s.validate.Struct(req); err != nil {
		return nil, apperror.NewValidationError("title is required and price must not be negative", err)
	}

	course := &Course{
		Title:         req.Title,
		Description:   req.Description,
		Thumbnail:     req.Thumbnail,
		Category:      req.Category,
		Level:         req.Level,
		TotalDuration: req.TotalDuration,
		Price:         req.Price,
		InstructorID:  identity.ID,
	}
	for _, l := range req.Lessons {
		course.Lessons = append(course.Lessons, Lesson{
			Title:    l.Title,
			Duration: l.Duration,
			VideoURL: l.VideoURL,
			Content:  l.Content,
		})
	}

	created, err := s.store.Create(ctx, course)
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to create course", err)
	}
	if s.notifier != nil {
		s.notifier.CoursePublished(created.ID, created.Title)
	}
	return created, nil
}

// Update applies a partial update after the ownership check. Non-admin
// callers additionally get a conditional write on instructor_id.
func (s *CourseService) Update(ctx context.Context, identity *auth.Identity, id string, req UpdateCourseRequest) (*Course, error) {
	existing, err := s.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := auth.RequireOwner(identity, existing.InstructorID); err != nil {
		return nil, err
	}

	updated, err := s.store.Update(ctx, id, ownerCondition(identity), CourseUpdate{
		Title:         req.Title,
		Description:   req.Description,
		Thumbnail:     req.Thumbnail,
		Category:      req.Category,
		Level:         req.Level,
		TotalDuration: req.TotalDuration,
		Price:         req.Price,
	})
	if err != nil {
		if errors.Is(err, ErrCourseNotFound) {
			// The row vanished or changed owner between check and write.
			return nil, apperror.NewNotFoundError("course not found", nil)
		}
		return nil, apperror.NewDatabaseError("failed to update course", err)
	}
	return updated, nil
}

// Delete removes a course and its lessons after the ownership check.
func (s *CourseService) Delete(ctx context.Context, identity *auth.Identity, id string) error {
	existing, err := s.ByID(ctx, id)
	if err != nil {
		return err
	}
	if err := auth.RequireOwner(identity, existing.InstructorID); err != nil {
		return err
	}

	if err := s.store.Delete(ctx, id, ownerCondition(identity)); err != nil {
		if errors.Is(err, ErrCourseNotFound) {
			return apperror.NewNotFoundError("course not found", nil)
		}
		return apperror.NewDatabaseError(fmt.Sprintf("failed to delete course %s", id), err)
	}
	return nil
}

// ownerCondition returns the instructor id the write must match, or nil for
// admins, who bypass the ownership condition.
func ownerCondition(identity *auth.Identity) *string {
	if identity == nil || identity.Role == auth.RoleAdmin {
		return nil
	}
	id := identity.ID
	return &id
}
