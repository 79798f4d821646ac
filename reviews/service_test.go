package reviews

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/eduflow-go/apperror"
	"github.com/user/eduflow-go/auth"
	"github.com/user/eduflow-go/courses"
)

// fakeReviewStore is an in-memory ReviewStore enforcing the one review per
// (course, user) constraint.
type fakeReviewStore struct {
	reviews        map[string]*Review
	ratingRefreshs []string
}

func newFakeReviewStore() *fakeReviewStore {
	return &fakeReviewStore{reviews: make(map[string]*Review)}
}

func (s *fakeReviewStore) Create(_ context.Context, r *Review) (*Review, error) {
	for _, existing := range s.reviews {
		if existing.CourseID == r.CourseID && existing.UserID == r.UserID {
			return nil, ErrAlreadyReviewed
		}
	}
	r.ID = uuid.NewString()
	r.CreatedAt = time.Now().UTC()
	s.reviews[r.ID] = r
	return r, nil
}

func (s *fakeReviewStore) ByID(_ context.Context, id string) (*Review, error) {
	if r, ok := s.reviews[id]; ok {
		copied := *r
		return &copied, nil
	}
	return nil, ErrReviewNotFound
}

func (s *fakeReviewStore) ListByCourse(_ context.Context, courseID string) ([]Review, error) {
	var out []Review
	for _, r := range s.reviews {
		if r.CourseID == courseID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (s *fakeReviewStore) Delete(_ context.Context, id string) error {
	if _, ok := s.reviews[id]; !ok {
		return ErrReviewNotFound
	}
	delete(s.reviews, id)
	return nil
}

func (s *fakeReviewStore) RefreshCourseRating(_ context.Context, courseID string) error {
	s.ratingRefreshs = append(s.ratingRefreshs, courseID)
	return nil
}

// fakeCourseCatalog satisfies courses.CourseStore with a fixed set of ids;
// only ByID is exercised by the review service.
type fakeCourseCatalog struct {
	ids map[string]bool
}

func (c *fakeCourseCatalog) ByID(_ context.Context, id string) (*courses.Course, error) {
	if c.ids[id] {
		return &courses.Course{ID: id}, nil
	}
	return nil, courses.ErrCourseNotFound
}

func (c *fakeCourseCatalog) Popular(context.Context, int) ([]courses.Course, error) {
	return nil, nil
}

func (c *fakeCourseCatalog) Create(_ context.Context, course *courses.Course) (*courses.Course, error) {
	return course, nil
}

func (c *fakeCourseCatalog) Update(context.Context, string, *string, courses.CourseUpdate) (*courses.Course, error) {
	return nil, courses.ErrCourseNotFound
}

func (c *fakeCourseCatalog) Delete(context.Context, string, *string) error {
	return courses.ErrCourseNotFound
}

var (
	reviewer = &auth.Identity{ID: "user-1", Role: auth.RoleStudent}
	stranger = &auth.Identity{ID: "user-2", Role: auth.RoleStudent}
	admin    = &auth.Identity{ID: "admin-1", Role: auth.RoleAdmin}
)

func newTestReviewService(store *fakeReviewStore) *ReviewService {
	return NewReviewService(store, &fakeCourseCatalog{ids: map[string]bool{"course-1": true}})
}

func TestReviewServiceAdd(t *testing.T) {
	store := newFakeReviewStore()
	svc := newTestReviewService(store)

	created, err := svc.Add(context.Background(), reviewer, "course-1", NewReviewRequest{
		Rating: 5,
		Body:   "excellent",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, created.ID)
	assert.Equal(t, reviewer.ID, created.UserID)
	assert.Equal(t, []string{"course-1"}, store.ratingRefreshs)
}

func TestReviewServiceAddUnknownCourse(t *testing.T) {
	svc := newTestReviewService(newFakeReviewStore())

	_, err := svc.Add(context.Background(), reviewer, "missing", NewReviewRequest{Rating: 4})
	assert.True(t, apperror.IsNotFound(err))
}

func TestReviewServiceAddRatingBounds(t *testing.T) {
	svc := newTestReviewService(newFakeReviewStore())

	for _, rating := range []int{0, 6, -1} {
		_, err := svc.Add(context.Background(), reviewer, "course-1", NewReviewRequest{Rating: rating})
		assert.True(t, apperror.IsValidationError(err), "rating %d", rating)
	}
}

func TestReviewServiceAddTwiceConflicts(t *testing.T) {
	svc := newTestReviewService(newFakeReviewStore())

	_, err := svc.Add(context.Background(), reviewer, "course-1", NewReviewRequest{Rating: 5})
	require.NoError(t, err)

	_, err = svc.Add(context.Background(), reviewer, "course-1", NewReviewRequest{Rating: 3})
	assert.True(t, apperror.IsConflict(err))
}

func TestReviewServiceListByCourseEmpty(t *testing.T) {
	svc := newTestReviewService(newFakeReviewStore())

	out, err := svc.ListByCourse(context.Background(), "course-1")
	require.NoError(t, err)
	assert.NotNil(t, out)
	assert.Empty(t, out)
}

func TestReviewServiceDeleteOwnership(t *testing.T) {
	store := newFakeReviewStore()
	svc := newTestReviewService(store)

	created, err := svc.Add(context.Background(), reviewer, "course-1", NewReviewRequest{Rating: 5})
	require.NoError(t, err)

	err = svc.Delete(context.Background(), stranger, created.ID)
	assert.True(t, apperror.IsForbidden(err))

	err = svc.Delete(context.Background(), reviewer, created.ID)
	require.NoError(t, err)
	// One refresh for the add, one for the delete.
	assert.Equal(t, []string{"course-1", "course-1"}, store.ratingRefreshs)

	err = svc.Delete(context.Background(), reviewer, created.ID)
	assert.True(t, apperror.IsNotFound(err))
}

func TestReviewServiceAdminDeletesAnyReview(t *testing.T) {
	svc := newTestReviewService(newFakeReviewStore())

	created, err := svc.Add(context.Background(), reviewer, "course-1", NewReviewRequest{Rating: 2})
	require.NoError(t, err)

	err = svc.Delete(context.Background(), admin, created.ID)
	assert.NoError(t, err)
}
