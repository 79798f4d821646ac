package courses

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/eduflow-go/apperror"
	"github.com/user/eduflow-go/auth"
)

// fakeCourseStore is an in-memory CourseStore honoring the conditional
// owner write contract of the postgres implementation.
type fakeCourseStore struct {
	courses map[string]*Course
}

func newFakeCourseStore() *fakeCourseStore {
	return &fakeCourseStore{courses: make(map[string]*Course)}
}

func (s *fakeCourseStore) Popular(_ context.Context, limit int) ([]Course, error) {
	var out []Course
	for _, c := range s.courses {
		if len(out) == limit {
			break
		}
		out = append(out, *c)
	}
	return out, nil
}

func (s *fakeCourseStore) ByID(_ context.Context, id string) (*Course, error) {
	if c, ok := s.courses[id]; ok {
		copied := *c
		return &copied, nil
	}
	return nil, ErrCourseNotFound
}

func (s *fakeCourseStore) Create(_ context.Context, c *Course) (*Course, error) {
	c.ID = uuid.NewString()
	c.CreatedAt = time.Now().UTC()
	s.courses[c.ID] = c
	return c, nil
}

func (s *fakeCourseStore) Update(_ context.Context, id string, requireOwner *string, upd CourseUpdate) (*Course, error) {
	c, ok := s.courses[id]
	if !ok || (requireOwner != nil && c.InstructorID != *requireOwner) {
		return nil, ErrCourseNotFound
	}
	if upd.Title != nil {
		c.Title = *upd.Title
	}
	if upd.Price != nil {
		c.Price = *upd.Price
	}
	copied := *c
	return &copied, nil
}

func (s *fakeCourseStore) Delete(_ context.Context, id string, requireOwner *string) error {
	c, ok := s.courses[id]
	if !ok || (requireOwner != nil && c.InstructorID != *requireOwner) {
		return ErrCourseNotFound
	}
	delete(s.courses, id)
	return nil
}

// recordingNotifier captures published course events.
type recordingNotifier struct {
	published []string
}

func (n *recordingNotifier) CoursePublished(courseID, _ string) {
	n.published = append(n.published, courseID)
}

var (
	instructor = &auth.Identity{ID: "instructor-1", Role: auth.RoleTutor}
	otherUser  = &auth.Identity{ID: "user-2", Role: auth.RoleStudent}
	admin      = &auth.Identity{ID: "admin-1", Role: auth.RoleAdmin}
)

func seedCourse(t *testing.T, store *fakeCourseStore) *Course {
	t.Helper()
	created, err := store.Create(context.Background(), &Course{
		Title:        "Intro to Go",
		Price:        49.90,
		InstructorID: instructor.ID,
	})
	require.NoError(t, err)
	return created
}

func TestCourseServiceCreate(t *testing.T) {
	store := newFakeCourseStore()
	notifier := &recordingNotifier{}
	svc := NewCourseService(store, notifier)

	created, err := svc.Create(context.Background(), instructor, CreateCourseRequest{
		Title: "Intro to Go",
		Price: 49.90,
		Lessons: []LessonInput{
			{Title: "Hello world", Duration: "10:00"},
			{Title: "Packages", Duration: "15:00"},
		},
	})
	require.NoError(t, err)

	assert.NotEmpty(t, created.ID)
	assert.Equal(t, instructor.ID, created.InstructorID)
	assert.Len(t, created.Lessons, 2)
	assert.Equal(t, []string{created.ID}, notifier.published)
}

func TestCourseServiceCreateValidation(t *testing.T) {
	svc := NewCourseService(newFakeCourseStore(), nil)

	_, err := svc.Create(context.Background(), instructor, CreateCourseRequest{Price: 10})
	assert.True(t, apperror.IsValidationError(err), "missing title")

	_, err = svc.Create(context.Background(), instructor, CreateCourseRequest{Title: "T", Price: -1})
	assert.True(t, apperror.IsValidationError(err), "negative price")
}

func TestCourseServiceCreateRequiresIdentity(t *testing.T) {
	svc := NewCourseService(newFakeCourseStore(), nil)

	_, err := svc.Create(context.Background(), nil, CreateCourseRequest{Title: "T"})
	assert.True(t, apperror.IsAuthError(err))
}

func TestCourseServiceByIDNotFound(t *testing.T) {
	svc := NewCourseService(newFakeCourseStore(), nil)

	_, err := svc.ByID(context.Background(), "missing")
	assert.True(t, apperror.IsNotFound(err))
}

func TestCourseServiceUpdateOwnership(t *testing.T) {
	newTitle := "Advanced Go"

	tests := []struct {
		name     string
		identity *auth.Identity
		check    func(t *testing.T, c *Course, err error)
	}{
		{
			name:     "owner updates",
			identity: instructor,
			check: func(t *testing.T, c *Course, err error) {
				require.NoError(t, err)
				assert.Equal(t, newTitle, c.Title)
			},
		},
		{
			name:     "admin updates someone else's course",
			identity: admin,
			check: func(t *testing.T, c *Course, err error) {
				require.NoError(t, err)
				assert.Equal(t, newTitle, c.Title)
			},
		},
		{
			name:     "other user is forbidden",
			identity: otherUser,
			check: func(t *testing.T, _ *Course, err error) {
				assert.True(t, apperror.IsForbidden(err))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newFakeCourseStore()
			svc := NewCourseService(store, nil)
			course := seedCourse(t, store)

			updated, err := svc.Update(context.Background(), tt.identity, course.ID, UpdateCourseRequest{Title: &newTitle})
			tt.check(t, updated, err)
		})
	}
}

func TestCourseServiceUpdateNotFound(t *testing.T) {
	svc := NewCourseService(newFakeCourseStore(), nil)

	title := "whatever"
	_, err := svc.Update(context.Background(), instructor, "missing", UpdateCourseRequest{Title: &title})
	assert.True(t, apperror.IsNotFound(err))
}

func TestCourseServiceDeleteOwnership(t *testing.T) {
	store := newFakeCourseStore()
	svc := NewCourseService(store, nil)
	course := seedCourse(t, store)

	err := svc.Delete(context.Background(), otherUser, course.ID)
	assert.True(t, apperror.IsForbidden(err))

	err = svc.Delete(context.Background(), instructor, course.ID)
	require.NoError(t, err)

	_, err = svc.ByID(context.Background(), course.ID)
	assert.True(t, apperror.IsNotFound(err))
}

func TestCourseServicePopularClampsLimit(t *testing.T) {
	store := newFakeCourseStore()
	svc := NewCourseService(store, nil)
	for i := 0; i < 15; i++ {
		seedCourse(t, store)
	}

	out, err := svc.Popular(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, out, 10)

	out, err = svc.Popular(context.Background(), 5)
	require.NoError(t, err)
	assert.Len(t, out, 5)
}
