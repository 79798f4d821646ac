package profiles

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

// fakeProfileStore is an in-memory ProfileStore honoring the conditional
// profile-id write contract of the postgres implementation.
type fakeProfileStore struct {
	profiles    map[string]*Profile // keyed by profile id
	experiences map[string]*Experience
	projects    map[string]*Project
	users       map[string]string // profile id -> user name
}

func newFakeProfileStore() *fakeProfileStore {
	return &fakeProfileStore{
		profiles:    make(map[string]*Profile),
		experiences: make(map[string]*Experience),
		projects:    make(map[string]*Project),
		users:       make(map[string]string),
	}
}

func (s *fakeProfileStore) Upsert(_ context.Context, p *Profile) (*Profile, error) {
	for _, existing := range s.profiles {
		if existing.UserID == p.UserID {
			p.ID = existing.ID
			s.profiles[p.ID] = p
			return p, nil
		}
	}
	p.ID = uuid.NewString()
	s.profiles[p.ID] = p
	return p, nil
}

func (s *fakeProfileStore) ProfileIDForUser(_ context.Context, userID string) (string, error) {
	for _, p := range s.profiles {
		if p.UserID == userID {
			return p.ID, nil
		}
	}
	return "", ErrProfileNotFound
}

func (s *fakeProfileStore) FullByUserID(_ context.Context, userID string) (*FullProfile, error) {
	for _, p := range s.profiles {
		if p.UserID == userID {
			cp := *p
			full := &FullProfile{Name: s.users[p.ID], Profile: &cp}
			for _, e := range s.experiences {
				if e.ProfileID == p.ID {
					full.Profile.Experiences = append(full.Profile.Experiences, *e)
				}
			}
			for _, pr := range s.projects {
				if pr.ProfileID == p.ID {
					full.Profile.Projects = append(full.Profile.Projects, *pr)
				}
			}
			return full, nil
		}
	}
	return nil, ErrProfileNotFound
}

func (s *fakeProfileStore) CreateExperience(_ context.Context, e *Experience) (*Experience, error) {
	e.ID = uuid.NewString()
	s.experiences[e.ID] = e
	return e, nil
}

func (s *fakeProfileStore) ExperienceOwner(_ context.Context, id string) (string, string, error) {
	e, ok := s.experiences[id]
	if !ok {
		return "", "", ErrExperienceNotFound
	}
	return s.profiles[e.ProfileID].UserID, e.ProfileID, nil
}

func (s *fakeProfileStore) UpdateExperience(_ context.Context, id string, requireProfile *string, req UpdateExperienceRequest) (*Experience, error) {
	e, ok := s.experiences[id]
	if !ok || (requireProfile != nil && e.ProfileID != *requireProfile) {
		return nil, ErrExperienceNotFound
	}
	if req.Company != nil {
		e.Company = *req.Company
	}
	if req.Position != nil {
		e.Position = *req.Position
	}
	copied := *e
	return &copied, nil
}

func (s *fakeProfileStore) DeleteExperience(_ context.Context, id string, requireProfile *string) error {
	e, ok := s.experiences[id]
	if !ok || (requireProfile != nil && e.ProfileID != *requireProfile) {
		return ErrExperienceNotFound
	}
	delete(s.experiences, id)
	return nil
}

func (s *fakeProfileStore) CreateProject(_ context.Context, p *Project) (*Project, error) {
	p.ID = uuid.NewString()
	s.projects[p.ID] = p
	return p, nil
}

func (s *fakeProfileStore) ProjectOwner(_ context.Context, id string) (string, string, error) {
	p, ok := s.projects[id]
	if !ok {
		return "", "", ErrProjectNotFound
	}
	return s.profiles[p.ProfileID].UserID, p.ProfileID, nil
}

func (s *fakeProfileStore) UpdateProject(_ context.Context, id string, requireProfile *string, req UpdateProjectRequest) (*Project, error) {
	p, ok := s.projects[id]
	if !ok || (requireProfile != nil && p.ProfileID != *requireProfile) {
		return nil, ErrProjectNotFound
	}
	if req.Title != nil {
		p.Title = *req.Title
	}
	copied := *p
	return &copied, nil
}

func (s *fakeProfileStore) DeleteProject(_ context.Context, id string, requireProfile *string) error {
	p, ok := s.projects[id]
	if !ok || (requireProfile != nil && p.ProfileID != *requireProfile) {
		return ErrProjectNotFound
	}
	delete(s.projects, id)
	return nil
}

func (s *fakeProfileStore) ProjectsByTech(_ context.Context, tech string) ([]Project, error) {
	var out []Project
	for _, p := range s.projects {
		for _, t := range p.Technologies {
			if t == tech {
				out = append(out, *p)
				break
			}
		}
	}
	return out, nil
}

var (
	owner    = &auth.Identity{ID: "user-1", Role: auth.RoleStudent}
	intruder = &auth.Identity{ID: "user-2", Role: auth.RoleStudent}
	admin    = &auth.Identity{ID: "admin-1", Role: auth.RoleAdmin}
)

func seedProfile(t *testing.T, svc *ProfileService, identity *auth.Identity) *Profile {
	t.Helper()
	saved, err := svc.UpsertOwn(context.Background(), identity, UpsertProfileRequest{
		Bio:    "gopher",
		Skills: []string{"go", "sql"},
	})
	require.NoError(t, err)
	return saved
}

func TestProfileServiceUpsertOwn(t *testing.T) {
	store := newFakeProfileStore()
	svc := NewProfileService(store)

	first := seedProfile(t, svc, owner)
	assert.Equal(t, owner.ID, first.UserID)

	// A second save replaces, not duplicates.
	second, err := svc.UpsertOwn(context.Background(), owner, UpsertProfileRequest{Bio: "updated"})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "updated", second.Bio)
	assert.Len(t, store.profiles, 1)
}

func TestProfileServiceFullNotFound(t *testing.T) {
	svc := NewProfileService(newFakeProfileStore())

	_, err := svc.Full(context.Background(), "nobody")
	assert.True(t, apperror.IsNotFound(err))
}

func TestProfileServiceAddExperienceNeedsProfile(t *testing.T) {
	svc := NewProfileService(newFakeProfileStore())

	_, err := svc.AddExperience(context.Background(), owner, ExperienceInput{
		Company:   "Acme",
		StartDate: time.Now(),
	})
	assert.True(t, apperror.IsNotFound(err))
}

func TestProfileServiceAddExperienceValidation(t *testing.T) {
	svc := NewProfileService(newFakeProfileStore())
	seedProfile(t, svc, owner)

	_, err := svc.AddExperience(context.Background(), owner, ExperienceInput{Company: "Acme"})
	assert.True(t, apperror.IsValidationError(err), "missing start date")
}

func TestProfileServiceExperienceOwnership(t *testing.T) {
	store := newFakeProfileStore()
	svc := NewProfileService(store)
	seedProfile(t, svc, owner)

	exp, err := svc.AddExperience(context.Background(), owner, ExperienceInput{
		Company:   "Acme",
		Position:  "Engineer",
		StartDate: time.Now(),
	})
	require.NoError(t, err)

	newPosition := "Senior Engineer"

	_, err = svc.UpdateExperience(context.Background(), intruder, exp.ID, UpdateExperienceRequest{Position: &newPosition})
	assert.True(t, apperror.IsForbidden(err))

	updated, err := svc.UpdateExperience(context.Background(), owner, exp.ID, UpdateExperienceRequest{Position: &newPosition})
	require.NoError(t, err)
	assert.Equal(t, newPosition, updated.Position)

	err = svc.DeleteExperience(context.Background(), intruder, exp.ID)
	assert.True(t, apperror.IsForbidden(err))

	err = svc.DeleteExperience(context.Background(), admin, exp.ID)
	require.NoError(t, err)

	err = svc.DeleteExperience(context.Background(), owner, exp.ID)
	assert.True(t, apperror.IsNotFound(err))
}

func TestProfileServiceProjectOwnership(t *testing.T) {
	store := newFakeProfileStore()
	svc := NewProfileService(store)
	seedProfile(t, svc, owner)

	project, err := svc.AddProject(context.Background(), owner, ProjectInput{
		Title:        "eduflow",
		Technologies: []string{"go", "postgres"},
	})
	require.NoError(t, err)

	newTitle := "eduflow-v2"

	_, err = svc.UpdateProject(context.Background(), intruder, project.ID, UpdateProjectRequest{Title: &newTitle})
	assert.True(t, apperror.IsForbidden(err))

	updated, err := svc.UpdateProject(context.Background(), owner, project.ID, UpdateProjectRequest{Title: &newTitle})
	require.NoError(t, err)
	assert.Equal(t, newTitle, updated.Title)

	err = svc.DeleteProject(context.Background(), owner, project.ID)
	require.NoError(t, err)
}

func TestProfileServiceProjectsByTech(t *testing.T) {
	store := newFakeProfileStore()
	svc := NewProfileService(store)
	seedProfile(t, svc, owner)

	_, err := svc.AddProject(context.Background(), owner, ProjectInput{
		Title:        "eduflow",
		Technologies: []string{"go", "postgres"},
	})
	require.NoError(t, err)
	_, err = svc.AddProject(context.Background(), owner, ProjectInput{
		Title:        "frontend",
		Technologies: []string{"typescript"},
	})
	require.NoError(t, err)

	out, err := svc.ProjectsByTech(context.Background(), "go")
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "eduflow", out[0].Title)

	_, err = svc.ProjectsByTech(context.Background(), "")
	appErr, ok := apperror.FromError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.BadRequestError, appErr.Type)
}
