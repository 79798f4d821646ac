package profiles

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"

	"github.com/user/eduflow-go/apperror"
	"github.com/user/eduflow-go/auth"
)

// ProfileService holds the business logic for profiles and their children.
type ProfileService struct {
	store    ProfileStore
	validate *validator.Validate
}

// NewProfileService creates a ProfileService.
func NewProfileService(store ProfileStore) *ProfileService {
	return &ProfileService{
		store:    store,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// UpsertOwn saves the calling user's profile. The upsert is a single atomic
// statement, so concurrent saves cannot create duplicate rows.
func (s *ProfileService) UpsertOwn(ctx context.Context, identity *auth.Identity, req UpsertProfileRequest) (*Profile, error) {
	if identity == nil {
		return nil, apperror.NewAuthError("authentication required", nil)
	}
	saved, err := s.store.Upsert(ctx, &Profile{
		UserID:      identity.ID,
		Bio:         req.Bio,
		Headline:    req.Headline,
		Skills:      req.Skills,
		Hobbies:     req.Hobbies,
		Location:    req.Location,
		PhoneNumber: req.PhoneNumber,
		Website:     req.Website,
		Github:      req.Github,
		Linkedin:    req.Linkedin,
		Twitter:     req.Twitter,
	})
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to save profile", err)
	}
	return saved, nil
}

// Full returns the public profile view for a user.
func (s *ProfileService) Full(ctx context.Context, userID string) (*FullProfile, error) {
	full, err := s.store.FullByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrProfileNotFound) {
			return nil, apperror.NewNotFoundError("profile not found", nil)
		}
		return nil, apperror.NewDatabaseError("failed to load profile", err)
	}
	return full, nil
}

// AddExperience attaches an experience to the caller's profile, which must
// already exist.
func (s *ProfileService) AddExperience(ctx context.Context, identity *auth.Identity, req ExperienceInput) (*Experience, error) {
	if identity == nil {
		return nil, apperror.NewAuthError("authentication required", nil)
	}
	if err := s.validate.Struct(req); err != nil {
		return nil, apperror.NewValidationError("startDate is required", err)
	}

	profileID, err := s.profileIDOf(ctx, identity.ID)
	if err != nil {
		return nil, err
	}
	created, err := s.store.CreateExperience(ctx, &Experience{
		ProfileID:   profileID,
		Company:     req.Company,
		Position:    req.Position,
		Location:    req.Location,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Description: req.Description,
	})
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to add experience", err)
	}
	return created, nil
}

// UpdateExperience updates an experience after resolving its owner through
// the profile and running the guard.
func (s *ProfileService) UpdateExperience(ctx context.Context, identity *auth.Identity, id string, req UpdateExperienceRequest) (*Experience, error) {
	profileID, err := s.guardExperience(ctx, identity, id)
	if err != nil {
		return nil, err
	}
	updated, err := s.store.UpdateExperience(ctx, id, profileID, req)
	if err != nil {
		if errors.Is(err, ErrExperienceNotFound) {
			return nil, apperror.NewNotFoundError("experience not found", nil)
		}
		return nil, apperror.NewDatabaseError("failed to update experience", err)
	}
	return updated, nil
}

// DeleteExperience removes an experience after the ownership check.
func (s *ProfileService) DeleteExperience(ctx context.Context, identity *auth.Identity, id string) error {
	profileID, err := s.guardExperience(ctx, identity, id)
	if err != nil {
		return err
	}
	if err := s.store.DeleteExperience(ctx, id, profileID); err != nil {
		if errors.Is(err, ErrExperienceNotFound) {
			return apperror.NewNotFoundError("experience not found", nil)
		}
		return apperror.NewDatabaseError("failed to delete experience", err)
	}
	return nil
}

// AddProject attaches a project to the caller's profile.
func (s *ProfileService) AddProject(ctx context.Context, identity *auth.Identity, req ProjectInput) (*Project, error) {
	if identity == nil {
		return nil, apperror.NewAuthError("authentication required", nil)
	}
	if err := s.validate.Struct(req); err != nil {
		return nil, apperror.NewValidationError("title is required", err)
	}

	profileID, err := s.profileIDOf(ctx, identity.ID)
	if err != nil {
		return nil, err
	}
	created, err := s.store.CreateProject(ctx, &Project{
		ProfileID:    profileID,
		Title:        req.Title,
		Description:  req.Description,
		Link:         req.Link,
		GithubLink:   req.GithubLink,
		Technologies: req.Technologies,
	})
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to add project", err)
	}
	return created, nil
}

// UpdateProject updates a project after the ownership check.
func (s *ProfileService) UpdateProject(ctx context.Context, identity *auth.Identity, id string, req UpdateProjectRequest) (*Project, error) {
	profileID, err := s.guardProject(ctx, identity, id)
	if err != nil {
		return nil, err
	}
	updated, err := s.store.UpdateProject(ctx, id, profileID, req)
	if err != nil {
		if errors.Is(err, ErrProjectNotFound) {
			return nil, apperror.NewNotFoundError("project not found", nil)
		}
		return nil, apperror.NewDatabaseError("failed to update project", err)
	}
	return updated, nil
}

// DeleteProject removes a project after the ownership check.
func (s *ProfileService) DeleteProject(ctx context.Context, identity *auth.Identity, id string) error {
	profileID, err := s.guardProject(ctx, identity, id)
	if err != nil {
		return err
	}
	if err := s.store.DeleteProject(ctx, id, profileID); err != nil {
		if errors.Is(err, ErrProjectNotFound) {
			return apperror.NewNotFoundError("project not found", nil)
		}
		return apperror.NewDatabaseError("failed to delete project", err)
	}
	return nil
}

// ProjectsByTech lists projects using a given technology.
func (s *ProfileService) ProjectsByTech(ctx context.Context, tech string) ([]Project, error) {
	if tech == "" {
		return nil, apperror.NewBadRequestError("tech query parameter is required", nil)
	}
	out, err := s.store.ProjectsByTech(ctx, tech)
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to search projects", err)
	}
	return out, nil
}

func (s *ProfileService) profileIDOf(ctx context.Context, userID string) (string, error) {
	profileID, err := s.store.ProfileIDForUser(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrProfileNotFound) {
			return "", apperror.NewNotFoundError("profile not found", nil)
		}
		return "", apperror.NewDatabaseError("failed to load profile", err)
	}
	return profileID, nil
}

// guardExperience resolves the experience's owner across the
// experience -> profile -> user chain and runs the ownership guard. It
// returns the profile id the conditional write must match (nil for admins).
func (s *ProfileService) guardExperience(ctx context.Context, identity *auth.Identity, id string) (*string, error) {
	ownerID, profileID, err := s.store.ExperienceOwner(ctx, id)
	if err != nil {
		if errors.Is(err, ErrExperienceNotFound) {
			return nil, apperror.NewNotFoundError("experience not found", nil)
		}
		return nil, apperror.NewDatabaseError("failed to load experience", err)
	}
	if err := auth.RequireOwner(identity, ownerID); err != nil {
		return nil, err
	}
	if identity.Role == auth.RoleAdmin {
		return nil, nil
	}
	return &profileID, nil
}

// guardProject does the same for projects.
func (s *ProfileService) guardProject(ctx context.Context, identity *auth.Identity, id string) (*string, error) {
	ownerID, profileID, err := s.store.ProjectOwner(ctx, id)
	if err != nil {
		if errors.Is(err, ErrProjectNotFound) {
			return nil, apperror.NewNotFoundError("project not found", nil)
		}
		return nil, apperror.NewDatabaseError("failed to load project", err)
	}
	if err := auth.RequireOwner(identity, ownerID); err != nil {
		return nil, err
	}
	if identity.Role == auth.RoleAdmin {
		return nil, nil
	}
	return &profileID, nil
}
