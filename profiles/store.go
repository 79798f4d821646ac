package profiles

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Sentinel store errors.
var (
	ErrProfileNotFound    = errors.New("profile not found")
	ErrExperienceNotFound = errors.New("experience not found")
	ErrProjectNotFound    = errors.New("project not found")
)

// ProfileStore is the persistence boundary for profiles, experiences and
// projects.
//
// The child-row mutations take an optional requireProfile id: when non-nil
// the write is conditional on profile_id matching, so the ownership check
// and the write cannot disagree. Admin callers pass nil.
type ProfileStore interface {
	Upsert(ctx context.Context, p *Profile) (*Profile, error)
	ProfileIDForUser(ctx context.Context, userID string) (string, error)
	FullByUserID(ctx context.Context, userID string) (*FullProfile, error)

	CreateExperience(ctx context.Context, e *Experience) (*Experience, error)
	ExperienceOwner(ctx context.Context, id string) (ownerUserID, profileID string, err error)
	UpdateExperience(ctx context.Context, id string, requireProfile *string, req UpdateExperienceRequest) (*Experience, error)
	DeleteExperience(ctx context.Context, id string, requireProfile *string) error

	CreateProject(ctx context.Context, p *Project) (*Project, error)
	ProjectOwner(ctx context.Context, id string) (ownerUserID, profileID string, err error)
	UpdateProject(ctx context.Context, id string, requireProfile *string, req UpdateProjectRequest) (*Project, error)
	DeleteProject(ctx context.Context, id string, requireProfile *string) error

	ProjectsByTech(ctx context.Context, tech string) ([]Project, error)
}

// PostgresProfileStore implements ProfileStore on a pgx connection pool.
type PostgresProfileStore struct {
	db *pgxpool.Pool
}

// NewPostgresProfileStore creates a PostgresProfileStore.
func NewPostgresProfileStore(db *pgxpool.Pool) *PostgresProfileStore {
	return &PostgresProfileStore{db: db}
}

// Upsert inserts or fully replaces the profile for p.UserID in one atomic
// statement.
func (s *PostgresProfileStore) Upsert(ctx context.Context, p *Profile) (*Profile, error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.Skills == nil {
		p.Skills = []string{}
	}
	if p.Hobbies == nil {
		p.Hobbies = []string{}
	}
	query := `
		INSERT INTO profiles (id, user_id, bio, headline, skills, hobbies,
		                      location, phone_number, website, github, linkedin, twitter)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (user_id) DO UPDATE SET
		    bio = EXCLUDED.bio, headline = EXCLUDED.headline,
		    skills = EXCLUDED.skills, hobbies = EXCLUDED.hobbies,
		    location = EXCLUDED.location, phone_number = EXCLUDED.phone_number,
		    website = EXCLUDED.website, github = EXCLUDED.github,
		    linkedin = EXCLUDED.linkedin, twitter = EXCLUDED.twitter
		RETURNING id`
	err := s.db.QueryRow(ctx, query,
		p.ID, p.UserID, p.Bio, p.Headline, p.Skills, p.Hobbies,
		p.Location, p.PhoneNumber, p.Website, p.Github, p.Linkedin, p.Twitter,
	).Scan(&p.ID)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// ProfileIDForUser resolves a user's profile id.
func (s *PostgresProfileStore) ProfileIDForUser(ctx context.Context, userID string) (string, error) {
	var id string
	err := s.db.QueryRow(ctx, `SELECT id FROM profiles WHERE user_id = $1`, userID).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrProfileNotFound
		}
		return "", err
	}
	return id, nil
}

// FullByUserID loads the public profile view: user display fields, the
// profile, experiences newest-first and projects.
func (s *PostgresProfileStore) FullByUserID(ctx context.Context, userID string) (*FullProfile, error) {
	full := &FullProfile{}
	p := &Profile{}
	query := `
		SELECT u.name, u.avatar,
		       p.id, p.user_id, p.bio, p.headline, p.skills, p.hobbies,
		       p.location, p.phone_number, p.website, p.github, p.linkedin, p.twitter
		FROM users u
		JOIN profiles p ON p.user_id = u.id
		WHERE u.id = $1`
	err := s.db.QueryRow(ctx, query, userID).Scan(
		&full.Name, &full.Avatar,
		&p.ID, &p.UserID, &p.Bio, &p.Headline, &p.Skills, &p.Hobbies,
		&p.Location, &p.PhoneNumber, &p.Website, &p.Github, &p.Linkedin, &p.Twitter,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}

	expQuery := `
		SELECT id, profile_id, company, position, location, start_date, end_date, description
		FROM experiences WHERE profile_id = $1
		ORDER BY start_date DESC`
	rows, err := s.db.Query(ctx, expQuery, p.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var e Experience
		if err := rows.Scan(&e.ID, &e.ProfileID, &e.Company, &e.Position, &e.Location, &e.StartDate, &e.EndDate, &e.Description); err != nil {
			return nil, err
		}
		p.Experiences = append(p.Experiences, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	projQuery := `
		SELECT id, profile_id, title, description, link, github_link, technologies
		FROM projects WHERE profile_id = $1`
	projRows, err := s.db.Query(ctx, projQuery, p.ID)
	if err != nil {
		return nil, err
	}
	defer projRows.Close()
	for projRows.Next() {
		var pr Project
		if err := projRows.Scan(&pr.ID, &pr.ProfileID, &pr.Title, &pr.Description, &pr.Link, &pr.GithubLink, &pr.Technologies); err != nil {
			return nil, err
		}
		p.Projects = append(p.Projects, pr)
	}
	if err := projRows.Err(); err != nil {
		return nil, err
	}

	full.Profile = p
	return full, nil
}

// CreateExperience inserts an experience row.
func (s *PostgresProfileStore) CreateExperience(ctx context.Context, e *Experience) (*Experience, error) {
	e.ID = uuid.NewString()
	query := `
		INSERT INTO experiences (id, profile_id, company, position, location, start_date, end_date, description)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := s.db.Exec(ctx, query,
		e.ID, e.ProfileID, e.Company, e.Position, e.Location, e.StartDate, e.EndDate, e.Description)
	if err != nil {
		return nil, err
	}
	return e, nil
}

// ExperienceOwner resolves the user owning an experience through its
// profile.
func (s *PostgresProfileStore) ExperienceOwner(ctx context.Context, id string) (string, string, error) {
	query := `
		SELECT p.user_id, p.id
		FROM experiences e
		JOIN profiles p ON p.id = e.profile_id
		WHERE e.id = $1`
	var userID, profileID string
	err := s.db.QueryRow(ctx, query, id).Scan(&userID, &profileID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", "", ErrExperienceNotFound
		}
		return "", "", err
	}
	return userID, profileID, nil
}

// UpdateExperience applies a partial update, optionally conditional on the
// owning profile.
func (s *PostgresProfileStore) UpdateExperience(ctx context.Context, id string, requireProfile *string, req UpdateExperienceRequest) (*Experience, error) {
	var setClauses []string
	var args []interface{}
	argID := 1

	add := func(column string, value interface{}) {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, argID))
		args = append(args, value)
		argID++
	}
	if req.Company != nil {
		add("company", *req.Company)
	}
	if req.Position != nil {
		add("position", *req.Position)
	}
	if req.Location != nil {
		add("location", *req.Location)
	}
	if req.StartDate != nil {
		add("start_date", *req.StartDate)
	}
	if req.ClearEndDate {
		setClauses = append(setClauses, "end_date = NULL")
	} else if req.EndDate != nil {
		add("end_date", *req.EndDate)
	}
	if req.Description != nil {
		add("description", *req.Description)
	}
	if len(setClauses) == 0 {
		return s.experienceByID(ctx, id)
	}

	where := fmt.Sprintf("id = $%d", argID)
	args = append(args, id)
	argID++
	if requireProfile != nil {
		where += fmt.Sprintf(" AND profile_id = $%d", argID)
		args = append(args, *requireProfile)
	}

	query := fmt.Sprintf(`UPDATE experiences SET %s WHERE %s`, strings.Join(setClauses, ", "), where)
	tag, err := s.db.Exec(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrExperienceNotFound
	}
	return s.experienceByID(ctx, id)
}

func (s *PostgresProfileStore) experienceByID(ctx context.Context, id string) (*Experience, error) {
	query := `
		SELECT id, profile_id, company, position, location, start_date, end_date, description
		FROM experiences WHERE id = $1`
	var e Experience
	err := s.db.QueryRow(ctx, query, id).Scan(
		&e.ID, &e.ProfileID, &e.Company, &e.Position, &e.Location, &e.StartDate, &e.EndDate, &e.Description)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrExperienceNotFound
		}
		return nil, err
	}
	return &e, nil
}

// DeleteExperience removes an experience row, optionally conditional on the
// owning profile.
func (s *PostgresProfileStore) DeleteExperience(ctx context.Context, id string, requireProfile *string) error {
	query := `DELETE FROM experiences WHERE id = $1`
	args := []interface{}{id}
	if requireProfile != nil {
		query += ` AND profile_id = $2`
		args = append(args, *requireProfile)
	}
	tag, err := s.db.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrExperienceNotFound
	}
	return nil
}

// CreateProject inserts a project row.
func (s *PostgresProfileStore) CreateProject(ctx context.Context, p *Project) (*Project, error) {
	p.ID = uuid.NewString()
	if p.Technologies == nil {
		p.Technologies = []string{}
	}
	query := `
		INSERT INTO projects (id, profile_id, title, description, link, github_link, technologies)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := s.db.Exec(ctx, query,
		p.ID, p.ProfileID, p.Title, p.Description, p.Link, p.GithubLink, p.Technologies)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// ProjectOwner resolves the user owning a project through its profile.
func (s *PostgresProfileStore) ProjectOwner(ctx context.Context, id string) (string, string, error) {
	query := `
		SELECT p.user_id, p.id
		FROM projects pr
		JOIN profiles p ON p.id = pr.profile_id
		WHERE pr.id = $1`
	var userID, profileID string
	err := s.db.QueryRow(ctx, query, id).Scan(&userID, &profileID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", "", ErrProjectNotFound
		}
		return "", "", err
	}
	return userID, profileID, nil
}

// UpdateProject applies a partial update, optionally conditional on the
// owning profile.
func (s *PostgresProfileStore) UpdateProject(ctx context.Context, id string, requireProfile *string, req UpdateProjectRequest) (*Project, error) {
	var setClauses []string
	var args []interface{}
	argID := 1

	add := func(column string, value interface{}) {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, argID))
		args = append(args, value)
		argID++
	}
	if req.Title != nil {
		add("title", *req.Title)
	}
	if req.Description != nil {
		add("description", *req.Description)
	}
	if req.Link != nil {
		add("link", *req.Link)
	}
	if req.GithubLink != nil {
		add("github_link", *req.GithubLink)
	}
	if req.Technologies != nil {
		add("technologies", *req.Technologies)
	}
	if len(setClauses) == 0 {
		return s.projectByID(ctx, id)
	}

	where := fmt.Sprintf("id = $%d", argID)
	args = append(args, id)
	argID++
	if requireProfile != nil {
		where += fmt.Sprintf(" AND profile_id = $%d", argID)
		args = append(args, *requireProfile)
	}

	query := fmt.Sprintf(`UPDATE projects SET %s WHERE %s`, strings.Join(setClauses, ", "), where)
	tag, err := s.db.Exec(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrProjectNotFound
	}
	return s.projectByID(ctx, id)
}

func (s *PostgresProfileStore) projectByID(ctx context.Context, id string) (*Project, error) {
	query := `
		SELECT id, profile_id, title, description, link, github_link, technologies
		FROM projects WHERE id = $1`
	var p Project
	err := s.db.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.ProfileID, &p.Title, &p.Description, &p.Link, &p.GithubLink, &p.Technologies)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProjectNotFound
		}
		return nil, err
	}
	return &p, nil
}

// DeleteProject removes a project row, optionally conditional on the owning
// profile.
func (s *PostgresProfileStore) DeleteProject(ctx context.Context, id string, requireProfile *string) error {
	query := `DELETE FROM projects WHERE id = $1`
	args := []interface{}{id}
	if requireProfile != nil {
		query += ` AND profile_id = $2`
		args = append(args, *requireProfile)
	}
	tag, err := s.db.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrProjectNotFound
	}
	return nil
}

// ProjectsByTech lists projects using a given technology.
func (s *PostgresProfileStore) ProjectsByTech(ctx context.Context, tech string) ([]Project, error) {
	query := `
		SELECT id, profile_id, title, description, link, github_link, technologies
		FROM projects
		WHERE $1 = ANY (technologies)`
	rows, err := s.db.Query(ctx, query, tech)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Project
	for rows.Next() {
		var p Project
		if err := rows.Scan(&p.ID, &p.ProfileID, &p.Title, &p.Description, &p.Link, &p.GithubLink, &p.Technologies); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
