package profiles

import "time"

// UpsertProfileRequest is the payload for PUT /profile. The whole record is
// replaced for the calling user; absent fields reset to their zero values,
// matching upsert semantics.
type UpsertProfileRequest struct {
	Bio         string   `json:"bio"`
	Headline    string   `json:"headline"`
	Skills      []string `json:"skills"`
	Hobbies     []string `json:"hobbies"`
	Location    string   `json:"location"`
	PhoneNumber string   `json:"phoneNumber"`
	Website     string   `json:"website"`
	Github      string   `json:"github"`
	Linkedin    string   `json:"linkedin"`
	Twitter     string   `json:"twitter"`
}

// ExperienceInput is the payload for adding an experience.
type ExperienceInput struct {
	Company     string     `json:"company"`
	Position    string     `json:"position"`
	Location    string     `json:"location"`
	StartDate   time.Time  `json:"startDate" validate:"required"`
	EndDate     *time.Time `json:"endDate"`
	Description string     `json:"description"`
}

// UpdateExperienceRequest is the partial-update payload for an experience.
// EndDate uses a double pointer shape through ClearEndDate instead: setting
// EndDate updates it, ClearEndDate=true nulls it.
type UpdateExperienceRequest struct {
	Company      *string    `json:"company"`
	Position     *string    `json:"position"`
	Location     *string    `json:"location"`
	StartDate    *time.Time `json:"startDate"`
	EndDate      *time.Time `json:"endDate"`
	ClearEndDate bool       `json:"clearEndDate"`
	Description  *string    `json:"description"`
}

// ProjectInput is the payload for adding a project.
type ProjectInput struct {
	Title        string   `json:"title" validate:"required"`
	Description  string   `json:"description"`
	Link         string   `json:"link"`
	GithubLink   string   `json:"githubLink"`
	Technologies []string `json:"technologies"`
}

// UpdateProjectRequest is the partial-update payload for a project.
type UpdateProjectRequest struct {
	Title        *string   `json:"title"`
	Description  *string   `json:"description"`
	Link         *string   `json:"link"`
	GithubLink   *string   `json:"githubLink"`
	Technologies *[]string `json:"technologies"`
}

// StatusResponse wraps a saved entity in the status/message/data envelope.
type StatusResponse struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}
