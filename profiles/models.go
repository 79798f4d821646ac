// Package profiles implements user profile management: the profile record
// itself plus its experience and project children. Ownership of every row
// resolves through the profile to its user, which is what the guard checks.
package profiles

import "time"

// Profile represents a profile row. Each user has at most one.
type Profile struct {
	ID          string   `json:"id"`
	UserID      string   `json:"userId"`
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

	Experiences []Experience `json:"experiences,omitempty"`
	Projects    []Project    `json:"projects,omitempty"`
}

// Experience represents a work experience row attached to a profile.
type Experience struct {
	ID          string     `json:"id"`
	ProfileID   string     `json:"profileId"`
	Company     string     `json:"company"`
	Position    string     `json:"position"`
	Location    string     `json:"location"`
	StartDate   time.Time  `json:"startDate"`
	EndDate     *time.Time `json:"endDate"`
	Description string     `json:"description"`
}

// Project represents a portfolio project row attached to a profile.
type Project struct {
	ID           string   `json:"id"`
	ProfileID    string   `json:"profileId"`
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Link         string   `json:"link"`
	GithubLink   string   `json:"githubLink"`
	Technologies []string `json:"technologies"`
}

// FullProfile is the public view returned for GET /profile/{userID}: the
// user's display fields plus the profile with its relations.
type FullProfile struct {
	Name    string   `json:"name"`
	Avatar  string   `json:"avatar"`
	Profile *Profile `json:"profile"`
}
