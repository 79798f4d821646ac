// Package reviews is responsible for course reviews: creating, listing and
// deleting them, and keeping the course rating aggregate in sync. It
// follows the modular structure of the other feature packages.
package reviews

import "time"

// Review represents a review row. A user may review a course once.
type Review struct {
	ID        string    `json:"id"`
	CourseID  string    `json:"courseId"`
	UserID    string    `json:"userId"`
	Rating    int       `json:"rating"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"createdAt"`

	// AuthorName is joined in for list responses.
	AuthorName string `json:"authorName,omitempty"`
}

// NewReviewRequest is the payload for posting a review.
type NewReviewRequest struct {
	Rating int    `json:"rating" validate:"required,gte=1,lte=5"`
	Body   string `json:"body"`
}

// ReviewListResponse wraps the reviews of one course.
type ReviewListResponse struct {
	Success bool     `json:"success"`
	Data    []Review `json:"data"`
}
