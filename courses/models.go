// Package courses implements course and lesson management: the public
// catalog endpoints and the instructor-only mutations behind the ownership
// guard.
package courses

import (
	"time"

	"github.com/user/eduflow-go/auth"
)

// Instructor is the public slice of the owning user embedded in course
// responses.
type Instructor struct {
	ID     string    `json:"id,omitempty"`
	Name   string    `json:"name"`
	Avatar string    `json:"avatar"`
	Role   auth.Role `json:"role,omitempty"`
}

// Lesson represents a lesson row. Lessons belong to exactly one course and
// inherit its ownership.
type Lesson struct {
	ID       string `json:"id"`
	CourseID string `json:"courseId"`
	Title    string `json:"title"`
	Duration string `json:"duration"`
	VideoURL string `json:"videoUrl"`
	Content  string `json:"content"`
	Position int    `json:"position"`
}

// Course represents a course row plus the relations loaded for responses.
// InstructorID is the ownership link checked by the guard.
type Course struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	Thumbnail     string    `json:"thumbnail"`
	Category      string    `json:"category"`
	Level         string    `json:"level"`
	TotalDuration string    `json:"totalDuration"`
	Price         float64   `json:"price"`
	Rating        float64   `json:"rating"`
	StudentsCount int       `json:"studentsCount"`
	InstructorID  string    `json:"instructorId"`
	CreatedAt     time.Time `json:"createdAt"`

	Instructor  *Instructor `json:"instructor,omitempty"`
	Lessons     []Lesson    `json:"lessons,omitempty"`
	LessonCount int         `json:"lessonCount,omitempty"`
}
