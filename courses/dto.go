package courses

// LessonInput is one lesson inside a course creation request.
type LessonInput struct {
	Title    string `json:"title" validate:"required"`
	Duration string `json:"duration"`
	VideoURL string `json:"videoUrl"`
	Content  string `json:"content"`
}

// CreateCourseRequest is the payload for POST /courses. Lessons are created
// together with the course in one transaction.
type CreateCourseRequest struct {
	Title         string        `json:"title" validate:"required"`
	Description   string        `json:"description"`
	Thumbnail     string        `json:"thumbnail"`
	Category      string        `json:"category"`
	Level         string        `json:"level"`
	TotalDuration string        `json:"totalDuration"`
	Price         float64       `json:"price" validate:"gte=0"`
	Lessons       []LessonInput `json:"lessons" validate:"dive"`
}

// UpdateCourseRequest is the partial-update payload; nil fields are left
// untouched.
type UpdateCourseRequest struct {
	Title         *string  `json:"title"`
	Description   *string  `json:"description"`
	Thumbnail     *string  `json:"thumbnail"`
	Category      *string  `json:"category"`
	Level         *string  `json:"level"`
	TotalDuration *string  `json:"totalDuration"`
	Price         *float64 `json:"price"`
}

// CourseResponse wraps a single course.
type CourseResponse struct {
	Success bool    `json:"success"`
	Data    *Course `json:"data"`
}

// CourseListResponse wraps a list of courses.
type CourseListResponse struct {
	Success bool     `json:"success"`
	Data    []Course `json:"data"`
}
