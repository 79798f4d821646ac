package courses

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrCourseNotFound is returned when no course row matches.
var ErrCourseNotFound = errors.New("course not found")

// CourseUpdate carries the columns of a partial update; nil means keep.
type CourseUpdate struct {
	Title         *string
	Description   *string
	Thumbnail     *string
	Category      *string
	Level         *string
	TotalDuration *string
	Price         *float64
}

// CourseStore is the persistence boundary for courses and lessons.
//
// Update and Delete take an optional requireOwner: when non-nil the write
// is conditional on instructor_id matching, closing the window between the
// ownership check and the mutation. Admin callers pass nil.
type CourseStore interface {
	Popular(ctx context.Context, limit int) ([]Course, error)
	ByID(ctx context.Context, id string) (*Course, error)
	Create(ctx context.Context, c *Course) (*Course, error)
	Update(ctx context.Context, id string, requireOwner *string, upd CourseUpdate) (*Course, error)
	Delete(ctx context.Context, id string, requireOwner *string) error
}

// PostgresCourseStore implements CourseStore on a pgx connection pool.
type PostgresCourseStore struct {
	db *pgxpool.Pool
}

// NewPostgresCourseStore creates a PostgresCourseStore.
func NewPostgresCourseStore(db *pgxpool.Pool) *PostgresCourseStore {
	return &PostgresCourseStore{db: db}
}

// Popular lists courses by students count, rating breaking ties, with the
// instructor's public fields and the lesson count.
func (s *PostgresCourseStore) Popular(ctx context.Context, limit int) ([]Course, error) {
	query := `
		SELECT c.id, c.title, c.description, c.thumbnail, c.category, c.level,
		       c.total_duration, c.price, c.rating, c.students_count,
		       c.instructor_id, c.created_at,
		       u.name, u.avatar,
		       (SELECT count(*) FROM lessons l WHERE l.course_id = c.id)
		FROM courses c
		JOIN users u ON u.id = c.instructor_id
		ORDER BY c.students_count DESC, c.rating DESC
		LIMIT $1`
	rows, err := s.db.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Course
	for rows.Next() {
		var c Course
		var inst Instructor
		err := rows.Scan(
			&c.ID, &c.Title, &c.Description, &c.Thumbnail, &c.Category, &c.Level,
			&c.TotalDuration, &c.Price, &c.Rating, &c.StudentsCount,
			&c.InstructorID, &c.CreatedAt,
			&inst.Name, &inst.Avatar,
			&c.LessonCount,
		)
		if err != nil {
			return nil, err
		}
		c.Instructor = &inst
		out = append(out, c)
	}
	return out, rows.Err()
}

// ByID fetches a course with its ordered lessons and the instructor's
// public fields.
func (s *PostgresCourseStore) ByID(ctx context.Context, id string) (*Course, error) {
	query := `
		SELECT c.id, c.title, c.description, c.thumbnail, c.category, c.level,
		       c.total_duration, c.price, c.rating, c.students_count,
		       c.instructor_id, c.created_at,
		       u.id, u.name, u.avatar, u.role
		FROM courses c
		JOIN users u ON u.id = c.instructor_id
		WHERE c.id = $1`
	var c Course
	var inst Instructor
	err := s.db.QueryRow(ctx, query, id).Scan(
		&c.ID, &c.Title, &c.Description, &c.Thumbnail, &c.Category, &c.Level,
		&c.TotalDuration, &c.Price, &c.Rating, &c.StudentsCount,
		&c.InstructorID, &c.CreatedAt,
		&inst.ID, &inst.Name, &inst.Avatar, &inst.Role,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}
	c.Instructor = &inst

	lessonQuery := `
		SELECT id, course_id, title, duration, video_url, content, position
		FROM lessons WHERE course_id = $1
		ORDER BY position ASC`
	rows, err := s.db.Query(ctx, lessonQuery, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var l Lesson
		if err := rows.Scan(&l.ID, &l.CourseID, &l.Title, &l.Duration, &l.VideoURL, &l.Content, &l.Position); err != nil {
			return nil, err
		}
		c.Lessons = append(c.Lessons, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	c.LessonCount = len(c.Lessons)
	return &c, nil
}

// Create inserts a course and its lessons in one transaction.
func (s *PostgresCourseStore) Create(ctx context.Context, c *Course) (*Course, error) {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	c.CreatedAt = time.Now().UTC()

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	courseQuery := `
		INSERT INTO courses (id, title, description, thumbnail, category, level,
		                     total_duration, price, rating, students_count,
		                     instructor_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 0, 0, $9, $10)`
	_, err = tx.Exec(ctx, courseQuery,
		c.ID, c.Title, c.Description, c.Thumbnail, c.Category, c.Level,
		c.TotalDuration, c.Price, c.InstructorID, c.CreatedAt)
	if err != nil {
		return nil, err
	}

	lessonQuery := `
		INSERT INTO lessons (id, course_id, title, duration, video_url, content, position)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	for i := range c.Lessons {
		l := &c.Lessons[i]
		l.ID = uuid.NewString()
		l.CourseID = c.ID
		l.Position = i
		if _, err := tx.Exec(ctx, lessonQuery, l.ID, l.CourseID, l.Title, l.Duration, l.VideoURL, l.Content, l.Position); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	c.LessonCount = len(c.Lessons)
	return c, nil
}

// Update applies a partial update. With requireOwner set the WHERE clause
// also matches instructor_id, so a concurrent ownership change makes the
// update hit zero rows instead of clobbering someone else's course.
func (s *PostgresCourseStore) Update(ctx context.Context, id string, requireOwner *string, upd CourseUpdate) (*Course, error) {
	var setClauses []string
	var args []interface{}
	argID := 1

	add := func(column string, value interface{}) {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, argID))
		args = append(args, value)
		argID++
	}
	if upd.Title != nil {
		add("title", *upd.Title)
	}
	if upd.Description != nil {
		add("description", *upd.Description)
	}
	if upd.Thumbnail != nil {
		add("thumbnail", *upd.Thumbnail)
	}
	if upd.Category != nil {
		add("category", *upd.Category)
	}
	if upd.Level != nil {
		add("level", *upd.Level)
	}
	if upd.TotalDuration != nil {
		add("total_duration", *upd.TotalDuration)
	}
	if upd.Price != nil {
		add("price", *upd.Price)
	}
	if len(setClauses) == 0 {
		return s.ByID(ctx, id)
	}

	where := fmt.Sprintf("id = $%d", argID)
	args = append(args, id)
	argID++
	if requireOwner != nil {
		where += fmt.Sprintf(" AND instructor_id = $%d", argID)
		args = append(args, *requireOwner)
	}

	query := fmt.Sprintf(`UPDATE courses SET %s WHERE %s`, strings.Join(setClauses, ", "), where)
	tag, err := s.db.Exec(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrCourseNotFound
	}
	return s.ByID(ctx, id)
}

// Delete removes a course; lessons cascade. Same conditional-owner contract
// as Update.
func (s *PostgresCourseStore) Delete(ctx context.Context, id string, requireOwner *string) error {
	query := `DELETE FROM courses WHERE id = $1`
	args := []interface{}{id}
	if requireOwner != nil {
		query += ` AND instructor_id = $2`
		args = append(args, *requireOwner)
	}
	tag, err := s.db.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrCourseNotFound
	}
	return nil
}
