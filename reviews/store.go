package reviews

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const pgUniqueViolation = "23505"

// Sentinel store errors.
var (
	ErrReviewNotFound  = errors.New("review not found")
	ErrAlreadyReviewed = errors.New("course already reviewed by this user")
)

// ReviewStore is the persistence boundary for reviews.
type ReviewStore interface {
	Create(ctx context.Context, r *Review) (*Review, error)
	ByID(ctx context.Context, id string) (*Review, error)
	ListByCourse(ctx context.Context, courseID string) ([]Review, error)
	Delete(ctx context.Context, id string) error
	// RefreshCourseRating recomputes the course's rating column from its
	// reviews in one statement.
	RefreshCourseRating(ctx context.Context, courseID string) error
}

// PostgresReviewStore implements ReviewStore on a pgx connection pool.
type PostgresReviewStore struct {
	db *pgxpool.Pool
}

// NewPostgresReviewStore creates a PostgresReviewStore.
func NewPostgresReviewStore(db *pgxpool.Pool) *PostgresReviewStore {
	return &PostgresReviewStore{db: db}
}

// Create inserts a review; the (course, user) unique constraint surfaces as
// ErrAlreadyReviewed.
func (s *PostgresReviewStore) Create(ctx context.Context, r *Review) (*Review, error) {
	r.ID = uuid.NewString()
	r.CreatedAt = time.Now().UTC()
	query := `
		INSERT INTO reviews (id, course_id, user_id, rating, body, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := s.db.Exec(ctx, query, r.ID, r.CourseID, r.UserID, r.Rating, r.Body, r.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return nil, ErrAlreadyReviewed
		}
		return nil, err
	}
	return r, nil
}

// ByID fetches a review by primary key.
func (s *PostgresReviewStore) ByID(ctx context.Context, id string) (*Review, error) {
	query := `SELECT id, course_id, user_id, rating, body, created_at FROM reviews WHERE id = $1`
	var r Review
	err := s.db.QueryRow(ctx, query, id).Scan(&r.ID, &r.CourseID, &r.UserID, &r.Rating, &r.Body, &r.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}
	return &r, nil
}

// ListByCourse lists a course's reviews newest-first with author names.
func (s *PostgresReviewStore) ListByCourse(ctx context.Context, courseID string) ([]Review, error) {
	query := `
		SELECT r.id, r.course_id, r.user_id, r.rating, r.body, r.created_at, u.name
		FROM reviews r
		JOIN users u ON u.id = r.user_id
		WHERE r.course_id = $1
		ORDER BY r.created_at DESC`
	rows, err := s.db.Query(ctx, query, courseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Review
	for rows.Next() {
		var r Review
		if err := rows.Scan(&r.ID, &r.CourseID, &r.UserID, &r.Rating, &r.Body, &r.CreatedAt, &r.AuthorName); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Delete removes a review.
func (s *PostgresReviewStore) Delete(ctx context.Context, id string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrReviewNotFound
	}
	return nil
}

// RefreshCourseRating writes the average review rating back onto the
// course row. Courses without reviews go back to zero.
func (s *PostgresReviewStore) RefreshCourseRating(ctx context.Context, courseID string) error {
	query := `
		UPDATE courses SET rating = COALESCE(
		    (SELECT AVG(rating)::float8 FROM reviews WHERE course_id = $1), 0)
		WHERE id = $1`
	_, err := s.db.Exec(ctx, query, courseID)
	return err
}
