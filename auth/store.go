package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// pgUniqueViolation is the PostgreSQL error code for unique constraint
// violations.
const pgUniqueViolation = "23505"

// Sentinel store errors. The service layer translates these into AppErrors;
// fakes in tests return them directly.
var (
	ErrUserNotFound = errors.New("user not found")
	ErrEmailTaken   = errors.New("email already registered")
)

// UserStore is the persistence boundary for user records. The middleware
// and the auth service depend on this interface, not on pgx, so both can be
// exercised against in-memory fakes.
type UserStore interface {
	CreateUser(ctx context.Context, u *User) (*User, error)
	UserByID(ctx context.Context, id string) (*User, error)
	UserByEmail(ctx context.Context, email string) (*User, error)
}

// PostgresUserStore implements UserStore on a pgx connection pool.
type PostgresUserStore struct {
	db *pgxpool.Pool
}

// NewPostgresUserStore creates a PostgresUserStore.
func NewPostgresUserStore(db *pgxpool.Pool) *PostgresUserStore {
	return &PostgresUserStore{db: db}
}

// CreateUser inserts a new user row. A missing id is generated here; a
// duplicate email surfaces as ErrEmailTaken.
func (s *PostgresUserStore) CreateUser(ctx context.Context, u *User) (*User, error) {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.Role == "" {
		u.Role = RoleStudent
	}
	u.Email = strings.ToLower(u.Email)
	u.CreatedAt = time.Now().UTC()

	query := `INSERT INTO users (id, name, email, password, role, avatar, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := s.db.Exec(ctx, query,
		u.ID, u.Name, u.Email, u.HashedPassword, u.Role, u.Avatar, u.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return u, nil
}

// UserByID fetches a user by primary key.
func (s *PostgresUserStore) UserByID(ctx context.Context, id string) (*User, error) {
	query := `SELECT id, name, email, password, role, avatar, created_at
	          FROM users WHERE id = $1`
	return s.scanUser(s.db.QueryRow(ctx, query, id))
}

// UserByEmail fetches a user by email. Emails are stored lowercase, so the
// lookup key is lowercased as well.
func (s *PostgresUserStore) UserByEmail(ctx context.Context, email string) (*User, error) {
	query := `SELECT id, name, email, password, role, avatar, created_at
	          FROM users WHERE email = $1`
	return s.scanUser(s.db.QueryRow(ctx, query, strings.ToLower(email)))
}

func (s *PostgresUserStore) scanUser(row pgx.Row) (*User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.HashedPassword, &u.Role, &u.Avatar, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}
