// Package users encapsulates account-level operations outside the auth
// flow: public user lookup and updates to the caller's own display fields.
package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/user/eduflow-go/apperror"
	"github.com/user/eduflow-go/auth"
)

// UserService provides user account operations. It reuses the auth.User
// model; only public fields ever leave this package.
type UserService struct {
	db *pgxpool.Pool
}

// NewUserService creates a UserService.
func NewUserService(db *pgxpool.Pool) *UserService {
	return &UserService{db: db}
}

// PublicUser returns the public fields of a user by id.
func (s *UserService) PublicUser(ctx context.Context, id string) (*auth.UserResponse, error) {
	query := `SELECT id, name, email, role, avatar, created_at FROM users WHERE id = $1`
	var u auth.User
	err := s.db.QueryRow(ctx, query, id).Scan(&u.ID, &u.Name, &u.Email, &u.Role, &u.Avatar, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFoundError(fmt.Sprintf("user %s not found", id), nil)
		}
		return nil, apperror.NewDatabaseError("failed to get user", err)
	}
	resp := auth.NewUserResponse(&u)
	return &resp, nil
}

// UpdateAccount updates the caller's own name and avatar. Nil fields are
// left untouched.
func (s *UserService) UpdateAccount(ctx context.Context, identity *auth.Identity, name, avatar *string) (*auth.UserResponse, error) {
	if identity == nil {
		return nil, apperror.NewAuthError("authentication required", nil)
	}

	var setClauses []string
	var args []interface{}
	argID := 1
	if name != nil && *name != "" {
		setClauses = append(setClauses, fmt.Sprintf("name = $%d", argID))
		args = append(args, *name)
		argID++
	}
	if avatar != nil {
		setClauses = append(setClauses, fmt.Sprintf("avatar = $%d", argID))
		args = append(args, *avatar)
		argID++
	}
	if len(setClauses) == 0 {
		return s.PublicUser(ctx, identity.ID)
	}
	args = append(args, identity.ID)

	query := fmt.Sprintf(`
		UPDATE users SET %s WHERE id = $%d
		RETURNING id, name, email, role, avatar, created_at`,
		strings.Join(setClauses, ", "), argID)

	var u auth.User
	err := s.db.QueryRow(ctx, query, args...).Scan(&u.ID, &u.Name, &u.Email, &u.Role, &u.Avatar, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFoundError("user not found", nil)
		}
		return nil, apperror.NewDatabaseError("failed to update user", err)
	}
	resp := auth.NewUserResponse(&u)
	return &resp, nil
}
