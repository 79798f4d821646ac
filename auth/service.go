package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/user/eduflow-go/apperror"
	"github.com/user/eduflow-go/config"
)

// credentialFailureMessage is the single message returned for an unknown
// email or a wrong password. Not distinguishing the two prevents user
// enumeration through the login endpoint.
const credentialFailureMessage = "Incorrect email or password"

// Service orchestrates the password hasher, the token service and the user
// store to implement signup, login, refresh and identity lookup.
type Service struct {
	store      UserStore
	tokens     *TokenService
	bcryptCost int
	validate   *validator.Validate
}

// NewService creates the auth Service.
func NewService(store UserStore, tokens *TokenService, cfg config.AuthConfig) *Service {
	return &Service{
		store:      store,
		tokens:     tokens,
		bcryptCost: cfg.BcryptCost,
		validate:   validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Tokens exposes the token service for the handlers (cookie lifetime).
func (s *Service) Tokens() *TokenService {
	return s.tokens
}

// Signup validates the request, hashes the password, creates the user and
// issues a token pair. A duplicate email yields a 409 conflict.
func (s *Service) Signup(ctx context.Context, req SignupRequest) (*User, *TokenPair, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, nil, apperror.NewValidationError("name, email and password are required", err)
	}

	hashed, err := HashPassword(req.Password, s.bcryptCost)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.store.CreateUser(ctx, &User{
		Name:           req.Name,
		Email:          req.Email,
		HashedPassword: hashed,
		Role:           RoleStudent,
	})
	if err != nil {
		if errors.Is(err, ErrEmailTaken) {
			return nil, nil, apperror.NewConflictError("email already exists", nil)
		}
		return nil, nil, apperror.NewDatabaseError("failed to create user", err)
	}

	pair, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, nil, apperror.NewInternalError("failed to issue tokens", err)
	}
	return user, pair, nil
}

// Login verifies the credentials and issues a token pair. Unknown email and
// wrong password produce the identical 401.
func (s *Service) Login(ctx context.Context, req LoginRequest) (*User, *TokenPair, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, nil, apperror.NewValidationError("email and password are required", err)
	}

	user, err := s.store.UserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, nil, apperror.NewAuthError(credentialFailureMessage, nil)
		}
		return nil, nil, apperror.NewDatabaseError("failed to look up user", err)
	}

	// An empty hash marks an account without local credentials; it must not
	// match any password.
	if user.HashedPassword == "" || !CheckPassword(req.Password, user.HashedPassword) {
		return nil, nil, apperror.NewAuthError(credentialFailureMessage, nil)
	}

	pair, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, nil, apperror.NewInternalError("failed to issue tokens", err)
	}
	return user, pair, nil
}

// Refresh exchanges a valid refresh token for a new access token. The
// refresh token is kept as-is; rotation is out of scope. The subject must
// still exist, so deleting a user also ends their refresh capability.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	userID, err := s.tokens.Verify(refreshToken, TokenTypeRefresh)
	if err != nil {
		return nil, apperror.NewAuthError("invalid or expired refresh token", err)
	}

	if _, err := s.store.UserByID(ctx, userID); err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, apperror.NewAuthError("the user belonging to this token no longer exists", nil)
		}
		return nil, apperror.NewDatabaseError("failed to look up user", err)
	}

	pair, err := s.tokens.Issue(userID)
	if err != nil {
		return nil, apperror.NewInternalError("failed to issue tokens", err)
	}
	// Preserve the caller's refresh token instead of the freshly minted one.
	pair.RefreshToken = refreshToken
	return pair, nil
}

// UserByID fetches a user for the authenticated identity. The lookup key is
// the id, matching the token subject.
func (s *Service) UserByID(ctx context.Context, id string) (*User, error) {
	user, err := s.store.UserByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, apperror.NewAuthError("the user belonging to this token no longer exists", nil)
		}
		return nil, apperror.NewDatabaseError("failed to look up user", err)
	}
	return user, nil
}
