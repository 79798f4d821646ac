// Data transfer objects for the auth endpoints. The `validate` tags are
// enforced with go-playground/validator before any business logic runs.
package auth

import "time"

// SignupRequest represents the registration request payload.
type SignupRequest struct {
	Name     string `json:"name" validate:"required" example:"Ada Lovelace"`
	Email    string `json:"email" validate:"required,email" example:"ada@example.com"`
	Password string `json:"password" validate:"required,min=8" example:"strongpassword123"`
}

// LoginRequest represents the login request payload.
type LoginRequest struct {
	Email    string `json:"email" validate:"required" example:"ada@example.com"`
	Password string `json:"password" validate:"required" example:"strongpassword123"`
}

// RefreshRequest carries a refresh token when the client cannot use the
// cookie (e.g. non-browser clients).
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// UserResponse is the public view of a user. The password hash has no field
// here at all.
type UserResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	Avatar    string    `json:"avatar"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewUserResponse maps a User row onto its public representation.
func NewUserResponse(u *User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		Avatar:    u.Avatar,
		CreatedAt: u.CreatedAt,
	}
}

// AuthResponse is the body returned by signup and login: the access token
// plus the public user, with the refresh token delivered as a cookie.
type AuthResponse struct {
	Status      string `json:"status" example:"success"`
	AccessToken string `json:"accessToken"`
	Data        struct {
		User UserResponse `json:"user"`
	} `json:"data"`
}

// RefreshResponse is the body returned by the refresh endpoint.
type RefreshResponse struct {
	Status      string `json:"status" example:"success"`
	AccessToken string `json:"accessToken"`
	ExpiresAt   int64  `json:"expiresAt"`
}

// MeResponse wraps the public user for GET /auth/me.
type MeResponse struct {
	User UserResponse `json:"user"`
}
