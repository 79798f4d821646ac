package auth

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/user/eduflow-go/apperror"
	"github.com/user/eduflow-go/web"
)

// refreshCookieName is the cookie carrying the refresh token.
const refreshCookieName = "refreshToken"

// Handlers exposes the auth endpoints over HTTP.
type Handlers struct {
	service *Service
	respond *web.Responder
	// cookieSecure gates the Secure flag on the refresh cookie; true in
	// production.
	cookieSecure bool
}

// NewHandlers creates the auth Handlers.
func NewHandlers(service *Service, respond *web.Responder, cookieSecure bool) *Handlers {
	return &Handlers{
		service:      service,
		respond:      respond,
		cookieSecure: cookieSecure,
	}
}

// HandleSignup godoc
// @Summary User registration
// @Description Registers a new user, sets the refresh token cookie and returns an access token.
// @Tags Auth
// @Accept json
// @Produce json
// @Param signupBody body auth.SignupRequest true "User registration details"
// @Success 201 {object} auth.AuthResponse "User created"
// @Failure 400 {object} apperror.ErrorResponse "Missing or invalid fields"
// @Failure 409 {object} apperror.ErrorResponse "Email already exists"
// @Failure 500 {object} apperror.ErrorResponse "Internal server error"
// @Router /auth/signup [post]
func (h *Handlers) HandleSignup() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SignupRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.respond.Error(w, r, apperror.NewBadRequestError("invalid request body", err))
			return
		}
		defer r.Body.Close()

		user, pair, err := h.service.Signup(r.Context(), req)
		if err != nil {
			h.respond.Error(w, r, err)
			return
		}

		h.setRefreshCookie(w, pair.RefreshToken)
		h.respond.JSON(w, http.StatusCreated, newAuthResponse(user, pair))
	}
}

// HandleLogin godoc
// @Summary User login
// @Description Logs in an existing user, sets the refresh token cookie and returns an access token.
// @Tags Auth
// @Accept json
// @Produce json
// @Param loginBody body auth.LoginRequest true "User credentials"
// @Success 200 {object} auth.AuthResponse "Login successful"
// @Failure 400 {object} apperror.ErrorResponse "Missing fields"
// @Failure 401 {object} apperror.ErrorResponse "Incorrect email or password"
// @Failure 500 {object} apperror.ErrorResponse "Internal server error"
// @Router /auth/login [post]
func (h *Handlers) HandleLogin() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.respond.Error(w, r, apperror.NewBadRequestError("invalid request body", err))
			return
		}
		defer r.Body.Close()

		user, pair, err := h.service.Login(r.Context(), req)
		if err != nil {
			h.respond.Error(w, r, err)
			return
		}

		h.setRefreshCookie(w, pair.RefreshToken)
		h.respond.JSON(w, http.StatusOK, newAuthResponse(user, pair))
	}
}

// HandleLogout godoc
// @Summary User logout
// @Description Clears the refresh token cookie. Requires an authenticated session and is idempotent.
// @Tags Auth
// @Produce json
// @Success 200 {object} map[string]string "Logged out"
// @Failure 401 {object} apperror.ErrorResponse "Not authenticated"
// @Security BearerAuth
// @Router /auth/logout [post]
func (h *Handlers) HandleLogout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := IdentityFromContext(r.Context()); !ok {
			h.respond.Error(w, r, apperror.NewAuthError("you are not logged in", nil))
			return
		}
		h.clearRefreshCookie(w)
		h.respond.JSON(w, http.StatusOK, map[string]string{
			"status":  "success",
			"message": "logged out",
		})
	}
}

// HandleMe godoc
// @Summary Current user
// @Description Returns the public fields of the authenticated user.
// @Tags Auth
// @Produce json
// @Success 200 {object} auth.MeResponse "Current user"
// @Failure 401 {object} apperror.ErrorResponse "Not authenticated"
// @Security BearerAuth
// @Router /auth/me [get]
func (h *Handlers) HandleMe() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, ok := IdentityFromContext(r.Context())
		if !ok {
			h.respond.Error(w, r, apperror.NewAuthError("you are not logged in", nil))
			return
		}

		// Re-fetch by id so the response reflects the current row, not the
		// token's snapshot.
		user, err := h.service.UserByID(r.Context(), identity.ID)
		if err != nil {
			h.respond.Error(w, r, err)
			return
		}
		h.respond.JSON(w, http.StatusOK, MeResponse{User: NewUserResponse(user)})
	}
}

// HandleRefresh godoc
// @Summary Refresh access token
// @Description Exchanges a valid refresh token (cookie or body) for a new access token.
// @Tags Auth
// @Accept json
// @Produce json
// @Param refreshBody body auth.RefreshRequest false "Refresh token when no cookie is present"
// @Success 200 {object} auth.RefreshResponse "Token refreshed"
// @Failure 401 {object} apperror.ErrorResponse "Invalid or expired refresh token"
// @Router /auth/refresh [post]
func (h *Handlers) HandleRefresh() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		refreshToken := ""
		if cookie, err := r.Cookie(refreshCookieName); err == nil {
			refreshToken = cookie.Value
		}
		if refreshToken == "" {
			var req RefreshRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err == nil {
				refreshToken = req.RefreshToken
			}
			defer r.Body.Close()
		}
		if refreshToken == "" {
			h.respond.Error(w, r, apperror.NewAuthError("refresh token is missing", nil))
			return
		}

		pair, err := h.service.Refresh(r.Context(), refreshToken)
		if err != nil {
			h.respond.Error(w, r, err)
			return
		}
		h.respond.JSON(w, http.StatusOK, RefreshResponse{
			Status:      "success",
			AccessToken: pair.AccessToken,
			ExpiresAt:   pair.ExpiresAt,
		})
	}
}

func newAuthResponse(user *User, pair *TokenPair) AuthResponse {
	resp := AuthResponse{
		Status:      "success",
		AccessToken: pair.AccessToken,
	}
	resp.Data.User = NewUserResponse(user)
	return resp
}

// setRefreshCookie delivers the refresh token as an HTTP-only cookie so
// scripts never see it. SameSite=Strict keeps it off cross-site requests.
func (h *Handlers) setRefreshCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.service.Tokens().RefreshTTL() / time.Second),
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteStrictMode,
	})
}

// clearRefreshCookie expires the refresh cookie immediately.
func (h *Handlers) clearRefreshCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteStrictMode,
	})
}
