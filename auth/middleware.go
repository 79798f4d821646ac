package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/user/eduflow-go/apperror"
	"github.com/user/eduflow-go/web"
)

// RequireAuth returns the middleware protecting authenticated routes. The
// request walks a fixed pipeline: extract the bearer token, verify it, load
// the subject from the store, attach the identity to the context. Any step
// failing ends the request with a 401 before the handler runs.
//
// Verification failures (bad signature, expired) share one generic message
// so the failure mode does not leak. A verified token whose subject no
// longer exists is rejected with a distinct message: deleting a user row is
// the system's only revocation mechanism, and the more informative response
// is deliberate.
func RequireAuth(tokens *TokenService, store UserStore, respond *web.Responder) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				respond.Error(w, r, apperror.NewAuthError("you are not logged in", nil))
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				respond.Error(w, r, apperror.NewAuthError("authorization header format must be Bearer {token}", nil))
				return
			}

			userID, err := tokens.Verify(parts[1], TokenTypeAccess)
			if err != nil {
				respond.Error(w, r, apperror.NewAuthError("invalid or expired token", err))
				return
			}

			user, err := store.UserByID(r.Context(), userID)
			if err != nil {
				if errors.Is(err, ErrUserNotFound) {
					respond.Error(w, r, apperror.NewAuthError("the user belonging to this token no longer exists", nil))
					return
				}
				respond.Error(w, r, apperror.NewDatabaseError("failed to load user", err))
				return
			}

			identity := &Identity{ID: user.ID, Role: user.Role}
			next.ServeHTTP(w, r.WithContext(NewContextWithIdentity(r.Context(), identity)))
		})
	}
}
