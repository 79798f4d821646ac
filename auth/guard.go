package auth

import "github.com/user/eduflow-go/apperror"

// RequireOwner is the single ownership check used by every resource
// mutation: the caller must own the resource or be an admin. Resource
// handlers resolve the owning user id (possibly across several
// relationships) and pass it here instead of re-deriving the comparison.
func RequireOwner(identity *Identity, ownerID string) error {
	if identity == nil {
		return apperror.NewAuthError("authentication required", nil)
	}
	if identity.Role == RoleAdmin {
		return nil
	}
	if identity.ID == ownerID {
		return nil
	}
	return apperror.NewForbiddenError("you do not have permission to modify this resource", nil)
}
