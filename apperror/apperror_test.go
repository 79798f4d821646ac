package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusCodes(t *testing.T) {
	tests := []struct {
		err  *AppError
		want int
	}{
		{NewAuthError("no session", nil), http.StatusUnauthorized},
		{NewForbiddenError("not yours", nil), http.StatusForbidden},
		{NewNotFoundError("gone", nil), http.StatusNotFound},
		{NewValidationError("bad input", nil), http.StatusBadRequest},
		{NewBadRequestError("bad body", nil), http.StatusBadRequest},
		{NewConflictError("duplicate", nil), http.StatusConflict},
		{NewDatabaseError("db down", nil), http.StatusInternalServerError},
		{NewInternalError("boom", nil), http.StatusInternalServerError},
		{NewConfigError("bad env", nil), http.StatusInternalServerError},
		{NewMigrationError("bad schema", nil), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.err.StatusCode(), tt.err.Message)
	}
}

func TestErrorAndUnwrap(t *testing.T) {
	underlying := errors.New("connection refused")
	appErr := NewDatabaseError("failed to query users", underlying)

	assert.Equal(t, "failed to query users: connection refused", appErr.Error())
	assert.ErrorIs(t, appErr, underlying)

	bare := NewNotFoundError("user not found", nil)
	assert.Equal(t, "user not found", bare.Error())
}

func TestFromErrorUnwrapsWrappedChain(t *testing.T) {
	appErr := NewAuthError("no session", nil)
	wrapped := fmt.Errorf("handling request: %w", appErr)

	got, ok := FromError(wrapped)
	require.True(t, ok)
	assert.Equal(t, AuthError, got.Type)

	_, ok = FromError(errors.New("plain"))
	assert.False(t, ok)

	_, ok = FromError(nil)
	assert.False(t, ok)
}

func TestToResponseStackGating(t *testing.T) {
	appErr := NewDatabaseError("failed to query users", errors.New("connection refused"))

	withStack := appErr.ToResponse(true)
	assert.Equal(t, "failed to query users", withStack.Message)
	assert.Equal(t, "connection refused", withStack.Stack)

	withoutStack := appErr.ToResponse(false)
	assert.Empty(t, withoutStack.Stack)
}

func TestTypePredicates(t *testing.T) {
	assert.True(t, IsNotFound(NewNotFoundError("x", nil)))
	assert.True(t, IsAuthError(NewAuthError("x", nil)))
	assert.True(t, IsForbidden(NewForbiddenError("x", nil)))
	assert.True(t, IsValidationError(NewValidationError("x", nil)))
	assert.True(t, IsConflict(NewConflictError("x", nil)))

	assert.False(t, IsNotFound(NewAuthError("x", nil)))
	assert.False(t, IsAuthError(errors.New("plain")))
}
