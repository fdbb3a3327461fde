package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusErrorClassifiesAuthRejection(t *testing.T) {
	assert.Equal(t, TypeUnauthorized, StatusError(http.StatusUnauthorized, "").Type)
	assert.Equal(t, TypeUnauthorized, StatusError(http.StatusForbidden, "nope").Type)
	assert.Equal(t, TypeStatus, StatusError(http.StatusInternalServerError, "").Type)
	assert.Equal(t, "Internal Server Error", StatusError(http.StatusInternalServerError, "").Message)
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		err  *Error
		want int
	}{
		{ValidationError("bad"), http.StatusBadRequest},
		{UnauthorizedError("who"), http.StatusUnauthorized},
		{NotFoundError("gone"), http.StatusNotFound},
		{ConflictError("dup"), http.StatusConflict},
		{InternalError("boom", nil), http.StatusInternalServerError},
		{StatusError(http.StatusTeapot, ""), http.StatusTeapot},
		{TransportError("dial", nil), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(string(tt.err.Type), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.HTTPStatus())
		})
	}
}

func TestTypeOfFollowsWrapChain(t *testing.T) {
	cause := errors.New("connection refused")
	err := fmt.Errorf("fetch projects: %w", TransportError("request failed", cause))

	assert.Equal(t, TypeTransport, TypeOf(err))
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, TypeInternal, TypeOf(errors.New("plain")))
	assert.False(t, IsUnauthorized(nil))
	assert.True(t, IsUnauthorized(fmt.Errorf("wrapped: %w", StatusError(http.StatusUnauthorized, ""))))
}

func TestAsErrorWrapsUnknown(t *testing.T) {
	plain := errors.New("disk full")
	converted := AsError(plain)
	assert.Equal(t, TypeInternal, converted.Type)
	assert.ErrorIs(t, converted, plain)

	typed := ConflictError("exists").WithField("email", "a@x.com")
	assert.Same(t, typed, AsError(typed))
	assert.Equal(t, "a@x.com", typed.Context["email"])
	assert.Equal(t, map[string]string{"message": "exists"}, typed.ToResponse())
}
