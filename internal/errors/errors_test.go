package errors

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindStatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    *Error
		status int
	}{
		{"conflict", Conflict("dup"), http.StatusConflict},
		{"not found", NotFound("missing"), http.StatusNotFound},
		{"invalid credentials", InvalidCredentials(), http.StatusUnauthorized},
		{"invalid token", InvalidToken("bad"), http.StatusUnauthorized},
		{"insufficient scope", InsufficientScope(), http.StatusForbidden},
		{"upstream", Upstream("boom"), http.StatusBadGateway},
		{"storage", Storage("db"), http.StatusInternalServerError},
		{"bad request", BadRequest("nope"), http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, tt.err.StatusCode)
		})
	}
}

func TestPredicates(t *testing.T) {
	assert.True(t, IsConflict(Conflict("dup")))
	assert.False(t, IsConflict(NotFound("missing")))

	// predicates see through wrapping
	wrapped := fmt.Errorf("saving: %w", NotFound("missing"))
	assert.True(t, IsNotFound(wrapped))

	assert.False(t, IsNotFound(fmt.Errorf("plain")))
	assert.True(t, IsInvalidCredentials(InvalidCredentials()))
	assert.True(t, IsUpstream(Upstream("x")))
	assert.True(t, IsInsufficientScope(InsufficientScope()))
	assert.True(t, IsInvalidToken(InvalidToken("x")))
}

func TestWrite(t *testing.T) {
	t.Run("classified error uses its status", func(t *testing.T) {
		rr := httptest.NewRecorder()
		Write(rr, Conflict("Email already registered"))
		assert.Equal(t, http.StatusConflict, rr.Code)
		assert.Contains(t, rr.Body.String(), "Email already registered")
	})

	t.Run("unclassified error defaults to 500", func(t *testing.T) {
		rr := httptest.NewRecorder()
		Write(rr, fmt.Errorf("boom"))
		assert.Equal(t, http.StatusInternalServerError, rr.Code)
	})
}

func TestInvalidCredentialsMessageIsFixed(t *testing.T) {
	// unknown email and wrong password must yield byte-identical errors
	assert.Equal(t, InvalidCredentials().Error(), InvalidCredentials().Error())
	assert.Equal(t, "Invalid credentials", InvalidCredentials().Error())
}
