package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quest-maker/auth-service/internal/token"
)

func TestRequireScope(t *testing.T) {
	tokens := token.New("test-key", time.Minute)
	mw := NewAuth(tokens).RequireScope(token.ScopeAccessToken)

	var gotPrincipal *Principal
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPrincipal = PrincipalFromContext(r)
		w.WriteHeader(http.StatusOK)
	})

	t.Run("valid token with scope passes", func(t *testing.T) {
		gotPrincipal = nil
		issued, err := tokens.Issue("651a0a4fb4e9e4c3c1d2e3f4", token.ScopeAccessToken)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/auth/", nil)
		req.Header.Set("Authorization", "Bearer "+issued)
		rr := httptest.NewRecorder()

		mw(next).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		require.NotNil(t, gotPrincipal)
		assert.Equal(t, "651a0a4fb4e9e4c3c1d2e3f4", gotPrincipal.Claims.Subject)
		assert.Equal(t, issued, gotPrincipal.Token)
	})

	t.Run("missing token is 401", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/auth/", nil)
		rr := httptest.NewRecorder()

		mw(next).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("garbage token is 401", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/auth/", nil)
		req.Header.Set("Authorization", "Bearer not.a.token")
		rr := httptest.NewRecorder()

		mw(next).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("expired token is 401", func(t *testing.T) {
		expired, err := token.New("test-key", -time.Minute).Issue("sub", token.ScopeAccessToken)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/auth/", nil)
		req.Header.Set("Authorization", "Bearer "+expired)
		rr := httptest.NewRecorder()

		mw(next).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("valid token without the capability is 403", func(t *testing.T) {
		gotPrincipal = nil
		issued, err := tokens.Issue("sub", "some_other_scope")
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/auth/", nil)
		req.Header.Set("Authorization", "Bearer "+issued)
		rr := httptest.NewRecorder()

		mw(next).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusForbidden, rr.Code)
		assert.Nil(t, gotPrincipal, "handler must not run")
	})
}

func TestRequestID(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	t.Run("assigns an id when absent", func(t *testing.T) {
		rr := httptest.NewRecorder()
		RequestID(next).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.NotEmpty(t, rr.Header().Get("X-Request-Id"))
	})

	t.Run("keeps the caller's id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Request-Id", "given-id")
		rr := httptest.NewRecorder()
		RequestID(next).ServeHTTP(rr, req)
		assert.Equal(t, "given-id", rr.Header().Get("X-Request-Id"))
	})
}
