package middleware

import (
	"context"
	"net/http"
	"strings"

	internal_errors "github.com/quest-maker/auth-service/internal/errors"
	"github.com/quest-maker/auth-service/internal/token"
)

// Key to store the caller's principal in the request context
type key int

const principalKey key = 0

// Principal is the authenticated caller: the decoded claims plus the raw
// token, which the update flow forwards to the user-profile service.
type Principal struct {
	Claims token.Claims
	Token  string
}

// Auth holds dependencies for authentication middleware
type Auth struct {
	tokens token.Service
}

func NewAuth(tokens token.Service) *Auth {
	return &Auth{tokens: tokens}
}

// RequireScope returns middleware that rejects requests without a valid
// bearer token carrying the given capability, before any handler runs.
func (a *Auth) RequireScope(capability string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, found := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !found || raw == "" {
				internal_errors.Write(w, internal_errors.InvalidToken("Missing bearer token"))
				return
			}

			claims, err := a.tokens.Validate(raw)
			if err != nil {
				internal_errors.Write(w, err)
				return
			}

			if !claims.HasScope(capability) {
				internal_errors.Write(w, internal_errors.InsufficientScope())
				return
			}

			ctx := NewContext(r.Context(), &Principal{Claims: claims, Token: raw})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// NewContext returns a copy of ctx carrying the given principal.
func NewContext(ctx context.Context, principal *Principal) context.Context {
	return context.WithValue(ctx, principalKey, principal)
}

// PrincipalFromContext retrieves the authenticated caller from the context.
func PrincipalFromContext(r *http.Request) *Principal {
	principal, ok := r.Context().Value(principalKey).(*Principal)
	if !ok {
		return nil
	}
	return principal
}
