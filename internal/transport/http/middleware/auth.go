package middleware

import (
	"context"
	"net/http"
	"strings"

	jwtinfra "github.com/dealer-api/internal/infrastructure/jwt"
)

type contextKey string

const ClaimsKey contextKey = "claims"

const bearerPrefix = "Bearer "

// Auth returns middleware that validates the Bearer JWT and injects claims
// into context. Any purpose on the token is accepted.
func Auth(provider *jwtinfra.Provider) func(http.Handler) http.Handler {
	return RequirePurpose(provider, "")
}

// RequirePurpose returns middleware gating a route on a purpose-scoped
// token. A missing or malformed authorization header is 401; a token that
// fails signature or expiry checks, or whose purpose does not exactly match
// a required one, is 403. On success the decoded claims are attached to the
// request context.
func RequirePurpose(provider *jwtinfra.Provider, purpose string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, bearerPrefix) {
				writeFailure(w, http.StatusUnauthorized, "Missing or invalid token")
				return
			}
			claims, err := provider.Verify(strings.TrimPrefix(authHeader, bearerPrefix))
			if err != nil {
				writeFailure(w, http.StatusForbidden, "Token verification failed")
				return
			}
			if purpose != "" && claims.Purpose != purpose {
				writeFailure(w, http.StatusForbidden, "Invalid token purpose")
				return
			}
			ctx := context.WithValue(r.Context(), ClaimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ClaimsFromContext extracts JWT claims from the request context.
func ClaimsFromContext(ctx context.Context) (*jwtinfra.Claims, bool) {
	c, ok := ctx.Value(ClaimsKey).(*jwtinfra.Claims)
	return c, ok
}
