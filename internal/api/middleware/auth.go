package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/leitner/internal/api/shared"
	"github.com/phrazzld/leitner/internal/service/auth"
)

type claimsKey struct{}

// AuthMiddleware provides bearer token authentication for routes.
type AuthMiddleware struct {
	tokens auth.TokenService
}

// NewAuthMiddleware creates a new AuthMiddleware with the given dependencies.
func NewAuthMiddleware(tokens auth.TokenService) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens}
}

// Authenticate validates the token in the Authorization header and stores
// its claims in the request context.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Authorization header required")
			return
		}

		scheme, token, ok := strings.Cut(authHeader, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid authorization format")
			return
		}

		claims, err := m.tokens.ValidateToken(r.Context(), token)
		if err != nil {
			switch {
			case errors.Is(err, auth.ErrExpiredToken):
				shared.RespondWithError(w, r, http.StatusUnauthorized, "Token expired")
			case errors.Is(err, auth.ErrInvalidToken),
				errors.Is(err, auth.ErrTokenNotYetValid),
				errors.Is(err, auth.ErrMissingToken):
				shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid token")
			default:
				shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
					"Authentication error", err)
			}
			return
		}

		ctx := context.WithValue(r.Context(), claimsKey{}, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireDeckAccess rejects requests whose token does not cover the deck
// named by the route parameter param. It must be mounted inside the route
// that declares param and after Authenticate.
func RequireDeckAccess(param string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := GetClaims(r)
			if !ok {
				shared.RespondWithError(w, r, http.StatusUnauthorized, "Authorization required")
				return
			}
			if !claims.CanAccess(chi.URLParam(r, param)) {
				shared.RespondWithError(w, r, http.StatusForbidden, "Token does not grant access to this deck")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// GetClaims extracts the token claims from the request context.
func GetClaims(r *http.Request) (*auth.Claims, bool) {
	claims, ok := r.Context().Value(claimsKey{}).(*auth.Claims)
	return claims, ok
}
