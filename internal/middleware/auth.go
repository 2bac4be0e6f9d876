package middleware

import (
	"context"
	"net/http"
	"strings"

	"kitchen-api/internal/domain"

	"go.uber.org/zap"
)

type contextKey string

const principalKey contextKey = "principal"

// TokenVerifier turns a bearer token into a principal. Satisfied by the
// auth service.
type TokenVerifier interface {
	VerifyToken(tokenString string) (*domain.Principal, error)
}

// AuthMiddleware validates bearer tokens and attaches the principal to the
// request context. Every token failure produces the same 401 response; the
// caller learns nothing about whether the token was malformed, expired or
// forged.
func AuthMiddleware(verifier TokenVerifier, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				logger.Debug("Missing authorization header")
				RespondWithError(w, http.StatusUnauthorized, "missing authorization header")
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				logger.Debug("Invalid authorization header format")
				RespondWithError(w, http.StatusUnauthorized, "invalid authorization header format")
				return
			}

			principal, err := verifier.VerifyToken(parts[1])
			if err != nil {
				logger.Debug("Token validation failed", zap.Error(err))
				RespondWithError(w, http.StatusUnauthorized, "invalid token")
				return
			}

			logger.Debug("User authenticated",
				zap.String("user_id", principal.ID.String()),
				zap.String("role", principal.Role),
			)

			ctx := context.WithValue(r.Context(), principalKey, principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetPrincipal extracts the authenticated principal from the request context
func GetPrincipal(ctx context.Context) (*domain.Principal, bool) {
	principal, ok := ctx.Value(principalKey).(*domain.Principal)
	return principal, ok
}
