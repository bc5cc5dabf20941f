package middleware

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/mspcompass/compass-engine/pkg/auth"
	"github.com/mspcompass/compass-engine/pkg/models"
)

// RequireAuth returns middleware that verifies the bearer token and
// attaches the caller's identity to the request context.
func RequireAuth(tokens *auth.TokenIssuer, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				writeAuthError(w, http.StatusUnauthorized, "missing_token", "Authorization header with bearer token is required")
				return
			}

			identity, err := tokens.Parse(token)
			if err != nil {
				logger.Debug("Rejected token", zap.Error(err))
				writeAuthError(w, http.StatusUnauthorized, "invalid_token", "Token is invalid or expired")
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.WithIdentity(r.Context(), identity)))
		})
	}
}

// RequireCapability returns middleware that rejects callers whose role
// does not grant the capability. Must run after RequireAuth.
func RequireCapability(capability models.Capability) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := auth.IdentityFrom(r.Context())
			if !ok {
				writeAuthError(w, http.StatusUnauthorized, "missing_identity", "Authentication required")
				return
			}
			if !models.RoleHasCapability(identity.Role, capability) {
				writeAuthError(w, http.StatusForbidden, "forbidden", "Your role does not permit this action")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func writeAuthError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(`{"error":"` + code + `","message":"` + message + `"}`))
}
