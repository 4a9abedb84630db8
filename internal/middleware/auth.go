package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/0xHy0kR1/LF-backend/internal/auth"
	"github.com/0xHy0kR1/LF-backend/internal/model"
	"github.com/0xHy0kR1/LF-backend/internal/service"
)

// Authenticator resolves a bearer token to a live user. Implemented by *service.UserService.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*model.User, error)
}

// AuthConfig holds configuration for the auth middleware.
type AuthConfig struct {
	Logger        *slog.Logger
	Authenticator Authenticator
}

// RequireAuth returns a middleware that authenticates requests with an
// "Authorization: Bearer <token>" header and injects the user id into the context.
// Missing, invalid and expired tokens, and tokens of deleted users, get 401.
func RequireAuth(cfg AuthConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractBearerToken(r)
			if token == "" {
				logAuthFailure(cfg.Logger, r, "missing_token")
				writeError(w, http.StatusUnauthorized, "UNAUTHENTICATED", "Access denied. No authentication token provided.")
				return
			}

			user, err := cfg.Authenticator.Authenticate(r.Context(), token)
			switch {
			case err == nil:
			case errors.Is(err, service.ErrUnauthenticated):
				logAuthFailure(cfg.Logger, r, "invalid_token")
				writeError(w, http.StatusUnauthorized, "UNAUTHENTICATED", "Invalid authentication token")
				return
			case errors.Is(err, service.ErrUserNotFound):
				logAuthFailure(cfg.Logger, r, "unknown_user")
				writeError(w, http.StatusUnauthorized, "UNAUTHENTICATED", "Invalid authentication token")
				return
			default:
				cfg.Logger.Error("authentication error",
					slog.String("error", err.Error()),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Authentication failed")
				return
			}

			reportUserID(r, user.ID)

			ctx := auth.ContextWithUserID(r.Context(), user.ID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// extractBearerToken returns the token of an "Authorization: Bearer" header.
func extractBearerToken(r *http.Request) string {
	scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

func logAuthFailure(logger *slog.Logger, r *http.Request, reason string) {
	logger.Warn("authentication failed",
		slog.String("reason", reason),
		slog.String("ip", getClientIP(r)),
		slog.String("endpoint", r.Method+" "+r.URL.Path),
		slog.String("request_id", GetRequestID(r.Context())),
	)
}
