package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/boddenberg/collections-bfa-go/internal/apiclient"
	"github.com/boddenberg/collections-bfa-go/internal/domain"
	"github.com/boddenberg/collections-bfa-go/internal/port"
	"github.com/boddenberg/collections-bfa-go/internal/service"

	"go.uber.org/zap"
)

// Backend is the part of the client factory the HTTP surface uses.
type Backend interface {
	Client() (port.Client, error)
	SwitchMode(mode string, o apiclient.Overrides) (port.Client, error)
	TestConnection(ctx context.Context) error
	Snapshot() domain.ClientSnapshot
}

type contextKey string

const clientKey contextKey = "backendClient"

// BackendClientMiddleware attaches a per-request adapter to the context. The
// adapter shares the factory's transport but carries its own session, seeded
// from the Bearer token when one is sent.
func BackendClientMiddleware(backend Backend, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			base, err := backend.Client()
			if err != nil {
				handleServiceError(w, err, logger)
				return
			}

			token, ok := bearerToken(r)
			if !ok {
				logger.Warn("auth: invalid token format",
					zap.String("path", r.URL.Path),
					zap.String("remote_addr", r.RemoteAddr),
				)
				writeError(w, http.StatusUnauthorized, "invalid authorization header")
				return
			}

			w.Header().Set("X-Backend-Mode", string(base.Mode()))
			ctx := context.WithValue(r.Context(), clientKey, base.WithToken(token))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole rejects requests whose session user has none of roles. It runs
// after BackendClientMiddleware.
func RequireRole(logger *zap.Logger, roles ...domain.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			c := ClientFromContext(r.Context())
			if c == nil {
				writeError(w, http.StatusUnauthorized, "authentication required")
				return
			}
			if _, err := service.NewAuthService(c.Auth(), logger).RequireRole(r.Context(), roles...); err != nil {
				handleServiceError(w, err, logger)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// bearerToken returns the token of an "Authorization: Bearer" header. A
// missing header is not an error; the call then runs without a session.
func bearerToken(r *http.Request) (string, bool) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", true
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", false
	}
	return strings.TrimSpace(parts[1]), true
}

// ClientFromContext returns the adapter attached by BackendClientMiddleware.
func ClientFromContext(ctx context.Context) port.Client {
	c, _ := ctx.Value(clientKey).(port.Client)
	return c
}
