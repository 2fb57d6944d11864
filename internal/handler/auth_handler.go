package handler

import (
	"net/http"

	"github.com/boddenberg/collections-bfa-go/internal/domain"
	"github.com/boddenberg/collections-bfa-go/internal/service"

	"go.uber.org/zap"
)

// ============================================================
// Authentication
// ============================================================

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

func authLoginHandler(logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/auth/login")
		defer span.End()

		var req service.LoginRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		c := ClientFromContext(ctx)
		tokens, err := service.NewAuthService(c.Auth(), logger).Login(ctx, req)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		writeJSON(w, http.StatusOK, domain.OK(tokens))
	}
}

func authRefreshHandler(logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/auth/refresh")
		defer span.End()

		var req refreshRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		if req.RefreshToken == "" {
			writeError(w, http.StatusBadRequest, "refresh_token is required")
			return
		}

		token, _ := bearerToken(r)
		c := ClientFromContext(ctx).WithSession(token, req.RefreshToken)
		tokens, err := service.NewAuthService(c.Auth(), logger).Refresh(ctx)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		writeJSON(w, http.StatusOK, domain.OK(tokens))
	}
}

func authLogoutHandler(logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/auth/logout")
		defer span.End()

		c := ClientFromContext(ctx)
		if err := service.NewAuthService(c.Auth(), logger).Logout(ctx); err != nil {
			handleServiceError(w, err, logger)
			return
		}

		writeJSON(w, http.StatusOK, domain.Done())
	}
}

func authMeHandler(logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/auth/me")
		defer span.End()

		c := ClientFromContext(ctx)
		user, err := service.NewAuthService(c.Auth(), logger).Me(ctx)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		writeJSON(w, http.StatusOK, domain.OK(user))
	}
}
