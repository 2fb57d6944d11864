// Package service holds the consumer flows the HTTP surface exposes. Every
// flow talks to the backend only through the port interfaces.
package service

import (
	"context"
	"fmt"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/boddenberg/collections-bfa-go/internal/domain"
	"github.com/boddenberg/collections-bfa-go/internal/port"
)

var authTracer = otel.Tracer("service/auth")

// LoginRequest is the body of POST /v1/auth/login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthService runs login, refresh, logout and session lookups.
type AuthService struct {
	auth   port.AuthAPI
	logger *zap.Logger
}

func NewAuthService(auth port.AuthAPI, logger *zap.Logger) *AuthService {
	return &AuthService{auth: auth, logger: logger}
}

func (s *AuthService) Login(ctx context.Context, req LoginRequest) (domain.AuthTokens, error) {
	ctx, span := authTracer.Start(ctx, "AuthService.Login")
	defer span.End()

	ve := &domain.ValidationError{Message: "Invalid credentials payload"}
	if err := collectFieldErrors(req, ve); err != nil {
		return domain.AuthTokens{}, err
	}
	if err := failed(ve); err != nil {
		return domain.AuthTokens{}, err
	}

	resp, err := s.auth.Login(ctx, req.Email, req.Password)
	if err != nil {
		s.logger.Warn("login failed", zap.String("email", req.Email), zap.Error(err))
		return domain.AuthTokens{}, err
	}
	span.SetAttributes(attribute.String("user.id", resp.Data.User.ID), attribute.String("user.role", string(resp.Data.User.Role)))
	s.logger.Info("login successful", zap.String("user_id", resp.Data.User.ID), zap.String("role", string(resp.Data.User.Role)))
	return resp.Data, nil
}

// Refresh exchanges the refresh token held by the session for new tokens.
func (s *AuthService) Refresh(ctx context.Context) (domain.AuthTokens, error) {
	ctx, span := authTracer.Start(ctx, "AuthService.Refresh")
	defer span.End()

	resp, err := s.auth.RefreshToken(ctx)
	if err != nil {
		s.logger.Warn("token refresh failed", zap.Error(err))
		return domain.AuthTokens{}, err
	}
	return resp.Data, nil
}

// Logout ends the session. The local session is cleared by the adapter even
// when the backend call fails.
func (s *AuthService) Logout(ctx context.Context) error {
	ctx, span := authTracer.Start(ctx, "AuthService.Logout")
	defer span.End()

	if err := s.auth.Logout(ctx); err != nil {
		s.logger.Warn("remote logout failed", zap.Error(err))
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}

// Me returns the user of the current session.
func (s *AuthService) Me(ctx context.Context) (domain.User, error) {
	ctx, span := authTracer.Start(ctx, "AuthService.Me")
	defer span.End()

	if !s.auth.IsAuthenticated() {
		return domain.User{}, domain.Unauthenticated()
	}
	resp, err := s.auth.GetCurrentUser(ctx)
	if err != nil {
		return domain.User{}, err
	}
	if !resp.Data.Active() {
		return domain.User{}, &domain.APIError{Status: http.StatusForbidden, Message: "User is deactivated"}
	}
	return resp.Data, nil
}

// RequireRole returns the session user when their role is one of roles.
func (s *AuthService) RequireRole(ctx context.Context, roles ...domain.Role) (domain.User, error) {
	u, err := s.Me(ctx)
	if err != nil {
		return domain.User{}, err
	}
	for _, r := range roles {
		if u.Role == r {
			return u, nil
		}
	}
	s.logger.Warn("role check failed", zap.String("user_id", u.ID), zap.String("role", string(u.Role)))
	return domain.User{}, &domain.APIError{Status: http.StatusForbidden, Message: "Insufficient role"}
}
