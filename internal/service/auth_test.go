package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/boddenberg/collections-bfa-go/internal/domain"
	"github.com/boddenberg/collections-bfa-go/internal/service"

	"go.uber.org/zap"
)

func TestAuthService_LoginValidatesPayload(t *testing.T) {
	auth := &mockAuth{}
	svc := service.NewAuthService(auth, zap.NewNop())

	_, err := svc.Login(context.Background(), service.LoginRequest{Email: "nope", Password: ""})
	f := fieldsOf(t, err)
	if f["email"] == nil || f["password"] == nil {
		t.Errorf("expected email and password to fail, got %v", f)
	}
	if auth.logins != 0 {
		t.Error("expected no backend call")
	}
}

func TestAuthService_Login(t *testing.T) {
	auth := &mockAuth{tokens: domain.AuthTokens{AccessToken: "a", RefreshToken: "r", User: domain.User{ID: "u1", Role: domain.RoleAdmin}}}
	svc := service.NewAuthService(auth, zap.NewNop())

	tokens, err := svc.Login(context.Background(), service.LoginRequest{Email: "admin@example.com", Password: "secret"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if tokens.AccessToken != "a" || tokens.User.Email != "admin@example.com" {
		t.Errorf("unexpected tokens %+v", tokens)
	}
}

func TestAuthService_LoginPropagatesInvalidCredentials(t *testing.T) {
	auth := &mockAuth{loginErr: &domain.APIError{Status: 401, Message: "Invalid credentials"}}
	svc := service.NewAuthService(auth, zap.NewNop())

	_, err := svc.Login(context.Background(), service.LoginRequest{Email: "a@example.com", Password: "x"})
	if !domain.IsStatus(err, 401) {
		t.Fatalf("expected 401, got %v", err)
	}
}

func TestAuthService_Me(t *testing.T) {
	svc := service.NewAuthService(&mockAuth{}, zap.NewNop())
	if _, err := svc.Me(context.Background()); !domain.IsStatus(err, 401) {
		t.Errorf("expected 401 without session, got %v", err)
	}

	inactive := false
	svc = service.NewAuthService(&mockAuth{authenticated: true, user: domain.User{ID: "u1", IsActive: &inactive}}, zap.NewNop())
	if _, err := svc.Me(context.Background()); !domain.IsStatus(err, 403) {
		t.Errorf("expected 403 for deactivated user, got %v", err)
	}

	svc = service.NewAuthService(&mockAuth{authenticated: true, user: domain.User{ID: "u2"}}, zap.NewNop())
	u, err := svc.Me(context.Background())
	if err != nil || u.ID != "u2" {
		t.Errorf("expected u2, got %+v, %v", u, err)
	}
}

func TestAuthService_RequireRole(t *testing.T) {
	svc := service.NewAuthService(&mockAuth{}, zap.NewNop())
	if _, err := svc.RequireRole(context.Background(), domain.RoleAdmin); !domain.IsStatus(err, 401) {
		t.Errorf("expected 401 without session, got %v", err)
	}

	svc = service.NewAuthService(&mockAuth{authenticated: true, user: domain.User{ID: "u1", Role: domain.RoleAgent}}, zap.NewNop())
	if _, err := svc.RequireRole(context.Background(), domain.RoleAdmin); !domain.IsStatus(err, 403) {
		t.Errorf("expected 403 for agent, got %v", err)
	}

	svc = service.NewAuthService(&mockAuth{authenticated: true, user: domain.User{ID: "u2", Role: domain.RoleAdmin}}, zap.NewNop())
	u, err := svc.RequireRole(context.Background(), domain.RoleAdmin)
	if err != nil || u.ID != "u2" {
		t.Errorf("expected u2, got %+v, %v", u, err)
	}
}

func TestAuthService_LogoutReturnsRemoteError(t *testing.T) {
	remote := &domain.NetworkError{Message: "network error - no response received"}
	svc := service.NewAuthService(&mockAuth{logoutErr: remote}, zap.NewNop())

	if err := svc.Logout(context.Background()); !errors.Is(err, remote) {
		t.Fatalf("expected remote error, got %v", err)
	}
}

// ============================================================
// Dashboard
// ============================================================

func TestDashboardService_Overview(t *testing.T) {
	svc := service.NewDashboardService(&mockAnalytics{
		stats:      domain.DashboardStats{TotalCases: 10, ActiveCases: 6},
		recoveryFn: func() (domain.Metrics, error) { return domain.Metrics{"EUR": 300.0}, nil },
	}, zap.NewNop())

	out, err := svc.Overview(context.Background(), domain.DashboardFilter{}, domain.MetricsQuery{Period: "month"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if out.Stats.TotalCases != 10 || out.CaseMetrics["new"] != 3 || out.Recovery["EUR"] != 300.0 {
		t.Errorf("unexpected overview %+v", out)
	}
}

func TestDashboardService_OverviewFailsOnAnyError(t *testing.T) {
	svc := service.NewDashboardService(&mockAnalytics{
		recoveryFn: func() (domain.Metrics, error) { return nil, errBackend },
	}, zap.NewNop())

	if _, err := svc.Overview(context.Background(), domain.DashboardFilter{}, domain.MetricsQuery{}); !errors.Is(err, errBackend) {
		t.Fatalf("expected backend error, got %v", err)
	}
}
