package rest

import (
	"context"
	"net/http"

	"github.com/boddenberg/collections-bfa-go/internal/domain"

	"go.uber.org/zap"
)

type authAPI struct{ c *Client }

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (a authAPI) Login(ctx context.Context, email, password string) (domain.Response[domain.AuthTokens], error) {
	resp, err := one[domain.AuthTokens](ctx, a.c, request{
		op: "Login", cap: domain.CapAuth, method: http.MethodPost, path: "/auth/login",
		body:   credentials{Email: email, Password: password},
		public: true,
	})
	if err != nil {
		return resp, err
	}
	a.c.session.Store(resp.Data)
	return resp, nil
}

// Logout clears the local session whatever the API answers.
func (a authAPI) Logout(ctx context.Context) error {
	defer a.c.session.Clear()
	if a.c.session.Token() == "" {
		return nil
	}
	err := a.c.do(ctx, request{op: "Logout", cap: domain.CapAuth, method: http.MethodPost, path: "/auth/logout"}, nil)
	if err != nil {
		a.c.t.logger.Warn("rest: remote logout failed, session cleared", zap.Error(err))
	}
	return err
}

func (a authAPI) RefreshToken(ctx context.Context) (domain.Response[domain.AuthTokens], error) {
	refresh := a.c.session.RefreshToken()
	if refresh == "" {
		return domain.Response[domain.AuthTokens]{}, domain.Unauthenticated()
	}
	resp, err := one[domain.AuthTokens](ctx, a.c, request{
		op: "RefreshToken", cap: domain.CapAuth, method: http.MethodPost, path: "/auth/refresh",
		body:   map[string]string{"refresh_token": refresh},
		public: true,
	})
	if err != nil {
		return resp, err
	}
	a.c.session.Store(resp.Data)
	return resp, nil
}

func (a authAPI) GetCurrentUser(ctx context.Context) (domain.Response[domain.User], error) {
	return one[domain.User](ctx, a.c, request{op: "GetCurrentUser", cap: domain.CapAuth, method: http.MethodGet, path: "/auth/me"})
}

func (a authAPI) IsAuthenticated() bool {
	return a.c.session.Authenticated()
}
