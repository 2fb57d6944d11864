package supabase

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/boddenberg/collections-bfa-go/internal/domain"
	"github.com/boddenberg/collections-bfa-go/internal/infra/session"

	"go.uber.org/zap"
)

// ============================================================
// Auth via GoTrue, enriched from the profiles table
// ============================================================

type authAPI struct{ c *Client }

type gotrueUser struct {
	ID           string         `json:"id"`
	Email        string         `json:"email"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    *time.Time     `json:"updated_at"`
	UserMetadata map[string]any `json:"user_metadata"`
}

type gotrueSession struct {
	AccessToken  string     `json:"access_token"`
	RefreshToken string     `json:"refresh_token"`
	ExpiresIn    int        `json:"expires_in"`
	User         gotrueUser `json:"user"`
}

func (a authAPI) Login(ctx context.Context, email, password string) (domain.Response[domain.AuthTokens], error) {
	return a.grant(ctx, "Login", "password", map[string]string{"email": email, "password": password}, true)
}

func (a authAPI) RefreshToken(ctx context.Context) (domain.Response[domain.AuthTokens], error) {
	refresh := a.c.session.RefreshToken()
	if refresh == "" {
		return domain.Response[domain.AuthTokens]{}, domain.Unauthenticated()
	}
	return a.grant(ctx, "RefreshToken", "refresh_token", map[string]string{"refresh_token": refresh}, false)
}

func (a authAPI) grant(ctx context.Context, op, grantType string, body map[string]string, login bool) (domain.Response[domain.AuthTokens], error) {
	res, err := a.c.exec(ctx, call{
		op: op, method: http.MethodPost, path: "/auth/v1/token",
		query: url.Values{"grant_type": {grantType}},
		body:  body, auth: true,
	})
	if err != nil {
		return domain.Response[domain.AuthTokens]{}, err
	}

	var s gotrueSession
	if err := decodeInto(res.body, &s); err != nil {
		return domain.Response[domain.AuthTokens]{}, err
	}
	if s.AccessToken == "" || s.User.ID == "" {
		return domain.Response[domain.AuthTokens]{}, &domain.APIError{Status: http.StatusUnauthorized, Message: "Invalid credentials"}
	}

	// profile rows are protected by RLS, so the new token must be in place first
	a.c.session.SetToken(s.AccessToken)
	user := a.c.enrich(ctx, s.User)
	if login {
		now := time.Now().UTC()
		user.LastLoginAt = &now
	}

	expires := s.ExpiresIn
	if expires == 0 {
		expires = 3600
	}
	tokens := domain.AuthTokens{
		AccessToken:  s.AccessToken,
		RefreshToken: s.RefreshToken,
		ExpiresIn:    expires,
		User:         user,
	}
	a.c.session.Store(tokens)
	return domain.OK(tokens), nil
}

// Logout revokes the refresh token remotely and always clears the session.
func (a authAPI) Logout(ctx context.Context) error {
	defer a.c.session.Clear()
	if a.c.session.Token() == "" {
		return nil
	}
	_, err := a.c.exec(ctx, call{op: "Logout", method: http.MethodPost, path: "/auth/v1/logout", auth: true})
	if err != nil {
		a.c.t.logger.Warn("supabase: remote logout failed, session cleared", zap.Error(err))
	}
	return err
}

func (a authAPI) GetCurrentUser(ctx context.Context) (domain.Response[domain.User], error) {
	if a.c.session.Token() == "" {
		return domain.Response[domain.User]{}, domain.Unauthenticated()
	}
	res, err := a.c.exec(ctx, call{op: "GetCurrentUser", method: http.MethodGet, path: "/auth/v1/user", auth: true})
	if err != nil {
		if domain.IsStatus(err, http.StatusUnauthorized) {
			return domain.Response[domain.User]{}, domain.Unauthenticated()
		}
		return domain.Response[domain.User]{}, err
	}
	var gu gotrueUser
	if err := decodeInto(res.body, &gu); err != nil {
		return domain.Response[domain.User]{}, err
	}
	return domain.OK(a.c.enrich(ctx, gu)), nil
}

func (a authAPI) IsAuthenticated() bool {
	return a.c.session.Authenticated()
}

// enrich merges the profiles row into the GoTrue user. Without a profile the
// user is an active CLIENT.
func (c *Client) enrich(ctx context.Context, gu gotrueUser) domain.User {
	active := true
	user := domain.User{
		ID:          gu.ID,
		Email:       gu.Email,
		Role:        domain.RoleClient,
		IsActive:    &active,
		Permissions: []string{},
		CreatedAt:   gu.CreatedAt,
		UpdatedAt:   gu.UpdatedAt,
	}
	if name, ok := gu.UserMetadata["name"].(string); ok {
		user.Name = name
	}

	rows, err := selectAll[profileRow](ctx, c, "GetProfile", "profiles", url.Values{"id": {eq(gu.ID)}, "limit": {"1"}})
	if err != nil {
		c.t.logger.Warn("supabase: profile lookup failed, using defaults", zap.String("user_id", gu.ID), zap.Error(err))
		return user
	}
	if len(rows) == 0 {
		return user
	}

	p := rows[0]
	if p.Name != "" {
		user.Name = p.Name
	}
	if p.Role.Valid() {
		user.Role = p.Role
	}
	user.ClientID = p.ClientID
	user.Department = p.Department
	user.Phone = p.Phone
	if p.IsActive != nil {
		user.IsActive = p.IsActive
	}
	if p.Permissions != nil {
		user.Permissions = p.Permissions
	}
	return user
}

// actor identifies the caller for created_by, sender and audit columns.
func (c *Client) actor() (id, name string) {
	if u, ok := c.session.User(); ok {
		name = u.Name
		if name == "" {
			name = u.Email
		}
		return u.ID, name
	}
	return session.Subject(c.session.Token()), ""
}
