package rest

import (
	"context"
	"net/http"

	"github.com/boddenberg/collections-bfa-go/internal/domain"
)

// ---- users ----

type usersAPI struct{ c *Client }

func (a usersAPI) GetUsers(ctx context.Context, f domain.UserFilter) (domain.Page[domain.User], error) {
	q := many(newQuery(), "role", f.Role).
		boolp("isActive", f.IsActive).
		str("clientId", f.ClientID).
		page(f.Cursor, f.Limit)
	return page[domain.User](ctx, a.c, request{op: "GetUsers", cap: domain.CapUsers, method: http.MethodGet, path: "/users", query: q.values()})
}

func (a usersAPI) GetUser(ctx context.Context, id string) (domain.Response[domain.User], error) {
	return one[domain.User](ctx, a.c, request{op: "GetUser", cap: domain.CapUsers, method: http.MethodGet, path: "/users" + seg(id)})
}

func (a usersAPI) CreateUser(ctx context.Context, in domain.UserInput) (domain.Response[domain.User], error) {
	return one[domain.User](ctx, a.c, request{op: "CreateUser", cap: domain.CapUsers, method: http.MethodPost, path: "/users", body: in})
}

func (a usersAPI) UpdateUser(ctx context.Context, id string, in domain.UserInput) (domain.Response[domain.User], error) {
	return one[domain.User](ctx, a.c, request{op: "UpdateUser", cap: domain.CapUsers, method: http.MethodPatch, path: "/users" + seg(id), body: in})
}

func (a usersAPI) DeleteUser(ctx context.Context, id string) (domain.Empty, error) {
	return empty(ctx, a.c, request{op: "DeleteUser", cap: domain.CapUsers, method: http.MethodDelete, path: "/users" + seg(id)})
}

func (a usersAPI) UpdateUserRole(ctx context.Context, id string, role domain.Role) (domain.Response[domain.User], error) {
	return one[domain.User](ctx, a.c, request{op: "UpdateUserRole", cap: domain.CapUsers, method: http.MethodPatch, path: "/users" + seg(id), body: domain.UserInput{Role: &role}})
}

func (a usersAPI) ActivateUser(ctx context.Context, id string) (domain.Response[domain.User], error) {
	return one[domain.User](ctx, a.c, request{op: "ActivateUser", cap: domain.CapUsers, method: http.MethodPost, path: "/users" + seg(id) + "/activate"})
}

func (a usersAPI) DeactivateUser(ctx context.Context, id string) (domain.Response[domain.User], error) {
	return one[domain.User](ctx, a.c, request{op: "DeactivateUser", cap: domain.CapUsers, method: http.MethodPost, path: "/users" + seg(id) + "/deactivate"})
}

// ---- tariffs ----

type tariffsAPI struct{ c *Client }

func (a tariffsAPI) GetTariffs(ctx context.Context, f domain.TariffFilter) (domain.Page[domain.Tariff], error) {
	q := newQuery().boolp("isActive", f.IsActive).str("type", string(f.Type)).page(f.Cursor, f.Limit)
	return page[domain.Tariff](ctx, a.c, request{op: "GetTariffs", cap: domain.CapTariffs, method: http.MethodGet, path: "/tariffs", query: q.values()})
}

func (a tariffsAPI) GetTariff(ctx context.Context, id string) (domain.Response[domain.Tariff], error) {
	return one[domain.Tariff](ctx, a.c, request{op: "GetTariff", cap: domain.CapTariffs, method: http.MethodGet, path: "/tariffs" + seg(id)})
}

func (a tariffsAPI) CreateTariff(ctx context.Context, in domain.TariffInput) (domain.Response[domain.Tariff], error) {
	return one[domain.Tariff](ctx, a.c, request{op: "CreateTariff", cap: domain.CapTariffs, method: http.MethodPost, path: "/tariffs", body: in})
}

func (a tariffsAPI) UpdateTariff(ctx context.Context, id string, in domain.TariffInput) (domain.Response[domain.Tariff], error) {
	return one[domain.Tariff](ctx, a.c, request{op: "UpdateTariff", cap: domain.CapTariffs, method: http.MethodPatch, path: "/tariffs" + seg(id), body: in})
}

func (a tariffsAPI) DeleteTariff(ctx context.Context, id string) (domain.Empty, error) {
	return empty(ctx, a.c, request{op: "DeleteTariff", cap: domain.CapTariffs, method: http.MethodDelete, path: "/tariffs" + seg(id)})
}

func (a tariffsAPI) ActivateTariff(ctx context.Context, id string) (domain.Response[domain.Tariff], error) {
	return one[domain.Tariff](ctx, a.c, request{op: "ActivateTariff", cap: domain.CapTariffs, method: http.MethodPost, path: "/tariffs" + seg(id) + "/activate"})
}

func (a tariffsAPI) DeactivateTariff(ctx context.Context, id string) (domain.Response[domain.Tariff], error) {
	return one[domain.Tariff](ctx, a.c, request{op: "DeactivateTariff", cap: domain.CapTariffs, method: http.MethodPost, path: "/tariffs" + seg(id) + "/deactivate"})
}

// ---- templates ----

type templatesAPI struct{ c *Client }

func (a templatesAPI) GetTemplates(ctx context.Context, f domain.TemplateFilter) (domain.Page[domain.MessageTemplate], error) {
	q := newQuery().
		str("type", string(f.Type)).
		str("locale", f.Locale).
		boolp("isActive", f.IsActive).
		page(f.Cursor, f.Limit)
	return page[domain.MessageTemplate](ctx, a.c, request{op: "GetTemplates", cap: domain.CapTemplates, method: http.MethodGet, path: "/templates", query: q.values()})
}

func (a templatesAPI) GetTemplate(ctx context.Context, id string) (domain.Response[domain.MessageTemplate], error) {
	return one[domain.MessageTemplate](ctx, a.c, request{op: "GetTemplate", cap: domain.CapTemplates, method: http.MethodGet, path: "/templates" + seg(id)})
}

func (a templatesAPI) CreateTemplate(ctx context.Context, in domain.TemplateInput) (domain.Response[domain.MessageTemplate], error) {
	return one[domain.MessageTemplate](ctx, a.c, request{op: "CreateTemplate", cap: domain.CapTemplates, method: http.MethodPost, path: "/templates", body: in})
}

func (a templatesAPI) UpdateTemplate(ctx context.Context, id string, in domain.TemplateInput) (domain.Response[domain.MessageTemplate], error) {
	return one[domain.MessageTemplate](ctx, a.c, request{op: "UpdateTemplate", cap: domain.CapTemplates, method: http.MethodPatch, path: "/templates" + seg(id), body: in})
}

func (a templatesAPI) DeleteTemplate(ctx context.Context, id string) (domain.Empty, error) {
	return empty(ctx, a.c, request{op: "DeleteTemplate", cap: domain.CapTemplates, method: http.MethodDelete, path: "/templates" + seg(id)})
}

func (a templatesAPI) ActivateTemplate(ctx context.Context, id string) (domain.Response[domain.MessageTemplate], error) {
	return one[domain.MessageTemplate](ctx, a.c, request{op: "ActivateTemplate", cap: domain.CapTemplates, method: http.MethodPost, path: "/templates" + seg(id) + "/activate"})
}

func (a templatesAPI) DeactivateTemplate(ctx context.Context, id string) (domain.Response[domain.MessageTemplate], error) {
	return one[domain.MessageTemplate](ctx, a.c, request{op: "DeactivateTemplate", cap: domain.CapTemplates, method: http.MethodPost, path: "/templates" + seg(id) + "/deactivate"})
}

func (a templatesAPI) RenderTemplate(ctx context.Context, id string, vars map[string]any) (domain.Response[domain.RenderedTemplate], error) {
	if vars == nil {
		vars = map[string]any{}
	}
	return one[domain.RenderedTemplate](ctx, a.c, request{op: "RenderTemplate", cap: domain.CapTemplates, method: http.MethodPost, path: "/templates" + seg(id) + "/render", body: vars})
}

// ---- retention ----

type retentionAPI struct{ c *Client }

func (a retentionAPI) GetRetentionPolicies(ctx context.Context) (domain.Response[[]domain.RetentionPolicy], error) {
	return one[[]domain.RetentionPolicy](ctx, a.c, request{op: "GetRetentionPolicies", cap: domain.CapRetention, method: http.MethodGet, path: "/retention/policies"})
}

func (a retentionAPI) UpdateRetentionPolicy(ctx context.Context, id string, upd domain.RetentionPolicyUpdate) (domain.Response[domain.RetentionPolicy], error) {
	return one[domain.RetentionPolicy](ctx, a.c, request{op: "UpdateRetentionPolicy", cap: domain.CapRetention, method: http.MethodPatch, path: "/retention/policies" + seg(id), body: upd})
}

func (a retentionAPI) ScheduleDataDeletion(ctx context.Context, entityID, entityType, deleteAfter string) (domain.Empty, error) {
	return empty(ctx, a.c, request{
		op: "ScheduleDataDeletion", cap: domain.CapRetention, method: http.MethodPost, path: "/retention/schedule-deletion",
		body: map[string]string{"entityId": entityID, "entityType": entityType, "deleteAfter": deleteAfter},
	})
}

func (a retentionAPI) CancelDataDeletion(ctx context.Context, entityID string) (domain.Empty, error) {
	return empty(ctx, a.c, request{op: "CancelDataDeletion", cap: domain.CapRetention, method: http.MethodDelete, path: "/retention/scheduled" + seg(entityID)})
}

func (a retentionAPI) GetPendingDeletions(ctx context.Context) (domain.Response[[]domain.ScheduledDeletion], error) {
	return one[[]domain.ScheduledDeletion](ctx, a.c, request{op: "GetPendingDeletions", cap: domain.CapRetention, method: http.MethodGet, path: "/retention/pending"})
}
