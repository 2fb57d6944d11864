package rest

import (
	"context"
	"net/http"

	"github.com/boddenberg/collections-bfa-go/internal/domain"
)

// ---- cases ----

type casesAPI struct{ c *Client }

func (a casesAPI) GetCases(ctx context.Context, f domain.CaseFilter) (domain.Page[domain.Case], error) {
	q := many(newQuery(), "status", f.Status).
		str("clientId", f.ClientID).
		str("assignedAgentId", f.AssignedAgentID).
		floatp("amountMin", f.AmountMin).
		floatp("amountMax", f.AmountMax).
		str("search", f.Search).
		page(f.Cursor, f.Limit)
	return page[domain.Case](ctx, a.c, request{op: "GetCases", cap: domain.CapCases, method: http.MethodGet, path: "/cases", query: q.values()})
}

func (a casesAPI) GetCase(ctx context.Context, id string) (domain.Response[domain.Case], error) {
	return one[domain.Case](ctx, a.c, request{op: "GetCase", cap: domain.CapCases, method: http.MethodGet, path: "/cases" + seg(id)})
}

func (a casesAPI) CreateCase(ctx context.Context, req domain.CreateCaseRequest) (domain.Response[domain.Case], error) {
	return one[domain.Case](ctx, a.c, request{op: "CreateCase", cap: domain.CapCases, method: http.MethodPost, path: "/cases", body: req})
}

func (a casesAPI) UpdateCase(ctx context.Context, id string, upd domain.CaseUpdate) (domain.Response[domain.Case], error) {
	return one[domain.Case](ctx, a.c, request{op: "UpdateCase", cap: domain.CapCases, method: http.MethodPatch, path: "/cases" + seg(id), body: upd})
}

func (a casesAPI) DeleteCase(ctx context.Context, id string) (domain.Empty, error) {
	return empty(ctx, a.c, request{op: "DeleteCase", cap: domain.CapCases, method: http.MethodDelete, path: "/cases" + seg(id)})
}

func (a casesAPI) AssignAgent(ctx context.Context, caseID, agentID string) (domain.Response[domain.Case], error) {
	return one[domain.Case](ctx, a.c, request{
		op: "AssignAgent", cap: domain.CapCases, method: http.MethodPatch, path: "/cases" + seg(caseID),
		body: domain.CaseUpdate{AssignedAgentID: &agentID},
	})
}

func (a casesAPI) GetCaseEvents(ctx context.Context, caseID string) (domain.Response[[]domain.CaseEvent], error) {
	return one[[]domain.CaseEvent](ctx, a.c, request{op: "GetCaseEvents", cap: domain.CapCases, method: http.MethodGet, path: "/cases" + seg(caseID) + "/events"})
}

// ---- case intakes ----

type intakesAPI struct{ c *Client }

func (a intakesAPI) GetCaseIntakes(ctx context.Context, f domain.CaseIntakeFilter) (domain.Page[domain.CaseIntake], error) {
	q := many(newQuery(), "status", f.Status).
		str("clientId", f.ClientID).
		str("assignedAgentId", f.AssignedAgentID).
		str("search", f.Search).
		page(f.Cursor, f.Limit)
	return page[domain.CaseIntake](ctx, a.c, request{op: "GetCaseIntakes", cap: domain.CapCaseIntakes, method: http.MethodGet, path: "/case-intakes", query: q.values()})
}

func (a intakesAPI) GetCaseIntake(ctx context.Context, id string) (domain.Response[domain.CaseIntake], error) {
	return one[domain.CaseIntake](ctx, a.c, request{op: "GetCaseIntake", cap: domain.CapCaseIntakes, method: http.MethodGet, path: "/case-intakes" + seg(id)})
}

func (a intakesAPI) CreateCaseIntake(ctx context.Context, req domain.CreateCaseIntakeRequest) (domain.Response[domain.CaseIntake], error) {
	return one[domain.CaseIntake](ctx, a.c, request{op: "CreateCaseIntake", cap: domain.CapCaseIntakes, method: http.MethodPost, path: "/case-intakes", body: req})
}

func (a intakesAPI) UpdateCaseIntake(ctx context.Context, id string, upd domain.CaseIntakeUpdate) (domain.Response[domain.CaseIntake], error) {
	return one[domain.CaseIntake](ctx, a.c, request{op: "UpdateCaseIntake", cap: domain.CapCaseIntakes, method: http.MethodPatch, path: "/case-intakes" + seg(id), body: upd})
}

func (a intakesAPI) DeleteCaseIntake(ctx context.Context, id string) (domain.Empty, error) {
	return empty(ctx, a.c, request{op: "DeleteCaseIntake", cap: domain.CapCaseIntakes, method: http.MethodDelete, path: "/case-intakes" + seg(id)})
}

func (a intakesAPI) SubmitForReview(ctx context.Context, id string) (domain.Response[domain.CaseIntake], error) {
	return one[domain.CaseIntake](ctx, a.c, request{op: "SubmitForReview", cap: domain.CapCaseIntakes, method: http.MethodPost, path: "/case-intakes" + seg(id) + "/submit"})
}

func (a intakesAPI) ReviewCaseIntake(ctx context.Context, id string, review domain.AcceptanceReview) (domain.Response[domain.CaseIntake], error) {
	return one[domain.CaseIntake](ctx, a.c, request{op: "ReviewCaseIntake", cap: domain.CapCaseIntakes, method: http.MethodPost, path: "/case-intakes" + seg(id) + "/review", body: review})
}

func (a intakesAPI) GetCaseIntakeMessages(ctx context.Context, caseID string) (domain.Response[[]domain.CaseMessage], error) {
	return one[[]domain.CaseMessage](ctx, a.c, request{op: "GetCaseIntakeMessages", cap: domain.CapCaseIntakes, method: http.MethodGet, path: "/case-intakes" + seg(caseID) + "/messages"})
}

func (a intakesAPI) AddCaseIntakeMessage(ctx context.Context, caseID string, msg domain.NewCaseMessage) (domain.Response[domain.CaseMessage], error) {
	return one[domain.CaseMessage](ctx, a.c, request{op: "AddCaseIntakeMessage", cap: domain.CapCaseIntakes, method: http.MethodPost, path: "/case-intakes" + seg(caseID) + "/messages", body: msg})
}
