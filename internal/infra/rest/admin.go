package rest

import (
	"context"
	"net/http"

	"github.com/boddenberg/collections-bfa-go/internal/domain"
)

// adminAPI serves the intake option lists under /admin/<kind>.
type adminAPI struct{ c *Client }

func optionPath(kind domain.OptionKind, id string) string {
	p := "/admin/" + string(kind)
	if id != "" {
		p += seg(id)
	}
	return p
}

func optionList[T any](ctx context.Context, c *Client, op string, kind domain.OptionKind) (domain.Response[[]T], error) {
	return one[[]T](ctx, c, request{op: op, cap: domain.CapAdminConfig, method: http.MethodGet, path: optionPath(kind, "")})
}

func optionCreate[T any](ctx context.Context, c *Client, op string, kind domain.OptionKind, in domain.OptionInput) (domain.Response[T], error) {
	return one[T](ctx, c, request{op: op, cap: domain.CapAdminConfig, method: http.MethodPost, path: optionPath(kind, ""), body: in})
}

func optionUpdate[T any](ctx context.Context, c *Client, op string, kind domain.OptionKind, id string, in domain.OptionInput) (domain.Response[T], error) {
	return one[T](ctx, c, request{op: op, cap: domain.CapAdminConfig, method: http.MethodPatch, path: optionPath(kind, id), body: in})
}

func optionDelete(ctx context.Context, c *Client, op string, kind domain.OptionKind, id string) (domain.Empty, error) {
	return empty(ctx, c, request{op: op, cap: domain.CapAdminConfig, method: http.MethodDelete, path: optionPath(kind, id)})
}

func (a adminAPI) GetServiceLevels(ctx context.Context) (domain.Response[[]domain.ServiceLevel], error) {
	return optionList[domain.ServiceLevel](ctx, a.c, "GetServiceLevels", domain.KindServiceLevels)
}

func (a adminAPI) CreateServiceLevel(ctx context.Context, in domain.OptionInput) (domain.Response[domain.ServiceLevel], error) {
	return optionCreate[domain.ServiceLevel](ctx, a.c, "CreateServiceLevel", domain.KindServiceLevels, in)
}

func (a adminAPI) UpdateServiceLevel(ctx context.Context, id string, in domain.OptionInput) (domain.Response[domain.ServiceLevel], error) {
	return optionUpdate[domain.ServiceLevel](ctx, a.c, "UpdateServiceLevel", domain.KindServiceLevels, id, in)
}

func (a adminAPI) DeleteServiceLevel(ctx context.Context, id string) (domain.Empty, error) {
	return optionDelete(ctx, a.c, "DeleteServiceLevel", domain.KindServiceLevels, id)
}

func (a adminAPI) GetDebtStatuses(ctx context.Context) (domain.Response[[]domain.DebtStatus], error) {
	return optionList[domain.DebtStatus](ctx, a.c, "GetDebtStatuses", domain.KindDebtStatuses)
}

func (a adminAPI) CreateDebtStatus(ctx context.Context, in domain.OptionInput) (domain.Response[domain.DebtStatus], error) {
	return optionCreate[domain.DebtStatus](ctx, a.c, "CreateDebtStatus", domain.KindDebtStatuses, in)
}

func (a adminAPI) UpdateDebtStatus(ctx context.Context, id string, in domain.OptionInput) (domain.Response[domain.DebtStatus], error) {
	return optionUpdate[domain.DebtStatus](ctx, a.c, "UpdateDebtStatus", domain.KindDebtStatuses, id, in)
}

func (a adminAPI) DeleteDebtStatus(ctx context.Context, id string) (domain.Empty, error) {
	return optionDelete(ctx, a.c, "DeleteDebtStatus", domain.KindDebtStatuses, id)
}

func (a adminAPI) GetLawfulBases(ctx context.Context) (domain.Response[[]domain.LawfulBasis], error) {
	return optionList[domain.LawfulBasis](ctx, a.c, "GetLawfulBases", domain.KindLawfulBases)
}

func (a adminAPI) CreateLawfulBasis(ctx context.Context, in domain.OptionInput) (domain.Response[domain.LawfulBasis], error) {
	return optionCreate[domain.LawfulBasis](ctx, a.c, "CreateLawfulBasis", domain.KindLawfulBases, in)
}

func (a adminAPI) UpdateLawfulBasis(ctx context.Context, id string, in domain.OptionInput) (domain.Response[domain.LawfulBasis], error) {
	return optionUpdate[domain.LawfulBasis](ctx, a.c, "UpdateLawfulBasis", domain.KindLawfulBases, id, in)
}

func (a adminAPI) DeleteLawfulBasis(ctx context.Context, id string) (domain.Empty, error) {
	return optionDelete(ctx, a.c, "DeleteLawfulBasis", domain.KindLawfulBases, id)
}
