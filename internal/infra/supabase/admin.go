package supabase

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/boddenberg/collections-bfa-go/internal/domain"
	"github.com/boddenberg/collections-bfa-go/internal/infra/session"

	"github.com/google/uuid"
)

// ============================================================
// Admin option tables
// ============================================================

const optionsCache = "admin_options"

type adminAPI struct{ c *Client }

var optionTables = map[domain.OptionKind]string{
	domain.KindServiceLevels: "service_levels",
	domain.KindDebtStatuses:  "debt_statuses",
	domain.KindLawfulBases:   "lawful_bases",
}

// optionKey scopes cached lists to the exact bearer token, since row-level
// security may hide tenant rows from other users.
func (a adminAPI) optionKey(kind domain.OptionKind) string {
	return string(kind) + "|" + session.Fingerprint(a.c.session.Token())
}

func (a adminAPI) invalidate(kind domain.OptionKind) {
	a.c.t.options.DeletePrefix(string(kind) + "|")
}

func listOptions[R, T any](ctx context.Context, a adminAPI, op string, kind domain.OptionKind, conv func(R) T) (domain.Response[[]T], error) {
	body, hit, err := a.c.t.options.Fetch(a.optionKey(kind), func() ([]byte, error) {
		res, err := a.c.exec(ctx, call{
			op: op, method: http.MethodGet, path: optionTables[kind],
			query: url.Values{"order": {"name.asc"}},
		})
		return res.body, err
	})
	if err != nil {
		return domain.Response[[]T]{}, err
	}
	if hit {
		a.c.t.metrics.IncrCacheHit(optionsCache)
	} else {
		a.c.t.metrics.IncrCacheMiss(optionsCache)
	}

	rows := []R{}
	if err := decodeInto(body, &rows); err != nil {
		return domain.Response[[]T]{}, err
	}
	return domain.OK(convert(rows, conv)), nil
}

func createOption[R, T any](ctx context.Context, a adminAPI, op string, kind domain.OptionKind, in domain.OptionInput, conv func(R) T) (domain.Response[T], error) {
	verr := &domain.ValidationError{Message: "Invalid option"}
	if in.Name == nil || strings.TrimSpace(*in.Name) == "" {
		verr.Add("name", "is required")
	}
	if in.Code == nil || strings.TrimSpace(*in.Code) == "" {
		verr.Add("code", "is required")
	}
	if !verr.Empty() {
		return domain.Response[T]{}, verr
	}

	id := uuid.NewString()
	p := optionPatch(kind, in)
	p.set("id", id)
	if in.IsActive == nil {
		p.set("is_active", true)
	}
	if actorID, _ := a.c.actor(); actorID != "" {
		p.set("created_by", actorID)
	}

	var row R
	res, err := a.c.exec(ctx, call{
		op: op, method: http.MethodPost, path: optionTables[kind], body: p,
		prefer: []string{"return=representation"}, single: true,
	})
	defer a.invalidate(kind)
	if err != nil {
		return domain.Response[T]{}, err
	}
	if err := decodeInto(res.body, &row); err != nil {
		return domain.Response[T]{}, err
	}
	if in.IsSystemDefault != nil && *in.IsSystemDefault {
		if err := a.clearDefault(ctx, kind, id); err != nil {
			return domain.Response[T]{}, err
		}
	}
	return domain.OK(conv(row)), nil
}

func updateOption[R, T any](ctx context.Context, a adminAPI, op string, kind domain.OptionKind, id string, in domain.OptionInput, conv func(R) T) (domain.Response[T], error) {
	if in.Name != nil && strings.TrimSpace(*in.Name) == "" {
		verr := &domain.ValidationError{Message: "Invalid option"}
		verr.Add("name", "must not be empty")
		return domain.Response[T]{}, verr
	}

	p := optionPatch(kind, in)
	if p.empty() {
		row, err := selectOne[R](ctx, a.c, op, optionTables[kind], byID(id))
		if err != nil {
			return domain.Response[T]{}, err
		}
		return domain.OK(conv(row)), nil
	}
	row, err := patchOne[R](ctx, a.c, op, optionTables[kind], byID(id), p)
	defer a.invalidate(kind)
	if err != nil {
		return domain.Response[T]{}, err
	}
	if in.IsSystemDefault != nil && *in.IsSystemDefault {
		if err := a.clearDefault(ctx, kind, id); err != nil {
			return domain.Response[T]{}, err
		}
	}
	return domain.OK(conv(row)), nil
}

func (a adminAPI) deleteOption(ctx context.Context, op string, kind domain.OptionKind, id string) (domain.Empty, error) {
	err := a.c.deleteOne(ctx, op, optionTables[kind], id)
	a.invalidate(kind)
	if err != nil {
		return domain.Empty{}, err
	}
	return domain.Done(), nil
}

// clearDefault unsets is_system_default on every row of kind except keep.
// Callers run it only after keep has been written.
func (a adminAPI) clearDefault(ctx context.Context, kind domain.OptionKind, keep string) error {
	q := url.Values{"is_system_default": {"eq.true"}}
	if keep != "" {
		q.Set("id", "neq."+keep)
	}
	_, err := a.c.patchAll(ctx, "ClearSystemDefault", optionTables[kind], q, patch{"is_system_default": false})
	return err
}

func optionPatch(kind domain.OptionKind, in domain.OptionInput) patch {
	p := patch{}
	if in.Name != nil {
		p.set("name", strings.TrimSpace(*in.Name))
	}
	if in.Code != nil {
		p.set("code", strings.TrimSpace(*in.Code))
	}
	p.str("description", in.Description)
	if in.IsActive != nil {
		p.set("is_active", *in.IsActive)
	}
	if in.IsSystemDefault != nil {
		p.set("is_system_default", *in.IsSystemDefault)
	}
	switch kind {
	case domain.KindServiceLevels:
		if in.SlaHours != nil {
			p.set("sla_hours", *in.SlaHours)
		}
	case domain.KindLawfulBases:
		p.str("article_reference", in.ArticleReference)
	}
	return p
}

// --- service levels ---

func (a adminAPI) GetServiceLevels(ctx context.Context) (domain.Response[[]domain.ServiceLevel], error) {
	return listOptions(ctx, a, "GetServiceLevels", domain.KindServiceLevels, serviceLevelRow.toDomain)
}

func (a adminAPI) CreateServiceLevel(ctx context.Context, in domain.OptionInput) (domain.Response[domain.ServiceLevel], error) {
	return createOption(ctx, a, "CreateServiceLevel", domain.KindServiceLevels, in, serviceLevelRow.toDomain)
}

func (a adminAPI) UpdateServiceLevel(ctx context.Context, id string, in domain.OptionInput) (domain.Response[domain.ServiceLevel], error) {
	return updateOption(ctx, a, "UpdateServiceLevel", domain.KindServiceLevels, id, in, serviceLevelRow.toDomain)
}

func (a adminAPI) DeleteServiceLevel(ctx context.Context, id string) (domain.Empty, error) {
	return a.deleteOption(ctx, "DeleteServiceLevel", domain.KindServiceLevels, id)
}

// --- debt statuses ---

func (a adminAPI) GetDebtStatuses(ctx context.Context) (domain.Response[[]domain.DebtStatus], error) {
	return listOptions(ctx, a, "GetDebtStatuses", domain.KindDebtStatuses, debtStatusRow.toDomain)
}

func (a adminAPI) CreateDebtStatus(ctx context.Context, in domain.OptionInput) (domain.Response[domain.DebtStatus], error) {
	return createOption(ctx, a, "CreateDebtStatus", domain.KindDebtStatuses, in, debtStatusRow.toDomain)
}

func (a adminAPI) UpdateDebtStatus(ctx context.Context, id string, in domain.OptionInput) (domain.Response[domain.DebtStatus], error) {
	return updateOption(ctx, a, "UpdateDebtStatus", domain.KindDebtStatuses, id, in, debtStatusRow.toDomain)
}

func (a adminAPI) DeleteDebtStatus(ctx context.Context, id string) (domain.Empty, error) {
	return a.deleteOption(ctx, "DeleteDebtStatus", domain.KindDebtStatuses, id)
}

// --- lawful bases ---

func (a adminAPI) GetLawfulBases(ctx context.Context) (domain.Response[[]domain.LawfulBasis], error) {
	return listOptions(ctx, a, "GetLawfulBases", domain.KindLawfulBases, lawfulBasisRow.toDomain)
}

func (a adminAPI) CreateLawfulBasis(ctx context.Context, in domain.OptionInput) (domain.Response[domain.LawfulBasis], error) {
	return createOption(ctx, a, "CreateLawfulBasis", domain.KindLawfulBases, in, lawfulBasisRow.toDomain)
}

func (a adminAPI) UpdateLawfulBasis(ctx context.Context, id string, in domain.OptionInput) (domain.Response[domain.LawfulBasis], error) {
	return updateOption(ctx, a, "UpdateLawfulBasis", domain.KindLawfulBases, id, in, lawfulBasisRow.toDomain)
}

func (a adminAPI) DeleteLawfulBasis(ctx context.Context, id string) (domain.Empty, error) {
	return a.deleteOption(ctx, "DeleteLawfulBasis", domain.KindLawfulBases, id)
}
