package supabase

import (
	"context"

	"github.com/boddenberg/collections-bfa-go/internal/domain"
)

// Groups the embedded schema has no tables for. Every call fails with 501.

type approvalsAPI struct{}

func (approvalsAPI) GetApprovals(context.Context, domain.ApprovalFilter) (domain.Page[domain.Approval], error) {
	return domain.Page[domain.Approval]{}, domain.NotImplemented("GetApprovals")
}

func (approvalsAPI) GetApproval(context.Context, string) (domain.Response[domain.Approval], error) {
	return domain.Response[domain.Approval]{}, domain.NotImplemented("GetApproval")
}

func (approvalsAPI) CreateApproval(context.Context, domain.CreateApprovalRequest) (domain.Response[domain.Approval], error) {
	return domain.Response[domain.Approval]{}, domain.NotImplemented("CreateApproval")
}

func (approvalsAPI) UpdateApproval(context.Context, string, domain.ApprovalDecision) (domain.Response[domain.Approval], error) {
	return domain.Response[domain.Approval]{}, domain.NotImplemented("UpdateApproval")
}

func (approvalsAPI) GetPendingApprovals(context.Context) (domain.Response[[]domain.Approval], error) {
	return domain.Response[[]domain.Approval]{}, domain.NotImplemented("GetPendingApprovals")
}

type usersAPI struct{}

func (usersAPI) GetUsers(context.Context, domain.UserFilter) (domain.Page[domain.User], error) {
	return domain.Page[domain.User]{}, domain.NotImplemented("GetUsers")
}

func (usersAPI) GetUser(context.Context, string) (domain.Response[domain.User], error) {
	return domain.Response[domain.User]{}, domain.NotImplemented("GetUser")
}

func (usersAPI) CreateUser(context.Context, domain.UserInput) (domain.Response[domain.User], error) {
	return domain.Response[domain.User]{}, domain.NotImplemented("CreateUser")
}

func (usersAPI) UpdateUser(context.Context, string, domain.UserInput) (domain.Response[domain.User], error) {
	return domain.Response[domain.User]{}, domain.NotImplemented("UpdateUser")
}

func (usersAPI) DeleteUser(context.Context, string) (domain.Empty, error) {
	return domain.Empty{}, domain.NotImplemented("DeleteUser")
}

func (usersAPI) UpdateUserRole(context.Context, string, domain.Role) (domain.Response[domain.User], error) {
	return domain.Response[domain.User]{}, domain.NotImplemented("UpdateUserRole")
}

func (usersAPI) ActivateUser(context.Context, string) (domain.Response[domain.User], error) {
	return domain.Response[domain.User]{}, domain.NotImplemented("ActivateUser")
}

func (usersAPI) DeactivateUser(context.Context, string) (domain.Response[domain.User], error) {
	return domain.Response[domain.User]{}, domain.NotImplemented("DeactivateUser")
}

type tariffsAPI struct{}

func (tariffsAPI) GetTariffs(context.Context, domain.TariffFilter) (domain.Page[domain.Tariff], error) {
	return domain.Page[domain.Tariff]{}, domain.NotImplemented("GetTariffs")
}

func (tariffsAPI) GetTariff(context.Context, string) (domain.Response[domain.Tariff], error) {
	return domain.Response[domain.Tariff]{}, domain.NotImplemented("GetTariff")
}

func (tariffsAPI) CreateTariff(context.Context, domain.TariffInput) (domain.Response[domain.Tariff], error) {
	return domain.Response[domain.Tariff]{}, domain.NotImplemented("CreateTariff")
}

func (tariffsAPI) UpdateTariff(context.Context, string, domain.TariffInput) (domain.Response[domain.Tariff], error) {
	return domain.Response[domain.Tariff]{}, domain.NotImplemented("UpdateTariff")
}

func (tariffsAPI) DeleteTariff(context.Context, string) (domain.Empty, error) {
	return domain.Empty{}, domain.NotImplemented("DeleteTariff")
}

func (tariffsAPI) ActivateTariff(context.Context, string) (domain.Response[domain.Tariff], error) {
	return domain.Response[domain.Tariff]{}, domain.NotImplemented("ActivateTariff")
}

func (tariffsAPI) DeactivateTariff(context.Context, string) (domain.Response[domain.Tariff], error) {
	return domain.Response[domain.Tariff]{}, domain.NotImplemented("DeactivateTariff")
}

type templatesAPI struct{}

func (templatesAPI) GetTemplates(context.Context, domain.TemplateFilter) (domain.Page[domain.MessageTemplate], error) {
	return domain.Page[domain.MessageTemplate]{}, domain.NotImplemented("GetTemplates")
}

func (templatesAPI) GetTemplate(context.Context, string) (domain.Response[domain.MessageTemplate], error) {
	return domain.Response[domain.MessageTemplate]{}, domain.NotImplemented("GetTemplate")
}

func (templatesAPI) CreateTemplate(context.Context, domain.TemplateInput) (domain.Response[domain.MessageTemplate], error) {
	return domain.Response[domain.MessageTemplate]{}, domain.NotImplemented("CreateTemplate")
}

func (templatesAPI) UpdateTemplate(context.Context, string, domain.TemplateInput) (domain.Response[domain.MessageTemplate], error) {
	return domain.Response[domain.MessageTemplate]{}, domain.NotImplemented("UpdateTemplate")
}

func (templatesAPI) DeleteTemplate(context.Context, string) (domain.Empty, error) {
	return domain.Empty{}, domain.NotImplemented("DeleteTemplate")
}

func (templatesAPI) ActivateTemplate(context.Context, string) (domain.Response[domain.MessageTemplate], error) {
	return domain.Response[domain.MessageTemplate]{}, domain.NotImplemented("ActivateTemplate")
}

func (templatesAPI) DeactivateTemplate(context.Context, string) (domain.Response[domain.MessageTemplate], error) {
	return domain.Response[domain.MessageTemplate]{}, domain.NotImplemented("DeactivateTemplate")
}

func (templatesAPI) RenderTemplate(context.Context, string, map[string]any) (domain.Response[domain.RenderedTemplate], error) {
	return domain.Response[domain.RenderedTemplate]{}, domain.NotImplemented("RenderTemplate")
}

type retentionAPI struct{}

func (retentionAPI) GetRetentionPolicies(context.Context) (domain.Response[[]domain.RetentionPolicy], error) {
	return domain.Response[[]domain.RetentionPolicy]{}, domain.NotImplemented("GetRetentionPolicies")
}

func (retentionAPI) UpdateRetentionPolicy(context.Context, string, domain.RetentionPolicyUpdate) (domain.Response[domain.RetentionPolicy], error) {
	return domain.Response[domain.RetentionPolicy]{}, domain.NotImplemented("UpdateRetentionPolicy")
}

func (retentionAPI) ScheduleDataDeletion(context.Context, string, string, string) (domain.Empty, error) {
	return domain.Empty{}, domain.NotImplemented("ScheduleDataDeletion")
}

func (retentionAPI) CancelDataDeletion(context.Context, string) (domain.Empty, error) {
	return domain.Empty{}, domain.NotImplemented("CancelDataDeletion")
}

func (retentionAPI) GetPendingDeletions(context.Context) (domain.Response[[]domain.ScheduledDeletion], error) {
	return domain.Response[[]domain.ScheduledDeletion]{}, domain.NotImplemented("GetPendingDeletions")
}
