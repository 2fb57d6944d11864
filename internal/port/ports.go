// Package port defines the adapter interface set.
// Following hexagonal architecture, consumer flows and the HTTP surface depend
// only on these ports, never on a concrete backend adapter.
package port

import (
	"context"
	"io"
	"time"

	"github.com/boddenberg/collections-bfa-go/internal/domain"
)

// AuthAPI manages the session. Login and RefreshToken store the returned
// bearer token before returning; Logout clears it even when the remote call fails.
type AuthAPI interface {
	Login(ctx context.Context, email, password string) (domain.Response[domain.AuthTokens], error)
	Logout(ctx context.Context) error
	RefreshToken(ctx context.Context) (domain.Response[domain.AuthTokens], error)
	GetCurrentUser(ctx context.Context) (domain.Response[domain.User], error)
	IsAuthenticated() bool
}

type CasesAPI interface {
	GetCases(ctx context.Context, f domain.CaseFilter) (domain.Page[domain.Case], error)
	GetCase(ctx context.Context, id string) (domain.Response[domain.Case], error)
	CreateCase(ctx context.Context, req domain.CreateCaseRequest) (domain.Response[domain.Case], error)
	UpdateCase(ctx context.Context, id string, upd domain.CaseUpdate) (domain.Response[domain.Case], error)
	DeleteCase(ctx context.Context, id string) (domain.Empty, error)
	AssignAgent(ctx context.Context, caseID, agentID string) (domain.Response[domain.Case], error)
	GetCaseEvents(ctx context.Context, caseID string) (domain.Response[[]domain.CaseEvent], error)
}

type CaseIntakesAPI interface {
	GetCaseIntakes(ctx context.Context, f domain.CaseIntakeFilter) (domain.Page[domain.CaseIntake], error)
	GetCaseIntake(ctx context.Context, id string) (domain.Response[domain.CaseIntake], error)
	CreateCaseIntake(ctx context.Context, req domain.CreateCaseIntakeRequest) (domain.Response[domain.CaseIntake], error)
	UpdateCaseIntake(ctx context.Context, id string, upd domain.CaseIntakeUpdate) (domain.Response[domain.CaseIntake], error)
	DeleteCaseIntake(ctx context.Context, id string) (domain.Empty, error)
	SubmitForReview(ctx context.Context, id string) (domain.Response[domain.CaseIntake], error)
	ReviewCaseIntake(ctx context.Context, id string, review domain.AcceptanceReview) (domain.Response[domain.CaseIntake], error)
	GetCaseIntakeMessages(ctx context.Context, caseID string) (domain.Response[[]domain.CaseMessage], error)
	AddCaseIntakeMessage(ctx context.Context, caseID string, msg domain.NewCaseMessage) (domain.Response[domain.CaseMessage], error)
}

type ApprovalsAPI interface {
	GetApprovals(ctx context.Context, f domain.ApprovalFilter) (domain.Page[domain.Approval], error)
	GetApproval(ctx context.Context, id string) (domain.Response[domain.Approval], error)
	CreateApproval(ctx context.Context, req domain.CreateApprovalRequest) (domain.Response[domain.Approval], error)
	UpdateApproval(ctx context.Context, id string, decision domain.ApprovalDecision) (domain.Response[domain.Approval], error)
	GetPendingApprovals(ctx context.Context) (domain.Response[[]domain.Approval], error)
}

type InvoicesAPI interface {
	GetInvoices(ctx context.Context, f domain.InvoiceFilter) (domain.Page[domain.Invoice], error)
	GetInvoice(ctx context.Context, id string) (domain.Response[domain.Invoice], error)
	CreateInvoice(ctx context.Context, in domain.InvoiceInput) (domain.Response[domain.Invoice], error)
	UpdateInvoice(ctx context.Context, id string, in domain.InvoiceInput) (domain.Response[domain.Invoice], error)
	DeleteInvoice(ctx context.Context, id string) (domain.Empty, error)
	SendInvoice(ctx context.Context, id string) (domain.Empty, error)
	MarkAsPaid(ctx context.Context, id string, paidAt *time.Time) (domain.Response[domain.Invoice], error)
	GeneratePDF(ctx context.Context, id string) (domain.Response[domain.PdfLink], error)
}

type GdprAPI interface {
	GetRequests(ctx context.Context, f domain.GdprFilter) (domain.Page[domain.GdprRequest], error)
	GetRequest(ctx context.Context, id string) (domain.Response[domain.GdprRequest], error)
	CreateRequest(ctx context.Context, req domain.CreateGdprRequest) (domain.Response[domain.GdprRequest], error)
	UpdateRequest(ctx context.Context, id string, upd domain.GdprRequestUpdate) (domain.Response[domain.GdprRequest], error)
	ExportData(ctx context.Context, subjectID string) (domain.Response[domain.DownloadLink], error)
	DeleteData(ctx context.Context, subjectID, reason string) (domain.Empty, error)
	ProcessRequest(ctx context.Context, id string) (domain.Response[domain.GdprRequest], error)
}

type UsersAPI interface {
	GetUsers(ctx context.Context, f domain.UserFilter) (domain.Page[domain.User], error)
	GetUser(ctx context.Context, id string) (domain.Response[domain.User], error)
	CreateUser(ctx context.Context, in domain.UserInput) (domain.Response[domain.User], error)
	UpdateUser(ctx context.Context, id string, in domain.UserInput) (domain.Response[domain.User], error)
	DeleteUser(ctx context.Context, id string) (domain.Empty, error)
	UpdateUserRole(ctx context.Context, id string, role domain.Role) (domain.Response[domain.User], error)
	ActivateUser(ctx context.Context, id string) (domain.Response[domain.User], error)
	DeactivateUser(ctx context.Context, id string) (domain.Response[domain.User], error)
}

type TariffsAPI interface {
	GetTariffs(ctx context.Context, f domain.TariffFilter) (domain.Page[domain.Tariff], error)
	GetTariff(ctx context.Context, id string) (domain.Response[domain.Tariff], error)
	CreateTariff(ctx context.Context, in domain.TariffInput) (domain.Response[domain.Tariff], error)
	UpdateTariff(ctx context.Context, id string, in domain.TariffInput) (domain.Response[domain.Tariff], error)
	DeleteTariff(ctx context.Context, id string) (domain.Empty, error)
	ActivateTariff(ctx context.Context, id string) (domain.Response[domain.Tariff], error)
	DeactivateTariff(ctx context.Context, id string) (domain.Response[domain.Tariff], error)
}

type TemplatesAPI interface {
	GetTemplates(ctx context.Context, f domain.TemplateFilter) (domain.Page[domain.MessageTemplate], error)
	GetTemplate(ctx context.Context, id string) (domain.Response[domain.MessageTemplate], error)
	CreateTemplate(ctx context.Context, in domain.TemplateInput) (domain.Response[domain.MessageTemplate], error)
	UpdateTemplate(ctx context.Context, id string, in domain.TemplateInput) (domain.Response[domain.MessageTemplate], error)
	DeleteTemplate(ctx context.Context, id string) (domain.Empty, error)
	ActivateTemplate(ctx context.Context, id string) (domain.Response[domain.MessageTemplate], error)
	DeactivateTemplate(ctx context.Context, id string) (domain.Response[domain.MessageTemplate], error)
	RenderTemplate(ctx context.Context, id string, vars map[string]any) (domain.Response[domain.RenderedTemplate], error)
}

type RetentionAPI interface {
	GetRetentionPolicies(ctx context.Context) (domain.Response[[]domain.RetentionPolicy], error)
	UpdateRetentionPolicy(ctx context.Context, id string, upd domain.RetentionPolicyUpdate) (domain.Response[domain.RetentionPolicy], error)
	ScheduleDataDeletion(ctx context.Context, entityID, entityType, deleteAfter string) (domain.Empty, error)
	CancelDataDeletion(ctx context.Context, entityID string) (domain.Empty, error)
	GetPendingDeletions(ctx context.Context) (domain.Response[[]domain.ScheduledDeletion], error)
}

type AnalyticsAPI interface {
	GetDashboardStats(ctx context.Context, f domain.DashboardFilter) (domain.Response[domain.DashboardStats], error)
	GetCaseMetrics(ctx context.Context, q domain.MetricsQuery) (domain.Response[domain.Metrics], error)
	GetRecoveryMetrics(ctx context.Context, q domain.MetricsQuery) (domain.Response[domain.Metrics], error)
	GetPerformanceMetrics(ctx context.Context, q domain.MetricsQuery) (domain.Response[domain.Metrics], error)
}

type AdminConfigAPI interface {
	GetServiceLevels(ctx context.Context) (domain.Response[[]domain.ServiceLevel], error)
	CreateServiceLevel(ctx context.Context, in domain.OptionInput) (domain.Response[domain.ServiceLevel], error)
	UpdateServiceLevel(ctx context.Context, id string, in domain.OptionInput) (domain.Response[domain.ServiceLevel], error)
	DeleteServiceLevel(ctx context.Context, id string) (domain.Empty, error)

	GetDebtStatuses(ctx context.Context) (domain.Response[[]domain.DebtStatus], error)
	CreateDebtStatus(ctx context.Context, in domain.OptionInput) (domain.Response[domain.DebtStatus], error)
	UpdateDebtStatus(ctx context.Context, id string, in domain.OptionInput) (domain.Response[domain.DebtStatus], error)
	DeleteDebtStatus(ctx context.Context, id string) (domain.Empty, error)

	GetLawfulBases(ctx context.Context) (domain.Response[[]domain.LawfulBasis], error)
	CreateLawfulBasis(ctx context.Context, in domain.OptionInput) (domain.Response[domain.LawfulBasis], error)
	UpdateLawfulBasis(ctx context.Context, id string, in domain.OptionInput) (domain.Response[domain.LawfulBasis], error)
	DeleteLawfulBasis(ctx context.Context, id string) (domain.Empty, error)
}

// DocumentsAPI uploads files outside the JSON request path.
type DocumentsAPI interface {
	Upload(ctx context.Context, filename, contentType string, r io.Reader) (domain.Response[domain.UploadedDocument], error)
}

// Client is one concrete adapter exposing every API group.
// Groups whose capability is absent still exist; their calls fail with APIError 501.
type Client interface {
	Auth() AuthAPI
	Cases() CasesAPI
	CaseIntakes() CaseIntakesAPI
	Approvals() ApprovalsAPI
	Invoices() InvoicesAPI
	Gdpr() GdprAPI
	Users() UsersAPI
	Tariffs() TariffsAPI
	Templates() TemplatesAPI
	Retention() RetentionAPI
	Analytics() AnalyticsAPI
	AdminConfig() AdminConfigAPI
	Documents() DocumentsAPI

	Mode() domain.Mode
	Capabilities() domain.CapabilitySet

	SetAuthToken(token string)
	ClearAuthToken()
	SetBaseURL(url string) error
	SetTimeout(d time.Duration) error

	// WithToken returns a sibling client sharing transport and configuration
	// but holding its own session, seeded with token.
	WithToken(token string) Client
	// WithSession is WithToken that also carries a refresh token.
	WithSession(access, refresh string) Client

	// Ping checks the backend is reachable.
	Ping(ctx context.Context) error
}

// Cache provides generic caching with TTL.
type Cache[T any] interface {
	Get(key string) (T, bool)
	Set(key string, value T)
	Delete(key string)
}

// ObjectStore keeps uploaded and generated files.
type ObjectStore interface {
	Put(ctx context.Context, key, contentType string, r io.Reader, size int64) error
	PresignedURL(ctx context.Context, key string) (string, error)
}
