package service_test

import (
	"context"
	"errors"
	"io"
	"sync"

	"github.com/boddenberg/collections-bfa-go/internal/domain"
	"github.com/boddenberg/collections-bfa-go/internal/port"
)

// --- Mocks ---
// Each mock embeds its port interface so that methods a test does not expect
// panic on a nil receiver instead of silently succeeding.

type mockCases struct {
	port.CasesAPI
	created  []domain.CreateCaseRequest
	createFn func(domain.CreateCaseRequest) (domain.Case, error)
}

func (m *mockCases) CreateCase(_ context.Context, req domain.CreateCaseRequest) (domain.Response[domain.Case], error) {
	m.created = append(m.created, req)
	c, err := m.createFn(req)
	return domain.OK(c), err
}

type mockDocs struct {
	mu       sync.Mutex
	uploaded []string
	failOn   string
}

func (m *mockDocs) Upload(_ context.Context, filename, _ string, r io.Reader) (domain.Response[domain.UploadedDocument], error) {
	if filename == m.failOn {
		return domain.Response[domain.UploadedDocument]{}, &domain.NetworkError{Message: "upload failed"}
	}
	_, _ = io.ReadAll(r)
	m.mu.Lock()
	m.uploaded = append(m.uploaded, filename)
	m.mu.Unlock()
	return domain.OK(domain.UploadedDocument{UploadURL: "https://files/" + filename, DocumentID: "doc-" + filename}), nil
}

type mockIntakes struct {
	port.CaseIntakesAPI

	intake     domain.CaseIntake
	getErr     error
	page       domain.Page[domain.CaseIntake]
	lastFilter domain.CaseIntakeFilter

	created   []domain.CreateCaseIntakeRequest
	updated   map[string]domain.CaseIntakeUpdate
	submitted []string
	submitErr error
	reviews   []domain.AcceptanceReview
}

func (m *mockIntakes) GetCaseIntake(_ context.Context, id string) (domain.Response[domain.CaseIntake], error) {
	if m.getErr != nil {
		return domain.Response[domain.CaseIntake]{}, m.getErr
	}
	in := m.intake
	in.ID = id
	return domain.OK(in), nil
}

func (m *mockIntakes) GetCaseIntakes(_ context.Context, f domain.CaseIntakeFilter) (domain.Page[domain.CaseIntake], error) {
	m.lastFilter = f
	return m.page, nil
}

func (m *mockIntakes) CreateCaseIntake(_ context.Context, req domain.CreateCaseIntakeRequest) (domain.Response[domain.CaseIntake], error) {
	m.created = append(m.created, req)
	return domain.OK(domain.CaseIntake{ID: "new-intake", Reference: "CI-00000001", Status: domain.IntakeDraft}), nil
}

func (m *mockIntakes) UpdateCaseIntake(_ context.Context, id string, upd domain.CaseIntakeUpdate) (domain.Response[domain.CaseIntake], error) {
	if m.updated == nil {
		m.updated = map[string]domain.CaseIntakeUpdate{}
	}
	m.updated[id] = upd
	return domain.OK(domain.CaseIntake{ID: id, Status: domain.IntakeDraft}), nil
}

func (m *mockIntakes) SubmitForReview(_ context.Context, id string) (domain.Response[domain.CaseIntake], error) {
	if m.submitErr != nil {
		return domain.Response[domain.CaseIntake]{}, m.submitErr
	}
	m.submitted = append(m.submitted, id)
	return domain.OK(domain.CaseIntake{ID: id, Status: domain.IntakeSubmitted}), nil
}

func (m *mockIntakes) ReviewCaseIntake(_ context.Context, id string, review domain.AcceptanceReview) (domain.Response[domain.CaseIntake], error) {
	m.reviews = append(m.reviews, review)
	status, _ := review.Action.Outcome()
	return domain.OK(domain.CaseIntake{ID: id, Status: status}), nil
}

type mockUsers struct {
	port.UsersAPI
	agents     []domain.User
	err        error
	lastFilter domain.UserFilter
}

func (m *mockUsers) GetUsers(_ context.Context, f domain.UserFilter) (domain.Page[domain.User], error) {
	m.lastFilter = f
	if m.err != nil {
		return domain.Page[domain.User]{}, m.err
	}
	return domain.NewPage(m.agents, len(m.agents), ""), nil
}

// mockAdmin keeps debt statuses in memory; the other kinds return fixed lists.
type mockAdmin struct {
	port.AdminConfigAPI

	mu       sync.Mutex
	statuses []domain.DebtStatus
	levels   []domain.ServiceLevel
	bases    []domain.LawfulBasis
	listErr  error
	updates  []string
	deleted  []string
}

func (m *mockAdmin) GetServiceLevels(context.Context) (domain.Response[[]domain.ServiceLevel], error) {
	return domain.OK(m.levels), m.listErr
}

func (m *mockAdmin) GetLawfulBases(context.Context) (domain.Response[[]domain.LawfulBasis], error) {
	return domain.OK(m.bases), nil
}

func (m *mockAdmin) GetDebtStatuses(context.Context) (domain.Response[[]domain.DebtStatus], error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.DebtStatus, len(m.statuses))
	copy(out, m.statuses)
	return domain.OK(out), nil
}

func (m *mockAdmin) CreateDebtStatus(_ context.Context, in domain.OptionInput) (domain.Response[domain.DebtStatus], error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ds := domain.DebtStatus{ID: "ds-new", Name: *in.Name, Code: *in.Code, IsActive: true}
	if in.IsSystemDefault != nil {
		ds.IsSystemDefault = *in.IsSystemDefault
	}
	m.statuses = append(m.statuses, ds)
	return domain.OK(ds), nil
}

func (m *mockAdmin) UpdateDebtStatus(_ context.Context, id string, in domain.OptionInput) (domain.Response[domain.DebtStatus], error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.updates = append(m.updates, id)
	for i := range m.statuses {
		if m.statuses[i].ID != id {
			continue
		}
		if in.IsActive != nil {
			m.statuses[i].IsActive = *in.IsActive
		}
		if in.IsSystemDefault != nil {
			m.statuses[i].IsSystemDefault = *in.IsSystemDefault
		}
		if in.Name != nil {
			m.statuses[i].Name = *in.Name
		}
		return domain.OK(m.statuses[i]), nil
	}
	return domain.Response[domain.DebtStatus]{}, domain.NotFound("debt_statuses", id)
}

func (m *mockAdmin) DeleteDebtStatus(_ context.Context, id string) (domain.Empty, error) {
	m.deleted = append(m.deleted, id)
	return domain.Done(), nil
}

type mockAuth struct {
	port.AuthAPI
	tokens        domain.AuthTokens
	loginErr      error
	logins        int
	authenticated bool
	user          domain.User
	logoutErr     error
}

func (m *mockAuth) Login(_ context.Context, email, _ string) (domain.Response[domain.AuthTokens], error) {
	m.logins++
	if m.loginErr != nil {
		return domain.Response[domain.AuthTokens]{}, m.loginErr
	}
	t := m.tokens
	t.User.Email = email
	return domain.OK(t), nil
}

func (m *mockAuth) Logout(context.Context) error { return m.logoutErr }

func (m *mockAuth) IsAuthenticated() bool { return m.authenticated }

func (m *mockAuth) GetCurrentUser(context.Context) (domain.Response[domain.User], error) {
	return domain.OK(m.user), nil
}

type mockAnalytics struct {
	port.AnalyticsAPI
	stats      domain.DashboardStats
	recoveryFn func() (domain.Metrics, error)
}

func (m *mockAnalytics) GetDashboardStats(context.Context, domain.DashboardFilter) (domain.Response[domain.DashboardStats], error) {
	return domain.OK(m.stats), nil
}

func (m *mockAnalytics) GetCaseMetrics(context.Context, domain.MetricsQuery) (domain.Response[domain.Metrics], error) {
	return domain.OK(domain.Metrics{"new": 3}), nil
}

func (m *mockAnalytics) GetRecoveryMetrics(context.Context, domain.MetricsQuery) (domain.Response[domain.Metrics], error) {
	if m.recoveryFn == nil {
		return domain.OK(domain.Metrics{}), nil
	}
	metrics, err := m.recoveryFn()
	return domain.OK(metrics), err
}

var errBackend = errors.New("backend down")
