package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/boddenberg/collections-bfa-go/internal/domain"
	"github.com/boddenberg/collections-bfa-go/internal/service"

	"go.uber.org/zap"
)

// ============================================================
// Intake listing
// ============================================================

func intakePage() domain.Page[domain.CaseIntake] {
	return domain.NewPage([]domain.CaseIntake{
		{ID: "1", Reference: "CI-AAAA0001", DebtorName: "Alpha Ltd", Status: domain.IntakeSubmitted},
		{ID: "2", Reference: "CI-BBBB0002", DebtorName: "Beta GmbH", Status: domain.IntakeDraft},
		{ID: "3", Reference: "CI-CCCC0003", DebtorName: "alphabet inc", Status: domain.IntakeSubmitted},
	}, 3, "")
}

func TestScopeFor(t *testing.T) {
	client := service.ScopeFor(domain.User{ID: "u1", Role: domain.RoleClient, ClientID: "c1"}, domain.CaseIntakeFilter{})
	if client.ClientID != "c1" || client.AssignedAgentID != "" {
		t.Errorf("unexpected client scope %+v", client)
	}
	noClientID := service.ScopeFor(domain.User{ID: "u1", Role: domain.RoleClient}, domain.CaseIntakeFilter{})
	if noClientID.ClientID != "u1" {
		t.Errorf("expected fallback to user id, got %q", noClientID.ClientID)
	}
	agent := service.ScopeFor(domain.User{ID: "a1", Role: domain.RoleAgent}, domain.CaseIntakeFilter{ClientID: "keep"})
	if agent.AssignedAgentID != "a1" || agent.ClientID != "keep" {
		t.Errorf("unexpected agent scope %+v", agent)
	}
	admin := service.ScopeFor(domain.User{ID: "x", Role: domain.RoleAdmin}, domain.CaseIntakeFilter{})
	if admin.ClientID != "" || admin.AssignedAgentID != "" {
		t.Errorf("admin should be unscoped, got %+v", admin)
	}
}

func TestIntakeListing_SearchAndCounters(t *testing.T) {
	intakes := &mockIntakes{page: intakePage()}
	l := service.NewIntakeListing(intakes, zap.NewNop())

	out, err := l.List(context.Background(), domain.User{ID: "a1", Role: domain.RoleAgent}, service.IntakeQuery{
		Status: domain.IntakeSubmitted,
		Search: "ALPHA",
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if intakes.lastFilter.AssignedAgentID != "a1" {
		t.Errorf("expected agent scope, got %+v", intakes.lastFilter)
	}
	if len(intakes.lastFilter.Status) != 1 || intakes.lastFilter.Status[0] != domain.IntakeSubmitted {
		t.Errorf("expected status filter, got %v", intakes.lastFilter.Status)
	}
	if intakes.lastFilter.Search != "" {
		t.Error("search must be applied locally")
	}
	if len(out.Items) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(out.Items))
	}
	if out.Counts[domain.IntakeSubmitted] != 2 || out.Counts[domain.IntakeDraft] != 0 {
		t.Errorf("unexpected counts %v", out.Counts)
	}
	if out.Total != 3 {
		t.Errorf("expected backend total 3, got %d", out.Total)
	}
}

// ============================================================
// Acceptance review
// ============================================================

func reviewableIntake() domain.CaseIntake {
	return domain.CaseIntake{
		ServiceLevelID: "sl-1",
		DebtStatusID:   "ds-1",
		DebtorName:     "Jane Doe",
		DebtorEmail:    "jane@example.com",
		DebtorAddress:  &domain.Address{City: "Munich", Country: "DE"},
		Status:         domain.IntakeSubmitted,
		Invoices: []domain.CaseInvoice{
			{InvoiceNumber: "A-1", IssueDate: "2024-01-01", DueDate: "2024-02-01", Amount: 100},
		},
	}
}

func TestChecklist(t *testing.T) {
	checks := service.Checklist(reviewableIntake())
	if len(checks) != 7 {
		t.Fatalf("expected 7 checks, got %d", len(checks))
	}
	for _, c := range checks {
		if !c.Valid {
			t.Errorf("expected %s to pass", c.ID)
		}
	}

	in := reviewableIntake()
	in.IsGdprSubject = true
	in.Invoices[0].Amount = 0
	failed := map[string]bool{}
	for _, c := range service.Checklist(in) {
		if !c.Valid {
			failed[c.ID] = true
		}
	}
	if !failed["gdpr_compliance"] || !failed["financial_data"] || len(failed) != 2 {
		t.Errorf("unexpected failures %v", failed)
	}

	in = reviewableIntake()
	in.Invoices = nil
	for _, c := range service.Checklist(in) {
		if (c.ID == "invoices_present" || c.ID == "financial_data") && c.Valid {
			t.Errorf("expected %s to fail without invoices", c.ID)
		}
		if c.ID == "documents_uploaded" && (c.Required || !c.Valid) {
			t.Error("documents check is optional and always passes")
		}
	}
}

func TestAcceptanceReviewer_LoadFetchesAgents(t *testing.T) {
	users := &mockUsers{agents: []domain.User{{ID: "ag-1", Role: domain.RoleAgent}}}
	r := service.NewAcceptanceReviewer(&mockIntakes{intake: reviewableIntake()}, users, zap.NewNop())

	rc, err := r.Load(context.Background(), "intake-1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if rc.Intake.ID != "intake-1" || len(rc.Agents) != 1 {
		t.Errorf("unexpected context %+v", rc)
	}
	if len(rc.FailedChecks) != 0 {
		t.Errorf("expected no failed checks, got %v", rc.FailedChecks)
	}
	if users.lastFilter.IsActive == nil || !*users.lastFilter.IsActive || users.lastFilter.Role[0] != domain.RoleAgent {
		t.Errorf("expected active agents filter, got %+v", users.lastFilter)
	}
}

func TestAcceptanceReviewer_LoadWithoutUsersCapability(t *testing.T) {
	r := service.NewAcceptanceReviewer(&mockIntakes{intake: reviewableIntake()}, nil, zap.NewNop())

	rc, err := r.Load(context.Background(), "intake-1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if rc.Agents == nil || len(rc.Agents) != 0 {
		t.Errorf("expected empty agent list, got %v", rc.Agents)
	}
}

func TestAcceptanceReviewer_LoadFailsWhenAgentsFail(t *testing.T) {
	r := service.NewAcceptanceReviewer(&mockIntakes{intake: reviewableIntake()}, &mockUsers{err: errBackend}, zap.NewNop())

	if _, err := r.Load(context.Background(), "intake-1"); !errors.Is(err, errBackend) {
		t.Fatalf("expected backend error, got %v", err)
	}
}

func TestAcceptanceReviewer_SubmitRules(t *testing.T) {
	incomplete := reviewableIntake()
	incomplete.DebtStatusID = ""

	tests := []struct {
		name   string
		intake domain.CaseIntake
		review domain.AcceptanceReview
		field  string
	}{
		{"accept without agent", reviewableIntake(), domain.AcceptanceReview{Action: domain.ReviewAccept}, "assignedAgentId"},
		{"accept with failed checks", incomplete, domain.AcceptanceReview{Action: domain.ReviewAccept, AssignedAgentID: "ag-1"}, "checklist"},
		{"reject without reason", reviewableIntake(), domain.AcceptanceReview{Action: domain.ReviewReject, RejectionReason: " "}, "rejectionReason"},
		{"fixes without items", reviewableIntake(), domain.AcceptanceReview{Action: domain.ReviewRequestFixes}, "fixesRequired"},
		{"unknown action", reviewableIntake(), domain.AcceptanceReview{Action: "escalate"}, "action"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			intakes := &mockIntakes{intake: tt.intake}
			r := service.NewAcceptanceReviewer(intakes, nil, zap.NewNop())

			_, err := r.Submit(context.Background(), "intake-1", tt.review)
			if f := fieldsOf(t, err); f[tt.field] == nil {
				t.Errorf("expected %s to fail, got %v", tt.field, f)
			}
			if len(intakes.reviews) != 0 {
				t.Error("expected no review to be sent")
			}
		})
	}
}

func TestAcceptanceReviewer_SubmitAccept(t *testing.T) {
	intakes := &mockIntakes{intake: reviewableIntake()}
	r := service.NewAcceptanceReviewer(intakes, nil, zap.NewNop())

	out, err := r.Submit(context.Background(), "intake-1", domain.AcceptanceReview{Action: domain.ReviewAccept, AssignedAgentID: "ag-1"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if out.Status != domain.IntakeAccepted {
		t.Errorf("expected accepted, got %s", out.Status)
	}
	if len(intakes.reviews) != 1 || intakes.reviews[0].CaseID != "intake-1" {
		t.Errorf("expected review with case id, got %+v", intakes.reviews)
	}
}

func TestAcceptanceReviewer_SubmitRequestFixes(t *testing.T) {
	intakes := &mockIntakes{}
	r := service.NewAcceptanceReviewer(intakes, nil, zap.NewNop())

	out, err := r.Submit(context.Background(), "intake-2", domain.AcceptanceReview{
		Action:        domain.ReviewRequestFixes,
		FixesRequired: []string{"Upload supporting documents"},
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if out.Status != domain.IntakeNeedsInfo {
		t.Errorf("expected needs_info, got %s", out.Status)
	}
}
