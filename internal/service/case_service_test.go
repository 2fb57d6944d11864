package service_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/boddenberg/collections-bfa-go/internal/domain"
	"github.com/boddenberg/collections-bfa-go/internal/service"

	"go.uber.org/zap"
)

func validCase() domain.CreateCaseRequest {
	return domain.CreateCaseRequest{
		Reference: "INV-2024-001",
		Debtor: domain.Debtor{
			Name:    "Acme GmbH",
			Email:   "billing@acme.example",
			Phone:   "+49 (30) 123-456",
			Address: domain.Address{City: "Berlin", Country: "DE"},
		},
		Amount:   1250.50,
		ClientID: "client-1",
	}
}

func TestCaseService_ValidateAcceptsCompleteForm(t *testing.T) {
	svc := service.NewCaseService(&mockCases{}, nil, zap.NewNop())
	if ve := svc.Validate(validCase()); ve != nil {
		t.Fatalf("expected valid form, got %v", ve.Fields)
	}
}

func TestCaseService_ValidateReportsEveryField(t *testing.T) {
	svc := service.NewCaseService(&mockCases{}, nil, zap.NewNop())

	tests := []struct {
		name   string
		mutate func(*domain.CreateCaseRequest)
		field  string
	}{
		{"missing reference", func(r *domain.CreateCaseRequest) { r.Reference = "  " }, "reference"},
		{"missing debtor name", func(r *domain.CreateCaseRequest) { r.Debtor.Name = "" }, "debtorName"},
		{"missing email", func(r *domain.CreateCaseRequest) { r.Debtor.Email = "" }, "debtorEmail"},
		{"malformed email", func(r *domain.CreateCaseRequest) { r.Debtor.Email = "not-an-email" }, "debtorEmail"},
		{"malformed phone", func(r *domain.CreateCaseRequest) { r.Debtor.Phone = "call me maybe" }, "debtorPhone"},
		{"missing city", func(r *domain.CreateCaseRequest) { r.Debtor.Address.City = "" }, "debtorAddress.city"},
		{"missing country", func(r *domain.CreateCaseRequest) { r.Debtor.Address.Country = "" }, "debtorAddress.country"},
		{"zero amount", func(r *domain.CreateCaseRequest) { r.Amount = 0 }, "amount"},
		{"negative amount", func(r *domain.CreateCaseRequest) { r.Amount = -10 }, "amount"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validCase()
			tt.mutate(&req)
			ve := svc.Validate(req)
			if ve == nil {
				t.Fatal("expected validation error")
			}
			if len(ve.Fields) != 1 {
				t.Errorf("expected exactly one failing field, got %v", ve.Fields)
			}
			if _, ok := ve.Fields[tt.field]; !ok {
				t.Errorf("expected field %q to fail, got %v", tt.field, ve.Fields)
			}
		})
	}
}

func TestCaseService_CreateDoesNotCallBackendWhenInvalid(t *testing.T) {
	cases := &mockCases{}
	svc := service.NewCaseService(cases, nil, zap.NewNop())

	req := validCase()
	req.Reference = ""
	_, err := svc.Create(context.Background(), req, nil)
	if domain.Classify(err) != domain.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(cases.created) != 0 {
		t.Errorf("expected no backend call, got %d", len(cases.created))
	}
}

func TestCaseService_CreateUploadsAttachments(t *testing.T) {
	cases := &mockCases{createFn: func(req domain.CreateCaseRequest) (domain.Case, error) {
		return domain.Case{ID: "case-1", Reference: req.Reference, Currency: req.Currency}, nil
	}}
	docs := &mockDocs{failOn: "broken.pdf"}
	svc := service.NewCaseService(cases, docs, zap.NewNop())

	out, err := svc.Create(context.Background(), validCase(), []service.Attachment{
		{Filename: "contract.pdf", ContentType: "application/pdf", Body: strings.NewReader("%PDF")},
		{Filename: "broken.pdf", ContentType: "application/pdf", Body: strings.NewReader("%PDF")},
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if out.Case.ID != "case-1" {
		t.Errorf("expected case-1, got %s", out.Case.ID)
	}
	if out.Case.Currency != "EUR" {
		t.Errorf("expected default currency EUR, got %q", out.Case.Currency)
	}
	if len(out.Documents) != 1 || out.Documents[0].DocumentID != "doc-contract.pdf" {
		t.Errorf("unexpected documents %+v", out.Documents)
	}
	if len(out.FailedUploads) != 1 || out.FailedUploads[0] != "broken.pdf" {
		t.Errorf("expected broken.pdf to be reported, got %v", out.FailedUploads)
	}
}

func TestCaseService_CreateWithoutDocumentsCapability(t *testing.T) {
	cases := &mockCases{createFn: func(domain.CreateCaseRequest) (domain.Case, error) {
		return domain.Case{ID: "case-2"}, nil
	}}
	svc := service.NewCaseService(cases, nil, zap.NewNop())

	out, err := svc.Create(context.Background(), validCase(), []service.Attachment{
		{Filename: "ignored.pdf", Body: strings.NewReader("x")},
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(out.Documents) != 0 || len(out.FailedUploads) != 0 {
		t.Errorf("expected attachments to be skipped, got %+v", out)
	}
}

func TestCaseService_CreatePropagatesBackendError(t *testing.T) {
	conflict := domain.Conflict("reference already used")
	cases := &mockCases{createFn: func(domain.CreateCaseRequest) (domain.Case, error) {
		return domain.Case{}, conflict
	}}
	svc := service.NewCaseService(cases, &mockDocs{}, zap.NewNop())

	_, err := svc.Create(context.Background(), validCase(), nil)
	if !errors.Is(err, conflict) {
		t.Fatalf("expected wrapped conflict, got %v", err)
	}
	if !domain.IsStatus(err, 409) {
		t.Errorf("expected status 409, got %d", domain.StatusOf(err))
	}
}
