package service

import (
	"context"
	"fmt"
	"io"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/boddenberg/collections-bfa-go/internal/domain"
	"github.com/boddenberg/collections-bfa-go/internal/port"
)

var caseTracer = otel.Tracer("service/cases")

const defaultCurrency = "EUR"

// Attachment is a file sent along with a form.
type Attachment struct {
	Filename    string
	ContentType string
	Body        io.Reader
}

// CreatedCase is the outcome of the new-case form.
type CreatedCase struct {
	Case          domain.Case               `json:"case"`
	Documents     []domain.UploadedDocument `json:"documents"`
	FailedUploads []string                  `json:"failedUploads,omitempty"`
}

// CaseService runs the new-case form.
type CaseService struct {
	cases  port.CasesAPI
	docs   port.DocumentsAPI
	logger *zap.Logger
}

// NewCaseService creates the service. docs may be nil when the backend cannot
// store documents; attachments are then ignored.
func NewCaseService(cases port.CasesAPI, docs port.DocumentsAPI, logger *zap.Logger) *CaseService {
	return &CaseService{cases: cases, docs: docs, logger: logger}
}

// DocumentsOf returns the documents API of c, or nil when c lacks the capability.
func DocumentsOf(c port.Client) port.DocumentsAPI {
	if !c.Capabilities().Has(domain.CapDocuments) {
		return nil
	}
	return c.Documents()
}

// Validate applies the form rules. It returns nil when req is acceptable.
func (s *CaseService) Validate(req domain.CreateCaseRequest) *domain.ValidationError {
	ve := &domain.ValidationError{Message: "Please fix the highlighted fields"}

	if blank(req.Reference) {
		ve.Add("reference", "Reference is required")
	}
	if blank(req.Debtor.Name) {
		ve.Add("debtorName", "Debtor name is required")
	}
	switch {
	case blank(req.Debtor.Email):
		ve.Add("debtorEmail", "Debtor email is required")
	case validate.Var(req.Debtor.Email, "email") != nil:
		ve.Add("debtorEmail", "Please enter a valid email address")
	}
	if req.Debtor.Phone != "" && !phoneRegex.MatchString(req.Debtor.Phone) {
		ve.Add("debtorPhone", "Please enter a valid phone number")
	}
	if blank(req.Debtor.Address.City) {
		ve.Add("debtorAddress.city", "City is required")
	}
	if blank(req.Debtor.Address.Country) {
		ve.Add("debtorAddress.country", "Country is required")
	}
	if req.Amount <= 0 {
		ve.Add("amount", "Please enter a valid amount greater than 0")
	}

	if ve.Empty() {
		return nil
	}
	return ve
}

// Create validates req, creates the case and uploads attachments. Upload
// failures are reported in the result and do not fail the call.
func (s *CaseService) Create(ctx context.Context, req domain.CreateCaseRequest, attachments []Attachment) (*CreatedCase, error) {
	ctx, span := caseTracer.Start(ctx, "CaseService.Create")
	defer span.End()

	if ve := s.Validate(req); ve != nil {
		return nil, ve
	}
	if req.Currency == "" {
		req.Currency = defaultCurrency
	}

	resp, err := s.cases.CreateCase(ctx, req)
	if err != nil {
		s.logger.Error("failed to create case", zap.String("reference", req.Reference), zap.Error(err))
		return nil, fmt.Errorf("creating case: %w", err)
	}

	out := &CreatedCase{Case: resp.Data, Documents: []domain.UploadedDocument{}}
	span.SetAttributes(attribute.String("case.id", resp.Data.ID), attribute.Int("attachments", len(attachments)))

	if s.docs == nil {
		if len(attachments) > 0 {
			s.logger.Warn("documents not supported by backend, attachments dropped", zap.Int("count", len(attachments)))
		}
		return out, nil
	}
	for _, a := range attachments {
		up, err := s.docs.Upload(ctx, a.Filename, a.ContentType, a.Body)
		if err != nil {
			s.logger.Warn("document upload failed", zap.String("case_id", resp.Data.ID), zap.String("filename", a.Filename), zap.Error(err))
			out.FailedUploads = append(out.FailedUploads, a.Filename)
			continue
		}
		out.Documents = append(out.Documents, up.Data)
	}
	return out, nil
}

// List returns one page of cases.
func (s *CaseService) List(ctx context.Context, f domain.CaseFilter) (domain.Page[domain.Case], error) {
	ctx, span := caseTracer.Start(ctx, "CaseService.List")
	defer span.End()

	page, err := s.cases.GetCases(ctx, f)
	if err != nil {
		return page, fmt.Errorf("listing cases: %w", err)
	}
	page.Normalize()
	return page, nil
}

// Get returns one case.
func (s *CaseService) Get(ctx context.Context, id string) (domain.Case, error) {
	ctx, span := caseTracer.Start(ctx, "CaseService.Get")
	defer span.End()

	resp, err := s.cases.GetCase(ctx, id)
	if err != nil {
		return domain.Case{}, fmt.Errorf("getting case %s: %w", id, err)
	}
	return resp.Data, nil
}
