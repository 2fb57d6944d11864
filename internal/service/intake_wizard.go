package service

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	"github.com/boddenberg/collections-bfa-go/internal/domain"
	"github.com/boddenberg/collections-bfa-go/internal/port"
)

var wizardTracer = otel.Tracer("service/intake_wizard")

// Wizard steps. Documents and the final review screen carry no rules.
const (
	StepContract  = 1
	StepDebtor    = 2
	StepFinancial = 3
	StepDocuments = 4
	StepReview    = 5
)

// IntakePreview is what the review step shows before submission.
type IntakePreview struct {
	Totals       domain.Totals `json:"totals"`
	GrandTotal   float64       `json:"grandTotal"`
	InvoiceCount int           `json:"invoiceCount"`
	CurrencyCode string        `json:"currencyCode"`
}

// SubmittedIntake is the outcome of Submit.
type SubmittedIntake struct {
	Intake        domain.CaseIntake         `json:"intake"`
	Documents     []domain.UploadedDocument `json:"documents"`
	FailedUploads []string                  `json:"failedUploads,omitempty"`
}

// IntakeWizard drives the multi-step case intake form.
type IntakeWizard struct {
	intakes port.CaseIntakesAPI
	docs    port.DocumentsAPI
	logger  *zap.Logger
}

func NewIntakeWizard(intakes port.CaseIntakesAPI, docs port.DocumentsAPI, logger *zap.Logger) *IntakeWizard {
	return &IntakeWizard{intakes: intakes, docs: docs, logger: logger}
}

// ValidateStep checks the rules of one step.
func (w *IntakeWizard) ValidateStep(step int, req domain.CreateCaseIntakeRequest) error {
	ve := &domain.ValidationError{Message: "Please fix the highlighted errors before continuing"}
	switch step {
	case StepContract:
		contractRules(req, ve)
	case StepDebtor:
		debtorRules(req, ve)
	case StepFinancial:
		financialRules(req, ve)
	case StepDocuments, StepReview:
	default:
		ve.Add("step", fmt.Sprintf("unknown step %d", step))
	}
	return failed(ve)
}

// Validate checks every step, then the field formats of the whole request.
func (w *IntakeWizard) Validate(req domain.CreateCaseIntakeRequest) error {
	ve := &domain.ValidationError{Message: "Case intake is incomplete"}
	contractRules(req, ve)
	debtorRules(req, ve)
	financialRules(req, ve)
	if !ve.Empty() {
		return ve
	}
	if err := collectFieldErrors(req, ve); err != nil {
		return err
	}
	return failed(ve)
}

func contractRules(req domain.CreateCaseIntakeRequest, ve *domain.ValidationError) {
	if blank(req.ServiceLevelID) {
		ve.Add("serviceLevelId", "Service Level is required")
	}
	if blank(req.DebtStatusID) {
		ve.Add("debtStatusId", "Debt Status is required")
	}
}

func debtorRules(req domain.CreateCaseIntakeRequest, ve *domain.ValidationError) {
	if blank(req.DebtorName) {
		ve.Add("debtorName", "Debtor Name is required")
	}
	if blank(req.DebtorEmail) {
		ve.Add("debtorEmail", "Debtor Email is required")
	}
	var addr domain.Address
	if req.DebtorAddress != nil {
		addr = *req.DebtorAddress
	}
	if blank(addr.City) {
		ve.Add("debtorAddress.city", "City is required")
	}
	if blank(addr.Country) {
		ve.Add("debtorAddress.country", "Country is required")
	}
	if req.DebtorPhone != "" && !phoneRegex.MatchString(req.DebtorPhone) {
		ve.Add("debtorPhone", "Please enter a valid phone number")
	}
	if req.IsGdprSubject && blank(req.LawfulBasisID) {
		ve.Add("lawfulBasisId", "Lawful Basis is required for GDPR subjects")
	}
}

func financialRules(req domain.CreateCaseIntakeRequest, ve *domain.ValidationError) {
	if len(req.Invoices) == 0 {
		ve.Add("invoices", "At least one invoice is required")
		return
	}
	for i, inv := range req.Invoices {
		prefix := fmt.Sprintf("invoices[%d].", i)
		if blank(inv.InvoiceNumber) {
			ve.Add(prefix+"invoiceNumber", "Invoice Number is required")
		}
		if blank(inv.IssueDate) {
			ve.Add(prefix+"issueDate", "Issue Date is required")
		}
		if blank(inv.DueDate) {
			ve.Add(prefix+"dueDate", "Due Date is required")
		}
		if inv.Amount <= 0 {
			ve.Add(prefix+"amount", "Amount must be greater than 0")
		}
	}
}

// Preview computes the totals the review step displays.
func (w *IntakeWizard) Preview(req domain.CreateCaseIntakeRequest) IntakePreview {
	totals := domain.IntakeTotals(req.Invoices)
	return IntakePreview{
		Totals:       totals,
		GrandTotal:   totals.Grand(),
		InvoiceCount: len(req.Invoices),
		CurrencyCode: req.CurrencyCode,
	}
}

// SaveDraft stores the form without validation. An empty id creates a new
// draft; otherwise the existing draft is updated.
func (w *IntakeWizard) SaveDraft(ctx context.Context, id string, req domain.CreateCaseIntakeRequest) (domain.CaseIntake, error) {
	ctx, span := wizardTracer.Start(ctx, "IntakeWizard.SaveDraft")
	defer span.End()

	intake, err := w.save(ctx, id, req)
	if err != nil {
		w.logger.Error("draft save failed", zap.String("intake_id", id), zap.Error(err))
		return domain.CaseIntake{}, fmt.Errorf("saving draft: %w", err)
	}
	w.logger.Info("draft saved", zap.String("intake_id", intake.ID), zap.String("reference", intake.Reference))
	return intake, nil
}

// Submit validates all steps, stores the intake, submits it for review and
// uploads attachments. Upload failures do not fail the submission.
func (w *IntakeWizard) Submit(ctx context.Context, id string, req domain.CreateCaseIntakeRequest, attachments []Attachment) (*SubmittedIntake, error) {
	ctx, span := wizardTracer.Start(ctx, "IntakeWizard.Submit")
	defer span.End()

	if err := w.Validate(req); err != nil {
		return nil, err
	}

	stored, err := w.save(ctx, id, req)
	if err != nil {
		w.logger.Error("intake save failed", zap.String("intake_id", id), zap.Error(err))
		return nil, fmt.Errorf("saving intake: %w", err)
	}
	submitted, err := w.intakes.SubmitForReview(ctx, stored.ID)
	if err != nil {
		w.logger.Error("submit for review failed", zap.String("intake_id", stored.ID), zap.Error(err))
		return nil, fmt.Errorf("submitting intake %s: %w", stored.ID, err)
	}

	out := &SubmittedIntake{Intake: submitted.Data, Documents: []domain.UploadedDocument{}}
	if w.docs == nil {
		return out, nil
	}
	for _, a := range attachments {
		up, err := w.docs.Upload(ctx, a.Filename, a.ContentType, a.Body)
		if err != nil {
			w.logger.Warn("document upload failed", zap.String("intake_id", stored.ID), zap.String("filename", a.Filename), zap.Error(err))
			out.FailedUploads = append(out.FailedUploads, a.Filename)
			continue
		}
		out.Documents = append(out.Documents, up.Data)
	}
	return out, nil
}

func (w *IntakeWizard) save(ctx context.Context, id string, req domain.CreateCaseIntakeRequest) (domain.CaseIntake, error) {
	if req.DebtorCountry == "" && req.DebtorAddress != nil {
		req.DebtorCountry = req.DebtorAddress.Country
	}
	if id == "" {
		resp, err := w.intakes.CreateCaseIntake(ctx, req)
		return resp.Data, err
	}
	resp, err := w.intakes.UpdateCaseIntake(ctx, id, updateFromRequest(req))
	return resp.Data, err
}

// updateFromRequest turns a full form into a patch touching every form field.
func updateFromRequest(req domain.CreateCaseIntakeRequest) domain.CaseIntakeUpdate {
	upd := domain.CaseIntakeUpdate{
		ContractID:     &req.ContractID,
		ServiceLevelID: &req.ServiceLevelID,
		DebtStatusID:   &req.DebtStatusID,
		DebtorName:     &req.DebtorName,
		DebtorTaxID:    &req.DebtorTaxID,
		DebtorVatID:    &req.DebtorVatID,
		DebtorEmail:    &req.DebtorEmail,
		DebtorPhone:    &req.DebtorPhone,
		DebtorAddress:  req.DebtorAddress,
		DebtorCountry:  &req.DebtorCountry,
		IsGdprSubject:  &req.IsGdprSubject,
		LawfulBasisID:  &req.LawfulBasisID,
		CurrencyCode:   &req.CurrencyCode,
		Notes:          &req.Notes,
		Invoices:       req.Invoices,
	}
	if req.DebtorType != "" {
		upd.DebtorType = &req.DebtorType
	}
	return upd
}
