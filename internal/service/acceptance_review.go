package service

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/boddenberg/collections-bfa-go/internal/domain"
	"github.com/boddenberg/collections-bfa-go/internal/port"
)

var reviewTracer = otel.Tracer("service/acceptance_review")

// CheckItem is one line of the acceptance checklist.
type CheckItem struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Required    bool   `json:"isRequired"`
	Valid       bool   `json:"isValid"`
}

// ReviewContext is everything the reviewer sees before deciding.
type ReviewContext struct {
	Intake       domain.CaseIntake `json:"intake"`
	Agents       []domain.User     `json:"agents"`
	Checklist    []CheckItem       `json:"checklist"`
	FailedChecks []string          `json:"failedChecks"`
}

// Checklist evaluates the acceptance checks of an intake.
func Checklist(in domain.CaseIntake) []CheckItem {
	debtorComplete := in.DebtorName != "" && in.DebtorEmail != "" &&
		in.DebtorAddress != nil && in.DebtorAddress.City != "" && in.DebtorAddress.Country != ""

	financial := len(in.Invoices) > 0
	for _, inv := range in.Invoices {
		if inv.Amount <= 0 || inv.InvoiceNumber == "" || inv.IssueDate == "" || inv.DueDate == "" {
			financial = false
			break
		}
	}

	return []CheckItem{
		{"service_level", "Service Level Selected", "Valid service level is chosen", true, in.ServiceLevelID != ""},
		{"debt_status", "Debt Status Selected", "Debt status is specified", true, in.DebtStatusID != ""},
		{"debtor_info", "Debtor Information Complete", "Name, email, and address provided", true, debtorComplete},
		{"gdpr_compliance", "GDPR Compliance", "GDPR status and lawful basis if required", true, !in.IsGdprSubject || in.LawfulBasisID != ""},
		{"invoices_present", "Invoices Present", "At least one invoice with valid data", true, len(in.Invoices) > 0},
		{"financial_data", "Financial Data Valid", "Amounts are positive and dates are valid", true, financial},
		{"documents_uploaded", "Supporting Documents", "Relevant documents are uploaded", false, true},
	}
}

// failedRequired returns the titles of required checks that did not pass.
func failedRequired(items []CheckItem) []string {
	out := []string{}
	for _, c := range items {
		if c.Required && !c.Valid {
			out = append(out, c.Title)
		}
	}
	return out
}

// AcceptanceReviewer runs the acceptance review of submitted intakes.
type AcceptanceReviewer struct {
	intakes port.CaseIntakesAPI
	users   port.UsersAPI
	logger  *zap.Logger
}

// NewAcceptanceReviewer creates the reviewer. users may be nil when the
// backend cannot list users; the agent list is then empty.
func NewAcceptanceReviewer(intakes port.CaseIntakesAPI, users port.UsersAPI, logger *zap.Logger) *AcceptanceReviewer {
	return &AcceptanceReviewer{intakes: intakes, users: users, logger: logger}
}

// UsersOf returns the users API of c, or nil when c lacks the capability.
func UsersOf(c port.Client) port.UsersAPI {
	if !c.Capabilities().Has(domain.CapUsers) {
		return nil
	}
	return c.Users()
}

// Load fetches the intake and the active agents in parallel.
func (r *AcceptanceReviewer) Load(ctx context.Context, id string) (*ReviewContext, error) {
	ctx, span := reviewTracer.Start(ctx, "AcceptanceReviewer.Load")
	defer span.End()

	var (
		intake domain.CaseIntake
		agents = []domain.User{}
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		resp, err := r.intakes.GetCaseIntake(gctx, id)
		if err != nil {
			return fmt.Errorf("loading case intake %s: %w", id, err)
		}
		intake = resp.Data
		return nil
	})
	if r.users != nil {
		g.Go(func() error {
			active := true
			page, err := r.users.GetUsers(gctx, domain.UserFilter{
				Role:     []domain.Role{domain.RoleAgent},
				IsActive: &active,
				Limit:    100,
			})
			if err != nil {
				return fmt.Errorf("loading agents: %w", err)
			}
			agents = append(agents, page.Data...)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		r.logger.Error("failed to load acceptance review", zap.String("intake_id", id), zap.Error(err))
		return nil, err
	}

	checks := Checklist(intake)
	return &ReviewContext{
		Intake:       intake,
		Agents:       agents,
		Checklist:    checks,
		FailedChecks: failedRequired(checks),
	}, nil
}

// Submit applies the review decision after enforcing the rules of its action.
func (r *AcceptanceReviewer) Submit(ctx context.Context, id string, review domain.AcceptanceReview) (domain.CaseIntake, error) {
	ctx, span := reviewTracer.Start(ctx, "AcceptanceReviewer.Submit")
	defer span.End()

	review.CaseID = id
	ve := &domain.ValidationError{Message: "Review cannot be submitted"}

	switch review.Action {
	case domain.ReviewAccept:
		resp, err := r.intakes.GetCaseIntake(ctx, id)
		if err != nil {
			return domain.CaseIntake{}, fmt.Errorf("loading case intake %s: %w", id, err)
		}
		for _, title := range failedRequired(Checklist(resp.Data)) {
			ve.Add("checklist", title)
		}
		if blank(review.AssignedAgentID) {
			ve.Add("assignedAgentId", "An agent must be assigned to accept the case")
		}
	case domain.ReviewReject:
		if blank(review.RejectionReason) {
			ve.Add("rejectionReason", "Rejection reason is required")
		}
	case domain.ReviewRequestFixes:
		if len(review.FixesRequired) == 0 {
			ve.Add("fixesRequired", "Select at least one fix")
		}
	default:
		ve.Add("action", "must be accept, reject or request_fixes")
	}
	if err := failed(ve); err != nil {
		return domain.CaseIntake{}, err
	}

	resp, err := r.intakes.ReviewCaseIntake(ctx, id, review)
	if err != nil {
		r.logger.Error("review submission failed", zap.String("intake_id", id), zap.String("action", string(review.Action)), zap.Error(err))
		return domain.CaseIntake{}, fmt.Errorf("reviewing case intake %s: %w", id, err)
	}
	r.logger.Info("case intake reviewed", zap.String("intake_id", id), zap.String("action", string(review.Action)))
	return resp.Data, nil
}
