package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ============================================================
// Case Intakes (pre-acceptance drafts of a case)
// ============================================================

// IntakeStatus: draft → submitted → under_review → accepted | needs_info | rejected.
type IntakeStatus string

const (
	IntakeDraft       IntakeStatus = "draft"
	IntakeSubmitted   IntakeStatus = "submitted"
	IntakeUnderReview IntakeStatus = "under_review"
	IntakeAccepted    IntakeStatus = "accepted"
	IntakeNeedsInfo   IntakeStatus = "needs_info"
	IntakeRejected    IntakeStatus = "rejected"
)

var intakeTransitions = map[IntakeStatus][]IntakeStatus{
	IntakeDraft:       {IntakeSubmitted},
	IntakeNeedsInfo:   {IntakeSubmitted},
	IntakeSubmitted:   {IntakeUnderReview, IntakeAccepted, IntakeRejected, IntakeNeedsInfo},
	IntakeUnderReview: {IntakeAccepted, IntakeRejected, IntakeNeedsInfo},
}

// CanTransition reports whether the workflow allows s → to.
func (s IntakeStatus) CanTransition(to IntakeStatus) bool {
	return containsStatus(intakeTransitions[s], to)
}

// Terminal reports whether no further transition exists.
func (s IntakeStatus) Terminal() bool {
	return s == IntakeAccepted || s == IntakeRejected
}

// Editable reports whether the intake content may still be changed by its owner.
func (s IntakeStatus) Editable() bool {
	return s == IntakeDraft || s == IntakeNeedsInfo
}

// DebtorType distinguishes private persons from companies.
type DebtorType string

const (
	DebtorIndividual DebtorType = "individual"
	DebtorCompany    DebtorType = "company"
)

// CaseIntake is a case before acceptance. Totals equal the sums of its invoices.
type CaseIntake struct {
	ID        string `json:"id"`
	Reference string `json:"reference"`

	ContractID     string        `json:"contractId,omitempty"`
	ServiceLevelID string        `json:"serviceLevelId,omitempty"`
	ServiceLevel   *ServiceLevel `json:"serviceLevel,omitempty"`
	DebtStatusID   string        `json:"debtStatusId,omitempty"`
	DebtStatus     *DebtStatus   `json:"debtStatus,omitempty"`

	DebtorName     string       `json:"debtorName"`
	DebtorType     DebtorType   `json:"debtorType"`
	DebtorTaxID    string       `json:"debtorTaxId,omitempty"`
	DebtorVatID    string       `json:"debtorVatId,omitempty"`
	DebtorEmail    string       `json:"debtorEmail,omitempty"`
	DebtorPhone    string       `json:"debtorPhone,omitempty"`
	DebtorAddress  *Address     `json:"debtorAddress,omitempty"`
	DebtorCountry  string       `json:"debtorCountry,omitempty"`
	IsGdprSubject  bool         `json:"isGdprSubject"`
	LawfulBasisID  string       `json:"lawfulBasisId,omitempty"`
	LawfulBasis    *LawfulBasis `json:"lawfulBasis,omitempty"`
	TotalAmount    float64      `json:"totalAmount"`
	TotalVat       float64      `json:"totalVat"`
	TotalPenalties float64      `json:"totalPenalties"`
	TotalInterest  float64      `json:"totalInterest"`
	TotalFees      float64      `json:"totalFees"`
	CurrencyCode   string       `json:"currencyCode"`

	Status IntakeStatus `json:"status"`

	Notes           string     `json:"notes,omitempty"`
	ClientID        string     `json:"clientId"`
	AssignedAgentID string     `json:"assignedAgentId,omitempty"`
	CreatedBy       string     `json:"createdBy"`
	SubmittedAt     *time.Time `json:"submittedAt,omitempty"`
	ReviewedAt      *time.Time `json:"reviewedAt,omitempty"`
	ReviewedBy      string     `json:"reviewedBy,omitempty"`
	ReviewNotes     string     `json:"reviewNotes,omitempty"`
	RejectionReason string     `json:"rejectionReason,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Invoices    []CaseInvoice    `json:"invoices,omitempty"`
	Messages    []CaseMessage    `json:"messages,omitempty"`
	AuditEvents []CaseAuditEvent `json:"auditEvents,omitempty"`
}

// CaseInvoice is one billable line of an intake. Immutable after acceptance.
type CaseInvoice struct {
	ID            string    `json:"id"`
	CaseID        string    `json:"caseId"`
	InvoiceNumber string    `json:"invoiceNumber"`
	IssueDate     string    `json:"issueDate"`
	DueDate       string    `json:"dueDate"`
	Amount        float64   `json:"amount"`
	VatAmount     float64   `json:"vatAmount"`
	Penalties     float64   `json:"penalties"`
	Interest      float64   `json:"interest"`
	Fees          float64   `json:"fees"`
	CurrencyCode  string    `json:"currencyCode"`
	Description   string    `json:"description,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// InvoiceLine is a CaseInvoice before it is stored.
type InvoiceLine struct {
	InvoiceNumber string  `json:"invoiceNumber" validate:"required"`
	IssueDate     string  `json:"issueDate" validate:"required,datetime=2006-01-02"`
	DueDate       string  `json:"dueDate" validate:"required,datetime=2006-01-02"`
	Amount        float64 `json:"amount" validate:"gt=0"`
	VatAmount     float64 `json:"vatAmount" validate:"gte=0"`
	Penalties     float64 `json:"penalties" validate:"gte=0"`
	Interest      float64 `json:"interest" validate:"gte=0"`
	Fees          float64 `json:"fees" validate:"gte=0"`
	CurrencyCode  string  `json:"currencyCode"`
	Description   string  `json:"description,omitempty"`
}

// MessageType of an intake conversation entry.
type MessageType string

const (
	MessageUser   MessageType = "user"
	MessageSystem MessageType = "system"
	MessageAuto   MessageType = "auto"
)

// CaseMessage is one entry of the case conversation.
type CaseMessage struct {
	ID          string      `json:"id"`
	CaseID      string      `json:"caseId"`
	MessageType MessageType `json:"messageType"`
	SenderID    string      `json:"senderId"`
	SenderName  string      `json:"senderName"`
	Content     string      `json:"content"`
	Mentions    []string    `json:"mentions"`
	IsInternal  bool        `json:"isInternal"`
	CreatedAt   time.Time   `json:"createdAt"`
}

// NewCaseMessage is the payload of AddCaseIntakeMessage.
type NewCaseMessage struct {
	MessageType MessageType `json:"messageType,omitempty"`
	Content     string      `json:"content"`
	Mentions    []string    `json:"mentions,omitempty"`
	IsInternal  bool        `json:"isInternal"`
}

// CaseAuditEvent records a workflow action on an intake.
type CaseAuditEvent struct {
	ID               string         `json:"id"`
	CaseID           string         `json:"caseId"`
	EventType        string         `json:"eventType"`
	EventDescription string         `json:"eventDescription"`
	ActorID          string         `json:"actorId"`
	ActorName        string         `json:"actorName"`
	Metadata         map[string]any `json:"metadata,omitempty"`
	CreatedAt        time.Time      `json:"createdAt"`
}

// CreateCaseIntakeRequest is the payload of the intake wizard.
type CreateCaseIntakeRequest struct {
	ContractID     string `json:"contractId,omitempty"`
	ServiceLevelID string `json:"serviceLevelId" validate:"required"`
	DebtStatusID   string `json:"debtStatusId" validate:"required"`

	DebtorName    string     `json:"debtorName" validate:"required"`
	DebtorType    DebtorType `json:"debtorType" validate:"omitempty,oneof=individual company"`
	DebtorTaxID   string     `json:"debtorTaxId,omitempty"`
	DebtorVatID   string     `json:"debtorVatId,omitempty"`
	DebtorEmail   string     `json:"debtorEmail,omitempty" validate:"required,email"`
	DebtorPhone   string     `json:"debtorPhone,omitempty"`
	DebtorAddress *Address   `json:"debtorAddress,omitempty"`
	DebtorCountry string     `json:"debtorCountry,omitempty"`
	IsGdprSubject bool       `json:"isGdprSubject"`
	LawfulBasisID string     `json:"lawfulBasisId,omitempty" validate:"required_if=IsGdprSubject true"`

	CurrencyCode string        `json:"currencyCode" validate:"required,len=3"`
	Invoices     []InvoiceLine `json:"invoices" validate:"required,min=1,dive"`

	Notes    string `json:"notes,omitempty"`
	ClientID string `json:"clientId" validate:"required"`
}

// CaseIntakeUpdate is a partial update of an editable intake.
type CaseIntakeUpdate struct {
	ContractID      *string       `json:"contractId,omitempty"`
	ServiceLevelID  *string       `json:"serviceLevelId,omitempty"`
	DebtStatusID    *string       `json:"debtStatusId,omitempty"`
	DebtorName      *string       `json:"debtorName,omitempty"`
	DebtorType      *DebtorType   `json:"debtorType,omitempty"`
	DebtorTaxID     *string       `json:"debtorTaxId,omitempty"`
	DebtorVatID     *string       `json:"debtorVatId,omitempty"`
	DebtorEmail     *string       `json:"debtorEmail,omitempty"`
	DebtorPhone     *string       `json:"debtorPhone,omitempty"`
	DebtorAddress   *Address      `json:"debtorAddress,omitempty"`
	DebtorCountry   *string       `json:"debtorCountry,omitempty"`
	IsGdprSubject   *bool         `json:"isGdprSubject,omitempty"`
	LawfulBasisID   *string       `json:"lawfulBasisId,omitempty"`
	CurrencyCode    *string       `json:"currencyCode,omitempty"`
	Notes           *string       `json:"notes,omitempty"`
	AssignedAgentID *string       `json:"assignedAgentId,omitempty"`
	Invoices        []InvoiceLine `json:"invoices,omitempty"`
}

// ReviewAction is the reviewer's decision.
type ReviewAction string

const (
	ReviewAccept       ReviewAction = "accept"
	ReviewReject       ReviewAction = "reject"
	ReviewRequestFixes ReviewAction = "request_fixes"
)

// Outcome is the intake status a review action leads to.
func (a ReviewAction) Outcome() (IntakeStatus, bool) {
	switch a {
	case ReviewAccept:
		return IntakeAccepted, true
	case ReviewReject:
		return IntakeRejected, true
	case ReviewRequestFixes:
		return IntakeNeedsInfo, true
	}
	return "", false
}

// AcceptanceReview is the payload of ReviewCaseIntake.
type AcceptanceReview struct {
	CaseID          string       `json:"caseId"`
	Action          ReviewAction `json:"action"`
	ReviewNotes     string       `json:"reviewNotes,omitempty"`
	RejectionReason string       `json:"rejectionReason,omitempty"`
	FixesRequired   []string     `json:"fixesRequired,omitempty"`
	AssignedAgentID string       `json:"assignedAgentId,omitempty"`
}

// CaseIntakeFilter narrows GetCaseIntakes.
type CaseIntakeFilter struct {
	Status          []IntakeStatus
	ClientID        string
	AssignedAgentID string
	Search          string
	Cursor          string
	Limit           int
}

// Matches reports whether in satisfies every predicate of the filter.
func (f CaseIntakeFilter) Matches(in CaseIntake) bool {
	if len(f.Status) > 0 && !containsStatus(f.Status, in.Status) {
		return false
	}
	if f.ClientID != "" && in.ClientID != f.ClientID {
		return false
	}
	if f.AssignedAgentID != "" && in.AssignedAgentID != f.AssignedAgentID {
		return false
	}
	if f.Search != "" && !containsFold(f.Search, in.Reference, in.DebtorName, in.DebtorEmail) {
		return false
	}
	return true
}

// Totals are the computed financial sums of an intake.
type Totals struct {
	Amount    float64 `json:"totalAmount"`
	Vat       float64 `json:"totalVat"`
	Penalties float64 `json:"totalPenalties"`
	Interest  float64 `json:"totalInterest"`
	Fees      float64 `json:"totalFees"`
}

// Grand is the sum of every component, the amount the debtor owes.
func (t Totals) Grand() float64 {
	return decimal.Sum(
		decimal.NewFromFloat(t.Amount),
		decimal.NewFromFloat(t.Vat),
		decimal.NewFromFloat(t.Penalties),
		decimal.NewFromFloat(t.Interest),
		decimal.NewFromFloat(t.Fees),
	).InexactFloat64()
}

// IntakeTotals sums invoice lines component by component in decimal arithmetic.
func IntakeTotals(lines []InvoiceLine) Totals {
	var amount, vat, penalties, interest, fees decimal.Decimal
	for _, l := range lines {
		amount = amount.Add(decimal.NewFromFloat(l.Amount))
		vat = vat.Add(decimal.NewFromFloat(l.VatAmount))
		penalties = penalties.Add(decimal.NewFromFloat(l.Penalties))
		interest = interest.Add(decimal.NewFromFloat(l.Interest))
		fees = fees.Add(decimal.NewFromFloat(l.Fees))
	}
	return Totals{
		Amount:    amount.Round(2).InexactFloat64(),
		Vat:       vat.Round(2).InexactFloat64(),
		Penalties: penalties.Round(2).InexactFloat64(),
		Interest:  interest.Round(2).InexactFloat64(),
		Fees:      fees.Round(2).InexactFloat64(),
	}
}

// Lines converts stored invoices back to lines.
func Lines(invoices []CaseInvoice) []InvoiceLine {
	out := make([]InvoiceLine, 0, len(invoices))
	for _, inv := range invoices {
		out = append(out, InvoiceLine{
			InvoiceNumber: inv.InvoiceNumber,
			IssueDate:     inv.IssueDate,
			DueDate:       inv.DueDate,
			Amount:        inv.Amount,
			VatAmount:     inv.VatAmount,
			Penalties:     inv.Penalties,
			Interest:      inv.Interest,
			Fees:          inv.Fees,
			CurrencyCode:  inv.CurrencyCode,
			Description:   inv.Description,
		})
	}
	return out
}
