package domain

import "time"

// ============================================================
// Approvals
// ============================================================

type ApprovalType string

const (
	ApprovalExpense            ApprovalType = "expense"
	ApprovalLegalEscalation    ApprovalType = "legal_escalation"
	ApprovalRetrieval          ApprovalType = "retrieval"
	ApprovalSettlementApproval ApprovalType = "settlement_approval"
	ApprovalPaymentPlan        ApprovalType = "payment_plan"
	ApprovalWriteOff           ApprovalType = "write_off"
)

// ApprovalState is decided once: pending → approved | rejected.
type ApprovalState string

const (
	ApprovalPending  ApprovalState = "pending"
	ApprovalApproved ApprovalState = "approved"
	ApprovalRejected ApprovalState = "rejected"
)

// Decided reports whether the approval already has a final state.
func (s ApprovalState) Decided() bool {
	return s == ApprovalApproved || s == ApprovalRejected
}

// FeeBreakdown itemises the collection fee behind an approval.
type FeeBreakdown struct {
	BaseAmount float64 `json:"baseAmount"`
	Percentage float64 `json:"percentage"`
	FixedFee   float64 `json:"fixedFee"`
	VatAmount  float64 `json:"vatAmount"`
	TotalFee   float64 `json:"totalFee"`
	Currency   string  `json:"currency"`
}

// Approval is a request for privileged authorization on a case.
type Approval struct {
	ID              string        `json:"id"`
	CaseID          string        `json:"caseId"`
	CaseName        string        `json:"caseName"`
	Type            ApprovalType  `json:"type"`
	State           ApprovalState `json:"state"`
	RequestedBy     string        `json:"requestedBy"`
	RequestedByName string        `json:"requestedByName"`
	Amount          *float64      `json:"amount,omitempty"`
	Currency        string        `json:"currency,omitempty"`
	Description     string        `json:"description"`
	ClauseID        string        `json:"clauseId,omitempty"`
	ClauseText      string        `json:"clauseText,omitempty"`
	FeeBreakdown    *FeeBreakdown `json:"feeBreakdown,omitempty"`
	CreatedAt       time.Time     `json:"createdAt"`
	DecidedAt       *time.Time    `json:"decidedAt,omitempty"`
	DecidedBy       string        `json:"decidedBy,omitempty"`
	DecisionNotes   string        `json:"decisionNotes,omitempty"`
}

type CreateApprovalRequest struct {
	CaseID      string       `json:"caseId"`
	Type        ApprovalType `json:"type"`
	Amount      *float64     `json:"amount,omitempty"`
	Currency    string       `json:"currency,omitempty"`
	Description string       `json:"description"`
	ClauseID    string       `json:"clauseId,omitempty"`
}

// ApprovalDecision is the admin's verdict.
type ApprovalDecision struct {
	State         ApprovalState `json:"state"`
	DecisionNotes string        `json:"decisionNotes,omitempty"`
}

type ApprovalFilter struct {
	State  []ApprovalState
	Type   ApprovalType
	CaseID string
	Cursor string
	Limit  int
}
