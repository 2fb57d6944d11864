package domain

import (
	"strings"
	"time"
)

// ============================================================
// Collection Cases
// ============================================================

// CaseStatus: new → in_progress → awaiting_approval → legal_stage → closed.
type CaseStatus string

const (
	CaseNew              CaseStatus = "new"
	CaseInProgress       CaseStatus = "in_progress"
	CaseAwaitingApproval CaseStatus = "awaiting_approval"
	CaseLegalStage       CaseStatus = "legal_stage"
	CaseClosed           CaseStatus = "closed"
)

// ActiveCaseStatuses are every status except closed.
var ActiveCaseStatuses = []CaseStatus{CaseNew, CaseInProgress, CaseAwaitingApproval, CaseLegalStage}

// Address of a debtor. City and country are required on cases, optional on intakes.
type Address struct {
	Street     string `json:"street,omitempty"`
	City       string `json:"city,omitempty"`
	PostalCode string `json:"postalCode,omitempty"`
	Country    string `json:"country,omitempty"`
}

// Debtor is the party owing the debt.
type Debtor struct {
	Name    string  `json:"name"`
	Email   string  `json:"email"`
	Phone   string  `json:"phone,omitempty"`
	Address Address `json:"address"`
}

// Case is a debt-collection matter. Reference is immutable once created.
type Case struct {
	ID                string     `json:"id"`
	Reference         string     `json:"reference"`
	ClientID          string     `json:"clientId"`
	ClientName        string     `json:"clientName"`
	AssignedAgentID   string     `json:"assignedAgentId,omitempty"`
	AssignedAgentName string     `json:"assignedAgentName,omitempty"`
	Debtor            Debtor     `json:"debtor"`
	Amount            float64    `json:"amount"`
	Currency          string     `json:"currency"`
	OriginalAmount    *float64   `json:"originalAmount,omitempty"`
	Status            CaseStatus `json:"status"`
	Description       string     `json:"description,omitempty"`
	OriginalCreditor  string     `json:"originalCreditor,omitempty"`
	CreatedAt         time.Time  `json:"createdAt"`
	UpdatedAt         time.Time  `json:"updatedAt"`
	DueDate           string     `json:"dueDate,omitempty"`
	LastActionAt      *time.Time `json:"lastActionAt,omitempty"`
	Tags              []string   `json:"tags,omitempty"`
}

// CreateCaseRequest is the payload of the new-case form.
type CreateCaseRequest struct {
	Debtor           Debtor  `json:"debtor"`
	Amount           float64 `json:"amount"`
	Currency         string  `json:"currency"`
	Description      string  `json:"description,omitempty"`
	Reference        string  `json:"reference"`
	OriginalCreditor string  `json:"originalCreditor,omitempty"`
	ClientID         string  `json:"clientId"`
}

// CaseUpdate is a partial update; nil fields are left untouched.
type CaseUpdate struct {
	AssignedAgentID  *string     `json:"assignedAgentId,omitempty"`
	Debtor           *Debtor     `json:"debtor,omitempty"`
	Amount           *float64    `json:"amount,omitempty"`
	Currency         *string     `json:"currency,omitempty"`
	Status           *CaseStatus `json:"status,omitempty"`
	Description      *string     `json:"description,omitempty"`
	OriginalCreditor *string     `json:"originalCreditor,omitempty"`
	DueDate          *string     `json:"dueDate,omitempty"`
	Tags             []string    `json:"tags,omitempty"`
}

// CaseEventType enumerates timeline entries.
type CaseEventType string

const (
	EventStatusChange     CaseEventType = "status_change"
	EventDocumentUpload   CaseEventType = "document_upload"
	EventApprovalRequest  CaseEventType = "approval_request"
	EventMessageSent      CaseEventType = "message_sent"
	EventAssignmentChange CaseEventType = "assignment_change"
)

// CaseEvent is one entry of a case timeline.
type CaseEvent struct {
	ID          string         `json:"id"`
	CaseID      string         `json:"caseId"`
	Type        CaseEventType  `json:"type"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	CreatedAt   time.Time      `json:"createdAt"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

// CaseFilter narrows GetCases. Zero values mean "no constraint".
type CaseFilter struct {
	Status          []CaseStatus
	ClientID        string
	AssignedAgentID string
	AmountMin       *float64
	AmountMax       *float64
	Search          string
	Cursor          string
	Limit           int
}

// Matches reports whether c satisfies every predicate of the filter.
func (f CaseFilter) Matches(c Case) bool {
	if len(f.Status) > 0 && !containsStatus(f.Status, c.Status) {
		return false
	}
	if f.ClientID != "" && c.ClientID != f.ClientID {
		return false
	}
	if f.AssignedAgentID != "" && c.AssignedAgentID != f.AssignedAgentID {
		return false
	}
	if f.AmountMin != nil && c.Amount < *f.AmountMin {
		return false
	}
	if f.AmountMax != nil && c.Amount > *f.AmountMax {
		return false
	}
	if f.Search != "" && !containsFold(f.Search, c.Reference, c.Debtor.Name, c.Debtor.Email) {
		return false
	}
	return true
}

func containsStatus[S ~string](set []S, s S) bool {
	for _, v := range set {
		if v == s {
			return true
		}
	}
	return false
}

func containsFold(needle string, haystacks ...string) bool {
	n := strings.ToLower(strings.TrimSpace(needle))
	for _, h := range haystacks {
		if strings.Contains(strings.ToLower(h), n) {
			return true
		}
	}
	return false
}
