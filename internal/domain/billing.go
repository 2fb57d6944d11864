package domain

import "time"

// ============================================================
// Billing invoices (client-facing, for collection services)
// ============================================================

type InvoiceStatus string

const (
	InvoiceDraft     InvoiceStatus = "draft"
	InvoiceSent      InvoiceStatus = "sent"
	InvoicePaid      InvoiceStatus = "paid"
	InvoiceOverdue   InvoiceStatus = "overdue"
	InvoiceCancelled InvoiceStatus = "cancelled"
)

var invoiceTransitions = map[InvoiceStatus][]InvoiceStatus{
	InvoiceDraft:   {InvoiceSent, InvoiceCancelled},
	InvoiceSent:    {InvoicePaid, InvoiceOverdue, InvoiceCancelled},
	InvoiceOverdue: {InvoicePaid, InvoiceCancelled},
}

// CanTransition reports whether an invoice may move from s to to.
func (s InvoiceStatus) CanTransition(to InvoiceStatus) bool {
	return containsStatus(invoiceTransitions[s], to)
}

type InvoiceItem struct {
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	UnitPrice   float64 `json:"unitPrice"`
	VatRate     float64 `json:"vatRate"`
	Total       float64 `json:"total"`
}

// Invoice bills a client for collection work on a case.
type Invoice struct {
	ID            string        `json:"id"`
	CaseID        string        `json:"caseId"`
	CaseName      string        `json:"caseName"`
	ClientID      string        `json:"clientId"`
	ClientName    string        `json:"clientName"`
	InvoiceNumber string        `json:"invoiceNumber"`
	Amount        float64       `json:"amount"`
	VatAmount     float64       `json:"vatAmount"`
	TotalAmount   float64       `json:"totalAmount"`
	Currency      string        `json:"currency"`
	Status        InvoiceStatus `json:"status"`
	DueDate       string        `json:"dueDate"`
	CreatedAt     time.Time     `json:"createdAt"`
	PaidAt        *time.Time    `json:"paidAt,omitempty"`
	PdfURL        string        `json:"pdfUrl,omitempty"`
	Items         []InvoiceItem `json:"items"`
}

// InvoiceInput is the partial payload for create and update.
type InvoiceInput struct {
	CaseID        *string        `json:"caseId,omitempty"`
	CaseName      *string        `json:"caseName,omitempty"`
	ClientID      *string        `json:"clientId,omitempty"`
	ClientName    *string        `json:"clientName,omitempty"`
	InvoiceNumber *string        `json:"invoiceNumber,omitempty"`
	Amount        *float64       `json:"amount,omitempty"`
	VatAmount     *float64       `json:"vatAmount,omitempty"`
	TotalAmount   *float64       `json:"totalAmount,omitempty"`
	Currency      *string        `json:"currency,omitempty"`
	Status        *InvoiceStatus `json:"status,omitempty"`
	DueDate       *string        `json:"dueDate,omitempty"`
	Items         []InvoiceItem  `json:"items,omitempty"`
}

type InvoiceFilter struct {
	Status   []InvoiceStatus
	ClientID string
	CaseID   string
	Cursor   string
	Limit    int
}

// PdfLink is returned by GeneratePDF.
type PdfLink struct {
	PdfURL string `json:"pdfUrl"`
}
