package rest

import (
	"context"
	"net/http"
	"time"

	"github.com/boddenberg/collections-bfa-go/internal/domain"
)

// ---- approvals ----

type approvalsAPI struct{ c *Client }

func (a approvalsAPI) GetApprovals(ctx context.Context, f domain.ApprovalFilter) (domain.Page[domain.Approval], error) {
	q := many(newQuery(), "state", f.State).
		str("type", string(f.Type)).
		str("caseId", f.CaseID).
		page(f.Cursor, f.Limit)
	return page[domain.Approval](ctx, a.c, request{op: "GetApprovals", cap: domain.CapApprovals, method: http.MethodGet, path: "/approvals", query: q.values()})
}

func (a approvalsAPI) GetApproval(ctx context.Context, id string) (domain.Response[domain.Approval], error) {
	return one[domain.Approval](ctx, a.c, request{op: "GetApproval", cap: domain.CapApprovals, method: http.MethodGet, path: "/approvals" + seg(id)})
}

func (a approvalsAPI) CreateApproval(ctx context.Context, req domain.CreateApprovalRequest) (domain.Response[domain.Approval], error) {
	return one[domain.Approval](ctx, a.c, request{op: "CreateApproval", cap: domain.CapApprovals, method: http.MethodPost, path: "/approvals", body: req})
}

func (a approvalsAPI) UpdateApproval(ctx context.Context, id string, decision domain.ApprovalDecision) (domain.Response[domain.Approval], error) {
	return one[domain.Approval](ctx, a.c, request{op: "UpdateApproval", cap: domain.CapApprovals, method: http.MethodPatch, path: "/approvals" + seg(id), body: decision})
}

func (a approvalsAPI) GetPendingApprovals(ctx context.Context) (domain.Response[[]domain.Approval], error) {
	return one[[]domain.Approval](ctx, a.c, request{op: "GetPendingApprovals", cap: domain.CapApprovals, method: http.MethodGet, path: "/approvals/pending"})
}

// ---- invoices ----

type invoicesAPI struct{ c *Client }

func (a invoicesAPI) GetInvoices(ctx context.Context, f domain.InvoiceFilter) (domain.Page[domain.Invoice], error) {
	q := many(newQuery(), "status", f.Status).
		str("clientId", f.ClientID).
		str("caseId", f.CaseID).
		page(f.Cursor, f.Limit)
	return page[domain.Invoice](ctx, a.c, request{op: "GetInvoices", cap: domain.CapInvoices, method: http.MethodGet, path: "/invoices", query: q.values()})
}

func (a invoicesAPI) GetInvoice(ctx context.Context, id string) (domain.Response[domain.Invoice], error) {
	return one[domain.Invoice](ctx, a.c, request{op: "GetInvoice", cap: domain.CapInvoices, method: http.MethodGet, path: "/invoices" + seg(id)})
}

func (a invoicesAPI) CreateInvoice(ctx context.Context, in domain.InvoiceInput) (domain.Response[domain.Invoice], error) {
	return one[domain.Invoice](ctx, a.c, request{op: "CreateInvoice", cap: domain.CapInvoices, method: http.MethodPost, path: "/invoices", body: in})
}

func (a invoicesAPI) UpdateInvoice(ctx context.Context, id string, in domain.InvoiceInput) (domain.Response[domain.Invoice], error) {
	return one[domain.Invoice](ctx, a.c, request{op: "UpdateInvoice", cap: domain.CapInvoices, method: http.MethodPatch, path: "/invoices" + seg(id), body: in})
}

func (a invoicesAPI) DeleteInvoice(ctx context.Context, id string) (domain.Empty, error) {
	return empty(ctx, a.c, request{op: "DeleteInvoice", cap: domain.CapInvoices, method: http.MethodDelete, path: "/invoices" + seg(id)})
}

func (a invoicesAPI) SendInvoice(ctx context.Context, id string) (domain.Empty, error) {
	return empty(ctx, a.c, request{op: "SendInvoice", cap: domain.CapInvoices, method: http.MethodPost, path: "/invoices" + seg(id) + "/send"})
}

func (a invoicesAPI) MarkAsPaid(ctx context.Context, id string, paidAt *time.Time) (domain.Response[domain.Invoice], error) {
	body := struct {
		PaidAt *time.Time `json:"paidAt,omitempty"`
	}{paidAt}
	return one[domain.Invoice](ctx, a.c, request{op: "MarkAsPaid", cap: domain.CapInvoices, method: http.MethodPost, path: "/invoices" + seg(id) + "/mark-paid", body: body})
}

func (a invoicesAPI) GeneratePDF(ctx context.Context, id string) (domain.Response[domain.PdfLink], error) {
	return one[domain.PdfLink](ctx, a.c, request{op: "GeneratePDF", cap: domain.CapInvoicePDF, method: http.MethodPost, path: "/invoices" + seg(id) + "/pdf"})
}

// ---- GDPR ----

type gdprAPI struct{ c *Client }

func (a gdprAPI) GetRequests(ctx context.Context, f domain.GdprFilter) (domain.Page[domain.GdprRequest], error) {
	q := many(many(newQuery(), "type", f.Type), "status", f.Status).page(f.Cursor, f.Limit)
	return page[domain.GdprRequest](ctx, a.c, request{op: "GetGdprRequests", cap: domain.CapGdpr, method: http.MethodGet, path: "/gdpr/requests", query: q.values()})
}

func (a gdprAPI) GetRequest(ctx context.Context, id string) (domain.Response[domain.GdprRequest], error) {
	return one[domain.GdprRequest](ctx, a.c, request{op: "GetGdprRequest", cap: domain.CapGdpr, method: http.MethodGet, path: "/gdpr/requests" + seg(id)})
}

func (a gdprAPI) CreateRequest(ctx context.Context, req domain.CreateGdprRequest) (domain.Response[domain.GdprRequest], error) {
	return one[domain.GdprRequest](ctx, a.c, request{op: "CreateGdprRequest", cap: domain.CapGdpr, method: http.MethodPost, path: "/gdpr/requests", body: req})
}

func (a gdprAPI) UpdateRequest(ctx context.Context, id string, upd domain.GdprRequestUpdate) (domain.Response[domain.GdprRequest], error) {
	return one[domain.GdprRequest](ctx, a.c, request{op: "UpdateGdprRequest", cap: domain.CapGdpr, method: http.MethodPatch, path: "/gdpr/requests" + seg(id), body: upd})
}

func (a gdprAPI) ExportData(ctx context.Context, subjectID string) (domain.Response[domain.DownloadLink], error) {
	return one[domain.DownloadLink](ctx, a.c, request{
		op: "ExportData", cap: domain.CapGdprExport, method: http.MethodPost, path: "/gdpr/export",
		body: map[string]string{"subjectId": subjectID},
	})
}

func (a gdprAPI) DeleteData(ctx context.Context, subjectID, reason string) (domain.Empty, error) {
	return empty(ctx, a.c, request{
		op: "DeleteData", cap: domain.CapGdpr, method: http.MethodPost, path: "/gdpr/delete",
		body: map[string]string{"subjectId": subjectID, "reason": reason},
	})
}

func (a gdprAPI) ProcessRequest(ctx context.Context, id string) (domain.Response[domain.GdprRequest], error) {
	return one[domain.GdprRequest](ctx, a.c, request{op: "ProcessGdprRequest", cap: domain.CapGdpr, method: http.MethodPost, path: "/gdpr/requests" + seg(id) + "/process"})
}
