package supabase

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/boddenberg/collections-bfa-go/internal/domain"
	"github.com/boddenberg/collections-bfa-go/internal/infra/render"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ============================================================
// Billing invoices
// ============================================================

const defaultCurrency = "EUR"

type invoicesAPI struct{ c *Client }

func (a invoicesAPI) GetInvoices(ctx context.Context, f domain.InvoiceFilter) (domain.Page[domain.Invoice], error) {
	q := url.Values{}
	if len(f.Status) > 0 {
		q.Set("status", in(f.Status))
	}
	if f.ClientID != "" {
		q.Set("client_id", eq(f.ClientID))
	}
	if f.CaseID != "" {
		q.Set("case_id", eq(f.CaseID))
	}
	return listPage(ctx, a.c, "GetInvoices", "invoices", q, f.Cursor, f.Limit, invoiceRow.toDomain)
}

func (a invoicesAPI) GetInvoice(ctx context.Context, id string) (domain.Response[domain.Invoice], error) {
	row, err := selectOne[invoiceRow](ctx, a.c, "GetInvoice", "invoices", byID(id))
	if err != nil {
		return domain.Response[domain.Invoice]{}, err
	}
	return domain.OK(row.toDomain()), nil
}

func (a invoicesAPI) CreateInvoice(ctx context.Context, in domain.InvoiceInput) (domain.Response[domain.Invoice], error) {
	verr := &domain.ValidationError{Message: "Invalid invoice"}
	if in.InvoiceNumber == nil || strings.TrimSpace(*in.InvoiceNumber) == "" {
		verr.Add("invoiceNumber", "is required")
	}
	if in.Amount == nil || *in.Amount < 0 {
		verr.Add("amount", "must be zero or more")
	}
	if !verr.Empty() {
		return domain.Response[domain.Invoice]{}, verr
	}

	inv := domain.Invoice{
		ID:            uuid.NewString(),
		InvoiceNumber: strings.TrimSpace(*in.InvoiceNumber),
		Amount:        *in.Amount,
		Currency:      defaultCurrency,
		Status:        domain.InvoiceDraft,
		Items:         in.Items,
	}
	applyInvoiceInput(&inv, in)
	if in.TotalAmount == nil {
		inv.TotalAmount = grossTotal(inv.Amount, inv.VatAmount)
	}

	row, err := insertOne(ctx, a.c, "CreateInvoice", "invoices", invoiceFromDomain(inv))
	if err != nil {
		return domain.Response[domain.Invoice]{}, err
	}
	return domain.OK(row.toDomain()), nil
}

func (a invoicesAPI) UpdateInvoice(ctx context.Context, id string, in domain.InvoiceInput) (domain.Response[domain.Invoice], error) {
	current, err := selectOne[invoiceRow](ctx, a.c, "GetInvoice", "invoices", byID(id))
	if err != nil {
		return domain.Response[domain.Invoice]{}, err
	}
	if in.Status != nil && *in.Status != current.Status && !current.Status.CanTransition(*in.Status) {
		return domain.Response[domain.Invoice]{}, domain.Conflict(fmt.Sprintf("cannot move invoice from %s to %s", current.Status, *in.Status))
	}

	inv := current.toDomain()
	applyInvoiceInput(&inv, in)
	if in.InvoiceNumber != nil {
		inv.InvoiceNumber = strings.TrimSpace(*in.InvoiceNumber)
	}
	if in.Amount != nil {
		inv.Amount = *in.Amount
	}
	if in.TotalAmount == nil && (in.Amount != nil || in.VatAmount != nil) {
		inv.TotalAmount = grossTotal(inv.Amount, inv.VatAmount)
	}
	if in.Status != nil {
		inv.Status = *in.Status
	}

	row := invoiceFromDomain(inv)
	p := patch{
		"case_id":        nullable(row.CaseID),
		"case_name":      row.CaseName,
		"client_id":      nullable(row.ClientID),
		"client_name":    row.ClientName,
		"invoice_number": row.InvoiceNumber,
		"amount":         row.Amount,
		"vat_amount":     row.VatAmount,
		"total_amount":   row.TotalAmount,
		"currency":       row.Currency,
		"status":         row.Status,
		"due_date":       nullable(row.DueDate),
		"items":          row.Items,
	}

	q := byID(id)
	q.Set("status", eq(string(current.Status)))
	updated, err := patchOne[invoiceRow](ctx, a.c, "UpdateInvoice", "invoices", q, p)
	if domain.IsStatus(err, http.StatusNotFound) {
		return domain.Response[domain.Invoice]{}, domain.Conflict("invoice changed while it was being updated")
	}
	if err != nil {
		return domain.Response[domain.Invoice]{}, err
	}
	return domain.OK(updated.toDomain()), nil
}

func (a invoicesAPI) DeleteInvoice(ctx context.Context, id string) (domain.Empty, error) {
	if err := a.c.deleteOne(ctx, "DeleteInvoice", "invoices", id); err != nil {
		return domain.Empty{}, err
	}
	return domain.Done(), nil
}

func (a invoicesAPI) SendInvoice(ctx context.Context, id string) (domain.Empty, error) {
	if _, err := a.transition(ctx, "SendInvoice", id, domain.InvoiceSent, patch{}); err != nil {
		return domain.Empty{}, err
	}
	return domain.Done(), nil
}

func (a invoicesAPI) MarkAsPaid(ctx context.Context, id string, paidAt *time.Time) (domain.Response[domain.Invoice], error) {
	at := time.Now().UTC()
	if paidAt != nil {
		at = paidAt.UTC()
	}
	row, err := a.transition(ctx, "MarkAsPaid", id, domain.InvoicePaid, patch{"paid_at": at})
	if err != nil {
		return domain.Response[domain.Invoice]{}, err
	}
	return domain.OK(row.toDomain()), nil
}

// GeneratePDF renders the invoice, stores it and records the presigned link.
func (a invoicesAPI) GeneratePDF(ctx context.Context, id string) (domain.Response[domain.PdfLink], error) {
	if !a.c.caps.Has(domain.CapInvoicePDF) {
		return domain.Response[domain.PdfLink]{}, domain.NotImplemented("GeneratePDF")
	}
	row, err := selectOne[invoiceRow](ctx, a.c, "GetInvoice", "invoices", byID(id))
	if err != nil {
		return domain.Response[domain.PdfLink]{}, err
	}

	pdf, err := render.InvoicePDF(row.toDomain())
	if err != nil {
		return domain.Response[domain.PdfLink]{}, &domain.APIError{Status: http.StatusInternalServerError, Message: "PDF rendering failed", Details: err.Error()}
	}
	key := "invoices/" + id + ".pdf"
	link, err := a.c.storeObject(ctx, key, "application/pdf", pdf)
	if err != nil {
		return domain.Response[domain.PdfLink]{}, err
	}

	if _, err := patchOne[invoiceRow](ctx, a.c, "GeneratePDF", "invoices", byID(id), patch{"pdf_url": link}); err != nil {
		return domain.Response[domain.PdfLink]{}, err
	}
	return domain.OK(domain.PdfLink{PdfURL: link}), nil
}

func (a invoicesAPI) transition(ctx context.Context, op, id string, to domain.InvoiceStatus, p patch) (invoiceRow, error) {
	current, err := selectOne[invoiceRow](ctx, a.c, "GetInvoice", "invoices", byID(id))
	if err != nil {
		return invoiceRow{}, err
	}
	if !current.Status.CanTransition(to) {
		return invoiceRow{}, domain.Conflict(fmt.Sprintf("cannot move invoice from %s to %s", current.Status, to))
	}
	q := byID(id)
	q.Set("status", eq(string(current.Status)))
	row, err := patchOne[invoiceRow](ctx, a.c, op, "invoices", q, p.set("status", to))
	if domain.IsStatus(err, http.StatusNotFound) {
		return invoiceRow{}, domain.Conflict("invoice status changed concurrently")
	}
	return row, err
}

// applyInvoiceInput copies the optional fields shared by create and update.
func applyInvoiceInput(inv *domain.Invoice, in domain.InvoiceInput) {
	if in.CaseID != nil {
		inv.CaseID = *in.CaseID
	}
	if in.CaseName != nil {
		inv.CaseName = *in.CaseName
	}
	if in.ClientID != nil {
		inv.ClientID = *in.ClientID
	}
	if in.ClientName != nil {
		inv.ClientName = *in.ClientName
	}
	if in.VatAmount != nil {
		inv.VatAmount = *in.VatAmount
	}
	if in.TotalAmount != nil {
		inv.TotalAmount = *in.TotalAmount
	}
	if in.Currency != nil && *in.Currency != "" {
		inv.Currency = strings.ToUpper(*in.Currency)
	}
	if in.DueDate != nil {
		inv.DueDate = *in.DueDate
	}
	if in.Items != nil {
		inv.Items = in.Items
	}
}

func grossTotal(amount, vat float64) float64 {
	return decimal.NewFromFloat(amount).Add(decimal.NewFromFloat(vat)).Round(2).InexactFloat64()
}

// storeObject uploads data and returns a presigned download link.
func (c *Client) storeObject(ctx context.Context, key, contentType string, data []byte) (string, error) {
	if err := c.t.store.Put(ctx, key, contentType, bytes.NewReader(data), int64(len(data))); err != nil {
		return "", &domain.NetworkError{Message: "object store upload failed", Err: err}
	}
	link, err := c.t.store.PresignedURL(ctx, key)
	if err != nil {
		return "", &domain.NetworkError{Message: "object store presign failed", Err: err}
	}
	return link, nil
}
