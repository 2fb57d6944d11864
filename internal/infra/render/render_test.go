package render_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/boddenberg/collections-bfa-go/internal/domain"
	"github.com/boddenberg/collections-bfa-go/internal/infra/render"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestInvoicePDF(t *testing.T) {
	out, err := render.InvoicePDF(domain.Invoice{
		InvoiceNumber: "INV-2024-001",
		ClientName:    "Müller GmbH",
		CaseName:      "CASE-1",
		Status:        domain.InvoiceSent,
		Currency:      "EUR",
		Amount:        100,
		VatAmount:     19,
		TotalAmount:   119,
		DueDate:       "2024-02-01",
		Items:         []domain.InvoiceItem{{Description: "Collection fee", Quantity: 1, UnitPrice: 100, VatRate: 19, Total: 119}},
	})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
}

func TestGdprExport(t *testing.T) {
	cases := []domain.Case{{
		Reference: "CASE-1",
		Status:    domain.CaseInProgress,
		Debtor:    domain.Debtor{Name: "Jane Roe", Email: "jane@example.com", Address: domain.Address{City: "Berlin", Country: "DE"}},
		Amount:    250,
		Currency:  "EUR",
	}}
	intakes := []domain.CaseIntake{{
		Reference:   "CI-ABCDEF12",
		Status:      domain.IntakeSubmitted,
		DebtorName:  "Jane Roe",
		DebtorEmail: "jane@example.com",
		TotalAmount: 1000,
		Invoices:    []domain.CaseInvoice{{InvoiceNumber: "A-1"}, {InvoiceNumber: "A-2"}},
	}}

	out, err := render.GdprExport("jane@example.com", time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC), cases, intakes)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer f.Close()

	v, err := f.GetCellValue(render.SheetSummary, "B1")
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", v)

	v, err = f.GetCellValue(render.SheetCases, "A2")
	require.NoError(t, err)
	assert.Equal(t, "CASE-1", v)

	v, err = f.GetCellValue(render.SheetIntakes, "M2")
	require.NoError(t, err)
	assert.Equal(t, "A-1, A-2", v)
}
