// Package render produces the documents the embedded store keeps in object
// storage: invoice PDFs and GDPR export workbooks.
package render

import (
	"bytes"
	"fmt"

	"github.com/boddenberg/collections-bfa-go/internal/domain"

	"github.com/jung-kurt/gofpdf"
)

// InvoicePDF renders a single-page A4 invoice.
func InvoicePDF(inv domain.Invoice) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle("Invoice "+inv.InvoiceNumber, true)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, tr("Invoice "+inv.InvoiceNumber))
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 10)
	for _, line := range [][2]string{
		{"Client", inv.ClientName},
		{"Case", inv.CaseName},
		{"Status", string(inv.Status)},
		{"Issued", inv.CreatedAt.Format("2006-01-02")},
		{"Due", inv.DueDate},
	} {
		pdf.CellFormat(30, 6, line[0], "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 6, tr(line[1]), "", 1, "L", false, 0, "")
	}
	pdf.Ln(6)

	widths := []float64{80, 20, 30, 20, 30}
	pdf.SetFont("Helvetica", "B", 10)
	for i, h := range []string{"Description", "Qty", "Unit price", "VAT %", "Total"} {
		align := "R"
		if i == 0 {
			align = "L"
		}
		pdf.CellFormat(widths[i], 7, h, "B", 0, align, false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	for _, it := range inv.Items {
		pdf.CellFormat(widths[0], 6, tr(it.Description), "", 0, "L", false, 0, "")
		pdf.CellFormat(widths[1], 6, fmt.Sprintf("%g", it.Quantity), "", 0, "R", false, 0, "")
		pdf.CellFormat(widths[2], 6, money(it.UnitPrice), "", 0, "R", false, 0, "")
		pdf.CellFormat(widths[3], 6, fmt.Sprintf("%g", it.VatRate), "", 0, "R", false, 0, "")
		pdf.CellFormat(widths[4], 6, money(it.Total), "", 1, "R", false, 0, "")
	}
	pdf.Ln(4)

	for _, t := range [][2]string{
		{"Net", money(inv.Amount)},
		{"VAT", money(inv.VatAmount)},
		{"Total " + inv.Currency, money(inv.TotalAmount)},
	} {
		pdf.CellFormat(150, 6, t[0], "", 0, "R", false, 0, "")
		pdf.CellFormat(30, 6, t[1], "", 1, "R", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render invoice pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func money(v float64) string {
	return fmt.Sprintf("%.2f", v)
}
