package render

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/boddenberg/collections-bfa-go/internal/domain"

	"github.com/xuri/excelize/v2"
)

// Sheet names of the GDPR export workbook.
const (
	SheetSummary = "Summary"
	SheetCases   = "Cases"
	SheetIntakes = "Intakes"
)

// GdprExport renders every case and intake held about subject into a workbook.
func GdprExport(subject string, generatedAt time.Time, cases []domain.Case, intakes []domain.CaseIntake) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetSummary); err != nil {
		return nil, err
	}
	for _, name := range []string{SheetCases, SheetIntakes} {
		if _, err := f.NewSheet(name); err != nil {
			return nil, err
		}
	}

	summary := [][]any{
		{"Data subject", subject},
		{"Generated at", generatedAt.UTC().Format(time.RFC3339)},
		{"Cases", len(cases)},
		{"Case intakes", len(intakes)},
	}
	if err := writeRows(f, SheetSummary, summary); err != nil {
		return nil, err
	}

	caseRows := [][]any{{"Reference", "Status", "Debtor", "Email", "Phone", "Street", "City", "Postal code", "Country", "Amount", "Currency", "Created"}}
	for _, c := range cases {
		caseRows = append(caseRows, []any{
			c.Reference, string(c.Status), c.Debtor.Name, c.Debtor.Email, c.Debtor.Phone,
			c.Debtor.Address.Street, c.Debtor.Address.City, c.Debtor.Address.PostalCode, c.Debtor.Address.Country,
			c.Amount, c.Currency, c.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	if err := writeRows(f, SheetCases, caseRows); err != nil {
		return nil, err
	}

	intakeRows := [][]any{{"Reference", "Status", "Debtor", "Type", "Tax ID", "VAT ID", "Email", "Phone", "Country", "Lawful basis", "Total", "Currency", "Invoices"}}
	for _, in := range intakes {
		numbers := make([]string, 0, len(in.Invoices))
		for _, inv := range in.Invoices {
			numbers = append(numbers, inv.InvoiceNumber)
		}
		intakeRows = append(intakeRows, []any{
			in.Reference, string(in.Status), in.DebtorName, string(in.DebtorType), in.DebtorTaxID, in.DebtorVatID,
			in.DebtorEmail, in.DebtorPhone, in.DebtorCountry, in.LawfulBasisID, in.TotalAmount, in.CurrencyCode,
			strings.Join(numbers, ", "),
		})
	}
	if err := writeRows(f, SheetIntakes, intakeRows); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("render gdpr export: %w", err)
	}
	return buf.Bytes(), nil
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}
