package payroll

import (
	"bytes"
	"fmt"

	"github.com/VANBAHIA/govrh/internal/domain/payroll"
	"github.com/jung-kurt/gofpdf"
)

// renderPayslipPDF builds a single-page A4 payslip document.
func renderPayslipPDF(payslip payroll.PayslipResponse) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, "Payslip")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 7, fmt.Sprintf("Employee: %s (%s)", payslip.Employee.Name, payslip.Employee.Registration))
	pdf.Ln(6)
	if payslip.Employee.Position != "" {
		pdf.Cell(0, 7, fmt.Sprintf("Position: %s", payslip.Employee.Position))
		pdf.Ln(6)
	}
	pdf.Cell(0, 7, fmt.Sprintf("Competency: %s  Type: %s", payslip.Competency, payslip.PeriodType))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Earnings")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 11)
	for _, item := range payslip.Earnings {
		pdf.Cell(130, 6, item.Description)
		pdf.CellFormat(40, 6, item.Amount.StringFixed(2), "", 0, "R", false, 0, "")
		pdf.Ln(6)
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Deductions")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 11)
	for _, item := range payslip.Deductions {
		pdf.Cell(130, 6, item.Description)
		pdf.CellFormat(40, 6, item.Amount.StringFixed(2), "", 0, "R", false, 0, "")
		pdf.Ln(6)
	}
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.Cell(130, 6, "Gross Total")
	pdf.CellFormat(40, 6, payslip.Totals.Gross.StringFixed(2), "", 0, "R", false, 0, "")
	pdf.Ln(6)
	pdf.Cell(130, 6, "Total Deductions")
	pdf.CellFormat(40, 6, payslip.Totals.Deductions.StringFixed(2), "", 0, "R", false, 0, "")
	pdf.Ln(6)
	pdf.Cell(130, 6, "Net Total")
	pdf.CellFormat(40, 6, payslip.Totals.Net.StringFixed(2), "", 0, "R", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render payslip pdf: %w", err)
	}
	return buf.Bytes(), nil
}
