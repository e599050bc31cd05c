package export

import (
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"

	"github.com/Tiliavir/hours-calendar/internal/timecalc"
)

var pdfWidths = []float64{26, 18, 18, 18, 18, 70, 18}

// WritePDF writes the report as an A4 table with a summary line.
func WritePDF(w io.Writer, r Report) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	meta := r.metadata()
	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(0, 10, meta[0][0])
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 9)
	pdf.Cell(0, 6, meta[1][0])
	pdf.Ln(10)

	pdf.SetFont("Arial", "B", 10)
	for i, h := range header {
		pdf.CellFormat(pdfWidths[i], 7, h, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 10)
	for _, rec := range r.rows() {
		for i, v := range rec {
			align := "L"
			if i == 3 || i == 6 {
				align = "R"
			}
			pdf.CellFormat(pdfWidths[i], 6, v, "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	pdf.Ln(6)
	pdf.SetFont("Arial", "B", 11)
	pdf.Cell(0, 8, fmt.Sprintf("Total: %s over %d days, %d rest days",
		timecalc.FormatHours(r.Summary.HoursWorked), r.Summary.DaysWorked, r.Summary.RestDays))

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("rendering pdf: %w", err)
	}
	return nil
}
