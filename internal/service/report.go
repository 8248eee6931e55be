package service

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/pkg/errors"

	"lovemirror-backend/internal/model"
	"lovemirror-backend/internal/scoring"
)

// renderAssessmentReport lays out one snapshot as an A4 PDF: headline
// score, a bar per category and the improvement plan for the weakest
// categories.
func renderAssessmentReport(h *model.AssessmentHistory, name string, generated time.Time) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(scoring.AssessmentTypeName(h.AssessmentType), true)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 18)
	pdf.Cell(0, 10, scoring.AssessmentTypeName(h.AssessmentType))
	pdf.Ln(10)

	pdf.SetFont("Arial", "", 11)
	if name != "" {
		pdf.Cell(0, 6, "Prepared for "+name)
		pdf.Ln(6)
	}
	pdf.Cell(0, 6, "Completed "+h.CompletedAt.Format("January 2, 2006"))
	pdf.Ln(12)

	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(0, 8, fmt.Sprintf("Overall: %.0f%%  -  %s", h.OverallPercentage, h.Badge))
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 11)
	for _, cs := range h.CategoryScores {
		pdf.CellFormat(80, 7, cs.Category, "", 0, "L", false, 0, "")
		y := pdf.GetY()
		pdf.SetFillColor(230, 230, 230)
		pdf.Rect(90, y+1, 80, 5, "F")
		pdf.SetFillColor(225, 29, 72)
		pdf.Rect(90, y+1, 80*cs.Percentage/100, 5, "F")
		pdf.SetX(175)
		pdf.CellFormat(20, 7, fmt.Sprintf("%.0f%%", cs.Percentage), "", 1, "R", false, 0, "")
	}

	if suggestions := scoring.GenerateSuggestions(h.LowestCategories); len(suggestions) > 0 {
		pdf.Ln(8)
		pdf.SetFont("Arial", "B", 14)
		pdf.Cell(0, 8, "Improvement plan")
		pdf.Ln(10)
		for _, s := range suggestions {
			pdf.SetFont("Arial", "B", 11)
			pdf.Cell(0, 6, fmt.Sprintf("%s (%s)", s.Title, s.Category))
			pdf.Ln(6)
			pdf.SetFont("Arial", "", 11)
			pdf.MultiCell(0, 6, fmt.Sprintf("%s. Timeline: %s.", s.Action, s.Timeline), "", "L", false)
			pdf.Ln(2)
		}
	}

	pdf.SetY(-20)
	pdf.SetFont("Arial", "I", 8)
	pdf.Cell(0, 6, "Generated "+generated.UTC().Format(time.RFC1123))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, errors.Wrap(err, "failed to render assessment report")
	}
	return buf.Bytes(), nil
}
