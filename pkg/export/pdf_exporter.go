package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

// Section pairs a dataset with a display title for multi-table documents.
type Section struct {
	Title   string
	Dataset Dataset
}

// PDFExporter renders datasets into a basic tabular PDF.
type PDFExporter struct{}

// NewPDFExporter constructs a PDF exporter.
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

// Render creates a PDF document with an optional title and table body.
func (e *PDFExporter) Render(data Dataset, title string) ([]byte, error) {
	return e.RenderSections(title, []Section{{Dataset: data}})
}

// RenderSections creates a PDF with one table per section, used for the
// combined review sheet covering every form.
func (e *PDFExporter) RenderSections(title string, sections []Section) ([]byte, error) {
	if len(sections) == 0 {
		return nil, fmt.Errorf("pdf requires at least one section")
	}
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(10, 15, 10)
	pdf.AddPage()

	if title != "" {
		pdf.SetFont("Arial", "B", 14)
		pdf.CellFormat(0, 10, strings.ToUpper(title), "", 1, "C", false, 0, "")
		pdf.Ln(5)
	}

	for _, section := range sections {
		if len(section.Dataset.Headers) == 0 {
			return nil, fmt.Errorf("pdf section requires at least one header")
		}
		if section.Title != "" {
			pdf.SetFont("Arial", "B", 12)
			pdf.CellFormat(0, 8, section.Title, "", 1, "L", false, 0, "")
			pdf.Ln(2)
		}

		pdf.SetFont("Arial", "B", 9)
		colWidth := 277.0 / float64(len(section.Dataset.Headers))
		for _, header := range section.Dataset.Headers {
			pdf.CellFormat(colWidth, 8, header, "1", 0, "C", false, 0, "")
		}
		pdf.Ln(-1)

		pdf.SetFont("Arial", "", 8)
		for _, row := range section.Dataset.Rows {
			for _, header := range section.Dataset.Headers {
				pdf.CellFormat(colWidth, 7, row[header], "1", 0, "", false, 0, "")
			}
			pdf.Ln(-1)
		}
		pdf.Ln(6)
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
