package main

import (
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

const (
	pdfPageWidth  = 210 // A4 width in mm
	pdfMargin     = 10  // margin in mm
	pdfLineHeight = 5   // line height in mm
	pdfFontSize   = 9
)

// writePDF renders the already-built Markdown report into an A4 PDF. Heading
// lines are set in bold Helvetica, everything else (tables included) in
// Courier so the pipe columns stay aligned.
func writePDF(report, outputPath string) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(true, pdfMargin)
	pdf.AddPage()

	for _, line := range strings.Split(report, "\n") {
		if strings.HasPrefix(line, "#") {
			heading := strings.TrimLeft(line, "# ")
			pdf.SetFont("Helvetica", "B", pdfFontSize+2)
			pdf.MultiCell(pdfPageWidth-2*pdfMargin, pdfLineHeight+1, heading, "", "L", false)
			pdf.Ln(pdfLineHeight / 2)
			continue
		}
		pdf.SetFont("Courier", "", pdfFontSize)
		pdf.MultiCell(pdfPageWidth-2*pdfMargin, pdfLineHeight, line, "", "L", false)
	}

	if err := pdf.OutputFileAndClose(outputPath); err != nil {
		return fmt.Errorf("failed to save PDF to %s: %w", outputPath, err)
	}
	return nil
}
