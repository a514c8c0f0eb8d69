// Package export renders a chord sheet to a printable PDF.
package export

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/cifrabox/cifrabox/internal/extract"
)

// ChordSheetPDF writes sheet to outPath. The chord block keeps a monospace
// font so chord markers stay aligned over the lyrics.
func ChordSheetPDF(sheet *extract.ChordSheet, outPath string) error {
	if sheet == nil {
		return fmt.Errorf("nil chord sheet")
	}
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 9, pdfText(sheet.Song), "", 1, "L", false, 0, "")
	if sheet.Artist != "" {
		pdf.SetFont("Helvetica", "", 12)
		pdf.CellFormat(0, 7, pdfText(sheet.Artist), "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	pdf.SetFont("Courier", "", 10)
	scanner := bufio.NewScanner(strings.NewReader(sheet.Content))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			pdf.Ln(4)
			continue
		}
		pdf.CellFormat(0, 4.5, pdfText(line), "", 1, "L", false, 0, "")
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("scan content: %w", err)
	}
	return pdf.OutputFileAndClose(outPath)
}

// pdfText maps UTF-8 to the cp1252 subset the built-in fonts cover, which
// handles the accented characters common in Portuguese titles.
var pdfText = gofpdf.New("P", "mm", "A4", "").UnicodeTranslatorFromDescriptor("")
