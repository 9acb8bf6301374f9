package export

import (
	"fmt"
	"io"

	"codeberg.org/go-pdf/fpdf"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/grecsai/grecs/internal/sectionizer"
	"github.com/grecsai/grecs/internal/study"
)

// PDFConfig controls page layout.
type PDFConfig struct {
	PageSize   string
	MarginsMM  float64
	FontFamily string
	Compress   bool
}

// DefaultPDFConfig returns an A4 Helvetica layout.
func DefaultPDFConfig() PDFConfig {
	return PDFConfig{
		PageSize:   "A4",
		MarginsMM:  18,
		FontFamily: "Helvetica",
		Compress:   true,
	}
}

// sectionColors follows the on-screen panel palette.
var sectionColors = map[string][3]int{
	sectionizer.LabelGiven:    {31, 119, 180},
	sectionizer.LabelRequired: {255, 127, 14},
	sectionizer.LabelEquation: {148, 103, 189},
	sectionizer.LabelSolution: {188, 160, 20},
	sectionizer.LabelAnswer:   {44, 160, 44},
}

var titleCase = cases.Title(language.English)

// Heading is the display title of a section: the label itself in GRESA
// mode, "<Tier> Explanation" for concepts.
func Heading(mode study.Mode, label string) string {
	h := titleCase.String(label)
	if mode == study.ModeConcept {
		h += " Explanation"
	}
	return h
}

// PDF writes doc to w. Documents without sections print the raw response.
func PDF(w io.Writer, doc Document, cfg PDFConfig) error {
	pdf := fpdf.New("P", "mm", cfg.PageSize, "")
	pdf.SetMargins(cfg.MarginsMM, cfg.MarginsMM, cfg.MarginsMM)
	pdf.SetAutoPageBreak(true, cfg.MarginsMM)
	pdf.SetCompression(cfg.Compress)
	pdf.SetCreationDate(doc.At)
	pdf.SetModificationDate(doc.At)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	title := fmt.Sprintf("%s: %s", doc.Mode.Label(), doc.Input)
	pdf.SetTitle(title, true)
	pdf.AddPage()

	pdf.SetFont(cfg.FontFamily, "B", 18)
	pdf.CellFormat(0, 12, tr(doc.Mode.Label()), "", 1, "L", false, 0, "")

	pdf.SetFont(cfg.FontFamily, "", 10)
	pdf.SetTextColor(110, 110, 110)
	pdf.CellFormat(0, 6, "Date: "+doc.At.Format(DateLayout), "", 1, "L", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
	pdf.Ln(2)

	pdf.SetFont(cfg.FontFamily, "B", 12)
	pdf.CellFormat(0, 8, tr(doc.Mode.Placeholder()), "", 1, "L", false, 0, "")
	pdf.SetFont(cfg.FontFamily, "", 12)
	pdf.MultiCell(0, 6, tr(doc.Input), "", "L", false)
	pdf.Ln(4)

	if len(doc.Sections) == 0 {
		pdf.SetFont(cfg.FontFamily, "B", 12)
		pdf.CellFormat(0, 8, "Response", "", 1, "L", false, 0, "")
		pdf.SetFont(cfg.FontFamily, "", 12)
		pdf.MultiCell(0, 6, tr(doc.Response), "", "L", false)
	}

	for _, s := range doc.Sections {
		c, ok := sectionColors[s.Label]
		if !ok || doc.Mode == study.ModeConcept {
			c = [3]int{40, 40, 40}
		}
		pdf.SetFont(cfg.FontFamily, "B", 13)
		pdf.SetTextColor(c[0], c[1], c[2])
		pdf.CellFormat(0, 9, tr(Heading(doc.Mode, s.Label)), "", 1, "L", false, 0, "")
		pdf.SetTextColor(0, 0, 0)
		pdf.SetFont(cfg.FontFamily, "", 12)
		pdf.MultiCell(0, 6, tr(s.Body), "", "L", false)
		pdf.Ln(3)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	return nil
}
