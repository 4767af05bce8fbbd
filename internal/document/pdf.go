package document

import (
	"bytes"
	_ "embed"
	"fmt"
	"log"
	"path/filepath"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/Simplici0/giftquote/internal/quote"
)

// QuoteView is everything the customer document shows.
type QuoteView struct {
	Number           int
	Date             time.Time
	Customer         quote.Customer
	Notes            string
	DeliveryDate     string
	Quantity         int
	Options          []quote.Option
	ApprovedOptionID string
	SignerName       string
	// Signature is a PNG produced by NormalizeSignature.
	Signature []byte
}

// Generator renders a quote document.
type Generator interface {
	Generate(v QuoteView) ([]byte, error)
}

//go:embed fonts/DejaVuSans.ttf
var regularFont []byte

//go:embed fonts/DejaVuSans-Bold.ttf
var boldFont []byte

const fontFamily = "DejaVu"

// PDFGenerator renders quotes with gofpdf using DejaVu Sans. The fonts are
// embedded; a font directory holding DejaVuSans.ttf and DejaVuSans-Bold.ttf
// replaces them.
type PDFGenerator struct {
	fontDir  string
	compress bool
}

// NewPDFGenerator returns a generator that loads fonts from fontDir, or uses
// the embedded fonts when fontDir is empty.
func NewPDFGenerator(fontDir string) *PDFGenerator {
	return &PDFGenerator{fontDir: fontDir, compress: true}
}

var _ Generator = (*PDFGenerator)(nil)

// Generate renders v as an A4 document. Hebrew text is reordered for display
// and aligned to the right.
func (g *PDFGenerator) Generate(v QuoteView) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetCompression(g.compress)
	pdf.SetTitle(fmt.Sprintf("הצעת מחיר %d", v.Number), true)

	family := fontFamily
	if g.fontDir != "" {
		regular := filepath.Join(g.fontDir, "DejaVuSans.ttf")
		bold := filepath.Join(g.fontDir, "DejaVuSans-Bold.ttf")
		log.Printf("quote pdf: load fonts regular=%s bold=%s", regular, bold)
		pdf.AddUTF8Font(family, "", regular)
		pdf.AddUTF8Font(family, "B", bold)
	} else {
		pdf.AddUTF8FontFromBytes(family, "", regularFont)
		pdf.AddUTF8FontFromBytes(family, "B", boldFont)
	}
	tr := visualOrder
	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("load pdf fonts: %w", err)
	}
	pdf.AddPage()

	pdf.SetFont(family, "B", 16)
	pdf.CellFormat(0, 10, tr(fmt.Sprintf("הצעת מחיר מס' %d", v.Number)), "", 1, "R", false, 0, "")

	pdf.SetFont(family, "", 11)
	date := v.Date
	if date.IsZero() {
		date = time.Now()
	}
	pdf.CellFormat(0, 6, tr("תאריך: "+date.Format("02.01.2006")), "", 1, "R", false, 0, "")
	if v.Customer.Name != "" || v.Customer.Company != "" {
		pdf.CellFormat(0, 6, tr(fmt.Sprintf("לכבוד: %s %s", v.Customer.Name, v.Customer.Company)), "", 1, "R", false, 0, "")
	}
	if v.Customer.Phone != "" || v.Customer.Email != "" {
		pdf.CellFormat(0, 6, tr(fmt.Sprintf("%s %s", v.Customer.Phone, v.Customer.Email)), "", 1, "R", false, 0, "")
	}
	if v.Quantity > 0 {
		pdf.CellFormat(0, 6, tr(fmt.Sprintf("כמות מארזים: %d", v.Quantity)), "", 1, "R", false, 0, "")
	}
	if v.DeliveryDate != "" {
		pdf.CellFormat(0, 6, tr("תאריך אספקה: "+v.DeliveryDate), "", 1, "R", false, 0, "")
	}
	pdf.Ln(4)

	for _, opt := range v.Options {
		if opt.Irrelevant {
			continue
		}
		title := opt.Title
		if opt.ID == v.ApprovedOptionID && v.ApprovedOptionID != "" {
			title += " - אושר"
		}

		pdf.SetFont(family, "B", 13)
		pdf.CellFormat(0, 8, tr(title), "B", 1, "R", false, 0, "")

		pdf.SetFont(family, "", 10)
		for _, item := range opt.Items {
			line := item.Name
			if item.Details != "" {
				line += " - " + item.Details
			}
			if item.Comment != "" {
				line += " (" + item.Comment + ")"
			}
			pdf.CellFormat(0, 6, tr(trim(line, 90)), "", 1, "R", false, 0, "")
		}

		pdf.SetFont(family, "B", 11)
		pdf.CellFormat(0, 7, tr("מחיר למארז לפני מע\"מ: "+FormatMoney(opt.Total)), "", 1, "R", false, 0, "")
		vat := FormatPercent((quote.VATRate - 1) * 100)
		pdf.CellFormat(0, 7, tr("מחיר למארז כולל מע\"מ "+vat+": "+FormatMoney(quote.Round2(opt.Total*quote.VATRate))), "", 1, "R", false, 0, "")
		if opt.Terms != "" {
			pdf.SetFont(family, "", 9)
			pdf.MultiCell(0, 5, tr(opt.Terms), "", "R", false)
		}
		pdf.Ln(4)
	}

	if v.Notes != "" {
		pdf.SetFont(family, "", 10)
		pdf.MultiCell(0, 5, tr("הערות: "+v.Notes), "", "R", false)
		pdf.Ln(2)
	}

	if len(v.Signature) > 0 {
		pdf.SetFont(family, "", 10)
		pdf.CellFormat(0, 6, tr("חתימת הלקוח: "+v.SignerName), "", 1, "R", false, 0, "")
		opts := gofpdf.ImageOptions{ImageType: "PNG", ReadDpi: false}
		pdf.RegisterImageOptionsReader("signature", opts, bytes.NewReader(v.Signature))
		pdf.ImageOptions("signature", 130, pdf.GetY(), 60, 0, true, opts, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		log.Printf("quote pdf: output failed: %v", err)
		return nil, fmt.Errorf("render quote pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func trim(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}
