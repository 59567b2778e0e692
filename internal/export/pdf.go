package export

import (
	"fmt"
	"io"
	"os"

	"github.com/go-pdf/fpdf"

	"github.com/weadingguestwebsite1-lab/wedding-guests/internal/models"
	"github.com/weadingguestwebsite1-lab/wedding-guests/internal/textshape"
)

const (
	fontFamily = "guestlist"

	rowHeight       = 8.0
	attendedWidth   = 25.0
	checkboxSize    = 4.0
	headingHeight   = 10.0
	subheadHeight   = 8.0
	sectionSpacing  = 6.0
	tableSpacing    = 3.0
	titleFontSize   = 18.0
	headingFontSize = 14.0
	bodyFontSize    = 11.0
	minFontSize     = 7.0

	// pageBreakThreshold is the minimum space (mm) left above the bottom
	// margin before content moves to a new page.
	pageBreakThreshold = 30.0
)

// Labels are the fixed captions painted on the follow-up document.
var Labels = struct {
	Individuals string
	Groups      string
	Name        string
	Attended    string
}{
	Individuals: "الأفراد",
	Groups:      "المجموعات",
	Name:        "الاسم",
	Attended:    "الحضور",
}

// PDFRenderer paints follow-up documents with a UTF-8 TrueType font able to
// display Arabic presentation forms.
type PDFRenderer struct {
	font []byte
}

// NewPDFRenderer loads the TrueType font at fontPath.
func NewPDFRenderer(fontPath string) (*PDFRenderer, error) {
	font, err := os.ReadFile(fontPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read font %s: %w", fontPath, err)
	}
	return &PDFRenderer{font: font}, nil
}

// Render writes doc as a PDF to w.
func (r *PDFRenderer) Render(w io.Writer, doc Followup) error {
	pdf := r.paint(doc)
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to write pdf: %w", err)
	}
	return nil
}

func (r *PDFRenderer) paint(doc Followup) *fpdf.Fpdf {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(doc.Title, true)
	pdf.SetAutoPageBreak(false, 15)
	pdf.AddUTF8FontFromBytes(fontFamily, "", r.font)
	pdf.AddPage()

	p := &painter{pdf: pdf}
	p.title(doc.Title)
	for _, s := range doc.Sections {
		p.section(s)
	}
	return pdf
}

type painter struct {
	pdf *fpdf.Fpdf

	// headerPages lists the page of every table header painted.
	headerPages []int
}

// ensureSpace starts a new page when less than pageBreakThreshold is left and
// reports whether it did.
func (p *painter) ensureSpace() bool {
	_, pageHeight := p.pdf.GetPageSize()
	_, _, _, bottom := p.pdf.GetMargins()
	if pageHeight-bottom-p.pdf.GetY() < pageBreakThreshold {
		p.pdf.AddPage()
		return true
	}
	return false
}

func (p *painter) contentWidth() float64 {
	pageWidth, _ := p.pdf.GetPageSize()
	left, _, right, _ := p.pdf.GetMargins()
	return pageWidth - left - right
}

// fit shapes text and finds the largest font size, starting at size, at which
// it fits in a cell of the given width. Text that does not fit even at
// minFontSize is shortened.
func (p *painter) fit(text string, width, size float64) (string, float64) {
	avail := width - 2*p.pdf.GetCellMargin()
	shaped := textshape.Visual(text)
	for ; size > minFontSize; size-- {
		p.pdf.SetFontSize(size)
		if p.pdf.GetStringWidth(shaped) <= avail {
			return shaped, size
		}
	}

	size = minFontSize
	p.pdf.SetFontSize(size)
	runes := []rune(text)
	for len(runes) > 1 && p.pdf.GetStringWidth(shaped) > avail {
		runes = runes[:len(runes)-1]
		shaped = textshape.Visual(string(runes) + "...")
	}
	return shaped, size
}

// cell paints text on one line, shrinking it to the cell width.
func (p *painter) cell(width, height float64, text, border string, ln int, align string, fill bool, size float64) {
	shaped, _ := p.fit(text, width, size)
	p.pdf.CellFormat(width, height, shaped, border, ln, align, fill, 0, "")
	p.pdf.SetFontSize(size)
}

func (p *painter) title(text string) {
	p.pdf.SetFont(fontFamily, "", titleFontSize)
	p.cell(p.contentWidth(), headingHeight+2, text, "", 1, "C", false, titleFontSize)
	p.pdf.Ln(sectionSpacing)
}

func (p *painter) section(s Section) {
	p.ensureSpace()
	p.pdf.SetFont(fontFamily, "", headingFontSize)
	p.pdf.SetFillColor(230, 230, 230)
	p.cell(p.contentWidth(), headingHeight, s.Phrase, "1", 1, "R", true, headingFontSize)
	p.pdf.Ln(tableSpacing)

	p.table(Labels.Individuals, s.Individuals)
	p.table(Labels.Groups, s.Groups)
	p.pdf.Ln(sectionSpacing)
}

func (p *painter) table(caption string, guests []models.GuestRow) {
	p.ensureSpace()
	p.pdf.SetFont(fontFamily, "", bodyFontSize)
	p.cell(p.contentWidth(), subheadHeight, fmt.Sprintf("%s (%d)", caption, len(guests)), "", 1, "R", false, bodyFontSize)
	p.header()

	for _, g := range guests {
		if p.ensureSpace() {
			p.header()
		}
		p.row(g)
	}
	p.pdf.Ln(tableSpacing)
}

func (p *painter) header() {
	p.headerPages = append(p.headerPages, p.pdf.PageNo())
	p.pdf.SetFillColor(245, 245, 245)
	p.pdf.CellFormat(attendedWidth, rowHeight, textshape.Visual(Labels.Attended), "1", 0, "C", true, 0, "")
	p.pdf.CellFormat(p.contentWidth()-attendedWidth, rowHeight, textshape.Visual(Labels.Name), "1", 1, "R", true, 0, "")
}

func (p *painter) row(g models.GuestRow) {
	x, y := p.pdf.GetX(), p.pdf.GetY()
	p.pdf.CellFormat(attendedWidth, rowHeight, "", "1", 0, "C", false, 0, "")
	p.pdf.Rect(x+(attendedWidth-checkboxSize)/2, y+(rowHeight-checkboxSize)/2, checkboxSize, checkboxSize, "D")

	name := g.Name
	if g.IsGroup {
		name = fmt.Sprintf("%s (%d)", g.Name, g.GroupSize)
	}
	p.cell(p.contentWidth()-attendedWidth, rowHeight, name, "1", 1, "R", false, bodyFontSize)
}
