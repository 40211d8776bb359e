package posture

import "fmt"

// Report palette.
var (
	colorDarkGray  = ColorHex("#1F2937")
	colorGray      = ColorHex("#6B7280")
	colorLightGray = ColorHex("#E5E7EB")
	colorSoftBG    = ColorHex("#F8FAFC")
	colorBorder    = ColorHex("#D1D5DB")
	colorGreen     = ColorHex("#10B981")
	colorOrange    = ColorHex("#F59E0B")
	colorRed       = ColorHex("#EF4444")
)

const (
	// reportPageWidth and reportPageHeight are the A4 layout of the full
	// report. The checklist uses US Letter, defined in checklist.go.
	reportPageWidth  = 595
	reportPageHeight = 842

	reportMargin     = 35
	headerBandHeight = 70
	footerBaseline   = 25 // footer distance from the bottom edge

	creditLine = "Developed by CyberPH | fb.com/LearnCyberPH"
)

// Builder accumulates report pages on a Doc. It draws header bands, table
// rows and the fixed decorations, and keeps the ordered list of pages that
// will receive numbers once generation is complete. The Builder never starts
// a page on its own: the composer decides when content no longer fits.
type Builder struct {
	doc    *Doc
	logo   *Image
	margin float64
	width  float64
	height float64

	numbered []*Page
}

// NewBuilder creates a builder for the report page format. A nil logo is
// allowed; header text then shifts to the left margin.
func NewBuilder(info DocInfo, logo *Image) *Builder {
	return &Builder{
		doc:    NewDoc(info),
		logo:   logo,
		margin: reportMargin,
		width:  reportPageWidth,
		height: reportPageHeight,
	}
}

// Doc exposes the underlying document for serialization.
func (b *Builder) Doc() *Doc {
	return b.doc
}

// BottomLimit returns the largest cursor position content may occupy before
// the composer must request a new page, given the projected row height.
func (b *Builder) BottomLimit() float64 {
	return b.height - 2*footerBaseline
}

// UsableHeight is the vertical space available to content on a fresh page.
func (b *Builder) UsableHeight() float64 {
	return b.BottomLimit() - (headerBandHeight + 20)
}

// NewPage appends a numbered content page with the dark header band and
// returns it along with the starting cursor position below the band.
func (b *Builder) NewPage(title string) (*Page, float64) {
	p := b.doc.AddPage(b.width, b.height)
	b.numbered = append(b.numbered, p)

	p.DrawRect(0, 0, b.width, headerBandHeight, RectStyle{Fill: &colorDarkGray})
	logoWidth := 0.0
	if b.logo != nil {
		p.DrawImage(b.logo, b.margin, 12, b.margin+100, 58)
		logoWidth = 110
	}
	p.DrawText(b.margin+logoWidth+10, 42, title, HelveticaBold, 16, White)
	return p, headerBandHeight + 20
}

// NewCoverPage appends the unnumbered cover page: full-width band, centered
// logo and title, and the organization info box.
func (b *Builder) NewCoverPage(org, assessor, date string) *Page {
	p := b.doc.AddPage(b.width, b.height)

	p.DrawRect(0, 0, b.width, 200, RectStyle{Fill: &colorDarkGray})
	if b.logo != nil {
		logoX := (b.width - 200) / 2
		p.DrawImage(b.logo, logoX, 50, logoX+200, 130)
	}

	title := "Cybersecurity & Data Privacy"
	subtitle := "Posture Assessment Report"
	p.DrawText((b.width-StringWidth(title, HelveticaBold, 24))/2, 280, title, HelveticaBold, 24, colorDarkGray)
	p.DrawText((b.width-StringWidth(subtitle, HelveticaBold, 24))/2, 310, subtitle, HelveticaBold, 24, colorDarkGray)

	infoY := 400.0
	p.DrawRect(b.margin+50, infoY, b.width-2*(b.margin+50), 120, RectStyle{Stroke: &colorLightGray, LineWidth: 1.5})
	p.DrawText(b.margin+70, infoY+35, "Organization:", HelveticaBold, 10, colorGray)
	p.DrawText(b.margin+70, infoY+55, org, HelveticaBold, 14, colorDarkGray)
	p.DrawText(b.margin+70, infoY+80, "Date: "+date, Helvetica, 10, colorGray)
	p.DrawText(b.margin+70, infoY+100, "Assessor: "+assessor, Helvetica, 10, colorGray)
	return p
}

// SectionDivider draws a section heading and returns the cursor below it.
func (b *Builder) SectionDivider(p *Page, y float64, title string) float64 {
	p.DrawText(b.margin, y+15, title, HelveticaBold, 12, colorDarkGray)
	return y + 25
}

// RowStyle selects table-row rendering: the dark header treatment or a body
// row with optional zebra striping.
type RowStyle struct {
	Header bool
	Zebra  bool
}

// DrawRow renders one bordered table row of the given height starting at the
// left margin and returns the new cursor position. Cell text wraps to the
// column width and clips to the row height; the Builder never paginates, so
// callers must check remaining space first.
func (b *Builder) DrawRow(p *Page, y float64, widths []float64, contents []string, height float64, style RowStyle) float64 {
	fill := White
	textColor := colorDarkGray
	font := Helvetica
	size := 9.0
	if style.Header {
		fill = colorDarkGray
		textColor = White
		font = HelveticaBold
		size = 10
	} else if style.Zebra {
		fill = colorSoftBG
	}

	x := b.margin
	for i, w := range widths {
		p.DrawRect(x, y, w, height, RectStyle{Fill: &fill, Stroke: &colorBorder, LineWidth: 0.3})
		if i < len(contents) {
			lineHeight := size * 1.2
			textY := y + 6 + size
			for _, line := range Wrap(contents[i], font, size, w-12) {
				if textY > y+height-4 {
					break
				}
				p.DrawText(x+6, textY, line, font, size, textColor)
				textY += lineHeight
			}
		}
		x += w
	}
	return y + height
}

// VerdictBox draws the verdict banner, sized to its text with a fixed
// minimum, over a small drop shadow. Returns the cursor below the box.
func (b *Builder) VerdictBox(p *Page, y float64, verdict Verdict, score float64) float64 {
	fill := colorGray
	switch verdict {
	case VerdictPass:
		fill = colorGreen
	case VerdictImprove:
		fill = colorOrange
	case VerdictFail:
		fill = colorRed
	}

	text := fmt.Sprintf("%s: %.1f%%", verdict, score)
	boxWidth := StringWidth(text, HelveticaBold, 14) + 60
	if boxWidth < 250 {
		boxWidth = 250
	}

	p.DrawRect(b.margin+2, y+2, boxWidth, 40, RectStyle{Fill: &colorBorder})
	p.DrawRect(b.margin, y, boxWidth, 40, RectStyle{Fill: &fill})
	p.DrawText(b.margin+15, y+25, text, HelveticaBold, 14, White)
	return y + 50
}

// SignatureBox draws one signature box at (x, y) with an optional signature
// image and a caption. Returns the cursor below the box.
func (b *Builder) SignatureBox(p *Page, x, y float64, label string, sig *Image) float64 {
	const boxWidth, boxHeight = 240.0, 90.0
	white := White
	p.DrawRect(x, y, boxWidth, boxHeight, RectStyle{Fill: &white, Stroke: &colorGray, LineWidth: 1.5})
	if sig != nil {
		p.DrawImage(sig, x+10, y+10, x+boxWidth-10, y+boxHeight-25)
	}
	p.DrawText(x+10, y+boxHeight-8, label, Helvetica, 8, colorGray)
	return y + boxHeight + 15
}

// StampFooters is the pagination pass. It runs once, after every content page
// exists, assigning sequential numbers to the numbered pages and drawing
// "Page X of N" on each. The credit line appears only on the last numbered
// page. Unnumbered pages (the cover) keep Number == 0 and stay clean.
func (b *Builder) StampFooters() {
	total := len(b.numbered)
	for i, p := range b.numbered {
		p.Number = i + 1
		footerY := p.Height - footerBaseline

		if p.Number == total {
			w := StringWidth(creditLine, Helvetica, 6)
			p.DrawText((p.Width-w)/2, footerY, creditLine, Helvetica, 6, colorGray)
		}
		pageText := fmt.Sprintf("Page %d of %d", p.Number, total)
		w := StringWidth(pageText, Helvetica, 8)
		p.DrawText((p.Width-w)/2, footerY+12, pageText, Helvetica, 8, colorGray)
	}
}
