package posture

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// Color is an RGB color with components in [0,1].
type Color struct {
	R, G, B float64
}

// ColorHex converts a "#RRGGBB" hex code to a Color. Invalid input yields
// black, matching how a missing style should degrade rather than fail.
func ColorHex(hexcode string) Color {
	hexcode = strings.TrimPrefix(hexcode, "#")
	if len(hexcode) != 6 {
		return Color{}
	}
	var r, g, b int
	if _, err := fmt.Sscanf(hexcode, "%02x%02x%02x", &r, &g, &b); err != nil {
		return Color{}
	}
	return Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}
}

// White is the paper color.
var White = Color{R: 1, G: 1, B: 1}

// Doc is an in-memory PDF document under construction. Pages accumulate in
// order; nothing is serialized until Bytes is called, which is what makes the
// deferred page-numbering pass possible.
type Doc struct {
	pages  []*Page
	images []*Image
	info   DocInfo
}

// DocInfo fills the PDF Info dictionary.
type DocInfo struct {
	Title    string
	Subject  string
	Producer string
}

// Page is one fixed-size drawing surface. All drawing methods use a top-left
// origin with y growing downward; conversion to PDF's bottom-left space
// happens at emission. Number is the deferred page-number slot: zero until the
// footer pass assigns it, and zero forever for unnumbered pages like the cover.
type Page struct {
	Width  float64
	Height float64
	Number int

	doc     *Doc
	content bytes.Buffer
	images  map[string]*Image
}

// NewDoc creates an empty document.
func NewDoc(info DocInfo) *Doc {
	return &Doc{info: info}
}

// AddPage appends a page of the given size and returns it.
func (d *Doc) AddPage(width, height float64) *Page {
	p := &Page{
		Width:  width,
		Height: height,
		doc:    d,
		images: make(map[string]*Image),
	}
	d.pages = append(d.pages, p)
	return p
}

// Pages returns the ordered page sequence.
func (d *Doc) Pages() []*Page {
	return d.pages
}

// registerImage assigns a document-wide resource name to img, reusing the
// existing name if the same image was placed before.
func (d *Doc) registerImage(img *Image) string {
	for i, existing := range d.images {
		if existing == img {
			return fmt.Sprintf("Im%d", i+1)
		}
	}
	d.images = append(d.images, img)
	return fmt.Sprintf("Im%d", len(d.images))
}

// RectStyle controls rectangle painting. A nil Fill or Stroke skips that
// operation; LineWidth defaults to 1 when stroking.
type RectStyle struct {
	Fill      *Color
	Stroke    *Color
	LineWidth float64
}

// DrawRect paints a rectangle with top-left corner (x, y).
func (p *Page) DrawRect(x, y, w, h float64, style RectStyle) {
	if style.Fill == nil && style.Stroke == nil {
		return
	}
	fmt.Fprintf(&p.content, "q\n")
	if style.Fill != nil {
		c := *style.Fill
		fmt.Fprintf(&p.content, "%.3f %.3f %.3f rg\n", c.R, c.G, c.B)
	}
	if style.Stroke != nil {
		c := *style.Stroke
		lw := style.LineWidth
		if lw == 0 {
			lw = 1
		}
		fmt.Fprintf(&p.content, "%.3f %.3f %.3f RG\n%.2f w\n", c.R, c.G, c.B, lw)
	}
	fmt.Fprintf(&p.content, "%.2f %.2f %.2f %.2f re\n", x, p.Height-y-h, w, h)
	switch {
	case style.Fill != nil && style.Stroke != nil:
		fmt.Fprintf(&p.content, "B\n")
	case style.Fill != nil:
		fmt.Fprintf(&p.content, "f\n")
	default:
		fmt.Fprintf(&p.content, "S\n")
	}
	fmt.Fprintf(&p.content, "Q\n")
}

// DrawLine strokes a straight line between two points.
func (p *Page) DrawLine(x1, y1, x2, y2 float64, c Color, lineWidth float64) {
	if lineWidth == 0 {
		lineWidth = 1
	}
	fmt.Fprintf(&p.content, "q\n%.3f %.3f %.3f RG\n%.2f w\n%.2f %.2f m\n%.2f %.2f l\nS\nQ\n",
		c.R, c.G, c.B, lineWidth, x1, p.Height-y1, x2, p.Height-y2)
}

// DrawText places a single line of text with its baseline at (x, y).
func (p *Page) DrawText(x, y float64, text string, font Font, size float64, c Color) {
	if text == "" {
		return
	}
	fmt.Fprintf(&p.content, "BT\n/%s %.2f Tf\n%.3f %.3f %.3f rg\n%.2f %.2f Td\n(%s) Tj\nET\n",
		font.resource(), size, c.R, c.G, c.B, x, p.Height-y, escapeText(text))
}

// DrawImage places img inside the box (x0,y0)-(x1,y1), scaled to fit while
// preserving its aspect ratio and centered on the leftover axis.
func (p *Page) DrawImage(img *Image, x0, y0, x1, y1 float64) {
	if img == nil || img.Width <= 0 || img.Height <= 0 {
		return
	}
	boxW := x1 - x0
	boxH := y1 - y0
	if boxW <= 0 || boxH <= 0 {
		return
	}

	scale := boxW / float64(img.Width)
	if s := boxH / float64(img.Height); s < scale {
		scale = s
	}
	w := float64(img.Width) * scale
	h := float64(img.Height) * scale
	x := x0 + (boxW-w)/2
	y := y0 + (boxH-h)/2

	name := p.doc.registerImage(img)
	p.images[name] = img
	fmt.Fprintf(&p.content, "q\n%.2f 0 0 %.2f %.2f %.2f cm\n/%s Do\nQ\n",
		w, h, x, p.Height-y-h, name)
}

// escapeText escapes the characters PDF string literals reserve.
func escapeText(s string) string {
	encoded := encodeWinAnsi(s)
	var out bytes.Buffer
	for _, b := range encoded {
		switch b {
		case '\\':
			out.WriteString(`\\`)
		case '(':
			out.WriteString(`\(`)
		case ')':
			out.WriteString(`\)`)
		case '\r':
			out.WriteString(`\r`)
		case '\n':
			out.WriteString(`\n`)
		default:
			out.WriteByte(b)
		}
	}
	return out.String()
}

// Bytes serializes the document: header, catalog, pages tree, the two core
// font objects, image XObjects, per-page page and content objects, cross
// reference table, trailer. Object byte offsets are tracked as the buffer
// grows, the same bookkeeping a PDF reader expects to find in the xref.
func (d *Doc) Bytes() ([]byte, error) {
	if len(d.pages) == 0 {
		return nil, errors.New("document has no pages")
	}

	var buf bytes.Buffer
	offsets := make(map[int]int)

	buf.WriteString("%PDF-1.4\n")
	buf.WriteString("%\xe2\xe3\xcf\xd3\n")

	imageBase := 5
	pageBase := imageBase + len(d.images)
	pageObj := func(i int) int { return pageBase + 2*i }
	contentObj := func(i int) int { return pageBase + 2*i + 1 }
	infoObj := pageBase + 2*len(d.pages)
	size := infoObj + 1

	writeObj := func(num int, body string) {
		offsets[num] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", num, body)
	}

	// Catalog and pages tree.
	writeObj(1, "<< /Type /Catalog /Pages 2 0 R >>")

	var kids strings.Builder
	for i := range d.pages {
		if i > 0 {
			kids.WriteString(" ")
		}
		fmt.Fprintf(&kids, "%d 0 R", pageObj(i))
	}
	writeObj(2, fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", kids.String(), len(d.pages)))

	// Core fonts. WinAnsi so the high range matches the width tables.
	writeObj(3, "<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>")
	writeObj(4, "<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica-Bold /Encoding /WinAnsiEncoding >>")

	// Image XObjects.
	for i, img := range d.images {
		num := imageBase + i
		offsets[num] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n<< /Type /XObject /Subtype /Image /Width %d /Height %d "+
			"/ColorSpace /%s /BitsPerComponent 8 /Filter /%s /Length %d >>\nstream\n",
			num, img.Width, img.Height, img.colorSpace, img.filter, len(img.data))
		buf.Write(img.data)
		buf.WriteString("\nendstream\nendobj\n")
	}

	// Pages and content streams.
	for i, page := range d.pages {
		var res strings.Builder
		res.WriteString("/Font << /F1 3 0 R /F2 4 0 R >>")
		if len(page.images) > 0 {
			res.WriteString(" /XObject <<")
			for j := range d.images {
				name := fmt.Sprintf("Im%d", j+1)
				if _, used := page.images[name]; used {
					fmt.Fprintf(&res, " /%s %d 0 R", name, imageBase+j)
				}
			}
			res.WriteString(" >>")
		}
		writeObj(pageObj(i), fmt.Sprintf(
			"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 %.2f %.2f] /Resources << %s >> /Contents %d 0 R >>",
			page.Width, page.Height, res.String(), contentObj(i)))

		content := page.content.Bytes()
		offsets[contentObj(i)] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n<< /Length %d >>\nstream\n", contentObj(i), len(content))
		buf.Write(content)
		buf.WriteString("\nendstream\nendobj\n")
	}

	// Info dictionary.
	var info strings.Builder
	info.WriteString("<<")
	if d.info.Title != "" {
		fmt.Fprintf(&info, " /Title (%s)", escapeText(d.info.Title))
	}
	if d.info.Subject != "" {
		fmt.Fprintf(&info, " /Subject (%s)", escapeText(d.info.Subject))
	}
	if d.info.Producer != "" {
		fmt.Fprintf(&info, " /Producer (%s)", escapeText(d.info.Producer))
	}
	info.WriteString(" >>")
	writeObj(infoObj, info.String())

	// Cross-reference table and trailer.
	xrefStart := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", size)
	for num := 1; num < size; num++ {
		fmt.Fprintf(&buf, "%010d 00000 n \n", offsets[num])
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R /Info %d 0 R >>\nstartxref\n%d\n%%%%EOF\n",
		size, infoObj, xrefStart)

	return buf.Bytes(), nil
}
