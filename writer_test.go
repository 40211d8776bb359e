package posture

import (
	"bytes"
	"fmt"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColorHex(t *testing.T) {
	tests := []struct {
		hex      string
		expected Color
	}{
		{"#FFFFFF", Color{1, 1, 1}},
		{"#000000", Color{0, 0, 0}},
		{"FF0000", Color{1, 0, 0}},
		{"#bad", Color{}},
		{"", Color{}},
	}
	for _, tt := range tests {
		if got := ColorHex(tt.hex); got != tt.expected {
			t.Errorf("ColorHex(%q) = %v, want %v", tt.hex, got, tt.expected)
		}
	}
}

func TestDocBytesStructure(t *testing.T) {
	doc := NewDoc(DocInfo{Title: "Test Report", Producer: "posture"})
	p := doc.AddPage(595, 842)
	p.DrawText(100, 100, "Hello", Helvetica, 12, Color{})
	doc.AddPage(595, 842)

	data, err := doc.Bytes()
	require.NoError(t, err)

	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-1.4\n")))
	assert.True(t, bytes.HasSuffix(data, []byte("%%EOF\n")))

	// One page object per page, plus the single pages-tree object.
	assert.Equal(t, 2, bytes.Count(data, []byte("/Type /Page /Parent")))
	assert.Equal(t, 1, bytes.Count(data, []byte("/Type /Pages")))
	assert.Contains(t, string(data), "/Count 2")

	assert.Contains(t, string(data), "/Title (Test Report)")
	assert.Contains(t, string(data), "/BaseFont /Helvetica ")
	assert.Contains(t, string(data), "/BaseFont /Helvetica-Bold")
}

func TestDocBytesXref(t *testing.T) {
	doc := NewDoc(DocInfo{})
	doc.AddPage(612, 792)

	data, err := doc.Bytes()
	require.NoError(t, err)

	// startxref must point at the xref keyword.
	idx := bytes.LastIndex(data, []byte("startxref\n"))
	require.NotEqual(t, -1, idx)
	var offset int
	_, err = fmt.Sscanf(string(data[idx:]), "startxref\n%d", &offset)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data[offset:], []byte("xref\n")),
		"startxref offset %d does not point at the xref table", offset)

	// Every xref entry is a fixed-width 10-digit offset.
	xref := data[offset:]
	end := bytes.Index(xref, []byte("trailer"))
	require.NotEqual(t, -1, end)
	lines := bytes.Split(xref[:end], []byte("\n"))
	for _, line := range lines[2:] {
		if len(line) == 0 {
			continue
		}
		require.Len(t, line, 19, "xref entry %q", line)
		entryOffset, err := strconv.Atoi(string(line[:10]))
		require.NoError(t, err)
		assert.LessOrEqual(t, entryOffset, len(data))
	}
}

func TestDocBytesEmpty(t *testing.T) {
	doc := NewDoc(DocInfo{})
	_, err := doc.Bytes()
	require.Error(t, err)
}

func TestDrawTextEscaping(t *testing.T) {
	doc := NewDoc(DocInfo{})
	p := doc.AddPage(595, 842)
	p.DrawText(50, 50, `Score (85%) \ done`, Helvetica, 10, Color{})

	content := p.content.String()
	assert.Contains(t, content, `Score \(85%\) \\ done`)
}

func TestDrawTextCoordinateFlip(t *testing.T) {
	doc := NewDoc(DocInfo{})
	p := doc.AddPage(595, 842)
	p.DrawText(35, 42, "Header", Helvetica, 10, Color{})

	// Top-left y=42 becomes 842-42=800 in PDF space.
	assert.Contains(t, p.content.String(), "35.00 800.00 Td")
}

func TestDrawRectOperators(t *testing.T) {
	doc := NewDoc(DocInfo{})
	p := doc.AddPage(595, 842)

	fill := ColorHex("#10B981")
	stroke := ColorHex("#D1D5DB")
	p.DrawRect(10, 10, 100, 50, RectStyle{Fill: &fill})
	p.DrawRect(10, 10, 100, 50, RectStyle{Stroke: &stroke, LineWidth: 0.3})
	p.DrawRect(10, 10, 100, 50, RectStyle{Fill: &fill, Stroke: &stroke})
	p.DrawRect(10, 10, 100, 50, RectStyle{})

	content := p.content.String()
	assert.Equal(t, 1, bytes.Count([]byte(content), []byte("f\nQ")))
	assert.Equal(t, 2, bytes.Count([]byte(content), []byte("S\nQ")))
	assert.Equal(t, 1, bytes.Count([]byte(content), []byte("B\nQ")))
}

func TestDrawImageSharedResource(t *testing.T) {
	doc := NewDoc(DocInfo{})
	img := &Image{Width: 10, Height: 10, data: []byte{0}, filter: "FlateDecode", colorSpace: "DeviceRGB"}

	p1 := doc.AddPage(595, 842)
	p2 := doc.AddPage(595, 842)
	p1.DrawImage(img, 0, 0, 100, 100)
	p2.DrawImage(img, 0, 0, 100, 100)
	p2.DrawImage(img, 200, 200, 300, 300)

	// Placing the same image on two pages registers one XObject.
	require.Len(t, doc.images, 1)

	data, err := doc.Bytes()
	require.NoError(t, err)
	assert.Equal(t, 1, bytes.Count(data, []byte("/Subtype /Image")))
}

func TestDrawImageAspectFit(t *testing.T) {
	doc := NewDoc(DocInfo{})
	p := doc.AddPage(595, 842)
	img := &Image{Width: 200, Height: 100, data: []byte{0}, filter: "FlateDecode", colorSpace: "DeviceRGB"}

	// 2:1 image in a 100x100 box scales to 100x50, centered vertically.
	p.DrawImage(img, 0, 0, 100, 100)
	assert.Contains(t, p.content.String(), "100.00 0 0 50.00 0.00 767.00 cm")
}
