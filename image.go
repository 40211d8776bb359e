package posture

import (
	"bytes"
	"compress/zlib"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"

	"github.com/pkg/errors"
)

// Image is a decoded raster asset ready for embedding. JPEG bytes pass
// through untouched as a DCTDecode stream; everything else is decoded and
// re-encoded as zlib-compressed RGB.
type Image struct {
	Width  int
	Height int

	data       []byte
	filter     string // DCTDecode or FlateDecode
	colorSpace string // DeviceRGB
}

// DecodeImage converts raster bytes (PNG, JPEG or GIF) into an embeddable
// Image. Callers treating assets as optional should convert an error into an
// omitted element, not a failed generation.
func DecodeImage(raw []byte) (*Image, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return nil, errors.Wrap(err, "failed to decode image")
	}

	if format == "jpeg" {
		// Re-decode to reject images the jpeg package cannot parse fully,
		// then embed the original bytes as-is.
		if _, err := jpeg.Decode(bytes.NewReader(raw)); err != nil {
			return nil, errors.Wrap(err, "failed to decode JPEG")
		}
		return &Image{
			Width:      cfg.Width,
			Height:     cfg.Height,
			data:       raw,
			filter:     "DCTDecode",
			colorSpace: "DeviceRGB",
		}, nil
	}

	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, errors.Wrap(err, "failed to decode image")
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	rgb := make([]byte, 0, w*h*3)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, a := img.At(x, y).RGBA()
			// Composite transparency over white, the page background.
			if a < 0xFFFF && a > 0 {
				r = premultipliedOverWhite(r, a)
				g = premultipliedOverWhite(g, a)
				b = premultipliedOverWhite(b, a)
			} else if a == 0 {
				r, g, b = 0xFFFF, 0xFFFF, 0xFFFF
			}
			rgb = append(rgb, byte(r>>8), byte(g>>8), byte(b>>8))
		}
	}

	var compressed bytes.Buffer
	zw := zlib.NewWriter(&compressed)
	if _, err := zw.Write(rgb); err != nil {
		return nil, errors.Wrap(err, "failed to compress image data")
	}
	if err := zw.Close(); err != nil {
		return nil, errors.Wrap(err, "failed to compress image data")
	}

	return &Image{
		Width:      w,
		Height:     h,
		data:       compressed.Bytes(),
		filter:     "FlateDecode",
		colorSpace: "DeviceRGB",
	}, nil
}

// premultipliedOverWhite composites a premultiplied channel over a white
// background. RGBA() returns premultiplied values, so the white contribution
// is (0xFFFF - a).
func premultipliedOverWhite(c, a uint32) uint32 {
	v := c + (0xFFFF - a)
	if v > 0xFFFF {
		v = 0xFFFF
	}
	return v
}
