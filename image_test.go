package posture

import (
	"bytes"
	"compress/zlib"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestDecodeImagePNG(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 4, 2))
	for y := 0; y < 2; y++ {
		for x := 0; x < 4; x++ {
			src.Set(x, y, color.RGBA{R: 200, G: 100, B: 50, A: 255})
		}
	}

	img, err := DecodeImage(encodePNG(t, src))
	require.NoError(t, err)

	assert.Equal(t, 4, img.Width)
	assert.Equal(t, 2, img.Height)
	assert.Equal(t, "FlateDecode", img.filter)
	assert.Equal(t, "DeviceRGB", img.colorSpace)

	zr, err := zlib.NewReader(bytes.NewReader(img.data))
	require.NoError(t, err)
	rgb, err := io.ReadAll(zr)
	require.NoError(t, err)
	require.Len(t, rgb, 4*2*3)
	assert.Equal(t, []byte{200, 100, 50}, rgb[:3])
}

func TestDecodeImageTransparencyOverWhite(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 2, 1))
	src.Set(0, 0, color.RGBA{A: 0})                          // fully transparent
	src.Set(1, 0, color.RGBA{R: 0, G: 0, B: 0, A: 255})      // opaque black

	img, err := DecodeImage(encodePNG(t, src))
	require.NoError(t, err)

	zr, err := zlib.NewReader(bytes.NewReader(img.data))
	require.NoError(t, err)
	rgb, err := io.ReadAll(zr)
	require.NoError(t, err)
	require.Len(t, rgb, 6)

	// Transparent pixels composite to the white page background.
	assert.Equal(t, []byte{255, 255, 255}, rgb[:3])
	assert.Equal(t, []byte{0, 0, 0}, rgb[3:])
}

func TestDecodeImageJPEGPassthrough(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 8, 8))
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, src, nil))
	raw := buf.Bytes()

	img, err := DecodeImage(raw)
	require.NoError(t, err)

	assert.Equal(t, "DCTDecode", img.filter)
	assert.Equal(t, 8, img.Width)
	// JPEG bytes embed untouched.
	assert.Equal(t, raw, img.data)
}

func TestDecodeImageInvalid(t *testing.T) {
	_, err := DecodeImage([]byte("not an image"))
	require.Error(t, err)

	_, err = DecodeImage(nil)
	require.Error(t, err)
}
