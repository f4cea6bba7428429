package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testImage(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	return img
}

func decodeConfig(t *testing.T, data []byte) (image.Config, string) {
	t.Helper()
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	require.NoError(t, err)
	return cfg, format
}

func TestToJPEG_PassesSmallJPEGThrough(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, testImage(40, 30), nil))

	out, err := ToJPEG(buf.Bytes(), 100)
	require.NoError(t, err)
	assert.Equal(t, buf.Bytes(), out)
}

func TestToJPEG_ConvertsPNG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, testImage(40, 30)))

	out, err := ToJPEG(buf.Bytes(), 0)
	require.NoError(t, err)

	cfg, format := decodeConfig(t, out)
	assert.Equal(t, "jpeg", format)
	assert.Equal(t, 40, cfg.Width)
	assert.Equal(t, 30, cfg.Height)
}

func TestToJPEG_ScalesDownKeepingAspectRatio(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, testImage(200, 100), nil))

	out, err := ToJPEG(buf.Bytes(), 50)
	require.NoError(t, err)

	cfg, format := decodeConfig(t, out)
	assert.Equal(t, "jpeg", format)
	assert.Equal(t, 50, cfg.Width)
	assert.Equal(t, 25, cfg.Height)
}

func TestToJPEG_RejectsGarbage(t *testing.T) {
	_, err := ToJPEG([]byte("definitely not an image"), 0)
	assert.ErrorIs(t, err, ErrUnsupportedImage)
}
