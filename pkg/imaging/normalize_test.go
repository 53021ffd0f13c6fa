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

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 100, B: 50, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestNormalizeToJPEG_ResizesWideImages(t *testing.T) {
	out, err := NormalizeToJPEG(pngBytes(t, 2400, 10), DefaultMaxWidth, DefaultQuality)
	require.NoError(t, err)

	cfg, err := jpeg.DecodeConfig(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 1200, cfg.Width)
	assert.Equal(t, 5, cfg.Height)
}

func TestNormalizeToJPEG_KeepsSmallImages(t *testing.T) {
	out, err := NormalizeToJPEG(pngBytes(t, 40, 20), DefaultMaxWidth, 0)
	require.NoError(t, err)

	cfg, err := jpeg.DecodeConfig(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 40, cfg.Width)
	assert.Equal(t, 20, cfg.Height)
}

func TestNormalizeToJPEG_Rejects(t *testing.T) {
	_, err := NormalizeToJPEG(nil, 0, 0)
	assert.Error(t, err)

	_, err = NormalizeToJPEG([]byte("definitely not an image"), 0, 0)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestOrient(t *testing.T) {
	red := color.RGBA{R: 255, A: 255}
	blue := color.RGBA{B: 255, A: 255}

	// 2x1: red on the left, blue on the right
	src := image.NewRGBA(image.Rect(0, 0, 2, 1))
	src.Set(0, 0, red)
	src.Set(1, 0, blue)

	rotated := orient(src, 6)
	assert.Equal(t, image.Rect(0, 0, 1, 2), rotated.Bounds())
	assert.Equal(t, red, rotated.At(0, 0))
	assert.Equal(t, blue, rotated.At(0, 1))

	ccw := orient(src, 8)
	assert.Equal(t, blue, ccw.At(0, 0))
	assert.Equal(t, red, ccw.At(0, 1))

	flipped := orient(src, 2)
	assert.Equal(t, blue, flipped.At(0, 0))
	assert.Equal(t, red, flipped.At(1, 0))

	assert.Same(t, src, orient(src, 1))
}
