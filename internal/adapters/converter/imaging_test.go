package converter

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"testing"

	"hashimg/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var marker = color.NRGBA{R: 255, A: 255}

// markedImage is black except for a red top-left pixel.
func markedImage(w, h int) *domain.DecodedImage {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.SetNRGBA(x, y, color.NRGBA{A: 255})
		}
	}
	img.SetNRGBA(0, 0, marker)

	return &domain.DecodedImage{Image: img, Format: domain.FormatJPEG}
}

func colorfulImage(w, h int) *domain.DecodedImage {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x * 7), G: uint8(y * 13), B: uint8(x + y), A: 255})
		}
	}

	return &domain.DecodedImage{Image: img, Format: domain.FormatPNG}
}

func TestImaging_Normalize(t *testing.T) {
	tests := []struct {
		name        string
		orientation int
		wantW       int
		wantH       int
		wantMarker  image.Point
	}{
		{name: "no tag", orientation: 0, wantW: 100, wantH: 50, wantMarker: image.Pt(0, 0)},
		{name: "upright", orientation: 1, wantW: 100, wantH: 50, wantMarker: image.Pt(0, 0)},
		{name: "mirrored is ignored", orientation: 2, wantW: 100, wantH: 50, wantMarker: image.Pt(0, 0)},
		{name: "rotate 180", orientation: 3, wantW: 100, wantH: 50, wantMarker: image.Pt(99, 49)},
		{name: "rotate 270", orientation: 6, wantW: 50, wantH: 100, wantMarker: image.Pt(49, 0)},
		{name: "rotate 90", orientation: 8, wantW: 50, wantH: 100, wantMarker: image.Pt(0, 99)},
		{name: "out of range", orientation: 42, wantW: 100, wantH: 50, wantMarker: image.Pt(0, 0)},
	}

	c := NewImaging()

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			src := markedImage(100, 50)
			src.Orientation = tc.orientation

			got := c.Normalize(src)

			assert.Equal(t, tc.wantW, got.Width())
			assert.Equal(t, tc.wantH, got.Height())

			r, g, b, a := got.Image.At(tc.wantMarker.X, tc.wantMarker.Y).RGBA()
			assert.Equal(t, [4]uint32{0xffff, 0, 0, 0xffff}, [4]uint32{r, g, b, a})
		})
	}
}

func TestImaging_NormalizeIsIdempotent(t *testing.T) {
	c := NewImaging()
	src := markedImage(100, 50)
	src.Orientation = 6

	once := c.Normalize(src)
	twice := c.Normalize(once)

	assert.Equal(t, 0, once.Orientation)
	assert.Equal(t, once.Width(), twice.Width())
	assert.Equal(t, once.Height(), twice.Height())
}

func TestImaging_Resize(t *testing.T) {
	tests := []struct {
		name   string
		srcW   int
		srcH   int
		params domain.TransformParams
		wantW  int
		wantH  int
	}{
		{
			name:   "no dimensions requested",
			srcW:   200,
			srcH:   400,
			params: domain.TransformParams{},
			wantW:  200,
			wantH:  400,
		},
		{
			name:   "width only keeps ratio",
			srcW:   200,
			srcH:   400,
			params: domain.TransformParams{Width: 100},
			wantW:  100,
			wantH:  200,
		},
		{
			name:   "height only keeps ratio",
			srcW:   300,
			srcH:   150,
			params: domain.TransformParams{Height: 50},
			wantW:  100,
			wantH:  50,
		},
		{
			name:   "box smaller in one dimension",
			srcW:   300,
			srcH:   150,
			params: domain.TransformParams{Width: 60, Height: 60},
			wantW:  60,
			wantH:  30,
		},
		{
			name:   "never upscales",
			srcW:   40,
			srcH:   20,
			params: domain.TransformParams{Width: 400, Height: 400},
			wantW:  40,
			wantH:  20,
		},
	}

	c := NewImaging()

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := c.Resize(colorfulImage(tc.srcW, tc.srcH), tc.params)

			assert.Equal(t, tc.wantW, got.Width())
			assert.Equal(t, tc.wantH, got.Height())
		})
	}
}

func TestImaging_Grayscale(t *testing.T) {
	c := NewImaging()
	src := colorfulImage(30, 20)

	unchanged := c.Grayscale(src, false)
	assert.Same(t, src, unchanged)

	got := c.Grayscale(src, true)
	require.IsType(t, &image.Gray{}, got.Image)
	assert.Equal(t, domain.ColorGrayscale, got.ColorMode())
	assert.Equal(t, 30, got.Width())
	assert.Equal(t, 20, got.Height())
}

func TestImaging_GrayscaleIgnoresAlpha(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 3, 1))
	img.SetNRGBA(0, 0, color.NRGBA{R: 255, G: 255, B: 255, A: 0})
	img.SetNRGBA(1, 0, color.NRGBA{R: 255, A: 255})
	img.SetNRGBA(2, 0, color.NRGBA{R: 10, G: 200, B: 30, A: 128})

	got := NewImaging().Grayscale(&domain.DecodedImage{Image: img, Format: domain.FormatPNG}, true)

	gray, ok := got.Image.(*image.Gray)
	require.True(t, ok)
	assert.Equal(t, uint8(255), gray.GrayAt(0, 0).Y, "transparent white stays white")
	assert.Equal(t, uint8(76), gray.GrayAt(1, 0).Y)
	assert.Equal(t, uint8(124), gray.GrayAt(2, 0).Y, "half transparent pixel keeps its own luminance")
}

func TestImaging_EncodeJPEG(t *testing.T) {
	c := NewImaging()
	src := colorfulImage(64, 48)

	low, err := c.EncodeJPEG(src, 10)
	require.NoError(t, err)
	high, err := c.EncodeJPEG(src, 95)
	require.NoError(t, err)
	assert.Less(t, len(low), len(high))

	defaulted, err := c.EncodeJPEG(src, 0)
	require.NoError(t, err)
	standard, err := c.EncodeJPEG(src, domain.DefaultQuality)
	require.NoError(t, err)
	assert.Equal(t, standard, defaulted)

	decoded, err := jpeg.Decode(bytes.NewReader(high))
	require.NoError(t, err)
	assert.Equal(t, 64, decoded.Bounds().Dx())
	assert.Equal(t, 48, decoded.Bounds().Dy())
}

func TestImaging_EncodeJPEGGrayscaleIsSingleChannel(t *testing.T) {
	c := NewImaging()
	gray := c.Grayscale(colorfulImage(16, 16), true)

	out, err := c.EncodeJPEG(gray, domain.DefaultQuality)
	require.NoError(t, err)

	decoded, err := jpeg.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.IsType(t, &image.Gray{}, decoded)
}
