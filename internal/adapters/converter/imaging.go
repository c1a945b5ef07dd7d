package converter

import (
	"bytes"
	"fmt"
	"hashimg/internal/core/domain"
	"image"

	"github.com/disintegration/imaging"
	"github.com/rs/zerolog/log"
)

// Imaging implements the transform steps on top of disintegration/imaging.
// It is stateless and safe for concurrent use.
type Imaging struct {
	filter imaging.ResampleFilter
}

func NewImaging() *Imaging {
	return &Imaging{filter: imaging.Lanczos}
}

// Normalize rotates according to the orientation tag. Rotations are
// counter-clockwise: 3 turns 180, 6 turns 270, 8 turns 90. Every other value
// is left alone.
func (c *Imaging) Normalize(img *domain.DecodedImage) *domain.DecodedImage {
	var rotated image.Image

	switch img.Orientation {
	case 3:
		rotated = imaging.Rotate180(img.Image)
	case 6:
		rotated = imaging.Rotate270(img.Image)
	case 8:
		rotated = imaging.Rotate90(img.Image)
	default:
		return img
	}

	log.Debug().Int("orientation", img.Orientation).Msg("applied orientation")

	return &domain.DecodedImage{Image: rotated, Format: img.Format}
}

// Resize fits the image inside the requested box, keeping its aspect ratio.
// Images already inside the box are returned untouched.
func (c *Imaging) Resize(img *domain.DecodedImage, params domain.TransformParams) *domain.DecodedImage {
	w, h, ok := params.TargetSize(img.Width(), img.Height())
	if !ok {
		return img
	}

	if img.Width() <= w && img.Height() <= h {
		return img
	}

	resized := imaging.Fit(img.Image, w, h, c.filter)

	log.Debug().
		Int("boxWidth", w).
		Int("boxHeight", h).
		Int("width", resized.Bounds().Dx()).
		Int("height", resized.Bounds().Dy()).
		Msg("resized")

	return &domain.DecodedImage{Image: resized, Format: img.Format, Orientation: img.Orientation}
}

// Grayscale converts to a single-channel luminance image. Alpha is dropped,
// not composited: luminance comes from the straight RGB values.
func (c *Imaging) Grayscale(img *domain.DecodedImage, requested bool) *domain.DecodedImage {
	if !requested || img.ColorMode() == domain.ColorGrayscale {
		return img
	}

	luma := imaging.Grayscale(img.Image)
	gray := image.NewGray(luma.Bounds())
	for i := range gray.Pix {
		gray.Pix[i] = luma.Pix[i*4]
	}

	return &domain.DecodedImage{Image: gray, Format: img.Format, Orientation: img.Orientation}
}

func (c *Imaging) EncodeJPEG(img *domain.DecodedImage, quality int) ([]byte, error) {
	if !domain.ValidQuality(quality) {
		quality = domain.DefaultQuality
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img.Image, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		return nil, fmt.Errorf("jpeg encode: %w", err)
	}

	return buf.Bytes(), nil
}
