package decoder

import (
	"bytes"
	"fmt"
	"hashimg/internal/core/domain"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/gen2brain/heic"
	"github.com/rs/zerolog/log"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// DefaultMaxPixels is roughly 89.5 megapixels.
const DefaultMaxPixels = 1024 * 1024 * 1024 / 4 / 3

// codec reads the header first so oversized images are refused before any
// pixel buffer is allocated.
type codec struct {
	config func(raw []byte) (image.Config, error)
	decode func(raw []byte) (image.Image, error)
}

var (
	sniffed = codec{config: sniffConfig, decode: sniff}
	heicBox = codec{config: heicConfig, decode: decodeHEIC}
)

type Config struct {
	// MaxPixels bounds width*height as declared by the image header.
	MaxPixels int64
}

// Decoder dispatches on the container format implied by the key extension.
type Decoder struct {
	codecs    map[domain.Format]codec
	maxPixels int64
}

func NewDecoder(cfg Config) *Decoder {
	if cfg.MaxPixels <= 0 {
		cfg.MaxPixels = DefaultMaxPixels
	}

	return &Decoder{
		codecs: map[domain.Format]codec{
			domain.FormatJPEG: sniffed,
			domain.FormatPNG:  sniffed,
			domain.FormatGIF:  sniffed,
			domain.FormatWebP: sniffed,
			domain.FormatBMP:  sniffed,
			domain.FormatTIFF: sniffed,
			domain.FormatHEIC: heicBox,
		},
		maxPixels: cfg.MaxPixels,
	}
}

func (d *Decoder) Decode(raw []byte, extension string) (*domain.DecodedImage, error) {
	format, err := domain.FormatFromExtension(extension)
	if err != nil {
		return nil, err
	}

	c, ok := d.codecs[format]
	if !ok {
		return nil, fmt.Errorf("%w: no decoder for %s", domain.ErrUnsupportedFormat, format)
	}

	header, err := c.config(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrCorruptData, err)
	}
	if err := d.checkSize(header.Width, header.Height); err != nil {
		return nil, err
	}

	img, err := c.decode(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrCorruptData, err)
	}

	b := img.Bounds()
	if err := d.checkSize(b.Dx(), b.Dy()); err != nil {
		return nil, err
	}

	decoded := &domain.DecodedImage{Image: img, Format: format}
	if format != domain.FormatHEIC {
		if o, ok := ReadOrientation(raw); ok {
			decoded.Orientation = o
		}
	}

	log.Debug().
		Str("format", string(format)).
		Int("width", b.Dx()).
		Int("height", b.Dy()).
		Int("orientation", decoded.Orientation).
		Msg("decoded image")

	return decoded, nil
}

func (d *Decoder) checkSize(w, h int) error {
	if w <= 0 || h <= 0 {
		return fmt.Errorf("%w: empty %dx%d image", domain.ErrCorruptData, w, h)
	}
	if int64(w)*int64(h) > d.maxPixels {
		log.Warn().Int("width", w).Int("height", h).Int64("limit", d.maxPixels).Msg("refusing oversized image")
		return fmt.Errorf("%w: %dx%d", domain.ErrImageTooLarge, w, h)
	}

	return nil
}

func sniffConfig(raw []byte) (image.Config, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(raw))
	return cfg, err
}

// sniff leaves the choice of codec to the byte signature, not the extension.
func sniff(raw []byte) (image.Image, error) {
	img, name, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}

	log.Debug().Str("codec", name).Msg("sniffed codec")

	return img, nil
}

func heicConfig(raw []byte) (image.Config, error) {
	return heic.DecodeConfig(bytes.NewReader(raw))
}

func decodeHEIC(raw []byte) (image.Image, error) {
	return heic.Decode(bytes.NewReader(raw))
}
