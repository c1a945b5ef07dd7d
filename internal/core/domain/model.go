package domain

import (
	"fmt"
	"image"
	"strings"
)

type Format string

const (
	FormatJPEG Format = "jpeg"
	FormatPNG  Format = "png"
	FormatGIF  Format = "gif"
	FormatWebP Format = "webp"
	FormatBMP  Format = "bmp"
	FormatTIFF Format = "tiff"
	FormatHEIC Format = "heic"
)

var extensionFormats = map[string]Format{
	"jpg":  FormatJPEG,
	"jpeg": FormatJPEG,
	"png":  FormatPNG,
	"gif":  FormatGIF,
	"webp": FormatWebP,
	"bmp":  FormatBMP,
	"tif":  FormatTIFF,
	"tiff": FormatTIFF,
	"heic": FormatHEIC,
	"heif": FormatHEIC,
}

// FormatFromExtension maps a key extension onto a supported container format.
func FormatFromExtension(extension string) (Format, error) {
	f, ok := extensionFormats[strings.ToLower(extension)]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, extension)
	}

	return f, nil
}

type ColorMode string

const (
	ColorRGB       ColorMode = "RGB"
	ColorGrayscale ColorMode = "L"
)

// FetchResult is the raw origin response, owned by a single request.
type FetchResult struct {
	StatusCode  int
	Body        []byte
	ContentType string
}

// DecodedImage is an in-memory pixel image plus the orientation found in its
// metadata. Orientation is 0 when the image carried no usable tag.
type DecodedImage struct {
	Image       image.Image
	Format      Format
	Orientation int
}

func (d *DecodedImage) Width() int {
	return d.Image.Bounds().Dx()
}

func (d *DecodedImage) Height() int {
	return d.Image.Bounds().Dy()
}

func (d *DecodedImage) ColorMode() ColorMode {
	switch d.Image.(type) {
	case *image.Gray, *image.Gray16:
		return ColorGrayscale
	default:
		return ColorRGB
	}
}

// EncodedOutput is the terminal artifact of a transform request.
type EncodedOutput struct {
	Bytes       []byte
	MediaType   string
	CacheMaxAge int
}

func NewJPEGOutput(b []byte) *EncodedOutput {
	return &EncodedOutput{Bytes: b, MediaType: MediaTypeJPEG, CacheMaxAge: CacheMaxAge}
}

func (o *EncodedOutput) CacheControl() string {
	return fmt.Sprintf("s-maxage=%d, public", o.CacheMaxAge)
}
