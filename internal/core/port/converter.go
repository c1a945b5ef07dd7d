package port

import "hashimg/internal/core/domain"

type ImageDecoder interface {
	// Decode turns raw origin bytes into pixels. The extension selects the HEIC container reader; every other
	// supported format is sniffed from the bytes themselves.
	Decode(raw []byte, extension string) (*domain.DecodedImage, error)
}

type ImageProcessor interface {
	// Normalize applies the rotation implied by the image's orientation tag, or returns the image unchanged.
	Normalize(img *domain.DecodedImage) *domain.DecodedImage
	// Resize fits the image into the bounding box requested by params without upscaling.
	Resize(img *domain.DecodedImage, params domain.TransformParams) *domain.DecodedImage
	// Grayscale converts the image to a single luminance channel when requested.
	Grayscale(img *domain.DecodedImage, requested bool) *domain.DecodedImage
	// EncodeJPEG serialises the image as JPEG at the given quality.
	EncodeJPEG(img *domain.DecodedImage, quality int) ([]byte, error)
}
