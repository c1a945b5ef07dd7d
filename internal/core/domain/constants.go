package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidKey        = errors.New("invalid key")
	ErrInvalidParams     = errors.New("invalid transform parameters")
	ErrUnsupportedFormat = errors.New("unsupported image format")
	ErrCorruptData       = errors.New("corrupt image data")
	ErrImageTooLarge     = errors.New("image dimensions exceed pixel limit")
	ErrSigning           = errors.New("failed to sign read url")
	ErrOriginStatus      = errors.New("origin responded with non-200 status")
	ErrOriginUnavailable = errors.New("origin unavailable")
	ErrOriginTooLarge    = errors.New("origin response too large")
	ErrEncoding          = errors.New("failed to encode image")
)

const (
	// DefaultQuality is the JPEG quality used when q is absent or invalid.
	DefaultQuality = 75
	// CacheMaxAge is one year in seconds.
	CacheMaxAge   = 365 * 24 * 60 * 60
	MediaTypeJPEG = "image/jpeg"
)

// OriginError is returned when the blob store answers with anything but 200.
// The body is kept verbatim so it can be relayed to the caller.
type OriginError struct {
	StatusCode int
	Body       []byte
}

func (e *OriginError) Error() string {
	return fmt.Sprintf("origin responded with status %d", e.StatusCode)
}

func (e *OriginError) Is(target error) bool {
	return target == ErrOriginStatus
}
