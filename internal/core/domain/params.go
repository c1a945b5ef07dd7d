package domain

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
)

// TransformParams are derived once per request from the query string.
// Zero Width or Height means the dimension was not requested.
type TransformParams struct {
	Width     int
	Height    int
	Grayscale bool
	Quality   int
}

// ParseTransformParams reads w, h, bw and q. Invalid dimensions are rejected;
// an invalid quality silently falls back to DefaultQuality.
func ParseTransformParams(query url.Values) (TransformParams, error) {
	p := TransformParams{Quality: DefaultQuality}

	var err error
	if p.Width, err = parseDimension(query, "w"); err != nil {
		return TransformParams{}, err
	}
	if p.Height, err = parseDimension(query, "h"); err != nil {
		return TransformParams{}, err
	}

	p.Grayscale = query.Get("bw") != ""
	p.Quality = parseQuality(query.Get("q"))

	return p, nil
}

func parseDimension(query url.Values, name string) (int, error) {
	if !query.Has(name) {
		return 0, nil
	}

	raw := query.Get(name)
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("%w: %s=%q must be a positive integer", ErrInvalidParams, name, raw)
	}

	return v, nil
}

func parseQuality(raw string) int {
	if raw == "" || !isDigits(raw) {
		return DefaultQuality
	}

	q, err := strconv.Atoi(raw)
	if err != nil || q < 1 || q > 100 {
		return DefaultQuality
	}

	return q
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}

	return true
}

// ValidQuality reports whether q is usable as a JPEG quality.
func ValidQuality(q int) bool {
	return q >= 1 && q <= 100
}

// Resizes reports whether a resize was requested at all.
func (p TransformParams) Resizes() bool {
	return p.Width > 0 || p.Height > 0
}

// TargetSize returns the bounding box for a source of srcW x srcH. When only
// one dimension was requested the other is derived from the source aspect
// ratio, rounded, and never below 1.
func (p TransformParams) TargetSize(srcW, srcH int) (int, int, bool) {
	if !p.Resizes() || srcW <= 0 || srcH <= 0 {
		return 0, 0, false
	}

	w, h := p.Width, p.Height
	switch {
	case h == 0:
		h = derive(w, srcH, srcW)
	case w == 0:
		w = derive(h, srcW, srcH)
	}

	return w, h, true
}

func derive(present, otherOrig, presentOrig int) int {
	v := int(math.Round(float64(present) * float64(otherOrig) / float64(presentOrig)))
	if v < 1 {
		return 1
	}

	return v
}
