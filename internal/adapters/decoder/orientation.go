package decoder

import (
	"bytes"

	"github.com/rwcarlsen/goexif/exif"
)

// ReadOrientation looks up the EXIF orientation tag. Missing metadata, a
// missing tag and unparsable metadata all report false.
func ReadOrientation(raw []byte) (orientation int, ok bool) {
	// goexif indexes into attacker-controlled offsets.
	defer func() {
		if r := recover(); r != nil {
			orientation, ok = 0, false
		}
	}()

	x, err := exif.Decode(bytes.NewReader(raw))
	if err != nil {
		return 0, false
	}

	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return 0, false
	}

	v, err := tag.Int(0)
	if err != nil {
		return 0, false
	}

	return v, true
}
