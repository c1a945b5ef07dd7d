package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKey(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		want    ObjectKey
		wantErr bool
	}{
		{
			name: "hash and extension",
			key:  "9f86d081884c7d65.jpg",
			want: ObjectKey{Hash: "9f86d081884c7d65", Extension: "jpg"},
		},
		{
			name: "splits on last dot",
			key:  "abc.def.heic",
			want: ObjectKey{Hash: "abc.def", Extension: "heic"},
		},
		{
			name:    "no dot",
			key:     "9f86d081884c7d65",
			wantErr: true,
		},
		{
			name:    "empty hash",
			key:     ".jpg",
			wantErr: true,
		},
		{
			name:    "empty extension",
			key:     "abc.",
			wantErr: true,
		},
		{
			name:    "empty key",
			key:     "",
			wantErr: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseKey(tc.key)
			if tc.wantErr {
				require.ErrorIs(t, err, ErrInvalidKey)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestObjectNameRoundTrip(t *testing.T) {
	keys := []string{
		"e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855.jpg",
		"deadbeef.png",
		"deadbeef.gif",
		"deadbeef.heic",
		"deadbeef.jpeg",
	}

	for _, key := range keys {
		t.Run(key, func(t *testing.T) {
			k, err := ParseKey(key)
			require.NoError(t, err)
			assert.Equal(t, key, k.ObjectName())
			assert.Equal(t, key, k.String())
		})
	}
}

func TestFormatFromExtension(t *testing.T) {
	tests := []struct {
		ext     string
		want    Format
		wantErr bool
	}{
		{ext: "jpg", want: FormatJPEG},
		{ext: "JPEG", want: FormatJPEG},
		{ext: "png", want: FormatPNG},
		{ext: "gif", want: FormatGIF},
		{ext: "heic", want: FormatHEIC},
		{ext: "heif", want: FormatHEIC},
		{ext: "webp", want: FormatWebP},
		{ext: "svg", wantErr: true},
		{ext: "", wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.ext, func(t *testing.T) {
			got, err := FormatFromExtension(tc.ext)
			if tc.wantErr {
				require.ErrorIs(t, err, ErrUnsupportedFormat)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestOriginError(t *testing.T) {
	var err error = &OriginError{StatusCode: 404, Body: []byte("missing")}

	require.ErrorIs(t, err, ErrOriginStatus)
	assert.EqualError(t, err, "origin responded with status 404")
}

func TestEncodedOutputCacheControl(t *testing.T) {
	out := NewJPEGOutput([]byte{0xff, 0xd8})

	assert.Equal(t, "image/jpeg", out.MediaType)
	assert.Equal(t, 31536000, out.CacheMaxAge)
	assert.Equal(t, "s-maxage=31536000, public", out.CacheControl())
}
