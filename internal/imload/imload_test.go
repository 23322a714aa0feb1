package imload

import (
	"bytes"
	"errors"
	"image"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scantools/zxbridge/internal/imgview"
)

func TestLoadLuminancePNG(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 32, 16))
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, src))

	v, err := LoadLuminance(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, 32, v.Width())
	assert.Equal(t, 16, v.Height())
	assert.Equal(t, imgview.Luminance, v.Layout())
}

func TestLoadLuminanceJPEG(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 20, 20))
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, src, nil))

	v, err := LoadLuminance(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, 20, v.Width())
	assert.Equal(t, 20, v.Height())
}

func TestLoadLuminanceFailures(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"empty buffer", nil},
		{"zero length", []byte{}},
		{"garbage bytes", []byte{0xde, 0xad, 0xbe, 0xef}},
		{"truncated png", []byte("\x89PNG\r\n\x1a\n\x00\x00")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := LoadLuminance(tt.data)
			assert.Nil(t, v)
			require.Error(t, err)

			var loadErr *LoadError
			assert.True(t, errors.As(err, &loadErr))
		})
	}
}

func TestLuminanceViewSharesGrayBuffer(t *testing.T) {
	gray := image.NewGray(image.Rect(0, 0, 8, 8))
	gray.Pix[0] = 42

	v, err := luminanceView(gray)
	require.NoError(t, err)

	// A grayscale source must be viewed in place, not copied.
	got, ok := v.Image().(*image.Gray)
	require.True(t, ok)
	assert.Same(t, &gray.Pix[0], &got.Pix[0])
}
