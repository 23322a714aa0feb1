// Package imload turns compressed image bytes into luminance pixel
// buffers for decoding. Color input is always collapsed to a single
// grayscale channel; symbologies that depend on color information are
// bounded by that conversion.
package imload

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/scantools/zxbridge/internal/imgview"
)

// LoadError reports a failure to decompress image bytes.
type LoadError struct {
	Err error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("loading image: %v", e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// LoadLuminance decodes compressed image bytes (PNG, JPEG, GIF, BMP,
// TIFF, WebP) into a single-channel luminance view. Grayscale sources
// are viewed in place; color sources are converted once.
func LoadLuminance(data []byte) (*imgview.View, error) {
	if len(data) == 0 {
		return nil, &LoadError{Err: errors.New("empty buffer")}
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, &LoadError{Err: err}
	}
	return luminanceView(img)
}

func luminanceView(img image.Image) (*imgview.View, error) {
	if gray, ok := img.(*image.Gray); ok {
		b := gray.Bounds()
		if gray.Stride == b.Dx() {
			return imgview.FromGray(gray)
		}
	}

	b := img.Bounds()
	gray := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(gray, gray.Bounds(), img, b.Min, draw.Src)
	return imgview.FromGray(gray)
}
