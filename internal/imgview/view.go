// Package imgview provides non-owning pixel views over caller-supplied
// buffers. A View never copies pixel data; it remains valid only while
// the underlying buffer is alive and unmodified, which for the decode
// entry points means the duration of a single call.
package imgview

import (
	"fmt"
	"image"
)

// Layout describes the pixel layout of a raw buffer.
type Layout int

const (
	// Luminance is a single-channel 8-bit grayscale layout.
	Luminance Layout = iota
	// RGBA is an interleaved 4-channel 8-bit layout.
	RGBA
)

// String returns the layout name.
func (l Layout) String() string {
	switch l {
	case Luminance:
		return "luminance"
	case RGBA:
		return "rgba"
	default:
		return "unknown"
	}
}

// BytesPerPixel returns the number of bytes per pixel for the layout.
func (l Layout) BytesPerPixel() int {
	if l == RGBA {
		return 4
	}
	return 1
}

// View is a non-owning reference to an image buffer. The caller keeps
// ownership of the pixel slice; the View must not outlive it.
type View struct {
	pix    []byte
	width  int
	height int
	layout Layout
}

// New wraps pix in a View after validating dimensions against the
// buffer length. The buffer is not copied.
func New(pix []byte, width, height int, layout Layout) (*View, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("imgview: invalid dimensions %dx%d", width, height)
	}
	need := width * height * layout.BytesPerPixel()
	if len(pix) < need {
		return nil, fmt.Errorf("imgview: buffer too small: have %d bytes, need %d for %dx%d %s",
			len(pix), need, width, height, layout)
	}
	return &View{pix: pix, width: width, height: height, layout: layout}, nil
}

// FromGray wraps an existing grayscale image without copying. The
// image must have a stride equal to its width; callers that decode
// through the standard image package always satisfy this.
func FromGray(img *image.Gray) (*View, error) {
	b := img.Bounds()
	if img.Stride != b.Dx() {
		return nil, fmt.Errorf("imgview: unsupported stride %d for width %d", img.Stride, b.Dx())
	}
	return New(img.Pix, b.Dx(), b.Dy(), Luminance)
}

// Width returns the image width in pixels.
func (v *View) Width() int { return v.width }

// Height returns the image height in pixels.
func (v *View) Height() int { return v.height }

// Layout returns the pixel layout.
func (v *View) Layout() Layout { return v.layout }

// Image returns an image.Image header sharing the view's buffer.
// No pixel data is copied; the result aliases the caller's memory.
func (v *View) Image() image.Image {
	r := image.Rect(0, 0, v.width, v.height)
	if v.layout == RGBA {
		return &image.RGBA{Pix: v.pix, Stride: 4 * v.width, Rect: r}
	}
	return &image.Gray{Pix: v.pix, Stride: v.width, Rect: r}
}
