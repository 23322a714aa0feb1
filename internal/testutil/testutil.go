// Package testutil renders real, decodable barcode fixtures for
// tests. Fixtures are generated in-process with the gozxing writers
// so tests do not depend on checked-in binary assets.
package testutil

import (
	"bytes"
	"image"
	"image/draw"
	"image/png"
	"testing"

	gozxing "github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/qrcode"
	"github.com/stretchr/testify/require"
)

// QRGray renders content as a QR code into a grayscale image of the
// given size.
func QRGray(t *testing.T, content string, width, height int) *image.Gray {
	t.Helper()

	writer := qrcode.NewQRCodeWriter()
	matrix, err := writer.Encode(content, gozxing.BarcodeFormat_QR_CODE, width, height, nil)
	require.NoError(t, err)

	// gozxing bit matrices implement image.Image.
	gray := image.NewGray(image.Rect(0, 0, width, height))
	draw.Draw(gray, gray.Bounds(), matrix, image.Point{}, draw.Src)
	return gray
}

// QRPNG renders content as a QR code and encodes it as PNG bytes.
func QRPNG(t *testing.T, content string, width, height int) []byte {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, QRGray(t, content, width, height)))
	return buf.Bytes()
}

// QRRGBA renders content as a QR code into a raw interleaved RGBA
// buffer, the pixel shape accepted by the pixmap entry points.
func QRRGBA(t *testing.T, content string, width, height int) []byte {
	t.Helper()

	rgba := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(rgba, rgba.Bounds(), QRGray(t, content, width, height), image.Point{}, draw.Src)
	return rgba.Pix
}

// BlankGray returns a featureless white grayscale buffer with no
// decodable symbol in it.
func BlankGray(width, height int) []byte {
	pix := make([]byte, width*height)
	for i := range pix {
		pix[i] = 0xff
	}
	return pix
}

// BlankPNG encodes a featureless white image as PNG bytes.
func BlankPNG(t *testing.T, width, height int) []byte {
	t.Helper()

	img := image.NewGray(image.Rect(0, 0, width, height))
	for i := range img.Pix {
		img.Pix[i] = 0xff
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}
