// Package zxbridge bridges in-memory images to a multi-format barcode
// decoding engine. It accepts either compressed image bytes or raw
// RGBA pixel buffers, runs one decode per request and marshals every
// outcome, including failures, into well-formed ReadResults.
package zxbridge

import (
	"github.com/scantools/zxbridge/internal/decode"
	"github.com/scantools/zxbridge/internal/imgview"
	"github.com/scantools/zxbridge/internal/imload"
)

// ErrImageLoadText is the error text reported when compressed image
// bytes cannot be decoded into pixels.
const ErrImageLoadText = "Error loading image"

// Reader decodes barcodes through a pluggable engine. The zero value
// is not usable; construct one with NewReader.
//
// A Reader performs one complete, synchronous decode per call and
// holds no state between calls, so a single Reader may be shared by
// concurrent callers as long as the engine allows it.
type Reader struct {
	// Engine performs the actual symbol search.
	Engine decode.Engine

	// ReturnErrors includes symbols carrying a per-symbol error in
	// multi-symbol results instead of dropping them.
	ReturnErrors bool
}

// NewReader returns a Reader backed by the default zxing engine.
func NewReader() *Reader {
	return &Reader{Engine: decode.NewZXingEngine()}
}

// ReadBarcodesFromImage decodes up to maxSymbols barcodes from
// compressed image bytes (PNG, JPEG, GIF, BMP, TIFF, WebP).
func (r *Reader) ReadBarcodesFromImage(data []byte, tryHarder bool, formats string, maxSymbols int) []ReadResult {
	opts, err := decode.NewOptions(tryHarder, formats, maxSymbols)
	if err != nil {
		return marshalError(err.Error())
	}
	view, err := imload.LoadLuminance(data)
	if err != nil {
		return marshalError(ErrImageLoadText)
	}
	return r.read(view, opts)
}

// ReadBarcodeFromImage decodes the single best barcode from
// compressed image bytes. A zero-value result with an empty Error
// means no symbol was found.
func (r *Reader) ReadBarcodeFromImage(data []byte, tryHarder bool, formats string) ReadResult {
	return firstOrDefault(r.ReadBarcodesFromImage(data, tryHarder, formats, 1))
}

// ReadBarcodesFromPixmap decodes up to maxSymbols barcodes from a raw
// interleaved RGBA buffer. The buffer is borrowed for the duration of
// the call and never retained.
func (r *Reader) ReadBarcodesFromPixmap(pix []byte, width, height int, tryHarder bool, formats string, maxSymbols int) []ReadResult {
	opts, err := decode.NewOptions(tryHarder, formats, maxSymbols)
	if err != nil {
		return marshalError(err.Error())
	}
	view, err := imgview.New(pix, width, height, imgview.RGBA)
	if err != nil {
		return marshalError(err.Error())
	}
	return r.read(view, opts)
}

// ReadBarcodeFromPixmap decodes the single best barcode from a raw
// interleaved RGBA buffer.
func (r *Reader) ReadBarcodeFromPixmap(pix []byte, width, height int, tryHarder bool, formats string) ReadResult {
	return firstOrDefault(r.ReadBarcodesFromPixmap(pix, width, height, tryHarder, formats, 1))
}

func (r *Reader) read(view *imgview.View, opts decode.Options) []ReadResult {
	opts.ReturnErrors = r.ReturnErrors
	symbols, err := decode.Run(r.Engine, view, opts)
	if err != nil {
		return marshalError(err.Error())
	}
	return marshalSymbols(symbols, opts.ReturnErrors)
}

// FormatNames lists the canonical names of all supported symbologies.
// Each name round-trips through the formats filter of a subsequent
// call.
func FormatNames() []string {
	formats := decode.AllFormats()
	names := make([]string, len(formats))
	for i, f := range formats {
		names[i] = f.String()
	}
	return names
}

var defaultReader = NewReader()

// ReadBarcodesFromImage decodes with the package default Reader.
func ReadBarcodesFromImage(data []byte, tryHarder bool, formats string, maxSymbols int) []ReadResult {
	return defaultReader.ReadBarcodesFromImage(data, tryHarder, formats, maxSymbols)
}

// ReadBarcodeFromImage decodes with the package default Reader.
func ReadBarcodeFromImage(data []byte, tryHarder bool, formats string) ReadResult {
	return defaultReader.ReadBarcodeFromImage(data, tryHarder, formats)
}

// ReadBarcodesFromPixmap decodes with the package default Reader.
func ReadBarcodesFromPixmap(pix []byte, width, height int, tryHarder bool, formats string, maxSymbols int) []ReadResult {
	return defaultReader.ReadBarcodesFromPixmap(pix, width, height, tryHarder, formats, maxSymbols)
}

// ReadBarcodeFromPixmap decodes with the package default Reader.
func ReadBarcodeFromPixmap(pix []byte, width, height int, tryHarder bool, formats string) ReadResult {
	return defaultReader.ReadBarcodeFromPixmap(pix, width, height, tryHarder, formats)
}
