package decode

import (
	"image"
	"math"

	"github.com/disintegration/imaging"
	gozxing "github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/aztec"
	"github.com/makiuchi-d/gozxing/datamatrix"
	"github.com/makiuchi-d/gozxing/multi"
	"github.com/makiuchi-d/gozxing/oned"
	"github.com/makiuchi-d/gozxing/pdf417"
	"github.com/makiuchi-d/gozxing/qrcode"

	"github.com/scantools/zxbridge/internal/imgview"
)

// downscaleMinSize is the smallest dimension worth searching in a
// downscaled rendition. Below this, shrinking destroys symbol detail.
const downscaleMinSize = 500

// ZXingEngine decodes barcodes with the gozxing library. The zero
// value is ready to use.
//
// Search trials (rotation, polarity inversion, downscaling) requested
// through Options run inside this engine; each trial is a separate
// rendition of the input and found positions are mapped back to
// source-image coordinates.
type ZXingEngine struct{}

// NewZXingEngine returns a gozxing-backed engine.
func NewZXingEngine() *ZXingEngine { return &ZXingEngine{} }

// trial is one rendition of the input image together with the mapping
// from rendition coordinates back to source coordinates.
type trial struct {
	img  image.Image
	back func(x, y float64) Point
}

func (e *ZXingEngine) Decode(view *imgview.View, opts Options) ([]Symbol, error) {
	img := view.Image()
	hints := buildHints(opts)
	reader := newFormatReader(opts.Formats)

	for _, t := range trials(img, opts) {
		bmp, err := gozxing.NewBinaryBitmapFromImage(t.img)
		if err != nil {
			return nil, err
		}

		var results []*gozxing.Result
		if opts.MaxSymbols > 1 {
			mr := multi.NewGenericMultipleBarcodeReader(reader)
			results, err = mr.DecodeMultiple(bmp, hints)
		} else {
			var r *gozxing.Result
			r, err = reader.Decode(bmp, hints)
			if err == nil && r != nil {
				results = []*gozxing.Result{r}
			}
		}
		if err != nil || len(results) == 0 {
			// Nothing found in this rendition; try the next one.
			// gozxing reports "not found" as an error value.
			continue
		}

		symbols := make([]Symbol, 0, len(results))
		for _, r := range results {
			symbols = append(symbols, symbolFromResult(r, t.back))
		}
		return symbols, nil
	}
	return nil, nil
}

// trials builds the sequence of image renditions to search, always
// starting with the unmodified source.
func trials(img image.Image, opts Options) []trial {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	identity := func(x, y float64) Point {
		return Point{X: iround(x), Y: iround(y)}
	}
	ts := []trial{{img: img, back: identity}}

	if opts.TryRotate {
		ts = append(ts,
			// imaging rotates counterclockwise.
			trial{img: imaging.Rotate90(img), back: func(x, y float64) Point {
				return Point{X: w - 1 - iround(y), Y: iround(x)}
			}},
			trial{img: imaging.Rotate180(img), back: func(x, y float64) Point {
				return Point{X: w - 1 - iround(x), Y: h - 1 - iround(y)}
			}},
			trial{img: imaging.Rotate270(img), back: func(x, y float64) Point {
				return Point{X: iround(y), Y: h - 1 - iround(x)}
			}},
		)
	}
	if opts.TryInvert {
		ts = append(ts, trial{img: imaging.Invert(img), back: identity})
	}
	if opts.TryDownscale {
		for factor := 2; min(w, h)/factor >= downscaleMinSize; factor *= 2 {
			f := float64(factor)
			ts = append(ts, trial{
				img: imaging.Resize(img, w/factor, h/factor, imaging.Box),
				back: func(x, y float64) Point {
					return Point{X: iround(x * f), Y: iround(y * f)}
				},
			})
		}
	}
	return ts
}

func buildHints(opts Options) map[gozxing.DecodeHintType]interface{} {
	hints := make(map[gozxing.DecodeHintType]interface{})
	if opts.TryHarder {
		hints[gozxing.DecodeHintType_TRY_HARDER] = true
	}
	if len(opts.Formats) > 0 {
		formats := make([]gozxing.BarcodeFormat, 0, len(opts.Formats))
		for _, f := range opts.Formats {
			if bf, ok := formatToZXing(f); ok {
				formats = append(formats, bf)
			}
		}
		if len(formats) > 0 {
			hints[gozxing.DecodeHintType_POSSIBLE_FORMATS] = formats
		}
	}
	return hints
}

func symbolFromResult(r *gozxing.Result, back func(x, y float64) Point) Symbol {
	format := formatFromZXing(r.GetBarcodeFormat())

	pts := r.GetResultPoints()
	points := make([]Point, 0, len(pts))
	for _, p := range pts {
		points = append(points, back(p.GetX(), p.GetY()))
	}

	return Symbol{
		Format:              format,
		Text:                r.GetText(),
		RawBytes:            r.GetRawBytes(),
		Position:            quadFromPoints(points),
		SymbologyIdentifier: symbologyIdentifier(format),
	}
}

// quadFromPoints derives the position quadrilateral from the engine's
// result points. gozxing reports key points (finder patterns, line
// endpoints) rather than corners, so the quadrilateral is the bounding
// quad of those points in TopLeft, TopRight, BottomRight, BottomLeft
// order.
func quadFromPoints(pts []Point) Quadrilateral {
	if len(pts) == 0 {
		return Quadrilateral{}
	}
	minX, minY := pts[0].X, pts[0].Y
	maxX, maxY := pts[0].X, pts[0].Y
	for _, p := range pts[1:] {
		minX = min(minX, p.X)
		minY = min(minY, p.Y)
		maxX = max(maxX, p.X)
		maxY = max(maxY, p.Y)
	}
	return Quadrilateral{
		TopLeft:     Point{X: minX, Y: minY},
		TopRight:    Point{X: maxX, Y: minY},
		BottomRight: Point{X: maxX, Y: maxY},
		BottomLeft:  Point{X: minX, Y: maxY},
	}
}

// symbologyIdentifier returns the ISO/IEC 15424 symbology class for a
// format. gozxing does not surface the full identifier, so modifiers
// that depend on decode internals default to the class value.
func symbologyIdentifier(f Format) string {
	switch f {
	case FormatAztec:
		return "]z0"
	case FormatCodabar:
		return "]F0"
	case FormatCode39:
		return "]A0"
	case FormatCode128:
		return "]C0"
	case FormatDataMatrix:
		return "]d1"
	case FormatEAN8, FormatEAN13, FormatUPCA, FormatUPCE:
		return "]E0"
	case FormatITF:
		return "]I0"
	case FormatPDF417:
		return "]L2"
	case FormatQRCode:
		return "]Q1"
	default:
		return ""
	}
}

// formatReader tries each symbology-specific gozxing reader in turn.
// It satisfies gozxing.Reader so it can also serve as the delegate of
// the multi-symbol reader.
type formatReader struct {
	readers []gozxing.Reader
}

func newFormatReader(formats []Format) *formatReader {
	if len(formats) == 0 {
		formats = AllFormats()
	}
	readers := make([]gozxing.Reader, 0, len(formats))
	for _, f := range formats {
		switch f {
		case FormatAztec:
			readers = append(readers, aztec.NewAztecReader())
		case FormatCodabar:
			readers = append(readers, oned.NewCodaBarReader())
		case FormatCode39:
			readers = append(readers, oned.NewCode39Reader())
		case FormatCode128:
			readers = append(readers, oned.NewCode128Reader())
		case FormatDataMatrix:
			readers = append(readers, datamatrix.NewDataMatrixReader())
		case FormatEAN8:
			readers = append(readers, oned.NewEAN8Reader())
		case FormatEAN13:
			readers = append(readers, oned.NewEAN13Reader())
		case FormatITF:
			readers = append(readers, oned.NewITFReader())
		case FormatPDF417:
			readers = append(readers, pdf417.NewPDF417Reader())
		case FormatQRCode:
			readers = append(readers, qrcode.NewQRCodeReader())
		case FormatUPCA:
			readers = append(readers, oned.NewUPCAReader())
		case FormatUPCE:
			readers = append(readers, oned.NewUPCEReader())
		}
	}
	return &formatReader{readers: readers}
}

func (fr *formatReader) DecodeWithoutHints(img *gozxing.BinaryBitmap) (*gozxing.Result, error) {
	return fr.Decode(img, nil)
}

func (fr *formatReader) Decode(img *gozxing.BinaryBitmap, hints map[gozxing.DecodeHintType]interface{}) (*gozxing.Result, error) {
	for _, r := range fr.readers {
		if res, err := r.Decode(img, hints); err == nil {
			return res, nil
		}
	}
	return nil, gozxing.NewNotFoundException()
}

func (fr *formatReader) Reset() {
	for _, r := range fr.readers {
		r.Reset()
	}
}

func formatToZXing(f Format) (gozxing.BarcodeFormat, bool) {
	switch f {
	case FormatAztec:
		return gozxing.BarcodeFormat_AZTEC, true
	case FormatCodabar:
		return gozxing.BarcodeFormat_CODABAR, true
	case FormatCode39:
		return gozxing.BarcodeFormat_CODE_39, true
	case FormatCode128:
		return gozxing.BarcodeFormat_CODE_128, true
	case FormatDataMatrix:
		return gozxing.BarcodeFormat_DATA_MATRIX, true
	case FormatEAN8:
		return gozxing.BarcodeFormat_EAN_8, true
	case FormatEAN13:
		return gozxing.BarcodeFormat_EAN_13, true
	case FormatITF:
		return gozxing.BarcodeFormat_ITF, true
	case FormatPDF417:
		return gozxing.BarcodeFormat_PDF_417, true
	case FormatQRCode:
		return gozxing.BarcodeFormat_QR_CODE, true
	case FormatUPCA:
		return gozxing.BarcodeFormat_UPC_A, true
	case FormatUPCE:
		return gozxing.BarcodeFormat_UPC_E, true
	default:
		return 0, false
	}
}

func formatFromZXing(bf gozxing.BarcodeFormat) Format {
	switch bf {
	case gozxing.BarcodeFormat_AZTEC:
		return FormatAztec
	case gozxing.BarcodeFormat_CODABAR:
		return FormatCodabar
	case gozxing.BarcodeFormat_CODE_39:
		return FormatCode39
	case gozxing.BarcodeFormat_CODE_128:
		return FormatCode128
	case gozxing.BarcodeFormat_DATA_MATRIX:
		return FormatDataMatrix
	case gozxing.BarcodeFormat_EAN_8:
		return FormatEAN8
	case gozxing.BarcodeFormat_EAN_13:
		return FormatEAN13
	case gozxing.BarcodeFormat_ITF:
		return FormatITF
	case gozxing.BarcodeFormat_PDF_417:
		return FormatPDF417
	case gozxing.BarcodeFormat_QR_CODE:
		return FormatQRCode
	case gozxing.BarcodeFormat_UPC_A:
		return FormatUPCA
	case gozxing.BarcodeFormat_UPC_E:
		return FormatUPCE
	default:
		return FormatUnknown
	}
}

func iround(v float64) int { return int(math.Round(v)) }
