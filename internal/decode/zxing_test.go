package decode

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scantools/zxbridge/internal/imgview"
	"github.com/scantools/zxbridge/internal/testutil"
)

func qrView(t *testing.T, content string, size int) *imgview.View {
	t.Helper()
	v, err := imgview.FromGray(testutil.QRGray(t, content, size, size))
	require.NoError(t, err)
	return v
}

func TestZXingEngineDecodesQR(t *testing.T) {
	engine := NewZXingEngine()
	symbols, err := engine.Decode(qrView(t, "https://example.com", 200), Options{MaxSymbols: 1})
	require.NoError(t, err)
	require.Len(t, symbols, 1)

	sym := symbols[0]
	assert.Equal(t, FormatQRCode, sym.Format)
	assert.Equal(t, "https://example.com", sym.Text)
	assert.Equal(t, "]Q1", sym.SymbologyIdentifier)
	assert.Empty(t, sym.Error)
}

func TestZXingEngineNothingFound(t *testing.T) {
	v, err := imgview.New(testutil.BlankGray(120, 120), 120, 120, imgview.Luminance)
	require.NoError(t, err)

	engine := NewZXingEngine()
	symbols, decErr := engine.Decode(v, Options{MaxSymbols: 5})
	require.NoError(t, decErr)
	assert.Empty(t, symbols)
}

func TestZXingEngineFormatFilter(t *testing.T) {
	engine := NewZXingEngine()

	// Restricting the search to a different symbology must hide the QR.
	symbols, err := engine.Decode(qrView(t, "filtered", 200), Options{
		Formats:    []Format{FormatEAN13},
		MaxSymbols: 1,
	})
	require.NoError(t, err)
	assert.Empty(t, symbols)

	// Restricting to QR must still find it.
	symbols, err = engine.Decode(qrView(t, "filtered", 200), Options{
		Formats:    []Format{FormatQRCode},
		MaxSymbols: 1,
	})
	require.NoError(t, err)
	require.Len(t, symbols, 1)
	assert.Equal(t, "filtered", symbols[0].Text)
}

func TestZXingEnginePositionOrder(t *testing.T) {
	engine := NewZXingEngine()
	symbols, err := engine.Decode(qrView(t, "position", 200), Options{MaxSymbols: 1})
	require.NoError(t, err)
	require.Len(t, symbols, 1)

	pos := symbols[0].Position
	assert.LessOrEqual(t, pos.TopLeft.X, pos.TopRight.X)
	assert.LessOrEqual(t, pos.TopLeft.Y, pos.BottomLeft.Y)
	assert.Equal(t, pos.TopRight.X, pos.BottomRight.X)
	assert.Equal(t, pos.BottomLeft.Y, pos.BottomRight.Y)
}

func TestTrialsEffortOff(t *testing.T) {
	v := qrView(t, "trials", 100)
	ts := trials(v.Image(), Options{})
	assert.Len(t, ts, 1, "effort off searches only the source rendition")
}

func TestTrialsEffortOn(t *testing.T) {
	v := qrView(t, "trials", 100)
	ts := trials(v.Image(), Options{TryRotate: true, TryInvert: true, TryDownscale: true})
	// Source + three rotations + inversion; 100px is below the
	// downscale threshold.
	assert.Len(t, ts, 5)
}

func TestTrialCoordinateRemap(t *testing.T) {
	ts := trials(qrView(t, "remap", 100).Image(), Options{TryRotate: true})
	require.Len(t, ts, 4)

	// Source corner (0,0) seen through each rotated rendition must map
	// back to itself: rotate the forward way, then ask the trial to map
	// the rotated coordinate back.
	rot90 := ts[1].back(0, 99)   // (0,0) after 90 CCW lands at (y, w-1-x) = (0, 99)
	rot180 := ts[2].back(99, 99) // (0,0) after 180 lands at (99, 99)
	rot270 := ts[3].back(99, 0)  // (0,0) after 270 CCW lands at (h-1-y, x) = (99, 0)

	assert.Equal(t, Point{X: 0, Y: 0}, rot90)
	assert.Equal(t, Point{X: 0, Y: 0}, rot180)
	assert.Equal(t, Point{X: 0, Y: 0}, rot270)
}

func TestQuadFromPoints(t *testing.T) {
	quad := quadFromPoints([]Point{{X: 30, Y: 70}, {X: 30, Y: 30}, {X: 70, Y: 30}})
	assert.Equal(t, Quadrilateral{
		TopLeft:     Point{X: 30, Y: 30},
		TopRight:    Point{X: 70, Y: 30},
		BottomRight: Point{X: 70, Y: 70},
		BottomLeft:  Point{X: 30, Y: 70},
	}, quad)

	assert.Equal(t, Quadrilateral{}, quadFromPoints(nil))
}
