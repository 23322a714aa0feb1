package decode

import (
	"fmt"
	"log/slog"

	"github.com/scantools/zxbridge/internal/imgview"
)

// Point is an integer point in source-image coordinates.
type Point struct {
	X int
	Y int
}

// Quadrilateral is the position of a symbol in the source image. The
// point order TopLeft, TopRight, BottomRight, BottomLeft is a contract
// with geometry consumers and is never permuted.
type Quadrilateral struct {
	TopLeft     Point
	TopRight    Point
	BottomRight Point
	BottomLeft  Point
}

// Symbol is one decoded barcode as reported by an engine. It is
// constructed per call, read once by the marshalling layer and then
// discarded.
type Symbol struct {
	Format              Format
	Text                string
	RawBytes            []byte
	Position            Quadrilateral
	Error               string
	SymbologyIdentifier string
}

// Engine is a pluggable barcode decoding implementation. Decode
// returns the symbols found in the view, at most opts.MaxSymbols.
// Finding nothing is not an error; an error indicates the engine
// itself failed. Any search trials (rotation, inversion, downscaling)
// happen inside the engine.
type Engine interface {
	Decode(view *imgview.View, opts Options) ([]Symbol, error)
}

// Run invokes the engine exactly once and normalizes its failure
// modes: a panicking engine is converted into an error rather than
// unwinding through the caller, and the result count is capped at
// opts.MaxSymbols. No retries happen here.
func Run(e Engine, view *imgview.View, opts Options) (symbols []Symbol, err error) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("decode engine panicked", "panic", r)
			symbols = nil
			err = fmt.Errorf("decode engine failure: %v", r)
		}
	}()

	symbols, err = e.Decode(view, opts)
	if err != nil {
		return nil, err
	}
	if len(symbols) > opts.MaxSymbols {
		symbols = symbols[:opts.MaxSymbols]
	}
	return symbols, nil
}
