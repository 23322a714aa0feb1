package zxbridge

import "github.com/scantools/zxbridge/internal/decode"

// Point is an integer point in source-image coordinates.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Position is the quadrilateral a symbol occupies in the source
// image. The field order TopLeft, TopRight, BottomRight, BottomLeft
// is part of the wire contract and is never permuted.
type Position struct {
	TopLeft     Point `json:"topLeft"`
	TopRight    Point `json:"topRight"`
	BottomRight Point `json:"bottomRight"`
	BottomLeft  Point `json:"bottomLeft"`
}

// ReadResult is one decoded symbol in host-consumable form, or a
// synthetic call-level failure. Consumers detect failures by Error
// being non-empty; no error value ever crosses this boundary.
//
// Bytes aliases engine-owned memory without copying. It is guaranteed
// readable until the next decode call; hosts that need the payload
// longer must copy it.
type ReadResult struct {
	Format              string   `json:"format"`
	Text                string   `json:"text"`
	Bytes               []byte   `json:"bytes"`
	Error               string   `json:"error"`
	Position            Position `json:"position"`
	SymbologyIdentifier string   `json:"symbologyIdentifier"`
}

// marshalSymbols converts decoded symbols field-for-field into
// ReadResults. Symbols carrying a per-symbol error are dropped unless
// returnErrors is set; they are never call-level failures.
func marshalSymbols(symbols []decode.Symbol, returnErrors bool) []ReadResult {
	results := make([]ReadResult, 0, len(symbols))
	for _, sym := range symbols {
		if sym.Error != "" && !returnErrors {
			continue
		}
		results = append(results, ReadResult{
			Format:              sym.Format.String(),
			Text:                sym.Text,
			Bytes:               sym.RawBytes,
			Error:               sym.Error,
			Position:            positionFromQuad(sym.Position),
			SymbologyIdentifier: sym.SymbologyIdentifier,
		})
	}
	return results
}

// marshalError wraps a call-level failure as a singleton result list
// with every field but Error left at its zero value.
func marshalError(message string) []ReadResult {
	return []ReadResult{{Error: message}}
}

// firstOrDefault returns the first result, or a zero-value result
// when nothing was found. "Nothing found" is distinct from failure:
// the returned record has an empty Error.
func firstOrDefault(results []ReadResult) ReadResult {
	if len(results) == 0 {
		return ReadResult{}
	}
	return results[0]
}

func positionFromQuad(q decode.Quadrilateral) Position {
	return Position{
		TopLeft:     Point{X: q.TopLeft.X, Y: q.TopLeft.Y},
		TopRight:    Point{X: q.TopRight.X, Y: q.TopRight.Y},
		BottomRight: Point{X: q.BottomRight.X, Y: q.BottomRight.Y},
		BottomLeft:  Point{X: q.BottomLeft.X, Y: q.BottomLeft.Y},
	}
}
