package decode

import (
	"strings"
)

// Format identifies a barcode symbology.
type Format int

const (
	FormatUnknown Format = iota
	FormatAztec
	FormatCodabar
	FormatCode39
	FormatCode128
	FormatDataMatrix
	FormatEAN8
	FormatEAN13
	FormatITF
	FormatPDF417
	FormatQRCode
	FormatUPCA
	FormatUPCE
)

// String returns the canonical format name. These names are stable:
// they appear verbatim in results and are accepted back as format
// filter tokens.
func (f Format) String() string {
	switch f {
	case FormatAztec:
		return "AZTEC"
	case FormatCodabar:
		return "CODABAR"
	case FormatCode39:
		return "CODE_39"
	case FormatCode128:
		return "CODE_128"
	case FormatDataMatrix:
		return "DATA_MATRIX"
	case FormatEAN8:
		return "EAN_8"
	case FormatEAN13:
		return "EAN_13"
	case FormatITF:
		return "ITF"
	case FormatPDF417:
		return "PDF_417"
	case FormatQRCode:
		return "QR_CODE"
	case FormatUPCA:
		return "UPC_A"
	case FormatUPCE:
		return "UPC_E"
	default:
		return "UNKNOWN"
	}
}

// AllFormats lists every supported symbology in canonical order.
func AllFormats() []Format {
	return []Format{
		FormatAztec, FormatCodabar, FormatCode39, FormatCode128,
		FormatDataMatrix, FormatEAN8, FormatEAN13, FormatITF,
		FormatPDF417, FormatQRCode, FormatUPCA, FormatUPCE,
	}
}

// normalizeToken lowercases a format token and strips the separators
// commonly found in format spellings, so "QR_CODE", "QRCode" and
// "qr-code" all resolve to the same symbology.
func normalizeToken(s string) string {
	s = strings.ToLower(s)
	for _, sep := range []string{"-", "_", " "} {
		s = strings.ReplaceAll(s, sep, "")
	}
	return s
}

var formatsByToken = func() map[string]Format {
	m := make(map[string]Format, len(AllFormats())+2)
	for _, f := range AllFormats() {
		m[normalizeToken(f.String())] = f
	}
	// Common aliases.
	m["qr"] = FormatQRCode
	m["datamatrix"] = FormatDataMatrix
	return m
}()

// ParseFormat resolves a single filter token to a Format.
func ParseFormat(token string) (Format, error) {
	f, ok := formatsByToken[normalizeToken(token)]
	if !ok {
		return FormatUnknown, &ConfigurationError{
			Field: "formats",
			Err:   errUnknownFormat(token),
		}
	}
	return f, nil
}

// ParseFormats parses a delimiter-separated format filter. Tokens may
// be separated by commas, pipes or whitespace. An empty filter means
// no restriction and yields nil. Unknown tokens are an error, never
// silently dropped.
func ParseFormats(filter string) ([]Format, error) {
	tokens := strings.FieldsFunc(filter, func(r rune) bool {
		return r == ',' || r == '|' || r == ' ' || r == '\t' || r == '\n'
	})
	if len(tokens) == 0 {
		return nil, nil
	}
	formats := make([]Format, 0, len(tokens))
	seen := make(map[Format]bool, len(tokens))
	for _, tok := range tokens {
		f, err := ParseFormat(tok)
		if err != nil {
			return nil, err
		}
		if !seen[f] {
			seen[f] = true
			formats = append(formats, f)
		}
	}
	return formats, nil
}
