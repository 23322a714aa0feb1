package decode

import "fmt"

// ConfigurationError reports an invalid decode request parameter. It
// fails the whole call before the engine is invoked.
type ConfigurationError struct {
	Field string
	Err   error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid %s: %v", e.Field, e.Err)
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

func errUnknownFormat(token string) error {
	return fmt.Errorf("unknown barcode format %q", token)
}

// Options controls one decode request.
//
// The four Try* fields form the effort preset: a single effort flag
// drives all of them so that callers trade latency for recall as one
// decision, not four. They are kept as separate fields because the
// engine consumes them independently.
type Options struct {
	// TryHarder spends more time searching for symbols.
	TryHarder bool
	// TryRotate also searches the image rotated by 90, 180 and 270 degrees.
	TryRotate bool
	// TryInvert also searches with inverted pixel polarity.
	TryInvert bool
	// TryDownscale also searches downscaled renditions of large images.
	TryDownscale bool

	// Formats restricts the symbologies to search. Empty means all.
	Formats []Format

	// MaxSymbols caps the number of returned symbols. Always >= 1.
	MaxSymbols int

	// ReturnErrors includes symbols that carry a per-symbol error
	// (for example a checksum failure) in multi-symbol results.
	ReturnErrors bool
}

// NewOptions builds Options from the three request parameters. The
// effort flag fans out to all four trial strategies. maxSymbols is
// floored at 1; a request for zero results is meaningless.
func NewOptions(effort bool, formatFilter string, maxSymbols int) (Options, error) {
	formats, err := ParseFormats(formatFilter)
	if err != nil {
		return Options{}, err
	}
	if maxSymbols < 1 {
		maxSymbols = 1
	}
	return Options{
		TryHarder:    effort,
		TryRotate:    effort,
		TryInvert:    effort,
		TryDownscale: effort,
		Formats:      formats,
		MaxSymbols:   maxSymbols,
	}, nil
}

// wantsFormat reports whether f passes the filter.
func (o Options) wantsFormat(f Format) bool {
	if len(o.Formats) == 0 {
		return true
	}
	for _, want := range o.Formats {
		if want == f {
			return true
		}
	}
	return false
}
