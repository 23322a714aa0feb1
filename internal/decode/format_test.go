package decode

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		token string
		want  Format
	}{
		{"QR_CODE", FormatQRCode},
		{"qr_code", FormatQRCode},
		{"QRCode", FormatQRCode},
		{"qr-code", FormatQRCode},
		{"qr", FormatQRCode},
		{"EAN_13", FormatEAN13},
		{"ean13", FormatEAN13},
		{"DataMatrix", FormatDataMatrix},
		{"pdf_417", FormatPDF417},
		{"Code 128", FormatCode128},
	}
	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			got, err := ParseFormat(tt.token)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseFormatUnknown(t *testing.T) {
	_, err := ParseFormat("bogus")
	require.Error(t, err)

	var cfgErr *ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Contains(t, err.Error(), "bogus")
}

func TestParseFormats(t *testing.T) {
	t.Run("empty means all", func(t *testing.T) {
		formats, err := ParseFormats("")
		require.NoError(t, err)
		assert.Nil(t, formats)
	})

	t.Run("comma separated", func(t *testing.T) {
		formats, err := ParseFormats("QR_CODE,EAN_13")
		require.NoError(t, err)
		assert.Equal(t, []Format{FormatQRCode, FormatEAN13}, formats)
	})

	t.Run("pipe separated with duplicates", func(t *testing.T) {
		formats, err := ParseFormats("qr|QR_CODE|aztec")
		require.NoError(t, err)
		assert.Equal(t, []Format{FormatQRCode, FormatAztec}, formats)
	})

	t.Run("unknown token fails whole parse", func(t *testing.T) {
		_, err := ParseFormats("QR_CODE,wat")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "wat")
	})
}

func TestFormatNamesRoundTrip(t *testing.T) {
	// Every canonical name must parse back to the same format so that
	// result formats can be fed into a subsequent filter.
	for _, f := range AllFormats() {
		got, err := ParseFormat(f.String())
		require.NoError(t, err, f.String())
		assert.Equal(t, f, got)
	}
}
