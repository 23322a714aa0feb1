package decode

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOptionsEffortPreset(t *testing.T) {
	on, err := NewOptions(true, "", 3)
	require.NoError(t, err)
	assert.True(t, on.TryHarder)
	assert.True(t, on.TryRotate)
	assert.True(t, on.TryInvert)
	assert.True(t, on.TryDownscale)

	off, err := NewOptions(false, "", 3)
	require.NoError(t, err)
	assert.False(t, off.TryHarder)
	assert.False(t, off.TryRotate)
	assert.False(t, off.TryInvert)
	assert.False(t, off.TryDownscale)
}

func TestNewOptionsMaxSymbolsFloor(t *testing.T) {
	for _, n := range []int{-5, 0, 1} {
		opts, err := NewOptions(false, "", n)
		require.NoError(t, err)
		assert.Equal(t, 1, opts.MaxSymbols, "maxSymbols=%d", n)
	}

	opts, err := NewOptions(false, "", 8)
	require.NoError(t, err)
	assert.Equal(t, 8, opts.MaxSymbols)
}

func TestNewOptionsFormatFilter(t *testing.T) {
	opts, err := NewOptions(false, "qr,ean_13", 1)
	require.NoError(t, err)
	assert.Equal(t, []Format{FormatQRCode, FormatEAN13}, opts.Formats)
	assert.True(t, opts.wantsFormat(FormatQRCode))
	assert.False(t, opts.wantsFormat(FormatAztec))

	_, err = NewOptions(false, "nope", 1)
	assert.Error(t, err)
}

func TestWantsFormatEmptyFilter(t *testing.T) {
	opts, err := NewOptions(false, "", 1)
	require.NoError(t, err)
	for _, f := range AllFormats() {
		assert.True(t, opts.wantsFormat(f))
	}
}
