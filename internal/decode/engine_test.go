package decode

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scantools/zxbridge/internal/imgview"
)

// stubEngine returns canned symbols or fails, for exercising the
// invoker without a real decoder.
type stubEngine struct {
	symbols []Symbol
	err     error
	panics  bool
	calls   int
}

func (s *stubEngine) Decode(_ *imgview.View, _ Options) ([]Symbol, error) {
	s.calls++
	if s.panics {
		panic("index out of range")
	}
	return s.symbols, s.err
}

func testView(t *testing.T) *imgview.View {
	t.Helper()
	v, err := imgview.New(make([]byte, 100*100), 100, 100, imgview.Luminance)
	require.NoError(t, err)
	return v
}

func TestRunInvokesEngineOnce(t *testing.T) {
	stub := &stubEngine{symbols: []Symbol{{Format: FormatQRCode, Text: "hello"}}}
	symbols, err := Run(stub, testView(t), Options{MaxSymbols: 1})
	require.NoError(t, err)
	require.Len(t, symbols, 1)
	assert.Equal(t, "hello", symbols[0].Text)
	assert.Equal(t, 1, stub.calls)
}

func TestRunEmptyIsNotAnError(t *testing.T) {
	symbols, err := Run(&stubEngine{}, testView(t), Options{MaxSymbols: 5})
	require.NoError(t, err)
	assert.Empty(t, symbols)
}

func TestRunCapsAtMaxSymbols(t *testing.T) {
	stub := &stubEngine{symbols: []Symbol{
		{Text: "a"}, {Text: "b"}, {Text: "c"}, {Text: "d"},
	}}
	symbols, err := Run(stub, testView(t), Options{MaxSymbols: 2})
	require.NoError(t, err)
	require.Len(t, symbols, 2)
	assert.Equal(t, "a", symbols[0].Text)
	assert.Equal(t, "b", symbols[1].Text)
}

func TestRunEngineError(t *testing.T) {
	want := errors.New("engine blew up")
	symbols, err := Run(&stubEngine{err: want}, testView(t), Options{MaxSymbols: 1})
	assert.Nil(t, symbols)
	assert.ErrorIs(t, err, want)
}

func TestRunRecoversEnginePanic(t *testing.T) {
	symbols, err := Run(&stubEngine{panics: true}, testView(t), Options{MaxSymbols: 1})
	assert.Nil(t, symbols)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "index out of range")
}
