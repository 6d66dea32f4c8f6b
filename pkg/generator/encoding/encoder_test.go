package encoding_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samialtum/resxgen/pkg/generator/encoding"
)

func TestCharsetEncoderUTF8Passthrough(t *testing.T) {
	enc, err := encoding.NewCharsetEncoder("utf-8", false)
	require.NoError(t, err)
	assert.Equal(t, "utf-8", enc.Name())

	out, err := enc.Encode("héllo")
	require.NoError(t, err)
	assert.Equal(t, []byte("héllo"), out)
}

func TestCharsetEncoderEmptyNameDefaultsToUTF8(t *testing.T) {
	enc, err := encoding.NewCharsetEncoder("", false)
	require.NoError(t, err)
	assert.Equal(t, "utf-8", enc.Name())
}

func TestCharsetEncoderUTF8WithBOM(t *testing.T) {
	enc, err := encoding.NewCharsetEncoder("utf-8", true)
	require.NoError(t, err)

	out, err := enc.Encode("x")
	require.NoError(t, err)
	assert.Equal(t, []byte{0xEF, 0xBB, 0xBF, 'x'}, out)
}

func TestCharsetEncoderUTF16LE(t *testing.T) {
	enc, err := encoding.NewCharsetEncoder("utf-16le", false)
	require.NoError(t, err)

	out, err := enc.Encode("AB")
	require.NoError(t, err)
	assert.Equal(t, []byte{'A', 0x00, 'B', 0x00}, out)
}

func TestCharsetEncoderUTF16LEWithBOM(t *testing.T) {
	enc, err := encoding.NewCharsetEncoder("utf-16le", true)
	require.NoError(t, err)

	out, err := enc.Encode("A")
	require.NoError(t, err)
	assert.Equal(t, []byte{0xFF, 0xFE, 'A', 0x00}, out)
}

func TestCharsetEncoderUTF16BE(t *testing.T) {
	enc, err := encoding.NewCharsetEncoder("utf-16be", false)
	require.NoError(t, err)

	out, err := enc.Encode("A")
	require.NoError(t, err)
	assert.Equal(t, []byte{0x00, 'A'}, out)
}

func TestCharsetEncoderIANALookup(t *testing.T) {
	enc, err := encoding.NewCharsetEncoder("windows-1252", false)
	require.NoError(t, err)

	out, err := enc.Encode("café")
	require.NoError(t, err)
	assert.Equal(t, []byte{'c', 'a', 'f', 0xE9}, out)
}

func TestCharsetEncoderUnsupportedName(t *testing.T) {
	_, err := encoding.NewCharsetEncoder("klingon-8", false)
	require.Error(t, err)
	assert.ErrorIs(t, err, encoding.ErrUnsupportedEncoding)
}

func TestCharsetEncoderDeterministic(t *testing.T) {
	// The change check compares encoded bytes, so repeated encodes of the same
	// content must be identical.
	enc, err := encoding.NewCharsetEncoder("utf-16le", true)
	require.NoError(t, err)

	first, err := enc.Encode("same content")
	require.NoError(t, err)
	second, err := enc.Encode("same content")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
