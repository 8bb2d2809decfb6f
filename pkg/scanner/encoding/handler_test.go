package encoding_test

import (
	"testing"

	"github.com/stackvity/asset-scanner/pkg/scanner/encoding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

func encodeBytes(t *testing.T, text string, enc transform.Transformer) []byte {
	t.Helper()
	encoded, _, err := transform.Bytes(enc, []byte(text))
	require.NoError(t, err)
	return encoded
}

func TestDetectAndDecode_PlainUTF8Unchanged(t *testing.T) {
	handler := encoding.NewCharsetHandler("")
	input := []byte(`[{"assetClass":"server"}]`)

	out, name, _, err := handler.DetectAndDecode(input)

	require.NoError(t, err)
	assert.Equal(t, "utf-8", name)
	assert.Equal(t, string(input), string(out))
}

func TestDetectAndDecode_StripsUTF8BOM(t *testing.T) {
	handler := encoding.NewCharsetHandler("")
	input := append([]byte{0xEF, 0xBB, 0xBF}, []byte(`{"assetClass":"ec2"}`)...)

	out, name, certain, err := handler.DetectAndDecode(input)

	require.NoError(t, err)
	assert.Equal(t, "utf-8", name)
	assert.True(t, certain, "a BOM makes detection certain")
	assert.Equal(t, `{"assetClass":"ec2"}`, string(out))
}

func TestDetectAndDecode_UTF16WithBOM(t *testing.T) {
	doc := `[{"assetClass":"rds"}]`
	tests := []struct {
		name     string
		bom      []byte
		endian   unicode.Endianness
		wantName string
	}{
		{name: "little endian", bom: []byte{0xFF, 0xFE}, endian: unicode.LittleEndian, wantName: "utf-16le"},
		{name: "big endian", bom: []byte{0xFE, 0xFF}, endian: unicode.BigEndian, wantName: "utf-16be"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			handler := encoding.NewCharsetHandler("")
			encoder := unicode.UTF16(tc.endian, unicode.IgnoreBOM).NewEncoder()
			input := append(append([]byte{}, tc.bom...), encodeBytes(t, doc, encoder)...)

			out, name, certain, err := handler.DetectAndDecode(input)

			require.NoError(t, err)
			assert.Equal(t, tc.wantName, name)
			assert.True(t, certain)
			assert.Equal(t, doc, string(out))
		})
	}
}

func TestDetectAndDecode_DefaultEncodingFallback(t *testing.T) {
	handler := encoding.NewCharsetHandler("latin1")
	input := []byte{'"', 0xE9, '"'} // "é" in ISO-8859-1, invalid UTF-8

	out, name, certain, err := handler.DetectAndDecode(input)

	require.NoError(t, err)
	assert.Equal(t, "windows-1252", name, "latin1 resolves to its WHATWG superset")
	assert.True(t, certain, "a configured default is treated as certain")
	assert.Equal(t, `"é"`, string(out))
}

func TestDetectAndDecode_ValidUTF8IgnoresDefault(t *testing.T) {
	handler := encoding.NewCharsetHandler("latin1")
	input := []byte(`{"assetClass":"serveur-é"}`)

	out, name, _, err := handler.DetectAndDecode(input)

	require.NoError(t, err)
	assert.Equal(t, "utf-8", name)
	assert.Equal(t, string(input), string(out))
}

func TestSniff(t *testing.T) {
	handler := encoding.NewCharsetHandler("")

	assert.Equal(t, "application/json", handler.Sniff([]byte(`{"assetClass":"server"}`)))
	assert.Contains(t, handler.Sniff([]byte("just some words")), "text/plain")
}

func TestIsBinary(t *testing.T) {
	handler := encoding.NewCharsetHandler("")
	png := []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A, 0x00, 0x00, 0x00, 0x0D, 'I', 'H', 'D', 'R'}

	assert.True(t, handler.IsBinary(png), "PNG header should be binary")
	assert.False(t, handler.IsBinary([]byte(`[{"a":1}]`)), "JSON should be text")
	assert.False(t, handler.IsBinary(nil), "empty content is not binary")
}
