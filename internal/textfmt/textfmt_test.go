package textfmt

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBytesLiteral(t *testing.T) {
	tests := []struct {
		name  string
		input []byte
		want  string
	}{
		{name: "empty", input: nil, want: `b''`},
		{name: "printable ascii", input: []byte("LevelList"), want: `b'LevelList'`},
		{name: "control escapes", input: []byte("a\tb\nc\rd"), want: `b'a\tb\nc\rd'`},
		{name: "nul and high bytes", input: []byte{0x00, 0x16, 0x7f, 0xff}, want: `b'\x00\x16\x7f\xff'`},
		{name: "backslash", input: []byte(`a\b`), want: `b'a\\b'`},
		{name: "single quote switches delimiter", input: []byte("it's"), want: `b"it's"`},
		{name: "both quotes keep single delimiter", input: []byte(`'"`), want: `b'\'"'`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BytesLiteral(tt.input))
		})
	}
}

func TestLossyUTF8(t *testing.T) {
	assert.Equal(t, "abc", LossyUTF8([]byte("abc")))
	assert.Equal(t, "ab", LossyUTF8([]byte{'a', 0xff, 0xfe, 'b'}))
	assert.Equal(t, "héllo", LossyUTF8([]byte("héllo")))
	assert.Equal(t, "", LossyUTF8([]byte{0xc3}))
}

func TestTruncateRunes(t *testing.T) {
	assert.Equal(t, "hé", TruncateRunes("héllo", 2))
	assert.Equal(t, "héllo", TruncateRunes("héllo", 10))
	assert.Equal(t, "héllo", TruncateRunes("héllo", -1))
	assert.Equal(t, "", TruncateRunes("héllo", 0))
}

func TestTruncateBytes(t *testing.T) {
	assert.Equal(t, []byte("ab"), TruncateBytes([]byte("abc"), 2))
	assert.Equal(t, []byte("abc"), TruncateBytes([]byte("abc"), 3))
	assert.Equal(t, []byte("abc"), TruncateBytes([]byte("abc"), -1))
}

func TestRuneLen(t *testing.T) {
	assert.Equal(t, 5, RuneLen("héllo"))
	assert.Equal(t, 0, RuneLen(""))
}
