package workspace

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestDecodeTextUTF8(t *testing.T) {
	text, cs := decodeText([]byte("<p>naïve</p>"))
	assert.Equal(t, "<p>naïve</p>", text)
	assert.Equal(t, "utf-8", cs)
}

func TestDecodeTextUTF16BOM(t *testing.T) {
	// "<p>hi</p>" as UTF-16LE with a byte order mark
	data := []byte{0xFF, 0xFE}
	for _, r := range "<p>hi</p>" {
		data = append(data, byte(r), 0x00)
	}

	text, cs := decodeText(data)
	assert.Equal(t, "<p>hi</p>", text)
	assert.Equal(t, "utf-16le", cs)
}

func TestDecodeTextMetaDeclaration(t *testing.T) {
	data := []byte("<html><head><meta charset=\"iso-8859-1\"></head><body>caf\xe9</body></html>")

	text, cs := decodeText(data)
	assert.True(t, utf8.ValidString(text))
	assert.Contains(t, text, "café")
	assert.NotEqual(t, "utf-8", cs)
}

func TestDecodeTextLegacyWithoutDeclaration(t *testing.T) {
	data := []byte("<p>Le caf\xe9 est tr\xe8s bon, et le th\xe9 aussi. Voil\xe0 la r\xe9ponse.</p>")

	text, cs := decodeText(data)
	assert.True(t, utf8.ValidString(text))
	assert.NotEqual(t, "utf-8", cs)
}
