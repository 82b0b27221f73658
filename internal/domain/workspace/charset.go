package workspace

import (
	"strings"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/net/html/charset"
)

// fallbackCharset is what html/charset reports when neither a BOM nor a
// <meta> declaration is found in non-UTF-8 input.
const fallbackCharset = "windows-1252"

// decodeText returns data as a UTF-8 string and the name of the charset it
// was decoded from. Valid UTF-8 is returned unchanged. Otherwise a BOM or
// <meta charset> declaration wins, then statistical detection.
func decodeText(data []byte) (string, string) {
	if utf8.Valid(data) {
		return string(data), "utf-8"
	}

	enc, name, certain := charset.DetermineEncoding(data, "text/html")
	if !certain && name == fallbackCharset {
		if guessed := detectCharset(data); guessed != "" {
			if e, canonical := charset.Lookup(guessed); e != nil {
				enc, name = e, canonical
			}
		}
	}

	decoded, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return strings.ToValidUTF8(string(data), "�"), "utf-8"
	}
	return string(decoded), name
}

// detectCharset guesses the charset of data, returning "" when unsure
func detectCharset(data []byte) string {
	result, err := chardet.NewTextDetector().DetectBest(data)
	if err != nil || result == nil || result.Confidence < 30 {
		return ""
	}
	return strings.ToLower(result.Charset)
}
