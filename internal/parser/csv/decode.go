package csv

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// charsets maps every accepted encoding spelling to its decoder.
var charsets = map[string]encoding.Encoding{
	"":             unicode.UTF8,
	"utf-8":        unicode.UTF8,
	"utf8":         unicode.UTF8,
	"windows-1250": charmap.Windows1250,
	"cp1250":       charmap.Windows1250,
	"windows-1252": charmap.Windows1252,
	"cp1252":       charmap.Windows1252,
	"iso-8859-1":   charmap.ISO8859_1,
	"latin1":       charmap.ISO8859_1,
	"iso-8859-2":   charmap.ISO8859_2,
	"latin2":       charmap.ISO8859_2,
}

// SupportedEncoding reports whether Load can decode the named charset.
func SupportedEncoding(charset string) bool {
	_, ok := charsets[strings.ToLower(strings.TrimSpace(charset))]
	return ok
}

// decoder wraps r so that it yields UTF-8 for the named charset. A leading
// UTF-8 BOM is dropped regardless of the declared charset.
func decoder(r io.Reader, charset string) (io.Reader, error) {
	enc, ok := charsets[strings.ToLower(strings.TrimSpace(charset))]
	if !ok {
		return nil, fmt.Errorf("unsupported encoding %q", charset)
	}
	return transform.NewReader(r, unicode.BOMOverride(enc.NewDecoder())), nil
}
