package sosi

import (
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"
)

// Charset pairs the name written into a ..TEGNSETT directive with the text
// encoding used for the file body.
type Charset struct {
	Declared string
	Encoding encoding.Encoding
}

var knownCharsets = map[string]Charset{
	"iso885910": {Declared: "ISO8859-10", Encoding: charmap.ISO8859_10},
	"latin6":    {Declared: "ISO8859-10", Encoding: charmap.ISO8859_10},
	"iso88591":  {Declared: "ISO8859-1", Encoding: charmap.ISO8859_1},
	"latin1":    {Declared: "ISO8859-1", Encoding: charmap.ISO8859_1},
	"utf8":      {Declared: "UTF-8", Encoding: unicode.UTF8},
}

// LookupCharset resolves a user supplied encoding name. SOSI spellings such
// as "ISO8859-10" are matched first; anything else falls back to the IANA
// registry, declaring the canonical IANA name.
func LookupCharset(name string) (Charset, bool) {
	key := charsetKey(name)
	if key == "" {
		return Charset{}, false
	}
	if cs, ok := knownCharsets[key]; ok {
		return cs, true
	}
	enc, err := ianaindex.IANA.Encoding(strings.TrimSpace(name))
	if err != nil || enc == nil {
		return Charset{}, false
	}
	declared, err := ianaindex.IANA.Name(enc)
	if err != nil {
		declared = strings.ToUpper(strings.TrimSpace(name))
	}
	return Charset{Declared: declared, Encoding: enc}, true
}

func charsetKey(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// encodeString encodes text, writing '?' for runes the target cannot
// represent instead of failing.
func encodeString(text string, enc encoding.Encoding) ([]byte, error) {
	if cm, ok := enc.(*charmap.Charmap); ok {
		out := make([]byte, 0, len(text))
		for _, r := range text {
			b, ok := cm.EncodeRune(r)
			if !ok {
				b = '?'
			}
			out = append(out, b)
		}
		return out, nil
	}
	return encoding.ReplaceUnsupported(enc.NewEncoder()).Bytes([]byte(text))
}
