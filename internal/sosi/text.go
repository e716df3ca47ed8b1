package sosi

import (
	"bytes"
	"strings"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// trimPreamble strips a UTF-8 byte-order mark and any leading blank space.
func trimPreamble(raw []byte) []byte {
	raw = bytes.TrimPrefix(raw, utf8BOM)
	return bytes.TrimLeft(raw, " \t\r\n")
}

// decodeLossy decodes UTF-8, replacing invalid sequences with U+FFFD.
func decodeLossy(raw []byte) string {
	return strings.ToValidUTF8(string(raw), "\uFFFD")
}

// splitLinesKeepEnds splits text after each \n, \r\n, or lone \r, keeping the
// terminators attached to their lines.
func splitLinesKeepEnds(text string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '\n':
			lines = append(lines, text[start:i+1])
			start = i + 1
		case '\r':
			end := i + 1
			if end < len(text) && text[end] == '\n' {
				end++
				i++
			}
			lines = append(lines, text[start:end])
			start = end
		}
	}
	if start < len(text) {
		lines = append(lines, text[start:])
	}
	return lines
}
