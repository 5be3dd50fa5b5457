package lsp

import (
	"strings"
	"unicode/utf16"

	"go.lsp.dev/protocol"
)

// offsetAt converts an LSP position, whose character is counted in UTF-16 code units, to
// a byte offset in content. Positions past the end of a line clamp to the line end and
// lines past the end of content clamp to len(content).
func offsetAt(content string, pos protocol.Position) int {
	start := 0

	for line := uint32(0); line < pos.Line; line++ {
		nl := strings.IndexByte(content[start:], '\n')
		if nl < 0 {
			return len(content)
		}

		start += nl + 1
	}

	units := 0

	for i, r := range content[start:] {
		if r == '\n' || units >= int(pos.Character) {
			return start + i
		}

		units += runeUnits(r)
	}

	return len(content)
}

// positionAt converts a byte offset in content to an LSP position.
func positionAt(content string, offset int) protocol.Position {
	offset = min(max(offset, 0), len(content))
	before := content[:offset]
	lineStart := strings.LastIndexByte(before, '\n') + 1

	units := 0
	for _, r := range before[lineStart:] {
		units += runeUnits(r)
	}

	return protocol.Position{
		Line:      uint32(strings.Count(before, "\n")), //nolint:gosec // G115: line counts are small
		Character: uint32(units),                       //nolint:gosec // G115: line lengths are small
	}
}

// runeUnits is the UTF-16 length of r. Invalid bytes decode to U+FFFD and count as one.
func runeUnits(r rune) int {
	n := utf16.RuneLen(r)
	if n < 1 {
		return 1
	}

	return n
}

// wordPrefix is the editor-style guess at the word being typed: the run of ASCII word
// bytes ending at offset. It knows nothing about Hack sigils.
func wordPrefix(content string, offset int) string {
	start := offset
	for start > 0 && isWordByte(content[start-1]) {
		start--
	}

	return content[start:offset]
}

func isWordByte(b byte) bool {
	return b == '_' || ('a' <= b && b <= 'z') || ('A' <= b && b <= 'Z') || ('0' <= b && b <= '9')
}
