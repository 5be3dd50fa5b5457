package complete

// Leading markers recognised in front of an identifier.
const (
	variableSigil = '$'
	elementSigil  = ':'
	elementJoiner = '-'
)

// Locate returns the identifier being typed immediately before offset, including a leading
// variable sigil ("$fo") or an XHP element name led by a colon (":ui:bu"). It returns "" when
// the cursor does not follow an identifier byte.
func Locate(text string, offset int) string {
	offset = clampOffset(text, offset)

	start := scanWord(text, offset)
	if start == offset {
		return ""
	}

	if start > 0 && text[start-1] == variableSigil {
		return text[start-1 : offset]
	}

	return text[scanElementName(text, start):offset]
}

// scanWord returns the start of the run of identifier bytes ending at end.
func scanWord(text string, end int) int {
	i := end
	for i > 0 && isIdentByte(text[i-1]) {
		i--
	}

	return i
}

// scanElementName extends a word starting at start backwards over ':' and '-' joined
// segments. The extension is kept only when the name is led by a single ':' sigil, so
// "Foo::bar" and "a-b" stay as "bar" and "b".
func scanElementName(text string, start int) int {
	i := start

	for i > 0 {
		sep := i - 1
		if text[sep] != elementSigil && text[sep] != elementJoiner {
			return start
		}

		if sep == 0 || !isIdentByte(text[sep-1]) {
			if text[sep] != elementSigil || (sep > 0 && text[sep-1] == elementSigil) {
				return start
			}

			return sep
		}

		i = scanWord(text, sep)
	}

	return start
}

// isIdentByte reports whether b can appear in a Hack identifier. Bytes of multi-byte
// UTF-8 sequences are all >= 0x80, so runes are never split.
func isIdentByte(b byte) bool {
	return b == '_' ||
		('a' <= b && b <= 'z') ||
		('A' <= b && b <= 'Z') ||
		('0' <= b && b <= '9') ||
		b >= 0x80
}
