package cipher

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// BinaryEncode writes every code point as a zero padded base-2 group of at
// least 8 digits. Groups are separated by single spaces.
func BinaryEncode(text string) string {
	parts := make([]string, 0, len(text))
	for _, r := range text {
		parts = append(parts, fmt.Sprintf("%08b", r))
	}
	return strings.Join(parts, " ")
}

// BinaryDecode parses space separated base-2 groups back into code points.
// Empty groups are skipped.
func BinaryDecode(text string) (string, error) {
	var b strings.Builder
	for _, g := range strings.Split(text, " ") {
		if g == "" {
			continue
		}
		v, err := strconv.ParseUint(g, 2, 32)
		if err != nil {
			return "", decodeErr(MethodBinary, ErrBinaryGroup, err)
		}
		r := rune(v)
		if !utf8.ValidRune(r) {
			return "", decodeErr(MethodBinary, ErrCodePoint, fmt.Errorf("%#x", v))
		}
		b.WriteRune(r)
	}
	return b.String(), nil
}
