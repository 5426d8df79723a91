package cipher

import "strings"

// NumberEncode replaces each ASCII letter with its two digit, 1-based
// alphabet position (a and A are both 01). Everything else is copied.
func NumberEncode(text string) string {
	var b strings.Builder
	b.Grow(2 * len(text))
	for i := 0; i < len(text); i++ {
		c := text[i]
		base, ok := letterBase(c)
		if !ok {
			b.WriteByte(c)
			continue
		}
		n := c - base + 1
		b.WriteByte('0' + n/10)
		b.WriteByte('0' + n%10)
	}
	return b.String()
}

// NumberDecode scans left to right. A two digit pair in 01..26 becomes an
// upper case letter; any other byte is copied and the scan moves on by one.
// Digits in the input text are therefore ambiguous: "126" decodes as "L6".
func NumberDecode(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for i := 0; i < len(text); {
		if i+1 < len(text) && isDigit(text[i]) && isDigit(text[i+1]) {
			n := (text[i]-'0')*10 + (text[i+1] - '0')
			if n >= 1 && n <= alphabetLen {
				b.WriteByte('A' + n - 1)
				i += 2
				continue
			}
		}
		b.WriteByte(text[i])
		i++
	}
	return b.String()
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
