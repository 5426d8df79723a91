package cipher

const alphabetLen = 26

// letterBase returns 'A' or 'a' for an ASCII letter.
func letterBase(c byte) (byte, bool) {
	switch {
	case c >= 'A' && c <= 'Z':
		return 'A', true
	case c >= 'a' && c <= 'z':
		return 'a', true
	}
	return 0, false
}

func isUpper(c byte) bool { return c >= 'A' && c <= 'Z' }

// mod26 is a modulo that never returns a negative value.
func mod26(n int) int {
	n %= alphabetLen
	if n < 0 {
		n += alphabetLen
	}
	return n
}

// mapLetters rewrites every ASCII letter of s through f, which receives the
// zero-based position within the letter's own case and returns the new
// position (reduced mod 26). f is called once per letter, left to right.
//
// Non-ASCII runes never contain bytes in the ASCII range, so working on
// bytes leaves all other text, including invalid UTF-8, untouched.
func mapLetters(s string, f func(pos int) int) string {
	out := []byte(s)
	for i, c := range out {
		base, ok := letterBase(c)
		if !ok {
			continue
		}
		out[i] = base + byte(mod26(f(int(c-base))))
	}
	return string(out)
}
