package cipher

// DefaultShift is the Caesar shift used when Params.Shift is unset.
const DefaultShift = 3

// Shift moves every ASCII letter shift positions forward, wrapping within
// its own case. Negative and oversized shifts are reduced mod 26.
func Shift(text string, shift int) string {
	s := mod26(shift)
	return mapLetters(text, func(p int) int { return p + s })
}

// Unshift reverses Shift for the same shift value.
func Unshift(text string, shift int) string {
	s := mod26(shift)
	return mapLetters(text, func(p int) int { return p - s })
}

// Rot13 is Shift by 13. It is its own inverse.
func Rot13(text string) string { return Shift(text, 13) }

// Atbash reflects the alphabet (a<->z, b<->y, ...). It is its own inverse.
func Atbash(text string) string {
	return mapLetters(text, func(p int) int { return alphabetLen - 1 - p })
}
