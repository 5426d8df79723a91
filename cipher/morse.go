package cipher

import "strings"

var morseTable = map[rune]string{
	'A': ".-", 'B': "-...", 'C': "-.-.", 'D': "-..", 'E': ".", 'F': "..-.",
	'G': "--.", 'H': "....", 'I': "..", 'J': ".---", 'K': "-.-", 'L': ".-..",
	'M': "--", 'N': "-.", 'O': "---", 'P': ".--.", 'Q': "--.-", 'R': ".-.",
	'S': "...", 'T': "-", 'U': "..-", 'V': "...-", 'W': ".--", 'X': "-..-",
	'Y': "-.--", 'Z': "--..",
	'1': ".----", '2': "..---", '3': "...--", '4': "....-", '5': ".....",
	'6': "-....", '7': "--...", '8': "---..", '9': "----.", '0': "-----",
	' ': "/",
}

var morseReverse = func() map[string]rune {
	m := make(map[string]rune, len(morseTable))
	for r, code := range morseTable {
		m[code] = r
	}
	return m
}()

// MorseEncode upper-cases text and writes one symbol per rune, separated by
// single spaces. Runes without a symbol are written as themselves.
func MorseEncode(text string) string {
	up := strings.ToUpper(text)
	parts := make([]string, 0, len(up))
	for _, r := range up {
		if code, ok := morseTable[r]; ok {
			parts = append(parts, code)
		} else {
			parts = append(parts, string(r))
		}
	}
	return strings.Join(parts, " ")
}

// MorseDecode splits on single spaces and maps each symbol back. Empty
// tokens are skipped and unknown tokens are copied literally. Output is
// always upper case.
func MorseDecode(text string) string {
	var b strings.Builder
	b.Grow(len(text) / 2)
	for _, tok := range strings.Split(text, " ") {
		if tok == "" {
			continue
		}
		if r, ok := morseReverse[tok]; ok {
			b.WriteRune(r)
		} else {
			b.WriteString(tok)
		}
	}
	return b.String()
}
