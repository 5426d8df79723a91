package cipher

import "strings"

// DefaultKeyword is the Vigenère keyword used when Params.Keyword is unset.
const DefaultKeyword = "ENCRYPT"

// VigenereEncode shifts the n-th letter of text by the alphabet position of
// keyword[n mod len(keyword)]. Only letters advance the keyword position.
func VigenereEncode(text, keyword string) (string, error) {
	return vigenere(text, keyword, 1)
}

// VigenereDecode reverses VigenereEncode for the same keyword.
func VigenereDecode(text, keyword string) (string, error) {
	return vigenere(text, keyword, -1)
}

func vigenere(text, keyword string, sign int) (string, error) {
	shifts, err := keywordShifts(keyword)
	if err != nil {
		return "", err
	}
	k := 0
	return mapLetters(text, func(p int) int {
		s := shifts[k%len(shifts)]
		k++
		return p + sign*s
	}), nil
}

// keywordShifts upper-cases the keyword and returns each rune's offset from
// 'A' mod 26. Non-letter runes are accepted and contribute their offset too.
func keywordShifts(keyword string) ([]int, error) {
	if keyword == "" {
		return nil, &ConfigError{Method: MethodVigenere.String(), Err: ErrEmptyKeyword}
	}
	up := strings.ToUpper(keyword)
	shifts := make([]int, 0, len(up))
	for _, r := range up {
		shifts = append(shifts, mod26(int(r-'A')))
	}
	return shifts, nil
}
