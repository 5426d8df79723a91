package cipher

import (
	"encoding/base64"
	"unicode/utf8"
)

// Base64Encode returns the standard padded base64 form of text's bytes.
func Base64Encode(text string) string {
	return base64.StdEncoding.EncodeToString([]byte(text))
}

// Base64Decode reverses Base64Encode. The decoded bytes must be valid UTF-8.
func Base64Decode(text string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(text)
	if err != nil {
		return "", decodeErr(MethodBase64, ErrBase64, err)
	}
	if !utf8.Valid(raw) {
		return "", decodeErr(MethodBase64, ErrNotUTF8, nil)
	}
	return string(raw), nil
}
