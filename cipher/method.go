package cipher

import (
	"fmt"
	"strings"

	"github.com/samber/mo"
)

// Method identifies one cipher. The zero value is not a valid method.
type Method uint8

const (
	MethodCaesar Method = iota + 1
	MethodBase64
	MethodSubstitution
	MethodMorse
	MethodROT13
	MethodAtbash
	MethodVigenere
	MethodNumber
	MethodBinary
)

type methodInfo struct {
	id      string
	label   string
	aliases []string
}

var methodInfos = [...]methodInfo{
	MethodCaesar:       {id: "shift", label: "Caesar", aliases: []string{"caesar"}},
	MethodBase64:       {id: "byte64", label: "Base64", aliases: []string{"base64"}},
	MethodSubstitution: {id: "random-substitution", label: "Random substitution", aliases: []string{"random_substitution", "substitution"}},
	MethodMorse:        {id: "morse", label: "Morse code"},
	MethodROT13:        {id: "rot13", label: "ROT13"},
	MethodAtbash:       {id: "atbash", label: "Atbash"},
	MethodVigenere:     {id: "vigenere", label: "Vigenère"},
	MethodNumber:       {id: "numeric", label: "Number substitution", aliases: []string{"number"}},
	MethodBinary:       {id: "binary", label: "Binary"},
}

// Methods returns every method in catalog order.
func Methods() []Method {
	out := make([]Method, 0, len(methodInfos)-1)
	for m := MethodCaesar; int(m) < len(methodInfos); m++ {
		out = append(out, m)
	}
	return out
}

func (m Method) Valid() bool { return m > 0 && int(m) < len(methodInfos) }

// String returns the canonical identifier.
func (m Method) String() string {
	if !m.Valid() {
		return fmt.Sprintf("Method(%d)", uint8(m))
	}
	return methodInfos[m].id
}

// Label is the human readable name shown in catalogs.
func (m Method) Label() string {
	if !m.Valid() {
		return m.String()
	}
	return methodInfos[m].label
}

func (m Method) MarshalText() ([]byte, error) {
	if !m.Valid() {
		return nil, &ConfigError{Method: m.String(), Err: ErrUnknownMethod}
	}
	return []byte(m.String()), nil
}

func (m *Method) UnmarshalText(b []byte) error {
	v, err := ParseMethod(string(b))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// ParseMethod accepts a canonical identifier or one of its aliases,
// case-insensitively.
func ParseMethod(s string) (Method, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	for m := MethodCaesar; int(m) < len(methodInfos); m++ {
		info := methodInfos[m]
		if key == info.id {
			return m, nil
		}
		for _, a := range info.aliases {
			if key == a {
				return m, nil
			}
		}
	}
	return 0, &ConfigError{Method: s, Err: ErrUnknownMethod}
}

// Direction selects the half of a codec pair to run.
type Direction uint8

const (
	Encode Direction = iota
	Decode
)

func (d Direction) String() string {
	switch d {
	case Encode:
		return "encode"
	case Decode:
		return "decode"
	}
	return fmt.Sprintf("Direction(%d)", uint8(d))
}

// ParseDirection accepts encode/encrypt and decode/decrypt.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "encode", "encrypt", "enc":
		return Encode, nil
	case "decode", "decrypt", "dec":
		return Decode, nil
	}
	return 0, &ConfigError{Err: fmt.Errorf("%w %q", ErrUnknownDirection, s)}
}

// Params carries the optional per-call parameters. Unset options fall back
// to DefaultShift and DefaultKeyword; a nil Rand uses the process-wide source.
type Params struct {
	Shift   mo.Option[int]
	Keyword mo.Option[string]
	Rand    Rand
}

func (p Params) shift() int      { return p.Shift.OrElse(DefaultShift) }
func (p Params) keyword() string { return p.Keyword.OrElse(DefaultKeyword) }
