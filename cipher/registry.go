package cipher

// Transform is one half of a codec pair.
type Transform func(text string, p Params) (string, error)

// Pair holds the encode and decode halves of a method.
type Pair struct {
	Encode Transform
	Decode Transform
}

func total(f func(string) string) Transform {
	return func(text string, _ Params) (string, error) { return f(text), nil }
}

func fallible(f func(string) (string, error)) Transform {
	return func(text string, _ Params) (string, error) { return f(text) }
}

// registry is fixed at compile time; index 0 is the invalid method.
var registry = [...]Pair{
	MethodCaesar: {
		Encode: func(t string, p Params) (string, error) { return Shift(t, p.shift()), nil },
		Decode: func(t string, p Params) (string, error) { return Unshift(t, p.shift()), nil },
	},
	MethodBase64: {Encode: total(Base64Encode), Decode: fallible(Base64Decode)},
	MethodSubstitution: {
		Encode: func(t string, p Params) (string, error) { return SubstitutionEncode(t, p.Rand), nil },
		Decode: fallible(SubstitutionDecode),
	},
	MethodMorse:  {Encode: total(MorseEncode), Decode: total(MorseDecode)},
	MethodROT13:  {Encode: total(Rot13), Decode: total(Rot13)},
	MethodAtbash: {Encode: total(Atbash), Decode: total(Atbash)},
	MethodVigenere: {
		Encode: func(t string, p Params) (string, error) { return VigenereEncode(t, p.keyword()) },
		Decode: func(t string, p Params) (string, error) { return VigenereDecode(t, p.keyword()) },
	},
	MethodNumber: {Encode: total(NumberEncode), Decode: total(NumberDecode)},
	MethodBinary: {Encode: total(BinaryEncode), Decode: fallible(BinaryDecode)},
}

// Lookup returns the codec pair for m.
func Lookup(m Method) (Pair, error) {
	if !m.Valid() || int(m) >= len(registry) {
		return Pair{}, &ConfigError{Method: m.String(), Err: ErrUnknownMethod}
	}
	return registry[m], nil
}

// Dispatch runs the d half of m over text.
//
// Errors are either *ConfigError (the call could not run) or *DecodeError
// (the input was malformed). On error the returned string is empty.
func Dispatch(m Method, d Direction, text string, p Params) (string, error) {
	pair, err := Lookup(m)
	if err != nil {
		return "", err
	}
	switch d {
	case Encode:
		return pair.Encode(text, p)
	case Decode:
		return pair.Decode(text, p)
	}
	return "", &ConfigError{Method: m.String(), Err: ErrUnknownDirection}
}
