package cipher

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownMethod    = errors.New("unknown method")
	ErrUnknownDirection = errors.New("unknown direction")
	ErrEmptyKeyword     = errors.New("empty keyword")

	ErrMissingDelimiter = errors.New("missing key delimiter")
	ErrKeyLength        = errors.New("key block must be 52 characters")
	ErrKeyMalformed     = errors.New("key block is not a permutation of a-z")
	ErrBinaryGroup      = errors.New("invalid binary group")
	ErrCodePoint        = errors.New("invalid code point")
	ErrBase64           = errors.New("malformed base64")
	ErrNotUTF8          = errors.New("decoded bytes are not valid UTF-8")
)

// ConfigError reports a call that cannot run at all: an unknown method or
// direction, or an empty Vigenère keyword.
type ConfigError struct {
	Method string // as supplied by the caller; may be empty
	Err    error
}

func (e *ConfigError) Error() string {
	if e.Method == "" {
		return fmt.Sprintf("cipher: %v", e.Err)
	}
	return fmt.Sprintf("cipher: %s: %v", e.Method, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// DecodeError reports malformed ciphertext. Err is one of the package
// sentinels; Cause, when set, is the lower level error that triggered it.
type DecodeError struct {
	Method Method
	Err    error
	Cause  error
}

func (e *DecodeError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("cipher: %s decode: %v: %v", e.Method, e.Err, e.Cause)
	}
	return fmt.Sprintf("cipher: %s decode: %v", e.Method, e.Err)
}

func (e *DecodeError) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	if e.Cause != nil {
		errs = append(errs, e.Cause)
	}
	return errs
}

// Reason returns the sentinel message, suitable as a low-cardinality label.
func (e *DecodeError) Reason() string {
	if e.Err == nil {
		return "unknown"
	}
	return e.Err.Error()
}

func decodeErr(m Method, err, cause error) *DecodeError {
	return &DecodeError{Method: m, Err: err, Cause: cause}
}
