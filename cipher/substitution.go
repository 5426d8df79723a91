package cipher

import (
	"math/rand/v2"
	"strings"
)

const (
	// KeyDelimiter separates the payload from the serialized key.
	KeyDelimiter = '|'
	// KeySize is the length of a serialized Key.
	KeySize = 2 * alphabetLen
)

// Rand is the randomness used to draw substitution keys. *rand.Rand from
// math/rand/v2 satisfies it; pass a seeded one for reproducible keys.
type Rand interface {
	Shuffle(n int, swap func(i, j int))
}

// globalRand uses the math/rand/v2 top-level source, which is safe for
// concurrent use.
type globalRand struct{}

func (globalRand) Shuffle(n int, swap func(i, j int)) { rand.Shuffle(n, swap) }

// Key is a permutation of the lowercase alphabet: Key[i] is the substitute
// for 'a'+i.
type Key [alphabetLen]byte

func identityKey() Key {
	var k Key
	for i := range k {
		k[i] = 'a' + byte(i)
	}
	return k
}

// NewKey draws a uniformly random permutation. A nil r uses the process-wide
// source.
func NewKey(r Rand) Key {
	if r == nil {
		r = globalRand{}
	}
	k := identityKey()
	r.Shuffle(len(k), func(i, j int) { k[i], k[j] = k[j], k[i] })
	return k
}

// String serializes k as 26 (source, target) pairs in a..z order.
func (k Key) String() string {
	b := make([]byte, 0, KeySize)
	for i, t := range k {
		b = append(b, 'a'+byte(i), t)
	}
	return string(b)
}

// Inverse returns the key that undoes k.
func (k Key) Inverse() Key {
	var inv Key
	for i, t := range k {
		inv[t-'a'] = 'a' + byte(i)
	}
	return inv
}

// ParseKey reads a serialized key. Pairs are consumed two bytes at a time and
// may appear in any order, but together they must map a..z onto a..z
// one-to-one.
func ParseKey(s string) (Key, error) {
	var k Key
	if len(s) != KeySize {
		return k, decodeErr(MethodSubstitution, ErrKeyLength, nil)
	}
	var seenSrc, seenDst [alphabetLen]bool
	for i := 0; i < KeySize; i += 2 {
		src, dst := s[i], s[i+1]
		if !isLower(src) || !isLower(dst) || seenSrc[src-'a'] || seenDst[dst-'a'] {
			return Key{}, decodeErr(MethodSubstitution, ErrKeyMalformed, nil)
		}
		seenSrc[src-'a'], seenDst[dst-'a'] = true, true
		k[src-'a'] = dst
	}
	return k, nil
}

func isLower(c byte) bool { return c >= 'a' && c <= 'z' }

// apply substitutes every ASCII letter through k, keeping its case.
func (k Key) apply(text string) string {
	out := []byte(text)
	for i, c := range out {
		base, ok := letterBase(c)
		if !ok {
			continue
		}
		sub := k[c-base]
		if isUpper(c) {
			sub -= 'a' - 'A'
		}
		out[i] = sub
	}
	return string(out)
}

// SubstitutionEncode substitutes text through a fresh random key and appends
// the key after KeyDelimiter. A nil r uses the process-wide source.
func SubstitutionEncode(text string, r Rand) string {
	return SubstitutionEncodeWithKey(text, NewKey(r))
}

// SubstitutionEncodeWithKey is SubstitutionEncode with a caller supplied key.
func SubstitutionEncodeWithKey(text string, k Key) string {
	var b strings.Builder
	b.Grow(len(text) + 1 + KeySize)
	b.WriteString(k.apply(text))
	b.WriteByte(KeyDelimiter)
	b.WriteString(k.String())
	return b.String()
}

// SubstitutionDecode splits ciphertext on its last KeyDelimiter, parses the
// trailing key and applies its inverse to the payload.
func SubstitutionDecode(ciphertext string) (string, error) {
	i := strings.LastIndexByte(ciphertext, KeyDelimiter)
	if i < 0 {
		return "", decodeErr(MethodSubstitution, ErrMissingDelimiter, nil)
	}
	k, err := ParseKey(ciphertext[i+1:])
	if err != nil {
		return "", err
	}
	return k.Inverse().apply(ciphertext[:i]), nil
}
