package cipher

import (
	"errors"
	"math/rand/v2"
	"strings"
	"testing"
)

// reverseRand produces the a<->z, b<->y key regardless of n.
type reverseRand struct{}

func (reverseRand) Shuffle(n int, swap func(i, j int)) {
	for i, j := 0, n-1; i < j; i, j = i+1, j-1 {
		swap(i, j)
	}
}

func mustDecodeSub(t *testing.T, ct string) string {
	t.Helper()
	out, err := SubstitutionDecode(ct)
	if err != nil {
		t.Fatalf("SubstitutionDecode(%q): %v", ct, err)
	}
	return out
}

func TestSubstitutionFormatWithFakeRand(t *testing.T) {
	ct := SubstitutionEncode("Hello, World!", reverseRand{})
	want := "Svool, Dliow!|azbycxdwevfugthsirjqkplomnnmolpkqjrishtgufvewdxcybza"
	if ct != want {
		t.Fatalf("got  %q\nwant %q", ct, want)
	}
	if got := mustDecodeSub(t, ct); got != "Hello, World!" {
		t.Fatalf("decode = %q", got)
	}
}

func TestSubstitutionRoundTripSeeded(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	inputs := []string{
		"",
		"The Quick Brown Fox Jumps Over The Lazy Dog",
		"numbers 0123 and symbols #$%",
		"unicode ☃ passes, ß too",
		"pipes | in | the | payload",
	}
	for _, in := range inputs {
		ct := SubstitutionEncode(in, r)
		if got := mustDecodeSub(t, ct); got != in {
			t.Fatalf("round trip %q -> %q -> %q", in, ct, got)
		}
	}
}

func TestSubstitutionDefaultRandRoundTripAndVariance(t *testing.T) {
	in := "abcdefghijklmnopqrstuvwxyz"
	seen := make(map[string]bool)
	for i := 0; i < 8; i++ {
		ct := SubstitutionEncode(in, nil)
		if got := mustDecodeSub(t, ct); got != in {
			t.Fatalf("round trip: %q", got)
		}
		seen[ct] = true
	}
	// 8 draws from 26! permutations; a repeat would point at a broken source.
	if len(seen) < 2 {
		t.Fatalf("expected distinct ciphertexts, got %d", len(seen))
	}
}

func TestSubstitutionPreservesCaseAndPassthrough(t *testing.T) {
	k := NewKey(rand.New(rand.NewPCG(7, 7)))
	ct := SubstitutionEncodeWithKey("AbC-1", k)
	payload := ct[:strings.LastIndexByte(ct, KeyDelimiter)]
	if payload[0] != k[0]-32 || payload[1] != k[1] || payload[2] != k[2]-32 || payload[3:] != "-1" {
		t.Fatalf("payload %q does not follow key %q", payload, k.String())
	}
}

func TestNewKeyIsPermutation(t *testing.T) {
	k := NewKey(rand.New(rand.NewPCG(3, 4)))
	var seen [26]bool
	for _, c := range k {
		if c < 'a' || c > 'z' || seen[c-'a'] {
			t.Fatalf("not a permutation: %q", k.String())
		}
		seen[c-'a'] = true
	}
	if k.Inverse().Inverse() != k {
		t.Fatalf("inverse of inverse differs")
	}
	parsed, err := ParseKey(k.String())
	if err != nil || parsed != k {
		t.Fatalf("ParseKey(String()) = %v, %v", parsed, err)
	}
}

func TestParseKeyAcceptsAnyPairOrder(t *testing.T) {
	k := NewKey(reverseRand{})
	s := k.String()
	// move the first pair to the end
	reordered := s[2:] + s[:2]
	got, err := ParseKey(reordered)
	if err != nil || got != k {
		t.Fatalf("reordered parse: %v, %v", got, err)
	}
}

func TestSubstitutionDecodeErrors(t *testing.T) {
	good := SubstitutionEncode("hello", rand.New(rand.NewPCG(9, 9)))
	i := strings.LastIndexByte(good, KeyDelimiter)
	key := good[i+1:]

	cases := []struct {
		name string
		in   string
		want error
	}{
		{"no delimiter", strings.Replace(good, "|", "", 1), ErrMissingDelimiter},
		{"empty", "", ErrMissingDelimiter},
		{"truncated key", good[:len(good)-1], ErrKeyLength},
		{"empty key", "hello|", ErrKeyLength},
		{"long key", good + "ab", ErrKeyLength},
		{"upper case key", good[:i+1] + strings.ToUpper(key), ErrKeyMalformed},
		{"digit in key", good[:i+1] + "1" + key[1:], ErrKeyMalformed},
		{"duplicate target", "x|" + strings.Repeat("aa", 26), ErrKeyMalformed},
		{"delimiter in key", good[:i+1] + "|" + key[1:], ErrKeyLength},
	}
	for _, tc := range cases {
		out, err := SubstitutionDecode(tc.in)
		var de *DecodeError
		if !errors.As(err, &de) {
			t.Fatalf("%s: want *DecodeError, got %v (out=%q)", tc.name, err, out)
		}
		if !errors.Is(err, tc.want) {
			t.Fatalf("%s: want %v, got %v", tc.name, tc.want, err)
		}
		if de.Method != MethodSubstitution || out != "" {
			t.Fatalf("%s: method=%v out=%q", tc.name, de.Method, out)
		}
	}
}
