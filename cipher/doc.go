// Package cipher implements reversible text ciphers over strings.
//
// Every method is a pair of pure functions (encode, decode) registered in a
// static table indexed by Method:
//
//	shift                Caesar shift, default 3
//	rot13                fixed shift of 13 (involution)
//	atbash               alphabet reflection a<->z (involution)
//	vigenere             running shift driven by a cyclic keyword
//	random-substitution  random permutation, key embedded in the ciphertext
//	morse                space separated dot/dash symbols, '/' for space
//	binary               8-bit zero padded code points, space separated
//	numeric              letters as 01..26
//	byte64               standard padded base64 of the UTF-8 bytes
//
// Only ASCII letters are transformed by the alphabet ciphers; every other
// rune passes through unchanged. None of these ciphers provide secrecy.
//
// Self-describing ciphertext layout:
//
//	<payload>|<key>   key = 26 (source,target) lowercase pairs, 52 bytes
//
// Decode splits on the last '|', so the payload may itself contain '|'.
package cipher
