package wire

import (
	"bytes"
	"encoding/binary"
	"math"
	"testing"
)

func mustDecode(t *testing.T, b []byte) (byte, uint64, []byte) {
	t.Helper()
	c, seq, p, err := DecodeRecord(b)
	if err != nil {
		t.Fatalf("DecodeRecord error: %v", err)
	}
	return c, seq, p
}

func TestRecordRoundTrip(t *testing.T) {
	cases := []struct {
		codec   byte
		seq     uint64
		payload []byte
	}{
		{1, 0, nil},
		{2, 42, []byte(`{"user":"ada"}`)},
		{255, math.MaxUint64, []byte{0, 1, 2, 3, 4}},
	}
	for _, tc := range cases {
		enc := EncodeRecord(tc.codec, tc.seq, tc.payload)
		c, seq, p := mustDecode(t, enc)
		if c != tc.codec || seq != tc.seq {
			t.Fatalf("header mismatch: got (%d,%d) want (%d,%d)", c, seq, tc.codec, tc.seq)
		}
		if !bytes.Equal(p, tc.payload) {
			t.Fatalf("payload mismatch: got %x want %x", p, tc.payload)
		}
	}
}

func TestRecordRejectsTrailingBytes(t *testing.T) {
	enc := EncodeRecord(1, 7, []byte("x"))
	enc = append(enc, 0xDE, 0xAD)
	if _, _, _, err := DecodeRecord(enc); err == nil {
		t.Fatalf("expected error on trailing bytes")
	}
}

func TestRecordCorruptHeadersAndLengths(t *testing.T) {
	enc := EncodeRecord(1, 1, []byte("abc"))

	badMagic := append([]byte(nil), enc...)
	badMagic[0] = 'X'
	if _, _, _, err := DecodeRecord(badMagic); err == nil {
		t.Fatalf("expected error on bad magic")
	}

	badVer := append([]byte(nil), enc...)
	badVer[4] = version + 1
	if _, _, _, err := DecodeRecord(badVer); err == nil {
		t.Fatalf("expected error on bad version")
	}

	// plen sits at 14..17 (4 magic +1 ver +1 codec +8 seq)
	tooLong := append([]byte(nil), enc...)
	binary.BigEndian.PutUint32(tooLong[14:18], uint32(len("abc")+1))
	if _, _, _, err := DecodeRecord(tooLong); err == nil {
		t.Fatalf("expected error on plen beyond buffer")
	}

	if _, _, _, err := DecodeRecord(enc[:len(enc)-1]); err == nil {
		t.Fatalf("expected error on truncated buffer")
	}
	if _, _, _, err := DecodeRecord(enc[:hdrLen-1]); err == nil {
		t.Fatalf("expected error on short header")
	}
	if _, _, _, err := DecodeRecord([]byte("plain text someone else wrote")); err == nil {
		t.Fatalf("expected error on foreign value")
	}
}

func TestRecordZeroCopyPayload(t *testing.T) {
	enc := EncodeRecord(1, 1, []byte("Z"))
	_, _, p := mustDecode(t, enc)
	p[0] = 'Q'
	_, _, p2 := mustDecode(t, enc)
	if p2[0] != 'Q' {
		t.Fatalf("expected payload to alias the frame")
	}
}
