package wire

import (
	"bytes"
	"encoding/binary"
	"errors"
)

const (
	version byte = 1
	hdrLen       = 4 + 1 + 1 + 8 + 4
)

var (
	ErrCorrupt = errors.New("crypter: corrupt history record")
	magic4     = [...]byte{'C', 'R', 'P', 'T'}
)

func hasMagic(b []byte) bool {
	return len(b) >= 4 && bytes.Equal(b[:4], magic4[:])
}

// Record: magic(4) | ver(1) | codec(1) | seq(u64 be) | plen(u32 be) | payload(plen)
//
// codec identifies the serializer that produced payload, so a store read
// with a different codec than it was written with can tell, instead of
// decoding garbage.
func EncodeRecord(codec byte, seq uint64, payload []byte) []byte {
	var buf bytes.Buffer
	buf.Grow(hdrLen + len(payload))

	buf.Write(magic4[:])
	buf.WriteByte(version)
	buf.WriteByte(codec)

	var u8 [8]byte
	var u4 [4]byte

	binary.BigEndian.PutUint64(u8[:], seq)
	buf.Write(u8[:])

	binary.BigEndian.PutUint32(u4[:], uint32(len(payload)))
	buf.Write(u4[:])

	buf.Write(payload)
	return buf.Bytes()
}

// DecodeRecord validates the frame and returns a payload slice aliasing b.
// Trailing bytes after the payload are rejected.
func DecodeRecord(b []byte) (codec byte, seq uint64, payload []byte, err error) {
	if len(b) < hdrLen || !hasMagic(b) || b[4] != version {
		return 0, 0, nil, ErrCorrupt
	}
	codec = b[5]
	off := 6

	seq = binary.BigEndian.Uint64(b[off : off+8])
	off += 8

	plen := int(binary.BigEndian.Uint32(b[off : off+4]))
	off += 4
	if plen < 0 || plen != len(b)-off {
		return 0, 0, nil, ErrCorrupt
	}

	return codec, seq, b[off:], nil
}
