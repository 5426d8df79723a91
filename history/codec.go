package history

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/fxamacker/cbor/v2"
	"github.com/vmihailenco/msgpack/v5"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
	"gopkg.in/mgo.v2/bson"
)

// Codec serializes entries. Tag is written into every record frame so a
// store can read records produced by another built-in codec.
type Codec interface {
	Encode(Entry) ([]byte, error)
	Decode([]byte) (Entry, error)
	Tag() byte
}

const (
	tagJSON byte = iota + 1
	tagCBOR
	tagMsgpack
	tagBSON
	tagProtobuf
)

// CodecByName returns a built-in codec: json, cbor, msgpack, bson or protobuf.
// The empty name selects json.
func CodecByName(name string) (Codec, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "json":
		return JSON{}, nil
	case "cbor":
		return NewCBOR(true)
	case "msgpack":
		return Msgpack{}, nil
	case "bson":
		return BSON{}, nil
	case "protobuf", "proto":
		return Protobuf{}, nil
	}
	return nil, fmt.Errorf("history: unknown codec %q", name)
}

func codecByTag(tag byte) (Codec, bool) {
	switch tag {
	case tagJSON:
		return JSON{}, true
	case tagCBOR:
		c, err := NewCBOR(false)
		return c, err == nil
	case tagMsgpack:
		return Msgpack{}, true
	case tagBSON:
		return BSON{}, true
	case tagProtobuf:
		return Protobuf{}, true
	}
	return nil, false
}

// checkText guards codecs whose string type must be UTF-8. encoding/json
// would replace bad bytes with U+FFFD and CBOR would fail on decode.
func checkText(e Entry) error {
	for _, s := range [...]string{e.ID, e.User, e.Method, e.Input, e.Output} {
		if !utf8.ValidString(s) {
			return ErrNotUTF8
		}
	}
	return nil
}

type JSON struct{}

func (JSON) Tag() byte { return tagJSON }

func (JSON) Encode(e Entry) ([]byte, error) {
	if err := checkText(e); err != nil {
		return nil, err
	}
	return json.Marshal(e)
}

func (JSON) Decode(b []byte) (Entry, error) {
	var e Entry
	err := json.Unmarshal(b, &e)
	return e, err
}

// CBOR serializes with fxamacker/cbor. The zero value is NOT ready to use;
// construct with NewCBOR.
//
// deterministic=true selects Core Deterministic Encoding (RFC 8949), so the
// same entry always yields the same bytes. Times are RFC3339Nano strings.
type CBOR struct {
	enc cbor.EncMode
	dec cbor.DecMode
}

func NewCBOR(deterministic bool) (CBOR, error) {
	var eo cbor.EncOptions
	if deterministic {
		eo = cbor.CoreDetEncOptions()
	} else {
		eo = cbor.PreferredUnsortedEncOptions()
	}
	eo.Time = cbor.TimeRFC3339Nano

	em, err := eo.EncMode()
	if err != nil {
		return CBOR{}, err
	}
	dm, err := (cbor.DecOptions{}).DecMode()
	if err != nil {
		return CBOR{}, err
	}
	return CBOR{enc: em, dec: dm}, nil
}

func (CBOR) Tag() byte { return tagCBOR }

func (c CBOR) Encode(e Entry) ([]byte, error) {
	if err := checkText(e); err != nil {
		return nil, err
	}
	return c.enc.Marshal(e)
}

func (c CBOR) Decode(b []byte) (Entry, error) {
	var e Entry
	err := c.dec.Unmarshal(b, &e)
	return e, err
}

// Msgpack serializes with vmihailenco/msgpack. The zero value is ready to use.
type Msgpack struct{}

func (Msgpack) Tag() byte                      { return tagMsgpack }
func (Msgpack) Encode(e Entry) ([]byte, error) { return msgpack.Marshal(e) }
func (Msgpack) Decode(b []byte) (Entry, error) {
	var e Entry
	err := msgpack.Unmarshal(b, &e)
	return e, err
}

// BSON serializes with mgo's bson. BSON datetimes carry milliseconds only,
// so CreatedAt is truncated on the way through.
type BSON struct{}

func (BSON) Tag() byte                      { return tagBSON }
func (BSON) Encode(e Entry) ([]byte, error) { return bson.Marshal(e) }
func (BSON) Decode(b []byte) (Entry, error) {
	var e Entry
	err := bson.Unmarshal(b, &e)
	return e, err
}

// Protobuf stores entries as a google.protobuf.Struct, which keeps the
// record self-describing without generated code. Text must be valid UTF-8.
type Protobuf struct{}

func (Protobuf) Tag() byte { return tagProtobuf }

func (Protobuf) Encode(e Entry) ([]byte, error) {
	if err := checkText(e); err != nil {
		return nil, err
	}
	s, err := structpb.NewStruct(map[string]any{
		"id":         e.ID,
		"user":       e.User,
		"method":     e.Method,
		"decrypt":    e.Decrypt,
		"input":      e.Input,
		"output":     e.Output,
		"created_at": e.CreatedAt.UTC().Format(time.RFC3339Nano),
	})
	if err != nil {
		return nil, err
	}
	return proto.Marshal(s)
}

func (Protobuf) Decode(b []byte) (Entry, error) {
	var s structpb.Struct
	if err := proto.Unmarshal(b, &s); err != nil {
		return Entry{}, err
	}
	f := s.GetFields()
	e := Entry{
		ID:      f["id"].GetStringValue(),
		User:    f["user"].GetStringValue(),
		Method:  f["method"].GetStringValue(),
		Decrypt: f["decrypt"].GetBoolValue(),
		Input:   f["input"].GetStringValue(),
		Output:  f["output"].GetStringValue(),
	}
	if ts := f["created_at"].GetStringValue(); ts != "" {
		t, err := time.Parse(time.RFC3339Nano, ts)
		if err != nil {
			return Entry{}, fmt.Errorf("history: created_at: %w", err)
		}
		e.CreatedAt = t
	}
	return e, nil
}

// Limit wraps a codec and refuses payloads larger than Max bytes in either
// direction. Max <= 0 disables the check.
//
// Typical use: bound what a single oversized input can cost a shared store,
// and refuse to decode oversized values planted by someone else.
type Limit struct {
	Inner Codec
	Max   int
}

func (c Limit) Tag() byte { return c.Inner.Tag() }

func (c Limit) Encode(e Entry) ([]byte, error) {
	b, err := c.Inner.Encode(e)
	if err != nil {
		return nil, err
	}
	if c.Max > 0 && len(b) > c.Max {
		return nil, fmt.Errorf("%w: %d > %d", ErrTooLarge, len(b), c.Max)
	}
	return b, nil
}

func (c Limit) Decode(b []byte) (Entry, error) {
	if c.Max > 0 && len(b) > c.Max {
		return Entry{}, fmt.Errorf("%w: %d > %d", ErrTooLarge, len(b), c.Max)
	}
	return c.Inner.Decode(b)
}
