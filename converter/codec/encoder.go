package codec

import (
	"encoding/binary"
	"math"

	"github.com/pkg/errors"
)

var (
	// encoding is the byte order of multi-byte session fields.
	encoding = binary.BigEndian

	// ErrRange is returned when a value does not fit the width of the field
	// it is packed into.
	ErrRange = errors.New("value out of range")
)

// packetEncoder is used to serialize an object.
type packetEncoder interface {
	PutUint8(in int) error
	PutUint16(in int) error
	PutRawBytes(in []byte) error
	PutString(in string) error
}

// encoder is a struct that can be serialized.
type encoder interface {
	Encode(e packetEncoder) error
}

// encode serializes the struct to bytes. The first pass sizes the buffer and
// validates every field, so the second pass never truncates a value.
func encode(e encoder) ([]byte, error) {
	lenEnc := new(lenEncoder)
	err := e.Encode(lenEnc)
	if err != nil {
		return nil, err
	}

	b := make([]byte, lenEnc.Length)
	byteEnc := newByteEncoder(b)
	err = e.Encode(byteEnc)
	if err != nil {
		return nil, err
	}

	return b, nil
}

// lenEncoder is a packetEncoder that tracks the running length of serialized
// bytes and rejects values that don't fit their field.
type lenEncoder struct {
	Length int
}

// PutUint8 increments length for a uint8.
func (e *lenEncoder) PutUint8(in int) error {
	if in < 0 || in > math.MaxUint8 {
		return errors.Wrapf(ErrRange, "%d does not fit in an unsigned byte", in)
	}
	e.Length++
	return nil
}

// PutUint16 increments length for a uint16.
func (e *lenEncoder) PutUint16(in int) error {
	if in < 0 || in > math.MaxUint16 {
		return errors.Wrapf(ErrRange, "%d does not fit in an unsigned 16-bit integer", in)
	}
	e.Length += 2
	return nil
}

// PutRawBytes increments length for a raw byte array.
func (e *lenEncoder) PutRawBytes(in []byte) error {
	e.Length += len(in)
	return nil
}

// PutString increments length for a size-prefixed string.
func (e *lenEncoder) PutString(in string) error {
	if len(in) > math.MaxUint16 {
		return errors.Wrapf(ErrRange, "string length %d does not fit in an unsigned 16-bit integer", len(in))
	}
	e.Length += 2 + len(in)
	return nil
}

// byteEncoder is a packetEncoder that serializes data into a byte slice.
type byteEncoder struct {
	b   []byte
	off int
}

// newByteEncoder creates a new byteEncoder with the given backing
// pre-allocated byte slice.
func newByteEncoder(b []byte) *byteEncoder {
	return &byteEncoder{b: b}
}

// PutUint8 serializes a uint8.
func (e *byteEncoder) PutUint8(in int) error {
	e.b[e.off] = byte(in)
	e.off++
	return nil
}

// PutUint16 serializes a uint16.
func (e *byteEncoder) PutUint16(in int) error {
	encoding.PutUint16(e.b[e.off:], uint16(in))
	e.off += 2
	return nil
}

// PutRawBytes serializes a byte slice.
func (e *byteEncoder) PutRawBytes(in []byte) error {
	copy(e.b[e.off:], in)
	e.off += len(in)
	return nil
}

// PutString serializes a size-prefixed string.
func (e *byteEncoder) PutString(in string) error {
	if err := e.PutUint16(len(in)); err != nil {
		return err
	}
	copy(e.b[e.off:], in)
	e.off += len(in)
	return nil
}
