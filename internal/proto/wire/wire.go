// Package wire encodes requests and decodes events of the Wayland wire
// protocol for the bindings under internal/proto.
package wire

import (
	"encoding/binary"
	"errors"
	"math"
)

var ErrShortMessage = errors.New("wire: message truncated")

// PaddedLen rounds n up to the next multiple of four.
func PaddedLen(n int) int {
	return (n + 3) &^ 3
}

// Request builds one request message. The size half of the header is filled
// in by Bytes.
type Request struct {
	buf []byte
}

func NewRequest(sender, opcode uint32) *Request {
	r := &Request{buf: make([]byte, 8, 32)}
	binary.LittleEndian.PutUint32(r.buf[0:4], sender)
	binary.LittleEndian.PutUint32(r.buf[4:8], opcode&0xffff)
	return r
}

func (r *Request) Uint32(v uint32) *Request {
	r.buf = binary.LittleEndian.AppendUint32(r.buf, v)
	return r
}

func (r *Request) Int32(v int32) *Request {
	return r.Uint32(uint32(v))
}

// Object appends an object id; id 0 is the null object.
func (r *Request) Object(id uint32) *Request {
	return r.Uint32(id)
}

func (r *Request) Fixed(v float64) *Request {
	return r.Int32(int32(math.Round(v * 256)))
}

// String appends a NUL terminated, padded string.
func (r *Request) String(s string) *Request {
	n := len(s) + 1
	r.Uint32(uint32(n))
	r.buf = append(r.buf, s...)
	r.buf = append(r.buf, make([]byte, PaddedLen(n)-len(s))...)
	return r
}

func (r *Request) Array(b []byte) *Request {
	r.Uint32(uint32(len(b)))
	r.buf = append(r.buf, b...)
	r.buf = append(r.buf, make([]byte, PaddedLen(len(b))-len(b))...)
	return r
}

// Bytes returns the encoded message with its size stored in the header.
func (r *Request) Bytes() []byte {
	word := binary.LittleEndian.Uint32(r.buf[4:8])
	binary.LittleEndian.PutUint32(r.buf[4:8], uint32(len(r.buf))<<16|word&0xffff)
	return r.buf
}

// Reader decodes event arguments. After the first short read every getter
// returns the zero value and Err reports ErrShortMessage.
type Reader struct {
	data []byte
	off  int
	err  error
}

func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

func (r *Reader) take(n int) []byte {
	if r.err != nil {
		return nil
	}
	if r.off+n > len(r.data) {
		r.err = ErrShortMessage
		return nil
	}
	b := r.data[r.off : r.off+n]
	r.off += n
	return b
}

func (r *Reader) Uint32() uint32 {
	b := r.take(4)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint32(b)
}

func (r *Reader) Int32() int32 {
	return int32(r.Uint32())
}

func (r *Reader) Fixed() float64 {
	return float64(r.Int32()) / 256
}

func (r *Reader) String() string {
	n := int(r.Uint32())
	if n == 0 {
		return ""
	}
	b := r.take(PaddedLen(n))
	if b == nil {
		return ""
	}
	return string(b[:n-1])
}

func (r *Reader) Array() []byte {
	n := int(r.Uint32())
	b := r.take(PaddedLen(n))
	if b == nil {
		return nil
	}
	out := make([]byte, n)
	copy(out, b[:n])
	return out
}

// Uint32s splits an array argument into its 32-bit words.
func Uint32s(b []byte) []uint32 {
	out := make([]uint32, 0, len(b)/4)
	for i := 0; i+4 <= len(b); i += 4 {
		out = append(out, binary.LittleEndian.Uint32(b[i:i+4]))
	}
	return out
}

func (r *Reader) Err() error {
	return r.err
}
