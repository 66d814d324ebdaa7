package m2reader

import (
	"encoding/binary"
	"fmt"
	"math"
)

// ArrayDescriptor is the M2 format's universal array reference:
// an element count followed by a byte offset from the start of the file.
type ArrayDescriptor struct {
	Count  uint32
	Offset uint32
}

// TruncatedError reports a read that would run past the end of the buffer.
// The offset is the actionable part: it tells you which layout assumption broke.
type TruncatedError struct {
	Offset int
	Width  int
	Len    int
}

func (e *TruncatedError) Error() string {
	return fmt.Sprintf("read of %d bytes at offset 0x%X past end of %d-byte buffer", e.Width, e.Offset, e.Len)
}

// Reader provides bounds-checked little-endian reads at absolute offsets.
// It never mutates the underlying buffer.
type Reader struct {
	data []byte
}

func New(data []byte) *Reader {
	return &Reader{data: data}
}

func (r *Reader) Len() int {
	return len(r.data)
}

func (r *Reader) check(off, width int) error {
	if off < 0 || off+width > len(r.data) {
		return &TruncatedError{Offset: off, Width: width, Len: len(r.data)}
	}
	return nil
}

func (r *Reader) U8(off int) (uint8, error) {
	if err := r.check(off, 1); err != nil {
		return 0, err
	}
	return r.data[off], nil
}

func (r *Reader) U16(off int) (uint16, error) {
	if err := r.check(off, 2); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(r.data[off:]), nil
}

func (r *Reader) I16(off int) (int16, error) {
	v, err := r.U16(off)
	return int16(v), err
}

func (r *Reader) U32(off int) (uint32, error) {
	if err := r.check(off, 4); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(r.data[off:]), nil
}

func (r *Reader) I32(off int) (int32, error) {
	v, err := r.U32(off)
	return int32(v), err
}

func (r *Reader) F32(off int) (float32, error) {
	v, err := r.U32(off)
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(v), nil
}

// Bytes returns a sub-slice of the buffer. The slice aliases the reader's
// data; callers must not modify it.
func (r *Reader) Bytes(off, n int) ([]byte, error) {
	if err := r.check(off, n); err != nil {
		return nil, err
	}
	return r.data[off : off+n], nil
}

// Array reads a count/offset pair at the given offset.
func (r *Reader) Array(off int) (ArrayDescriptor, error) {
	count, err := r.U32(off)
	if err != nil {
		return ArrayDescriptor{}, err
	}
	ofs, err := r.U32(off + 4)
	if err != nil {
		return ArrayDescriptor{}, err
	}
	return ArrayDescriptor{Count: count, Offset: ofs}, nil
}

// CheckArray validates that every element of the described array lies
// inside the buffer.
func (r *Reader) CheckArray(d ArrayDescriptor, elemSize int) error {
	if d.Count == 0 {
		return nil
	}
	end := int(d.Offset) + int(d.Count)*elemSize
	if int(d.Offset) > len(r.data) || end > len(r.data) || end < 0 {
		return &TruncatedError{Offset: int(d.Offset), Width: int(d.Count) * elemSize, Len: len(r.data)}
	}
	return nil
}

// CString reads a null-terminated string of at most max bytes.
func (r *Reader) CString(off, max int) (string, error) {
	if max > len(r.data)-off {
		max = len(r.data) - off
	}
	if max <= 0 {
		return "", nil
	}
	s, err := r.Bytes(off, max)
	if err != nil {
		return "", err
	}
	for i, b := range s {
		if b == 0 {
			return string(s[:i]), nil
		}
	}
	return string(s), nil
}
