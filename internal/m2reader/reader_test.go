package m2reader

import (
	"errors"
	"testing"
)

func TestReads(t *testing.T) {
	// 0x3412, 0xDEADBEEF, 1.0f
	data := []byte{0x12, 0x34, 0xEF, 0xBE, 0xAD, 0xDE, 0x00, 0x00, 0x80, 0x3F}
	r := New(data)

	if v, err := r.U16(0); err != nil || v != 0x3412 {
		t.Errorf("U16(0) = %#x, %v", v, err)
	}
	if v, err := r.U32(2); err != nil || v != 0xDEADBEEF {
		t.Errorf("U32(2) = %#x, %v", v, err)
	}
	if v, err := r.F32(6); err != nil || v != 1.0 {
		t.Errorf("F32(6) = %v, %v", v, err)
	}
	if v, err := r.I16(2); err != nil || v != -16657 { // 0xBEEF
		t.Errorf("I16(2) = %d, %v", v, err)
	}
}

func TestTruncated(t *testing.T) {
	r := New(make([]byte, 4))

	_, err := r.U32(1)
	var te *TruncatedError
	if !errors.As(err, &te) {
		t.Fatalf("U32(1) on 4-byte buffer: got %v, want TruncatedError", err)
	}
	if te.Offset != 1 || te.Width != 4 || te.Len != 4 {
		t.Errorf("TruncatedError = %+v", te)
	}

	if _, err := r.U16(-1); err == nil {
		t.Error("negative offset accepted")
	}
}

func TestArray(t *testing.T) {
	data := []byte{
		0x02, 0x00, 0x00, 0x00, // count 2
		0x10, 0x00, 0x00, 0x00, // offset 16
	}
	r := New(append(data, make([]byte, 24)...))

	d, err := r.Array(0)
	if err != nil {
		t.Fatal(err)
	}
	if d.Count != 2 || d.Offset != 16 {
		t.Fatalf("Array = %+v", d)
	}

	if err := r.CheckArray(d, 8); err != nil {
		t.Errorf("CheckArray(2x8 at 16, len 32): %v", err)
	}
	if err := r.CheckArray(d, 9); err == nil {
		t.Error("CheckArray(2x9 at 16, len 32) accepted")
	}
	if err := r.CheckArray(ArrayDescriptor{}, 8); err != nil {
		t.Errorf("empty array rejected: %v", err)
	}
}

func TestCString(t *testing.T) {
	r := New([]byte{'H', 'u', 'm', 'a', 'n', 0, 'x'})
	s, err := r.CString(0, 7)
	if err != nil || s != "Human" {
		t.Errorf("CString = %q, %v", s, err)
	}
	// No terminator before max: take what's there.
	s, _ = r.CString(6, 10)
	if s != "x" {
		t.Errorf("CString at tail = %q", s)
	}
}
