package binreader

import "testing"

func TestU32Endian(t *testing.T) {
	data := []byte{0x00, 0x00, 0x01, 0x2c}
	be := New(data, BigEndian)
	v, err := be.U32()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != 300 {
		t.Errorf("big endian: got %d, want 300", v)
	}

	le := New([]byte{0x2c, 0x01, 0x00, 0x00}, LittleEndian)
	v, err = le.U32()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != 300 {
		t.Errorf("little endian: got %d, want 300", v)
	}
}

func TestFourCC(t *testing.T) {
	r := New([]byte("RIFX"), BigEndian)
	tag, err := r.FourCC()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tag != "RIFX" {
		t.Errorf("got %q, want RIFX", tag)
	}
}

func TestOutOfBounds(t *testing.T) {
	r := New([]byte{1, 2}, BigEndian)
	if _, err := r.U32(); err == nil {
		t.Error("expected error reading past end of buffer")
	}
}

func TestFixedStringTrimsPadding(t *testing.T) {
	r := New([]byte("abc\x00\x00\x00"), BigEndian)
	s, err := r.FixedString(6)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s != "abc" {
		t.Errorf("got %q, want abc", s)
	}
}

func TestPascalString(t *testing.T) {
	r := New([]byte{3, 'f', 'o', 'o', 'x'}, BigEndian)
	s, err := r.PascalString()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s != "foo" {
		t.Errorf("got %q, want foo", s)
	}
	if r.Remaining() != 1 {
		t.Errorf("expected 1 byte remaining, got %d", r.Remaining())
	}
}
