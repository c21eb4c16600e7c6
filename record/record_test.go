package record

import (
	"bytes"
	"io"
	"testing"

	"github.com/robloxapi/rbxmesh/errors"
)

func TestReaderNumber(t *testing.T) {
	r, err := NewReader(bytes.NewReader([]byte{1, 0, 2, 0, 0, 0, 9}))
	if err != nil {
		t.Fatal(err)
	}
	var a uint16
	var b uint32
	if r.Number(&a) || r.Number(&b) {
		t.Fatalf("unexpected failure: %v", r.Err())
	}
	if a != 1 || b != 2 {
		t.Errorf("got %d, %d", a, b)
	}
	if r.Offset() != 6 || r.Remaining() != 1 {
		t.Errorf("offset %d, remaining %d", r.Offset(), r.Remaining())
	}
	err = r.End()
	var trailing errors.TrailingDataError
	if !errors.As(err, &trailing) || trailing.N != 1 {
		t.Errorf("expected trailing data error, got %v", err)
	}
}

type testHeader struct {
	Size  uint16
	Kind  uint8
	Flags uint8
	Count uint32
}

type testElement struct {
	Pos [3]float32
	ID  uint16
}

func TestReaderStruct(t *testing.T) {
	data := []byte{
		12, 0, 40, 7, 2, 0, 0, 0,
		0, 0, 0x80, 0x3F, 0, 0, 0, 0x40, 0, 0, 0x40, 0x40, 5, 0,
		0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0x80, 0xBF, 0xFF, 0xFF,
	}
	r, err := NewReader(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	var h testHeader
	if r.Number(&h) {
		t.Fatalf("header: %v", r.Err())
	}
	if h != (testHeader{Size: 12, Kind: 40, Flags: 7, Count: 2}) {
		t.Errorf("unexpected header %+v", h)
	}
	elems, failed := Vector[testElement](r, "elements", uint64(h.Count))
	if failed {
		t.Fatalf("elements: %v", r.Err())
	}
	want := []testElement{
		{Pos: [3]float32{1, 2, 3}, ID: 5},
		{Pos: [3]float32{0, 0, -1}, ID: 0xFFFF},
	}
	if len(elems) != len(want) || elems[0] != want[0] || elems[1] != want[1] {
		t.Errorf("got %+v, want %+v", elems, want)
	}
	if err := r.End(); err != nil {
		t.Errorf("end: %v", err)
	}

	var buf bytes.Buffer
	w := NewWriter(&buf)
	w.Number(&h)
	w.Number(elems)
	if n, err := w.End(); err != nil || n != int64(len(data)) {
		t.Fatalf("wrote %d bytes: %v", n, err)
	}
	if !bytes.Equal(buf.Bytes(), data) {
		t.Errorf("got % x, want % x", buf.Bytes(), data)
	}
}

func TestReaderShort(t *testing.T) {
	r, _ := NewReader(bytes.NewReader([]byte{1, 0, 2}))
	var v uint32
	if !r.Number(&v) {
		t.Fatal("expected failure")
	}
	err := r.End()
	if !errors.Is(err, errors.ErrUnexpectedEOF) {
		t.Errorf("expected unexpected EOF, got %v", err)
	}
	var derr errors.DataError
	if !errors.As(err, &derr) || derr.Offset != 0 {
		t.Errorf("expected data error at 0, got %v", err)
	}
	// Sticky.
	var b uint8
	if !r.Number(&b) {
		t.Error("expected sticky failure")
	}
}

func TestReaderVariant(t *testing.T) {
	r, _ := NewReader(bytes.NewReader([]byte("CSGPHS")))
	i, failed := r.Variant("CSGK__", "CSGPHS")
	if failed || i != 1 {
		t.Fatalf("got %d, %v", i, r.Err())
	}

	r, _ = NewReader(bytes.NewReader([]byte("xxabcd")))
	var skip [2]byte
	r.Bytes(skip[:])
	if !r.Magic("abce") {
		t.Fatal("expected mismatch")
	}
	var bad errors.BadMagicError
	if !errors.As(r.End(), &bad) {
		t.Fatalf("expected bad magic, got %v", r.End())
	}
	if bad.Offset != 2 || string(bad.Got) != "abcd" {
		t.Errorf("unexpected error %#v", bad)
	}
	if !IsBadMagic(r.End()) {
		t.Error("IsBadMagic returned false")
	}
}

func TestReaderCount(t *testing.T) {
	r, _ := NewReader(bytes.NewReader(make([]byte, 24)))
	if n, failed := r.Count("faces", 2, 12); failed || n != 2 {
		t.Fatalf("got %d, %v", n, r.Err())
	}
	if _, failed := r.Count("faces", 3, 12); !failed {
		t.Fatal("expected failure")
	}
	var cerr errors.CountError
	if !errors.As(r.End(), &cerr) {
		t.Fatalf("expected count error, got %v", r.End())
	}
	if cerr.Declared != 3 || cerr.Available != 2 {
		t.Errorf("unexpected error %#v", cerr)
	}

	r, _ = NewReader(bytes.NewReader(make([]byte, 23)))
	if _, failed := r.Count("faces", 2, 12); !failed {
		t.Fatal("expected failure")
	}
	if !errors.Is(r.End(), errors.ErrUnexpectedEOF) {
		t.Errorf("expected unexpected EOF, got %v", r.End())
	}

	r, _ = NewReader(bytes.NewReader(nil))
	if _, failed := r.Count("faces", 1<<62, 12); !failed {
		t.Fatal("expected failure for huge count")
	}
}

func TestReaderCheck(t *testing.T) {
	r, _ := NewReader(bytes.NewReader(nil))
	if r.Check("size", 84, 84) {
		t.Fatal("unexpected failure")
	}
	if !r.Check("size", 80, 84) {
		t.Fatal("expected failure")
	}
	var cerr errors.CountError
	if !errors.As(r.End(), &cerr) || cerr.Field != "size" {
		t.Errorf("unexpected error %v", r.End())
	}
}

func TestReaderStartOffset(t *testing.T) {
	rs := bytes.NewReader([]byte{0, 0, 0, 7, 0})
	rs.Seek(3, io.SeekStart)
	r, _ := NewReader(rs)
	var v uint16
	if r.Number(&v) || v != 7 {
		t.Fatalf("got %d, %v", v, r.Err())
	}
	if r.Offset() != 5 || !r.AtEnd() {
		t.Errorf("offset %d", r.Offset())
	}
	if err := r.End(); err != nil {
		t.Error(err)
	}
}

func TestWriter(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	w.Magic("AB")
	w.Number(uint16(0x0102))
	w.Number([]uint32{3, 4})
	n, err := w.End()
	if err != nil {
		t.Fatal(err)
	}
	want := []byte{'A', 'B', 2, 1, 3, 0, 0, 0, 4, 0, 0, 0}
	if n != int64(len(want)) || !bytes.Equal(buf.Bytes(), want) {
		t.Errorf("got %v (%d)", buf.Bytes(), n)
	}

	w = NewWriter(&buf)
	if !w.Fail(errors.ErrUnsupported) || !w.Number(uint8(1)) {
		t.Fatal("expected sticky failure")
	}
	if _, err := w.End(); err != errors.ErrUnsupported {
		t.Errorf("unexpected error %v", err)
	}
}

func TestBuffer(t *testing.T) {
	b := NewBuffer(nil)
	b.Write([]byte("hello"))
	b.Seek(1, io.SeekStart)
	b.Write([]byte("EL"))
	b.Seek(2, io.SeekEnd)
	b.Write([]byte("!"))
	if got := string(b.Bytes()); got != "hELlo\x00\x00!" {
		t.Errorf("got %q", got)
	}
	if _, err := b.Seek(-1, io.SeekStart); err == nil {
		t.Error("expected error for negative offset")
	}
	b.Seek(0, io.SeekStart)
	p := make([]byte, 3)
	if n, _ := b.Read(p); n != 3 || string(p) != "hEL" {
		t.Errorf("read %q", p[:n])
	}
}

func TestFallback(t *testing.T) {
	rs := bytes.NewReader([]byte("legacy"))
	primary := func(rs io.ReadSeeker) (string, error) {
		r, _ := NewReader(rs)
		r.Magic("modern")
		return "modern", r.End()
	}
	legacy := func(rs io.ReadSeeker) (string, error) {
		r, _ := NewReader(rs)
		r.Magic("legacy")
		return "legacy", r.End()
	}
	v, err := Fallback(rs, primary, legacy)
	if err != nil || v != "legacy" {
		t.Errorf("got %q, %v", v, err)
	}

	rs = bytes.NewReader([]byte("mod"))
	_, err = Fallback(rs, primary, legacy)
	if !errors.Is(err, errors.ErrUnexpectedEOF) {
		t.Errorf("expected primary error, got %v", err)
	}
}

func TestBufferGapCapacity(t *testing.T) {
	backing := []byte("abcXXXXXX")
	b := NewBuffer(backing[:3])
	b.Seek(2, io.SeekEnd)
	b.Write([]byte("!"))
	if got := string(b.Bytes()); got != "abc\x00\x00!" {
		t.Errorf("got %q", got)
	}
}
