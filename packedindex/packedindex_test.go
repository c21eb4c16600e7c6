package packedindex

import (
	"reflect"
	"testing"

	"github.com/robloxapi/rbxmesh/errors"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name    string
		variant Variant
		count   int
		data    []byte
		want    []uint32
		err     error
	}{
		{"short", Unsigned, 3, []byte{1, 2, 0x7F}, []uint32{1, 3, 130}, nil},
		{"long", Unsigned, 2, []byte{0x81, 0x02, 0x03, 0x05}, []uint32{0x010203, 0x010208}, nil},
		{"signed short", Signed, 3, []byte{10, 0x7F, 0x40}, []uint32{10, 9, Mask - 54}, nil},
		{"unsigned 0x40", Unsigned, 1, []byte{0x40}, []uint32{0x40}, nil},
		{"wrap", Unsigned, 2, []byte{5, 0xFF, 0xFF, 0xFF}, []uint32{5, 4}, nil},
		{"empty", Unsigned, 0, nil, []uint32{}, nil},
		{"eof short", Unsigned, 2, []byte{1}, nil, errors.ErrUnexpectedEOF},
		{"eof long", Unsigned, 1, []byte{0x80, 0x01}, nil, errors.ErrUnexpectedEOF},
		{"eof long tail", Unsigned, 2, []byte{1, 0x80, 0x01}, nil, errors.ErrUnexpectedEOF},
		{"unused", Unsigned, 1, []byte{1, 2}, nil, errors.ErrUnusedData},
	}
	for _, test := range tests {
		got, err := Decode(test.variant, test.count, test.data)
		if !errors.Is(err, test.err) || (test.err == nil && err != nil) {
			t.Errorf("%s: expected error %v, got %v", test.name, test.err, err)
			continue
		}
		if test.err == nil && !reflect.DeepEqual(got, test.want) {
			t.Errorf("%s: expected %v, got %v", test.name, test.want, got)
		}
	}
}

func TestRoundTrip(t *testing.T) {
	blobs := []struct {
		variant Variant
		count   int
		data    []byte
	}{
		{Unsigned, 4, []byte{0, 1, 0x7F, 0x90, 0x00, 0x01}},
		{Signed, 5, []byte{0x3F, 0x41, 0x7F, 0xC0, 0x00, 0x00, 0x01}},
		{Signed, 3, []byte{0x80, 0x00, 0x7F, 0x80, 0x00, 0x01, 0xFF, 0xFF, 0xFF}},
	}
	for i, blob := range blobs {
		indices, err := Decode(blob.variant, blob.count, blob.data)
		if err != nil {
			t.Fatalf("#%d: decode: %v", i, err)
		}
		data, err := Encode(blob.variant, indices)
		if err != nil {
			t.Fatalf("#%d: encode: %v", i, err)
		}
		again, err := Decode(blob.variant, len(indices), data)
		if err != nil {
			t.Fatalf("#%d: decode again: %v", i, err)
		}
		if !reflect.DeepEqual(indices, again) {
			t.Errorf("#%d: expected %v, got %v", i, indices, again)
		}
	}
}

func TestEncodeShortForm(t *testing.T) {
	data, err := Encode(Signed, []uint32{63, 0, 64})
	if err != nil {
		t.Fatal(err)
	}
	// 63 short, -63 short, 64 long.
	want := []byte{0x3F, 0x41, 0x80, 0x00, 0x40}
	if !reflect.DeepEqual(data, want) {
		t.Errorf("expected % X, got % X", want, data)
	}

	data, err = Encode(Unsigned, []uint32{127, 0})
	if err != nil {
		t.Fatal(err)
	}
	want = []byte{0x7F, 0xFF, 0xFF, 0x81}
	if !reflect.DeepEqual(data, want) {
		t.Errorf("expected % X, got % X", want, data)
	}

	if _, err := Encode(Unsigned, []uint32{Mask + 1}); err == nil {
		t.Error("expected error for index wider than 23 bits")
	}
}

func TestSplit(t *testing.T) {
	indices := []uint32{0, 1, 2, 3, 4, 5, 6, 7, 8}

	primary, aux, err := Split(indices, []uint32{0, 6, 9})
	if err != nil {
		t.Fatal(err)
	}
	if len(primary) != 6 || len(aux) != 3 || aux[0] != 6 {
		t.Errorf("unexpected split %v %v", primary, aux)
	}

	primary, aux, err = Split(indices, []uint32{0, 9})
	if err != nil {
		t.Fatal(err)
	}
	if len(primary) != 9 || aux != nil {
		t.Errorf("unexpected split %v %v", primary, aux)
	}

	for _, markers := range [][]uint32{{0}, {0, 3, 6, 9}, {0, 6, 3}, {0, 8}, {0, 3, 10}} {
		if _, _, err := Split(indices, markers); err == nil {
			t.Errorf("expected error for markers %v", markers)
		}
	}
}
