package quant

import (
	"testing"
)

func TestSignedOffsetBoundary(t *testing.T) {
	if v := SignedOffset(0x7FFF); v != 0 {
		t.Errorf("0x7FFF: expected 0, got %v", v)
	}
	if v := SignedOffset(0x0000); v != -1 {
		t.Errorf("0x0000: expected -1, got %v", v)
	}
	if v := SignedOffset(0xFFFF); v != float32(0x8000)/32767 {
		t.Errorf("0xFFFF: unexpected %v", v)
	}
	if v := SignedOffset(0xFFFF); v <= 1 {
		t.Errorf("0xFFFF: expected slightly more than 1, got %v", v)
	}
}

func TestSignedOffset3(t *testing.T) {
	v := SignedOffset3([3]uint16{0x7FFF, 0, 0xFFFE})
	if v != [3]float32{0, -1, 1} {
		t.Errorf("unexpected vector %v", v)
	}
}

func TestLerp(t *testing.T) {
	tests := []struct {
		q            uint16
		lerp0, lerp1 float32
		want         float32
	}{
		{0, -2, 6, -2},
		{65535, -2, 6, 6},
		{0, 1, 1, 1},
		{65535, 4, 0, 0},
	}
	for _, test := range tests {
		if v := Lerp(test.q, test.lerp0, test.lerp1); v != test.want {
			t.Errorf("Lerp(%d, %v, %v): expected %v, got %v", test.q, test.lerp0, test.lerp1, test.want, v)
		}
	}
}

func TestMatrix(t *testing.T) {
	var m Matrix = &QuantizedMatrix{X: 2, Y: 2, Lerp0: 0, Lerp1: 1, Data: []uint16{0, 65535, 65535, 0}}
	if m.Version() != VersionQuantized || m.Rows() != 2 || m.Cols() != 2 {
		t.Fatal("unexpected quantized matrix shape")
	}
	if m.At(0, 1) != 1 || m.At(1, 1) != 0 {
		t.Error("unexpected quantized cell")
	}

	raw := &RawMatrix{X: 1, Y: 3, Data: []float32{1, 2, 3}}
	m = raw
	if m.At(0, 2) != 3 {
		t.Error("unexpected raw cell")
	}
	f := m.Floats()
	f[0] = 9
	if raw.Data[0] != 1 {
		t.Error("Floats must not alias the matrix data")
	}
}

func TestVersionString(t *testing.T) {
	if VersionRaw.String() != "Raw" || Version(9).String() != "Invalid" {
		t.Error("unexpected version string")
	}
}
