// Package quant implements the fixed-point schemes used to store normals,
// tangents and FACS transform matrices.
//
// Two schemes exist and are never mixed within one field. The signed-offset
// scheme stores a unit vector component as an unsigned 16-bit value biased by
// 0x7FFF. The lerp scheme stores a matrix cell as a 16-bit fraction of the
// interval between two bounds. Both reconstruct floats; only the raw branch
// of a Matrix preserves the original bit pattern.
package quant

// SignedOffsetBias is the stored value that decodes to 0.
const SignedOffsetBias = 0x7FFF

// SignedOffset decodes a signed-offset value. The result is not clamped;
// 0x0000 decodes to -1 and 0xFFFF to slightly more than 1.
func SignedOffset(v uint16) float32 {
	return float32(int32(v)-SignedOffsetBias) / 32767
}

// SignedOffset3 decodes a three component vector.
func SignedOffset3(v [3]uint16) [3]float32 {
	return [3]float32{SignedOffset(v[0]), SignedOffset(v[1]), SignedOffset(v[2])}
}

// Lerp decodes a lerp-scheme cell.
func Lerp(q uint16, lerp0, lerp1 float32) float32 {
	return lerp0 + (float32(q)/65535)*(lerp1-lerp0)
}

// Version identifies the storage of a Matrix.
type Version uint16

const (
	VersionRaw       Version = 1
	VersionQuantized Version = 2
)

func (v Version) String() string {
	switch v {
	case VersionRaw:
		return "Raw"
	case VersionQuantized:
		return "Quantized"
	default:
		return "Invalid"
	}
}

// Matrix is a row-major matrix stored either as raw floats or as quantized
// cells. The concrete type is *RawMatrix or *QuantizedMatrix.
type Matrix interface {
	Version() Version
	Rows() uint32
	Cols() uint32
	// At returns the decoded value of a cell.
	At(row, col uint32) float32
	// Floats returns every decoded cell in row-major order.
	Floats() []float32
}

// RawMatrix stores its cells as floats.
type RawMatrix struct {
	X, Y uint32
	Data []float32
}

func (m *RawMatrix) Version() Version { return VersionRaw }
func (m *RawMatrix) Rows() uint32     { return m.X }
func (m *RawMatrix) Cols() uint32     { return m.Y }

func (m *RawMatrix) At(row, col uint32) float32 {
	return m.Data[row*m.Y+col]
}

func (m *RawMatrix) Floats() []float32 {
	f := make([]float32, len(m.Data))
	copy(f, m.Data)
	return f
}

// QuantizedMatrix stores its cells as fractions between Lerp0 and Lerp1.
type QuantizedMatrix struct {
	X, Y         uint32
	Lerp0, Lerp1 float32
	Data         []uint16
}

func (m *QuantizedMatrix) Version() Version { return VersionQuantized }
func (m *QuantizedMatrix) Rows() uint32     { return m.X }
func (m *QuantizedMatrix) Cols() uint32     { return m.Y }

func (m *QuantizedMatrix) At(row, col uint32) float32 {
	return Lerp(m.Data[row*m.Y+col], m.Lerp0, m.Lerp1)
}

func (m *QuantizedMatrix) Floats() []float32 {
	f := make([]float32, len(m.Data))
	for i, q := range m.Data {
		f[i] = Lerp(q, m.Lerp0, m.Lerp1)
	}
	return f
}
