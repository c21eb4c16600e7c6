package mesh

import (
	"bytes"

	"github.com/robloxapi/rbxmesh/errors"
	"github.com/robloxapi/rbxmesh/quant"
	"github.com/robloxapi/rbxmesh/record"
)

// ControlID refers to a face control by index.
type ControlID uint16

// TwoPoseCorrective pairs two face controls.
type TwoPoseCorrective [2]ControlID

// ThreePoseCorrective groups three face controls.
type ThreePoseCorrective [3]ControlID

// QuantizedTransforms holds the pose transforms of the face controls, one
// matrix per axis of position and rotation.
type QuantizedTransforms struct {
	PX, PY, PZ quant.Matrix
	RX, RY, RZ quant.Matrix
}

func (t *QuantizedTransforms) fields() [6]*quant.Matrix {
	return [6]*quant.Matrix{&t.PX, &t.PY, &t.PZ, &t.RX, &t.RY, &t.RZ}
}

var transformNames = [6]string{"px", "py", "pz", "rx", "ry", "rz"}

// Facs is the facial animation block of a revision 5.00 mesh.
type Facs struct {
	// FaceBoneNames and FaceControlNames are tables of NUL-terminated
	// names.
	FaceBoneNames        []byte
	FaceControlNames     []byte
	Transforms           QuantizedTransforms
	TwoPoseCorrectives   []TwoPoseCorrective
	ThreePoseCorrectives []ThreePoseCorrective
}

type facsHeader struct {
	FaceBoneNamesLen        uint32
	FaceControlNamesLen     uint32
	QuantizedTransformsLen  uint64
	TwoPoseCorrectivesLen   uint32
	ThreePoseCorrectivesLen uint32
}

const (
	twoPoseSize   = 4
	threePoseSize = 6
)

func readMatrix(r *record.Reader, field string) (m quant.Matrix, failed bool) {
	i, failed := r.Variant("\x01\x00", "\x02\x00")
	if failed {
		return nil, true
	}
	var dims [2]uint32
	if r.Number(&dims) {
		return nil, true
	}
	n := uint64(dims[0]) * uint64(dims[1])
	switch quant.Version(i + 1) {
	case quant.VersionRaw:
		raw := &quant.RawMatrix{X: dims[0], Y: dims[1]}
		if raw.Data, failed = record.Vector[float32](r, field, n); failed {
			return nil, true
		}
		return raw, false
	default:
		q := &quant.QuantizedMatrix{X: dims[0], Y: dims[1]}
		if r.Number(&q.Lerp0) || r.Number(&q.Lerp1) {
			return nil, true
		}
		if q.Data, failed = record.Vector[uint16](r, field, n); failed {
			return nil, true
		}
		return q, false
	}
}

func matrixSize(m quant.Matrix) int64 {
	switch m := m.(type) {
	case *quant.RawMatrix:
		return 2 + 8 + 4*int64(len(m.Data))
	case *quant.QuantizedMatrix:
		return 2 + 8 + 8 + 2*int64(len(m.Data))
	}
	return 0
}

func writeMatrix(fw *record.Writer, field string, m quant.Matrix) (failed bool) {
	switch m := m.(type) {
	case *quant.RawMatrix:
		if uint64(len(m.Data)) != uint64(m.X)*uint64(m.Y) {
			return fw.Fail(errors.CountError{Field: field, Declared: int64(m.X) * int64(m.Y), Available: int64(len(m.Data))})
		}
		fw.Number(uint16(quant.VersionRaw))
		fw.Number([2]uint32{m.X, m.Y})
		return fw.Number(m.Data)
	case *quant.QuantizedMatrix:
		if uint64(len(m.Data)) != uint64(m.X)*uint64(m.Y) {
			return fw.Fail(errors.CountError{Field: field, Declared: int64(m.X) * int64(m.Y), Available: int64(len(m.Data))})
		}
		fw.Number(uint16(quant.VersionQuantized))
		fw.Number([2]uint32{m.X, m.Y})
		fw.Number([2]float32{m.Lerp0, m.Lerp1})
		return fw.Number(m.Data)
	default:
		return fw.Fail(errors.FieldError{Field: field, Cause: errors.New("missing matrix")})
	}
}

// correctiveCount converts a byte length into a record count.
func correctiveCount(r *record.Reader, field string, n uint32, size uint32) (count uint64, failed bool) {
	if n%size != 0 {
		return 0, r.Fail(errors.CountError{Field: field, Declared: int64(n), Available: int64(n - n%size)})
	}
	return uint64(n / size), false
}

func readFacs(r *record.Reader, size uint32) (f *Facs, failed bool) {
	start := r.Offset()
	var h facsHeader
	if r.Number(&h) {
		return nil, true
	}
	f = new(Facs)
	if f.FaceBoneNames, failed = record.Vector[byte](r, "face_bone_names", uint64(h.FaceBoneNamesLen)); failed {
		return nil, true
	}
	if f.FaceControlNames, failed = record.Vector[byte](r, "face_control_names", uint64(h.FaceControlNamesLen)); failed {
		return nil, true
	}

	transformStart := r.Offset()
	for i, p := range f.Transforms.fields() {
		if *p, failed = readMatrix(r, transformNames[i]); failed {
			return nil, true
		}
	}
	if r.Check("quantized_transforms_len", int64(h.QuantizedTransformsLen), r.Offset()-transformStart) {
		return nil, true
	}

	n, failed := correctiveCount(r, "two_pose_correctives_len", h.TwoPoseCorrectivesLen, twoPoseSize)
	if failed {
		return nil, true
	}
	if f.TwoPoseCorrectives, failed = record.Vector[TwoPoseCorrective](r, "two_pose_correctives", n); failed {
		return nil, true
	}
	n, failed = correctiveCount(r, "three_pose_correctives_len", h.ThreePoseCorrectivesLen, threePoseSize)
	if failed {
		return nil, true
	}
	if f.ThreePoseCorrectives, failed = record.Vector[ThreePoseCorrective](r, "three_pose_correctives", n); failed {
		return nil, true
	}

	if r.Check("sizeof_facs", int64(size), r.Offset()-start) {
		return nil, true
	}
	return f, false
}

// encode returns the encoded block.
func (f *Facs) encode() ([]byte, error) {
	var transformsLen int64
	for _, p := range f.Transforms.fields() {
		transformsLen += matrixSize(*p)
	}
	var buf bytes.Buffer
	fw := record.NewWriter(&buf)
	fw.Number(facsHeader{
		FaceBoneNamesLen:        uint32(len(f.FaceBoneNames)),
		FaceControlNamesLen:     uint32(len(f.FaceControlNames)),
		QuantizedTransformsLen:  uint64(transformsLen),
		TwoPoseCorrectivesLen:   uint32(len(f.TwoPoseCorrectives) * twoPoseSize),
		ThreePoseCorrectivesLen: uint32(len(f.ThreePoseCorrectives) * threePoseSize),
	})
	fw.Bytes(f.FaceBoneNames)
	fw.Bytes(f.FaceControlNames)
	for i, p := range f.Transforms.fields() {
		writeMatrix(fw, transformNames[i], *p)
	}
	fw.Number(f.TwoPoseCorrectives)
	fw.Number(f.ThreePoseCorrectives)
	if _, err := fw.End(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
