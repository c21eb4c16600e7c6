package physicsdata

import (
	"github.com/robloxapi/rbxmesh/errors"
	"github.com/robloxapi/rbxmesh/record"
)

// Mesh is a collision mesh.
type Mesh struct {
	// Mystery fields are preserved as is.
	Mystery0 uint32
	Mystery1 [16]byte
	Mystery2 uint32
	Mystery3 [16]byte

	Vertices [][3]float32
	Faces    [][3]uint32
}

const vertexWidth = 4

func le32(v uint32) string {
	return string([]byte{byte(v), byte(v >> 8), byte(v >> 16), byte(v >> 24)})
}

func tripleCount(r *record.Reader, field string) (n uint64, failed bool) {
	var count uint32
	if r.Number(&count) {
		return 0, true
	}
	if count%3 != 0 {
		return 0, r.Fail(errors.CountError{Field: field, Declared: int64(count), Available: int64(count - count%3)})
	}
	return uint64(count / 3), false
}

func (m *Mesh) read(r *record.Reader) (failed bool) {
	if r.Number(&m.Mystery0) || r.Bytes(m.Mystery1[:]) || r.Number(&m.Mystery2) || r.Bytes(m.Mystery3[:]) {
		return true
	}
	n, failed := tripleCount(r, "vertex_count")
	if failed {
		return true
	}
	if r.Magic(le32(vertexWidth)) {
		return true
	}
	if m.Vertices, failed = record.Vector[[3]float32](r, "vertices", n); failed {
		return true
	}
	if n, failed = tripleCount(r, "index_count"); failed {
		return true
	}
	if m.Faces, failed = record.Vector[[3]uint32](r, "faces", n); failed {
		return true
	}
	return false
}

func (m *Mesh) write(fw *record.Writer) (failed bool) {
	fw.Number(m.Mystery0)
	fw.Bytes(m.Mystery1[:])
	fw.Number(m.Mystery2)
	fw.Bytes(m.Mystery3[:])
	fw.Number(uint32(3 * len(m.Vertices)))
	fw.Magic(le32(vertexWidth))
	fw.Number(m.Vertices)
	fw.Number(uint32(3 * len(m.Faces)))
	return fw.Number(m.Faces)
}
