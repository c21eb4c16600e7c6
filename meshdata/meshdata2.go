package meshdata

import (
	"io"

	"github.com/robloxapi/rbxmesh/errors"
	"github.com/robloxapi/rbxmesh/record"
)

// Vertex is the 84-byte vertex record of revisions 2 and 4.
type Vertex struct {
	Pos   [3]float32
	Norm  [3]float32
	Color [4]uint8
	// NormalID names the axis closest to the normal.
	NormalID uint32
	Tex      [2]float32
	Mystery0 [16]byte
	Tangent  [3]float32
	Mystery1 [16]byte
}

const vertexSize = 84

// MeshData2 is a mesh-data record of revision 2 or 4, which share a
// layout.
type MeshData2 struct {
	Rev Revision
	Header
	Vertices []Vertex
	// Indices holds three vertex indices per face.
	Indices []uint32
}

func (m *MeshData2) Revision() Revision { return m.Rev }
func (*MeshData2) isMeshData()          {}

// Faces returns the indices grouped by face.
func (m *MeshData2) Faces() [][3]uint32 {
	faces := make([][3]uint32, len(m.Indices)/3)
	for i := range faces {
		copy(faces[i][:], m.Indices[3*i:])
	}
	return faces
}

var versions2 = []string{le32(2), le32(4)}

func decode2(rs io.ReadSeeker) (*MeshData2, error) {
	r, err := record.NewReader(rs)
	if err != nil {
		return nil, err
	}
	m := new(MeshData2)
	i, failed := readHeader(r, &m.Header, versions2...)
	if failed {
		return nil, r.End()
	}
	m.Rev = []Revision{Revision2, Revision4}[i]

	var vertexCount uint32
	if r.Number(&vertexCount) {
		return nil, r.End()
	}
	if r.Magic(le32(vertexSize)) {
		return nil, r.End()
	}
	if m.Vertices, failed = record.Vector[Vertex](r, "vertices", uint64(vertexCount)); failed {
		return nil, r.End()
	}

	var indexCount uint32
	if r.Number(&indexCount) {
		return nil, r.End()
	}
	if indexCount%3 != 0 {
		r.Fail(errors.CountError{Field: "index_count", Declared: int64(indexCount), Available: int64(indexCount - indexCount%3)})
		return nil, r.End()
	}
	if m.Indices, failed = record.Vector[uint32](r, "indices", uint64(indexCount)); failed {
		return nil, r.End()
	}
	if err := r.End(); err != nil {
		return nil, err
	}
	return m, nil
}

func encode2(w io.Writer, m *MeshData2) error {
	var version string
	switch m.Rev {
	case Revision2:
		version = versions2[0]
	case Revision4:
		version = versions2[1]
	default:
		return errors.ErrUnsupported
	}
	if len(m.Indices)%3 != 0 {
		return errors.CountError{Field: "indices", Declared: int64(len(m.Indices)), Available: int64(len(m.Indices) - len(m.Indices)%3)}
	}
	fw := record.NewWriter(w)
	fw.Magic(Magic)
	fw.Magic(version)
	fw.Bytes(m.Hash[:])
	fw.Bytes(m.Mystery[:])
	fw.Number(uint32(len(m.Vertices)))
	fw.Magic(le32(vertexSize))
	fw.Number(m.Vertices)
	fw.Number(uint32(len(m.Indices)))
	fw.Number(m.Indices)
	_, err := fw.End()
	return err
}
