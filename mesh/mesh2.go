package mesh

import (
	"io"

	"github.com/robloxapi/rbxmesh/record"
)

// Mesh2 is a mesh of revision 2.00.
type Mesh2 struct {
	VertexList
	Faces []Face
}

func (*Mesh2) Revision() Revision { return Revision200 }
func (*Mesh2) isMesh()            {}

const header2Size = 12

type header2 struct {
	VertexCount uint32
	FaceCount   uint32
}

func (d Decoder) decode2(rs io.ReadSeeker) (*Mesh2, error) {
	return readLayout(d, rs, Revision200, read2)
}

func read2(rs io.ReadSeeker, truncated bool) (*Mesh2, error) {
	r, err := record.NewReader(rs)
	if err != nil {
		return nil, err
	}
	if r.Magic(Signature + "2.00\n") {
		return nil, r.End()
	}
	if r.Magic(string([]byte{header2Size, 0, vertexSizeOf(truncated), faceSize})) {
		return nil, r.End()
	}
	var h header2
	if r.Number(&h) {
		return nil, r.End()
	}

	m := new(Mesh2)
	if m.read(r, h.VertexCount, truncated) {
		return nil, r.End()
	}
	var failed bool
	if m.Faces, failed = record.Vector[Face](r, "faces", uint64(h.FaceCount)); failed {
		return nil, r.End()
	}
	if err := r.End(); err != nil {
		return nil, err
	}
	return m, nil
}

func encode2(w io.Writer, m *Mesh2) error {
	size, err := m.size()
	if err != nil {
		return err
	}
	fw := record.NewWriter(w)
	fw.Magic(Signature + "2.00\n")
	fw.Bytes([]byte{header2Size, 0, size, faceSize})
	fw.Number(header2{
		VertexCount: uint32(m.Len()),
		FaceCount:   uint32(len(m.Faces)),
	})
	m.write(fw)
	fw.Number(m.Faces)
	_, err = fw.End()
	return err
}
