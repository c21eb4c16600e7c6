package mesh

import (
	"io"

	"github.com/robloxapi/rbxmesh/record"
)

// Mesh3 is a mesh of revision 3.00 or 3.01.
type Mesh3 struct {
	Rev Revision
	VertexList
	Faces []Face
	// Lods holds the index of the first face of each level of detail.
	Lods []uint32
}

func (m *Mesh3) Revision() Revision { return m.Rev }
func (*Mesh3) isMesh()              {}

const header3Size = 16

type header3 struct {
	LodCount    uint16
	VertexCount uint32
	FaceCount   uint32
}

func (d Decoder) decode3(rs io.ReadSeeker) (*Mesh3, error) {
	return readLayout(d, rs, Revision300, read3)
}

func read3(rs io.ReadSeeker, truncated bool) (*Mesh3, error) {
	r, err := record.NewReader(rs)
	if err != nil {
		return nil, err
	}
	m := new(Mesh3)
	if r.Magic(Signature) {
		return nil, r.End()
	}
	i, failed := r.Variant("3.00", "3.01")
	if failed {
		return nil, r.End()
	}
	m.Rev = []Revision{Revision300, Revision301}[i]
	if r.Magic(string([]byte{'\n', header3Size, 0, vertexSizeOf(truncated), faceSize, lodSize, 0})) {
		return nil, r.End()
	}
	var h header3
	if r.Number(&h) {
		return nil, r.End()
	}

	if m.read(r, h.VertexCount, truncated) {
		return nil, r.End()
	}
	if m.Faces, failed = record.Vector[Face](r, "faces", uint64(h.FaceCount)); failed {
		return nil, r.End()
	}
	if m.Lods, failed = record.Vector[uint32](r, "lods", uint64(h.LodCount)); failed {
		return nil, r.End()
	}
	if err := r.End(); err != nil {
		return nil, err
	}
	return m, nil
}

func encode3(w io.Writer, m *Mesh3) error {
	size, err := m.size()
	if err != nil {
		return err
	}
	if m.Rev != Revision300 && m.Rev != Revision301 {
		return errRevision(m.Rev)
	}
	fw := record.NewWriter(w)
	fw.Magic(Signature + m.Rev.String())
	fw.Bytes([]byte{'\n', header3Size, 0, size, faceSize, lodSize, 0})
	fw.Number(header3{
		LodCount:    uint16(len(m.Lods)),
		VertexCount: uint32(m.Len()),
		FaceCount:   uint32(len(m.Faces)),
	})
	m.write(fw)
	fw.Number(m.Faces)
	fw.Number(m.Lods)
	_, err = fw.End()
	return err
}
