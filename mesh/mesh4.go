package mesh

import (
	"fmt"
	"io"

	"github.com/robloxapi/rbxmesh/errors"
	"github.com/robloxapi/rbxmesh/record"
)

// Body holds the header fields and vectors shared by revisions 4.00
// through 5.00.
type Body struct {
	LodType    LodType
	LodHQCount uint8
	// Padding is preserved as is.
	Padding uint8

	Vertices []Vertex
	// Envelopes has one element per vertex when the mesh has bones, and is
	// empty otherwise.
	Envelopes []Envelope
	Faces     []Face
	Lods      []uint32
	Bones     []Bone
	// BoneNames is a table of NUL-terminated bone names.
	BoneNames []byte
	Subsets   []Subset
}

// BoneName returns the name of bone i.
func (b *Body) BoneName(i int) string {
	return Name(b.BoneNames, b.Bones[i].NameOffset)
}

// Mesh4 is a mesh of revision 4.00 or 4.01.
type Mesh4 struct {
	Rev Revision
	Body
}

func (m *Mesh4) Revision() Revision { return m.Rev }
func (*Mesh4) isMesh()              {}

const header4Size = 24

type header4 struct {
	LodType      LodType
	VertexCount  uint32
	FaceCount    uint32
	LodCount     uint16
	BoneCount    uint16
	BoneNamesLen uint32
	SubsetCount  uint16
	LodHQCount   uint8
	Padding      uint8
}

// LodTypeError indicates an unknown level of detail type.
type LodTypeError LodType

func (err LodTypeError) Error() string {
	return fmt.Sprintf("unknown lod type %d", uint16(err))
}

func (b *Body) readHeader(r *record.Reader, h *header4) (failed bool) {
	if r.Number(h) {
		return true
	}
	if !h.LodType.Valid() {
		return r.Fail(errors.FieldError{Field: "lod_type", Cause: LodTypeError(h.LodType)})
	}
	b.LodType = h.LodType
	b.LodHQCount = h.LodHQCount
	b.Padding = h.Padding
	return false
}

func (b *Body) read(r *record.Reader, h *header4) (failed bool) {
	if b.Vertices, failed = record.Vector[Vertex](r, "vertices", uint64(h.VertexCount)); failed {
		return true
	}
	if h.BoneCount > 0 {
		if b.Envelopes, failed = record.Vector[Envelope](r, "envelopes", uint64(h.VertexCount)); failed {
			return true
		}
	}
	if b.Faces, failed = record.Vector[Face](r, "faces", uint64(h.FaceCount)); failed {
		return true
	}
	if b.Lods, failed = record.Vector[uint32](r, "lods", uint64(h.LodCount)); failed {
		return true
	}
	if b.Bones, failed = record.Vector[Bone](r, "bones", uint64(h.BoneCount)); failed {
		return true
	}
	if b.BoneNames, failed = record.Vector[byte](r, "bone_names", uint64(h.BoneNamesLen)); failed {
		return true
	}
	if b.Subsets, failed = record.Vector[Subset](r, "subsets", uint64(h.SubsetCount)); failed {
		return true
	}
	return false
}

func (b *Body) header() (h header4, err error) {
	if len(b.Bones) > 0 && len(b.Envelopes) != len(b.Vertices) {
		return h, errors.CountError{Field: "envelopes", Declared: int64(len(b.Vertices)), Available: int64(len(b.Envelopes))}
	}
	if len(b.Bones) == 0 && len(b.Envelopes) != 0 {
		return h, errors.CountError{Field: "envelopes", Declared: 0, Available: int64(len(b.Envelopes))}
	}
	if !b.LodType.Valid() {
		return h, errors.FieldError{Field: "lod_type", Cause: LodTypeError(b.LodType)}
	}
	return header4{
		LodType:      b.LodType,
		VertexCount:  uint32(len(b.Vertices)),
		FaceCount:    uint32(len(b.Faces)),
		LodCount:     uint16(len(b.Lods)),
		BoneCount:    uint16(len(b.Bones)),
		BoneNamesLen: uint32(len(b.BoneNames)),
		SubsetCount:  uint16(len(b.Subsets)),
		LodHQCount:   b.LodHQCount,
		Padding:      b.Padding,
	}, nil
}

func (b *Body) write(fw *record.Writer) (failed bool) {
	fw.Number(b.Vertices)
	if len(b.Bones) > 0 {
		fw.Number(b.Envelopes)
	}
	fw.Number(b.Faces)
	fw.Number(b.Lods)
	fw.Number(b.Bones)
	fw.Bytes(b.BoneNames)
	return fw.Number(b.Subsets)
}

func (d Decoder) decode4(rs io.ReadSeeker) (*Mesh4, error) {
	r, err := record.NewReader(rs)
	if err != nil {
		return nil, err
	}
	m := new(Mesh4)
	if r.Magic(Signature) {
		return nil, r.End()
	}
	i, failed := r.Variant("4.00", "4.01")
	if failed {
		return nil, r.End()
	}
	m.Rev = []Revision{Revision400, Revision401}[i]
	if r.Magic(string([]byte{'\n', header4Size, 0})) {
		return nil, r.End()
	}
	var h header4
	if m.readHeader(r, &h) {
		return nil, r.End()
	}
	if m.read(r, &h) {
		return nil, r.End()
	}
	if err := r.End(); err != nil {
		return nil, err
	}
	return m, nil
}

func encode4(w io.Writer, m *Mesh4) error {
	if m.Rev != Revision400 && m.Rev != Revision401 {
		return errRevision(m.Rev)
	}
	h, err := m.header()
	if err != nil {
		return err
	}
	fw := record.NewWriter(w)
	fw.Magic(Signature + m.Rev.String())
	fw.Bytes([]byte{'\n', header4Size, 0})
	fw.Number(h)
	m.write(fw)
	_, err = fw.End()
	return err
}
