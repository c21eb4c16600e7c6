package meshdata

import (
	"io"

	"github.com/robloxapi/rbxmesh/errors"
	"github.com/robloxapi/rbxmesh/obfuscate"
	"github.com/robloxapi/rbxmesh/packedindex"
	"github.com/robloxapi/rbxmesh/quant"
	"github.com/robloxapi/rbxmesh/record"
)

// MeshData5 is a mesh-data record of revision 5. Vertex attributes are
// stored as parallel arrays of equal length.
type MeshData5 struct {
	Header
	Positions [][3]float32
	// Normals and Tangents are quantized with quant.SignedOffset.
	Normals   [][3]uint16
	Colors    [][4]uint8
	NormalIDs []uint8
	Tex       [][2]float32
	Tangents  [][3]uint16

	// Indices is the decoded index stream.
	Indices []uint32
	// Markers partition Indices into a primary and an auxiliary range.
	Markers []uint32
}

func (*MeshData5) Revision() Revision { return Revision5 }
func (*MeshData5) isMeshData()        {}

// Normal returns the normal of vertex i.
func (m *MeshData5) Normal(i int) [3]float32 {
	return quant.SignedOffset3(m.Normals[i])
}

// Tangent returns the tangent of vertex i.
func (m *MeshData5) Tangent(i int) [3]float32 {
	return quant.SignedOffset3(m.Tangents[i])
}

// Primary returns the primary range of indices, which form the faces of
// the mesh.
func (m *MeshData5) Primary() []uint32 {
	primary, _, _ := packedindex.Split(m.Indices, m.Markers)
	return primary
}

// Auxiliary returns the auxiliary range of indices, or nil if there is
// none.
func (m *MeshData5) Auxiliary() []uint32 {
	_, aux, _ := packedindex.Split(m.Indices, m.Markers)
	return aux
}

func attribute[T any](r *record.Reader, field string, n uint32) (v []T, failed bool) {
	var count uint32
	if r.Number(&count) {
		return nil, true
	}
	if r.Check(field+"_count", int64(count), int64(n)) {
		return nil, true
	}
	return record.Vector[T](r, field, uint64(count))
}

func decode5(rs io.ReadSeeker, obfuscated bool) (*MeshData5, error) {
	m := new(MeshData5)

	// Header.
	src := rs
	if obfuscated {
		src = obfuscate.NewReader(rs)
	}
	hr, err := record.NewReader(src)
	if err != nil {
		return nil, err
	}
	if _, failed := readHeader(hr, &m.Header, le32(5)); failed {
		return nil, hr.Err()
	}

	// Body.
	r, err := record.NewReader(rs)
	if err != nil {
		return nil, err
	}
	var n uint32
	if r.Number(&n) {
		return nil, r.End()
	}
	var failed bool
	if m.Positions, failed = record.Vector[[3]float32](r, "positions", uint64(n)); failed {
		return nil, r.End()
	}
	if m.Normals, failed = attribute[[3]uint16](r, "normals", n); failed {
		return nil, r.End()
	}
	if m.Colors, failed = attribute[[4]uint8](r, "colors", n); failed {
		return nil, r.End()
	}
	if m.NormalIDs, failed = attribute[uint8](r, "normal_ids", n); failed {
		return nil, r.End()
	}
	if m.Tex, failed = attribute[[2]float32](r, "tex", n); failed {
		return nil, r.End()
	}
	if m.Tangents, failed = attribute[[3]uint16](r, "tangents", n); failed {
		return nil, r.End()
	}

	var faces struct {
		IndexCount uint32
		BlobLen    uint32
	}
	if r.Number(&faces) {
		return nil, r.End()
	}
	blob, failed := record.Vector[byte](r, "index_data", uint64(faces.BlobLen))
	if failed {
		return nil, r.End()
	}
	if m.Indices, err = packedindex.Decode(packedindex.Signed, int(faces.IndexCount), blob); err != nil {
		r.Fail(errors.FieldError{Field: "index_data", Cause: err})
		return nil, r.End()
	}

	var markerCount uint32
	if r.Number(&markerCount) {
		return nil, r.End()
	}
	if markerCount != 2 && markerCount != 3 {
		r.Fail(errors.CountError{Field: "marker_count", Declared: int64(markerCount), Available: 3})
		return nil, r.End()
	}
	if m.Markers, failed = record.Vector[uint32](r, "markers", uint64(markerCount)); failed {
		return nil, r.End()
	}
	if _, _, err := packedindex.Split(m.Indices, m.Markers); err != nil {
		r.Fail(errors.FieldError{Field: "markers", Cause: err})
		return nil, r.End()
	}
	if err := r.End(); err != nil {
		return nil, err
	}
	return m, nil
}
