// The rbxmesh package presents decoded mesh, mesh-data and physics-data
// files through a single vertex and face view.
//
// The format packages mesh, meshdata and physicsdata each decode one family
// of files into a value whose type depends on the revision of the file. The
// From functions in this package accept any such value and return a View,
// which lists the vertices and faces of the geometry in a common form.
package rbxmesh

import (
	"math"

	"github.com/robloxapi/rbxmesh/errors"
	"github.com/robloxapi/rbxmesh/mesh"
	"github.com/robloxapi/rbxmesh/meshdata"
	"github.com/robloxapi/rbxmesh/physicsdata"
)

// Vertex is a vertex in the common form.
type Vertex struct {
	Pos  [3]float32
	Norm [3]float32
	// Tex holds the U, V and W texture coordinates. W is zero for formats
	// that have only two coordinates.
	Tex     [3]float32
	Tangent [4]int8
	Color   [4]uint8
}

// Face is a triangle of indices into the vertices of a View.
type Face [3]uint32

// View lists the vertices and faces of a decoded value.
type View struct {
	vertexCount int
	faceCount   int
	vertex      func(i int) Vertex
	face        func(i int) Face
}

// VertexCount returns the number of vertices.
func (v *View) VertexCount() int { return v.vertexCount }

// FaceCount returns the number of faces.
func (v *View) FaceCount() int { return v.faceCount }

// Vertices returns an iterator over the vertices of the view.
func (v *View) Vertices() *VertexIter {
	return &VertexIter{view: v, i: -1}
}

// Faces returns an iterator over the faces of the view.
func (v *View) Faces() *FaceIter {
	return &FaceIter{view: v, i: -1}
}

// VertexIter iterates over vertices once. Vertices are converted to the
// common form as the iterator advances.
type VertexIter struct {
	view *View
	i    int
	cur  Vertex
}

// Next advances to the next vertex, returning false when there are none
// left.
func (it *VertexIter) Next() bool {
	if it.i+1 >= it.view.vertexCount {
		it.i = it.view.vertexCount
		return false
	}
	it.i++
	it.cur = it.view.vertex(it.i)
	return true
}

// Vertex returns the current vertex.
func (it *VertexIter) Vertex() Vertex { return it.cur }

// FaceIter iterates over faces once.
type FaceIter struct {
	view *View
	i    int
	cur  Face
}

// Next advances to the next face, returning false when there are none left.
func (it *FaceIter) Next() bool {
	if it.i+1 >= it.view.faceCount {
		it.i = it.view.faceCount
		return false
	}
	it.i++
	it.cur = it.view.face(it.i)
	return true
}

// Face returns the current face.
func (it *FaceIter) Face() Face { return it.cur }

// ErrNoGeometry is returned when a decoded value does not contain geometry.
var ErrNoGeometry = errors.New("value has no geometry")

func tex2(t [2]float32) [3]float32 {
	return [3]float32{t[0], t[1], 0}
}

func fromMeshVertex(v mesh.Vertex) Vertex {
	return Vertex{
		Pos:     v.Pos,
		Norm:    v.Norm,
		Tex:     tex2(v.Tex),
		Tangent: v.Tangent,
		Color:   v.Color,
	}
}

func implicitFace(i int) Face {
	return Face{uint32(3 * i), uint32(3*i + 1), uint32(3*i + 2)}
}

func meshFaces(faces []mesh.Face) func(int) Face {
	return func(i int) Face { return Face(faces[i]) }
}

func bodyView(b *mesh.Body) *View {
	return &View{
		vertexCount: len(b.Vertices),
		faceCount:   len(b.Faces),
		vertex:      func(i int) Vertex { return fromMeshVertex(b.Vertices[i]) },
		face:        meshFaces(b.Faces),
	}
}

func listView(l *mesh.VertexList, faces []mesh.Face) *View {
	return &View{
		vertexCount: l.Len(),
		faceCount:   len(faces),
		vertex:      func(i int) Vertex { return fromMeshVertex(l.At(i)) },
		face:        meshFaces(faces),
	}
}

// FromMesh returns a view of a decoded mesh. Text meshes have implicit
// faces, and receive mesh.DefaultColor and mesh.DefaultTangent. Truncated
// vertices receive mesh.DefaultColor.
func FromMesh(m mesh.Mesh) (*View, error) {
	switch m := m.(type) {
	case *mesh.Mesh1:
		return &View{
			vertexCount: len(m.Vertices),
			faceCount:   m.FaceCount(),
			vertex: func(i int) Vertex {
				v := m.Vertices[i]
				return Vertex{
					Pos:     v.Pos,
					Norm:    v.Norm,
					Tex:     v.Tex,
					Tangent: mesh.DefaultTangent,
					Color:   mesh.DefaultColor,
				}
			},
			face: implicitFace,
		}, nil
	case *mesh.Mesh2:
		return listView(&m.VertexList, m.Faces), nil
	case *mesh.Mesh3:
		return listView(&m.VertexList, m.Faces), nil
	case *mesh.Mesh4:
		return bodyView(&m.Body), nil
	case *mesh.Mesh5:
		return bodyView(&m.Body), nil
	}
	return nil, ErrNoGeometry
}

// quantizeTangent converts a unit tangent to the signed byte form, with a
// positive handedness.
func quantizeTangent(t [3]float32) [4]int8 {
	var q [4]int8
	for i, f := range t {
		v := math.Round(float64(f) * 127)
		q[i] = int8(math.Max(-128, math.Min(127, v)))
	}
	q[3] = 127
	return q
}

// FromMeshData returns a view of a decoded mesh-data file. A revision 5
// file is viewed through its primary index range only.
func FromMeshData(m meshdata.MeshData) (*View, error) {
	switch m := m.(type) {
	case *meshdata.MeshData2:
		return &View{
			vertexCount: len(m.Vertices),
			faceCount:   len(m.Indices) / 3,
			vertex: func(i int) Vertex {
				v := m.Vertices[i]
				return Vertex{
					Pos:     v.Pos,
					Norm:    v.Norm,
					Tex:     tex2(v.Tex),
					Tangent: quantizeTangent(v.Tangent),
					Color:   v.Color,
				}
			},
			face: func(i int) Face {
				return Face{m.Indices[3*i], m.Indices[3*i+1], m.Indices[3*i+2]}
			},
		}, nil
	case *meshdata.MeshData5:
		primary := m.Primary()
		return &View{
			vertexCount: len(m.Positions),
			faceCount:   len(primary) / 3,
			vertex: func(i int) Vertex {
				return Vertex{
					Pos:     m.Positions[i],
					Norm:    m.Normal(i),
					Tex:     tex2(m.Tex[i]),
					Tangent: quantizeTangent(m.Tangent(i)),
					Color:   m.Colors[i],
				}
			},
			face: func(i int) Face {
				return Face{primary[3*i], primary[3*i+1], primary[3*i+2]}
			},
		}, nil
	}
	return nil, ErrNoGeometry
}

// FromPhysicsData returns a view of the collision meshes of a decoded
// physics-data file, merged into one vertex list. Collision vertices have
// only a position; other fields receive defaults.
func FromPhysicsData(p physicsdata.PhysicsData) (*View, error) {
	var meshes []*physicsdata.Mesh
	switch p := p.(type) {
	case *physicsdata.Meshes:
		meshes = p.Meshes
	case *physicsdata.InfoMeshes:
		meshes = p.Meshes
	default:
		return nil, ErrNoGeometry
	}

	// Prefix sums locate an element within the merged lists.
	vertexStart := make([]int, len(meshes)+1)
	faceStart := make([]int, len(meshes)+1)
	for i, m := range meshes {
		vertexStart[i+1] = vertexStart[i] + len(m.Vertices)
		faceStart[i+1] = faceStart[i] + len(m.Faces)
	}
	locate := func(starts []int, i int) int {
		lo, hi := 0, len(starts)-1
		for lo+1 < hi {
			mid := (lo + hi) / 2
			if starts[mid] <= i {
				lo = mid
			} else {
				hi = mid
			}
		}
		return lo
	}
	return &View{
		vertexCount: vertexStart[len(meshes)],
		faceCount:   faceStart[len(meshes)],
		vertex: func(i int) Vertex {
			k := locate(vertexStart, i)
			return Vertex{
				Pos:     meshes[k].Vertices[i-vertexStart[k]],
				Tangent: mesh.DefaultTangent,
				Color:   mesh.DefaultColor,
			}
		},
		face: func(i int) Face {
			k := locate(faceStart, i)
			f := meshes[k].Faces[i-faceStart[k]]
			base := uint32(vertexStart[k])
			return Face{f[0] + base, f[1] + base, f[2] + base}
		},
	}, nil
}
