package export

import (
	"io"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"github.com/robloxapi/rbxmesh"
	"github.com/robloxapi/rbxmesh/mesh"
)

// Joint is a node of a skeleton, positioned in model space.
type Joint struct {
	Name string
	// Parent is the index of the parent joint, or -1 for a root joint.
	Parent    int
	Transform mgl32.Mat4
}

// Skeleton returns the joints of a skinned mesh, or nil if m has no bones.
func Skeleton(m mesh.Mesh) []Joint {
	var body *mesh.Body
	switch m := m.(type) {
	case *mesh.Mesh4:
		body = &m.Body
	case *mesh.Mesh5:
		body = &m.Body
	default:
		return nil
	}
	joints := make([]Joint, len(body.Bones))
	for i, bone := range body.Bones {
		parent := -1
		if p, ok := bone.Parent.Get(); ok && int(p) < len(body.Bones) && int(p) != i {
			parent = int(p)
		}
		joints[i] = Joint{
			Name:      body.BoneName(i),
			Parent:    parent,
			Transform: bone.CFrame.Mat4(),
		}
	}
	return joints
}

// GLTFOptions configures WriteGLTF.
type GLTFOptions struct {
	// Name names the mesh and its node.
	Name string
	// Transform is applied to the mesh node. The zero value is treated as
	// the identity.
	Transform mgl32.Mat4
	// Joints are added as a node hierarchy beside the mesh.
	Joints []Joint
}

func tangentFloat(t [4]int8) [4]float32 {
	v := mgl32.Vec3{float32(t[0]), float32(t[1]), float32(t[2])}
	if l := v.Len(); l > 0 {
		v = v.Mul(1 / l)
	} else {
		v = mgl32.Vec3{1, 0, 0}
	}
	w := float32(1)
	if t[3] < 0 {
		w = -1
	}
	return [4]float32{v[0], v[1], v[2], w}
}

// Document builds a glTF document holding the geometry of v.
func Document(v *rbxmesh.View, opts GLTFOptions) (*gltf.Document, error) {
	n := v.VertexCount()
	positions := make([][3]float32, 0, n)
	normals := make([][3]float32, 0, n)
	tangents := make([][4]float32, 0, n)
	uvs := make([][2]float32, 0, n)
	colors := make([][4]uint8, 0, n)
	for it := v.Vertices(); it.Next(); {
		vertex := it.Vertex()
		positions = append(positions, vertex.Pos)
		norm := mgl32.Vec3(vertex.Norm)
		if norm.Len() > 0 {
			norm = norm.Normalize()
		} else {
			norm = mgl32.Vec3{0, 1, 0}
		}
		normals = append(normals, norm)
		tangents = append(tangents, tangentFloat(vertex.Tangent))
		uvs = append(uvs, [2]float32{vertex.Tex[0], vertex.Tex[1]})
		colors = append(colors, vertex.Color)
	}
	indices := make([]uint32, 0, 3*v.FaceCount())
	for it := v.Faces(); it.Next(); {
		f := it.Face()
		for _, i := range f {
			if int(i) >= n {
				return nil, errors.Errorf("face index %d out of range of %d vertices", i, n)
			}
		}
		indices = append(indices, f[:]...)
	}

	doc := gltf.NewDocument()
	doc.Materials = append(doc.Materials, &gltf.Material{
		Name:        "default",
		DoubleSided: true,
	})
	attributes := map[string]uint32{
		"POSITION":   modeler.WritePosition(doc, positions),
		"NORMAL":     modeler.WriteNormal(doc, normals),
		"TANGENT":    modeler.WriteTangent(doc, tangents),
		"TEXCOORD_0": modeler.WriteTextureCoord(doc, uvs),
		"COLOR_0":    modeler.WriteColor(doc, colors),
	}
	indicesAccessor := modeler.WriteIndices(doc, indices)
	doc.Meshes = append(doc.Meshes, &gltf.Mesh{
		Name: opts.Name,
		Primitives: []*gltf.Primitive{{
			Indices:    &indicesAccessor,
			Attributes: attributes,
			Material:   gltf.Index(0),
		}},
	})

	transform := opts.Transform
	if transform == (mgl32.Mat4{}) {
		transform = mgl32.Ident4()
	}
	doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, uint32(len(doc.Nodes)))
	doc.Nodes = append(doc.Nodes, &gltf.Node{
		Name:   opts.Name,
		Mesh:   gltf.Index(0),
		Matrix: transform,
	})

	addJoints(doc, opts.Joints)
	return doc, nil
}

// addJoints adds joints as nodes. Joint transforms are converted from
// model space to the space of their parent.
func addJoints(doc *gltf.Document, joints []Joint) {
	base := uint32(len(doc.Nodes))
	nodes := make([]*gltf.Node, len(joints))
	for i, j := range joints {
		local := j.Transform
		if j.Parent >= 0 {
			local = joints[j.Parent].Transform.Inv().Mul4(j.Transform)
		}
		nodes[i] = &gltf.Node{Name: j.Name, Matrix: local}
	}
	for i, j := range joints {
		if j.Parent >= 0 {
			nodes[j.Parent].Children = append(nodes[j.Parent].Children, base+uint32(i))
		} else {
			doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, base+uint32(i))
		}
	}
	doc.Nodes = append(doc.Nodes, nodes...)
}

// WriteGLTF writes v as a binary glTF document.
func WriteGLTF(w io.Writer, v *rbxmesh.View, opts GLTFOptions) error {
	doc, err := Document(v, opts)
	if err != nil {
		return err
	}
	enc := gltf.NewEncoder(w)
	enc.AsBinary = true
	return errors.Wrap(enc.Encode(doc), "write gltf")
}
