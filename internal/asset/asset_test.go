package asset

import (
	"bytes"
	"testing"

	"github.com/robloxapi/rbxmesh/errors"
	"github.com/robloxapi/rbxmesh/mesh"
	"github.com/robloxapi/rbxmesh/meshdata"
	"github.com/robloxapi/rbxmesh/physicsdata"
)

var testVertices = []mesh.Vertex{
	{Pos: [3]float32{0, 0, 0}, Tangent: [4]int8{127, 0, 0, 127}},
	{Pos: [3]float32{1, 0, 0}, Tangent: [4]int8{127, 0, 0, 127}},
	{Pos: [3]float32{0, 1, 0}, Tangent: [4]int8{127, 0, 0, 127}},
}

func encodeMesh(t *testing.T, truncated bool) []byte {
	t.Helper()
	m := &mesh.Mesh2{
		VertexList: mesh.VertexList{Vertices: append([]mesh.Vertex(nil), testVertices...)},
		Faces:      []mesh.Face{{0, 1, 2}},
	}
	if truncated {
		m.Narrow()
	}
	var buf bytes.Buffer
	if err := mesh.Encode(&buf, m); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func encodeMeshData(t *testing.T) []byte {
	t.Helper()
	m := &meshdata.MeshData2{
		Rev:      meshdata.Revision2,
		Vertices: make([]meshdata.Vertex, 3),
		Indices:  []uint32{0, 1, 2},
	}
	var buf bytes.Buffer
	if err := meshdata.Encode(&buf, m); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func encodePhysicsData(t *testing.T) []byte {
	t.Helper()
	p := &physicsdata.Meshes{
		Rev: physicsdata.Revision3,
		Meshes: []*physicsdata.Mesh{{
			Vertices: [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}},
			Faces:    [][3]uint32{{0, 1, 2}},
		}},
	}
	var buf bytes.Buffer
	if err := physicsdata.Encode(&buf, p); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestDetect(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want Family
	}{
		{"mesh", encodeMesh(t, false), Mesh},
		{"meshdata", encodeMeshData(t), MeshData},
		{"physicsdata", encodePhysicsData(t), PhysicsData},
		{"csgk", []byte("CSGKpayload"), MeshData},
		{"short", []byte("ver"), Unknown},
		{"junk", []byte("this is not an asset file"), Unknown},
	}
	for _, tt := range tests {
		prefix := tt.data
		if len(prefix) > PrefixLength {
			prefix = prefix[:PrefixLength]
		}
		if got := Detect(prefix); got != tt.want {
			t.Errorf("%s: got %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestParseFamily(t *testing.T) {
	for _, f := range []Family{Mesh, MeshData, PhysicsData} {
		got, err := ParseFamily(f.String())
		if err != nil || got != f {
			t.Errorf("%v: got %v, %v", f, got, err)
		}
	}
	if f, err := ParseFamily(""); err != nil || f != Unknown {
		t.Errorf("empty: got %v, %v", f, err)
	}
	if _, err := ParseFamily("unknown"); err == nil {
		t.Error("expected error for unknown family")
	}
}

func TestLoad(t *testing.T) {
	for _, data := range [][]byte{encodeMesh(t, false), encodeMeshData(t), encodePhysicsData(t)} {
		a, err := Loader{}.Load(bytes.NewReader(data))
		if err != nil {
			t.Fatal(err)
		}
		v, err := a.View()
		if err != nil {
			t.Fatalf("%v: %v", a.Family, err)
		}
		if v.VertexCount() != 3 || v.FaceCount() != 1 {
			t.Errorf("%v: got %d vertices, %d faces", a.Family, v.VertexCount(), v.FaceCount())
		}
		var buf bytes.Buffer
		if err := a.Encode(&buf, true); err != nil {
			t.Fatalf("%v: %v", a.Family, err)
		}
		if !bytes.Equal(buf.Bytes(), data) {
			t.Errorf("%v: re-encoding changed the file", a.Family)
		}
	}

	if _, err := (Loader{}).Load(bytes.NewReader([]byte("junk junk junk junk"))); !errors.As(err, new(errors.UnknownVersionError)) {
		t.Errorf("expected UnknownVersionError, got %v", err)
	}

	a, err := Loader{Family: MeshData}.Load(bytes.NewReader([]byte("CSGKpayload")))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := a.View(); err == nil {
		t.Error("expected CSGK record to have no geometry")
	}
	if a.Revision() != "CSGK" {
		t.Errorf("got revision %s", a.Revision())
	}
}

func TestLoadColor(t *testing.T) {
	data := encodeMesh(t, true)
	color := [4]uint8{1, 2, 3, 4}
	a, err := Loader{Color: &color}.Load(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	m := a.Value.(*mesh.Mesh2)
	if m.Truncated() || m.Vertices[0].Color != color {
		t.Errorf("expected vertices widened with %v, got %+v", color, m.VertexList)
	}

	a, err = Loader{}.Load(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	if !a.Value.(*mesh.Mesh2).Truncated() {
		t.Error("expected truncated vertices without a color")
	}
}
