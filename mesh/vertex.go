package mesh

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Vertex is the 40-byte vertex record of the binary revisions.
type Vertex struct {
	Pos  [3]float32
	Norm [3]float32
	Tex  [2]float32
	// Tangent holds the tangent direction in the first three components and
	// the bitangent handedness in the fourth.
	Tangent [4]int8
	Color   [4]uint8
}

// TruncatedVertex is the legacy 36-byte vertex record, which has no color.
type TruncatedVertex struct {
	Pos     [3]float32
	Norm    [3]float32
	Tex     [2]float32
	Tangent [4]int8
}

// DefaultColor is the color given to vertices that have none.
var DefaultColor = [4]uint8{255, 255, 255, 255}

// Truncate returns v without its color.
func (v Vertex) Truncate() TruncatedVertex {
	return TruncatedVertex{
		Pos:     v.Pos,
		Norm:    v.Norm,
		Tex:     v.Tex,
		Tangent: v.Tangent,
	}
}

// Fill returns v as a full vertex with the given color.
func (v TruncatedVertex) Fill(color [4]uint8) Vertex {
	return Vertex{
		Pos:     v.Pos,
		Norm:    v.Norm,
		Tex:     v.Tex,
		Tangent: v.Tangent,
		Color:   color,
	}
}

// Face is a triangle of indices into the vertex list.
type Face [3]uint32

// Envelope assigns a vertex to up to four bones.
type Envelope struct {
	Bones   [4]uint8
	Weights [4]uint8
}

// BoneID refers to a bone by index. NoBone indicates the absence of a bone.
type BoneID uint16

const NoBone BoneID = 0xFFFF

// NewBoneID returns the ID of bone i, or NoBone if ok is false.
func NewBoneID(i uint16, ok bool) BoneID {
	if !ok {
		return NoBone
	}
	return BoneID(i)
}

// Get returns the index referred to by id, and whether id refers to a bone.
func (id BoneID) Get() (i uint16, ok bool) {
	if id == NoBone {
		return 0, false
	}
	return uint16(id), true
}

// CFrame is a rotation matrix followed by a position.
type CFrame struct {
	R00, R01, R02 float32
	R10, R11, R12 float32
	R20, R21, R22 float32
	X, Y, Z       float32
}

// Mat4 returns the CFrame as an affine transformation matrix.
func (c CFrame) Mat4() mgl32.Mat4 {
	return mgl32.Mat4{
		c.R00, c.R10, c.R20, 0,
		c.R01, c.R11, c.R21, 0,
		c.R02, c.R12, c.R22, 0,
		c.X, c.Y, c.Z, 1,
	}
}

// CFrameFromMat4 returns the rotation and translation components of m.
func CFrameFromMat4(m mgl32.Mat4) CFrame {
	return CFrame{
		R00: m.At(0, 0), R01: m.At(0, 1), R02: m.At(0, 2),
		R10: m.At(1, 0), R11: m.At(1, 1), R12: m.At(1, 2),
		R20: m.At(2, 0), R21: m.At(2, 1), R22: m.At(2, 2),
		X: m.At(0, 3), Y: m.At(1, 3), Z: m.At(2, 3),
	}
}

// Bone is a node of a mesh skeleton.
type Bone struct {
	// NameOffset is the position of the bone's name within the bone name
	// table.
	NameOffset   uint32
	Parent       BoneID
	LodParent    BoneID
	CullDistance float32
	CFrame       CFrame
}

// MaxSubsetBones is the number of bone slots in a subset.
const MaxSubsetBones = 26

// Subset is a range of faces and vertices influenced by a group of bones.
type Subset struct {
	FacesOffset    uint32
	FacesLen       uint32
	VerticesOffset uint32
	VerticesLen    uint32
	BoneCount      uint32
	Bones          [MaxSubsetBones]BoneID
}

// LodType indicates how the levels of detail of a mesh were generated.
type LodType uint16

const (
	LodNone LodType = iota
	LodUnknown
	LodRbxSimplifier
	LodZeuxMeshOptimizer
	LodType4
)

func (t LodType) Valid() bool {
	return t <= LodType4
}

func (t LodType) String() string {
	switch t {
	case LodNone:
		return "None"
	case LodUnknown:
		return "Unknown"
	case LodRbxSimplifier:
		return "RbxSimplifier"
	case LodZeuxMeshOptimizer:
		return "ZeuxMeshOptimizer"
	case LodType4:
		return "Type4"
	default:
		return "Invalid"
	}
}

// Name returns the NUL-terminated string at offset within table.
func Name(table []byte, offset uint32) string {
	if uint64(offset) >= uint64(len(table)) {
		return ""
	}
	s := table[offset:]
	for i, b := range s {
		if b == 0 {
			return string(s[:i])
		}
	}
	return string(s)
}

// Names splits a table of NUL-terminated strings.
func Names(table []byte) []string {
	var names []string
	for i := 0; i < len(table); {
		name := Name(table, uint32(i))
		names = append(names, name)
		i += len(name) + 1
	}
	return names
}
