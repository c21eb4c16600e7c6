// Package asset detects the family of a file and decodes it with the
// matching format package.
package asset

import (
	"io"

	"github.com/robloxapi/rbxmesh"
	"github.com/robloxapi/rbxmesh/errors"
	"github.com/robloxapi/rbxmesh/mesh"
	"github.com/robloxapi/rbxmesh/meshdata"
	"github.com/robloxapi/rbxmesh/obfuscate"
	"github.com/robloxapi/rbxmesh/physicsdata"
	"go.uber.org/zap"
)

// Family is a family of file formats.
type Family uint8

const (
	Unknown Family = iota
	Mesh
	MeshData
	PhysicsData
)

var familyNames = [...]string{
	Unknown:     "unknown",
	Mesh:        "mesh",
	MeshData:    "meshdata",
	PhysicsData: "physicsdata",
}

func (f Family) String() string {
	if int(f) >= len(familyNames) {
		return familyNames[Unknown]
	}
	return familyNames[f]
}

// ParseFamily returns the family named s. An empty string returns Unknown.
func ParseFamily(s string) (Family, error) {
	if s == "" {
		return Unknown, nil
	}
	for f, name := range familyNames {
		if f != int(Unknown) && name == s {
			return Family(f), nil
		}
	}
	return Unknown, errors.New("unknown family " + s)
}

// PrefixLength is the number of bytes needed by Detect.
const PrefixLength = physicsdata.PrefixLength

// Detect returns the family matching the start of a file. A CSGK record is
// reported as mesh-data.
func Detect(prefix []byte) Family {
	if _, ok := mesh.Identify(prefix); ok {
		return Mesh
	}
	if rev, ok := physicsdata.Identify(prefix); ok && rev != physicsdata.RevisionCSGK {
		return PhysicsData
	}
	if _, ok := meshdata.Identify(prefix); ok {
		return MeshData
	}
	plain := append([]byte(nil), prefix...)
	obfuscate.Apply(plain, 0)
	if _, ok := meshdata.Identify(plain); ok {
		return MeshData
	}
	return Unknown
}

// Asset is a decoded file.
type Asset struct {
	Family Family
	// Value is a mesh.Mesh, meshdata.MeshData or physicsdata.PhysicsData,
	// according to Family.
	Value interface{}
}

// Revision returns the name of the revision of the decoded value.
func (a *Asset) Revision() string {
	switch v := a.Value.(type) {
	case mesh.Mesh:
		return v.Revision().String()
	case meshdata.MeshData:
		return v.Revision().String()
	case physicsdata.PhysicsData:
		return v.Revision().String()
	}
	return "invalid"
}

// View returns the geometry of the asset.
func (a *Asset) View() (*rbxmesh.View, error) {
	switch v := a.Value.(type) {
	case mesh.Mesh:
		return rbxmesh.FromMesh(v)
	case meshdata.MeshData:
		return rbxmesh.FromMeshData(v)
	case physicsdata.PhysicsData:
		return rbxmesh.FromPhysicsData(v)
	}
	return nil, rbxmesh.ErrNoGeometry
}

// Encode writes the asset to w with the encoder of its family.
func (a *Asset) Encode(w io.Writer, raw bool) error {
	switch v := a.Value.(type) {
	case mesh.Mesh:
		return mesh.Encoder{Raw: raw}.Encode(w, v)
	case meshdata.MeshData:
		return meshdata.Encode(w, v)
	case physicsdata.PhysicsData:
		return physicsdata.Encode(w, v)
	}
	return errors.ErrUnsupported
}

// Loader decodes files of any family.
type Loader struct {
	// Family forces the family of decoded files. If Unknown, the family is
	// detected from the start of each file.
	Family Family
	// Raw disables mesh vertex fixups.
	Raw bool
	// Color, if not nil, converts legacy truncated mesh vertices to the
	// full layout with the given color.
	Color *[4]uint8
	// Logger receives debug messages. If nil, nothing is logged.
	Logger *zap.Logger
}

func (l Loader) logger() *zap.Logger {
	if l.Logger == nil {
		return zap.NewNop()
	}
	return l.Logger
}

// Load decodes a file from the current position of rs.
func (l Loader) Load(rs io.ReadSeeker) (*Asset, error) {
	family := l.Family
	if family == Unknown {
		start, err := rs.Seek(0, io.SeekCurrent)
		if err != nil {
			return nil, err
		}
		prefix := make([]byte, PrefixLength)
		n, err := io.ReadFull(rs, prefix)
		if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
			return nil, err
		}
		if _, err := rs.Seek(start, io.SeekStart); err != nil {
			return nil, err
		}
		if family = Detect(prefix[:n]); family == Unknown {
			return nil, errors.UnknownVersionError{Family: "asset", Bytes: prefix[:n]}
		}
		l.logger().Debug("detected family", zap.Stringer("family", family))
	}

	a := &Asset{Family: family}
	var err error
	switch family {
	case Mesh:
		var m mesh.Mesh
		m, err = mesh.Decoder{Raw: l.Raw, Logger: l.Logger}.Decode(rs)
		if err == nil && l.Color != nil {
			widen(m, *l.Color)
		}
		a.Value = m
	case MeshData:
		a.Value, err = meshdata.Decoder{Logger: l.Logger}.Decode(rs)
	case PhysicsData:
		a.Value, err = physicsdata.Decoder{Logger: l.Logger}.Decode(rs)
	default:
		return nil, errors.ErrUnsupported
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

func widen(m mesh.Mesh, color [4]uint8) {
	switch m := m.(type) {
	case *mesh.Mesh2:
		m.Widen(color)
	case *mesh.Mesh3:
		m.Widen(color)
	}
}
