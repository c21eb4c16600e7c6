// Package physicsdata implements the physics-data format, which stores the
// collision geometry of solid modeling results.
package physicsdata

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/robloxapi/rbxmesh/csgk"
	"github.com/robloxapi/rbxmesh/errors"
	"github.com/robloxapi/rbxmesh/record"
	"go.uber.org/zap"
)

// Revision identifies a revision of the physics-data format.
type Revision uint8

const (
	RevisionCSGK Revision = iota + 1
	RevisionBlock
	Revision3
	Revision5
	Revision6
	Revision7
)

func (r Revision) String() string {
	switch r {
	case RevisionCSGK:
		return "CSGK"
	case RevisionBlock:
		return "BLOCK"
	case Revision3:
		return "3"
	case Revision5:
		return "5"
	case Revision6:
		return "6"
	case Revision7:
		return "7"
	default:
		return "invalid"
	}
}

// Magic is the signature of a CSGPHS record.
const Magic = "CSGPHS"

// BlockTag follows the version of a block record.
const BlockTag = "BLOCK"

// PrefixLength is the number of bytes needed by Identify.
const PrefixLength = len(Magic) + 4 + len(BlockTag)

var versionRevisions = map[uint32]Revision{
	3: Revision3,
	5: Revision5,
	6: Revision6,
	7: Revision7,
}

// Identify returns the revision that matches the start of a physics-data
// file.
func Identify(prefix []byte) (r Revision, ok bool) {
	if bytes.HasPrefix(prefix, []byte(csgk.Magic)) {
		return RevisionCSGK, true
	}
	if len(prefix) < len(Magic)+4 || !bytes.HasPrefix(prefix, []byte(Magic)) {
		return 0, false
	}
	version := binary.LittleEndian.Uint32(prefix[len(Magic):])
	if version == 0 {
		if bytes.HasPrefix(prefix[len(Magic)+4:], []byte(BlockTag)) {
			return RevisionBlock, true
		}
		return 0, false
	}
	r, ok = versionRevisions[version]
	return r, ok
}

// PhysicsData is a decoded physics-data file. It is one of *CSGK, *Block,
// *Meshes or *InfoMeshes.
type PhysicsData interface {
	Revision() Revision
	isPhysicsData()
}

// CSGK is a physics-data file holding a CSGK record.
type CSGK struct {
	csgk.Record
}

func (*CSGK) Revision() Revision { return RevisionCSGK }
func (*CSGK) isPhysicsData()     {}

// Block indicates that the collision geometry is the part's own box.
type Block struct{}

func (*Block) Revision() Revision { return RevisionBlock }
func (*Block) isPhysicsData()     {}

// Meshes is a record of revision 3 or 5: a list of collision meshes.
type Meshes struct {
	Rev    Revision
	Meshes []*Mesh
}

func (m *Meshes) Revision() Revision { return m.Rev }
func (*Meshes) isPhysicsData()       {}

// InfoMeshes is a record of revision 6 or 7: mass properties followed by
// collision meshes.
type InfoMeshes struct {
	Rev    Revision
	Info   PhysicsInfo
	Meshes []*Mesh
}

func (m *InfoMeshes) Revision() Revision { return m.Rev }
func (*InfoMeshes) isPhysicsData()       {}

// PhysicsInfo holds precomputed mass properties.
type PhysicsInfo struct {
	Volume          float32
	CenterOfGravity [3]float32
	// MomentOfInertiaPacked is the upper triangle of the inertia tensor,
	// read left to right, top to bottom.
	MomentOfInertiaPacked [6]float32
}

// Inertia returns the full symmetric inertia tensor.
func (p PhysicsInfo) Inertia() mgl32.Mat3 {
	i := p.MomentOfInertiaPacked
	return mgl32.Mat3FromRows(
		mgl32.Vec3{i[0], i[1], i[2]},
		mgl32.Vec3{i[1], i[3], i[4]},
		mgl32.Vec3{i[2], i[4], i[5]},
	)
}

// PackInertia returns the upper triangle of m.
func PackInertia(m mgl32.Mat3) [6]float32 {
	return [6]float32{
		m.At(0, 0), m.At(0, 1), m.At(0, 2),
		m.At(1, 1), m.At(1, 2),
		m.At(2, 2),
	}
}

// Decoder decodes physics-data files.
type Decoder struct {
	// Logger receives debug messages about revision selection. If nil,
	// nothing is logged.
	Logger *zap.Logger
}

func (d Decoder) logger() *zap.Logger {
	if d.Logger == nil {
		return zap.NewNop()
	}
	return d.Logger
}

// Decode decodes a physics-data file from the current position of rs.
func (d Decoder) Decode(rs io.ReadSeeker) (PhysicsData, error) {
	start, err := rs.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, err
	}
	prefix := make([]byte, PrefixLength)
	n, err := io.ReadFull(rs, prefix)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, err
	}
	prefix = prefix[:n]
	if _, err := rs.Seek(start, io.SeekStart); err != nil {
		return nil, err
	}
	rev, ok := Identify(prefix)
	if !ok {
		d.logger().Debug("unrecognized physics-data prefix", zap.ByteString("prefix", prefix))
		return nil, errors.UnknownVersionError{Family: "physicsdata", Bytes: prefix}
	}
	d.logger().Debug("decoding physics-data", zap.Stringer("revision", rev))

	if rev == RevisionCSGK {
		rec, err := csgk.Decode(rs)
		if err != nil {
			return nil, err
		}
		return &CSGK{Record: *rec}, nil
	}
	return decodePHS(rs)
}

// Decode decodes a physics-data file from rs.
func Decode(rs io.ReadSeeker) (PhysicsData, error) {
	return Decoder{}.Decode(rs)
}

var versionTags = []string{"\x00\x00\x00\x00", "\x03\x00\x00\x00", "\x05\x00\x00\x00", "\x06\x00\x00\x00", "\x07\x00\x00\x00"}

var tagRevisions = []Revision{RevisionBlock, Revision3, Revision5, Revision6, Revision7}

func decodePHS(rs io.ReadSeeker) (PhysicsData, error) {
	r, err := record.NewReader(rs)
	if err != nil {
		return nil, err
	}
	if r.Magic(Magic) {
		return nil, r.End()
	}
	i, failed := r.Variant(versionTags...)
	if failed {
		return nil, r.End()
	}

	var p PhysicsData
	switch rev := tagRevisions[i]; rev {
	case RevisionBlock:
		if r.Magic(BlockTag) {
			return nil, r.End()
		}
		p = &Block{}
	case Revision3, Revision5:
		m := &Meshes{Rev: rev}
		if m.Meshes, failed = readMeshes(r); failed {
			return nil, r.End()
		}
		p = m
	default:
		m := &InfoMeshes{Rev: rev}
		if r.Number(&m.Info) {
			return nil, r.End()
		}
		if m.Meshes, failed = readMeshes(r); failed {
			return nil, r.End()
		}
		p = m
	}
	if err := r.End(); err != nil {
		return nil, err
	}
	return p, nil
}

func readMeshes(r *record.Reader) (meshes []*Mesh, failed bool) {
	meshes = []*Mesh{}
	for !r.AtEnd() {
		m := new(Mesh)
		if m.read(r) {
			return nil, true
		}
		meshes = append(meshes, m)
	}
	return meshes, false
}

// Encode writes p to w.
func Encode(w io.Writer, p PhysicsData) error {
	if c, ok := p.(*CSGK); ok {
		return csgk.Encode(w, &c.Record)
	}
	fw := record.NewWriter(w)
	fw.Magic(Magic)
	switch p := p.(type) {
	case *Block:
		fw.Magic(versionTags[0])
		fw.Magic(BlockTag)
	case *Meshes:
		tag, err := versionTag(p.Rev, Revision3, Revision5)
		if err != nil {
			return err
		}
		fw.Magic(tag)
		writeMeshes(fw, p.Meshes)
	case *InfoMeshes:
		tag, err := versionTag(p.Rev, Revision6, Revision7)
		if err != nil {
			return err
		}
		fw.Magic(tag)
		fw.Number(&p.Info)
		writeMeshes(fw, p.Meshes)
	default:
		return errors.ErrUnsupported
	}
	_, err := fw.End()
	return err
}

func versionTag(rev Revision, allowed ...Revision) (string, error) {
	for _, a := range allowed {
		if rev == a {
			for i, r := range tagRevisions {
				if r == rev {
					return versionTags[i], nil
				}
			}
		}
	}
	return "", errors.ErrUnsupported
}

func writeMeshes(fw *record.Writer, meshes []*Mesh) {
	for _, m := range meshes {
		if m.write(fw) {
			return
		}
	}
}
