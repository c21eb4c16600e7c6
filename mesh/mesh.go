// Package mesh implements the mesh file format.
//
// A mesh file begins with a line of the form "version X.YY". Revisions 1.00
// and 1.01 are text. Every later revision is a little-endian binary header
// followed by vectors whose lengths are given by the header.
//
// Decode selects a revision from the version line and returns one of
// *Mesh1, *Mesh2, *Mesh3, *Mesh4 or *Mesh5. Encode writes any of these
// back out.
package mesh

import (
	"bytes"
	"io"

	"github.com/robloxapi/rbxmesh/errors"
	"go.uber.org/zap"
)

// Revision identifies a revision of the mesh format.
type Revision uint8

const (
	Revision100 Revision = iota + 1
	Revision101
	Revision200
	Revision300
	Revision301
	Revision400
	Revision401
	Revision500
)

var revisionTags = [...]string{
	Revision100: "1.00",
	Revision101: "1.01",
	Revision200: "2.00",
	Revision300: "3.00",
	Revision301: "3.01",
	Revision400: "4.00",
	Revision401: "4.01",
	Revision500: "5.00",
}

// String returns the revision as it appears in the version line.
func (r Revision) String() string {
	if r == 0 || int(r) >= len(revisionTags) {
		return "invalid"
	}
	return revisionTags[r]
}

// Binary returns whether the revision is a binary format.
func (r Revision) Binary() bool {
	return r >= Revision200 && int(r) < len(revisionTags)
}

// Signature is the start of every mesh file.
const Signature = "version "

// PrefixLength is the number of bytes needed by Identify.
const PrefixLength = len(Signature) + 4

// Identify returns the revision that matches the start of a mesh file.
func Identify(prefix []byte) (r Revision, ok bool) {
	if len(prefix) < PrefixLength || !bytes.HasPrefix(prefix, []byte(Signature)) {
		return 0, false
	}
	tag := string(prefix[len(Signature):PrefixLength])
	for r, s := range revisionTags {
		if s != "" && s == tag {
			return Revision(r), true
		}
	}
	return 0, false
}

// Mesh is a decoded mesh of a particular revision. It is one of *Mesh1,
// *Mesh2, *Mesh3, *Mesh4 or *Mesh5.
type Mesh interface {
	Revision() Revision
	isMesh()
}

// Decoder decodes mesh files.
type Decoder struct {
	// Raw disables the fixups applied to vertices after decoding, so that
	// encoding the result reproduces the input exactly.
	Raw bool

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

// Decode decodes a mesh from the current position of rs.
func (d Decoder) Decode(rs io.ReadSeeker) (m Mesh, err error) {
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
		d.logger().Debug("unrecognized mesh prefix", zap.ByteString("prefix", prefix))
		return nil, errors.UnknownVersionError{Family: "mesh", Bytes: prefix}
	}
	d.logger().Debug("decoding mesh", zap.Stringer("revision", rev))

	switch rev {
	case Revision100, Revision101:
		m, err = d.decode1(rs, rev)
	case Revision200:
		m, err = d.decode2(rs)
	case Revision300, Revision301:
		m, err = d.decode3(rs)
	case Revision400, Revision401:
		m, err = d.decode4(rs)
	case Revision500:
		m, err = d.decode5(rs)
	}
	if err != nil {
		return nil, err
	}
	if !d.Raw {
		Fix(m)
	}
	return m, nil
}

// Decode decodes a mesh from rs with fixups applied.
func Decode(rs io.ReadSeeker) (Mesh, error) {
	return Decoder{}.Decode(rs)
}

// Encoder encodes mesh files.
type Encoder struct {
	// Raw indicates that the mesh was decoded without fixups. When false,
	// the reversible fixups of the text revisions are undone before
	// encoding.
	Raw bool
}

// Encode writes m to w.
func (e Encoder) Encode(w io.Writer, m Mesh) error {
	switch m := m.(type) {
	case *Mesh1:
		if !e.Raw {
			m = m.unfixed()
		}
		return encode1(w, m)
	case *Mesh2:
		return encode2(w, m)
	case *Mesh3:
		return encode3(w, m)
	case *Mesh4:
		return encode4(w, m)
	case *Mesh5:
		return encode5(w, m)
	case nil:
		return errors.New("mesh: nil mesh")
	default:
		return errors.ErrUnsupported
	}
}

// Encode writes m to w, undoing the fixups applied by Decode.
func Encode(w io.Writer, m Mesh) error {
	return Encoder{}.Encode(w, m)
}
