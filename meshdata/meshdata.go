// Package meshdata implements the mesh-data format, which stores the
// triangulated result of solid modeling operations.
//
// A file is either a CSGK record or a CSGMDL record. Revisions 2 and 4 of
// CSGMDL are obfuscated in full. Revision 5 obfuscates only its header and
// cannot be encoded.
package meshdata

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/robloxapi/rbxmesh/csgk"
	"github.com/robloxapi/rbxmesh/errors"
	"github.com/robloxapi/rbxmesh/obfuscate"
	"github.com/robloxapi/rbxmesh/record"
	"go.uber.org/zap"
)

// Revision identifies a revision of the mesh-data format.
type Revision uint8

const (
	RevisionCSGK Revision = iota + 1
	Revision2
	Revision4
	Revision5
)

func (r Revision) String() string {
	switch r {
	case RevisionCSGK:
		return "CSGK"
	case Revision2:
		return "2"
	case Revision4:
		return "4"
	case Revision5:
		return "5"
	default:
		return "invalid"
	}
}

// Magic is the signature of a CSGMDL record.
const Magic = "CSGMDL"

// PrefixLength is the number of bytes needed by Identify.
const PrefixLength = len(Magic) + 4

// Identify returns the revision that matches the start of a mesh-data file,
// as it appears after deobfuscation.
func Identify(prefix []byte) (r Revision, ok bool) {
	if bytes.HasPrefix(prefix, []byte(csgk.Magic)) {
		return RevisionCSGK, true
	}
	if len(prefix) < PrefixLength || !bytes.HasPrefix(prefix, []byte(Magic)) {
		return 0, false
	}
	switch binary.LittleEndian.Uint32(prefix[len(Magic):]) {
	case 2:
		return Revision2, true
	case 4:
		return Revision4, true
	case 5:
		return Revision5, true
	}
	return 0, false
}

// MeshData is a decoded mesh-data file. It is one of *CSGK, *MeshData2 or
// *MeshData5.
type MeshData interface {
	Revision() Revision
	isMeshData()
}

// CSGK is a mesh-data file holding a CSGK record.
type CSGK struct {
	csgk.Record
}

func (*CSGK) Revision() Revision { return RevisionCSGK }
func (*CSGK) isMeshData()        {}

// Header is the common header of CSGMDL records.
type Header struct {
	Hash [16]byte
	// Mystery is preserved as is.
	Mystery [16]byte
}

// Decoder decodes mesh-data files.
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

// Decode decodes a mesh-data file from the current position of rs.
func (d Decoder) Decode(rs io.ReadSeeker) (MeshData, error) {
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

	obfuscated := false
	rev, ok := Identify(prefix)
	if !ok {
		plain := append([]byte(nil), prefix...)
		obfuscate.Apply(plain, start)
		if rev, ok = Identify(plain); !ok {
			d.logger().Debug("unrecognized mesh-data prefix", zap.ByteString("prefix", prefix))
			return nil, errors.UnknownVersionError{Family: "meshdata", Bytes: prefix}
		}
		obfuscated = true
	}
	d.logger().Debug("decoding mesh-data",
		zap.Stringer("revision", rev),
		zap.Bool("obfuscated", obfuscated),
	)

	src := io.ReadSeeker(rs)
	if obfuscated {
		src = obfuscate.NewReader(rs)
	}
	switch rev {
	case RevisionCSGK:
		rec, err := csgk.Decode(src)
		if err != nil {
			return nil, err
		}
		return &CSGK{Record: *rec}, nil
	case Revision2, Revision4:
		return decode2(src)
	default:
		return decode5(rs, obfuscated)
	}
}

// HeaderLength is the size of the CSGMDL header, which is the only
// obfuscated part of a revision 5 record.
const HeaderLength = PrefixLength + 32

// Deobfuscate reverses the obfuscation of a complete mesh-data file in b,
// which starts at stream offset 0, and returns its revision. If b is already
// plaintext, it is left unchanged. b is not modified when an error is
// returned.
func Deobfuscate(b []byte) (Revision, error) {
	prefix := b
	if len(prefix) > PrefixLength {
		prefix = prefix[:PrefixLength]
	}
	if rev, ok := Identify(prefix); ok {
		return rev, nil
	}
	plain := append([]byte(nil), prefix...)
	obfuscate.Apply(plain, 0)
	rev, ok := Identify(plain)
	if !ok {
		return 0, errors.UnknownVersionError{Family: "meshdata", Bytes: prefix}
	}
	if rev == Revision5 {
		n := HeaderLength
		if n > len(b) {
			n = len(b)
		}
		obfuscate.Apply(b[:n], 0)
	} else {
		obfuscate.Apply(b, 0)
	}
	return rev, nil
}

// Decode decodes a mesh-data file from rs.
func Decode(rs io.ReadSeeker) (MeshData, error) {
	return Decoder{}.Decode(rs)
}

// Encode writes m to w. Revisions 2 and 4 are obfuscated. Revision 5
// returns errors.ErrUnsupported.
func Encode(w io.Writer, m MeshData) error {
	switch m := m.(type) {
	case *CSGK:
		return csgk.Encode(w, &m.Record)
	case *MeshData2:
		buf := record.NewBuffer(nil)
		if err := encode2(obfuscate.NewWriter(buf), m); err != nil {
			return err
		}
		_, err := w.Write(buf.Bytes())
		return err
	default:
		return errors.ErrUnsupported
	}
}

func readHeader(r *record.Reader, h *Header, versions ...string) (version int, failed bool) {
	if r.Magic(Magic) {
		return -1, true
	}
	if version, failed = r.Variant(versions...); failed {
		return -1, true
	}
	if r.Bytes(h.Hash[:]) || r.Bytes(h.Mystery[:]) {
		return -1, true
	}
	return version, false
}

func le32(v uint32) string {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	return string(b[:])
}
