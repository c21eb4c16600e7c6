package rbxmesh

import (
	"encoding/binary"
	"encoding/hex"

	"golang.org/x/crypto/blake2b"
)

// Fingerprint identifies the geometry of a view. Two views with the same
// vertices and faces have the same fingerprint, regardless of the format or
// revision they were decoded from.
type Fingerprint [blake2b.Size256]byte

func (f Fingerprint) String() string {
	return hex.EncodeToString(f[:])
}

// Fingerprint hashes the vertices and faces of v with BLAKE2b-256. The
// vertex and face counts are included, followed by each vertex and each
// face in little-endian form.
func (v *View) Fingerprint() Fingerprint {
	h, _ := blake2b.New256(nil)
	var buf [8]byte
	binary.LittleEndian.PutUint32(buf[0:], uint32(v.VertexCount()))
	binary.LittleEndian.PutUint32(buf[4:], uint32(v.FaceCount()))
	h.Write(buf[:])
	for it := v.Vertices(); it.Next(); {
		binary.Write(h, binary.LittleEndian, it.Vertex())
	}
	for it := v.Faces(); it.Next(); {
		binary.Write(h, binary.LittleEndian, it.Face())
	}
	var f Fingerprint
	h.Sum(f[:0])
	return f
}
