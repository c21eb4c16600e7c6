package mesh

import (
	"fmt"
	"io"

	"github.com/robloxapi/rbxmesh/errors"
	"github.com/robloxapi/rbxmesh/record"
)

// FacsFormat1 is the only known format of the facial animation block.
const FacsFormat1 = 1

// Mesh5 is a mesh of revision 5.00.
type Mesh5 struct {
	Body
	// Facs is nil when the mesh has no facial animation block.
	Facs *Facs
}

func (*Mesh5) Revision() Revision { return Revision500 }
func (*Mesh5) isMesh()            {}

const header5Size = 32

// FacsFormatError indicates an unknown facial animation block format.
type FacsFormatError uint32

func (err FacsFormatError) Error() string {
	return fmt.Sprintf("unknown facs format %d", uint32(err))
}

func (d Decoder) decode5(rs io.ReadSeeker) (*Mesh5, error) {
	r, err := record.NewReader(rs)
	if err != nil {
		return nil, err
	}
	if r.Magic(Signature + "5.00\n") {
		return nil, r.End()
	}
	if r.Magic(string([]byte{header5Size, 0})) {
		return nil, r.End()
	}
	m := new(Mesh5)
	var h header4
	if m.readHeader(r, &h) {
		return nil, r.End()
	}
	var facsFormat, sizeofFacs uint32
	if r.Number(&facsFormat) || r.Number(&sizeofFacs) {
		return nil, r.End()
	}
	if facsFormat != FacsFormat1 {
		r.Fail(errors.FieldError{Field: "facs_format", Cause: FacsFormatError(facsFormat)})
		return nil, r.End()
	}
	if m.read(r, &h) {
		return nil, r.End()
	}
	if sizeofFacs > 0 {
		var failed bool
		if m.Facs, failed = readFacs(r, sizeofFacs); failed {
			return nil, r.End()
		}
	}
	if err := r.End(); err != nil {
		return nil, err
	}
	return m, nil
}

func encode5(w io.Writer, m *Mesh5) error {
	h4, err := m.header()
	if err != nil {
		return err
	}
	var facs []byte
	if m.Facs != nil {
		if facs, err = m.Facs.encode(); err != nil {
			return err
		}
	}
	fw := record.NewWriter(w)
	fw.Magic(Signature + "5.00\n")
	fw.Bytes([]byte{header5Size, 0})
	fw.Number(h4)
	fw.Number([2]uint32{FacsFormat1, uint32(len(facs))})
	m.write(fw)
	fw.Bytes(facs)
	_, err = fw.End()
	return err
}
