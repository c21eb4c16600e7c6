// Package csgk implements the CSGK record, which stands in place of solid
// geometry data in both mesh-data and physics-data files. The payload is an
// identifier that is preserved verbatim.
package csgk

import (
	"io"

	"github.com/google/uuid"
	"github.com/robloxapi/rbxmesh/errors"
	"github.com/robloxapi/rbxmesh/record"
)

// Magic is the signature that starts a CSGK record.
const Magic = "CSGK"

// Record is a CSGK record.
type Record struct {
	// Data is every byte following the signature.
	Data []byte
}

// Decode reads a CSGK record, consuming the rest of rs.
func Decode(rs io.ReadSeeker) (*Record, error) {
	r, err := record.NewReader(rs)
	if err != nil {
		return nil, err
	}
	if r.Magic(Magic) {
		return nil, r.End()
	}
	n, _ := r.Count("data", uint64(r.Remaining()), 1)
	rec := &Record{Data: make([]byte, n)}
	if r.Bytes(rec.Data) {
		return nil, r.End()
	}
	if err := r.End(); err != nil {
		return nil, err
	}
	return rec, nil
}

// Encode writes rec to w.
func Encode(w io.Writer, rec *Record) error {
	fw := record.NewWriter(w)
	fw.Magic(Magic)
	fw.Bytes(rec.Data)
	_, err := fw.End()
	return err
}

// ErrNoUUID is returned by UUID when the payload does not hold an
// identifier.
var ErrNoUUID = errors.New("csgk: payload is not a UUID")

// UUID interprets the payload as an identifier. Both the 16-byte binary form
// and the textual forms accepted by uuid.Parse are recognized.
func (rec *Record) UUID() (uuid.UUID, error) {
	if len(rec.Data) == 16 {
		return uuid.FromBytes(rec.Data)
	}
	id, err := uuid.ParseBytes(rec.Data)
	if err != nil {
		return uuid.Nil, ErrNoUUID
	}
	return id, nil
}
