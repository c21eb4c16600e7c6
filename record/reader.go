// Package record decodes and encodes the fixed-layout little-endian records
// that make up the binary asset formats.
//
// Reader and Writer wrap the sticky-error binary streams of
// github.com/anaminus/parse. Each method returns whether the stream has
// failed; once failed, every further call does nothing and End reports the
// first error, annotated with the offset at which it occurred.
//
// Vector fields are sized by a count decoded earlier in the same record.
// Count must be called with that count before the vector is allocated, so
// that a corrupt count cannot request more memory than the input could
// possibly fill.
package record

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/anaminus/parse"
	"github.com/robloxapi/rbxmesh/errors"
)

// Reader decodes records from a seekable stream of known length.
type Reader struct {
	fr    *parse.BinaryReader
	start int64
	size  int64
	err   error
}

// NewReader returns a Reader that starts at the current position of rs.
func NewReader(rs io.ReadSeeker) (*Reader, error) {
	start, err := rs.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, err
	}
	size, err := rs.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, err
	}
	if _, err := rs.Seek(start, io.SeekStart); err != nil {
		return nil, err
	}
	return &Reader{fr: parse.NewBinaryReader(rs), start: start, size: size}, nil
}

// Offset returns the absolute offset of the next byte to be read.
func (r *Reader) Offset() int64 {
	return r.start + r.fr.N()
}

// Remaining returns the number of bytes between the offset and the end of
// the stream.
func (r *Reader) Remaining() int64 {
	return r.size - r.Offset()
}

// AtEnd returns whether the stream has been read completely.
func (r *Reader) AtEnd() bool {
	return r.Remaining() <= 0
}

// Fail records err as the cause of failure, if no failure has already
// occurred. It always returns true.
func (r *Reader) Fail(err error) bool {
	if r.err == nil {
		r.err = errors.DataError{Offset: r.Offset(), Cause: err}
		r.fr.Add(0, err)
	}
	return true
}

// Failed returns whether an error has occurred.
func (r *Reader) Failed() bool {
	return r.err != nil
}

func ioCause(err error) error {
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return errors.ErrUnexpectedEOF
	}
	return err
}

func (r *Reader) streamFailed() bool {
	_, err := r.fr.End()
	r.err = errors.DataError{Offset: r.Offset(), Cause: ioCause(err)}
	return true
}

func (r *Reader) need(n int64) (failed bool) {
	if r.Failed() {
		return true
	}
	if n > r.Remaining() {
		return r.Fail(errors.ErrUnexpectedEOF)
	}
	return false
}

// Number decodes a fixed-size value, or a slice of fixed-size values, into
// data.
func (r *Reader) Number(data interface{}) (failed bool) {
	size := binary.Size(data)
	if size < 0 {
		panic("record: value is not fixed-size")
	}
	if r.need(int64(size)) {
		return true
	}
	buf := make([]byte, size)
	if r.fr.Bytes(buf) {
		return r.streamFailed()
	}
	if err := binary.Read(bytes.NewReader(buf), binary.LittleEndian, data); err != nil {
		return r.Fail(err)
	}
	return false
}

// Bytes reads exactly len(p) bytes into p.
func (r *Reader) Bytes(p []byte) (failed bool) {
	if r.need(int64(len(p))) {
		return true
	}
	if r.fr.Bytes(p) {
		return r.streamFailed()
	}
	return false
}

// Magic reads len(magic) bytes and fails with a BadMagicError if they differ
// from magic.
func (r *Reader) Magic(magic string) (failed bool) {
	_, failed = r.Variant(magic)
	return failed
}

// Variant reads a discriminator and returns the index of the variant it
// matches. All variants must have the same length. If none match, the
// Reader fails with a BadMagicError.
func (r *Reader) Variant(variants ...string) (i int, failed bool) {
	offset := r.Offset()
	got := make([]byte, len(variants[0]))
	if r.Bytes(got) {
		return -1, true
	}
	for i, v := range variants {
		if bytes.Equal(got, []byte(v)) {
			return i, false
		}
	}
	expected := make([][]byte, len(variants))
	for i, v := range variants {
		expected[i] = []byte(v)
	}
	cause := errors.BadMagicError{Offset: offset, Expected: expected, Got: got}
	r.err = errors.DataError{Offset: offset, Cause: cause}
	r.fr.Add(0, cause)
	return -1, true
}

// Count checks that count elements of size bytes each can be read from the
// remaining input, and returns count as an int.
//
// If the remaining input is too short, the Reader fails with a CountError
// when the remaining bytes hold a whole number of elements, and with
// ErrUnexpectedEOF when the input ends partway into an element.
func (r *Reader) Count(field string, count uint64, size int64) (n int, failed bool) {
	if r.Failed() {
		return 0, true
	}
	remaining := r.Remaining()
	if size <= 0 {
		panic("record: element size must be positive")
	}
	if count > uint64(remaining/size) {
		if remaining%size != 0 {
			return 0, r.Fail(errors.ErrUnexpectedEOF)
		}
		return 0, r.Fail(errors.CountError{Field: field, Declared: int64(count), Available: remaining / size})
	}
	return int(count), false
}

// Check fails with a CountError if declared does not equal actual.
func (r *Reader) Check(field string, declared, actual int64) (failed bool) {
	if r.Failed() {
		return true
	}
	if declared != actual {
		return r.Fail(errors.CountError{Field: field, Declared: declared, Available: actual})
	}
	return false
}

// Err returns the error that caused the Reader to fail, or nil.
func (r *Reader) Err() error {
	return r.err
}

// End returns the error that caused the Reader to fail. If no error
// occurred, but unread bytes remain, a TrailingDataError is returned.
func (r *Reader) End() error {
	if err := r.Err(); err != nil {
		return err
	}
	if n := r.Remaining(); n > 0 {
		return errors.DataError{Offset: r.Offset(), Cause: errors.TrailingDataError{N: n}}
	}
	return nil
}

// IsBadMagic returns whether err was caused by a magic mismatch.
func IsBadMagic(err error) bool {
	var bad errors.BadMagicError
	return errors.As(err, &bad)
}

// Fallback runs primary on rs. If primary fails because of a magic mismatch,
// rs is returned to its original position and legacy is run once in its
// place. Any other error from primary is returned as is.
func Fallback[T any](rs io.ReadSeeker, primary, legacy func(io.ReadSeeker) (T, error)) (T, error) {
	start, err := rs.Seek(0, io.SeekCurrent)
	if err != nil {
		var zero T
		return zero, err
	}
	v, err := primary(rs)
	if err == nil || !IsBadMagic(err) {
		return v, err
	}
	if _, err := rs.Seek(start, io.SeekStart); err != nil {
		var zero T
		return zero, err
	}
	return legacy(rs)
}

// Vector reads a vector of count fixed-size elements, after checking the
// count with Count.
func Vector[T any](r *Reader, field string, count uint64) (v []T, failed bool) {
	var zero T
	size := binary.Size(zero)
	if size <= 0 {
		panic("record: element is not fixed-size")
	}
	n, failed := r.Count(field, count, int64(size))
	if failed {
		return nil, true
	}
	v = make([]T, n)
	if n > 0 && r.Number(v) {
		return nil, true
	}
	return v, false
}
