package errors

import (
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrUnexpectedEOF indicates that the input ended inside a field.
	ErrUnexpectedEOF = New("unexpected end of input")
	// ErrUnusedData indicates that a packed index stream had bytes left over
	// after the declared number of indices were decoded.
	ErrUnusedData = New("unused data in packed index stream")
	// ErrVertexCount indicates that the number of decoded vertices does not
	// agree with the declared face count.
	ErrVertexCount = New("vertex count does not match face count")
	// ErrUnsupported indicates an operation that the codec deliberately does
	// not implement, such as encoding a read-only revision.
	ErrUnsupported = New("unsupported operation")
)

// UnknownVersionError indicates a file prefix that does not match any known
// revision of an asset family. Bytes holds the unrecognized prefix.
type UnknownVersionError struct {
	Family string
	Bytes  []byte
}

func (err UnknownVersionError) Error() string {
	return fmt.Sprintf("%s: unknown version %q", err.Family, err.Bytes)
}

// BadMagicError indicates that bytes read at Offset did not match any of the
// expected constants.
type BadMagicError struct {
	Offset   int64
	Expected [][]byte
	Got      []byte
}

func (err BadMagicError) Error() string {
	var s strings.Builder
	s.WriteString("bad magic at ")
	s.Write(strconv.AppendInt(nil, err.Offset, 10))
	s.WriteString(": got ")
	s.WriteString(strconv.Quote(string(err.Got)))
	s.WriteString(", expected ")
	for i, e := range err.Expected {
		if i > 0 {
			s.WriteString(" or ")
		}
		s.WriteString(strconv.Quote(string(e)))
	}
	return s.String()
}

// CountError indicates that a count field disagrees with the data it
// governs. Available is the number of elements actually present.
type CountError struct {
	Field     string
	Declared  int64
	Available int64
}

func (err CountError) Error() string {
	return fmt.Sprintf("%s: declared count %d, but %d available", err.Field, err.Declared, err.Available)
}

// TrailingDataError indicates N bytes remaining after a complete record.
type TrailingDataError struct {
	N int64
}

func (err TrailingDataError) Error() string {
	return fmt.Sprintf("%d bytes of trailing data", err.N)
}

// FieldError wraps an error that occurred while decoding a named field.
type FieldError struct {
	Field string

	Cause error
}

func (err FieldError) Error() string {
	if err.Cause == nil {
		return err.Field
	}
	return err.Field + ": " + err.Cause.Error()
}

func (err FieldError) Unwrap() error {
	return err.Cause
}

// DataError wraps an error that occurred while encoding or decoding byte data.
type DataError struct {
	// Offset is the byte offset where the error occurred.
	Offset int64

	Cause error
}

func (err DataError) Error() string {
	var s strings.Builder
	s.WriteString("data error")
	if err.Offset >= 0 {
		s.WriteString(" at ")
		s.Write(strconv.AppendInt(nil, err.Offset, 10))
	}
	if err.Cause != nil {
		s.WriteString(": ")
		s.WriteString(err.Cause.Error())
	}
	return s.String()
}

func (err DataError) Unwrap() error {
	return err.Cause
}
