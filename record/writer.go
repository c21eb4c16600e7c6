package record

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/anaminus/parse"
)

// Writer encodes records to a stream.
type Writer struct {
	fw  *parse.BinaryWriter
	err error
}

// NewWriter returns a Writer that writes to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{fw: parse.NewBinaryWriter(w)}
}

// Number encodes a fixed-size value, or a slice of fixed-size values.
func (w *Writer) Number(data interface{}) (failed bool) {
	if w.err != nil {
		return true
	}
	size := binary.Size(data)
	if size < 0 {
		panic("record: value is not fixed-size")
	}
	var buf bytes.Buffer
	buf.Grow(size)
	if err := binary.Write(&buf, binary.LittleEndian, data); err != nil {
		return w.Fail(err)
	}
	return w.Bytes(buf.Bytes())
}

// Bytes writes p verbatim.
func (w *Writer) Bytes(p []byte) (failed bool) {
	if w.err != nil {
		return true
	}
	if w.fw.Bytes(p) {
		_, w.err = w.fw.End()
		return true
	}
	return false
}

// Magic writes a discriminator.
func (w *Writer) Magic(magic string) (failed bool) {
	return w.Bytes([]byte(magic))
}

// Fail records err as the cause of failure, if no failure has already
// occurred. It always returns true.
func (w *Writer) Fail(err error) bool {
	if w.err == nil {
		w.err = err
		w.fw.Add(0, err)
	}
	return true
}

// End returns the number of bytes written and the first error that
// occurred.
func (w *Writer) End() (n int64, err error) {
	n, _ = w.fw.End()
	return n, w.err
}
