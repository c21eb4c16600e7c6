// Package obfuscate implements the position-keyed XOR transform applied to
// mesh-data files.
//
// The byte at absolute offset o is XORed with Pad[o%len(Pad)]. Applying the
// transform twice at the same offset restores the original byte, so the same
// code serves for both reading and writing.
package obfuscate

import (
	"io"
)

// Pad is the cyclic key.
var Pad = [31]byte{
	86, 46, 110, 88, 49, 32, 48, 4, 52, 105, 12, 119, 12, 1, 94, 0,
	26, 96, 55, 105, 29, 82, 43, 7, 79, 36, 89, 101, 83, 4, 122,
}

// Apply transforms p in place, as if p was located at offset.
func Apply(p []byte, offset int64) {
	k := int(offset % int64(len(Pad)))
	if k < 0 {
		k += len(Pad)
	}
	for i := range p {
		p[i] ^= Pad[k]
		if k++; k == len(Pad) {
			k = 0
		}
	}
}

func position(s io.Seeker) (int64, error) {
	return s.Seek(0, io.SeekCurrent)
}

// Reader deobfuscates bytes read from an underlying stream. The key position
// is taken from the underlying stream before every read, so seeking either
// the Reader or the underlying stream keeps the two in agreement.
type Reader struct {
	r io.ReadSeeker
}

// NewReader returns a Reader that reads from r.
func NewReader(r io.ReadSeeker) *Reader {
	return &Reader{r: r}
}

func (r *Reader) Read(p []byte) (n int, err error) {
	pos, err := position(r.r)
	if err != nil {
		return 0, err
	}
	n, err = r.r.Read(p)
	Apply(p[:n], pos)
	return n, err
}

func (r *Reader) Seek(offset int64, whence int) (int64, error) {
	return r.r.Seek(offset, whence)
}

// Writer obfuscates bytes before writing them to an underlying stream. The
// caller's buffer is not modified.
type Writer struct {
	w   io.WriteSeeker
	buf []byte
}

// NewWriter returns a Writer that writes to w.
func NewWriter(w io.WriteSeeker) *Writer {
	return &Writer{w: w}
}

func (w *Writer) Write(p []byte) (n int, err error) {
	pos, err := position(w.w)
	if err != nil {
		return 0, err
	}
	if cap(w.buf) < len(p) {
		w.buf = make([]byte, len(p))
	}
	b := w.buf[:len(p)]
	copy(b, p)
	Apply(b, pos)
	return w.w.Write(b)
}

func (w *Writer) Seek(offset int64, whence int) (int64, error) {
	return w.w.Seek(offset, whence)
}
