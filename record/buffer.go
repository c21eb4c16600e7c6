package record

import (
	"io"

	"github.com/robloxapi/rbxmesh/errors"
)

// Buffer is an in-memory io.ReadWriteSeeker. Writing past the end extends
// the buffer; a gap left by seeking past the end is filled with zeros.
type Buffer struct {
	buf []byte
	off int64
}

// NewBuffer returns a Buffer holding b, positioned at the start.
func NewBuffer(b []byte) *Buffer {
	return &Buffer{buf: b}
}

// Bytes returns the full content of the buffer.
func (b *Buffer) Bytes() []byte {
	return b.buf
}

// Len returns the length of the content.
func (b *Buffer) Len() int {
	return len(b.buf)
}

func (b *Buffer) Read(p []byte) (n int, err error) {
	if b.off >= int64(len(b.buf)) {
		return 0, io.EOF
	}
	n = copy(p, b.buf[b.off:])
	b.off += int64(n)
	return n, nil
}

func (b *Buffer) Write(p []byte) (n int, err error) {
	end := b.off + int64(len(p))
	if end > int64(len(b.buf)) {
		if end > int64(cap(b.buf)) {
			buf := make([]byte, end, 2*end)
			copy(buf, b.buf)
			b.buf = buf
		} else {
			n := len(b.buf)
			b.buf = b.buf[:end]
			if b.off > int64(n) {
				gap := b.buf[n:b.off]
				for i := range gap {
					gap[i] = 0
				}
			}
		}
	}
	n = copy(b.buf[b.off:], p)
	b.off = end
	return n, nil
}

var errNegativeOffset = errors.New("record: negative offset")

func (b *Buffer) Seek(offset int64, whence int) (int64, error) {
	switch whence {
	case io.SeekStart:
	case io.SeekCurrent:
		offset += b.off
	case io.SeekEnd:
		offset += int64(len(b.buf))
	default:
		return b.off, errors.New("record: invalid whence")
	}
	if offset < 0 {
		return b.off, errNegativeOffset
	}
	b.off = offset
	return offset, nil
}
