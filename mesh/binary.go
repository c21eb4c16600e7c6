package mesh

import (
	"fmt"
	"io"

	"github.com/robloxapi/rbxmesh/errors"
	"github.com/robloxapi/rbxmesh/record"
	"go.uber.org/zap"
)

const (
	vertexSize          = 40
	truncatedVertexSize = 36
	faceSize            = 12
	lodSize             = 4
)

// VertexList holds the vertices of a mesh revision that allows either
// vertex layout. Exactly one of the two slices is non-nil, which determines
// the layout that is encoded.
type VertexList struct {
	Vertices          []Vertex
	TruncatedVertices []TruncatedVertex
}

// Truncated returns whether the vertices use the 36-byte layout.
func (l *VertexList) Truncated() bool {
	return l.TruncatedVertices != nil
}

// Len returns the number of vertices.
func (l *VertexList) Len() int {
	if l.Truncated() {
		return len(l.TruncatedVertices)
	}
	return len(l.Vertices)
}

// At returns vertex i in the 40-byte layout. Truncated vertices receive
// DefaultColor.
func (l *VertexList) At(i int) Vertex {
	if l.Truncated() {
		return l.TruncatedVertices[i].Fill(DefaultColor)
	}
	return l.Vertices[i]
}

// Widen converts truncated vertices to the 40-byte layout with the given
// color.
func (l *VertexList) Widen(color [4]uint8) {
	if !l.Truncated() {
		return
	}
	l.Vertices = make([]Vertex, len(l.TruncatedVertices))
	for i, v := range l.TruncatedVertices {
		l.Vertices[i] = v.Fill(color)
	}
	l.TruncatedVertices = nil
}

// Narrow converts vertices to the 36-byte layout, discarding colors.
func (l *VertexList) Narrow() {
	if l.Truncated() {
		return
	}
	l.TruncatedVertices = make([]TruncatedVertex, len(l.Vertices))
	for i, v := range l.Vertices {
		l.TruncatedVertices[i] = v.Truncate()
	}
	l.Vertices = nil
}

var errMixedVertices = errors.New("mesh: vertex list has both layouts")

func (l *VertexList) size() (uint8, error) {
	if l.Vertices != nil && l.TruncatedVertices != nil {
		return 0, errMixedVertices
	}
	if l.Truncated() {
		return truncatedVertexSize, nil
	}
	return vertexSize, nil
}

func (l *VertexList) read(r *record.Reader, count uint32, truncated bool) (failed bool) {
	if truncated {
		l.TruncatedVertices, failed = record.Vector[TruncatedVertex](r, "vertices", uint64(count))
	} else {
		l.Vertices, failed = record.Vector[Vertex](r, "vertices", uint64(count))
	}
	return failed
}

func (l *VertexList) write(w *record.Writer) (failed bool) {
	if l.Truncated() {
		return w.Number(l.TruncatedVertices)
	}
	return w.Number(l.Vertices)
}

// readLayout decodes a revision that allows either vertex layout, trying
// the 40-byte layout first.
func readLayout[T any](d Decoder, rs io.ReadSeeker, rev Revision, read func(rs io.ReadSeeker, truncated bool) (T, error)) (T, error) {
	return record.Fallback(rs,
		func(rs io.ReadSeeker) (T, error) {
			return read(rs, false)
		},
		func(rs io.ReadSeeker) (T, error) {
			d.logger().Debug("trying truncated vertex layout", zap.Stringer("revision", rev))
			return read(rs, true)
		},
	)
}

func vertexSizeOf(truncated bool) uint8 {
	if truncated {
		return truncatedVertexSize
	}
	return vertexSize
}

func errRevision(rev Revision) error {
	return fmt.Errorf("mesh: revision %s does not match the mesh type", rev)
}
