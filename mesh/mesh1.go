package mesh

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/robloxapi/rbxmesh/errors"
)

// Vertex1 is a vertex of a text mesh.
type Vertex1 struct {
	Pos  [3]float32
	Norm [3]float32
	Tex  [3]float32
}

// Mesh1 is a text mesh of revision 1.00 or 1.01. Faces are implicit: every
// three consecutive vertices form a triangle.
type Mesh1 struct {
	Rev      Revision
	Vertices []Vertex1
}

func (m *Mesh1) Revision() Revision { return m.Rev }
func (*Mesh1) isMesh()              {}

// FaceCount returns the number of faces.
func (m *Mesh1) FaceCount() int {
	return len(m.Vertices) / 3
}

// ErrVertexTripletCount indicates that the bracketed vectors of a text mesh
// do not divide evenly into vertices.
var ErrVertexTripletCount = errors.New("vector count is not a multiple of three")

// DimensionError indicates that a vector of a text mesh does not have three
// components.
type DimensionError struct {
	Field string
	N     int
}

func (err DimensionError) Error() string {
	return fmt.Sprintf("%s: expected 3 components, got %d", err.Field, err.N)
}

var vectorPattern = regexp.MustCompile(`\[(.*?)\]`)

func parseVector(field string, b []byte) (v [3]float32, err error) {
	parts := strings.Split(string(b), ",")
	if len(parts) != 3 {
		return v, errors.FieldError{Field: field, Cause: DimensionError{Field: field, N: len(parts)}}
	}
	for i, s := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 32)
		if err != nil {
			return v, errors.FieldError{Field: field, Cause: err}
		}
		v[i] = float32(f)
	}
	return v, nil
}

type lineReader struct {
	r      *bufio.Reader
	offset int64
}

func (lr *lineReader) line() ([]byte, error) {
	b, err := lr.r.ReadBytes('\n')
	if err == io.EOF {
		if len(b) == 0 {
			return nil, errors.DataError{Offset: lr.offset, Cause: errors.ErrUnexpectedEOF}
		}
	} else if err != nil {
		return nil, err
	}
	lr.offset += int64(len(b))
	return bytes.TrimRight(b, "\r\n"), nil
}

func (d Decoder) decode1(r io.Reader, rev Revision) (*Mesh1, error) {
	lr := &lineReader{r: bufio.NewReader(r)}
	if _, err := lr.line(); err != nil {
		return nil, err
	}

	offset := lr.offset
	line, err := lr.line()
	if err != nil {
		return nil, err
	}
	faceCount, err := strconv.ParseUint(string(bytes.TrimSpace(line)), 10, 32)
	if err != nil {
		return nil, errors.DataError{Offset: offset, Cause: errors.FieldError{Field: "face_count", Cause: err}}
	}

	offset = lr.offset
	line, err = lr.line()
	if err != nil {
		return nil, err
	}
	vectors := vectorPattern.FindAllSubmatch(line, -1)
	if len(vectors)%3 != 0 {
		return nil, errors.DataError{Offset: offset, Cause: ErrVertexTripletCount}
	}
	m := &Mesh1{Rev: rev, Vertices: make([]Vertex1, len(vectors)/3)}
	for i := range m.Vertices {
		v := &m.Vertices[i]
		if v.Pos, err = parseVector("position", vectors[3*i][1]); err != nil {
			return nil, errors.DataError{Offset: offset, Cause: err}
		}
		if v.Norm, err = parseVector("normal", vectors[3*i+1][1]); err != nil {
			return nil, errors.DataError{Offset: offset, Cause: err}
		}
		if v.Tex, err = parseVector("texture", vectors[3*i+2][1]); err != nil {
			return nil, errors.DataError{Offset: offset, Cause: err}
		}
	}
	if uint64(len(m.Vertices)) != 3*faceCount {
		return nil, errors.DataError{Offset: offset, Cause: errors.ErrVertexCount}
	}

	rest, err := io.ReadAll(lr.r)
	if err != nil {
		return nil, err
	}
	if n := len(bytes.TrimSpace(rest)); n > 0 {
		return nil, errors.DataError{Offset: lr.offset, Cause: errors.TrailingDataError{N: int64(len(rest))}}
	}
	return m, nil
}

func formatVector(buf []byte, v [3]float32) []byte {
	buf = append(buf, '[')
	for i, f := range v {
		if i > 0 {
			buf = append(buf, ',')
		}
		buf = strconv.AppendFloat(buf, float64(f), 'g', -1, 32)
	}
	return append(buf, ']')
}

func encode1(w io.Writer, m *Mesh1) error {
	if m.Rev != Revision100 && m.Rev != Revision101 {
		return fmt.Errorf("mesh: revision %s is not a text revision", m.Rev)
	}
	if len(m.Vertices)%3 != 0 {
		return errors.ErrVertexCount
	}
	buf := make([]byte, 0, 64+len(m.Vertices)*96)
	buf = append(buf, Signature...)
	buf = append(buf, m.Rev.String()...)
	buf = append(buf, '\n')
	buf = strconv.AppendInt(buf, int64(m.FaceCount()), 10)
	buf = append(buf, '\n')
	for _, v := range m.Vertices {
		buf = formatVector(buf, v.Pos)
		buf = formatVector(buf, v.Norm)
		buf = formatVector(buf, v.Tex)
	}
	buf = append(buf, '\n')
	_, err := w.Write(buf)
	return err
}
