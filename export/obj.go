// Package export writes the geometry of a view to interchange formats.
package export

import (
	"bufio"
	"fmt"
	"io"

	"github.com/pkg/errors"
	"github.com/robloxapi/rbxmesh"
)

// WriteOBJ writes v as a Wavefront OBJ object named name. Each vertex
// contributes a position, a texture coordinate and a normal.
func WriteOBJ(w io.Writer, v *rbxmesh.View, name string) error {
	bw := bufio.NewWriter(w)
	p := func(format string, args ...interface{}) {
		fmt.Fprintf(bw, format+"\n", args...)
	}

	if name != "" {
		p("o %s", name)
	}
	var vts, vns []string
	for it := v.Vertices(); it.Next(); {
		vertex := it.Vertex()
		p("v %g %g %g", vertex.Pos[0], vertex.Pos[1], vertex.Pos[2])
		vts = append(vts, fmt.Sprintf("vt %g %g", vertex.Tex[0], vertex.Tex[1]))
		vns = append(vns, fmt.Sprintf("vn %g %g %g", vertex.Norm[0], vertex.Norm[1], vertex.Norm[2]))
	}
	for _, s := range vts {
		p("%s", s)
	}
	for _, s := range vns {
		p("%s", s)
	}

	n := uint32(v.VertexCount())
	for it := v.Faces(); it.Next(); {
		f := it.Face()
		for _, i := range f {
			if i >= n {
				return errors.Errorf("face index %d out of range of %d vertices", i, n)
			}
		}
		p("f %d/%d/%d %d/%d/%d %d/%d/%d",
			f[0]+1, f[0]+1, f[0]+1,
			f[1]+1, f[1]+1, f[1]+1,
			f[2]+1, f[2]+1, f[2]+1,
		)
	}
	return errors.Wrap(bw.Flush(), "write obj")
}
