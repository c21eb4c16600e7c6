package mesh

// TangentSentinel is a placeholder tangent found in binary meshes.
var TangentSentinel = [4]int8{-128, -128, -128, -128}

// DefaultTangent replaces TangentSentinel after decoding.
var DefaultTangent = [4]int8{0, 0, -128, 127}

// Fix normalizes the vertices of m in place:
//
//   - Revision 1.00 positions are halved.
//   - Text revisions have their texture V coordinate flipped.
//   - Binary revisions have TangentSentinel replaced with DefaultTangent.
//
// Decode calls Fix unless the Decoder is Raw.
func Fix(m Mesh) {
	switch m := m.(type) {
	case *Mesh1:
		for i := range m.Vertices {
			v := &m.Vertices[i]
			if m.Rev == Revision100 {
				for j := range v.Pos {
					v.Pos[j] *= 0.5
				}
			}
			v.Tex[1] = 1 - v.Tex[1]
		}
	case *Mesh2:
		fixTangents(m.Vertices)
		fixTruncatedTangents(m.TruncatedVertices)
	case *Mesh3:
		fixTangents(m.Vertices)
		fixTruncatedTangents(m.TruncatedVertices)
	case *Mesh4:
		fixTangents(m.Vertices)
	case *Mesh5:
		fixTangents(m.Vertices)
	}
}

func fixTangents(vertices []Vertex) {
	for i := range vertices {
		if vertices[i].Tangent == TangentSentinel {
			vertices[i].Tangent = DefaultTangent
		}
	}
}

func fixTruncatedTangents(vertices []TruncatedVertex) {
	for i := range vertices {
		if vertices[i].Tangent == TangentSentinel {
			vertices[i].Tangent = DefaultTangent
		}
	}
}

// unfixed returns a copy of m with the text revision fixups undone.
func (m *Mesh1) unfixed() *Mesh1 {
	u := &Mesh1{Rev: m.Rev, Vertices: make([]Vertex1, len(m.Vertices))}
	for i, v := range m.Vertices {
		if m.Rev == Revision100 {
			for j := range v.Pos {
				v.Pos[j] *= 2
			}
		}
		v.Tex[1] = 1 - v.Tex[1]
		u.Vertices[i] = v
	}
	return u
}
