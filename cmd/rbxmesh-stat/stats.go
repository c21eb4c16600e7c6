package main

import (
	"github.com/robloxapi/rbxmesh/csgk"
	"github.com/robloxapi/rbxmesh/internal/asset"
	"github.com/robloxapi/rbxmesh/mesh"
	"github.com/robloxapi/rbxmesh/meshdata"
	"github.com/robloxapi/rbxmesh/physicsdata"
)

// Stats describes one decoded file.
type Stats struct {
	File     string
	Family   string
	Revision string

	// Geometry, if any.
	VertexCount int    `json:",omitempty"`
	FaceCount   int    `json:",omitempty"`
	Fingerprint string `json:",omitempty"`

	// Mesh skinning and detail levels.
	LodCount    int  `json:",omitempty"`
	BoneCount   int  `json:",omitempty"`
	SubsetCount int  `json:",omitempty"`
	Facs        bool `json:",omitempty"`
	Truncated   bool `json:",omitempty"`

	// Number of collision meshes.
	MeshCount int `json:",omitempty"`

	// Identifier held by a CSGK record.
	UUID string `json:",omitempty"`
}

// Fill sets the statistics of a.
func (s *Stats) Fill(a *asset.Asset) {
	s.Family = a.Family.String()
	s.Revision = a.Revision()
	if v, err := a.View(); err == nil {
		s.VertexCount = v.VertexCount()
		s.FaceCount = v.FaceCount()
		s.Fingerprint = v.Fingerprint().String()
	}

	var rec *csgk.Record
	switch v := a.Value.(type) {
	case *mesh.Mesh2:
		s.Truncated = v.Truncated()
	case *mesh.Mesh3:
		s.Truncated = v.Truncated()
		s.LodCount = len(v.Lods)
	case *mesh.Mesh4:
		s.fillBody(&v.Body)
	case *mesh.Mesh5:
		s.fillBody(&v.Body)
		s.Facs = v.Facs != nil
	case *meshdata.CSGK:
		rec = &v.Record
	case *physicsdata.CSGK:
		rec = &v.Record
	case *physicsdata.Meshes:
		s.MeshCount = len(v.Meshes)
	case *physicsdata.InfoMeshes:
		s.MeshCount = len(v.Meshes)
	}
	if rec != nil {
		if id, err := rec.UUID(); err == nil {
			s.UUID = id.String()
		}
	}
}

func (s *Stats) fillBody(b *mesh.Body) {
	s.LodCount = len(b.Lods)
	s.BoneCount = len(b.Bones)
	s.SubsetCount = len(b.Subsets)
}
