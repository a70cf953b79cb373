package world

// MeshArrays is the renderable output of a mesh build: six packed arrays
// (positions, normals, colours, UVs, indices) plus a vertex count. Vertex
// positions are local to the chunk's own origin — the region combiner is
// responsible for translating them into region space.
type MeshArrays struct {
	Positions   []float32 // 3 per vertex
	Normals     []float32 // 3 per vertex
	Colors      []float32 // 4 per vertex (RGBA, 0..1)
	UVs         []float32 // 2 per vertex
	Indices     []uint32
	VertexCount int
}

// IsEmpty reports whether the mesh carries no geometry.
func (m *MeshArrays) IsEmpty() bool {
	return m == nil || m.VertexCount == 0
}

// NeighbourVoxelFunc resolves the voxel type on the far side of a chunk
// boundary. present is false when the neighbour chunk does not exist (or
// is not yet active), in which case callers must treat the boundary as
// opaque. a and b are the two in-plane local coordinates at the shared
// face, in the neighbour's own local coordinate space.
type NeighbourVoxelFunc func(d Direction, a, b int) (id uint8, present bool)

// MeshBuilder produces indexed triangle arrays for one chunk given
// neighbour context. Implementations live in package meshing; the
// interface is declared here (rather than there) so that Region, which
// needs to invoke a builder, does not have to import package meshing —
// avoiding an import cycle (meshing already imports world for Chunk and
// registry for material lookups).
type MeshBuilder interface {
	Build(c *Chunk, neighbourVoxel NeighbourVoxelFunc) (*MeshArrays, error)
}
