// Package meshing turns a chunk's voxel grid into renderable triangle
// arrays. Two MeshBuilder implementations are provided: Naive, which emits
// one quad per visible face, and Greedy, which merges coplanar same-type
// faces into larger quads at the cost of more per-chunk CPU time.
package meshing

import (
	"voxelcore/internal/registry"
	"voxelcore/internal/world"
)

// faceNormals gives the outward unit normal for each Direction, in the
// same order as world.Directions().
var faceNormals = map[world.Direction][3]float32{
	world.DirNegX: {-1, 0, 0},
	world.DirPosX: {1, 0, 0},
	world.DirNegY: {0, -1, 0},
	world.DirPosY: {0, 1, 0},
	world.DirNegZ: {0, 0, -1},
	world.DirPosZ: {0, 0, 1},
}

// Naive builds a mesh with one quad (two triangles) per visible voxel
// face. It never merges faces, so its output is larger than Greedy's but
// trivial to reason about — useful as the default and as an oracle in
// tests that compare against the greedy builder's triangle count.
type Naive struct{}

// Build implements world.MeshBuilder.
func (Naive) Build(c *world.Chunk, neighbourVoxel world.NeighbourVoxelFunc) (*world.MeshArrays, error) {
	out := &world.MeshArrays{}
	sx, sz := world.ChunkSizeX, world.ChunkSizeZ
	sy := c.Height()

	for x := 0; x < sx; x++ {
		for y := 0; y < sy; y++ {
			for z := 0; z < sz; z++ {
				id := c.GetLocal(x, y, z)
				if !registry.IsOpaque(id) && !registry.IsSolid(id) {
					continue
				}
				for _, d := range world.Directions() {
					if faceVisible(c, x, y, z, d, neighbourVoxel) {
						emitFace(out, x, y, z, d, id)
					}
				}
			}
		}
	}
	return out, nil
}

// faceVisible reports whether the face of (x,y,z) in direction d should
// be rendered: the voxel on the far side must be non-opaque (air or a
// transparent type). An absent neighbour chunk counts as opaque, so a
// boundary face with no neighbour present is NOT visible.
func faceVisible(c *world.Chunk, x, y, z int, d world.Direction, neighbourVoxel world.NeighbourVoxelFunc) bool {
	dx, dy, dz := d.Delta()
	nx, ny, nz := x+dx, y+dy, z+dz

	sx, sz := world.ChunkSizeX, world.ChunkSizeZ
	sy := c.Height()

	if nx >= 0 && nx < sx && ny >= 0 && ny < sy && nz >= 0 && nz < sz {
		id := c.GetLocal(nx, ny, nz)
		return !registry.IsOpaque(id)
	}

	// Crossing a chunk boundary along Y is only meaningful within the
	// same zone's chunk stack; a chunk at the top of its height range
	// still defers to the neighbour function, which reports absent if
	// there is none.
	var faceA, faceB int
	switch d {
	case world.DirNegX, world.DirPosX:
		faceA, faceB = y, z
	case world.DirNegY, world.DirPosY:
		faceA, faceB = x, z
	default:
		faceA, faceB = x, y
	}

	id, present := neighbourVoxel(d, faceA, faceB)
	if !present {
		return false
	}
	return !registry.IsOpaque(id)
}

func emitFace(out *world.MeshArrays, x, y, z int, d world.Direction, id registry.TypeID) {
	n := faceNormals[d]
	col := registry.GetColour(id)
	r := float32(col.R) / 255
	g := float32(col.G) / 255
	b := float32(col.B) / 255
	a := float32(col.A) / 255

	corners := faceCorners(x, y, z, d)
	base := uint32(out.VertexCount)

	uvs := [4][2]float32{{0, 0}, {1, 0}, {1, 1}, {0, 1}}
	for i, corner := range corners {
		out.Positions = append(out.Positions, corner[0], corner[1], corner[2])
		out.Normals = append(out.Normals, n[0], n[1], n[2])
		out.Colors = append(out.Colors, r, g, b, a)
		out.UVs = append(out.UVs, uvs[i][0], uvs[i][1])
	}
	out.Indices = append(out.Indices, base, base+1, base+2, base+2, base+3, base)
	out.VertexCount += 4
}

// faceCorners returns the four corners of a unit-cube face at (x,y,z) in
// direction d, wound counter-clockwise when viewed from outside the cube.
func faceCorners(x, y, z int, d world.Direction) [4][3]float32 {
	fx, fy, fz := float32(x), float32(y), float32(z)
	switch d {
	case world.DirPosX:
		return [4][3]float32{{fx + 1, fy, fz}, {fx + 1, fy + 1, fz}, {fx + 1, fy + 1, fz + 1}, {fx + 1, fy, fz + 1}}
	case world.DirNegX:
		return [4][3]float32{{fx, fy, fz + 1}, {fx, fy + 1, fz + 1}, {fx, fy + 1, fz}, {fx, fy, fz}}
	case world.DirPosY:
		return [4][3]float32{{fx, fy + 1, fz}, {fx, fy + 1, fz + 1}, {fx + 1, fy + 1, fz + 1}, {fx + 1, fy + 1, fz}}
	case world.DirNegY:
		return [4][3]float32{{fx, fy, fz + 1}, {fx, fy, fz}, {fx + 1, fy, fz}, {fx + 1, fy, fz + 1}}
	case world.DirPosZ:
		return [4][3]float32{{fx + 1, fy, fz + 1}, {fx + 1, fy + 1, fz + 1}, {fx, fy + 1, fz + 1}, {fx, fy, fz + 1}}
	default: // DirNegZ
		return [4][3]float32{{fx, fy, fz}, {fx, fy + 1, fz}, {fx + 1, fy + 1, fz}, {fx + 1, fy, fz}}
	}
}
