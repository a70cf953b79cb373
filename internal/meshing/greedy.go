package meshing

import (
	"voxelcore/internal/registry"
	"voxelcore/internal/world"
)

// Greedy builds a mesh by merging adjacent same-type, same-visibility
// faces on each axis-aligned layer into the largest rectangle that shares
// a single colour — the classic greedy-meshing sweep, one mask per layer
// per axis. It produces far fewer quads than Naive for large flat
// surfaces (the common case: stone floors, water planes) at the cost of
// a full visibility scan per layer.
type Greedy struct{}

// maskCell packs a voxel type id into an int, offset by one so that 0
// means "no visible face here" (a cell can never hold registry.Air as a
// non-zero value — Air is never solid/opaque, so isFaceCell never admits
// it and no mask cell is set for it).
type maskCell int

func (Greedy) Build(c *world.Chunk, neighbourVoxel world.NeighbourVoxelFunc) (*world.MeshArrays, error) {
	out := &world.MeshArrays{}
	sx, sz := world.ChunkSizeX, world.ChunkSizeZ
	sy := c.Height()

	sweepX(out, c, sx, sy, sz, neighbourVoxel)
	sweepY(out, c, sx, sy, sz, neighbourVoxel)
	sweepZ(out, c, sx, sy, sz, neighbourVoxel)
	return out, nil
}

func sweepX(out *world.MeshArrays, c *world.Chunk, sx, sy, sz int, nf world.NeighbourVoxelFunc) {
	for x := 0; x < sx; x++ {
		for _, d := range [2]world.Direction{world.DirNegX, world.DirPosX} {
			mask := make([]maskCell, sy*sz)
			for y := 0; y < sy; y++ {
				for z := 0; z < sz; z++ {
					id := c.GetLocal(x, y, z)
					if isFaceCell(id) && faceVisible(c, x, y, z, d, nf) {
						mask[y*sz+z] = maskCell(id) + 1
					}
				}
			}
			mergeMaskAndEmit(mask, sy, sz, func(y0, z0, wy, wz int, id registry.TypeID) {
				fx := x
				if d == world.DirPosX {
					fx++
				}
				emitQuadX(out, fx, y0, z0, wy, wz, d, id)
			})
		}
	}
}

func sweepY(out *world.MeshArrays, c *world.Chunk, sx, sy, sz int, nf world.NeighbourVoxelFunc) {
	for y := 0; y < sy; y++ {
		for _, d := range [2]world.Direction{world.DirNegY, world.DirPosY} {
			mask := make([]maskCell, sx*sz)
			for x := 0; x < sx; x++ {
				for z := 0; z < sz; z++ {
					id := c.GetLocal(x, y, z)
					if isFaceCell(id) && faceVisible(c, x, y, z, d, nf) {
						mask[x*sz+z] = maskCell(id) + 1
					}
				}
			}
			mergeMaskAndEmit(mask, sx, sz, func(x0, z0, wx, wz int, id registry.TypeID) {
				fy := y
				if d == world.DirPosY {
					fy++
				}
				emitQuadY(out, x0, fy, z0, wx, wz, d, id)
			})
		}
	}
}

func sweepZ(out *world.MeshArrays, c *world.Chunk, sx, sy, sz int, nf world.NeighbourVoxelFunc) {
	for z := 0; z < sz; z++ {
		for _, d := range [2]world.Direction{world.DirNegZ, world.DirPosZ} {
			mask := make([]maskCell, sx*sy)
			for x := 0; x < sx; x++ {
				for y := 0; y < sy; y++ {
					id := c.GetLocal(x, y, z)
					if isFaceCell(id) && faceVisible(c, x, y, z, d, nf) {
						mask[x*sy+y] = maskCell(id) + 1
					}
				}
			}
			mergeMaskAndEmit(mask, sx, sy, func(x0, y0, wx, wy int, id registry.TypeID) {
				fz := z
				if d == world.DirPosZ {
					fz++
				}
				emitQuadZ(out, x0, y0, fz, wx, wy, d, id)
			})
		}
	}
}

func isFaceCell(id registry.TypeID) bool {
	return registry.IsOpaque(id) || registry.IsSolid(id)
}

// mergeMaskAndEmit runs the standard greedy rectangle merge over a u*v
// mask and calls emit once per merged rectangle with its origin and
// extent.
func mergeMaskAndEmit(mask []maskCell, u, v int, emit func(u0, v0, wu, wv int, id registry.TypeID)) {
	i := 0
	for i < u*v {
		if mask[i] == 0 {
			i++
			continue
		}
		id := registry.TypeID(mask[i] - 1)
		u0 := i / v
		v0 := i % v

		wv := 1
		for v1 := v0 + 1; v1 < v && mask[u0*v+v1] == mask[i]; v1++ {
			wv++
		}
		wu := 1
	outer:
		for u1 := u0 + 1; u1 < u; u1++ {
			for v1 := v0; v1 < v0+wv; v1++ {
				if mask[u1*v+v1] != mask[i] {
					break outer
				}
			}
			wu++
		}

		emit(u0, v0, wu, wv, id)

		for uu := u0; uu < u0+wu; uu++ {
			for vv := v0; vv < v0+wv; vv++ {
				mask[uu*v+vv] = 0
			}
		}
		i++
	}
}

func colourRGBA(id registry.TypeID) (r, g, b, a float32) {
	col := registry.GetColour(id)
	return float32(col.R) / 255, float32(col.G) / 255, float32(col.B) / 255, float32(col.A) / 255
}

func pushQuad(out *world.MeshArrays, corners [4][3]float32, normal [3]float32, id registry.TypeID) {
	r, g, b, a := colourRGBA(id)
	base := uint32(out.VertexCount)
	uvs := [4][2]float32{{0, 0}, {1, 0}, {1, 1}, {0, 1}}
	for i, corner := range corners {
		out.Positions = append(out.Positions, corner[0], corner[1], corner[2])
		out.Normals = append(out.Normals, normal[0], normal[1], normal[2])
		out.Colors = append(out.Colors, r, g, b, a)
		out.UVs = append(out.UVs, uvs[i][0], uvs[i][1])
	}
	out.Indices = append(out.Indices, base, base+1, base+2, base+2, base+3, base)
	out.VertexCount += 4
}

func emitQuadX(out *world.MeshArrays, fx, y0, z0, wy, wz int, d world.Direction, id registry.TypeID) {
	fX := float32(fx)
	y1, z1 := float32(y0+wy), float32(z0+wz)
	y0f, z0f := float32(y0), float32(z0)
	n := faceNormals[d]
	var corners [4][3]float32
	if d == world.DirPosX {
		corners = [4][3]float32{{fX, y0f, z0f}, {fX, y0f, z1}, {fX, y1, z1}, {fX, y1, z0f}}
	} else {
		corners = [4][3]float32{{fX, y0f, z1}, {fX, y0f, z0f}, {fX, y1, z0f}, {fX, y1, z1}}
	}
	pushQuad(out, corners, n, id)
}

func emitQuadY(out *world.MeshArrays, x0, fy, z0, wx, wz int, d world.Direction, id registry.TypeID) {
	fY := float32(fy)
	x1, z1 := float32(x0+wx), float32(z0+wz)
	x0f, z0f := float32(x0), float32(z0)
	n := faceNormals[d]
	var corners [4][3]float32
	if d == world.DirPosY {
		corners = [4][3]float32{{x0f, fY, z0f}, {x0f, fY, z1}, {x1, fY, z1}, {x1, fY, z0f}}
	} else {
		corners = [4][3]float32{{x0f, fY, z1}, {x0f, fY, z0f}, {x1, fY, z0f}, {x1, fY, z1}}
	}
	pushQuad(out, corners, n, id)
}

func emitQuadZ(out *world.MeshArrays, x0, y0, fz, wx, wy int, d world.Direction, id registry.TypeID) {
	fZ := float32(fz)
	x1, y1 := float32(x0+wx), float32(y0+wy)
	x0f, y0f := float32(x0), float32(y0)
	n := faceNormals[d]
	var corners [4][3]float32
	if d == world.DirPosZ {
		corners = [4][3]float32{{x1, y0f, fZ}, {x0f, y0f, fZ}, {x0f, y1, fZ}, {x1, y1, fZ}}
	} else {
		corners = [4][3]float32{{x0f, y0f, fZ}, {x1, y0f, fZ}, {x1, y1, fZ}, {x0f, y1, fZ}}
	}
	pushQuad(out, corners, n, id)
}
