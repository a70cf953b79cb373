package world

import "voxelcore/internal/registry"

// TerrainSource supplies the voxel content for a freshly generated chunk.
// Implementations must be safe for concurrent use: the manager invokes
// PopulateChunk from worker goroutines, one call per chunk, potentially
// many in parallel.
type TerrainSource interface {
	// PopulateChunk fills c's voxel grid. c is StateGenerating; writes go
	// through VoxelData, which does its own locking, so the implementation
	// needs no locking of its own.
	PopulateChunk(c *Chunk)

	// HeightAt returns the terrain surface height (world Y) at the given
	// world X/Z column, independent of chunking.
	HeightAt(worldX, worldZ int) int
}

// fillColumn is a small shared helper: implementations call this to lay
// down a column from the chunk's local Y=0 up to (and including) the
// local Y corresponding to worldSurfaceY, with everything below the
// surface set to fill and everything at exactly the surface set to cap.
func fillColumn(c *Chunk, lx, lz int, worldSurfaceY int, fill, capID registry.TypeID) {
	_, chunkBaseY, _ := c.WorldOrigin()
	topLocal := worldSurfaceY - chunkBaseY
	if topLocal < 0 {
		return
	}
	top := topLocal
	if top > c.Height() {
		top = c.Height()
	}
	for ly := 0; ly < top; ly++ {
		c.voxels.Set(lx, ly, lz, fill)
	}
	if topLocal < c.Height() {
		c.voxels.Set(lx, topLocal, lz, capID)
	}
}

// FillColumn is the exported form of fillColumn, for TerrainSource
// implementations living outside this package.
func FillColumn(c *Chunk, lx, lz int, worldSurfaceY int, fill, capID registry.TypeID) {
	fillColumn(c, lx, lz, worldSurfaceY, fill, capID)
}
