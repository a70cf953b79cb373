package terrain

import (
	"voxelcore/internal/registry"
	"voxelcore/internal/world"
)

// FlatSource generates a world of constant height: bedrock at Y=0, dirt
// up to height-1, grass at height, air above. Useful for demos and for
// tests that want predictable geometry without noise.
type FlatSource struct {
	height int
}

// NewFlatSource creates a flat terrain source with the given surface
// height (world Y of the topmost solid block).
func NewFlatSource(height int) *FlatSource {
	return &FlatSource{height: height}
}

var _ world.TerrainSource = (*FlatSource)(nil)

func (f *FlatSource) HeightAt(worldX, worldZ int) int { return f.height }

func (f *FlatSource) PopulateChunk(c *world.Chunk) {
	cap := registry.TypeID(registry.Grass)
	if f.height == 0 {
		cap = registry.Bedrock
	}
	for lx := 0; lx < world.ChunkSizeX; lx++ {
		for lz := 0; lz < world.ChunkSizeZ; lz++ {
			world.FillColumn(c, lx, lz, f.height, registry.Dirt, cap)
			if _, chunkBaseY, _ := c.WorldOrigin(); chunkBaseY == 0 && f.height > 0 {
				c.SetLocal(lx, 0, lz, registry.Bedrock)
			}
		}
	}
}
