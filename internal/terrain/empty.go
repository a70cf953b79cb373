package terrain

import "voxelcore/internal/world"

// EmptySource never places any voxels, leaving every chunk uniform AIR.
// It exists for tests that want full control over chunk content: populate
// a chunk with EmptySource, then call SetLocal directly.
type EmptySource struct{}

var _ world.TerrainSource = EmptySource{}

func (EmptySource) HeightAt(worldX, worldZ int) int { return 0 }

func (EmptySource) PopulateChunk(c *world.Chunk) {}
