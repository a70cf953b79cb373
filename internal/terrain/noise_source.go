package terrain

import (
	"math"

	"voxelcore/internal/registry"
	"voxelcore/internal/world"
)

// NoiseSource generates rolling terrain from octave value noise: a dirt
// column capped with grass up to the noise-derived surface height, with
// bedrock at world Y=0. Two calls with the same seed and coordinates
// always produce identical chunks.
type NoiseSource struct {
	seed        int64
	scale       float64
	baseHeight  int
	amplitude   float64
	octaves     int
	persistence float64
	lacunarity  float64
}

// NewNoiseSource creates a noise terrain source with a reasonable set of
// default shaping constants.
func NewNoiseSource(seed int64) *NoiseSource {
	return &NoiseSource{
		seed:        seed,
		scale:       1.0 / 64.0,
		baseHeight:  32,
		amplitude:   32,
		octaves:     4,
		persistence: 0.5,
		lacunarity:  2.0,
	}
}

var _ world.TerrainSource = (*NoiseSource)(nil)

func (n *NoiseSource) HeightAt(worldX, worldZ int) int {
	x := float64(worldX) * n.scale
	z := float64(worldZ) * n.scale
	v := octaveNoise2D(x, z, n.seed, n.octaves, n.persistence, n.lacunarity)
	height := float64(n.baseHeight) + v*n.amplitude
	if height < 0 {
		height = 0
	}
	return int(math.Floor(height))
}

func (n *NoiseSource) PopulateChunk(c *world.Chunk) {
	ox, _, oz := c.WorldOrigin()
	for lx := 0; lx < world.ChunkSizeX; lx++ {
		for lz := 0; lz < world.ChunkSizeZ; lz++ {
			worldX := ox + lx
			worldZ := oz + lz
			surface := n.HeightAt(worldX, worldZ)
			capID := registry.TypeID(registry.Grass)
			if surface == 0 {
				capID = registry.Bedrock
			}
			world.FillColumn(c, lx, lz, surface, registry.Dirt, capID)
			if surface == 0 {
				continue
			}
			if _, chunkBaseY, _ := c.WorldOrigin(); chunkBaseY == 0 {
				c.SetLocal(lx, 0, lz, registry.Bedrock)
			}
		}
	}
}
