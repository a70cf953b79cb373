// Package zone implements the chunk-height zoning rules used to convert
// between world Y coordinates and the ordinal chunk-Y index. Chunk
// height varies by altitude band: deep bedrock layers get tall chunks,
// the region around the surface gets short ones, and the sky gets tall
// ones again.
package zone

// Bounds on the addressable world-Y range. The engine models DEEP_VOID and
// SKY as conceptually unbounded, but an ordinal cy index needs a concrete
// floor and ceiling to anchor the chunk count; these are generous enough
// that no realistic observer position ever approaches them.
const (
	WorldFloor   = -2048
	WorldCeiling = 2048
)

// Zone describes a Y-range with a fixed chunk height.
type Zone struct {
	Name        string
	YMin, YMax  int // [YMin, YMax)
	ChunkHeight int
}

// Zones lists the three named altitude bands, in ascending Y order.
// DENSE's 244-unit span isn't a multiple of 16, and SKY's span to
// WorldCeiling isn't a multiple of 64 either: both zones truncate their
// top chunk, exercising the rule in ActualChunkYSizeAt below.
var Zones = []Zone{
	{Name: "deep_void", YMin: WorldFloor, YMax: -64, ChunkHeight: 32},
	{Name: "dense", YMin: -64, YMax: 180, ChunkHeight: 16},
	{Name: "sky", YMin: 180, YMax: WorldCeiling, ChunkHeight: 64},
}

// ZoneAt returns the zone containing worldY. Coordinates outside
// [WorldFloor, WorldCeiling) clamp to the nearest edge zone.
func ZoneAt(worldY int) Zone {
	if worldY < WorldFloor {
		return Zones[0]
	}
	if worldY >= WorldCeiling {
		return Zones[len(Zones)-1]
	}
	for _, z := range Zones {
		if worldY >= z.YMin && worldY < z.YMax {
			return z
		}
	}
	return Zones[len(Zones)-1]
}

// ChunkHeightAt returns the nominal chunk height of the zone containing worldY.
func ChunkHeightAt(worldY int) int {
	return ZoneAt(worldY).ChunkHeight
}

// zoneChunkCount returns how many chunks (including a possibly-truncated
// top chunk) a zone spans.
func zoneChunkCount(z Zone) int {
	span := z.YMax - z.YMin
	if span <= 0 {
		return 0
	}
	n := span / z.ChunkHeight
	if span%z.ChunkHeight != 0 {
		n++
	}
	return n
}

// WorldYToChunkY converts a world Y coordinate to its ordinal chunk-Y index,
// accumulating chunk counts through zones in order so that cy never
// straddles a zone boundary.
func WorldYToChunkY(worldY int) int {
	if worldY < WorldFloor {
		worldY = WorldFloor
	}
	if worldY >= WorldCeiling {
		worldY = WorldCeiling - 1
	}
	cy := 0
	for _, z := range Zones {
		if worldY >= z.YMax {
			cy += zoneChunkCount(z)
			continue
		}
		local := (worldY - z.YMin) / z.ChunkHeight
		return cy + local
	}
	return cy
}

// ChunkYToWorldY returns the world-Y lower bound of the chunk at ordinal
// index cy — always a zone-valid chunk boundary.
func ChunkYToWorldY(cy int) int {
	remaining := cy
	for _, z := range Zones {
		count := zoneChunkCount(z)
		if remaining < count {
			return z.YMin + remaining*z.ChunkHeight
		}
		remaining -= count
	}
	last := Zones[len(Zones)-1]
	return last.YMin + remaining*last.ChunkHeight
}

// ActualChunkYSizeAt returns the true height of the chunk at ordinal index
// cy, clamped at the zone's upper boundary — shorter than ChunkHeight only
// for a zone's truncated top chunk.
func ActualChunkYSizeAt(cy int) int {
	worldY := ChunkYToWorldY(cy)
	z := ZoneAt(worldY)
	h := z.ChunkHeight
	if worldY+h > z.YMax {
		h = z.YMax - worldY
	}
	return h
}
