package world

import (
	"sync"

	"github.com/go-gl/mathgl/mgl32"

	"voxelcore/internal/zone"
)

// Region groups an 8x8x8 block of chunks (RegionChunks^3) into a single
// combined mesh, so the renderer issues one draw call per region instead
// of one per chunk. A region's member chunks need not all be ACTIVE; a
// rebuild simply skips whichever members are not ACTIVE.
type Region struct {
	mu sync.RWMutex

	coord   RegionCoord
	members map[ChunkCoord]*Chunk

	combined   *MeshArrays
	bounds     Bounds
	dirty      bool
	lastMemberCount int
}

// Bounds is an axis-aligned bounding box in world space.
type Bounds struct {
	Min, Max mgl32.Vec3
}

// NewRegion creates an empty, dirty region at coord.
func NewRegion(coord RegionCoord) *Region {
	return &Region{
		coord:   coord,
		members: make(map[ChunkCoord]*Chunk),
		dirty:   true,
	}
}

func (r *Region) Coord() RegionCoord { return r.coord }

// AddMember registers a chunk as belonging to this region and marks the
// combined mesh dirty. The caller is responsible for ensuring c.Coord()
// actually maps to this region's coordinate (see ChunkToRegionCoord).
func (r *Region) AddMember(c *Chunk) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.members[c.Coord()] = c
	r.dirty = true
}

// RemoveMember drops a chunk from this region, e.g. when it is evicted.
func (r *Region) RemoveMember(coord ChunkCoord) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.members, coord)
	r.dirty = true
}

// MemberCount reports how many chunks currently belong to this region.
func (r *Region) MemberCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.members)
}

// IsEmpty reports whether the region has no members left, in which case
// the manager should drop it entirely rather than keep rebuilding it.
func (r *Region) IsEmpty() bool {
	return r.MemberCount() == 0
}

// MarkDirty forces the next Rebuild to recombine, even if no member's own
// mesh changed (e.g. a member was added or removed).
func (r *Region) MarkDirty() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.dirty = true
}

// Dirty reports whether the region needs a rebuild: either it was
// explicitly marked, or at least one member's cached mesh is stale.
func (r *Region) Dirty() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.dirty {
		return true
	}
	for _, c := range r.members {
		if c.MeshDirty() {
			return true
		}
	}
	return false
}

// CombinedMesh returns the last rebuild's combined arrays, or nil.
func (r *Region) CombinedMesh() *MeshArrays {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.combined
}

// WorldBounds returns the region's last-computed world-space AABB.
func (r *Region) WorldBounds() Bounds {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.bounds
}

// Rebuild recombines every ACTIVE member's mesh into one set of arrays,
// translating each member's local-space vertices into region-relative
// world-space offsets. For each ACTIVE member it obtains the chunk's
// cached mesh arrays if present (a cache hit) or invokes mesher to build
// and cache them (a cache miss) before combining — the synchronous
// fallback path that catches chunks whose mesh was invalidated by a
// voxel edit but has not yet been rebuilt by an async meshing job.
// Members with no geometry (not yet meshed and build failed, or fully
// empty) contribute nothing — array-length mismatch between a member's
// positions/normals/colors/UVs is treated as corrupt and that member is
// skipped entirely rather than aborting the whole rebuild, so one bad
// chunk does not blank out an otherwise-good region. Returns the number
// of cache hits and misses observed during this rebuild.
func (r *Region) Rebuild(mesher MeshBuilder) (hits, misses int) {
	r.mu.Lock()
	members := make([]*Chunk, 0, len(r.members))
	for _, c := range r.members {
		members = append(members, c)
	}
	r.mu.Unlock()

	combined := &MeshArrays{}
	var minX, minY, minZ = float32(0), float32(0), float32(0)
	var maxX, maxY, maxZ = float32(0), float32(0), float32(0)
	first := true

	for _, c := range members {
		if c.State() != StateActive {
			continue
		}

		m := c.CachedMesh()
		if m == nil {
			misses++
			built, err := mesher.Build(c, neighbourVoxelFunc(c))
			if err != nil {
				continue
			}
			c.SetCachedMesh(built)
			m = built
		} else {
			hits++
		}

		if m.IsEmpty() {
			continue
		}
		if !meshArraysConsistent(m) {
			continue
		}

		ox, oy, oz := c.WorldOrigin()
		base := uint32(combined.VertexCount)

		for i := 0; i < len(m.Positions); i += 3 {
			px := m.Positions[i] + float32(ox)
			py := m.Positions[i+1] + float32(oy)
			pz := m.Positions[i+2] + float32(oz)
			combined.Positions = append(combined.Positions, px, py, pz)

			if first {
				minX, maxX = px, px
				minY, maxY = py, py
				minZ, maxZ = pz, pz
				first = false
			} else {
				if px < minX {
					minX = px
				}
				if px > maxX {
					maxX = px
				}
				if py < minY {
					minY = py
				}
				if py > maxY {
					maxY = py
				}
				if pz < minZ {
					minZ = pz
				}
				if pz > maxZ {
					maxZ = pz
				}
			}
		}
		combined.Normals = append(combined.Normals, m.Normals...)
		combined.Colors = append(combined.Colors, m.Colors...)
		combined.UVs = append(combined.UVs, m.UVs...)
		for _, idx := range m.Indices {
			combined.Indices = append(combined.Indices, idx+base)
		}
		combined.VertexCount += m.VertexCount
	}

	r.mu.Lock()
	r.combined = combined
	if first {
		r.bounds = Bounds{}
	} else {
		r.bounds = Bounds{Min: mgl32.Vec3{minX, minY, minZ}, Max: mgl32.Vec3{maxX, maxY, maxZ}}
	}
	r.dirty = false
	r.lastMemberCount = len(members)
	r.mu.Unlock()

	return hits, misses
}

// neighbourVoxelFunc builds a NeighbourVoxelFunc over c's own live
// neighbour back-references, read at lookup time within a single Rebuild
// call — unlike the manager's async meshing jobs, which look their
// neighbours up in the active map once, when the job starts running.
func neighbourVoxelFunc(c *Chunk) NeighbourVoxelFunc {
	return func(d Direction, a, b int) (uint8, bool) {
		n := c.Neighbour(d)
		if n == nil {
			return 0, false
		}
		x, y, z := PlaneToLocal(d, a, b, n)
		return n.GetLocal(x, y, z), true
	}
}

// meshArraysConsistent reports whether a mesh's parallel arrays agree on
// vertex count — positions/3, normals/3, colors/4, uvs/2 all equal
// VertexCount, and indices form complete triangles.
func meshArraysConsistent(m *MeshArrays) bool {
	if len(m.Positions) != m.VertexCount*3 {
		return false
	}
	if len(m.Normals) != m.VertexCount*3 {
		return false
	}
	if len(m.Colors) != m.VertexCount*4 {
		return false
	}
	if len(m.UVs) != m.VertexCount*2 {
		return false
	}
	if len(m.Indices)%3 != 0 {
		return false
	}
	return true
}

// NominalBounds returns the region's static world-space extent derived
// purely from its coordinate and zone geometry — useful for frustum
// culling before any member has ever been meshed.
func (r *Region) NominalBounds() Bounds {
	minX := float32(r.coord.RX * RegionChunks * ChunkSizeX)
	minZ := float32(r.coord.RZ * RegionChunks * ChunkSizeZ)
	minY := float32(zone.ChunkYToWorldY(r.coord.RY * RegionChunks))
	maxY := float32(zone.ChunkYToWorldY((r.coord.RY + 1) * RegionChunks))
	return Bounds{
		Min: mgl32.Vec3{minX, minY, minZ},
		Max: mgl32.Vec3{minX + RegionChunks*ChunkSizeX, maxY, minZ + RegionChunks*ChunkSizeZ},
	}
}
