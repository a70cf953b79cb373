// Package manager implements the ChunkManager orchestrator: it decides
// which chunks should be resident given an observer position, drives
// their generation and meshing through a worker pool, groups them into
// regions for combined-mesh rebuilds, and evicts and recycles chunks that
// fall out of range.
package manager

import (
	"context"
	"math"
	"sync"

	"github.com/go-gl/mathgl/mgl32"

	"voxelcore/internal/config"
	"voxelcore/internal/profiling"
	"voxelcore/internal/workpool"
	"voxelcore/internal/world"
	"voxelcore/internal/zone"
)

// ChunkManager owns every resident chunk and region, and is the only
// component that ever transitions a Chunk's lifecycle State. It is safe
// for concurrent use; Update is expected to be called from one "main
// loop" goroutine, while StatsSnapshot, SetVoxel, and RebuildRegions may be
// called from others.
type ChunkManager struct {
	cfg     *config.Config
	terrain world.TerrainSource
	mesher  world.MeshBuilder
	pool    *workpool.Pool

	mu      sync.RWMutex
	active  map[world.ChunkCoord]*world.Chunk
	regions map[world.RegionCoord]*world.Region

	poolMu   sync.Mutex
	freeList []*world.Chunk

	statsMu sync.Mutex
	stats   Stats

	lastObserver     mgl32.Vec3
	haveLastObserver bool
}

// New creates a manager backed by the given terrain source and mesh
// builder, starting a worker pool sized per cfg.
func New(cfg *config.Config, terrain world.TerrainSource, mesher world.MeshBuilder) *ChunkManager {
	return &ChunkManager{
		cfg:     cfg,
		terrain: terrain,
		mesher:  mesher,
		pool:    workpool.New(cfg.WorkerThreads(), cfg.MaxPendingJobs()),
		active:  make(map[world.ChunkCoord]*world.Chunk),
		regions: make(map[world.RegionCoord]*world.Region),
	}
}

// Shutdown stops the worker pool, waiting for in-flight jobs to finish.
func (m *ChunkManager) Shutdown() {
	m.pool.Shutdown()
}

// Chunk returns the resident chunk at coord, or nil.
func (m *ChunkManager) Chunk(coord world.ChunkCoord) *world.Chunk {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.active[coord]
}

// ActiveChunkCount returns how many chunks are currently resident (at
// any lifecycle stage, not only StateActive).
func (m *ChunkManager) ActiveChunkCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.active)
}

// Region returns the region at coord, or nil.
func (m *ChunkManager) Region(coord world.RegionCoord) *world.Region {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.regions[coord]
}

// Update recomputes the desired working set around the observer's pose
// and submits generation/meshing jobs for newly-desired chunks, evicting
// chunks that fell out of range. It is a no-op if the observer has moved
// less than the configured update threshold since the last call
// that actually ran — callers are expected to call Update every tick and
// rely on this internal debounce rather than debounce themselves.
// observerForward need not be normalized; it is only ever used for its
// direction when prioritizing jobs.
func (m *ChunkManager) Update(observerPos, observerForward mgl32.Vec3) {
	defer profiling.Track("manager.Update")()

	if m.haveLastObserver {
		d := observerPos.Sub(m.lastObserver).Len()
		if float64(d) < m.cfg.UpdateThresholdUnits() {
			return
		}
	}
	m.lastObserver = observerPos
	m.haveLastObserver = true

	desired := m.desiredSet(observerPos)

	m.mu.RLock()
	var toEvict []world.ChunkCoord
	for coord := range m.active {
		if _, want := desired[coord]; !want {
			toEvict = append(toEvict, coord)
		}
	}
	var toLoad []world.ChunkCoord
	for coord := range desired {
		if _, have := m.active[coord]; !have {
			toLoad = append(toLoad, coord)
		}
	}
	m.mu.RUnlock()

	for _, coord := range toEvict {
		m.evict(coord)
	}
	for _, coord := range toLoad {
		m.load(coord, observerPos, observerForward)
	}
}

// desiredSet returns the set of chunk coordinates that should be
// resident around observer: a Manhattan ball of radius renderDistanceH
// around observer's own chunk, bounded in each axis by renderDistanceH
// horizontally and renderDistanceV vertically (in ordinal chunk-Y index).
func (m *ChunkManager) desiredSet(observer mgl32.Vec3) map[world.ChunkCoord]struct{} {
	cx := floorDivInt(int(observer.X()), world.ChunkSizeX)
	cz := floorDivInt(int(observer.Z()), world.ChunkSizeZ)
	cy := zone.WorldYToChunkY(int(observer.Y()))

	rh := m.cfg.RenderDistanceH()
	rv := m.cfg.RenderDistanceV()

	desired := make(map[world.ChunkCoord]struct{}, (2*rh+1)*(2*rh+1)*(2*rv+1))
	for dx := -rh; dx <= rh; dx++ {
		for dz := -rh; dz <= rh; dz++ {
			for dy := -rv; dy <= rv; dy++ {
				if absInt(dx)+absInt(dy)+absInt(dz) > rh {
					continue
				}
				coord := world.ChunkCoord{CX: cx + dx, CY: cy + dy, CZ: cz + dz}
				if coord.CY < 0 {
					continue
				}
				desired[coord] = struct{}{}
			}
		}
	}
	return desired
}

func absInt(a int) int {
	if a < 0 {
		return -a
	}
	return a
}

func floorDivInt(a, b int) int {
	if a < 0 {
		return (a - b + 1) / b
	}
	return a / b
}

// load publishes a chunk at coord (recycled from the free list if one is
// available, otherwise newly allocated), wires it into its region, and
// submits its generation job. The expensive allocation happens outside
// the lock, and a second goroutine racing to load the same coordinate
// backs off to the winner's chunk (double-checked locking).
//
// If the pool refuses the submission (its pending queue is saturated),
// the publication is fully rolled back — unwired, removed from its
// region, dropped from the active set, and released back to the free
// list — rather than left stuck in StateGenerating. Once a coordinate is
// no longer in m.active, the next Update sees it as still-desired and
// retries the load, which is the same "requested-not-yet-scheduled"
// retry the continuous diff in Update already performs for free.
func (m *ChunkManager) load(coord world.ChunkCoord, observerPos, observerForward mgl32.Vec3) {
	m.mu.RLock()
	if _, ok := m.active[coord]; ok {
		m.mu.RUnlock()
		return
	}
	m.mu.RUnlock()

	c := m.obtainChunk(coord)

	m.mu.Lock()
	if _, ok := m.active[coord]; ok {
		m.mu.Unlock()
		m.release(c)
		return
	}
	c.SetState(world.StateGenerating)
	m.active[coord] = c
	rc := world.ChunkToRegionCoord(coord)
	region, ok := m.regions[rc]
	if !ok {
		region = world.NewRegion(rc)
		m.regions[rc] = region
	}
	m.mu.Unlock()

	region.AddMember(c)
	m.wireNeighbours(coord, c)

	priority := priorityFor(coord, observerPos, observerForward, m.cfg.RenderDistanceH())
	_, accepted := m.pool.Submit(priority, func(ctx context.Context) {
		m.runGenerate(ctx, coord, c)
	})
	if !accepted {
		m.unwireNeighbours(coord, c)
		region.RemoveMember(coord)
		if region.IsEmpty() {
			m.mu.Lock()
			if m.regions[rc] == region {
				delete(m.regions, rc)
			}
			m.mu.Unlock()
		}
		m.mu.Lock()
		if m.active[coord] == c {
			delete(m.active, coord)
		}
		m.mu.Unlock()
		m.release(c)
		return
	}

	m.bumpStat(func(s *Stats) { s.ChunksLoaded++ })
}

// wireNeighbours symmetrically links c with whatever neighbours are
// already active, in both directions.
func (m *ChunkManager) wireNeighbours(coord world.ChunkCoord, c *world.Chunk) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, d := range world.Directions() {
		if n, ok := m.active[coord.Offset(d)]; ok {
			c.SetNeighbour(d, n)
			n.SetNeighbour(d.Opposite(), c)
		}
	}
}

// unwireNeighbours clears every active neighbour's back-reference to c.
func (m *ChunkManager) unwireNeighbours(coord world.ChunkCoord, c *world.Chunk) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, d := range world.Directions() {
		if n, ok := m.active[coord.Offset(d)]; ok {
			n.SetNeighbour(d.Opposite(), nil)
		}
	}
}

// priorityFor combines radial Manhattan distance with view direction:
// P = 1.5*(renderDistanceH - distance) + 3.0*direction_term, where
// direction_term is the cosine similarity between observerForward and
// the vector from the observer to the chunk's center — large positive
// when the chunk lies ahead, strongly negative when behind. Higher P
// means "load sooner"; workpool.Priority runs lower values first, so P
// is inverted and clamped into the pool's priority range.
func priorityFor(coord world.ChunkCoord, observerPos, observerForward mgl32.Vec3, renderDistanceH int) workpool.Priority {
	ox := floorDivInt(int(observerPos.X()), world.ChunkSizeX)
	oz := floorDivInt(int(observerPos.Z()), world.ChunkSizeZ)
	oy := zone.WorldYToChunkY(int(observerPos.Y()))
	dx := coord.CX - ox
	dy := coord.CY - oy
	dz := coord.CZ - oz
	distance := absInt(dx) + absInt(dy) + absInt(dz)

	centerX := float32(coord.CX*world.ChunkSizeX + world.ChunkSizeX/2)
	centerZ := float32(coord.CZ*world.ChunkSizeZ + world.ChunkSizeZ/2)
	centerY := float32(zone.ChunkYToWorldY(coord.CY) + zone.ActualChunkYSizeAt(coord.CY)/2)
	toChunk := mgl32.Vec3{centerX, centerY, centerZ}.Sub(observerPos)

	var directionTerm float32
	if l := toChunk.Len(); l > 1e-6 && observerForward.Len() > 1e-6 {
		directionTerm = toChunk.Mul(1 / l).Dot(observerForward.Normalize())
	} else {
		directionTerm = 1
	}

	p := 1.5*(float32(renderDistanceH)-float32(distance)) + 3.0*directionTerm

	const maxPriority = float32(workpool.PriorityLow)
	inverted := maxPriority - p
	if inverted < float32(workpool.PriorityHigh) {
		inverted = float32(workpool.PriorityHigh)
	}
	if inverted > maxPriority {
		inverted = maxPriority
	}
	return workpool.Priority(int(math.Round(float64(inverted))))
}

// runGenerate populates c's voxel data and, unless the pool's context was
// cancelled (manager shutdown) or c was evicted before generation
// started, submits the follow-up meshing job.
func (m *ChunkManager) runGenerate(ctx context.Context, coord world.ChunkCoord, c *world.Chunk) {
	defer profiling.Track("manager.runGenerate")()
	select {
	case <-ctx.Done():
		return
	default:
	}
	if !m.stillActive(coord, c) {
		return
	}

	m.terrain.PopulateChunk(c)
	c.SetState(world.StateMeshing)
	m.bumpStat(func(s *Stats) {
		s.ChunksGenerated++
		s.CompletedJobs++
	})

	m.pool.Submit(workpool.PriorityNormal, func(ctx context.Context) {
		m.runMesh(ctx, coord, c)
	})
}

// runMesh builds c's mesh. Neighbour voxel lookups go through a snapshot
// of the six neighbouring entries of the active map, taken when this job
// starts running, rather than through c.Neighbour(); boundary voxels are
// then read from those neighbour chunks' own grids.
func (m *ChunkManager) runMesh(ctx context.Context, coord world.ChunkCoord, c *world.Chunk) {
	defer profiling.Track("manager.runMesh")()
	select {
	case <-ctx.Done():
		return
	default:
	}
	if !m.stillActive(coord, c) {
		return
	}

	m.mu.RLock()
	neighbours := [6]*world.Chunk{}
	for _, d := range world.Directions() {
		neighbours[d] = m.active[coord.Offset(d)]
	}
	m.mu.RUnlock()

	neighbourVoxel := func(d world.Direction, a, b int) (uint8, bool) {
		n := neighbours[d]
		if n == nil {
			return 0, false
		}
		x, y, z := world.PlaneToLocal(d, a, b, n)
		return n.GetLocal(x, y, z), true
	}

	mesh, err := m.mesher.Build(c, neighbourVoxel)
	if err != nil {
		return
	}
	if !m.stillActive(coord, c) {
		return
	}
	c.SetCachedMesh(mesh)
	c.SetState(world.StateActive)
	m.bumpStat(func(s *Stats) {
		s.ChunksMeshed++
		s.CompletedJobs++
	})

	m.mu.RLock()
	region := m.regions[world.ChunkToRegionCoord(coord)]
	m.mu.RUnlock()
	if region != nil {
		region.MarkDirty()
	}
}

// stillActive reports whether c is still the chunk resident at coord —
// used after every async step to detect a chunk that was evicted and
// recycled while this job was in flight.
func (m *ChunkManager) stillActive(coord world.ChunkCoord, c *world.Chunk) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.active[coord] == c
}

// evict removes coord from the active set, unwires it from its
// neighbours and region, and returns it to the recycling pool.
func (m *ChunkManager) evict(coord world.ChunkCoord) {
	m.mu.Lock()
	c, ok := m.active[coord]
	if !ok {
		m.mu.Unlock()
		return
	}
	c.SetState(world.StateUnloading)
	delete(m.active, coord)
	region := m.regions[world.ChunkToRegionCoord(coord)]
	m.mu.Unlock()

	m.unwireNeighbours(coord, c)
	if region != nil {
		region.RemoveMember(coord)
		if region.IsEmpty() {
			m.mu.Lock()
			delete(m.regions, region.Coord())
			m.mu.Unlock()
		}
	}

	m.bumpStat(func(s *Stats) { s.ChunksEvicted++ })
	m.release(c)
}

// obtainChunk returns a chunk ready to be published at coord: one
// recycled from the free list if available, otherwise a fresh
// allocation.
func (m *ChunkManager) obtainChunk(coord world.ChunkCoord) *world.Chunk {
	m.poolMu.Lock()
	n := len(m.freeList)
	if n > 0 {
		c := m.freeList[n-1]
		m.freeList = m.freeList[:n-1]
		m.poolMu.Unlock()
		c.Recycle(coord)
		return c
	}
	m.poolMu.Unlock()
	return world.NewChunk(coord)
}

// release returns an evicted chunk to the free list, subject to the
// configured pool size — beyond that bound the chunk is simply dropped
// for the garbage collector.
func (m *ChunkManager) release(c *world.Chunk) {
	m.poolMu.Lock()
	defer m.poolMu.Unlock()
	if len(m.freeList) >= m.cfg.ChunkPoolSize() {
		return
	}
	m.freeList = append(m.freeList, c)
}

// SetVoxel writes a voxel at world coordinates, invalidating the owning
// chunk's mesh. If the write lands on a chunk boundary face, the
// neighbour chunk on the far side of that face is invalidated too — its
// own mesh may have hidden or shown a face based on the voxel that just
// changed. Returns false if no chunk is resident at that location.
func (m *ChunkManager) SetVoxel(worldX, worldY, worldZ int, id uint8) bool {
	cx := floorDivInt(worldX, world.ChunkSizeX)
	cz := floorDivInt(worldZ, world.ChunkSizeZ)
	cy := zone.WorldYToChunkY(worldY)
	coord := world.ChunkCoord{CX: cx, CY: cy, CZ: cz}

	m.mu.RLock()
	c, ok := m.active[coord]
	m.mu.RUnlock()
	if !ok {
		return false
	}

	lx := mod(worldX, world.ChunkSizeX)
	lz := mod(worldZ, world.ChunkSizeZ)
	ly := worldY - chunkBaseWorldY(cy)

	changed := c.SetLocal(lx, ly, lz, id)
	if !changed {
		return true
	}
	c.InvalidateMesh()

	for _, d := range boundaryDirections(lx, ly, lz, c.Height()) {
		if n := c.Neighbour(d); n != nil {
			n.InvalidateMesh()
		}
	}

	m.mu.RLock()
	region := m.regions[world.ChunkToRegionCoord(coord)]
	m.mu.RUnlock()
	if region != nil {
		region.MarkDirty()
	}
	return true
}

func chunkBaseWorldY(cy int) int {
	return zone.ChunkYToWorldY(cy)
}

func mod(a, b int) int {
	r := a % b
	if r < 0 {
		r += b
	}
	return r
}

// boundaryDirections returns which face directions (lx,ly,lz) sits on
// the edge of, within a chunk of the given height.
func boundaryDirections(lx, ly, lz, height int) []world.Direction {
	var dirs []world.Direction
	if lx == 0 {
		dirs = append(dirs, world.DirNegX)
	}
	if lx == world.ChunkSizeX-1 {
		dirs = append(dirs, world.DirPosX)
	}
	if ly == 0 {
		dirs = append(dirs, world.DirNegY)
	}
	if ly == height-1 {
		dirs = append(dirs, world.DirPosY)
	}
	if lz == 0 {
		dirs = append(dirs, world.DirNegZ)
	}
	if lz == world.ChunkSizeZ-1 {
		dirs = append(dirs, world.DirPosZ)
	}
	return dirs
}

// RebuildRegions rebuilds dirty regions until deadline reports true (the
// caller's per-tick time budget is spent) or every dirty region has been
// rebuilt, whichever comes first. Returns how many regions were rebuilt.
func (m *ChunkManager) RebuildRegions(deadline func() bool) int {
	defer profiling.Track("manager.RebuildRegions")()
	m.mu.RLock()
	candidates := make([]*world.Region, 0, len(m.regions))
	for _, r := range m.regions {
		if r.Dirty() {
			candidates = append(candidates, r)
		}
	}
	m.mu.RUnlock()

	rebuilt := 0
	totalHits, totalMisses := 0, 0
	for _, r := range candidates {
		if deadline != nil && deadline() {
			break
		}
		hits, misses := r.Rebuild(m.mesher)
		totalHits += hits
		totalMisses += misses
		rebuilt++
	}
	m.bumpStat(func(s *Stats) {
		s.RegionsRebuilt += rebuilt
		s.CacheHits += totalHits
		s.CacheMisses += totalMisses
	})
	return rebuilt
}

func (m *ChunkManager) bumpStat(f func(s *Stats)) {
	m.statsMu.Lock()
	f(&m.stats)
	m.statsMu.Unlock()
}

// StatsSnapshot returns a point-in-time copy of cumulative counters plus
// the current resident counts.
func (m *ChunkManager) StatsSnapshot() Stats {
	m.statsMu.Lock()
	s := m.stats
	m.statsMu.Unlock()

	m.mu.RLock()
	s.ActiveChunks = len(m.active)
	s.ActiveRegions = len(m.regions)
	dirty := 0
	var memBytes int64
	for _, r := range m.regions {
		if r.Dirty() {
			dirty++
		}
	}
	for _, c := range m.active {
		memBytes += c.MemoryBytes()
	}
	m.mu.RUnlock()
	s.DirtyRegions = dirty
	s.MemoryBytes = memBytes

	s.PendingJobs = m.pool.Pending()
	s.RunningJobs = m.pool.Active()

	m.poolMu.Lock()
	s.PooledChunks = len(m.freeList)
	m.poolMu.Unlock()

	profiling.SetGauge("manager.active_chunks", float64(s.ActiveChunks))
	profiling.SetGauge("manager.memory_bytes", float64(s.MemoryBytes))
	profiling.SetGauge("manager.dirty_regions", float64(s.DirtyRegions))

	return s
}
