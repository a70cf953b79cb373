package world

import (
	"sync"
	"time"

	"voxelcore/internal/registry"
	"voxelcore/internal/zone"
)

// State is a chunk's lifecycle stage. Transitions are monotone in the
// order below except recycling, which resets a chunk straight back to
// Inactive in one orchestrator-owned step before the chunk is published
// again.
type State int

const (
	StateInactive State = iota
	StateGenerating
	StateMeshing
	StateActive
	StateUnloading
)

func (s State) String() string {
	switch s {
	case StateInactive:
		return "inactive"
	case StateGenerating:
		return "generating"
	case StateMeshing:
		return "meshing"
	case StateActive:
		return "active"
	case StateUnloading:
		return "unloading"
	default:
		return "unknown"
	}
}

// Chunk owns its voxel data and carries the lifecycle state, cached mesh
// arrays, and non-owning neighbour back-references the manager wires up.
// Chunk.mu guards everything except the voxel grid itself, which has its
// own lock (VoxelData.mu) so a meshing worker can read a neighbour's
// voxels without contending with that neighbour's own state/mesh/neighbour
// bookkeeping.
type Chunk struct {
	mu sync.RWMutex

	coord  ChunkCoord
	height int
	voxels *VoxelData

	state      State
	meshDirty  bool
	mesh       *MeshArrays
	neighbours [6]*Chunk

	lastAccess time.Time
}

// NewChunk creates a chunk at coord with the chunk height its zone
// dictates, in StateInactive with a uniform-AIR grid.
func NewChunk(coord ChunkCoord) *Chunk {
	h := zone.ActualChunkYSizeAt(coord.CY)
	return &Chunk{
		coord:      coord,
		height:     h,
		voxels:     NewVoxelData(h),
		state:      StateInactive,
		lastAccess: time.Now(),
	}
}

func (c *Chunk) Coord() ChunkCoord   { return c.coord }
func (c *Chunk) Height() int         { return c.height }
func (c *Chunk) Voxels() *VoxelData  { return c.voxels }

func (c *Chunk) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

func (c *Chunk) SetState(s State) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = s
}

// GetLocal returns the voxel at chunk-local coordinates.
func (c *Chunk) GetLocal(x, y, z int) registry.TypeID {
	return c.voxels.Get(x, y, z)
}

// SetLocal writes a voxel at chunk-local coordinates and marks the mesh
// dirty if the value actually changed. Reports whether anything changed.
func (c *Chunk) SetLocal(x, y, z int, id registry.TypeID) bool {
	old := c.voxels.Get(x, y, z)
	if old == id {
		return false
	}
	c.voxels.Set(x, y, z, id)
	c.mu.Lock()
	c.meshDirty = true
	c.mu.Unlock()
	return true
}

// MeshDirty reports whether the cached mesh no longer reflects the voxel
// grid.
func (c *Chunk) MeshDirty() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.meshDirty
}

// CachedMesh returns the last mesh build's arrays, or nil if none is
// cached (e.g. the chunk is not yet ACTIVE, or was just invalidated).
func (c *Chunk) CachedMesh() *MeshArrays {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.mesh
}

// SetCachedMesh installs freshly built mesh arrays and clears the dirty
// flag.
func (c *Chunk) SetCachedMesh(m *MeshArrays) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.mesh = m
	c.meshDirty = false
}

// InvalidateMesh drops the cached mesh and marks it dirty, forcing a
// re-build on the next region rebuild that reaches this chunk.
func (c *Chunk) InvalidateMesh() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.mesh = nil
	c.meshDirty = true
}

// Neighbour returns the chunk wired in direction d, or nil.
func (c *Chunk) Neighbour(d Direction) *Chunk {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.neighbours[d]
}

// SetNeighbour wires (or clears, with nil) the back-reference in
// direction d. The manager is solely responsible for keeping both sides
// of a pair symmetric.
func (c *Chunk) SetNeighbour(d Direction, n *Chunk) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.neighbours[d] = n
}

// Touch records the current time as the chunk's last-access moment, for
// LRU-style eviction heuristics.
func (c *Chunk) Touch(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastAccess = now
}

func (c *Chunk) LastAccess() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastAccess
}

// MemoryBytes estimates the chunk's resident memory: the voxel grid plus
// any cached mesh arrays.
func (c *Chunk) MemoryBytes() int64 {
	c.mu.RLock()
	mesh := c.mesh
	c.mu.RUnlock()

	total := int64(c.voxels.MemoryBytes())
	if mesh != nil {
		total += int64(len(mesh.Positions)+len(mesh.Normals)+len(mesh.Colors)+len(mesh.UVs)) * 4
		total += int64(len(mesh.Indices)) * 4
	}
	return total
}

// WorldOrigin returns this chunk's world-space minimum corner.
func (c *Chunk) WorldOrigin() (x, y, z int) {
	return c.coord.CX * ChunkSizeX, zone.ChunkYToWorldY(c.coord.CY), c.coord.CZ * ChunkSizeZ
}

// PlaneToLocal maps the in-plane coordinates (a,b) at the shared face in
// direction d to the neighbour chunk n's own local (x,y,z). The face being
// crossed in direction d sits at the opposite edge in the neighbour.
func PlaneToLocal(d Direction, a, b int, n *Chunk) (x, y, z int) {
	sx, sz := ChunkSizeX, ChunkSizeZ
	sy := n.Height()
	switch d {
	case DirNegX:
		return sx - 1, a, b
	case DirPosX:
		return 0, a, b
	case DirNegY:
		return a, sy - 1, b
	case DirPosY:
		return a, 0, b
	case DirNegZ:
		return a, b, sz - 1
	default: // DirPosZ
		return a, b, 0
	}
}

// Recycle resets the chunk in place for reuse at a new coordinate: voxel
// data returns to uniform AIR, all derived state (mesh cache, dirty flag,
// neighbour back-references) is cleared, and the state returns to
// Inactive. The manager must complete this as one step, with the chunk
// unreachable from the active set, before publishing it again at its new
// coordinate.
func (c *Chunk) Recycle(coord ChunkCoord) {
	h := zone.ActualChunkYSizeAt(coord.CY)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.coord = coord
	c.height = h
	c.voxels = NewVoxelData(h)
	c.state = StateInactive
	c.meshDirty = false
	c.mesh = nil
	c.neighbours = [6]*Chunk{}
	c.lastAccess = time.Now()
}
