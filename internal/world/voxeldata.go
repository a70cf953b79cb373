package world

import (
	"errors"
	"sync"

	"voxelcore/internal/registry"
)

// ChunkSizeX and ChunkSizeZ are fixed; chunk height varies by zone and is
// carried per-instance (see zone.ChunkHeightAt).
const (
	ChunkSizeX = 16
	ChunkSizeZ = 16
)

// VoxelData is the per-chunk dense byte grid with uniform-chunk
// compression: a chunk that is all one type (overwhelmingly common for
// freshly generated or freshly evicted chunks) is stored as a single byte
// rather than a full 16*h*16 array.
type VoxelData struct {
	mu           sync.RWMutex
	height       int
	uniform      bool
	uniformValue registry.TypeID
	dense        []registry.TypeID
}

// NewVoxelData creates a uniform-AIR grid of the given chunk height.
func NewVoxelData(height int) *VoxelData {
	return &VoxelData{height: height, uniform: true, uniformValue: registry.Air}
}

func (v *VoxelData) inBounds(x, y, z int) bool {
	return x >= 0 && x < ChunkSizeX && y >= 0 && y < v.height && z >= 0 && z < ChunkSizeZ
}

func (v *VoxelData) index(x, y, z int) int {
	return x + y*ChunkSizeX + z*ChunkSizeX*v.height
}

// Get returns the voxel at (x,y,z); out-of-range coordinates yield AIR.
func (v *VoxelData) Get(x, y, z int) registry.TypeID {
	v.mu.RLock()
	defer v.mu.RUnlock()
	if !v.inBounds(x, y, z) {
		return registry.Air
	}
	if v.uniform {
		return v.uniformValue
	}
	return v.dense[v.index(x, y, z)]
}

// Set writes id at (x,y,z); out-of-range coordinates are a silent no-op.
// Writing the current uniform value to a uniform chunk never allocates.
func (v *VoxelData) Set(x, y, z int, id registry.TypeID) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.inBounds(x, y, z) {
		return
	}
	if v.uniform {
		if id == v.uniformValue {
			return
		}
		v.expand()
	}
	v.dense[v.index(x, y, z)] = id
}

// expand allocates the dense array, initialised to the prior uniform
// value, and clears the uniform flag. Callers must hold v.mu.
func (v *VoxelData) expand() {
	size := ChunkSizeX * v.height * ChunkSizeZ
	v.dense = make([]registry.TypeID, size)
	for i := range v.dense {
		v.dense[i] = v.uniformValue
	}
	v.uniform = false
}

// Fill unconditionally returns the grid to uniform id, freeing any dense
// buffer.
func (v *VoxelData) Fill(id registry.TypeID) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.uniform = true
	v.uniformValue = id
	v.dense = nil
}

// TryCompact scans a dense grid and, if every cell holds the same value,
// drops the buffer and returns to uniform storage. Returns true if the
// grid is uniform after the call (whether it already was, or just became
// so).
func (v *VoxelData) TryCompact() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.uniform {
		return true
	}
	first := v.dense[0]
	for _, id := range v.dense[1:] {
		if id != first {
			return false
		}
	}
	v.uniform = true
	v.uniformValue = first
	v.dense = nil
	return true
}

// IsUniform reports whether the grid is currently uniform, and the
// uniform value if so.
func (v *VoxelData) IsUniform() (registry.TypeID, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.uniformValue, v.uniform
}

// Height returns the chunk height this grid was constructed with.
func (v *VoxelData) Height() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.height
}

// MemoryBytes reports the grid's current storage footprint. A uniform
// grid never allocates its dense buffer and always reports 2 bytes (flag
// byte + value byte, mirroring the serialised form).
func (v *VoxelData) MemoryBytes() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	if v.uniform {
		return 2
	}
	return len(v.dense)
}

var errShortVoxelBuffer = errors.New("voxeldata: buffer too short to deserialize")

// Serialize encodes the grid: a flag byte (1=uniform, 0=dense) followed by
// either one value byte or 16*h*16 value bytes.
func (v *VoxelData) Serialize() []byte {
	v.mu.RLock()
	defer v.mu.RUnlock()
	if v.uniform {
		return []byte{1, v.uniformValue}
	}
	out := make([]byte, 1+len(v.dense))
	out[0] = 0
	copy(out[1:], v.dense)
	return out
}

// DeserializeVoxelData decodes the flagged format produced by Serialize.
// It also accepts the legacy unflagged form: a buffer of exactly
// 16*height*16 bytes with no leading flag, treated as dense.
func DeserializeVoxelData(data []byte, height int) (*VoxelData, error) {
	denseLen := ChunkSizeX * height * ChunkSizeZ

	if len(data) == denseLen {
		// A flagged payload is either 2 bytes (uniform) or 1+16*h*16 bytes
		// (dense), so this length collides with neither for any real chunk
		// height; safe to treat as legacy dense.
		dense := make([]registry.TypeID, denseLen)
		copy(dense, data)
		return &VoxelData{height: height, dense: dense}, nil
	}

	if len(data) == 0 {
		return nil, errShortVoxelBuffer
	}
	switch data[0] {
	case 1:
		if len(data) < 2 {
			return nil, errShortVoxelBuffer
		}
		return &VoxelData{height: height, uniform: true, uniformValue: data[1]}, nil
	case 0:
		if len(data) != 1+denseLen {
			return nil, errShortVoxelBuffer
		}
		dense := make([]registry.TypeID, denseLen)
		copy(dense, data[1:])
		return &VoxelData{height: height, dense: dense}, nil
	default:
		return nil, errShortVoxelBuffer
	}
}
