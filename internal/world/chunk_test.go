package world

import (
	"testing"

	"voxelcore/internal/registry"
	"voxelcore/internal/zone"
)

func TestNewChunkStartsInactiveAndUniformAir(t *testing.T) {
	c := NewChunk(ChunkCoord{CX: 1, CY: 0, CZ: -1})
	if c.State() != StateInactive {
		t.Errorf("expected StateInactive, got %v", c.State())
	}
	if got := c.GetLocal(0, 0, 0); got != registry.Air {
		t.Errorf("expected air, got %d", got)
	}
	if id, uniform := c.Voxels().IsUniform(); !uniform || id != registry.Air {
		t.Errorf("expected uniform air grid, got uniform=%v id=%d", uniform, id)
	}
}

func TestSetLocalMarksMeshDirtyOnlyWhenChanged(t *testing.T) {
	c := NewChunk(ChunkCoord{})
	if c.SetLocal(0, 0, 0, registry.Air) {
		t.Error("writing the existing value should report no change")
	}
	if c.MeshDirty() {
		t.Error("no-op write should not dirty the mesh")
	}
	if !c.SetLocal(0, 0, 0, registry.Stone) {
		t.Error("writing a new value should report a change")
	}
	if !c.MeshDirty() {
		t.Error("expected mesh dirty after a real write")
	}
}

func TestCachedMeshClearsDirtyFlag(t *testing.T) {
	c := NewChunk(ChunkCoord{})
	c.SetLocal(0, 0, 0, registry.Stone)
	c.SetCachedMesh(&MeshArrays{VertexCount: 4})
	if c.MeshDirty() {
		t.Error("expected dirty flag cleared after caching a mesh")
	}
	if c.CachedMesh().VertexCount != 4 {
		t.Error("expected cached mesh to round-trip")
	}
}

func TestInvalidateMeshDropsCacheAndSetsDirty(t *testing.T) {
	c := NewChunk(ChunkCoord{})
	c.SetCachedMesh(&MeshArrays{VertexCount: 4})
	c.InvalidateMesh()
	if c.CachedMesh() != nil {
		t.Error("expected cached mesh to be cleared")
	}
	if !c.MeshDirty() {
		t.Error("expected mesh dirty after invalidation")
	}
}

func TestNeighbourWiringIsPerDirection(t *testing.T) {
	a := NewChunk(ChunkCoord{})
	b := NewChunk(ChunkCoord{CX: 1})
	a.SetNeighbour(DirPosX, b)
	b.SetNeighbour(DirNegX, a)

	if a.Neighbour(DirPosX) != b {
		t.Error("expected a's +X neighbour to be b")
	}
	if b.Neighbour(DirNegX) != a {
		t.Error("expected b's -X neighbour to be a")
	}
	if a.Neighbour(DirNegX) != nil {
		t.Error("expected a's -X neighbour to be unset")
	}
}

func TestRecycleClearsAllDerivedState(t *testing.T) {
	c := NewChunk(ChunkCoord{CX: 0, CY: 0, CZ: 0})
	other := NewChunk(ChunkCoord{CX: 99})
	c.SetLocal(0, 0, 0, registry.Stone)
	c.SetCachedMesh(&MeshArrays{VertexCount: 1})
	c.SetNeighbour(DirPosX, other)
	c.SetState(StateActive)

	newCoord := ChunkCoord{CX: 5, CY: 0, CZ: 5}
	c.Recycle(newCoord)

	if c.Coord() != newCoord {
		t.Errorf("expected recycled chunk at %v, got %v", newCoord, c.Coord())
	}
	if c.State() != StateInactive {
		t.Errorf("expected StateInactive after recycle, got %v", c.State())
	}
	if c.CachedMesh() != nil {
		t.Error("expected mesh cache cleared after recycle")
	}
	if c.Neighbour(DirPosX) != nil {
		t.Error("expected neighbours cleared after recycle")
	}
	if got := c.GetLocal(0, 0, 0); got != registry.Air {
		t.Error("expected voxel grid reset to air after recycle")
	}
}

func TestWorldOriginUsesZoneMapping(t *testing.T) {
	c := NewChunk(ChunkCoord{CX: 2, CY: 0, CZ: -3})
	x, y, z := c.WorldOrigin()
	if x != 2*ChunkSizeX {
		t.Errorf("expected x origin %d, got %d", 2*ChunkSizeX, x)
	}
	if y != zone.ChunkYToWorldY(0) {
		t.Errorf("expected y origin %d, got %d", zone.ChunkYToWorldY(0), y)
	}
	if z != -3*ChunkSizeZ {
		t.Errorf("expected z origin %d, got %d", -3*ChunkSizeZ, z)
	}
}
