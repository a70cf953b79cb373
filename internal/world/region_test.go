package world

import (
	"testing"

	"voxelcore/internal/registry"
)

// stubBuilder is a test-only MeshBuilder: it either returns a fixed mesh
// (possibly empty) or a fixed error, so tests can drive Region.Rebuild's
// cache-miss fallback path deterministically.
type stubBuilder struct {
	mesh *MeshArrays
	err  error
}

func (b stubBuilder) Build(c *Chunk, neighbourVoxel NeighbourVoxelFunc) (*MeshArrays, error) {
	return b.mesh, b.err
}

func quadMesh(origin [3]float32) *MeshArrays {
	return &MeshArrays{
		Positions:   []float32{origin[0], origin[1], origin[2], origin[0] + 1, origin[1], origin[2], origin[0] + 1, origin[1] + 1, origin[2], origin[0], origin[1] + 1, origin[2]},
		Normals:     []float32{0, 0, 1, 0, 0, 1, 0, 0, 1, 0, 0, 1},
		Colors:      []float32{1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1},
		UVs:         []float32{0, 0, 1, 0, 1, 1, 0, 1},
		Indices:     []uint32{0, 1, 2, 2, 3, 0},
		VertexCount: 4,
	}
}

func TestRegionEmptyWithNoMembers(t *testing.T) {
	r := NewRegion(RegionCoord{})
	if !r.IsEmpty() {
		t.Error("expected a fresh region to be empty")
	}
	if !r.Dirty() {
		t.Error("expected a fresh region to be dirty")
	}
}

func TestRegionRebuildCombinesMemberMeshes(t *testing.T) {
	r := NewRegion(RegionCoord{})
	a := NewChunk(ChunkCoord{CX: 0})
	b := NewChunk(ChunkCoord{CX: 1})
	a.SetState(StateActive)
	b.SetState(StateActive)
	a.SetCachedMesh(quadMesh([3]float32{0, 0, 0}))
	b.SetCachedMesh(quadMesh([3]float32{0, 0, 0}))
	r.AddMember(a)
	r.AddMember(b)

	hits, misses := r.Rebuild(stubBuilder{})
	if hits != 2 || misses != 0 {
		t.Errorf("expected 2 cache hits and 0 misses for two already-meshed members, got hits=%d misses=%d", hits, misses)
	}

	combined := r.CombinedMesh()
	if combined.VertexCount != 8 {
		t.Errorf("expected 8 combined vertices, got %d", combined.VertexCount)
	}
	if len(combined.Indices) != 12 {
		t.Errorf("expected 12 combined indices, got %d", len(combined.Indices))
	}
	// Each member's vertices must be translated by its own world origin;
	// region membership iteration order is unspecified, so check both
	// origins appear among the combined X coordinates rather than assume
	// which member landed first.
	sawA, sawB := false, false
	for i := 0; i < len(combined.Positions); i += 3 {
		switch combined.Positions[i] {
		case 0:
			sawA = true
		case float32(ChunkSizeX):
			sawB = true
		}
	}
	if !sawA || !sawB {
		t.Errorf("expected vertices translated by both members' origins, sawA=%v sawB=%v", sawA, sawB)
	}
}

func TestRegionRebuildSkipsEmptyMembers(t *testing.T) {
	r := NewRegion(RegionCoord{})
	empty := NewChunk(ChunkCoord{})
	empty.SetState(StateActive)
	r.AddMember(empty)

	hits, misses := r.Rebuild(stubBuilder{mesh: &MeshArrays{}})
	if hits != 0 || misses != 1 {
		t.Errorf("expected a cache miss for a never-meshed active member, got hits=%d misses=%d", hits, misses)
	}
	if !r.CombinedMesh().IsEmpty() {
		t.Error("expected combined mesh to be empty when no member has a mesh")
	}
}

func TestRegionRebuildSkipsInactiveMembers(t *testing.T) {
	r := NewRegion(RegionCoord{})
	c := NewChunk(ChunkCoord{}) // left in StateInactive
	r.AddMember(c)

	hits, misses := r.Rebuild(stubBuilder{})
	if hits != 0 || misses != 0 {
		t.Errorf("expected an inactive member to be skipped entirely, got hits=%d misses=%d", hits, misses)
	}
	if !r.CombinedMesh().IsEmpty() {
		t.Error("expected combined mesh to be empty when the only member isn't active")
	}
}

func TestRegionRebuildSkipsInconsistentMesh(t *testing.T) {
	r := NewRegion(RegionCoord{})
	c := NewChunk(ChunkCoord{})
	c.SetState(StateActive)
	bad := quadMesh([3]float32{0, 0, 0})
	bad.Normals = bad.Normals[:3] // corrupt: no longer matches VertexCount*3
	c.SetCachedMesh(bad)
	r.AddMember(c)

	r.Rebuild(stubBuilder{})
	if !r.CombinedMesh().IsEmpty() {
		t.Error("expected corrupt member mesh to be dropped, not crash or leak partial data")
	}
}

func TestRegionRemoveMemberMakesItEmpty(t *testing.T) {
	r := NewRegion(RegionCoord{})
	c := NewChunk(ChunkCoord{})
	r.AddMember(c)
	r.RemoveMember(c.Coord())
	if !r.IsEmpty() {
		t.Error("expected region to be empty after removing its only member")
	}
}

func TestRegionDirtyReflectsMemberMeshDirty(t *testing.T) {
	r := NewRegion(RegionCoord{})
	c := NewChunk(ChunkCoord{})
	c.SetState(StateActive)
	c.SetCachedMesh(&MeshArrays{})
	r.AddMember(c)
	r.Rebuild(stubBuilder{})
	if r.Dirty() {
		t.Fatal("expected region clean right after rebuild")
	}
	c.SetLocal(0, 0, 0, registry.Stone)
	if !r.Dirty() {
		t.Error("expected region dirty once a member's mesh is stale")
	}
}
