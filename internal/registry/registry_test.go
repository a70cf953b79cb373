package registry

import "testing"

func TestBaselineTypesRegistered(t *testing.T) {
	for _, id := range []TypeID{Air, Stone, Dirt, Grass, Sand, Water, Gravel, Wood, Leaves, CoalOre, IronOre, GoldOre, DiamondOre, Bedrock, Torch, Glass} {
		r := Get(id)
		if r.Name == "unknown" {
			t.Errorf("type id %d resolved to unknown record", id)
		}
	}
}

func TestUnknownIDResolvesToSentinel(t *testing.T) {
	r := Get(254)
	if r.Name != "unknown" {
		t.Errorf("expected unknown sentinel, got %q", r.Name)
	}
	if !IsSolid(254) {
		t.Errorf("unknown sentinel should be solid by default")
	}
}

func TestAirProperties(t *testing.T) {
	if !IsTransparent(Air) {
		t.Error("Air should be transparent")
	}
	if IsSolid(Air) {
		t.Error("Air should not be solid")
	}
	if IsOpaque(Air) {
		t.Error("Air should never be opaque")
	}
}

func TestRegisterOverwrites(t *testing.T) {
	orig := Get(Stone)
	defer Register(orig)

	Register(Record{ID: Stone, Name: "restone", Solid: true, Hardness: 9})
	if Get(Stone).Name != "restone" {
		t.Error("Register should overwrite an existing entry")
	}
}

func TestOpaqueSolidOreIsOpaque(t *testing.T) {
	if !IsOpaque(IronOre) {
		t.Error("iron ore should be opaque")
	}
	if IsOpaque(Glass) {
		t.Error("glass is transparent and should not be opaque")
	}
}
