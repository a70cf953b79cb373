// Package registry is the process-wide map from a one-byte voxel type id to
// its material properties. It is populated once at startup with a fixed
// baseline and is safe to read from any goroutine afterwards; late
// Register calls (e.g. from a mod or a test) simply overwrite an entry.
package registry

import "sync"

// TypeID is the one-byte voxel type identifier. 0 (Air) is reserved.
type TypeID = uint8

// Colour is a straightforward RGBA record — no external colour package is
// pulled in for four bytes.
type Colour struct {
	R, G, B, A uint8
}

// Record holds everything the rest of the engine needs to know about a
// voxel type.
type Record struct {
	ID            TypeID
	Name          string
	Colour        Colour
	Hardness      float32
	Transparent   bool
	Solid         bool
	LightEmission uint8 // 0-15
}

const (
	Air TypeID = iota
	Stone
	Dirt
	Grass
	Sand
	Water
	Gravel
	Wood
	Leaves
	CoalOre
	IronOre
	GoldOre
	DiamondOre
	Bedrock
	Torch
	Glass
)

var unknownRecord = Record{
	ID:          255,
	Name:        "unknown",
	Colour:      Colour{255, 0, 255, 255},
	Transparent: false,
	Solid:       true,
}

var (
	mu      sync.RWMutex
	records = make(map[TypeID]Record)
)

func init() {
	registerBaseline()
}

// registerBaseline installs the fixed set of voxel types every world starts
// with. It is called once from init; Register may be called afterwards to
// overwrite entries (e.g. by a mod or by tests).
func registerBaseline() {
	baseline := []Record{
		{ID: Air, Name: "air", Colour: Colour{0, 0, 0, 0}, Transparent: true, Solid: false},
		{ID: Stone, Name: "stone", Colour: Colour{128, 128, 128, 255}, Hardness: 1.5, Solid: true},
		{ID: Dirt, Name: "dirt", Colour: Colour{134, 96, 67, 255}, Hardness: 0.5, Solid: true},
		{ID: Grass, Name: "grass", Colour: Colour{95, 159, 53, 255}, Hardness: 0.6, Solid: true},
		{ID: Sand, Name: "sand", Colour: Colour{219, 211, 160, 255}, Hardness: 0.5, Solid: true},
		{ID: Water, Name: "water", Colour: Colour{63, 118, 228, 180}, Transparent: true, Solid: false},
		{ID: Gravel, Name: "gravel", Colour: Colour{136, 126, 122, 255}, Hardness: 0.6, Solid: true},
		{ID: Wood, Name: "wood", Colour: Colour{111, 86, 54, 255}, Hardness: 2.0, Solid: true},
		{ID: Leaves, Name: "leaves", Colour: Colour{60, 140, 45, 200}, Transparent: true, Hardness: 0.2, Solid: true},
		{ID: CoalOre, Name: "coal_ore", Colour: Colour{90, 90, 90, 255}, Hardness: 3.0, Solid: true},
		{ID: IronOre, Name: "iron_ore", Colour: Colour{173, 146, 131, 255}, Hardness: 3.0, Solid: true},
		{ID: GoldOre, Name: "gold_ore", Colour: Colour{216, 192, 85, 255}, Hardness: 3.0, Solid: true},
		{ID: DiamondOre, Name: "diamond_ore", Colour: Colour{110, 210, 200, 255}, Hardness: 3.0, Solid: true},
		{ID: Bedrock, Name: "bedrock", Colour: Colour{30, 30, 30, 255}, Hardness: -1, Solid: true},
		{ID: Torch, Name: "torch", Colour: Colour{255, 200, 80, 255}, LightEmission: 14, Transparent: true, Solid: false},
		{ID: Glass, Name: "glass", Colour: Colour{220, 240, 250, 60}, Hardness: 0.3, Transparent: true, Solid: true},
	}
	mu.Lock()
	defer mu.Unlock()
	for _, r := range baseline {
		records[r.ID] = r
	}
}

// Register installs or overwrites the record for id.
func Register(r Record) {
	mu.Lock()
	defer mu.Unlock()
	records[r.ID] = r
}

// Get looks up a type id. An id with no registered record resolves to a
// shared "unknown" sentinel — lookup never fails.
func Get(id TypeID) Record {
	mu.RLock()
	defer mu.RUnlock()
	if r, ok := records[id]; ok {
		return r
	}
	return unknownRecord
}

func IsTransparent(id TypeID) bool    { return Get(id).Transparent }
func IsSolid(id TypeID) bool          { return Get(id).Solid }
func LightEmission(id TypeID) uint8   { return Get(id).LightEmission }
func GetColour(id TypeID) Colour      { return Get(id).Colour }
func Hardness(id TypeID) float32      { return Get(id).Hardness }
func Name(id TypeID) string           { return Get(id).Name }
func IsOpaque(id TypeID) bool         { return id != Air && !IsTransparent(id) }
