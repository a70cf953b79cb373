package terrain

import (
	"math"
	"math/rand"
	"testing"
)

func TestHash2Deterministic(t *testing.T) {
	var results [100]uint64
	for i := range results {
		results[i] = hash2(10, 20, 42)
	}
	first := results[0]
	for i := 1; i < len(results); i++ {
		if results[i] != first {
			t.Errorf("hash2 not deterministic: results[0]=%d, results[%d]=%d", first, i, results[i])
		}
	}
}

func TestHash2DifferentInputs(t *testing.T) {
	seed := int64(42)
	if hash2(1, 0, seed) == hash2(2, 0, seed) {
		t.Error("hash2 should differ for different x")
	}
	if hash2(0, 1, seed) == hash2(0, 2, seed) {
		t.Error("hash2 should differ for different z")
	}
	if hash2(1, 1, 100) == hash2(1, 1, 200) {
		t.Error("hash2 should differ for different seed")
	}
}

func TestValueNoise2DRange(t *testing.T) {
	rng := rand.New(rand.NewSource(12345))
	seed := int64(42)
	for i := 0; i < 1000; i++ {
		x := rng.Float64()*200 - 100
		z := rng.Float64()*200 - 100
		v := valueNoise2D(x, z, seed)
		if v < 0.0 || v > 1.0 {
			t.Errorf("valueNoise2D(%f, %f, %d) = %f, expected in [0,1]", x, z, seed, v)
		}
	}
}

func TestValueNoise2DContinuity(t *testing.T) {
	seed := int64(42)
	v1 := valueNoise2D(1.0, 1.0, seed)
	v2 := valueNoise2D(1.01, 1.0, seed)
	if diff := math.Abs(v1 - v2); diff >= 0.1 {
		t.Errorf("valueNoise2D not continuous: diff=%f >= 0.1", diff)
	}
}

func TestOctaveNoise2DRange(t *testing.T) {
	rng := rand.New(rand.NewSource(54321))
	seed := int64(7)
	for i := 0; i < 1000; i++ {
		x := rng.Float64()*200 - 100
		z := rng.Float64()*200 - 100
		v := octaveNoise2D(x, z, seed, 4, 0.5, 2.0)
		if v < 0.0 || v > 1.0 {
			t.Errorf("octaveNoise2D(%f, %f) = %f, expected in [0,1]", x, z, v)
		}
	}
}
