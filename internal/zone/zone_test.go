package zone

import "testing"

func TestZoneAtBoundaries(t *testing.T) {
	cases := []struct {
		y    int
		want string
	}{
		{-65, "deep_void"},
		{-64, "dense"},
		{0, "dense"},
		{179, "dense"},
		{180, "sky"},
		{1000, "sky"},
	}
	for _, c := range cases {
		if got := ZoneAt(c.y).Name; got != c.want {
			t.Errorf("ZoneAt(%d) = %q, want %q", c.y, got, c.want)
		}
	}
}

// TestBijectionRoundTrip checks that ChunkYToWorldY composed with
// WorldYToChunkY lands on a zone-valid chunk boundary at or below y, with
// the gap smaller than the local zone's chunk height.
func TestBijectionRoundTrip(t *testing.T) {
	for y := -200; y < 400; y++ {
		cy := WorldYToChunkY(y)
		boundary := ChunkYToWorldY(cy)
		if boundary > y {
			t.Fatalf("boundary %d > y %d (cy=%d)", boundary, y, cy)
		}
		h := ChunkHeightAt(boundary)
		if y-boundary >= h {
			t.Fatalf("y-boundary %d >= chunk height %d (y=%d, cy=%d, boundary=%d)", y-boundary, h, y, cy, boundary)
		}
	}
}

func TestChunkYMonotonic(t *testing.T) {
	prev := WorldYToChunkY(WorldFloor)
	for y := WorldFloor + 1; y < WorldCeiling; y += 7 {
		cy := WorldYToChunkY(y)
		if cy < prev {
			t.Fatalf("cy decreased at y=%d: %d -> %d", y, prev, cy)
		}
		prev = cy
	}
}

func TestActualChunkYSizeTruncation(t *testing.T) {
	// The dense zone's top chunk (just below sky) is truncated: span 244 / 16 = 15 r4.
	topDenseCY := WorldYToChunkY(179)
	if h := ActualChunkYSizeAt(topDenseCY); h != 4 {
		t.Errorf("expected truncated dense top chunk height 4, got %d", h)
	}

	// The deep_void zone divides its span evenly: no truncation.
	someDeepVoidCY := WorldYToChunkY(-100)
	if h := ActualChunkYSizeAt(someDeepVoidCY); h != 32 {
		t.Errorf("expected full deep_void chunk height 32, got %d", h)
	}
}

func TestChunkNeverStraddlesZone(t *testing.T) {
	for cy := 0; cy < 200; cy++ {
		lo := ChunkYToWorldY(cy)
		hi := lo + ActualChunkYSizeAt(cy) - 1
		if ZoneAt(lo).Name != ZoneAt(hi).Name {
			t.Errorf("chunk cy=%d straddles zones: [%d,%d]", cy, lo, hi)
		}
	}
}
