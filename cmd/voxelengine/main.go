// Command voxelengine drives a ChunkManager headless: an observer walks
// a fixed path through procedurally generated terrain while chunks load,
// mesh, and evict around it, and per-second stats print to stdout. There
// is no window or GL context here — it exercises the same update/evict/
// rebuild loop a renderer's main loop would drive each frame.
package main

import (
	"flag"
	"fmt"
	"math"
	"time"

	"github.com/go-gl/mathgl/mgl32"

	"voxelcore/internal/config"
	"voxelcore/internal/manager"
	"voxelcore/internal/meshing"
	"voxelcore/internal/profiling"
	"voxelcore/internal/terrain"
	"voxelcore/internal/world"
)

func newTerrainSource(flat bool, seed int64) world.TerrainSource {
	if flat {
		return terrain.NewFlatSource(64)
	}
	return terrain.NewNoiseSource(seed)
}

func newMesher(greedy bool) world.MeshBuilder {
	if greedy {
		return meshing.Greedy{}
	}
	return meshing.Naive{}
}

func main() {
	renderDist := flag.Int("renderdist", 6, "horizontal render distance, in chunks")
	seed := flag.Int64("seed", 1337, "terrain noise seed")
	flat := flag.Bool("flat", false, "use flat terrain instead of noise")
	greedy := flag.Bool("greedy", true, "use the greedy mesher instead of the naive one")
	duration := flag.Duration("duration", 10*time.Second, "how long to run the simulation")
	flag.Parse()

	cfg := config.Default()
	cfg.SetRenderDistanceH(*renderDist)
	if err := cfg.Validate(); err != nil {
		fmt.Println("invalid config:", err)
		return
	}

	terrainSource := newTerrainSource(*flat, *seed)
	mesher := newMesher(*greedy)

	m := manager.New(cfg, terrainSource, mesher)
	defer m.Shutdown()

	fmt.Printf("voxelengine: renderdist=%d seed=%d flat=%v greedy=%v duration=%s\n",
		*renderDist, *seed, *flat, *greedy, *duration)

	start := time.Now()
	lastStatsTime := start
	ticks := 0

	for time.Since(start) < *duration {
		profiling.ResetFrame()
		now := time.Since(start).Seconds()

		observer := orbitPosition(now)
		forward := orbitForward(now)
		func() { defer profiling.Track("sim.Update")(); m.Update(observer, forward) }()

		deadline := time.Now().Add(time.Duration(cfg.RegionRebuildBudgetMs()) * time.Millisecond)
		m.RebuildRegions(func() bool { return time.Now().After(deadline) })

		ticks++
		if time.Since(lastStatsTime) >= time.Second {
			s := m.StatsSnapshot()
			fmt.Printf("t=%.0fs ticks=%d active=%d regions=%d dirty=%d pending=%d running=%d completed=%d loaded=%d generated=%d meshed=%d evicted=%d rebuilt=%d hits=%d misses=%d mem=%dKB top=%s\n",
				now, ticks, s.ActiveChunks, s.ActiveRegions, s.DirtyRegions, s.PendingJobs, s.RunningJobs, s.CompletedJobs,
				s.ChunksLoaded, s.ChunksGenerated, s.ChunksMeshed, s.ChunksEvicted, s.RegionsRebuilt,
				s.CacheHits, s.CacheMisses, s.MemoryBytes/1024,
				profiling.TopN(3))
			lastStatsTime = time.Now()
			ticks = 0
		}

		time.Sleep(16 * time.Millisecond)
	}

	final := m.StatsSnapshot()
	fmt.Printf("final: active=%d regions=%d loaded=%d generated=%d meshed=%d evicted=%d rebuilt=%d\n",
		final.ActiveChunks, final.ActiveRegions, final.ChunksLoaded, final.ChunksGenerated,
		final.ChunksMeshed, final.ChunksEvicted, final.RegionsRebuilt)
}

// orbitPosition traces a slow circle around the origin at a fixed
// altitude, so the working set keeps shifting and exercises both load
// and eviction paths rather than settling once and going idle.
func orbitPosition(seconds float64) mgl32.Vec3 {
	const radius = 96.0
	const period = 20.0
	angle := seconds / period * 2 * math.Pi
	x := radius * math.Cos(angle)
	z := radius * math.Sin(angle)
	return mgl32.Vec3{float32(x), 72, float32(z)}
}

// orbitForward gives the direction of travel along the same circle
// orbitPosition traces, so the observer is always looking the way it's
// moving rather than holding a fixed heading.
func orbitForward(seconds float64) mgl32.Vec3 {
	const period = 20.0
	angle := seconds/period*2*math.Pi + math.Pi/2
	x := math.Cos(angle)
	z := math.Sin(angle)
	return mgl32.Vec3{float32(x), 0, float32(z)}
}
