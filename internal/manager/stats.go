package manager

// Stats is a point-in-time snapshot of manager activity: cumulative
// counters alongside current resident/queue sizes.
type Stats struct {
	ActiveChunks  int
	ActiveRegions int
	DirtyRegions  int
	PendingJobs   int
	RunningJobs   int
	PooledChunks  int
	MemoryBytes   int64

	ChunksLoaded    int
	ChunksGenerated int
	ChunksMeshed    int
	ChunksEvicted   int
	RegionsRebuilt  int
	CompletedJobs   int
	CacheHits       int
	CacheMisses     int
}
