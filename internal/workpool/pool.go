// Package workpool implements a bounded, priority-ordered goroutine pool
// for background chunk work (generation and meshing jobs): a context for
// cancellation, a sync.WaitGroup tracking live workers, and
// Submit/Shutdown as the public surface, with jobs ordered by priority
// instead of strict FIFO so closer chunks preempt farther ones.
package workpool

import (
	"container/heap"
	"context"
	"sync"

	"github.com/google/uuid"
)

// Priority orders pending jobs; lower values run first.
type Priority int

const (
	PriorityHigh   Priority = 0
	PriorityNormal Priority = 5
	PriorityLow    Priority = 10
)

// Job is one unit of background work submitted to the pool.
type Job struct {
	ID       string
	Priority Priority
	Run      func(ctx context.Context)
}

// job is an internal wrapper carrying the heap index and a submission
// sequence number, so jobs of equal priority run in submission order
// (the heap package does not guarantee stability on its own).
type job struct {
	Job
	seq   int64
	index int
}

type jobQueue []*job

func (q jobQueue) Len() int { return len(q) }
func (q jobQueue) Less(i, j int) bool {
	if q[i].Priority != q[j].Priority {
		return q[i].Priority < q[j].Priority
	}
	return q[i].seq < q[j].seq
}
func (q jobQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}
func (q *jobQueue) Push(x any) {
	j := x.(*job)
	j.index = len(*q)
	*q = append(*q, j)
}
func (q *jobQueue) Pop() any {
	old := *q
	n := len(old)
	j := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	return j
}

// Pool runs submitted jobs across a fixed number of worker goroutines,
// always picking the lowest-priority-value pending job next.
type Pool struct {
	mu       sync.Mutex
	cond     *sync.Cond
	queue    jobQueue
	seq      int64
	active   int
	maxQueue int

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	closed bool
}

// New starts a pool with the given number of worker goroutines. maxQueue
// bounds how many jobs may wait at once; Submit reports false once the
// queue is full rather than blocking the caller — the manager is
// expected to retry a rejected job on a later tick rather than stall its
// main loop.
func New(workers, maxQueue int) *Pool {
	ctx, cancel := context.WithCancel(context.Background())
	p := &Pool{
		maxQueue: maxQueue,
		ctx:      ctx,
		cancel:   cancel,
	}
	p.cond = sync.NewCond(&p.mu)
	heap.Init(&p.queue)

	for i := 0; i < workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
	return p
}

// NewJobID returns a fresh, collision-free job identifier.
func NewJobID() string {
	return uuid.NewString()
}

// Submit enqueues a job at the given priority. Returns false without
// enqueuing if the pool is shut down or the queue is already at
// capacity.
func (p *Pool) Submit(priority Priority, run func(ctx context.Context)) (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return "", false
	}
	if p.maxQueue > 0 && len(p.queue) >= p.maxQueue {
		return "", false
	}
	id := NewJobID()
	p.seq++
	heap.Push(&p.queue, &job{
		Job:  Job{ID: id, Priority: priority, Run: run},
		seq:  p.seq,
	})
	p.cond.Signal()
	return id, true
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for {
		p.mu.Lock()
		for len(p.queue) == 0 && !p.closed {
			p.cond.Wait()
		}
		if p.closed && len(p.queue) == 0 {
			p.mu.Unlock()
			return
		}
		j := heap.Pop(&p.queue).(*job)
		p.active++
		p.mu.Unlock()

		j.Run(p.ctx)

		p.mu.Lock()
		p.active--
		p.mu.Unlock()
	}
}

// Pending returns the number of jobs queued but not yet started.
func (p *Pool) Pending() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.queue)
}

// Active returns the number of jobs currently executing.
func (p *Pool) Active() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.active
}

// Shutdown cancels the pool's context (observable by in-flight jobs via
// ctx.Done()), drains the remaining queue, and waits for every worker
// goroutine to exit.
func (p *Pool) Shutdown() {
	p.mu.Lock()
	p.closed = true
	p.cancel()
	p.cond.Broadcast()
	p.mu.Unlock()
	p.wg.Wait()
}
