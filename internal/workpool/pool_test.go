package workpool

import (
	"context"
	"sync"
	"testing"
	"time"
)

func waitUntil(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("condition not met within %s", timeout)
}

// TestSubmitRunsJobsInPriorityOrder gates the single worker on a blocked
// job so every subsequent Submit lands in the queue before any of them
// run, then releases the gate and checks execution order favours lower
// priority values first, ties broken by submission order.
func TestSubmitRunsJobsInPriorityOrder(t *testing.T) {
	p := New(1, 0)
	defer p.Shutdown()

	release := make(chan struct{})
	gateStarted := make(chan struct{})
	_, ok := p.Submit(PriorityHigh, func(ctx context.Context) {
		close(gateStarted)
		<-release
	})
	if !ok {
		t.Fatal("expected gate job to be accepted")
	}
	<-gateStarted

	var mu sync.Mutex
	var order []string
	record := func(name string) func(context.Context) {
		return func(context.Context) {
			mu.Lock()
			order = append(order, name)
			mu.Unlock()
		}
	}

	if _, ok := p.Submit(PriorityLow, record("low")); !ok {
		t.Fatal("expected low priority job to be accepted")
	}
	if _, ok := p.Submit(PriorityNormal, record("normal")); !ok {
		t.Fatal("expected normal priority job to be accepted")
	}
	if _, ok := p.Submit(PriorityHigh, record("high")); !ok {
		t.Fatal("expected high priority job to be accepted")
	}

	waitUntil(t, time.Second, func() bool {
		return p.Pending() == 3
	})
	close(release)

	waitUntil(t, time.Second, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(order) == 3
	})

	mu.Lock()
	defer mu.Unlock()
	want := []string{"high", "normal", "low"}
	for i, name := range want {
		if order[i] != name {
			t.Errorf("execution order[%d] = %q, want %q (full order: %v)", i, order[i], name, order)
		}
	}
}

func TestSubmitRejectsBeyondQueueCapacity(t *testing.T) {
	p := New(1, 1)
	defer p.Shutdown()

	release := make(chan struct{})
	gateStarted := make(chan struct{})
	_, ok := p.Submit(PriorityNormal, func(ctx context.Context) {
		close(gateStarted)
		<-release
	})
	if !ok {
		t.Fatal("expected gate job to be accepted")
	}
	<-gateStarted

	if _, ok := p.Submit(PriorityNormal, func(context.Context) {}); !ok {
		t.Fatal("expected first queued job to fit within capacity")
	}
	if _, ok := p.Submit(PriorityNormal, func(context.Context) {}); ok {
		t.Error("expected second queued job to be rejected: queue already at capacity")
	}

	close(release)
}

func TestSubmitAfterShutdownIsRejected(t *testing.T) {
	p := New(2, 0)
	p.Shutdown()

	if _, ok := p.Submit(PriorityNormal, func(context.Context) {}); ok {
		t.Error("expected Submit to reject work after Shutdown")
	}
}

func TestShutdownDrainsQueuedJobsBeforeReturning(t *testing.T) {
	p := New(2, 0)

	var ran int32
	var mu sync.Mutex
	const n = 20
	for i := 0; i < n; i++ {
		if _, ok := p.Submit(PriorityNormal, func(context.Context) {
			mu.Lock()
			ran++
			mu.Unlock()
		}); !ok {
			t.Fatal("expected job to be accepted")
		}
	}

	p.Shutdown()

	mu.Lock()
	defer mu.Unlock()
	if ran != n {
		t.Errorf("expected all %d jobs to run before Shutdown returns, got %d", n, ran)
	}
}

func TestJobSeesCancelledContextAfterShutdown(t *testing.T) {
	p := New(1, 0)

	release := make(chan struct{})
	gateStarted := make(chan struct{})
	var sawCancel bool
	var mu sync.Mutex
	_, ok := p.Submit(PriorityNormal, func(ctx context.Context) {
		close(gateStarted)
		<-release
		<-ctx.Done()
		mu.Lock()
		sawCancel = true
		mu.Unlock()
	})
	if !ok {
		t.Fatal("expected gate job to be accepted")
	}
	<-gateStarted

	done := make(chan struct{})
	go func() {
		p.Shutdown()
		close(done)
	}()

	close(release)
	<-done

	mu.Lock()
	defer mu.Unlock()
	if !sawCancel {
		t.Error("expected the job's context to be cancelled once Shutdown ran")
	}
}
