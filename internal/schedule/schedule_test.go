package schedule

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

func TestEveryFires(t *testing.T) {
	g := NewGroup(context.Background())
	defer g.Stop()

	var n atomic.Int32
	g.Every(5*time.Millisecond, func() { n.Add(1) })

	deadline := time.Now().Add(2 * time.Second)
	for n.Load() < 3 {
		if time.Now().After(deadline) {
			t.Fatalf("callback fired %d times, want at least 3", n.Load())
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestGroupStopPreventsFurtherCallbacks(t *testing.T) {
	g := NewGroup(context.Background())

	var n atomic.Int32
	g.Every(time.Millisecond, func() { n.Add(1) })
	g.Every(2*time.Millisecond, func() { n.Add(1) })

	time.Sleep(20 * time.Millisecond)
	g.Stop()

	after := n.Load()
	time.Sleep(20 * time.Millisecond)
	if n.Load() != after {
		t.Errorf("callbacks ran after Stop: %d -> %d", after, n.Load())
	}
}

func TestGroupStopWaitsForRunningCallback(t *testing.T) {
	g := NewGroup(context.Background())

	entered := make(chan struct{})
	release := make(chan struct{})
	var once atomic.Bool
	var finished atomic.Bool
	g.Every(time.Millisecond, func() {
		if !once.CompareAndSwap(false, true) {
			return
		}
		close(entered)
		<-release
		finished.Store(true)
	})
	<-entered

	stopped := make(chan struct{})
	go func() {
		g.Stop()
		close(stopped)
	}()

	select {
	case <-stopped:
		t.Fatal("Stop returned while a callback was running")
	case <-time.After(20 * time.Millisecond):
	}

	close(release)
	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop did not return after the callback finished")
	}
	if !finished.Load() {
		t.Error("callback did not finish before Stop returned")
	}
}

func TestTaskStop(t *testing.T) {
	g := NewGroup(context.Background())
	defer g.Stop()

	var a, b atomic.Int32
	ta := g.Every(time.Millisecond, func() { a.Add(1) })
	g.Every(time.Millisecond, func() { b.Add(1) })

	ta.Stop()
	stopped := a.Load()
	time.Sleep(20 * time.Millisecond)

	if a.Load() != stopped {
		t.Error("stopped task kept running")
	}
	if b.Load() == 0 {
		t.Error("stopping one task should not stop the others")
	}
}

func TestNonPositiveInterval(t *testing.T) {
	g := NewGroup(context.Background())
	defer g.Stop()

	task := g.Every(0, func() { t.Error("callback ran") })
	select {
	case <-task.Done():
	case <-time.After(time.Second):
		t.Fatal("task with zero interval should be done immediately")
	}
}

func TestParentCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	g := NewGroup(ctx)

	task := g.Every(time.Millisecond, func() {})
	cancel()

	select {
	case <-task.Done():
	case <-time.After(time.Second):
		t.Fatal("task did not exit after parent cancellation")
	}
	g.Stop()
}
