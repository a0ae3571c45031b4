package schedule

import (
	"context"
	"sync"
	"time"
)

// Group owns the recurring tasks of one mounted widget. Stopping the group
// stops every task and waits for running callbacks to return.
type Group struct {
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewGroup creates a group bound to parent.
func NewGroup(parent context.Context) *Group {
	ctx, cancel := context.WithCancel(parent)
	return &Group{ctx: ctx, cancel: cancel}
}

// Task is a single recurring callback.
type Task struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// Every runs fn every interval until the task or its group is stopped.
// A non-positive interval returns an already stopped task.
func (g *Group) Every(interval time.Duration, fn func()) *Task {
	ctx, cancel := context.WithCancel(g.ctx)
	t := &Task{cancel: cancel, done: make(chan struct{})}

	if interval <= 0 {
		cancel()
		close(t.done)
		return t
	}

	g.wg.Add(1)
	go func() {
		defer g.wg.Done()
		defer close(t.done)

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if ctx.Err() != nil {
					return
				}
				fn()
			}
		}
	}()
	return t
}

// Stop cancels the task and waits for its goroutine to exit. It must not
// be called from the task's own callback.
func (t *Task) Stop() {
	t.cancel()
	<-t.done
}

// Done is closed once the task has exited.
func (t *Task) Done() <-chan struct{} { return t.done }

// Stop cancels every task of the group and waits for them to exit. After
// Stop returns no callback of the group runs again. Callbacks run without
// any group lock held, but Stop waits for a running callback to return, so
// a callback must not block on whoever calls Stop.
func (g *Group) Stop() {
	g.cancel()
	g.wg.Wait()
}

// Context is cancelled when the group stops.
func (g *Group) Context() context.Context { return g.ctx }
