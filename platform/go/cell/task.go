package cell

import (
	"context"
	"sync"
)

// Task is a cancellable handle for one asynchronous load owned by a key
// (a slug, a tenant id, or a user/tenant pair).
type Task struct {
	key    string
	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

// Key returns the owning identifier.
func (t *Task) Key() string { return t.key }

// Context is cancelled once the task is superseded or cancelled.
func (t *Task) Context() context.Context { return t.ctx }

// Cancel aborts the task.
func (t *Task) Cancel() { t.cancel() }

// Stale reports whether the task was cancelled.
func (t *Task) Stale() bool { return t.ctx.Err() != nil }

// Done is closed when the task function returns.
func (t *Task) Done() <-chan struct{} { return t.done }

// Wait blocks until the task finishes or ctx is done.
func (t *Task) Wait(ctx context.Context) error {
	select {
	case <-t.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Keyed runs at most one live task. Starting a task for a different key cancels the
// current one; starting for the same key while it is still live returns the live task.
type Keyed struct {
	mu      sync.Mutex
	current *Task
}

// Start launches fn for key in its own goroutine.
func (k *Keyed) Start(parent context.Context, key string, fn func(t *Task)) *Task {
	k.mu.Lock()
	if cur := k.current; cur != nil {
		if cur.key == key && !cur.Stale() {
			k.mu.Unlock()
			return cur
		}
		cur.cancel()
	}

	ctx, cancel := context.WithCancel(parent)
	t := &Task{key: key, ctx: ctx, cancel: cancel, done: make(chan struct{})}
	k.current = t
	k.mu.Unlock()

	go func() {
		defer close(t.done)
		fn(t)
	}()
	return t
}

// Commit runs apply only when t is still the current, uncancelled task. Apply runs
// under the runner lock so a concurrent Start cannot interleave with it.
func (k *Keyed) Commit(t *Task, apply func()) bool {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.current != t || t.Stale() {
		return false
	}
	apply()
	return true
}

// Current returns the most recently started task, or nil.
func (k *Keyed) Current() *Task {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.current
}

// Stop cancels the current task and forgets it.
func (k *Keyed) Stop() {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.current != nil {
		k.current.cancel()
		k.current = nil
	}
}
