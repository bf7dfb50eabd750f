package jobs

import (
	"context"
	"sync"
)

// coalescer keeps at most one in-flight write per key. Values offered while
// a write is running replace each other, and the running job picks up the
// newest one before it exits, so remote writes for a key never reorder.
type coalescer[T any] struct {
	mu    sync.Mutex
	slots map[string]*slot[T]
}

type slot[T any] struct {
	value T
	seq   uint64
}

func newCoalescer[T any]() *coalescer[T] {
	return &coalescer[T]{slots: make(map[string]*slot[T])}
}

// offer stores v and reports whether the caller must schedule a drain job.
func (c *coalescer[T]) offer(key string, v T) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if s, ok := c.slots[key]; ok {
		s.value = v
		s.seq++
		return false
	}
	c.slots[key] = &slot[T]{value: v, seq: 1}
	return true
}

func (c *coalescer[T]) take(key string) (T, uint64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.slots[key]
	if !ok {
		var zero T
		return zero, 0, false
	}
	return s.value, s.seq, true
}

// finish releases key if nothing newer than seq arrived meanwhile.
func (c *coalescer[T]) finish(key string, seq uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if s, ok := c.slots[key]; ok && s.seq != seq {
		return false
	}
	delete(c.slots, key)
	return true
}

func (c *coalescer[T]) abandon(key string) {
	c.mu.Lock()
	delete(c.slots, key)
	c.mu.Unlock()
}

func (c *coalescer[T]) pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.slots)
}

// drainJob writes the newest value for key until no newer one is waiting.
type drainJob[T any] struct {
	name  string
	key   string
	c     *coalescer[T]
	write func(ctx context.Context, v T) error
}

func (j *drainJob[T]) Name() string { return j.name }

func (j *drainJob[T]) Run(ctx context.Context) error {
	for {
		v, seq, ok := j.c.take(j.key)
		if !ok {
			return nil
		}
		if err := j.write(ctx, v); err != nil {
			j.c.abandon(j.key)
			return err
		}
		if j.c.finish(j.key, seq) {
			return nil
		}
	}
}
