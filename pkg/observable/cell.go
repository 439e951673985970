// Package observable holds state cells that one owner writes and any number
// of readers watch.
package observable

import (
	"sync"
)

// Observable is the read-only face of a Cell.
type Observable[T any] interface {
	Get() T
	// Subscribe returns a channel that receives the current value right away
	// and every later value. A slow reader only sees the latest value. The
	// returned func stops delivery and closes the channel.
	Subscribe() (<-chan T, func())
}

// Cell is a value guarded by a mutex with change fan-out. Only the holder of
// the *Cell can Set; hand out Observable to everyone else.
type Cell[T any] struct {
	mu     sync.RWMutex
	value  T
	nextID int
	subs   map[int]chan T
}

func NewCell[T any](initial T) *Cell[T] {
	return &Cell[T]{
		value: initial,
		subs:  make(map[int]chan T),
	}
}

func (c *Cell[T]) Get() T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.value
}

// Set replaces the value and notifies subscribers without blocking.
func (c *Cell[T]) Set(v T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.value = v
	for _, ch := range c.subs {
		offerLatest(ch, v)
	}
}

// Update applies fn to the current value under the write lock.
func (c *Cell[T]) Update(fn func(T) T) T {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.value = fn(c.value)
	for _, ch := range c.subs {
		offerLatest(ch, c.value)
	}
	return c.value
}

func (c *Cell[T]) Subscribe() (<-chan T, func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.nextID
	c.nextID++
	ch := make(chan T, 1)
	ch <- c.value
	c.subs[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			delete(c.subs, id)
			close(ch)
		})
	}
	return ch, cancel
}

// Subscribers reports how many readers are attached.
func (c *Cell[T]) Subscribers() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.subs)
}

// ReadOnly narrows the cell to its Observable view.
func (c *Cell[T]) ReadOnly() Observable[T] {
	return readOnly[T]{c}
}

type readOnly[T any] struct {
	c *Cell[T]
}

func (r readOnly[T]) Get() T { return r.c.Get() }
func (r readOnly[T]) Subscribe() (<-chan T, func()) { return r.c.Subscribe() }

// offerLatest drops a stale buffered value so the channel holds v.
// Callers hold the cell's write lock, so they are the only sender.
func offerLatest[T any](ch chan T, v T) {
	select {
	case ch <- v:
		return
	default:
	}
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- v:
	default:
	}
}
