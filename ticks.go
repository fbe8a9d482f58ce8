package cblock

import (
	"sync"

	"github.com/df-mc/dragonfly/server/block/cube"
)

// scheduledTick is one pending Tick dispatch.
type scheduledTick struct {
	pos cube.Pos
	due int64
	// seq orders ticks due on the same tick by scheduling order.
	seq uint64
	// index is the heap index for efficient removal
	index int
}

// TickQueue is a priority queue of scheduled block ticks ordered by due tick.
// At most one tick is pending per position: scheduling a position that already
// has an earlier or equal tick pending is a no-op, and scheduling an earlier
// one moves it forward.
type TickQueue struct {
	mu      sync.Mutex
	heap    []*scheduledTick
	pending map[cube.Pos]*scheduledTick
	seq     uint64
}

// NewTickQueue creates an empty tick queue.
func NewTickQueue() *TickQueue {
	return &TickQueue{
		heap:    make([]*scheduledTick, 0, 64),
		pending: make(map[cube.Pos]*scheduledTick),
	}
}

// Schedule requests a tick for pos at tick due.
func (q *TickQueue) Schedule(pos cube.Pos, due int64) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if t, ok := q.pending[pos]; ok {
		if t.due <= due {
			return
		}
		t.due = due
		q.up(t.index)
		return
	}
	q.seq++
	t := &scheduledTick{pos: pos, due: due, seq: q.seq}
	q.pending[pos] = t
	t.index = len(q.heap)
	q.heap = append(q.heap, t)
	q.up(t.index)
}

// PopDue removes and returns the positions of every tick due at or before now,
// earliest first.
func (q *TickQueue) PopDue(now int64) []cube.Pos {
	q.mu.Lock()
	defer q.mu.Unlock()

	var due []cube.Pos
	for len(q.heap) > 0 && q.heap[0].due <= now {
		t := q.pop()
		delete(q.pending, t.pos)
		due = append(due, t.pos)
	}
	return due
}

// Peek returns the next due tick without removing it.
func (q *TickQueue) Peek() (int64, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.heap) == 0 {
		return 0, false
	}
	return q.heap[0].due, true
}

// Pending reports whether a tick is scheduled for pos.
func (q *TickQueue) Pending(pos cube.Pos) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	_, ok := q.pending[pos]
	return ok
}

// Cancel removes the tick scheduled for pos, if any.
func (q *TickQueue) Cancel(pos cube.Pos) {
	q.mu.Lock()
	defer q.mu.Unlock()

	t, ok := q.pending[pos]
	if !ok {
		return
	}
	delete(q.pending, pos)
	n := len(q.heap) - 1
	i := t.index
	if i != n {
		q.swap(i, n)
	}
	q.heap[n] = nil
	q.heap = q.heap[:n]
	if i != n {
		q.down(i, n)
		q.up(i)
	}
	t.index = -1
}

// Len returns the number of pending ticks.
func (q *TickQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.heap)
}

// Clear removes all pending ticks.
func (q *TickQueue) Clear() {
	q.mu.Lock()
	defer q.mu.Unlock()
	clear(q.heap)
	q.heap = q.heap[:0]
	clear(q.pending)
}

// pop removes and returns the minimum tick. Caller must hold lock.
func (q *TickQueue) pop() *scheduledTick {
	n := len(q.heap) - 1
	q.swap(0, n)
	q.down(0, n)
	t := q.heap[n]
	q.heap[n] = nil
	q.heap = q.heap[:n]
	t.index = -1
	return t
}

func (q *TickQueue) less(i, j int) bool {
	a, b := q.heap[i], q.heap[j]
	if a.due != b.due {
		return a.due < b.due
	}
	return a.seq < b.seq
}

func (q *TickQueue) up(i int) {
	for {
		parent := (i - 1) / 2
		if parent == i || !q.less(i, parent) {
			break
		}
		q.swap(i, parent)
		i = parent
	}
}

func (q *TickQueue) down(i, n int) {
	for {
		left := 2*i + 1
		if left >= n || left < 0 {
			break
		}
		j := left
		if right := left + 1; right < n && q.less(right, left) {
			j = right
		}
		if !q.less(j, i) {
			break
		}
		q.swap(i, j)
		i = j
	}
}

func (q *TickQueue) swap(i, j int) {
	q.heap[i], q.heap[j] = q.heap[j], q.heap[i]
	q.heap[i].index = i
	q.heap[j].index = j
}
