// Package dedup keeps a bounded window of recently seen update ids so that
// redelivered Telegram updates are dropped before any side effect runs.
//
// The window guarantees exactly-once processing only within its capacity:
// once an id has been evicted a redelivery would be admitted again. The
// window only has to cover plausible redelivery and retry horizons, not all
// history, so the guarantee is at-most-once-per-update within the window.
package dedup

// Window is a capacity-bounded set of int64 ids with batch eviction.
// It is not safe for concurrent use; the dispatch core owns it from a single
// goroutine.
type Window struct {
	capacity int
	seen     map[int64]struct{}
	order    []int64 // insertion order, oldest first
}

// DefaultCapacity matches the historical window size of the bridge.
const DefaultCapacity = 1000

// NewWindow creates a window holding at most capacity ids.
// A capacity <= 0 falls back to DefaultCapacity.
func NewWindow(capacity int) *Window {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Window{
		capacity: capacity,
		seen:     make(map[int64]struct{}, capacity),
	}
}

// Admit records id and reports whether it was seen for the first time.
// Repeats return false and leave the window unchanged.
func (w *Window) Admit(id int64) bool {
	if _, dup := w.seen[id]; dup {
		return false
	}
	w.seen[id] = struct{}{}
	w.order = append(w.order, id)
	if len(w.order) > w.capacity {
		w.evictOldest()
	}
	return true
}

// Contains reports whether id is currently inside the window.
func (w *Window) Contains(id int64) bool {
	_, ok := w.seen[id]
	return ok
}

// Len returns the number of ids currently tracked.
func (w *Window) Len() int {
	return len(w.order)
}

// evictOldest drops the oldest ~10% of recorded ids in one batch. Batch
// eviction keeps Admit O(1) amortized; the window is an approximate recency
// bound, not a strict LRU.
func (w *Window) evictOldest() {
	n := w.capacity / 10
	if n < 1 {
		n = 1
	}
	if n > len(w.order) {
		n = len(w.order)
	}
	for _, id := range w.order[:n] {
		delete(w.seen, id)
	}
	w.order = append(w.order[:0], w.order[n:]...)
}
