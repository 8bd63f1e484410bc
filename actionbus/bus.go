// Package actionbus implements the optional buffer-drop integration
// pattern for consuming gestura's action stream (spec.md §7: "The
// ActionBus buffer-drop integration pattern (optional, outside core)
// uses a bounded queue; on overflow the oldest entry is dropped before
// inserting the newest").
package actionbus

import "sync"

// ActionEvent mirrors gestura.ActionEvent without importing the root
// package, keeping actionbus usable standalone.
type ActionEvent struct {
	Callback    string
	TriggeredAt float64
}

// Bus is a bounded, drop-oldest queue of ActionEvent. It is safe for
// concurrent use: Publish is expected to be called from an Engine's
// sink callback, Drain from a consumer goroutine on its own schedule.
type Bus struct {
	mu      sync.Mutex
	items   []ActionEvent
	maxSize int
}

// New builds a Bus bounded to maxSize entries. maxSize <= 0 defaults
// to 1000, matching the original integration's default.
func New(maxSize int) *Bus {
	if maxSize <= 0 {
		maxSize = 1000
	}
	return &Bus{maxSize: maxSize}
}

// Publish appends action, dropping the oldest queued entry first if
// the bus is already at capacity.
func (b *Bus) Publish(action ActionEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.items) >= b.maxSize {
		b.items = b.items[1:]
	}
	b.items = append(b.items, action)
}

// Drain removes and returns every currently queued action, oldest
// first, leaving the bus empty.
func (b *Bus) Drain() []ActionEvent {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.items) == 0 {
		return nil
	}
	out := b.items
	b.items = nil
	return out
}
