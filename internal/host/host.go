// Package host renders portal registry entries at the document root.
// One Host subscribes per category, so the container tier and the
// overlay tier re-render independently without cross-interference.
package host

import (
	"context"
	"sync"

	"scrim/internal/log"
	"scrim/internal/portal"
)

// Host is a passive renderer for one category. It holds no state
// beyond the last rendered snapshot: every notification re-reads the
// registry's current ordered entry list and hands it to the render
// callback.
type Host[T any] struct {
	reg      *portal.Registry[T]
	category portal.Category
	onChange func([]portal.Entry[T])

	mu       sync.Mutex
	snapshot []portal.Entry[T]
	cancel   context.CancelFunc
}

// New creates a host for the category. onChange is invoked with the
// fresh snapshot after every change to the category; it may be nil
// when the consumer polls Snapshot instead.
func New[T any](reg *portal.Registry[T], category portal.Category, onChange func([]portal.Entry[T])) *Host[T] {
	return &Host[T]{
		reg:      reg,
		category: category,
		onChange: onChange,
	}
}

// Category returns the tier this host renders.
func (h *Host[T]) Category() portal.Category {
	return h.category
}

// Start subscribes to the category's notifications and renders the
// current snapshot. Starting an already-started host first tears the
// previous subscription down, so a host remounting cannot
// double-register listeners.
func (h *Host[T]) Start(ctx context.Context) {
	h.mu.Lock()
	if h.cancel != nil {
		h.cancel()
	}
	subCtx, cancel := context.WithCancel(ctx)
	h.cancel = cancel
	h.mu.Unlock()

	ch := h.reg.SubscribeCategory(subCtx, h.category)
	h.refresh()

	go func() {
		for range ch {
			// A restart cancels this subscription before the broker has
			// detached the channel, so a mutation published in that
			// window is still delivered here. Dropping it keeps Start
			// idempotent: only the live subscription refreshes.
			if subCtx.Err() != nil {
				return
			}
			h.refresh()
		}
		log.Debug(log.CatHost, "host subscription ended", "category", h.category)
	}()
}

// Stop unsubscribes. Safe to call repeatedly or before Start.
func (h *Host[T]) Stop() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.cancel != nil {
		h.cancel()
		h.cancel = nil
	}
}

// Snapshot returns the last rendered entry list, ascending by order.
func (h *Host[T]) Snapshot() []portal.Entry[T] {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.snapshot
}

// refresh re-reads the registry and invokes the render callback.
// The snapshot is read after the notification, so it always reflects
// the mutation that triggered it.
func (h *Host[T]) refresh() {
	entries := h.reg.GetByCategory(h.category)

	h.mu.Lock()
	h.snapshot = entries
	cb := h.onChange
	h.mu.Unlock()

	if cb != nil {
		cb(entries)
	}
}
