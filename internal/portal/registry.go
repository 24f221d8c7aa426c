// Package portal provides a process-wide store of overlay content
// mounted outside its logical parent's place in the widget tree.
// Widgets register renderable payloads under a category and unique id;
// category hosts subscribe to change notifications and re-render the
// current ordered entry list at the document root.
//
// A Registry is an explicit service instance with an explicit
// construction boundary, not a package-level global, so tests and
// alternate hosts construct isolated instances.
package portal

import (
	"context"
	"sort"
	"strings"
	"sync"

	"scrim/internal/log"
	"scrim/internal/pubsub"
)

// Change is the payload of every registry notification.
type Change struct {
	ID       string
	Category Category
}

// Registry is a thread-safe store of overlay entries with global and
// per-category change notification. All operations are safe under
// concurrent registration and unregistration from independently
// lifecycled widgets; snapshots taken after a notification is received
// always reflect that notification's mutation.
type Registry[T any] struct {
	mu      sync.RWMutex
	entries map[string]*Entry[T]
	nextOrd uint64

	global   *pubsub.Broker[Change]
	byTier   map[Category]*pubsub.Broker[Change]
}

// New creates an empty registry.
func New[T any]() *Registry[T] {
	byTier := make(map[Category]*pubsub.Broker[Change], len(Categories()))
	for _, cat := range Categories() {
		byTier[cat] = pubsub.NewBroker[Change]()
	}
	return &Registry[T]{
		entries: make(map[string]*Entry[T]),
		global:  pubsub.NewBroker[Change](),
		byTier:  byTier,
	}
}

// Close shuts down all notification brokers.
func (r *Registry[T]) Close() {
	r.global.Close()
	for _, b := range r.byTier {
		b.Close()
	}
}

// Subscribe returns a channel receiving every registry change.
// Cancelling ctx unsubscribes.
func (r *Registry[T]) Subscribe(ctx context.Context) <-chan pubsub.Event[Change] {
	return r.global.Subscribe(ctx)
}

// SubscribeCategory returns a channel receiving only changes to
// entries in the given category. Cancelling ctx unsubscribes.
func (r *Registry[T]) SubscribeCategory(ctx context.Context, cat Category) <-chan pubsub.Event[Change] {
	return r.byTier[cat].Subscribe(ctx)
}

// Register inserts a new entry or, if id is already registered,
// updates its category and content in place without changing its order
// slot. Widgets re-register on every re-render, so duplicate
// registration is an upsert, not an error. A blank id is rejected with
// ErrEmptyID.
func (r *Registry[T]) Register(id string, cat Category, content T) error {
	if strings.TrimSpace(id) == "" {
		return ErrEmptyID
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if e, ok := r.entries[id]; ok {
		prev := e.Category
		e.Category = cat
		e.Content = content
		r.publish(pubsub.UpdatedEvent, id, cat)
		if prev != cat {
			// The entry left its old tier; that host re-renders too.
			r.byTier[prev].Publish(pubsub.UpdatedEvent, Change{ID: id, Category: prev})
		}
		return nil
	}

	r.nextOrd++
	r.entries[id] = &Entry[T]{
		ID:       id,
		Category: cat,
		Order:    r.nextOrd,
		Content:  content,
	}
	log.Debug(log.CatPortal, "registered", "id", id, "category", cat, "order", r.nextOrd)
	r.publish(pubsub.CreatedEvent, id, cat)
	return nil
}

// Unregister removes the entry and its child scope. Absent ids are a
// no-op, not an error: close paths race with unmounts and both sides
// may try to clean up.
func (r *Registry[T]) Unregister(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[id]
	if !ok {
		return
	}
	delete(r.entries, id)
	log.Debug(log.CatPortal, "unregistered", "id", id, "children", len(e.Children))
	r.publish(pubsub.DeletedEvent, id, e.Category)
}

// UpdateContent replaces content on an existing entry. Unlike
// Register's upsert, an unknown id fails with ErrNotRegistered so the
// caller can detect a lost registration after an unexpected unmount.
func (r *Registry[T]) UpdateContent(id string, content T) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[id]
	if !ok {
		return ErrNotRegistered
	}
	e.Content = content
	r.publish(pubsub.UpdatedEvent, id, e.Category)
	return nil
}

// Refresh emits change events for the entry without altering content
// identity. Used when a consumer mutates values captured by reference
// inside already-registered content and needs a re-render without
// remounting, which would break focus and animation continuity.
func (r *Registry[T]) Refresh(id string) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.entries[id]
	if !ok {
		return ErrNotRegistered
	}
	r.publish(pubsub.UpdatedEvent, id, e.Category)
	return nil
}

// AppendChild mounts childID's content inside parentID's scope, after
// the parent's own content and any earlier children. Appending an
// existing childID updates its content in place. The parent must be
// registered first: an unknown parent fails with ErrNotRegistered
// rather than creating a pending scope that could leak if the parent
// never arrives.
func (r *Registry[T]) AppendChild(parentID, childID string, content T) error {
	if strings.TrimSpace(childID) == "" {
		return ErrEmptyChildID
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[parentID]
	if !ok {
		return ErrNotRegistered
	}
	for i := range e.Children {
		if e.Children[i].ID == childID {
			e.Children[i].Content = content
			r.publish(pubsub.UpdatedEvent, parentID, e.Category)
			return nil
		}
	}
	e.Children = append(e.Children, Child[T]{ID: childID, Content: content})
	log.Debug(log.CatPortal, "child appended", "parent", parentID, "child", childID)
	r.publish(pubsub.UpdatedEvent, parentID, e.Category)
	return nil
}

// RemoveChild detaches childID from parentID's scope. A missing child
// is a no-op; an unknown parent fails with ErrNotRegistered.
func (r *Registry[T]) RemoveChild(parentID, childID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[parentID]
	if !ok {
		return ErrNotRegistered
	}
	for i := range e.Children {
		if e.Children[i].ID == childID {
			e.Children = append(e.Children[:i], e.Children[i+1:]...)
			r.publish(pubsub.UpdatedEvent, parentID, e.Category)
			return nil
		}
	}
	return nil
}

// GetAll returns a snapshot of every entry, ascending by order.
func (r *Registry[T]) GetAll() []Entry[T] {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snapshot(func(*Entry[T]) bool { return true })
}

// GetByCategory returns a snapshot of the category's entries,
// ascending by order.
func (r *Registry[T]) GetByCategory(cat Category) []Entry[T] {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snapshot(func(e *Entry[T]) bool { return e.Category == cat })
}

// GetCategory looks up the category of a registered id.
func (r *Registry[T]) GetCategory(id string) (Category, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.entries[id]
	if !ok {
		return 0, false
	}
	return e.Category, true
}

// Len returns the number of registered entries.
func (r *Registry[T]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// snapshot copies matching entries sorted by order. Caller holds r.mu.
func (r *Registry[T]) snapshot(keep func(*Entry[T]) bool) []Entry[T] {
	out := make([]Entry[T], 0, len(r.entries))
	for _, e := range r.entries {
		if keep(e) {
			out = append(out, e.clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out
}

// publish emits the global and category-scoped notifications for a
// mutation. Called with r.mu held so events leave in mutation order;
// broker publishes never block, so a subscriber that re-enters the
// registry from its handler only waits for the lock, it cannot
// deadlock or corrupt the snapshot it was handed.
func (r *Registry[T]) publish(typ pubsub.EventType, id string, cat Category) {
	change := Change{ID: id, Category: cat}
	r.global.Publish(typ, change)
	r.byTier[cat].Publish(typ, change)
}
