package portal

// Child is a nested renderable hosted inside a parent entry, such as a
// submenu mounted inside a dropdown.
type Child[T any] struct {
	ID      string
	Content T
}

// Entry is the registry's record of one mounted overlay.
// The content payload is opaque: the registry stores it and hands it
// back, never inspects it, so any rendering backend can supply its own
// renderable type.
type Entry[T any] struct {
	ID       string
	Category Category
	// Order is assigned once at first registration and preserved
	// across content updates. Entries enumerate ascending by Order.
	Order    uint64
	Content  T
	Children []Child[T]
}

// Effective returns the entry's renderables in mount order: the
// entry's own content followed by each child in append order.
func (e Entry[T]) Effective() []T {
	out := make([]T, 0, 1+len(e.Children))
	out = append(out, e.Content)
	for _, c := range e.Children {
		out = append(out, c.Content)
	}
	return out
}

// clone copies the entry with an independent children slice, so a
// snapshot handed to a host cannot be corrupted by later mutations.
func (e Entry[T]) clone() Entry[T] {
	dup := e
	dup.Children = make([]Child[T], len(e.Children))
	copy(dup.Children, e.Children)
	return dup
}
