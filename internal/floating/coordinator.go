// Package floating positions overlay content relative to an anchor
// element, or at a raw coordinate, and optionally keeps the placement
// live while the layout changes. The layout engine itself is an opaque
// capability: the host supplies measurement and change signals through
// the Layout, Anchor, and Surface interfaces.
package floating

import (
	"context"
	"fmt"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"scrim/internal/log"
	"scrim/internal/pubsub"
)

// LayoutChange is the payload of a layout event: a resize or a reflow
// that may have moved anchors.
type LayoutChange struct {
	Viewport Rect
}

// Layout is the measurement capability the host supplies.
type Layout interface {
	// Viewport returns the current visible area.
	Viewport() Rect
	// Changes returns a channel of layout events. Cancelling ctx
	// unsubscribes.
	Changes(ctx context.Context) <-chan pubsub.Event[LayoutChange]
}

// Anchor is a measurable trigger element.
type Anchor interface {
	// Bounds returns the element's current rectangle, or
	// ErrElementNotReady if it has not been mounted and measured yet.
	Bounds() (Rect, error)
}

// Surface is a positionable floating element.
type Surface interface {
	Anchor
	// Apply writes a resolved position onto the element.
	Apply(Position)
	// SetVisible flips the hidden state without unmounting, so
	// element identity survives open/close cycles.
	SetVisible(bool)
}

// Coordinator translates anchor + floating element + placement policy
// into concrete coordinates and keeps them live on request. It tracks
// at most one auto-update subscription per surface: re-acquiring
// disposes the previous subscription instead of leaking its listener.
type Coordinator struct {
	layout Layout
	tracer trace.Tracer

	mu     sync.Mutex
	active map[Surface]*Subscription
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithTracer attaches an OpenTelemetry tracer; spans wrap position
// computation and auto-update ticks.
func WithTracer(t trace.Tracer) Option {
	return func(c *Coordinator) {
		c.tracer = t
	}
}

// New creates a coordinator over the host's layout capability.
func New(layout Layout, opts ...Option) *Coordinator {
	c := &Coordinator{
		layout: layout,
		tracer: noop.NewTracerProvider().Tracer("floating"),
		active: make(map[Surface]*Subscription),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ComputePosition resolves a placement for fl relative to ref.
// Pure computation against current layout; the surface is not touched.
// Fails with ErrElementNotReady when either element cannot be
// measured yet.
func (c *Coordinator) ComputePosition(ref Anchor, fl Surface, opts Options) (Position, error) {
	_, span := c.tracer.Start(context.Background(), "floating.compute_position",
		trace.WithAttributes(attribute.String("placement", opts.Placement.String())))
	defer span.End()

	refRect, err := ref.Bounds()
	if err != nil {
		return Position{}, fmt.Errorf("reference bounds: %w", err)
	}
	flRect, err := fl.Bounds()
	if err != nil {
		return Position{}, fmt.Errorf("floating bounds: %w", err)
	}
	vp := c.layout.Viewport()
	if vp.Empty() {
		return Position{}, fmt.Errorf("viewport: %w", ErrElementNotReady)
	}

	pos := Compute(refRect, flRect, vp, opts)
	span.SetAttributes(attribute.String("resolved", pos.Placement.String()))
	return pos, nil
}

// ApplyPosition writes a computed position onto the surface.
// makeVisible additionally unhides it, closing the gap where a freshly
// created element would flash at a stale location before its first
// correct placement.
func (c *Coordinator) ApplyPosition(fl Surface, pos Position, makeVisible bool) {
	fl.Apply(pos)
	if makeVisible {
		fl.SetVisible(true)
	}
}

// ApplyCoordinatePosition places fl at an explicit point, such as the
// pointer location for a context menu, clamped to keep padding cells
// from every viewport edge. The result always uses the fixed strategy.
func (c *Coordinator) ApplyCoordinatePosition(fl Surface, x, y, padding float64, makeVisible bool) (Position, error) {
	flRect, err := fl.Bounds()
	if err != nil {
		return Position{}, fmt.Errorf("floating bounds: %w", err)
	}
	vp := c.layout.Viewport()
	if vp.Empty() {
		return Position{}, fmt.Errorf("viewport: %w", ErrElementNotReady)
	}

	pos := Position{
		X:               clamp(x, vp.Left()+padding, vp.Right()-padding-flRect.Width),
		Y:               clamp(y, vp.Top()+padding, vp.Bottom()-padding-flRect.Height),
		Placement:       Placement{Side: SideBottom, Align: AlignStart},
		Strategy:        StrategyFixed,
		TransformOrigin: transformOrigin(Placement{Side: SideBottom, Align: AlignStart}),
	}
	c.ApplyPosition(fl, pos, makeVisible)
	return pos, nil
}

// AutoUpdate computes and applies a position immediately, then
// recomputes on every layout change until the returned subscription is
// disposed. This is what keeps a popover glued to its trigger across
// resizes and reflows. A prior live subscription for the same surface
// is disposed first. A failed recomputation skips that tick; it never
// tears the subscription down.
func (c *Coordinator) AutoUpdate(ref Anchor, fl Surface, opts Options) (*Subscription, error) {
	pos, err := c.ComputePosition(ref, fl, opts)
	if err != nil {
		return nil, err
	}
	c.ApplyPosition(fl, pos, false)

	c.mu.Lock()
	prev := c.active[fl]
	delete(c.active, fl)
	c.mu.Unlock()
	if prev != nil {
		prev.Dispose()
	}

	ctx, cancel := context.WithCancel(context.Background())
	sub := &Subscription{cancel: cancel}
	sub.release = func() {
		c.mu.Lock()
		if c.active[fl] == sub {
			delete(c.active, fl)
		}
		c.mu.Unlock()
	}
	c.mu.Lock()
	c.active[fl] = sub
	c.mu.Unlock()

	ch := c.layout.Changes(ctx)
	go func() {
		for range ch {
			// The broker detaches cancelled subscribers asynchronously,
			// so an event published right after Dispose can still land
			// here. Dropping it keeps the disposal contract: once
			// Dispose returns, no further position is applied.
			if ctx.Err() != nil {
				return
			}
			c.tick(ref, fl, opts)
		}
	}()

	return sub, nil
}

// tick recomputes and reapplies once. Transient measurement failures
// are logged and swallowed so the overlay stays visually stable rather
// than disappearing on a single failed measurement.
func (c *Coordinator) tick(ref Anchor, fl Surface, opts Options) {
	_, span := c.tracer.Start(context.Background(), "floating.auto_update.tick")
	defer span.End()

	pos, err := c.ComputePosition(ref, fl, opts)
	if err != nil {
		span.RecordError(err)
		log.Debug(log.CatFloating, "auto-update tick skipped", "error", err)
		return
	}
	c.ApplyPosition(fl, pos, false)
}

// ShowFloating reopens an overlay whose surface persists across
// open/close cycles: any previous subscription for the surface is
// disposed, a fresh auto-update is established, and the surface is
// unhidden once the first position has been applied.
func (c *Coordinator) ShowFloating(fl Surface, ref Anchor, opts Options) (*Subscription, error) {
	sub, err := c.AutoUpdate(ref, fl, opts)
	if err != nil {
		return nil, err
	}
	fl.SetVisible(true)
	return sub, nil
}

// HideFloating un-displays the surface while leaving it mounted, so
// closing transitions keep their element identity. The caller disposes
// any auto-update subscription separately.
func (c *Coordinator) HideFloating(fl Surface) {
	fl.SetVisible(false)
}

// Tracking reports whether the surface has a live auto-update
// subscription.
func (c *Coordinator) Tracking(fl Surface) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.active[fl]
	return ok
}

// Subscription is the ownership handle for a live auto-update.
// Dispose detaches the layout listener; disposing more than once, or
// after the surface is gone, is a safe no-op.
type Subscription struct {
	once    sync.Once
	cancel  context.CancelFunc
	release func()
}

// Dispose stops the auto-update loop.
func (s *Subscription) Dispose() {
	s.once.Do(func() {
		s.cancel()
		if s.release != nil {
			s.release()
		}
	})
}
