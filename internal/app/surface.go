package app

import (
	"context"
	"fmt"
	"sync"

	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"

	"scrim/internal/cachemanager"
	"scrim/internal/floating"
	"scrim/internal/pubsub"
)

// panel is a floating surface backed by a styled string. It remembers
// the last applied position so the compositor can paint it, and
// reports its rendered footprint as its bounds.
type panel struct {
	mu      sync.Mutex
	id      string
	style   lipgloss.Style
	content string
	pos     floating.Position
	hasPos  bool
	visible bool
}

func newPanel(id string, style lipgloss.Style) *panel {
	return &panel{id: id, style: style}
}

func (p *panel) SetContent(content string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.content = content
}

// Bounds reports the panel's current rendered footprint. A panel with
// no content yet has nothing to measure.
func (p *panel) Bounds() (floating.Rect, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.content == "" {
		return floating.Rect{}, fmt.Errorf("panel %q: %w", p.id, floating.ErrElementNotReady)
	}
	view := p.render()
	r := floating.Rect{
		Width:  float64(lipgloss.Width(view)),
		Height: float64(lipgloss.Height(view)),
	}
	if p.hasPos {
		r.X = p.pos.X
		r.Y = p.pos.Y
	}
	return r, nil
}

func (p *panel) Apply(pos floating.Position) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pos = pos
	p.hasPos = true
}

func (p *panel) SetVisible(visible bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.visible = visible
}

func (p *panel) Visible() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.visible
}

func (p *panel) Position() (floating.Position, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pos, p.hasPos
}

// View renders the panel for compositing.
func (p *panel) View() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.render()
}

func (p *panel) render() string {
	style := p.style
	if p.hasPos && p.pos.MatchWidth > 0 {
		frame, _ := style.GetFrameSize()
		inner := int(p.pos.MatchWidth) - frame
		if inner > 0 {
			style = style.Width(inner)
		}
	}
	return style.Render(p.content)
}

// zoneAnchor measures an anchor through its bubblezone mark. Bounds
// go through a read-through cache that the layout flushes on resize.
type zoneAnchor struct {
	id     string
	bounds *cachemanager.ReadThroughCache[floating.Rect]
}

func (a zoneAnchor) Bounds() (floating.Rect, error) {
	return a.bounds.Get(context.Background(), a.id)
}

// measureZone reads the marked region recorded by the last zone scan.
func measureZone(_ context.Context, id string) (floating.Rect, error) {
	info := zone.Get(id)
	if info == nil || info.IsZero() {
		return floating.Rect{}, fmt.Errorf("zone %q not measured: %w", id, floating.ErrElementNotReady)
	}
	return floating.Rect{
		X:      float64(info.StartX),
		Y:      float64(info.StartY),
		Width:  float64(info.EndX - info.StartX + 1),
		Height: float64(info.EndY - info.StartY + 1),
	}, nil
}

// teaLayout adapts the Bubble Tea window size to the floating layout
// interface. Resizes flush the anchor measurement cache and fan out to
// every auto-update subscription.
type teaLayout struct {
	mu     sync.RWMutex
	vp     floating.Rect
	broker *pubsub.Broker[floating.LayoutChange]
	zones  cachemanager.CacheManager[floating.Rect]
}

func newTeaLayout(zones cachemanager.CacheManager[floating.Rect]) *teaLayout {
	return &teaLayout{
		broker: pubsub.NewBroker[floating.LayoutChange](),
		zones:  zones,
	}
}

func (l *teaLayout) Viewport() floating.Rect {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.vp
}

func (l *teaLayout) Changes(ctx context.Context) <-chan pubsub.Event[floating.LayoutChange] {
	return l.broker.Subscribe(ctx)
}

func (l *teaLayout) SetSize(width, height int) {
	l.mu.Lock()
	l.vp = floating.Rect{Width: float64(width), Height: float64(height)}
	vp := l.vp
	l.mu.Unlock()

	l.zones.Flush(context.Background())
	l.broker.Publish(pubsub.UpdatedEvent, floating.LayoutChange{Viewport: vp})
}

func (l *teaLayout) Close() {
	l.broker.Close()
}
