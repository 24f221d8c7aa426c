package floating

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"scrim/internal/pubsub"
)

// fakeLayout is a controllable layout capability for tests.
type fakeLayout struct {
	mu     sync.Mutex
	vp     Rect
	broker *pubsub.Broker[LayoutChange]
}

func newFakeLayout(vp Rect) *fakeLayout {
	return &fakeLayout{vp: vp, broker: pubsub.NewBroker[LayoutChange]()}
}

func (l *fakeLayout) Viewport() Rect {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.vp
}

func (l *fakeLayout) Changes(ctx context.Context) <-chan pubsub.Event[LayoutChange] {
	return l.broker.Subscribe(ctx)
}

func (l *fakeLayout) resize(vp Rect) {
	l.mu.Lock()
	l.vp = vp
	l.mu.Unlock()
	l.broker.Publish(pubsub.UpdatedEvent, LayoutChange{Viewport: vp})
}

// fakeAnchor is a measurable element whose bounds tests control.
type fakeAnchor struct {
	mu   sync.Mutex
	rect Rect
	err  error
}

func (a *fakeAnchor) Bounds() (Rect, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.err != nil {
		return Rect{}, a.err
	}
	return a.rect, nil
}

func (a *fakeAnchor) set(r Rect, err error) {
	a.mu.Lock()
	a.rect, a.err = r, err
	a.mu.Unlock()
}

// fakeSurface records applied positions and visibility flips.
type fakeSurface struct {
	fakeAnchor
	amu     sync.Mutex
	applied []Position
	visible bool
}

func (s *fakeSurface) Apply(pos Position) {
	s.amu.Lock()
	defer s.amu.Unlock()
	s.applied = append(s.applied, pos)
}

func (s *fakeSurface) SetVisible(v bool) {
	s.amu.Lock()
	defer s.amu.Unlock()
	s.visible = v
}

func (s *fakeSurface) appliedCount() int {
	s.amu.Lock()
	defer s.amu.Unlock()
	return len(s.applied)
}

func (s *fakeSurface) lastApplied() Position {
	s.amu.Lock()
	defer s.amu.Unlock()
	return s.applied[len(s.applied)-1]
}

func (s *fakeSurface) isVisible() bool {
	s.amu.Lock()
	defer s.amu.Unlock()
	return s.visible
}

func testFixture() (*fakeLayout, *fakeAnchor, *fakeSurface, *Coordinator) {
	layout := newFakeLayout(Rect{Width: 80, Height: 24})
	anchor := &fakeAnchor{rect: Rect{X: 30, Y: 10, Width: 10, Height: 1}}
	surface := &fakeSurface{fakeAnchor: fakeAnchor{rect: Rect{Width: 20, Height: 5}}}
	return layout, anchor, surface, New(layout)
}

func TestCoordinator_ComputePosition(t *testing.T) {
	_, anchor, surface, coord := testFixture()

	pos, err := coord.ComputePosition(anchor, surface, Options{
		Placement: Placement{Side: SideBottom, Align: AlignStart},
	})

	require.NoError(t, err)
	require.Equal(t, 30.0, pos.X)
	require.Equal(t, 11.0, pos.Y)
	// Pure computation: nothing applied yet.
	require.Zero(t, surface.appliedCount())
}

func TestCoordinator_ComputePosition_ElementNotReady(t *testing.T) {
	_, anchor, surface, coord := testFixture()

	anchor.set(Rect{}, ErrElementNotReady)
	_, err := coord.ComputePosition(anchor, surface, DefaultOptions())
	require.ErrorIs(t, err, ErrElementNotReady)

	anchor.set(Rect{X: 1, Y: 1, Width: 2, Height: 1}, nil)
	surface.set(Rect{}, ErrElementNotReady)
	_, err = coord.ComputePosition(anchor, surface, DefaultOptions())
	require.ErrorIs(t, err, ErrElementNotReady)
}

func TestCoordinator_ComputePosition_EmptyViewport(t *testing.T) {
	layout := newFakeLayout(Rect{})
	anchor := &fakeAnchor{rect: Rect{Width: 2, Height: 1}}
	surface := &fakeSurface{fakeAnchor: fakeAnchor{rect: Rect{Width: 4, Height: 2}}}
	coord := New(layout)

	_, err := coord.ComputePosition(anchor, surface, DefaultOptions())
	require.ErrorIs(t, err, ErrElementNotReady)
}

func TestCoordinator_ApplyPosition(t *testing.T) {
	_, _, surface, coord := testFixture()

	pos := Position{X: 5, Y: 6, Strategy: StrategyAbsolute}
	coord.ApplyPosition(surface, pos, false)
	require.Equal(t, 1, surface.appliedCount())
	require.False(t, surface.isVisible())

	coord.ApplyPosition(surface, pos, true)
	require.True(t, surface.isVisible())
}

func TestCoordinator_ApplyCoordinatePosition_Clamps(t *testing.T) {
	_, _, surface, coord := testFixture()

	// Point within padding of the right edge clamps to
	// viewport width - padding - floating width.
	pos, err := coord.ApplyCoordinatePosition(surface, 79, 10, 2, true)

	require.NoError(t, err)
	require.Equal(t, 58.0, pos.X) // 80 - 2 - 20
	require.Equal(t, 10.0, pos.Y)
	require.Equal(t, StrategyFixed, pos.Strategy)
	require.True(t, surface.isVisible())
	require.Equal(t, 1, surface.appliedCount())
}

func TestCoordinator_ApplyCoordinatePosition_ClampProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		layout := newFakeLayout(Rect{Width: 80, Height: 24})
		coord := New(layout)
		surface := &fakeSurface{fakeAnchor: fakeAnchor{rect: Rect{
			Width:  float64(rapid.IntRange(1, 40).Draw(t, "w")),
			Height: float64(rapid.IntRange(1, 12).Draw(t, "h")),
		}}}
		padding := float64(rapid.IntRange(0, 4).Draw(t, "padding"))
		x := float64(rapid.IntRange(-50, 150).Draw(t, "x"))
		y := float64(rapid.IntRange(-50, 150).Draw(t, "y"))

		pos, err := coord.ApplyCoordinatePosition(surface, x, y, padding, false)
		require.NoError(t, err)

		fl, _ := surface.Bounds()
		require.LessOrEqual(t, pos.X, 80-padding-fl.Width)
		require.GreaterOrEqual(t, pos.X, padding)
		require.LessOrEqual(t, pos.Y, 24-padding-fl.Height)
		require.GreaterOrEqual(t, pos.Y, padding)
	})
}

func TestCoordinator_AutoUpdate_AppliesImmediately(t *testing.T) {
	_, anchor, surface, coord := testFixture()

	sub, err := coord.AutoUpdate(anchor, surface, Options{
		Placement: Placement{Side: SideBottom, Align: AlignStart},
	})
	require.NoError(t, err)
	defer sub.Dispose()

	require.Equal(t, 1, surface.appliedCount())
	require.Equal(t, 11.0, surface.lastApplied().Y)
}

func TestCoordinator_AutoUpdate_RecomputesOnLayoutChange(t *testing.T) {
	layout, anchor, surface, coord := testFixture()

	sub, err := coord.AutoUpdate(anchor, surface, Options{
		Placement: Placement{Side: SideBottom, Align: AlignStart},
	})
	require.NoError(t, err)
	defer sub.Dispose()

	// The anchor moved during a reflow; a layout event retracks it.
	anchor.set(Rect{X: 50, Y: 4, Width: 10, Height: 1}, nil)
	layout.resize(Rect{Width: 80, Height: 24})

	require.Eventually(t, func() bool {
		return surface.appliedCount() >= 2 && surface.lastApplied().X == 50.0
	}, time.Second, 5*time.Millisecond)
}

func TestCoordinator_AutoUpdate_DisposeStopsTracking(t *testing.T) {
	layout, anchor, surface, coord := testFixture()

	sub, err := coord.AutoUpdate(anchor, surface, DefaultOptions())
	require.NoError(t, err)
	require.True(t, coord.Tracking(surface))

	sub.Dispose()
	require.False(t, coord.Tracking(surface))

	// A resize after disposal must not move the surface.
	applied := surface.appliedCount()
	layout.resize(Rect{Width: 100, Height: 40})
	time.Sleep(50 * time.Millisecond)
	require.Equal(t, applied, surface.appliedCount())

	// Double dispose is a safe no-op.
	sub.Dispose()
}

func TestCoordinator_AutoUpdate_FailedTickIsSkipped(t *testing.T) {
	layout, anchor, surface, coord := testFixture()

	sub, err := coord.AutoUpdate(anchor, surface, DefaultOptions())
	require.NoError(t, err)
	defer sub.Dispose()

	// A detached anchor fails the tick without tearing the
	// subscription down.
	anchor.set(Rect{}, ErrElementNotReady)
	layout.resize(Rect{Width: 80, Height: 24})
	time.Sleep(50 * time.Millisecond)
	require.Equal(t, 1, surface.appliedCount())

	// Next tick succeeds once the anchor is measurable again.
	anchor.set(Rect{X: 2, Y: 2, Width: 4, Height: 1}, nil)
	layout.resize(Rect{Width: 80, Height: 24})
	require.Eventually(t, func() bool {
		return surface.appliedCount() == 2
	}, time.Second, 5*time.Millisecond)
}

func TestCoordinator_AutoUpdate_ReacquireDisposesPrevious(t *testing.T) {
	layout, anchor, surface, coord := testFixture()

	first, err := coord.AutoUpdate(anchor, surface, DefaultOptions())
	require.NoError(t, err)

	second, err := coord.AutoUpdate(anchor, surface, DefaultOptions())
	require.NoError(t, err)
	defer second.Dispose()

	// The first subscription's listener is gone: only one remains on
	// the layout broker.
	require.Eventually(t, func() bool {
		return layout.broker.SubscriberCount() == 1
	}, time.Second, 5*time.Millisecond)
	require.True(t, coord.Tracking(surface))

	// Disposing the stale handle must not detach the live one.
	first.Dispose()
	require.True(t, coord.Tracking(surface))
}

func TestCoordinator_AutoUpdate_NotReadyFailsFast(t *testing.T) {
	_, anchor, surface, coord := testFixture()

	anchor.set(Rect{}, ErrElementNotReady)
	sub, err := coord.AutoUpdate(anchor, surface, DefaultOptions())

	require.ErrorIs(t, err, ErrElementNotReady)
	require.Nil(t, sub)
	require.False(t, coord.Tracking(surface))
}

func TestCoordinator_ShowHideFloating(t *testing.T) {
	_, anchor, surface, coord := testFixture()

	sub, err := coord.ShowFloating(surface, anchor, DefaultOptions())
	require.NoError(t, err)
	require.True(t, surface.isVisible())
	require.True(t, coord.Tracking(surface))

	coord.HideFloating(surface)
	require.False(t, surface.isVisible())

	sub.Dispose()
	require.False(t, coord.Tracking(surface))
}
