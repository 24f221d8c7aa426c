package floating

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestArrowOffset_PointsAtAnchorCenter(t *testing.T) {
	ref := Rect{X: 30, Y: 10, Width: 10, Height: 1} // center x 35
	fl := Rect{X: 28, Y: 11, Width: 20, Height: 5}

	off := ArrowOffset(ref, fl, SideBottom, 1, 1)

	// 35 - 28 - 0.5
	require.Equal(t, 6.5, off)
}

func TestArrowOffset_ClampedAtCorners(t *testing.T) {
	// Floating shifted far from the anchor: the indicator stops at the
	// padding instead of overhanging the corner.
	ref := Rect{X: 0, Y: 10, Width: 4, Height: 1}
	fl := Rect{X: 40, Y: 11, Width: 20, Height: 5}

	off := ArrowOffset(ref, fl, SideBottom, 2, 1)
	require.Equal(t, 1.0, off)

	farRef := Rect{X: 70, Y: 10, Width: 4, Height: 1}
	off = ArrowOffset(farRef, fl, SideBottom, 2, 1)
	require.Equal(t, 17.0, off) // 20 - 2 - 1
}

func TestArrowOffset_HorizontalSides(t *testing.T) {
	ref := Rect{X: 30, Y: 10, Width: 10, Height: 4} // center y 12
	fl := Rect{X: 41, Y: 8, Width: 20, Height: 10}

	off := ArrowOffset(ref, fl, SideRight, 2, 1)

	// 12 - 8 - 1
	require.Equal(t, 3.0, off)
}

func TestArrowOffset_SideFromInference(t *testing.T) {
	// Callers that only have geometry infer the side first, then place
	// the arrow on the anchor-facing edge.
	ref := Rect{X: 30, Y: 10, Width: 10, Height: 1}
	fl := Rect{X: 28, Y: 12, Width: 20, Height: 5}

	side := InferSide(ref, fl)
	require.Equal(t, SideBottom, side)

	off := ArrowOffset(ref, fl, side, 1, 1)
	require.Equal(t, 6.5, off)
}
