package floating

// Rect is an axis-aligned rectangle in screen coordinates.
// Edge accessors tolerate negative extents the way the Geometry
// Interfaces spec defines them: Top is the smaller of y and y+height,
// Bottom the larger, and likewise for Left/Right.
type Rect struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// Top returns the top edge.
func (r Rect) Top() float64 {
	if r.Height < 0 {
		return r.Y + r.Height
	}
	return r.Y
}

// Bottom returns the bottom edge.
func (r Rect) Bottom() float64 {
	if r.Height < 0 {
		return r.Y
	}
	return r.Y + r.Height
}

// Left returns the left edge.
func (r Rect) Left() float64 {
	if r.Width < 0 {
		return r.X + r.Width
	}
	return r.X
}

// Right returns the right edge.
func (r Rect) Right() float64 {
	if r.Width < 0 {
		return r.X
	}
	return r.X + r.Width
}

// CenterX returns the horizontal center.
func (r Rect) CenterX() float64 {
	return r.Left() + (r.Right()-r.Left())/2
}

// CenterY returns the vertical center.
func (r Rect) CenterY() float64 {
	return r.Top() + (r.Bottom()-r.Top())/2
}

// Empty reports whether the rect has no area.
func (r Rect) Empty() bool {
	return r.Width == 0 || r.Height == 0
}

func clamp(v, lo, hi float64) float64 {
	// When the range is inverted (content larger than the space) the
	// lower bound wins so the start edge stays visible.
	if v > hi {
		v = hi
	}
	if v < lo {
		v = lo
	}
	return v
}
