package floating

import "math"

// Compute resolves a placement for a floating rect relative to a
// reference rect inside a viewport. Pure computation: it never touches
// the surface. Adjustments compose in a fixed order: ideal coordinates
// for the requested side and alignment, then flip to the opposite side
// if the ideal overflows and the opposite fits, then shift along the
// cross axis by the minimum amount that clears the padding.
func Compute(ref, fl, vp Rect, opts Options) Position {
	p := opts.Placement
	if p.Side == "" {
		p.Side = SideBottom
	}
	if p.Align == "" {
		p.Align = AlignCenter
	}
	strategy := opts.Strategy
	if strategy == "" {
		strategy = StrategyAbsolute
	}

	width := fl.Width
	if opts.MatchReferenceWidth {
		width = ref.Width
	}
	sized := Rect{X: fl.X, Y: fl.Y, Width: width, Height: fl.Height}

	x, y := coordsFor(ref, sized, p, opts.Offset)

	if opts.Flip && overflowsMainAxis(x, y, sized, vp, p.Side, opts.Padding) {
		flipped := Placement{Side: p.Side.Opposite(), Align: p.Align}
		fx, fy := coordsFor(ref, sized, flipped, opts.Offset)
		if !overflowsMainAxis(fx, fy, sized, vp, flipped.Side, opts.Padding) {
			p, x, y = flipped, fx, fy
		}
	}

	if opts.Shift {
		if p.Side.Horizontal() {
			y = clamp(y, vp.Top()+opts.Padding, vp.Bottom()-opts.Padding-sized.Height)
		} else {
			x = clamp(x, vp.Left()+opts.Padding, vp.Right()-opts.Padding-sized.Width)
		}
	}

	pos := Position{
		X:               x,
		Y:               y,
		Placement:       p,
		Strategy:        strategy,
		TransformOrigin: transformOrigin(p),
	}
	if opts.MatchReferenceWidth {
		pos.MatchWidth = ref.Width
	}
	return pos
}

// coordsFor computes the ideal top-left corner for a placement before
// any collision avoidance.
func coordsFor(ref, fl Rect, p Placement, offset float64) (x, y float64) {
	switch p.Side {
	case SideTop:
		y = ref.Top() - fl.Height - offset
	case SideBottom:
		y = ref.Bottom() + offset
	case SideLeft:
		x = ref.Left() - fl.Width - offset
	case SideRight:
		x = ref.Right() + offset
	}

	if p.Side.Horizontal() {
		switch p.Align {
		case AlignStart:
			y = ref.Top()
		case AlignEnd:
			y = ref.Bottom() - fl.Height
		default:
			y = ref.CenterY() - fl.Height/2
		}
		return x, y
	}

	switch p.Align {
	case AlignStart:
		x = ref.Left()
	case AlignEnd:
		x = ref.Right() - fl.Width
	default:
		x = ref.CenterX() - fl.Width/2
	}
	return x, y
}

// overflowsMainAxis reports whether the floating rect placed at x,y
// crosses the viewport edge on the placement's main axis.
func overflowsMainAxis(x, y float64, fl, vp Rect, side Side, padding float64) bool {
	switch side {
	case SideTop:
		return y < vp.Top()+padding
	case SideBottom:
		return y+fl.Height > vp.Bottom()-padding
	case SideLeft:
		return x < vp.Left()+padding
	case SideRight:
		return x+fl.Width > vp.Right()-padding
	}
	return false
}

// InferSide derives the side a floating rect sits on relative to its
// reference by comparing centers: the axis with the larger delta wins,
// and the delta's sign picks the side. Used when a caller supplies
// only geometry, such as inferring which edge an arrow indicator
// belongs on.
func InferSide(ref, fl Rect) Side {
	dx := fl.CenterX() - ref.CenterX()
	dy := fl.CenterY() - ref.CenterY()

	if math.Abs(dx) > math.Abs(dy) {
		if dx < 0 {
			return SideLeft
		}
		return SideRight
	}
	if dy < 0 {
		return SideTop
	}
	return SideBottom
}
