package floating

import (
	"fmt"
	"strings"
)

// Side is the edge of the anchor the floating element attaches to.
type Side string

const (
	SideTop    Side = "top"
	SideBottom Side = "bottom"
	SideLeft   Side = "left"
	SideRight  Side = "right"
)

// Opposite returns the side across the anchor, used by flip.
func (s Side) Opposite() Side {
	switch s {
	case SideTop:
		return SideBottom
	case SideBottom:
		return SideTop
	case SideLeft:
		return SideRight
	case SideRight:
		return SideLeft
	default:
		return s
	}
}

// Horizontal reports whether the side's main axis is horizontal.
func (s Side) Horizontal() bool {
	return s == SideLeft || s == SideRight
}

// Align positions the floating element along the anchor's cross axis.
type Align string

const (
	AlignStart  Align = "start"
	AlignCenter Align = "center"
	AlignEnd    Align = "end"
)

// Placement is a side plus a cross-axis alignment.
type Placement struct {
	Side  Side
	Align Align
}

// String renders the placement in the "bottom-start" form; center
// alignment is implied and omitted.
func (p Placement) String() string {
	if p.Align == "" || p.Align == AlignCenter {
		return string(p.Side)
	}
	return fmt.Sprintf("%s-%s", p.Side, p.Align)
}

// ParsePlacement parses strings like "top", "bottom-start", "left-end".
func ParsePlacement(s string) (Placement, error) {
	side, align, found := strings.Cut(s, "-")
	p := Placement{Side: Side(side), Align: AlignCenter}
	switch p.Side {
	case SideTop, SideBottom, SideLeft, SideRight:
	default:
		return Placement{}, fmt.Errorf("invalid placement side %q", side)
	}
	if found {
		p.Align = Align(align)
		switch p.Align {
		case AlignStart, AlignCenter, AlignEnd:
		default:
			return Placement{}, fmt.Errorf("invalid placement alignment %q", align)
		}
	}
	return p, nil
}

// Strategy selects the positioning coordinate space.
type Strategy string

const (
	// StrategyAbsolute positions within the scrolled document space.
	StrategyAbsolute Strategy = "absolute"
	// StrategyFixed positions within the viewport, unaffected by
	// scrolling. Coordinate placement always uses this.
	StrategyFixed Strategy = "fixed"
)

// Position is a resolved placement: the coordinates to apply plus the
// metadata needed for a correct transform-origin on scale/fade
// animations. Positions are ephemeral and recomputed per call or per
// auto-update tick.
type Position struct {
	X               float64
	Y               float64
	Placement       Placement
	Strategy        Strategy
	TransformOrigin string
	// MatchWidth is the forced inline size when the options requested
	// width matching against the anchor; zero means no override.
	MatchWidth float64
}

// Options is the placement policy for a single computation.
type Options struct {
	// Placement is the requested side and alignment.
	Placement Placement
	// Offset is the gap in cells between the anchor edge and the
	// floating element.
	Offset float64
	// Flip tries the opposite side when the requested side overflows
	// the viewport.
	Flip bool
	// Shift slides along the cross axis to stay inside the viewport.
	Shift bool
	// Padding is the minimum distance kept from viewport edges by
	// flip, shift, and coordinate clamping.
	Padding float64
	// Strategy selects absolute or fixed positioning.
	Strategy Strategy
	// MatchReferenceWidth forces the floating element's width to the
	// anchor's measured width, for select/combobox style dropdowns.
	MatchReferenceWidth bool
}

// DefaultOptions places below the anchor, aligned to its start edge,
// with collision avoidance on.
func DefaultOptions() Options {
	return Options{
		Placement: Placement{Side: SideBottom, Align: AlignStart},
		Offset:    0,
		Flip:      true,
		Shift:     true,
		Padding:   1,
		Strategy:  StrategyAbsolute,
	}
}

// transformOrigin derives the animation origin from the final
// placement: the origin sits on the edge facing the anchor, shifted to
// the aligned corner.
func transformOrigin(p Placement) string {
	if p.Side.Horizontal() {
		x := "left"
		if p.Side == SideLeft {
			x = "right"
		}
		y := "center"
		switch p.Align {
		case AlignStart:
			y = "top"
		case AlignEnd:
			y = "bottom"
		}
		return x + " " + y
	}

	y := "top"
	if p.Side == SideTop {
		y = "bottom"
	}
	x := "center"
	switch p.Align {
	case AlignStart:
		x = "left"
	case AlignEnd:
		x = "right"
	}
	return x + " " + y
}
