package floating

// ArrowOffset computes an arrow indicator's offset along the floating
// element's anchor-facing edge so it points at the anchor's center.
// The result is measured from the floating element's start edge on the
// cross axis (left edge for top/bottom placements, top edge for
// left/right) and clamped by padding so the indicator never overhangs
// a corner. Recompute on the same cadence as auto-update.
func ArrowOffset(ref, fl Rect, side Side, arrowSize, padding float64) float64 {
	if side.Horizontal() {
		target := ref.CenterY() - fl.Top() - arrowSize/2
		return clamp(target, padding, fl.Height-arrowSize-padding)
	}
	target := ref.CenterX() - fl.Left() - arrowSize/2
	return clamp(target, padding, fl.Width-arrowSize-padding)
}
