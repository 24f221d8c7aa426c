package portal

// Category is the z-index tier an entry renders in.
type Category int

const (
	// CategoryContainer holds backdrop-bearing overlays (dialogs,
	// sheets, drawers). Rendered in the lower tier.
	CategoryContainer Category = iota
	// CategoryOverlay holds floating, non-modal content (popovers,
	// tooltips, dropdowns, menus). Rendered above the container tier.
	CategoryOverlay
)

// Categories lists all tiers in render order, lowest first.
func Categories() []Category {
	return []Category{CategoryContainer, CategoryOverlay}
}

func (c Category) String() string {
	switch c {
	case CategoryContainer:
		return "container"
	case CategoryOverlay:
		return "overlay"
	default:
		return "unknown"
	}
}
