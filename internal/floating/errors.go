package floating

import "errors"

// ErrElementNotReady is returned when positioning is requested before
// the anchor or floating element has been measured by the layout
// capability. Callers retry after their next render pass rather than
// treating it as fatal.
var ErrElementNotReady = errors.New("element not ready for measurement")
