package portal

import (
	"fmt"

	"github.com/google/uuid"
)

// NewID generates a registry id for a widget instance. Ids are unique
// registry-wide, so each widget instance should mint its own once and
// reuse it across re-registrations.
func NewID(prefix string) string {
	if prefix == "" {
		return uuid.NewString()
	}
	return fmt.Sprintf("%s-%s", prefix, uuid.NewString())
}
