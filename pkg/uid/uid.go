// Package uid generates opaque identifiers for request tracing.
package uid

import "github.com/google/uuid"

// New returns a fresh random identifier.
func New() string {
	return uuid.New().String()
}
