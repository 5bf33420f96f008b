// Package destinations defines the contracts shared by every downstream
// system a captured lead is written to or delivered to.
package destinations

import (
	"context"
	"errors"
	"fmt"

	"github.com/derintolu/frs-lead-pages-sub002/internal/store"
)

// ErrDependencyUnavailable signals that a destination could not be reached or
// is not installed. It is a deployment condition, not a bad-input condition:
// the orchestrator reacts by falling back or skipping, never by rejecting the
// visitor's submission.
var ErrDependencyUnavailable = errors.New("dependency unavailable")

// Unavailable wraps cause as a dependency-unavailable condition.
func Unavailable(name string, cause error) error {
	return fmt.Errorf("%s: %w: %w", name, ErrDependencyUnavailable, cause)
}

// CanonicalWriter is one strategy for the durable write of a submission. The
// orchestrator tries writers in order; ErrDependencyUnavailable means "try
// the next strategy", any other error is a real write failure.
type CanonicalWriter interface {
	Name() string
	Store(ctx context.Context, params store.CreateLeadParams) (store.Lead, error)
}

// Destination accepts a copy of a captured lead for secondary processing and
// reports the outcome. Destination failures never gate the visitor response.
type Destination interface {
	Name() string
	Deliver(ctx context.Context, lead store.Lead) error
}
