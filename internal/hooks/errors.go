package hooks

import (
	"errors"
	"fmt"
)

// Sentinel errors for the component system. Hook-body errors are never
// wrapped by the dispatch engine; these cover the framework's own
// failure modes so callers can tell "component setup is broken" from
// "a specific hook raised".
var (
	// ErrConfiguration indicates a component config was constructed
	// with invalid parameters. Raised at config construction, before
	// any request is served.
	ErrConfiguration = errors.New("viewcraft: invalid component configuration")

	// ErrComponent indicates component initialization failed. Wraps
	// the underlying cause; raised once per failed initialization
	// attempt, not per hook call.
	ErrComponent = errors.New("viewcraft: component initialization failed")

	// ErrUnknownHook indicates a hook lookup or registration used a
	// name outside the closed Point enumeration.
	ErrUnknownHook = errors.New("viewcraft: unknown hook point")
)

func unknownHook(p Point) error {
	return fmt.Errorf("%w: %q", ErrUnknownHook, string(p))
}

// ConfigErrorf builds an ErrConfiguration-wrapped error. Component
// config constructors use it so validation failures share one root.
func ConfigErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrConfiguration, fmt.Sprintf(format, args...))
}
