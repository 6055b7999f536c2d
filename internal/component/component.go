// Package component defines the contracts between the dispatch engine
// and the units of behavior it orchestrates. The engine never needs to
// know about concrete component types: it sees only Sequence() for
// ordering and Hooks() for the dispatch table.
package component

import (
	"net/http"

	"github.com/viewcraft/viewcraft/internal/hooks"
)

// View is the back-reference a component holds to its owning view.
// It is deliberately minimal: components read the inbound request (for
// query parameters and context) and nothing else, so the view stays
// free to be garbage collected on its own terms.
type View interface {
	// Request returns the inbound HTTP request being handled.
	Request() *http.Request
}

// Component is a per-view-instance unit of behavior. Implementations
// register their hooks once, at construction, and expose them through
// Hooks(). Lower Sequence runs earlier in every phase.
type Component interface {
	Sequence() int
	Hooks() *hooks.Set
}

// Config is an immutable, validated factory for a Component. Build is
// called exactly once per view instance, during lazy initialization,
// and must be side-effect-free with respect to other configs.
// Parameter validation belongs in the config constructor (fail fast),
// not in Build.
type Config interface {
	Sequence() int
	Build(view View) (Component, error)
}

// Base carries the state every component shares: the view
// back-reference, the ordering key, the dispatch table, and HookData,
// a scratch map scoped to the component's lifetime. HookData persists
// across phases and across dispatches of different hook points within
// one view instance, and is never shared between components.
//
// Construction must not perform I/O.
type Base struct {
	view     View
	sequence int
	hookSet  *hooks.Set

	// HookData is the component's private scratch space. A pre-hook
	// can stash a value here for the same component's process-hook to
	// read later in the dispatch, or in a later dispatch.
	HookData map[string]any
}

// NewBase initializes the shared component state.
func NewBase(view View, sequence int) Base {
	return Base{
		view:     view,
		sequence: sequence,
		hookSet:  hooks.NewSet(),
		HookData: make(map[string]any),
	}
}

// View returns the owning view.
func (b *Base) View() View { return b.view }

// Sequence returns the ordering key; lower runs earlier.
func (b *Base) Sequence() int { return b.sequence }

// Hooks returns the component's dispatch table.
func (b *Base) Hooks() *hooks.Set { return b.hookSet }

// Request is a convenience accessor for the owning view's request.
func (b *Base) Request() *http.Request { return b.view.Request() }
