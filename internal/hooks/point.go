// Package hooks defines the hook-dispatch vocabulary for viewcraft:
// the closed set of hookable view lifecycle methods (Point), the typed
// hook function signatures for each phase, and the per-component
// dispatch table (Set) built by explicit registration.
//
// DESIGN: Registration is explicit and happens once, at component
// construction. There is no runtime name matching and no attribute
// interception: a view's lifecycle methods call the dispatch engine
// directly, and every lookup is gated by the closed Point enumeration.
package hooks

// Point names a view lifecycle method eligible for hook interception.
// Only values declared below are valid; Set rejects anything else at
// both registration and lookup.
type Point string

const (
	// Setup runs before any other lifecycle chain for a request.
	Setup Point = "setup"

	// Queryset lifecycle.
	GetQueryset      Point = "get_queryset"
	GetContextData   Point = "get_context_data"
	GetTemplateNames Point = "get_template_names"

	// HTTP method entry points.
	Get  Point = "get"
	Post Point = "post"

	// Form handling.
	GetForm      Point = "get_form"
	GetFormClass Point = "get_form_class"
	FormValid    Point = "form_valid"
	FormInvalid  Point = "form_invalid"

	// Response rendering.
	RenderToResponse Point = "render_to_response"
)

// points is the membership set backing Valid. Kept in declaration
// order for Points().
var points = []Point{
	Setup,
	GetQueryset,
	GetContextData,
	GetTemplateNames,
	Get,
	Post,
	GetForm,
	GetFormClass,
	FormValid,
	FormInvalid,
	RenderToResponse,
}

var pointSet = func() map[Point]struct{} {
	m := make(map[Point]struct{}, len(points))
	for _, p := range points {
		m[p] = struct{}{}
	}
	return m
}()

// Valid reports whether p is a member of the closed hook-point set.
func (p Point) Valid() bool {
	_, ok := pointSet[p]
	return ok
}

// String returns the lifecycle method name.
func (p Point) String() string { return string(p) }

// Points returns all hook points in declaration order.
func Points() []Point {
	out := make([]Point, len(points))
	copy(out, points)
	return out
}

// ParsePoint converts a method name into a Point, failing with
// ErrUnknownHook for names outside the closed set.
func ParsePoint(name string) (Point, error) {
	p := Point(name)
	if !p.Valid() {
		return "", unknownHook(p)
	}
	return p, nil
}
