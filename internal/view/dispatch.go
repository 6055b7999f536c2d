package view

import (
	"fmt"
	"sort"

	"github.com/viewcraft/viewcraft/internal/component"
	"github.com/viewcraft/viewcraft/internal/hooks"
)

// Setup builds the ordered component list from the configured
// component configs. It runs lazily on the first dispatched hook chain
// and is idempotent: once components are installed, repeated calls are
// no-ops and the factories never run again.
//
// Initialization is atomic: if any Build fails, no partial component
// list is installed and the error is reported wrapped in
// hooks.ErrComponent so callers can tell setup breakage apart from a
// hook failure.
func (v *ListView) Setup() error {
	if v.setupDone {
		return nil
	}
	if v.components == nil {
		built := make([]component.Component, 0, len(v.opts.Configs))
		for _, cfg := range v.opts.Configs {
			c, err := cfg.Build(v)
			if err != nil {
				return fmt.Errorf("%w: %w", hooks.ErrComponent, err)
			}
			built = append(built, c)
		}
		// Stable: equal sequences keep declaration order.
		sort.SliceStable(built, func(i, j int) bool {
			return built[i].Sequence() < built[j].Sequence()
		})
		v.components = built
		v.log.Debug().Int("components", len(built)).Msg("components initialized")
	}
	v.setupDone = true
	return nil
}

// dispatch runs the phased hook chain for point around base, the
// underlying method implementation.
//
// Phases, in component order (ascending sequence, stable on ties,
// identical across phases):
//  1. pre: any non-nil return value short-circuits the whole dispatch
//     and becomes the result; base and all later phases are skipped.
//  2. main: base runs exactly once.
//  3. process: left-to-right pipeline; each hook's return value
//     replaces the result, nil included.
//  4. post: side effects only; return values beyond error do not exist.
//
// Any error from a hook or from base propagates unmodified; no later
// phase runs after an error. With no components, or none hooked on
// point, the result is exactly base's.
func (v *ListView) dispatch(point hooks.Point, base func() (any, error)) (any, error) {
	if err := v.Setup(); err != nil {
		return nil, err
	}
	if len(v.components) == 0 {
		return base()
	}

	for _, c := range v.components {
		pre, err := c.Hooks().Pre(point)
		if err != nil {
			return nil, err
		}
		if pre == nil {
			continue
		}
		value, err := pre()
		if err != nil {
			return nil, err
		}
		if value != nil {
			v.log.Debug().
				Str("point", point.String()).
				Int("sequence", c.Sequence()).
				Msg("pre-hook short-circuit")
			return value, nil
		}
	}

	result, err := base()
	if err != nil {
		return nil, err
	}

	for _, c := range v.components {
		process, err := c.Hooks().Process(point)
		if err != nil {
			return nil, err
		}
		if process == nil {
			continue
		}
		result, err = process(result)
		if err != nil {
			return nil, err
		}
	}

	for _, c := range v.components {
		post, err := c.Hooks().Post(point)
		if err != nil {
			return nil, err
		}
		if post == nil {
			continue
		}
		if err := post(); err != nil {
			return nil, err
		}
	}

	return result, nil
}

// resultAs re-asserts the lifecycle method's result type at the typed
// boundary. Hooks exchange results as any; a hook that substitutes the
// wrong type is a bug surfaced as an error, not a panic.
func resultAs[T any](point hooks.Point, value any) (T, error) {
	typed, ok := value.(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("viewcraft: %s hook chain produced %T, want %T", point, value, zero)
	}
	return typed, nil
}
