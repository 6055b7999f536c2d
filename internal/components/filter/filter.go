// Package filter provides the field-filtering component. It reads a
// single query parameter of the form
//
//	filter=status:published,category:[Travel,Food]
//
// and narrows the queryset to rows matching every named field. A
// bracketed value list becomes an IN clause. Fields not declared in
// the config, and values outside a field's whitelist, are ignored
// rather than rejected.
package filter

import (
	"fmt"
	"strings"

	"github.com/viewcraft/viewcraft/internal/component"
	"github.com/viewcraft/viewcraft/internal/hooks"
	"github.com/viewcraft/viewcraft/internal/query"
)

// Options declares which fields may be filtered. The map value is an
// optional whitelist of allowed values; empty means any value.
type Options struct {
	Fields   map[string][]string
	Param    string // query parameter name; default "filter"
	Sequence int
}

// Config is the validated, immutable filter configuration.
type Config struct {
	opts Options
}

// NewConfig validates opts and returns the config.
func NewConfig(opts Options) (*Config, error) {
	if opts.Param == "" {
		opts.Param = "filter"
	}
	if len(opts.Fields) == 0 {
		return nil, hooks.ConfigErrorf("filter: at least one filterable field is required")
	}
	for field := range opts.Fields {
		if strings.TrimSpace(field) == "" {
			return nil, hooks.ConfigErrorf("filter: empty field name")
		}
	}
	return &Config{opts: opts}, nil
}

// Sequence returns the ordering key.
func (c *Config) Sequence() int { return c.opts.Sequence }

// Build constructs the filter component for view.
func (c *Config) Build(view component.View) (component.Component, error) {
	return newComponent(view, c.opts)
}

// Component applies the parsed filters to the queryset.
type Component struct {
	component.Base
	opts   Options
	parsed map[string][]string // lazily parsed from the request
}

func newComponent(view component.View, opts Options) (*Component, error) {
	c := &Component{Base: component.NewBase(view, opts.Sequence), opts: opts}
	if err := c.Hooks().OnProcess(hooks.GetQueryset, c.processQueryset); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Component) processQueryset(result any) (any, error) {
	qs, ok := result.(*query.Queryset)
	if !ok {
		return nil, fmt.Errorf("filter: queryset hook received %T", result)
	}
	for field, values := range c.filters() {
		switch len(values) {
		case 0:
		case 1:
			qs = qs.Filter(field+" = ?", values[0])
		default:
			args := make([]any, len(values))
			for i, v := range values {
				args[i] = v
			}
			qs = qs.FilterIn(field, args...)
		}
	}
	return qs, nil
}

// filters parses the filter parameter once per request.
func (c *Component) filters() map[string][]string {
	if c.parsed != nil {
		return c.parsed
	}
	c.parsed = map[string][]string{}

	raw := c.Request().URL.Query().Get(c.opts.Param)
	if raw == "" {
		return c.parsed
	}

	for _, part := range splitTopLevel(raw) {
		field, value, found := strings.Cut(part, ":")
		if !found {
			continue
		}
		allowed, known := c.opts.Fields[field]
		if !known {
			continue
		}

		var values []string
		if strings.HasPrefix(value, "[") && strings.HasSuffix(value, "]") {
			for _, v := range strings.Split(value[1:len(value)-1], ",") {
				values = append(values, strings.TrimSpace(v))
			}
		} else {
			values = []string{value}
		}

		values = keepAllowed(values, allowed)
		if len(values) > 0 {
			c.parsed[field] = values
		}
	}
	return c.parsed
}

// splitTopLevel splits on commas that are not inside a bracketed value
// list, so "a:[x,y],b:z" yields two parts.
func splitTopLevel(s string) []string {
	var parts []string
	depth := 0
	start := 0
	for i, r := range s {
		switch r {
		case '[':
			depth++
		case ']':
			if depth > 0 {
				depth--
			}
		case ',':
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	return append(parts, s[start:])
}

func keepAllowed(values, allowed []string) []string {
	if len(allowed) == 0 {
		return values
	}
	kept := values[:0]
	for _, v := range values {
		for _, a := range allowed {
			if v == a {
				kept = append(kept, v)
				break
			}
		}
	}
	return kept
}
