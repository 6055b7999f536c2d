// Package search provides the multi-field search component. Search
// criteria travel in one query parameter as urlsafe base64 over a JSON
// object keyed by field name:
//
//	{"title":{"match":"icontains","value":"harbor"},
//	 "likes":{"match":"gte","value":10}}
//
// Each field spec declares which match types it accepts; anything
// outside the spec is ignored. An undecodable payload is logged and
// treated as no search at all, never a request failure.
package search

import (
	"github.com/viewcraft/viewcraft/internal/component"
	"github.com/viewcraft/viewcraft/internal/hooks"
)

// MatchType names a comparison strategy for one field.
type MatchType string

const (
	Exact       MatchType = "exact"
	Contains    MatchType = "contains"
	IContains   MatchType = "icontains"
	StartsWith  MatchType = "startswith"
	IStartsWith MatchType = "istartswith"
	EndsWith    MatchType = "endswith"
	IEndsWith   MatchType = "iendswith"
	GT          MatchType = "gt"
	GTE         MatchType = "gte"
	LT          MatchType = "lt"
	LTE         MatchType = "lte"
	Between     MatchType = "between"
	In          MatchType = "in"
	IsNull      MatchType = "isnull"
)

// TextMatches are the match types suited to text columns.
func TextMatches() []MatchType {
	return []MatchType{Exact, Contains, IContains, StartsWith, IStartsWith, EndsWith, IEndsWith}
}

// NumericMatches are the match types suited to numeric columns.
func NumericMatches() []MatchType {
	return []MatchType{Exact, GT, GTE, LT, LTE, Between, In}
}

// DateMatches are the match types suited to date columns.
func DateMatches() []MatchType {
	return []MatchType{Exact, GT, GTE, LT, LTE, Between}
}

// textual reports whether the match compares string content, which is
// what the min-length gate applies to.
func (m MatchType) textual() bool {
	switch m {
	case Contains, IContains, StartsWith, IStartsWith, EndsWith, IEndsWith:
		return true
	}
	return false
}

// FieldSpec declares one searchable field.
type FieldSpec struct {
	Name    string
	Label   string      // defaults to Name
	Matches []MatchType // allowed match types; first is the default
	Default MatchType   // used when the request omits "match"
}

// Options declares search behavior.
type Options struct {
	Param     string // query parameter name; default "q"
	MinLength int    // minimum length for textual search terms; default 2
	Fields    []FieldSpec
	Sequence  int // defaults to -100 so search runs before other filters
}

// Config is the validated, immutable search configuration.
type Config struct {
	opts   Options
	fields map[string]FieldSpec
}

// NewConfig validates opts and returns the config.
func NewConfig(opts Options) (*Config, error) {
	if opts.Param == "" {
		opts.Param = "q"
	}
	if opts.MinLength == 0 {
		opts.MinLength = 2
	}
	if opts.Sequence == 0 {
		opts.Sequence = -100
	}
	if opts.MinLength < 1 {
		return nil, hooks.ConfigErrorf("search: min_length must be positive, got %d", opts.MinLength)
	}
	if len(opts.Fields) == 0 {
		return nil, hooks.ConfigErrorf("search: at least one searchable field is required")
	}

	fields := make(map[string]FieldSpec, len(opts.Fields))
	for i, spec := range opts.Fields {
		if spec.Name == "" {
			return nil, hooks.ConfigErrorf("search: field %d has no name", i)
		}
		if _, dup := fields[spec.Name]; dup {
			return nil, hooks.ConfigErrorf("search: duplicate field %q", spec.Name)
		}
		if len(spec.Matches) == 0 {
			return nil, hooks.ConfigErrorf("search: no match types for field %q", spec.Name)
		}
		if spec.Default == "" {
			spec.Default = spec.Matches[0]
		}
		if !containsMatch(spec.Matches, spec.Default) {
			return nil, hooks.ConfigErrorf(
				"search: default match %q not allowed for field %q", spec.Default, spec.Name)
		}
		if spec.Label == "" {
			spec.Label = spec.Name
		}
		fields[spec.Name] = spec
		opts.Fields[i] = spec
	}
	return &Config{opts: opts, fields: fields}, nil
}

// Sequence returns the ordering key.
func (c *Config) Sequence() int { return c.opts.Sequence }

// Build constructs the search component for view.
func (c *Config) Build(view component.View) (component.Component, error) {
	return newComponent(view, c)
}

func containsMatch(matches []MatchType, m MatchType) bool {
	for _, candidate := range matches {
		if candidate == m {
			return true
		}
	}
	return false
}
