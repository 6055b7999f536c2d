package search

import (
	"encoding/base64"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/viewcraft/viewcraft/internal/component"
	"github.com/viewcraft/viewcraft/internal/hooks"
	"github.com/viewcraft/viewcraft/internal/query"
	"github.com/viewcraft/viewcraft/internal/urlutil"
)

// Term is one field's search criterion, used when building encoded
// search URLs programmatically.
type Term struct {
	Match MatchType
	Value any
}

// Encode renders terms into the wire format: urlsafe base64 over a
// JSON object keyed by field name.
func Encode(terms map[string]Term) (string, error) {
	js := "{}"
	var err error
	for field, term := range terms {
		if js, err = sjson.Set(js, field+".match", string(term.Match)); err != nil {
			return "", fmt.Errorf("search: encode %q: %w", field, err)
		}
		if js, err = sjson.Set(js, field+".value", term.Value); err != nil {
			return "", fmt.Errorf("search: encode %q: %w", field, err)
		}
	}
	return base64.URLEncoding.EncodeToString([]byte(js)), nil
}

// Component narrows the queryset by the decoded search criteria.
type Component struct {
	component.Base
	cfg *Config

	decoded bool
	params  gjson.Result
}

func newComponent(view component.View, cfg *Config) (*Component, error) {
	c := &Component{Base: component.NewBase(view, cfg.opts.Sequence), cfg: cfg}
	if err := c.Hooks().OnProcess(hooks.GetQueryset, c.processQueryset); err != nil {
		return nil, err
	}
	if err := c.Hooks().OnProcess(hooks.GetContextData, c.processContextData); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Component) processQueryset(result any) (any, error) {
	qs, ok := result.(*query.Queryset)
	if !ok {
		return nil, fmt.Errorf("search: queryset hook received %T", result)
	}

	params := c.searchParams()
	if !params.Exists() {
		return qs, nil
	}

	for _, spec := range c.cfg.opts.Fields {
		criterion := params.Get(spec.Name)
		if !criterion.Exists() {
			continue
		}
		match := spec.Default
		if m := criterion.Get("match"); m.Exists() {
			match = MatchType(m.String())
		}
		if !containsMatch(spec.Matches, match) {
			continue
		}
		value := criterion.Get("value")
		if !value.Exists() && match != IsNull {
			continue
		}
		if match.textual() && len(value.String()) < c.cfg.opts.MinLength {
			continue
		}
		if expr, args, ok := condition(spec.Name, match, value); ok {
			qs = qs.Filter(expr, args...)
		}
	}
	return qs, nil
}

func (c *Component) processContextData(result any) (any, error) {
	data, ok := result.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("search: context hook received %T", result)
	}

	encoded := c.Request().URL.Query().Get(c.cfg.opts.Param)
	data["search_encoded"] = encoded
	data["search_fields"] = c.cfg.opts.Fields
	if params := c.searchParams(); params.Exists() {
		data["search_params"] = params.Value()
		data["search_url"] = urlutil.WithParams(c.Request(), map[string]string{
			c.cfg.opts.Param: encoded,
		})
	} else {
		data["search_params"] = map[string]any{}
		data["search_url"] = urlutil.WithParams(c.Request(), nil, c.cfg.opts.Param)
	}
	return data, nil
}

// searchParams decodes the search parameter once per request. A
// payload that fails to decode is logged and treated as no search.
func (c *Component) searchParams() gjson.Result {
	if c.decoded {
		return c.params
	}
	c.decoded = true

	encoded := c.Request().URL.Query().Get(c.cfg.opts.Param)
	if encoded == "" {
		return c.params
	}

	raw, err := base64.URLEncoding.DecodeString(encoded)
	if err != nil {
		raw, err = base64.RawURLEncoding.DecodeString(encoded)
	}
	if err != nil || !gjson.ValidBytes(raw) {
		log.Warn().Str("param", c.cfg.opts.Param).Msg("undecodable search payload ignored")
		return c.params
	}
	c.params = gjson.ParseBytes(raw)
	return c.params
}

// condition translates one (field, match, value) triple into a SQL
// fragment. Case-sensitive prefix/suffix/contains use substr/instr;
// the case-insensitive variants use LIKE, which folds ASCII case in
// sqlite.
func condition(column string, match MatchType, value gjson.Result) (string, []any, bool) {
	switch match {
	case Exact:
		return column + " = ?", []any{value.Value()}, true
	case Contains:
		return "instr(" + column + ", ?) > 0", []any{value.String()}, true
	case IContains:
		return column + " LIKE ? ESCAPE '\\'", []any{"%" + escapeLike(value.String()) + "%"}, true
	case StartsWith:
		return "substr(" + column + ", 1, length(?)) = ?", []any{value.String(), value.String()}, true
	case IStartsWith:
		return column + " LIKE ? ESCAPE '\\'", []any{escapeLike(value.String()) + "%"}, true
	case EndsWith:
		return "substr(" + column + ", -length(?)) = ?", []any{value.String(), value.String()}, true
	case IEndsWith:
		return column + " LIKE ? ESCAPE '\\'", []any{"%" + escapeLike(value.String())}, true
	case GT:
		return column + " > ?", []any{value.Value()}, true
	case GTE:
		return column + " >= ?", []any{value.Value()}, true
	case LT:
		return column + " < ?", []any{value.Value()}, true
	case LTE:
		return column + " <= ?", []any{value.Value()}, true
	case Between:
		bounds := value.Array()
		if len(bounds) != 2 {
			return "", nil, false
		}
		return column + " BETWEEN ? AND ?", []any{bounds[0].Value(), bounds[1].Value()}, true
	case In:
		elems := value.Array()
		if len(elems) == 0 {
			return "", nil, false
		}
		placeholders := ""
		args := make([]any, len(elems))
		for i, e := range elems {
			if i > 0 {
				placeholders += ","
			}
			placeholders += "?"
			args[i] = e.Value()
		}
		return column + " IN (" + placeholders + ")", args, true
	case IsNull:
		if value.Exists() && !value.Bool() {
			return column + " IS NOT NULL", nil, true
		}
		return column + " IS NULL", nil, true
	}
	return "", nil, false
}

func escapeLike(s string) string {
	var out []byte
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '%', '_', '\\':
			out = append(out, '\\')
		}
		out = append(out, s[i])
	}
	return string(out)
}
