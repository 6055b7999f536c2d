// Package view implements the composable list view: a per-request view
// instance whose lifecycle methods route through a phased hook chain
// shaped by the configured components.
//
// DESIGN: One ListView per inbound request. Lifecycle methods
// (GetQueryset, GetContextData, Get, ...) call the dispatch engine
// explicitly as their body, with the base behavior passed as a
// closure. The hook-point set is the closed enumeration in
// internal/hooks; nothing else is interceptable.
//
// FLOW for a GET request:
//
//	Handler → Get → [setup chain] → [get chain]
//	  get base → GetContextData → [get_context_data chain]
//	    context base → GetQueryset → [get_queryset chain]
//	  → RenderToResponse → [render_to_response chain]
package view

import (
	"bytes"
	"html/template"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/viewcraft/viewcraft/internal/component"
	"github.com/viewcraft/viewcraft/internal/hooks"
	"github.com/viewcraft/viewcraft/internal/query"
)

// Options configures a ListView. Configs is the immutable component
// declaration for the view; it is captured at construction and never
// shared mutable state.
type Options struct {
	// Source produces the base queryset (the un-hooked get_queryset).
	Source func(r *http.Request) *query.Queryset

	// Collect materializes the final queryset into the object list
	// placed in the template context. When nil, the queryset itself is
	// stored under "object_list".
	Collect func(r *http.Request, qs *query.Queryset) (any, error)

	// Extra supplies additional base context entries, merged before
	// the get_context_data process phase runs.
	Extra func(r *http.Request) map[string]any

	// Template renders the context in the base render_to_response.
	Template *template.Template

	// Configs declares the view's components, in declaration order.
	Configs []component.Config

	// Logger defaults to the global zerolog logger.
	Logger *zerolog.Logger
}

// Response is the value a request lifecycle resolves to. The handler
// writes it out; hooks may replace or reshape it like any other result.
type Response struct {
	Status int
	Header http.Header
	Body   []byte
}

// NewResponse builds a response with an initialized header map.
func NewResponse(status int, body []byte) *Response {
	return &Response{Status: status, Header: make(http.Header), Body: body}
}

// ListView is a per-request, component-aware list view.
type ListView struct {
	opts Options
	req  *http.Request
	log  zerolog.Logger

	// components is installed atomically by Setup; nil means
	// initialization has not happened yet.
	components []component.Component
	setupDone  bool
}

// New creates a view instance bound to one request.
func New(r *http.Request, opts Options) *ListView {
	logger := log.Logger
	if opts.Logger != nil {
		logger = *opts.Logger
	}
	return &ListView{opts: opts, req: r, log: logger}
}

// Request returns the inbound request. Satisfies component.View.
func (v *ListView) Request() *http.Request { return v.req }

// Components returns the initialized components in execution order.
// Nil until the first hook chain (or Setup) runs.
func (v *ListView) Components() []component.Component { return v.components }

// GetQueryset resolves the view's queryset through the get_queryset
// hook chain.
func (v *ListView) GetQueryset() (*query.Queryset, error) {
	result, err := v.dispatch(hooks.GetQueryset, func() (any, error) {
		return v.opts.Source(v.req), nil
	})
	if err != nil {
		return nil, err
	}
	return resultAs[*query.Queryset](hooks.GetQueryset, result)
}

// GetContextData resolves the template context through the
// get_context_data hook chain. The base context carries the final
// queryset under "queryset" and the materialized rows under
// "object_list".
func (v *ListView) GetContextData() (map[string]any, error) {
	result, err := v.dispatch(hooks.GetContextData, v.baseContextData)
	if err != nil {
		return nil, err
	}
	return resultAs[map[string]any](hooks.GetContextData, result)
}

func (v *ListView) baseContextData() (any, error) {
	qs, err := v.GetQueryset()
	if err != nil {
		return nil, err
	}
	data := map[string]any{"queryset": qs}
	if v.opts.Collect != nil {
		objects, err := v.opts.Collect(v.req, qs)
		if err != nil {
			return nil, err
		}
		data["object_list"] = objects
	} else {
		data["object_list"] = qs
	}
	if v.opts.Extra != nil {
		for key, value := range v.opts.Extra(v.req) {
			data[key] = value
		}
	}
	return data, nil
}

// RenderToResponse renders data through the render_to_response hook
// chain. The base implementation executes the configured template.
func (v *ListView) RenderToResponse(data map[string]any) (*Response, error) {
	result, err := v.dispatch(hooks.RenderToResponse, func() (any, error) {
		var buf bytes.Buffer
		if err := v.opts.Template.Execute(&buf, data); err != nil {
			return nil, err
		}
		resp := NewResponse(http.StatusOK, buf.Bytes())
		resp.Header.Set("Content-Type", "text/html; charset=utf-8")
		return resp, nil
	})
	if err != nil {
		return nil, err
	}
	return resultAs[*Response](hooks.RenderToResponse, result)
}

// Get handles a GET request: the setup chain runs first (its
// short-circuit value, if any, is discarded), then the get chain,
// whose base builds the context and renders it.
func (v *ListView) Get() (*Response, error) {
	if err := v.runSetupChain(); err != nil {
		return nil, err
	}
	result, err := v.dispatch(hooks.Get, func() (any, error) {
		data, err := v.GetContextData()
		if err != nil {
			return nil, err
		}
		return v.RenderToResponse(data)
	})
	if err != nil {
		return nil, err
	}
	return resultAs[*Response](hooks.Get, result)
}

// Post handles a POST request. The list view has no base POST
// behavior, so unless a component short-circuits or replaces the
// result, the answer is 405.
func (v *ListView) Post() (*Response, error) {
	if err := v.runSetupChain(); err != nil {
		return nil, err
	}
	result, err := v.dispatch(hooks.Post, func() (any, error) {
		resp := NewResponse(http.StatusMethodNotAllowed, []byte("method not allowed\n"))
		resp.Header.Set("Allow", http.MethodGet)
		return resp, nil
	})
	if err != nil {
		return nil, err
	}
	return resultAs[*Response](hooks.Post, result)
}

// runSetupChain dispatches the setup hook point. Setup produces no
// result; a pre-hook short-circuit here only ends the setup chain.
func (v *ListView) runSetupChain() error {
	_, err := v.dispatch(hooks.Setup, func() (any, error) { return nil, nil })
	return err
}
