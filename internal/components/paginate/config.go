// Package paginate provides the pagination component: it slices the
// view's queryset to the requested page and publishes a page object
// (numbers, ranges, navigation URLs) into the template context.
package paginate

import (
	"fmt"
	"net/http"

	"github.com/viewcraft/viewcraft/internal/component"
	"github.com/viewcraft/viewcraft/internal/hooks"
)

// Options declares pagination behavior. Zero values fall back to the
// defaults noted per field.
type Options struct {
	PerPage      int    // page size; default 10
	PageParam    string // query parameter carrying the page; default "page"
	MaxPages     int    // cap on total pages; 0 means unlimited
	VisiblePages int    // page numbers shown in navigation; default 5
	Sequence     int    // component ordering key
}

// Config is the validated, immutable pagination configuration.
type Config struct {
	opts Options
}

// NewConfig validates opts and returns the config. Validation happens
// here, not at Build, so a bad page size is caught before any view is
// touched.
func NewConfig(opts Options) (*Config, error) {
	if opts.PerPage == 0 {
		opts.PerPage = 10
	}
	if opts.PageParam == "" {
		opts.PageParam = "page"
	}
	if opts.VisiblePages == 0 {
		opts.VisiblePages = 5
	}
	if opts.PerPage < 1 {
		return nil, hooks.ConfigErrorf("paginate: per_page must be positive, got %d", opts.PerPage)
	}
	if opts.MaxPages < 0 {
		return nil, hooks.ConfigErrorf("paginate: max_pages must be positive, got %d", opts.MaxPages)
	}
	if opts.VisiblePages < 1 {
		return nil, hooks.ConfigErrorf("paginate: visible_pages must be positive, got %d", opts.VisiblePages)
	}
	return &Config{opts: opts}, nil
}

// Sequence returns the ordering key.
func (c *Config) Sequence() int { return c.opts.Sequence }

// Build constructs the pagination component for view.
func (c *Config) Build(view component.View) (component.Component, error) {
	return newComponent(view, c.opts)
}

// InvalidPageError reports a page number outside the valid range. It
// maps to 404 at the handler boundary.
type InvalidPageError struct {
	Reason string
}

func (e *InvalidPageError) Error() string {
	return fmt.Sprintf("paginate: %s", e.Reason)
}

// StatusCode marks the error as a not-found condition.
func (e *InvalidPageError) StatusCode() int { return http.StatusNotFound }
