package paginate

import (
	"fmt"
	"strconv"

	"github.com/viewcraft/viewcraft/internal/component"
	"github.com/viewcraft/viewcraft/internal/hooks"
	"github.com/viewcraft/viewcraft/internal/query"
	"github.com/viewcraft/viewcraft/internal/urlutil"
)

// HookData keys. The queryset hook stashes the page and total here for
// the context hook to read later in the same request.
const (
	dataPage  = "page"
	dataTotal = "total_count"
)

// Component paginates the queryset and publishes the page object.
type Component struct {
	component.Base
	opts Options
}

func newComponent(view component.View, opts Options) (*Component, error) {
	c := &Component{Base: component.NewBase(view, opts.Sequence), opts: opts}
	if err := c.Hooks().OnProcess(hooks.GetQueryset, c.processQueryset); err != nil {
		return nil, err
	}
	if err := c.Hooks().OnProcess(hooks.GetContextData, c.processContextData); err != nil {
		return nil, err
	}
	return c, nil
}

// processQueryset counts the unsliced queryset, validates the
// requested page against it, and slices to the page window.
func (c *Component) processQueryset(result any) (any, error) {
	qs, ok := result.(*query.Queryset)
	if !ok {
		return nil, fmt.Errorf("paginate: queryset hook received %T", result)
	}

	page, err := c.pageNumber()
	if err != nil {
		return nil, err
	}
	total, err := qs.Count(c.Request().Context())
	if err != nil {
		return nil, err
	}
	c.HookData[dataPage] = page
	c.HookData[dataTotal] = total

	if page > c.totalPages(total) {
		return nil, &InvalidPageError{Reason: fmt.Sprintf("page %d does not exist", page)}
	}

	start := (page - 1) * c.opts.PerPage
	return qs.Slice(start, c.opts.PerPage), nil
}

// processContextData publishes the page object under "page_obj". It
// relies on the counts recorded by processQueryset during the same
// request.
func (c *Component) processContextData(result any) (any, error) {
	data, ok := result.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("paginate: context hook received %T", result)
	}

	page, _ := c.HookData[dataPage].(int)
	total, _ := c.HookData[dataTotal].(int)
	if page == 0 {
		// Queryset chain was short-circuited; fall back to the param.
		var err error
		if page, err = c.pageNumber(); err != nil {
			return nil, err
		}
	}
	totalPages := c.totalPages(total)

	endIndex := page * c.opts.PerPage
	if endIndex > total {
		endIndex = total
	}
	startIndex := (page-1)*c.opts.PerPage + 1
	if total == 0 {
		startIndex = 0
	}

	pageObj := map[string]any{
		"number":       page,
		"has_previous": page > 1,
		"has_next":     page < totalPages,
		"start_index":  startIndex,
		"end_index":    endIndex,
		"total_pages":  totalPages,
		"total_count":  total,
		"page_range":   c.pageRange(page, totalPages),
		"page_urls":    c.pageURLs(page, totalPages),
	}
	if page > 1 {
		pageObj["previous_page_number"] = page - 1
	}
	if page < totalPages {
		pageObj["next_page_number"] = page + 1
	}

	data["page_obj"] = pageObj
	return data, nil
}

// pageNumber parses the 1-based page number from the query string.
func (c *Component) pageNumber() (int, error) {
	raw := c.Request().URL.Query().Get(c.opts.PageParam)
	if raw == "" {
		return 1, nil
	}
	page, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &InvalidPageError{Reason: fmt.Sprintf("invalid page number %q", raw)}
	}
	if page < 1 {
		return 0, &InvalidPageError{Reason: "page numbers must be positive"}
	}
	return page, nil
}

func (c *Component) totalPages(total int) int {
	if total == 0 {
		return 1
	}
	pages := (total + c.opts.PerPage - 1) / c.opts.PerPage
	if c.opts.MaxPages > 0 && pages > c.opts.MaxPages {
		pages = c.opts.MaxPages
	}
	return pages
}

// pageRange returns the visible page numbers centered on the current
// page, clamped to [1, totalPages].
func (c *Component) pageRange(page, totalPages int) []int {
	half := c.opts.VisiblePages / 2
	start := page - half
	if start < 1 {
		start = 1
	}
	end := start + c.opts.VisiblePages - 1
	if end > totalPages {
		end = totalPages
	}
	if end-start+1 < c.opts.VisiblePages {
		start = end - c.opts.VisiblePages + 1
		if start < 1 {
			start = 1
		}
	}
	pages := make([]int, 0, end-start+1)
	for p := start; p <= end; p++ {
		pages = append(pages, p)
	}
	return pages
}

func (c *Component) pageURLs(page, totalPages int) map[string]any {
	urls := map[string]any{}
	link := func(p int) string {
		return urlutil.WithParams(c.Request(), map[string]string{
			c.opts.PageParam: strconv.Itoa(p),
		})
	}
	if page > 1 {
		urls["first"] = link(1)
		urls["previous"] = link(page - 1)
	}
	if page < totalPages {
		urls["last"] = link(totalPages)
		urls["next"] = link(page + 1)
	}
	numbered := map[int]string{}
	for _, p := range c.pageRange(page, totalPages) {
		numbered[p] = link(p)
	}
	urls["pages"] = numbered
	return urls
}
