package paginate_test

import (
	"database/sql"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/viewcraft/viewcraft/internal/component"
	"github.com/viewcraft/viewcraft/internal/components/paginate"
	"github.com/viewcraft/viewcraft/internal/hooks"
	"github.com/viewcraft/viewcraft/internal/query"
	"github.com/viewcraft/viewcraft/internal/view"
)

type fakeView struct {
	req *http.Request
}

func (v *fakeView) Request() *http.Request { return v.req }

// newComponent builds a pagination component bound to the given URL.
func newComponent(t *testing.T, url string, opts paginate.Options) component.Component {
	t.Helper()
	cfg, err := paginate.NewConfig(opts)
	require.NoError(t, err)
	c, err := cfg.Build(&fakeView{req: httptest.NewRequest(http.MethodGet, url, nil)})
	require.NoError(t, err)
	return c
}

// openPosts returns a queryset over an in-memory table with n rows.
func openPosts(t *testing.T, n int) *query.Queryset {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(`CREATE TABLE posts (id INTEGER PRIMARY KEY, title TEXT)`)
	require.NoError(t, err)
	for i := 1; i <= n; i++ {
		_, err = db.Exec(`INSERT INTO posts (title) VALUES (?)`, fmt.Sprintf("post %d", i))
		require.NoError(t, err)
	}
	return query.New(db, "posts").OrderBy("id")
}

func runQuerysetHook(t *testing.T, c component.Component, qs *query.Queryset) (*query.Queryset, error) {
	t.Helper()
	process, err := c.Hooks().Process(hooks.GetQueryset)
	require.NoError(t, err)
	require.NotNil(t, process)
	result, err := process(qs)
	if err != nil {
		return nil, err
	}
	return result.(*query.Queryset), nil
}

func runContextHook(t *testing.T, c component.Component, data map[string]any) (map[string]any, error) {
	t.Helper()
	process, err := c.Hooks().Process(hooks.GetContextData)
	require.NoError(t, err)
	require.NotNil(t, process)
	result, err := process(data)
	if err != nil {
		return nil, err
	}
	return result.(map[string]any), nil
}

func TestConfigValidation(t *testing.T) {
	_, err := paginate.NewConfig(paginate.Options{PerPage: -1})
	assert.ErrorIs(t, err, hooks.ErrConfiguration)

	_, err = paginate.NewConfig(paginate.Options{MaxPages: -1})
	assert.ErrorIs(t, err, hooks.ErrConfiguration)

	_, err = paginate.NewConfig(paginate.Options{VisiblePages: -2})
	assert.ErrorIs(t, err, hooks.ErrConfiguration)

	cfg, err := paginate.NewConfig(paginate.Options{})
	require.NoError(t, err)
	assert.NotNil(t, cfg)
}

func TestSlicesToRequestedPage(t *testing.T) {
	c := newComponent(t, "/?page=2", paginate.Options{PerPage: 5})
	qs, err := runQuerysetHook(t, c, openPosts(t, 12))
	require.NoError(t, err)

	stmt, _ := qs.SQL()
	assert.Contains(t, stmt, "LIMIT 5")
	assert.Contains(t, stmt, "OFFSET 5")
}

func TestDefaultsToFirstPage(t *testing.T) {
	c := newComponent(t, "/", paginate.Options{PerPage: 5})
	qs, err := runQuerysetHook(t, c, openPosts(t, 12))
	require.NoError(t, err)

	stmt, _ := qs.SQL()
	assert.Contains(t, stmt, "LIMIT 5")
	assert.Contains(t, stmt, "OFFSET 0")
}

func TestInvalidPageNumbers(t *testing.T) {
	for _, url := range []string{"/?page=0", "/?page=-1", "/?page=abc", "/?page=99"} {
		t.Run(url, func(t *testing.T) {
			c := newComponent(t, url, paginate.Options{PerPage: 5})
			_, err := runQuerysetHook(t, c, openPosts(t, 12))
			require.Error(t, err)

			var pageErr *paginate.InvalidPageError
			require.ErrorAs(t, err, &pageErr)
			assert.Equal(t, http.StatusNotFound, pageErr.StatusCode())
		})
	}
}

func TestPageObject(t *testing.T) {
	c := newComponent(t, "/?page=2", paginate.Options{PerPage: 5, VisiblePages: 3})
	_, err := runQuerysetHook(t, c, openPosts(t, 12))
	require.NoError(t, err)

	data, err := runContextHook(t, c, map[string]any{})
	require.NoError(t, err)

	pageObj, ok := data["page_obj"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, 2, pageObj["number"])
	assert.Equal(t, true, pageObj["has_previous"])
	assert.Equal(t, true, pageObj["has_next"])
	assert.Equal(t, 1, pageObj["previous_page_number"])
	assert.Equal(t, 3, pageObj["next_page_number"])
	assert.Equal(t, 6, pageObj["start_index"])
	assert.Equal(t, 10, pageObj["end_index"])
	assert.Equal(t, 3, pageObj["total_pages"])
	assert.Equal(t, 12, pageObj["total_count"])
	assert.Equal(t, []int{1, 2, 3}, pageObj["page_range"])
}

func TestPageObjectEmptyResults(t *testing.T) {
	c := newComponent(t, "/", paginate.Options{PerPage: 5})
	_, err := runQuerysetHook(t, c, openPosts(t, 0))
	require.NoError(t, err)

	data, err := runContextHook(t, c, map[string]any{})
	require.NoError(t, err)

	pageObj := data["page_obj"].(map[string]any)
	assert.Equal(t, 1, pageObj["number"])
	assert.Equal(t, false, pageObj["has_previous"])
	assert.Equal(t, false, pageObj["has_next"])
	assert.Equal(t, 0, pageObj["start_index"])
	assert.Equal(t, 0, pageObj["end_index"])
	assert.Equal(t, 1, pageObj["total_pages"])
	assert.Equal(t, 0, pageObj["total_count"])
}

func TestPageRangeCentersOnCurrentPage(t *testing.T) {
	c := newComponent(t, "/?page=5", paginate.Options{PerPage: 1, VisiblePages: 3})
	_, err := runQuerysetHook(t, c, openPosts(t, 10))
	require.NoError(t, err)

	data, err := runContextHook(t, c, map[string]any{})
	require.NoError(t, err)

	pageObj := data["page_obj"].(map[string]any)
	assert.Equal(t, []int{4, 5, 6}, pageObj["page_range"])
}

func TestMaxPagesCapsTotal(t *testing.T) {
	c := newComponent(t, "/?page=3", paginate.Options{PerPage: 1, MaxPages: 2})
	_, err := runQuerysetHook(t, c, openPosts(t, 10))
	require.Error(t, err)

	var pageErr *paginate.InvalidPageError
	assert.ErrorAs(t, err, &pageErr)
}

func TestPageURLsPreserveOtherParams(t *testing.T) {
	c := newComponent(t, "/?page=2&filter=status%3Apublished", paginate.Options{PerPage: 5})
	_, err := runQuerysetHook(t, c, openPosts(t, 12))
	require.NoError(t, err)

	data, err := runContextHook(t, c, map[string]any{})
	require.NoError(t, err)

	urls := data["page_obj"].(map[string]any)["page_urls"].(map[string]any)
	assert.Equal(t, "/?filter=status%3Apublished&page=1", urls["previous"])
	assert.Equal(t, "/?filter=status%3Apublished&page=3", urls["next"])
}

var _ view.StatusError = (*paginate.InvalidPageError)(nil)
