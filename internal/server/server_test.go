package server_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viewcraft/viewcraft/internal/blog"
	"github.com/viewcraft/viewcraft/internal/components/search"
	"github.com/viewcraft/viewcraft/internal/config"
	"github.com/viewcraft/viewcraft/internal/server"
)

func testConfig() *config.Config {
	return &config.Config{
		Server:   config.ServerConfig{Port: 8080},
		Database: config.DatabaseConfig{Path: ":memory:"},
		Blog: config.BlogConfig{
			Pagination: config.PaginationConfig{PerPage: 2, VisiblePages: 3},
			Filter: config.FilterConfig{
				Fields: map[string][]string{
					"status":   {blog.StatusDraft, blog.StatusPublished, blog.StatusArchived},
					"category": nil,
				},
			},
			Search: config.SearchConfig{
				MinLength: 2,
				Fields: []config.SearchFieldConfig{
					{Name: "title", Matches: []string{"icontains", "exact"}, Default: "icontains"},
				},
			},
		},
	}
}

// newTestServer spins up a server over an in-memory store with five
// deterministic posts: 4 published, 1 draft.
func newTestServer(t *testing.T) *server.Server {
	t.Helper()
	store, err := blog.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	ctx := context.Background()
	titles := []string{"Harbor lights", "Mountain pass", "Quiet harbor", "City notes", "River song"}
	for i, title := range titles {
		status := blog.StatusPublished
		if i == 4 {
			status = blog.StatusDraft
		}
		p := blog.Post{
			Title:     title,
			Slug:      fmt.Sprintf("post-%d", i),
			Body:      "body",
			Author:    "ada",
			Status:    status,
			Category:  "Travel",
			CreatedAt: time.Date(2026, 1, 1+i, 0, 0, 0, 0, time.UTC),
			UpdatedAt: time.Date(2026, 1, 1+i, 0, 0, 0, 0, time.UTC),
		}
		require.NoError(t, store.Insert(ctx, &p))
	}

	srv, err := server.New(testConfig(), store)
	require.NoError(t, err)
	return srv
}

func get(t *testing.T, srv *server.Server, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestListPage(t *testing.T) {
	srv := newTestServer(t)
	rec := get(t, srv, "/")

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()

	// Newest two of five, page size 2.
	assert.Contains(t, body, "River song")
	assert.Contains(t, body, "City notes")
	assert.NotContains(t, body, "Harbor lights")
	assert.Contains(t, body, "Page 1 of 3 (5 posts)")
}

func TestSecondPage(t *testing.T) {
	srv := newTestServer(t)
	rec := get(t, srv, "/?page=2")

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Quiet harbor")
	assert.Contains(t, body, "Mountain pass")
	assert.Contains(t, body, "Page 2 of 3 (5 posts)")
	assert.Contains(t, body, `rel="prev"`)
	assert.Contains(t, body, `rel="next"`)
}

func TestInvalidPageIsNotFound(t *testing.T) {
	srv := newTestServer(t)
	for _, target := range []string{"/?page=99", "/?page=0", "/?page=abc"} {
		rec := get(t, srv, target)
		assert.Equal(t, http.StatusNotFound, rec.Code, target)
	}
}

func TestFilterNarrowsList(t *testing.T) {
	srv := newTestServer(t)
	rec := get(t, srv, "/?filter=status:draft")

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "River song")
	assert.NotContains(t, body, "City notes")
	assert.Contains(t, body, "(1 posts)")
}

func TestSearchNarrowsList(t *testing.T) {
	srv := newTestServer(t)
	encoded, err := search.Encode(map[string]search.Term{
		"title": {Match: search.IContains, Value: "harbor"},
	})
	require.NoError(t, err)

	rec := get(t, srv, "/?q="+url.QueryEscape(encoded))
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Harbor lights")
	assert.Contains(t, body, "Quiet harbor")
	assert.NotContains(t, body, "River song")
	assert.Contains(t, body, "(2 posts)")
}

func TestUndecodableSearchFallsBackToFullList(t *testing.T) {
	srv := newTestServer(t)
	rec := get(t, srv, "/?q=not-a-payload")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "(5 posts)")
}

func TestSearchAndFilterCompose(t *testing.T) {
	srv := newTestServer(t)
	encoded, err := search.Encode(map[string]search.Term{
		"title": {Match: search.IContains, Value: "harbor"},
	})
	require.NoError(t, err)

	rec := get(t, srv, "/?filter=status:published&q="+url.QueryEscape(encoded))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "(2 posts)")
}

func TestMethodNotAllowed(t *testing.T) {
	srv := newTestServer(t)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, "GET", rec.Header().Get("Allow"))
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t)
	rec := get(t, srv, "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestMiddlewareHeaders(t *testing.T) {
	srv := newTestServer(t)
	rec := get(t, srv, "/healthz")

	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
}

func TestRequestIDPropagated(t *testing.T) {
	srv := newTestServer(t)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-ID", "req-123")
	srv.Handler().ServeHTTP(rec, req)
	assert.Equal(t, "req-123", rec.Header().Get("X-Request-ID"))
}

func TestInvalidComponentConfigAbortsStartup(t *testing.T) {
	store, err := blog.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	cfg := testConfig()
	cfg.Blog.Pagination.PerPage = -1
	_, err = server.New(cfg, store)
	assert.Error(t, err)
}
