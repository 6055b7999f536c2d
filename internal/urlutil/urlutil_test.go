package urlutil_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/viewcraft/viewcraft/internal/urlutil"
)

func TestWithParams(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/posts/?page=2&filter=status%3Apublished", nil)

	got := urlutil.WithParams(r, map[string]string{"page": "3"})
	assert.Equal(t, "/posts/?filter=status%3Apublished&page=3", got)

	got = urlutil.WithParams(r, nil, "page")
	assert.Equal(t, "/posts/?filter=status%3Apublished", got)

	// Original request untouched.
	assert.Equal(t, "2", r.URL.Query().Get("page"))
}

func TestWithParamsEmptyResult(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/posts/?page=2", nil)
	got := urlutil.WithParams(r, nil, "page")
	assert.Equal(t, "/posts/", got)
}

func TestWithParamsAddsNewKey(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/posts/", nil)
	got := urlutil.WithParams(r, map[string]string{"q": "abc"})
	assert.Equal(t, "/posts/?q=abc", got)
}
