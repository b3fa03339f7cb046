package statichost

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func newSite(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"index.html":      "<p>home</p>",
		"about.html":      "<p>about</p>",
		"css/site.css":    "body{}",
		"blog/index.html": "<p>blog</p>",
		"robots.txt":      "User-agent: *",
	}
	for name, body := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	}
	return dir
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestServesFiles(t *testing.T) {
	t.Parallel()

	h := New(newSite(t))
	cases := []struct {
		target      string
		body        string
		contentType string
	}{
		{target: "/", body: "<p>home</p>", contentType: "text/html; charset=utf-8"},
		{target: "/about", body: "<p>about</p>", contentType: "text/html; charset=utf-8"},
		{target: "/about.html", body: "<p>about</p>", contentType: "text/html; charset=utf-8"},
		{target: "/blog", body: "<p>blog</p>", contentType: "text/html; charset=utf-8"},
		{target: "/blog/", body: "<p>blog</p>", contentType: "text/html; charset=utf-8"},
		{target: "/css/site.css", body: "body{}", contentType: "text/css; charset=utf-8"},
		{target: "/robots.txt", body: "User-agent: *", contentType: "text/plain; charset=utf-8"},
	}
	for _, tc := range cases {
		rec := get(t, h, tc.target)
		require.Equal(t, http.StatusOK, rec.Code, tc.target)
		require.Equal(t, tc.body, rec.Body.String(), tc.target)
		require.Equal(t, tc.contentType, rec.Header().Get("Content-Type"), tc.target)
	}
}

func TestNotFoundAndTraversal(t *testing.T) {
	t.Parallel()

	h := New(newSite(t))

	rec := get(t, h, "/missing")
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = get(t, h, "/about.html/extra")
	require.Equal(t, http.StatusNotFound, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.URL.Path = "/css/../../secret"
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestETagRevalidation(t *testing.T) {
	t.Parallel()

	dir := newSite(t)
	h := New(dir)

	first := get(t, h, "/about")
	etag := first.Header().Get("ETag")
	require.NotEmpty(t, etag)
	require.Regexp(t, `^W/"[0-9a-f]{64}"$`, etag)

	req := httptest.NewRequest(http.MethodGet, "/about", nil)
	req.Header.Set("If-None-Match", etag)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNotModified, rec.Code)
	require.Empty(t, rec.Body.String())

	// Edits are visible immediately since nothing is cached.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "about.html"), []byte("<p>changed</p>"), 0o644))
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "<p>changed</p>", rec.Body.String())
	require.NotEqual(t, etag, rec.Header().Get("ETag"))
}

func TestRejectsWrites(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	New(newSite(t)).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/about", nil))
	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	require.Equal(t, "GET, HEAD", rec.Header().Get("Allow"))
}
