// Package statichost serves the site root from a directory with clean URLs:
// "/" maps to index.html and "/about" falls back to about.html.
package statichost

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"go.uber.org/zap"

	"github.com/SummonTheCat/smn-site-ciri/internal/httpx"
	"github.com/SummonTheCat/smn-site-ciri/internal/observability"
)

// DefaultDir is the directory served when none is configured.
const DefaultDir = "static"

type host struct {
	dir string
}

// New returns a handler serving files under dir. Files are read and hashed on
// every request.
func New(dir string) http.Handler {
	if strings.TrimSpace(dir) == "" {
		dir = DefaultDir
	}
	return &host{dir: dir}
}

func (h *host) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		httpx.Text(w, http.StatusMethodNotAllowed, "405 Method Not Allowed")
		return
	}

	rel := strings.TrimLeft(r.URL.Path, "/")
	for _, segment := range strings.Split(rel, "/") {
		if segment == ".." {
			httpx.Text(w, http.StatusForbidden, "403 Forbidden: invalid path")
			return
		}
	}

	path, data, err := h.lookup(rel)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			observability.FromContext(r.Context()).Named("statichost").Error("failed to read static file",
				zap.String("path", rel),
				zap.Error(err),
			)
			httpx.Text(w, http.StatusInternalServerError, "Internal Server Error")
			return
		}
		httpx.Text(w, http.StatusNotFound, "404 Not Found")
		return
	}

	etag := contentETag(data)
	w.Header().Set("ETag", etag)
	w.Header().Set("Vary", "Accept-Encoding")
	w.Header().Set("Cache-Control", "no-cache")
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	if r.Method == http.MethodHead {
		w.Header().Set("Content-Type", httpx.ContentTypeFor(path))
		w.WriteHeader(http.StatusOK)
		return
	}
	httpx.Bytes(w, http.StatusOK, httpx.ContentTypeFor(path), data)
}

// lookup tries the exact file (index.html for directories), then rel + ".html".
func (h *host) lookup(rel string) (string, []byte, error) {
	candidates := []string{filepath.Join(h.dir, filepath.FromSlash(rel))}
	if rel == "" {
		candidates = []string{filepath.Join(h.dir, "index.html")}
	} else if !strings.HasSuffix(rel, "/") {
		candidates = append(candidates, filepath.Join(h.dir, filepath.FromSlash(rel)+".html"))
	}

	for _, candidate := range candidates {
		info, err := os.Stat(candidate)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) || errors.Is(err, syscall.ENOTDIR) {
				continue
			}
			return "", nil, err
		}
		if info.IsDir() {
			candidate = filepath.Join(candidate, "index.html")
			if info, err = os.Stat(candidate); err != nil || !info.Mode().IsRegular() {
				continue
			}
		}
		data, err := os.ReadFile(candidate)
		if err != nil {
			return "", nil, err
		}
		return candidate, data, nil
	}
	return "", nil, fs.ErrNotExist
}

func contentETag(data []byte) string {
	sum := sha256.Sum256(data)
	return `W/"` + hex.EncodeToString(sum[:]) + `"`
}
