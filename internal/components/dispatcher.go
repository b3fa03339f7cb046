package components

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/SummonTheCat/smn-site-ciri/internal/httpx"
	"github.com/SummonTheCat/smn-site-ciri/internal/observability"
	"github.com/SummonTheCat/smn-site-ciri/internal/textutil"
)

const (
	// DefaultPrefix is the mount prefix of the component route.
	DefaultPrefix = "/components"
	// ArgsKey names the body field and query parameter carrying arguments.
	ArgsKey = "compArgs"

	maxBodyBytes = 1 << 20
)

// Dispatcher classifies component requests and invokes handlers.
type Dispatcher struct {
	registry *Registry
	prefix   string
}

// NewDispatcher returns a Dispatcher serving reg under prefix.
func NewDispatcher(reg *Registry, prefix string) *Dispatcher {
	prefix = strings.TrimRight(strings.TrimSpace(prefix), "/")
	if prefix == "" {
		prefix = DefaultPrefix
	}
	if reg == nil {
		reg = NewRegistry("")
	}
	return &Dispatcher{registry: reg, prefix: prefix}
}

// ServeHTTP strips the mount prefix and dispatches the remainder.
func (d *Dispatcher) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	subPath := strings.TrimPrefix(r.URL.Path, d.prefix)

	var body []byte
	if r.Method == http.MethodPost && r.Body != nil {
		data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
		if err != nil {
			observability.FromContext(r.Context()).Named("components").Warn("component body unreadable", zap.Error(err))
		} else {
			body = data
		}
	}

	d.Dispatch(r.Context(), subPath, r.Method, body, r.URL.Query()).Respond(w)
}

// Dispatch resolves subPath, the request path below the mount prefix, to a
// component invocation or a static file under the component root.
func (d *Dispatcher) Dispatch(ctx context.Context, subPath, method string, body []byte, query url.Values) Response {
	ctx, span := observability.Tracer().Start(ctx, "components.dispatch")
	defer span.End()

	rest := strings.TrimLeft(subPath, "/")
	if h, ok := d.classify(rest); ok {
		span.SetAttributes(attribute.String("component.name", h.Name()), attribute.Bool("component.static", false))
		tmpl := d.resolveTemplate(ctx, h.Name())
		args := extractArgs(method, body, query)
		return h.Parse(ctx, tmpl, args)
	}

	span.SetAttributes(attribute.Bool("component.static", true))
	return d.serveStatic(ctx, rest)
}

// classify returns the handler for rest, or false when rest should be served
// as a static file: an empty path, a last segment containing a dot, or a first
// segment that names no component.
func (d *Dispatcher) classify(rest string) (Handler, bool) {
	if rest == "" {
		return nil, false
	}
	last := rest[strings.LastIndex(rest, "/")+1:]
	if strings.Contains(last, ".") {
		return nil, false
	}
	first, _, _ := strings.Cut(rest, "/")
	return d.registry.Lookup(first)
}

// resolveTemplate tries <root>/<name>/template.html then <root>/<name>.html.
func (d *Dispatcher) resolveTemplate(ctx context.Context, name string) *Template {
	candidates := []string{
		filepath.Join(d.registry.Root(), name, "template.html"),
		filepath.Join(d.registry.Root(), name+".html"),
	}
	for _, path := range candidates {
		data, err := readRegularFile(path)
		if err == nil {
			return &Template{Path: path, Body: string(data)}
		}
		if !errors.Is(err, fs.ErrNotExist) {
			observability.FromContext(ctx).Named("components").Warn("component template unreadable",
				zap.String("component", name),
				zap.String("path", path),
				zap.Error(err),
			)
		}
	}
	return nil
}

type argsPayload struct {
	CompArgs []string `json:"compArgs"`
}

// extractArgs reads arguments from a POST JSON body or, for other methods, the
// comma separated compArgs query parameter. Malformed input yields no arguments.
func extractArgs(method string, body []byte, query url.Values) []string {
	if method == http.MethodPost {
		if len(body) == 0 {
			return []string{}
		}
		var payload argsPayload
		if err := json.Unmarshal(body, &payload); err != nil || payload.CompArgs == nil {
			return []string{}
		}
		return payload.CompArgs
	}
	args := textutil.SplitList(query.Get(ArgsKey))
	if args == nil {
		return []string{}
	}
	return args
}

func (d *Dispatcher) serveStatic(ctx context.Context, rest string) Response {
	for _, segment := range strings.Split(rest, "/") {
		if segment == ".." {
			return TextResponse(http.StatusForbidden, "403 Forbidden: invalid path")
		}
	}

	target := filepath.Join(d.registry.Root(), filepath.FromSlash(rest))
	if rest == "" {
		target = filepath.Join(d.registry.Root(), "index.html")
	}
	if info, err := os.Stat(target); err == nil && info.IsDir() {
		target = filepath.Join(target, "index.html")
	}

	data, err := readRegularFile(target)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			observability.FromContext(ctx).Named("components").Warn("component file unreadable",
				zap.String("path", target),
				zap.Error(err),
			)
		}
		return TextResponse(http.StatusNotFound, "404 Not Found")
	}
	return Response{Status: http.StatusOK, ContentType: httpx.ContentTypeFor(target), Body: data}
}

// readRegularFile reads path, reporting fs.ErrNotExist for directories too.
func readRegularFile(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.Mode().IsRegular() {
		return nil, fs.ErrNotExist
	}
	return os.ReadFile(path)
}
