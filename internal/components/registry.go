package components

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
)

// DefaultRoot is the directory component templates and static files live in.
const DefaultRoot = "components"

// Registry maps component names to handlers. It is filled at startup and only
// read afterwards, so lookups need no locking.
type Registry struct {
	root     string
	handlers map[string]Handler
}

// NewRegistry returns an empty registry rooted at root.
func NewRegistry(root string) *Registry {
	if strings.TrimSpace(root) == "" {
		root = DefaultRoot
	}
	return &Registry{root: root, handlers: map[string]Handler{}}
}

// Root returns the component file root.
func (r *Registry) Root() string { return r.root }

// Register binds h under h.Name(), replacing any previous binding.
func (r *Registry) Register(h Handler) {
	if h == nil {
		return
	}
	r.handlers[h.Name()] = h
}

// RegisterStatic binds a pass-through component serving the HTML file at path.
// The component name is the file's base name without its extension.
func (r *Registry) RegisterStatic(path string) error {
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	if name == "" || name == "." || name == string(filepath.Separator) {
		return fmt.Errorf("components: cannot derive component name from %q", path)
	}
	r.Register(NewSimpleComponent(name, path))
	return nil
}

// Lookup returns the handler registered under name.
func (r *Registry) Lookup(name string) (Handler, bool) {
	h, ok := r.handlers[name]
	return h, ok
}

// Len returns the number of registered components.
func (r *Registry) Len() int { return len(r.handlers) }

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.handlers))
	for name := range r.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
