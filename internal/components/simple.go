package components

import (
	"context"
	"errors"
	"io/fs"
	"net/http"
	"os"

	"go.uber.org/zap"

	"github.com/SummonTheCat/smn-site-ciri/internal/observability"
)

// SimpleComponent returns a fixed HTML file. A template resolved by the
// dispatcher takes precedence over the bound file.
type SimpleComponent struct {
	name string
	path string
}

// NewSimpleComponent binds name to the HTML file at path.
func NewSimpleComponent(name, path string) *SimpleComponent {
	return &SimpleComponent{name: name, path: path}
}

func (c *SimpleComponent) Name() string { return c.name }

// Path returns the bound file.
func (c *SimpleComponent) Path() string { return c.path }

func (c *SimpleComponent) Parse(ctx context.Context, tmpl *Template, _ []string) Response {
	if tmpl != nil {
		return HTMLResponse([]byte(tmpl.Body))
	}
	data, err := os.ReadFile(c.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return TextResponse(http.StatusNotFound, "Component file not found")
		}
		observability.FromContext(ctx).Named("components").Error("failed to read component file",
			zap.String("component", c.name),
			zap.String("path", c.path),
			zap.Error(err),
		)
		return TextResponse(http.StatusInternalServerError, "Failed to read component file")
	}
	return HTMLResponse(data)
}
