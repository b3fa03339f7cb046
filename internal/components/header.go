package components

import (
	"context"
	"net/http"
	"strings"

	"github.com/SummonTheCat/smn-site-ciri/internal/textutil"
)

const (
	HeaderName    = "header"
	HeaderToken   = "{{section_heading}}"
	HeaderDefault = "Technical Art"
)

// HeaderComponent fills the section heading of the header template with the
// first argument.
type HeaderComponent struct {
	// Default is used when no argument is given.
	Default string
}

// NewHeaderComponent returns a header component with the stock default heading.
func NewHeaderComponent() *HeaderComponent {
	return &HeaderComponent{Default: HeaderDefault}
}

func (c *HeaderComponent) Name() string { return HeaderName }

func (c *HeaderComponent) Parse(_ context.Context, tmpl *Template, args []string) Response {
	if tmpl == nil {
		return TextResponse(http.StatusInternalServerError,
			"Header template not found: expected components/header.html (or components/header/template.html)")
	}
	heading := c.Default
	if len(args) > 0 {
		heading = args[0]
	}
	return HTMLResponse([]byte(strings.ReplaceAll(tmpl.Body, HeaderToken, textutil.EscapeHTML(heading))))
}
