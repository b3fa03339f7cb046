// Package page assembles showcase pages from the project tree, project metadata
// and a page template with three tokens: {{TITLE}}, {{SIDEBAR}} and {{CONTENT}}.
package page

import (
	"context"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/SummonTheCat/smn-site-ciri/internal/markdown"
	"github.com/SummonTheCat/smn-site-ciri/internal/observability"
	"github.com/SummonTheCat/smn-site-ciri/internal/projectinfo"
	"github.com/SummonTheCat/smn-site-ciri/internal/projecttree"
	"github.com/SummonTheCat/smn-site-ciri/internal/textutil"
)

const (
	DefaultTemplatePath = "data/templates/projectpage.html"
	DefaultPrefix       = "/projects"
	ListTitle           = "Projects"

	tokenTitle   = "{{TITLE}}"
	tokenSidebar = "{{SIDEBAR}}"
	tokenContent = "{{CONTENT}}"
)

const fallbackTemplate = `<!doctype html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <title>{{TITLE}}</title>
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <style>/* minimal fallback */</style>
</head>
<body>
  <div class="root">
    <div class="sidebar">{{SIDEBAR}}</div>
    <div class="content">{{CONTENT}}</div>
  </div>
</body>
</html>`

// Composer builds list and project pages. It holds configuration only and is
// safe for concurrent use.
type Composer struct {
	templatePath string
	prefix       string
	render       func(string) string
}

// Option customises a Composer.
type Option func(*Composer)

// WithTemplatePath sets the page template file read on every build.
func WithTemplatePath(path string) Option {
	return func(c *Composer) {
		if strings.TrimSpace(path) != "" {
			c.templatePath = path
		}
	}
}

// WithPrefix sets the showcase mount prefix stripped when matching the
// prefix-relative request path against node paths.
func WithPrefix(prefix string) Option {
	return func(c *Composer) {
		if strings.TrimSpace(prefix) != "" {
			c.prefix = strings.TrimRight(prefix, "/")
		}
	}
}

// WithSanitizedMarkdown runs rendered Markdown through the bluemonday policy.
func WithSanitizedMarkdown(enabled bool) Option {
	return func(c *Composer) {
		if enabled {
			c.render = markdown.RenderSanitized
		} else {
			c.render = markdown.Render
		}
	}
}

// NewComposer constructs a Composer with defaults applied.
func NewComposer(opts ...Option) *Composer {
	c := &Composer{
		templatePath: DefaultTemplatePath,
		prefix:       DefaultPrefix,
		render:       markdown.Render,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// BuildListPage renders the project index: the sidebar and an empty content area.
func (c *Composer) BuildListPage(ctx context.Context, forest *projecttree.Forest, reqPath, relPath string) string {
	sidebar := c.renderSidebar(forest, reqPath, relPath)
	return apply(c.loadTemplate(ctx), ListTitle, sidebar, "")
}

// BuildProjectPage renders a single project. markdownSource is raw Markdown; a
// blank source omits the body block.
func (c *Composer) BuildProjectPage(ctx context.Context, forest *projecttree.Forest, reqPath, relPath string, info projectinfo.Info, markdownSource string) string {
	sidebar := c.renderSidebar(forest, reqPath, relPath)
	content := c.renderContent(info, markdownSource)
	return apply(c.loadTemplate(ctx), info.Name, sidebar, content)
}

func (c *Composer) loadTemplate(ctx context.Context) string {
	data, err := os.ReadFile(c.templatePath)
	if err != nil {
		observability.FromContext(ctx).Named("page").Warn("page template unavailable, using built-in fallback",
			zap.String("path", c.templatePath),
			zap.Error(err),
		)
		return fallbackTemplate
	}
	return string(data)
}

// apply substitutes the three tokens in one left-to-right pass. Token text that
// appears inside a substituted value is left as is.
func apply(tmpl, title, sidebar, content string) string {
	r := strings.NewReplacer(
		tokenTitle, textutil.EscapeHTML(title),
		tokenSidebar, sidebar,
		tokenContent, content,
	)
	return r.Replace(tmpl)
}
