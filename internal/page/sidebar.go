package page

import (
	"strconv"
	"strings"

	"github.com/SummonTheCat/smn-site-ciri/internal/projecttree"
	"github.com/SummonTheCat/smn-site-ciri/internal/textutil"
)

func (c *Composer) renderSidebar(forest *projecttree.Forest, reqPath, relPath string) string {
	var b strings.Builder
	b.WriteString(`<nav class="sidebar-nav"><ul class="project-list level-0">`)
	for i := range forest.Roots() {
		c.renderNode(&b, &forest.Roots()[i], reqPath, relPath, 0)
	}
	b.WriteString(`</ul></nav>`)
	return b.String()
}

func (c *Composer) renderNode(b *strings.Builder, node *projecttree.Node, reqPath, relPath string, depth int) {
	if node.HasChildren() {
		b.WriteString(`<li class="project-node has-children">`)
	} else {
		b.WriteString(`<li class="project-node">`)
	}

	linkClass := "project-link"
	if c.isSelected(reqPath, relPath, node.Path) {
		linkClass += " selected"
	}
	b.WriteString(`<a class="`)
	b.WriteString(linkClass)
	b.WriteString(`" href="`)
	b.WriteString(textutil.EscapeAttr(strings.TrimRight(node.Path, "/") + "/"))
	b.WriteString(`" onclick="return tm.handleLinkClick(event, this)">`)
	textutil.WriteEscaped(b, node.Name)
	b.WriteString(`</a>`)

	if node.HasChildren() {
		b.WriteString(`<ul class="project-list level-`)
		b.WriteString(strconv.Itoa(depth + 1))
		b.WriteString(`">`)
		for i := range node.Children {
			c.renderNode(b, &node.Children[i], reqPath, relPath, depth+1)
		}
		b.WriteString(`</ul>`)
	}
	b.WriteString(`</li>`)
}

// isSelected matches a node either against the full request path or, with the
// mount prefix removed, against the prefix-relative request path. Trailing
// slashes are ignored on both sides.
func (c *Composer) isSelected(reqPath, relPath, nodePath string) bool {
	node := strings.TrimRight(nodePath, "/")
	if strings.TrimRight(reqPath, "/") == node {
		return true
	}
	rel := strings.Trim(relPath, "/")
	if rel == "" {
		return false
	}
	return rel == strings.Trim(strings.TrimPrefix(node, c.prefix), "/")
}
