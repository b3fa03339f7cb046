// Package markdown turns Markdown source into HTML that carries one md-* class per
// construct, leaving all visual styling to the host page's stylesheet.
//
// Class vocabulary (v1):
//
//	md                 outer container (div)
//	md-p               paragraph
//	md-h1 .. md-h6     headings
//	md-blockquote      block quote
//	md-pre, md-code    code block (plus language-<lang> when fenced with a language)
//	md-code-inline     inline code
//	md-ul, md-ol, md-li  lists
//	md-em, md-strong, md-del  emphasis, strong, strikethrough
//	md-a, md-img       links and images
//	md-br, md-hr       hard break, thematic break
//	md-task            task-list checkbox
//	md-table           table
//	md-footnote-ref, md-footnotes, md-footnote, md-footnote-label  footnotes
//
// Raw HTML in the source is always escaped, never passed through.
package markdown

import (
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"

	"github.com/SummonTheCat/smn-site-ciri/internal/textutil"
)

var md = goldmark.New(
	goldmark.WithExtensions(
		extension.Table,
		extension.Strikethrough,
		extension.TaskList,
		extension.Footnote,
	),
)

// Render converts Markdown to classed HTML. It never fails; malformed input degrades
// to whatever the parser makes of it.
func Render(src string) string {
	source := []byte(src)
	doc := md.Parser().Parse(text.NewReader(source))

	r := &renderer{source: source, footnotes: footnoteLabels(doc)}
	r.out.Grow(len(src) + 256)
	r.out.WriteString(`<div class="md">`)
	_ = ast.Walk(doc, r.visit)
	r.out.WriteString("</div>")
	return r.out.String()
}

type renderer struct {
	source    []byte
	out       strings.Builder
	footnotes map[int]string
}

func (r *renderer) visit(n ast.Node, entering bool) (ast.WalkStatus, error) {
	switch node := n.(type) {
	case *ast.Paragraph:
		r.tag(entering, `<p class="md-p">`, "</p>")
	case *ast.Heading:
		level := min(max(node.Level, 1), 6)
		if entering {
			fmt.Fprintf(&r.out, `<h%d class="md-h%d">`, level, level)
		} else {
			fmt.Fprintf(&r.out, "</h%d>", level)
		}
	case *ast.Blockquote:
		r.tag(entering, `<blockquote class="md-blockquote">`, "</blockquote>")
	case *ast.FencedCodeBlock:
		if entering {
			lang := strings.TrimSpace(string(node.Language(r.source)))
			if lang != "" {
				r.out.WriteString(`<pre class="md-pre"><code class="md-code language-`)
				textutil.WriteEscaped(&r.out, lang)
				r.out.WriteString(`">`)
			} else {
				r.out.WriteString(`<pre class="md-pre"><code class="md-code">`)
			}
			r.lines(node.Lines())
		} else {
			r.out.WriteString("</code></pre>")
		}
		return ast.WalkSkipChildren, nil
	case *ast.CodeBlock:
		if entering {
			r.out.WriteString(`<pre class="md-pre"><code class="md-code">`)
			r.lines(node.Lines())
		} else {
			r.out.WriteString("</code></pre>")
		}
		return ast.WalkSkipChildren, nil
	case *ast.HTMLBlock:
		if entering {
			r.lines(node.Lines())
			if node.HasClosure() {
				textutil.WriteEscaped(&r.out, string(node.ClosureLine.Value(r.source)))
			}
		}
		return ast.WalkSkipChildren, nil
	case *ast.List:
		if node.IsOrdered() {
			r.tag(entering, `<ol class="md-ol">`, "</ol>")
		} else {
			r.tag(entering, `<ul class="md-ul">`, "</ul>")
		}
	case *ast.ListItem:
		r.tag(entering, `<li class="md-li">`, "</li>")
	case *ast.ThematicBreak:
		if entering {
			r.out.WriteString(`<hr class="md-hr"/>`)
		}
	case *ast.Text:
		if entering {
			r.text(node)
		}
	case *ast.String:
		if entering {
			textutil.WriteEscaped(&r.out, string(node.Value))
		}
	case *ast.CodeSpan:
		if entering {
			r.out.WriteString(`<code class="md-code-inline">`)
			r.codeSpan(node)
		} else {
			r.out.WriteString("</code>")
		}
		return ast.WalkSkipChildren, nil
	case *ast.Emphasis:
		if node.Level >= 2 {
			r.tag(entering, `<strong class="md-strong">`, "</strong>")
		} else {
			r.tag(entering, `<em class="md-em">`, "</em>")
		}
	case *ast.Link:
		if entering {
			r.openLink(r.unescape(node.Destination), r.unescape(node.Title))
		} else {
			r.out.WriteString("</a>")
		}
	case *ast.AutoLink:
		if entering {
			dest := string(node.URL(r.source))
			if node.AutoLinkType == ast.AutoLinkEmail && !strings.HasPrefix(strings.ToLower(dest), "mailto:") {
				dest = "mailto:" + dest
			}
			r.openLink(dest, "")
			textutil.WriteEscaped(&r.out, string(node.Label(r.source)))
			r.out.WriteString("</a>")
		}
		return ast.WalkSkipChildren, nil
	case *ast.Image:
		// alt is always emitted empty; the image's child text is not reconstructed.
		if entering {
			r.out.WriteString(`<img class="md-img" src="`)
			r.out.WriteString(textutil.EscapeAttr(r.unescape(node.Destination)))
			r.out.WriteByte('"')
			if len(node.Title) > 0 {
				r.out.WriteString(` title="`)
				r.out.WriteString(textutil.EscapeAttr(r.unescape(node.Title)))
				r.out.WriteByte('"')
			}
			r.out.WriteString(` alt="" />`)
		}
		return ast.WalkSkipChildren, nil
	case *ast.RawHTML:
		if entering {
			for i := 0; i < node.Segments.Len(); i++ {
				seg := node.Segments.At(i)
				textutil.WriteEscaped(&r.out, string(seg.Value(r.source)))
			}
		}
		return ast.WalkSkipChildren, nil
	case *east.Strikethrough:
		r.tag(entering, `<del class="md-del">`, "</del>")
	case *east.TaskCheckBox:
		if entering {
			r.out.WriteString(`<input class="md-task" type="checkbox" disabled="disabled"`)
			if node.IsChecked {
				r.out.WriteString(` checked="checked"`)
			}
			r.out.WriteString("/>")
		}
	case *east.Table:
		r.tag(entering, `<table class="md-table">`, "</table>")
	case *east.TableHeader:
		r.tag(entering, "<thead><tr>", "</tr></thead>")
	case *east.TableRow:
		r.tag(entering, "<tr>", "</tr>")
	case *east.TableCell:
		r.tag(entering, "<td>", "</td>")
	case *east.FootnoteLink:
		if entering {
			r.out.WriteString(`<sup class="md-footnote-ref">`)
			textutil.WriteEscaped(&r.out, r.footnoteLabel(node.Index))
			r.out.WriteString("</sup>")
		}
		return ast.WalkSkipChildren, nil
	case *east.FootnoteBacklink:
		return ast.WalkSkipChildren, nil
	case *east.FootnoteList:
		r.tag(entering, `<section class="md-footnotes">`, "</section>")
	case *east.Footnote:
		if entering {
			r.out.WriteString(`<div class="md-footnote"><sup class="md-footnote-label">`)
			textutil.WriteEscaped(&r.out, string(node.Ref))
			r.out.WriteString("</sup>")
		} else {
			r.out.WriteString("</div>")
		}
	}
	return ast.WalkContinue, nil
}

func (r *renderer) tag(entering bool, open, close string) {
	if entering {
		r.out.WriteString(open)
	} else {
		r.out.WriteString(close)
	}
}

func (r *renderer) lines(lines *text.Segments) {
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		textutil.WriteEscaped(&r.out, string(line.Value(r.source)))
	}
}

func (r *renderer) text(node *ast.Text) {
	value := node.Segment.Value(r.source)
	if node.IsRaw() {
		textutil.WriteEscaped(&r.out, string(value))
	} else {
		textutil.WriteEscaped(&r.out, r.unescape(value))
	}
	switch {
	case node.HardLineBreak():
		r.out.WriteString(`<br class="md-br"/>`)
	case node.SoftLineBreak():
		r.out.WriteByte('\n')
	}
}

// unescape resolves backslash escapes and character references the way they
// read in the source.
func (r *renderer) unescape(value []byte) string {
	value = util.UnescapePunctuations(value)
	value = util.ResolveNumericReferences(value)
	value = util.ResolveEntityNames(value)
	return string(value)
}

func (r *renderer) codeSpan(node *ast.CodeSpan) {
	for c := node.FirstChild(); c != nil; c = c.NextSibling() {
		var value string
		switch t := c.(type) {
		case *ast.Text:
			value = string(t.Segment.Value(r.source))
		case *ast.String:
			value = string(t.Value)
		default:
			continue
		}
		textutil.WriteEscaped(&r.out, strings.ReplaceAll(value, "\n", " "))
	}
}

func (r *renderer) openLink(dest, title string) {
	r.out.WriteString(`<a class="md-a" href="`)
	r.out.WriteString(textutil.EscapeAttr(dest))
	r.out.WriteByte('"')
	if title != "" {
		r.out.WriteString(` title="`)
		r.out.WriteString(textutil.EscapeAttr(title))
		r.out.WriteByte('"')
	}
	if IsAbsoluteURL(dest) {
		r.out.WriteString(` target="_blank" rel="noopener noreferrer"`)
	}
	r.out.WriteByte('>')
}

func (r *renderer) footnoteLabel(index int) string {
	if label, ok := r.footnotes[index]; ok {
		return label
	}
	return fmt.Sprint(index)
}

// IsAbsoluteURL reports whether dest starts with http:// or https://, ignoring case.
func IsAbsoluteURL(dest string) bool {
	lower := strings.ToLower(dest)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// footnoteLabels maps footnote indices to the labels used in the source so that
// references render as the author wrote them.
func footnoteLabels(doc ast.Node) map[int]string {
	labels := map[int]string{}
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if fn, ok := n.(*east.Footnote); ok && entering {
			labels[fn.Index] = string(fn.Ref)
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	return labels
}
