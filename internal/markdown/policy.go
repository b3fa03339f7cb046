package markdown

import (
	"regexp"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	policyOnce sync.Once
	policy     *bluemonday.Policy

	classPattern = regexp.MustCompile(`^(md|md-[a-z0-9-]+|language-[A-Za-z0-9_+#.-]+)( (md-[a-z0-9-]+|language-[A-Za-z0-9_+#.-]+))*$`)
)

// Policy returns the sanitiser that admits exactly the markup Render produces.
// The policy is built once and is safe for concurrent use.
func Policy() *bluemonday.Policy {
	policyOnce.Do(func() {
		p := bluemonday.NewPolicy()
		p.AllowElements(
			"div", "p", "h1", "h2", "h3", "h4", "h5", "h6",
			"blockquote", "pre", "code", "ul", "ol", "li",
			"em", "strong", "del", "sup", "section",
			"br", "hr", "table", "thead", "tr", "td",
		)
		p.AllowAttrs("class").Matching(classPattern).Globally()

		p.AllowStandardURLs()
		p.RequireNoFollowOnLinks(false)
		p.AllowURLSchemes("http", "https", "mailto")
		p.AllowAttrs("href").OnElements("a")
		p.AllowAttrs("title").OnElements("a", "img")
		p.AllowAttrs("target").Matching(regexp.MustCompile(`^_blank$`)).OnElements("a")
		p.AllowAttrs("rel").Matching(regexp.MustCompile(`^noopener noreferrer$`)).OnElements("a")
		p.AllowAttrs("src", "alt").OnElements("img")

		p.AllowAttrs("type").Matching(regexp.MustCompile(`^checkbox$`)).OnElements("input")
		p.AllowAttrs("disabled", "checked").OnElements("input")
		policy = p
	})
	return policy
}

// RenderSanitized renders src and passes the result through Policy.
func RenderSanitized(src string) string {
	return Policy().Sanitize(Render(src))
}
