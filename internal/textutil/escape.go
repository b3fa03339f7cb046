package textutil

import "strings"

var htmlReplacer = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
)

// EscapeHTML escapes & < > " and ' for use in element text.
func EscapeHTML(s string) string {
	return htmlReplacer.Replace(s)
}

// EscapeAttr escapes a value placed inside a double-quoted attribute.
// The character set is the same as EscapeHTML.
func EscapeAttr(s string) string {
	return htmlReplacer.Replace(s)
}

// WriteEscaped appends the escaped form of s to b.
func WriteEscaped(b *strings.Builder, s string) {
	_, _ = htmlReplacer.WriteString(b, s)
}

// SplitList splits a comma separated value, trimming entries and dropping empty ones.
func SplitList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	return out
}
