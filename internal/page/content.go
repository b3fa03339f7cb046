package page

import (
	"strings"

	"github.com/SummonTheCat/smn-site-ciri/internal/projectinfo"
	"github.com/SummonTheCat/smn-site-ciri/internal/textutil"
)

// renderContent emits the project blocks in a fixed order, skipping any block
// whose data is empty.
func (c *Composer) renderContent(info projectinfo.Info, markdownSource string) string {
	var b strings.Builder

	if info.Name != "" {
		b.WriteString(`<h1 class="project-title">`)
		textutil.WriteEscaped(&b, info.Name)
		b.WriteString(`</h1>`)
	}

	if info.Description != "" {
		b.WriteString(`<p class="project-description">`)
		textutil.WriteEscaped(&b, info.Description)
		b.WriteString(`</p>`)
	}

	if info.State != "" {
		b.WriteString(`<div class="state-box project-state"><span class="state-dot"></span><span class="label">State:</span> <span class="value">`)
		textutil.WriteEscaped(&b, info.State)
		b.WriteString(`</span></div>`)
	}

	if len(info.Videos) > 0 {
		b.WriteString(`<section class="project-videos"><div class="video-grid">`)
		for _, src := range info.Videos {
			b.WriteString(`<video class="video-item" controls preload="metadata" src="`)
			b.WriteString(textutil.EscapeAttr(src))
			b.WriteString(`"></video>`)
		}
		b.WriteString(`</div></section>`)
	}

	if len(info.Images) > 0 {
		b.WriteString(`<section class="project-images"><div class="image-grid">`)
		for _, src := range info.Images {
			b.WriteString(`<img class="image-item" src="`)
			b.WriteString(textutil.EscapeAttr(src))
			b.WriteString(`" alt="" loading="lazy"/>`)
		}
		b.WriteString(`</div></section>`)
	}

	if strings.TrimSpace(markdownSource) != "" {
		b.WriteString(`<section class="project-content">`)
		b.WriteString(c.render(markdownSource))
		b.WriteString(`</section>`)
	}

	if len(info.Tools) > 0 || len(info.Links) > 0 {
		b.WriteString(`<section class="meta-grid">`)
		if len(info.Tools) > 0 {
			b.WriteString(`<div class="meta-card"><h2 class="section-title">Tools</h2><table class="mini-table"><tbody>`)
			for _, tool := range info.Tools {
				b.WriteString(`<tr><td class="cell-value">`)
				textutil.WriteEscaped(&b, tool)
				b.WriteString(`</td></tr>`)
			}
			b.WriteString(`</tbody></table></div>`)
		}
		if len(info.Links) > 0 {
			b.WriteString(`<div class="meta-card"><h2 class="section-title">Links</h2><table class="mini-table"><tbody>`)
			for _, link := range info.Links {
				b.WriteString(`<tr><td class="cell-value"><a class="link" href="`)
				b.WriteString(textutil.EscapeAttr(link.Link))
				b.WriteString(`" target="_blank" rel="noopener">`)
				textutil.WriteEscaped(&b, link.Description)
				b.WriteString(`</a></td></tr>`)
			}
			b.WriteString(`</tbody></table></div>`)
		}
		b.WriteString(`</section>`)
	}

	return b.String()
}
