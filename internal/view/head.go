// internal/view/head.go
//
// Head collects everything that should appear inside a page’s <head>
// element.  It is scoped to a single render call.  Handlers push tags into it
// and the layout template decides where to emit each slice.
//
// Features
// --------
//   - SetTitle      – single <title> tag (last call wins).
//   - Meta, Link    – arbitrary pre-built tags with deduplication.
//   - Refresh       – <meta http-equiv="refresh"> used while a submit runs.
//   - Render helpers return template.HTML for the layout.
package view

import (
	"html/template"
	"strconv"
	"strings"
)

// Head is not safe for concurrent use; build one per request.
type Head struct {
	title string
	metas []string
	links []string
	seen  map[string]struct{}
}

// NewHead returns an empty Head.
func NewHead() *Head {
	return &Head{seen: make(map[string]struct{})}
}

// SetTitle overrides the page <title>.  The last caller wins.
func (h *Head) SetTitle(t string) { h.title = t }

// Title returns a fully formed <title> tag or an empty string.
func (h *Head) Title() template.HTML {
	if h.title == "" {
		return ""
	}
	return template.HTML("<title>" + template.HTMLEscapeString(h.title) + "</title>")
}

// Meta adds a raw <meta> tag.  Callers must pass trusted markup.
func (h *Head) Meta(tag string) { h.add("meta:"+tag, &h.metas, tag) }

// Link adds a raw <link> tag.  Callers must pass trusted markup.
func (h *Head) Link(tag string) { h.add("link:"+tag, &h.links, tag) }

// Refresh asks the browser to reload the page after secs seconds.
func (h *Head) Refresh(secs int) {
	h.Meta(`<meta http-equiv="refresh" content="` + strconv.Itoa(secs) + `">`)
}

func (h *Head) add(key string, tgt *[]string, tag string) {
	if _, dup := h.seen[key]; dup {
		return
	}
	h.seen[key] = struct{}{}
	*tgt = append(*tgt, tag)
}

func (h *Head) Metas() template.HTML { return concat(h.metas) }
func (h *Head) Links() template.HTML { return concat(h.links) }

// concat joins pre-escaped tags without a separator.
func concat(sl []string) template.HTML {
	return template.HTML(strings.Join(sl, ""))
}
