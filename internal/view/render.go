// internal/view/render.go
//
// View engine: embedded templates, func-map injection, and a parse-once
// template set.
//
// Public helpers
// --------------
//   - Render         – wrap a body in the layout shell and write it to w.
//   - RenderToString – return template.HTML for a named fragment (cards).
//
// Templates live in templates/*.html and are embedded into the binary, so
// the service has no runtime dependency on the working directory.  Every
// file defines its root with {{ define "<name>" }}; all files are parsed as
// one set so fragments can call each other.
//
// Style
// -----
// • Oxford commas, two spaces after periods.

package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"sync"
)

//go:embed templates/*.html
var files embed.FS

var (
	once   sync.Once
	set    *template.Template
	setErr error
)

// Page is the data handed to the layout shell.
type Page struct {
	Head *Head
	Body template.HTML
}

// Render executes the layout with p and streams it to w with the given
// status.  Output is buffered so a template error never leaves a half-written
// page behind.
func Render(w http.ResponseWriter, status int, p Page) error {
	t, err := templates()
	if err != nil {
		return err
	}
	if p.Head == nil {
		p.Head = NewHead()
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", p); err != nil {
		return fmt.Errorf("view: layout: %w", err)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err = buf.WriteTo(w)
	return err
}

// RenderToString executes the named fragment and returns its HTML.
func RenderToString(name string, data any) (template.HTML, error) {
	t, err := templates()
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("view: %s: %w", name, err)
	}
	return template.HTML(buf.String()), nil
}

// templates parses the embedded set on first use.
func templates() (*template.Template, error) {
	once.Do(func() {
		set, setErr = template.New("view").Funcs(funcMap()).ParseFS(files, "templates/*.html")
	})
	return set, setErr
}

func funcMap() template.FuncMap {
	return template.FuncMap{
		"dict": dict,
	}
}

// dict builds a map in templates: {{ dict "k" 1 "k2" "v" }}.
func dict(kv ...any) map[string]any {
	m := make(map[string]any, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		key, _ := kv[i].(string)
		m[key] = kv[i+1]
	}
	return m
}
