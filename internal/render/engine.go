// Package render merges page content, site configuration and layout
// templates into final HTML documents.
package render

import (
	"bytes"
	"html/template"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/jacksosa/sitegen/internal/config"
	"github.com/jacksosa/sitegen/internal/content"
	"github.com/jacksosa/sitegen/internal/errors"
	"github.com/jacksosa/sitegen/internal/logfields"
)

// defaultLayout wraps pages when the site ships no layouts of its own.
const defaultLayout = `<!DOCTYPE html>
<html lang="en">
	<head>
		<meta charset="utf-8">
		<title>{{.Page.Title}} - {{.Site.Title}}</title>
	</head>
	<body>
		{{.Content}}
	</body>
</html>
`

// Engine renders pages through html/template layouts.
//
// Strictness is a deliberate, documented choice: in strict mode any
// undefined variable reference fails the build with a template error; in
// permissive mode undefined map keys render as empty values.
type Engine struct {
	cfg    *config.Config
	site   *SiteContext
	tpl    *template.Template
	strict bool
}

// NewEngine creates a renderer bound to one immutable site view.
func NewEngine(cfg *config.Config, site *SiteContext) *Engine {
	return &Engine{cfg: cfg, site: site, strict: cfg.Strict}
}

// LoadLayouts parses every .html file under the layouts directory into one
// template set. Templates are addressable by their path relative to the
// layouts directory without extension: post.html -> "post",
// partials/head.html -> "partials/head". When the directory is missing a
// built-in default layout is used instead.
func (e *Engine) LoadLayouts() error {
	missingKey := "missingkey=zero"
	if e.strict {
		missingKey = "missingkey=error"
	}
	root := template.New("").Funcs(funcMap(e.cfg.BaseURL)).Option(missingKey)

	dir := e.cfg.Dirs.Layouts
	if fi, err := os.Stat(dir); err != nil || !fi.IsDir() {
		slog.Warn("No layouts directory found; using built-in default layout", logfields.Path(dir))
		tpl, err := root.New("default").Parse(defaultLayout)
		if err != nil {
			return errors.TemplateResolutionError("default", err)
		}
		e.tpl = tpl
		return nil
	}

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(strings.ToLower(d.Name()), ".html") {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		name := strings.TrimSuffix(filepath.ToSlash(rel), ".html")

		raw, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		if _, err := root.New(name).Parse(string(raw)); err != nil {
			return errors.TemplateResolutionError(name, err)
		}
		return nil
	})
	if err != nil {
		if se, ok := err.(*errors.SiteError); ok {
			return se
		}
		return errors.Wrap(err, errors.CategoryTemplate, errors.SeverityFatal, "failed to load layouts").
			WithContext("path", dir)
	}

	if root.Lookup("default") == nil {
		if _, err := root.New("default").Parse(defaultLayout); err != nil {
			return errors.TemplateResolutionError("default", err)
		}
	}

	e.tpl = root
	return nil
}

// RenderPage executes the page's layout with the merged template context.
// contentHTML is the page body already rendered from Markdown.
func (e *Engine) RenderPage(page *content.Page, contentHTML []byte) ([]byte, error) {
	layout := e.layoutFor(page)
	tpl := e.tpl.Lookup(layout)
	if tpl == nil {
		if e.strict || layout == "default" {
			return nil, errors.LayoutNotFound(layout, page.RelativePath)
		}
		slog.Warn("Layout not found; falling back to default",
			logfields.Layout(layout), logfields.Page(page.RelativePath))
		tpl = e.tpl.Lookup("default")
		if tpl == nil {
			return nil, errors.LayoutNotFound("default", page.RelativePath)
		}
	}

	data := pageData{
		Site:    e.site,
		Page:    page,
		Content: template.HTML(contentHTML),
	}

	var buf bytes.Buffer
	if err := tpl.Execute(&buf, data); err != nil {
		return nil, errors.TemplateResolutionError(layout, err).
			WithContext("page", page.RelativePath)
	}
	return buf.Bytes(), nil
}

// layoutFor selects the layout: front matter wins, then the collection's
// configured layout, then "default".
func (e *Engine) layoutFor(page *content.Page) string {
	if page.Fields.Layout != "" {
		return page.Fields.Layout
	}
	if page.Collection != "" {
		if col, ok := e.cfg.Collections[page.Collection]; ok && col.Layout != "" {
			return col.Layout
		}
	}
	return "default"
}
