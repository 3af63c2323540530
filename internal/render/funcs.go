package render

import (
	"html/template"
	"path"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/jacksosa/sitegen/internal/content"
	"github.com/jacksosa/sitegen/internal/slug"
)

// funcMap builds the template function set. Path helpers mirror the standard
// library; absURL depends on the configured base URL.
func funcMap(baseURL string) template.FuncMap {
	titleCaser := cases.Title(language.English)
	return template.FuncMap{
		"join":       path.Join,
		"ext":        path.Ext,
		"trimsuffix": strings.TrimSuffix,
		"trimprefix": strings.TrimPrefix,
		"trimspace":  strings.TrimSpace,
		"lower":      strings.ToLower,
		"upper":      strings.ToUpper,
		"title":      titleCaser.String,
		"slugify":    slug.Make,
		"dateformat": dateFormat,
		"absurl": func(p string) string {
			if strings.HasPrefix(p, "http://") || strings.HasPrefix(p, "https://") {
				return p
			}
			return baseURL + relURL(p)
		},
		"relurl":  relURL,
		"reverse": reversePages,
		"first":   firstPages,
		"last":    lastPages,
	}
}

func relURL(p string) string {
	if !strings.HasPrefix(p, "/") {
		return "/" + p
	}
	return p
}

func dateFormat(layout string, v any) string {
	switch d := v.(type) {
	case time.Time:
		return d.Format(layout)
	case string:
		if parsed, err := time.Parse("2006-01-02", d); err == nil {
			return parsed.Format(layout)
		}
		return d
	default:
		return ""
	}
}

func reversePages(pages []*content.Page) []*content.Page {
	out := make([]*content.Page, len(pages))
	for i, p := range pages {
		out[len(pages)-1-i] = p
	}
	return out
}

func firstPages(n int, pages []*content.Page) []*content.Page {
	if n > len(pages) {
		n = len(pages)
	}
	return pages[:n]
}

func lastPages(n int, pages []*content.Page) []*content.Page {
	if n > len(pages) {
		n = len(pages)
	}
	return pages[len(pages)-n:]
}
