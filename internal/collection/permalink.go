package collection

import (
	"fmt"
	"path"
	"strings"

	"github.com/jacksosa/sitegen/internal/content"
	"github.com/jacksosa/sitegen/internal/errors"
	"github.com/jacksosa/sitegen/internal/slug"
)

// ResolvePermalink expands a permalink pattern for one page. The result is a
// pure function of the page's front matter and the pattern: the same inputs
// always produce the same URL.
//
// Supported placeholders: :name, :title, :slug, :year, :month, :day,
// :collection.
func ResolvePermalink(pattern string, page *content.Page) (string, error) {
	trailingSlash := strings.HasSuffix(pattern, "/")

	segments := strings.Split(strings.TrimPrefix(pattern, "/"), "/")
	resolved := make([]string, 0, len(segments))
	for _, seg := range segments {
		if seg == "" {
			continue
		}
		out, err := resolveSegment(seg, page)
		if err != nil {
			return "", err
		}
		resolved = append(resolved, out)
	}

	url := "/" + path.Join(resolved...)
	if trailingSlash && url != "/" {
		url += "/"
	}
	return url, nil
}

func resolveSegment(seg string, page *content.Page) (string, error) {
	if !strings.Contains(seg, ":") {
		return seg, nil
	}

	var b strings.Builder
	rest := seg
	for {
		before, after, found := strings.Cut(rest, ":")
		b.WriteString(before)
		if !found {
			break
		}
		// Placeholder runs to the next non-identifier character.
		end := len(after)
		for i, r := range after {
			if !(r == '_' || r >= 'a' && r <= 'z' || r >= '0' && r <= '9') {
				end = i
				break
			}
		}
		name, tail := after[:end], after[end:]
		value, err := placeholderValue(name, page)
		if err != nil {
			return "", err
		}
		b.WriteString(value)
		rest = tail
	}
	return b.String(), nil
}

func placeholderValue(name string, page *content.Page) (string, error) {
	switch name {
	case "name":
		return slug.Make(page.Name()), nil
	case "title":
		if page.Slug != "" {
			return page.Slug, nil
		}
		return slug.Make(page.Title()), nil
	case "slug":
		return page.Slug, nil
	case "collection":
		return page.Collection, nil
	case "year", "month", "day":
		d := page.Date()
		if d.IsZero() {
			return "", errors.PermalinkError(page.RelativePath, ":"+name)
		}
		switch name {
		case "year":
			return fmt.Sprintf("%04d", d.Year()), nil
		case "month":
			return fmt.Sprintf("%02d", int(d.Month())), nil
		default:
			return fmt.Sprintf("%02d", d.Day()), nil
		}
	default:
		return "", errors.PermalinkError(page.RelativePath, ":"+name)
	}
}

// OutputPathFor maps a site-absolute URL to a relative output file path.
// Pretty URLs become directory indexes; explicit .html URLs map directly.
func OutputPathFor(url string) string {
	trimmed := strings.TrimPrefix(url, "/")
	if trimmed == "" {
		return "index.html"
	}
	if strings.HasSuffix(trimmed, "/") {
		return path.Join(trimmed, "index.html")
	}
	if path.Ext(trimmed) != "" {
		return trimmed
	}
	return path.Join(trimmed, "index.html")
}
