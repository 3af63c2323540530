// Package collection groups scanned pages into configured collections and
// assigns each page its permalink and output path.
package collection

import (
	"log/slog"
	"path"
	"sort"
	"strings"

	"github.com/jacksosa/sitegen/internal/config"
	"github.com/jacksosa/sitegen/internal/content"
	"github.com/jacksosa/sitegen/internal/errors"
	"github.com/jacksosa/sitegen/internal/logfields"
)

// Site holds the aggregated result of a scan: every page with a resolved
// output path, grouped by collection.
type Site struct {
	Pages       []*content.Page            // every page that survived aggregation, discovery order
	Collections map[string][]*content.Page // collection name -> ordered members
	Standalone  []*content.Page            // pages outside any collection
}

// Aggregate groups pages by their declared collection, resolves permalinks
// and orders each collection.
//
// A page claiming a collection that is not configured fails the build in
// strict mode and is dropped with a warning otherwise. Two pages resolving
// to the same output path are always a fatal error.
func Aggregate(cfg *config.Config, pages []*content.Page) (*Site, error) {
	site := &Site{Collections: make(map[string][]*content.Page)}
	seen := map[string]string{} // output path -> source

	for _, page := range pages {
		if page.Collection != "" {
			if _, ok := cfg.Collections[page.Collection]; !ok {
				if cfg.Strict {
					return nil, errors.UnknownCollection(page.RelativePath, page.Collection)
				}
				slog.Warn("Dropping page: collection not configured",
					logfields.Page(page.RelativePath),
					logfields.Collection(page.Collection))
				continue
			}
		}

		if err := assignOutput(cfg, page); err != nil {
			return nil, err
		}

		if prev, dup := seen[page.OutputPath]; dup {
			return nil, errors.DuplicateOutputPath(page.OutputPath, []string{prev, page.RelativePath})
		}
		seen[page.OutputPath] = page.RelativePath

		site.Pages = append(site.Pages, page)
		if page.Collection != "" {
			site.Collections[page.Collection] = append(site.Collections[page.Collection], page)
		} else {
			site.Standalone = append(site.Standalone, page)
		}
	}

	for name, members := range site.Collections {
		sortPages(members, cfg.Collections[name])
	}

	return site, nil
}

// assignOutput resolves the page URL and output path. A front-matter
// permalink always wins; collection members use their collection's pattern;
// standalone pages derive pretty URLs from their source location.
func assignOutput(cfg *config.Config, page *content.Page) error {
	var url string
	var err error

	switch {
	case page.Fields.Permalink != "":
		url = page.Fields.Permalink
		if !strings.HasPrefix(url, "/") {
			url = "/" + url
		}
	case page.Collection != "":
		url, err = ResolvePermalink(cfg.Collections[page.Collection].Permalink, page)
		if err != nil {
			return err
		}
	default:
		url = standaloneURL(page)
	}

	page.URL = url
	page.OutputPath = OutputPathFor(url)
	return nil
}

// standaloneURL derives a pretty URL from the source path: about.md -> /about/,
// index.md -> /, misc/notes.md -> /misc/notes/.
func standaloneURL(page *content.Page) string {
	rel := strings.TrimSuffix(page.RelativePath, path.Ext(page.RelativePath))
	if rel == "index" {
		return "/"
	}
	rel = strings.TrimSuffix(rel, "/index")
	return "/" + rel + "/"
}

func sortPages(pages []*content.Page, col config.Collection) {
	less := func(i, j int) bool { return false }
	switch col.SortBy {
	case "date":
		less = func(i, j int) bool { return pages[i].Date().Before(pages[j].Date()) }
	case "weight":
		less = func(i, j int) bool { return pages[i].Fields.Weight < pages[j].Fields.Weight }
	case "title":
		less = func(i, j int) bool { return pages[i].Title() < pages[j].Title() }
	default:
		return // discovery order
	}
	if col.SortOrder == "desc" {
		inner := less
		less = func(i, j int) bool { return inner(j, i) }
	}
	sort.SliceStable(pages, less)
}
