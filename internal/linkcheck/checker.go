package linkcheck

import (
	"context"
	"io/fs"
	"log/slog"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jacksosa/sitegen/internal/logfields"
)

// Broken describes an internal link whose target does not exist in the
// output directory.
type Broken struct {
	Page string // page containing the link, relative to the output dir
	URL  string // the offending link value
	Tag  string
}

// Result summarizes a link-check run over a built site.
type Result struct {
	PagesChecked  int
	LinksChecked  int
	ExternalLinks []string // deduplicated, reported but never fetched
	Broken        []Broken
}

// Checker verifies internal links against the files a build produced.
type Checker struct {
	outputDir string
	baseURL   string
}

// NewChecker returns a Checker for a built site rooted at outputDir.
func NewChecker(outputDir, baseURL string) *Checker {
	return &Checker{outputDir: outputDir, baseURL: baseURL}
}

// Run walks every .html file under the output directory and verifies that
// each internal link resolves to a file on disk. External links are
// collected for reporting only.
func (c *Checker) Run(ctx context.Context) (*Result, error) {
	result := &Result{}
	external := map[string]struct{}{}

	err := filepath.WalkDir(c.outputDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".html") {
			return nil
		}

		rel, relErr := filepath.Rel(c.outputDir, p)
		if relErr != nil {
			rel = p
		}
		links, extractErr := ExtractLinks(p, c.baseURL)
		if extractErr != nil {
			return extractErr
		}

		result.PagesChecked++
		for _, link := range links {
			result.LinksChecked++
			if !link.IsInternal {
				if isExternalURL(link.URL) {
					external[link.URL] = struct{}{}
				}
				continue
			}
			if !c.targetExists(link.URL, rel) {
				result.Broken = append(result.Broken, Broken{Page: rel, URL: link.URL, Tag: link.Tag})
				slog.Warn("Broken internal link",
					logfields.Path(rel),
					slog.String("url", link.URL),
					slog.String("tag", link.Tag))
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for u := range external {
		result.ExternalLinks = append(result.ExternalLinks, u)
	}
	sort.Strings(result.ExternalLinks)
	return result, nil
}

// targetExists resolves an internal link to a path in the output directory.
// Pretty URLs are honored: /about/ matches about/index.html, and a path
// without an extension matches either a file or a directory index.
func (c *Checker) targetExists(link, fromPage string) bool {
	u, err := url.Parse(link)
	if err != nil {
		return false
	}
	target := u.Path
	if target == "" {
		// fragment-only or query-only reference to the same page
		return true
	}

	if !path.IsAbs(target) {
		target = path.Join("/", path.Dir(filepath.ToSlash(fromPage)), target)
	}
	target = strings.TrimPrefix(path.Clean(target), "/")
	if target == "" || target == "." {
		target = "index.html"
	}

	candidates := []string{target}
	if path.Ext(target) == "" {
		candidates = append(candidates, path.Join(target, "index.html"))
	}
	for _, cand := range candidates {
		fi, statErr := os.Stat(filepath.Join(c.outputDir, filepath.FromSlash(cand)))
		if statErr == nil && !fi.IsDir() {
			return true
		}
		if statErr == nil && fi.IsDir() {
			// bare directory without index is not a served page
			continue
		}
	}
	return false
}

func isExternalURL(link string) bool {
	return strings.HasPrefix(link, "http://") || strings.HasPrefix(link, "https://")
}
