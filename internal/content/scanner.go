package content

import (
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/jacksosa/sitegen/internal/config"
	"github.com/jacksosa/sitegen/internal/errors"
	"github.com/jacksosa/sitegen/internal/frontmatter"
	"github.com/jacksosa/sitegen/internal/logfields"
)

// Scanner discovers content files under the configured content directory.
type Scanner struct {
	cfg           *config.Config
	includeDrafts bool
}

// NewScanner creates a content scanner for the given configuration.
func NewScanner(cfg *config.Config, includeDrafts bool) *Scanner {
	return &Scanner{cfg: cfg, includeDrafts: includeDrafts}
}

// Scan walks the content tree and returns pages and pass-through assets in
// discovery order.
//
// Markdown files whose first path segment names a declared collection become
// members of that collection. Files with malformed front matter fail the
// build in strict mode and are skipped with a warning otherwise.
func (s *Scanner) Scan() ([]*Page, []Asset, error) {
	root := s.cfg.Dirs.Content
	if _, err := os.Stat(root); err != nil {
		return nil, nil, errors.Wrap(err, errors.CategoryFileSystem, errors.SeverityFatal, "content directory not found").
			WithContext("path", root)
	}

	var pages []*Page
	var assets []Asset

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		name := d.Name()
		if strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		if s.excluded(rel) {
			slog.Debug("Skipping excluded file", logfields.Path(rel))
			return nil
		}

		if !isMarkdown(name) {
			assets = append(assets, Asset{SourcePath: path, RelativePath: rel})
			return nil
		}

		page, err := s.loadPage(path, rel)
		if err != nil {
			if s.cfg.Strict {
				return err
			}
			slog.Warn("Skipping page with malformed front matter", logfields.Path(rel), logfields.Error(err))
			return nil
		}
		if page.Fields.Draft && !s.includeDrafts {
			slog.Debug("Skipping draft", logfields.Path(rel))
			return nil
		}
		pages = append(pages, page)
		return nil
	})
	if err != nil {
		if se, ok := err.(*errors.SiteError); ok {
			return nil, nil, se
		}
		return nil, nil, errors.Wrap(err, errors.CategoryFileSystem, errors.SeverityFatal, "content scan failed").
			WithContext("path", root)
	}

	slog.Info("Content scan complete", slog.Int("pages", len(pages)), slog.Int("assets", len(assets)))
	return pages, assets, nil
}

func (s *Scanner) loadPage(path, rel string) (*Page, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryFileSystem, errors.SeverityFatal, "failed to read content file").
			WithContext("path", rel)
	}

	fm, body, _, err := frontmatter.Split(raw)
	if err != nil {
		return nil, errors.ContentParseError(rel, err)
	}
	fields, params, err := frontmatter.Parse(fm)
	if err != nil {
		return nil, errors.ContentParseError(rel, err)
	}

	page := &Page{
		SourcePath:   path,
		RelativePath: rel,
		Collection:   s.collectionFor(rel, params),
		Fields:       fields,
		Params:       params,
		Raw:          raw,
		Body:         body,
	}
	page.Slug = page.deriveSlug()

	if fi, err := os.Stat(path); err == nil {
		page.LastMod = fi.ModTime()
	}
	return page, nil
}

// collectionFor determines the owning collection of a page. An explicit
// front-matter `collection` key wins (and may name an undeclared collection,
// which the aggregator rejects or drops); otherwise the first path segment
// claims membership when it names a declared collection. A page belongs to
// at most one collection.
func (s *Scanner) collectionFor(rel string, params map[string]any) string {
	if v, ok := params["collection"]; ok {
		if name, ok := v.(string); ok && name != "" {
			return name
		}
	}
	seg, _, found := strings.Cut(rel, "/")
	if !found {
		return ""
	}
	if _, ok := s.cfg.Collections[seg]; ok {
		return seg
	}
	return ""
}

func (s *Scanner) excluded(rel string) bool {
	for _, pattern := range s.cfg.Exclude {
		if ok, err := filepath.Match(pattern, rel); err == nil && ok {
			return true
		}
	}
	return false
}

func isMarkdown(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".md", ".markdown":
		return true
	}
	return false
}
