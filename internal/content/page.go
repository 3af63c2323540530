package content

import (
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/jacksosa/sitegen/internal/frontmatter"
	"github.com/jacksosa/sitegen/internal/slug"
)

// Page represents one content file: a standalone page or a collection member.
type Page struct {
	SourcePath   string             // Absolute path to the source file
	RelativePath string             // Path relative to the content directory
	Collection   string             // Owning collection name, empty for standalone pages
	Fields       frontmatter.Fields // Typed base front matter fields
	Params       map[string]any     // Full front matter map for templates
	Raw          []byte             // Full source bytes, used for build-cache fingerprints
	Body         []byte             // Markdown body with front matter removed
	HTML         []byte             // Rendered body, populated by the render stage
	Slug         string             // URL-safe name segment
	OutputPath   string             // Relative output path (e.g. projects/demo/index.html)
	URL          string             // Site-absolute URL (e.g. /projects/demo/)
	LastMod      time.Time          // File mtime, overridden from git history when enabled
}

// Asset is a non-markdown content file copied through unchanged.
type Asset struct {
	SourcePath   string
	RelativePath string
}

// Title returns the page title, falling back to a name derived from the
// source file when the front matter does not declare one.
func (p *Page) Title() string {
	if p.Fields.Title != "" {
		return p.Fields.Title
	}
	return strings.ReplaceAll(baseName(p.RelativePath), "-", " ")
}

// Name returns the permalink :name value: the front matter name, else the
// source file base name.
func (p *Page) Name() string {
	if p.Fields.Name != "" {
		return p.Fields.Name
	}
	return baseName(p.RelativePath)
}

// Date returns the page date: front matter date, else a date encoded in a
// Jekyll-style file name, else the zero time.
func (p *Page) Date() time.Time {
	if !p.Fields.Date.IsZero() {
		return p.Fields.Date
	}
	if d, _, ok := splitDatedName(baseName(p.RelativePath)); ok {
		return d
	}
	return time.Time{}
}

// datedName matches Jekyll-style post file names: 2016-02-19-hello-world.
var datedName = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})-(.+)$`)

// splitDatedName extracts the date and remaining slug from a dated file name.
func splitDatedName(name string) (time.Time, string, bool) {
	m := datedName.FindStringSubmatch(name)
	if m == nil {
		return time.Time{}, "", false
	}
	d, err := time.Parse("2006-01-02", m[1]+"-"+m[2]+"-"+m[3])
	if err != nil {
		return time.Time{}, "", false
	}
	return d, m[4], true
}

// deriveSlug picks the slug for a page: explicit slug, then name, then the
// file name (minus any date prefix), then the title.
func (p *Page) deriveSlug() string {
	if p.Fields.Slug != "" {
		return slug.Make(p.Fields.Slug)
	}
	if p.Fields.Name != "" {
		return slug.Make(p.Fields.Name)
	}
	base := baseName(p.RelativePath)
	if _, rest, ok := splitDatedName(base); ok {
		return slug.Make(rest)
	}
	if base != "" && base != "index" {
		return slug.Make(base)
	}
	return slug.Make(p.Fields.Title)
}

func baseName(relPath string) string {
	base := filepath.Base(relPath)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
