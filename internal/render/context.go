package render

import (
	"html/template"

	"github.com/jacksosa/sitegen/internal/config"
	"github.com/jacksosa/sitegen/internal/content"
)

// SiteContext is the site-wide view templates see as .Site. It merges the
// immutable configuration with loaded data files and aggregated collections.
type SiteContext struct {
	Title       string
	Description string
	BaseURL     string
	Author      config.Author
	Analytics   *config.Analytics
	Plugins     []string
	Params      map[string]any
	Data        map[string]any
	Collections map[string][]*content.Page
	Pages       []*content.Page
}

// NewSiteContext builds the template view of the site.
func NewSiteContext(cfg *config.Config, data map[string]any, collections map[string][]*content.Page, pages []*content.Page) *SiteContext {
	return &SiteContext{
		Title:       cfg.Title,
		Description: cfg.Description,
		BaseURL:     cfg.BaseURL,
		Author:      cfg.Author,
		Analytics:   cfg.Analytics,
		Plugins:     cfg.Plugins,
		Params:      cfg.Params,
		Data:        data,
		Collections: collections,
		Pages:       pages,
	}
}

// pageData is what a layout template is executed with.
type pageData struct {
	Site    *SiteContext
	Page    *content.Page
	Content template.HTML
}
